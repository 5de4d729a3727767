package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/runoshun/timegrid/internal/domain"
)

// ImportTasksInput contains the parameters for importing a task file.
type ImportTasksInput struct {
	Path   string // YAML or JSON task file
	DryRun bool   // Parse and validate without saving
}

// ImportedTask is one node written (or that would be written) to the store.
// Fields are ordered to minimize memory padding.
type ImportedTask struct {
	Task    *domain.Task
	Depth   int
	Updated bool // A task with the same ID already existed
}

// ImportTasksOutput contains the result of an import.
type ImportTasksOutput struct {
	Tasks   []ImportedTask // Depth-first, parents before children
	Created int
	Updated int
}

// ImportTasks is the use case for loading task trees from a file.
// Fields are ordered to minimize memory padding.
type ImportTasks struct {
	tasks        domain.TaskRepository
	files        domain.TaskFileReader
	configLoader domain.ConfigLoader
	logger       domain.Logger
	newID        func() string
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(
	tasks domain.TaskRepository,
	files domain.TaskFileReader,
	configLoader domain.ConfigLoader,
	logger domain.Logger,
) *ImportTasks {
	return &ImportTasks{
		tasks:        tasks,
		files:        files,
		configLoader: configLoader,
		logger:       logger,
		newID:        uuid.NewString,
	}
}

// Execute parses the file, assigns ids and saves every node.
func (uc *ImportTasks) Execute(ctx context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	settings, err := loadLayoutSettings(uc.configLoader)
	if err != nil {
		return nil, err
	}

	roots, err := uc.files.ReadTaskFile(in.Path, settings.loc)
	if err != nil {
		return nil, err
	}
	uc.assignIDs(roots)

	nodes := domain.Flatten(roots)
	if err := uc.checkParents(ctx, roots, nodes); err != nil {
		return nil, err
	}

	depths := make(map[string]int, len(nodes))
	out := &ImportTasksOutput{Tasks: make([]ImportedTask, 0, len(nodes))}
	for _, node := range nodes {
		existing, err := uc.tasks.Get(ctx, node.ID)
		if err != nil {
			return nil, fmt.Errorf("get task %s: %w", node.ID, err)
		}

		depth := 0
		if d, ok := depths[node.ParentID]; ok {
			depth = d + 1
		}
		depths[node.ID] = depth

		item := ImportedTask{Task: node, Depth: depth, Updated: existing != nil}
		out.Tasks = append(out.Tasks, item)
		if item.Updated {
			out.Updated++
		} else {
			out.Created++
		}

		if in.DryRun {
			continue
		}
		if err := uc.tasks.Save(ctx, node); err != nil {
			return nil, fmt.Errorf("save task %s: %w", node.ID, err)
		}
		uc.logger.Debug(node.ID, "import", "saved from "+in.Path)
	}

	if !in.DryRun {
		uc.logger.Info("", "import", fmt.Sprintf("imported %s: %d created, %d updated", in.Path, out.Created, out.Updated))
	}
	return out, nil
}

// assignIDs fills empty ids in the tree.
func (uc *ImportTasks) assignIDs(tasks []*domain.Task) {
	for _, t := range tasks {
		if t.ID == "" {
			t.ID = uc.newID()
		}
		uc.assignIDs(t.SubTasks)
	}
}

// checkParents verifies that top-level tasks attached to a parent point at a
// task that is either in the file or already stored.
func (uc *ImportTasks) checkParents(ctx context.Context, roots, nodes []*domain.Task) error {
	inFile := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		inFile[n.ID] = true
	}

	for _, root := range roots {
		if root.IsRoot() || inFile[root.ParentID] {
			continue
		}
		parent, err := uc.tasks.Get(ctx, root.ParentID)
		if err != nil {
			return fmt.Errorf("get parent %s: %w", root.ParentID, err)
		}
		if parent == nil {
			return fmt.Errorf("%w: parent %s of %q", domain.ErrTaskNotFound, root.ParentID, root.Title)
		}
	}
	return nil
}
