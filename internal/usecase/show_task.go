package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/timegrid/internal/domain"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	ID string
}

// ShowTaskOutput contains a task with its subtasks attached.
type ShowTaskOutput struct {
	Task         *domain.Task
	SubtaskCount int
}

// ShowTask is the use case for looking up one task of the tree.
type ShowTask struct {
	tasks domain.TaskReader
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskReader) *ShowTask {
	return &ShowTask{tasks: tasks}
}

// Execute finds the task at any depth.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	roots, err := uc.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	task := domain.FindTask(roots, in.ID)
	if task == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, in.ID)
	}

	return &ShowTaskOutput{
		Task:         task,
		SubtaskCount: domain.TotalSubtaskCount(task),
	}, nil
}
