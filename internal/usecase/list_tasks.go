package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/timegrid/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	All bool // Include subtasks (depth-first, below their parent)
}

// TaskItem is one listed task.
// Fields are ordered to minimize memory padding.
type TaskItem struct {
	Task         *domain.Task
	Depth        int // 0 for top-level tasks
	SubtaskCount int // Descendants at any depth
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Items []TaskItem
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	tasks domain.TaskReader
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskReader) *ListTasks {
	return &ListTasks{tasks: tasks}
}

// Execute lists tasks in store order.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	roots, err := uc.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	out := &ListTasksOutput{}
	var walk func(tasks []*domain.Task, depth int)
	walk = func(tasks []*domain.Task, depth int) {
		for _, t := range tasks {
			out.Items = append(out.Items, TaskItem{
				Task:         t,
				Depth:        depth,
				SubtaskCount: domain.TotalSubtaskCount(t),
			})
			if in.All {
				walk(t.SubTasks, depth+1)
			}
		}
	}
	walk(roots, 0)

	return out, nil
}
