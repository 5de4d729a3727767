// Package domain contains core business entities and interfaces.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Task represents a time-ranged work item that may carry nested subtasks.
// Fields are ordered to minimize memory padding.
type Task struct {
	Start       *time.Time `json:"startTime,omitempty" yaml:"startTime,omitempty"` // Scheduled start (nil = unscheduled)
	End         *time.Time `json:"endTime,omitempty" yaml:"endTime,omitempty"`     // Scheduled end (nil = unscheduled)
	ID          string     `json:"id" yaml:"id"`                                   // Stable identifier
	Title       string     `json:"title" yaml:"title"`                             // Title (required)
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string     `json:"color,omitempty" yaml:"color,omitempty"`       // Hex color used by renderers
	ParentID    string     `json:"parentId,omitempty" yaml:"parentId,omitempty"` // Parent task ID (empty = top-level)
	SubTasks    []*Task    `json:"subTasks,omitempty" yaml:"subTasks,omitempty"` // Ordered children
	Completed   bool       `json:"completed" yaml:"completed"`
}

// Validate checks the fields a store requires before saving the task.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if t.Start != nil && t.End != nil && t.End.Before(*t.Start) {
		return fmt.Errorf("%w: %s", ErrInvalidTimeRange, t.ID)
	}
	return nil
}

// IsRoot returns true if this is a top-level task (no parent).
func (t *Task) IsRoot() bool {
	return t.ParentID == ""
}

// IsScheduled returns true if both start and end are set.
func (t *Task) IsScheduled() bool {
	return t.Start != nil && t.End != nil
}

// Duration returns the scheduled length of the task, or zero when unscheduled.
func (t *Task) Duration() time.Duration {
	if !t.IsScheduled() {
		return 0
	}
	return t.End.Sub(*t.Start)
}

// Node returns a shallow copy of the task without its children.
// Stores persist tasks one node at a time and link them through ParentID.
func (t *Task) Node() *Task {
	node := *t
	node.SubTasks = nil
	return &node
}

// TotalSubtaskCount returns the number of descendants of task at any depth.
// A nil task or a task without children has zero descendants.
func TotalSubtaskCount(task *Task) int {
	if task == nil {
		return 0
	}
	total := 0
	for _, sub := range task.SubTasks {
		total += 1 + TotalSubtaskCount(sub)
	}
	return total
}

// BuildTree links a flat task list into top-level tasks with SubTasks attached.
// Input order is preserved among siblings. Tasks whose parent is not part of
// flat become top-level tasks with ParentID cleared. Existing SubTasks on the
// inputs are replaced.
func BuildTree(flat []*Task) []*Task {
	byID := make(map[string]*Task, len(flat))
	nodes := make([]*Task, 0, len(flat))
	for _, t := range flat {
		if t == nil {
			continue
		}
		node := t.Node()
		nodes = append(nodes, node)
		if node.ID != "" {
			byID[node.ID] = node
		}
	}

	var roots []*Task
	for _, node := range nodes {
		parent, ok := byID[node.ParentID]
		if node.IsRoot() || !ok || parent == node {
			node.ParentID = ""
			roots = append(roots, node)
			continue
		}
		parent.SubTasks = append(parent.SubTasks, node)
	}
	return roots
}

// Flatten walks roots depth-first (parent before children) and returns
// every task as a node with ParentID set to its parent's ID.
func Flatten(roots []*Task) []*Task {
	var out []*Task
	var walk func(parentID string, tasks []*Task)
	walk = func(parentID string, tasks []*Task) {
		for _, t := range tasks {
			if t == nil {
				continue
			}
			node := t.Node()
			if parentID != "" {
				node.ParentID = parentID
			}
			out = append(out, node)
			walk(t.ID, t.SubTasks)
		}
	}
	walk("", roots)
	return out
}

// ScheduledRoots returns the top-level tasks from tasks that have both a
// start and an end. Layout only accepts tasks filtered this way.
func ScheduledRoots(tasks []*Task) []*Task {
	var out []*Task
	for _, t := range tasks {
		if t == nil || !t.IsRoot() || !t.IsScheduled() {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FindTask searches roots and their descendants for id.
func FindTask(roots []*Task, id string) *Task {
	for _, t := range roots {
		if t == nil {
			continue
		}
		if t.ID == id {
			return t
		}
		if found := FindTask(t.SubTasks, id); found != nil {
			return found
		}
	}
	return nil
}
