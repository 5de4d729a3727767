// Package taskfile parses task trees from YAML or JSON files.
//
// Format:
//
//	tasks:
//	  - id: planning          # optional, generated on import when empty
//	    title: Sprint planning
//	    start: 2026-10-12 09:00
//	    end: 2026-10-12 10:30
//	    color: "#3b82f6"
//	    parent: roadmap       # top-level only: attach to an existing task
//	    subtasks:
//	      - title: Collect tickets
package taskfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/timegrid/internal/domain"
)

// Format is a task file encoding.
type Format int

// Formats.
const (
	FormatYAML Format = iota
	FormatJSON
)

// timeLayouts are tried in order when parsing start and end values.
// Layouts without an offset are read in the caller's location.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// document is the top-level shape of a task file.
type document struct {
	Tasks []entry `json:"tasks" yaml:"tasks"`
}

// entry is one task as written in a file.
// Fields are ordered to minimize memory padding.
type entry struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Start       string  `json:"start" yaml:"start"`
	End         string  `json:"end" yaml:"end"`
	Color       string  `json:"color" yaml:"color"`
	Parent      string  `json:"parent" yaml:"parent"`
	SubTasks    []entry `json:"subtasks" yaml:"subtasks"`
	Completed   bool    `json:"completed" yaml:"completed"`
}

// Reader implements domain.TaskFileReader.
type Reader struct{}

// Ensure Reader implements domain.TaskFileReader.
var _ domain.TaskFileReader = Reader{}

// ReadTaskFile parses the file at path.
func (Reader) ReadTaskFile(path string, loc *time.Location) ([]*domain.Task, error) {
	return ParseFile(path, loc)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: unsupported extension %q (want .yaml, .yml or .json)", domain.ErrInvalidTaskFile, filepath.Ext(path))
	}
}

// ParseFile reads and parses the task file at path.
func ParseFile(path string, loc *time.Location) ([]*domain.Task, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return Parse(data, format, loc)
}

// Parse decodes a task tree. Ids may be empty and are left for the caller
// to fill; the tree itself carries parentage, so subtasks of a task without
// an id have an empty ParentID until domain.Flatten links them.
func Parse(data []byte, format Format, loc *time.Location) ([]*domain.Task, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrInvalidTaskFile)
	}
	if loc == nil {
		loc = time.Local
	}

	var doc document
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTaskFile, err)
	}
	if len(doc.Tasks) == 0 {
		return nil, fmt.Errorf("%w: no tasks", domain.ErrInvalidTaskFile)
	}

	roots := make([]*domain.Task, 0, len(doc.Tasks))
	for i := range doc.Tasks {
		task, err := convert(&doc.Tasks[i], "", loc, fmt.Sprintf("tasks[%d]", i))
		if err != nil {
			return nil, err
		}
		roots = append(roots, task)
	}
	return roots, nil
}

func convert(e *entry, parentID string, loc *time.Location, path string) (*domain.Task, error) {
	if parentID != "" && e.Parent != "" {
		return nil, fmt.Errorf("%w: %s: parent is only allowed on top-level tasks", domain.ErrInvalidTaskFile, path)
	}

	task := &domain.Task{
		ID:          strings.TrimSpace(e.ID),
		Title:       strings.TrimSpace(e.Title),
		Description: e.Description,
		Color:       e.Color,
		Completed:   e.Completed,
		ParentID:    parentID,
	}
	if task.ParentID == "" {
		task.ParentID = strings.TrimSpace(e.Parent)
	}
	if task.Title == "" {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidTaskFile, path, domain.ErrEmptyTitle)
	}

	var err error
	if task.Start, err = parseTime(e.Start, loc); err != nil {
		return nil, fmt.Errorf("%w: %s.start: %v", domain.ErrInvalidTaskFile, path, err)
	}
	if task.End, err = parseTime(e.End, loc); err != nil {
		return nil, fmt.Errorf("%w: %s.end: %v", domain.ErrInvalidTaskFile, path, err)
	}
	if task.IsScheduled() && task.End.Before(*task.Start) {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidTaskFile, path, domain.ErrInvalidTimeRange)
	}

	for i := range e.SubTasks {
		sub, err := convert(&e.SubTasks[i], task.ID, loc, fmt.Sprintf("%s.subtasks[%d]", path, i))
		if err != nil {
			return nil, err
		}
		task.SubTasks = append(task.SubTasks, sub)
	}
	return task, nil
}

func parseTime(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time %q", s)
}
