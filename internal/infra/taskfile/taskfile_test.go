package taskfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/timegrid/internal/domain"
)

const sampleYAML = `
tasks:
  - id: planning
    title: Sprint planning
    description: Q4 goals
    start: 2026-10-12 09:00
    end: 2026-10-12T10:30
    color: "#3b82f6"
    subtasks:
      - title: Collect tickets
        completed: true
      - id: estimate
        title: Estimate
        subtasks:
          - title: Story points
  - title: Offsite
    start: 2026-10-15
    end: 2026-10-16T18:00:00+02:00
    parent: roadmap
`

func TestParse_YAML(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)

	roots, err := Parse([]byte(sampleYAML), FormatYAML, loc)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	planning := roots[0]
	assert.Equal(t, "planning", planning.ID)
	assert.Equal(t, "Q4 goals", planning.Description)
	assert.Equal(t, "#3b82f6", planning.Color)
	assert.True(t, planning.IsRoot())
	require.NotNil(t, planning.Start)
	assert.Equal(t, time.Date(2026, 10, 12, 9, 0, 0, 0, loc), *planning.Start)
	assert.Equal(t, 90*time.Minute, planning.Duration())

	require.Len(t, planning.SubTasks, 2)
	assert.True(t, planning.SubTasks[0].Completed)
	assert.Equal(t, "planning", planning.SubTasks[0].ParentID)
	assert.False(t, planning.SubTasks[0].IsScheduled())
	assert.Equal(t, 3, domain.TotalSubtaskCount(planning))
	assert.Equal(t, "estimate", planning.SubTasks[1].SubTasks[0].ParentID)

	offsite := roots[1]
	assert.Empty(t, offsite.ID)
	assert.Equal(t, "roadmap", offsite.ParentID)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, loc), *offsite.Start)
	assert.Equal(t, time.Date(2026, 10, 16, 16, 0, 0, 0, time.UTC), offsite.End.UTC())
}

func TestParse_JSON(t *testing.T) {
	data := []byte(`{
	"tasks": [
		{"id": "a", "title": "Review", "start": "2026-10-12T14:00", "end": "2026-10-12T15:00",
		 "subtasks": [{"title": "Read diff"}]}
	]
}`)

	roots, err := Parse(data, FormatJSON, time.UTC)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, time.Date(2026, 10, 12, 14, 0, 0, 0, time.UTC), *roots[0].Start)
	require.Len(t, roots[0].SubTasks, 1)
	assert.Equal(t, "Read diff", roots[0].SubTasks[0].Title)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		want   string
	}{
		{"empty", "  \n", FormatYAML, "file is empty"},
		{"no tasks", "tasks: []", FormatYAML, "no tasks"},
		{"bad yaml", "tasks: [", FormatYAML, "invalid task file"},
		{"bad json", `{"tasks": [}`, FormatJSON, "invalid task file"},
		{"missing title", "tasks:\n  - id: x\n", FormatYAML, "tasks[0]"},
		{"bad time", "tasks:\n  - title: x\n    start: noon\n", FormatYAML, "tasks[0].start"},
		{"inverted", "tasks:\n  - title: x\n    start: 2026-10-12 10:00\n    end: 2026-10-12 09:00\n", FormatYAML, "ends before it starts"},
		{
			"nested parent",
			"tasks:\n  - title: x\n    subtasks:\n      - title: y\n        parent: z\n",
			FormatYAML,
			"tasks[0].subtasks[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format, time.UTC)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidTaskFile)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"tasks.yaml": FormatYAML,
		"tasks.YML":  FormatYAML,
		"tasks.json": FormatJSON,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("tasks.csv")
	assert.ErrorIs(t, err, domain.ErrInvalidTaskFile)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "week.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	roots, err := ParseFile(path, time.UTC)
	require.NoError(t, err)
	assert.Len(t, roots, 2)

	_, err = ParseFile(filepath.Join(dir, "missing.yaml"), time.UTC)
	assert.Error(t, err)
}
