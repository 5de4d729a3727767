package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/layout"
)

var weekStart = time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 10, day, hour, minute, 0, 0, time.UTC)
}

func newTask(id, title string, start, end time.Time) *domain.Task {
	return &domain.Task{ID: id, Title: title, Start: &start, End: &end}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, " svg ": FormatSVG} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestNewTimelineDoc(t *testing.T) {
	trip := newTask("trip", "Trip", at(16, 22, 0), at(19, 2, 0))
	trip.SubTasks = []*domain.Task{{ID: "pack", Title: "Pack"}}
	review := newTask("review", "Review", at(12, 9, 0), at(12, 11, 0))
	review.Color = "#22c55e"

	tl := layout.LayoutTimeline([]*domain.Task{trip, review}, weekStart, layout.ZoomOut)
	doc := NewTimelineDoc(tl)

	assert.Equal(t, "out", doc.Zoom)
	assert.Equal(t, weekStart, doc.WeekStart)
	assert.Equal(t, 960.0, doc.DayWidth)
	require.Len(t, doc.Blocks, 2)

	byTask := map[string]BlockDoc{}
	for _, b := range doc.Blocks {
		byTask[b.TaskID] = b
	}
	assert.NotEqual(t, "trip", byTask["trip"].Key)
	assert.True(t, strings.HasPrefix(byTask["trip"].Key, "trip_week_"))
	assert.Equal(t, 1, byTask["trip"].SubtaskCount)
	assert.Equal(t, DefaultColor, byTask["trip"].Color)
	assert.True(t, byTask["trip"].Boundary)
	assert.Equal(t, "review", byTask["review"].Key)
	assert.Equal(t, "#22c55e", byTask["review"].Color)
	assert.Equal(t, 960.0+360, byTask["review"].X)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, doc))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	blocks := decoded["blocks"].([]any)
	assert.Contains(t, blocks[0].(map[string]any), "taskId")
	assert.Contains(t, blocks[0].(map[string]any), "key")
}

func TestNewCalendarDoc(t *testing.T) {
	tasks := []*domain.Task{
		newTask("a", "A", at(14, 9, 0), at(14, 10, 0)),
		newTask("b", "B", at(14, 9, 30), at(14, 11, 0)),
	}
	vp := layout.Viewport{}

	day := NewCalendarDoc(domain.ViewDay, at(14, 0, 0), []layout.DayColumn{layout.LayoutDay(tasks, at(14, 0, 0), vp)}, nil, vp)
	assert.Equal(t, "day", day.View)
	assert.Equal(t, 64.0, day.PixelsPerHour)
	assert.Equal(t, 24*64.0, day.DayHeight)
	require.Len(t, day.Days, 1)
	require.Len(t, day.Days[0].Entries, 2)
	assert.Equal(t, "a", day.Days[0].Entries[0].TaskID)
	assert.Equal(t, 2, day.Days[0].Entries[1].GroupSize)
	assert.Nil(t, day.Month)

	grid := layout.LayoutMonth(tasks, at(14, 0, 0), time.Sunday, vp)
	month := NewCalendarDoc(domain.ViewMonth, at(14, 0, 0), nil, &grid, vp)
	require.NotNil(t, month.Month)
	assert.Len(t, month.Month.Cells, layout.MonthCells)
	assert.False(t, month.Month.Cells[0].InMonth)
}

func TestNewTaskDoc(t *testing.T) {
	root := &domain.Task{ID: "r", Title: "Root", SubTasks: []*domain.Task{
		{ID: "c", Title: "Child", ParentID: "r", SubTasks: []*domain.Task{{ID: "g", Title: "Grandchild", ParentID: "c"}}},
	}}

	doc := NewTaskDoc(root)

	assert.Equal(t, 2, doc.SubtaskCount)
	require.Len(t, doc.SubTasks, 1)
	assert.Equal(t, "r", doc.SubTasks[0].ParentID)
	assert.Equal(t, 1, doc.SubTasks[0].SubtaskCount)
}

func TestTimelineSVG(t *testing.T) {
	task := newTask("x", `R&D <sync>`, at(12, 9, 0), at(12, 11, 0))
	task.SubTasks = []*domain.Task{{ID: "y"}}
	tl := layout.LayoutTimeline([]*domain.Task{task}, weekStart, layout.ZoomOut)

	svg := TimelineSVG(tl)

	assert.True(t, strings.HasPrefix(svg, `<?xml version="1.0"`))
	assert.Contains(t, svg, `width="6720"`)
	assert.Contains(t, svg, `data-task-id="x" data-key="x"`)
	assert.Contains(t, svg, `<rect x="1320" y="48" width="80" height="60" rx="4" fill="#6C5CE7"/>`)
	assert.Contains(t, svg, "R&amp;D &lt;sync&gt;")
	assert.Contains(t, svg, ">+1</text>")
	assert.Contains(t, svg, "Mon 10/12")
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
}

func TestCalendarSVG(t *testing.T) {
	tasks := []*domain.Task{
		newTask("a", "A", at(14, 9, 0), at(14, 10, 0)),
		newTask("b", "B", at(14, 9, 30), at(14, 11, 0)),
	}
	col := layout.LayoutDay(tasks, at(14, 0, 0), layout.Viewport{Narrow: true})

	svg := CalendarSVG([]layout.DayColumn{col}, layout.Viewport{Narrow: true})

	assert.Contains(t, svg, `width="288"`)
	assert.Contains(t, svg, `height="1192"`)
	assert.Contains(t, svg, `<rect x="48" y="472" width="117.6" height="48" rx="3" fill="#6C5CE7"/>`)
	assert.Contains(t, svg, `data-task-id="b"`)
	assert.Contains(t, svg, "Wed 2026-10-14")
}

func TestNum(t *testing.T) {
	assert.Equal(t, "0", num(0))
	assert.Equal(t, "12.5", num(12.5))
	assert.Equal(t, "33.33", num(100.0/3))
	assert.Equal(t, "-4", num(-4))
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab  ", fit("ab", 4))
	assert.Equal(t, "abc…", fit("abcdef", 4))
	assert.Equal(t, "a", fit("abc", 1))
	assert.Equal(t, "", fit("abc", 0))
}

func TestTimelineText(t *testing.T) {
	tasks := []*domain.Task{
		newTask("a", "Alpha", at(12, 0, 0), at(12, 12, 0)),
		newTask("b", "Beta", at(12, 6, 0), at(12, 18, 0)),
	}
	tl := layout.LayoutTimeline(tasks, weekStart, layout.ZoomOut)

	out := TimelineText(tl, 70, DefaultStyles(), at(14, 8, 0), "")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Sun 10/11")
	assert.Contains(t, lines[0], "Wed 10/14")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Beta")
}

func TestTimelineText_Empty(t *testing.T) {
	tl := layout.LayoutTimeline(nil, weekStart, layout.ZoomIn)
	assert.Contains(t, TimelineText(tl, 80, DefaultStyles(), at(14, 0, 0), ""), "no scheduled tasks this week")
}

func TestBlockLabel(t *testing.T) {
	task := newTask("trip", "Trip", at(16, 22, 0), at(19, 2, 0))
	task.SubTasks = []*domain.Task{{ID: "c"}}

	first := layout.LayoutTimeline([]*domain.Task{task}, weekStart, layout.ZoomOut).Blocks[0]
	second := layout.LayoutTimeline([]*domain.Task{task}, weekStart.AddDate(0, 0, 7), layout.ZoomOut).Blocks[0]

	assert.Equal(t, "Trip +1›", blockLabel(first))
	assert.Equal(t, "‹Trip +1", blockLabel(second))
}

func TestTimelineAgenda(t *testing.T) {
	done := newTask("a", "Alpha", at(12, 9, 0), at(12, 10, 0))
	done.Completed = true
	tl := layout.LayoutTimeline([]*domain.Task{done, newTask("n", "Night", at(13, 22, 0), at(14, 1, 0))}, weekStart, layout.ZoomOut)

	out := TimelineAgenda(tl, DefaultStyles())

	assert.Contains(t, out, "Mon 10/12 09:00-10:00  Alpha")
	assert.Contains(t, out, "Tue 10/13 22:00 - Wed 10/14 01:00  Night")
}

func TestDayText(t *testing.T) {
	tasks := []*domain.Task{
		newTask("a", "Alpha", at(14, 9, 0), at(14, 10, 0)),
		newTask("b", "Beta", at(14, 9, 30), at(14, 11, 0)),
		newTask("n", "Night", at(14, 22, 0), at(15, 2, 0)),
	}
	col := layout.LayoutDay(tasks, at(14, 0, 0), layout.Viewport{})

	out := DayText(col, DefaultStyles(), "")

	assert.Contains(t, out, "Wed 2026-10-14")
	assert.Contains(t, out, "09:00-10:00  Alpha  [1/2]")
	assert.Contains(t, out, "09:30-11:00  Beta  [2/2]")
	assert.Contains(t, out, "22:00-24:00  Night›")

	empty := DayText(layout.LayoutDay(nil, at(20, 0, 0), layout.Viewport{}), DefaultStyles(), "")
	assert.Contains(t, empty, "nothing scheduled")
}

func TestMonthText(t *testing.T) {
	tasks := []*domain.Task{
		newTask("a", "Alpha", at(14, 9, 0), at(14, 10, 0)),
		newTask("b", "Beta", at(14, 12, 0), at(14, 13, 0)),
	}
	grid := layout.LayoutMonth(tasks, at(14, 0, 0), time.Sunday, layout.Viewport{})

	out := MonthText(grid, DefaultStyles(), at(14, 0, 0))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, "October 2026", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Sun")
	assert.Len(t, lines, 2+2*layout.MonthRows)
	assert.Contains(t, out, " 2 tasks")
}
