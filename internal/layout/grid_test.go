package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/timegrid/internal/domain"
)

func entryKeys(entries []GridEntry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

func TestLayoutDay_SingleTask(t *testing.T) {
	task := newTask("a", at(12, 9, 0), at(12, 10, 30))

	col := LayoutDay([]*domain.Task{task}, at(12, 15, 0), Viewport{})

	assert.Equal(t, at(12, 0, 0), col.Date)
	require.Len(t, col.Entries, 1)
	e := col.Entries[0]
	assert.Equal(t, "a", e.Key)
	assert.Equal(t, 9*64.0, e.Top)
	assert.Equal(t, 96.0, e.Height)
	assert.Equal(t, 0.0, e.Left)
	assert.Equal(t, 100.0, e.Width)
	assert.Equal(t, 1, e.GroupSize)
	assert.Equal(t, 1, col.Groups)

	narrow := LayoutDay([]*domain.Task{task}, at(12, 0, 0), Viewport{Narrow: true})
	require.Len(t, narrow.Entries, 1)
	assert.Equal(t, 9*48.0, narrow.Entries[0].Top)
	assert.Equal(t, 72.0, narrow.Entries[0].Height)
}

func TestLayoutDay_ChainedOverlapFormsOneGroup(t *testing.T) {
	tasks := []*domain.Task{
		newTask("c", at(12, 10, 15), at(12, 11, 0)),
		newTask("a", at(12, 9, 0), at(12, 10, 0)),
		newTask("b", at(12, 9, 30), at(12, 10, 30)),
	}

	col := LayoutDay(tasks, at(12, 0, 0), Viewport{})

	require.Len(t, col.Entries, 3)
	assert.Equal(t, 1, col.Groups)
	assert.Equal(t, []string{"a", "b", "c"}, entryKeys(col.Entries))

	width := (100 - 2*GroupGap) / 3
	for i, e := range col.Entries {
		assert.Equal(t, 3, e.GroupSize)
		assert.Equal(t, i, e.Column)
		assert.InDelta(t, width, e.Width, 1e-9)
		assert.InDelta(t, float64(i)*(width+GroupGap), e.Left, 1e-9)
	}
}

func TestLayoutDay_SeparateGroups(t *testing.T) {
	tasks := []*domain.Task{
		newTask("morning", at(12, 9, 0), at(12, 10, 0)),
		newTask("adjacent", at(12, 10, 0), at(12, 11, 0)),
		newTask("afternoon-1", at(12, 14, 0), at(12, 16, 0)),
		newTask("afternoon-2", at(12, 15, 0), at(12, 15, 30)),
	}

	col := LayoutDay(tasks, at(12, 0, 0), Viewport{})

	assert.Equal(t, 3, col.Groups)
	require.Len(t, col.Entries, 4)
	assert.Equal(t, 100.0, col.Entries[0].Width)
	assert.Equal(t, 100.0, col.Entries[1].Width)
	assert.Equal(t, 2, col.Entries[2].GroupSize)
	assert.Equal(t, col.Entries[2].Group, col.Entries[3].Group)
}

func TestLayoutDay_SameStartShorterFirst(t *testing.T) {
	tasks := []*domain.Task{
		newTask("long", at(12, 9, 0), at(12, 12, 0)),
		newTask("short", at(12, 9, 0), at(12, 9, 30)),
	}

	col := LayoutDay(tasks, at(12, 0, 0), Viewport{})

	assert.Equal(t, []string{"short", "long"}, entryKeys(col.Entries))
}

func TestLayoutDay_WidthConservation(t *testing.T) {
	for k := 1; k <= 6; k++ {
		var tasks []*domain.Task
		for i := range k {
			tasks = append(tasks, newTask(string(rune('a'+i)), at(12, 9, i), at(12, 12, 0)))
		}

		col := LayoutDay(tasks, at(12, 0, 0), Viewport{})

		require.Len(t, col.Entries, k)
		total := float64(k-1) * GroupGap
		for _, e := range col.Entries {
			total += e.Width
		}
		assert.InDelta(t, 100.0, total, 1e-9, "group of %d", k)

		last := col.Entries[k-1]
		assert.InDelta(t, 100.0, last.Left+last.Width, 1e-9, "group of %d", k)
	}
}

func TestLayoutDay_MultiDayClipping(t *testing.T) {
	task := newTask("night", at(12, 22, 0), at(13, 2, 0))
	tasks := []*domain.Task{task}

	mon := LayoutDay(tasks, at(12, 0, 0), Viewport{})
	tue := LayoutDay(tasks, at(13, 0, 0), Viewport{})
	wed := LayoutDay(tasks, at(14, 0, 0), Viewport{})

	require.Len(t, mon.Entries, 1)
	require.Len(t, tue.Entries, 1)
	assert.Empty(t, wed.Entries)

	m, u := mon.Entries[0], tue.Entries[0]
	assert.Equal(t, "night_day_20261012", m.Key)
	assert.Equal(t, "night_day_20261013", u.Key)
	assert.Equal(t, "night", m.TaskID())
	assert.Equal(t, "night", u.TaskID())

	assert.True(t, m.ContinuesAfter)
	assert.False(t, m.ContinuesBefore)
	assert.Equal(t, at(13, 0, 0), m.ClippedEnd)
	assert.Equal(t, 22*64.0, m.Top)
	assert.Equal(t, 128.0, m.Height)

	assert.True(t, u.ContinuesBefore)
	assert.False(t, u.ContinuesAfter)
	assert.Equal(t, 0.0, u.Top)
	assert.Equal(t, 128.0, u.Height)
}

func TestLayoutDay_EndingAtMidnightStaysOnItsDay(t *testing.T) {
	tasks := []*domain.Task{newTask("late", at(12, 22, 0), at(13, 0, 0))}

	col := LayoutDay(tasks, at(12, 0, 0), Viewport{})
	require.Len(t, col.Entries, 1)
	assert.Equal(t, "late", col.Entries[0].Key)
	assert.Empty(t, LayoutDay(tasks, at(13, 0, 0), Viewport{}).Entries)
}

func TestLayoutDay_CarriedInTasksKeepOriginalOrder(t *testing.T) {
	tasks := []*domain.Task{
		newTask("shorter-tail", at(11, 22, 0), at(12, 10, 0)),
		newTask("earlier", at(11, 20, 0), at(12, 12, 0)),
	}

	col := LayoutDay(tasks, at(12, 0, 0), Viewport{})

	require.Len(t, col.Entries, 2)
	assert.Equal(t, []string{"earlier_day_20261012", "shorter-tail_day_20261012"}, entryKeys(col.Entries))
	assert.Equal(t, 0, col.Entries[0].Column)
	assert.Equal(t, 1, col.Entries[1].Column)
}

func TestLayoutDay_ZeroLengthTask(t *testing.T) {
	tasks := []*domain.Task{newTask("ping", at(12, 9, 0), at(12, 9, 0))}

	col := LayoutDay(tasks, at(12, 0, 0), Viewport{})

	require.Len(t, col.Entries, 1)
	assert.Equal(t, 0.0, col.Entries[0].Height)
}

func TestLayoutDay_UnscheduledExcluded(t *testing.T) {
	start := at(12, 9, 0)
	tasks := []*domain.Task{{ID: "open", Start: &start}}

	assert.Empty(t, LayoutDay(tasks, at(12, 0, 0), Viewport{}).Entries)
	for _, col := range LayoutWeekGrid(tasks, weekStart, Viewport{}) {
		assert.Empty(t, col.Entries)
	}
}

func TestLayoutDay_SubtaskCount(t *testing.T) {
	parent := newTask("p", at(12, 9, 0), at(12, 10, 0))
	parent.SubTasks = []*domain.Task{{ID: "c1"}, {ID: "c2", SubTasks: []*domain.Task{{ID: "g"}}}}

	col := LayoutDay([]*domain.Task{parent}, at(12, 0, 0), Viewport{})

	require.Len(t, col.Entries, 1)
	assert.Equal(t, 3, col.Entries[0].SubtaskCount)
}

func TestGroupOverlapping_MergesGroups(t *testing.T) {
	entry := func(key string, start, end time.Time) GridEntry {
		return GridEntry{Key: key, ClippedStart: start, ClippedEnd: end}
	}
	entries := []GridEntry{
		entry("early", at(12, 9, 0), at(12, 10, 0)),
		entry("late", at(12, 11, 0), at(12, 12, 0)),
		entry("bridge", at(12, 9, 30), at(12, 11, 30)),
		entry("alone", at(12, 18, 0), at(12, 19, 0)),
	}

	groups := groupOverlapping(entries)

	require.Len(t, groups, 2)
	assert.ElementsMatch(t, []string{"early", "late", "bridge"}, entryKeys(groups[0]))
	assert.Equal(t, []string{"alone"}, entryKeys(groups[1]))
}

func TestLayoutWeekGrid(t *testing.T) {
	tasks := []*domain.Task{
		newTask("mon", at(12, 9, 0), at(12, 10, 0)),
		newTask("sat", at(17, 9, 0), at(17, 10, 0)),
	}

	cols := LayoutWeekGrid(tasks, weekStart, Viewport{})

	require.Len(t, cols, 7)
	assert.Empty(t, cols[0].Entries)
	assert.Equal(t, []string{"mon"}, entryKeys(cols[1].Entries))
	assert.Equal(t, []string{"sat"}, entryKeys(cols[6].Entries))
}

func TestLayoutMonth(t *testing.T) {
	tasks := []*domain.Task{newTask("mid", at(14, 9, 0), at(14, 10, 0))}

	grid := LayoutMonth(tasks, at(20, 0, 0), time.Sunday, Viewport{})

	assert.Equal(t, at(1, 0, 0), grid.Month)
	require.Len(t, grid.Cells, MonthCells)
	assert.Equal(t, time.Date(2026, 9, 27, 0, 0, 0, 0, time.UTC), grid.Cells[0].Date)
	assert.False(t, grid.Cells[0].InMonth)
	assert.True(t, grid.Cells[4].InMonth)
	assert.Equal(t, at(1, 0, 0), grid.Cells[4].Date)
	assert.False(t, grid.Cells[MonthCells-1].InMonth)

	assert.Equal(t, []string{"mid"}, entryKeys(grid.Cells[17].Entries))

	row := grid.Row(2)
	require.Len(t, row, 7)
	assert.Equal(t, at(11, 0, 0), row[0].Date)
	assert.Nil(t, grid.Row(MonthRows))
}

func TestLayoutMonth_MondayWeeks(t *testing.T) {
	grid := LayoutMonth(nil, at(20, 0, 0), time.Monday, Viewport{})

	assert.Equal(t, time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC), grid.Cells[0].Date)
	assert.Equal(t, time.Monday, grid.Cells[0].Date.Weekday())
}
