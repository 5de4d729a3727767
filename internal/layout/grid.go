package layout

import (
	"cmp"
	"slices"
	"time"

	"github.com/runoshun/timegrid/internal/domain"
)

// GroupGap is the horizontal gap in percent between members of an overlap group.
const GroupGap = 2.0

// GridEntry is a task placed in one calendar day column.
// Left and Width are percentages of the column; Top and Height are pixels.
// Fields are ordered to minimize memory padding.
type GridEntry struct {
	ClippedStart time.Time
	ClippedEnd   time.Time
	Task         *domain.Task
	Key          string // Render key; unique per (task, day)
	Top          float64
	Height       float64
	Left         float64
	Width        float64
	Column       int // Position inside the overlap group
	GroupSize    int
	Group        int // Index of the overlap group inside the day
	SubtaskCount int

	ContinuesBefore bool // Task started on an earlier day
	ContinuesAfter  bool // Task ends on a later day
}

// TaskID returns the ID of the original task.
func (e GridEntry) TaskID() string {
	if e.Task == nil {
		return ""
	}
	return e.Task.ID
}

// DayColumn is the grid layout of one calendar day.
type DayColumn struct {
	Date    time.Time
	Entries []GridEntry // Grouped, each group ordered left to right
	Groups  int
}

// LayoutDay resolves the overlaps of tasks on the calendar day of day.
func LayoutDay(tasks []*domain.Task, day time.Time, vp Viewport) DayColumn {
	dayStart := StartOfDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)
	loc := dayStart.Location()

	var entries []GridEntry
	for _, task := range domain.ScheduledRoots(tasks) {
		start := task.Start.In(loc)
		end := task.End.In(loc)
		if !intersectsDay(start, end, dayStart, dayEnd) {
			continue
		}

		entry := GridEntry{
			Task:            task,
			Key:             task.ID,
			ClippedStart:    start,
			ClippedEnd:      end,
			ContinuesBefore: start.Before(dayStart),
			ContinuesAfter:  !end.Before(dayEnd),
			SubtaskCount:    domain.TotalSubtaskCount(task),
		}
		if entry.ContinuesBefore {
			entry.ClippedStart = dayStart
		}
		if entry.ContinuesAfter {
			entry.ClippedEnd = dayEnd
		}
		if entry.ContinuesBefore || end.After(dayEnd) {
			entry.Key = task.ID + "_day_" + dayStart.Format("20060102")
		}

		startMin := minuteOfDay(entry.ClippedStart, dayEnd)
		endMin := minuteOfDay(entry.ClippedEnd, dayEnd)
		entry.Top = vp.MinutesToPixels(startMin)
		entry.Height = vp.MinutesToPixels(endMin - startMin)

		entries = append(entries, entry)
	}

	sortEntries(entries)
	groups := groupOverlapping(entries)

	col := DayColumn{Date: dayStart, Groups: len(groups)}
	for g, members := range groups {
		sortEntries(members)
		k := len(members)
		width := (100 - float64(k-1)*GroupGap) / float64(k)
		for i := range members {
			members[i].Group = g
			members[i].GroupSize = k
			members[i].Column = i
			members[i].Width = width
			members[i].Left = float64(i) * (width + GroupGap)
			col.Entries = append(col.Entries, members[i])
		}
	}
	return col
}

// intersectsDay reports whether [start, end] touches [dayStart, dayEnd).
// Zero-length tasks count when they sit inside the day.
func intersectsDay(start, end, dayStart, dayEnd time.Time) bool {
	if !start.Before(dayEnd) {
		return false
	}
	if end.After(dayStart) {
		return true
	}
	return start.Equal(end) && !start.Before(dayStart)
}

// minuteOfDay returns the minute of day of t, mapping dayEnd to 1440.
func minuteOfDay(t, dayEnd time.Time) float64 {
	if !t.Before(dayEnd) {
		return minutesPerDay
	}
	return float64(t.Hour()*60 + t.Minute())
}

// sortEntries orders entries by the task's original start, then its original
// duration. Clipped starts follow the same order, which groupOverlapping needs.
func sortEntries(entries []GridEntry) {
	slices.SortStableFunc(entries, func(a, b GridEntry) int {
		if c := a.Task.Start.Compare(*b.Task.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Task.Duration(), b.Task.Duration())
	})
}

func overlaps(a, b GridEntry) bool {
	return a.ClippedStart.Before(b.ClippedEnd) && a.ClippedEnd.After(b.ClippedStart)
}

// groupOverlapping scans sorted entries and builds overlap groups.
// An entry overlapping members of several groups merges them into one.
func groupOverlapping(entries []GridEntry) [][]GridEntry {
	var groups [][]GridEntry
	for _, entry := range entries {
		var hits []int
		for g, members := range groups {
			for _, m := range members {
				if overlaps(entry, m) {
					hits = append(hits, g)
					break
				}
			}
		}

		switch len(hits) {
		case 0:
			groups = append(groups, []GridEntry{entry})
		case 1:
			groups[hits[0]] = append(groups[hits[0]], entry)
		default:
			merged := []GridEntry{entry}
			for _, g := range hits {
				merged = append(merged, groups[g]...)
			}
			kept := make([][]GridEntry, 0, len(groups)-len(hits)+1)
			for g, members := range groups {
				if g == hits[0] {
					kept = append(kept, merged)
					continue
				}
				if !slices.Contains(hits, g) {
					kept = append(kept, members)
				}
			}
			groups = kept
		}
	}
	return groups
}

// LayoutWeekGrid lays out the seven day columns starting on weekStart.
func LayoutWeekGrid(tasks []*domain.Task, weekStart time.Time, vp Viewport) []DayColumn {
	w := WeekWindow(weekStart)
	cols := make([]DayColumn, 0, w.Len())
	for _, day := range w.Days() {
		cols = append(cols, LayoutDay(tasks, day, vp))
	}
	return cols
}

// MonthRows and MonthCells fix the month grid at six full weeks.
const (
	MonthRows  = 6
	MonthCells = MonthRows * DaysPerWeek
)

// MonthCell is one day of the month grid.
type MonthCell struct {
	DayColumn
	InMonth bool // Day belongs to the displayed month
}

// MonthGrid is a six-week grid covering the month of Month.
type MonthGrid struct {
	Month time.Time   // First day of the displayed month
	Cells []MonthCell // Row-major, MonthCells long
}

// Row returns the seven cells of row r.
func (m MonthGrid) Row(r int) []MonthCell {
	if r < 0 || r >= MonthRows || len(m.Cells) < MonthCells {
		return nil
	}
	return m.Cells[r*DaysPerWeek : (r+1)*DaysPerWeek]
}

// LayoutMonth lays out the month containing day, starting from the week that
// contains the 1st.
func LayoutMonth(tasks []*domain.Task, day time.Time, weekStart time.Weekday, vp Viewport) MonthGrid {
	month := MonthWindow(day)
	first := StartOfWeek(month.Start, weekStart)

	grid := MonthGrid{Month: month.Start, Cells: make([]MonthCell, 0, MonthCells)}
	for i := range MonthCells {
		date := first.AddDate(0, 0, i)
		grid.Cells = append(grid.Cells, MonthCell{
			DayColumn: LayoutDay(tasks, date, vp),
			InMonth:   month.DayIndex(date) >= 0,
		})
	}
	return grid
}
