package render

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/timegrid/internal/layout"
)

// Styles contains the lipgloss styles for terminal output.
type Styles struct {
	Header    lipgloss.Style
	DayLabel  lipgloss.Style
	Today     lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	Completed lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6C5CE7")),
		DayLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color("#A29BFE")),
		Today:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFEAA7")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("#636E72")),
		Selected:  lipgloss.NewStyle().Bold(true).Reverse(true),
		Completed: lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#636E72")),
	}
}

func blockStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color("#FFFFFF"))
}

// fit truncates or pads s to exactly n cells.
func fit(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > n {
		if n == 1 {
			return string(r[:1])
		}
		return string(r[:n-1]) + "…"
	}
	return s + strings.Repeat(" ", n-len(r))
}

// blockLabel is the text drawn inside a timeline block. Arrows mark pieces
// of a task that continues in an earlier or later week.
func blockLabel(b layout.Block) string {
	label := taskTitle(b.Task)
	if b.SubtaskCount > 0 {
		label = fmt.Sprintf("%s +%d", label, b.SubtaskCount)
	}
	if b.WeekNumber > 1 {
		label = "‹" + label
	}
	if b.TotalWeeks > 1 && !b.IsLastSegment {
		label += "›"
	}
	return label
}

// TimelineText draws the week as lanes of character cells, width columns wide.
// Blocks of the selected task are highlighted.
func TimelineText(tl layout.Timeline, width int, st Styles, now time.Time, selected string) string {
	dayCols := max(width/layout.DaysPerWeek, 6)
	total := dayCols * layout.DaysPerWeek
	scale := float64(dayCols) / tl.Resolution.DayWidth

	var b strings.Builder
	for _, day := range tl.Window.Days() {
		label := fit(day.Format("Mon 01/02"), dayCols)
		if layout.SameDate(day, now) {
			b.WriteString(st.Today.Render(label))
		} else {
			b.WriteString(st.DayLabel.Render(label))
		}
	}
	b.WriteString("\n")

	if len(tl.Blocks) == 0 {
		b.WriteString(st.Muted.Render("no scheduled tasks this week"))
		b.WriteString("\n")
		return b.String()
	}

	lanes := make([][]layout.Block, tl.LaneCount)
	for _, blk := range tl.Blocks {
		lanes[blk.Lane] = append(lanes[blk.Lane], blk)
	}
	for _, lane := range lanes {
		slices.SortStableFunc(lane, func(a, c layout.Block) int {
			switch {
			case a.X < c.X:
				return -1
			case a.X > c.X:
				return 1
			}
			return 0
		})

		cursor := 0
		for _, blk := range lane {
			start := max(int(blk.X*scale), cursor)
			end := min(max(int(math.Ceil((blk.X+blk.Width)*scale)), start+1), total)
			if start >= end {
				continue
			}
			style := blockStyle(taskColor(blk.Task))
			if selected != "" && blk.TaskID() == selected {
				style = st.Selected
			}
			b.WriteString(strings.Repeat(" ", start-cursor))
			b.WriteString(style.Render(fit(blockLabel(blk), end-start)))
			cursor = end
		}
		b.WriteString("\n")
	}
	return b.String()
}

// TimelineAgenda lists the blocks of a timeline in lane packing order.
func TimelineAgenda(tl layout.Timeline, st Styles) string {
	var b strings.Builder
	for _, blk := range tl.Blocks {
		line := fmt.Sprintf("%s  %s", formatRange(blk.OriginalStart, blk.OriginalEnd), taskTitle(blk.Task))
		if blk.SubtaskCount > 0 {
			line += st.Muted.Render(fmt.Sprintf("  (%d subtasks)", blk.SubtaskCount))
		}
		if blk.TotalWeeks > 1 {
			line += st.Muted.Render(fmt.Sprintf("  [week %d/%d]", blk.WeekNumber, blk.TotalWeeks))
		}
		if blk.Task != nil && blk.Task.Completed {
			line = st.Completed.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// formatRange prints a time range, repeating the date only when it changes.
func formatRange(start, end time.Time) string {
	if layout.SameDate(start, end) {
		return fmt.Sprintf("%s %s-%s", start.Format("Mon 01/02"), start.Format("15:04"), end.Format("15:04"))
	}
	return fmt.Sprintf("%s %s - %s %s", start.Format("Mon 01/02"), start.Format("15:04"), end.Format("Mon 01/02"), end.Format("15:04"))
}

// DayText lists one grid column: time, title and the entry's place in its overlap group.
func DayText(col layout.DayColumn, st Styles, selected string) string {
	var b strings.Builder
	b.WriteString(st.Header.Render(col.Date.Format("Mon 2006-01-02")))
	b.WriteString("\n")
	if len(col.Entries) == 0 {
		b.WriteString("  " + st.Muted.Render("nothing scheduled") + "\n")
		return b.String()
	}

	for _, e := range col.Entries {
		end := e.ClippedEnd.Format("15:04")
		if e.ContinuesAfter {
			end = "24:00"
		}
		title := taskTitle(e.Task)
		if e.ContinuesBefore {
			title = "‹" + title
		}
		if e.ContinuesAfter {
			title += "›"
		}
		if e.SubtaskCount > 0 {
			title = fmt.Sprintf("%s +%d", title, e.SubtaskCount)
		}

		line := fmt.Sprintf("  %s-%s  %s", e.ClippedStart.Format("15:04"), end, title)
		switch {
		case selected != "" && e.TaskID() == selected:
			line = st.Selected.Render(line)
		case e.Task != nil && e.Task.Completed:
			line = st.Completed.Render(line)
		}
		if e.GroupSize > 1 {
			line += st.Muted.Render(fmt.Sprintf("  [%d/%d]", e.Column+1, e.GroupSize))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// WeekText lists each column of a week grid.
func WeekText(days []layout.DayColumn, st Styles, selected string) string {
	parts := make([]string, 0, len(days))
	for _, col := range days {
		parts = append(parts, DayText(col, st, selected))
	}
	return strings.Join(parts, "\n")
}

const monthCellWidth = 10

// MonthText draws the month as six rows of seven cells with entry counts.
func MonthText(m layout.MonthGrid, st Styles, now time.Time) string {
	var b strings.Builder
	b.WriteString(st.Header.Render(m.Month.Format("January 2006")))
	b.WriteString("\n")

	for _, cell := range m.Row(0) {
		b.WriteString(st.DayLabel.Render(fit(cell.Date.Format("Mon"), monthCellWidth)))
	}
	b.WriteString("\n")

	for r := range layout.MonthRows {
		for _, cell := range m.Row(r) {
			label := fit(fmt.Sprintf("%2d", cell.Date.Day()), monthCellWidth)
			switch {
			case layout.SameDate(cell.Date, now):
				label = st.Today.Render(label)
			case !cell.InMonth:
				label = st.Muted.Render(label)
			}
			b.WriteString(label)
		}
		b.WriteString("\n")
		for _, cell := range m.Row(r) {
			count := ""
			if n := countTasks(cell.Entries); n > 0 {
				count = fmt.Sprintf("%2d task", n)
				if n > 1 {
					count += "s"
				}
			}
			b.WriteString(st.Muted.Render(fit(count, monthCellWidth)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// countTasks counts distinct tasks among entries.
func countTasks(entries []layout.GridEntry) int {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.TaskID()] = true
	}
	return len(seen)
}
