package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/layout"
	"github.com/runoshun/timegrid/internal/render"
)

// View renders the UI.
func (m *Model) View() string {
	switch m.mode {
	case ModeHelp:
		return m.viewHelp()
	case ModeDetail:
		return m.viewDetail()
	case ModeNormal:
	}
	return m.viewMain()
}

func (m *Model) viewMain() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewBody())
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.ErrorMsg.Render("Error: " + m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return b.String()
}

func (m *Model) viewHeader() string {
	parts := []string{m.styles.Header.Render("timegrid"), m.styles.HeaderView.Render(string(m.view))}
	if label := m.periodLabel(); label != "" {
		parts = append(parts, label)
	}
	if m.view == domain.ViewTimeline {
		parts = append(parts, "zoom "+m.zoom.String())
	}
	return strings.Join(parts, "  ")
}

// periodLabel describes the loaded period.
func (m *Model) periodLabel() string {
	switch {
	case m.view == domain.ViewTimeline && m.timeline != nil:
		w := m.timeline.Timeline.Window
		return fmt.Sprintf("%s - %s", w.Start.Format("Jan 2"), w.End.Format("Jan 2, 2006"))
	case m.calendar == nil:
		return ""
	case m.view == domain.ViewDay:
		return m.calendar.Date.Format("Mon Jan 2, 2006")
	case m.view == domain.ViewMonth:
		return m.calendar.Date.Format("January 2006")
	default:
		days := m.calendar.Days
		if len(days) == 0 {
			return ""
		}
		return fmt.Sprintf("%s - %s", days[0].Date.Format("Jan 2"), days[len(days)-1].Date.Format("Jan 2, 2006"))
	}
}

func (m *Model) viewBody() string {
	st := m.styles.Render
	switch {
	case m.view == domain.ViewTimeline:
		if m.timeline == nil {
			return st.Muted.Render("loading...")
		}
		return render.TimelineText(m.timeline.Timeline, m.width, st, m.timeline.Now, m.selected)
	case m.calendar == nil:
		return st.Muted.Render("loading...")
	case m.calendar.Month != nil:
		return render.MonthText(*m.calendar.Month, st, m.calendar.Now) + m.selectedLine()
	case m.view == domain.ViewDay:
		return render.DayText(m.calendar.Days[0], st, m.selected)
	default:
		return render.WeekText(m.calendar.Days, st, m.selected)
	}
}

// selectedLine names the selected task where the view cannot highlight it.
func (m *Model) selectedLine() string {
	if m.selected == "" || m.calendar == nil || m.calendar.Month == nil {
		return ""
	}
	for _, cell := range m.calendar.Month.Cells {
		for _, e := range cell.Entries {
			if e.TaskID() == m.selected {
				return "\n" + m.styles.Render.Selected.Render(fmt.Sprintf(" %s  %s ", e.ClippedStart.Format("Mon 01/02 15:04"), e.Task.Title))
			}
		}
	}
	return ""
}

func (m *Model) viewHelp() string {
	h := m.help
	h.ShowAll = true
	return m.styles.Help.Render(m.styles.Header.Render("Keys") + "\n\n" + h.FullHelpView(m.keys.FullHelp()))
}

func (m *Model) viewDetail() string {
	return m.styles.Detail.Render(m.detailViewport.View())
}

// detailContent renders the loaded task and its expanded subtasks.
func (m *Model) detailContent() string {
	if m.detail == nil || m.detail.Task == nil {
		return ""
	}
	t := m.detail.Task
	st := m.styles

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, st.DetailLabel.Render(label), st.DetailValue.Render(value))
	}

	lines := []string{st.DetailTitle.Render(t.Title), ""}
	lines = append(lines, row("ID", t.ID))
	if t.IsScheduled() {
		lines = append(lines, row("Schedule", scheduleText(t)))
	} else {
		lines = append(lines, row("Schedule", "unscheduled"))
	}
	if t.ParentID != "" {
		lines = append(lines, row("Parent", t.ParentID))
	}
	if t.Completed {
		lines = append(lines, row("Status", st.DetailDone.Render("completed")))
	}
	if t.Description != "" {
		lines = append(lines, "", t.Description)
	}
	if m.detail.SubtaskCount > 0 {
		lines = append(lines, "", st.DetailTitle.Render(fmt.Sprintf("Subtasks (%d)", m.detail.SubtaskCount)))
		lines = appendSubtasks(lines, t.SubTasks, 0)
	}
	return strings.Join(lines, "\n")
}

func appendSubtasks(lines []string, tasks []*domain.Task, depth int) []string {
	for _, sub := range tasks {
		mark := "[ ]"
		if sub.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", depth), mark, sub.Title)
		if sub.IsScheduled() {
			line += "  " + scheduleText(sub)
		}
		lines = append(lines, line)
		lines = appendSubtasks(lines, sub.SubTasks, depth+1)
	}
	return lines
}

func scheduleText(t *domain.Task) string {
	start, end := *t.Start, *t.End
	if layout.SameDate(start, end) {
		return fmt.Sprintf("%s %s-%s", start.Format("Mon 01/02"), start.Format("15:04"), end.Format("15:04"))
	}
	return fmt.Sprintf("%s - %s", start.Format("Mon 01/02 15:04"), end.Format("Mon 01/02 15:04"))
}
