package tui

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/timegrid/internal/app"
	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/layout"
	"github.com/runoshun/timegrid/internal/usecase"
)

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	err       error

	// Loaded state
	timeline *usecase.ShowTimelineOutput
	calendar *usecase.ShowCalendarOutput
	detail   *usecase.ShowTaskOutput

	// Anchor is a day inside the shown period; zero means today.
	anchor time.Time

	// Components
	keys           KeyMap
	styles         Styles
	help           help.Model
	detailViewport viewport.Model

	selected string // Task ID, stable across segments and reloads
	view     domain.View

	// Numeric state (smaller types last)
	mode    Mode
	zoom    layout.ZoomMode
	width   int
	height  int
	zoomSet bool // zoom was toggled; otherwise [layout] zoom applies
}

// New creates a new TUI Model with the given container.
func New(c *app.Container) *Model {
	return &Model{
		container:      c,
		keys:           DefaultKeyMap(),
		styles:         DefaultStyles(),
		help:           help.New(),
		detailViewport: viewport.New(0, 0),
		view:           domain.ViewTimeline,
		mode:           ModeNormal,
		width:          120,
		height:         40,
	}
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return m.loadView()
}

// dateArg formats the anchor for use case inputs.
func (m *Model) dateArg() string {
	if m.anchor.IsZero() {
		return ""
	}
	return m.anchor.Format(domain.DateLayout)
}

// loadView returns a command that lays out the current view.
func (m *Model) loadView() tea.Cmd {
	view := m.view
	date := m.dateArg()
	zoom := ""
	if m.zoomSet {
		zoom = m.zoom.String()
	}

	return func() tea.Msg {
		ctx := context.Background()
		if view == domain.ViewTimeline {
			out, err := m.container.ShowTimelineUseCase().Execute(ctx, usecase.ShowTimelineInput{Date: date, Zoom: zoom})
			if err != nil {
				return MsgError{Err: err}
			}
			return MsgTimelineLoaded{Output: out}
		}
		out, err := m.container.ShowCalendarUseCase().Execute(ctx, usecase.ShowCalendarInput{View: string(view), Date: date})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgCalendarLoaded{Output: out}
	}
}

// loadDetail returns a command that loads the selected task with its subtasks.
func (m *Model) loadDetail(id string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ShowTaskUseCase().Execute(context.Background(), usecase.ShowTaskInput{ID: id})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskLoaded{Output: out}
	}
}

// shift moves the anchor by n periods of the current view.
func (m *Model) shift(n int) {
	base := m.anchor
	if base.IsZero() {
		base = m.shownDate()
	}
	switch m.view {
	case domain.ViewDay:
		m.anchor = base.AddDate(0, 0, n)
	case domain.ViewMonth:
		first := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location())
		m.anchor = first.AddDate(0, n, 0)
	default:
		m.anchor = base.AddDate(0, 0, n*layout.DaysPerWeek)
	}
}

// shownDate returns the date of the loaded period, or now when nothing is loaded.
func (m *Model) shownDate() time.Time {
	switch {
	case m.view == domain.ViewTimeline && m.timeline != nil:
		return m.timeline.WeekStart
	case m.view != domain.ViewTimeline && m.calendar != nil:
		return m.calendar.Date
	}
	return layout.StartOfDay(m.container.Clock.Now())
}

// SelectedTaskID returns the ID of the selected task, or "" if none.
func (m *Model) SelectedTaskID() string {
	return m.selected
}

// CurrentView returns the active view.
func (m *Model) CurrentView() domain.View {
	return m.view
}

// selectable returns the task IDs of the current view in reading order.
// A task appears once even if it has several segments or grid entries.
func (m *Model) selectable() []string {
	var ids []string
	seen := map[string]bool{}
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	switch {
	case m.view == domain.ViewTimeline && m.timeline != nil:
		blocks := slices.Clone(m.timeline.Timeline.Blocks)
		slices.SortStableFunc(blocks, func(a, b layout.Block) int {
			if c := cmp.Compare(a.X, b.X); c != 0 {
				return c
			}
			return cmp.Compare(a.Lane, b.Lane)
		})
		for _, b := range blocks {
			add(b.TaskID())
		}
	case m.calendar != nil && m.calendar.Month != nil:
		for _, cell := range m.calendar.Month.Cells {
			for _, e := range cell.Entries {
				add(e.TaskID())
			}
		}
	case m.calendar != nil:
		for _, col := range m.calendar.Days {
			for _, e := range col.Entries {
				add(e.TaskID())
			}
		}
	}
	return ids
}

// moveSelection selects the task delta positions away from the current one.
func (m *Model) moveSelection(delta int) {
	ids := m.selectable()
	if len(ids) == 0 {
		m.selected = ""
		return
	}
	i := slices.Index(ids, m.selected)
	if i < 0 {
		m.selected = ids[0]
		return
	}
	m.selected = ids[(i+delta+len(ids))%len(ids)]
}

// keepSelection drops the selection if the task is no longer shown.
func (m *Model) keepSelection() {
	ids := m.selectable()
	if !slices.Contains(ids, m.selected) {
		m.selected = ""
		if len(ids) > 0 {
			m.selected = ids[0]
		}
	}
}
