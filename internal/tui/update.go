package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/timegrid/internal/domain"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.detailViewport.Width = max(msg.Width-4, 20)
		m.detailViewport.Height = max(msg.Height-6, 5)
		return m, nil

	case MsgTimelineLoaded:
		m.err = nil
		m.timeline = msg.Output
		if !m.zoomSet {
			m.zoom = msg.Output.Zoom
		}
		m.keepSelection()
		return m, nil

	case MsgCalendarLoaded:
		m.err = nil
		m.calendar = msg.Output
		m.keepSelection()
		return m, nil

	case MsgTaskLoaded:
		m.detail = msg.Output
		m.detailViewport.SetContent(m.detailContent())
		m.detailViewport.GotoTop()
		m.mode = ModeDetail
		return m, nil

	case MsgError:
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
			m.mode = ModeNormal
		}
		return m, nil
	case ModeDetail:
		return m.handleDetailMode(msg)
	case ModeNormal:
	}

	return m.handleNormalMode(msg)
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.shift(-1)
		return m, m.loadView()

	case key.Matches(msg, m.keys.Next):
		m.shift(1)
		return m, m.loadView()

	case key.Matches(msg, m.keys.Today):
		m.anchor = time.Time{}
		return m, m.loadView()

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.Zoom):
		if m.view != domain.ViewTimeline {
			return m, nil
		}
		m.zoom = m.zoom.Toggle()
		m.zoomSet = true
		return m, m.loadView()

	case key.Matches(msg, m.keys.View):
		m.view = m.view.Next()
		return m, m.loadView()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadView()

	case key.Matches(msg, m.keys.Detail):
		if m.selected == "" {
			return m, nil
		}
		return m, m.loadDetail(m.selected)
	}

	return m, nil
}

func (m *Model) handleDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape, m.keys.Detail, m.keys.Quit):
		m.mode = ModeNormal
		m.detail = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}
