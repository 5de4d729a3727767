package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/timegrid/internal/render"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Title     lipgloss.Color
}{
	Primary:   lipgloss.Color("#6C5CE7"), // Purple
	Secondary: lipgloss.Color("#A29BFE"), // Lavender
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Success:   lipgloss.Color("#00B894"), // Green
	Title:     lipgloss.Color("#DFE6E9"), // Light gray
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// Header
	Header     lipgloss.Style
	HeaderView lipgloss.Style

	// Body renderers
	Render render.Styles

	// Footer and help
	Footer lipgloss.Style
	Help   lipgloss.Style

	// Error
	ErrorMsg lipgloss.Style

	// Detail view
	Detail      lipgloss.Style
	DetailTitle lipgloss.Style
	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style
	DetailDone  lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),
		HeaderView: lipgloss.NewStyle().
			Foreground(Colors.Secondary),

		Render: render.DefaultStyles(),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			MarginTop(1),
		Help: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		Detail: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Secondary),
		DetailTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Title),
		DetailLabel: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Width(10),
		DetailValue: lipgloss.NewStyle().
			Foreground(Colors.Title),
		DetailDone: lipgloss.NewStyle().
			Foreground(Colors.Success),
	}
}
