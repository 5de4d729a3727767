// Package tui provides the terminal user interface for timegrid.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal Mode = iota // Browsing a view
	ModeHelp               // Help overlay
	ModeDetail             // Task detail panel
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeHelp:
		return "help"
	case ModeDetail:
		return "detail"
	default:
		return "unknown"
	}
}
