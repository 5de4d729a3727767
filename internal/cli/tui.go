package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/timegrid/internal/app"
	"github.com/runoshun/timegrid/internal/tui"
)

// newTUICommand creates the tui command for launching the interactive TUI.
// It is the same as running timegrid without arguments.
func newTUICommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive TUI",
		Long: `Launch the interactive terminal user interface.

Keys: h/l previous/next, t today, z zoom, v cycle views, j/k select,
enter task detail, r reload, ? help, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}
}

// launchTUI runs the bubbletea program until the user quits.
func launchTUI(c *app.Container) error {
	p := tea.NewProgram(tui.New(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
