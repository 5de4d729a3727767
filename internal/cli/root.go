// Package cli provides the command-line interface for timegrid.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/timegrid/internal/app"
)

// Command group IDs.
const (
	groupView  = "view"
	groupTasks = "tasks"
	groupSetup = "setup"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for timegrid.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "timegrid",
		Short: "Lay out scheduled tasks on timelines and calendar grids",
		Long: `timegrid places scheduled tasks on a continuous weekly timeline with
non-overlapping lanes, and on day, week and month calendar grids where
overlapping tasks share the column width.

Run without arguments to open the interactive view.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			c.SetVerbose(verbose)
			if c.ConfigLoader == nil {
				return nil
			}

			cfg, err := c.ConfigLoader.Load()
			if err != nil {
				// Ignore error; the command reports it if it needs config
				return nil
			}
			for _, w := range cfg.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}

	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug output to stderr")

	root.AddGroup(
		&cobra.Group{ID: groupView, Title: "Views:"},
		&cobra.Group{ID: groupTasks, Title: "Tasks:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)

	addToGroup := func(group string, cmds ...*cobra.Command) {
		for _, cmd := range cmds {
			cmd.GroupID = group
			root.AddCommand(cmd)
		}
	}
	addToGroup(groupView,
		newTimelineCommand(c),
		newCalendarCommand(c),
		newTUICommand(c),
		newServeCommand(c),
	)
	addToGroup(groupTasks,
		newTasksCommand(c),
		newShowCommand(c),
		newImportCommand(c),
	)
	addToGroup(groupSetup,
		newConfigCommand(c),
		newAuthCommand(c),
	)

	return root
}
