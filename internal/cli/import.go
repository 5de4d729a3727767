package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/timegrid/internal/app"
	"github.com/runoshun/timegrid/internal/usecase"
)

// newImportCommand creates the import command for loading tasks from a file.
func newImportCommand(c *app.Container) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import tasks from a YAML or JSON file",
		Long: `Import a task tree from a YAML or JSON file.

Tasks without an id get a generated one. Tasks whose id already exists
are updated in place. Subtasks are nested under "subtasks".

Example file:
  tasks:
    - id: trip
      title: Conference trip
      start: 2026-10-16 22:00
      end: 2026-10-19 02:00
      subtasks:
        - title: Book hotel`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !dryRun && c.StoreInitializer != nil && !c.StoreInitializer.IsInitialized(ctx) {
				if err := c.StoreInitializer.Initialize(ctx); err != nil {
					return fmt.Errorf("initialize store: %w", err)
				}
			}

			out, err := c.ImportTasksUseCase().Execute(ctx, usecase.ImportTasksInput{
				Path:   args[0],
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, it := range out.Tasks {
				action := "created"
				if it.Updated {
					action = "updated"
				}
				_, _ = fmt.Fprintf(w, "%s%s  %s (%s)\n", strings.Repeat("  ", it.Depth), it.Task.ID, it.Task.Title, action)
			}
			prefix := "Imported"
			if dryRun {
				prefix = "Would import"
			}
			_, _ = fmt.Fprintf(w, "%s %d tasks (%d created, %d updated)\n", prefix, len(out.Tasks), out.Created, out.Updated)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without saving")

	return cmd
}
