package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/timegrid/internal/app"
	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/layout"
	"github.com/runoshun/timegrid/internal/render"
	"github.com/runoshun/timegrid/internal/usecase"
)

// newTasksCommand creates the tasks command.
func newTasksCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Format string
		All    bool
	}

	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List top-level tasks with their schedule and subtask count.

Use --all to include subtasks, indented below their parent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := render.ParseFormat(opts.Format)
			if err != nil {
				return err
			}
			if format == render.FormatSVG {
				return fmt.Errorf("%w: tasks as %s", domain.ErrUnsupportedView, format)
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{All: opts.All})
			if err != nil {
				return err
			}

			if format == render.FormatJSON {
				docs := make([]render.TaskDoc, 0, len(out.Items))
				for _, item := range out.Items {
					if item.Depth == 0 {
						docs = append(docs, render.NewTaskDoc(item.Task))
					}
				}
				return render.WriteJSON(cmd.OutOrStdout(), docs)
			}

			printTaskList(cmd.OutOrStdout(), out.Items)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include subtasks")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Output format: text or json")

	return cmd
}

func printTaskList(w io.Writer, items []usecase.TaskItem) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, "No tasks found.")
		return
	}
	for _, item := range items {
		t := item.Task
		indent := strings.Repeat("  ", item.Depth)
		mark := " "
		if t.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("%s[%s] %s  %s", indent, mark, t.ID, t.Title)
		if t.IsScheduled() {
			line += "  " + scheduleText(t)
		}
		if item.SubtaskCount > 0 {
			line += fmt.Sprintf("  (+%d)", item.SubtaskCount)
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

// newShowCommand creates the show command for displaying one task.
func newShowCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Long:  `Show a task with its description and subtask tree.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == render.FormatSVG {
				return fmt.Errorf("%w: task as %s", domain.ErrUnsupportedView, f)
			}

			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{ID: args[0]})
			if err != nil {
				return err
			}
			if f == render.FormatJSON {
				return render.WriteJSON(cmd.OutOrStdout(), render.NewTaskDoc(out.Task))
			}
			printTaskDetail(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}

func printTaskDetail(w io.Writer, out *usecase.ShowTaskOutput) {
	t := out.Task
	_, _ = fmt.Fprintf(w, "%s\n", t.Title)
	_, _ = fmt.Fprintf(w, "  ID:       %s\n", t.ID)
	if t.IsScheduled() {
		_, _ = fmt.Fprintf(w, "  Schedule: %s\n", scheduleText(t))
	} else {
		_, _ = fmt.Fprintln(w, "  Schedule: (unscheduled)")
	}
	if t.ParentID != "" {
		_, _ = fmt.Fprintf(w, "  Parent:   %s\n", t.ParentID)
	}
	status := "open"
	if t.Completed {
		status = "done"
	}
	_, _ = fmt.Fprintf(w, "  Status:   %s\n", status)
	if t.Description != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", t.Description)
	}
	if out.SubtaskCount > 0 {
		_, _ = fmt.Fprintf(w, "\nSubtasks (%d):\n", out.SubtaskCount)
		printSubtasks(w, t.SubTasks, 1)
	}
}

func printSubtasks(w io.Writer, subs []*domain.Task, depth int) {
	for _, s := range subs {
		mark := " "
		if s.Completed {
			mark = "x"
		}
		_, _ = fmt.Fprintf(w, "%s[%s] %s\n", strings.Repeat("  ", depth), mark, s.Title)
		printSubtasks(w, s.SubTasks, depth+1)
	}
}

// scheduleText prints the task range, repeating the date only when it changes.
func scheduleText(t *domain.Task) string {
	start, end := *t.Start, *t.End
	if layout.SameDate(start, end) {
		return fmt.Sprintf("%s %s-%s", start.Format("Mon 01/02"), start.Format("15:04"), end.Format("15:04"))
	}
	return fmt.Sprintf("%s - %s", start.Format("Mon 01/02 15:04"), end.Format("Mon 01/02 15:04"))
}
