package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/runoshun/timegrid/internal/app"
	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/render"
	"github.com/runoshun/timegrid/internal/usecase"
)

// newCalendarCommand creates the calendar command.
func newCalendarCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Date   string
		Narrow bool
		out    outputOptions
	}

	cmd := &cobra.Command{
		Use:     "calendar [day|week|month]",
		Aliases: []string{"cal"},
		Short:   "Show the calendar grid",
		Long: `Show scheduled tasks on a day, week or month grid (default: week).

Tasks that overlap in time share the column width side by side.
Tasks spanning midnight are split into one piece per day.

Examples:
  # This week
  timegrid calendar

  # A single day with compact hour height
  timegrid calendar day --date 2026-10-14 --narrow

  # Month overview as JSON
  timegrid calendar month --format json`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(domain.ViewDay), string(domain.ViewWeek), string(domain.ViewMonth)},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(opts.out.Format)
			if err != nil {
				return err
			}

			in := usecase.ShowCalendarInput{Date: opts.Date}
			if len(args) > 0 {
				in.View = args[0]
			}
			if cmd.Flags().Changed("narrow") {
				narrow := opts.Narrow
				in.Narrow = &narrow
			}

			out, err := c.ShowCalendarUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			if format == render.FormatSVG && out.View == domain.ViewMonth {
				return fmt.Errorf("%w: %s as %s", domain.ErrUnsupportedView, out.View, format)
			}

			return opts.out.withOutput(cmd, func(w io.Writer) error {
				switch format {
				case render.FormatJSON:
					return render.WriteJSON(w, render.NewCalendarDoc(out.View, out.Date, out.Days, out.Month, out.Viewport))
				case render.FormatSVG:
					return writeString(w, render.CalendarSVG(out.Days, out.Viewport))
				default:
					return writeString(w, calendarText(out))
				}
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Date, "date", "d", "", "Day inside the period to show (YYYY-MM-DD, default: today)")
	cmd.Flags().BoolVar(&opts.Narrow, "narrow", false, "Use the compact hour height (default from [layout] narrow)")
	opts.out.register(cmd)

	return cmd
}

func calendarText(out *usecase.ShowCalendarOutput) string {
	st := render.DefaultStyles()
	switch out.View {
	case domain.ViewMonth:
		if out.Month == nil {
			return ""
		}
		return render.MonthText(*out.Month, st, out.Now)
	default:
		return render.WeekText(out.Days, st, "")
	}
}
