package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/runoshun/timegrid/internal/app"
	"github.com/runoshun/timegrid/internal/render"
	"github.com/runoshun/timegrid/internal/usecase"
)

// defaultTextWidth is the terminal width assumed for text timelines.
const defaultTextWidth = 112

// newTimelineCommand creates the timeline command.
func newTimelineCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Date  string
		Zoom  string
		Width int
		out   outputOptions
	}

	cmd := &cobra.Command{
		Use:     "timeline",
		Aliases: []string{"tl"},
		Short:   "Show the weekly timeline",
		Long: `Show the scheduled tasks of one week on a continuous timeline.

Overlapping tasks are stacked on separate lanes. Tasks crossing the week
boundary are cut at the edge and continue in the neighbouring week.

Examples:
  # Show the current week
  timegrid timeline

  # Show next week at quarter-hour resolution
  timegrid timeline --week 2026-10-21 --zoom in

  # Export as SVG
  timegrid timeline --format svg -o week.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := render.ParseFormat(opts.out.Format)
			if err != nil {
				return err
			}

			out, err := c.ShowTimelineUseCase().Execute(cmd.Context(), usecase.ShowTimelineInput{
				Date: opts.Date,
				Zoom: opts.Zoom,
			})
			if err != nil {
				return err
			}

			return opts.out.withOutput(cmd, func(w io.Writer) error {
				switch format {
				case render.FormatJSON:
					return render.WriteJSON(w, render.NewTimelineDoc(out.Timeline))
				case render.FormatSVG:
					return writeString(w, render.TimelineSVG(out.Timeline))
				default:
					st := render.DefaultStyles()
					if err := writeString(w, render.TimelineText(out.Timeline, opts.Width, st, out.Now, "")); err != nil {
						return err
					}
					return writeString(w, render.TimelineAgenda(out.Timeline, st))
				}
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Date, "week", "w", "", "Any day of the week to show (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVarP(&opts.Zoom, "zoom", "z", "", "Zoom: in (minutes) or out (hours), default from [layout] zoom")
	cmd.Flags().IntVar(&opts.Width, "width", defaultTextWidth, "Text output width in columns")
	opts.out.register(cmd)

	return cmd
}
