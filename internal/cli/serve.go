package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runoshun/timegrid/internal/app"
	"github.com/runoshun/timegrid/internal/domain"
)

// serveFunc starts the HTTP server, allowing it to be mocked in tests.
var serveFunc = func(cmd *cobra.Command, c *app.Container, addr string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.Server().ListenAndServe(ctx, addr)
}

// newServeCommand creates the serve command for the HTTP API.
func newServeCommand(c *app.Container) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve timeline and calendar layouts as JSON and SVG.

Endpoints:
  GET /healthz
  GET /api/tasks
  GET /api/tasks/{id}
  GET /api/timeline?week=YYYY-MM-DD&zoom=in|out
  GET /api/calendar/{day|week|month}?date=YYYY-MM-DD&narrow=true
  GET /timeline.svg
  GET /calendar/{day|week}.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = domain.DefaultServerAddr
				if c.AppConfig != nil && c.AppConfig.Server.Addr != "" {
					addr = c.AppConfig.Server.Addr
				}
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", addr)
			return serveFunc(cmd, c, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from [server] addr)")

	return cmd
}
