package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/runoshun/timegrid/internal/app"
)

// newAuthCommand creates the auth command with subcommands.
func newAuthCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize external task sources",
	}
	cmd.AddCommand(newAuthGCalCommand(c))
	return cmd
}

// newAuthGCalCommand creates the auth gcal subcommand.
func newAuthGCalCommand(c *app.Container) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "gcal",
		Short: "Authorize read access to Google Calendar",
		Long: `Authorize timegrid to read events from Google Calendar.

Download an OAuth client secrets file for a desktop application and save it
as ~/.config/timegrid/credentials.json (or set [gcal] credentials).
Open the printed URL, grant access, and paste the authorization code.
The token is written to ~/.config/timegrid/token.json (or [gcal] token).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			auth, err := c.GCalAuthenticator()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if code == "" {
				_, _ = fmt.Fprintf(w, "Open this URL in your browser:\n\n  %s\n\n", auth.AuthURL(uuid.NewString()))
				_, _ = fmt.Fprint(w, "Authorization code: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read authorization code: %w", err)
				}
				code = line
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return errors.New("authorization code is required")
			}

			if err := auth.Exchange(cmd.Context(), code); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "Saved token to %s\n", auth.TokenPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Authorization code (skip the prompt)")

	return cmd
}
