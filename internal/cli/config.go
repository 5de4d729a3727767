package cli

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/runoshun/timegrid/internal/app"
	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/usecase"
)

// newConfigCommand creates the config command with subcommands.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage timegrid configuration files.

Configuration is loaded from (later overrides earlier):
  1. Built-in defaults
  2. Global config: ~/.config/timegrid/config.toml
  3. Workspace config: .timegrid/config.toml`,
	}

	cmd.AddCommand(
		newConfigShowCommand(c),
		newConfigInitCommand(c),
	)

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the configuration file locations and the merged result
of defaults, global config and workspace config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			for _, info := range []domain.ConfigInfo{out.GlobalConfig, out.RepoConfig} {
				if info.Exists {
					_, _ = fmt.Fprintf(w, "  %s\n", info.Path)
				} else {
					_, _ = fmt.Fprintf(w, "  %s (not found)\n", info.Path)
				}
			}
			_, _ = fmt.Fprintln(w)

			effective := *out.Effective
			if effective.Neo4j.Password != "" {
				effective.Neo4j.Password = "********"
			}
			data, err := toml.Marshal(effective)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, _ = fmt.Fprintln(w, "[Effective config]")
			_, _ = w.Write(data)

			for _, warning := range out.Effective.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", warning)
			}
			return nil
		},
	}
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file with defaults",
		Long: `Write a commented config file with the default values.

By default the workspace file .timegrid/config.toml is created.
Use --global for ~/.config/timegrid/config.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{Global: global})
			if err != nil {
				if errors.Is(err, domain.ErrConfigExists) {
					return fmt.Errorf("%w (edit it directly or remove it first)", err)
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&global, "global", "g", false, "Create the global config file")

	return cmd
}
