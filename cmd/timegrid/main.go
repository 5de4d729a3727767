// Package main is the entry point for the timegrid CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/runoshun/timegrid/internal/app"
	"github.com/runoshun/timegrid/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Create dependency injection container
	container, err := app.New(cwd)
	if err != nil {
		// Help and version still work with a broken config or an unreachable store
		if canRunWithoutContainer(os.Args[1:]) {
			return cli.NewRootCommand(nil, version).Execute()
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		if cerr := container.Close(context.Background()); cerr != nil && err == nil {
			err = cerr
		}
	}()

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.Execute()
}

func canRunWithoutContainer(args []string) bool {
	if len(args) > 0 && args[0] == "help" {
		return true
	}
	for _, arg := range args {
		switch arg {
		case "--version", "-v", "--help", "-h":
			return true
		}
	}
	return false
}
