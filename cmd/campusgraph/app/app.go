// Package app wires configuration, logging, and the command tree for
// the campusgraph CLI.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/campusgraph/campusgraph/pkg/logging"
)

// App is the campusgraph CLI application.
type App struct {
	config  *Config
	logger  *zerolog.Logger
	root    *cobra.Command
	version string
	commit  string
	date    string
}

// New creates the application, loading configuration and setting up
// logging.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(config)
	logging.SetDefault(logger)

	a := &App{
		config:  config,
		logger:  &logger,
		version: version,
		commit:  commit,
		date:    date,
	}
	a.root = a.commands()
	return a, nil
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Execute runs the command tree with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.root.ExecuteContext(logging.WithLogger(ctx, a.logger))
}

// ExitOnError prints the error and exits non-zero.
func ExitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newLogger builds the zerolog logger per the configured level and
// format.
func newLogger(config *Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	switch config.LogFormat {
	case "json":
		logger = logging.NewJSON(os.Stderr)
	case "console":
		logger = logging.NewConsole()
	default:
		logger = logging.New(os.Stderr)
	}
	return logger.Level(level)
}
