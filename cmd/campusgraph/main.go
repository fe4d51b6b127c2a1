// Package main provides the entry point for the campusgraph CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/campusgraph/campusgraph/cmd/campusgraph/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application, err := app.New(version, commit, date)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
