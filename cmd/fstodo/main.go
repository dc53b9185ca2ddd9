// Package main is the entry point for the fstodo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fstodo/internal/backend"
	"fstodo/internal/cli"
	"fstodo/internal/commands"
	"fstodo/internal/config"
	"fstodo/internal/service"
)

func main() {
	// Cancel on interrupt so in-flight store calls and the board stop.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config) (service.Store, error) {
		b, err := backend.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
