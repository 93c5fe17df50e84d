// Package main is the entry point for the todoai CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todoai/internal/backend/postgrest"
	"todoai/internal/cli"
	"todoai/internal/commands"
	"todoai/internal/config"
	"todoai/internal/core"
	"todoai/internal/sync"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create service factory: static store credentials from the
	// environment, the user ID from the saved session.
	factory := func(ctx context.Context, cfg *config.Config) (*sync.Coordinator, error) {
		creds, err := config.CredentialsFromEnv()
		if err != nil {
			return nil, err
		}
		session, err := cfg.LoadSession()
		if err != nil {
			return nil, err
		}
		st := postgrest.New(creds.BaseURL, creds.APIKey)
		return sync.New(st, core.NewCache(), session.UserID), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
