// Package main is the entry point for the flowlist CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"flowlist/internal/backend/flowapi"
	"flowlist/internal/cli"
	"flowlist/internal/commands"
	"flowlist/internal/config"
	"flowlist/internal/service"
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

	log.SetOutput(os.Stderr)
	if os.Getenv("FLOWLIST_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	// Default factory: the HTTP gateway against the configured backend.
	factory := func(ctx context.Context, cfg *config.Config, token service.TokenFunc) (service.Service, error) {
		return flowapi.New(cfg, token)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
