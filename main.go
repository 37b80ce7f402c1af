// -- main.go --
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mesaworks/smartpost/cmd"
	"github.com/mesaworks/smartpost/internal/observability"
)

// main is the entry point for the smartpost CLI.
func main() {
	// Set up a context that listens for interrupt signals (SIGINT, SIGTERM)
	// for graceful shutdown: the workflow's deferred session teardown runs
	// before the process exits.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}
