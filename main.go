// ./main.go
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/phosim/cmd"
)

// main is the entry point for the phosim CLI.
func main() {
	// A signal-aware context lets a long grid sweep abort cleanly while
	// keeping every configuration that already finished.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.ExecuteContext(ctx)
}
