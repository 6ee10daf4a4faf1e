package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/crewgen/internal/cmd"
	"github.com/felixgeelhaar/crewgen/internal/exitcode"
	"github.com/felixgeelhaar/crewgen/internal/log"
)

func main() {
	// Create a context that listens for interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		// Check if error was due to context cancellation (e.g., Ctrl+C)
		if errors.Is(ctx.Err(), context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled by user")
			exitcode.Exit(exitcode.Interrupted)
		}

		code := exitcode.DetermineExitCode(err)
		log.DefaultLogger().LogError(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Exit %d: %s\n", code, exitcode.GetExitCodeDescription(code))
		exitcode.Exit(code)
	}
	exitcode.Exit(exitcode.Success)
}
