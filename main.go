// Package main is the entry point of the ballhog CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/ballhog/cmd"
	"github.com/huangsam/ballhog/internal/iocache"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and returns the process exit code.
// Deferred cleanup runs before os.Exit.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer iocache.CloseCaching()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "Error stopping profiling:", err)
		}
	}()

	if err := cmd.Execute(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
