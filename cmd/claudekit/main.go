// Command claudekit is the hook engine's binary entrypoint: dispatches
// `run <hook-id>` invocations from the host's settings.json and the
// handful of operator subcommands (list, stats, recent, profile, disable,
// enable, status, doctor, version).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/carlrannaberg/claudekit/internal/cli"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	cli.Version = version
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		cancel()
		os.Exit(1)
	}
	cancel()
}
