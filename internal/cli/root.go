// Package cli assembles the claudekit binary's cobra command tree: run,
// list, stats, recent, profile, disable, enable, status, doctor, version.
// Grounded on the prior CLI's root.go/hook_registry.go command-assembly
// pattern, narrowed to Claudekit's flat one-host surface.
package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/carlrannaberg/claudekit/internal/versioncheck"
)

const accessibilityHelp = `
Environment Variables:
  ACCESSIBLE    Set to any value (e.g., ACCESSIBLE=1) to enable accessibility
                mode. This uses simpler text prompts instead of interactive
                selects, which works better with screen readers.
  DEBUG         Set to "true" for verbose stderr diagnostics.
`

// Version is set at build time (ldflags); "dev" for local/unreleased builds.
var Version = "dev"

// NewRootCmd builds the claudekit root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "claudekit",
		Short:         "Hook engine and component registry for Claude Code",
		Long:          "claudekit runs lifecycle hooks for an AI coding assistant host." + accessibilityHelp,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newRecentCmd())
	cmd.AddCommand(newProfileCmd())
	cmd.AddCommand(newDisableCmd())
	cmd.AddCommand(newEnableCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "version",
		Short:  "Show version information",
		Hidden: false,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "claudekit %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			versioncheck.CheckAndNotify(os.Stdout, Version)
		},
	}
}

// accessible reports whether the ACCESSIBLE env var requests plain-text
// prompts in place of interactive TUI selects (screen-reader friendly).
func accessible() bool {
	return os.Getenv("ACCESSIBLE") != ""
}
