package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/session"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [hook-id]",
		Short: "Show whether hooks are enabled or disabled for the current session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var hookID string
			if len(args) == 1 {
				hookID = args[0]
			}
			return runStatusCmd(cmd, hookID)
		},
	}
}

func runStatusCmd(cmd *cobra.Command, hookID string) error {
	tracker, err := session.NewDefault(currentSessionID())
	if err != nil {
		return fmt.Errorf("resolving session tracker: %w", err)
	}

	var defs []hookdef.Definition
	if hookID != "" {
		def, ok := hookdef.Get(hookID)
		if !ok {
			return fmt.Errorf("unknown hook %q", hookID)
		}
		defs = []hookdef.Definition{def}
	} else {
		defs = hookdef.All()
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "session: %s\n\n", tracker.ID())

	width := terminalWidth()
	for _, def := range defs {
		state := "enabled"
		if tracker.IsDisabled(def.ID) {
			state = "disabled"
		}
		if width >= 100 {
			fmt.Fprintf(w, "%-28s %-10s %s\n", def.ID, state, def.Description)
		} else {
			fmt.Fprintf(w, "%-28s %s\n", def.ID, state)
		}
	}
	return nil
}
