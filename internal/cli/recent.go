package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carlrannaberg/claudekit/internal/execlog"
)

const defaultRecentCount = 20

func newRecentCmd() *cobra.Command {
	var hookID string
	var count int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent hook executions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecent(cmd, hookID, count)
		},
	}
	cmd.Flags().StringVar(&hookID, "hook", "", "Limit to a single hook id")
	cmd.Flags().IntVar(&count, "count", defaultRecentCount, "Number of entries to show")
	return cmd
}

func runRecent(cmd *cobra.Command, hookID string, count int) error {
	store, err := execlog.NewDefault()
	if err != nil {
		return fmt.Errorf("resolving log store: %w", err)
	}

	entries, err := store.Recent(hookID, count)
	if err != nil {
		return fmt.Errorf("reading recent entries: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no execution history yet")
		return nil
	}

	w := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-28s %-24s %6dms  session=%s\n",
			e.Timestamp.Format("2006-01-02T15:04:05Z07:00"), e.HookID, e.Outcome, e.DurationMs, e.SessionID)
	}
	return nil
}
