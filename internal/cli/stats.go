package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/carlrannaberg/claudekit/internal/execlog"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate per-hook execution stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd)
		},
	}
}

func runStats(cmd *cobra.Command) error {
	store, err := execlog.NewDefault()
	if err != nil {
		return fmt.Errorf("resolving log store: %w", err)
	}

	agg, err := store.Aggregate()
	if err != nil {
		return fmt.Errorf("aggregating logs: %w", err)
	}
	if len(agg) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no execution history yet")
		return nil
	}

	ids := make([]string, 0, len(agg))
	for id := range agg {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := cmd.OutOrStdout()
	width := terminalWidth()
	if width >= 100 {
		fmt.Fprintf(w, "%-28s %8s %8s %8s %8s %8s %8s\n", "HOOK", "COUNT", "BLOCKED", "SKIPPED", "P50", "P95", "MAX")
	} else {
		fmt.Fprintf(w, "%-20s %6s %6s %6s\n", "HOOK", "COUNT", "P50", "MAX")
	}

	for _, id := range ids {
		s := agg[id]
		if width >= 100 {
			fmt.Fprintf(w, "%-28s %8d %8d %8d %7dms %7dms %7dms\n",
				s.HookID, s.Count, s.BlockCount, s.SkipCount, s.P50Ms, s.P95Ms, s.MaxMs)
		} else {
			fmt.Fprintf(w, "%-20s %6d %5dms %5dms\n", s.HookID, s.Count, s.P50Ms, s.MaxMs)
		}
	}
	return nil
}

// terminalWidth resolves stdout's column width via golang.org/x/term when
// stdout is a TTY, falling back to a fixed width otherwise.
func terminalWidth() int {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}
