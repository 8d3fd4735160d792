package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/session"
)

func newDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable [hook-id]",
		Short: "Disable a hook for the current session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return toggleHooks(cmd, args, true)
		},
	}
}

func newEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable [hook-id]",
		Short: "Re-enable a hook for the current session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return toggleHooks(cmd, args, false)
		},
	}
}

func toggleHooks(cmd *cobra.Command, args []string, disable bool) error {
	ids := args
	if len(ids) == 0 {
		selected, err := selectHookIDs(cmd, disable)
		if err != nil {
			return err
		}
		ids = selected
	}
	if len(ids) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no hooks selected")
		return nil
	}

	tracker, err := session.NewDefault(currentSessionID())
	if err != nil {
		return fmt.Errorf("resolving session tracker: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "session: %s\n", tracker.ID())

	for _, id := range ids {
		if _, ok := hookdef.Get(id); !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "claudekit: unknown hook %q\n", id)
			continue
		}
		var toggleErr error
		if disable {
			toggleErr = tracker.Disable(id)
		} else {
			toggleErr = tracker.Enable(id)
		}
		if toggleErr != nil {
			return fmt.Errorf("toggling %s: %w", id, toggleErr)
		}
		verb := "enabled"
		if disable {
			verb = "disabled"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", id, verb)
	}
	return nil
}

// selectHookIDs presents an interactive multi-select over the registry's
// enumerated hooks, falling back to a numbered plain-text prompt under
// ACCESSIBLE (screen readers don't get along with huh's TUI).
func selectHookIDs(cmd *cobra.Command, disable bool) ([]string, error) {
	defs := hookdef.All()
	verb := "enable"
	if disable {
		verb = "disable"
	}

	if accessible() {
		return selectHookIDsPlain(cmd, defs, verb)
	}

	options := make([]huh.Option[string], 0, len(defs))
	for _, d := range defs {
		options = append(options, huh.NewOption(fmt.Sprintf("%s — %s", d.ID, d.Description), d.ID))
	}

	var selected []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(fmt.Sprintf("Select hooks to %s", verb)).
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("hook selection prompt failed: %w", err)
	}
	return selected, nil
}

func selectHookIDsPlain(cmd *cobra.Command, defs []hookdef.Definition, verb string) ([]string, error) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Select hooks to %s (comma-separated numbers):\n", verb)
	for i, d := range defs {
		fmt.Fprintf(w, "  %2d) %s — %s\n", i+1, d.ID, d.Description)
	}
	fmt.Fprint(w, "> ")

	reader := bufio.NewReader(cmd.InOrStdin())
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	var ids []string
	for _, tok := range strings.Split(line, ",") {
		tok = strings.TrimSpace(tok)
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 || n > len(defs) {
			continue
		}
		ids = append(ids, defs[n-1].ID)
	}
	return ids, nil
}

// currentSessionID resolves the session `disable`/`enable` act on when run
// from a terminal rather than inside a hook invocation: the most recently
// touched session directory under ~/.claudekit/sessions, falling back to the
// ephemeral "unknown" session (a no-op store) if none exists yet.
func currentSessionID() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return session.UnknownSessionID
	}
	sessionsDir := filepath.Join(home, ".claudekit", "sessions")
	entries, err := os.ReadDir(sessionsDir)
	if err != nil || len(entries) == 0 {
		return session.UnknownSessionID
	}

	type candidate struct {
		id      string
		modTime int64
	}
	var candidates []candidate
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{id: e.Name(), modTime: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return session.UnknownSessionID
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].modTime > candidates[j].modTime })
	return candidates[0].id
}
