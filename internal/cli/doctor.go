package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carlrannaberg/claudekit/internal/hooks"
	"github.com/carlrannaberg/claudekit/internal/repo"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose which hooks' dependencies are satisfied in this project",
		Long: `Runs each hook's own detection step (tsconfig presence, lint config
presence, git availability, ...) without executing the hook, printing a
Skip/Ready table. Useful for diagnosing a misconfigured project without
triggering a real Block.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}
}

func runDoctor(cmd *cobra.Command) error {
	root, err := repo.Root()
	if err != nil {
		root = cwdOrEmpty()
	}

	w := cmd.OutOrStdout()
	checks := hooks.Diagnose(root)
	for _, c := range checks {
		status := "READY"
		if !c.Ready {
			status = "SKIP "
		}
		fmt.Fprintf(w, "[%s] %-28s %s\n", status, c.HookID, c.Detail)
	}
	return nil
}
