package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carlrannaberg/claudekit/internal/hookdef"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every registered hook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, def := range hookdef.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %-40s %s\n", def.ID, strings.Join(def.TriggerEvents, ","), def.Description)
			}
			return nil
		},
	}
}
