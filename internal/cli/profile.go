package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/hookrun"
	"github.com/carlrannaberg/claudekit/internal/payload"
	"github.com/carlrannaberg/claudekit/internal/session"
)

const defaultProfileIterations = 10

func newProfileCmd() *cobra.Command {
	var iterations int

	cmd := &cobra.Command{
		Use:   "profile [hook-id]",
		Short: "Measure a hook's (or every hook's) execution latency",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var hookID string
			if len(args) == 1 {
				hookID = args[0]
			}
			return runProfile(cmd, hookID, iterations)
		},
	}
	cmd.Flags().IntVar(&iterations, "iterations", defaultProfileIterations, "Number of runs to average per hook")
	return cmd
}

func runProfile(cmd *cobra.Command, hookID string, iterations int) error {
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

	tracker, err := session.NewDefault(session.UnknownSessionID)
	if err != nil {
		tracker = nil
	}
	cfg := config.Load(cwdOrEmpty())
	ev := payload.Event{}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-28s %8s %8s %8s\n", "HOOK", "N", "AVG", "MAX")
	for _, def := range defs {
		ev.HookEventName = def.TriggerEvents[0]
		avg, peak := profileOne(cmd, def, ev, tracker, cfg, iterations)
		fmt.Fprintf(w, "%-28s %8d %6dms %6dms\n", def.ID, iterations, avg, peak)
	}
	return nil
}

func profileOne(cmd *cobra.Command, def hookdef.Definition, ev payload.Event, tracker *session.Tracker, cfg *config.Config, iterations int) (avgMs, maxMs int64) {
	var total int64
	for i := 0; i < iterations; i++ {
		result := hookrun.Run(cmd.Context(), def, ev, nil, hookrun.Deps{Tracker: tracker, Config: cfg})
		d := result.LogLine.DurationMs
		total += d
		if d > maxMs {
			maxMs = d
		}
	}
	if iterations > 0 {
		avgMs = total / int64(iterations)
	}
	return avgMs, maxMs
}
