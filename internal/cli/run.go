package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/carlrannaberg/claudekit/internal/hooks" // registers every hookdef.Definition via init()

	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/execlog"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/hookrun"
	"github.com/carlrannaberg/claudekit/internal/logx"
	"github.com/carlrannaberg/claudekit/internal/payload"
	"github.com/carlrannaberg/claudekit/internal/response"
	"github.com/carlrannaberg/claudekit/internal/session"
	"github.com/carlrannaberg/claudekit/internal/telemetry"
	"github.com/carlrannaberg/claudekit/internal/transcript"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "run <hook-id>",
		Short:  "Run a hook against the payload on stdin",
		Hidden: true, // invoked by the host via settings.json, not directly by users
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := runHook(cmd, args[0])
			os.Exit(int(code))
			return nil
		},
	}
	return cmd
}

func runHook(cmd *cobra.Command, hookID string) response.ExitCode {
	def, ok := hookdef.Get(hookID)
	if !ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "claudekit: unknown hook %q\n", hookID)
		return response.ExitInternal
	}

	ctx := cmd.Context()
	ev := payload.Read(ctx, cmd.InOrStdin())

	sessionID := session.DeriveID(ev.SessionID, ev.TranscriptPath)
	tracker, err := session.NewDefault(sessionID)
	if err != nil {
		tracker = nil
	}

	if logsDir, logErr := defaultLogsDir(); logErr == nil {
		_ = logx.Init(logsDir, sessionID)
		defer logx.Close()
	}
	ctx = logx.WithSession(ctx, sessionID)

	cfg := config.Load(cwdOrEmpty())

	var records []transcript.Record
	if ev.TranscriptPath != "" {
		if parsed, err := transcript.ParseFile(ev.TranscriptPath); err == nil {
			records = parsed
		}
	}

	logs, err := execlog.NewDefault()
	if err != nil {
		logs = nil
	}

	result := hookrun.Run(ctx, def, ev, records, hookrun.Deps{
		Tracker: tracker,
		Logs:    logs,
		Config:  cfg,
	})

	telemetryClient := telemetry.NewClient(Version, cfg.TelemetryEnabled())
	defer telemetryClient.Close()
	telemetryClient.TrackHookRun(hookID, result.LogLine.Outcome, result.LogLine.DurationMs)

	return response.Emit(cmd.OutOrStdout(), cmd.ErrOrStderr(), ev.HookEventName, result.Outcome)
}

func defaultLogsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return home + string(os.PathSeparator) + ".claudekit" + string(os.PathSeparator) + "logs", nil
}

func cwdOrEmpty() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
}
