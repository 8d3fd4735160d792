// Package hookrun implements the Base Hook Runtime: the lifecycle every
// hook implementation inherits (disable-check, subagent-skip, matcher
// check, config merge, execution under a timeout, response, logging),
// per spec.md §4.6. Grounded on the prior CLI's hook_registry.go
// newAgentHookVerbCmdWithLogging sequence (skip-if-not-git-repo, log
// invoked/completed with duration), generalized into the Outcome-variant
// dispatch the engine needs.
package hookrun

import (
	"context"
	"log/slog"
	"time"

	"github.com/carlrannaberg/claudekit/internal/claudeerr"
	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/execlog"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/logx"
	"github.com/carlrannaberg/claudekit/internal/payload"
	"github.com/carlrannaberg/claudekit/internal/session"
	"github.com/carlrannaberg/claudekit/internal/transcript"
)

// DefaultTimeout is the per-hook subprocess budget, per spec §4.7/§5.
const DefaultTimeout = 30 * time.Second

// Deps bundles the Base Hook Runtime's collaborators so tests can supply
// fakes without a global registry.
type Deps struct {
	Tracker *session.Tracker
	Logs    *execlog.Store
	Config  *config.Config
}

// Result is what Run returns to the caller (cmd/claudekit's `run` subcommand).
type Result struct {
	Outcome hookdef.Outcome
	LogLine execlog.Entry
}

// Run executes the full Base Hook Runtime sequence for def against ev.
func Run(ctx context.Context, def hookdef.Definition, ev payload.Event, records []transcript.Record, deps Deps) Result {
	start := time.Now()
	ctx = logx.WithHook(ctx, def.ID)
	ctx = logx.WithEvent(ctx, ev.HookEventName)

	entry := execlog.Entry{
		Timestamp: start,
		HookID:    def.ID,
		SessionID: ev.SessionID,
	}

	finish := func(outcome hookdef.Outcome, tag string) Result {
		entry.DurationMs = time.Since(start).Milliseconds()
		entry.Outcome = tag
		entry.ExitCode = exitTagCode(tag)
		if deps.Logs != nil {
			if err := deps.Logs.Append(entry); err != nil {
				logx.Warn(ctx, "failed to append execution log", slog.String("error", err.Error()))
			}
		}
		return Result{Outcome: outcome, LogLine: entry}
	}

	// 1. Disable check.
	if deps.Tracker != nil && deps.Tracker.IsDisabled(def.ID) {
		logx.Debug(ctx, "hook skipped: disabled")
		return finish(hookdef.SkipOutcome(), "skipped:disabled")
	}

	// 2. stop_hook_active short-circuit: the host sets this flag when it is
	// itself re-invoking hooks as a result of a prior Stop/SubagentStop
	// response, and every hook on these events must exit clean rather than
	// re-trigger the same block and loop forever (spec §4.9).
	if ev.StopHookActive && (ev.HookEventName == hookdef.EventStop || ev.HookEventName == hookdef.EventSubagentStop) {
		logx.Debug(ctx, "hook skipped: stop_hook_active")
		return finish(hookdef.AllowOutcome(), "skipped:stop-hook-active")
	}

	// 3. Subagent check.
	if def.DisabledInSubagent {
		isSubagentEvent := ev.HookEventName == hookdef.EventSubagentStop
		if isSubagentEvent || transcript.SubagentContext(records) {
			logx.Debug(ctx, "hook skipped: subagent context")
			return finish(hookdef.SkipOutcome(), "skipped:subagent")
		}
	}

	// 4. Matcher check (tool-scoped events only).
	if !def.MatchesTool(ev.ToolName) {
		logx.Debug(ctx, "hook skipped: matcher did not match")
		return finish(hookdef.SkipOutcome(), "skipped:matcher")
	}

	// 5. Config merge.
	var hc config.HookConfig
	if deps.Config != nil {
		hc = deps.Config.HookConfig(def.ID)
	}
	if hc.Enabled != nil && !*hc.Enabled {
		logx.Debug(ctx, "hook skipped: disabled via config")
		return finish(hookdef.SkipOutcome(), "skipped:config-disabled")
	}

	// 6. Execute, bound by the effective timeout.
	timeout := DefaultTimeout
	if hc.Timeout != nil {
		timeout = time.Duration(*hc.Timeout) * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	impl := def.Factory()
	logx.Debug(ctx, "hook invoked")
	outcome, err := impl.Run(runCtx, ev, hc)
	if err != nil {
		return finish(classifyErrorOutcome(def, err), classifyErrorTag(err))
	}

	tag := tagFor(outcome)
	logx.LogDuration(ctx, slog.LevelDebug, "hook completed", start, slog.String("outcome", tag))
	return finish(outcome, tag)
}

func classifyErrorOutcome(def hookdef.Definition, err error) hookdef.Outcome {
	switch {
	case claudeerr.IsEnvironmentAbsent(err):
		return hookdef.SkipOutcome()
	case claudeerr.IsTimeout(err):
		return hookdef.BlockOutcome("hook timed out: "+err.Error(), "")
	case claudeerr.IsHookBlocked(err):
		return hookdef.BlockOutcome(err.Error(), "")
	case claudeerr.IsInputInvalid(err):
		return hookdef.AllowOutcome()
	default:
		// Internal defects are never surfaced as Block: the host should never
		// see an engine bug rendered as a blocking validation failure.
		return hookdef.AllowOutcome()
	}
}

func classifyErrorTag(err error) string {
	switch {
	case claudeerr.IsEnvironmentAbsent(err):
		return "skipped:environment-absent"
	case claudeerr.IsTimeout(err):
		return "blocked:timeout"
	case claudeerr.IsHookBlocked(err):
		return "blocked"
	case claudeerr.IsInputInvalid(err):
		return "allowed:input-invalid"
	default:
		return "error:internal"
	}
}

func tagFor(o hookdef.Outcome) string {
	switch o.Kind {
	case hookdef.Allow:
		return "allow"
	case hookdef.Block:
		return "block"
	case hookdef.InjectContext:
		return "inject-context"
	case hookdef.PermissionDecision:
		return "permission:" + o.Decision
	case hookdef.Skip:
		return "skip"
	default:
		return "unknown"
	}
}

func exitTagCode(tag string) int {
	switch {
	case tag == "block" || tag == "blocked:timeout" || tag == "blocked":
		return 2
	case tag == "error:internal":
		return 1
	default:
		return 0
	}
}
