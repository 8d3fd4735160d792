package hooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlrannaberg/claudekit/internal/claudeerr"
	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/payload"
	"github.com/carlrannaberg/claudekit/internal/repo"
	"github.com/carlrannaberg/claudekit/internal/response"
	"github.com/carlrannaberg/claudekit/internal/session"
)

const codebaseMapLoadedFlag = "codebase-map-loaded"

var defaultCodebaseMapInclude = []string{"**/*"}
var defaultCodebaseMapExclude = []string{"**/node_modules/**", "**/dist/**", "**/.git/**"}

func init() {
	hookdef.Register(hookdef.Definition{
		ID:            "codebase-map",
		TriggerEvents: []string{hookdef.EventSessionStart, hookdef.EventUserPromptSubmit},
		Matcher:       "*",
		Description:   "Injects a generated codebase map once per session.",
		Factory:       func() hookdef.Implementation { return codebaseMapHook{} },
	})
	hookdef.Register(hookdef.Definition{
		ID:            "codebase-map-update",
		TriggerEvents: []string{hookdef.EventPostToolUse},
		Matcher:       "Write|Edit|MultiEdit",
		Description:   "Regenerates the codebase map incrementally as files change.",
		Factory:       func() hookdef.Implementation { return codebaseMapUpdateHook{} },
	})
}

type codebaseMapHook struct{}

func (codebaseMapHook) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (hookdef.Outcome, error) {
	id := session.DeriveID(ev.SessionID, ev.TranscriptPath)
	tracker, err := session.NewDefault(id)
	if err != nil {
		return hookdef.Outcome{}, claudeerr.NewEnvironmentAbsent("resolving session tracker", err)
	}

	if tracker.GetFlag(codebaseMapLoadedFlag) == "true" {
		return hookdef.SkipOutcome(), nil
	}

	text, err := generateCodebaseMap(ctx, cfg)
	if err != nil {
		return hookdef.Outcome{}, err
	}
	if text == "" {
		return hookdef.SkipOutcome(), nil
	}

	if id != session.UnknownSessionID && !config.Debug() {
		_ = tracker.SetFlag(codebaseMapLoadedFlag, "true")
	}

	if len(text) > response.InjectionCap {
		text = text[:response.InjectionCap]
	}
	return hookdef.InjectOutcome(text), nil
}

type codebaseMapUpdateHook struct{}

func (codebaseMapUpdateHook) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (hookdef.Outcome, error) {
	// Incremental regeneration has no user-visible response: PostToolUse
	// Block/Allow is the only vocabulary available, and a successful
	// regeneration is not an error condition.
	if _, err := generateCodebaseMap(ctx, cfg); err != nil {
		return hookdef.Outcome{}, err
	}
	return hookdef.AllowOutcome(), nil
}

func generateCodebaseMap(ctx context.Context, cfg config.HookConfig) (string, error) {
	if !binaryOnPath("codebase-map") && !binaryOnPath("npx") {
		return "", claudeerr.NewEnvironmentAbsent("no codebase-map tool available", nil)
	}

	root, err := repo.Root()
	if err != nil {
		root = "."
	}

	include := cfg.Include
	if len(include) == 0 {
		include = defaultCodebaseMapInclude
	}
	exclude := cfg.Exclude
	if len(exclude) == 0 {
		exclude = defaultCodebaseMapExclude
	}
	format := cfg.Format
	if format == "" {
		format = "dsl"
	}

	command := cfg.Command
	if command == "" {
		command = fmt.Sprintf(
			"npx codebase-map --include %s --exclude %s --format %s",
			strings.Join(include, ","), strings.Join(exclude, ","), format,
		)
	}

	res, err := runShell(ctx, root, command)
	if err != nil {
		return "", claudeerr.NewInternal("running codebase-map", err)
	}
	if res.TimedOut {
		return "", claudeerr.NewTimeout("codebase-map timed out", nil)
	}
	if res.ExitCode != 0 {
		return "", claudeerr.NewEnvironmentAbsent("codebase-map exited nonzero", nil)
	}
	return strings.TrimSpace(res.Output), nil
}
