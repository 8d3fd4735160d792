package hooks

import (
	"context"

	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/payload"
)

var thinkingKeywords = map[int]string{
	0: "",
	1: "think",
	2: "megathink",
	3: "ultrathink",
}

func init() {
	hookdef.Register(hookdef.Definition{
		ID:            "thinking-level",
		TriggerEvents: []string{hookdef.EventUserPromptSubmit},
		Matcher:       "*",
		Description:   "Injects the configured extended-thinking keyword into the next prompt.",
		Factory:       func() hookdef.Implementation { return thinkingLevelHook{} },
	})
}

type thinkingLevelHook struct{}

func (thinkingLevelHook) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (hookdef.Outcome, error) {
	level := 0
	if cfg.Level != nil {
		level = *cfg.Level
	}
	keyword, ok := thinkingKeywords[level]
	if !ok || keyword == "" {
		return hookdef.AllowOutcome(), nil
	}
	return hookdef.InjectOutcome(keyword), nil
}
