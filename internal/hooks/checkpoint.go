package hooks

import (
	"context"
	"fmt"
	"time"

	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/payload"
	"github.com/carlrannaberg/claudekit/internal/repo"
)

const (
	defaultCheckpointPrefix = "claude-checkpoint:"
	defaultMaxCheckpoints   = 10
)

func init() {
	hookdef.Register(hookdef.Definition{
		ID:                 "create-checkpoint",
		TriggerEvents:      []string{hookdef.EventStop, hookdef.EventSubagentStop},
		Matcher:            "*",
		Description:        "Stashes (and reapplies) uncommitted work as a checkpoint on Stop.",
		DisabledInSubagent: true,
		Factory:            func() hookdef.Implementation { return checkpointHook{} },
	})
}

type checkpointHook struct{}

func (checkpointHook) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (hookdef.Outcome, error) {
	// stop_hook_active is also enforced generically by the Base Hook Runtime,
	// but create-checkpoint's own contract names it explicitly: never stash
	// in response to the host's own loop-prevention re-invocation.
	if ev.StopHookActive {
		return hookdef.SkipOutcome(), nil
	}
	if !repo.IsWorktree() {
		return hookdef.SkipOutcome(), nil
	}
	dirty, err := repo.HasUncommittedChanges()
	if err != nil || !dirty {
		return hookdef.SkipOutcome(), nil
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultCheckpointPrefix
	}
	message := fmt.Sprintf("%s%s", prefix, time.Now().UTC().Format(time.RFC3339))

	if err := repo.StashCreateAndApply(message); err != nil {
		return hookdef.AllowOutcome(), nil //nolint:nilerr // a failed checkpoint never blocks the host from stopping
	}

	maxCheckpoints := defaultMaxCheckpoints
	if cfg.MaxCheckpoints != nil {
		maxCheckpoints = *cfg.MaxCheckpoints
	}
	pruneCheckpoints(prefix, maxCheckpoints)

	return hookdef.AllowOutcome(), nil
}

// pruneCheckpoints drops the oldest stash entries with prefix beyond
// maxCheckpoints, keeping the most recent ones (lowest index = most recent
// in `git stash list`).
func pruneCheckpoints(prefix string, maxCheckpoints int) {
	entries, err := repo.StashList(prefix)
	if err != nil || len(entries) <= maxCheckpoints {
		return
	}
	// Drop oldest-first, but issue the drops from highest index to lowest:
	// `git stash drop` renumbers every later entry down by one, so dropping
	// ascending indices would shift the next target out from under us.
	toDrop := entries[maxCheckpoints:]
	for i := len(toDrop) - 1; i >= 0; i-- {
		_ = repo.StashDrop(toDrop[i].Index)
	}
}
