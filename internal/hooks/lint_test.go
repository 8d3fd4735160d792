package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/payload"
)

func TestLintHook_SkipsNonMatchingExtension(t *testing.T) {
	chdirTemp(t, t.TempDir())

	h := lintHook{changedOnly: true}
	ev := payload.Event{ToolInput: []byte(`{"file_path":"README.md"}`)}
	outcome, err := h.Run(context.Background(), ev, config.HookConfig{})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Skip, outcome.Kind)
}

func TestLintHook_SkipsWhenNoLinterDetectedAndNoCommand(t *testing.T) {
	chdirTemp(t, t.TempDir())

	h := lintHook{changedOnly: false}
	outcome, err := h.Run(context.Background(), payload.Event{}, config.HookConfig{})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Skip, outcome.Kind)
}

func TestLintHook_ConfiguredCommandAllowsOnSuccess(t *testing.T) {
	chdirTemp(t, t.TempDir())

	h := lintHook{changedOnly: false}
	outcome, err := h.Run(context.Background(), payload.Event{}, config.HookConfig{Command: "true"})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Allow, outcome.Kind)
}

func TestLintHook_ConfiguredCommandBlocksOnFailure(t *testing.T) {
	chdirTemp(t, t.TempDir())

	h := lintHook{changedOnly: false}
	outcome, err := h.Run(context.Background(), payload.Event{}, config.HookConfig{Command: "echo boom && false"})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Block, outcome.Kind)
	assert.Contains(t, outcome.Reason, "boom")
}

func TestLintHook_Registered(t *testing.T) {
	_, ok := hookdef.Get("lint-changed")
	assert.True(t, ok)
	_, ok = hookdef.Get("lint-project")
	assert.True(t, ok)
}
