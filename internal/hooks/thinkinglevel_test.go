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

func intPtr(n int) *int { return &n }

func TestThinkingLevelHook_AllowsWhenLevelUnset(t *testing.T) {
	h := thinkingLevelHook{}
	outcome, err := h.Run(context.Background(), payload.Event{}, config.HookConfig{})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Allow, outcome.Kind)
}

func TestThinkingLevelHook_AllowsWhenLevelExplicitlyZero(t *testing.T) {
	h := thinkingLevelHook{}
	outcome, err := h.Run(context.Background(), payload.Event{}, config.HookConfig{Level: intPtr(0)})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Allow, outcome.Kind)
}

func TestThinkingLevelHook_InjectsKeywordForEachLevel(t *testing.T) {
	h := thinkingLevelHook{}

	cases := map[int]string{1: "think", 2: "megathink", 3: "ultrathink"}
	for level, keyword := range cases {
		outcome, err := h.Run(context.Background(), payload.Event{}, config.HookConfig{Level: intPtr(level)})
		require.NoError(t, err)
		assert.Equal(t, hookdef.InjectContext, outcome.Kind)
		assert.Equal(t, keyword, outcome.Text)
	}
}

func TestThinkingLevelHook_AllowsUnknownLevel(t *testing.T) {
	h := thinkingLevelHook{}
	outcome, err := h.Run(context.Background(), payload.Event{}, config.HookConfig{Level: intPtr(99)})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Allow, outcome.Kind)
}

func TestThinkingLevelHook_Registered(t *testing.T) {
	_, ok := hookdef.Get("thinking-level")
	assert.True(t, ok)
}
