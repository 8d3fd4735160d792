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

func TestCheckAnyHook_SkipsNonTypeScriptFile(t *testing.T) {
	h := checkAnyHook{}
	ev := payload.Event{ToolInput: []byte(`{"file_path":"main.go","new_string":"var x any"}`)}
	outcome, err := h.Run(context.Background(), ev, config.HookConfig{})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Skip, outcome.Kind)
}

func TestCheckAnyHook_SkipsTestFile(t *testing.T) {
	h := checkAnyHook{}
	ev := payload.Event{ToolInput: []byte(`{"file_path":"main.test.ts","new_string":"const x: any = 1;"}`)}
	outcome, err := h.Run(context.Background(), ev, config.HookConfig{})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Skip, outcome.Kind)
}

func TestCheckAnyHook_BlocksNewAnyUsage(t *testing.T) {
	h := checkAnyHook{}
	ev := payload.Event{ToolInput: []byte(`{"file_path":"main.ts","new_string":"function f(x: any) {\n  return x;\n}"}`)}
	outcome, err := h.Run(context.Background(), ev, config.HookConfig{})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Block, outcome.Kind)
	assert.Contains(t, outcome.Reason, "main.ts")
}

func TestCheckAnyHook_AllowsCleanTypes(t *testing.T) {
	h := checkAnyHook{}
	ev := payload.Event{ToolInput: []byte(`{"file_path":"main.ts","new_string":"function f(x: number) {\n  return x;\n}"}`)}
	outcome, err := h.Run(context.Background(), ev, config.HookConfig{})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Allow, outcome.Kind)
}

func TestCheckAnyHook_IgnoresAnyInsideStringsAndComments(t *testing.T) {
	h := checkAnyHook{}
	ev := payload.Event{ToolInput: []byte(`{"file_path":"main.ts","new_string":"// uses any internally\nconst msg = \"accepts any value\";"}`)}
	outcome, err := h.Run(context.Background(), ev, config.HookConfig{})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Allow, outcome.Kind)
}

func TestStripStringsAndComments(t *testing.T) {
	out := stripStringsAndComments("const n = 1; // any\nconst s = \"any\";")
	assert.NotContains(t, out, "any")
}

func TestCheckAnyHook_Registered(t *testing.T) {
	_, ok := hookdef.Get("check-any-changed")
	assert.True(t, ok)
}
