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

func TestHasExtension(t *testing.T) {
	assert.True(t, hasExtension("src/main.ts", typescriptExtensions))
	assert.True(t, hasExtension("src/main.TSX", typescriptExtensions))
	assert.False(t, hasExtension("src/main.go", typescriptExtensions))
	assert.False(t, hasExtension("", typescriptExtensions))
}

func TestTypecheckHook_SkipsNonTypeScriptFileWhenChangedOnly(t *testing.T) {
	dir := t.TempDir()
	chdirTemp(t, dir)

	h := typecheckHook{changedOnly: true}
	ev := payload.Event{ToolInput: []byte(`{"file_path":"README.md"}`)}
	outcome, err := h.Run(context.Background(), ev, config.HookConfig{})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Skip, outcome.Kind)
}

func TestTypecheckHook_SkipsWhenNoTsconfig(t *testing.T) {
	dir := t.TempDir()
	chdirTemp(t, dir)

	h := typecheckHook{changedOnly: true}
	ev := payload.Event{ToolInput: []byte(`{"file_path":"src/main.ts"}`)}
	outcome, err := h.Run(context.Background(), ev, config.HookConfig{})

	require.NoError(t, err)
	assert.Equal(t, hookdef.Skip, outcome.Kind)
}

func TestTypecheckHook_Registered(t *testing.T) {
	_, ok := hookdef.Get("typecheck-changed")
	assert.True(t, ok)
	_, ok = hookdef.Get("typecheck-project")
	assert.True(t, ok)
}
