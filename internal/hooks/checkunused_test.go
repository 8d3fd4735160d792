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

func TestSignatureParams(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, signatureParams("function foo(a, b) {"))
	assert.Equal(t, []string{"x"}, signatureParams("const f = (x: number = 1) => {"))
	assert.Nil(t, signatureParams("no signature here"))
}

func TestRenamedToUnderscore_DetectsRename(t *testing.T) {
	offenses := renamedToUnderscore(
		"function handler(request, response) {",
		"function handler(_request, response) {",
	)
	require.Len(t, offenses, 1)
	assert.Contains(t, offenses[0], "request -> _request")
}

func TestRenamedToUnderscore_IgnoresAlreadyUnderscored(t *testing.T) {
	offenses := renamedToUnderscore(
		"function handler(_request, response) {",
		"function handler(_request, response) {",
	)
	assert.Empty(t, offenses)
}

func TestCheckUnusedHook_BlocksUnderscoreRename(t *testing.T) {
	h := checkUnusedHook{}
	ev := payload.Event{ToolInput: []byte(`{"file_path":"main.js","old_string":"function handler(request, response) {","new_string":"function handler(_request, response) {"}`)}

	outcome, err := h.Run(context.Background(), ev, config.HookConfig{})
	require.NoError(t, err)
	assert.Equal(t, hookdef.Block, outcome.Kind)
}

func TestCheckUnusedHook_AllowsRealRemoval(t *testing.T) {
	h := checkUnusedHook{}
	ev := payload.Event{ToolInput: []byte(`{"file_path":"main.js","old_string":"function handler(request, response) {","new_string":"function handler(response) {"}`)}

	outcome, err := h.Run(context.Background(), ev, config.HookConfig{})
	require.NoError(t, err)
	assert.Equal(t, hookdef.Allow, outcome.Kind)
}

func TestCheckUnusedHook_Registered(t *testing.T) {
	_, ok := hookdef.Get("check-unused-parameters")
	assert.True(t, ok)
}
