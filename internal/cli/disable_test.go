package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlrannaberg/claudekit/internal/session"
)

func TestToggleHooks_DisableAndEnableByArg(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claudekit", "sessions", "existing-session"), 0o750))

	disableCmd := newDisableCmd()
	out := &bytes.Buffer{}
	disableCmd.SetOut(out)
	require.NoError(t, disableCmd.RunE(disableCmd, []string{"thinking-level"}))
	assert.Contains(t, out.String(), "disabled: thinking-level")

	tracker, err := session.NewDefault(currentSessionID())
	require.NoError(t, err)
	assert.True(t, tracker.IsDisabled("thinking-level"))

	enableCmd := newEnableCmd()
	out2 := &bytes.Buffer{}
	enableCmd.SetOut(out2)
	require.NoError(t, enableCmd.RunE(enableCmd, []string{"thinking-level"}))
	assert.Contains(t, out2.String(), "enabled: thinking-level")
	assert.False(t, tracker.IsDisabled("thinking-level"))
}

func TestToggleHooks_UnknownHookReportsAndContinues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := newDisableCmd()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	require.NoError(t, cmd.RunE(cmd, []string{"not-a-real-hook"}))
	assert.Contains(t, errOut.String(), "unknown hook")
}

func TestCurrentSessionID_FallsBackToUnknownWhenNoSessions(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	assert.Equal(t, session.UnknownSessionID, currentSessionID())
}
