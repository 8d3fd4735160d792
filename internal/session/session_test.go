package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveID(t *testing.T) {
	tests := []struct {
		name           string
		hostSessionID  string
		transcriptPath string
		want           string
	}{
		{"explicit session id wins", "abc123", "/tmp/transcript.jsonl", "abc123"},
		{"falls back to transcript hash", "", "/tmp/transcript.jsonl", ""},
		{"falls back to unknown", "", "", UnknownSessionID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveID(tt.hostSessionID, tt.transcriptPath)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
				return
			}
			assert.NotEqual(t, UnknownSessionID, got)
			assert.Len(t, got, 64) // sha256 hex digest
		})
	}
}

func TestDeriveID_Deterministic(t *testing.T) {
	a := DeriveID("", "/tmp/transcript.jsonl")
	b := DeriveID("", "/tmp/transcript.jsonl")
	assert.Equal(t, a, b)

	c := DeriveID("", "/tmp/other.jsonl")
	assert.NotEqual(t, a, c)
}

func TestTracker_ID(t *testing.T) {
	tr := New(t.TempDir(), "my-session")
	assert.Equal(t, "my-session", tr.ID())
}

func TestTracker_EphemeralSessionIsAlwaysNoOp(t *testing.T) {
	tr := New(t.TempDir(), UnknownSessionID)

	require.NoError(t, tr.Disable("lint-changed"))
	assert.False(t, tr.IsDisabled("lint-changed"))

	require.NoError(t, tr.SetFlag("thinking-level", "high"))
	assert.Equal(t, "", tr.GetFlag("thinking-level"))
}

func TestTracker_DisableEnableRoundTrip(t *testing.T) {
	tr := New(t.TempDir(), "s1")

	assert.False(t, tr.IsDisabled("lint-changed"))

	require.NoError(t, tr.Disable("lint-changed"))
	assert.True(t, tr.IsDisabled("lint-changed"))

	require.NoError(t, tr.Disable("test-changed"))
	assert.True(t, tr.IsDisabled("test-changed"))
	assert.True(t, tr.IsDisabled("lint-changed"))

	require.NoError(t, tr.Enable("lint-changed"))
	assert.False(t, tr.IsDisabled("lint-changed"))
	assert.True(t, tr.IsDisabled("test-changed"))
}

func TestTracker_DisabledSetPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	tr1 := New(dir, "s1")
	require.NoError(t, tr1.Disable("lint-changed"))

	tr2 := New(dir, "s1")
	assert.True(t, tr2.IsDisabled("lint-changed"))
}

func TestTracker_FlagRoundTrip(t *testing.T) {
	tr := New(t.TempDir(), "s1")

	assert.Equal(t, "", tr.GetFlag("thinking-level"))

	require.NoError(t, tr.SetFlag("thinking-level", "high"))
	assert.Equal(t, "high", tr.GetFlag("thinking-level"))

	require.NoError(t, tr.SetFlag("thinking-level", "low"))
	assert.Equal(t, "low", tr.GetFlag("thinking-level"))
}

func TestTracker_SetFlag_RejectsInvalidName(t *testing.T) {
	tr := New(t.TempDir(), "s1")
	err := tr.SetFlag("../escape", "value")
	assert.Error(t, err)
}

func TestTracker_ListSessions(t *testing.T) {
	dir := t.TempDir()
	tr := New(dir, "s1")
	require.NoError(t, tr.SetFlag("f", "v"))

	tr2 := New(dir, "s2")
	require.NoError(t, tr2.SetFlag("f", "v"))

	ids, err := tr.ListSessions()
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, ids)
}

func TestTracker_ListSessions_MissingBaseDir(t *testing.T) {
	tr := New(filepath.Join(t.TempDir(), "nonexistent"), "s1")
	ids, err := tr.ListSessions()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	tr := New(dir, "old")
	require.NoError(t, tr.SetFlag("f", "v"))

	oldDir := filepath.Join(dir, "old")
	old := time.Now().Add(-10 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(oldDir, old, old))

	tr2 := New(dir, "new")
	require.NoError(t, tr2.SetFlag("f", "v"))

	pruned, err := Prune(dir, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	ids, err := tr.ListSessions()
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, ids)
}

func TestPrune_MissingBaseDir(t *testing.T) {
	pruned, err := Prune(filepath.Join(t.TempDir(), "nonexistent"), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, pruned)
}
