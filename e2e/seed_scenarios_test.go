//go:build e2e

package e2e

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCheckAnyChangedBlocks covers seed scenario 1: a new bare `any` usage
// in a changed TypeScript file is blocked with the offending snippet on
// stderr.
func TestCheckAnyChangedBlocks(t *testing.T) {
	env := NewTestEnv(t)
	env.InitRepo()

	payload := `{"hook_event_name":"PostToolUse","tool_name":"Edit","tool_input":{"file_path":"src/a.ts","new_string":"const x: any = 1"}}`
	result := env.RunHook("check-any-changed", payload)

	assert.Equal(t, 2, result.ExitCode)
	assert.Contains(t, result.Stderr, ": any")
}

// TestCheckAnyChangedFalsePositiveSafe covers seed scenario 2: an `any`
// token that only appears inside a comment produces no finding.
func TestCheckAnyChangedFalsePositiveSafe(t *testing.T) {
	env := NewTestEnv(t)
	env.InitRepo()

	payload := `{"hook_event_name":"PostToolUse","tool_name":"Edit","tool_input":{"file_path":"src/a.ts","new_string":"// allows any value"}}`
	result := env.RunHook("check-any-changed", payload)

	assert.Equal(t, 0, result.ExitCode)
	assert.Empty(t, result.Stdout)
}

// TestFileGuardDeniesEnv covers seed scenario 3: reading .env is denied
// under the default ignore rules.
func TestFileGuardDeniesEnv(t *testing.T) {
	env := NewTestEnv(t)
	env.InitRepo()
	env.WriteFile(".env", "SECRET=1\n")

	payload := `{"hook_event_name":"PreToolUse","tool_name":"Read","tool_input":{"file_path":".env"}}`
	result := env.RunHook("file-guard", payload)

	require.Equal(t, 0, result.ExitCode)
	decision := decodePermissionDecision(t, result.Stdout)
	assert.Equal(t, "deny", decision)
}

// TestFileGuardAllowsTemplate covers seed scenario 4: a negated pattern
// like .env.example is allowed.
func TestFileGuardAllowsTemplate(t *testing.T) {
	env := NewTestEnv(t)
	env.InitRepo()
	env.WriteFile(".env.example", "SECRET=changeme\n")

	payload := `{"hook_event_name":"PreToolUse","tool_name":"Read","tool_input":{"file_path":".env.example"}}`
	result := env.RunHook("file-guard", payload)

	require.Equal(t, 0, result.ExitCode)
	decision := decodePermissionDecision(t, result.Stdout)
	assert.Equal(t, "allow", decision)
}

// TestFileGuardSkipsGitRevision covers seed scenario 5: a git-revision-range
// Bash command extracts no path candidates and is allowed outright.
func TestFileGuardSkipsGitRevision(t *testing.T) {
	env := NewTestEnv(t)
	env.InitRepo()

	payload := `{"hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"git log @{u}..HEAD"}}`
	result := env.RunHook("file-guard", payload)

	require.Equal(t, 0, result.ExitCode)
	decision := decodePermissionDecision(t, result.Stdout)
	assert.Equal(t, "allow", decision)
}

// TestCreateCheckpointLoopSafe covers seed scenario 6: a Stop event
// re-entering with stop_hook_active set must not spawn git commands (a
// dirty worktree would otherwise get stashed, which we'd see reflected in
// git status).
func TestCreateCheckpointLoopSafe(t *testing.T) {
	env := NewTestEnv(t)
	env.InitRepo()
	env.WriteFile("README.md", "first\n")
	env.GitAdd("README.md")
	env.GitCommit("initial")
	env.WriteFile("README.md", "dirty\n")

	payload := `{"hook_event_name":"Stop","stop_hook_active":true}`
	result := env.RunHook("create-checkpoint", payload)

	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "dirty\n", env.readFile("README.md"))
}

// TestThinkingLevelInject covers seed scenario 7: a configured thinking
// level injects the matching keyword as additionalContext.
func TestThinkingLevelInject(t *testing.T) {
	env := NewTestEnv(t)
	env.InitRepo()
	env.WriteConfig(`{"hooks":{"thinking-level":{"level":2}}}`)

	payload := `{"hook_event_name":"UserPromptSubmit"}`
	result := env.RunHook("thinking-level", payload)

	require.Equal(t, 0, result.ExitCode)
	var out struct {
		HookSpecificOutput struct {
			AdditionalContext string `json:"additionalContext"`
		} `json:"hookSpecificOutput"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Stdout), &out))
	assert.Equal(t, "megathink", out.HookSpecificOutput.AdditionalContext)
}

// TestSessionDisableSkipsSubsequentRuns covers seed scenario 8: disabling a
// hook for a session, then running it again in that session, skips without
// reporting the violation it would otherwise flag.
func TestSessionDisableSkipsSubsequentRuns(t *testing.T) {
	env := NewTestEnv(t)
	env.InitRepo()

	sessionID := "e2e-disable-session"
	sessionDir := filepath.Join(env.HomeDir, ".claudekit", "sessions", sessionID)
	require.NoError(t, os.MkdirAll(sessionDir, 0o750))

	out, err := env.RunCLI("disable", "check-any-changed")
	require.NoErrorf(t, err, "disable output: %s", out)
	assert.Contains(t, out, sessionID)

	payload := `{"hook_event_name":"PostToolUse","tool_name":"Edit","session_id":"` + sessionID + `","tool_input":{"file_path":"src/a.ts","new_string":"const x: any = 1"}}`
	result := env.RunHook("check-any-changed", payload)

	assert.Equal(t, 0, result.ExitCode)
	assert.Empty(t, result.Stdout)

	logPath := filepath.Join(env.HomeDir, ".claudekit", "logs", "check-any-changed.log")
	data, err := os.ReadFile(logPath) //nolint:gosec // test-controlled path
	require.NoError(t, err)
	assert.Contains(t, string(data), "skipped:disabled")
}

func decodePermissionDecision(t *testing.T, stdout string) string {
	t.Helper()
	var out struct {
		HookSpecificOutput struct {
			PermissionDecision string `json:"permissionDecision"`
		} `json:"hookSpecificOutput"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	return out.HookSpecificOutput.PermissionDecision
}

func (env *TestEnv) readFile(path string) string {
	env.T.Helper()
	data, err := os.ReadFile(filepath.Join(env.RepoDir, path)) //nolint:gosec // test-controlled path
	require.NoError(env.T, err)
	return string(data)
}
