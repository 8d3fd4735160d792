//go:build e2e

package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// TestEnv manages an isolated project directory and fake $HOME for driving
// the claudekit binary as a subprocess.
type TestEnv struct {
	T       *testing.T
	RepoDir string
	HomeDir string
}

// NewTestEnv creates an isolated project directory and home directory; every
// CLI invocation against this env gets its own ~/.claudekit state.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	repoDir := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(repoDir); err == nil {
		repoDir = resolved
	}
	homeDir := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(homeDir); err == nil {
		homeDir = resolved
	}

	return &TestEnv{T: t, RepoDir: repoDir, HomeDir: homeDir}
}

// InitRepo initializes a git repository in the test environment's directory.
func (env *TestEnv) InitRepo() {
	env.T.Helper()
	if _, err := git.PlainInit(env.RepoDir, false); err != nil {
		env.T.Fatalf("failed to init git repo: %v", err)
	}
}

// WriteFile creates a file with the given content relative to RepoDir.
func (env *TestEnv) WriteFile(path, content string) {
	env.T.Helper()

	fullPath := filepath.Join(env.RepoDir, path)
	//nolint:gosec // test code, permissions are intentionally standard
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		env.T.Fatalf("failed to create directory for %s: %v", path, err)
	}
	//nolint:gosec // test code, permissions are intentionally standard
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		env.T.Fatalf("failed to write file %s: %v", path, err)
	}
}

// WriteConfig writes .claudekit/config.json with the given raw JSON body.
func (env *TestEnv) WriteConfig(json string) {
	env.T.Helper()
	env.WriteFile(".claudekit/config.json", json)
}

// GitAdd stages files via the git CLI.
func (env *TestEnv) GitAdd(paths ...string) {
	env.T.Helper()
	//nolint:gosec,noctx // test code, args are static
	cmd := exec.Command("git", append([]string{"add"}, paths...)...)
	cmd.Dir = env.RepoDir
	if out, err := cmd.CombinedOutput(); err != nil {
		env.T.Fatalf("git add failed: %v\nOutput: %s", err, out)
	}
}

// GitCommit creates a commit with all staged files.
func (env *TestEnv) GitCommit(message string) {
	env.T.Helper()

	repo, err := git.PlainOpen(env.RepoDir)
	if err != nil {
		env.T.Fatalf("failed to open git repo: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		env.T.Fatalf("failed to get worktree: %v", err)
	}
	_, err = worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "E2E Test User", Email: "e2e-test@example.com"},
	})
	if err != nil {
		env.T.Fatalf("failed to commit: %v", err)
	}
}

// HookResult captures one `claudekit run` invocation's outcome.
type HookResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunHook runs `claudekit run <hookID>` with payload on stdin and captures
// stdout/stderr/exit code. It never fails the test on a non-zero exit, since
// exit 2 (blocking) is an expected outcome for several scenarios.
func (env *TestEnv) RunHook(hookID, payload string) HookResult {
	env.T.Helper()

	//nolint:gosec,noctx // test code, args are from test setup
	cmd := exec.Command(getTestBinary(), "run", hookID)
	cmd.Dir = env.RepoDir
	cmd.Env = append(os.Environ(), "HOME="+env.HomeDir)
	cmd.Stdin = bytes.NewBufferString(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			env.T.Fatalf("failed to run hook %s: %v", hookID, err)
		}
	}

	return HookResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: exitCode}
}

// RunCLI runs the claudekit binary with arbitrary args, returning combined
// output. Used for disable/enable/status subcommands.
func (env *TestEnv) RunCLI(args ...string) (string, error) {
	env.T.Helper()

	//nolint:gosec,noctx // test code, args are from test setup
	cmd := exec.Command(getTestBinary(), args...)
	cmd.Dir = env.RepoDir
	cmd.Env = append(os.Environ(), "HOME="+env.HomeDir)

	out, err := cmd.CombinedOutput()
	return string(out), err
}
