// Package repo wraps the git-facing operations the hook engine needs:
// locating the project root and checking worktree cleanliness in-process via
// go-git, falling back to shelling out only for the one porcelain operation
// go-git v5 doesn't expose (stash).
package repo

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
)

var (
	rootMu  sync.RWMutex
	rootVal string
	rootDir string
)

// Root returns the repository root directory, detected by walking up from cwd
// looking for a .git entry (go-git's DetectDotGit), cached per working directory.
func Root() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}

	rootMu.RLock()
	if rootVal != "" && rootDir == cwd {
		cached := rootVal
		rootMu.RUnlock()
		return cached, nil
	}
	rootMu.RUnlock()

	r, err := git.PlainOpenWithOptions(cwd, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return "", fmt.Errorf("resolve worktree: %w", err)
	}
	root := wt.Filesystem.Root()

	rootMu.Lock()
	rootVal = root
	rootDir = cwd
	rootMu.Unlock()

	return root, nil
}

// ClearCache drops the cached root; used by tests that change directories.
func ClearCache() {
	rootMu.Lock()
	rootVal, rootDir = "", ""
	rootMu.Unlock()
}

// IsWorktree reports whether cwd is inside a git worktree at all.
func IsWorktree() bool {
	_, err := Root()
	return err == nil
}

// HasUncommittedChanges reports whether the current worktree has any staged
// or unstaged modifications, used by create-checkpoint's Skip gate.
func HasUncommittedChanges() (bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return false, fmt.Errorf("getwd: %w", err)
	}
	r, err := git.PlainOpenWithOptions(cwd, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return false, fmt.Errorf("not a git repository: %w", err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return false, fmt.Errorf("resolve worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("worktree status: %w", err)
	}
	return !status.IsClean(), nil
}

// StashList returns the subject lines of entries in the stash reflog that
// start with prefix, most recent first, with their stash index.
// go-git has no stash porcelain, so this shells out like the rest of the
// engine's git plumbing does for operations outside go-git's coverage.
func StashList(prefix string) ([]StashEntry, error) {
	out, err := runGit("stash", "list")
	if err != nil {
		return nil, err
	}
	var entries []StashEntry
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if line == "" {
			continue
		}
		idx, subject, ok := splitStashLine(line)
		if !ok || !strings.Contains(subject, prefix) {
			continue
		}
		entries = append(entries, StashEntry{Index: idx, Subject: subject})
	}
	return entries, nil
}

// StashEntry is one line from `git stash list`.
type StashEntry struct {
	Index   int
	Subject string
}

func splitStashLine(line string) (int, string, bool) {
	// Format: "stash@{0}: On main: <message>"
	colon := strings.Index(line, "}:")
	if colon < 0 || !strings.HasPrefix(line, "stash@{") {
		return 0, "", false
	}
	idxStr := strings.TrimPrefix(line[:colon+1], "stash@{")
	idxStr = strings.TrimSuffix(idxStr, "}")
	var idx int
	if _, err := fmt.Sscanf(idxStr, "%d", &idx); err != nil {
		return 0, "", false
	}
	return idx, strings.TrimSpace(line[colon+2:]), true
}

// StashCreateAndApply creates a stash entry with the given message without
// touching the working tree afterward: it creates the stash object, stores
// it under the message, then applies it back (never `pop`, so the stash
// entry remains listed as a checkpoint).
func StashCreateAndApply(message string) error {
	sha, err := runGit("stash", "create", message)
	if err != nil {
		return err
	}
	sha = strings.TrimSpace(sha)
	if sha == "" {
		return fmt.Errorf("nothing to stash")
	}
	if _, err := runGit("stash", "store", "-m", message, sha); err != nil {
		return err
	}
	if _, err := runGit("stash", "apply"); err != nil {
		return err
	}
	return nil
}

// StashDrop drops the stash entry at the given index.
func StashDrop(index int) error {
	_, err := runGit("stash", "drop", fmt.Sprintf("stash@{%d}", index))
	return err
}

func runGit(args ...string) (string, error) {
	full := append([]string{"--no-pager", "-c", "advice.statusHints=false"}, args...)
	cmd := exec.Command("git", full...)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, string(ee.Stderr))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}
