package hooks

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/carlrannaberg/claudekit/internal/bashparse"
	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/ignorerules"
	"github.com/carlrannaberg/claudekit/internal/payload"
	"github.com/carlrannaberg/claudekit/internal/repo"
)

func init() {
	hookdef.Register(hookdef.Definition{
		ID:            "file-guard",
		TriggerEvents: []string{hookdef.EventPreToolUse},
		Matcher:       "*",
		Description:   "Denies reads/writes to protected paths, directly or via Bash.",
		Factory:       func() hookdef.Implementation { return fileGuardHook{} },
	})
}

type fileGuardHook struct{}

func (fileGuardHook) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (hookdef.Outcome, error) {
	var in payload.ToolInputCommon
	_ = json.Unmarshal(ev.ToolInput, &in)

	candidates := candidatePaths(in)
	if len(candidates) == 0 {
		return hookdef.PermissionOutcome("allow", ""), nil
	}

	root, err := repo.Root()
	if err != nil {
		// Outside any git worktree there is no project root to scope
		// protection to; nothing is denied.
		return hookdef.PermissionOutcome("allow", ""), nil
	}

	rules, err := ignorerules.Load(root)
	if err != nil {
		return hookdef.PermissionOutcome("allow", ""), nil
	}

	for _, candidate := range candidates {
		rel, inside, escapes := resolveAgainstRoot(root, candidate)
		if escapes {
			return hookdef.PermissionOutcome("deny", "path escapes the project root via traversal: "+candidate), nil
		}
		if !inside {
			// Absolute paths outside the project root are permitted —
			// research subagents writing to /tmp need this.
			continue
		}
		if rules.Protected(rel, false) {
			return hookdef.PermissionOutcome("deny", "path is protected by ignore rules: "+rel), nil
		}
	}

	return hookdef.PermissionOutcome("allow", ""), nil
}

// candidatePaths extracts every path this tool invocation touches: the
// direct file_path/edits[] fields, or — for Bash — the Bash Command
// Parser's best-effort extraction from tool_input.command.
func candidatePaths(in payload.ToolInputCommon) []string {
	var out []string
	if in.FilePath != "" {
		out = append(out, in.FilePath)
	}
	for _, e := range in.Edits {
		if e.FilePath != "" {
			out = append(out, e.FilePath)
		}
	}
	if in.Command != "" {
		result := bashparse.Parse(in.Command)
		for _, c := range result.Candidates {
			out = append(out, c.Path)
		}
	}
	return out
}

// resolveAgainstRoot expands ~ and classifies candidate relative to root:
// (relPath, inside, escapes). escapes is true only for a path that uses ".."
// to leave root after resolution; inside is false for any absolute path
// that does not land under root.
func resolveAgainstRoot(root, candidate string) (string, bool, bool) {
	expanded := expandHome(candidate)

	if filepath.IsAbs(expanded) {
		rel, err := filepath.Rel(root, expanded)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", false, false // outside root entirely: permitted
		}
		return filepath.ToSlash(rel), true, false
	}

	joined := filepath.Join(root, expanded)
	rel, err := filepath.Rel(root, joined)
	if err != nil {
		return "", false, false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false, true
	}
	return filepath.ToSlash(rel), true, false
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := homeDir(); err == nil {
			if path == "~" {
				return home
			}
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
