package hooks

import (
	"github.com/carlrannaberg/claudekit/internal/repo"
)

// DoctorCheck is one hook's detection-only diagnosis: whether its
// dependency class is satisfied in the current project, without running
// the hook itself.
type DoctorCheck struct {
	HookID string
	Ready  bool
	Detail string
}

// Diagnose runs every registered hook's own detection step (tsconfig
// presence, lint config presence, git availability, ...) against root,
// without executing any hook — grounded on spec.md §4.7a's `claudekit
// doctor` supplement.
func Diagnose(root string) []DoctorCheck {
	worktree := repo.IsWorktree()

	checks := []DoctorCheck{
		diagnoseClass("typecheck-changed", "typescript", root, worktree),
		diagnoseClass("typecheck-project", "typescript", root, worktree),
		diagnoseClass("lint-changed", "linter", root, worktree),
		diagnoseClass("lint-project", "linter", root, worktree),
		diagnoseClass("test-changed", "test-runner", root, worktree),
		diagnoseClass("test-project", "test-runner", root, worktree),
		{HookID: "check-any-changed", Ready: true, Detail: "no external dependency"},
		{HookID: "check-comment-replacement", Ready: true, Detail: "no external dependency"},
		{HookID: "check-unused-parameters", Ready: true, Detail: "no external dependency"},
		{HookID: "check-todos", Ready: true, Detail: "no external dependency"},
		diagnoseGit("create-checkpoint", worktree),
		{HookID: "self-review", Ready: true, Detail: "no external dependency"},
		{HookID: "thinking-level", Ready: true, Detail: "no external dependency"},
		diagnoseCodebaseMap(root),
		diagnoseGit("file-guard", worktree),
	}
	return checks
}

func diagnoseClass(hookID, class, root string, worktree bool) DoctorCheck {
	if !worktree {
		return DoctorCheck{HookID: hookID, Ready: false, Detail: "not a git worktree"}
	}
	switch class {
	case "typescript":
		if hasTypeScript(root) {
			return DoctorCheck{HookID: hookID, Ready: true, Detail: "tsconfig.json + tsc resolved"}
		}
		return DoctorCheck{HookID: hookID, Ready: false, Detail: "no tsconfig.json or tsc"}
	case "linter":
		if hasBiome(root) {
			return DoctorCheck{HookID: hookID, Ready: true, Detail: "biome config found"}
		}
		if hasESLint(root) {
			return DoctorCheck{HookID: hookID, Ready: true, Detail: "eslint config found"}
		}
		return DoctorCheck{HookID: hookID, Ready: false, Detail: "no biome or eslint config"}
	case "test-runner":
		if _, ok := readPackageJSONScripts(root); ok {
			return DoctorCheck{HookID: hookID, Ready: true, Detail: "package.json scripts found"}
		}
		return DoctorCheck{HookID: hookID, Ready: false, Detail: "no package.json scripts"}
	default:
		return DoctorCheck{HookID: hookID, Ready: false, Detail: "unknown dependency class"}
	}
}

func diagnoseGit(hookID string, worktree bool) DoctorCheck {
	if worktree {
		return DoctorCheck{HookID: hookID, Ready: true, Detail: "git worktree detected"}
	}
	return DoctorCheck{HookID: hookID, Ready: false, Detail: "not a git worktree"}
}

func diagnoseCodebaseMap(root string) DoctorCheck {
	if binaryOnPath("codebase-map") || binaryOnPath("npx") {
		return DoctorCheck{HookID: "codebase-map", Ready: true, Detail: "codebase-map or npx resolved"}
	}
	return DoctorCheck{HookID: "codebase-map", Ready: false, Detail: "no codebase-map or npx on PATH"}
}
