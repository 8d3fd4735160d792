// Package hooks holds the eleven hook implementations spec.md §4.7
// describes, one file per hook, each registering itself with the Hook
// Registry in an init() func (grounded on the prior CLI's hook_registry.go
// per-verb registration). Every hook implements hookdef.Implementation.
package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/carlrannaberg/claudekit/internal/claudeerr"
	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/hookexec"
	"github.com/carlrannaberg/claudekit/internal/payload"
	"github.com/carlrannaberg/claudekit/internal/repo"
)

var typescriptExtensions = []string{".ts", ".tsx", ".mts", ".cts"}

func init() {
	hookdef.Register(hookdef.Definition{
		ID:              "typecheck-changed",
		TriggerEvents:   []string{hookdef.EventPostToolUse},
		Matcher:         "Write|Edit|MultiEdit",
		Description:     "Runs the TypeScript compiler against the file just edited.",
		DependencyClass: "typescript",
		Factory:         func() hookdef.Implementation { return typecheckHook{changedOnly: true} },
	})
	hookdef.Register(hookdef.Definition{
		ID:              "typecheck-project",
		TriggerEvents:   []string{hookdef.EventStop, hookdef.EventSubagentStop},
		Matcher:         "*",
		Description:     "Runs the TypeScript compiler across the whole project.",
		DependencyClass: "typescript",
		Factory:         func() hookdef.Implementation { return typecheckHook{changedOnly: false} },
	})
}

type typecheckHook struct {
	changedOnly bool
}

func (h typecheckHook) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (hookdef.Outcome, error) {
	root, err := repo.Root()
	if err != nil {
		root = "."
	}

	if h.changedOnly {
		var in payload.ToolInputCommon
		_ = json.Unmarshal(ev.ToolInput, &in)
		if !hasExtension(in.FilePath, typescriptExtensions) {
			return hookdef.SkipOutcome(), nil
		}
	}

	if !hasTypeScript(root) {
		return hookdef.SkipOutcome(), nil
	}

	command := cfg.Command
	if command == "" {
		command = "npx tsc --noEmit"
	}
	if fileExists(root, "package.json") {
		if cmd := npmScriptCommand(root, "typecheck"); cmd != "" && cfg.Command == "" {
			command = cmd
		}
	}

	res, err := runShell(ctx, root, command)
	if err != nil {
		return hookdef.Outcome{}, claudeerr.NewInternal("running typecheck", err)
	}
	if res.TimedOut {
		return hookdef.Outcome{}, claudeerr.NewTimeout(fmt.Sprintf("typecheck timed out running %q", command), nil)
	}
	if res.ExitCode != 0 || strings.TrimSpace(res.Output) != "" {
		return hookdef.BlockOutcome(
			res.Output,
			fmt.Sprintf("Fix the above TypeScript diagnostics, then re-run `%s`.", command),
		), nil
	}
	return hookdef.AllowOutcome(), nil
}

func hasExtension(path string, exts []string) bool {
	if path == "" {
		return false
	}
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// runShell executes command through /bin/sh -c so configured commands can
// use shell features (pipes, &&) the way users write them in config.json.
func runShell(ctx context.Context, dir, command string) (hookexec.Result, error) {
	return hookexec.Run(ctx, dir, "/bin/sh", []string{"-c", command}, nil)
}

// npmScriptCommand returns "npm run <script>" if package.json declares it,
// else "".
func npmScriptCommand(dir, script string) string {
	data, ok := readPackageJSONScripts(dir)
	if !ok {
		return ""
	}
	if _, ok := data[script]; ok {
		return "npm run " + script
	}
	return ""
}
