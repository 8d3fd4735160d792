package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/carlrannaberg/claudekit/internal/claudeerr"
	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/payload"
	"github.com/carlrannaberg/claudekit/internal/repo"
)

var defaultLintExtensions = []string{".js", ".jsx", ".ts", ".tsx"}

func init() {
	hookdef.Register(hookdef.Definition{
		ID:              "lint-changed",
		TriggerEvents:   []string{hookdef.EventPostToolUse},
		Matcher:         "Write|Edit|MultiEdit",
		Description:     "Lints the file just edited with every detected linter.",
		DependencyClass: "linter",
		Factory:         func() hookdef.Implementation { return lintHook{changedOnly: true} },
	})
	hookdef.Register(hookdef.Definition{
		ID:              "lint-project",
		TriggerEvents:   []string{hookdef.EventStop, hookdef.EventSubagentStop},
		Matcher:         "*",
		Description:     "Lints the whole project with every detected linter.",
		DependencyClass: "linter",
		Factory:         func() hookdef.Implementation { return lintHook{changedOnly: false} },
	})
}

type lintHook struct {
	changedOnly bool
}

func (h lintHook) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (hookdef.Outcome, error) {
	root, err := repo.Root()
	if err != nil {
		root = "."
	}

	var target string
	if h.changedOnly {
		var in payload.ToolInputCommon
		_ = json.Unmarshal(ev.ToolInput, &in)
		extensions := cfg.Extensions
		if len(extensions) == 0 {
			extensions = defaultLintExtensions
		}
		if !hasExtension(in.FilePath, extensions) {
			return hookdef.SkipOutcome(), nil
		}
		target = in.FilePath
	}

	var diagnostics []string
	ran := false

	if hasBiome(root) {
		ran = true
		args := []string{"check"}
		if cfg.Fix {
			args = append(args, "--write")
		}
		if target != "" {
			args = append(args, target)
		}
		out, blocked, err := runLinter(ctx, root, "biome "+strings.Join(args, " "))
		if err != nil {
			return hookdef.Outcome{}, err
		}
		if blocked {
			diagnostics = append(diagnostics, "biome:\n"+out)
		}
	}

	if hasESLint(root) {
		ran = true
		args := []string{"eslint"}
		if cfg.Fix {
			args = append(args, "--fix")
		}
		if target != "" {
			args = append(args, target)
		} else {
			args = append(args, ".")
		}
		out, blocked, err := runLinter(ctx, root, "npx "+strings.Join(args, " "))
		if err != nil {
			return hookdef.Outcome{}, err
		}
		if blocked {
			diagnostics = append(diagnostics, "eslint:\n"+out)
		}
	}

	if cfg.Command != "" {
		ran = true
		out, blocked, err := runLinter(ctx, root, cfg.Command)
		if err != nil {
			return hookdef.Outcome{}, err
		}
		if blocked {
			diagnostics = append(diagnostics, out)
		}
	}

	if !ran {
		return hookdef.SkipOutcome(), nil
	}
	if len(diagnostics) > 0 {
		return hookdef.BlockOutcome(
			strings.Join(diagnostics, "\n\n"),
			"Fix the above lint errors before continuing.",
		), nil
	}
	return hookdef.AllowOutcome(), nil
}

// runLinter runs command and reports (output, blocked, error). Evidence of
// an error is a nonzero exit or nonempty combined output, matching the
// "aggregate diagnostics, block on any error" rule; warnings alone do not
// block unless the linter itself exits nonzero for them.
func runLinter(ctx context.Context, dir, command string) (string, bool, error) {
	res, err := runShell(ctx, dir, command)
	if err != nil {
		return "", false, claudeerr.NewInternal("running linter", err)
	}
	if res.TimedOut {
		return "", false, claudeerr.NewTimeout(fmt.Sprintf("lint timed out running %q", command), nil)
	}
	return res.Output, res.ExitCode != 0, nil
}
