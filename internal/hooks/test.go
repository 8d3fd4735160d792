package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carlrannaberg/claudekit/internal/claudeerr"
	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/hookexec"
	"github.com/carlrannaberg/claudekit/internal/payload"
	"github.com/carlrannaberg/claudekit/internal/repo"
)

// projectTestCeiling keeps the project-wide run under the host's 60s hook
// budget even if a misconfigured timeout asks for more.
const projectTestCeiling = 55 * time.Second

// changedTestCeiling leaves headroom for the rest of the event pipeline
// around a single-file test run.
const changedTestCeiling = 30 * time.Second

func init() {
	hookdef.Register(hookdef.Definition{
		ID:              "test-changed",
		TriggerEvents:   []string{hookdef.EventPostToolUse},
		Matcher:         "Write|Edit|MultiEdit",
		Description:     "Runs the configured test command for the file just edited.",
		DependencyClass: "test-runner",
		Factory:         func() hookdef.Implementation { return testHook{changedOnly: true} },
	})
	hookdef.Register(hookdef.Definition{
		ID:              "test-project",
		TriggerEvents:   []string{hookdef.EventStop, hookdef.EventSubagentStop},
		Matcher:         "*",
		Description:     "Runs the configured test command across the whole project.",
		DependencyClass: "test-runner",
		Factory:         func() hookdef.Implementation { return testHook{changedOnly: false} },
	})
}

type testHook struct {
	changedOnly bool
}

func (h testHook) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (hookdef.Outcome, error) {
	root, err := repo.Root()
	if err != nil {
		root = "."
	}

	if h.changedOnly {
		var in payload.ToolInputCommon
		_ = json.Unmarshal(ev.ToolInput, &in)
		if in.FilePath == "" {
			return hookdef.SkipOutcome(), nil
		}
	}

	command := cfg.Command
	if command == "" {
		if cmd := npmScriptCommand(root, "test"); cmd != "" {
			command = cmd
		} else {
			command = "npm test"
		}
	}

	ceiling := changedTestCeiling
	if !h.changedOnly {
		ceiling = projectTestCeiling
	}
	runCtx, cancel := context.WithTimeout(ctx, ceiling)
	defer cancel()

	env := testRunnerEnv()
	res, err := hookexec.Run(runCtx, root, "/bin/sh", []string{"-c", command}, env)
	if err != nil {
		return hookdef.Outcome{}, claudeerr.NewInternal("running tests", err)
	}
	if res.TimedOut {
		return hookdef.Outcome{}, claudeerr.NewTimeout(fmt.Sprintf("tests timed out running %q", command), nil)
	}
	if res.ExitCode != 0 {
		return hookdef.BlockOutcome(
			res.Output,
			fmt.Sprintf("Fix the failing tests, then re-run `%s`.", command),
		), nil
	}
	return hookdef.AllowOutcome(), nil
}

// testRunnerEnv discourages vitest (and similarly-architected runners) from
// leaving orphaned watch-mode workers behind a short-lived hook process.
func testRunnerEnv() []string {
	return append(osEnviron(),
		"VITEST_WATCH=false",
		"VITEST_MIN_THREADS=1",
		"VITEST_MAX_THREADS=1",
		"CI=true",
	)
}
