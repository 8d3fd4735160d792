package hooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/payload"
	"github.com/carlrannaberg/claudekit/internal/transcript"
)

const selfReviewMarker = "📋 **Self-Review**"

// selfReviewLookback bounds the scan when no prior marker exists, per
// spec.md §4.7's "bounded lookback (200 records)".
const selfReviewLookback = 200

var defaultTargetPatterns = []string{"**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx", "!**/*.test.*", "!**/*.spec.*"}

var defaultFocusAreas = []config.FocusArea{
	{Name: "correctness", Questions: []string{"Does this change handle its stated edge cases correctly?"}},
	{Name: "tests", Questions: []string{"Are the new or modified code paths covered by a test?"}},
	{Name: "scope", Questions: []string{"Does this change stay within the scope of what was asked?"}},
}

func init() {
	hookdef.Register(hookdef.Definition{
		ID:                 "self-review",
		TriggerEvents:      []string{hookdef.EventStop},
		Matcher:            "*",
		Description:        "Prompts a structured self-review when code files changed since the last review.",
		DisabledInSubagent: true,
		Factory:            func() hookdef.Implementation { return selfReviewHook{} },
	})
}

type selfReviewHook struct{}

func (selfReviewHook) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (hookdef.Outcome, error) {
	records := recordsForHook(ctx, ev)

	patterns := cfg.TargetPatterns
	if len(patterns) == 0 {
		patterns = defaultTargetPatterns
	}

	scanned := records
	if _, found := transcript.FindMarkerIndex(records, selfReviewMarker); !found && len(records) > selfReviewLookback {
		scanned = records[len(records)-selfReviewLookback:]
	}

	if !transcript.HasFileChangesSinceMarker(scanned, selfReviewMarker, patterns) {
		return hookdef.AllowOutcome(), nil
	}

	focusAreas := cfg.FocusAreas
	if len(focusAreas) == 0 {
		focusAreas = defaultFocusAreas
	}
	question := selectQuestion(focusAreas, len(records))

	return hookdef.BlockOutcome(
		fmt.Sprintf("%s\n\n%s", selfReviewMarker, question),
		"",
	), nil
}

// selectQuestion deterministically picks one focus area's first question,
// rotating through areas by record count so repeated Stop events within the
// same session don't always ask the identical question, without using any
// randomness (spec.md §4.7: "deterministic, no randomness").
func selectQuestion(areas []config.FocusArea, seed int) string {
	var withQuestions []config.FocusArea
	for _, a := range areas {
		if len(a.Questions) > 0 {
			withQuestions = append(withQuestions, a)
		}
	}
	if len(withQuestions) == 0 {
		return "Review the changes above before stopping."
	}
	area := withQuestions[seed%len(withQuestions)]
	return fmt.Sprintf("**%s**: %s", area.Name, strings.TrimSpace(area.Questions[0]))
}
