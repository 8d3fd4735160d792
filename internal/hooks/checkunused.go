package hooks

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/payload"
)

func init() {
	hookdef.Register(hookdef.Definition{
		ID:            "check-unused-parameters",
		TriggerEvents: []string{hookdef.EventPostToolUse},
		Matcher:       "Edit|MultiEdit",
		Description:   "Blocks underscore-prefixing a parameter instead of removing it.",
		Factory:       func() hookdef.Implementation { return checkUnusedHook{} },
	})
}

type checkUnusedHook struct{}

// signatureRe matches function/method/constructor/arrow-function parameter
// lists across declarations, arrow functions, methods, and constructors.
var signatureRe = regexp.MustCompile(`(?:function\s+\w*\s*|constructor\s*|\w+\s*)\(([^()]*)\)\s*(?:=>|\{|:)`)

func (checkUnusedHook) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (hookdef.Outcome, error) {
	var in payload.ToolInputCommon
	_ = json.Unmarshal(ev.ToolInput, &in)

	var offenses []string
	for _, e := range edits(in) {
		offenses = append(offenses, renamedToUnderscore(e.OldStr, e.NewStr)...)
	}

	if len(offenses) == 0 {
		return hookdef.AllowOutcome(), nil
	}
	return hookdef.BlockOutcome(
		"Parameter(s) renamed to an underscore-prefixed form instead of being removed:\n"+strings.Join(offenses, "\n"),
		"Remove the unused parameter from the signature (and every call site), rather than prefixing it with `_`.",
	), nil
}

// renamedToUnderscore compares old/new signatures line-by-line and reports
// any parameter name that reappears as its own underscore-prefixed form
// within the same signature, e.g. "foo" -> "_foo".
func renamedToUnderscore(oldStr, newStr string) []string {
	oldParams := signatureParams(oldStr)
	newParams := signatureParams(newStr)
	if len(oldParams) == 0 || len(newParams) == 0 {
		return nil
	}

	var offenses []string
	for i, op := range oldParams {
		if i >= len(newParams) {
			break
		}
		np := newParams[i]
		if np == "_"+op && op != "" && !strings.HasPrefix(op, "_") {
			offenses = append(offenses, op+" -> "+np)
		}
	}
	return offenses
}

func signatureParams(src string) []string {
	m := signatureRe.FindStringSubmatch(src)
	if m == nil {
		return nil
	}
	var names []string
	for _, raw := range strings.Split(m[1], ",") {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		// Strip type annotations and default values: "x: number = 1" -> "x".
		if idx := strings.IndexAny(p, ":="); idx >= 0 {
			p = p[:idx]
		}
		p = strings.TrimSpace(strings.TrimPrefix(p, "..."))
		names = append(names, p)
	}
	return names
}
