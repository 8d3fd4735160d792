package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/payload"
)

func init() {
	hookdef.Register(hookdef.Definition{
		ID:            "check-any-changed",
		TriggerEvents: []string{hookdef.EventPostToolUse},
		Matcher:       "Write|Edit|MultiEdit",
		Description:   "Blocks new TypeScript `any` usage introduced by the edit just made.",
		Factory:       func() hookdef.Implementation { return checkAnyHook{} },
	})
}

type checkAnyHook struct{}

var anyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`:\s*any\b`),
	regexp.MustCompile(`:\s*any\[\]`),
	regexp.MustCompile(`<any>`),
	regexp.MustCompile(`\bas any\b`),
	regexp.MustCompile(`=\s*any\b`),
}

func (checkAnyHook) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (hookdef.Outcome, error) {
	var in payload.ToolInputCommon
	_ = json.Unmarshal(ev.ToolInput, &in)

	if !hasExtension(in.FilePath, typescriptExtensions) || isTestFile(in.FilePath) {
		return hookdef.SkipOutcome(), nil
	}

	contents := changedContents(in)
	if len(contents) == 0 {
		return hookdef.SkipOutcome(), nil
	}

	var evidence []string
	for _, content := range contents {
		stripped := stripStringsAndComments(content)
		for lineNo, line := range strings.Split(stripped, "\n") {
			for _, re := range anyPatterns {
				if re.MatchString(line) {
					evidence = append(evidence, fmt.Sprintf("line %d: %s", lineNo+1, strings.TrimSpace(line)))
					break
				}
			}
		}
	}

	if len(evidence) == 0 {
		return hookdef.AllowOutcome(), nil
	}
	return hookdef.BlockOutcome(
		"Found `any` usage in "+in.FilePath+":\n"+strings.Join(evidence, "\n"),
		"Replace `any` with a precise type, `unknown`, or a generic parameter.",
	), nil
}

func isTestFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.Contains(lower, ".test.") || strings.Contains(lower, ".spec.") || strings.Contains(lower, "__tests__")
}

// changedContents returns every new-content string this edit introduces,
// across both a single Write/Edit's new_string and MultiEdit's edits[].
func changedContents(in payload.ToolInputCommon) []string {
	var out []string
	if in.NewStr != "" {
		out = append(out, in.NewStr)
	}
	for _, e := range in.Edits {
		if e.NewStr != "" {
			out = append(out, e.NewStr)
		}
	}
	return out
}

// stripStringsAndComments removes single/double/template-quoted string
// bodies and line/block comments, leaving line structure intact so later
// line-number reporting stays accurate, so a pattern match inside a string
// or comment never produces a false Block.
func stripStringsAndComments(src string) string {
	var out strings.Builder
	runes := []rune(src)
	n := len(runes)

	for i := 0; i < n; i++ {
		c := runes[i]

		switch {
		case c == '/' && i+1 < n && runes[i+1] == '/':
			for i < n && runes[i] != '\n' {
				i++
			}
			if i < n {
				out.WriteRune('\n')
			}
		case c == '/' && i+1 < n && runes[i+1] == '*':
			i += 2
			for i+1 < n && !(runes[i] == '*' && runes[i+1] == '/') {
				if runes[i] == '\n' {
					out.WriteRune('\n')
				}
				i++
			}
			i++ // skip trailing '/'
		case c == '"' || c == '\'' || c == '`':
			quote := c
			i++
			for i < n && runes[i] != quote {
				if runes[i] == '\\' && i+1 < n {
					i++
				}
				if runes[i] == '\n' {
					out.WriteRune('\n')
				}
				i++
			}
		default:
			out.WriteRune(c)
		}
	}
	return out.String()
}
