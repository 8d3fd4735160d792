package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/payload"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var docExtensions = []string{".md", ".mdx", ".txt", ".rst"}

func init() {
	hookdef.Register(hookdef.Definition{
		ID:            "check-comment-replacement",
		TriggerEvents: []string{hookdef.EventPostToolUse},
		Matcher:       "Edit|MultiEdit",
		Description:   "Blocks edits that replace functional code with commentary rather than deleting it.",
		Factory:       func() hookdef.Implementation { return checkCommentHook{} },
	})
}

type checkCommentHook struct{}

func (checkCommentHook) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (hookdef.Outcome, error) {
	var in payload.ToolInputCommon
	_ = json.Unmarshal(ev.ToolInput, &in)

	if hasExtension(in.FilePath, docExtensions) {
		return hookdef.SkipOutcome(), nil
	}

	edits := edits(in)
	if len(edits) == 0 {
		return hookdef.SkipOutcome(), nil
	}

	var flagged []string
	for _, e := range edits {
		if verdict := classifyReplacement(e.OldStr, e.NewStr); verdict != "" {
			flagged = append(flagged, verdict)
		}
	}

	if len(flagged) == 0 {
		return hookdef.AllowOutcome(), nil
	}
	return hookdef.BlockOutcome(
		strings.Join(flagged, "\n"),
		"If the code is no longer needed, delete it outright rather than replacing it with a comment.",
	), nil
}

func edits(in payload.ToolInputCommon) []payload.Edit {
	if len(in.Edits) > 0 {
		return in.Edits
	}
	if in.OldStr != "" || in.NewStr != "" {
		return []payload.Edit{{FilePath: in.FilePath, OldStr: in.OldStr, NewStr: in.NewStr}}
	}
	return nil
}

// classifyReplacement diffs old against new line-by-line (the prior CLI's
// DiffLinesToChars/DiffCharsToLines pattern, narrowed to one edit's before
// and after) and returns a nonempty verdict string when a nonempty
// functional region was replaced primarily by commentary.
func classifyReplacement(oldStr, newStr string) string {
	if strings.TrimSpace(oldStr) == "" {
		return ""
	}

	dmp := diffmatchpatch.New()
	text1, text2, lineArray := dmp.DiffLinesToChars(oldStr, newStr)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(text1, text2, false), lineArray)

	var removedFunctional, insertedLines, insertedComment int
	for _, d := range diffs {
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				if !isCommentLine(line) {
					removedFunctional++
				}
			case diffmatchpatch.DiffInsert:
				insertedLines++
				if isCommentLine(line) {
					insertedComment++
				}
			}
		}
	}

	if removedFunctional == 0 || insertedLines == 0 {
		return "" // pure deletion or pure addition: never flagged
	}
	if insertedComment < insertedLines {
		return "" // new content is mostly code, not commentary
	}
	// Meaningful shrink: functional lines removed outnumber the commentary
	// that replaced them.
	if insertedLines >= removedFunctional {
		return ""
	}
	return fmt.Sprintf(
		"replaced %d line(s) of functional code with %d comment line(s) instead of deleting them",
		removedFunctional, insertedLines,
	)
}

// isCommentLine reports whether line is a comment, excluding markdown-style
// heading lines ("##", "###") that happen to start with '#' but aren't
// comments in most source languages either way — checked defensively since
// check-comment-replacement also runs against non-JS/TS sources.
func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "##") {
		return false
	}
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "<!--")
}
