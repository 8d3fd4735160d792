// Package response implements the Response Emitter: translating a hook's
// Outcome into the exit code and stdout/stderr JSON conventions the host
// expects for each event kind (spec.md §4.9). Stdout is exclusively host-
// consumed JSON; every diagnostic goes to stderr.
package response

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/redact"
)

// InjectionCap bounds additionalContext length, per spec §4.9/§8.
const InjectionCap = 9000

// OutputCap bounds captured subprocess output folded into a Block message,
// per spec §4.9's 10 MiB memory bound.
const OutputCap = 10 * 1024 * 1024

// ExitCode mirrors spec §6: 0 pass/skip, 2 blocking decision, 1 internal error.
type ExitCode int

const (
	ExitOK       ExitCode = 0
	ExitBlocking ExitCode = 2
	ExitInternal ExitCode = 1
)

type preToolUseOutput struct {
	HookSpecificOutput preToolUseSpecific `json:"hookSpecificOutput"`
}

type preToolUseSpecific struct {
	HookEventName       string `json:"hookEventName"`
	PermissionDecision  string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
}

type contextOutput struct {
	HookSpecificOutput contextSpecific `json:"hookSpecificOutput"`
}

type contextSpecific struct {
	HookEventName    string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

// Emit writes outcome to stdout/stderr per event and returns the process
// exit code the caller should use.
func Emit(stdout, stderr io.Writer, event string, outcome hookdef.Outcome) ExitCode {
	switch event {
	case hookdef.EventPreToolUse:
		return emitPreToolUse(stdout, stderr, outcome)
	case hookdef.EventPostToolUse:
		return emitBlockingEvent(stderr, outcome)
	case hookdef.EventStop, hookdef.EventSubagentStop:
		return emitBlockingEvent(stderr, outcome)
	case hookdef.EventUserPromptSubmit, hookdef.EventSessionStart:
		return emitContextEvent(stdout, event, outcome)
	default:
		return ExitOK
	}
}

func emitPreToolUse(stdout, stderr io.Writer, outcome hookdef.Outcome) ExitCode {
	decision := "allow"
	reason := ""
	switch outcome.Kind {
	case hookdef.PermissionDecision:
		decision = outcome.Decision
		reason = outcome.Reason
	case hookdef.Block:
		decision = "deny"
		reason = outcome.Reason
	case hookdef.Skip, hookdef.Allow:
		decision = "allow"
	}

	out := preToolUseOutput{HookSpecificOutput: preToolUseSpecific{
		HookEventName:            hookdef.EventPreToolUse,
		PermissionDecision:       decision,
		PermissionDecisionReason: reason,
	}}
	data, err := json.Marshal(out)
	if err != nil {
		fmt.Fprintln(stderr, "claudekit: internal error serializing response")
		return ExitInternal
	}
	fmt.Fprintln(stdout, string(data))
	return ExitOK
}

func emitBlockingEvent(stderr io.Writer, outcome hookdef.Outcome) ExitCode {
	if outcome.Kind != hookdef.Block {
		return ExitOK
	}
	msg := truncate(outcome.Reason, OutputCap)
	if outcome.FixHint != "" {
		msg = msg + "\n\n" + outcome.FixHint
	}
	fmt.Fprintln(stderr, redact.String(msg))
	return ExitBlocking
}

func emitContextEvent(stdout io.Writer, event string, outcome hookdef.Outcome) ExitCode {
	text := ""
	if outcome.Kind == hookdef.InjectContext {
		text = truncate(outcome.Text, InjectionCap)
	}
	out := contextOutput{HookSpecificOutput: contextSpecific{
		HookEventName:     event,
		AdditionalContext: text,
	}}
	data, err := json.Marshal(out)
	if err != nil {
		return ExitInternal
	}
	fmt.Fprintln(stdout, string(data))
	return ExitOK
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
