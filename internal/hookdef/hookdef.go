// Package hookdef is the Hook Registry: a compile-time map from hook id to
// its static metadata and factory, the single source of truth both the
// dispatcher (run <id>) and (eventually) installer settings-generation
// consult. Grounded on the prior CLI's hook_registry.go
// map[AgentName]map[string]HookHandlerFunc + init()-time registration
// pattern, collapsed here to a single-host map[string]Definition since
// Claudekit has one event protocol, not several agent backends.
package hookdef

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/payload"
)

// Event names from spec.md §3's Event.hook_event_name enum.
const (
	EventPreToolUse       = "PreToolUse"
	EventPostToolUse      = "PostToolUse"
	EventStop             = "Stop"
	EventSubagentStop     = "SubagentStop"
	EventSessionStart     = "SessionStart"
	EventUserPromptSubmit = "UserPromptSubmit"
)

// Outcome is returned by a hook implementation's Run and interpreted by the
// Response Emitter. Exactly one field set is meaningful per Kind.
type Outcome struct {
	Kind OutcomeKind

	// Block
	Reason  string
	FixHint string

	// InjectContext
	Text string

	// PermissionDecision
	Decision string // "allow" | "deny" | "ask"
}

// OutcomeKind enumerates spec.md §4.6's outcome variants.
type OutcomeKind int

const (
	Allow OutcomeKind = iota
	Block
	InjectContext
	PermissionDecision
	Skip
)

// AllowOutcome is the canonical pass-through outcome.
func AllowOutcome() Outcome { return Outcome{Kind: Allow} }

// SkipOutcome is the canonical no-op outcome.
func SkipOutcome() Outcome { return Outcome{Kind: Skip} }

// BlockOutcome builds a Block outcome.
func BlockOutcome(reason, fixHint string) Outcome {
	return Outcome{Kind: Block, Reason: reason, FixHint: fixHint}
}

// InjectOutcome builds an InjectContext outcome.
func InjectOutcome(text string) Outcome {
	return Outcome{Kind: InjectContext, Text: text}
}

// PermissionOutcome builds a PermissionDecision outcome.
func PermissionOutcome(decision, reason string) Outcome {
	return Outcome{Kind: PermissionDecision, Decision: decision, Reason: reason}
}

// Implementation is a hook's executable behavior.
type Implementation interface {
	Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (Outcome, error)
}

// ImplementationFunc adapts a plain function to Implementation.
type ImplementationFunc func(ctx context.Context, ev payload.Event, cfg config.HookConfig) (Outcome, error)

func (f ImplementationFunc) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (Outcome, error) {
	return f(ctx, ev, cfg)
}

// Definition is a hook's static metadata, matching spec.md §3's Hook
// Definition record.
type Definition struct {
	ID                 string
	TriggerEvents      []string
	Matcher            string // tool-name grammar: exact, comma/pipe-joined, regex, or "*"
	Description        string
	DependencyClass    string // "typescript", "linter", "test-runner", ...
	DisabledInSubagent bool
	Factory            func() Implementation
}

// TriggersOn reports whether this definition listens for event.
func (d Definition) TriggersOn(event string) bool {
	for _, e := range d.TriggerEvents {
		if e == event {
			return true
		}
	}
	return false
}

// MatchesTool evaluates the matcher grammar against a tool name:
// "*" matches everything (including no tool), comma/pipe-separated lists are
// alternations, and any other string is treated as a regular expression
// (spec.md §9's design note on matcher grammar).
func (d Definition) MatchesTool(toolName string) bool {
	if d.Matcher == "" || d.Matcher == "*" {
		return true
	}
	if toolName == "" {
		// Universal trigger events (Stop, SessionStart, ...) carry no tool
		// name; a tool-scoped matcher simply doesn't apply to them.
		return true
	}
	alternatives := splitAlternatives(d.Matcher)
	for _, alt := range alternatives {
		if alt == toolName {
			return true
		}
		if re, err := regexp.Compile("^(?:" + alt + ")$"); err == nil {
			if re.MatchString(toolName) {
				return true
			}
		}
	}
	return false
}

func splitAlternatives(matcher string) []string {
	sep := ","
	if strings.Contains(matcher, "|") && !strings.Contains(matcher, ",") {
		sep = "|"
	}
	parts := strings.Split(matcher, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

var registry = map[string]Definition{}

// Register adds a definition to the registry. Called from each hook
// package's init(); new hooks require only a Register call and their
// Implementation — nothing else, per spec.md §4.5.
func Register(def Definition) {
	registry[def.ID] = def
}

// Get returns the definition for id, and whether it was found.
func Get(id string) (Definition, bool) {
	d, ok := registry[id]
	return d, ok
}

// All returns every registered definition, sorted by id, for `list`.
func All() []Definition {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	defs := make([]Definition, 0, len(ids))
	for _, id := range ids {
		defs = append(defs, registry[id])
	}
	return defs
}

// ForEvent returns every definition that triggers on event, in registration
// order stabilized by id (the host's own settings.json ordering governs
// actual dispatch order; this is for introspection/listing only).
func ForEvent(event string) []Definition {
	var defs []Definition
	for _, d := range All() {
		if d.TriggersOn(event) {
			defs = append(defs, d)
		}
	}
	return defs
}
