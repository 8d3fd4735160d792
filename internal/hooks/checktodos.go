package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/carlrannaberg/claudekit/internal/config"
	"github.com/carlrannaberg/claudekit/internal/hookdef"
	"github.com/carlrannaberg/claudekit/internal/payload"
	"github.com/carlrannaberg/claudekit/internal/transcript"
)

func init() {
	hookdef.Register(hookdef.Definition{
		ID:                 "check-todos",
		TriggerEvents:      []string{hookdef.EventStop, hookdef.EventSubagentStop},
		Matcher:            "*",
		Description:        "Blocks Stop while the latest TODO list still has incomplete items.",
		DisabledInSubagent: true,
		Factory:            func() hookdef.Implementation { return checkTodosHook{} },
	})
}

type checkTodosHook struct{}

type todoItem struct {
	Content string `json:"content"`
	Status  string `json:"status"`
}

func (checkTodosHook) Run(ctx context.Context, ev payload.Event, cfg config.HookConfig) (hookdef.Outcome, error) {
	records := recordsForHook(ctx, ev)
	items, found := latestTodoState(records)
	if !found {
		return hookdef.AllowOutcome(), nil
	}

	var remaining []string
	for _, it := range items {
		if it.Status != "completed" {
			remaining = append(remaining, fmt.Sprintf("[%s] %s", it.Status, it.Content))
		}
	}
	if len(remaining) == 0 {
		return hookdef.AllowOutcome(), nil
	}
	return hookdef.BlockOutcome(
		"The TODO list still has incomplete items:\n"+strings.Join(remaining, "\n"),
		"Finish or explicitly cancel the remaining items before stopping.",
	), nil
}

// latestTodoState scans records in reverse for the most recent TodoWrite
// tool_use and returns its requested todo list.
func latestTodoState(records []transcript.Record) ([]todoItem, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		parts := recordContentParts(records[i])
		for _, p := range parts {
			if p.Type != "tool_use" || p.Name != "TodoWrite" {
				continue
			}
			var input struct {
				Todos []todoItem `json:"todos"`
			}
			if err := json.Unmarshal(p.Input, &input); err != nil {
				continue
			}
			return input.Todos, true
		}
	}
	return nil, false
}
