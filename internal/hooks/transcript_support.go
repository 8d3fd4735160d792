package hooks

import (
	"context"

	"github.com/carlrannaberg/claudekit/internal/payload"
	"github.com/carlrannaberg/claudekit/internal/transcript"
)

// recordsForHook loads ev's transcript, tolerating its absence the same way
// the rest of the engine tolerates a missing/malformed payload: an empty
// transcript just means every transcript-driven query returns its zero
// answer rather than erroring the hook.
func recordsForHook(ctx context.Context, ev payload.Event) []transcript.Record {
	if ev.TranscriptPath == "" {
		return nil
	}
	records, err := transcript.ParseFile(ev.TranscriptPath)
	if err != nil {
		return nil
	}
	return records
}

func recordContentParts(r transcript.Record) []transcript.ContentPart {
	return transcript.ContentParts(r)
}
