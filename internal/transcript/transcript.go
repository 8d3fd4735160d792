// Package transcript parses the host's append-only JSONL conversation
// transcript and answers the queries the Base Hook Runtime and hook
// implementations need (recent file paths, marker search, subagent
// detection), grouping raw records into UI-visible messages the way the
// host's own UI does.
//
// Grounded on the prior CLI's agent/claudecode/transcript.go (bufio.Scanner
// with a large fixed buffer, tolerant of malformed trailing lines,
// file-modification-tool extraction) and paths/transcript.go (timestamp
// extraction), extended with the UI-message grouping and subagent-detection
// heuristics spec.md §4.4 requires that the prior CLI never needed.
package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MaxFileBytes bounds how much of a transcript file is read, per spec §5's
// 32 MiB suspension-point cap.
const MaxFileBytes = 32 * 1024 * 1024

const scannerBufferSize = MaxFileBytes

// FileModificationTools lists tool names whose tool_input carries a
// file_path/edits[] that represents a write.
var FileModificationTools = []string{
	"Write", "Edit", "MultiEdit", "NotebookEdit",
	"mcp__acp__Write", "mcp__acp__Edit",
}

// Record is one JSONL line of the transcript.
type Record struct {
	Type      string          `json:"type"` // user, assistant, system
	UUID      string          `json:"uuid,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	Content   json.RawMessage `json:"content"`

	// raw keeps the full decoded line for host-specific optional fields
	// (e.g. isSidechain/parentUuid) the subagent heuristic inspects.
	raw map[string]any
}

// ContentPart is one element of an array-form Content (text or tool block).
type ContentPart struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Name      string          `json:"name,omitempty"`       // tool_use
	Input     json.RawMessage `json:"input,omitempty"`      // tool_use
	ToolUseID string          `json:"tool_use_id,omitempty"` // tool_result
	Content   json.RawMessage `json:"content,omitempty"`    // tool_result payload
}

type toolInput struct {
	FilePath     string `json:"file_path"`
	NotebookPath string `json:"notebook_path"`
	Edits        []struct {
		FilePath string `json:"file_path"`
	} `json:"edits"`
}

// ParseBytes parses transcript JSONL content, skipping malformed lines
// without failing the whole parse.
func ParseBytes(data []byte) []Record {
	var records []Record
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), scannerBufferSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal(line, &raw); err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		rec.raw = raw
		records = append(records, rec)
	}
	// scanner.Err() is ignored: a truncated trailing line surfaces as a
	// bufio.ErrTooLong or io error on the last partial line, and spec
	// requires transcript parsing to never fail on truncation.
	return records
}

// ParseFile reads and parses path, bounded by MaxFileBytes from the end of
// the file (tailing the most recent records, per spec §5).
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path) //nolint:gosec // path is host-supplied transcript_path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := info.Size()
	if size <= MaxFileBytes {
		data, err := os.ReadFile(path) //nolint:gosec // see above
		if err != nil {
			return nil, err
		}
		return ParseBytes(data), nil
	}

	offset := size - MaxFileBytes
	if _, err := f.Seek(offset, 0); err != nil {
		return nil, err
	}
	data := make([]byte, MaxFileBytes)
	n, err := f.Read(data)
	if err != nil && n == 0 {
		return nil, err
	}
	data = data[:n]
	// Drop a possibly-truncated first line since we seeked mid-file.
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		data = data[idx+1:]
	}
	return ParseBytes(data), nil
}

// UIMessage is a maximal contiguous run of records sharing the same role
// (spec §4.4's grouping rule): consecutive same-role records — whether
// they carry text, tool calls, or both — fuse into one UI-visible message,
// matching how the host's own UI renders a single bubble per turn even
// when the transcript splits it across several JSONL lines.
type UIMessage struct {
	Role    string
	Records []Record
}

// GroupUIMessages groups records into UI messages per the rule above.
func GroupUIMessages(records []Record) []UIMessage {
	var groups []UIMessage
	for _, r := range records {
		if len(groups) > 0 && groups[len(groups)-1].Role == r.Type {
			last := &groups[len(groups)-1]
			last.Records = append(last.Records, r)
			continue
		}
		groups = append(groups, UIMessage{Role: r.Type, Records: []Record{r}})
	}
	return groups
}

// ContentParts exposes a record's content parts for hooks that need to
// inspect tool_use/tool_result blocks directly (e.g. check-todos reading
// the latest TodoWrite call).
func ContentParts(r Record) []ContentPart {
	return contentParts(r.Content)
}

// contentParts decodes Content as an array of parts; a plain string content
// becomes a single text part.
func contentParts(content json.RawMessage) []ContentPart {
	if len(content) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return []ContentPart{{Type: "text", Text: s}}
	}
	var parts []ContentPart
	if err := json.Unmarshal(content, &parts); err == nil {
		return parts
	}
	return nil
}

// RecentFilePaths returns file paths referenced by edit/write tool uses in
// the last limit records, most-recently-referenced first, deduplicated.
func RecentFilePaths(records []Record, limit int) []string {
	start := 0
	if limit > 0 && len(records) > limit {
		start = len(records) - limit
	}
	window := records[start:]

	seen := map[string]bool{}
	var paths []string
	for i := len(window) - 1; i >= 0; i-- {
		for _, p := range window[i].modifiedFiles() {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	return paths
}

func (r Record) modifiedFiles() []string {
	if r.Type != "assistant" {
		return nil
	}
	var files []string
	for _, part := range contentParts(r.Content) {
		if part.Type != "tool_use" || !isFileModTool(part.Name) {
			continue
		}
		var in toolInput
		if err := json.Unmarshal(part.Input, &in); err != nil {
			continue
		}
		if in.FilePath != "" {
			files = append(files, in.FilePath)
		}
		if in.NotebookPath != "" {
			files = append(files, in.NotebookPath)
		}
		for _, e := range in.Edits {
			if e.FilePath != "" {
				files = append(files, e.FilePath)
			}
		}
	}
	return files
}

func isFileModTool(name string) bool {
	for _, t := range FileModificationTools {
		if t == name {
			return true
		}
	}
	return false
}

// FindMarkerIndex returns the index of the last record whose content
// contains marker, searching user-message text and the tool_result
// payloads embedded in user messages (per spec §4.4).
func FindMarkerIndex(records []Record, marker string) (int, bool) {
	if marker == "" {
		return -1, false
	}
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Type != "user" {
			continue
		}
		for _, part := range contentParts(records[i].Content) {
			if part.Type == "text" && strings.Contains(part.Text, marker) {
				return i, true
			}
			if part.Type == "tool_result" && toolResultContains(part.Content, marker) {
				return i, true
			}
		}
	}
	return -1, false
}

func toolResultContains(content json.RawMessage, marker string) bool {
	if len(content) == 0 {
		return false
	}
	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return strings.Contains(s, marker)
	}
	var parts []ContentPart
	if err := json.Unmarshal(content, &parts); err == nil {
		for _, p := range parts {
			if strings.Contains(p.Text, marker) {
				return true
			}
		}
	}
	return false
}

// HasFileChangesSinceMarker reports whether at least one file-modifying
// tool use exists after the last record matching marker, whose path matches
// the pattern set (ordered, negation-aware: a later "!pattern" un-matches a
// path an earlier pattern matched, mirroring spec.md §3's pattern-merge
// rule).
func HasFileChangesSinceMarker(records []Record, marker string, patterns []string) bool {
	start := 0
	if idx, ok := FindMarkerIndex(records, marker); ok {
		start = idx + 1
	}
	for _, r := range records[start:] {
		for _, path := range r.modifiedFiles() {
			if matchesPatterns(path, patterns) {
				return true
			}
		}
	}
	return false
}

func matchesPatterns(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	matched := false
	for _, p := range patterns {
		negate := strings.HasPrefix(p, "!")
		pat := strings.TrimPrefix(p, "!")
		ok, err := doublestar.Match(pat, path)
		if err != nil || !ok {
			continue
		}
		matched = !negate
	}
	return matched
}

// SubagentContext reports whether the tail of the transcript indicates the
// current event originates from a subagent/sidechain, per the host's
// subagent protocol. This is a heuristic, host-dependent pure function over
// recent records by design (spec.md §9's design note), kept isolated here so
// it can be updated without touching any hook.
func SubagentContext(records []Record) bool {
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.raw == nil {
			continue
		}
		if v, ok := r.raw["isSidechain"].(bool); ok {
			return v
		}
		if _, ok := r.raw["parentUuid"]; ok {
			if s, ok := r.raw["parentUuid"].(string); ok && s != "" {
				return true
			}
		}
		// Only the most recent record is authoritative for "current" context.
		break
	}
	return false
}
