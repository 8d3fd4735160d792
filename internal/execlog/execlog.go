// Package execlog implements the append-only per-hook Execution Log under
// ~/.claudekit/logs/, and the aggregations the stats/recent/profile
// subcommands need. Grounded on the prior CLI's logging package's
// O_APPEND-file idiom, narrowed to one JSONL file per hook id rather than
// per session, and passed through redact before anything touches disk so
// captured subprocess diagnostics never leak a secret into a log file.
package execlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/carlrannaberg/claudekit/redact"
)

// Entry is one JSON line appended per invocation, per spec.md §3.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	HookID     string    `json:"hook_id"`
	DurationMs int64     `json:"duration_ms"`
	ExitCode   int       `json:"exit_code"`
	BytesOut   int       `json:"bytes_out"`
	BytesErr   int       `json:"bytes_err"`
	SessionID  string    `json:"session_id"`
	Outcome    string    `json:"outcome"` // e.g. "allow", "block", "skipped:disabled", "skipped:subagent"
}

// Store appends entries under baseDir (~/.claudekit/logs).
type Store struct {
	baseDir string
}

// New builds a Store rooted at baseDir.
func New(baseDir string) *Store { return &Store{baseDir: baseDir} }

// NewDefault builds a Store rooted at ~/.claudekit/logs.
func NewDefault() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return New(filepath.Join(home, ".claudekit", "logs")), nil
}

func (s *Store) path(hookID string) string {
	return filepath.Join(s.baseDir, hookID+".log")
}

// Append writes one redacted JSON line for entry. Logging failures are
// non-fatal per spec §4.11 — the hook's own response already happened.
func (s *Store) Append(entry Entry) error {
	if err := os.MkdirAll(s.baseDir, 0o750); err != nil {
		return fmt.Errorf("creating logs directory: %w", err)
	}
	f, err := os.OpenFile(s.path(entry.HookID), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling entry: %w", err)
	}
	data = redact.Bytes(data)
	data = append(data, '\n')
	_, err = f.Write(data)
	return err
}

// Recent returns the last n entries across every hook log (or just hookID
// when non-empty), newest last.
func (s *Store) Recent(hookID string, n int) ([]Entry, error) {
	var ids []string
	if hookID != "" {
		ids = []string{hookID}
	} else {
		entries, err := os.ReadDir(s.baseDir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("reading logs directory: %w", err)
		}
		for _, e := range entries {
			name := e.Name()
			if !e.IsDir() && filepath.Ext(name) == ".log" {
				ids = append(ids, name[:len(name)-len(".log")])
			}
		}
	}

	var all []Entry
	for _, id := range ids {
		lines, err := s.readAll(id)
		if err != nil {
			continue
		}
		all = append(all, lines...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp.Before(all[j].Timestamp) })
	if len(all) > n && n > 0 {
		all = all[len(all)-n:]
	}
	return all, nil
}

func (s *Store) readAll(hookID string) ([]Entry, error) {
	f, err := os.Open(s.path(hookID)) //nolint:gosec // hookID comes from registry/filenames under our own log dir
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Stats is the aggregate stats package computes per hook id.
type Stats struct {
	HookID      string
	Count       int
	BlockCount  int
	SkipCount   int
	P50Ms       int64
	P95Ms       int64
	MaxMs       int64
}

// Aggregate computes per-hook Stats across every hook log under baseDir.
func (s *Store) Aggregate() (map[string]Stats, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Stats{}, nil
		}
		return nil, fmt.Errorf("reading logs directory: %w", err)
	}

	out := map[string]Stats{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".log" {
			continue
		}
		id := name[:len(name)-len(".log")]
		lines, err := s.readAll(id)
		if err != nil {
			continue
		}
		out[id] = computeStats(id, lines)
	}
	return out, nil
}

func computeStats(id string, lines []Entry) Stats {
	st := Stats{HookID: id, Count: len(lines)}
	durations := make([]int64, 0, len(lines))
	for _, e := range lines {
		durations = append(durations, e.DurationMs)
		switch {
		case e.ExitCode == 2:
			st.BlockCount++
		case len(e.Outcome) >= 7 && e.Outcome[:7] == "skipped":
			st.SkipCount++
		}
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	if n := len(durations); n > 0 {
		st.P50Ms = durations[n*50/100]
		st.P95Ms = durations[min(n*95/100, n-1)]
		st.MaxMs = durations[n-1]
	}
	return st
}
