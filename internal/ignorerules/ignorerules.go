// Package ignorerules implements the Ignore Rules model file-guard enforces:
// an ordered, negation-aware merge of gitignore-grammar patterns from
// defaults and every AI-ignore file found at the project root.
//
// Pattern parsing and matching are delegated to
// github.com/go-git/go-git/v5/plumbing/format/gitignore, already a
// transitive part of the required go-git dependency — its Matcher applies
// patterns in order and lets a later pattern override an earlier one,
// which is exactly spec.md §3's "last-writer-wins within a source and
// ordered-union across sources; negations may reintroduce previously
// excluded paths" rule.
package ignorerules

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FileNames are the AI-ignore files looked up at the project root, in the
// fixed merge order spec.md §3/§6 lists.
var FileNames = []string{
	".agentignore",
	".aiignore",
	".aiexclude",
	".geminiignore",
	".codeiumignore",
	".cursorignore",
}

// Defaults are the built-in protected patterns: env files, keys, cloud
// credentials, SSH keys, with common template exceptions left allowed.
var Defaults = []string{
	".env",
	".env.*",
	"!.env.example",
	"!.env.template",
	"!.env.sample",
	"*.pem",
	"*.key",
	"*.pfx",
	"*.p12",
	"id_rsa",
	"id_rsa.*",
	"id_ed25519",
	"id_ed25519.*",
	".ssh/*",
	".aws/credentials",
	".aws/config",
	"*.keystore",
}

// Rules is the merged, ready-to-query ignore set for a project root.
type Rules struct {
	matcher gitignore.Matcher
}

// Load merges Defaults with every FileNames entry found under root, in
// order, and returns the resulting Rules.
func Load(root string) (*Rules, error) {
	var patterns []gitignore.Pattern
	patterns = append(patterns, parseLines(Defaults, nil)...)

	for _, name := range FileNames {
		lines, err := readLines(filepath.Join(root, name))
		if err != nil {
			continue // absent ignore file is not an error
		}
		patterns = append(patterns, parseLines(lines, nil)...)
	}

	return &Rules{matcher: gitignore.NewMatcher(patterns)}, nil
}

// LoadFromSources merges Defaults with explicit (name, content) pairs,
// useful for tests that don't want to touch the filesystem.
func LoadFromSources(sources map[string]string) *Rules {
	var patterns []gitignore.Pattern
	patterns = append(patterns, parseLines(Defaults, nil)...)
	for _, name := range FileNames {
		content, ok := sources[name]
		if !ok {
			continue
		}
		patterns = append(patterns, parseLines(strings.Split(content, "\n"), nil)...)
	}
	return &Rules{matcher: gitignore.NewMatcher(patterns)}
}

// Protected reports whether relPath (slash-separated, relative to project
// root) is protected by the merged rules, honoring negations.
func (r *Rules) Protected(relPath string, isDir bool) bool {
	if r == nil || r.matcher == nil {
		return false
	}
	segments := strings.Split(filepath.ToSlash(relPath), "/")
	return r.matcher.Match(segments, isDir)
}

func parseLines(lines []string, domain []string) []gitignore.Pattern {
	var patterns []gitignore.Pattern
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(trimmed, domain))
	}
	return patterns
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path is a fixed basename under the project root
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
