// Package bashparse parses a shell command line without executing it, for
// the sole purpose file-guard needs: extracting filesystem-path candidates
// and flagging sensitive-exfiltration patterns (spec.md §4.8). It is not a
// shell; ambiguous input yields no candidate rather than a guess, per
// spec.md §9's design note.
//
// Tokenization is delegated to github.com/mattn/go-shellwords (quoting and
// escaping); redirection/pipeline/substitution/git-ref recognition and the
// exfiltration heuristics are bespoke, since no library in this module's
// dependency set covers that surface.
package bashparse

import (
	"regexp"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Role classifies how a candidate path is used by the command.
type Role int

const (
	RoleRead Role = iota
	RoleWrite
	RoleExec
)

func (r Role) String() string {
	switch r {
	case RoleWrite:
		return "write"
	case RoleExec:
		return "exec"
	default:
		return "read"
	}
}

// Candidate is one filesystem path extracted from a command line.
type Candidate struct {
	Path string
	Role Role
}

// Result is the full analysis of one command line.
type Result struct {
	Candidates            []Candidate
	SensitiveExfiltration bool
}

var substitutionRe = regexp.MustCompile("\\$\\(([^()]*(?:\\([^()]*\\)[^()]*)*)\\)|`([^`]*)`")

// Parse analyzes command without executing it.
func Parse(command string) Result {
	var result Result

	// 1. Recurse into command substitutions / backticks first, then blank
	// them out so the outer tokenizer doesn't choke on the syntax.
	stripped := substitutionRe.ReplaceAllStringFunc(command, func(m string) string {
		inner := substitutionRe.FindStringSubmatch(m)
		var innerCmd string
		if inner[1] != "" {
			innerCmd = inner[1]
		} else {
			innerCmd = inner[2]
		}
		sub := Parse(innerCmd)
		result.Candidates = append(result.Candidates, sub.Candidates...)
		result.SensitiveExfiltration = result.SensitiveExfiltration || sub.SensitiveExfiltration
		return ""
	})

	result.SensitiveExfiltration = result.SensitiveExfiltration || detectExfiltration(command)

	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false
	tokens, err := parser.Parse(stripped)
	if err != nil {
		// Unparsable input: no candidates, never a deny-all guess.
		return result
	}

	result.Candidates = append(result.Candidates, extractFromTokens(tokens)...)
	return result
}

func extractFromTokens(tokens []string) []Candidate {
	var candidates []Candidate

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case tok == ">" || tok == ">>":
			if i+1 < len(tokens) && looksLikePath(tokens[i+1]) {
				candidates = append(candidates, Candidate{Path: tokens[i+1], Role: RoleWrite})
				i++
			}
			continue
		case tok == "<":
			if i+1 < len(tokens) && looksLikePath(tokens[i+1]) {
				candidates = append(candidates, Candidate{Path: tokens[i+1], Role: RoleRead})
				i++
			}
			continue
		case isFDRedirect(tok):
			// "2>&1", "&>" and similar duplicate a file descriptor, not a path.
			continue
		case tok == "-exec":
			// find ... -exec <cmd> [args...] ; | +
			j := i + 1
			var execTokens []string
			for j < len(tokens) && tokens[j] != ";" && tokens[j] != "+" {
				execTokens = append(execTokens, tokens[j])
				j++
			}
			candidates = append(candidates, extractFromTokens(execTokens)...)
			i = j
			continue
		case tok == "|" || tok == "&&" || tok == "||" || tok == ";":
			continue
		}

		if strings.HasPrefix(tok, "-") {
			// Flag token: @file style data-upload args are handled by the
			// exfiltration heuristic, not as ordinary path candidates.
			continue
		}
		if isGitRevision(tok) {
			continue
		}
		if looksLikePath(tok) {
			candidates = append(candidates, Candidate{Path: tok, Role: RoleRead})
		}
	}

	return candidates
}

func isFDRedirect(tok string) bool {
	return regexp.MustCompile(`^[0-9]*>&[0-9]+$`).MatchString(tok) || tok == "&>" || tok == "&>>"
}

var pathLikeRe = regexp.MustCompile(`^(~|\.{1,2}/|/|[A-Za-z0-9_.\-]+/)`)
var bareFileRe = regexp.MustCompile(`^[A-Za-z0-9_.\-]+\.[A-Za-z0-9]{1,8}$`)

func looksLikePath(tok string) bool {
	if tok == "" {
		return false
	}
	if strings.HasPrefix(tok, "$") {
		return false // unexpanded variable, not a literal path
	}
	return pathLikeRe.MatchString(tok) || bareFileRe.MatchString(tok)
}

// gitRevisionRe recognizes git revision grammars so they are never mistaken
// for filesystem paths: ranges (A..B, A...B), ancestry (HEAD~N, HEAD^),
// upstream/reflog shorthand (@{u}, @{-1}), and common remote refs.
var gitRevisionRes = []*regexp.Regexp{
	regexp.MustCompile(`\.\.\.?`),                     // A..B / A...B anywhere in the token
	regexp.MustCompile(`^HEAD([~^][0-9]*)*$`),         // HEAD, HEAD~2, HEAD^
	regexp.MustCompile(`@\{[^}]*\}`),                  // @{u}, @{-1}, branch@{yesterday}
	regexp.MustCompile(`^(origin|upstream)/[\w.\-/]+$`), // origin/main and similar
}

// isGitRevision reports whether tok is a git revision expression rather than
// a filesystem path. Relative/absolute path syntax (./, ../, /) always wins:
// "../.env" and "../../etc/passwd" contain ".." the same way "A..B" does,
// but they are unambiguous path traversal, not a revision range.
func isGitRevision(tok string) bool {
	if strings.HasPrefix(tok, "./") || strings.HasPrefix(tok, "../") || strings.HasPrefix(tok, "/") {
		return false
	}
	for _, re := range gitRevisionRes {
		if re.MatchString(tok) {
			return true
		}
	}
	return false
}

// detectExfiltration flags commands that pipe file contents to a remote
// destination independent of any single path candidate: curl/wget posting
// a file body, netcat/ncat, or scp/rsync to a remote host.
func detectExfiltration(command string) bool {
	lower := strings.ToLower(command)
	hasUploadVerb := strings.Contains(lower, "curl") || strings.Contains(lower, "wget") ||
		strings.Contains(lower, "nc ") || strings.Contains(lower, "ncat") ||
		strings.Contains(lower, "scp ") || strings.Contains(lower, "rsync")
	if !hasUploadVerb {
		return false
	}
	if regexp.MustCompile(`-d\s*@|--data(-binary)?\s*@|--upload-file`).MatchString(command) {
		return true
	}
	if strings.Contains(lower, "nc ") || strings.Contains(lower, "ncat") {
		return true
	}
	if (strings.Contains(lower, "scp ") || strings.Contains(lower, "rsync")) &&
		regexp.MustCompile(`\b\w+@[\w.\-]+:`).MatchString(command) {
		return true
	}
	return false
}
