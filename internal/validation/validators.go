// Package validation provides input validation shared across the engine.
// It has no internal dependencies to avoid import cycles.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// pathSafeRegex matches alphanumeric characters, underscores, and hyphens only.
// Used to validate IDs that will be used in file paths.
var pathSafeRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateSessionID validates that a session id doesn't contain path separators.
// This prevents path traversal when session ids are used to build filesystem paths.
func ValidateSessionID(id string) error {
	if id == "" {
		return errors.New("session id cannot be empty")
	}
	if strings.ContainsAny(id, "/\\") {
		return fmt.Errorf("invalid session id %q: contains path separators", id)
	}
	return nil
}

// ValidateHookID validates a hook id used in filenames (log files, flag files).
func ValidateHookID(id string) error {
	if id == "" {
		return errors.New("hook id cannot be empty")
	}
	if !pathSafeRegex.MatchString(id) {
		return fmt.Errorf("invalid hook id %q: must be alphanumeric with underscores/hyphens only", id)
	}
	return nil
}
