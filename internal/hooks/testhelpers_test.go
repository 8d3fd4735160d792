package hooks

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carlrannaberg/claudekit/internal/repo"
)

// chdirTemp switches the process cwd to dir for the duration of the test,
// restoring the original cwd (and repo's cached root) on cleanup.
func chdirTemp(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	repo.ClearCache()
	t.Cleanup(func() {
		_ = os.Chdir(old)
		repo.ClearCache()
	})
}
