package execlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRecent(t *testing.T) {
	store := New(t.TempDir())

	e1 := Entry{Timestamp: time.Now().Add(-time.Minute), HookID: "lint-changed", DurationMs: 10, Outcome: "allow"}
	e2 := Entry{Timestamp: time.Now(), HookID: "lint-changed", DurationMs: 20, Outcome: "block", ExitCode: 2}

	require.NoError(t, store.Append(e1))
	require.NoError(t, store.Append(e2))

	entries, err := store.Recent("lint-changed", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(10), entries[0].DurationMs)
	assert.Equal(t, int64(20), entries[1].DurationMs)
}

func TestRecent_LimitsToN(t *testing.T) {
	store := New(t.TempDir())
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(Entry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			HookID:    "lint-changed",
			DurationMs: int64(i),
		}))
	}

	entries, err := store.Recent("", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(3), entries[0].DurationMs)
	assert.Equal(t, int64(4), entries[1].DurationMs)
}

func TestRecent_MissingLogDirReturnsEmpty(t *testing.T) {
	store := New(t.TempDir() + "/nonexistent")
	entries, err := store.Recent("", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAggregate_ComputesPercentilesAndCounts(t *testing.T) {
	store := New(t.TempDir())

	durations := []int64{5, 10, 15, 20, 100}
	for i, d := range durations {
		outcome := "allow"
		exitCode := 0
		if i == len(durations)-1 {
			outcome = "block"
			exitCode = 2
		}
		require.NoError(t, store.Append(Entry{
			Timestamp:  time.Now(),
			HookID:     "test-changed",
			DurationMs: d,
			Outcome:    outcome,
			ExitCode:   exitCode,
		}))
	}
	require.NoError(t, store.Append(Entry{
		Timestamp: time.Now(),
		HookID:    "test-changed",
		Outcome:   "skipped:disabled",
	}))

	stats, err := store.Aggregate()
	require.NoError(t, err)

	st, ok := stats["test-changed"]
	require.True(t, ok)
	assert.Equal(t, 6, st.Count)
	assert.Equal(t, 1, st.BlockCount)
	assert.Equal(t, 1, st.SkipCount)
	assert.Equal(t, int64(100), st.MaxMs)
}

func TestAggregate_EmptyLogsDir(t *testing.T) {
	store := New(t.TempDir())
	stats, err := store.Aggregate()
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestAppend_RedactsSecrets(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Append(Entry{
		Timestamp: time.Now(),
		HookID:    "lint-changed",
		Outcome:   "sk-ant-REDACTED",
	}))

	entries, err := store.Recent("lint-changed", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Outcome, "sk-ant-REDACTED")
}
