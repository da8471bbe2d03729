package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := OpenSQLStore(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndHistoryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := Record{
		JobID:     "job-1",
		Source:    "int a; a = 1;",
		Outcome:   "success",
		TAC:       "t1 = 1\nMOV a, t1",
		Assembly:  "section .data",
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.Record(ctx, rec))

	history, err := s.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "job-1", history[0].JobID)
	assert.Equal(t, "success", history[0].Outcome)
}

func TestHistoryOrdersNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older := Record{JobID: "older", Outcome: "success", CreatedAt: time.Now().Add(-time.Hour)}
	newer := Record{JobID: "newer", Outcome: "success", CreatedAt: time.Now()}
	require.NoError(t, s.Record(ctx, older))
	require.NoError(t, s.Record(ctx, newer))

	history, err := s.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "newer", history[0].JobID)
	assert.Equal(t, "older", history[1].JobID)
}

func TestHistoryRespectsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, Record{
			JobID: string(rune('a' + i)), Outcome: "success", CreatedAt: time.Now(),
		}))
	}

	history, err := s.History(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
