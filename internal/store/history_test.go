package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finmodel/internal/models"
	"finmodel/internal/store"
)

func openTestStore(t *testing.T) *store.HistoryStore {
	t.Helper()
	s, err := store.OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndMarkTerminal(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordSubmission(ctx, "j1", "TCS", models.SourceStock))

	subs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "j1", subs[0].JobID)
	assert.Equal(t, "TCS", subs[0].Subject)
	assert.Equal(t, models.SourceStock, subs[0].Source)
	assert.Equal(t, models.JobStatusPending, subs[0].Status)
	assert.Empty(t, subs[0].Filename)

	require.NoError(t, s.MarkTerminal(ctx, "j1", models.JobStatusCompleted, "TCS_model.xlsx"))

	subs, err = s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, models.JobStatusCompleted, subs[0].Status)
	assert.Equal(t, "TCS_model.xlsx", subs[0].Filename)
}

func TestMarkTerminalUnknownJob(t *testing.T) {
	s := openTestStore(t)

	err := s.MarkTerminal(context.Background(), "missing", models.JobStatusFailed, "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRecentOrderAndLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"j1", "j2", "j3"} {
		require.NoError(t, s.RecordSubmission(ctx, id, "TCS", models.SourceStock))
	}

	subs, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.False(t, all[0].CreatedAt.Before(all[len(all)-1].CreatedAt), "newest first")
}

func TestOpenHistoryCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	s, err := store.OpenHistory(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.RecordSubmission(context.Background(), "j1", "TCS", models.SourceStock))
}
