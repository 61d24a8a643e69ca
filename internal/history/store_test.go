package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInsertAndListAll(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := CompletedDownload{
		Title:       "Never Gonna Give You Up",
		FilePath:    "/home/u/Downloads/Never Gonna Give You Up.webm",
		FormatLabel: "1080p webm",
	}
	require.NoError(t, store.Insert(ctx, &first))
	require.Equal(t, int64(1), first.ID)
	require.False(t, first.CompletedAt.IsZero())

	second := CompletedDownload{
		Title:       "Lofi Mix",
		FilePath:    "/home/u/Downloads/Lofi Mix.m4a",
		FormatLabel: "Audio Only m4a 128k",
		CompletedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Insert(ctx, &second))
	require.Equal(t, int64(2), second.ID)

	records, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "Never Gonna Give You Up", records[0].Title)
	require.Equal(t, "1080p webm", records[0].FormatLabel)
	require.Equal(t, "Lofi Mix", records[1].Title)
	require.True(t, records[1].CompletedAt.Equal(second.CompletedAt))
}

func TestListAllEmpty(t *testing.T) {
	store := openTestStore(t)

	records, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestReopenKeepsRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, &CompletedDownload{
		Title:       "Persisted",
		FilePath:    "/tmp/p.mp4",
		FormatLabel: "720p mp4",
	}))
	require.NoError(t, store.Close())

	// Init runs again on reopen and must not disturb existing rows.
	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Persisted", records[0].Title)
}

func TestInsertOrderIsListOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		require.NoError(t, store.Insert(ctx, &CompletedDownload{
			Title:       title,
			FilePath:    "/tmp/" + title + ".mp4",
			FormatLabel: "480p mp4",
		}))
	}

	records, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, len(titles))
	for i, title := range titles {
		require.Equal(t, title, records[i].Title)
		require.Equal(t, int64(i+1), records[i].ID)
	}
}
