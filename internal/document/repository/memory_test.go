package repository

import (
	"context"
	"testing"

	"github.com/markhub/markhub/internal/document"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_EntryLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	_, err := r.GetMap(ctx, "u1")
	require.ErrorIs(t, err, ErrNotFound)

	doc := document.Document{Name: "First", Code: "# hi", CDate: "2024-01-01T00:00:00.000Z", MDate: "2024-01-01T00:00:00.000Z", Visibility: document.VisibilityPrivate}
	require.NoError(t, r.SetEntry(ctx, "u1", "d1", doc))

	docs, err := r.GetMap(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "First", docs["d1"].Name)

	require.NoError(t, r.RemoveEntry(ctx, "u1", "d1"))
	require.ErrorIs(t, r.RemoveEntry(ctx, "u1", "d1"), ErrNotFound)
}

func TestMemoryRepo_SetEntryIfStamp(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	doc := document.Document{Name: "First", MDate: "2024-01-01T00:00:00.000Z", Visibility: document.VisibilityPrivate}
	require.NoError(t, r.SetEntry(ctx, "u1", "d1", doc))

	next := doc
	next.MDate = "2024-01-02T00:00:00.000Z"
	require.NoError(t, r.SetEntryIfStamp(ctx, "u1", "d1", next, "2024-01-01T00:00:00.000Z"))

	// the original stamp no longer matches
	require.ErrorIs(t, r.SetEntryIfStamp(ctx, "u1", "d1", next, "2024-01-01T00:00:00.000Z"), ErrStale)
}

func TestMemoryRepo_PermanentNameTaken(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	require.NoError(t, r.SetEntry(ctx, "u1", "d1", document.Document{Name: "Shared Notes", Visibility: document.VisibilityPermanent}))

	taken, err := r.PermanentNameTaken(ctx, "Shared Notes", "")
	require.NoError(t, err)
	require.True(t, taken)

	// the owning id is excluded from the scan
	taken, err = r.PermanentNameTaken(ctx, "Shared Notes", "d1")
	require.NoError(t, err)
	require.False(t, taken)

	// private documents never count
	require.NoError(t, r.SetEntry(ctx, "u2", "d2", document.Document{Name: "Drafts", Visibility: document.VisibilityPrivate}))
	taken, err = r.PermanentNameTaken(ctx, "Drafts", "")
	require.NoError(t, err)
	require.False(t, taken)
}
