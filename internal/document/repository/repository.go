package repository

import (
	"context"
	"errors"

	"github.com/markhub/markhub/internal/document"
)

var (
	// ErrNotFound is returned when the caller has no record or the entry is missing.
	ErrNotFound = errors.New("document not found")
	// ErrStale is returned when a conditional write missed because the stored
	// mdate no longer matches the expected one.
	ErrStale = errors.New("document changed concurrently")
)

// Repository persists per-user document maps. One record per user; entry
// writes are keyed partial updates, never full map rewrites.
//
// PermanentNameTaken deliberately hides the full-collection uniqueness scan
// behind a single query so an indexed uniqueness table can replace it without
// touching call sites.
type Repository interface {
	// GetMap returns the caller's document map. ErrNotFound when no record exists.
	GetMap(ctx context.Context, uid string) (document.Map, error)
	// SetEntry writes a single map entry, creating the record when absent.
	SetEntry(ctx context.Context, uid, id string, doc document.Document) error
	// SetEntryIfStamp writes a single map entry only while the stored entry
	// still carries expectedMDate. ErrStale when the condition misses.
	SetEntryIfStamp(ctx context.Context, uid, id string, doc document.Document, expectedMDate string) error
	// RemoveEntry deletes one entry from the caller's map.
	RemoveEntry(ctx context.Context, uid, id string) error
	// All returns every user's document map keyed by owner uid.
	All(ctx context.Context) (map[string]document.Map, error)
	// PermanentNameTaken reports whether any permanent document other than
	// excludeID carries name, across all users.
	PermanentNameTaken(ctx context.Context, name, excludeID string) (bool, error)
}
