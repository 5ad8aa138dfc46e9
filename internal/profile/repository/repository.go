package repository

import (
	"context"

	"github.com/markhub/markhub/internal/profile"
)

// Repository persists one profile record per user in the users-profiles
// collection. Get returns nil without error when no record exists (profiles
// are created lazily on first update).
//
// DisplayNameTaken hides the full-collection uniqueness scan behind a single
// query so an indexed uniqueness table can replace it later.
type Repository interface {
	Get(ctx context.Context, uid string) (*profile.Profile, error)
	Set(ctx context.Context, uid string, p profile.Profile) error
	All(ctx context.Context) (map[string]*profile.Profile, error)
	DisplayNameTaken(ctx context.Context, uid, displayName string) (bool, error)
}
