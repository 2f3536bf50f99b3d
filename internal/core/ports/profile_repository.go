package ports

import (
	"context"

	"github.com/socialnet/social-api/internal/core/domain"
)

// ProfileRepository handles profile documents and the follow edges stored
// on them.
type ProfileRepository interface {
	// Create inserts p and sets p.ID. A second profile for the same user
	// yields domain.ErrProfileExists.
	Create(ctx context.Context, p *domain.Profile) error
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	FindByPublicID(ctx context.Context, publicID string) (*domain.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	// FindManyByIDs resolves ids to profiles. Unknown ids are skipped.
	FindManyByIDs(ctx context.Context, ids []string) ([]*domain.Profile, error)
	Update(ctx context.Context, publicID string, patch domain.ProfilePatch) (*domain.Profile, error)
	// Delete removes the profile and every follow edge that references it.
	Delete(ctx context.Context, publicID string) (*domain.Profile, error)

	// AddFollow records followerID -> followeeID on both documents.
	// It returns domain.ErrAlreadyFollowing when the edge already exists and
	// an error wrapping domain.ErrEdgeDiverged when only the follower side
	// could be written.
	AddFollow(ctx context.Context, followerID, followeeID string) error
	// RemoveFollow is the inverse of AddFollow; a missing edge yields
	// domain.ErrNotFollowing.
	RemoveFollow(ctx context.Context, followerID, followeeID string) error

	// SetFollower makes followerID present in (or absent from) the
	// followee's followers and reports whether the document changed.
	SetFollower(ctx context.Context, followeeID, followerID string, present bool) (bool, error)
	// SetFollowing makes followeeID present in (or absent from) the
	// follower's following and reports whether the document changed.
	SetFollowing(ctx context.Context, followerID, followeeID string, present bool) (bool, error)

	// ForEach streams every profile to fn, stopping at the first error.
	ForEach(ctx context.Context, fn func(*domain.Profile) error) error
}
