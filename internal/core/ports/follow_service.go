package ports

import (
	"context"

	"github.com/socialnet/social-api/internal/core/domain"
)

// FollowService owns the follow graph. The acting side is always the
// profile of the authenticated user; targets are addressed by public ID.
type FollowService interface {
	Follow(ctx context.Context, actorUserID, targetPublicID string) error
	Unfollow(ctx context.Context, actorUserID, targetPublicID string) error
	Followers(ctx context.Context, publicID string) ([]domain.ProfileSummary, error)
	Following(ctx context.Context, publicID string) ([]domain.ProfileSummary, error)
}
