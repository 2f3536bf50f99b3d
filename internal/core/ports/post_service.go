package ports

import (
	"context"

	"github.com/socialnet/social-api/internal/core/domain"
)

// PostService defines post and feed use cases. Profile arguments are
// profile IDs, not public IDs.
type PostService interface {
	Create(ctx context.Context, profileID, content string) (*domain.Post, error)
	Update(ctx context.Context, postID string, patch domain.PostPatch) (*domain.Post, error)
	Delete(ctx context.Context, postID string) (*domain.Post, error)
	ViewPosts(ctx context.Context, profileID string) ([]*domain.FeedItem, error)
	// LatestFollowed returns nil, nil when the followed profiles have no posts.
	LatestFollowed(ctx context.Context, profileID string) (*domain.FeedItem, error)
	SocialFeed(ctx context.Context, profileID string) ([]*domain.FeedItem, error)
}
