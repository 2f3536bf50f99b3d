package ports

import (
	"context"

	"github.com/socialnet/social-api/internal/core/domain"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	// Create inserts p and sets p.ID.
	Create(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error)
	Delete(ctx context.Context, id string) (*domain.Post, error)
	DeleteByAuthor(ctx context.Context, authorID string) (int64, error)
	// ListByAuthor returns the author's posts, newest first.
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
	// Feed returns posts by any of authorIDs joined with their author,
	// newest first. limit <= 0 means no limit.
	Feed(ctx context.Context, authorIDs []string, limit int) ([]*domain.FeedItem, error)
}
