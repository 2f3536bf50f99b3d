package ports

import (
	"context"

	"github.com/socialnet/social-api/internal/core/domain"
)

// CreateProfileInput carries the user-supplied profile fields.
type CreateProfileInput struct {
	Username       string
	Bio            string
	ProfilePicture string
}

// ProfileService defines the profile use cases.
type ProfileService interface {
	Create(ctx context.Context, userID string, in CreateProfileInput) (*domain.Profile, error)
	Update(ctx context.Context, publicID string, patch domain.ProfilePatch) (*domain.Profile, error)
	Delete(ctx context.Context, publicID string) (*domain.Profile, error)
	View(ctx context.Context, publicID string) (*domain.ProfileView, error)
}
