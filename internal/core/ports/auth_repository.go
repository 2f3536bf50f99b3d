package ports

import (
	"context"

	"github.com/socialnet/social-api/internal/core/domain"
)

// UserRepository defines the persistence operations for accounts.
type UserRepository interface {
	// Create inserts user and returns it with its ID set. A duplicate email
	// yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
