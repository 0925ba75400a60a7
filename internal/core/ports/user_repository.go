package ports

import (
	"context"

	"github.com/retailhub/user-service/internal/core/domain"
)

// UserRepository is the persistence interface for user records.
// Lookups return domain.ErrUserNotFound when no record matches;
// infrastructure failures come back wrapped as domain.ErrStoreUnavailable
// or domain.ErrStoreTimeout.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.User, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
}
