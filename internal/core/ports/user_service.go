package ports

import (
	"context"

	"github.com/retailhub/user-service/internal/core/domain"
)

// RegisterInput carries the fields accepted at account creation. Role is
// not an input: every new account starts as a customer.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// UserService is the orchestrator consumed by the HTTP layer. Methods
// return domain values or one of the domain error kinds, never
// transport-specific codes.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	Deactivate(ctx context.Context, userID string) (*domain.User, error)
}
