package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/retailhub/user-service/internal/core/auth"
	"github.com/retailhub/user-service/internal/core/domain"
	"github.com/retailhub/user-service/internal/core/ports"
)

// UserService coordinates registration, authentication, profile
// management, and password rotation. It is the only component that talks
// to the user store.
type UserService struct {
	repo      ports.UserRepository
	hasher    *auth.Hasher
	codec     *auth.Codec
	publisher ports.EventPublisher
	limiter   ports.LoginLimiter
	clock     ports.Clock
	logger    zerolog.Logger
}

func NewUserService(
	repo ports.UserRepository,
	hasher *auth.Hasher,
	codec *auth.Codec,
	publisher ports.EventPublisher,
	limiter ports.LoginLimiter,
	clock ports.Clock,
	logger zerolog.Logger,
) *UserService {
	if clock == nil {
		clock = ports.UTCClock()
	}
	return &UserService{
		repo:      repo,
		hasher:    hasher,
		codec:     codec,
		publisher: publisher,
		limiter:   limiter,
		clock:     clock,
		logger:    logger,
	}
}

// Register creates a new customer account. Email and username must be
// unique; the store's unique indexes back up the existence checks, so a
// concurrent duplicate registration loses at insert time rather than
// creating a second record.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		IsActive:     true,
		Phone:        in.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Insert(ctx, user)
	if err != nil {
		return nil, err
	}

	// Fire-and-forget: a failed publish never rolls back the record.
	s.publisher.Publish(ctx, domain.EventUserRegistered, map[string]any{
		"user_id":    created.ID,
		"email":      created.Email,
		"username":   created.Username,
		"first_name": created.FirstName,
		"last_name":  created.LastName,
	})

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a token pair. Unknown email and
// wrong password produce the identical error so callers cannot probe
// which accounts exist.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, email)
		if err != nil {
			// Limiter outage fails open: availability over throttling.
			s.logger.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		} else if !ok {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}

	pair, err := s.codec.IssuePair(domain.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("login succeeded")
	return pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The account
// is re-checked so a deactivated user cannot keep minting tokens.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.codec.Validate(refreshToken, auth.KindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}

	return s.codec.IssuePair(domain.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
}

// GetProfile fetches a user by id.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile applies an allow-listed patch and bumps updated_at. An
// empty patch is a no-op read.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error) {
	if patch.Empty() {
		return s.repo.FindByID(ctx, userID)
	}

	updated, err := s.repo.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, domain.EventUserProfileUpdated, map[string]any{
		"user_id": updated.ID,
	})
	return updated, nil
}

// ChangePassword verifies the current password and stores a fresh hash
// of the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrIncorrectPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.SetPasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	s.publisher.Publish(ctx, domain.EventUserPasswordChanged, map[string]any{
		"user_id": userID,
	})
	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// Deactivate flags the account inactive, blocking future logins and
// refreshes. Records are never hard-deleted.
func (s *UserService) Deactivate(ctx context.Context, userID string) (*domain.User, error) {
	updated, err := s.repo.SetActive(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, domain.EventUserDeactivated, map[string]any{
		"user_id": userID,
	})
	s.logger.Info().Str("user_id", userID).Msg("account deactivated")
	return updated, nil
}

var _ ports.UserService = (*UserService)(nil)
