package auth

import (
	"fmt"
	"strings"

	"github.com/retailhub/user-service/internal/core/domain"
)

// Guard authenticates bearer tokens for protected operations. It never
// touches persistence: validation is purely cryptographic.
type Guard struct {
	codec *Codec
}

func NewGuard(codec *Codec) *Guard {
	return &Guard{codec: codec}
}

// Authenticate validates a bearer credential and extracts the caller
// identity. The "Bearer " scheme prefix is optional and matched
// case-insensitively. Every validation failure surfaces as
// domain.ErrUnauthorized with the token-level cause wrapped underneath.
func (g *Guard) Authenticate(bearerToken string) (domain.Identity, error) {
	raw := strings.TrimSpace(bearerToken)
	if parts := strings.SplitN(raw, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		raw = strings.TrimSpace(parts[1])
	}
	if raw == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	claims, err := g.codec.Validate(raw, KindAccess)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return claims.Identity(), nil
}
