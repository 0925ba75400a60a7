package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/retailhub/user-service/internal/core/domain"
	"github.com/retailhub/user-service/internal/core/ports"
)

// TokenKind discriminates access tokens from refresh tokens. The kind is
// embedded in the signed payload so a refresh token can never pass where
// an access token is required.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims is the signed token payload: caller identity plus the kind tag.
type Claims struct {
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Kind  TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// Codec issues and validates signed expiring tokens. The signing secret
// is fixed at construction and read-only afterwards.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      ports.Clock
}

// NewCodec creates a Codec. Zero TTLs fall back to 30 minutes for access
// and 7 days for refresh tokens.
func NewCodec(secret string, accessTTL, refreshTTL time.Duration, clock ports.Clock) *Codec {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	if clock == nil {
		clock = ports.UTCClock()
	}
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		clock:      clock,
	}
}

func (c *Codec) ttl(kind TokenKind) time.Duration {
	if kind == KindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue signs a token of the given kind for the identity. Expiry is
// issued-at plus the kind's TTL.
func (c *Codec) Issue(id domain.Identity, kind TokenKind) (string, error) {
	now := c.clock.Now()
	claims := Claims{
		Email: id.Email,
		Role:  id.Role,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl(kind))),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// IssuePair issues one access and one refresh token for the same identity.
func (c *Codec) IssuePair(id domain.Identity) (*domain.TokenPair, error) {
	access, err := c.Issue(id, KindAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := c.Issue(id, KindRefresh)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    domain.TokenTypeBearer,
	}, nil
}

// Validate verifies signature and expiry and checks the embedded kind
// against expected. Failures map to the distinct domain token errors so
// the guard and handlers can react per cause.
func (c *Codec) Validate(token string, expected TokenKind) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return c.secret, nil
		},
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenSignature
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenMalformed
	}
	if claims.Kind != expected {
		return nil, domain.ErrTokenWrongKind
	}
	return claims, nil
}

// Identity rebuilds the caller identity carried by the claims.
func (cl *Claims) Identity() domain.Identity {
	return domain.Identity{
		UserID: cl.Subject,
		Email:  cl.Email,
		Role:   cl.Role,
	}
}
