package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/retailhub/user-service/internal/core/domain"
)

const defaultMaxConcurrentHashes = 16

// Hasher performs one-way password hashing with bcrypt. Cost is the
// tunable work factor; a semaphore caps concurrent hashing so a burst of
// registrations cannot saturate every CPU at once.
type Hasher struct {
	cost int
	sem  chan struct{}
}

// NewHasher creates a Hasher with the given bcrypt cost. Costs outside
// bcrypt's valid range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{
		cost: cost,
		sem:  make(chan struct{}, defaultMaxConcurrentHashes),
	}
}

// Hash returns the bcrypt hash of password. The salt is generated per
// call and embedded in the output, so hashing the same password twice
// yields different strings. Policy checks (length, strength) are the
// orchestrator's job; Hash accepts any input.
func (h *Hasher) Hash(password string) (string, error) {
	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHashing, err)
	}
	return string(out), nil
}

// Verify reports whether password matches the stored hash. A wrong
// password is an ordinary false, never an error; a structurally invalid
// hash also verifies false.
func (h *Hasher) Verify(password, hash string) bool {
	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
