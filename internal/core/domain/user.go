package domain

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User models an account in the retail platform. PasswordHash never
// crosses the service boundary: it is excluded from JSON and only the
// auth core reads or writes it.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	Phone        string    `json:"phone,omitempty"`
	Address      *Address  `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Address is the optional postal address attached to a profile.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// ProfilePatch is the allow-listed set of updatable profile fields.
// Identity, credential, and role fields are deliberately absent so they
// cannot be changed through a profile update. Nil means "leave unchanged".
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *Address
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.Address == nil
}

// TokenPair is the credential pair returned by login and refresh. Tokens
// are never stored server-side; validation is stateless.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// TokenTypeBearer is the only token_type this service issues.
const TokenTypeBearer = "bearer"

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}
