package handler

import "github.com/retailhub/user-service/internal/core/domain"

type registerRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Username  string `json:"username"   validate:"required,min=3,max=32"`
	Password  string `json:"password"   validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Phone     string `json:"phone"      validate:"omitempty,e164"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// updateProfileRequest is the explicit allow-list of updatable fields.
// Unknown keys are rejected at bind time; immutable fields (id, email,
// role, password_hash, created_at) are simply not part of the schema.
type updateProfileRequest struct {
	FirstName *string         `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string         `json:"last_name"  validate:"omitempty,min=1"`
	Phone     *string         `json:"phone"      validate:"omitempty,e164"`
	Address   *addressRequest `json:"address"`
}

type addressRequest struct {
	Street  string `json:"street"   validate:"required"`
	City    string `json:"city"     validate:"required"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code" validate:"required"`
	Country string `json:"country"  validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

func (r updateProfileRequest) toPatch() domain.ProfilePatch {
	patch := domain.ProfilePatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
	}
	if r.Address != nil {
		patch.Address = &domain.Address{
			Street:  r.Address.Street,
			City:    r.Address.City,
			State:   r.Address.State,
			ZipCode: r.Address.ZipCode,
			Country: r.Address.Country,
		}
	}
	return patch
}

type messageResponse struct {
	Message string `json:"message"`
}
