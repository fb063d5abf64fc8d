package schemas

import (
	"sort"
	"strings"
	"time"

	apperrors "dwight/internal/errors"
	"dwight/internal/models"
	"dwight/internal/validator"
)

// UserCreate is the registration payload.
type UserCreate struct {
	Email    string  `json:"email" binding:"required,email,max=320" example:"user@example.com"`
	Password string  `json:"password" binding:"required,min=8,max=128" example:"s3cret-pass"`
	FullName *string `json:"full_name" binding:"omitempty,max=100" example:"Jane Doe"`
}

// Validate checks field constraints.
func (u *UserCreate) Validate() error {
	return validator.Struct(u)
}

// UserUpdate is the PATCH /users/me payload.
type UserUpdate struct {
	Email    Optional[string] `json:"email" binding:"omitempty,email,max=320" swaggertype:"string"`
	Password Optional[string] `json:"password" binding:"omitempty,min=8,max=128" swaggertype:"string"`
	FullName Optional[string] `json:"full_name" binding:"omitempty,max=100" swaggertype:"string"`
}

// Validate checks field constraints. Only full_name may be null.
func (u *UserUpdate) Validate() error {
	var details []apperrors.FieldError
	if u.Email.Null {
		details = append(details, apperrors.FieldError{Field: "email", Message: "may not be null"})
	}
	if u.Password.Null {
		details = append(details, apperrors.FieldError{Field: "password", Message: "may not be null"})
	}
	if len(details) > 0 {
		return apperrors.WithDetails(apperrors.ErrValidation, details)
	}
	return validator.Struct(u)
}

// LoginRequest carries OAuth2 password-grant credentials. The username is
// the account email.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// TokenResponse is returned by the login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// UserRead is the public view of an account.
type UserRead struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    *string   `json:"full_name"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserRead converts a stored user.
func NewUserRead(u *models.User) UserRead {
	return UserRead{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt,
	}
}

// NormalizeEmail lower-cases and trims an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sortFieldErrors(details []apperrors.FieldError) {
	sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })
}
