package auth

import (
	"context"
	"errors"

	apperrors "dwight/internal/errors"
	"dwight/internal/models"
)

// CallerResolver turns a bearer token into the calling user. A bad token or
// an unknown or inactive user is ErrUnauthorized; lookup failures pass through.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, bearerToken string) (*models.User, error)
}

// UserLookup loads a user by id.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticator is the JWT-backed CallerResolver.
type Authenticator struct {
	tokens *TokenManager
	users  UserLookup
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(tokens *TokenManager, users UserLookup) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// ResolveCaller implements CallerResolver.
func (a *Authenticator) ResolveCaller(ctx context.Context, bearerToken string) (*models.User, error) {
	userID, err := a.tokens.ParseAccessToken(bearerToken)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
