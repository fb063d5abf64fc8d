package services

import (
	"context"

	"dwight/internal/models"
	"dwight/internal/pagination"
	"dwight/internal/schemas"
)

// HoldingFilter holds optional parameters for listing holdings.
type HoldingFilter struct {
	Category *models.AssetCategory
	Page     pagination.PageRequest
}

// HoldingServicer defines the contract for holding-related business logic.
// Every method is scoped to ownerID.
type HoldingServicer interface {
	ListHoldings(ctx context.Context, ownerID string, filter HoldingFilter) ([]models.Holding, int64, error)
	GetHolding(ctx context.Context, ownerID string, id uint) (*models.Holding, error)
	CreateHolding(ctx context.Context, ownerID string, in schemas.HoldingCreate) (*models.Holding, error)
	UpdateHolding(ctx context.Context, ownerID string, id uint, in schemas.HoldingUpdate) (*models.Holding, error)
	DeleteHolding(ctx context.Context, ownerID string, id uint) error
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(ctx context.Context, in schemas.UserCreate) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User, in schemas.UserUpdate) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) (*models.User, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}

// ResetTokenSink receives freshly issued password reset tokens, e.g. to
// email them to the user.
type ResetTokenSink interface {
	DeliverResetToken(ctx context.Context, user *models.User, token string) error
}
