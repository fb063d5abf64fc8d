package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "dwight/internal/errors"
	"dwight/internal/middleware"
	"dwight/internal/models"
	"dwight/internal/validator"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string                 `json:"code" example:"VALIDATION_ERROR"`
	Message string                 `json:"message" example:"Request validation failed"`
	Details []apperrors.FieldError `json:"details,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse carries a plain status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// getUser returns the authenticated user loaded by the auth middleware.
func getUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(middleware.UserKey)
	if !exists {
		return nil, apperrors.ErrUnauthorized
	}
	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// parsePathID parses a positive integer path parameter.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.WithDetails(apperrors.ErrValidation, []apperrors.FieldError{
			{Field: param, Message: "must be a positive integer"},
		})
	}
	return uint(id), nil
}

// bindJSON decodes and validates the request body into dst.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return validator.FromBindError(err)
	}
	return nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	middleware.RespondWithError(c, err)
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
