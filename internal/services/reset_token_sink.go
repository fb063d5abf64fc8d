package services

import (
	"context"

	"dwight/internal/logger"
	"dwight/internal/models"
)

// LoggingResetTokenSink writes reset tokens to the application log. It stands
// in for a mailer in development.
type LoggingResetTokenSink struct{}

// DeliverResetToken implements ResetTokenSink.
func (LoggingResetTokenSink) DeliverResetToken(_ context.Context, user *models.User, token string) error {
	logger.Get().Infow("password reset requested",
		"user_id", user.ID,
		"email", user.Email,
		"token", token,
	)
	return nil
}
