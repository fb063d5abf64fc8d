package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dwight/internal/auth"
	apperrors "dwight/internal/errors"
	"dwight/internal/logger"
	"dwight/internal/models"
	"dwight/internal/schemas"
	"dwight/internal/validator"
)

// userService handles user-related business logic.
type userService struct {
	db     *gorm.DB
	tokens *auth.TokenManager
	resets ResetTokenSink
}

// NewUserService creates a new UserServicer. Reset tokens are handed to
// resets; a nil sink logs them.
func NewUserService(db *gorm.DB, tokens *auth.TokenManager, resets ResetTokenSink) UserServicer {
	if resets == nil {
		resets = LoggingResetTokenSink{}
	}
	return &userService{db: db, tokens: tokens, resets: resets}
}

// Register creates an active, unverified account.
func (s *userService) Register(ctx context.Context, in schemas.UserCreate) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	email := schemas.NormalizeEmail(in.Email)

	taken, err := s.emailTaken(ctx, email, "")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if taken {
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:          email,
		HashedPassword: hash,
		FullName:       in.FullName,
		IsActive:       true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// Authenticate checks credentials. Unknown emails, wrong passwords and
// inactive accounts are indistinguishable to the caller.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", schemas.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !user.IsActive || !verifyPassword(&user, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// UpdateUser applies a sparse profile update to user.
func (s *userService) UpdateUser(ctx context.Context, user *models.User, in schemas.UserUpdate) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Email.HasValue() {
		email := schemas.NormalizeEmail(in.Email.Value)
		if email != user.Email {
			taken, err := s.emailTaken(ctx, email, user.ID)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if taken {
				return nil, apperrors.ErrUpdateEmailConflict
			}
			updates["email"] = email
		}
	}
	if in.Password.HasValue() {
		hash, err := hashPassword(in.Password.Value)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["hashed_password"] = hash
	}
	if in.FullName.Set {
		updates["full_name"] = in.FullName.Ptr()
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.ErrUpdateEmailConflict
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetUserByID(ctx, user.ID)
}

// ForgotPassword issues a reset token for an active account. It reports
// success whether or not the email is registered.
func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", schemas.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !user.IsActive {
		return nil
	}

	token, err := s.tokens.IssueResetToken(&user)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.resets.DeliverResetToken(ctx, &user, token); err != nil {
		logger.Get().Errorw("failed to deliver reset token", "error", err, "user_id", user.ID)
	}
	return nil
}

// ResetPassword sets a new password using a reset token. A token stops
// working once the password it was issued against has changed.
func (s *userService) ResetPassword(ctx context.Context, token, password string) (*models.User, error) {
	if err := validator.Struct(&schemas.ResetPasswordRequest{Token: token, Password: password}); err != nil {
		return nil, err
	}

	claims, err := s.tokens.ParseResetToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidResetToken
	}

	user, err := s.GetUserByID(ctx, claims.Subject)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrUserNotFound.Code {
			return nil, apperrors.ErrInvalidResetToken
		}
		return nil, err
	}
	if !user.IsActive || auth.FingerprintPassword(user.HashedPassword) != claims.PasswordFingerprint {
		return nil, apperrors.ErrInvalidResetToken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("hashed_password", hash).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

func (s *userService) emailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) == nil
}
