package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dwight/internal/auth"
	apperrors "dwight/internal/errors"
	"dwight/internal/schemas"
	"dwight/internal/services"
	"dwight/internal/validator"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService  services.UserServicer
	tokens       *auth.TokenManager
	auditService services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, tokens *auth.TokenManager, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{userService: userService, tokens: tokens, auditService: auditService}
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body     schemas.UserCreate true "User registration data"
// @Success     201     {object} schemas.UserRead
// @Failure     400     {object} ErrorResponse "Email already registered"
// @Failure     422     {object} ErrorResponse "Validation error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req schemas.UserCreate
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, services.AuditRegister, services.AuditResourceUser, user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, schemas.NewUserRead(user))
}

// Login handles user login
// @Summary     Login user
// @Description OAuth2 password grant. The username is the account email. JSON bodies are accepted too.
// @Tags        auth
// @Accept      x-www-form-urlencoded
// @Accept      json
// @Produce     json
// @Param       username formData string true "Email"
// @Param       password formData string true "Password"
// @Success     200 {object} schemas.TokenResponse
// @Failure     400 {object} ErrorResponse "Bad credentials or inactive user"
// @Failure     422 {object} ErrorResponse "Missing fields"
// @Router      /auth/jwt/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req schemas.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithError(c, validator.FromBindError(err))
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := h.tokens.IssueAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(user.ID, services.AuditLogin, services.AuditResourceUser, user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, schemas.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Logout ends the session. Tokens are stateless, so this only checks that
// the caller is authenticated.
// @Summary     Logout user
// @Tags        auth
// @Security    BearerAuth
// @Success     204 "Logged out"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/jwt/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ForgotPassword starts a password reset
// @Summary     Request a password reset
// @Description Always answers 202 so callers cannot probe which emails are registered.
// @Tags        auth
// @Accept      json
// @Param       request body schemas.ForgotPasswordRequest true "Account email"
// @Success     202 "Accepted"
// @Failure     422 {object} ErrorResponse "Validation error"
// @Router      /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req schemas.ForgotPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusAccepted)
}

// ResetPassword completes a password reset
// @Summary     Reset password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body     schemas.ResetPasswordRequest true "Reset token and new password"
// @Success     200     {object} schemas.UserRead
// @Failure     400     {object} ErrorResponse "Invalid or expired token"
// @Failure     422     {object} ErrorResponse "Validation error"
// @Router      /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req schemas.ResetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.ResetPassword(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, services.AuditResetPassword, services.AuditResourceUser, user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, schemas.NewUserRead(user))
}
