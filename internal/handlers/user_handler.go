package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dwight/internal/schemas"
	"dwight/internal/services"
)

// UserHandler serves the authenticated user's own profile.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// GetMe returns the user's profile
// @Summary     Get current user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} schemas.UserRead
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := getUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, schemas.NewUserRead(user))
}

// UpdateMe changes the user's profile
// @Summary     Update current user
// @Description Only the fields present in the body change. full_name may be null.
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body     schemas.UserUpdate true "Fields to change"
// @Success     200     {object} schemas.UserRead
// @Failure     400     {object} ErrorResponse "Email already registered"
// @Failure     401     {object} ErrorResponse "Unauthorized"
// @Failure     422     {object} ErrorResponse "Validation error"
// @Router      /users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, err := getUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req schemas.UserUpdate
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	updated, err := h.userService.UpdateUser(c.Request.Context(), user, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changed := map[string]interface{}{}
	for field, present := range map[string]bool{
		"email":     req.Email.Set,
		"password":  req.Password.Set,
		"full_name": req.FullName.Set,
	} {
		if present {
			changed[field] = true
		}
	}
	h.auditService.Log(user.ID, services.AuditUpdateUser, services.AuditResourceUser, user.ID, c.ClientIP(), changed)

	c.JSON(http.StatusOK, schemas.NewUserRead(updated))
}
