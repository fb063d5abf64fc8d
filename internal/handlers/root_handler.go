package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root reports that the service is up.
// @Summary     Service status
// @Tags        system
// @Produce     json
// @Success     200 {object} MessageResponse
// @Router      / [get]
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "Dwight is running"})
}
