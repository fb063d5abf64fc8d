package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dwight/internal/models"
	"dwight/internal/pagination"
	"dwight/internal/schemas"
	"dwight/internal/services"
	"dwight/internal/validator"
)

// HoldingHandler handles holding-related requests.
type HoldingHandler struct {
	holdingService services.HoldingServicer
	auditService   services.AuditServicer
}

// NewHoldingHandler creates a new HoldingHandler.
func NewHoldingHandler(holdingService services.HoldingServicer, auditService services.AuditServicer) *HoldingHandler {
	return &HoldingHandler{holdingService: holdingService, auditService: auditService}
}

// ListHoldingsQuery holds the optional listing filters.
type ListHoldingsQuery struct {
	Category string `form:"category" binding:"omitempty,asset_category"`
	pagination.PageRequest
}

// ListHoldings returns the caller's holdings
// @Summary     List holdings
// @Description List the authenticated user's holdings in creation order. The body is always an array; X-Total-Count carries the unpaged total.
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       category  query    string false "Filter by category" Enums(stock, etf, crypto, option, mutual_fund, cash, other)
// @Param       page      query    int    false "Page number (1-based)"
// @Param       page_size query    int    false "Items per page (max 100)"
// @Success     200 {array}  schemas.HoldingRead
// @Header      200 {integer} X-Total-Count "Total number of matching holdings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Invalid query"
// @Router      /holdings/ [get]
func (h *HoldingHandler) ListHoldings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListHoldingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, validator.FromBindError(err))
		return
	}

	filter := services.HoldingFilter{Page: query.PageRequest}
	if query.Category != "" {
		category := models.AssetCategory(query.Category)
		filter.Category = &category
	}

	holdings, total, err := h.holdingService.ListHoldings(c.Request.Context(), userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, schemas.NewHoldingReads(holdings))
}

// GetHolding returns one holding
// @Summary     Get a holding
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     int true "Holding ID"
// @Success     200 {object} schemas.HoldingRead
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Failure     422 {object} ErrorResponse "Invalid ID"
// @Router      /holdings/{id} [get]
func (h *HoldingHandler) GetHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.holdingService.GetHolding(c.Request.Context(), userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, schemas.NewHoldingRead(holding))
}

// CreateHolding records a new holding
// @Summary     Create a holding
// @Description Record a new holding owned by the authenticated user. category defaults to stock and acquired_at to now.
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body     schemas.HoldingCreate true "Holding details"
// @Success     201     {object} schemas.HoldingRead
// @Failure     401     {object} ErrorResponse "Unauthorized"
// @Failure     422     {object} ErrorResponse "Validation error"
// @Router      /holdings/ [post]
func (h *HoldingHandler) CreateHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req schemas.HoldingCreate
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.holdingService.CreateHolding(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreateHolding, services.AuditResourceHolding, formatID(holding.ID), c.ClientIP(),
		map[string]interface{}{"symbol": holding.Symbol, "quantity": holding.Quantity, "unit_cost": holding.UnitCost})

	c.JSON(http.StatusCreated, schemas.NewHoldingRead(holding))
}

// UpdateHolding applies a partial update
// @Summary     Update a holding
// @Description Only the fields present in the body change. display_name and notes may be set to null to clear them.
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path     int                   true "Holding ID"
// @Param       request body     schemas.HoldingUpdate true "Fields to change"
// @Success     200     {object} schemas.HoldingRead
// @Failure     401     {object} ErrorResponse "Unauthorized"
// @Failure     404     {object} ErrorResponse "Holding not found or not authorized"
// @Failure     422     {object} ErrorResponse "Validation error"
// @Router      /holdings/{id} [put]
func (h *HoldingHandler) UpdateHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req schemas.HoldingUpdate
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.holdingService.UpdateHolding(c.Request.Context(), userID, id, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdateHolding, services.AuditResourceHolding, formatID(id), c.ClientIP(), req.Changes())

	c.JSON(http.StatusOK, schemas.NewHoldingRead(holding))
}

// DeleteHolding removes a holding
// @Summary     Delete a holding
// @Tags        holdings
// @Security    BearerAuth
// @Param       id  path int true "Holding ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found or not authorized"
// @Failure     422 {object} ErrorResponse "Invalid ID"
// @Router      /holdings/{id} [delete]
func (h *HoldingHandler) DeleteHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.holdingService.DeleteHolding(c.Request.Context(), userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteHolding, services.AuditResourceHolding, formatID(id), c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
