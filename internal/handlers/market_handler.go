package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "dwight/internal/errors"
	"dwight/internal/market"
	"dwight/internal/validator"
)

// MarketHandler serves price lookups.
type MarketHandler struct {
	prices market.PriceProvider
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(prices market.PriceProvider) *MarketHandler {
	return &MarketHandler{prices: prices}
}

type quoteURI struct {
	Symbol string `uri:"symbol" binding:"required,max=20"`
}

// GetQuote returns the last price for a symbol
// @Summary     Get a quote
// @Description Last daily close from the market data provider, rounded to two decimals.
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path     string true "Ticker symbol" example(AAPL)
// @Success     200    {object} market.Quote
// @Failure     401    {object} ErrorResponse "Unauthorized"
// @Failure     404    {object} ErrorResponse "No price data"
// @Failure     502    {object} ErrorResponse "Provider unavailable"
// @Router      /market/quotes/{symbol} [get]
func (h *MarketHandler) GetQuote(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var uri quoteURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondWithError(c, validator.FromBindError(err))
		return
	}

	quote, err := h.prices.LastPrice(c.Request.Context(), uri.Symbol)
	if err != nil {
		if errors.Is(err, market.ErrNoPriceData) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrNoPriceData, "No price data for "+uri.Symbol))
			return
		}
		respondWithError(c, apperrors.Wrap(apperrors.ErrMarketUnavailable, err))
		return
	}

	c.JSON(http.StatusOK, quote)
}
