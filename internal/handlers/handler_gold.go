package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/exchange_service/internal/apperrors"
	"github.com/SscSPs/exchange_service/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_service/internal/core/ports/services"
	"github.com/SscSPs/exchange_service/internal/dto"
	"github.com/SscSPs/exchange_service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// goldHandler serves the gold price board.
type goldHandler struct {
	goldService     portssvc.GoldPriceSvc
	defaultCurrency domain.Fiat
}

// RegisterGoldRoutes registers routes related to gold prices. Requests without
// a currency are priced in defaultCurrency.
func RegisterGoldRoutes(rg *gin.RouterGroup, goldService portssvc.GoldPriceSvc, defaultCurrency string) {
	h := &goldHandler{goldService: goldService, defaultCurrency: domain.NewFiat(defaultCurrency)}

	gold := rg.Group("/gold")
	{
		gold.GET("/prices", h.getGoldPrices)
	}
}

// getGoldPrices godoc
// @Summary Get the gold price board
// @Description Returns the per-gram gold price with the buy and sell spread applied
// @Tags gold
// @Produce  json
// @Param   currency query string false "Fiat currency code (defaults to the base currency)"
// @Success 200 {object} dto.GoldPricesResponse
// @Failure 400 {object} map[string]string "Invalid currency"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Gold price unavailable"
// @Security BearerAuth
// @Router /gold/prices [get]
func (h *goldHandler) getGoldPrices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.GoldPricesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.Warn("Invalid query for GetGoldPrices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	currency := h.defaultCurrency
	if q.Currency != "" {
		currency = domain.NewFiat(q.Currency)
	}
	logger = logger.With(slog.String("currency", currency.Code()))

	board, err := h.goldService.GoldPrices(c.Request.Context(), currency)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error getting gold prices", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrRateUnavailable):
			logger.Warn("Gold price unavailable", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Gold price is currently unavailable"})
		default:
			logger.Error("Failed to get gold prices", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get gold prices"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToGoldPricesResponse(board))
}
