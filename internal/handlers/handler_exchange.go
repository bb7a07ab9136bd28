package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/exchange_service/internal/core/ports/services"
	"github.com/SscSPs/exchange_service/internal/dto"
	"github.com/SscSPs/exchange_service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeHandler handles HTTP requests related to exchanges.
type exchangeHandler struct {
	exchangeService portssvc.ExchangeSvc
}

func newExchangeHandler(es portssvc.ExchangeSvc) *exchangeHandler {
	return &exchangeHandler{exchangeService: es}
}

// RegisterExchangeRoutes registers routes related to exchanges.
func RegisterExchangeRoutes(rg *gin.RouterGroup, exchangeService portssvc.ExchangeSvc) {
	h := newExchangeHandler(exchangeService)

	rg.POST("/exchange", h.processExchange)
}

// processExchange godoc
// @Summary Exchange between two currencies
// @Description Converts an amount between fiat currencies or between fiat and gold for the authenticated user.
// @Description A business failure (no rate, insufficient balance, timeout) is returned as status FAILED with HTTP 200.
// @Tags exchange
// @Accept  json
// @Produce  json
// @Param   exchange body dto.ExchangeRequest true "Exchange details"
// @Success 200 {object} dto.ExchangeResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /exchange [post]
func (h *exchangeHandler) processExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProcessExchange", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	identity, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	exchangeReq, err := req.ToDomain(identity)
	if err != nil {
		logger.Warn("Invalid currency in exchange request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !exchangeReq.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	logger.Info("Received exchange request",
		slog.String("from", exchangeReq.From.Code()),
		slog.String("to", exchangeReq.To.Code()),
		slog.String("amount", exchangeReq.Amount.String()),
		slog.String("transaction_type", req.TransactionType))

	result := h.exchangeService.ProcessExchange(c.Request.Context(), identity, exchangeReq)
	c.JSON(http.StatusOK, dto.ToExchangeResponse(result))
}
