package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mahligai/cargo_backoffice/internal/apperrors"
	portssvc "github.com/mahligai/cargo_backoffice/internal/core/ports/services"
	"github.com/mahligai/cargo_backoffice/internal/dto"
	"github.com/mahligai/cargo_backoffice/internal/middleware"
)

// pendingHandler handles HTTP requests for the aggregated pending list.
type pendingHandler struct {
	pendingService portssvc.PendingSvcFacade
}

func newPendingHandler(ps portssvc.PendingSvcFacade) *pendingHandler {
	return &pendingHandler{
		pendingService: ps,
	}
}

// registerPendingRoutes registers routes related to pending transactions.
func registerPendingRoutes(rg *gin.RouterGroup, pendingService portssvc.PendingSvcFacade) {
	h := newPendingHandler(pendingService)

	approvals := rg.Group("/approvals")
	{
		approvals.GET("/pending", h.listPending)
	}
}

// listPending godoc
// @Summary List pending transactions
// @Description Aggregates transactions in WAITING_APPROVAL across all source collections
// @Tags approvals
// @Produce  json
// @Success 200 {object} dto.ListPendingResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "A source collection could not be read"
// @Security BearerAuth
// @Router /approvals/pending [get]
func (h *pendingHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to list pending transactions")

	txns, err := h.pendingService.ListPending(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrSourceUnavailable) {
			logger.Error("A source collection is unavailable", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list pending transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pending transactions"})
		}
		return
	}

	logger.Info("Pending transactions listed successfully", slog.Int("count", len(txns)))
	c.JSON(http.StatusOK, dto.ToListPendingResponse(txns))
}
