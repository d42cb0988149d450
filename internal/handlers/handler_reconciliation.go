package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mahligai/cargo_backoffice/internal/core/ports/services"
	"github.com/mahligai/cargo_backoffice/internal/dto"
	"github.com/mahligai/cargo_backoffice/internal/middleware"
)

// reconciliationHandler exposes the status/journal consistency report.
type reconciliationHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

func newReconciliationHandler(as portssvc.ApprovalSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{
		approvalService: as,
	}
}

// registerReconciliationRoutes registers the reconciliation report route.
func registerReconciliationRoutes(rg *gin.RouterGroup, approvalService portssvc.ApprovalSvcFacade) {
	h := newReconciliationHandler(approvalService)

	approvals := rg.Group("/approvals")
	{
		approvals.GET("/reconciliation", h.reconcile)
	}
}

// reconcile godoc
// @Summary Run a reconciliation check
// @Description Reports every disagreement between approval statuses and journal entries
// @Tags approvals
// @Produce  json
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to run reconciliation"
// @Security BearerAuth
// @Router /approvals/reconciliation [get]
func (h *reconciliationHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to run reconciliation")

	issues, err := h.approvalService.Reconcile(c.Request.Context())
	if err != nil {
		logger.Error("Failed to run reconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run reconciliation"})
		return
	}

	logger.Info("Reconciliation completed", slog.Int("issue_count", len(issues)))
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(issues))
}
