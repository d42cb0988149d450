package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mahligai/cargo_backoffice/internal/apperrors"
	"github.com/mahligai/cargo_backoffice/internal/core/domain"
	portssvc "github.com/mahligai/cargo_backoffice/internal/core/ports/services"
	"github.com/mahligai/cargo_backoffice/internal/dto"
	"github.com/mahligai/cargo_backoffice/internal/middleware"
)

// approvalHandler handles approve and reject requests.
type approvalHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

func newApprovalHandler(as portssvc.ApprovalSvcFacade) *approvalHandler {
	return &approvalHandler{
		approvalService: as,
	}
}

// registerApprovalRoutes registers the terminal-decision routes.
func registerApprovalRoutes(rg *gin.RouterGroup, approvalService portssvc.ApprovalSvcFacade) {
	h := newApprovalHandler(approvalService)

	approvals := rg.Group("/approvals")
	{
		approvals.POST("/:sourceType/:id/approve", h.approve)
		approvals.POST("/:sourceType/:id/reject", h.reject)
		approvals.GET("/:sourceType/:id/journal", h.getJournal)
	}

	journals := rg.Group("/journals")
	{
		journals.GET("/:journalRef", h.getJournalByRef)
	}
}

// parseRef extracts and validates the composite transaction reference from the
// request path. Responds with 400 and returns false on a bad source type.
func parseRef(c *gin.Context, logger *slog.Logger) (domain.TransactionRef, bool) {
	sourceType, err := domain.ParseSourceType(c.Param("sourceType"))
	if err != nil {
		logger.Warn("Invalid source type in path", slog.String("source_type", c.Param("sourceType")))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.TransactionRef{}, false
	}
	return domain.TransactionRef{SourceType: sourceType, ID: c.Param("id")}, true
}

// approve godoc
// @Summary Approve a pending transaction
// @Description Flips the transaction to APPROVED and posts its journal entry atomically
// @Tags approvals
// @Produce  json
// @Param   sourceType path string true "Source collection" Enums(purchase, expense, cash_disbursement, income, generic_approval)
// @Param   id path string true "Transaction ID within the source collection"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 400 {object} map[string]string "Unknown source type or invalid transaction"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction already processed"
// @Failure 502 {object} map[string]string "Source collection unavailable"
// @Security BearerAuth
// @Router /approvals/{sourceType}/{id}/approve [post]
func (h *approvalHandler) approve(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ref, ok := parseRef(c, logger)
	if !ok {
		return
	}

	approverID, ok := middleware.GetApproverIDFromContext(c)
	if !ok {
		logger.Error("Approver ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_ref", ref.String()), slog.String("approver_id", approverID))
	logger.Info("Received request to approve transaction")

	outcome, err := h.approvalService.Approve(c.Request.Context(), ref, approverID)
	if err != nil {
		h.respondApprovalError(c, logger, err, "approve")
		return
	}

	if outcome.Warning != "" {
		logger.Warn("Transaction approved with warning", slog.String("warning", outcome.Warning))
	} else {
		logger.Info("Transaction approved successfully", slog.String("journal_ref", outcome.Transaction.JournalRef))
	}
	c.JSON(http.StatusOK, dto.ToApprovalResponse(outcome))
}

// reject godoc
// @Summary Reject a pending transaction
// @Description Flips the transaction to REJECTED with a mandatory reason; no journal entry is posted
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   sourceType path string true "Source collection" Enums(purchase, expense, cash_disbursement, income, generic_approval)
// @Param   id path string true "Transaction ID within the source collection"
// @Param   rejection body dto.RejectRequest true "Rejection reason"
// @Success 200 {object} dto.PendingTransactionResponse
// @Failure 400 {object} map[string]string "Missing reason or unknown source type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction already processed"
// @Failure 502 {object} map[string]string "Source collection unavailable"
// @Security BearerAuth
// @Router /approvals/{sourceType}/{id}/reject [post]
func (h *approvalHandler) reject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ref, ok := parseRef(c, logger)
	if !ok {
		return
	}

	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for reject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	approverID, ok := middleware.GetApproverIDFromContext(c)
	if !ok {
		logger.Error("Approver ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_ref", ref.String()), slog.String("approver_id", approverID))
	logger.Info("Received request to reject transaction")

	txn, err := h.approvalService.Reject(c.Request.Context(), ref, approverID, req.Reason)
	if err != nil {
		h.respondApprovalError(c, logger, err, "reject")
		return
	}

	logger.Info("Transaction rejected successfully")
	c.JSON(http.StatusOK, dto.ToPendingTransactionResponse(txn))
}

// getJournal godoc
// @Summary Get the journal entry posted for a transaction
// @Description Retrieves the journal entry created when the transaction was approved (or at capture for generic approvals)
// @Tags approvals
// @Produce  json
// @Param   sourceType path string true "Source collection" Enums(purchase, expense, cash_disbursement, income, generic_approval)
// @Param   id path string true "Transaction ID within the source collection"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Unknown source type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No journal entry for this transaction"
// @Security BearerAuth
// @Router /approvals/{sourceType}/{id}/journal [get]
func (h *approvalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ref, ok := parseRef(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("transaction_ref", ref.String()))
	logger.Info("Received request to get journal for transaction")

	entry, err := h.approvalService.GetJournal(c.Request.Context(), ref)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("No journal entry for transaction")
			c.JSON(http.StatusNotFound, gin.H{"error": "No journal entry for this transaction"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to get journal entry", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// getJournalByRef godoc
// @Summary Get a journal entry by reference
// @Description Retrieves a journal entry by its unique journal reference
// @Tags journals
// @Produce  json
// @Param   journalRef path string true "Journal reference"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Security BearerAuth
// @Router /journals/{journalRef} [get]
func (h *approvalHandler) getJournalByRef(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalRef := c.Param("journalRef")

	logger = logger.With(slog.String("journal_ref", journalRef))
	logger.Info("Received request to get journal entry")

	entry, err := h.approvalService.GetJournalByRef(c.Request.Context(), journalRef)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Journal entry not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to get journal entry", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// respondApprovalError maps service errors for both terminal decisions onto
// HTTP statuses.
func (h *approvalHandler) respondApprovalError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Transaction not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
	case errors.Is(err, apperrors.ErrAlreadyProcessed):
		logger.Warn("Transaction already processed")
		c.JSON(http.StatusConflict, gin.H{"error": "Transaction already processed"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrSourceUnavailable):
		logger.Error("Source collection unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action+" transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " transaction"})
	}
}
