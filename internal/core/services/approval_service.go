package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mahligai/cargo_backoffice/internal/apperrors"
	"github.com/mahligai/cargo_backoffice/internal/core/domain"
	portsrepo "github.com/mahligai/cargo_backoffice/internal/core/ports/repositories"
	portssvc "github.com/mahligai/cargo_backoffice/internal/core/ports/services"
	"github.com/mahligai/cargo_backoffice/internal/middleware"
	"github.com/mahligai/cargo_backoffice/internal/utils/accounting"
)

// approvalService owns the waiting_approval -> {approved, rejected}
// transition. The status write and the journal write are one logical unit:
// the repository executes both inside a single database transaction, keyed on
// the row still being WAITING_APPROVAL, so two racing calls on the same
// transaction produce exactly one success and one ErrAlreadyProcessed.
type approvalService struct {
	sources  map[domain.SourceType]portsrepo.PendingSourceRepository
	repo     portsrepo.ApprovalRepositoryFacade
	defaults accounting.Defaults
	poster   JournalPoster
}

// NewApprovalService creates a new ApprovalService over the given source
// repositories and approval store.
func NewApprovalService(repo portsrepo.ApprovalRepositoryFacade, sources []portsrepo.PendingSourceRepository, defaults accounting.Defaults) portssvc.ApprovalSvcFacade {
	bySource := make(map[domain.SourceType]portsrepo.PendingSourceRepository, len(sources))
	for _, src := range sources {
		bySource[src.SourceType()] = src
	}
	return &approvalService{
		sources:  bySource,
		repo:     repo,
		defaults: defaults,
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// Approve implements portssvc.ApprovalSvcFacade.
func (s *approvalService) Approve(ctx context.Context, ref domain.TransactionRef, approver string) (*domain.ApprovalOutcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("source_type", string(ref.SourceType)),
		slog.String("transaction_id", ref.ID),
		slog.String("approver", approver),
	)

	txn, err := s.loadWaiting(ctx, ref)
	if err != nil {
		return nil, err
	}

	resolution, err := accounting.Resolve(*txn, s.defaults)
	warning := ""
	if err != nil {
		if !errors.Is(err, apperrors.ErrResolutionIncomplete) {
			logger.Error("Account resolution failed", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to resolve accounts for %s: %w", ref, err)
		}
		// Approval still proceeds, but without a journal. Reported upward as
		// a warning for manual follow-up, never as a fatal error.
		warning = err.Error()
		logger.Warn("Approving without journal entry", slog.String("warning", warning))
	}

	now := time.Now().UTC()

	var journal *domain.JournalEntry
	if resolution.PostJournal {
		journal, err = s.poster.Post(
			ref,
			resolution.DebitAccount,
			resolution.CreditAccount,
			txn.Amount,
			txn.Description,
			txn.TransactionDate,
			accounting.Categorize(ref.SourceType),
			accounting.Classify(ref.SourceType),
			approver,
			now,
		)
		if err != nil {
			logger.Warn("Journal composition rejected", slog.String("error", err.Error()))
			return nil, err
		}
	}

	// Conditional write: the repository flips status only if the row is still
	// WAITING_APPROVAL, creating the journal in the same DB transaction.
	if err := s.repo.FinalizeApproval(ctx, ref, approver, now, journal); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyProcessed) {
			logger.Info("Lost approval race, transaction already processed")
			return nil, err
		}
		logger.Error("Failed to finalize approval", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to finalize approval of %s: %w", ref, err)
	}

	txn.ApprovalStatus = domain.Approved
	txn.ApprovedBy = approver
	txn.ApprovedAt = &now
	if journal != nil {
		txn.JournalRef = journal.JournalRef
		logger.Info("Transaction approved and journal posted", slog.String("journal_ref", journal.JournalRef))
	} else {
		logger.Info("Transaction approved without journal entry")
	}

	return &domain.ApprovalOutcome{
		Transaction: *txn,
		Journal:     journal,
		Warning:     warning,
	}, nil
}

// Reject implements portssvc.ApprovalSvcFacade.
func (s *approvalService) Reject(ctx context.Context, ref domain.TransactionRef, approver string, reason string) (*domain.PendingTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("source_type", string(ref.SourceType)),
		slog.String("transaction_id", ref.ID),
		slog.String("approver", approver),
	)

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason must not be empty", apperrors.ErrValidation)
	}

	txn, err := s.loadWaiting(ctx, ref)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.FinalizeRejection(ctx, ref, approver, now, reason); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyProcessed) {
			logger.Info("Lost rejection race, transaction already processed")
			return nil, err
		}
		logger.Error("Failed to finalize rejection", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to finalize rejection of %s: %w", ref, err)
	}

	txn.ApprovalStatus = domain.Rejected
	txn.ApprovedBy = approver
	txn.ApprovedAt = &now
	txn.RejectionReason = reason

	logger.Info("Transaction rejected", slog.String("reason", reason))
	return txn, nil
}

// Reconcile implements portssvc.ApprovalSvcFacade.
func (s *approvalService) Reconcile(ctx context.Context) ([]domain.ReconciliationIssue, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	issues, err := s.repo.FindInconsistencies(ctx)
	if err != nil {
		logger.Error("Reconciliation query failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to reconcile journals: %w", err)
	}

	if len(issues) > 0 {
		logger.Warn("Reconciliation found journal/status disagreements", slog.Int("count", len(issues)))
	}
	return issues, nil
}

// GetJournal implements portssvc.ApprovalSvcFacade.
func (s *approvalService) GetJournal(ctx context.Context, ref domain.TransactionRef) (*domain.JournalEntry, error) {
	if _, ok := s.sources[ref.SourceType]; !ok {
		return nil, fmt.Errorf("%w: unknown source type %q", apperrors.ErrValidation, ref.SourceType)
	}
	return s.repo.FindJournalBySource(ctx, ref)
}

// GetJournalByRef implements portssvc.ApprovalSvcFacade.
func (s *approvalService) GetJournalByRef(ctx context.Context, journalRef string) (*domain.JournalEntry, error) {
	if strings.TrimSpace(journalRef) == "" {
		return nil, fmt.Errorf("%w: journal ref must not be empty", apperrors.ErrValidation)
	}
	return s.repo.FindJournalByRef(ctx, journalRef)
}

// loadWaiting fetches the transaction and verifies it is still waiting for
// approval. The definitive check is the conditional write; this pre-check
// just gives clean errors without touching the journal path.
func (s *approvalService) loadWaiting(ctx context.Context, ref domain.TransactionRef) (*domain.PendingTransaction, error) {
	src, ok := s.sources[ref.SourceType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown source type %q", apperrors.ErrValidation, ref.SourceType)
	}

	txn, err := src.FindByID(ctx, ref.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, apperrors.NewSourceError(string(ref.SourceType), err)
	}

	if txn.ApprovalStatus != domain.WaitingApproval {
		return nil, fmt.Errorf("%w: %s is %s", apperrors.ErrAlreadyProcessed, ref, txn.ApprovalStatus)
	}
	return txn, nil
}
