package services

import (
	"context"

	"github.com/mahligai/cargo_backoffice/internal/core/domain"
)

// ApprovalSvcFacade owns the waiting_approval -> {approved, rejected}
// transition and the journal posting it triggers.
type ApprovalSvcFacade interface {
	// Approve transitions the transaction to APPROVED and posts its journal
	// entry when one is required. Returns apperrors.ErrAlreadyProcessed when
	// the transaction is no longer waiting, including on retries of an
	// already-succeeded approval.
	Approve(ctx context.Context, ref domain.TransactionRef, approver string) (*domain.ApprovalOutcome, error)

	// Reject transitions the transaction to REJECTED. The reason must not be
	// empty or whitespace-only (apperrors.ErrValidation otherwise).
	Reject(ctx context.Context, ref domain.TransactionRef, approver string, reason string) (*domain.PendingTransaction, error)

	// Reconcile lists transactions whose terminal state and journal existence
	// disagree with the posting invariant.
	Reconcile(ctx context.Context) ([]domain.ReconciliationIssue, error)

	// GetJournal retrieves the journal entry posted for a transaction.
	// Returns apperrors.ErrNotFound when no entry was posted.
	GetJournal(ctx context.Context, ref domain.TransactionRef) (*domain.JournalEntry, error)

	// GetJournalByRef retrieves a journal entry by its unique reference.
	GetJournalByRef(ctx context.Context, journalRef string) (*domain.JournalEntry, error)
}
