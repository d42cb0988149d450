package repositories

import (
	"context"
	"time"

	"github.com/mahligai/cargo_backoffice/internal/core/domain"
)

// ApprovalWriter performs the terminal status writes. Both operations are
// conditional on the row still being WAITING_APPROVAL at write time; when the
// condition fails they return apperrors.ErrAlreadyProcessed and write nothing.
type ApprovalWriter interface {
	// FinalizeApproval flips the transaction to APPROVED and, when journal is
	// non-nil, durably creates the journal entry in the same database
	// transaction. Either both writes happen or neither does.
	FinalizeApproval(ctx context.Context, ref domain.TransactionRef, approver string, approvedAt time.Time, journal *domain.JournalEntry) error

	// FinalizeRejection flips the transaction to REJECTED with the given
	// reason. No journal side effect.
	FinalizeRejection(ctx context.Context, ref domain.TransactionRef, approver string, rejectedAt time.Time, reason string) error
}

// JournalReader defines read operations over posted journal entries.
type JournalReader interface {
	// FindJournalByRef retrieves a journal entry by its unique reference.
	FindJournalByRef(ctx context.Context, journalRef string) (*domain.JournalEntry, error)

	// FindJournalBySource retrieves the journal entry posted for a given
	// transaction, if any.
	FindJournalBySource(ctx context.Context, ref domain.TransactionRef) (*domain.JournalEntry, error)
}

// ReconciliationReader detects disagreements between terminal approval states
// and journal existence/amounts.
type ReconciliationReader interface {
	FindInconsistencies(ctx context.Context) ([]domain.ReconciliationIssue, error)
}

// ApprovalRepositoryFacade combines everything the approval state machine
// needs from the store.
type ApprovalRepositoryFacade interface {
	ApprovalWriter
	JournalReader
	ReconciliationReader
}
