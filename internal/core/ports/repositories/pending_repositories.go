package repositories

import (
	"context"

	"github.com/mahligai/cargo_backoffice/internal/core/domain"
)

// PendingSourceRepository is implemented once per source collection. Each
// implementation knows its own table, its own hint columns and, for the
// expense source, the extra filter that keeps receipt-kind records out of the
// pending set.
type PendingSourceRepository interface {
	// SourceType identifies which collection this repository serves.
	SourceType() domain.SourceType

	// FindPending returns every transaction still waiting for approval,
	// ordered by transaction date descending.
	FindPending(ctx context.Context) ([]domain.PendingTransaction, error)

	// FindByID retrieves a single transaction regardless of its approval
	// status. Rows outside the source's approval scope (for example
	// receipt-kind expense records) are treated as absent. Returns
	// apperrors.ErrNotFound when no such transaction exists.
	FindByID(ctx context.Context, id string) (*domain.PendingTransaction, error)
}
