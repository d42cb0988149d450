package services

import (
	"context"

	"github.com/mahligai/cargo_backoffice/internal/core/domain"
)

// PendingSvcFacade aggregates the pending transactions of every source
// collection into one normalized, per-source ordered set.
type PendingSvcFacade interface {
	// ListPending re-executes the aggregation and returns the merged set.
	// Results are never cached across calls. A failure on any source aborts
	// the whole aggregation with apperrors.ErrSourceUnavailable.
	ListPending(ctx context.Context) ([]domain.PendingTransaction, error)

	// Watch subscribes to the store's change notifications and emits a fresh
	// aggregation for each signal. The returned channel closes when ctx is
	// done.
	Watch(ctx context.Context) (<-chan []domain.PendingTransaction, error)
}
