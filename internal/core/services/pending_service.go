package services

import (
	"context"
	"log/slog"

	"github.com/mahligai/cargo_backoffice/internal/apperrors"
	"github.com/mahligai/cargo_backoffice/internal/core/domain"
	portsrepo "github.com/mahligai/cargo_backoffice/internal/core/ports/repositories"
	portssvc "github.com/mahligai/cargo_backoffice/internal/core/ports/services"
	"github.com/mahligai/cargo_backoffice/internal/middleware"
)

// pendingService aggregates the waiting transactions of every source
// collection. Read-only; each call re-runs the source queries, and change
// notifications only ever trigger a re-pull.
type pendingService struct {
	sources  []portsrepo.PendingSourceRepository
	notifier portsrepo.ChangeNotifier
}

// NewPendingService creates a new PendingService. Sources are queried in the
// order given; each source's own results stay ordered by transaction date
// descending and no global sort is imposed across sources.
func NewPendingService(sources []portsrepo.PendingSourceRepository, notifier portsrepo.ChangeNotifier) portssvc.PendingSvcFacade {
	return &pendingService{
		sources:  sources,
		notifier: notifier,
	}
}

var _ portssvc.PendingSvcFacade = (*pendingService)(nil)

// ListPending implements portssvc.PendingSvcFacade. Fail-fast: the first
// source failure aborts the aggregation; partial results are never returned.
func (s *pendingService) ListPending(ctx context.Context) ([]domain.PendingTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var merged []domain.PendingTransaction
	for _, src := range s.sources {
		items, err := src.FindPending(ctx)
		if err != nil {
			logger.Error("Pending query failed",
				slog.String("source_type", string(src.SourceType())),
				slog.String("error", err.Error()))
			return nil, apperrors.NewSourceError(string(src.SourceType()), err)
		}
		merged = append(merged, items...)
	}

	logger.Debug("Pending transactions aggregated", slog.Int("count", len(merged)))
	return merged, nil
}

// Watch implements portssvc.PendingSvcFacade. One fresh aggregation is
// emitted immediately, then one per change signal. Signals arrive
// at-least-once and carry no data; an aggregation failure is logged and the
// watch continues with the next signal.
func (s *pendingService) Watch(ctx context.Context) (<-chan []domain.PendingTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	changes, err := s.notifier.Subscribe(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan []domain.PendingTransaction, 1)
	go func() {
		defer close(out)

		emit := func() {
			items, err := s.ListPending(ctx)
			if err != nil {
				logger.Warn("Re-aggregation after change signal failed", slog.String("error", err.Error()))
				return
			}
			select {
			case out <- items:
			case <-ctx.Done():
			}
		}

		emit()
		for {
			select {
			case change, ok := <-changes:
				if !ok {
					return
				}
				logger.Debug("Change signal received", slog.String("collection", change.Collection))
				emit()
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
