package notifier

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/mahligai/cargo_backoffice/internal/core/ports/repositories"
)

// notifyChannel is the Postgres NOTIFY channel the source-table triggers
// publish on. The payload is the mutated table's name.
const notifyChannel = "record_changes"

// PgChangeNotifier delivers table-mutation signals over Postgres
// LISTEN/NOTIFY. Delivery is at-least-once and best-effort; subscribers treat
// a signal purely as a trigger to re-pull.
type PgChangeNotifier struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	watched map[string]struct{}
}

var _ portsrepo.ChangeNotifier = (*PgChangeNotifier)(nil)

// NewPgChangeNotifier creates a notifier that forwards signals for the given
// tables only.
func NewPgChangeNotifier(pool *pgxpool.Pool, logger *slog.Logger, tables []string) *PgChangeNotifier {
	watched := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		watched[t] = struct{}{}
	}
	return &PgChangeNotifier{pool: pool, logger: logger, watched: watched}
}

// Subscribe implements portsrepo.ChangeNotifier. It holds one dedicated
// connection in LISTEN mode for the lifetime of ctx.
func (n *PgChangeNotifier) Subscribe(ctx context.Context) (<-chan portsrepo.Change, error) {
	conn, err := n.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, err
	}

	out := make(chan portsrepo.Change, 16)
	go func() {
		defer close(out)
		defer conn.Release()

		for {
			notification, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// The connection died underneath us. Signals are best-effort,
				// so log and stop; callers re-subscribe on restart.
				n.logger.Error("Change notification wait failed", slog.String("error", err.Error()))
				return
			}

			table := notification.Payload
			if _, ok := n.watched[table]; !ok {
				continue
			}

			select {
			case out <- portsrepo.Change{Collection: table}:
			default:
				// Subscriber is behind; dropping is fine since any one signal
				// triggers a full re-pull anyway.
			}
		}
	}()

	return out, nil
}
