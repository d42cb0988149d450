package repositories

import "context"

// Change is a best-effort, at-least-once "something changed" signal for one
// watched collection. It carries no data; subscribers re-pull from the store.
type Change struct {
	Collection string
}

// ChangeNotifier is the persistence layer's push-notification facility. The
// aggregator subscribes to learn when to re-aggregate; signals are a trigger,
// never a source of truth.
type ChangeNotifier interface {
	// Subscribe returns a channel of change signals for the watched source
	// collections. The channel is closed when ctx is done.
	Subscribe(ctx context.Context) (<-chan Change, error)
}
