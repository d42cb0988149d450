package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/mahligai/cargo_backoffice/internal/core/ports/repositories"
)

// Repositories bundles every repository the engine needs, built over one
// shared connection pool.
type Repositories struct {
	Sources  []*SourceRepository
	Journal  *JournalRepository
	Approval *ApprovalRepository
}

// NewRepositories wires up the per-source repositories, the journal reader
// and the approval writer.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	sources := []*SourceRepository{
		NewPurchaseRepository(pool),
		NewExpenseRepository(pool),
		NewCashDisbursementRepository(pool),
		NewIncomeRepository(pool),
		NewGenericApprovalRepository(pool),
	}
	journal := NewJournalRepository(pool)
	return &Repositories{
		Sources:  sources,
		Journal:  journal,
		Approval: NewApprovalRepository(pool, journal, sources),
	}
}

// SourcePorts returns the source repositories as their port interface, in
// aggregation order.
func (r *Repositories) SourcePorts() []portsrepo.PendingSourceRepository {
	ports := make([]portsrepo.PendingSourceRepository, len(r.Sources))
	for i, src := range r.Sources {
		ports[i] = src
	}
	return ports
}

// WatchedTables lists the tables the change notifier subscribes to. The
// journal store is write-only from this engine's perspective and is not
// watched.
func (r *Repositories) WatchedTables() []string {
	tables := make([]string, len(r.Sources))
	for i, src := range r.Sources {
		tables[i] = src.schema.table
	}
	return tables
}
