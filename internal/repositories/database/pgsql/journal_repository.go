package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mahligai/cargo_backoffice/internal/apperrors"
	"github.com/mahligai/cargo_backoffice/internal/core/domain"
	portsrepo "github.com/mahligai/cargo_backoffice/internal/core/ports/repositories"
	"github.com/mahligai/cargo_backoffice/internal/models"
	"github.com/mahligai/cargo_backoffice/internal/utils/mapping"
)

const journalSelectColumns = `journal_ref, source_type, source_id, debit_account, credit_account,
	debit_amount, credit_amount, description, journal_date, category, classification,
	created_at, created_by`

// JournalRepository reads posted journal entries. Writes happen only through
// the approval repository, inside the approval's database transaction; the
// journal store is append-only from this engine's perspective.
type JournalRepository struct {
	BaseRepository
}

var _ portsrepo.JournalReader = (*JournalRepository)(nil)

// NewJournalRepository creates a new repository over the journal_entries table.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// FindJournalByRef implements portsrepo.JournalReader.
func (r *JournalRepository) FindJournalByRef(ctx context.Context, journalRef string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalSelectColumns + ` FROM journal_entries WHERE journal_ref = $1;`
	return r.queryOne(ctx, query, journalRef)
}

// FindJournalBySource implements portsrepo.JournalReader.
func (r *JournalRepository) FindJournalBySource(ctx context.Context, ref domain.TransactionRef) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalSelectColumns + ` FROM journal_entries WHERE source_type = $1 AND source_id = $2;`
	return r.queryOne(ctx, query, string(ref.SourceType), ref.ID)
}

func (r *JournalRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.JournalEntry, error) {
	var m models.JournalEntry
	err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&m.JournalRef,
		&m.SourceType,
		&m.SourceID,
		&m.DebitAccount,
		&m.CreditAccount,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.Description,
		&m.JournalDate,
		&m.Category,
		&m.Classification,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry", err)
	}

	d := mapping.ToDomainJournalEntry(m)
	return &d, nil
}

// insertInTx appends one journal entry inside the given database transaction.
// The primary key on journal_ref and the unique index on (source_type,
// source_id) both back the uniqueness contract.
func (r *JournalRepository) insertInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		INSERT INTO journal_entries (
			journal_ref, source_type, source_id, debit_account, credit_account,
			debit_amount, credit_amount, description, journal_date, category, classification,
			created_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.JournalRef,
		m.SourceType,
		m.SourceID,
		m.DebitAccount,
		m.CreditAccount,
		m.DebitAmount,
		m.CreditAmount,
		m.Description,
		m.JournalDate,
		m.Category,
		m.Classification,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entry "+m.JournalRef, err)
	}
	return nil
}
