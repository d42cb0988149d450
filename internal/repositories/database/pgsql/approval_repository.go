package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mahligai/cargo_backoffice/internal/apperrors"
	"github.com/mahligai/cargo_backoffice/internal/core/domain"
	portsrepo "github.com/mahligai/cargo_backoffice/internal/core/ports/repositories"
	"github.com/mahligai/cargo_backoffice/internal/models"
)

// ApprovalRepository performs the terminal status writes across all five
// source tables and, on the approve path, the journal insert in the same
// database transaction. It is the sole writer of approval status fields and
// journal rows.
type ApprovalRepository struct {
	BaseRepository
	journalRepo *JournalRepository
	sources     map[domain.SourceType]*SourceRepository
}

var _ portsrepo.ApprovalRepositoryFacade = (*ApprovalRepository)(nil)

// NewApprovalRepository creates a new repository spanning the source tables
// and the journal store.
func NewApprovalRepository(pool *pgxpool.Pool, journalRepo *JournalRepository, sources []*SourceRepository) *ApprovalRepository {
	bySource := make(map[domain.SourceType]*SourceRepository, len(sources))
	for _, src := range sources {
		bySource[src.SourceType()] = src
	}
	return &ApprovalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		journalRepo:    journalRepo,
		sources:        bySource,
	}
}

// FinalizeApproval implements portsrepo.ApprovalWriter. The journal insert
// and the conditional status flip commit or roll back together, so a
// transaction is never APPROVED without its journal and no journal outlives a
// failed approval.
func (r *ApprovalRepository) FinalizeApproval(ctx context.Context, ref domain.TransactionRef, approver string, approvedAt time.Time, journal *domain.JournalEntry) error {
	src, ok := r.sources[ref.SourceType]
	if !ok {
		return apperrors.NewAppError(400, "no source repository for "+string(ref.SourceType), nil)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var journalRef *string
	if journal != nil {
		if err := r.journalRepo.insertInTx(ctx, tx, *journal); err != nil {
			return err
		}
		journalRef = &journal.JournalRef
	}

	updated, err := src.markProcessedInTx(ctx, tx, ref.ID, models.Approved, approver, approvedAt, nil, journalRef)
	if err != nil {
		return err
	}
	if !updated {
		// Lost the race: another approve/reject already landed. Rolling back
		// also discards the journal insert above.
		return fmt.Errorf("%w: %s", apperrors.ErrAlreadyProcessed, ref)
	}

	return r.Commit(ctx, tx)
}

// FinalizeRejection implements portsrepo.ApprovalWriter.
func (r *ApprovalRepository) FinalizeRejection(ctx context.Context, ref domain.TransactionRef, approver string, rejectedAt time.Time, reason string) error {
	src, ok := r.sources[ref.SourceType]
	if !ok {
		return apperrors.NewAppError(400, "no source repository for "+string(ref.SourceType), nil)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	updated, err := src.markProcessedInTx(ctx, tx, ref.ID, models.Rejected, approver, rejectedAt, &reason, nil)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: %s", apperrors.ErrAlreadyProcessed, ref)
	}

	return r.Commit(ctx, tx)
}

// FindJournalByRef implements portsrepo.JournalReader.
func (r *ApprovalRepository) FindJournalByRef(ctx context.Context, journalRef string) (*domain.JournalEntry, error) {
	return r.journalRepo.FindJournalByRef(ctx, journalRef)
}

// FindJournalBySource implements portsrepo.JournalReader.
func (r *ApprovalRepository) FindJournalBySource(ctx context.Context, ref domain.TransactionRef) (*domain.JournalEntry, error) {
	return r.journalRepo.FindJournalBySource(ctx, ref)
}

// FindInconsistencies implements portsrepo.ReconciliationReader. Three checks
// per source table: journal entries whose source row never reached APPROVED,
// approved rows that recorded a journal ref with no matching journal entry,
// and journal amounts that drifted from the source amount.
func (r *ApprovalRepository) FindInconsistencies(ctx context.Context) ([]domain.ReconciliationIssue, error) {
	var issues []domain.ReconciliationIssue

	for sourceType, src := range r.sources {
		orphans, err := r.findOrphanJournals(ctx, sourceType, src.schema)
		if err != nil {
			return nil, err
		}
		issues = append(issues, orphans...)

		missing, err := r.findMissingJournals(ctx, sourceType, src.schema)
		if err != nil {
			return nil, err
		}
		issues = append(issues, missing...)

		mismatches, err := r.findAmountMismatches(ctx, sourceType, src.schema)
		if err != nil {
			return nil, err
		}
		issues = append(issues, mismatches...)
	}

	return issues, nil
}

// orphanJournalsQuery builds the orphan check for one source table. Generic
// approval requests post their journal at capture time, so a journal next to a
// WAITING_APPROVAL request is the normal state there, not an orphan; only a
// rejected request leaves its capture-time journal stranded.
func orphanJournalsQuery(sourceType domain.SourceType, schema sourceSchema) string {
	statusFilter := "s.approval_status <> 'APPROVED'"
	if sourceType == domain.SourceGenericApproval {
		statusFilter = "s.approval_status = 'REJECTED'"
	}
	return fmt.Sprintf(`
		SELECT j.journal_ref, j.source_id, j.debit_amount, s.approval_status, s.amount
		FROM journal_entries j
		JOIN %s s ON s.%s = j.source_id
		WHERE j.source_type = $1 AND %s;
	`, schema.table, schema.idColumn, statusFilter)
}

func (r *ApprovalRepository) findOrphanJournals(ctx context.Context, sourceType domain.SourceType, schema sourceSchema) ([]domain.ReconciliationIssue, error) {
	rows, err := r.Pool.Query(ctx, orphanJournalsQuery(sourceType, schema), string(sourceType))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query orphan journals for "+schema.table, err)
	}
	defer rows.Close()

	var issues []domain.ReconciliationIssue
	for rows.Next() {
		var journalRef, sourceID, status string
		var journalAmount, sourceAmount decimal.Decimal
		if err := rows.Scan(&journalRef, &sourceID, &journalAmount, &status, &sourceAmount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan orphan journal row", err)
		}
		issues = append(issues, domain.ReconciliationIssue{
			Kind:          domain.OrphanJournal,
			Ref:           domain.TransactionRef{SourceType: sourceType, ID: sourceID},
			JournalRef:    journalRef,
			SourceStatus:  domain.ApprovalStatus(status),
			SourceAmount:  sourceAmount,
			JournalAmount: journalAmount,
			Detail:        "journal entry exists but source transaction is " + status,
		})
	}
	return issues, rows.Err()
}

func (r *ApprovalRepository) findMissingJournals(ctx context.Context, sourceType domain.SourceType, schema sourceSchema) ([]domain.ReconciliationIssue, error) {
	query := fmt.Sprintf(`
		SELECT s.%s, s.journal_ref, s.amount
		FROM %s s
		WHERE s.approval_status = 'APPROVED'
		  AND s.journal_ref IS NOT NULL
		  AND NOT EXISTS (SELECT 1 FROM journal_entries j WHERE j.journal_ref = s.journal_ref);
	`, schema.idColumn, schema.table)

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query missing journals for "+schema.table, err)
	}
	defer rows.Close()

	var issues []domain.ReconciliationIssue
	for rows.Next() {
		var sourceID, journalRef string
		var sourceAmount decimal.Decimal
		if err := rows.Scan(&sourceID, &journalRef, &sourceAmount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan missing journal row", err)
		}
		issues = append(issues, domain.ReconciliationIssue{
			Kind:         domain.MissingJournal,
			Ref:          domain.TransactionRef{SourceType: sourceType, ID: sourceID},
			JournalRef:   journalRef,
			SourceStatus: domain.Approved,
			SourceAmount: sourceAmount,
			Detail:       "approved transaction references a journal entry that does not exist",
		})
	}
	return issues, rows.Err()
}

func (r *ApprovalRepository) findAmountMismatches(ctx context.Context, sourceType domain.SourceType, schema sourceSchema) ([]domain.ReconciliationIssue, error) {
	query := fmt.Sprintf(`
		SELECT j.journal_ref, j.source_id, j.debit_amount, s.amount
		FROM journal_entries j
		JOIN %s s ON s.%s = j.source_id
		WHERE j.source_type = $1 AND s.approval_status = 'APPROVED' AND j.debit_amount <> s.amount;
	`, schema.table, schema.idColumn)

	rows, err := r.Pool.Query(ctx, query, string(sourceType))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query amount mismatches for "+schema.table, err)
	}
	defer rows.Close()

	var issues []domain.ReconciliationIssue
	for rows.Next() {
		var journalRef, sourceID string
		var journalAmount, sourceAmount decimal.Decimal
		if err := rows.Scan(&journalRef, &sourceID, &journalAmount, &sourceAmount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan amount mismatch row", err)
		}
		issues = append(issues, domain.ReconciliationIssue{
			Kind:          domain.AmountMismatch,
			Ref:           domain.TransactionRef{SourceType: sourceType, ID: sourceID},
			JournalRef:    journalRef,
			SourceStatus:  domain.Approved,
			SourceAmount:  sourceAmount,
			JournalAmount: journalAmount,
			Detail:        "journal amount differs from source transaction amount",
		})
	}
	return issues, rows.Err()
}
