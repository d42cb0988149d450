package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mahligai/cargo_backoffice/internal/apperrors"
	"github.com/mahligai/cargo_backoffice/internal/core/domain"
	portsrepo "github.com/mahligai/cargo_backoffice/internal/core/ports/repositories"
	"github.com/mahligai/cargo_backoffice/internal/models"
	"github.com/mahligai/cargo_backoffice/internal/utils/mapping"
)

// sourceSchema describes how one source table projects into the shared
// pending-transaction shape. Column expressions are "NULL" when the table has
// no such column.
type sourceSchema struct {
	source        domain.SourceType
	table         string
	idColumn      string
	description   string
	paymentMethod string

	expenseAccount   string
	inventoryAccount string
	cashAccount      string
	payableAccount   string
	accountNumber    string
	contraAccount    string
	debitAccount     string
	creditAccount    string

	// scopeFilter restricts which rows of the table belong to the approval
	// workflow at all. It applies to every read and write this repository
	// performs; the expense table uses it to keep receipt-kind records out of
	// the workflow entirely.
	scopeFilter string
}

// selectList builds the shared projection over this table.
func (s sourceSchema) selectList() string {
	return fmt.Sprintf(`%s AS id, %s AS description, transaction_date, document_number, amount, %s AS payment_method,
		%s AS expense_account, %s AS inventory_account, %s AS cash_account, %s AS payable_account,
		%s AS account_number, %s AS contra_account, %s AS debit_account, %s AS credit_account,
		approval_status, approved_by, approved_at, rejection_reason, journal_ref,
		created_at, created_by, last_updated_at, last_updated_by`,
		s.idColumn, s.description, s.paymentMethod,
		s.expenseAccount, s.inventoryAccount, s.cashAccount, s.payableAccount,
		s.accountNumber, s.contraAccount, s.debitAccount, s.creditAccount)
}

func (s sourceSchema) findPendingQuery() string {
	return fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE approval_status = 'WAITING_APPROVAL' %s
		ORDER BY transaction_date DESC;
	`, s.selectList(), s.table, s.scopeFilter)
}

func (s sourceSchema) findByIDQuery() string {
	return fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 %s;
	`, s.selectList(), s.table, s.idColumn, s.scopeFilter)
}

// markProcessedQuery builds the conditional terminal write. COALESCE keeps a
// capture-time journal ref in place when the terminal write carries none
// (generic approvals and incomplete resolutions).
func (s sourceSchema) markProcessedQuery() string {
	return fmt.Sprintf(`
		UPDATE %s
		SET approval_status = $2,
		    approved_by = $3,
		    approved_at = $4,
		    rejection_reason = $5,
		    journal_ref = COALESCE($6, journal_ref),
		    last_updated_at = $4,
		    last_updated_by = $3
		WHERE %s = $1 AND approval_status = 'WAITING_APPROVAL' %s;
	`, s.table, s.idColumn, s.scopeFilter)
}

// SourceRepository serves one source collection. All five collections share
// the same repository logic; only the schema differs.
type SourceRepository struct {
	BaseRepository
	schema sourceSchema
}

var _ portsrepo.PendingSourceRepository = (*SourceRepository)(nil)

// NewPurchaseRepository serves the purchases table.
func NewPurchaseRepository(pool *pgxpool.Pool) *SourceRepository {
	return &SourceRepository{
		BaseRepository: BaseRepository{Pool: pool},
		schema: sourceSchema{
			source:           domain.SourcePurchase,
			table:            "purchases",
			idColumn:         "purchase_id",
			description:      "item_name",
			paymentMethod:    "payment_method",
			expenseAccount:   "expense_account",
			inventoryAccount: "inventory_account",
			cashAccount:      "cash_account",
			payableAccount:   "payable_account",
			accountNumber:    "NULL",
			contraAccount:    "NULL",
			debitAccount:     "NULL",
			creditAccount:    "NULL",
		},
	}
}

// NewExpenseRepository serves the expenses table ("kas" disbursements).
// Receipt-kind rows bypass approval entirely and never enter the pending set.
func NewExpenseRepository(pool *pgxpool.Pool) *SourceRepository {
	return &SourceRepository{
		BaseRepository: BaseRepository{Pool: pool},
		schema: sourceSchema{
			source:           domain.SourceExpense,
			table:            "expenses",
			idColumn:         "expense_id",
			description:      "payee",
			paymentMethod:    "NULL",
			expenseAccount:   "expense_account",
			inventoryAccount: "NULL",
			cashAccount:      "NULL",
			payableAccount:   "NULL",
			accountNumber:    "account_number",
			contraAccount:    "NULL",
			debitAccount:     "NULL",
			creditAccount:    "NULL",
			scopeFilter:      "AND record_kind = 'DISBURSEMENT'",
		},
	}
}

// NewCashDisbursementRepository serves the cash_disbursements table.
func NewCashDisbursementRepository(pool *pgxpool.Pool) *SourceRepository {
	return &SourceRepository{
		BaseRepository: BaseRepository{Pool: pool},
		schema: sourceSchema{
			source:           domain.SourceCashDisbursement,
			table:            "cash_disbursements",
			idColumn:         "disbursement_id",
			description:      "memo",
			paymentMethod:    "payment_method",
			expenseAccount:   "expense_account",
			inventoryAccount: "NULL",
			cashAccount:      "cash_account",
			payableAccount:   "NULL",
			accountNumber:    "NULL",
			contraAccount:    "NULL",
			debitAccount:     "NULL",
			creditAccount:    "NULL",
		},
	}
}

// NewIncomeRepository serves the incomes table. Income records are
// auto-approved upstream, so this source is expected to be empty in practice;
// it is queried anyway so the variant stays exercised end to end.
func NewIncomeRepository(pool *pgxpool.Pool) *SourceRepository {
	return &SourceRepository{
		BaseRepository: BaseRepository{Pool: pool},
		schema: sourceSchema{
			source:           domain.SourceIncome,
			table:            "incomes",
			idColumn:         "income_id",
			description:      "memo",
			paymentMethod:    "NULL",
			expenseAccount:   "NULL",
			inventoryAccount: "NULL",
			cashAccount:      "cash_account",
			payableAccount:   "NULL",
			accountNumber:    "NULL",
			contraAccount:    "contra_account",
			debitAccount:     "NULL",
			creditAccount:    "NULL",
		},
	}
}

// NewGenericApprovalRepository serves the approval_requests table. These rows
// carry a fully-specified debit/credit pair from capture time.
func NewGenericApprovalRepository(pool *pgxpool.Pool) *SourceRepository {
	return &SourceRepository{
		BaseRepository: BaseRepository{Pool: pool},
		schema: sourceSchema{
			source:           domain.SourceGenericApproval,
			table:            "approval_requests",
			idColumn:         "request_id",
			description:      "memo",
			paymentMethod:    "NULL",
			expenseAccount:   "NULL",
			inventoryAccount: "NULL",
			cashAccount:      "NULL",
			payableAccount:   "NULL",
			accountNumber:    "NULL",
			contraAccount:    "NULL",
			debitAccount:     "debit_account",
			creditAccount:    "credit_account",
		},
	}
}

// SourceType implements portsrepo.PendingSourceRepository.
func (r *SourceRepository) SourceType() domain.SourceType {
	return r.schema.source
}

// FindPending implements portsrepo.PendingSourceRepository.
func (r *SourceRepository) FindPending(ctx context.Context) ([]domain.PendingTransaction, error) {
	rows, err := r.Pool.Query(ctx, r.schema.findPendingQuery())
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query pending "+r.schema.table, err)
	}
	defer rows.Close()

	results := []models.PendingTransaction{}
	for rows.Next() {
		m, err := r.scanRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan pending row from "+r.schema.table, err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating pending rows from "+r.schema.table, err)
	}

	return mapping.ToDomainPendingTransactionSlice(results), nil
}

// FindByID implements portsrepo.PendingSourceRepository.
func (r *SourceRepository) FindByID(ctx context.Context, id string) (*domain.PendingTransaction, error) {
	rows, err := r.Pool.Query(ctx, r.schema.findByIDQuery(), id)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query "+r.schema.table+" by id", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, apperrors.NewAppError(500, "failed to read "+r.schema.table+" row", err)
		}
		return nil, apperrors.ErrNotFound
	}
	m, err := r.scanRow(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan "+r.schema.table+" row", err)
	}
	rows.Close()

	d := mapping.ToDomainPendingTransaction(m)
	return &d, nil
}

// markProcessedInTx performs the conditional terminal write inside the given
// database transaction. Returns false (and writes nothing) when the row was
// no longer WAITING_APPROVAL.
func (r *SourceRepository) markProcessedInTx(ctx context.Context, tx pgx.Tx, id string, status models.ApprovalStatus, approver string, at time.Time, rejectionReason *string, journalRef *string) (bool, error) {
	cmdTag, err := tx.Exec(ctx, r.schema.markProcessedQuery(), id, status, approver, at, rejectionReason, journalRef)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to update status in "+r.schema.table, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

// scanRow scans the shared projection into the storage model.
func (r *SourceRepository) scanRow(rows pgx.Rows) (models.PendingTransaction, error) {
	var m models.PendingTransaction
	var documentNumber, paymentMethod *string

	err := rows.Scan(
		&m.ID,
		&m.Description,
		&m.TransactionDate,
		&documentNumber,
		&m.Amount,
		&paymentMethod,
		&m.ExpenseAccount,
		&m.InventoryAccount,
		&m.CashAccount,
		&m.PayableAccount,
		&m.AccountNumber,
		&m.ContraAccount,
		&m.DebitAccount,
		&m.CreditAccount,
		&m.ApprovalStatus,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.RejectionReason,
		&m.JournalRef,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.PendingTransaction{}, err
	}

	m.SourceType = string(r.schema.source)
	if documentNumber != nil {
		m.DocumentNumber = *documentNumber
	}
	if paymentMethod != nil {
		m.PaymentMethod = *paymentMethod
	}
	return m, nil
}
