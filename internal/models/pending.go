package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalStatus mirrors domain.ApprovalStatus at the storage layer.
type ApprovalStatus string

const (
	WaitingApproval ApprovalStatus = "WAITING_APPROVAL"
	Approved        ApprovalStatus = "APPROVED"
	Rejected        ApprovalStatus = "REJECTED"
)

// PendingTransaction is the storage shape shared by all five source tables.
// Variant-specific account hint columns are scanned into the matching fields;
// columns a table does not have stay empty.
type PendingTransaction struct {
	ID              string
	SourceType      string
	TransactionDate time.Time
	DocumentNumber  string
	Amount          decimal.Decimal
	Description     string
	PaymentMethod   string
	ApprovalStatus  ApprovalStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	JournalRef      *string

	ExpenseAccount   *string
	InventoryAccount *string
	CashAccount      *string
	PayableAccount   *string
	AccountNumber    *string
	ContraAccount    *string
	DebitAccount     *string
	CreditAccount    *string

	AuditFields
}

// AuditFields holds standard audit columns.
type AuditFields struct {
	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string
}
