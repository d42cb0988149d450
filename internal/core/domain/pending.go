package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SourceType identifies which source collection a pending transaction came
// from. Transaction ids are only unique within their own collection, so a
// SourceType always travels together with the id (see TransactionRef).
type SourceType string

const (
	SourcePurchase         SourceType = "purchase"
	SourceExpense          SourceType = "expense"
	SourceCashDisbursement SourceType = "cash_disbursement"
	SourceIncome           SourceType = "income"
	SourceGenericApproval  SourceType = "generic_approval"
)

// SourceTypes lists every source collection in the fixed order the aggregator
// queries them.
func SourceTypes() []SourceType {
	return []SourceType{
		SourcePurchase,
		SourceExpense,
		SourceCashDisbursement,
		SourceIncome,
		SourceGenericApproval,
	}
}

// ParseSourceType converts a string into a SourceType, rejecting unknown values.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(s) {
	case SourcePurchase, SourceExpense, SourceCashDisbursement, SourceIncome, SourceGenericApproval:
		return SourceType(s), nil
	}
	return "", fmt.Errorf("unknown source type %q", s)
}

// ApprovalStatus is the two-state approval workflow state. A transaction
// starts WAITING_APPROVAL and is written exactly once into a terminal state.
type ApprovalStatus string

const (
	WaitingApproval ApprovalStatus = "WAITING_APPROVAL"
	Approved        ApprovalStatus = "APPROVED"
	Rejected        ApprovalStatus = "REJECTED"
)

// IsTerminal reports whether the status can no longer change.
func (s ApprovalStatus) IsTerminal() bool {
	return s == Approved || s == Rejected
}

// PaymentMethodCash marks a purchase or cash disbursement settled from a cash
// account rather than on credit.
const PaymentMethodCash = "cash"

// TransactionRef is the composite identity of a pending transaction. Ids never
// cross source collections on their own.
type TransactionRef struct {
	SourceType SourceType `json:"sourceType"`
	ID         string     `json:"id"`
}

func (r TransactionRef) String() string {
	return string(r.SourceType) + "/" + r.ID
}

// AccountHints carries the chart-of-accounts codes already attached to a
// transaction at capture time. Which fields are populated depends on the
// source variant; empty string means the hint is absent.
type AccountHints struct {
	ExpenseAccount   string `json:"expenseAccount,omitempty"`
	InventoryAccount string `json:"inventoryAccount,omitempty"`
	CashAccount      string `json:"cashAccount,omitempty"`
	PayableAccount   string `json:"payableAccount,omitempty"`
	AccountNumber    string `json:"accountNumber,omitempty"`
	ContraAccount    string `json:"contraAccount,omitempty"`
	DebitAccount     string `json:"debitAccount,omitempty"`
	CreditAccount    string `json:"creditAccount,omitempty"`
}

// PendingTransaction is the normalized shape every source collection maps
// into. SourceType is the variant tag; the resolver switches on it
// exhaustively.
type PendingTransaction struct {
	ID              string          `json:"id"`
	SourceType      SourceType      `json:"sourceType"`
	TransactionDate time.Time       `json:"transactionDate"`
	DocumentNumber  string          `json:"documentNumber,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	AccountHints    AccountHints    `json:"accountHints"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	ApprovalStatus  ApprovalStatus  `json:"approvalStatus"`
	ApprovedBy      string          `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	JournalRef      string          `json:"journalRef,omitempty"`
	AuditFields
}

// Ref returns the composite identity of the transaction.
func (t PendingTransaction) Ref() TransactionRef {
	return TransactionRef{SourceType: t.SourceType, ID: t.ID}
}
