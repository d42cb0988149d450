package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a single balanced double-entry accounting record. It is
// created only as a side effect of approving a pending transaction, is
// immutable once written, and always satisfies
// DebitAmount == CreditAmount == the source transaction's amount.
type JournalEntry struct {
	JournalRef     string          `json:"journalRef"` // globally unique
	SourceType     SourceType      `json:"sourceType"`
	SourceID       string          `json:"sourceID"`
	DebitAccount   string          `json:"debitAccount"`
	CreditAccount  string          `json:"creditAccount"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	Description    string          `json:"description"`
	JournalDate    time.Time       `json:"journalDate"`
	Category       string          `json:"category"`
	Classification string          `json:"classification"` // human-readable transaction kind
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}

// SourceRef returns the composite identity of the transaction this entry was
// posted for.
func (j JournalEntry) SourceRef() TransactionRef {
	return TransactionRef{SourceType: j.SourceType, ID: j.SourceID}
}
