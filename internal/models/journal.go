package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the storage shape of a posted double-entry record.
type JournalEntry struct {
	JournalRef     string
	SourceType     string
	SourceID       string
	DebitAccount   string
	CreditAccount  string
	DebitAmount    decimal.Decimal
	CreditAmount   decimal.Decimal
	Description    string
	JournalDate    time.Time
	Category       string
	Classification string
	CreatedAt      time.Time
	CreatedBy      string
}
