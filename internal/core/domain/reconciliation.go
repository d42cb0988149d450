package domain

import "github.com/shopspring/decimal"

// ReconciliationIssueKind classifies a disagreement between a transaction's
// terminal status and its journal entry.
type ReconciliationIssueKind string

const (
	// OrphanJournal is a journal entry whose source transaction never reached
	// APPROVED.
	OrphanJournal ReconciliationIssueKind = "ORPHAN_JOURNAL"
	// MissingJournal is an approved transaction that recorded a journal ref
	// but has no matching journal entry.
	MissingJournal ReconciliationIssueKind = "MISSING_JOURNAL"
	// AmountMismatch is a journal entry whose amount differs from its source
	// transaction's amount.
	AmountMismatch ReconciliationIssueKind = "AMOUNT_MISMATCH"
)

// ReconciliationIssue is one detected violation of the approval/journal
// consistency invariant. Issues are reported, never silently dropped.
type ReconciliationIssue struct {
	Kind          ReconciliationIssueKind `json:"kind"`
	Ref           TransactionRef          `json:"ref"`
	JournalRef    string                  `json:"journalRef,omitempty"`
	SourceStatus  ApprovalStatus          `json:"sourceStatus,omitempty"`
	SourceAmount  decimal.Decimal         `json:"sourceAmount"`
	JournalAmount decimal.Decimal         `json:"journalAmount"`
	Detail        string                  `json:"detail,omitempty"`
}
