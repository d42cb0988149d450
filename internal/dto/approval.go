package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mahligai/cargo_backoffice/internal/core/domain"
)

// RejectRequest carries the mandatory reason for rejecting a transaction.
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// JournalEntryResponse defines the data returned for a posted journal entry.
type JournalEntryResponse struct {
	JournalRef     string            `json:"journalRef"`
	SourceType     domain.SourceType `json:"sourceType"`
	SourceID       string            `json:"sourceID"`
	DebitAccount   string            `json:"debitAccount"`
	CreditAccount  string            `json:"creditAccount"`
	DebitAmount    decimal.Decimal   `json:"debitAmount"`
	CreditAmount   decimal.Decimal   `json:"creditAmount"`
	Description    string            `json:"description"`
	JournalDate    time.Time         `json:"journalDate"`
	Category       string            `json:"category"`
	Classification string            `json:"classification"`
}

// ApprovalResponse is returned by the approve endpoint. Journal is nil when no
// entry was posted (generic approvals and incomplete resolutions).
type ApprovalResponse struct {
	Transaction PendingTransactionResponse `json:"transaction"`
	Journal     *JournalEntryResponse      `json:"journal,omitempty"`
	Warning     string                     `json:"warning,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(entry *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		JournalRef:     entry.JournalRef,
		SourceType:     entry.SourceType,
		SourceID:       entry.SourceID,
		DebitAccount:   entry.DebitAccount,
		CreditAccount:  entry.CreditAccount,
		DebitAmount:    entry.DebitAmount,
		CreditAmount:   entry.CreditAmount,
		Description:    entry.Description,
		JournalDate:    entry.JournalDate,
		Category:       entry.Category,
		Classification: entry.Classification,
	}
}

// ToApprovalResponse converts a domain.ApprovalOutcome to its DTO.
func ToApprovalResponse(outcome *domain.ApprovalOutcome) ApprovalResponse {
	resp := ApprovalResponse{
		Transaction: ToPendingTransactionResponse(&outcome.Transaction),
		Warning:     outcome.Warning,
	}
	if outcome.Journal != nil {
		journal := ToJournalEntryResponse(outcome.Journal)
		resp.Journal = &journal
	}
	return resp
}
