package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mahligai/cargo_backoffice/internal/core/domain"
)

// PendingTransactionResponse defines the normalized shape returned for a
// transaction awaiting (or past) approval, regardless of which source
// collection it came from.
type PendingTransactionResponse struct {
	ID              string                `json:"id"`
	SourceType      domain.SourceType     `json:"sourceType"`
	TransactionDate time.Time             `json:"transactionDate"`
	DocumentNumber  string                `json:"documentNumber,omitempty"`
	Amount          decimal.Decimal       `json:"amount"`
	Description     string                `json:"description"`
	AccountHints    domain.AccountHints   `json:"accountHints"`
	PaymentMethod   string                `json:"paymentMethod,omitempty"`
	ApprovalStatus  domain.ApprovalStatus `json:"approvalStatus"`
	ApprovedBy      string                `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time            `json:"approvedAt,omitempty"`
	RejectionReason string                `json:"rejectionReason,omitempty"`
	JournalRef      string                `json:"journalRef,omitempty"`
}

// ListPendingResponse wraps the aggregated pending list.
type ListPendingResponse struct {
	Transactions []PendingTransactionResponse `json:"transactions"`
	Count        int                          `json:"count"`
}

// ToPendingTransactionResponse converts a domain.PendingTransaction to its DTO.
func ToPendingTransactionResponse(txn *domain.PendingTransaction) PendingTransactionResponse {
	return PendingTransactionResponse{
		ID:              txn.ID,
		SourceType:      txn.SourceType,
		TransactionDate: txn.TransactionDate,
		DocumentNumber:  txn.DocumentNumber,
		Amount:          txn.Amount,
		Description:     txn.Description,
		AccountHints:    txn.AccountHints,
		PaymentMethod:   txn.PaymentMethod,
		ApprovalStatus:  txn.ApprovalStatus,
		ApprovedBy:      txn.ApprovedBy,
		ApprovedAt:      txn.ApprovedAt,
		RejectionReason: txn.RejectionReason,
		JournalRef:      txn.JournalRef,
	}
}

// ToListPendingResponse converts a slice of domain transactions to the list DTO.
func ToListPendingResponse(txns []domain.PendingTransaction) ListPendingResponse {
	res := make([]PendingTransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToPendingTransactionResponse(&txn)
	}
	return ListPendingResponse{Transactions: res, Count: len(res)}
}
