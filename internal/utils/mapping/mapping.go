package mapping

import (
	"github.com/mahligai/cargo_backoffice/internal/core/domain"
	"github.com/mahligai/cargo_backoffice/internal/models"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToDomainPendingTransaction converts a storage row into the normalized
// domain shape.
func ToDomainPendingTransaction(m models.PendingTransaction) domain.PendingTransaction {
	return domain.PendingTransaction{
		ID:              m.ID,
		SourceType:      domain.SourceType(m.SourceType),
		TransactionDate: m.TransactionDate,
		DocumentNumber:  m.DocumentNumber,
		Amount:          m.Amount,
		Description:     m.Description,
		PaymentMethod:   m.PaymentMethod,
		ApprovalStatus:  domain.ApprovalStatus(m.ApprovalStatus),
		ApprovedBy:      deref(m.ApprovedBy),
		ApprovedAt:      m.ApprovedAt,
		RejectionReason: deref(m.RejectionReason),
		JournalRef:      deref(m.JournalRef),
		AccountHints: domain.AccountHints{
			ExpenseAccount:   deref(m.ExpenseAccount),
			InventoryAccount: deref(m.InventoryAccount),
			CashAccount:      deref(m.CashAccount),
			PayableAccount:   deref(m.PayableAccount),
			AccountNumber:    deref(m.AccountNumber),
			ContraAccount:    deref(m.ContraAccount),
			DebitAccount:     deref(m.DebitAccount),
			CreditAccount:    deref(m.CreditAccount),
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToDomainPendingTransactionSlice converts a slice of storage rows.
func ToDomainPendingTransactionSlice(ms []models.PendingTransaction) []domain.PendingTransaction {
	out := make([]domain.PendingTransaction, len(ms))
	for i, m := range ms {
		out[i] = ToDomainPendingTransaction(m)
	}
	return out
}

// ToModelJournalEntry converts a domain journal entry to its storage shape.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		JournalRef:     d.JournalRef,
		SourceType:     string(d.SourceType),
		SourceID:       d.SourceID,
		DebitAccount:   d.DebitAccount,
		CreditAccount:  d.CreditAccount,
		DebitAmount:    d.DebitAmount,
		CreditAmount:   d.CreditAmount,
		Description:    d.Description,
		JournalDate:    d.JournalDate,
		Category:       d.Category,
		Classification: d.Classification,
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
	}
}

// ToDomainJournalEntry converts a storage journal row to the domain shape.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		JournalRef:     m.JournalRef,
		SourceType:     domain.SourceType(m.SourceType),
		SourceID:       m.SourceID,
		DebitAccount:   m.DebitAccount,
		CreditAccount:  m.CreditAccount,
		DebitAmount:    m.DebitAmount,
		CreditAmount:   m.CreditAmount,
		Description:    m.Description,
		JournalDate:    m.JournalDate,
		Category:       m.Category,
		Classification: m.Classification,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}
