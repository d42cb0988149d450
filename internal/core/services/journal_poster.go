package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mahligai/cargo_backoffice/internal/apperrors"
	"github.com/mahligai/cargo_backoffice/internal/core/domain"
)

// JournalPoster builds balanced double-entry journal records. The durable
// write happens in the repository, inside the same database transaction as
// the status flip; the poster only composes and validates the entry.
type JournalPoster struct{}

// Post composes a journal entry for the given account pair and amount. The
// produced entry always satisfies DebitAmount == CreditAmount == amount.
// Fails with apperrors.ErrInvalidAmount when amount is not positive.
func (JournalPoster) Post(ref domain.TransactionRef, debitAccount, creditAccount string, amount decimal.Decimal, description string, journalDate time.Time, category, classification, postedBy string, now time.Time) (*domain.JournalEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: got %s for %s", apperrors.ErrInvalidAmount, amount.String(), ref)
	}
	if debitAccount == "" || creditAccount == "" {
		return nil, fmt.Errorf("%w: journal for %s needs both debit and credit accounts", apperrors.ErrValidation, ref)
	}

	return &domain.JournalEntry{
		JournalRef:     newJournalRef(now),
		SourceType:     ref.SourceType,
		SourceID:       ref.ID,
		DebitAccount:   debitAccount,
		CreditAccount:  creditAccount,
		DebitAmount:    amount,
		CreditAmount:   amount,
		Description:    description,
		JournalDate:    journalDate,
		Category:       category,
		Classification: classification,
		CreatedAt:      now,
		CreatedBy:      postedBy,
	}, nil
}

// newJournalRef produces a globally unique journal reference. The timestamp
// keeps refs roughly sortable; the uuid suffix guarantees uniqueness. The
// journal_entries primary key backs this up at the store level.
func newJournalRef(now time.Time) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return "JRN-" + now.UTC().Format("20060102T150405") + "-" + suffix
}
