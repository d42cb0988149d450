package accounting

import (
	"fmt"

	"github.com/mahligai/cargo_backoffice/internal/apperrors"
	"github.com/mahligai/cargo_backoffice/internal/core/domain"
)

// Defaults holds the fixed fallback chart-of-accounts codes used when a
// transaction carries no usable hint for one side of the entry.
type Defaults struct {
	ExpenseAccount string
	CashAccount    string
	RevenueAccount string
}

// Resolution is the outcome of resolving a transaction's account pair.
// PostJournal is false when approval should proceed without creating a
// journal entry: either the variant already had its journal posted at capture
// time (generic_approval), or no usable pair could be derived.
type Resolution struct {
	DebitAccount  string
	CreditAccount string
	PostJournal   bool
}

// Resolve maps a pending transaction to the debit/credit account pair its
// journal entry should be posted against. Pure and deterministic; no I/O.
//
// Returns apperrors.ErrResolutionIncomplete (with PostJournal false) when a
// purchase carries no usable pair. That error is a warning: the approval
// still completes, only the journal is skipped.
func Resolve(txn domain.PendingTransaction, defaults Defaults) (Resolution, error) {
	hints := txn.AccountHints

	switch txn.SourceType {
	case domain.SourcePurchase:
		debit := firstNonEmpty(hints.ExpenseAccount, hints.InventoryAccount)
		var credit string
		if txn.PaymentMethod == domain.PaymentMethodCash {
			credit = hints.CashAccount
		} else {
			credit = hints.PayableAccount
		}
		if debit == "" || credit == "" {
			return Resolution{}, fmt.Errorf("%w: purchase %s has no usable debit/credit hints", apperrors.ErrResolutionIncomplete, txn.ID)
		}
		return Resolution{DebitAccount: debit, CreditAccount: credit, PostJournal: true}, nil

	case domain.SourceExpense:
		debit := firstNonEmpty(hints.ExpenseAccount, defaults.ExpenseAccount)
		credit := firstNonEmpty(hints.AccountNumber, defaults.CashAccount)
		return Resolution{DebitAccount: debit, CreditAccount: credit, PostJournal: true}, nil

	case domain.SourceCashDisbursement:
		debit := firstNonEmpty(hints.ExpenseAccount, defaults.ExpenseAccount)
		credit := firstNonEmpty(hints.CashAccount, defaults.CashAccount)
		return Resolution{DebitAccount: debit, CreditAccount: credit, PostJournal: true}, nil

	case domain.SourceIncome:
		// Receipts are auto-approved upstream and never reach the pending
		// set; the rule is kept so the variant stays resolvable.
		debit := firstNonEmpty(hints.CashAccount, defaults.CashAccount)
		credit := firstNonEmpty(hints.ContraAccount, defaults.RevenueAccount)
		return Resolution{DebitAccount: debit, CreditAccount: credit, PostJournal: true}, nil

	case domain.SourceGenericApproval:
		// The journal was already posted at capture time with the pair the
		// transaction carries; approval only flips status.
		return Resolution{DebitAccount: hints.DebitAccount, CreditAccount: hints.CreditAccount, PostJournal: false}, nil
	}

	return Resolution{}, fmt.Errorf("unknown source type %q for transaction %s", txn.SourceType, txn.ID)
}

// Classify returns the human-readable transaction-kind label recorded on the
// journal entry for each variant.
func Classify(sourceType domain.SourceType) string {
	switch sourceType {
	case domain.SourcePurchase:
		return "Purchase"
	case domain.SourceExpense:
		return "Cash Expense"
	case domain.SourceCashDisbursement:
		return "Cash Disbursement"
	case domain.SourceIncome:
		return "Income"
	case domain.SourceGenericApproval:
		return "General Approval"
	}
	return string(sourceType)
}

// Categorize returns the coarse ledger category a variant's journal entries
// are filed under.
func Categorize(sourceType domain.SourceType) string {
	switch sourceType {
	case domain.SourcePurchase:
		return "PURCHASING"
	case domain.SourceExpense, domain.SourceCashDisbursement:
		return "OPERATIONAL"
	case domain.SourceIncome:
		return "REVENUE"
	case domain.SourceGenericApproval:
		return "GENERAL"
	}
	return "GENERAL"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
