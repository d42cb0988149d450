package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mahligai/cargo_backoffice/internal/core/domain"
)

func TestParseSourceType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.SourceType
		wantErr bool
	}{
		{name: "purchase", input: "purchase", want: domain.SourcePurchase},
		{name: "expense", input: "expense", want: domain.SourceExpense},
		{name: "cash disbursement", input: "cash_disbursement", want: domain.SourceCashDisbursement},
		{name: "income", input: "income", want: domain.SourceIncome},
		{name: "generic approval", input: "generic_approval", want: domain.SourceGenericApproval},
		{name: "unknown value", input: "payroll", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "wrong case", input: "Purchase", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseSourceType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceTypesOrder(t *testing.T) {
	// The aggregator depends on this fixed query order.
	assert.Equal(t, []domain.SourceType{
		domain.SourcePurchase,
		domain.SourceExpense,
		domain.SourceCashDisbursement,
		domain.SourceIncome,
		domain.SourceGenericApproval,
	}, domain.SourceTypes())
}

func TestApprovalStatusIsTerminal(t *testing.T) {
	assert.False(t, domain.WaitingApproval.IsTerminal())
	assert.True(t, domain.Approved.IsTerminal())
	assert.True(t, domain.Rejected.IsTerminal())
}

func TestTransactionRefString(t *testing.T) {
	ref := domain.TransactionRef{SourceType: domain.SourcePurchase, ID: "PO-42"}
	assert.Equal(t, "purchase/PO-42", ref.String())
}

func TestPendingTransactionRef(t *testing.T) {
	txn := domain.PendingTransaction{ID: "EXP-7", SourceType: domain.SourceExpense}
	assert.Equal(t, domain.TransactionRef{SourceType: domain.SourceExpense, ID: "EXP-7"}, txn.Ref())
}
