package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mahligai/cargo_backoffice/internal/apperrors"
	"github.com/mahligai/cargo_backoffice/internal/core/domain"
	portsrepo "github.com/mahligai/cargo_backoffice/internal/core/ports/repositories"
	portssvc "github.com/mahligai/cargo_backoffice/internal/core/ports/services"
	"github.com/mahligai/cargo_backoffice/internal/core/services"
)

// fakeNotifier hands the test full control over change-signal delivery.
type fakeNotifier struct {
	ch chan portsrepo.Change
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan portsrepo.Change)}
}

func (f *fakeNotifier) Subscribe(ctx context.Context) (<-chan portsrepo.Change, error) {
	return f.ch, nil
}

type PendingServiceTestSuite struct {
	suite.Suite
	mockSources map[domain.SourceType]*MockSourceRepository
	notifier    *fakeNotifier
	service     portssvc.PendingSvcFacade
}

func (suite *PendingServiceTestSuite) SetupTest() {
	suite.mockSources = make(map[domain.SourceType]*MockSourceRepository)
	suite.notifier = newFakeNotifier()

	var sources []portsrepo.PendingSourceRepository
	for _, st := range domain.SourceTypes() {
		src := &MockSourceRepository{sourceType: st}
		suite.mockSources[st] = src
		sources = append(sources, src)
	}
	suite.service = services.NewPendingService(sources, suite.notifier)
}

func pendingItem(st domain.SourceType, id string) domain.PendingTransaction {
	return domain.PendingTransaction{
		ID:              id,
		SourceType:      st,
		TransactionDate: time.Now().UTC(),
		Amount:          decimal.NewFromInt(100),
		ApprovalStatus:  domain.WaitingApproval,
	}
}

func (suite *PendingServiceTestSuite) expectEmptySources(except ...domain.SourceType) {
	skip := make(map[domain.SourceType]struct{}, len(except))
	for _, st := range except {
		skip[st] = struct{}{}
	}
	for st, src := range suite.mockSources {
		if _, ok := skip[st]; ok {
			continue
		}
		src.On("FindPending", mock.Anything).Return([]domain.PendingTransaction{}, nil)
	}
}

func (suite *PendingServiceTestSuite) TestListPending_MergesInSourceOrder() {
	ctx := context.Background()

	suite.mockSources[domain.SourcePurchase].On("FindPending", mock.Anything).
		Return([]domain.PendingTransaction{pendingItem(domain.SourcePurchase, "PO-1")}, nil)
	suite.mockSources[domain.SourceIncome].On("FindPending", mock.Anything).
		Return([]domain.PendingTransaction{pendingItem(domain.SourceIncome, "INC-1")}, nil)
	suite.expectEmptySources(domain.SourcePurchase, domain.SourceIncome)

	txns, err := suite.service.ListPending(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(txns, 2)
	// Purchases are aggregated before incomes in the fixed source order.
	suite.Equal("PO-1", txns[0].ID)
	suite.Equal("INC-1", txns[1].ID)
	for _, txn := range txns {
		suite.Equal(domain.WaitingApproval, txn.ApprovalStatus)
	}
}

func (suite *PendingServiceTestSuite) TestListPending_FailFast() {
	ctx := context.Background()

	suite.mockSources[domain.SourcePurchase].On("FindPending", mock.Anything).
		Return([]domain.PendingTransaction{pendingItem(domain.SourcePurchase, "PO-1")}, nil)
	suite.mockSources[domain.SourceExpense].On("FindPending", mock.Anything).
		Return(nil, apperrors.NewAppError(500, "connection refused", nil))

	txns, err := suite.service.ListPending(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSourceUnavailable)
	suite.Nil(txns, "partial results must never be returned")

	// Sources after the failing one are never queried.
	suite.mockSources[domain.SourceCashDisbursement].AssertNotCalled(suite.T(), "FindPending", mock.Anything)
}

func (suite *PendingServiceTestSuite) TestWatch_EmitsInitialAndOnSignal() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	suite.mockSources[domain.SourcePurchase].On("FindPending", mock.Anything).
		Return([]domain.PendingTransaction{pendingItem(domain.SourcePurchase, "PO-1")}, nil)
	suite.expectEmptySources(domain.SourcePurchase)

	updates, err := suite.service.Watch(ctx)
	suite.Require().NoError(err)

	// One aggregation arrives before any signal.
	select {
	case txns := <-updates:
		suite.Require().Len(txns, 1)
		suite.Equal("PO-1", txns[0].ID)
	case <-time.After(2 * time.Second):
		suite.FailNow("no initial aggregation emitted")
	}

	// A change signal triggers a re-pull.
	suite.notifier.ch <- portsrepo.Change{Collection: "purchases"}
	select {
	case txns := <-updates:
		suite.Require().Len(txns, 1)
	case <-time.After(2 * time.Second):
		suite.FailNow("no aggregation after change signal")
	}

	cancel()
	select {
	case _, open := <-updates:
		suite.False(open, "updates channel should close when the context ends")
	case <-time.After(2 * time.Second):
		suite.FailNow("updates channel did not close")
	}
}

func (suite *PendingServiceTestSuite) TestWatch_ContinuesPastAggregationFailure() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First aggregation fails, the one after the signal succeeds.
	suite.mockSources[domain.SourcePurchase].On("FindPending", mock.Anything).
		Return(nil, apperrors.NewAppError(500, "connection refused", nil)).Once()
	suite.mockSources[domain.SourcePurchase].On("FindPending", mock.Anything).
		Return([]domain.PendingTransaction{pendingItem(domain.SourcePurchase, "PO-2")}, nil)
	suite.expectEmptySources(domain.SourcePurchase)

	updates, err := suite.service.Watch(ctx)
	suite.Require().NoError(err)

	suite.notifier.ch <- portsrepo.Change{Collection: "purchases"}

	select {
	case txns := <-updates:
		suite.Require().Len(txns, 1)
		suite.Equal("PO-2", txns[0].ID)
	case <-time.After(2 * time.Second):
		suite.FailNow("watch did not recover after a failed aggregation")
	}
}

func TestPendingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PendingServiceTestSuite))
}
