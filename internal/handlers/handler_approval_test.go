package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mahligai/cargo_backoffice/internal/apperrors"
	"github.com/mahligai/cargo_backoffice/internal/core/domain"
	portssvc "github.com/mahligai/cargo_backoffice/internal/core/ports/services"
	"github.com/mahligai/cargo_backoffice/internal/dto"
	"github.com/mahligai/cargo_backoffice/internal/handlers"
	"github.com/mahligai/cargo_backoffice/internal/platform/config"
)

// --- Mock PendingService ---
type MockPendingService struct {
	mock.Mock
}

func (m *MockPendingService) ListPending(ctx context.Context) ([]domain.PendingTransaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingTransaction), args.Error(1)
}

func (m *MockPendingService) Watch(ctx context.Context) (<-chan []domain.PendingTransaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan []domain.PendingTransaction), args.Error(1)
}

var _ portssvc.PendingSvcFacade = (*MockPendingService)(nil)

// --- Mock ApprovalService ---
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) Approve(ctx context.Context, ref domain.TransactionRef, approver string) (*domain.ApprovalOutcome, error) {
	args := m.Called(ctx, ref, approver)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalOutcome), args.Error(1)
}

func (m *MockApprovalService) Reject(ctx context.Context, ref domain.TransactionRef, approver string, reason string) (*domain.PendingTransaction, error) {
	args := m.Called(ctx, ref, approver, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingTransaction), args.Error(1)
}

func (m *MockApprovalService) GetJournal(ctx context.Context, ref domain.TransactionRef) (*domain.JournalEntry, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockApprovalService) GetJournalByRef(ctx context.Context, journalRef string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockApprovalService) Reconcile(ctx context.Context) ([]domain.ReconciliationIssue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationIssue), args.Error(1)
}

var _ portssvc.ApprovalSvcFacade = (*MockApprovalService)(nil)

// --- Test Suite ---
type ApprovalHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockPendingService  *MockPendingService
	mockApprovalService *MockApprovalService
	jwtSecret           string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *ApprovalHandlerTestSuite) generateTestToken(approverID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "cargo-backoffice-test",
		Subject:   approverID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ApprovalHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockPendingService = new(MockPendingService)
	suite.mockApprovalService = new(MockApprovalService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true, // keep swagger out of the test router
		RateLimit:    "1000-S",
	}
	services := &portssvc.ServiceContainer{
		Pending:  suite.mockPendingService,
		Approval: suite.mockApprovalService,
	}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *ApprovalHandlerTestSuite) doRequest(method, url string, body []byte, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *ApprovalHandlerTestSuite) TestHealthzIsPublic() {
	w := suite.doRequest(http.MethodGet, "/healthz", nil, "")
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *ApprovalHandlerTestSuite) TestListPending_RequiresAuth() {
	w := suite.doRequest(http.MethodGet, "/api/v1/approvals/pending", nil, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockPendingService.AssertNotCalled(suite.T(), "ListPending", mock.Anything)
}

func (suite *ApprovalHandlerTestSuite) TestListPending_Success() {
	token := suite.generateTestToken("approver-1")
	txns := []domain.PendingTransaction{
		{
			ID:             "PO-1",
			SourceType:     domain.SourcePurchase,
			Amount:         decimal.NewFromInt(500),
			ApprovalStatus: domain.WaitingApproval,
		},
		{
			ID:             "EXP-1",
			SourceType:     domain.SourceExpense,
			Amount:         decimal.NewFromInt(120),
			ApprovalStatus: domain.WaitingApproval,
		},
	}
	suite.mockPendingService.On("ListPending", mock.Anything).Return(txns, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/approvals/pending", nil, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListPendingResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.Count)
	suite.Equal("PO-1", resp.Transactions[0].ID)
	suite.Equal(domain.SourceExpense, resp.Transactions[1].SourceType)
	suite.mockPendingService.AssertExpectations(suite.T())
}

func (suite *ApprovalHandlerTestSuite) TestListPending_SourceUnavailable() {
	token := suite.generateTestToken("approver-1")
	suite.mockPendingService.On("ListPending", mock.Anything).
		Return(nil, apperrors.NewSourceError("purchase", apperrors.NewAppError(500, "connection refused", nil))).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/approvals/pending", nil, token)

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *ApprovalHandlerTestSuite) TestApprove_Success() {
	token := suite.generateTestToken("approver-1")
	approvedAt := time.Now().UTC()
	ref := domain.TransactionRef{SourceType: domain.SourcePurchase, ID: "PO-1"}
	outcome := &domain.ApprovalOutcome{
		Transaction: domain.PendingTransaction{
			ID:             "PO-1",
			SourceType:     domain.SourcePurchase,
			Amount:         decimal.NewFromInt(500),
			ApprovalStatus: domain.Approved,
			ApprovedBy:     "approver-1",
			ApprovedAt:     &approvedAt,
			JournalRef:     "JRN-20260828T100000-abcd1234",
		},
		Journal: &domain.JournalEntry{
			JournalRef:    "JRN-20260828T100000-abcd1234",
			SourceType:    domain.SourcePurchase,
			SourceID:      "PO-1",
			DebitAccount:  "6-2000",
			CreditAccount: "2-1000",
			DebitAmount:   decimal.NewFromInt(500),
			CreditAmount:  decimal.NewFromInt(500),
		},
	}
	suite.mockApprovalService.On("Approve", mock.Anything, ref, "approver-1").Return(outcome, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/approvals/purchase/PO-1/approve", nil, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ApprovalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.Approved, resp.Transaction.ApprovalStatus)
	suite.Require().NotNil(resp.Journal)
	suite.Equal("JRN-20260828T100000-abcd1234", resp.Journal.JournalRef)
	suite.True(resp.Journal.DebitAmount.Equal(resp.Journal.CreditAmount))
	suite.mockApprovalService.AssertExpectations(suite.T())
}

func (suite *ApprovalHandlerTestSuite) TestApprove_UnknownSourceType() {
	token := suite.generateTestToken("approver-1")

	w := suite.doRequest(http.MethodPost, "/api/v1/approvals/mystery/PO-1/approve", nil, token)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockApprovalService.AssertNotCalled(suite.T(), "Approve", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalHandlerTestSuite) TestApprove_NotFound() {
	token := suite.generateTestToken("approver-1")
	ref := domain.TransactionRef{SourceType: domain.SourceExpense, ID: "missing"}
	suite.mockApprovalService.On("Approve", mock.Anything, ref, "approver-1").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/approvals/expense/missing/approve", nil, token)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ApprovalHandlerTestSuite) TestApprove_AlreadyProcessed() {
	token := suite.generateTestToken("approver-1")
	ref := domain.TransactionRef{SourceType: domain.SourcePurchase, ID: "PO-2"}
	suite.mockApprovalService.On("Approve", mock.Anything, ref, "approver-1").
		Return(nil, apperrors.ErrAlreadyProcessed).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/approvals/purchase/PO-2/approve", nil, token)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ApprovalHandlerTestSuite) TestReject_Success() {
	token := suite.generateTestToken("approver-1")
	ref := domain.TransactionRef{SourceType: domain.SourceCashDisbursement, ID: "CD-1"}
	rejected := &domain.PendingTransaction{
		ID:              "CD-1",
		SourceType:      domain.SourceCashDisbursement,
		Amount:          decimal.NewFromInt(75),
		ApprovalStatus:  domain.Rejected,
		ApprovedBy:      "approver-1",
		RejectionReason: "missing receipt",
	}
	suite.mockApprovalService.On("Reject", mock.Anything, ref, "approver-1", "missing receipt").
		Return(rejected, nil).Once()

	body, _ := json.Marshal(dto.RejectRequest{Reason: "missing receipt"})
	w := suite.doRequest(http.MethodPost, "/api/v1/approvals/cash_disbursement/CD-1/reject", body, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PendingTransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.Rejected, resp.ApprovalStatus)
	suite.Equal("missing receipt", resp.RejectionReason)
	suite.Empty(resp.JournalRef)
	suite.mockApprovalService.AssertExpectations(suite.T())
}

func (suite *ApprovalHandlerTestSuite) TestReject_MissingReason() {
	token := suite.generateTestToken("approver-1")

	w := suite.doRequest(http.MethodPost, "/api/v1/approvals/purchase/PO-1/reject", []byte(`{}`), token)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockApprovalService.AssertNotCalled(suite.T(), "Reject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalHandlerTestSuite) TestGetJournal_Success() {
	token := suite.generateTestToken("approver-1")
	ref := domain.TransactionRef{SourceType: domain.SourcePurchase, ID: "PO-1"}
	entry := &domain.JournalEntry{
		JournalRef:    "JRN-20260828T100000-abcd1234",
		SourceType:    domain.SourcePurchase,
		SourceID:      "PO-1",
		DebitAccount:  "6-2000",
		CreditAccount: "2-1000",
		DebitAmount:   decimal.NewFromInt(500),
		CreditAmount:  decimal.NewFromInt(500),
	}
	suite.mockApprovalService.On("GetJournal", mock.Anything, ref).Return(entry, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/approvals/purchase/PO-1/journal", nil, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("JRN-20260828T100000-abcd1234", resp.JournalRef)
	suite.Equal("PO-1", resp.SourceID)
}

func (suite *ApprovalHandlerTestSuite) TestGetJournal_NotFound() {
	token := suite.generateTestToken("approver-1")
	ref := domain.TransactionRef{SourceType: domain.SourcePurchase, ID: "PO-1"}
	suite.mockApprovalService.On("GetJournal", mock.Anything, ref).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/approvals/purchase/PO-1/journal", nil, token)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ApprovalHandlerTestSuite) TestGetJournalByRef_Success() {
	token := suite.generateTestToken("approver-1")
	entry := &domain.JournalEntry{
		JournalRef:    "JRN-20260828T100000-abcd1234",
		SourceType:    domain.SourceExpense,
		SourceID:      "EXP-1",
		DebitAccount:  "6-1100",
		CreditAccount: "1-1000",
		DebitAmount:   decimal.NewFromInt(120),
		CreditAmount:  decimal.NewFromInt(120),
	}
	suite.mockApprovalService.On("GetJournalByRef", mock.Anything, "JRN-20260828T100000-abcd1234").
		Return(entry, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/journals/JRN-20260828T100000-abcd1234", nil, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("EXP-1", resp.SourceID)
}

func (suite *ApprovalHandlerTestSuite) TestReconciliation_ReportsIssues() {
	token := suite.generateTestToken("approver-1")
	issues := []domain.ReconciliationIssue{
		{
			Kind:          domain.AmountMismatch,
			Ref:           domain.TransactionRef{SourceType: domain.SourcePurchase, ID: "PO-3"},
			JournalRef:    "JRN-20260828T090000-ffff0000",
			SourceStatus:  domain.Approved,
			SourceAmount:  decimal.NewFromInt(500),
			JournalAmount: decimal.NewFromInt(450),
		},
	}
	suite.mockApprovalService.On("Reconcile", mock.Anything).Return(issues, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/approvals/reconciliation", nil, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ReconciliationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Consistent)
	suite.Equal(1, resp.Count)
	suite.Equal(domain.AmountMismatch, resp.Issues[0].Kind)
	suite.mockApprovalService.AssertExpectations(suite.T())
}

func (suite *ApprovalHandlerTestSuite) TestReconciliation_Clean() {
	token := suite.generateTestToken("approver-1")
	suite.mockApprovalService.On("Reconcile", mock.Anything).
		Return([]domain.ReconciliationIssue{}, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/approvals/reconciliation", nil, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ReconciliationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Consistent)
	suite.Equal(0, resp.Count)
}

// --- Run Test Suite ---
func TestApprovalHandler(t *testing.T) {
	suite.Run(t, new(ApprovalHandlerTestSuite))
}
