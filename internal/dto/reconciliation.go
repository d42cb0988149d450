package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mahligai/cargo_backoffice/internal/core/domain"
)

// ReconciliationIssueResponse defines the data returned for one detected
// status/journal inconsistency.
type ReconciliationIssueResponse struct {
	Kind          domain.ReconciliationIssueKind `json:"kind"`
	SourceType    domain.SourceType              `json:"sourceType"`
	SourceID      string                         `json:"sourceID"`
	JournalRef    string                         `json:"journalRef,omitempty"`
	SourceStatus  domain.ApprovalStatus          `json:"sourceStatus,omitempty"`
	SourceAmount  decimal.Decimal                `json:"sourceAmount"`
	JournalAmount decimal.Decimal                `json:"journalAmount"`
	Detail        string                         `json:"detail,omitempty"`
}

// ReconciliationResponse wraps a reconciliation run's findings. Consistent is
// true when no issues were found.
type ReconciliationResponse struct {
	Consistent bool                          `json:"consistent"`
	Issues     []ReconciliationIssueResponse `json:"issues"`
	Count      int                           `json:"count"`
}

// ToReconciliationResponse converts the domain issues to the report DTO.
func ToReconciliationResponse(issues []domain.ReconciliationIssue) ReconciliationResponse {
	res := make([]ReconciliationIssueResponse, len(issues))
	for i, issue := range issues {
		res[i] = ReconciliationIssueResponse{
			Kind:          issue.Kind,
			SourceType:    issue.Ref.SourceType,
			SourceID:      issue.Ref.ID,
			JournalRef:    issue.JournalRef,
			SourceStatus:  issue.SourceStatus,
			SourceAmount:  issue.SourceAmount,
			JournalAmount: issue.JournalAmount,
			Detail:        issue.Detail,
		}
	}
	return ReconciliationResponse{Consistent: len(res) == 0, Issues: res, Count: len(res)}
}
