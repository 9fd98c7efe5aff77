package dto

import (
	"sort"
	"time"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
)

// --- Submit ---

// SubmitLineRequest is one approver slot in a submission, 1-based order.
type SubmitLineRequest struct {
	ApprovalOrder int    `json:"approvalOrder" binding:"required,min=1"`
	ApproverID    string `json:"approverID" binding:"required"`
}

// SubmitApprovalRequest defines data for routing a new document.
type SubmitApprovalRequest struct {
	Title      string              `json:"title" binding:"required"`
	Content    string              `json:"content" binding:"required"`
	StartDate  *time.Time          `json:"startDate,omitempty"`
	EndDate    *time.Time          `json:"endDate,omitempty"`
	Lines      []SubmitLineRequest `json:"lines" binding:"required,min=1,dive"`
	References []string            `json:"references,omitempty"` // Watcher employee IDs
}

// --- Decide ---

// DecideLineRequest carries one approver's decision on a line. The status code
// id must resolve to a line-category APPROVED or REJECTED vocabulary entry.
type DecideLineRequest struct {
	StatusCodeID string  `json:"statusCodeID" binding:"required"`
	Comment      *string `json:"comment,omitempty"`
}

// --- Document view ---

// ApprovalLineResponse defines the data returned for one line of the chain.
type ApprovalLineResponse struct {
	LineID        string     `json:"lineID"`
	ApprovalOrder int        `json:"approvalOrder"`
	ApproverID    string     `json:"approverID"`
	Status        string     `json:"status"`
	Comment       *string    `json:"comment,omitempty"`
	DecidedAt     *time.Time `json:"decidedAt,omitempty"`
}

// ApprovalReferenceResponse defines the data returned for one watcher.
type ApprovalReferenceResponse struct {
	EmployeeID    string     `json:"employeeID"`
	FirstViewedAt *time.Time `json:"firstViewedAt,omitempty"`
}

// DocumentResponse is the materialized document view returned by every
// workflow operation and inbox query. Lines are sorted ascending by order.
type DocumentResponse struct {
	DocumentID    string                      `json:"documentID"`
	Title         string                      `json:"title"`
	Content       string                      `json:"content"`
	Status        string                      `json:"status"`
	StartDate     *time.Time                  `json:"startDate,omitempty"`
	EndDate       *time.Time                  `json:"endDate,omitempty"`
	CreatedAt     time.Time                   `json:"createdAt"`
	CreatedBy     string                      `json:"createdBy"`
	LastUpdatedAt time.Time                   `json:"lastUpdatedAt"`
	LastUpdatedBy string                      `json:"lastUpdatedBy"`
	Lines         []ApprovalLineResponse      `json:"lines"`
	References    []ApprovalReferenceResponse `json:"references"`
}

// ToDocumentResponse converts a domain ApprovalDocument to a DocumentResponse DTO.
func ToDocumentResponse(d *domain.ApprovalDocument) DocumentResponse {
	lines := make([]ApprovalLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = ApprovalLineResponse{
			LineID:        l.LineID,
			ApprovalOrder: l.ApprovalOrder,
			ApproverID:    l.ApproverID,
			Status:        string(l.Status),
			Comment:       l.Comment,
			DecidedAt:     l.DecidedAt,
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ApprovalOrder < lines[j].ApprovalOrder })

	refs := make([]ApprovalReferenceResponse, len(d.References))
	for i, r := range d.References {
		refs[i] = ApprovalReferenceResponse{
			EmployeeID:    r.EmployeeID,
			FirstViewedAt: r.FirstViewedAt,
		}
	}

	return DocumentResponse{
		DocumentID:    d.DocumentID,
		Title:         d.Title,
		Content:       d.Content,
		Status:        string(d.Status),
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
		Lines:         lines,
		References:    refs,
	}
}

// --- Inbox listing ---

// ListApprovalsParams captures cursor pagination inputs for the inbox queries.
type ListApprovalsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListApprovalsResponse wraps a page of document views.
type ListApprovalsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}
