package models

import "time"

// DocumentStatus indicates the routing state of an approval document row.
type DocumentStatus string

const (
	DocInProgress DocumentStatus = "IN_PROGRESS"
	DocApproved   DocumentStatus = "APPROVED"
	DocRejected   DocumentStatus = "REJECTED"
)

// LineStatus indicates the state of an approval line row.
type LineStatus string

const (
	LinePending  LineStatus = "PENDING"
	LineAwaiting LineStatus = "AWAITING"
	LineApproved LineStatus = "APPROVED"
	LineRejected LineStatus = "REJECTED"
)

// ApprovalDocument is the routable unit.
type ApprovalDocument struct {
	DocumentID string         `json:"documentID"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Status     DocumentStatus `json:"status"`
	StartDate  *time.Time     `json:"startDate,omitempty"`
	EndDate    *time.Time     `json:"endDate,omitempty"`
	AuditFields
}

// ApprovalLine is one approver slot; unique (document_id, approval_order).
type ApprovalLine struct {
	LineID        string     `json:"lineID"`
	DocumentID    string     `json:"documentID"`
	ApprovalOrder int        `json:"approvalOrder"`
	ApproverID    string     `json:"approverID"`
	Status        LineStatus `json:"status"`
	Comment       *string    `json:"comment,omitempty"`
	DecidedAt     *time.Time `json:"decidedAt,omitempty"`
	AuditFields
}

// ApprovalReference is a watcher row; unique (document_id, employee_id).
type ApprovalReference struct {
	ReferenceID   string     `json:"referenceID"`
	DocumentID    string     `json:"documentID"`
	EmployeeID    string     `json:"employeeID"`
	FirstViewedAt *time.Time `json:"firstViewedAt,omitempty"`
	AuditFields
}
