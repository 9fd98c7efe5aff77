package domain

import "time"

// DocumentStatus is the routing state of an approval document.
type DocumentStatus string

const (
	DocInProgress DocumentStatus = "IN_PROGRESS"
	DocApproved   DocumentStatus = "APPROVED"
	DocRejected   DocumentStatus = "REJECTED"
)

// IsTerminal reports whether the document can no longer change state.
func (s DocumentStatus) IsTerminal() bool {
	return s == DocApproved || s == DocRejected
}

// LineStatus is the state of one approver's slot in the chain.
type LineStatus string

const (
	LinePending  LineStatus = "PENDING"
	LineAwaiting LineStatus = "AWAITING"
	LineApproved LineStatus = "APPROVED"
	LineRejected LineStatus = "REJECTED"
)

// IsSettled reports whether the line has received its one decision.
func (s LineStatus) IsSettled() bool {
	return s == LineApproved || s == LineRejected
}

// ApprovalDocument is the aggregate root of the routing engine. Its lines and
// references are persisted as separate rows but are mutated only through the
// orchestrator's submit/decide/view operations.
type ApprovalDocument struct {
	DocumentID string         `json:"documentID"` // Primary Key (UUID)
	Title      string         `json:"title"`
	Content    string         `json:"content"` // Rich-text body
	Status     DocumentStatus `json:"status"`
	StartDate  *time.Time     `json:"startDate,omitempty"` // Validity window, consumed downstream
	EndDate    *time.Time     `json:"endDate,omitempty"`
	AuditFields

	Lines      []ApprovalLine      `json:"lines"`      // Always sorted ascending by ApprovalOrder
	References []ApprovalReference `json:"references"` // Unordered
}

// ApprovalLine is one approver's slot in a document's ordered chain.
// Orders are 1-based and contiguous per document.
type ApprovalLine struct {
	LineID        string     `json:"lineID"` // Primary Key (UUID)
	DocumentID    string     `json:"documentID"`
	ApprovalOrder int        `json:"approvalOrder"`
	ApproverID    string     `json:"approverID"` // EmployeeID
	Status        LineStatus `json:"status"`
	Comment       *string    `json:"comment,omitempty"`
	DecidedAt     *time.Time `json:"decidedAt,omitempty"`
	AuditFields
}

// ApprovalReference is a non-blocking watcher attached to a document.
// FirstViewedAt stays nil until the watcher's first successful view.
type ApprovalReference struct {
	ReferenceID   string     `json:"referenceID"` // Primary Key (UUID)
	DocumentID    string     `json:"documentID"`
	EmployeeID    string     `json:"employeeID"`
	FirstViewedAt *time.Time `json:"firstViewedAt,omitempty"`
	AuditFields
}

// LineAtOrder returns the line with the given order among lines, or nil.
func LineAtOrder(lines []ApprovalLine, order int) *ApprovalLine {
	for i := range lines {
		if lines[i].ApprovalOrder == order {
			return &lines[i]
		}
	}
	return nil
}
