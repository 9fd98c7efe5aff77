package services

import (
	"context"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
	"github.com/hrplane/approval_flow_app/internal/dto"
)

// ApprovalSubmitSvc routes a new document through a named approver chain.
type ApprovalSubmitSvc interface {
	// SubmitDocument persists the document, its ordered lines and its watcher
	// references atomically and returns the materialized aggregate.
	SubmitDocument(ctx context.Context, req dto.SubmitApprovalRequest, submitterID string) (*domain.ApprovalDocument, error)
}

// ApprovalDecideSvc settles the currently AWAITING line of a document.
type ApprovalDecideSvc interface {
	// DecideLine applies one approver's decision to a line and advances or
	// terminalizes the document accordingly.
	DecideLine(ctx context.Context, lineID string, req dto.DecideLineRequest, deciderID string) (*domain.ApprovalDocument, error)
}

// ApprovalViewerSvc reads a single document.
type ApprovalViewerSvc interface {
	// GetDocument returns the materialized document. When the viewer holds a
	// reference whose first-view timestamp is unset, it is stamped exactly once.
	GetDocument(ctx context.Context, documentID string, viewerID string) (*domain.ApprovalDocument, error)
}

// ApprovalInboxSvc provides the per-employee read projections.
type ApprovalInboxSvc interface {
	// ListPending returns documents where the viewer has an unsettled line and
	// the document is still in progress.
	ListPending(ctx context.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error)

	// ListDrafted returns documents created by the viewer, any status.
	ListDrafted(ctx context.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error)

	// ListReferenced returns documents the viewer watches, any status.
	ListReferenced(ctx context.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error)

	// ListCompleted returns terminal documents where the viewer held a line.
	ListCompleted(ctx context.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error)
}

// ApprovalSvcFacade combines all approval workflow service interfaces.
type ApprovalSvcFacade interface {
	ApprovalSubmitSvc
	ApprovalDecideSvc
	ApprovalViewerSvc
	ApprovalInboxSvc
}
