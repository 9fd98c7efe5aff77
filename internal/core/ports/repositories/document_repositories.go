package repositories

import (
	"context"
	"time"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// DocumentReader defines read operations on the document aggregate.
type DocumentReader interface {
	// FindDocumentByID retrieves the document row only (no children).
	FindDocumentByID(ctx context.Context, documentID string) (*domain.ApprovalDocument, error)

	// FindLineByID retrieves a single approval line by its id.
	FindLineByID(ctx context.Context, lineID string) (*domain.ApprovalLine, error)

	// FindLinesByDocumentID retrieves all lines of a document, ascending by order.
	FindLinesByDocumentID(ctx context.Context, documentID string) ([]domain.ApprovalLine, error)

	// FindLinesByDocumentIDs retrieves lines for many documents at once,
	// keyed by document id. Documents with no lines get an empty slice.
	FindLinesByDocumentIDs(ctx context.Context, documentIDs []string) (map[string][]domain.ApprovalLine, error)

	// FindReferencesByDocumentID retrieves all watcher rows of a document.
	FindReferencesByDocumentID(ctx context.Context, documentID string) ([]domain.ApprovalReference, error)

	// FindReferencesByDocumentIDs retrieves references for many documents at once.
	FindReferencesByDocumentIDs(ctx context.Context, documentIDs []string) (map[string][]domain.ApprovalReference, error)

	// FindReference retrieves the watcher row for one employee on one document,
	// or apperrors.ErrNotFound if the employee is not a watcher there.
	FindReference(ctx context.Context, documentID, employeeID string) (*domain.ApprovalReference, error)
}

// DocumentWriter defines write operations outside a decision transaction.
type DocumentWriter interface {
	// SaveDocument persists a new document with its lines and references as
	// one atomic unit.
	SaveDocument(ctx context.Context, doc domain.ApprovalDocument, lines []domain.ApprovalLine, refs []domain.ApprovalReference) error

	// MarkReferenceViewed stamps first_viewed_at if it is still null.
	// Returns true when this call performed the stamp.
	MarkReferenceViewed(ctx context.Context, referenceID string, viewedAt time.Time) (bool, error)
}

// DocumentDecisionSupport defines the tx-scoped operations used by decide.
// The caller owns the transaction; every method here must run on it so the
// row lock taken by FindLineForUpdate covers the whole transition.
type DocumentDecisionSupport interface {
	// FindLineForUpdate selects the line and locks its row until commit.
	FindLineForUpdate(ctx context.Context, tx pgx.Tx, lineID string) (*domain.ApprovalLine, error)

	// SettleLineInTx writes the terminal status, comment and decision time of a line.
	SettleLineInTx(ctx context.Context, tx pgx.Tx, lineID string, status domain.LineStatus, comment *string, decidedAt time.Time, deciderID string) error

	// FindLineByDocumentAndOrderInTx looks up the line at the given order on a
	// document, or apperrors.ErrNotFound when the chain ends there.
	FindLineByDocumentAndOrderInTx(ctx context.Context, tx pgx.Tx, documentID string, order int) (*domain.ApprovalLine, error)

	// SetLineAwaitingInTx promotes a PENDING line to AWAITING.
	SetLineAwaitingInTx(ctx context.Context, tx pgx.Tx, lineID string, updaterID string, now time.Time) error

	// UpdateDocumentStatusInTx sets the document status and last-updater.
	UpdateDocumentStatusInTx(ctx context.Context, tx pgx.Tx, documentID string, status domain.DocumentStatus, updaterID string, now time.Time) error
}

// DocumentInboxReader defines the per-employee projection queries. Each returns
// document rows only; callers batch-load children. nextToken follows the
// (created_at, document_id) cursor scheme.
type DocumentInboxReader interface {
	// ListPendingForApprover: viewer holds a PENDING or AWAITING line and the
	// document is still IN_PROGRESS.
	ListPendingForApprover(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error)

	// ListDraftedByEmployee: documents created by the viewer, any status.
	ListDraftedByEmployee(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error)

	// ListReferencedToEmployee: documents where the viewer holds a reference.
	ListReferencedToEmployee(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error)

	// ListCompletedForApprover: viewer holds a line (any status) and the
	// document is APPROVED or REJECTED.
	ListCompletedForApprover(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error)
}

// DocumentRepositoryFacade combines all document-aggregate repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
	DocumentDecisionSupport
	DocumentInboxReader
}

// DocumentRepositoryWithTx extends DocumentRepositoryFacade with transaction capabilities.
type DocumentRepositoryWithTx interface {
	DocumentRepositoryFacade
	TransactionManager
}
