package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	portsrepo "github.com/hrplane/approval_flow_app/internal/core/ports/repositories"
	"github.com/hrplane/approval_flow_app/internal/models"
	"github.com/hrplane/approval_flow_app/internal/utils/mapping"
	"github.com/hrplane/approval_flow_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for the document aggregate.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryWithTx {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxDocumentRepository implements portsrepo.DocumentRepositoryWithTx
var _ portsrepo.DocumentRepositoryWithTx = (*PgxDocumentRepository)(nil)

const documentColumns = `
	d.document_id, d.title, d.content, d.status, d.start_date, d.end_date,
	d.created_at, d.created_by, d.last_updated_at, d.last_updated_by
`

const lineColumns = `
	line_id, document_id, approval_order, approver_id, status, comment, decided_at,
	created_at, created_by, last_updated_at, last_updated_by
`

const referenceColumns = `
	reference_id, document_id, employee_id, first_viewed_at,
	created_at, created_by, last_updated_at, last_updated_by
`

// SaveDocument persists the document with its lines and references in one
// database transaction.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.ApprovalDocument, lines []domain.ApprovalLine, refs []domain.ApprovalReference) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored if the transaction is committed successfully
	defer r.Rollback(ctx, tx)

	modelDoc := mapping.ToModelDocument(doc)
	docQuery := `
		INSERT INTO approval_documents (
			document_id, title, content, status, start_date, end_date,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, docQuery,
		modelDoc.DocumentID,
		modelDoc.Title,
		modelDoc.Content,
		modelDoc.Status,
		modelDoc.StartDate,
		modelDoc.EndDate,
		modelDoc.CreatedAt,
		modelDoc.CreatedBy,
		modelDoc.LastUpdatedAt,
		modelDoc.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert document "+modelDoc.DocumentID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO approval_lines (
			line_id, document_id, approval_order, approver_id, status, comment, decided_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, line := range lines {
		m := mapping.ToModelLine(line)
		batch.Queue(lineQuery,
			m.LineID,
			m.DocumentID,
			m.ApprovalOrder,
			m.ApproverID,
			m.Status,
			m.Comment,
			m.DecidedAt,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	refQuery := `
		INSERT INTO approval_references (
			reference_id, document_id, employee_id, first_viewed_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, ref := range refs {
		m := mapping.ToModelReference(ref)
		batch.Queue(refQuery,
			m.ReferenceID,
			m.DocumentID,
			m.EmployeeID,
			m.FirstViewedAt,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewConflictError("duplicate line order or reference on document " + modelDoc.DocumentID)
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("referenced employee does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to insert lines/references for document "+modelDoc.DocumentID, err)
	}

	return r.Commit(ctx, tx)
}

// FindDocumentByID retrieves the document row (without children).
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.ApprovalDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM approval_documents d WHERE d.document_id = $1;`

	var m models.ApprovalDocument
	err := r.Pool.QueryRow(ctx, query, documentID).Scan(
		&m.DocumentID,
		&m.Title,
		&m.Content,
		&m.Status,
		&m.StartDate,
		&m.EndDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find document by ID "+documentID, err)
	}

	doc := mapping.ToDomainDocument(m)
	return &doc, nil
}

func scanLine(row pgx.Row) (*models.ApprovalLine, error) {
	var m models.ApprovalLine
	err := row.Scan(
		&m.LineID,
		&m.DocumentID,
		&m.ApprovalOrder,
		&m.ApproverID,
		&m.Status,
		&m.Comment,
		&m.DecidedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindLineByID retrieves a single approval line.
func (r *PgxDocumentRepository) FindLineByID(ctx context.Context, lineID string) (*domain.ApprovalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM approval_lines WHERE line_id = $1;`

	m, err := scanLine(r.Pool.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find line by ID "+lineID, err)
	}

	line := mapping.ToDomainLine(*m)
	return &line, nil
}

func (r *PgxDocumentRepository) queryLines(ctx context.Context, query string, args ...any) ([]models.ApprovalLine, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approval lines", err)
	}
	defer rows.Close()

	lines := []models.ApprovalLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan approval line row", err)
		}
		lines = append(lines, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating approval line rows", err)
	}
	return lines, nil
}

// FindLinesByDocumentID retrieves all lines of a document, ascending by order.
func (r *PgxDocumentRepository) FindLinesByDocumentID(ctx context.Context, documentID string) ([]domain.ApprovalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM approval_lines WHERE document_id = $1 ORDER BY approval_order;`
	lines, err := r.queryLines(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLineSlice(lines), nil
}

// FindLinesByDocumentIDs retrieves all lines for a list of documents, keyed by
// document id. Documents with no lines get an empty slice.
func (r *PgxDocumentRepository) FindLinesByDocumentIDs(ctx context.Context, documentIDs []string) (map[string][]domain.ApprovalLine, error) {
	if len(documentIDs) == 0 {
		return map[string][]domain.ApprovalLine{}, nil
	}

	query := `SELECT ` + lineColumns + ` FROM approval_lines WHERE document_id = ANY($1) ORDER BY document_id, approval_order;`
	lines, err := r.queryLines(ctx, query, documentIDs)
	if err != nil {
		return nil, err
	}

	linesMap := make(map[string][]domain.ApprovalLine)
	for _, m := range lines {
		d := mapping.ToDomainLine(m)
		linesMap[d.DocumentID] = append(linesMap[d.DocumentID], d)
	}
	for _, id := range documentIDs {
		if _, exists := linesMap[id]; !exists {
			linesMap[id] = []domain.ApprovalLine{}
		}
	}
	return linesMap, nil
}

func scanReference(row pgx.Row) (*models.ApprovalReference, error) {
	var m models.ApprovalReference
	err := row.Scan(
		&m.ReferenceID,
		&m.DocumentID,
		&m.EmployeeID,
		&m.FirstViewedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxDocumentRepository) queryReferences(ctx context.Context, query string, args ...any) ([]models.ApprovalReference, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approval references", err)
	}
	defer rows.Close()

	refs := []models.ApprovalReference{}
	for rows.Next() {
		m, err := scanReference(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan approval reference row", err)
		}
		refs = append(refs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating approval reference rows", err)
	}
	return refs, nil
}

// FindReferencesByDocumentID retrieves all watcher rows of a document.
func (r *PgxDocumentRepository) FindReferencesByDocumentID(ctx context.Context, documentID string) ([]domain.ApprovalReference, error) {
	query := `SELECT ` + referenceColumns + ` FROM approval_references WHERE document_id = $1;`
	refs, err := r.queryReferences(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainReferenceSlice(refs), nil
}

// FindReferencesByDocumentIDs retrieves references for a list of documents,
// keyed by document id.
func (r *PgxDocumentRepository) FindReferencesByDocumentIDs(ctx context.Context, documentIDs []string) (map[string][]domain.ApprovalReference, error) {
	if len(documentIDs) == 0 {
		return map[string][]domain.ApprovalReference{}, nil
	}

	query := `SELECT ` + referenceColumns + ` FROM approval_references WHERE document_id = ANY($1) ORDER BY document_id;`
	refs, err := r.queryReferences(ctx, query, documentIDs)
	if err != nil {
		return nil, err
	}

	refsMap := make(map[string][]domain.ApprovalReference)
	for _, m := range refs {
		d := mapping.ToDomainReference(m)
		refsMap[d.DocumentID] = append(refsMap[d.DocumentID], d)
	}
	for _, id := range documentIDs {
		if _, exists := refsMap[id]; !exists {
			refsMap[id] = []domain.ApprovalReference{}
		}
	}
	return refsMap, nil
}

// FindReference retrieves one employee's watcher row on one document.
func (r *PgxDocumentRepository) FindReference(ctx context.Context, documentID, employeeID string) (*domain.ApprovalReference, error) {
	query := `SELECT ` + referenceColumns + ` FROM approval_references WHERE document_id = $1 AND employee_id = $2;`

	m, err := scanReference(r.Pool.QueryRow(ctx, query, documentID, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find reference on document "+documentID, err)
	}

	ref := mapping.ToDomainReference(*m)
	return &ref, nil
}

// MarkReferenceViewed stamps first_viewed_at when it is still null. The WHERE
// guard makes the first-view write idempotent under racing view calls.
func (r *PgxDocumentRepository) MarkReferenceViewed(ctx context.Context, referenceID string, viewedAt time.Time) (bool, error) {
	query := `
		UPDATE approval_references
		SET first_viewed_at = $2, last_updated_at = $2
		WHERE reference_id = $1 AND first_viewed_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, referenceID, viewedAt)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to mark reference "+referenceID+" viewed", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// FindLineForUpdate selects the line inside the given transaction and locks
// its row until commit. Concurrent deciders on the same line serialize here.
func (r *PgxDocumentRepository) FindLineForUpdate(ctx context.Context, tx pgx.Tx, lineID string) (*domain.ApprovalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM approval_lines WHERE line_id = $1 FOR UPDATE;`

	m, err := scanLine(tx.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock line "+lineID, err)
	}

	line := mapping.ToDomainLine(*m)
	return &line, nil
}

// SettleLineInTx writes the terminal status of a line within the transaction.
func (r *PgxDocumentRepository) SettleLineInTx(ctx context.Context, tx pgx.Tx, lineID string, status domain.LineStatus, comment *string, decidedAt time.Time, deciderID string) error {
	query := `
		UPDATE approval_lines
		SET status = $2, comment = $3, decided_at = $4, last_updated_at = $4, last_updated_by = $5
		WHERE line_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, lineID, models.LineStatus(status), comment, decidedAt, deciderID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to settle line "+lineID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("line " + lineID + " not found for update")
	}
	return nil
}

// FindLineByDocumentAndOrderInTx looks up the line at the given order on a document.
func (r *PgxDocumentRepository) FindLineByDocumentAndOrderInTx(ctx context.Context, tx pgx.Tx, documentID string, order int) (*domain.ApprovalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM approval_lines WHERE document_id = $1 AND approval_order = $2;`

	m, err := scanLine(tx.QueryRow(ctx, query, documentID, order))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find line at order "+strconv.Itoa(order)+" on document "+documentID, err)
	}

	line := mapping.ToDomainLine(*m)
	return &line, nil
}

// SetLineAwaitingInTx promotes a PENDING line to AWAITING within the transaction.
func (r *PgxDocumentRepository) SetLineAwaitingInTx(ctx context.Context, tx pgx.Tx, lineID string, updaterID string, now time.Time) error {
	query := `
		UPDATE approval_lines
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE line_id = $1 AND status = $5;
	`
	cmdTag, err := tx.Exec(ctx, query, lineID, models.LineAwaiting, now, updaterID, models.LinePending)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set line "+lineID+" awaiting", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// The line was not PENDING; the chain invariant is broken.
		return apperrors.NewConflictError("line " + lineID + " is not pending")
	}
	return nil
}

// UpdateDocumentStatusInTx sets the document status and last-updater.
func (r *PgxDocumentRepository) UpdateDocumentStatusInTx(ctx context.Context, tx pgx.Tx, documentID string, status domain.DocumentStatus, updaterID string, now time.Time) error {
	query := `
		UPDATE approval_documents
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, documentID, models.DocumentStatus(status), now, updaterID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of document "+documentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("document " + documentID + " not found for update")
	}
	return nil
}

// listDocuments runs one inbox projection query with token-based pagination.
// filterJoin carries the projection-specific JOIN/WHERE; $1 is always the
// viewing employee. Ordering is (created_at DESC, document_id DESC) so the
// cursor is stable across inserts.
func (r *PgxDocumentRepository) listDocuments(ctx context.Context, filterJoin string, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT DISTINCT ` + documentColumns + ` FROM approval_documents d ` + filterJoin
	orderByClause := `ORDER BY d.created_at DESC, d.document_id DESC`

	args := []any{employeeID}
	query := baseQuery

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastDocumentID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewValidationFailedError("invalid nextToken")
		}
		args = append(args, lastCreatedAt, lastDocumentID)
		query += ` AND (d.created_at, d.document_id) < ($2, $3)`
	}

	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query documents for employee "+employeeID, err)
	}
	defer rows.Close()

	modelDocs := make([]models.ApprovalDocument, 0, fetchLimit)
	for rows.Next() {
		var m models.ApprovalDocument
		scanErr := rows.Scan(
			&m.DocumentID,
			&m.Title,
			&m.Content,
			&m.Status,
			&m.StartDate,
			&m.EndDate,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan document row for employee "+employeeID, scanErr)
		}
		modelDocs = append(modelDocs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating document rows for employee "+employeeID, err)
	}

	var nextTokenVal *string
	results := modelDocs
	if len(modelDocs) > limit {
		lastDoc := modelDocs[limit-1]
		token := pagination.EncodeToken(lastDoc.CreatedAt, lastDoc.DocumentID)
		nextTokenVal = &token
		results = modelDocs[:limit]
	}

	domainDocs := make([]domain.ApprovalDocument, len(results))
	for i, m := range results {
		domainDocs[i] = mapping.ToDomainDocument(m)
	}
	return domainDocs, nextTokenVal, nil
}

// ListPendingForApprover returns in-progress documents where the employee
// holds a not-yet-settled line. PENDING lines are included for look-ahead;
// the UI distinguishes actionable AWAITING lines.
func (r *PgxDocumentRepository) ListPendingForApprover(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error) {
	filter := `
		JOIN approval_lines l ON d.document_id = l.document_id
		WHERE l.approver_id = $1
		  AND l.status IN ('PENDING', 'AWAITING')
		  AND d.status = 'IN_PROGRESS'`
	return r.listDocuments(ctx, filter, employeeID, limit, nextToken)
}

// ListDraftedByEmployee returns documents the employee created, any status.
func (r *PgxDocumentRepository) ListDraftedByEmployee(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error) {
	filter := `WHERE d.created_by = $1`
	return r.listDocuments(ctx, filter, employeeID, limit, nextToken)
}

// ListReferencedToEmployee returns documents the employee watches, any status.
func (r *PgxDocumentRepository) ListReferencedToEmployee(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error) {
	filter := `
		JOIN approval_references ref ON d.document_id = ref.document_id
		WHERE ref.employee_id = $1`
	return r.listDocuments(ctx, filter, employeeID, limit, nextToken)
}

// ListCompletedForApprover returns terminal documents where the employee held
// a line, regardless of how that line itself settled.
func (r *PgxDocumentRepository) ListCompletedForApprover(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error) {
	filter := `
		JOIN approval_lines l ON d.document_id = l.document_id
		WHERE l.approver_id = $1
		  AND d.status IN ('APPROVED', 'REJECTED')`
	return r.listDocuments(ctx, filter, employeeID, limit, nextToken)
}
