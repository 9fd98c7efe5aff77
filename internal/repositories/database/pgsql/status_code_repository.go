package pgsql

import (
	"context"
	"errors"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	portsrepo "github.com/hrplane/approval_flow_app/internal/core/ports/repositories"
	"github.com/hrplane/approval_flow_app/internal/models"
	"github.com/hrplane/approval_flow_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxStatusCodeRepository struct {
	BaseRepository
}

// newPgxStatusCodeRepository creates a new repository over the status vocabulary table.
func newPgxStatusCodeRepository(pool *pgxpool.Pool) portsrepo.StatusCodeReader {
	return &PgxStatusCodeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxStatusCodeRepository implements portsrepo.StatusCodeReader
var _ portsrepo.StatusCodeReader = (*PgxStatusCodeRepository)(nil)

const statusCodeColumns = `
	status_code_id, category, name,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanStatusCode(row pgx.Row) (*models.StatusCode, error) {
	var m models.StatusCode
	err := row.Scan(
		&m.StatusCodeID,
		&m.Category,
		&m.Name,
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

// FindStatusCode retrieves a vocabulary row by category and symbolic name.
func (r *PgxStatusCodeRepository) FindStatusCode(ctx context.Context, category domain.StatusCategory, name string) (*domain.StatusCode, error) {
	query := `SELECT ` + statusCodeColumns + ` FROM status_codes WHERE category = $1 AND name = $2;`

	m, err := scanStatusCode(r.Pool.QueryRow(ctx, query, models.StatusCategory(category), name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find status code "+string(category)+"/"+name, err)
	}

	sc := mapping.ToDomainStatusCode(*m)
	return &sc, nil
}

// FindStatusCodeByID retrieves a vocabulary row by id.
func (r *PgxStatusCodeRepository) FindStatusCodeByID(ctx context.Context, statusCodeID string) (*domain.StatusCode, error) {
	query := `SELECT ` + statusCodeColumns + ` FROM status_codes WHERE status_code_id = $1;`

	m, err := scanStatusCode(r.Pool.QueryRow(ctx, query, statusCodeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find status code by ID "+statusCodeID, err)
	}

	sc := mapping.ToDomainStatusCode(*m)
	return &sc, nil
}

// ListStatusCodes retrieves the full vocabulary.
func (r *PgxStatusCodeRepository) ListStatusCodes(ctx context.Context) ([]domain.StatusCode, error) {
	query := `SELECT ` + statusCodeColumns + ` FROM status_codes ORDER BY category, name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query status codes", err)
	}
	defer rows.Close()

	codes := []models.StatusCode{}
	for rows.Next() {
		m, scanErr := scanStatusCode(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan status code row", scanErr)
		}
		codes = append(codes, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating status code rows", err)
	}
	return mapping.ToDomainStatusCodeSlice(codes), nil
}
