package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	portsrepo "github.com/hrplane/approval_flow_app/internal/core/ports/repositories"
	"github.com/hrplane/approval_flow_app/internal/models"
	"github.com/hrplane/approval_flow_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEmployeeRepository struct {
	BaseRepository
}

// newPgxEmployeeRepository creates a new employee repository.
func newPgxEmployeeRepository(pool *pgxpool.Pool) portsrepo.EmployeeRepositoryFacade {
	return &PgxEmployeeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxEmployeeRepository implements portsrepo.EmployeeRepositoryFacade
var _ portsrepo.EmployeeRepositoryFacade = (*PgxEmployeeRepository)(nil)

const employeeColumns = `
	employee_id, name, username, password_hash, refresh_token_hash, refresh_token_expiry_time,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at
`

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var m models.Employee
	err := row.Scan(
		&m.EmployeeID,
		&m.Name,
		&m.Username,
		&m.PasswordHash,
		&m.RefreshTokenHash,
		&m.RefreshTokenExpiryTime,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveEmployee persists a new employee.
func (r *PgxEmployeeRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	m := mapping.ToModelEmployee(employee)
	query := `
		INSERT INTO employees (
			employee_id, name, username, password_hash,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EmployeeID,
		m.Name,
		m.Username,
		m.PasswordHash,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("username " + m.Username + " already taken")
		}
		return apperrors.NewAppError(500, "failed to insert employee "+m.EmployeeID, err)
	}
	return nil
}

// FindEmployeeByID retrieves an employee by id. Soft-deleted rows are excluded.
func (r *PgxEmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = $1 AND deleted_at IS NULL;`

	m, err := scanEmployee(r.Pool.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find employee by ID "+employeeID, err)
	}

	emp := mapping.ToDomainEmployee(*m)
	return &emp, nil
}

// FindEmployeesByIDs retrieves multiple employees keyed by id.
func (r *PgxEmployeeRepository) FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error) {
	if len(employeeIDs) == 0 {
		return map[string]domain.Employee{}, nil
	}

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = ANY($1) AND deleted_at IS NULL;`
	rows, err := r.Pool.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query employees by IDs", err)
	}
	defer rows.Close()

	employees := make(map[string]domain.Employee)
	for rows.Next() {
		m, scanErr := scanEmployee(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan employee row", scanErr)
		}
		employees[m.EmployeeID] = mapping.ToDomainEmployee(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating employee rows", err)
	}
	return employees, nil
}

// FindEmployeeByUsername retrieves an employee by login identity.
func (r *PgxEmployeeRepository) FindEmployeeByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE username = $1 AND deleted_at IS NULL;`

	m, err := scanEmployee(r.Pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find employee by username", err)
	}

	emp := mapping.ToDomainEmployee(*m)
	return &emp, nil
}

// UpdateRefreshToken stores the hash and expiry of a freshly issued refresh token.
func (r *PgxEmployeeRepository) UpdateRefreshToken(ctx context.Context, employeeID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	query := `
		UPDATE employees
		SET refresh_token_hash = $2, refresh_token_expiry_time = $3, last_updated_at = NOW(), last_updated_by = $1
		WHERE employee_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, employeeID, refreshTokenHash, refreshTokenExpiryTime)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update refresh token for employee "+employeeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("employee " + employeeID + " not found for token update")
	}
	return nil
}

// ClearRefreshToken invalidates the stored refresh token on logout.
func (r *PgxEmployeeRepository) ClearRefreshToken(ctx context.Context, employeeID string) error {
	query := `
		UPDATE employees
		SET refresh_token_hash = '', refresh_token_expiry_time = NULL, last_updated_at = NOW(), last_updated_by = $1
		WHERE employee_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, employeeID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to clear refresh token for employee "+employeeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("employee " + employeeID + " not found for token clear")
	}
	return nil
}
