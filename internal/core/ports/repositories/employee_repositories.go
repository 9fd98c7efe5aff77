package repositories

import (
	"context"
	"time"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
)

// EmployeeReader defines read operations for the employee directory.
type EmployeeReader interface {
	// FindEmployeeByID retrieves a specific employee by id.
	FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)

	// FindEmployeesByIDs retrieves multiple employees keyed by id. Missing ids
	// are simply absent from the map.
	FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error)

	// FindEmployeeByUsername retrieves an employee by login identity.
	FindEmployeeByUsername(ctx context.Context, username string) (*domain.Employee, error)
}

// EmployeeWriter defines write operations for employee data.
type EmployeeWriter interface {
	// SaveEmployee persists a new employee.
	SaveEmployee(ctx context.Context, employee domain.Employee) error

	// UpdateRefreshToken updates the refresh token details for an employee.
	UpdateRefreshToken(ctx context.Context, employeeID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken clears the refresh token for an employee.
	ClearRefreshToken(ctx context.Context, employeeID string) error
}

// EmployeeRepositoryFacade combines all employee repository interfaces.
type EmployeeRepositoryFacade interface {
	EmployeeReader
	EmployeeWriter
}
