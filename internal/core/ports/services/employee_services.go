package services

import (
	"context"
	"time"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
	"github.com/hrplane/approval_flow_app/internal/dto"
)

// EmployeeReaderSvc defines read operations over the employee directory.
type EmployeeReaderSvc interface {
	// GetEmployeeByID retrieves an employee by id.
	GetEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)

	// GetEmployeesByIDs retrieves multiple employees keyed by id.
	GetEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error)

	// GetEmployeeByUsername retrieves an employee by login identity.
	GetEmployeeByUsername(ctx context.Context, username string) (*domain.Employee, error)
}

// EmployeeWriterSvc defines write operations for employee data.
type EmployeeWriterSvc interface {
	// CreateEmployee creates a new employee with a bcrypt password hash.
	CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest, creatorID string) (*domain.Employee, error)

	// UpdateRefreshToken updates the refresh token details for an employee.
	UpdateRefreshToken(ctx context.Context, employeeID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken clears the refresh token for an employee.
	ClearRefreshToken(ctx context.Context, employeeID string) error
}

// EmployeeAuthSvc defines authentication operations.
type EmployeeAuthSvc interface {
	// AuthenticateEmployee verifies username/password credentials.
	AuthenticateEmployee(ctx context.Context, username, password string) (*domain.Employee, error)
}

// EmployeeSvcFacade combines all employee-related service interfaces.
type EmployeeSvcFacade interface {
	EmployeeReaderSvc
	EmployeeWriterSvc
	EmployeeAuthSvc
}
