package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	portsrepo "github.com/hrplane/approval_flow_app/internal/core/ports/repositories"
	portssvc "github.com/hrplane/approval_flow_app/internal/core/ports/services"
	"github.com/hrplane/approval_flow_app/internal/dto"
	"github.com/hrplane/approval_flow_app/internal/middleware"
	"github.com/hrplane/approval_flow_app/internal/utils"
)

// employeeService provides operations over the employee directory.
type employeeService struct {
	employeeRepo portsrepo.EmployeeRepositoryFacade
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(employeeRepo portsrepo.EmployeeRepositoryFacade) portssvc.EmployeeSvcFacade {
	return &employeeService{
		employeeRepo: employeeRepo,
	}
}

// Ensure employeeService implements the portssvc.EmployeeSvcFacade interface
var _ portssvc.EmployeeSvcFacade = (*employeeService)(nil)

// CreateEmployee creates a new employee with a bcrypt password hash.
// Implements portssvc.EmployeeWriterSvc
func (s *employeeService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest, creatorID string) (*domain.Employee, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password for new employee", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	employeeID := uuid.NewString()
	if creatorID == "" {
		// Self-registration: the new employee is its own creator.
		creatorID = employeeID
	}

	employee := domain.Employee{
		EmployeeID:   employeeID,
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: hashedPassword,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.employeeRepo.SaveEmployee(ctx, employee); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to save employee", slog.String("error", err.Error()), slog.String("username", req.Username))
		}
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}

	logger.Info("Employee created", slog.String("employee_id", employeeID))
	return &employee, nil
}

// GetEmployeeByID retrieves an employee by id.
// Implements portssvc.EmployeeReaderSvc
func (s *employeeService) GetEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	employee, err := s.employeeRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee %s: %w", employeeID, err)
	}
	return employee, nil
}

// GetEmployeesByIDs retrieves multiple employees keyed by id.
// Implements portssvc.EmployeeReaderSvc
func (s *employeeService) GetEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error) {
	employees, err := s.employeeRepo.FindEmployeesByIDs(ctx, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find employees by ids: %w", err)
	}
	return employees, nil
}

// GetEmployeeByUsername retrieves an employee by login identity.
// Implements portssvc.EmployeeReaderSvc
func (s *employeeService) GetEmployeeByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	employee, err := s.employeeRepo.FindEmployeeByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee by username: %w", err)
	}
	return employee, nil
}

// AuthenticateEmployee verifies username/password credentials. Both a missing
// employee and a wrong password collapse to Unauthorized.
// Implements portssvc.EmployeeAuthSvc
func (s *employeeService) AuthenticateEmployee(ctx context.Context, username, password string) (*domain.Employee, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	employee, err := s.employeeRepo.FindEmployeeByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		logger.Error("Failed to look up employee during authentication", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if !utils.CheckPasswordHash(password, employee.PasswordHash) {
		logger.Warn("Password mismatch on login", slog.String("employee_id", employee.EmployeeID))
		return nil, apperrors.ErrUnauthorized
	}

	return employee, nil
}

// UpdateRefreshToken updates the refresh token details for an employee.
// Implements portssvc.EmployeeWriterSvc
func (s *employeeService) UpdateRefreshToken(ctx context.Context, employeeID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.employeeRepo.UpdateRefreshToken(ctx, employeeID, refreshTokenHash, refreshTokenExpiryTime); err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	return nil
}

// ClearRefreshToken clears the refresh token for an employee.
// Implements portssvc.EmployeeWriterSvc
func (s *employeeService) ClearRefreshToken(ctx context.Context, employeeID string) error {
	if err := s.employeeRepo.ClearRefreshToken(ctx, employeeID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}
