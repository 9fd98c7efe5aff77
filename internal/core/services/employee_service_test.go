package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	"github.com/hrplane/approval_flow_app/internal/core/services"
	"github.com/hrplane/approval_flow_app/internal/dto"
	"github.com/hrplane/approval_flow_app/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error) {
	args := m.Called(ctx, employeeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindEmployeeByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockEmployeeRepository) UpdateRefreshToken(ctx context.Context, employeeID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, employeeID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockEmployeeRepository) ClearRefreshToken(ctx context.Context, employeeID string) error {
	args := m.Called(ctx, employeeID)
	return args.Error(0)
}

func TestCreateEmployee_HashesPassword(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := services.NewEmployeeService(mockRepo)
	ctx := context.Background()

	var saved domain.Employee
	mockRepo.On("SaveEmployee", ctx, mock.AnythingOfType("domain.Employee")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Employee)
		}).Return(nil).Once()

	req := dto.CreateEmployeeRequest{Name: "Kim Jiho", Username: "jiho.kim", Password: "s3cret-pass"}
	employee, err := service.CreateEmployee(ctx, req, "")

	require.NoError(t, err)
	require.NotNil(t, employee)
	assert.NotEmpty(t, employee.EmployeeID)
	assert.NotEqual(t, req.Password, saved.PasswordHash)
	assert.True(t, utils.CheckPasswordHash(req.Password, saved.PasswordHash))
	// Self-registration: the new employee is its own creator.
	assert.Equal(t, employee.EmployeeID, saved.CreatedBy)
	mockRepo.AssertExpectations(t)
}

func TestCreateEmployee_DuplicateUsername(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := services.NewEmployeeService(mockRepo)
	ctx := context.Background()

	mockRepo.On("SaveEmployee", ctx, mock.AnythingOfType("domain.Employee")).
		Return(apperrors.NewConflictError("username taken")).Once()

	_, err := service.CreateEmployee(ctx, dto.CreateEmployeeRequest{Name: "Kim Jiho", Username: "jiho.kim", Password: "pw"}, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAuthenticateEmployee_Success(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := services.NewEmployeeService(mockRepo)
	ctx := context.Background()

	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	stored := &domain.Employee{EmployeeID: uuid.NewString(), Username: "jiho.kim", PasswordHash: hash}
	mockRepo.On("FindEmployeeByUsername", ctx, "jiho.kim").Return(stored, nil).Once()

	employee, err := service.AuthenticateEmployee(ctx, "jiho.kim", "correct-horse")

	require.NoError(t, err)
	assert.Equal(t, stored.EmployeeID, employee.EmployeeID)
}

func TestAuthenticateEmployee_WrongPassword(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := services.NewEmployeeService(mockRepo)
	ctx := context.Background()

	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	stored := &domain.Employee{EmployeeID: uuid.NewString(), Username: "jiho.kim", PasswordHash: hash}
	mockRepo.On("FindEmployeeByUsername", ctx, "jiho.kim").Return(stored, nil).Once()

	_, err = service.AuthenticateEmployee(ctx, "jiho.kim", "battery-staple")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthenticateEmployee_UnknownUsernameCollapsesToUnauthorized(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := services.NewEmployeeService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindEmployeeByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := service.AuthenticateEmployee(ctx, "ghost", "whatever")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetEmployeeByID_NotFound(t *testing.T) {
	mockRepo := new(MockEmployeeRepository)
	service := services.NewEmployeeService(mockRepo)
	ctx := context.Background()
	employeeID := uuid.NewString()

	mockRepo.On("FindEmployeeByID", ctx, employeeID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := service.GetEmployeeByID(ctx, employeeID)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
