package services

import (
	"context"
	"time"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
)

// TokenSvcFacade handles JWT access tokens and opaque refresh tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT for the employee.
	GenerateAccessToken(ctx context.Context, employee *domain.Employee) (string, time.Time, error)

	// GenerateRefreshToken creates a new opaque refresh token and its expiry.
	GenerateRefreshToken(ctx context.Context, employee *domain.Employee) (string, time.Time, error)

	// ValidateAndParseRefreshToken validates a refresh token for the employee
	// and returns the employee when it matches the stored hash.
	ValidateAndParseRefreshToken(ctx context.Context, employeeID string, refreshToken string) (*domain.Employee, error)
}
