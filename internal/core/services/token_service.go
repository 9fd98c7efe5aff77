package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	portssvc "github.com/hrplane/approval_flow_app/internal/core/ports/services"
	"github.com/hrplane/approval_flow_app/internal/platform/config"
	"github.com/hrplane/approval_flow_app/internal/utils"
)

// tokenService implements the TokenSvcFacade for handling JWT and refresh tokens.
type tokenService struct {
	cfg         *config.Config
	employeeSvc portssvc.EmployeeReaderSvc
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, employeeSvc portssvc.EmployeeReaderSvc) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:         cfg,
		employeeSvc: employeeSvc,
	}
}

// Ensure tokenService implements the portssvc.TokenSvcFacade interface
var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the given employee.
func (s *tokenService) GenerateAccessToken(ctx context.Context, employee *domain.Employee) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(employee.EmployeeID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}

// GenerateRefreshToken creates a new opaque refresh token for the given employee.
// The raw token is returned to the caller; only its hash is ever persisted.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, employee *domain.Employee) (string, time.Time, error) {
	rawRefreshToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate secure random string for refresh token: %w", err)
	}

	expiryTime := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)
	return rawRefreshToken, expiryTime, nil
}

// ValidateAndParseRefreshToken validates a refresh token string against the
// stored hash and returns the associated employee.
func (s *tokenService) ValidateAndParseRefreshToken(ctx context.Context, employeeID string, refreshTokenString string) (*domain.Employee, error) {
	employee, err := s.employeeSvc.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to retrieve employee for refresh token validation: %w", err)
	}

	if employee.RefreshTokenHash == "" || employee.RefreshTokenExpiryTime == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if time.Now().After(*employee.RefreshTokenExpiryTime) {
		return nil, apperrors.ErrRefreshTokenExpired
	}

	if !utils.CompareRefreshTokenHash(refreshTokenString, employee.RefreshTokenHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return employee, nil
}
