package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	portsrepo "github.com/hrplane/approval_flow_app/internal/core/ports/repositories"
	portssvc "github.com/hrplane/approval_flow_app/internal/core/ports/services"
	"github.com/hrplane/approval_flow_app/internal/middleware"
)

// statusResolverService maps symbolic status names to vocabulary row ids.
// The vocabulary is seeded by migration and effectively immutable at runtime,
// so resolved entries are cached for the life of the process.
type statusResolverService struct {
	statusRepo portsrepo.StatusCodeReader

	mu      sync.RWMutex
	byName  map[string]domain.StatusCode // key: category + "/" + name
	byID    map[string]domain.StatusCode
}

// NewStatusResolverService creates a new StatusResolverService.
func NewStatusResolverService(statusRepo portsrepo.StatusCodeReader) portssvc.StatusResolverSvc {
	return &statusResolverService{
		statusRepo: statusRepo,
		byName:     make(map[string]domain.StatusCode),
		byID:       make(map[string]domain.StatusCode),
	}
}

// Ensure statusResolverService implements the portssvc.StatusResolverSvc interface
var _ portssvc.StatusResolverSvc = (*statusResolverService)(nil)

func nameKey(category domain.StatusCategory, name string) string {
	return string(category) + "/" + name
}

func (s *statusResolverService) cached(key string) (domain.StatusCode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.byName[key]
	return sc, ok
}

func (s *statusResolverService) store(sc domain.StatusCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName[nameKey(sc.Category, sc.Name)] = sc
	s.byID[sc.StatusCodeID] = sc
}

// Resolve returns the status code id for a category + symbolic name. A name
// missing from the vocabulary table is a deployment defect.
func (s *statusResolverService) Resolve(ctx context.Context, category domain.StatusCategory, name string) (string, error) {
	key := nameKey(category, name)
	if sc, ok := s.cached(key); ok {
		return sc.StatusCodeID, nil
	}

	sc, err := s.statusRepo.FindStatusCode(ctx, category, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger := middleware.GetLoggerFromCtx(ctx)
			logger.Error("Status vocabulary has no entry", slog.String("category", string(category)), slog.String("name", name))
			return "", fmt.Errorf("%w: status %s/%s is not provisioned", apperrors.ErrConfiguration, category, name)
		}
		return "", fmt.Errorf("failed to resolve status %s/%s: %w", category, name, err)
	}

	s.store(*sc)
	return sc.StatusCodeID, nil
}

// ResolveByID returns the vocabulary row for a status code id.
func (s *statusResolverService) ResolveByID(ctx context.Context, statusCodeID string) (*domain.StatusCode, error) {
	s.mu.RLock()
	sc, ok := s.byID[statusCodeID]
	s.mu.RUnlock()
	if ok {
		return &sc, nil
	}

	found, err := s.statusRepo.FindStatusCodeByID(ctx, statusCodeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: status code %s", apperrors.ErrNotFound, statusCodeID)
		}
		return nil, fmt.Errorf("failed to resolve status code %s: %w", statusCodeID, err)
	}

	s.store(*found)
	return found, nil
}

// ListStatusCodes returns the full vocabulary, uncached.
func (s *statusResolverService) ListStatusCodes(ctx context.Context) ([]domain.StatusCode, error) {
	codes, err := s.statusRepo.ListStatusCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list status codes: %w", err)
	}
	return codes, nil
}
