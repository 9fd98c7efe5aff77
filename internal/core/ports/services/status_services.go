package services

import (
	"context"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
)

// StatusResolverSvc maps symbolic status names to vocabulary row ids and back.
// The workflow engine itself never stores these ids in its decision logic;
// they only cross the wire.
type StatusResolverSvc interface {
	// Resolve returns the status code id for a category + symbolic name.
	// A missing mapping is a configuration defect (apperrors.ErrConfiguration).
	Resolve(ctx context.Context, category domain.StatusCategory, name string) (string, error)

	// ResolveByID returns the vocabulary row for a status code id, or
	// apperrors.ErrNotFound.
	ResolveByID(ctx context.Context, statusCodeID string) (*domain.StatusCode, error)

	// ListStatusCodes returns the full vocabulary.
	ListStatusCodes(ctx context.Context) ([]domain.StatusCode, error)
}
