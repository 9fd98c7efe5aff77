package repositories

import (
	"context"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
)

// StatusCodeReader defines read operations over the status vocabulary table.
type StatusCodeReader interface {
	// FindStatusCode retrieves a status code by category and symbolic name.
	FindStatusCode(ctx context.Context, category domain.StatusCategory, name string) (*domain.StatusCode, error)

	// FindStatusCodeByID retrieves a status code by its id.
	FindStatusCodeByID(ctx context.Context, statusCodeID string) (*domain.StatusCode, error)

	// ListStatusCodes retrieves the full vocabulary.
	ListStatusCodes(ctx context.Context) ([]domain.StatusCode, error)
}
