package driving

import (
	"context"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
)

// RunHistory exposes persisted run reports.
type RunHistory interface {
	// List returns the most recent runs first.
	List(ctx context.Context, limit int) ([]domain.RunReport, error)

	// Get returns one run with its failures.
	Get(ctx context.Context, id string) (*domain.RunReport, error)
}
