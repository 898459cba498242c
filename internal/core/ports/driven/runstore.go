package driven

import (
	"context"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
)

// RunStore persists processing run reports.
type RunStore interface {
	// SaveRun stores a run report and its failures.
	SaveRun(ctx context.Context, report *domain.RunReport) error

	// GetRun retrieves a run by ID, including failures.
	// Returns domain.ErrNotFound if no run has that ID.
	GetRun(ctx context.Context, id string) (*domain.RunReport, error)

	// ListRuns returns the most recent runs first, without failures.
	// A limit of zero or less returns all runs.
	ListRuns(ctx context.Context, limit int) ([]domain.RunReport, error)
}
