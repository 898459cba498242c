package services

import (
	"context"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driving"
)

// Ensure RunHistoryService implements the interface.
var _ driving.RunHistory = (*RunHistoryService)(nil)

// RunHistoryService reads persisted run reports.
type RunHistoryService struct {
	store driven.RunStore
}

// NewRunHistoryService creates the service. A nil store reports
// domain.ErrRunStoreUnavailable on every call.
func NewRunHistoryService(store driven.RunStore) *RunHistoryService {
	return &RunHistoryService{store: store}
}

// List returns the most recent runs first.
func (s *RunHistoryService) List(ctx context.Context, limit int) ([]domain.RunReport, error) {
	if s.store == nil {
		return nil, domain.ErrRunStoreUnavailable
	}
	return s.store.ListRuns(ctx, limit)
}

// Get returns one run with its failures.
func (s *RunHistoryService) Get(ctx context.Context, id string) (*domain.RunReport, error) {
	if s.store == nil {
		return nil, domain.ErrRunStoreUnavailable
	}
	return s.store.GetRun(ctx, id)
}
