package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.RunReport
	// order holds IDs in save order.
	order []string
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.RunReport),
	}
}

// SaveRun stores or replaces a run report.
func (s *RunStore) SaveRun(_ context.Context, report *domain.RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[report.ID]; !exists {
		s.order = append(s.order, report.ID)
	}
	stored := *report
	stored.Failures = slices.Clone(report.Failures)
	s.runs[report.ID] = stored
	return nil
}

// GetRun retrieves a run by ID.
func (s *RunStore) GetRun(_ context.Context, id string) (*domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	run.Failures = slices.Clone(run.Failures)
	return &run, nil
}

// ListRuns returns runs newest first, without failures.
func (s *RunStore) ListRuns(_ context.Context, limit int) ([]domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.RunReport, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		run := s.runs[s.order[i]]
		run.Failures = nil
		result = append(result, run)
	}
	return result, nil
}
