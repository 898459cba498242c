package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/xmlzip/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/xmlzip/internal/core/domain"
)

func TestRunHistoryService(t *testing.T) {
	store := memory.NewRunStore()
	ctx := context.Background()
	require.NoError(t, store.SaveRun(ctx, &domain.RunReport{ID: "one"}))
	require.NoError(t, store.SaveRun(ctx, &domain.RunReport{ID: "two"}))

	service := NewRunHistoryService(store)

	runs, err := service.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "two", runs[0].ID)

	run, err := service.Get(ctx, "one")
	require.NoError(t, err)
	assert.Equal(t, "one", run.ID)

	_, err = service.Get(ctx, "three")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunHistoryService_NoStore(t *testing.T) {
	service := NewRunHistoryService(nil)

	_, err := service.List(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrRunStoreUnavailable)

	_, err = service.Get(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrRunStoreUnavailable)
}
