package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traineo/agenda-api/internal/models"
)

func TestMemoryJobStoreRoundTrip(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()

	job := &models.ImportJob{
		ID:        "job-1",
		ProjectID: "project-1",
		Status:    models.ImportStatusStarting,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Create(ctx, job))

	got, err := store.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ImportStatusStarting, got.Status)

	job.Status = models.ImportStatusInProgress
	job.Processed = 3
	require.NoError(t, store.Save(ctx, job))

	got, err = store.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ImportStatusInProgress, got.Status)
	assert.Equal(t, 3, got.Processed)
}

func TestMemoryJobStoreReturnsSnapshots(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()

	job := &models.ImportJob{
		ID:       "job-1",
		Status:   models.ImportStatusInProgress,
		Warnings: []string{"first"},
	}
	require.NoError(t, store.Save(ctx, job))

	got, err := store.Get(ctx, "job-1")
	require.NoError(t, err)

	// Mutating the returned copy must not leak back into the store.
	got.Warnings = append(got.Warnings, "second")
	got.Status = models.ImportStatusFailed

	fresh, err := store.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, fresh.Warnings)
	assert.Equal(t, models.ImportStatusInProgress, fresh.Status)
}

func TestMemoryJobStoreUnknownID(t *testing.T) {
	store := NewMemoryJobStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}
