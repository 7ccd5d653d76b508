package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgeplanner/core/internal/adapters/repository"
	"github.com/forgeplanner/core/internal/adapters/storage"
	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
)

func TestFocusService(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	svc := NewFocusService(repository.NewFocusStatsRepository(storage.NewMemoryStore(), log), log)

	svc.RecordAttempt(ctx, 30)
	svc.RecordAttempt(ctx, 30)
	got := svc.RecordCompletion(ctx, 30)
	assert.Equal(t, entities.DurationStats{Attempts: 2, Completed: 1}, got)
	assert.Equal(t, "✓1/2", got.String())

	svc.RecordAttempt(ctx, 45)
	assert.Equal(t, entities.DurationStats{Attempts: 1}, svc.Stats(ctx, 45))

	assert.Equal(t, entities.DurationStats{}, svc.RecordAttempt(ctx, 25))
	assert.Equal(t, entities.DurationStats{}, svc.Stats(ctx, 25))
	assert.Equal(t, 2, svc.Stats(ctx, 30).Attempts)
}
