package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeplanner/core/internal/adapters/repository"
	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/clock"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
)

func TestSweeper_SweepPrunesDeletedNotes(t *testing.T) {
	svc, _, clk := newTaskFixture(t)
	ctx := context.Background()

	_, err := svc.AddQuickNote(ctx, "milk", "2024-05-01")
	require.NoError(t, err)
	_, err = svc.Add(ctx, entities.CreateTaskRequest{Title: "keep", Date: "2024-05-01"})
	require.NoError(t, err)

	sweeper := NewSweeper(svc, time.Hour, logger.NewNop())
	assert.Equal(t, 0, sweeper.Sweep(ctx))

	clk.Advance(31 * 24 * time.Hour)
	assert.Equal(t, 1, sweeper.Sweep(ctx))
	require.Len(t, svc.Tasks(), 1)
	assert.Equal(t, "keep", svc.Tasks()[0].Title)
}

func TestSweeper_FailedReadKeepsTasks(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	store := &flakyStore{countingStore: newCountingStore()}
	svc := NewTaskService(repository.NewTaskRepository(store, log), clock.NewFake(epoch), log)
	svc.Load(ctx)

	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.Add(ctx, entities.CreateTaskRequest{Title: title, Date: "2024-05-01"})
		require.NoError(t, err)
	}

	store.failing.Store(true)
	assert.Equal(t, 0, NewSweeper(svc, time.Hour, log).Sweep(ctx))
	store.failing.Store(false)

	_, err := svc.Add(ctx, entities.CreateTaskRequest{Title: "d", Date: "2024-05-01"})
	require.NoError(t, err)
	assert.Len(t, svc.Tasks(), 4)

	fresh := NewTaskService(repository.NewTaskRepository(store, log), clock.NewFake(epoch), log)
	assert.Len(t, fresh.Load(ctx), 4)
}

func TestSweeper_StartStop(t *testing.T) {
	svc, _, clk := newTaskFixture(t)
	ctx := context.Background()

	_, err := svc.AddQuickNote(ctx, "milk", "2024-05-01")
	require.NoError(t, err)
	clk.Advance(31 * 24 * time.Hour)

	sweeper := NewSweeper(svc, 5*time.Millisecond, logger.NewNop())
	sweeper.Start()
	sweeper.Start()

	assert.Eventually(t, func() bool { return len(svc.Tasks()) == 0 }, time.Second, 5*time.Millisecond)

	sweeper.Stop()
	sweeper.Stop()
}

func TestSweeper_DisabledInterval(t *testing.T) {
	svc, _, _ := newTaskFixture(t)

	sweeper := NewSweeper(svc, 0, logger.NewNop())
	sweeper.Start()
	sweeper.Stop()
}
