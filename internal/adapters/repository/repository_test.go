package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeplanner/core/internal/adapters/storage"
	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

var errDisk = errors.New("disk on fire")

// brokenStore fails every call.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) { return "", false, errDisk }
func (brokenStore) Set(context.Context, string, string) error         { return errDisk }
func (brokenStore) Remove(context.Context, string) error              { return errDisk }

const storedTasks = `[{"id":"1714550400000-abc123def","title":"standup","description":"","date":"2024-05-01",
"completed":false,"color":"blue","tags":["work"],"isRecurring":true,"recurrenceFrequency":"daily",
"recurrenceEndDate":null,"parentTaskId":null,"isQuickNote":false,"expiresAt":null,"deletesAt":null,
"createdAt":"2024-05-01T08:00:00.000Z","order":1714550400000,"timeSpent":15}]`

func TestTaskRepository_MissingKeyIsEmpty(t *testing.T) {
	repo := NewTaskRepository(storage.NewMemoryStore(), logger.NewNop())

	tasks, res := repo.Load(context.Background())
	assert.Equal(t, []entities.Task{}, tasks)
	assert.True(t, res.UsedDefault)
	assert.NoError(t, res.Err)
}

func TestTaskRepository_LoadStoredShape(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, ports.TasksKey, storedTasks))

	tasks, res := NewTaskRepository(store, logger.NewNop()).Load(ctx)
	require.False(t, res.UsedDefault)
	require.Len(t, tasks, 1)
	assert.Equal(t, entities.FrequencyDaily, tasks[0].RecurrenceFrequency)
	assert.Equal(t, 15, tasks[0].TimeSpent)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), tasks[0].CreatedAt.UTC())
}

func TestTaskRepository_SaveLoadFixedPoint(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, ports.TasksKey, storedTasks))
	repo := NewTaskRepository(store, logger.NewNop())

	first, _ := repo.Load(ctx)
	require.NoError(t, repo.Save(ctx, first))
	raw1, _, _ := store.Get(ctx, ports.TasksKey)

	second, _ := repo.Load(ctx)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("load after save differs (-first +second):\n%s", diff)
	}
	require.NoError(t, repo.Save(ctx, second))
	raw2, _, _ := store.Get(ctx, ports.TasksKey)
	assert.Equal(t, raw1, raw2)
}

func TestTaskRepository_CorruptValueFallsBack(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, ports.TasksKey, `{not json`))

	tasks, res := NewTaskRepository(store, logger.NewNop()).Load(ctx)
	assert.Empty(t, tasks)
	assert.True(t, res.UsedDefault)
	assert.Error(t, res.Err)
}

func TestTaskRepository_StoreErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(brokenStore{}, logger.NewNop())

	tasks, res := repo.Load(ctx)
	assert.Empty(t, tasks)
	assert.ErrorIs(t, res.Err, errDisk)
	assert.ErrorIs(t, repo.Save(ctx, nil), errDisk)
	assert.ErrorIs(t, repo.Clear(ctx), errDisk)
}

func TestTaskRepository_SaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, NewTaskRepository(store, logger.NewNop()).Save(ctx, nil))

	raw, _, _ := store.Get(ctx, ports.TasksKey)
	assert.Equal(t, "[]", raw)
}

func TestBrainHealthRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBrainHealthRepository(storage.NewMemoryStore(), logger.NewNop())

	records, _ := repo.Load(ctx)
	assert.Empty(t, records)

	records["2024-05-01"] = entities.DayRecord{Date: "2024-05-01", Sleep: true}
	require.NoError(t, repo.Save(ctx, records))

	got, res := repo.Load(ctx)
	assert.False(t, res.UsedDefault)
	assert.True(t, got["2024-05-01"].Sleep)
}

func TestMoneyRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMoneyRepository(storage.NewMemoryStore(), logger.NewNop())

	settings, res := repo.LoadSettings(ctx)
	assert.Equal(t, entities.DefaultMoneySettings(), settings)
	assert.True(t, res.UsedDefault)

	require.NoError(t, repo.SaveSettings(ctx, entities.MoneySettings{Currency: "EUR"}))
	settings, _ = repo.LoadSettings(ctx)
	assert.Equal(t, "EUR", settings.Currency)

	tx := entities.Transaction{ID: "1", Date: "2024-05-01", Type: entities.TransactionExpense, Amount: 9.5}
	require.NoError(t, repo.SaveTransactions(ctx, []entities.Transaction{tx}))
	txs, _ := repo.LoadTransactions(ctx)
	require.Len(t, txs, 1)
	assert.Equal(t, 9.5, txs[0].Amount)
}

func TestFocusStatsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFocusStatsRepository(storage.NewMemoryStore(), logger.NewNop())

	stats, res := repo.Load(ctx)
	assert.Equal(t, entities.FocusStats{}, stats)
	assert.True(t, res.UsedDefault)

	stats.Duration45.Attempts = 2
	require.NoError(t, repo.Save(ctx, stats))
	stats, _ = repo.Load(ctx)
	assert.Equal(t, 2, stats.Duration45.Attempts)
}
