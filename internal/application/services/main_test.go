package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/forgeplanner/core/internal/adapters/repository"
	"github.com/forgeplanner/core/internal/adapters/storage"
	"github.com/forgeplanner/core/internal/infrastructure/clock"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errDisk = errors.New("disk on fire")

// countingStore wraps a memory store and counts writes.
type countingStore struct {
	*storage.MemoryStore
	mu   sync.Mutex
	sets int
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: storage.NewMemoryStore()}
}

func (s *countingStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.sets++
	s.mu.Unlock()
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *countingStore) Sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// flakyStore fails reads while failing is set.
type flakyStore struct {
	*countingStore
	failing atomic.Bool
}

func (s *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.failing.Load() {
		return "", false, errDisk
	}
	return s.countingStore.Get(ctx, key)
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) { return "", false, errDisk }
func (brokenStore) Set(context.Context, string, string) error         { return errDisk }
func (brokenStore) Remove(context.Context, string) error              { return errDisk }

var epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newTaskFixture(t *testing.T) (*TaskService, *countingStore, *clock.Fake) {
	t.Helper()
	store := newCountingStore()
	clk := clock.NewFake(epoch)
	log := logger.NewNop()
	svc := NewTaskService(repository.NewTaskRepository(store, log), clk, log)
	svc.Load(context.Background())
	return svc, store, clk
}
