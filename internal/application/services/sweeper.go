package services

import (
	"context"
	"sync"
	"time"

	"github.com/forgeplanner/core/internal/infrastructure/logger"
)

// Sweeper periodically prunes the cached task collection so quick notes past their
// deletion time are dropped while a server stays up.
type Sweeper struct {
	tasks    *TaskService
	interval time.Duration
	logger   *logger.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

func NewSweeper(tasks *TaskService, interval time.Duration, logger *logger.Logger) *Sweeper {
	return &Sweeper{
		tasks:    tasks,
		interval: interval,
		logger:   logger.WithComponent("sweeper"),
	}
}

// Start launches the sweep loop. A non-positive interval disables it.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.interval <= 0 {
		return
	}

	s.running = true
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stopCh, s.done)
	s.logger.Infow("Sweeper started", "interval", s.interval.String())
}

// Stop ends the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Info("Sweeper stopped")
}

func (s *Sweeper) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-stop:
			return
		}
	}
}

// Sweep prunes once and reports how many tasks were dropped.
func (s *Sweeper) Sweep(ctx context.Context) int {
	removed := s.tasks.Prune(ctx)
	if removed > 0 {
		s.logger.Infow("Sweep removed tasks", "removed", removed)
	}
	return removed
}
