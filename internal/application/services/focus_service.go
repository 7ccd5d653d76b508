package services

import (
	"context"
	"sync"

	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

// FocusService counts focus session attempts and completions for 30 and 45 minute
// sessions. Other lengths are ignored.
type FocusService struct {
	repo   ports.FocusStatsRepository
	logger *logger.Logger
	mu     sync.Mutex
}

func NewFocusService(repo ports.FocusStatsRepository, logger *logger.Logger) *FocusService {
	return &FocusService{repo: repo, logger: logger.WithComponent("focus_service")}
}

func (s *FocusService) RecordAttempt(ctx context.Context, minutes int) entities.DurationStats {
	return s.record(ctx, minutes, func(d *entities.DurationStats) { d.Attempts++ })
}

func (s *FocusService) RecordCompletion(ctx context.Context, minutes int) entities.DurationStats {
	return s.record(ctx, minutes, func(d *entities.DurationStats) { d.Completed++ })
}

func (s *FocusService) Stats(ctx context.Context, minutes int) entities.DurationStats {
	stats, _ := s.repo.Load(ctx)
	if d := stats.For(minutes); d != nil {
		return *d
	}
	return entities.DurationStats{}
}

func (s *FocusService) record(ctx context.Context, minutes int, fn func(*entities.DurationStats)) entities.DurationStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, _ := s.repo.Load(ctx)
	d := stats.For(minutes)
	if d == nil {
		return entities.DurationStats{}
	}
	fn(d)

	if err := s.repo.Save(ctx, stats); err != nil {
		s.logger.WithError(err).Error("Failed to save focus stats")
	}
	return *d
}
