package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/forgeplanner/core/internal/domain/dates"
	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

// maxStreakDays bounds how far back CurrentStreak looks.
const maxStreakDays = 365

// BrainHealthService reads and scores the daily checklist. Every call goes to the store.
type BrainHealthService struct {
	repo   ports.BrainHealthRepository
	clock  ports.Clock
	logger *logger.Logger
	mu     sync.Mutex
}

func NewBrainHealthService(repo ports.BrainHealthRepository, clock ports.Clock, logger *logger.Logger) *BrainHealthService {
	return &BrainHealthService{repo: repo, clock: clock, logger: logger.WithComponent("brain_service")}
}

// Record returns the stored record for date, or an unchecked one.
func (s *BrainHealthService) Record(ctx context.Context, date string) entities.DayRecord {
	records, _ := s.repo.Load(ctx)
	if r, ok := records[date]; ok {
		return r
	}
	return entities.NewDayRecord(date)
}

// UpdateRecord merges patch into the record for date and stores it.
func (s *BrainHealthService) UpdateRecord(ctx context.Context, date string, patch entities.DayRecordPatch) (entities.DayRecord, error) {
	if _, err := dates.Parse(date); err != nil {
		return entities.DayRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, _ := s.repo.Load(ctx)
	r, ok := records[date]
	if !ok {
		r = entities.NewDayRecord(date)
	}
	patch.Apply(&r)
	r.Date = date
	records[date] = r

	if err := s.repo.Save(ctx, records); err != nil {
		s.logger.WithError(err).Error("Failed to save brain health")
	}
	return r, nil
}

// DailyScore is the share of checked items as a rounded percentage.
func DailyScore(record entities.DayRecord) int {
	return record.Score()
}

// WeekData returns the scores of the seven days ending at endDate, oldest first.
func (s *BrainHealthService) WeekData(ctx context.Context, endDate string) ([]entities.DayScore, error) {
	end, err := dates.Parse(endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to build week data: %w", err)
	}

	records, _ := s.repo.Load(ctx)
	week := make([]entities.DayScore, 0, 7)
	for i := 6; i >= 0; i-- {
		date := dates.Format(dates.AddDays(end, -i))
		r, ok := records[date]
		if !ok {
			r = entities.NewDayRecord(date)
		}
		week = append(week, entities.DayScore{Date: date, Score: r.Score()})
	}
	return week, nil
}

// CurrentStreak counts consecutive days, today included, with a record scoring at
// least StreakThreshold. A missing day ends the streak.
func (s *BrainHealthService) CurrentStreak(ctx context.Context) int {
	records, _ := s.repo.Load(ctx)
	today, _ := dates.Parse(dates.Today(s.clock.Now()))

	streak := 0
	for i := 0; i < maxStreakDays; i++ {
		r, ok := records[dates.Format(dates.AddDays(today, -i))]
		if !ok || r.Score() < entities.StreakThreshold {
			break
		}
		streak++
	}
	return streak
}
