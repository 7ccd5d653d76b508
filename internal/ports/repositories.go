package ports

import (
	"context"
	"time"

	"github.com/forgeplanner/core/internal/domain/entities"
)

// Storage keys, one serialized document per domain.
const (
	TasksKey         = "forge_calendar_tasks"
	BrainHealthKey   = "forge_brain_health"
	MoneyKey         = "forge_money_tracker"
	MoneySettingsKey = "forge_money_settings"
	FocusStatsKey    = "forge_focus_stats"
)

// KVStore is the persistence backend: string values under string keys.
// Get reports found=false for a missing key without an error.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// LoadResult describes how a document load went. UsedDefault is set when the stored
// value was missing, unreadable or corrupt and the default was substituted; Err keeps
// the cause for the last two cases.
type LoadResult struct {
	UsedDefault bool
	Err         error
}

// TaskRepository persists the collection of root tasks.
type TaskRepository interface {
	Load(ctx context.Context) ([]entities.Task, LoadResult)
	Save(ctx context.Context, tasks []entities.Task) error
	Clear(ctx context.Context) error
}

// BrainHealthRepository persists day records keyed by date.
type BrainHealthRepository interface {
	Load(ctx context.Context) (map[string]entities.DayRecord, LoadResult)
	Save(ctx context.Context, records map[string]entities.DayRecord) error
}

// MoneyRepository persists transactions and money settings under separate keys.
type MoneyRepository interface {
	LoadTransactions(ctx context.Context) ([]entities.Transaction, LoadResult)
	SaveTransactions(ctx context.Context, transactions []entities.Transaction) error
	LoadSettings(ctx context.Context) (entities.MoneySettings, LoadResult)
	SaveSettings(ctx context.Context, settings entities.MoneySettings) error
}

// FocusStatsRepository persists focus session counters.
type FocusStatsRepository interface {
	Load(ctx context.Context) (entities.FocusStats, LoadResult)
	Save(ctx context.Context, stats entities.FocusStats) error
}
