package ports

import (
	"context"
	"io"

	"github.com/forgeplanner/core/internal/domain/entities"
)

// TaskService is the task collection: cached root tasks with write-through persistence.
type TaskService interface {
	Load(ctx context.Context) []entities.Task
	Reload(ctx context.Context) []entities.Task
	Tasks() []entities.Task
	Add(ctx context.Context, req entities.CreateTaskRequest) (entities.Task, error)
	AddQuickNote(ctx context.Context, title, date string) (entities.Task, error)
	Update(ctx context.Context, id string, patch entities.TaskPatch) ([]entities.Task, error)
	Delete(ctx context.Context, id string) []entities.Task
	ToggleComplete(ctx context.Context, id string) []entities.Task
	TasksForDate(date string) []entities.Task
	TasksForRange(start, end string) []entities.Task
	ClearAll(ctx context.Context)
	Subscribe(fn func([]entities.Task)) (unsubscribe func())
}

// BrainHealthService scores the daily brain health checklist.
type BrainHealthService interface {
	Record(ctx context.Context, date string) entities.DayRecord
	UpdateRecord(ctx context.Context, date string, patch entities.DayRecordPatch) (entities.DayRecord, error)
	WeekData(ctx context.Context, endDate string) ([]entities.DayScore, error)
	CurrentStreak(ctx context.Context) int
}

// MoneyService tracks income and expenses.
type MoneyService interface {
	Add(ctx context.Context, req entities.TransactionRequest) (entities.Transaction, error)
	Update(ctx context.Context, id string, patch entities.TransactionPatch) ([]entities.Transaction, error)
	Delete(ctx context.Context, id string) []entities.Transaction
	Transactions(ctx context.Context) []entities.Transaction
	ByDateRange(ctx context.Context, start, end string) []entities.Transaction
	ByDate(ctx context.Context, date string) []entities.Transaction
	Settings(ctx context.Context) entities.MoneySettings
	SaveSettings(ctx context.Context, settings entities.MoneySettings) error
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (*entities.MoneyExport, error)
}

// FocusService counts focus sessions per session length.
type FocusService interface {
	RecordAttempt(ctx context.Context, minutes int) entities.DurationStats
	RecordCompletion(ctx context.Context, minutes int) entities.DurationStats
	Stats(ctx context.Context, minutes int) entities.DurationStats
}

// AuthService issues and checks API bearer tokens.
type AuthService interface {
	Enabled() bool
	IssueToken(subject string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims are the verified parts of an API token.
type Claims struct {
	Subject string `json:"subject"`
	Issuer  string `json:"issuer"`
}

// DateRangeQuery binds ?start=&end= query parameters.
type DateRangeQuery struct {
	Start string `query:"start" validate:"required,datetime=2006-01-02"`
	End   string `query:"end" validate:"required,datetime=2006-01-02"`
}

// QuickNoteRequest is the body for creating a quick note.
type QuickNoteRequest struct {
	Title string `json:"title" validate:"required"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
}

// TagFilterQuery binds ?tags=a,b for tag filtering.
type TagFilterQuery struct {
	Tags string `query:"tags"`
}
