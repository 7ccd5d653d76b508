package entities

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidTask          = errors.New("invalid task")
	ErrInvalidTransaction   = errors.New("invalid transaction")
	ErrInvalidImportFormat  = errors.New("invalid file format")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidToken         = errors.New("invalid token")
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
)

// DateLayout is the calendar date format used by every stored record.
const DateLayout = "2006-01-02"

const (
	DefaultColor   = "blue"
	QuickNoteColor = "yellow"
	QuickNoteTag   = "quick-note"
)

// Quick note timers, measured from creation.
const (
	QuickNoteExpiry   = 3 * 24 * time.Hour
	QuickNoteDeletion = 30 * 24 * time.Hour
)

type Frequency string

const (
	FrequencyNone    Frequency = ""
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// MarshalJSON writes the empty frequency as null.
func (f Frequency) MarshalJSON() ([]byte, error) {
	if f == FrequencyNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

func (f *Frequency) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = FrequencyNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("recurrence frequency: %w", err)
	}
	*f = Frequency(s)
	return nil
}

// Task is a calendar entry. A task without a parent is a root (template) and is the
// only kind that gets persisted; recurrence instances carry their root's id.
type Task struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Date                string     `json:"date"`
	Completed           bool       `json:"completed"`
	Color               string     `json:"color"`
	Tags                []string   `json:"tags"`
	IsRecurring         bool       `json:"isRecurring"`
	RecurrenceFrequency Frequency  `json:"recurrenceFrequency"`
	RecurrenceEndDate   *string    `json:"recurrenceEndDate"`
	ParentTaskID        *string    `json:"parentTaskId"`
	IsQuickNote         bool       `json:"isQuickNote"`
	ExpiresAt           *time.Time `json:"expiresAt"`
	DeletesAt           *time.Time `json:"deletesAt"`
	CreatedAt           time.Time  `json:"createdAt"`
	Order               int64      `json:"order"`
	TimeSpent           int        `json:"timeSpent"`
}

// CreateTaskRequest enumerates everything a caller may set when creating a task.
// Zero values fall back to the defaults applied by NewTask.
type CreateTaskRequest struct {
	Title               string     `json:"title" validate:"required"`
	Description         string     `json:"description"`
	Date                string     `json:"date" validate:"required,datetime=2006-01-02"`
	Color               string     `json:"color"`
	Tags                []string   `json:"tags"`
	IsRecurring         bool       `json:"isRecurring"`
	RecurrenceFrequency Frequency  `json:"recurrenceFrequency" validate:"omitempty,oneof=daily weekly monthly"`
	RecurrenceEndDate   *string    `json:"recurrenceEndDate" validate:"omitempty,datetime=2006-01-02"`
	IsQuickNote         bool       `json:"isQuickNote"`
	ExpiresAt           *time.Time `json:"expiresAt"`
	DeletesAt           *time.Time `json:"deletesAt"`
	Order               *int64     `json:"order"`
	TimeSpent           int        `json:"timeSpent" validate:"gte=0"`
}

// TaskPatch is a partial update: nil means unchanged. An empty RecurrenceEndDate clears it.
type TaskPatch struct {
	Title               *string    `json:"title,omitempty"`
	Description         *string    `json:"description,omitempty"`
	Date                *string    `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Completed           *bool      `json:"completed,omitempty"`
	Color               *string    `json:"color,omitempty"`
	Tags                *[]string  `json:"tags,omitempty"`
	IsRecurring         *bool      `json:"isRecurring,omitempty"`
	RecurrenceFrequency *Frequency `json:"recurrenceFrequency,omitempty"`
	RecurrenceEndDate   *string    `json:"recurrenceEndDate,omitempty"`
	Order               *int64     `json:"order,omitempty"`
	TimeSpent           *int       `json:"timeSpent,omitempty"`
}

// GenerateID returns "<unix-millis>-<9 base36 chars>".
func GenerateID(now time.Time) string {
	u := uuid.New()
	suffix := strconv.FormatUint(binary.BigEndian.Uint64(u[:8]), 36)
	if len(suffix) < 9 {
		suffix = strings.Repeat("0", 9-len(suffix)) + suffix
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix[:9])
}

// NewTask builds a root task from req with a fresh id.
func NewTask(req CreateTaskRequest, now time.Time) Task {
	color := req.Color
	if color == "" {
		color = DefaultColor
	}
	tags := append([]string{}, req.Tags...)
	order := now.UnixMilli()
	if req.Order != nil {
		order = *req.Order
	}

	return Task{
		ID:                  GenerateID(now),
		Title:               req.Title,
		Description:         req.Description,
		Date:                req.Date,
		Completed:           false,
		Color:               color,
		Tags:                tags,
		IsRecurring:         req.IsRecurring,
		RecurrenceFrequency: req.RecurrenceFrequency,
		RecurrenceEndDate:   copyString(req.RecurrenceEndDate),
		IsQuickNote:         req.IsQuickNote,
		ExpiresAt:           copyTime(req.ExpiresAt),
		DeletesAt:           copyTime(req.DeletesAt),
		CreatedAt:           now,
		Order:               order,
		TimeSpent:           req.TimeSpent,
	}
}

// NewQuickNote builds a yellow, self-expiring note.
func NewQuickNote(title, date string, now time.Time) Task {
	expiresAt := now.Add(QuickNoteExpiry)
	deletesAt := now.Add(QuickNoteDeletion)
	return NewTask(CreateTaskRequest{
		Title:       title,
		Date:        date,
		Color:       QuickNoteColor,
		Tags:        []string{QuickNoteTag},
		IsQuickNote: true,
		ExpiresAt:   &expiresAt,
		DeletesAt:   &deletesAt,
	}, now)
}

// Business logic methods for Task
func (t Task) IsRoot() bool {
	return t.ParentTaskID == nil || *t.ParentTaskID == ""
}

func (t Task) IsRecurrenceRoot() bool {
	return t.IsRoot() && t.IsRecurring
}

func (t Task) HasTag(tag string) bool {
	for _, tt := range t.Tags {
		if tt == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = append([]string{}, t.Tags...)
	}
	c.RecurrenceEndDate = copyString(t.RecurrenceEndDate)
	c.ParentTaskID = copyString(t.ParentTaskID)
	c.ExpiresAt = copyTime(t.ExpiresAt)
	c.DeletesAt = copyTime(t.DeletesAt)
	return c
}

// Apply merges the non-nil fields of p into t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Tags != nil {
		t.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.IsRecurring != nil {
		t.IsRecurring = *p.IsRecurring
	}
	if p.RecurrenceFrequency != nil {
		t.RecurrenceFrequency = *p.RecurrenceFrequency
	}
	if p.RecurrenceEndDate != nil {
		if *p.RecurrenceEndDate == "" {
			t.RecurrenceEndDate = nil
		} else {
			t.RecurrenceEndDate = copyString(p.RecurrenceEndDate)
		}
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	if p.TimeSpent != nil {
		t.TimeSpent = *p.TimeSpent
	}
}

// SortByOrder returns a sorted copy: incomplete before completed, then higher order first.
func SortByOrder(tasks []Task) []Task {
	sorted := append([]Task{}, tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return a.Order > b.Order
	})
	return sorted
}

// FilterByTags keeps tasks carrying at least one of tags. No tags means no filtering.
func FilterByTags(tasks []Task, tags []string) []Task {
	if len(tags) == 0 {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		for _, tag := range tags {
			if t.HasTag(tag) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// AllTags returns the sorted set of tags used across tasks.
func AllTags(tasks []Task) []string {
	seen := make(map[string]struct{})
	for _, t := range tasks {
		for _, tag := range t.Tags {
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// FormatTimeSpent renders minutes as "1h 5m", "2h" or "45m"; zero renders empty.
func FormatTimeSpent(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	hours, mins := minutes/60, minutes%60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", mins)
	case mins == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
