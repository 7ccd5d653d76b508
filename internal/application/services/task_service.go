package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/forgeplanner/core/internal/domain/dates"
	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/domain/lifecycle"
	"github.com/forgeplanner/core/internal/domain/recurrence"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

// TaskService holds the root task collection in memory and writes it through to the
// repository on every mutation. Every state change is published to subscribers.
type TaskService struct {
	repo     ports.TaskRepository
	clock    ports.Clock
	validate *validator.Validate
	logger   *logger.Logger

	mu      sync.Mutex
	tasks   []entities.Task
	loaded  bool
	version uint64

	subMu   sync.Mutex
	subs    map[int]func([]entities.Task)
	nextSub int

	pubMu     sync.Mutex
	published uint64
}

// NewTaskService creates a new task service. Call Load before use.
func NewTaskService(repo ports.TaskRepository, clock ports.Clock, logger *logger.Logger) *TaskService {
	return &TaskService{
		repo:     repo,
		clock:    clock,
		validate: validator.New(),
		logger:   logger.WithComponent("task_service"),
		tasks:    []entities.Task{},
		subs:     make(map[int]func([]entities.Task)),
	}
}

// Load reads the stored tasks, drops the ones past their deletion time and persists
// the pruned collection once if anything was removed. A failed read falls back to an
// empty collection on the first load only; later failures keep the cached tasks.
func (s *TaskService) Load(ctx context.Context) []entities.Task {
	return s.update(func(current []entities.Task) []entities.Task {
		stored := s.read(ctx, current)
		kept, removed := lifecycle.Prune(stored, s.clock.Now())
		if removed > 0 {
			s.logger.Infow("Pruned deleted tasks", "removed", removed)
			s.persist(ctx, kept)
		}
		return kept
	})
}

// Reload re-reads the store without pruning.
func (s *TaskService) Reload(ctx context.Context) []entities.Task {
	return s.update(func(current []entities.Task) []entities.Task {
		return s.read(ctx, current)
	})
}

// Prune drops cached tasks past their deletion time and persists the result when
// anything was removed. The store is not re-read.
func (s *TaskService) Prune(ctx context.Context) int {
	removed := 0
	s.update(func(current []entities.Task) []entities.Task {
		var kept []entities.Task
		kept, removed = lifecycle.Prune(current, s.clock.Now())
		if removed > 0 {
			s.persist(ctx, kept)
		}
		return kept
	})
	return removed
}

// read loads the stored collection. Must be called with s.mu held.
func (s *TaskService) read(ctx context.Context, current []entities.Task) []entities.Task {
	stored, res := s.repo.Load(ctx)
	if res.Err != nil && s.loaded {
		s.logger.WithError(res.Err).Warn("Task read failed, keeping cached tasks")
		return current
	}
	s.loaded = true
	return stored
}

// Tasks returns a snapshot of the current collection.
func (s *TaskService) Tasks() []entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// Add validates and appends a new root task.
func (s *TaskService) Add(ctx context.Context, req entities.CreateTaskRequest) (entities.Task, error) {
	if err := s.validate.Struct(req); err != nil {
		return entities.Task{}, fmt.Errorf("%w: %v", entities.ErrInvalidTask, err)
	}

	task := entities.NewTask(req, s.clock.Now())

	s.mutate(ctx, func(tasks []entities.Task) []entities.Task {
		return append(tasks, task)
	})

	s.logger.Debugw("Task added", "task_id", task.ID, "date", task.Date)
	return task.Clone(), nil
}

// AddQuickNote adds a short-lived note that expires after three days and is deleted
// after thirty.
func (s *TaskService) AddQuickNote(ctx context.Context, title, date string) (entities.Task, error) {
	if title == "" {
		return entities.Task{}, fmt.Errorf("%w: title is required", entities.ErrInvalidTask)
	}
	if _, err := dates.Parse(date); err != nil {
		return entities.Task{}, fmt.Errorf("%w: %v", entities.ErrInvalidTask, err)
	}

	note := entities.NewQuickNote(title, date, s.clock.Now())

	s.mutate(ctx, func(tasks []entities.Task) []entities.Task {
		return append(tasks, note)
	})

	return note.Clone(), nil
}

// Update merges patch into the task with the given id. An unknown id changes nothing
// but the collection is still persisted.
func (s *TaskService) Update(ctx context.Context, id string, patch entities.TaskPatch) ([]entities.Task, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidTask, err)
	}
	if patch.RecurrenceFrequency != nil && *patch.RecurrenceFrequency != entities.FrequencyNone &&
		!patch.RecurrenceFrequency.IsValid() {
		return nil, fmt.Errorf("%w: unsupported frequency %q", entities.ErrInvalidTask, *patch.RecurrenceFrequency)
	}

	return s.mutate(ctx, func(tasks []entities.Task) []entities.Task {
		for i := range tasks {
			if tasks[i].ID == id {
				patch.Apply(&tasks[i])
				break
			}
		}
		return tasks
	}), nil
}

// Delete removes the task with the given id, if present.
func (s *TaskService) Delete(ctx context.Context, id string) []entities.Task {
	return s.mutate(ctx, func(tasks []entities.Task) []entities.Task {
		kept := tasks[:0]
		for _, t := range tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		return kept
	})
}

// ToggleComplete flips the completed flag of the task with the given id.
func (s *TaskService) ToggleComplete(ctx context.Context, id string) []entities.Task {
	return s.mutate(ctx, func(tasks []entities.Task) []entities.Task {
		for i := range tasks {
			if tasks[i].ID == id {
				tasks[i].Completed = !tasks[i].Completed
				break
			}
		}
		return tasks
	})
}

// TasksForDate returns the tasks visible on one day.
func (s *TaskService) TasksForDate(date string) []entities.Task {
	return s.TasksForRange(date, date)
}

// TasksForRange returns every root task dated inside [start, end], recurring roots
// included, followed by the expanded instances of every recurring root over the same
// window. A recurring root therefore shows on its own date both as itself and as its
// first instance; the root is the entry to toggle or delete.
func (s *TaskService) TasksForRange(start, end string) []entities.Task {
	tasks := s.Tasks()
	now := s.clock.Now()
	newID := func() string { return entities.GenerateID(now) }

	result := make([]entities.Task, 0)
	for _, t := range tasks {
		if t.IsRoot() && t.Date >= start && t.Date <= end {
			result = append(result, t)
		}
	}
	for _, t := range tasks {
		if t.IsRecurrenceRoot() {
			result = append(result, recurrence.Expand(t, start, end, newID)...)
		}
	}
	return result
}

// ClearAll empties memory and the store.
func (s *TaskService) ClearAll(ctx context.Context) {
	s.update(func([]entities.Task) []entities.Task {
		if err := s.repo.Clear(ctx); err != nil {
			s.logger.WithError(err).Error("Failed to clear tasks")
		}
		return []entities.Task{}
	})
}

// Subscribe registers fn to receive every new snapshot. fn runs synchronously on the
// mutating goroutine after the service lock is released; it must not mutate the
// service itself.
func (s *TaskService) Subscribe(fn func([]entities.Task)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// Watch streams snapshots until ctx is done. Slow readers only see the latest one.
func (s *TaskService) Watch(ctx context.Context) <-chan []entities.Task {
	ch := make(chan []entities.Task, 1)
	var mu sync.Mutex
	closed := false

	unsubscribe := s.Subscribe(func(tasks []entities.Task) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case <-ch:
		default:
		}
		ch <- tasks
	})

	go func() {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()

	return ch
}

// mutate applies fn to a private copy of the collection, persists and publishes it.
func (s *TaskService) mutate(ctx context.Context, fn func([]entities.Task) []entities.Task) []entities.Task {
	return s.update(func(current []entities.Task) []entities.Task {
		next := fn(current)
		s.persist(ctx, next)
		return next
	})
}

// update installs the result of fn as the current state and publishes it after the
// lock is released. fn receives a private copy and runs with s.mu held.
func (s *TaskService) update(fn func([]entities.Task) []entities.Task) []entities.Task {
	snapshot, version := s.install(fn)
	s.publish(snapshot, version)
	return cloneTasks(snapshot)
}

func (s *TaskService) install(fn func([]entities.Task) []entities.Task) ([]entities.Task, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(cloneTasks(s.tasks))
	if next == nil {
		next = []entities.Task{}
	}
	s.tasks = next
	s.version++
	return cloneTasks(next), s.version
}

func (s *TaskService) persist(ctx context.Context, tasks []entities.Task) {
	if err := s.repo.Save(ctx, tasks); err != nil {
		s.logger.WithError(err).Error("Failed to persist tasks")
	}
}

func (s *TaskService) publish(snapshot []entities.Task, version uint64) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	// A newer state has already gone out.
	if version <= s.published {
		return
	}
	s.published = version

	s.subMu.Lock()
	fns := make([]func([]entities.Task), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(cloneTasks(snapshot))
	}
}

func cloneTasks(tasks []entities.Task) []entities.Task {
	out := make([]entities.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
