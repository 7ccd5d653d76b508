package repository

import (
	"context"

	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

// TaskRepository stores the root task list as one JSON array.
type TaskRepository struct {
	doc document[[]entities.Task]
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(store ports.KVStore, log *logger.Logger) *TaskRepository {
	return &TaskRepository{doc: newDocument[[]entities.Task](store, ports.TasksKey, log.WithComponent("task_repository"))}
}

func (r *TaskRepository) Load(ctx context.Context) ([]entities.Task, ports.LoadResult) {
	tasks, res := r.doc.load(ctx, func() []entities.Task { return []entities.Task{} })
	if tasks == nil {
		tasks = []entities.Task{}
	}
	return tasks, res
}

func (r *TaskRepository) Save(ctx context.Context, tasks []entities.Task) error {
	if tasks == nil {
		tasks = []entities.Task{}
	}
	return r.doc.save(ctx, tasks)
}

func (r *TaskRepository) Clear(ctx context.Context) error {
	return r.doc.remove(ctx)
}
