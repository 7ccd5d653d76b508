// Package lifecycle decides when tasks expire and when they are removed for good.
package lifecycle

import (
	"time"

	"github.com/forgeplanner/core/internal/domain/entities"
)

// IsExpired reports whether the task's expiry has passed. Advisory only: expired
// tasks are still kept and shown.
func IsExpired(task entities.Task, now time.Time) bool {
	return task.ExpiresAt != nil && now.After(*task.ExpiresAt)
}

// ShouldDelete reports whether the task's deletion time has passed.
func ShouldDelete(task entities.Task, now time.Time) bool {
	return task.DeletesAt != nil && now.After(*task.DeletesAt)
}

// Prune drops every task that ShouldDelete, preserving order.
func Prune(tasks []entities.Task, now time.Time) (kept []entities.Task, removed int) {
	kept = make([]entities.Task, 0, len(tasks))
	for _, t := range tasks {
		if ShouldDelete(t, now) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	return kept, removed
}
