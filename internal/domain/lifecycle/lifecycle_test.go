package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/forgeplanner/core/internal/domain/entities"
)

func TestQuickNoteTimers(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	note := entities.NewQuickNote("call mom", "2024-05-01", created)

	assert.Equal(t, created.Add(72*time.Hour), *note.ExpiresAt)
	assert.Equal(t, created.Add(30*24*time.Hour), *note.DeletesAt)

	assert.False(t, IsExpired(note, created.Add(2*24*time.Hour)))
	assert.True(t, IsExpired(note, created.Add(4*24*time.Hour)))

	assert.False(t, ShouldDelete(note, created.Add(29*24*time.Hour)))
	assert.True(t, ShouldDelete(note, created.Add(31*24*time.Hour)))
}

func TestPredicatesAreStrict(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	task := entities.Task{ExpiresAt: &at, DeletesAt: &at}

	assert.False(t, IsExpired(task, at))
	assert.False(t, ShouldDelete(task, at))
	assert.True(t, IsExpired(task, at.Add(time.Millisecond)))
	assert.True(t, ShouldDelete(task, at.Add(time.Millisecond)))
}

func TestPredicatesFalseWithoutTimestamps(t *testing.T) {
	far := time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC)
	task := entities.Task{ID: "plain"}

	assert.False(t, IsExpired(task, far))
	assert.False(t, ShouldDelete(task, far))
}

func TestPrune(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tasks := []entities.Task{
		{ID: "a"},
		{ID: "b", DeletesAt: &past},
		{ID: "c", DeletesAt: &future},
		{ID: "d", DeletesAt: &past},
	}

	kept, removed := Prune(tasks, now)

	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"a", "c"}, []string{kept[0].ID, kept[1].ID})
	assert.Len(t, tasks, 4)
}
