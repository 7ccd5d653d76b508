package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeplanner/core/internal/domain/dates"
)

func fileStorage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("JWT_SECRET", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "planner %s", strings.Join(args, " "))
	return out
}

func TestTaskCommands(t *testing.T) {
	dir := fileStorage(t)
	today := dates.Today(time.Now())

	out := mustRun(t, "task", "add", "Write report", "--tags", "work,urgent", "--minutes", "65")
	assert.Contains(t, out, "Created task ")
	id := strings.TrimSpace(strings.TrimPrefix(out, "Created task "))

	_, err := os.Stat(filepath.Join(dir, "forge_calendar_tasks.json"))
	require.NoError(t, err)

	out = mustRun(t, "task", "list", "--tags", "work")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "#work #urgent")
	assert.Contains(t, out, "1h 5m")

	out = mustRun(t, "task", "day", today)
	assert.Contains(t, out, "[ ] "+id)

	out = mustRun(t, "task", "toggle", id)
	assert.Contains(t, out, "completed: true")

	out = mustRun(t, "task", "delete", id)
	assert.Contains(t, out, "Deleted 1 task(s)")

	out = mustRun(t, "task", "list")
	assert.Contains(t, out, "No tasks")
}

func TestTaskCommands_Recurring(t *testing.T) {
	fileStorage(t)

	mustRun(t, "task", "add", "Standup", "--date", "2024-01-31", "--repeat", "monthly", "--until", "2024-04-30")

	out := mustRun(t, "task", "day", "2024-02-29")
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "(monthly)")

	out = mustRun(t, "task", "day", "2024-05-31")
	assert.Contains(t, out, "No tasks")

	_, err := run(t, "task", "add", "x", "--repeat", "yearly")
	assert.Error(t, err)

	_, err = run(t, "task", "clear")
	assert.Error(t, err)
	mustRun(t, "task", "clear", "--yes")
	assert.Contains(t, mustRun(t, "task", "list"), "No tasks")
}

func TestNoteCommand(t *testing.T) {
	fileStorage(t)

	out := mustRun(t, "note", "add", "buy milk")
	assert.Contains(t, out, "Created note ")

	out = mustRun(t, "task", "list")
	assert.Contains(t, out, "buy milk")
	assert.Contains(t, out, "#quick-note")
}

func TestBrainCommands(t *testing.T) {
	fileStorage(t)
	today := dates.Today(time.Now())

	out := mustRun(t, "brain", "check", today, "sleep", "fish", "oliveOil", "yoga", "fruits", "nuts")
	assert.Contains(t, out, "score 50%")

	out = mustRun(t, "brain", "show", today)
	assert.Contains(t, out, "[x] sleep")
	assert.Contains(t, out, "[ ] exercise")

	out = mustRun(t, "brain", "score")
	assert.Contains(t, out, today+"  50%")
	assert.Contains(t, out, "Streak: 1 day(s)")

	_, err := run(t, "brain", "check", today, "juggling")
	assert.Error(t, err)
}

func TestMoneyCommands(t *testing.T) {
	dir := fileStorage(t)

	mustRun(t, "money", "add", "income", "1000", "salary", "--date", "2024-05-01")
	mustRun(t, "money", "add", "expense", "40.5", "food", "--date", "2024-05-02")

	_, err := run(t, "money", "add", "gift", "10", "misc")
	assert.Error(t, err)

	out := mustRun(t, "money", "totals")
	assert.Contains(t, out, "Balance:      959.50 USD")
	assert.Contains(t, out, "salary")

	exportPath := filepath.Join(dir, "export.json")
	mustRun(t, "money", "export", exportPath)

	mustRun(t, "money", "add", "expense", "5", "coffee")
	out = mustRun(t, "money", "import", exportPath)
	assert.Contains(t, out, "Imported 2 transactions")
	assert.NotContains(t, mustRun(t, "money", "totals"), "coffee")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"transactions":"nope"}`), 0o644))
	_, err = run(t, "money", "import", bad)
	assert.ErrorContains(t, err, "invalid file format")
}

func TestFocusCommands(t *testing.T) {
	fileStorage(t)

	mustRun(t, "focus", "attempt", "30")
	out := mustRun(t, "focus", "complete", "30")
	assert.Contains(t, out, "30m ✓1/1")

	out = mustRun(t, "focus", "show")
	assert.Contains(t, out, "30m ✓1/1")
	assert.Contains(t, out, "45m ✓0/0")

	_, err := run(t, "focus", "attempt", "25")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	fileStorage(t)

	_, err := run(t, "token")
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "test-secret")
	out := mustRun(t, "token", "--subject", "me")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "."), 3)
}

func TestMigrateCommands_SQLite(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "forge.db"))
	t.Setenv("LOG_LEVEL", "error")

	assert.Contains(t, mustRun(t, "migrate", "up"), "Migration up completed successfully")
	assert.Contains(t, mustRun(t, "migrate", "up"), "No migrations to run")
	assert.Contains(t, mustRun(t, "migrate", "version"), "Current migration version: 1")
	assert.Contains(t, mustRun(t, "migrate", "down"), "Migration down completed successfully")
	assert.Contains(t, mustRun(t, "migrate", "version"), "Current migration version: 0")
}

func TestMigrateCommands_RejectsNonSQLDriver(t *testing.T) {
	fileStorage(t)

	_, err := run(t, "migrate", "up")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, "Forge planner v"+Version+"\n", mustRun(t, "version"))
}
