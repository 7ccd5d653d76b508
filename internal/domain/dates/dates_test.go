package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeplanner/core/internal/domain/entities"
)

func day(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParse(t *testing.T) {
	got, err := Parse("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	_, err = Parse("2023-02-29")
	assert.ErrorIs(t, err, entities.ErrInvalidDate)
	_, err = Parse("05/01/2024")
	assert.ErrorIs(t, err, entities.ErrInvalidDate)
}

func TestAddMonthsClamped(t *testing.T) {
	assert.Equal(t, "2024-02-29", Format(AddMonthsClamped(day("2024-01-31"), 1)))
	assert.Equal(t, "2023-02-28", Format(AddMonthsClamped(day("2023-01-31"), 1)))
	assert.Equal(t, "2024-04-30", Format(AddMonthsClamped(day("2024-03-31"), 1)))
	assert.Equal(t, "2025-01-15", Format(AddMonthsClamped(day("2024-12-15"), 1)))
	assert.Equal(t, "2023-11-30", Format(AddMonthsClamped(day("2024-01-30"), -2)))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2023, time.February))
	assert.Equal(t, 31, DaysInMonth(2024, time.December))
	assert.Equal(t, 30, DaysInMonth(2024, time.April))
}

func TestWeekBoundaries(t *testing.T) {
	// Wednesday
	mid := time.Date(2024, 11, 27, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 11, 24, 0, 0, 0, 0, time.UTC), WeekStart(mid))
	end := WeekEnd(mid)
	assert.Equal(t, time.Saturday, end.Weekday())
	assert.Equal(t, "2024-11-30", Format(end))
	assert.Equal(t, 23, end.Hour())

	assert.Equal(t, []string{
		"2024-11-24", "2024-11-25", "2024-11-26", "2024-11-27",
		"2024-11-28", "2024-11-29", "2024-11-30",
	}, WeekDates(mid))
}

func TestFormatWeekRange(t *testing.T) {
	assert.Equal(t, "Nov 24 - 30, 2024", FormatWeekRange(day("2024-11-26")))
	assert.Equal(t, "Dec 28 - Jan 3, 2026", FormatWeekRange(day("2025-12-31")))
}

func TestDayNameAndDayMonth(t *testing.T) {
	name, err := DayName("2024-11-24")
	require.NoError(t, err)
	assert.Equal(t, "Sun", name)

	dm, err := FormatDayMonth("2024-11-24")
	require.NoError(t, err)
	assert.Equal(t, "Nov 24", dm)

	_, err = DayName("nope")
	assert.Error(t, err)
	assert.Equal(t, "March", MonthName(time.March))
}

func TestIsToday(t *testing.T) {
	current := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	assert.True(t, IsToday("2024-05-01", current))
	assert.False(t, IsToday("2024-05-02", current))
}

func TestCalendarGrid(t *testing.T) {
	// March 2024 starts on a Friday.
	grid := CalendarGrid(2024, time.March)

	require.Len(t, grid, 5+31)
	for _, cell := range grid[:5] {
		assert.Equal(t, GridCell{}, cell)
	}
	assert.Equal(t, GridCell{Date: "2024-03-01", Day: 1, IsCurrentMonth: true}, grid[5])
	assert.Equal(t, "2024-03-31", grid[len(grid)-1].Date)
}
