// Package dates holds the calendar arithmetic and display helpers shared by the
// planner. Dates are handled as UTC midnights so that day arithmetic never crosses a
// DST boundary.
package dates

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"

	"github.com/forgeplanner/core/internal/domain/entities"
)

var weekConfig = &now.Config{WeekStartDay: time.Sunday, TimeLocation: time.UTC}

// Parse reads a YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(entities.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", entities.ErrInvalidDate, s)
	}
	return t, nil
}

// Format renders t's calendar date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(entities.DateLayout)
}

// FromParts builds a date string from a year, month and day.
func FromParts(year int, month time.Month, day int) string {
	return Format(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Today returns the calendar date of t in t's own location.
func Today(t time.Time) string {
	return FromParts(t.Year(), t.Month(), t.Day())
}

// IsToday reports whether date is the calendar date of current.
func IsToday(date string, current time.Time) bool {
	return date == Today(current)
}

func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// AddMonthsClamped moves t by months calendar months, keeping its day of month unless
// the target month is shorter, in which case the last day of that month is used.
func AddMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func DaysInMonth(year int, month time.Month) int {
	return weekConfig.With(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)).EndOfMonth().Day()
}

// FirstWeekdayOfMonth returns the weekday of the 1st (Sunday = 0).
func FirstWeekdayOfMonth(year int, month time.Month) time.Weekday {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// WeekStart returns Sunday 00:00 of the week containing t.
func WeekStart(t time.Time) time.Time {
	return weekConfig.With(t).BeginningOfWeek()
}

// WeekEnd returns the last instant of Saturday of the week containing t.
func WeekEnd(t time.Time) time.Time {
	return weekConfig.With(t).EndOfWeek()
}

// WeekDates lists the seven dates of the week containing t, Sunday first.
func WeekDates(t time.Time) []string {
	start := WeekStart(t)
	out := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		out = append(out, FromParts(d.Year(), d.Month(), d.Day()))
	}
	return out
}

// FormatWeekRange renders "Nov 24 - 30, 2024" or "Nov 30 - Dec 6, 2024".
func FormatWeekRange(t time.Time) string {
	start, end := WeekStart(t), WeekEnd(t)
	if start.Month() == end.Month() {
		return fmt.Sprintf("%s %d - %d, %d", shortMonth(start.Month()), start.Day(), end.Day(), end.Year())
	}
	return fmt.Sprintf("%s %d - %s %d, %d", shortMonth(start.Month()), start.Day(), shortMonth(end.Month()), end.Day(), end.Year())
}

// DayName returns the three letter weekday of a YYYY-MM-DD date.
func DayName(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return t.Weekday().String()[:3], nil
}

// FormatDayMonth renders a YYYY-MM-DD date as "Nov 24".
func FormatDayMonth(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %d", shortMonth(t.Month()), t.Day()), nil
}

func MonthName(month time.Month) string {
	return month.String()
}

func shortMonth(month time.Month) string {
	return month.String()[:3]
}

// GridCell is one cell of a month view. Padding cells have an empty Date.
type GridCell struct {
	Date           string `json:"date"`
	Day            int    `json:"day"`
	IsCurrentMonth bool   `json:"isCurrentMonth"`
}

// CalendarGrid returns the leading padding cells for the weekday of the 1st followed
// by one cell per day of the month.
func CalendarGrid(year int, month time.Month) []GridCell {
	padding := int(FirstWeekdayOfMonth(year, month))
	days := DaysInMonth(year, month)

	grid := make([]GridCell, 0, padding+days)
	for i := 0; i < padding; i++ {
		grid = append(grid, GridCell{})
	}
	for day := 1; day <= days; day++ {
		grid = append(grid, GridCell{
			Date:           FromParts(year, month, day),
			Day:            day,
			IsCurrentMonth: true,
		})
	}
	return grid
}
