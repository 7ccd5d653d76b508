// Package recurrence expands a recurring root task into dated instances.
//
// Instances are derived on demand and never stored. Expansion walks forward from the
// root's own date one frequency step at a time, so every produced date is a whole
// number of steps away from the root. Monthly steps are anchored on the root's day of
// month and clamp to the last day of shorter months (Jan 31 -> Feb 29 -> Mar 31).
package recurrence

import (
	"time"

	"github.com/forgeplanner/core/internal/domain/dates"
	"github.com/forgeplanner/core/internal/domain/entities"
)

// MaxIterations bounds a single expansion. Hitting it truncates the result silently.
const MaxIterations = 365

// IDFunc supplies ids for materialized instances.
type IDFunc func() string

// Expand returns the occurrences of root that fall inside the inclusive window
// [windowStart, windowEnd] and inside [root.Date, effective end], where the effective
// end is the earlier of root.RecurrenceEndDate and windowEnd. Non-recurring roots,
// unsupported frequencies and unparseable dates yield no instances.
func Expand(root entities.Task, windowStart, windowEnd string, newID IDFunc) []entities.Task {
	if !root.IsRecurring || !root.RecurrenceFrequency.IsValid() {
		return nil
	}

	first, err := dates.Parse(root.Date)
	if err != nil {
		return nil
	}
	from, err := dates.Parse(windowStart)
	if err != nil {
		return nil
	}
	end, err := dates.Parse(windowEnd)
	if err != nil {
		return nil
	}
	if root.RecurrenceEndDate != nil && *root.RecurrenceEndDate != "" {
		if until, err := dates.Parse(*root.RecurrenceEndDate); err == nil && until.Before(end) {
			end = until
		}
	}

	var instances []entities.Task
	for i := 0; i < MaxIterations; i++ {
		current := Occurrence(root.RecurrenceFrequency, first, i)
		if current.After(end) {
			break
		}
		if !current.Before(from) {
			instances = append(instances, instance(root, current, newID()))
		}
	}
	return instances
}

// Occurrence returns the n-th occurrence (0 = first) of a series starting at first.
func Occurrence(freq entities.Frequency, first time.Time, n int) time.Time {
	switch freq {
	case entities.FrequencyDaily:
		return dates.AddDays(first, n)
	case entities.FrequencyWeekly:
		return dates.AddDays(first, 7*n)
	case entities.FrequencyMonthly:
		return dates.AddMonthsClamped(first, n)
	default:
		return first
	}
}

func instance(root entities.Task, date time.Time, id string) entities.Task {
	inst := root.Clone()
	parentID := root.ID
	inst.ID = id
	inst.Date = dates.Format(date)
	inst.ParentTaskID = &parentID
	return inst
}
