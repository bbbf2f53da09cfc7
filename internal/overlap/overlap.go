// Package overlap computes the mutual availability of the two parties:
// the date-aligned intersections of the intervals each side declared free.
package overlap

import (
	"sort"

	"github.com/alnabramov-cyber/telegram-bot/internal/interval"
)

// DaySlots maps an ISO date ("2006-01-02") to the intervals one party
// declared free on that date.
type DaySlots map[string][]interval.Interval

// Compute intersects the two parties' declared intervals date by date.
// Only dates present in both sets are considered; within a date every
// admin/user interval pair contributes its bounded intersection when it
// has positive length. Intervals are half-open, so ranges that merely
// touch (09:00-10:00 vs 10:00-11:00) do not intersect. Dates with no
// surviving intersection are omitted from the result entirely.
func Compute(admin, user DaySlots) DaySlots {
	result := make(DaySlots)
	for date, as := range admin {
		us, ok := user[date]
		if !ok {
			continue
		}

		seen := make(map[interval.Interval]struct{})
		var found []interval.Interval
		for _, a := range as {
			for _, u := range us {
				iv := interval.Interval{Start: max(a.Start, u.Start), End: min(a.End, u.End)}
				if iv.End <= iv.Start {
					continue
				}
				if _, dup := seen[iv]; dup {
					continue
				}
				seen[iv] = struct{}{}
				found = append(found, iv)
			}
		}

		if len(found) == 0 {
			continue
		}
		sort.Slice(found, func(i, j int) bool {
			if found[i].Start != found[j].Start {
				return found[i].Start < found[j].Start
			}
			return found[i].End < found[j].End
		})
		result[date] = found
	}
	return result
}

// Dates returns the date keys of a slot set in ascending order.
func Dates(slots DaySlots) []string {
	dates := make([]string, 0, len(slots))
	for d := range slots {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
