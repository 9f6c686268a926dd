package conflict

import (
	"slices"
	"time"

	"github.com/mmynk/tripsync/internal/models"
)

// DayKey returns the calendar day t falls on in loc, "2006-01-02".
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(models.DateLayout)
}

// DaysBetween lists every calendar day from start to end inclusive in loc.
// It returns nil when end is before start.
func DaysBetween(start, end time.Time, loc *time.Location) []string {
	first := midnight(start, loc)
	last := midnight(end, loc)
	if last.Before(first) {
		return nil
	}
	var days []string
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(models.DateLayout))
	}
	return days
}

// EventsOnDay returns the events starting on day (as given by DayKey),
// sorted by start time. Ties keep their input order.
func EventsOnDay(events []models.Event, day string, loc *time.Location) []models.Event {
	var out []models.Event
	for _, e := range events {
		if DayKey(e.Start, loc) == day {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Event) int {
		return a.Start.Compare(b.Start)
	})
	return out
}

// ByDay buckets events by the day they start on.
func ByDay(events []models.Event, loc *time.Location) map[string][]models.Event {
	days := make(map[string][]models.Event)
	for _, e := range events {
		key := DayKey(e.Start, loc)
		days[key] = append(days[key], e)
	}
	for key := range days {
		slices.SortStableFunc(days[key], func(a, b models.Event) int {
			return a.Start.Compare(b.Start)
		})
	}
	return days
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
