package conflict

import (
	"testing"
	"time"

	"github.com/mmynk/tripsync/internal/models"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("LoadLocation(%s): %v", name, err)
	}
	return loc
}

func TestDayKey_UsesTripZone(t *testing.T) {
	instant := time.Date(2026, time.June, 11, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		zone string
		want string
	}{
		{"UTC", "2026-06-11"},
		{"Asia/Tokyo", "2026-06-12"},
		{"America/Los_Angeles", "2026-06-11"},
	}
	for _, tt := range tests {
		if got := DayKey(instant, mustLoad(t, tt.zone)); got != tt.want {
			t.Errorf("DayKey in %s = %s, want %s", tt.zone, got, tt.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	loc := mustLoad(t, "Europe/Lisbon")
	start := time.Date(2026, time.March, 28, 0, 0, 0, 0, loc)
	end := time.Date(2026, time.March, 30, 0, 0, 0, 0, loc)

	// Spans the DST switch on 2026-03-29.
	got := DaysBetween(start, end, loc)
	want := []string{"2026-03-28", "2026-03-29", "2026-03-30"}
	if !equalIDs(got, want) {
		t.Errorf("DaysBetween = %v, want %v", got, want)
	}

	if got := DaysBetween(start, start, loc); !equalIDs(got, []string{"2026-03-28"}) {
		t.Errorf("single day = %v", got)
	}
	if got := DaysBetween(end, start, loc); got != nil {
		t.Errorf("reversed range = %v, want nil", got)
	}
}

func TestEventsOnDay_SortsByStart(t *testing.T) {
	late := event(t, "late", "18:00", "19:00")
	early := event(t, "early", "08:00", "09:00")
	other := event(t, "other", "08:00", "09:00")
	other.Start = other.Start.AddDate(0, 0, 1)
	other.End = other.End.AddDate(0, 0, 1)

	got := EventsOnDay([]models.Event{late, other, early}, "2026-06-12", time.UTC)
	if !equalIDs(ids(got), []string{"early", "late"}) {
		t.Errorf("EventsOnDay = %v, want [early late]", ids(got))
	}
}

func TestByDay(t *testing.T) {
	b := event(t, "B", "12:00", "13:00")
	a := event(t, "A", "09:00", "10:00")
	next := event(t, "N", "09:00", "10:00")
	next.Start = next.Start.AddDate(0, 0, 1)
	next.End = next.End.AddDate(0, 0, 1)

	days := ByDay([]models.Event{b, next, a}, time.UTC)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if !equalIDs(ids(days["2026-06-12"]), []string{"A", "B"}) {
		t.Errorf("2026-06-12 = %v, want [A B]", ids(days["2026-06-12"]))
	}
	if !equalIDs(ids(days["2026-06-13"]), []string{"N"}) {
		t.Errorf("2026-06-13 = %v, want [N]", ids(days["2026-06-13"]))
	}
}

func TestHasConflict(t *testing.T) {
	a := event(t, "A", "10:00", "11:00")
	b := event(t, "B", "10:30", "11:30")
	c := event(t, "C", "11:30", "12:00")
	dayEvents := []models.Event{a, b, c}

	if !HasConflict(a, dayEvents) {
		t.Error("A overlaps B")
	}
	if HasConflict(c, dayEvents) {
		t.Error("C only touches B")
	}
	if HasConflict(a, []models.Event{a}) {
		t.Error("an event never conflicts with itself")
	}
}
