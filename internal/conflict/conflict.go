// Package conflict detects overlapping events on a trip day, groups them and
// resolves each group by member vote.
//
// All functions are pure: they read the supplied events and return new
// values. Persisting the result is the caller's job.
package conflict

import (
	"fmt"
	"time"

	"github.com/mmynk/tripsync/internal/models"
)

// TimeLayout formats the bounds of a group's time range, e.g. "10:00 AM".
const TimeLayout = "3:04 PM"

// Group is a set of same-day events that overlap and need a vote.
type Group struct {
	// Events lists the seed event first, then its conflicts in input order.
	Events []models.Event

	// Start is the earliest start and End the latest end across Events.
	Start time.Time
	End   time.Time

	// TimeRange is Start and End formatted for display, "10:00 AM - 11:30 AM".
	TimeRange string
}

// Contains reports whether the group holds an event with the given id.
func (g Group) Contains(eventID string) bool {
	for _, e := range g.Events {
		if e.ID == eventID {
			return true
		}
	}
	return false
}

// Seed returns the id of the event that opened the group. It identifies the
// group among the groups of its day.
func (g Group) Seed() string {
	if len(g.Events) == 0 {
		return ""
	}
	return g.Events[0].ID
}

// Overlaps reports whether a and b share any time. Intervals are half-open,
// so an event ending at 11:00 does not overlap one starting at 11:00.
func Overlaps(a, b models.Event) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// ConflictsOf returns every candidate, other than event itself, that overlaps it.
// Identity is decided by ID, not by the time test.
func ConflictsOf(event models.Event, candidates []models.Event) []models.Event {
	var out []models.Event
	for _, c := range candidates {
		if c.ID == event.ID {
			continue
		}
		if Overlaps(event, c) {
			out = append(out, c)
		}
	}
	return out
}

// HasConflict reports whether event overlaps any other event of the day.
func HasConflict(event models.Event, dayEvents []models.Event) bool {
	return len(ConflictsOf(event, dayEvents)) > 0
}

// GroupConflicts partitions one day's events into conflict groups.
//
// Events are visited in input order. An event already placed in a group is
// skipped; otherwise it seeds a group made of itself and its direct
// conflicts, all of which are then marked as placed. Conflicts are searched
// across the whole day, so a placed event can appear again in the group of a
// later seed it overlaps. Grouping is single-hop: a conflict of a conflict
// joins only if it also overlaps the seed, and which events end up together
// depends on the input order. Events without conflicts do not appear in the
// result.
func GroupConflicts(dayEvents []models.Event) []Group {
	var groups []Group
	processed := make(map[string]bool, len(dayEvents))

	for _, event := range dayEvents {
		if processed[event.ID] {
			continue
		}

		conflicts := ConflictsOf(event, dayEvents)
		if len(conflicts) == 0 {
			continue
		}

		events := make([]models.Event, 0, len(conflicts)+1)
		events = append(events, event)
		events = append(events, conflicts...)

		start, end := event.Start, event.End
		for _, e := range events {
			processed[e.ID] = true
			if e.Start.Before(start) {
				start = e.Start
			}
			if e.End.After(end) {
				end = e.End
			}
		}

		groups = append(groups, Group{
			Events:    events,
			Start:     start,
			End:       end,
			TimeRange: FormatTimeRange(start, end),
		})
	}

	return groups
}

// FormatTimeRange renders a span as "10:00 AM - 11:30 AM" in the times' own zone.
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Format(TimeLayout), end.Format(TimeLayout))
}

// GroupOf returns the group holding eventID.
func GroupOf(groups []Group, eventID string) (Group, bool) {
	for _, g := range groups {
		if g.Contains(eventID) {
			return g, true
		}
	}
	return Group{}, false
}

// GroupBySeed returns the group opened by the event seedID.
func GroupBySeed(groups []Group, seedID string) (Group, bool) {
	for _, g := range groups {
		if g.Seed() == seedID {
			return g, true
		}
	}
	return Group{}, false
}

// VotingScope returns every event that shares a group with eventID, across
// all groups holding it, each event once and in group order. An event can sit
// in more than one group, so a vote for it has to be cleared from all of them.
func VotingScope(groups []Group, eventID string) []models.Event {
	var scope []models.Event
	seen := make(map[string]bool)
	for _, g := range groups {
		if !g.Contains(eventID) {
			continue
		}
		for _, e := range g.Events {
			if !seen[e.ID] {
				seen[e.ID] = true
				scope = append(scope, e)
			}
		}
	}
	return scope
}

// LeadingEvent returns the event with the strictly highest vote count.
// There is no leader when the group is empty, nobody has voted, or two or
// more events share the highest count.
func LeadingEvent(group []models.Event) (models.Event, bool) {
	var leader models.Event
	maxVotes, atMax := 0, 0

	for _, e := range group {
		switch n := e.VoteCount(); {
		case n > maxVotes:
			leader, maxVotes, atMax = e, n, 1
		case n == maxVotes:
			atMax++
		}
	}

	if maxVotes == 0 || atMax != 1 {
		return models.Event{}, false
	}
	return leader, true
}
