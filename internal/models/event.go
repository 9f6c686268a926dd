package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MemberID identifies a profile inside a trip.
type MemberID string

// EventType is the category shown next to an event.
type EventType string

const (
	EventTypeFlight   EventType = "Flight"
	EventTypeHotel    EventType = "Hotel"
	EventTypeFood     EventType = "Food"
	EventTypeActivity EventType = "Activity"
	EventTypeOther    EventType = "Other"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeFlight, EventTypeHotel, EventTypeFood, EventTypeActivity, EventTypeOther:
		return true
	}
	return false
}

// Event is a single itinerary entry on a trip.
type Event struct {
	// ID is the unique identifier for the event (UUID format), assigned by the store.
	ID string

	// TripID is the trip that owns this event.
	TripID string

	Title    string
	Type     EventType
	Location string
	Details  string

	// Start and End bound the event; Start must be strictly before End.
	Start time.Time
	End   time.Time

	// Cost is the amount shared by the assigned members. Zero means nothing to split.
	Cost decimal.Decimal

	// CostAssignments marks which members share Cost. A missing key means false.
	CostAssignments map[MemberID]bool

	// Payments records whether each assigned member has paid their share.
	// Entries for unassigned members are pruned by ReconcilePayments.
	Payments map[MemberID]bool

	// Votes holds the members currently backing this event over its conflicts.
	// It has set semantics; order is insertion order.
	Votes []MemberID

	// CreatedBy is the member who created the event.
	CreatedBy MemberID

	// Version is bumped by the store on every successful update and is used
	// for conditional writes.
	Version int64

	CreatedAt int64
	UpdatedAt int64
}

// NewEvent prepares a freshly created event from a draft: votes start empty,
// cost assignments default to the creator alone when the draft leaves them
// unset (nil), and every assignee starts unpaid.
func NewEvent(draft Event, creator MemberID) Event {
	e := draft.Clone()
	e.ID = ""
	e.Version = 0
	e.CreatedBy = creator
	e.Votes = nil
	if e.CostAssignments == nil {
		e.CostAssignments = map[MemberID]bool{creator: true}
	}
	e.Payments = make(map[MemberID]bool)
	for m, assigned := range e.CostAssignments {
		if assigned {
			e.Payments[m] = false
		}
	}
	return e
}

// Validate checks the invariants enforced at create and edit time.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown event type %q", ErrValidation, e.Type)
	}
	if e.Start.IsZero() || e.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrValidation)
	}
	if !e.Start.Before(e.End) {
		return fmt.Errorf("%w: end must be after start", ErrValidation)
	}
	if e.Cost.IsNegative() {
		return fmt.Errorf("%w: cost cannot be negative", ErrValidation)
	}
	if e.Cost.IsPositive() && e.AssignedCount() == 0 {
		return fmt.Errorf("%w: cost must be assigned to at least one member", ErrValidation)
	}
	return nil
}

// AssignedCount returns the number of members sharing the cost.
func (e Event) AssignedCount() int {
	n := 0
	for _, assigned := range e.CostAssignments {
		if assigned {
			n++
		}
	}
	return n
}

// IsAssigned reports whether m shares this event's cost.
func (e Event) IsAssigned(m MemberID) bool {
	return e.CostAssignments[m]
}

// HasPaid reports whether m has paid their share.
func (e Event) HasPaid(m MemberID) bool {
	return e.Payments[m]
}

// HasVote reports whether m currently votes for this event.
func (e Event) HasVote(m MemberID) bool {
	return slices.Contains(e.Votes, m)
}

// VoteCount returns the number of distinct voters.
func (e Event) VoteCount() int {
	return len(e.Votes)
}

// ReconcilePayments aligns Payments with CostAssignments after an edit.
// New assignees start unpaid, existing statuses are kept and entries for
// members no longer assigned are dropped.
func (e *Event) ReconcilePayments() {
	if e.Payments == nil {
		e.Payments = make(map[MemberID]bool)
	}
	for m, assigned := range e.CostAssignments {
		if !assigned {
			continue
		}
		if _, ok := e.Payments[m]; !ok {
			e.Payments[m] = false
		}
	}
	for m := range e.Payments {
		if !e.CostAssignments[m] {
			delete(e.Payments, m)
		}
	}
}

// Clone returns a deep copy so callers can mutate maps and votes freely.
func (e Event) Clone() Event {
	c := e
	if e.CostAssignments != nil {
		c.CostAssignments = make(map[MemberID]bool, len(e.CostAssignments))
		for k, v := range e.CostAssignments {
			c.CostAssignments[k] = v
		}
	}
	if e.Payments != nil {
		c.Payments = make(map[MemberID]bool, len(e.Payments))
		for k, v := range e.Payments {
			c.Payments[k] = v
		}
	}
	if e.Votes != nil {
		c.Votes = slices.Clone(e.Votes)
	}
	return c
}
