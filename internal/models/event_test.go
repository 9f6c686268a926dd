package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validEvent() Event {
	start := time.Date(2026, time.June, 12, 10, 0, 0, 0, time.UTC)
	return Event{
		Title:           "Museum",
		Type:            EventTypeActivity,
		Start:           start,
		End:             start.Add(time.Hour),
		Cost:            decimal.RequireFromString("25"),
		CostAssignments: map[MemberID]bool{"alice": true},
	}
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *Event)
		wantErr bool
	}{
		{"valid", func(e *Event) {}, false},
		{"missing title", func(e *Event) { e.Title = "  " }, true},
		{"missing type", func(e *Event) { e.Type = "" }, true},
		{"unknown type", func(e *Event) { e.Type = "Party" }, true},
		{"end equals start", func(e *Event) { e.End = e.Start }, true},
		{"end before start", func(e *Event) { e.End = e.Start.Add(-time.Minute) }, true},
		{"negative cost", func(e *Event) { e.Cost = decimal.NewFromInt(-1) }, true},
		{"cost with nobody assigned", func(e *Event) { e.CostAssignments = map[MemberID]bool{} }, true},
		{"cost with only false assignments", func(e *Event) { e.CostAssignments = map[MemberID]bool{"alice": false} }, true},
		{"zero cost ignores assignments", func(e *Event) {
			e.Cost = decimal.Zero
			e.CostAssignments = nil
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(&e)
			err := e.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestNewEvent_Defaults(t *testing.T) {
	draft := validEvent()
	draft.ID = "client-supplied"
	draft.CostAssignments = nil
	draft.Votes = []MemberID{"bob"}

	e := NewEvent(draft, "alice")

	if e.ID != "" {
		t.Errorf("ID should be left for the store, got %q", e.ID)
	}
	if len(e.Votes) != 0 {
		t.Errorf("new events start without votes, got %v", e.Votes)
	}
	if !e.IsAssigned("alice") || e.AssignedCount() != 1 {
		t.Errorf("cost should default to the creator only, got %v", e.CostAssignments)
	}
	if paid, ok := e.Payments["alice"]; !ok || paid {
		t.Errorf("creator should start unpaid, got %v", e.Payments)
	}
	if e.CreatedBy != "alice" {
		t.Errorf("CreatedBy = %q, want alice", e.CreatedBy)
	}
}

func TestNewEvent_ExplicitAssignments(t *testing.T) {
	draft := validEvent()
	draft.CostAssignments = map[MemberID]bool{"alice": false, "bob": true, "carol": true}

	e := NewEvent(draft, "alice")
	if e.IsAssigned("alice") {
		t.Error("explicit assignments must not be overridden")
	}
	if len(e.Payments) != 2 || e.Payments["bob"] || e.Payments["carol"] {
		t.Errorf("payments should be false for each assignee only, got %v", e.Payments)
	}

	// Explicitly empty assignments are kept so validation can reject them.
	draft.CostAssignments = map[MemberID]bool{}
	e = NewEvent(draft, "alice")
	if err := e.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("cost 25 with no assignees should fail validation, got %v", err)
	}
}

func TestReconcilePayments(t *testing.T) {
	e := validEvent()
	e.CostAssignments = map[MemberID]bool{"alice": true, "bob": false, "dave": true}
	e.Payments = map[MemberID]bool{"alice": true, "bob": true, "carol": false}

	e.ReconcilePayments()

	want := map[MemberID]bool{"alice": true, "dave": false}
	if len(e.Payments) != len(want) {
		t.Fatalf("Payments = %v, want %v", e.Payments, want)
	}
	for m, paid := range want {
		got, ok := e.Payments[m]
		if !ok || got != paid {
			t.Errorf("Payments[%s] = %v (present %v), want %v", m, got, ok, paid)
		}
	}
}

func TestClone_IsDeep(t *testing.T) {
	e := validEvent()
	e.Payments = map[MemberID]bool{"alice": false}
	e.Votes = []MemberID{"alice"}

	c := e.Clone()
	c.CostAssignments["bob"] = true
	c.Payments["alice"] = true
	c.Votes[0] = "bob"

	if e.IsAssigned("bob") || e.HasPaid("alice") || e.Votes[0] != "alice" {
		t.Error("Clone shares state with the original")
	}
}

func TestTripValidateAndMembers(t *testing.T) {
	start := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	trip := Trip{
		Name:      "Lisbon",
		OwnerID:   "alice",
		Members:   []MemberID{"alice", "bob"},
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 3),
		Timezone:  "Europe/Lisbon",
	}
	if err := trip.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	bad := trip
	bad.Members = []MemberID{"bob"}
	if err := bad.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("owner outside members should fail, got %v", err)
	}
	bad = trip
	bad.Timezone = "Mars/Olympus"
	if err := bad.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown timezone should fail, got %v", err)
	}

	members := MembersOf(trip, []Profile{{ID: "bob", Username: "bobby"}, {ID: "alice", Username: "al"}})
	if len(members) != 2 || members[0].ID != "alice" || !members[0].IsOwner || members[1].IsOwner {
		t.Errorf("unexpected roster: %+v", members)
	}
	if members[1].Username != "bobby" {
		t.Errorf("username not resolved: %+v", members[1])
	}
}
