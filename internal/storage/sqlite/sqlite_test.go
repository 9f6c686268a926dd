package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsync/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "tripsync-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedTrip(t *testing.T, store *SQLiteStore, members ...string) *models.Trip {
	t.Helper()
	ctx := context.Background()

	var ids []models.MemberID
	for _, name := range members {
		p := &models.Profile{Username: name}
		if err := store.CreateProfile(ctx, p); err != nil {
			t.Fatalf("CreateProfile(%s) failed: %v", name, err)
		}
		ids = append(ids, p.ID)
	}

	start := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	trip := &models.Trip{
		Name:      "Lisbon",
		OwnerID:   ids[0],
		Members:   ids,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 4),
	}
	if err := store.CreateTrip(ctx, trip); err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return trip
}

func TestSQLiteStore_Trips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateTrip generates ID and keeps member order", func(t *testing.T) {
		trip := seedTrip(t, store, "alice", "bob", "carol")
		if trip.ID == "" || trip.CreatedAt == 0 {
			t.Fatal("Expected ID and CreatedAt to be generated")
		}

		retrieved, err := store.GetTrip(ctx, trip.ID)
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		if len(retrieved.Members) != 3 || retrieved.Members[0] != trip.OwnerID {
			t.Errorf("Members mismatch: got %v, want %v", retrieved.Members, trip.Members)
		}
		if !retrieved.StartDate.Equal(trip.StartDate) || !retrieved.EndDate.Equal(trip.EndDate) {
			t.Errorf("Dates mismatch: got %v..%v", retrieved.StartDate, retrieved.EndDate)
		}

		members, err := store.ListMembers(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if members[0].Username != "alice" || !members[0].IsOwner || members[1].IsOwner {
			t.Errorf("Unexpected roster: %+v", members)
		}
	})

	t.Run("Duplicate username is rejected", func(t *testing.T) {
		err := store.CreateProfile(ctx, &models.Profile{Username: "alice"})
		if !errors.Is(err, models.ErrInvalidState) {
			t.Errorf("Expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("GetTrip returns ErrNotFound for nonexistent trip", func(t *testing.T) {
		_, err := store.GetTrip(ctx, "nonexistent-id")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListTripsForMember and RemoveMember", func(t *testing.T) {
		trip := seedTrip(t, store, "dave", "erin")
		erin := trip.Members[1]
		voted := testEvent(trip)
		if err := store.CreateEvent(ctx, voted); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}

		trips, err := store.ListTripsForMember(ctx, erin)
		if err != nil || len(trips) != 1 || trips[0].ID != trip.ID {
			t.Fatalf("ListTripsForMember = %v, %v", trips, err)
		}

		if err := store.RemoveMember(ctx, trip.ID, erin); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		trips, err = store.ListTripsForMember(ctx, erin)
		if err != nil || len(trips) != 0 {
			t.Errorf("Expected no trips after removal, got %d (%v)", len(trips), err)
		}
		stored, err := store.GetEvent(ctx, voted.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if stored.HasVote(erin) {
			t.Errorf("Removed member's vote survived: %v", stored.Votes)
		}
		if stored.Version <= voted.Version {
			t.Errorf("Expected version bump past %d, got %d", voted.Version, stored.Version)
		}
		if err := store.RemoveMember(ctx, trip.ID, erin); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second removal, got %v", err)
		}
	})

	t.Run("DeleteTrip cascades to events and invitations", func(t *testing.T) {
		trip := seedTrip(t, store, "frank", "grace")
		event := testEvent(trip)
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		inv := &models.Invitation{TripID: trip.ID, InviterID: trip.OwnerID, InviteeID: trip.Members[1]}
		if err := store.CreateInvitation(ctx, inv); err != nil {
			t.Fatalf("CreateInvitation failed: %v", err)
		}

		if err := store.DeleteTrip(ctx, trip.ID); err != nil {
			t.Fatalf("DeleteTrip failed: %v", err)
		}
		if _, err := store.GetEvent(ctx, event.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected event to be deleted, got %v", err)
		}
		if _, err := store.GetInvitation(ctx, inv.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected invitation to be deleted, got %v", err)
		}
	})
}

func testEvent(trip *models.Trip) *models.Event {
	start := trip.StartDate.Add(10 * time.Hour)
	return &models.Event{
		TripID:          trip.ID,
		Title:           "Tram 28",
		Type:            models.EventTypeActivity,
		Location:        "Martim Moniz",
		Start:           start,
		End:             start.Add(90 * time.Minute),
		Cost:            decimal.RequireFromString("12.60"),
		CostAssignments: map[models.MemberID]bool{trip.Members[0]: true, trip.Members[1]: false},
		Payments:        map[models.MemberID]bool{trip.Members[0]: false},
		Votes:           []models.MemberID{trip.Members[1]},
		CreatedBy:       trip.Members[0],
	}
}

func TestSQLiteStore_Events(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	trip := seedTrip(t, store, "alice", "bob")
	alice, bob := trip.Members[0], trip.Members[1]

	t.Run("CreateEvent and GetEvent round trip", func(t *testing.T) {
		original := testEvent(trip)
		if err := store.CreateEvent(ctx, original); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if original.ID == "" || original.Version != 1 {
			t.Fatalf("Expected ID and version 1, got %q v%d", original.ID, original.Version)
		}

		retrieved, err := store.GetEvent(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if retrieved.Title != original.Title || retrieved.Type != original.Type {
			t.Errorf("Descriptive fields mismatch: %+v", retrieved)
		}
		if !retrieved.Start.Equal(original.Start) || !retrieved.End.Equal(original.End) {
			t.Errorf("Times mismatch: got %v..%v", retrieved.Start, retrieved.End)
		}
		if !retrieved.Cost.Equal(original.Cost) {
			t.Errorf("Cost mismatch: got %s, want %s", retrieved.Cost, original.Cost)
		}
		if !retrieved.IsAssigned(alice) || retrieved.IsAssigned(bob) || len(retrieved.CostAssignments) != 2 {
			t.Errorf("Assignments mismatch: %v", retrieved.CostAssignments)
		}
		if paid, ok := retrieved.Payments[alice]; !ok || paid {
			t.Errorf("Payments mismatch: %v", retrieved.Payments)
		}
		if len(retrieved.Votes) != 1 || retrieved.Votes[0] != bob {
			t.Errorf("Votes mismatch: %v", retrieved.Votes)
		}
	})

	t.Run("UpdateEvent bumps version and rejects stale writes", func(t *testing.T) {
		event := testEvent(trip)
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}

		first, _ := store.GetEvent(ctx, event.ID)
		second, _ := store.GetEvent(ctx, event.ID)

		first.Payments[alice] = true
		if err := store.UpdateEvent(ctx, first); err != nil {
			t.Fatalf("UpdateEvent failed: %v", err)
		}
		if first.Version != 2 {
			t.Errorf("Expected version 2, got %d", first.Version)
		}

		second.Votes = nil
		err := store.UpdateEvent(ctx, second)
		if !errors.Is(err, models.ErrStale) {
			t.Fatalf("Expected ErrStale, got %v", err)
		}
		if second.Version != 1 {
			t.Errorf("Failed update must not bump version, got %d", second.Version)
		}

		stored, _ := store.GetEvent(ctx, event.ID)
		if !stored.HasPaid(alice) || len(stored.Votes) != 1 {
			t.Errorf("Stale write leaked: paid=%v votes=%v", stored.HasPaid(alice), stored.Votes)
		}
	})

	t.Run("UpdateEvents is all-or-nothing", func(t *testing.T) {
		a := testEvent(trip)
		b := testEvent(trip)
		for _, e := range []*models.Event{a, b} {
			if err := store.CreateEvent(ctx, e); err != nil {
				t.Fatalf("CreateEvent failed: %v", err)
			}
		}

		a.Votes = []models.MemberID{alice}
		b.Votes = nil
		b.Version = 99 // stale
		if err := store.UpdateEvents(ctx, []*models.Event{a, b}); !errors.Is(err, models.ErrStale) {
			t.Fatalf("Expected ErrStale, got %v", err)
		}

		stored, _ := store.GetEvent(ctx, a.ID)
		if len(stored.Votes) != 1 || stored.Votes[0] != bob {
			t.Errorf("Partial batch leaked into event a: %v", stored.Votes)
		}
		if a.Version != 1 {
			t.Errorf("Rolled back update must restore version, got %d", a.Version)
		}
	})

	t.Run("UpdateEvent and DeleteEvent on missing event", func(t *testing.T) {
		missing := testEvent(trip)
		missing.ID = "nope"
		missing.Version = 1
		if err := store.UpdateEvent(ctx, missing); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteEvent(ctx, "nope"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListEventsForTrip orders by start", func(t *testing.T) {
		other := seedTrip(t, store, "yara", "zed")
		late := testEvent(other)
		late.Start = late.Start.Add(3 * time.Hour)
		late.End = late.End.Add(3 * time.Hour)
		early := testEvent(other)
		for _, e := range []*models.Event{late, early} {
			if err := store.CreateEvent(ctx, e); err != nil {
				t.Fatalf("CreateEvent failed: %v", err)
			}
		}

		events, err := store.ListEventsForTrip(ctx, other.ID)
		if err != nil {
			t.Fatalf("ListEventsForTrip failed: %v", err)
		}
		if len(events) != 2 || events[0].ID != early.ID || events[1].ID != late.ID {
			t.Errorf("Unexpected order: %v", events)
		}
	})
}

func TestSQLiteStore_Invitations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	trip := seedTrip(t, store, "alice")

	bob := &models.Profile{Username: "bob"}
	if err := store.CreateProfile(ctx, bob); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	inv := &models.Invitation{TripID: trip.ID, InviterID: trip.OwnerID, InviteeID: bob.ID}
	if err := store.CreateInvitation(ctx, inv); err != nil {
		t.Fatalf("CreateInvitation failed: %v", err)
	}
	if inv.Status != models.InvitationPending {
		t.Errorf("Expected pending status, got %s", inv.Status)
	}

	listed, err := store.ListInvitationsForInvitee(ctx, bob.ID)
	if err != nil || len(listed) != 1 || listed[0].InviteeUsername != "bob" {
		t.Fatalf("ListInvitationsForInvitee = %v, %v", listed, err)
	}

	if err := store.AcceptInvitation(ctx, inv.ID); err != nil {
		t.Fatalf("AcceptInvitation failed: %v", err)
	}
	updated, _ := store.GetTrip(ctx, trip.ID)
	if !updated.IsMember(bob.ID) || updated.Members[len(updated.Members)-1] != bob.ID {
		t.Errorf("Invitee not appended to members: %v", updated.Members)
	}

	if err := store.RejectInvitation(ctx, inv.ID); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState for resolved invitation, got %v", err)
	}
	if err := store.AcceptInvitation(ctx, "nope"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	byTrip, err := store.ListInvitationsForTrip(ctx, trip.ID)
	if err != nil || len(byTrip) != 1 || byTrip[0].Status != models.InvitationAccepted {
		t.Errorf("ListInvitationsForTrip = %v, %v", byTrip, err)
	}
}
