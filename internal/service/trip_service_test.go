package service

import (
	"context"
	"slices"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsync/pkg/api"
)

func TestCreateProfile(t *testing.T) {
	c := setupTestServer(t)

	p := createProfile(t, c, "  alice ")
	if p.ID == "" {
		t.Error("expected non-empty profile ID")
	}
	if p.Username != "alice" {
		t.Errorf("username: expected 'alice', got '%s'", p.Username)
	}

	_, err := c.trips.CreateProfile(context.Background(), connect.NewRequest(&api.CreateProfileRequest{Username: "alice"}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = c.trips.CreateProfile(context.Background(), connect.NewRequest(&api.CreateProfileRequest{Username: " "}))
	assertCode(t, err, connect.CodeInvalidArgument)

	byName, err := c.trips.GetProfile(context.Background(), connect.NewRequest(&api.GetProfileRequest{Username: "alice"}))
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if byName.Msg.Profile.ID != p.ID {
		t.Errorf("GetProfile by username: expected %s, got %s", p.ID, byName.Msg.Profile.ID)
	}

	_, err = c.trips.GetProfile(context.Background(), connect.NewRequest(&api.GetProfileRequest{ID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestCreateTrip(t *testing.T) {
	c := setupTestServer(t)
	alice := createProfile(t, c, "alice")
	bob := createProfile(t, c, "bob")

	trip := createTrip(t, c, alice, bob, alice)

	if trip.ID == "" {
		t.Error("expected non-empty trip ID")
	}
	if trip.OwnerID != alice.ID {
		t.Errorf("owner: expected %s, got %s", alice.ID, trip.OwnerID)
	}
	if len(trip.Members) != 2 {
		t.Fatalf("members: expected 2, got %d", len(trip.Members))
	}
	if !trip.Members[0].IsOwner || trip.Members[0].Username != "alice" {
		t.Errorf("expected alice as owner first, got %+v", trip.Members[0])
	}
	if trip.Members[1].Username != "bob" || trip.Members[1].IsOwner {
		t.Errorf("expected bob second, got %+v", trip.Members[1])
	}

	got, err := c.trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	wantDays := []string{"2026-06-10", "2026-06-11", "2026-06-12", "2026-06-13"}
	if !slices.Equal(got.Msg.Days, wantDays) {
		t.Errorf("days: expected %v, got %v", wantDays, got.Msg.Days)
	}
	if got.Msg.Trip.StartDate != "2026-06-10" || got.Msg.Trip.EndDate != "2026-06-13" {
		t.Errorf("dates: got %s..%s", got.Msg.Trip.StartDate, got.Msg.Trip.EndDate)
	}
}

func TestCreateTrip_Invalid(t *testing.T) {
	c := setupTestServer(t)
	alice := createProfile(t, c, "alice")

	tests := []struct {
		name string
		req  *api.CreateTripRequest
		code connect.Code
	}{
		{
			name: "missing name",
			req:  &api.CreateTripRequest{OwnerID: alice.ID, StartDate: "2026-06-10", EndDate: "2026-06-12"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "end before start",
			req:  &api.CreateTripRequest{Name: "x", OwnerID: alice.ID, StartDate: "2026-06-12", EndDate: "2026-06-10"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "bad date",
			req:  &api.CreateTripRequest{Name: "x", OwnerID: alice.ID, StartDate: "June 10", EndDate: "2026-06-10"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown timezone",
			req:  &api.CreateTripRequest{Name: "x", OwnerID: alice.ID, StartDate: "2026-06-10", EndDate: "2026-06-10", Timezone: "Mars/Olympus"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown member",
			req:  &api.CreateTripRequest{Name: "x", OwnerID: alice.ID, MemberIDs: []string{"ghost"}, StartDate: "2026-06-10", EndDate: "2026-06-10"},
			code: connect.CodeNotFound,
		},
		{
			name: "missing owner",
			req:  &api.CreateTripRequest{Name: "x", StartDate: "2026-06-10", EndDate: "2026-06-10"},
			code: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.trips.CreateTrip(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.code)
		})
	}
}

func TestUpdateAndDeleteTrip(t *testing.T) {
	c := setupTestServer(t)
	alice := createProfile(t, c, "alice")
	trip := createTrip(t, c, alice)

	resp, err := c.trips.UpdateTrip(context.Background(), connect.NewRequest(&api.UpdateTripRequest{
		TripID:    trip.ID,
		Name:      "Porto",
		StartDate: "2026-07-01",
		EndDate:   "2026-07-02",
		Timezone:  "Europe/Lisbon",
	}))
	if err != nil {
		t.Fatalf("UpdateTrip failed: %v", err)
	}
	if resp.Msg.Trip.Name != "Porto" || resp.Msg.Trip.Timezone != "Europe/Lisbon" {
		t.Errorf("unexpected trip after update: %+v", resp.Msg.Trip)
	}

	list, err := c.trips.ListTrips(context.Background(), connect.NewRequest(&api.ListTripsRequest{MemberID: alice.ID}))
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(list.Msg.Trips) != 1 || list.Msg.Trips[0].Name != "Porto" {
		t.Errorf("ListTrips: expected [Porto], got %+v", list.Msg.Trips)
	}

	if _, err := c.trips.DeleteTrip(context.Background(), connect.NewRequest(&api.DeleteTripRequest{TripID: trip.ID})); err != nil {
		t.Fatalf("DeleteTrip failed: %v", err)
	}
	_, err = c.trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestRemoveMember(t *testing.T) {
	c := setupTestServer(t)
	alice := createProfile(t, c, "alice")
	bob := createProfile(t, c, "bob")
	trip := createTrip(t, c, alice, bob)

	a := createEvent(t, c, trip, alice, api.EventInput{Title: "A", Start: clock(t, "10:00"), End: clock(t, "11:00")})
	b := createEvent(t, c, trip, alice, api.EventInput{Title: "B", Start: clock(t, "10:30"), End: clock(t, "11:30")})
	if _, err := c.events.CastVote(context.Background(), connect.NewRequest(&api.CastVoteRequest{EventID: a.ID, MemberID: bob.ID})); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if _, err := c.events.CastVote(context.Background(), connect.NewRequest(&api.CastVoteRequest{EventID: b.ID, MemberID: alice.ID})); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}

	_, err := c.trips.RemoveMember(context.Background(), connect.NewRequest(&api.RemoveMemberRequest{TripID: trip.ID, MemberID: alice.ID}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	resp, err := c.trips.RemoveMember(context.Background(), connect.NewRequest(&api.RemoveMemberRequest{TripID: trip.ID, MemberID: bob.ID}))
	if err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if len(resp.Msg.Members) != 1 || resp.Msg.Members[0].ID != alice.ID {
		t.Errorf("expected only alice left, got %+v", resp.Msg.Members)
	}

	events, err := c.events.ListEvents(context.Background(), connect.NewRequest(&api.ListEventsRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	for _, e := range events.Msg.Events {
		if slices.Contains(e.Votes, bob.ID) {
			t.Errorf("event %s still carries bob's vote", e.Title)
		}
		if e.ID == b.ID && !slices.Contains(e.Votes, alice.ID) {
			t.Error("alice's vote on B must survive bob's removal")
		}
	}

	groups, err := c.events.ListConflictGroups(context.Background(), connect.NewRequest(&api.ListConflictGroupsRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("ListConflictGroups failed: %v", err)
	}
	if got := groups.Msg.Groups[0].LeadingEventID; got != b.ID {
		t.Errorf("leader: expected B once bob's vote is gone, got %q", got)
	}

	_, err = c.trips.RemoveMember(context.Background(), connect.NewRequest(&api.RemoveMemberRequest{TripID: trip.ID, MemberID: bob.ID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestInvitationFlow(t *testing.T) {
	c := setupTestServer(t)
	alice := createProfile(t, c, "alice")
	bob := createProfile(t, c, "bob")
	carol := createProfile(t, c, "carol")
	trip := createTrip(t, c, alice)

	invite := func(inviter api.Profile, username string) (*connect.Response[api.InviteResponse], error) {
		return c.trips.Invite(context.Background(), connect.NewRequest(&api.InviteRequest{
			TripID:          trip.ID,
			InviterID:       inviter.ID,
			InviteeUsername: username,
		}))
	}

	resp, err := invite(alice, "bob")
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}
	inv := resp.Msg.Invitation
	if inv.Status != "pending" || inv.InviteeID != bob.ID {
		t.Errorf("unexpected invitation: %+v", inv)
	}

	_, err = invite(alice, "bob")
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = invite(carol, "bob")
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = invite(alice, "nobody")
	assertCode(t, err, connect.CodeNotFound)

	inbox, err := c.trips.ListInvitations(context.Background(), connect.NewRequest(&api.ListInvitationsRequest{InviteeID: bob.ID}))
	if err != nil {
		t.Fatalf("ListInvitations failed: %v", err)
	}
	if len(inbox.Msg.Invitations) != 1 || inbox.Msg.Invitations[0].ID != inv.ID {
		t.Errorf("inbox: expected [%s], got %+v", inv.ID, inbox.Msg.Invitations)
	}

	accepted, err := c.trips.AcceptInvitation(context.Background(), connect.NewRequest(&api.AcceptInvitationRequest{InvitationID: inv.ID}))
	if err != nil {
		t.Fatalf("AcceptInvitation failed: %v", err)
	}
	members := accepted.Msg.Trip.Members
	if len(members) != 2 || members[1].ID != bob.ID {
		t.Errorf("expected bob to join after alice, got %+v", members)
	}

	_, err = c.trips.AcceptInvitation(context.Background(), connect.NewRequest(&api.AcceptInvitationRequest{InvitationID: inv.ID}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = invite(bob, "alice")
	assertCode(t, err, connect.CodeFailedPrecondition)

	resp, err = invite(bob, "carol")
	if err != nil {
		t.Fatalf("Invite by new member failed: %v", err)
	}
	if _, err := c.trips.RejectInvitation(context.Background(), connect.NewRequest(&api.RejectInvitationRequest{InvitationID: resp.Msg.Invitation.ID})); err != nil {
		t.Fatalf("RejectInvitation failed: %v", err)
	}

	byTrip, err := c.trips.ListInvitations(context.Background(), connect.NewRequest(&api.ListInvitationsRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("ListInvitations failed: %v", err)
	}
	statuses := map[string]string{}
	for _, i := range byTrip.Msg.Invitations {
		statuses[i.InviteeID] = i.Status
	}
	if statuses[bob.ID] != "accepted" || statuses[carol.ID] != "rejected" {
		t.Errorf("unexpected statuses: %v", statuses)
	}
}
