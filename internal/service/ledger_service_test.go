package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsync/pkg/api"
)

func TestGetBalances(t *testing.T) {
	c := setupTestServer(t)
	x := createProfile(t, c, "xavier")
	y := createProfile(t, c, "yusuf")
	z := createProfile(t, c, "zoe")
	w := createProfile(t, c, "wendy")
	trip := createTrip(t, c, x, y, z, w)

	e := createEvent(t, c, trip, x, api.EventInput{
		Title:           "Kayaks",
		Start:           clock(t, "09:00"),
		End:             clock(t, "12:00"),
		Cost:            dec("30"),
		CostAssignments: map[string]bool{x.ID: true, y.ID: true, z.ID: true},
	})
	if !e.PerPersonCost.Equal(dec("10")) {
		t.Errorf("per person: expected 10, got %s", e.PerPersonCost)
	}

	paid, err := c.ledger.MarkPaid(context.Background(), connect.NewRequest(&api.MarkPaidRequest{EventID: e.ID, MemberID: x.ID, Paid: true}))
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if !paid.Msg.Event.Payments[x.ID] {
		t.Error("expected xavier marked paid")
	}

	resp, err := c.ledger.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if len(resp.Msg.Balances) != 4 {
		t.Fatalf("balances: expected 4, got %d", len(resp.Msg.Balances))
	}

	tests := []struct {
		member       api.Profile
		total        string
		paidAmount   string
		unpaidAmount string
		shares       int
	}{
		{x, "10", "10", "0", 1},
		{y, "10", "0", "10", 1},
		{z, "10", "0", "10", 1},
		{w, "0", "0", "0", 0},
	}
	for i, tt := range tests {
		bal := resp.Msg.Balances[i]
		if bal.MemberID != tt.member.ID {
			t.Errorf("balance %d: expected %s in roster order, got %s", i, tt.member.Username, bal.Username)
			continue
		}
		if !bal.Total.Equal(dec(tt.total)) {
			t.Errorf("%s total: expected %s, got %s", bal.Username, tt.total, bal.Total)
		}
		if !bal.PaidAmount.Equal(dec(tt.paidAmount)) {
			t.Errorf("%s paid: expected %s, got %s", bal.Username, tt.paidAmount, bal.PaidAmount)
		}
		if !bal.UnpaidAmount.Equal(dec(tt.unpaidAmount)) {
			t.Errorf("%s unpaid: expected %s, got %s", bal.Username, tt.unpaidAmount, bal.UnpaidAmount)
		}
		if len(bal.Shares) != tt.shares {
			t.Errorf("%s shares: expected %d, got %d", bal.Username, tt.shares, len(bal.Shares))
		}
	}
	if !resp.Msg.TripTotal.Equal(dec("30")) {
		t.Errorf("trip total: expected 30, got %s", resp.Msg.TripTotal)
	}
}

func TestGetBalances_UnknownTrip(t *testing.T) {
	c := setupTestServer(t)

	_, err := c.ledger.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{TripID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestMarkPaid(t *testing.T) {
	c := setupTestServer(t)
	alice := createProfile(t, c, "alice")
	bob := createProfile(t, c, "bob")
	trip := createTrip(t, c, alice, bob)

	e := createEvent(t, c, trip, alice, api.EventInput{
		Title: "Taxi",
		Type:  "Other",
		Start: clock(t, "06:00"),
		End:   clock(t, "07:00"),
		Cost:  dec("25.50"),
	})

	markPaid := func(member api.Profile, paid bool) (*connect.Response[api.MarkPaidResponse], error) {
		return c.ledger.MarkPaid(context.Background(), connect.NewRequest(&api.MarkPaidRequest{
			EventID:  e.ID,
			MemberID: member.ID,
			Paid:     paid,
		}))
	}

	first, err := markPaid(alice, true)
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	again, err := markPaid(alice, true)
	if err != nil {
		t.Fatalf("repeated MarkPaid failed: %v", err)
	}
	if again.Msg.Event.Version != first.Msg.Event.Version {
		t.Errorf("repeating a status must not bump version: %d -> %d", first.Msg.Event.Version, again.Msg.Event.Version)
	}

	undone, err := markPaid(alice, false)
	if err != nil {
		t.Fatalf("MarkPaid(false) failed: %v", err)
	}
	if undone.Msg.Event.Payments[alice.ID] {
		t.Error("expected alice unpaid again")
	}

	_, err = markPaid(bob, true)
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = c.ledger.MarkPaid(context.Background(), connect.NewRequest(&api.MarkPaidRequest{EventID: "missing", MemberID: alice.ID, Paid: true}))
	assertCode(t, err, connect.CodeNotFound)
}
