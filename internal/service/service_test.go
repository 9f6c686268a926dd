package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsync/internal/middleware"
	"github.com/mmynk/tripsync/internal/storage/sqlite"
	"github.com/mmynk/tripsync/pkg/api"
	"github.com/mmynk/tripsync/pkg/api/apiconnect"
)

// testClients bundles the clients of all three services behind one server.
type testClients struct {
	trips  apiconnect.TripServiceClient
	events apiconnect.EventServiceClient
	ledger apiconnect.LedgerServiceClient
}

// setupTestServer serves every service over a fresh SQLite database.
func setupTestServer(t *testing.T) testClients {
	t.Helper()

	dir, err := os.MkdirTemp("", "tripsync-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	opts := connect.WithInterceptors(middleware.Identity())
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewTripServiceHandler(NewTripService(store, "UTC"), opts))
	mux.Handle(apiconnect.NewEventServiceHandler(NewEventService(store), opts))
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(store), opts))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return testClients{
		trips:  apiconnect.NewTripServiceClient(http.DefaultClient, server.URL),
		events: apiconnect.NewEventServiceClient(http.DefaultClient, server.URL),
		ledger: apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
	}
}

func createProfile(t *testing.T, c testClients, username string) api.Profile {
	t.Helper()
	resp, err := c.trips.CreateProfile(context.Background(), connect.NewRequest(&api.CreateProfileRequest{Username: username}))
	if err != nil {
		t.Fatalf("CreateProfile(%s) failed: %v", username, err)
	}
	return resp.Msg.Profile
}

// createTrip creates a UTC trip on 2026-06-10..2026-06-13 owned by the first profile.
func createTrip(t *testing.T, c testClients, owner api.Profile, others ...api.Profile) api.Trip {
	t.Helper()
	var ids []string
	for _, p := range others {
		ids = append(ids, p.ID)
	}
	resp, err := c.trips.CreateTrip(context.Background(), connect.NewRequest(&api.CreateTripRequest{
		Name:      "Lisbon",
		OwnerID:   owner.ID,
		MemberIDs: ids,
		StartDate: "2026-06-10",
		EndDate:   "2026-06-13",
		Timezone:  "UTC",
	}))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return resp.Msg.Trip
}

// clock returns the given "15:04" time on 2026-06-11 UTC.
func clock(t *testing.T, hhmm string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", "2026-06-11 "+hhmm)
	if err != nil {
		t.Fatalf("bad clock %q: %v", hhmm, err)
	}
	return ts
}

func createEvent(t *testing.T, c testClients, trip api.Trip, creator api.Profile, in api.EventInput) api.Event {
	t.Helper()
	if in.Type == "" {
		in.Type = "Activity"
	}
	resp, err := c.events.CreateEvent(context.Background(), connect.NewRequest(&api.CreateEventRequest{
		TripID:    trip.ID,
		CreatedBy: creator.ID,
		Event:     in,
	}))
	if err != nil {
		t.Fatalf("CreateEvent(%s) failed: %v", in.Title, err)
	}
	return resp.Msg.Event
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Errorf("code: expected %v, got %v (%v)", want, connectErr.Code(), err)
	}
}
