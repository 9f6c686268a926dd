package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsync/internal/calculator"
	"github.com/mmynk/tripsync/internal/models"
	"github.com/mmynk/tripsync/internal/storage"
	"github.com/mmynk/tripsync/pkg/api"
	"github.com/mmynk/tripsync/pkg/api/apiconnect"
)

// LedgerService implements the Connect LedgerService: per-member balances
// and payment tracking. Balances are recomputed from the events on every call.
type LedgerService struct {
	apiconnect.UnimplementedLedgerServiceHandler
	store storage.Store
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// GetBalances returns every roster member's total, paid and unpaid amounts.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	slog.Info("GetBalances request received", "trip_id", req.Msg.TripID)

	roster, err := s.store.ListMembers(ctx, req.Msg.TripID)
	if err != nil {
		return nil, fail("GetBalances", err, "trip_id", req.Msg.TripID)
	}
	events, err := s.store.ListEventsForTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, fail("GetBalances", err, "trip_id", req.Msg.TripID)
	}

	balances := calculator.ComputeBalances(events, roster)
	total := calculator.TripTotal(balances)

	slog.Debug("Balances computed",
		"trip_id", req.Msg.TripID,
		"members", len(roster),
		"events", len(events),
		"trip_total", total.String(),
	)

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances:  toAPIBalances(roster, balances),
		TripTotal: total,
	}), nil
}

// MarkPaid records whether a member has paid their share of an event.
// The member must share the event's cost.
func (s *LedgerService) MarkPaid(ctx context.Context, req *connect.Request[api.MarkPaidRequest]) (*connect.Response[api.MarkPaidResponse], error) {
	slog.Info("MarkPaid request received",
		"event_id", req.Msg.EventID,
		"member_id", req.Msg.MemberID,
		"paid", req.Msg.Paid,
	)

	memberID := models.MemberID(req.Msg.MemberID)
	var trip *models.Trip
	var updated models.Event
	err := retryStale(ctx, func() error {
		event, err := s.store.GetEvent(ctx, req.Msg.EventID)
		if err != nil {
			return err
		}
		if trip, err = s.store.GetTrip(ctx, event.TripID); err != nil {
			return err
		}
		if err := requireMember(trip, memberID); err != nil {
			return err
		}

		if updated, err = calculator.MarkPaid([]models.Event{*event}, event.ID, memberID, req.Msg.Paid); err != nil {
			return err
		}
		if paid, ok := event.Payments[memberID]; ok && paid == req.Msg.Paid {
			updated = *event
			return nil
		}
		return s.store.UpdateEvent(ctx, &updated)
	})
	if err != nil {
		return nil, fail("MarkPaid", err, "event_id", req.Msg.EventID, "member_id", memberID)
	}

	slog.Info("Payment recorded", "event_id", updated.ID, "member_id", memberID, "paid", req.Msg.Paid)

	return connect.NewResponse(&api.MarkPaidResponse{
		Event: renderEvent(ctx, s.store, trip, updated),
	}), nil
}
