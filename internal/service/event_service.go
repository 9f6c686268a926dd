package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsync/internal/conflict"
	"github.com/mmynk/tripsync/internal/middleware"
	"github.com/mmynk/tripsync/internal/models"
	"github.com/mmynk/tripsync/internal/storage"
	"github.com/mmynk/tripsync/pkg/api"
	"github.com/mmynk/tripsync/pkg/api/apiconnect"
)

// EventService implements the Connect EventService: itinerary events,
// conflict groups and voting.
type EventService struct {
	apiconnect.UnimplementedEventServiceHandler
	store storage.Store
}

// NewEventService creates a new EventService with the given storage backend.
func NewEventService(store storage.Store) *EventService {
	return &EventService{store: store}
}

// CreateEvent adds an event to a trip. Votes start empty, cost assignments
// default to the creator and every assignee starts unpaid.
func (s *EventService) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	slog.Info("CreateEvent request received",
		"trip_id", req.Msg.TripID,
		"title", req.Msg.Event.Title,
		"created_by", req.Msg.CreatedBy,
	)

	trip, err := s.store.GetTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, fail("CreateEvent", err, "trip_id", req.Msg.TripID)
	}
	creator := models.MemberID(req.Msg.CreatedBy)
	if err := requireMember(trip, creator); err != nil {
		return nil, fail("CreateEvent", err)
	}

	var draft models.Event
	applyInput(&draft, req.Msg.Event)
	draft.TripID = trip.ID
	draft.CostAssignments = fromAPIFlags(req.Msg.Event.CostAssignments)

	event := models.NewEvent(draft, creator)
	if err := validateEvent(trip, event); err != nil {
		return nil, fail("CreateEvent", err)
	}

	if err := s.store.CreateEvent(ctx, &event); err != nil {
		return nil, fail("CreateEvent", err, "trip_id", trip.ID)
	}

	slog.Info("Event created", "event_id", event.ID, "trip_id", trip.ID)

	return connect.NewResponse(&api.CreateEventResponse{
		Event: s.render(ctx, trip, event),
	}), nil
}

// UpdateEvent edits an event's fields and cost assignments. Payment
// statuses are reconciled with the new assignments. Votes are kept unless
// the start or end moves, since the event may then join other groups.
func (s *EventService) UpdateEvent(ctx context.Context, req *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error) {
	slog.Info("UpdateEvent request received", "event_id", req.Msg.EventID, "version", req.Msg.Version)

	var trip *models.Trip
	var event *models.Event
	err := retryStale(ctx, func() error {
		var err error
		event, err = s.store.GetEvent(ctx, req.Msg.EventID)
		if err != nil {
			return err
		}
		if req.Msg.Version != 0 && req.Msg.Version != event.Version {
			return errStaleVersion(event, req.Msg.Version)
		}
		if trip, err = s.store.GetTrip(ctx, event.TripID); err != nil {
			return err
		}

		start, end := event.Start, event.End
		applyInput(event, req.Msg.Event)
		if !event.Start.Equal(start) || !event.End.Equal(end) {
			event.Votes = nil
		}
		if assignments := fromAPIFlags(req.Msg.Event.CostAssignments); assignments != nil {
			event.CostAssignments = assignments
		}
		event.ReconcilePayments()
		if err := validateEvent(trip, *event); err != nil {
			return err
		}
		return s.store.UpdateEvent(ctx, event)
	})
	if err != nil {
		return nil, fail("UpdateEvent", err, "event_id", req.Msg.EventID)
	}

	slog.Info("Event updated", "event_id", event.ID, "version", event.Version)

	return connect.NewResponse(&api.UpdateEventResponse{
		Event: s.render(ctx, trip, *event),
	}), nil
}

// DeleteEvent removes an event.
func (s *EventService) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	slog.Info("DeleteEvent request received", "event_id", req.Msg.EventID)

	if err := s.store.DeleteEvent(ctx, req.Msg.EventID); err != nil {
		return nil, fail("DeleteEvent", err, "event_id", req.Msg.EventID)
	}

	slog.Info("Event deleted", "event_id", req.Msg.EventID)

	return connect.NewResponse(&api.DeleteEventResponse{}), nil
}

// ListEvents returns a trip's events ordered by start, optionally for one day.
func (s *EventService) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	slog.Info("ListEvents request received", "trip_id", req.Msg.TripID, "day", req.Msg.Day)

	trip, events, err := s.tripEvents(ctx, req.Msg.TripID)
	if err != nil {
		return nil, fail("ListEvents", err, "trip_id", req.Msg.TripID)
	}
	loc := trip.Location()

	if req.Msg.Day != "" {
		if _, err := parseDay("day", req.Msg.Day, loc); err != nil {
			return nil, fail("ListEvents", err)
		}
		events = conflict.EventsOnDay(events, req.Msg.Day, loc)
	}

	slog.Info("ListEvents successful", "trip_id", trip.ID, "count", len(events))

	return connect.NewResponse(&api.ListEventsResponse{Events: toAPIEvents(events, loc)}), nil
}

// ListConflictGroups groups overlapping events per day in day order.
// Each group reports its vote leader and the requesting member's vote.
func (s *EventService) ListConflictGroups(ctx context.Context, req *connect.Request[api.ListConflictGroupsRequest]) (*connect.Response[api.ListConflictGroupsResponse], error) {
	slog.Info("ListConflictGroups request received", "trip_id", req.Msg.TripID, "day", req.Msg.Day)

	trip, events, err := s.tripEvents(ctx, req.Msg.TripID)
	if err != nil {
		return nil, fail("ListConflictGroups", err, "trip_id", req.Msg.TripID)
	}
	loc := trip.Location()

	viewer := models.MemberID(req.Msg.MemberID)
	if viewer == "" {
		viewer = models.MemberID(middleware.GetMemberID(ctx))
	}

	byDay := conflict.ByDay(events, loc)
	days := make([]string, 0, len(byDay))
	if req.Msg.Day != "" {
		if _, err := parseDay("day", req.Msg.Day, loc); err != nil {
			return nil, fail("ListConflictGroups", err)
		}
		days = append(days, req.Msg.Day)
	} else {
		for day := range byDay {
			days = append(days, day)
		}
		slices.Sort(days)
	}

	var groups []api.ConflictGroup
	for _, day := range days {
		for _, g := range conflict.GroupConflicts(byDay[day]) {
			groups = append(groups, toAPIGroup(day, g, loc, viewer))
		}
	}

	slog.Info("ListConflictGroups successful", "trip_id", trip.ID, "count", len(groups))

	return connect.NewResponse(&api.ListConflictGroupsResponse{Groups: groups}), nil
}

// CastVote makes the member back one event of its conflict group. The vote
// is moved off every other event sharing a group with it, in the same
// transaction. When GroupID is set the event must belong to that group.
func (s *EventService) CastVote(ctx context.Context, req *connect.Request[api.CastVoteRequest]) (*connect.Response[api.CastVoteResponse], error) {
	slog.Info("CastVote request received", "event_id", req.Msg.EventID, "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID)

	voter := models.MemberID(req.Msg.MemberID)
	var result api.ConflictGroup
	err := retryStale(ctx, func() error {
		event, err := s.store.GetEvent(ctx, req.Msg.EventID)
		if err != nil {
			return err
		}
		trip, events, err := s.tripEvents(ctx, event.TripID)
		if err != nil {
			return err
		}
		if err := requireMember(trip, voter); err != nil {
			return err
		}

		loc := trip.Location()
		day := conflict.DayKey(event.Start, loc)
		groups := conflict.GroupConflicts(conflict.EventsOnDay(events, day, loc))
		group, ok := conflict.GroupOf(groups, event.ID)
		if req.Msg.GroupID != "" {
			group, ok = conflict.GroupBySeed(groups, req.Msg.GroupID)
			if ok && !group.Contains(event.ID) {
				return fmt.Errorf("%w: event %s is not in conflict group %s", models.ErrInvalidState, event.ID, req.Msg.GroupID)
			}
		}
		if !ok {
			return fmt.Errorf("%w: event %s has no conflict group to vote in", models.ErrInvalidState, event.ID)
		}

		changed, err := conflict.CastVote(event.ID, conflict.VotingScope(groups, event.ID), voter)
		if err != nil {
			return err
		}
		if len(changed) > 0 {
			batch := make([]*models.Event, len(changed))
			for i := range changed {
				batch[i] = &changed[i]
			}
			if err := s.store.UpdateEvents(ctx, batch); err != nil {
				return err
			}
		}

		group = withUpdates(group, changed)
		result = toAPIGroup(day, group, loc, voter)
		return nil
	})
	if err != nil {
		return nil, fail("CastVote", err, "event_id", req.Msg.EventID, "member_id", voter)
	}

	slog.Info("Vote cast", "event_id", req.Msg.EventID, "member_id", voter, "leader", result.LeadingEventID)

	return connect.NewResponse(&api.CastVoteResponse{Group: result}), nil
}

// RemoveVote withdraws the member's vote from one event.
func (s *EventService) RemoveVote(ctx context.Context, req *connect.Request[api.RemoveVoteRequest]) (*connect.Response[api.RemoveVoteResponse], error) {
	slog.Info("RemoveVote request received", "event_id", req.Msg.EventID, "member_id", req.Msg.MemberID)

	voter := models.MemberID(req.Msg.MemberID)
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
		if err := requireMember(trip, voter); err != nil {
			return err
		}

		if updated, err = conflict.RemoveVote([]models.Event{*event}, event.ID, voter); err != nil {
			return err
		}
		if !event.HasVote(voter) {
			return nil
		}
		return s.store.UpdateEvent(ctx, &updated)
	})
	if err != nil {
		return nil, fail("RemoveVote", err, "event_id", req.Msg.EventID, "member_id", voter)
	}

	slog.Info("Vote removed", "event_id", updated.ID, "member_id", voter)

	return connect.NewResponse(&api.RemoveVoteResponse{
		Event: s.render(ctx, trip, updated),
	}), nil
}

func (s *EventService) tripEvents(ctx context.Context, tripID string) (*models.Trip, []models.Event, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.store.ListEventsForTrip(ctx, trip.ID)
	if err != nil {
		return nil, nil, err
	}
	return trip, events, nil
}

// render converts e, flagging whether it overlaps another event of its day.
// A failed lookup only costs the flag.
func (s *EventService) render(ctx context.Context, trip *models.Trip, e models.Event) api.Event {
	return renderEvent(ctx, s.store, trip, e)
}

// renderEvent converts e, flagging it when it overlaps another event that day.
func renderEvent(ctx context.Context, store storage.EventStore, trip *models.Trip, e models.Event) api.Event {
	loc := trip.Location()
	events, err := store.ListEventsForTrip(ctx, trip.ID)
	if err != nil {
		slog.Warn("Failed to load events for conflict flag", "trip_id", trip.ID, "error", err)
		return toAPIEvent(e, loc, false)
	}
	day := conflict.EventsOnDay(events, conflict.DayKey(e.Start, loc), loc)
	return toAPIEvent(e, loc, conflict.HasConflict(e, day))
}

// validateEvent checks the event invariants and that every assignee is on the trip.
func validateEvent(trip *models.Trip, e models.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	for m := range e.CostAssignments {
		if !trip.IsMember(m) {
			return fmt.Errorf("%w: %s is not a member of trip %s", models.ErrValidation, m, trip.ID)
		}
	}
	return nil
}

// requireMember checks the data-level precondition that m belongs to the trip.
func requireMember(trip *models.Trip, m models.MemberID) error {
	if m == "" {
		return invalid("member_id is required")
	}
	if !trip.IsMember(m) {
		return fmt.Errorf("%w: %s is not a member of trip %s", models.ErrInvalidState, m, trip.ID)
	}
	return nil
}

// errStaleVersion reports a client-supplied version that no longer matches.
// Rereading cannot fix it, so it is not retried.
func errStaleVersion(e *models.Event, want int64) error {
	return stopRetry{fmt.Errorf("%w: event %s is at version %d, not %d", models.ErrStale, e.ID, e.Version, want)}
}

// withUpdates replaces the group's events with their persisted copies.
func withUpdates(g conflict.Group, changed []models.Event) conflict.Group {
	events := slices.Clone(g.Events)
	for _, c := range changed {
		if i := slices.IndexFunc(events, func(e models.Event) bool { return e.ID == c.ID }); i >= 0 {
			events[i] = c
		}
	}
	g.Events = events
	return g
}
