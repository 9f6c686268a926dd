package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsync/internal/conflict"
	"github.com/mmynk/tripsync/internal/models"
	"github.com/mmynk/tripsync/internal/storage"
	"github.com/mmynk/tripsync/pkg/api"
	"github.com/mmynk/tripsync/pkg/api/apiconnect"
)

// TripService implements the Connect TripService: profiles, trips, rosters
// and invitations.
type TripService struct {
	apiconnect.UnimplementedTripServiceHandler
	store           storage.Store
	defaultTimezone string
}

// NewTripService creates a new TripService. Trips created without a timezone
// get defaultTimezone.
func NewTripService(store storage.Store, defaultTimezone string) *TripService {
	return &TripService{store: store, defaultTimezone: defaultTimezone}
}

// CreateProfile registers a new username.
func (s *TripService) CreateProfile(ctx context.Context, req *connect.Request[api.CreateProfileRequest]) (*connect.Response[api.CreateProfileResponse], error) {
	username := strings.TrimSpace(req.Msg.Username)
	slog.Info("CreateProfile request received", "username", username)

	if username == "" {
		return nil, fail("CreateProfile", invalid("username is required"))
	}

	profile := &models.Profile{Username: username}
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		return nil, fail("CreateProfile", err, "username", username)
	}

	slog.Info("Profile created", "member_id", profile.ID)

	return connect.NewResponse(&api.CreateProfileResponse{Profile: toAPIProfile(profile)}), nil
}

// GetProfile looks a profile up by ID or username.
func (s *TripService) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	slog.Info("GetProfile request received", "id", req.Msg.ID, "username", req.Msg.Username)

	var profile *models.Profile
	var err error
	switch {
	case req.Msg.ID != "":
		profile, err = s.store.GetProfile(ctx, models.MemberID(req.Msg.ID))
	case req.Msg.Username != "":
		profile, err = s.store.GetProfileByUsername(ctx, strings.TrimSpace(req.Msg.Username))
	default:
		err = invalid("id or username is required")
	}
	if err != nil {
		return nil, fail("GetProfile", err)
	}

	return connect.NewResponse(&api.GetProfileResponse{Profile: toAPIProfile(profile)}), nil
}

// CreateTrip creates a trip owned by the requesting profile.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	slog.Info("CreateTrip request received",
		"name", req.Msg.Name,
		"owner_id", req.Msg.OwnerID,
		"members_count", len(req.Msg.MemberIDs),
	)

	owner := models.MemberID(req.Msg.OwnerID)
	members := []models.MemberID{owner}
	for _, id := range req.Msg.MemberIDs {
		m := models.MemberID(strings.TrimSpace(id))
		if m != "" && !slices.Contains(members, m) {
			members = append(members, m)
		}
	}
	if err := s.requireProfiles(ctx, members); err != nil {
		return nil, fail("CreateTrip", err)
	}

	trip := &models.Trip{
		Name:     strings.TrimSpace(req.Msg.Name),
		OwnerID:  owner,
		Members:  members,
		Timezone: req.Msg.Timezone,
	}
	if trip.Timezone == "" {
		trip.Timezone = s.defaultTimezone
	}
	if err := setTripDates(trip, req.Msg.StartDate, req.Msg.EndDate); err != nil {
		return nil, fail("CreateTrip", err)
	}
	if err := trip.Validate(); err != nil {
		return nil, fail("CreateTrip", err)
	}

	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return nil, fail("CreateTrip", err)
	}

	slog.Info("Trip created", "trip_id", trip.ID)

	roster, err := s.store.ListMembers(ctx, trip.ID)
	if err != nil {
		return nil, fail("CreateTrip", err, "trip_id", trip.ID)
	}
	return connect.NewResponse(&api.CreateTripResponse{Trip: toAPITrip(trip, roster)}), nil
}

// GetTrip returns a trip with its roster and calendar days.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	slog.Info("GetTrip request received", "trip_id", req.Msg.TripID)

	trip, roster, err := s.tripWithRoster(ctx, req.Msg.TripID)
	if err != nil {
		return nil, fail("GetTrip", err, "trip_id", req.Msg.TripID)
	}

	return connect.NewResponse(&api.GetTripResponse{
		Trip: toAPITrip(trip, roster),
		Days: conflict.DaysBetween(trip.StartDate, trip.EndDate, trip.Location()),
	}), nil
}

// ListTrips returns every trip a member belongs to, newest first.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	slog.Info("ListTrips request received", "member_id", req.Msg.MemberID)

	if req.Msg.MemberID == "" {
		return nil, fail("ListTrips", invalid("member_id is required"))
	}

	trips, err := s.store.ListTripsForMember(ctx, models.MemberID(req.Msg.MemberID))
	if err != nil {
		return nil, fail("ListTrips", err)
	}

	out := make([]api.Trip, 0, len(trips))
	for _, trip := range trips {
		roster, err := s.store.ListMembers(ctx, trip.ID)
		if err != nil {
			return nil, fail("ListTrips", err, "trip_id", trip.ID)
		}
		out = append(out, toAPITrip(trip, roster))
	}

	slog.Info("ListTrips successful", "count", len(out))

	return connect.NewResponse(&api.ListTripsResponse{Trips: out}), nil
}

// UpdateTrip replaces a trip's name, dates and timezone.
func (s *TripService) UpdateTrip(ctx context.Context, req *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error) {
	slog.Info("UpdateTrip request received", "trip_id", req.Msg.TripID, "name", req.Msg.Name)

	trip, err := s.store.GetTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, fail("UpdateTrip", err, "trip_id", req.Msg.TripID)
	}

	trip.Name = strings.TrimSpace(req.Msg.Name)
	if req.Msg.Timezone != "" {
		trip.Timezone = req.Msg.Timezone
	}
	if err := setTripDates(trip, req.Msg.StartDate, req.Msg.EndDate); err != nil {
		return nil, fail("UpdateTrip", err)
	}
	if err := trip.Validate(); err != nil {
		return nil, fail("UpdateTrip", err)
	}

	if err := s.store.UpdateTrip(ctx, trip); err != nil {
		return nil, fail("UpdateTrip", err, "trip_id", trip.ID)
	}

	slog.Info("Trip updated", "trip_id", trip.ID)

	roster, err := s.store.ListMembers(ctx, trip.ID)
	if err != nil {
		return nil, fail("UpdateTrip", err, "trip_id", trip.ID)
	}
	return connect.NewResponse(&api.UpdateTripResponse{Trip: toAPITrip(trip, roster)}), nil
}

// DeleteTrip removes a trip with its events and invitations.
func (s *TripService) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	slog.Info("DeleteTrip request received", "trip_id", req.Msg.TripID)

	if err := s.store.DeleteTrip(ctx, req.Msg.TripID); err != nil {
		return nil, fail("DeleteTrip", err, "trip_id", req.Msg.TripID)
	}

	slog.Info("Trip deleted", "trip_id", req.Msg.TripID)

	return connect.NewResponse(&api.DeleteTripResponse{}), nil
}

// ListMembers returns the trip roster in member order.
func (s *TripService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	slog.Info("ListMembers request received", "trip_id", req.Msg.TripID)

	roster, err := s.store.ListMembers(ctx, req.Msg.TripID)
	if err != nil {
		return nil, fail("ListMembers", err, "trip_id", req.Msg.TripID)
	}

	return connect.NewResponse(&api.ListMembersResponse{Members: toAPIMembers(roster)}), nil
}

// RemoveMember drops a member from the roster and withdraws their votes.
// The owner cannot be removed. Cost assignments and payments are kept so the
// other members' shares do not change; balances only report roster members.
func (s *TripService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "trip_id", req.Msg.TripID, "member_id", req.Msg.MemberID)

	memberID := models.MemberID(req.Msg.MemberID)
	trip, err := s.store.GetTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, fail("RemoveMember", err, "trip_id", req.Msg.TripID)
	}
	if memberID == trip.OwnerID {
		return nil, fail("RemoveMember", fmt.Errorf("%w: the trip owner cannot be removed", models.ErrInvalidState))
	}

	if err := s.store.RemoveMember(ctx, trip.ID, memberID); err != nil {
		return nil, fail("RemoveMember", err, "trip_id", trip.ID)
	}

	slog.Info("Member removed", "trip_id", trip.ID, "member_id", memberID)

	roster, err := s.store.ListMembers(ctx, trip.ID)
	if err != nil {
		return nil, fail("RemoveMember", err, "trip_id", trip.ID)
	}
	return connect.NewResponse(&api.RemoveMemberResponse{Members: toAPIMembers(roster)}), nil
}

// Invite sends a pending invitation to a username.
func (s *TripService) Invite(ctx context.Context, req *connect.Request[api.InviteRequest]) (*connect.Response[api.InviteResponse], error) {
	slog.Info("Invite request received",
		"trip_id", req.Msg.TripID,
		"inviter_id", req.Msg.InviterID,
		"invitee_username", req.Msg.InviteeUsername,
	)

	trip, err := s.store.GetTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, fail("Invite", err, "trip_id", req.Msg.TripID)
	}
	inviter := models.MemberID(req.Msg.InviterID)
	if !trip.IsMember(inviter) {
		return nil, fail("Invite", fmt.Errorf("%w: inviter %s is not a member of trip %s", models.ErrInvalidState, inviter, trip.ID))
	}

	invitee, err := s.store.GetProfileByUsername(ctx, strings.TrimSpace(req.Msg.InviteeUsername))
	if err != nil {
		return nil, fail("Invite", err)
	}
	if trip.IsMember(invitee.ID) {
		return nil, fail("Invite", fmt.Errorf("%w: %s is already a member", models.ErrInvalidState, invitee.Username))
	}

	pending, err := s.store.ListInvitationsForTrip(ctx, trip.ID)
	if err != nil {
		return nil, fail("Invite", err, "trip_id", trip.ID)
	}
	for _, inv := range pending {
		if inv.InviteeID == invitee.ID && inv.Status == models.InvitationPending {
			return nil, fail("Invite", fmt.Errorf("%w: %s already has a pending invitation", models.ErrInvalidState, invitee.Username))
		}
	}

	inv := &models.Invitation{
		TripID:          trip.ID,
		InviterID:       inviter,
		InviteeID:       invitee.ID,
		InviteeUsername: invitee.Username,
	}
	if err := s.store.CreateInvitation(ctx, inv); err != nil {
		return nil, fail("Invite", err, "trip_id", trip.ID)
	}

	slog.Info("Invitation created", "invitation_id", inv.ID, "trip_id", trip.ID)

	return connect.NewResponse(&api.InviteResponse{Invitation: toAPIInvitation(inv)}), nil
}

// ListInvitations lists a trip's invitations or a profile's inbox.
func (s *TripService) ListInvitations(ctx context.Context, req *connect.Request[api.ListInvitationsRequest]) (*connect.Response[api.ListInvitationsResponse], error) {
	slog.Info("ListInvitations request received", "trip_id", req.Msg.TripID, "invitee_id", req.Msg.InviteeID)

	var invitations []*models.Invitation
	var err error
	switch {
	case req.Msg.TripID != "":
		invitations, err = s.store.ListInvitationsForTrip(ctx, req.Msg.TripID)
	case req.Msg.InviteeID != "":
		invitations, err = s.store.ListInvitationsForInvitee(ctx, models.MemberID(req.Msg.InviteeID))
	default:
		err = invalid("trip_id or invitee_id is required")
	}
	if err != nil {
		return nil, fail("ListInvitations", err)
	}

	out := make([]api.Invitation, len(invitations))
	for i, inv := range invitations {
		out[i] = toAPIInvitation(inv)
	}
	return connect.NewResponse(&api.ListInvitationsResponse{Invitations: out}), nil
}

// AcceptInvitation joins the invitee to the trip.
func (s *TripService) AcceptInvitation(ctx context.Context, req *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	slog.Info("AcceptInvitation request received", "invitation_id", req.Msg.InvitationID)

	inv, err := s.store.GetInvitation(ctx, req.Msg.InvitationID)
	if err != nil {
		return nil, fail("AcceptInvitation", err, "invitation_id", req.Msg.InvitationID)
	}
	if err := s.store.AcceptInvitation(ctx, inv.ID); err != nil {
		return nil, fail("AcceptInvitation", err, "invitation_id", inv.ID)
	}

	trip, roster, err := s.tripWithRoster(ctx, inv.TripID)
	if err != nil {
		return nil, fail("AcceptInvitation", err, "trip_id", inv.TripID)
	}

	slog.Info("Invitation accepted", "invitation_id", inv.ID, "trip_id", trip.ID, "member_id", inv.InviteeID)

	return connect.NewResponse(&api.AcceptInvitationResponse{Trip: toAPITrip(trip, roster)}), nil
}

// RejectInvitation declines or revokes a pending invitation.
func (s *TripService) RejectInvitation(ctx context.Context, req *connect.Request[api.RejectInvitationRequest]) (*connect.Response[api.RejectInvitationResponse], error) {
	slog.Info("RejectInvitation request received", "invitation_id", req.Msg.InvitationID)

	if err := s.store.RejectInvitation(ctx, req.Msg.InvitationID); err != nil {
		return nil, fail("RejectInvitation", err, "invitation_id", req.Msg.InvitationID)
	}

	return connect.NewResponse(&api.RejectInvitationResponse{}), nil
}

func (s *TripService) tripWithRoster(ctx context.Context, tripID string) (*models.Trip, []models.Member, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	roster, err := s.store.ListMembers(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	return trip, roster, nil
}

// requireProfiles fails with models.ErrNotFound naming the first unknown id.
func (s *TripService) requireProfiles(ctx context.Context, ids []models.MemberID) error {
	if slices.Contains(ids, "") {
		return invalid("owner_id is required")
	}
	profiles, err := s.store.ListProfiles(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !slices.ContainsFunc(profiles, func(p models.Profile) bool { return p.ID == id }) {
			return fmt.Errorf("%w: profile %s", models.ErrNotFound, id)
		}
	}
	return nil
}

// setTripDates parses both days in the trip's timezone.
func setTripDates(trip *models.Trip, startDate, endDate string) error {
	loc, err := time.LoadLocation(trip.Timezone)
	if err != nil {
		return errors.Join(invalid("unknown timezone %q", trip.Timezone), err)
	}
	if trip.StartDate, err = parseDay("start_date", startDate, loc); err != nil {
		return err
	}
	if trip.EndDate, err = parseDay("end_date", endDate, loc); err != nil {
		return err
	}
	return nil
}
