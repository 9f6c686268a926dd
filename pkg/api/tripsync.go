// Package api defines the request and response messages of the tripsync
// Connect services. Messages travel as JSON; money is a decimal string and
// event times are RFC 3339 timestamps.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"created_at"`
}

type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsOwner  bool   `json:"is_owner"`
}

// Trip dates are calendar days in the trip's timezone, formatted 2006-01-02.
type Trip struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	OwnerID   string   `json:"owner_id"`
	Members   []Member `json:"members"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Timezone  string   `json:"timezone"`
	CreatedAt int64    `json:"created_at"`
}

type Invitation struct {
	ID              string `json:"id"`
	TripID          string `json:"trip_id"`
	InviterID       string `json:"inviter_id"`
	InviteeID       string `json:"invitee_id"`
	InviteeUsername string `json:"invitee_username"`
	Status          string `json:"status"`
	CreatedAt       int64  `json:"created_at"`
}

type Event struct {
	ID              string          `json:"id"`
	TripID          string          `json:"trip_id"`
	Title           string          `json:"title"`
	Type            string          `json:"type"`
	Location        string          `json:"location"`
	Details         string          `json:"details"`
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	Cost            decimal.Decimal `json:"cost"`
	CostAssignments map[string]bool `json:"cost_assignments"`
	Payments        map[string]bool `json:"payments"`
	Votes           []string        `json:"votes"`
	CreatedBy       string          `json:"created_by"`
	Version         int64           `json:"version"`

	// Derived on read.
	PerPersonCost decimal.Decimal `json:"per_person_cost"`
	HasConflict   bool            `json:"has_conflict"`
}

// EventInput carries the editable fields of an event. A nil CostAssignments
// on create means "creator only"; on update it keeps the stored assignments.
type EventInput struct {
	Title           string          `json:"title"`
	Type            string          `json:"type"`
	Location        string          `json:"location"`
	Details         string          `json:"details"`
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	Cost            decimal.Decimal `json:"cost"`
	CostAssignments map[string]bool `json:"cost_assignments"`
}

type ConflictGroup struct {
	// GroupID is the id of the event that opened the group.
	GroupID   string    `json:"group_id"`
	Day       string    `json:"day"`
	TimeRange string    `json:"time_range"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Events    []Event   `json:"events"`

	// LeadingEventID is empty when the group has no unique vote leader.
	LeadingEventID string `json:"leading_event_id,omitempty"`
	// MyVoteEventID is the event the requesting member backs, if any.
	MyVoteEventID string `json:"my_vote_event_id,omitempty"`
}

type EventShare struct {
	EventID string          `json:"event_id"`
	Title   string          `json:"title"`
	Amount  decimal.Decimal `json:"amount"`
	Paid    bool            `json:"paid"`
}

type MemberBalance struct {
	MemberID     string          `json:"member_id"`
	Username     string          `json:"username"`
	Total        decimal.Decimal `json:"total"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	UnpaidAmount decimal.Decimal `json:"unpaid_amount"`
	Shares       []EventShare    `json:"shares"`
}

// TripService messages.

type CreateProfileRequest struct {
	Username string `json:"username"`
}

type CreateProfileResponse struct {
	Profile Profile `json:"profile"`
}

// GetProfileRequest looks a profile up by ID, or by username when ID is empty.
type GetProfileRequest struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type GetProfileResponse struct {
	Profile Profile `json:"profile"`
}

// CreateTripRequest creates a trip owned by OwnerID. MemberIDs may list
// additional members; the owner is always included first.
type CreateTripRequest struct {
	Name      string   `json:"name"`
	OwnerID   string   `json:"owner_id"`
	MemberIDs []string `json:"member_ids,omitempty"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Timezone  string   `json:"timezone"`
}

type CreateTripResponse struct {
	Trip Trip `json:"trip"`
}

type GetTripRequest struct {
	TripID string `json:"trip_id"`
}

type GetTripResponse struct {
	Trip Trip     `json:"trip"`
	Days []string `json:"days"`
}

type ListTripsRequest struct {
	MemberID string `json:"member_id"`
}

type ListTripsResponse struct {
	Trips []Trip `json:"trips"`
}

// UpdateTripRequest replaces the trip's name, dates and timezone.
type UpdateTripRequest struct {
	TripID    string `json:"trip_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Timezone  string `json:"timezone"`
}

type UpdateTripResponse struct {
	Trip Trip `json:"trip"`
}

type DeleteTripRequest struct {
	TripID string `json:"trip_id"`
}

type DeleteTripResponse struct{}

type ListMembersRequest struct {
	TripID string `json:"trip_id"`
}

type ListMembersResponse struct {
	Members []Member `json:"members"`
}

type RemoveMemberRequest struct {
	TripID   string `json:"trip_id"`
	MemberID string `json:"member_id"`
}

type RemoveMemberResponse struct {
	Members []Member `json:"members"`
}

type InviteRequest struct {
	TripID          string `json:"trip_id"`
	InviterID       string `json:"inviter_id"`
	InviteeUsername string `json:"invitee_username"`
}

type InviteResponse struct {
	Invitation Invitation `json:"invitation"`
}

// ListInvitationsRequest lists by trip, or by invitee when TripID is empty.
type ListInvitationsRequest struct {
	TripID    string `json:"trip_id"`
	InviteeID string `json:"invitee_id"`
}

type ListInvitationsResponse struct {
	Invitations []Invitation `json:"invitations"`
}

type AcceptInvitationRequest struct {
	InvitationID string `json:"invitation_id"`
}

type AcceptInvitationResponse struct {
	Trip Trip `json:"trip"`
}

type RejectInvitationRequest struct {
	InvitationID string `json:"invitation_id"`
}

type RejectInvitationResponse struct{}

// EventService messages.

type CreateEventRequest struct {
	TripID    string     `json:"trip_id"`
	CreatedBy string     `json:"created_by"`
	Event     EventInput `json:"event"`
}

type CreateEventResponse struct {
	Event Event `json:"event"`
}

// UpdateEventRequest edits an event. A non-zero Version must match the stored
// version or the call fails with CodeAborted.
type UpdateEventRequest struct {
	EventID string     `json:"event_id"`
	Version int64      `json:"version,omitempty"`
	Event   EventInput `json:"event"`
}

type UpdateEventResponse struct {
	Event Event `json:"event"`
}

type DeleteEventRequest struct {
	EventID string `json:"event_id"`
}

type DeleteEventResponse struct{}

// ListEventsRequest lists a trip's events, optionally restricted to one day.
type ListEventsRequest struct {
	TripID string `json:"trip_id"`
	Day    string `json:"day,omitempty"`
}

type ListEventsResponse struct {
	Events []Event `json:"events"`
}

// ListConflictGroupsRequest groups conflicts per trip day, or for Day only.
// MemberID selects whose vote is reported in MyVoteEventID.
type ListConflictGroupsRequest struct {
	TripID   string `json:"trip_id"`
	Day      string `json:"day,omitempty"`
	MemberID string `json:"member_id,omitempty"`
}

type ListConflictGroupsResponse struct {
	Groups []ConflictGroup `json:"groups"`
}

// CastVoteRequest backs EventID. GroupID, when set, names the conflict group
// the vote is cast in; otherwise the event's first group is reported.
type CastVoteRequest struct {
	EventID  string `json:"event_id"`
	GroupID  string `json:"group_id,omitempty"`
	MemberID string `json:"member_id"`
}

type CastVoteResponse struct {
	Group ConflictGroup `json:"group"`
}

type RemoveVoteRequest struct {
	EventID  string `json:"event_id"`
	MemberID string `json:"member_id"`
}

type RemoveVoteResponse struct {
	Event Event `json:"event"`
}

// LedgerService messages.

type GetBalancesRequest struct {
	TripID string `json:"trip_id"`
}

// GetBalancesResponse lists balances in trip member order.
type GetBalancesResponse struct {
	Balances  []MemberBalance `json:"balances"`
	TripTotal decimal.Decimal `json:"trip_total"`
}

type MarkPaidRequest struct {
	EventID  string `json:"event_id"`
	MemberID string `json:"member_id"`
	Paid     bool   `json:"paid"`
}

type MarkPaidResponse struct {
	Event Event `json:"event"`
}
