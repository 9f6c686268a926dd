package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for trip days.
const DateLayout = "2006-01-02"

// Trip represents a shared itinerary.
// Deleting a trip deletes its events and invitations.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name of the trip (e.g., "Lisbon 2026").
	Name string

	// OwnerID is the profile that created the trip. The owner is always a member.
	OwnerID MemberID

	// Members lists every profile with access to the trip, owner included.
	Members []MemberID

	// StartDate and EndDate are inclusive calendar days, midnight in Timezone.
	StartDate time.Time
	EndDate   time.Time

	// Timezone is the IANA zone used to split events into days.
	// Empty means UTC.
	Timezone string

	CreatedAt int64
}

// Location resolves the trip's time zone, falling back to UTC.
func (t Trip) Location() *time.Location {
	if t.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsMember reports whether id belongs to the trip.
func (t Trip) IsMember(id MemberID) bool {
	return slices.Contains(t.Members, id)
}

// Validate checks name, date range, zone and ownership.
func (t Trip) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: trip name is required", ErrValidation)
	}
	if t.OwnerID == "" {
		return fmt.Errorf("%w: trip owner is required", ErrValidation)
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: trip dates are required", ErrValidation)
	}
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("%w: trip ends before it starts", ErrValidation)
	}
	if t.Timezone != "" {
		if _, err := time.LoadLocation(t.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrValidation, t.Timezone)
		}
	}
	if !t.IsMember(t.OwnerID) {
		return fmt.Errorf("%w: owner must be a member", ErrValidation)
	}
	return nil
}

// Member is a profile viewed from inside one trip.
type Member struct {
	ID       MemberID
	Username string
	// IsOwner is derived: the member id equals the trip's owner id.
	IsOwner bool
}

// MembersOf builds the member roster of a trip from the given profiles,
// preserving the trip's member order. Members without a profile keep an
// empty username.
func MembersOf(trip Trip, profiles []Profile) []Member {
	names := make(map[MemberID]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.Username
	}
	members := make([]Member, 0, len(trip.Members))
	for _, id := range trip.Members {
		members = append(members, Member{
			ID:       id,
			Username: names[id],
			IsOwner:  id == trip.OwnerID,
		})
	}
	return members
}
