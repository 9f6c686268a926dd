// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/tripsync/internal/models"
)

// Store defines the persistence operations the planner needs.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
//
// Lookups of missing rows return errors wrapping models.ErrNotFound.
type Store interface {
	ProfileStore
	TripStore
	EventStore
	InvitationStore

	// Close releases any resources held by the store.
	Close() error
}

// ProfileStore persists profiles.
type ProfileStore interface {
	// CreateProfile persists a new profile. ID and CreatedAt are populated by the store.
	// Usernames are unique; a duplicate returns an error wrapping models.ErrInvalidState.
	CreateProfile(ctx context.Context, profile *models.Profile) error

	GetProfile(ctx context.Context, id models.MemberID) (*models.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)

	// ListProfiles returns the profiles with the given ids; unknown ids are skipped.
	ListProfiles(ctx context.Context, ids []models.MemberID) ([]models.Profile, error)
}

// TripStore persists trips and their member lists.
type TripStore interface {
	// CreateTrip persists a new trip. ID and CreatedAt are populated by the store.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// ListTripsForMember returns every trip the profile belongs to, newest first.
	ListTripsForMember(ctx context.Context, memberID models.MemberID) ([]*models.Trip, error)

	// UpdateTrip replaces name, dates, timezone and members.
	UpdateTrip(ctx context.Context, trip *models.Trip) error

	// DeleteTrip removes a trip together with its events and invitations.
	DeleteTrip(ctx context.Context, tripID string) error

	// ListMembers returns the trip roster with usernames resolved.
	ListMembers(ctx context.Context, tripID string) ([]models.Member, error)

	// RemoveMember drops a member from the trip roster and, in the same
	// transaction, deletes their votes on the trip's events.
	RemoveMember(ctx context.Context, tripID string, memberID models.MemberID) error
}

// EventStore persists events.
type EventStore interface {
	// ListEventsForTrip returns all events of a trip ordered by start time.
	ListEventsForTrip(ctx context.Context, tripID string) ([]models.Event, error)

	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// CreateEvent persists a new event. ID, Version and timestamps are populated by the store.
	CreateEvent(ctx context.Context, event *models.Event) error

	// UpdateEvent writes event only if the stored version still equals
	// event.Version, then bumps event.Version. A mismatch returns an error
	// wrapping models.ErrStale.
	UpdateEvent(ctx context.Context, event *models.Event) error

	// UpdateEvents applies several conditional updates in one transaction:
	// either all of them succeed or none is visible.
	UpdateEvents(ctx context.Context, events []*models.Event) error

	DeleteEvent(ctx context.Context, eventID string) error
}

// InvitationStore persists trip invitations.
type InvitationStore interface {
	// CreateInvitation persists a new pending invitation. ID, Status and CreatedAt are populated by the store.
	CreateInvitation(ctx context.Context, inv *models.Invitation) error

	GetInvitation(ctx context.Context, invitationID string) (*models.Invitation, error)
	ListInvitationsForTrip(ctx context.Context, tripID string) ([]*models.Invitation, error)
	ListInvitationsForInvitee(ctx context.Context, inviteeID models.MemberID) ([]*models.Invitation, error)

	// AcceptInvitation marks a pending invitation accepted and adds the
	// invitee to the trip in the same transaction.
	AcceptInvitation(ctx context.Context, invitationID string) error

	// RejectInvitation marks a pending invitation rejected.
	RejectInvitation(ctx context.Context, invitationID string) error
}
