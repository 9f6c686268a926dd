package models

// InvitationStatus tracks where an invitation is in its lifecycle.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// Invitation asks a profile to join a trip.
// Only pending invitations can be accepted or rejected; rejecting is also
// how the inviter revokes one.
type Invitation struct {
	// ID is the unique identifier for the invitation (UUID format).
	ID string

	TripID    string
	InviterID MemberID
	InviteeID MemberID

	// InviteeUsername is denormalized for listing.
	InviteeUsername string

	Status InvitationStatus

	// CreatedAt is the Unix timestamp when the invitation was sent.
	CreatedAt int64
}
