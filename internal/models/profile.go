package models

// Profile represents a person known to the planner.
// Credentials and sessions live outside this service.
type Profile struct {
	// ID is the unique identifier for the profile (UUID format).
	ID MemberID

	// Username is the unique handle used for invitations.
	Username string

	// CreatedAt is the Unix timestamp when the profile was created.
	CreatedAt int64
}
