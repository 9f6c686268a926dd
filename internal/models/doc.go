// Package models defines the core domain models for tripsync.
//
// # Models
//
//   - Event: a calendar entry on a trip day, carrying votes and a shared cost
//   - Trip: a dated itinerary owned by one profile and shared with members
//   - Member: a profile viewed from inside one trip
//   - Profile: a user known to the planner (username only, no credentials)
//   - Invitation: a pending, accepted or rejected request to join a trip
//
// # Design Principles
//
//  1. Relationships use IDs, never pointers between models.
//  2. Member identifiers are a distinct MemberID type so cost assignment,
//     payment and vote maps cannot be keyed by arbitrary strings.
//  3. Money is fixed-point (shopspring/decimal), never float64.
//  4. Models validate themselves; packages that compute over them
//     (conflict, calculator) assume validated input.
//
// # Errors
//
// Every failure that callers need to branch on wraps one of the sentinel
// errors in errors.go and is tested with errors.Is.
package models
