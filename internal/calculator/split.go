// Package calculator computes how trip event costs are shared among members
// and tracks who has paid their share.
//
// The ledger keeps no state of its own: balances are a projection recomputed
// from the event list on every call.
package calculator

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsync/internal/models"
)

// AssignedMembers returns the members sharing e's cost, sorted by id.
func AssignedMembers(e models.Event) []models.MemberID {
	var assigned []models.MemberID
	for m, ok := range e.CostAssignments {
		if ok {
			assigned = append(assigned, m)
		}
	}
	slices.Sort(assigned)
	return assigned
}

// PerPersonCost splits e's cost equally among its assignees.
// Algorithm: per_person = cost / assigned_count. Remainders are not
// redistributed. Events with no cost or no assignees contribute zero.
func PerPersonCost(e models.Event) decimal.Decimal {
	n := e.AssignedCount()
	if !e.Cost.IsPositive() || n == 0 {
		return decimal.Zero
	}
	return e.Cost.Div(decimal.NewFromInt(int64(n)))
}

// MarkPaid sets memberID's payment status on eventID and returns the updated
// copy. The member must share the event's cost. Calling it again with the
// same status yields the same event.
func MarkPaid(events []models.Event, eventID string, memberID models.MemberID, paid bool) (models.Event, error) {
	i := slices.IndexFunc(events, func(e models.Event) bool { return e.ID == eventID })
	if i < 0 {
		return models.Event{}, fmt.Errorf("%w: event %s", models.ErrNotFound, eventID)
	}
	if !events[i].IsAssigned(memberID) {
		return models.Event{}, fmt.Errorf("%w: member %s is not assigned to event %s",
			models.ErrInvalidState, memberID, eventID)
	}

	updated := events[i].Clone()
	if updated.Payments == nil {
		updated.Payments = make(map[models.MemberID]bool)
	}
	updated.Payments[memberID] = paid
	return updated, nil
}
