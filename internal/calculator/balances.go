package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsync/internal/models"
)

// EventShare is one member's part of one event's cost.
type EventShare struct {
	EventID string
	Title   string
	Amount  decimal.Decimal
	Paid    bool
}

// MemberBalance represents the cost totals for one trip member.
type MemberBalance struct {
	MemberID models.MemberID
	Username string

	Total        decimal.Decimal // Sum of the member's shares
	PaidAmount   decimal.Decimal // Shares already paid
	UnpaidAmount decimal.Decimal // Shares still owed

	// Shares lists the contributing events in input order.
	Shares []EventShare
}

// ComputeBalances aggregates every member's shares across events.
//
// Algorithm:
// - Every roster member gets an entry, even with nothing to pay
// - For each event with cost > 0 and at least one assignee, each assigned
//   roster member owes cost / assigned_count
// - The share goes to PaidAmount if the member has paid, UnpaidAmount otherwise
// - Total = PaidAmount + UnpaidAmount
//
// Assignees missing from the roster are skipped.
func ComputeBalances(events []models.Event, members []models.Member) map[models.MemberID]*MemberBalance {
	balances := make(map[models.MemberID]*MemberBalance, len(members))
	for _, m := range members {
		balances[m.ID] = &MemberBalance{
			MemberID:     m.ID,
			Username:     m.Username,
			Total:        decimal.Zero,
			PaidAmount:   decimal.Zero,
			UnpaidAmount: decimal.Zero,
		}
	}

	for _, e := range events {
		share := PerPersonCost(e)
		if share.IsZero() {
			continue
		}

		for _, m := range AssignedMembers(e) {
			bal, ok := balances[m]
			if !ok {
				continue
			}

			paid := e.HasPaid(m)
			bal.Total = bal.Total.Add(share)
			if paid {
				bal.PaidAmount = bal.PaidAmount.Add(share)
			} else {
				bal.UnpaidAmount = bal.UnpaidAmount.Add(share)
			}
			bal.Shares = append(bal.Shares, EventShare{
				EventID: e.ID,
				Title:   e.Title,
				Amount:  share,
				Paid:    paid,
			})
		}
	}

	return balances
}

// TripTotal sums every member's total. Because each event's cost is divided,
// not replicated, this reproduces the sum of the split event costs.
func TripTotal(balances map[models.MemberID]*MemberBalance) decimal.Decimal {
	total := decimal.Zero
	for _, bal := range balances {
		total = total.Add(bal.Total)
	}
	return total
}
