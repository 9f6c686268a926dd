package service

import (
	"strings"
	"time"

	"github.com/mmynk/tripsync/internal/calculator"
	"github.com/mmynk/tripsync/internal/conflict"
	"github.com/mmynk/tripsync/internal/models"
	"github.com/mmynk/tripsync/pkg/api"
)

func toAPIProfile(p *models.Profile) api.Profile {
	return api.Profile{
		ID:        string(p.ID),
		Username:  p.Username,
		CreatedAt: p.CreatedAt,
	}
}

func toAPIMembers(members []models.Member) []api.Member {
	out := make([]api.Member, len(members))
	for i, m := range members {
		out[i] = api.Member{ID: string(m.ID), Username: m.Username, IsOwner: m.IsOwner}
	}
	return out
}

func toAPITrip(trip *models.Trip, members []models.Member) api.Trip {
	return api.Trip{
		ID:        trip.ID,
		Name:      trip.Name,
		OwnerID:   string(trip.OwnerID),
		Members:   toAPIMembers(members),
		StartDate: trip.StartDate.Format(models.DateLayout),
		EndDate:   trip.EndDate.Format(models.DateLayout),
		Timezone:  trip.Timezone,
		CreatedAt: trip.CreatedAt,
	}
}

func toAPIInvitation(inv *models.Invitation) api.Invitation {
	return api.Invitation{
		ID:              inv.ID,
		TripID:          inv.TripID,
		InviterID:       string(inv.InviterID),
		InviteeID:       string(inv.InviteeID),
		InviteeUsername: inv.InviteeUsername,
		Status:          string(inv.Status),
		CreatedAt:       inv.CreatedAt,
	}
}

// toAPIEvent renders e with its times in loc.
func toAPIEvent(e models.Event, loc *time.Location, hasConflict bool) api.Event {
	votes := make([]string, len(e.Votes))
	for i, v := range e.Votes {
		votes[i] = string(v)
	}
	return api.Event{
		ID:              e.ID,
		TripID:          e.TripID,
		Title:           e.Title,
		Type:            string(e.Type),
		Location:        e.Location,
		Details:         e.Details,
		Start:           e.Start.In(loc),
		End:             e.End.In(loc),
		Cost:            e.Cost,
		CostAssignments: toAPIFlags(e.CostAssignments),
		Payments:        toAPIFlags(e.Payments),
		Votes:           votes,
		CreatedBy:       string(e.CreatedBy),
		Version:         e.Version,
		PerPersonCost:   calculator.PerPersonCost(e),
		HasConflict:     hasConflict,
	}
}

// toAPIEvents renders a trip's events, flagging those that overlap another
// event starting on the same day.
func toAPIEvents(events []models.Event, loc *time.Location) []api.Event {
	days := conflict.ByDay(events, loc)
	out := make([]api.Event, len(events))
	for i, e := range events {
		out[i] = toAPIEvent(e, loc, conflict.HasConflict(e, days[conflict.DayKey(e.Start, loc)]))
	}
	return out
}

func toAPIGroup(day string, g conflict.Group, loc *time.Location, viewer models.MemberID) api.ConflictGroup {
	events := make([]api.Event, len(g.Events))
	for i, e := range g.Events {
		events[i] = toAPIEvent(e, loc, true)
	}
	start, end := g.Start.In(loc), g.End.In(loc)
	out := api.ConflictGroup{
		GroupID:   g.Seed(),
		Day:       day,
		TimeRange: conflict.FormatTimeRange(start, end),
		Start:     start,
		End:       end,
		Events:    events,
	}
	if leader, ok := conflict.LeadingEvent(g.Events); ok {
		out.LeadingEventID = leader.ID
	}
	if viewer != "" {
		out.MyVoteEventID, _ = conflict.UserVote(g.Events, viewer)
	}
	return out
}

func toAPIFlags(flags map[models.MemberID]bool) map[string]bool {
	out := make(map[string]bool, len(flags))
	for k, v := range flags {
		out[string(k)] = v
	}
	return out
}

// fromAPIFlags keeps nil as nil so "not set" survives the conversion.
func fromAPIFlags(flags map[string]bool) map[models.MemberID]bool {
	if flags == nil {
		return nil
	}
	out := make(map[models.MemberID]bool, len(flags))
	for k, v := range flags {
		out[models.MemberID(strings.TrimSpace(k))] = v
	}
	return out
}

// applyInput copies the editable fields of in onto e.
func applyInput(e *models.Event, in api.EventInput) {
	e.Title = strings.TrimSpace(in.Title)
	e.Type = models.EventType(in.Type)
	e.Location = in.Location
	e.Details = in.Details
	e.Start = in.Start
	e.End = in.End
	e.Cost = in.Cost
}

func toAPIBalances(members []models.Member, balances map[models.MemberID]*calculator.MemberBalance) []api.MemberBalance {
	out := make([]api.MemberBalance, 0, len(members))
	for _, m := range members {
		bal := balances[m.ID]
		shares := make([]api.EventShare, len(bal.Shares))
		for i, s := range bal.Shares {
			shares[i] = api.EventShare{EventID: s.EventID, Title: s.Title, Amount: s.Amount, Paid: s.Paid}
		}
		out = append(out, api.MemberBalance{
			MemberID:     string(bal.MemberID),
			Username:     bal.Username,
			Total:        bal.Total,
			PaidAmount:   bal.PaidAmount,
			UnpaidAmount: bal.UnpaidAmount,
			Shares:       shares,
		})
	}
	return out
}

// parseDay reads a 2006-01-02 day in loc.
func parseDay(field, value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, invalid("%s must be formatted YYYY-MM-DD, got %q", field, value)
	}
	return t, nil
}
