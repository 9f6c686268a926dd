package conflict

import (
	"fmt"
	"slices"

	"github.com/mmynk/tripsync/internal/models"
)

// CastVote moves voter's vote within group to the event eventID.
//
// The voter is removed from every other event of the group and added to the
// target (a no-op if already there). A target outside the group is an
// ErrInvalidState. Pass VotingScope as the group when the target may belong
// to several groups. The returned slice holds copies of only
// the events whose vote sets changed; the caller must persist them together
// so the voter never appears on two events of one group. The input events
// are left untouched.
func CastVote(eventID string, group []models.Event, voter models.MemberID) ([]models.Event, error) {
	target := slices.IndexFunc(group, func(e models.Event) bool { return e.ID == eventID })
	if target < 0 {
		return nil, fmt.Errorf("%w: event %s is not in the conflict group", models.ErrInvalidState, eventID)
	}

	var changed []models.Event
	for i, e := range group {
		switch {
		case i == target && !e.HasVote(voter):
			updated := e.Clone()
			updated.Votes = append(updated.Votes, voter)
			changed = append(changed, updated)
		case i != target && e.HasVote(voter):
			updated := e.Clone()
			updated.Votes = withoutVoter(updated.Votes, voter)
			changed = append(changed, updated)
		}
	}
	return changed, nil
}

// RemoveVote withdraws voter's vote from eventID only. Other events of the
// group are not touched. Removing a vote that was never cast returns the
// event unchanged.
func RemoveVote(events []models.Event, eventID string, voter models.MemberID) (models.Event, error) {
	i := slices.IndexFunc(events, func(e models.Event) bool { return e.ID == eventID })
	if i < 0 {
		return models.Event{}, fmt.Errorf("%w: event %s", models.ErrNotFound, eventID)
	}
	updated := events[i].Clone()
	updated.Votes = withoutVoter(updated.Votes, voter)
	return updated, nil
}

// UserVote returns the id of the event voter backs in group, if any.
func UserVote(group []models.Event, voter models.MemberID) (string, bool) {
	for _, e := range group {
		if e.HasVote(voter) {
			return e.ID, true
		}
	}
	return "", false
}

func withoutVoter(votes []models.MemberID, voter models.MemberID) []models.MemberID {
	return slices.DeleteFunc(votes, func(v models.MemberID) bool { return v == voter })
}
