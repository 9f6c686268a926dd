package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsync/internal/models"
)

const invitationSelect = `SELECT i.id, i.trip_id, i.inviter_id, i.invitee_id, COALESCE(p.username, ''), i.status, i.created_at
	FROM invitations i LEFT JOIN profiles p ON p.id = i.invitee_id`

// CreateInvitation persists a new pending invitation.
func (s *SQLiteStore) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt == 0 {
		inv.CreatedAt = time.Now().Unix()
	}
	inv.Status = models.InvitationPending

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invitations (id, trip_id, inviter_id, invitee_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TripID, string(inv.InviterID), string(inv.InviteeID), string(inv.Status), inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}

	return nil
}

// GetInvitation retrieves an invitation by ID.
func (s *SQLiteStore) GetInvitation(ctx context.Context, invitationID string) (*models.Invitation, error) {
	return getInvitation(ctx, s.db, invitationID)
}

func getInvitation(ctx context.Context, q queryer, invitationID string) (*models.Invitation, error) {
	inv := &models.Invitation{}
	err := q.QueryRowContext(ctx, invitationSelect+" WHERE i.id = ?", invitationID).Scan(
		&inv.ID, &inv.TripID, &inv.InviterID, &inv.InviteeID, &inv.InviteeUsername, &inv.Status, &inv.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: invitation %s", models.ErrNotFound, invitationID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// ListInvitationsForTrip retrieves all invitations for a trip, newest first.
func (s *SQLiteStore) ListInvitationsForTrip(ctx context.Context, tripID string) ([]*models.Invitation, error) {
	return s.listInvitations(ctx, " WHERE i.trip_id = ? ORDER BY i.created_at DESC, i.id", tripID)
}

// ListInvitationsForInvitee retrieves all invitations addressed to a profile, newest first.
func (s *SQLiteStore) ListInvitationsForInvitee(ctx context.Context, inviteeID models.MemberID) ([]*models.Invitation, error) {
	return s.listInvitations(ctx, " WHERE i.invitee_id = ? ORDER BY i.created_at DESC, i.id", string(inviteeID))
}

func (s *SQLiteStore) listInvitations(ctx context.Context, where string, arg string) ([]*models.Invitation, error) {
	rows, err := s.db.QueryContext(ctx, invitationSelect+where, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*models.Invitation
	for rows.Next() {
		inv := &models.Invitation{}
		if err := rows.Scan(&inv.ID, &inv.TripID, &inv.InviterID, &inv.InviteeID, &inv.InviteeUsername,
			&inv.Status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invitations: %w", err)
	}

	return invitations, nil
}

// AcceptInvitation marks the invitation accepted and appends the invitee to the trip.
func (s *SQLiteStore) AcceptInvitation(ctx context.Context, invitationID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		inv, err := resolvePending(ctx, tx, invitationID, models.InvitationAccepted)
		if err != nil {
			return err
		}

		var next int
		err = tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position), -1) + 1 FROM trip_members WHERE trip_id = ?", inv.TripID,
		).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to get member position: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO trip_members (trip_id, member_id, position) VALUES (?, ?, ?)
			 ON CONFLICT (trip_id, member_id) DO NOTHING`,
			inv.TripID, string(inv.InviteeID), next,
		)
		if err != nil {
			return fmt.Errorf("failed to add trip member: %w", err)
		}
		return nil
	})
}

// RejectInvitation marks the invitation rejected.
func (s *SQLiteStore) RejectInvitation(ctx context.Context, invitationID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := resolvePending(ctx, tx, invitationID, models.InvitationRejected)
		return err
	})
}

// resolvePending moves a pending invitation to status.
func resolvePending(ctx context.Context, tx *sql.Tx, invitationID string, status models.InvitationStatus) (*models.Invitation, error) {
	inv, err := getInvitation(ctx, tx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvitationPending {
		return nil, fmt.Errorf("%w: invitation %s is %s", models.ErrInvalidState, invitationID, inv.Status)
	}

	_, err = tx.ExecContext(ctx, "UPDATE invitations SET status = ? WHERE id = ?", string(status), invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}
	inv.Status = status
	return inv, nil
}
