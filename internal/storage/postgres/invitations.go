package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmynk/tripsync/internal/models"
)

const invitationSelect = `SELECT i.id, i.trip_id, i.inviter_id, i.invitee_id, COALESCE(p.username, ''), i.status, i.created_at
	FROM invitations i LEFT JOIN profiles p ON p.id = i.invitee_id`

// CreateInvitation persists a new pending invitation.
func (s *PostgresStore) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt == 0 {
		inv.CreatedAt = time.Now().Unix()
	}
	inv.Status = models.InvitationPending

	_, err := s.pool.Exec(ctx,
		`INSERT INTO invitations (id, trip_id, inviter_id, invitee_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		inv.ID, inv.TripID, string(inv.InviterID), string(inv.InviteeID), string(inv.Status), inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

// GetInvitation retrieves an invitation by ID.
func (s *PostgresStore) GetInvitation(ctx context.Context, invitationID string) (*models.Invitation, error) {
	return getInvitation(ctx, s.pool, invitationID, "")
}

func getInvitation(ctx context.Context, q querier, invitationID, lock string) (*models.Invitation, error) {
	inv, err := scanInvitation(q.QueryRow(ctx, invitationSelect+" WHERE i.id = $1"+lock, invitationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: invitation %s", models.ErrNotFound, invitationID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// ListInvitationsForTrip retrieves all invitations for a trip, newest first.
func (s *PostgresStore) ListInvitationsForTrip(ctx context.Context, tripID string) ([]*models.Invitation, error) {
	return s.listInvitations(ctx, " WHERE i.trip_id = $1 ORDER BY i.created_at DESC, i.id", tripID)
}

// ListInvitationsForInvitee retrieves all invitations addressed to a profile, newest first.
func (s *PostgresStore) ListInvitationsForInvitee(ctx context.Context, inviteeID models.MemberID) ([]*models.Invitation, error) {
	return s.listInvitations(ctx, " WHERE i.invitee_id = $1 ORDER BY i.created_at DESC, i.id", string(inviteeID))
}

func (s *PostgresStore) listInvitations(ctx context.Context, where, arg string) ([]*models.Invitation, error) {
	rows, err := s.pool.Query(ctx, invitationSelect+where, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	invitations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Invitation, error) {
		return scanInvitation(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan invitations: %w", err)
	}
	return invitations, nil
}

// AcceptInvitation marks the invitation accepted and appends the invitee to the trip.
func (s *PostgresStore) AcceptInvitation(ctx context.Context, invitationID string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		inv, err := resolvePending(ctx, tx, invitationID, models.InvitationAccepted)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO trip_members (trip_id, member_id, position)
			 SELECT $1::text, $2::text, COALESCE(MAX(position), -1) + 1 FROM trip_members WHERE trip_id = $1
			 ON CONFLICT (trip_id, member_id) DO NOTHING`,
			inv.TripID, string(inv.InviteeID),
		)
		if err != nil {
			return fmt.Errorf("failed to add trip member: %w", err)
		}
		return nil
	})
}

// RejectInvitation marks the invitation rejected.
func (s *PostgresStore) RejectInvitation(ctx context.Context, invitationID string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		_, err := resolvePending(ctx, tx, invitationID, models.InvitationRejected)
		return err
	})
}

func resolvePending(ctx context.Context, tx pgx.Tx, invitationID string, status models.InvitationStatus) (*models.Invitation, error) {
	inv, err := getInvitation(ctx, tx, invitationID, " FOR UPDATE OF i")
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvitationPending {
		return nil, fmt.Errorf("%w: invitation %s is %s", models.ErrInvalidState, invitationID, inv.Status)
	}

	if _, err := tx.Exec(ctx, "UPDATE invitations SET status = $1 WHERE id = $2", string(status), invitationID); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}
	inv.Status = status
	return inv, nil
}

func scanInvitation(row pgx.Row) (*models.Invitation, error) {
	inv := &models.Invitation{}
	var inviter, invitee, status string
	err := row.Scan(&inv.ID, &inv.TripID, &inviter, &invitee, &inv.InviteeUsername, &status, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	inv.InviterID = models.MemberID(inviter)
	inv.InviteeID = models.MemberID(invitee)
	inv.Status = models.InvitationStatus(status)
	return inv, nil
}
