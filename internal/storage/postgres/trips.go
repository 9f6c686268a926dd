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

// CreateTrip persists a new trip and its member list.
func (s *PostgresStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO trips (id, name, owner_id, start_date, end_date, timezone, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			trip.ID, trip.Name, string(trip.OwnerID),
			trip.StartDate.Format(models.DateLayout), trip.EndDate.Format(models.DateLayout),
			trip.Timezone, trip.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trip: %w", err)
		}
		return insertMembers(ctx, tx, trip.ID, trip.Members)
	})
}

// GetTrip retrieves a trip by ID, including its member list.
func (s *PostgresStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return getTrip(ctx, s.pool, tripID)
}

func getTrip(ctx context.Context, q querier, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	var owner, startDate, endDate string
	err := q.QueryRow(ctx,
		"SELECT id, name, owner_id, start_date, end_date, timezone, created_at FROM trips WHERE id = $1",
		tripID,
	).Scan(&trip.ID, &trip.Name, &owner, &startDate, &endDate, &trip.Timezone, &trip.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: trip %s", models.ErrNotFound, tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	trip.OwnerID = models.MemberID(owner)

	loc := trip.Location()
	if trip.StartDate, err = time.ParseInLocation(models.DateLayout, startDate, loc); err != nil {
		return nil, fmt.Errorf("failed to parse trip start date: %w", err)
	}
	if trip.EndDate, err = time.ParseInLocation(models.DateLayout, endDate, loc); err != nil {
		return nil, fmt.Errorf("failed to parse trip end date: %w", err)
	}

	rows, err := q.Query(ctx,
		"SELECT member_id FROM trip_members WHERE trip_id = $1 ORDER BY position", tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip members: %w", err)
	}
	members, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan trip members: %w", err)
	}
	for _, m := range members {
		trip.Members = append(trip.Members, models.MemberID(m))
	}

	return trip, nil
}

// ListTripsForMember retrieves every trip the member belongs to.
func (s *PostgresStore) ListTripsForMember(ctx context.Context, memberID models.MemberID) ([]*models.Trip, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT t.id FROM trips t
		 JOIN trip_members m ON m.trip_id = t.id
		 WHERE m.member_id = $1
		 ORDER BY t.created_at DESC, t.id`,
		string(memberID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	tripIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan trip ids: %w", err)
	}

	trips := make([]*models.Trip, 0, len(tripIDs))
	for _, id := range tripIDs {
		trip, err := s.GetTrip(ctx, id)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

// UpdateTrip updates an existing trip and replaces its member list.
func (s *PostgresStore) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			"UPDATE trips SET name = $1, start_date = $2, end_date = $3, timezone = $4 WHERE id = $5",
			trip.Name, trip.StartDate.Format(models.DateLayout), trip.EndDate.Format(models.DateLayout),
			trip.Timezone, trip.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update trip: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: trip %s", models.ErrNotFound, trip.ID)
		}

		if _, err := tx.Exec(ctx, "DELETE FROM trip_members WHERE trip_id = $1", trip.ID); err != nil {
			return fmt.Errorf("failed to clear trip members: %w", err)
		}
		return insertMembers(ctx, tx, trip.ID, trip.Members)
	})
}

// DeleteTrip removes a trip; events and invitations cascade.
func (s *PostgresStore) DeleteTrip(ctx context.Context, tripID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM trips WHERE id = $1", tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: trip %s", models.ErrNotFound, tripID)
	}
	return nil
}

// ListMembers retrieves the trip roster with usernames.
func (s *PostgresStore) ListMembers(ctx context.Context, tripID string) ([]models.Member, error) {
	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	profiles, err := s.ListProfiles(ctx, trip.Members)
	if err != nil {
		return nil, err
	}
	return models.MembersOf(*trip, profiles), nil
}

// RemoveMember removes one member from a trip and withdraws their votes on
// the trip's events in the same transaction. Events that lose a vote get a
// new version.
func (s *PostgresStore) RemoveMember(ctx context.Context, tripID string, memberID models.MemberID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			"DELETE FROM trip_members WHERE trip_id = $1 AND member_id = $2",
			tripID, string(memberID),
		)
		if err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: member %s of trip %s", models.ErrNotFound, memberID, tripID)
		}

		_, err = tx.Exec(ctx,
			`UPDATE events SET version = version + 1, updated_at = $1
			 WHERE trip_id = $2 AND id IN (SELECT event_id FROM event_votes WHERE member_id = $3)`,
			time.Now().Unix(), tripID, string(memberID),
		)
		if err != nil {
			return fmt.Errorf("failed to bump voted events: %w", err)
		}
		_, err = tx.Exec(ctx,
			"DELETE FROM event_votes WHERE member_id = $1 AND event_id IN (SELECT id FROM events WHERE trip_id = $2)",
			string(memberID), tripID,
		)
		if err != nil {
			return fmt.Errorf("failed to withdraw votes: %w", err)
		}
		return nil
	})
}

func insertMembers(ctx context.Context, tx pgx.Tx, tripID string, members []models.MemberID) error {
	batch := &pgx.Batch{}
	for i, m := range members {
		batch.Queue(
			"INSERT INTO trip_members (trip_id, member_id, position) VALUES ($1, $2, $3)",
			tripID, string(m), i,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert trip members: %w", err)
	}
	return nil
}
