package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsync/internal/models"
)

// CreateTrip persists a new trip and its member list.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO trips (id, name, owner_id, start_date, end_date, timezone, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
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
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return getTrip(ctx, s.db, tripID)
}

func getTrip(ctx context.Context, q queryer, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	var startDate, endDate string
	err := q.QueryRowContext(ctx,
		"SELECT id, name, owner_id, start_date, end_date, timezone, created_at FROM trips WHERE id = ?",
		tripID,
	).Scan(&trip.ID, &trip.Name, &trip.OwnerID, &startDate, &endDate, &trip.Timezone, &trip.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: trip %s", models.ErrNotFound, tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	if err := parseTripDates(trip, startDate, endDate); err != nil {
		return nil, err
	}

	members, err := tripMemberIDs(ctx, q, tripID)
	if err != nil {
		return nil, err
	}
	trip.Members = members

	return trip, nil
}

// ListTripsForMember retrieves every trip the member belongs to.
func (s *SQLiteStore) ListTripsForMember(ctx context.Context, memberID models.MemberID) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id FROM trips t
		 JOIN trip_members m ON m.trip_id = t.id
		 WHERE m.member_id = ?
		 ORDER BY t.created_at DESC, t.id`,
		string(memberID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	var tripIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan trip id: %w", err)
		}
		tripIDs = append(tripIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
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
func (s *SQLiteStore) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE trips SET name = ?, start_date = ?, end_date = ?, timezone = ? WHERE id = ?",
			trip.Name, trip.StartDate.Format(models.DateLayout), trip.EndDate.Format(models.DateLayout),
			trip.Timezone, trip.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update trip: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: trip %s", models.ErrNotFound, trip.ID)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM trip_members WHERE trip_id = ?", trip.ID); err != nil {
			return fmt.Errorf("failed to clear trip members: %w", err)
		}
		return insertMembers(ctx, tx, trip.ID, trip.Members)
	})
}

// DeleteTrip removes a trip; events and invitations cascade.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, tripID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: trip %s", models.ErrNotFound, tripID)
	}
	return nil
}

// ListMembers retrieves the trip roster with usernames.
func (s *SQLiteStore) ListMembers(ctx context.Context, tripID string) ([]models.Member, error) {
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
func (s *SQLiteStore) RemoveMember(ctx context.Context, tripID string, memberID models.MemberID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"DELETE FROM trip_members WHERE trip_id = ? AND member_id = ?",
			tripID, string(memberID),
		)
		if err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: member %s of trip %s", models.ErrNotFound, memberID, tripID)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE events SET version = version + 1, updated_at = ?
			 WHERE trip_id = ? AND id IN (SELECT event_id FROM event_votes WHERE member_id = ?)`,
			time.Now().Unix(), tripID, string(memberID),
		)
		if err != nil {
			return fmt.Errorf("failed to bump voted events: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"DELETE FROM event_votes WHERE member_id = ? AND event_id IN (SELECT id FROM events WHERE trip_id = ?)",
			string(memberID), tripID,
		)
		if err != nil {
			return fmt.Errorf("failed to withdraw votes: %w", err)
		}
		return nil
	})
}

func insertMembers(ctx context.Context, tx *sql.Tx, tripID string, members []models.MemberID) error {
	for i, m := range members {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO trip_members (trip_id, member_id, position) VALUES (?, ?, ?)",
			tripID, string(m), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trip member: %w", err)
		}
	}
	return nil
}

func tripMemberIDs(ctx context.Context, q queryer, tripID string) ([]models.MemberID, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT member_id FROM trip_members WHERE trip_id = ? ORDER BY position",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip members: %w", err)
	}
	defer rows.Close()

	var members []models.MemberID
	for rows.Next() {
		var m models.MemberID
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("failed to scan trip member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trip members: %w", err)
	}
	return members, nil
}

func parseTripDates(trip *models.Trip, startDate, endDate string) error {
	loc := trip.Location()
	start, err := time.ParseInLocation(models.DateLayout, startDate, loc)
	if err != nil {
		return fmt.Errorf("failed to parse trip start date: %w", err)
	}
	end, err := time.ParseInLocation(models.DateLayout, endDate, loc)
	if err != nil {
		return fmt.Errorf("failed to parse trip end date: %w", err)
	}
	trip.StartDate, trip.EndDate = start, end
	return nil
}
