package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsync/internal/models"
)

const eventColumns = `id, trip_id, title, type, location, details, start_at, end_at, cost,
	created_by, version, created_at, updated_at`

// CreateEvent persists a new event with its assignments, payments and votes.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if event.CreatedAt == 0 {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	event.Version = 1

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO events (`+eventColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			event.ID, event.TripID, event.Title, string(event.Type), event.Location, event.Details,
			event.Start.Unix(), event.End.Unix(), event.Cost,
			string(event.CreatedBy), event.Version, event.CreatedAt, event.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
		return writeEventDetails(ctx, tx, event)
	})
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := scanEvent(s.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ?", eventID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: event %s", models.ErrNotFound, eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if err := loadEventDetails(ctx, s.db, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListEventsForTrip retrieves all events of a trip ordered by start time.
func (s *SQLiteStore) ListEventsForTrip(ctx context.Context, tripID string) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE trip_id = ? ORDER BY start_at, created_at, id",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *event)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	for i := range events {
		if err := loadEventDetails(ctx, s.db, &events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// UpdateEvent conditionally updates an event keyed by ID and version.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	return s.UpdateEvents(ctx, []*models.Event{event})
}

// UpdateEvents conditionally updates several events in one transaction.
// On failure every event keeps the version it was passed with.
func (s *SQLiteStore) UpdateEvents(ctx context.Context, events []*models.Event) error {
	versions := make([]int64, len(events))
	for i, e := range events {
		versions[i] = e.Version
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, event := range events {
			if err := updateEvent(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		for i, e := range events {
			e.Version = versions[i]
		}
	}
	return err
}

// DeleteEvent removes an event by ID.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, eventID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: event %s", models.ErrNotFound, eventID)
	}
	return nil
}

// updateEvent writes event if its version still matches, then bumps the
// in-memory version to the stored one.
func updateEvent(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	now := time.Now().Unix()
	result, err := tx.ExecContext(ctx,
		`UPDATE events SET title = ?, type = ?, location = ?, details = ?, start_at = ?, end_at = ?,
		 cost = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		event.Title, string(event.Type), event.Location, event.Details,
		event.Start.Unix(), event.End.Unix(), event.Cost, now,
		event.ID, event.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM events WHERE id = ?", event.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: event %s", models.ErrNotFound, event.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to check event existence: %w", err)
		}
		return fmt.Errorf("%w: event %s at version %d", models.ErrStale, event.ID, event.Version)
	}

	for _, table := range []string{"event_assignments", "event_payments", "event_votes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE event_id = ?", event.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := writeEventDetails(ctx, tx, event); err != nil {
		return err
	}

	event.Version++
	event.UpdatedAt = now
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	var startAt, endAt int64
	err := row.Scan(
		&event.ID, &event.TripID, &event.Title, &event.Type, &event.Location, &event.Details,
		&startAt, &endAt, &event.Cost,
		&event.CreatedBy, &event.Version, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	event.Start = time.Unix(startAt, 0).UTC()
	event.End = time.Unix(endAt, 0).UTC()
	return event, nil
}

func writeEventDetails(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	for _, m := range sortedKeys(event.CostAssignments) {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO event_assignments (event_id, member_id, assigned) VALUES (?, ?, ?)",
			event.ID, string(m), boolToInt(event.CostAssignments[m]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert cost assignment: %w", err)
		}
	}

	for _, m := range sortedKeys(event.Payments) {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO event_payments (event_id, member_id, paid) VALUES (?, ?, ?)",
			event.ID, string(m), boolToInt(event.Payments[m]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}

	for i, m := range event.Votes {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO event_votes (event_id, member_id, position) VALUES (?, ?, ?)",
			event.ID, string(m), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}
	}
	return nil
}

func loadEventDetails(ctx context.Context, q queryer, event *models.Event) error {
	assignments, err := loadFlags(ctx, q,
		"SELECT member_id, assigned FROM event_assignments WHERE event_id = ?", event.ID)
	if err != nil {
		return fmt.Errorf("failed to get cost assignments: %w", err)
	}
	event.CostAssignments = assignments

	payments, err := loadFlags(ctx, q,
		"SELECT member_id, paid FROM event_payments WHERE event_id = ?", event.ID)
	if err != nil {
		return fmt.Errorf("failed to get payments: %w", err)
	}
	event.Payments = payments

	rows, err := q.QueryContext(ctx,
		"SELECT member_id FROM event_votes WHERE event_id = ? ORDER BY position", event.ID)
	if err != nil {
		return fmt.Errorf("failed to get votes: %w", err)
	}
	defer rows.Close()

	event.Votes = nil
	for rows.Next() {
		var m models.MemberID
		if err := rows.Scan(&m); err != nil {
			return fmt.Errorf("failed to scan vote: %w", err)
		}
		event.Votes = append(event.Votes, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate votes: %w", err)
	}
	return nil
}

func loadFlags(ctx context.Context, q queryer, query, eventID string) (map[models.MemberID]bool, error) {
	rows, err := q.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flags := make(map[models.MemberID]bool)
	for rows.Next() {
		var m models.MemberID
		var v int
		if err := rows.Scan(&m, &v); err != nil {
			return nil, err
		}
		flags[m] = v != 0
	}
	return flags, rows.Err()
}

func sortedKeys(m map[models.MemberID]bool) []models.MemberID {
	keys := make([]models.MemberID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
