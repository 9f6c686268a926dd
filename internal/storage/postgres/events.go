package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsync/internal/models"
)

const eventColumns = `id, trip_id, title, type, location, details, start_at, end_at, cost,
	created_by, version, created_at, updated_at`

// CreateEvent persists a new event with its assignments, payments and votes.
func (s *PostgresStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if event.CreatedAt == 0 {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	event.Version = 1

	return s.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO events (`+eventColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			event.ID, event.TripID, event.Title, string(event.Type), event.Location, event.Details,
			event.Start.Unix(), event.End.Unix(), event.Cost.String(),
			string(event.CreatedBy), event.Version, event.CreatedAt, event.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
		return writeEventDetails(ctx, tx, event)
	})
}

// GetEvent retrieves an event by ID.
func (s *PostgresStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := scanEvent(s.pool.QueryRow(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = $1", eventID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: event %s", models.ErrNotFound, eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if err := loadEventDetails(ctx, s.pool, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListEventsForTrip retrieves all events of a trip ordered by start time.
func (s *PostgresStore) ListEventsForTrip(ctx context.Context, tripID string) ([]models.Event, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+eventColumns+" FROM events WHERE trip_id = $1 ORDER BY start_at, created_at, id",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Event, error) {
		event, err := scanEvent(row)
		if err != nil {
			return models.Event{}, err
		}
		return *event, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan events: %w", err)
	}

	for i := range events {
		if err := loadEventDetails(ctx, s.pool, &events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// UpdateEvent conditionally updates an event keyed by ID and version.
func (s *PostgresStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	return s.UpdateEvents(ctx, []*models.Event{event})
}

// UpdateEvents conditionally updates several events in one transaction.
// On failure every event keeps the version it was passed with.
func (s *PostgresStore) UpdateEvents(ctx context.Context, events []*models.Event) error {
	versions := make([]int64, len(events))
	for i, e := range events {
		versions[i] = e.Version
	}

	err := s.withTx(ctx, func(tx pgx.Tx) error {
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
func (s *PostgresStore) DeleteEvent(ctx context.Context, eventID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM events WHERE id = $1", eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: event %s", models.ErrNotFound, eventID)
	}
	return nil
}

func updateEvent(ctx context.Context, tx pgx.Tx, event *models.Event) error {
	now := time.Now().Unix()
	tag, err := tx.Exec(ctx,
		`UPDATE events SET title = $1, type = $2, location = $3, details = $4, start_at = $5, end_at = $6,
		 cost = $7, version = version + 1, updated_at = $8
		 WHERE id = $9 AND version = $10`,
		event.Title, string(event.Type), event.Location, event.Details,
		event.Start.Unix(), event.End.Unix(), event.Cost.String(), now,
		event.ID, event.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)", event.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check event existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: event %s", models.ErrNotFound, event.ID)
		}
		return fmt.Errorf("%w: event %s at version %d", models.ErrStale, event.ID, event.Version)
	}

	batch := &pgx.Batch{}
	batch.Queue("DELETE FROM event_assignments WHERE event_id = $1", event.ID)
	batch.Queue("DELETE FROM event_payments WHERE event_id = $1", event.ID)
	batch.Queue("DELETE FROM event_votes WHERE event_id = $1", event.ID)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to clear event details: %w", err)
	}
	if err := writeEventDetails(ctx, tx, event); err != nil {
		return err
	}

	event.Version++
	event.UpdatedAt = now
	return nil
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	event := &models.Event{}
	var eventType, cost, createdBy string
	var startAt, endAt int64
	err := row.Scan(
		&event.ID, &event.TripID, &event.Title, &eventType, &event.Location, &event.Details,
		&startAt, &endAt, &cost,
		&createdBy, &event.Version, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	event.Type = models.EventType(eventType)
	event.CreatedBy = models.MemberID(createdBy)
	event.Start = time.Unix(startAt, 0).UTC()
	event.End = time.Unix(endAt, 0).UTC()
	if event.Cost, err = decimal.NewFromString(cost); err != nil {
		return nil, fmt.Errorf("failed to parse cost %q: %w", cost, err)
	}
	return event, nil
}

func writeEventDetails(ctx context.Context, tx pgx.Tx, event *models.Event) error {
	batch := &pgx.Batch{}
	for _, m := range sortedKeys(event.CostAssignments) {
		batch.Queue(
			"INSERT INTO event_assignments (event_id, member_id, assigned) VALUES ($1, $2, $3)",
			event.ID, string(m), event.CostAssignments[m],
		)
	}
	for _, m := range sortedKeys(event.Payments) {
		batch.Queue(
			"INSERT INTO event_payments (event_id, member_id, paid) VALUES ($1, $2, $3)",
			event.ID, string(m), event.Payments[m],
		)
	}
	for i, m := range event.Votes {
		batch.Queue(
			"INSERT INTO event_votes (event_id, member_id, position) VALUES ($1, $2, $3)",
			event.ID, string(m), i,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to write event details: %w", err)
	}
	return nil
}

type memberFlag struct {
	MemberID string
	Flag     bool
}

func loadEventDetails(ctx context.Context, q querier, event *models.Event) error {
	assignments, err := loadFlags(ctx, q,
		"SELECT member_id, assigned FROM event_assignments WHERE event_id = $1", event.ID)
	if err != nil {
		return fmt.Errorf("failed to get cost assignments: %w", err)
	}
	event.CostAssignments = assignments

	payments, err := loadFlags(ctx, q,
		"SELECT member_id, paid FROM event_payments WHERE event_id = $1", event.ID)
	if err != nil {
		return fmt.Errorf("failed to get payments: %w", err)
	}
	event.Payments = payments

	rows, err := q.Query(ctx,
		"SELECT member_id FROM event_votes WHERE event_id = $1 ORDER BY position", event.ID)
	if err != nil {
		return fmt.Errorf("failed to get votes: %w", err)
	}
	votes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("failed to scan votes: %w", err)
	}
	event.Votes = nil
	for _, v := range votes {
		event.Votes = append(event.Votes, models.MemberID(v))
	}
	return nil
}

func loadFlags(ctx context.Context, q querier, query, eventID string) (map[models.MemberID]bool, error) {
	rows, err := q.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	pairs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[memberFlag])
	if err != nil {
		return nil, err
	}

	flags := make(map[models.MemberID]bool, len(pairs))
	for _, p := range pairs {
		flags[models.MemberID(p.MemberID)] = p.Flag
	}
	return flags, nil
}

func sortedKeys(m map[models.MemberID]bool) []models.MemberID {
	keys := make([]models.MemberID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
