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

// CreateProfile inserts a new profile; a taken username is rejected.
func (s *PostgresStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = models.MemberID(uuid.New().String())
	}
	if profile.CreatedAt == 0 {
		profile.CreatedAt = time.Now().Unix()
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (id, username, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (username) DO NOTHING`,
		string(profile.ID), profile.Username, profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: username %q already taken", models.ErrInvalidState, profile.Username)
	}
	return nil
}

// GetProfile retrieves a profile by its ID.
func (s *PostgresStore) GetProfile(ctx context.Context, id models.MemberID) (*models.Profile, error) {
	return s.getProfile(ctx, "id", string(id))
}

// GetProfileByUsername retrieves a profile by its username.
func (s *PostgresStore) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.getProfile(ctx, "username", username)
}

func (s *PostgresStore) getProfile(ctx context.Context, column, value string) (*models.Profile, error) {
	var id string
	profile := &models.Profile{}
	err := s.pool.QueryRow(ctx,
		"SELECT id, username, created_at FROM profiles WHERE "+column+" = $1", value,
	).Scan(&id, &profile.Username, &profile.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: profile %s", models.ErrNotFound, value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	profile.ID = models.MemberID(id)
	return profile, nil
}

// ListProfiles retrieves the profiles with the given IDs.
func (s *PostgresStore) ListProfiles(ctx context.Context, ids []models.MemberID) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		"SELECT id, username, created_at FROM profiles WHERE id = ANY($1)", memberStrings(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Profile, error) {
		var id string
		var p models.Profile
		err := row.Scan(&id, &p.Username, &p.CreatedAt)
		p.ID = models.MemberID(id)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}
	return profiles, nil
}

func memberStrings(ids []models.MemberID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
