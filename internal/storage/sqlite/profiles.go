package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsync/internal/models"
)

// CreateProfile inserts a new profile into the database.
func (s *SQLiteStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = models.MemberID(uuid.New().String())
	}
	if profile.CreatedAt == 0 {
		profile.CreatedAt = time.Now().Unix()
	}

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM profiles WHERE username = ?", profile.Username).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%w: username %q already taken", models.ErrInvalidState, profile.Username)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check username: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO profiles (id, username, created_at) VALUES (?, ?, ?)",
		profile.ID, profile.Username, profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetProfile retrieves a profile by its ID.
func (s *SQLiteStore) GetProfile(ctx context.Context, id models.MemberID) (*models.Profile, error) {
	return s.getProfile(ctx, "id", string(id))
}

// GetProfileByUsername retrieves a profile by its username.
func (s *SQLiteStore) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.getProfile(ctx, "username", username)
}

func (s *SQLiteStore) getProfile(ctx context.Context, column, value string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, created_at FROM profiles WHERE "+column+" = ?",
		value,
	).Scan(&profile.ID, &profile.Username, &profile.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: profile %s", models.ErrNotFound, value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// ListProfiles retrieves the profiles with the given IDs.
func (s *SQLiteStore) ListProfiles(ctx context.Context, ids []models.MemberID) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return listProfiles(ctx, s.db, ids)
}

func listProfiles(ctx context.Context, q queryer, ids []models.MemberID) ([]models.Profile, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = string(id)
	}

	rows, err := q.QueryContext(ctx,
		"SELECT id, username, created_at FROM profiles WHERE id IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}
