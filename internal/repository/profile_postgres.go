package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"slfo/internal/models"
)

type ProfilePostgres struct {
	db *sql.DB
}

func NewProfilePostgres(db *sql.DB) *ProfilePostgres {
	return &ProfilePostgres{db: db}
}

func (r *ProfilePostgres) SaveProfile(ctx context.Context, p models.ProfileSnapshot) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO player_profiles (roblox_user_id, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (roblox_user_id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`, p.RobloxID, data, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (r *ProfilePostgres) GetProfile(ctx context.Context, robloxID int64) (*models.ProfileSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT roblox_user_id, data, updated_at FROM player_profiles WHERE roblox_user_id = $1
	`, robloxID)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (r *ProfilePostgres) ListProfiles(ctx context.Context) ([]models.ProfileSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT roblox_user_id, data, updated_at FROM player_profiles ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var out []models.ProfileSnapshot
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// scanProfile decodes the JSON blob. A blob that fails to decode yields an
// empty snapshot rather than an error so one bad row cannot hide the others.
func scanProfile(row rowScanner) (*models.ProfileSnapshot, error) {
	var (
		p    models.ProfileSnapshot
		id   int64
		data []byte
	)
	if err := row.Scan(&id, &data, &p.UpdatedAt); err != nil {
		return nil, err
	}
	updatedAt := p.UpdatedAt
	if err := json.Unmarshal(data, &p); err != nil {
		p = models.ProfileSnapshot{}
	}
	p.RobloxID = id
	p.UpdatedAt = updatedAt
	return &p, nil
}
