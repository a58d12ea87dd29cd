package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"slfo/internal/models"
)

type GuildSettingsPostgres struct {
	db *sql.DB
}

func NewGuildSettingsPostgres(db *sql.DB) *GuildSettingsPostgres {
	return &GuildSettingsPostgres{db: db}
}

func (r *GuildSettingsPostgres) GetGuildSettings(ctx context.Context, guildID string) (*models.GuildRoleConfig, error) {
	var c models.GuildRoleConfig
	err := r.db.QueryRowContext(ctx, `
		SELECT guild_id, linked_role_id, vip_role_id, beta_role_id,
			   announce_channel_id, admin_log_channel_id, updated_at
		FROM guild_settings WHERE guild_id = $1
	`, guildID).Scan(
		&c.GuildID, &c.LinkedRoleID, &c.VIPRoleID, &c.BetaRoleID,
		&c.AnnounceChannelID, &c.AdminLogChannelID, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	return &c, nil
}

func (r *GuildSettingsPostgres) SaveGuildSettings(ctx context.Context, c models.GuildRoleConfig) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO guild_settings (guild_id, linked_role_id, vip_role_id, beta_role_id,
			announce_channel_id, admin_log_channel_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (guild_id) DO UPDATE SET
			linked_role_id = EXCLUDED.linked_role_id,
			vip_role_id = EXCLUDED.vip_role_id,
			beta_role_id = EXCLUDED.beta_role_id,
			announce_channel_id = EXCLUDED.announce_channel_id,
			admin_log_channel_id = EXCLUDED.admin_log_channel_id,
			updated_at = EXCLUDED.updated_at
	`, c.GuildID, c.LinkedRoleID, c.VIPRoleID, c.BetaRoleID, c.AnnounceChannelID, c.AdminLogChannelID, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save guild settings: %w", err)
	}
	return nil
}
