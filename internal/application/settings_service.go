package application

import (
	"context"
	"fmt"

	"slfo/internal/models"
	"slfo/internal/repository"
)

// RoleDefaults are used for any guild setting that was never configured through /config_roles.
type RoleDefaults struct {
	LinkedRoleID      string `env:"LINKED_ID" envDefault:""`
	VIPRoleID         string `env:"VIP_ID" envDefault:""`
	BetaRoleID        string `env:"BETA_ID" envDefault:""`
	AnnounceChannelID string `env:"ANNOUNCE_CHANNEL_ID" envDefault:""`
	AdminLogChannelID string `env:"ADMIN_LOG_CHANNEL_ID" envDefault:""`
}

type SettingsService interface {
	Get(ctx context.Context, guildID string) (models.GuildRoleConfig, error)
	Update(ctx context.Context, guildID string, patch models.GuildRoleConfigPatch) (models.GuildRoleConfig, error)
}

type SettingsServiceImpl struct {
	repo     repository.GuildSettings
	defaults RoleDefaults
	clock    Clock
	logger   Logger
}

func NewSettingsServiceImpl(repo repository.GuildSettings, defaults RoleDefaults, clock Clock, logger Logger) *SettingsServiceImpl {
	return &SettingsServiceImpl{
		repo:     repo,
		defaults: defaults,
		clock:    clock,
		logger:   logger,
	}
}

// Get returns the effective configuration for guildID: stored values first,
// environment defaults for anything left empty.
func (s *SettingsServiceImpl) Get(ctx context.Context, guildID string) (models.GuildRoleConfig, error) {
	stored, err := s.repo.GetGuildSettings(ctx, guildID)
	if err != nil {
		return models.GuildRoleConfig{}, fmt.Errorf("failed to load guild settings: %w", err)
	}

	cfg := models.GuildRoleConfig{GuildID: guildID}
	if stored != nil {
		cfg = *stored
	}
	fallback(&cfg.LinkedRoleID, s.defaults.LinkedRoleID)
	fallback(&cfg.VIPRoleID, s.defaults.VIPRoleID)
	fallback(&cfg.BetaRoleID, s.defaults.BetaRoleID)
	fallback(&cfg.AnnounceChannelID, s.defaults.AnnounceChannelID)
	fallback(&cfg.AdminLogChannelID, s.defaults.AdminLogChannelID)
	return cfg, nil
}

// Update applies the non-nil fields of patch on top of the stored row.
func (s *SettingsServiceImpl) Update(ctx context.Context, guildID string, patch models.GuildRoleConfigPatch) (models.GuildRoleConfig, error) {
	stored, err := s.repo.GetGuildSettings(ctx, guildID)
	if err != nil {
		return models.GuildRoleConfig{}, fmt.Errorf("failed to load guild settings: %w", err)
	}

	cfg := models.GuildRoleConfig{GuildID: guildID}
	if stored != nil {
		cfg = *stored
	}
	cfg = patch.Apply(cfg)
	cfg.UpdatedAt = s.clock.Now()

	if !patch.Empty() {
		if err := s.repo.SaveGuildSettings(ctx, cfg); err != nil {
			return models.GuildRoleConfig{}, fmt.Errorf("failed to save guild settings: %w", err)
		}
		s.logger.Info("Updated role settings for guild %s", guildID)
	}
	return s.Get(ctx, guildID)
}

func fallback(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}
