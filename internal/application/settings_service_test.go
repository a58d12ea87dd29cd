package application

import (
	"context"
	"testing"

	"slfo/internal/models"
	"slfo/internal/repository"
)

func TestSettingsService_DefaultsAndPatch(t *testing.T) {
	repos := repository.NewMemoryRepository()
	cache := repository.NewGuildSettingsCache(repos.GuildSettings)
	svc := NewSettingsServiceImpl(cache, RoleDefaults{
		LinkedRoleID:      "env-linked",
		AnnounceChannelID: "env-announce",
	}, newFakeClock(), nopLogger{})
	ctx := context.Background()

	cfg, err := svc.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cfg.GuildID != "g1" || cfg.LinkedRoleID != "env-linked" || cfg.AnnounceChannelID != "env-announce" || cfg.VIPRoleID != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	vip, linked := "vip", "custom-linked"
	cfg, err = svc.Update(ctx, "g1", models.GuildRoleConfigPatch{VIPRoleID: &vip})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cfg.VIPRoleID != "vip" || cfg.LinkedRoleID != "env-linked" {
		t.Fatalf("unexpected config after vip patch: %+v", cfg)
	}

	cfg, _ = svc.Update(ctx, "g1", models.GuildRoleConfigPatch{LinkedRoleID: &linked})
	if cfg.VIPRoleID != "vip" || cfg.LinkedRoleID != "custom-linked" {
		t.Fatalf("patch must keep untouched fields: %+v", cfg)
	}

	// Clearing a stored value falls back to the environment again.
	empty := ""
	cfg, _ = svc.Update(ctx, "g1", models.GuildRoleConfigPatch{LinkedRoleID: &empty})
	if cfg.LinkedRoleID != "env-linked" {
		t.Fatalf("expected env fallback, got %+v", cfg)
	}
}

func TestSettingsService_EmptyPatchDoesNotWrite(t *testing.T) {
	repos := repository.NewMemoryRepository()
	svc := NewSettingsServiceImpl(repos.GuildSettings, RoleDefaults{}, newFakeClock(), nopLogger{})

	if _, err := svc.Update(context.Background(), "g1", models.GuildRoleConfigPatch{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if stored, _ := repos.GetGuildSettings(context.Background(), "g1"); stored != nil {
		t.Fatalf("empty patch stored a row: %+v", stored)
	}
}
