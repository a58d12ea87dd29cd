package config

import (
	"strings"
	"testing"
	"time"

	"slfo/internal/repository"
)

func TestReadEnvConfig_Defaults(t *testing.T) {
	t.Setenv("ROBLOX_API_KEY", "secret")

	var cfg Config
	if err := ReadEnvConfig(&cfg); err != nil {
		t.Fatalf("ReadEnvConfig: %v", err)
	}

	if cfg.Repo.Driver != repository.DriverPostgres {
		t.Errorf("Repo.Driver = %q", cfg.Repo.Driver)
	}
	if cfg.App.CodeTTL != 600*time.Second {
		t.Errorf("CodeTTL = %s", cfg.App.CodeTTL)
	}
	if cfg.API.Addr != ":8080" {
		t.Errorf("API.Addr = %q", cfg.API.Addr)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q", cfg.Logger.Level)
	}
	if cfg.Telegram.Enabled() {
		t.Error("telegram must be disabled without a token")
	}
}

func TestReadEnvConfig_Nested(t *testing.T) {
	t.Setenv("ROBLOX_API_KEY", "secret")
	t.Setenv("REPO_DRIVER", "memory")
	t.Setenv("GUILD_ID", "42")
	t.Setenv("CODE_TTL", "5m")
	t.Setenv("ROLES_LINKED_ID", "100")
	t.Setenv("ROLES_VIP_ID", "200")
	t.Setenv("ADMIN_USER_IDS", "1,2")
	t.Setenv("API_RATE_RPS", "3.5")
	t.Setenv("TELEGRAM_TOKEN", "tg")
	t.Setenv("TELEGRAM_ADMIN_CHAT_IDS", "10,20")
	t.Setenv("LOGGER_PRETTY", "true")

	var cfg Config
	if err := ReadEnvConfig(&cfg); err != nil {
		t.Fatalf("ReadEnvConfig: %v", err)
	}

	if cfg.Repo.Driver != repository.DriverMemory {
		t.Errorf("Repo.Driver = %q", cfg.Repo.Driver)
	}
	if cfg.App.GuildID != "42" || cfg.App.CodeTTL != 5*time.Minute {
		t.Errorf("App = %+v", cfg.App)
	}
	if cfg.App.Roles.LinkedRoleID != "100" || cfg.App.Roles.VIPRoleID != "200" {
		t.Errorf("Roles = %+v", cfg.App.Roles)
	}
	if len(cfg.AdminUserIDs) != 2 {
		t.Errorf("AdminUserIDs = %v", cfg.AdminUserIDs)
	}
	if cfg.API.RateRPS != 3.5 {
		t.Errorf("API.RateRPS = %v", cfg.API.RateRPS)
	}
	if !cfg.Telegram.Enabled() || len(cfg.Telegram.AdminChatIDs) != 2 || cfg.Telegram.AdminChatIDs[1] != 20 {
		t.Errorf("Telegram = %+v", cfg.Telegram)
	}
	if !cfg.Logger.Pretty {
		t.Error("Logger.Pretty should be true")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			RobloxAPIKey: "secret",
			Repo:         repository.Config{Driver: repository.DriverMemory},
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(c *Config) {}, ""},
		{"missing key", func(c *Config) { c.RobloxAPIKey = "" }, "ROBLOX_API_KEY"},
		{"bad ttl", func(c *Config) { c.App.CodeTTL = 0 }, "CODE_TTL"},
		{"bad driver", func(c *Config) { c.Repo.Driver = "mysql" }, "REPO_DRIVER"},
		{"bad sampler", func(c *Config) { c.OTEL.SampleRatio = 2 }, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			cfg.App.CodeTTL = time.Minute
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
