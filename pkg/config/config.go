package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"slfo/internal/application"
	"slfo/internal/delivery/httpapi"
	"slfo/internal/delivery/telegram"
	"slfo/internal/observability"
	"slfo/internal/repository"
	"slfo/pkg/logger"
)

type Config struct {
	Repo     repository.Config    `envPrefix:"REPO_"`
	Logger   logger.Config        `envPrefix:"LOGGER_"`
	App      application.Config
	API      httpapi.Config       `envPrefix:"API_"`
	Telegram telegram.Config      `envPrefix:"TELEGRAM_"`
	OTEL     observability.Config `envPrefix:"OTEL_"`

	DiscordToken string   `env:"DISCORD_TOKEN" envDefault:""`
	AdminRoleID  string   `env:"ADMIN_ROLE_ID" envDefault:""`
	AdminUserIDs []string `env:"ADMIN_USER_IDS" envSeparator:"," envDefault:""`

	RobloxAPIKey string `env:"ROBLOX_API_KEY" envDefault:""`
}

func ReadEnvConfig(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate rejects configurations the bridge cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.RobloxAPIKey == "" {
		errs = append(errs, errors.New("ROBLOX_API_KEY is required"))
	}
	if c.App.CodeTTL < time.Second {
		errs = append(errs, fmt.Errorf("CODE_TTL must be at least 1s, got %s", c.App.CodeTTL))
	}
	switch c.Repo.Driver {
	case repository.DriverPostgres, repository.DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown REPO_DRIVER %q", c.Repo.Driver))
	}
	if c.API.RateRPS < 0 {
		errs = append(errs, errors.New("API_RATE_RPS must not be negative"))
	}
	if c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1 {
		errs = append(errs, errors.New("OTEL_TRACES_SAMPLER_ARG must be within [0,1]"))
	}
	return errors.Join(errs...)
}
