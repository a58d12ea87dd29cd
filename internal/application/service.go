package application

import (
	"time"

	"slfo/internal/repository"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Clock is the time source for code TTLs and audit timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock in UTC.
func SystemClock() Clock { return systemClock{} }

type Config struct {
	GuildID string        `env:"GUILD_ID" envDefault:""`
	CodeTTL time.Duration `env:"CODE_TTL" envDefault:"600s"`
	Roles   RoleDefaults  `envPrefix:"ROLES_"`
}

type Service struct {
	LinkService     LinkService
	CommandService  CommandService
	ProfileService  ProfileService
	SettingsService SettingsService
	ExportService   ExportService
	Roles           *RoleReconciler
	Hooks           *Hooks
}

// NewService wires the services over repos. platform may be nil, in which case
// role synchronisation soft-skips until a platform is available.
func NewService(repos *repository.Repository, platform Platform, cfg Config, logger Logger) *Service {
	clock := SystemClock()
	hooks := NewHooks(logger)

	settings := NewSettingsServiceImpl(repository.NewGuildSettingsCache(repos.GuildSettings), cfg.Roles, clock, logger)
	roles := NewRoleReconciler(platform, cfg.GuildID, settings, repos.Link, repos.Profile, logger)
	hooks.Subscribe(roles)

	return &Service{
		LinkService:     NewLinkServiceImpl(repos.LinkCode, repos.Link, hooks, clock, cfg.CodeTTL, logger),
		CommandService:  NewCommandServiceImpl(repos.Command, hooks, clock, logger),
		ProfileService:  NewProfileServiceImpl(repos.Profile, repos.Link, hooks, clock, logger),
		SettingsService: settings,
		ExportService:   NewExportServiceImpl(repos.Link, repos.Profile, repos.Command),
		Roles:           roles,
		Hooks:           hooks,
	}
}
