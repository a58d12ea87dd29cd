package repository

import (
	"context"
	"database/sql"
	"time"

	"slfo/internal/models"
)

type LinkCode interface {
	// ReplaceLinkCode drops every code owned by code.DiscordID and stores code.
	ReplaceLinkCode(ctx context.Context, code models.LinkCode) error
}

// LinkTx is the unit of work in which a link code is redeemed.
type LinkTx interface {
	TakeLinkCode(ctx context.Context, code string) (*models.LinkCode, error)
	LockIdentities(ctx context.Context, discordID string, robloxID int64) error
	GetLinkByDiscord(ctx context.Context, discordID string) (*models.IdentityLink, error)
	GetLinkByRoblox(ctx context.Context, robloxID int64) (*models.IdentityLink, error)
	UpsertLink(ctx context.Context, link models.IdentityLink) error
}

type Link interface {
	// WithinLinkTx runs fn in one serialized unit of work. It commits when fn
	// returns nil and rolls back otherwise.
	WithinLinkTx(ctx context.Context, fn func(tx LinkTx) error) error
	GetLinkByDiscord(ctx context.Context, discordID string) (*models.IdentityLink, error)
	GetLinkByRoblox(ctx context.Context, robloxID int64) (*models.IdentityLink, error)
	GetLinkByRobloxUsername(ctx context.Context, username string) (*models.IdentityLink, error)
	DeleteLink(ctx context.Context, discordID string) (*models.IdentityLink, error)
	ListLinks(ctx context.Context) ([]models.IdentityLink, error)
}

type Command interface {
	EnqueueCommand(ctx context.Context, cmd models.AdminCommand) (int64, error)
	PendingCommands(ctx context.Context, limit int) ([]models.AdminCommand, error)
	AckCommands(ctx context.Context, ids []int64, doneAt time.Time) error
	ReportCommand(ctx context.Context, id int64, success bool, resultText string, doneAt time.Time) (*models.AdminCommand, error)
	ListCommands(ctx context.Context, limit int) ([]models.AdminCommand, error)
}

type Profile interface {
	SaveProfile(ctx context.Context, p models.ProfileSnapshot) error
	GetProfile(ctx context.Context, robloxID int64) (*models.ProfileSnapshot, error)
	ListProfiles(ctx context.Context) ([]models.ProfileSnapshot, error)
}

type GuildSettings interface {
	GetGuildSettings(ctx context.Context, guildID string) (*models.GuildRoleConfig, error)
	SaveGuildSettings(ctx context.Context, cfg models.GuildRoleConfig) error
}

type Repository struct {
	LinkCode
	Link
	Command
	Profile
	GuildSettings
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	links := NewLinkPostgres(db)
	return &Repository{
		LinkCode:      links,
		Link:          links,
		Command:       NewCommandPostgres(db),
		Profile:       NewProfilePostgres(db),
		GuildSettings: NewGuildSettingsPostgres(db),
		db:            db,
	}
}

// NewMemoryRepository returns a process-local repository. Nothing survives a restart.
func NewMemoryRepository() *Repository {
	m := NewMemoryStore()
	return &Repository{
		LinkCode:      m,
		Link:          m,
		Command:       m,
		Profile:       m,
		GuildSettings: m,
	}
}

func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
