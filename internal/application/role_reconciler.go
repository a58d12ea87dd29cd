package application

import (
	"context"

	"slfo/internal/models"
	"slfo/internal/repository"
)

// Member is a guild member as seen by the chat platform.
type Member struct {
	UserID string
	Roles  []string
}

func (m *Member) HasRole(roleID string) bool {
	return containsString(m.Roles, roleID)
}

// Platform is the subset of the chat platform the reconciler needs.
type Platform interface {
	Ready() bool
	GuildExists(ctx context.Context, guildID string) (bool, error)
	// Member returns nil, nil when the user is not in the guild.
	Member(ctx context.Context, guildID, userID string) (*Member, error)
	RoleExists(ctx context.Context, guildID, roleID string) (bool, error)
	AddRole(ctx context.Context, guildID, userID, roleID, reason string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error
}

// DesiredRoles is the role state a linked member should have. VIP and Beta are
// only enforced when ProfileKnown is set.
type DesiredRoles struct {
	Linked       bool
	VIP          bool
	Beta         bool
	ProfileKnown bool
}

// DesiredFor derives the desired roles of a linked member from its latest snapshot, which may be nil.
func DesiredFor(p *models.ProfileSnapshot) DesiredRoles {
	d := DesiredRoles{Linked: true}
	if p != nil {
		d.VIP = p.VIP
		d.Beta = p.Beta
		d.ProfileKnown = true
	}
	return d
}

// Sync outcomes.
const (
	SyncApplied = "applied"
	SyncNoop    = "noop"
	SyncPartial = "partial"
	SyncSkipped = "skipped"
)

type SyncResult struct {
	Outcome string
	Reason  string
	Added   []string
	Removed []string
	Failed  []string
}

// RoleReconciler brings a member's roles in line with the linked account state.
// It never reports an error: unmet preconditions end in a skipped result and
// failed platform calls are logged and counted.
type RoleReconciler struct {
	platform Platform
	guildID  string
	settings SettingsService
	links    repository.Link
	profiles repository.Profile
	logger   Logger
}

func NewRoleReconciler(platform Platform, guildID string, settings SettingsService, links repository.Link, profiles repository.Profile, logger Logger) *RoleReconciler {
	return &RoleReconciler{
		platform: platform,
		guildID:  guildID,
		settings: settings,
		links:    links,
		profiles: profiles,
		logger:   logger,
	}
}

func (r *RoleReconciler) Apply(ctx context.Context, discordID string, desired DesiredRoles) SyncResult {
	cfg, member, reason := r.resolve(ctx, discordID)
	if reason != "" {
		return r.skip(discordID, reason)
	}

	res := SyncResult{}
	if desired.Linked {
		r.ensure(ctx, &res, cfg, member, cfg.LinkedRoleID, true, "linked")
	}
	if desired.ProfileKnown {
		r.ensure(ctx, &res, cfg, member, cfg.VIPRoleID, desired.VIP, "vip")
		r.ensure(ctx, &res, cfg, member, cfg.BetaRoleID, desired.Beta, "beta")
	}
	return r.finish(discordID, res)
}

// SyncMember re-applies the roles of a linked member, for example after they rejoin the guild.
func (r *RoleReconciler) SyncMember(ctx context.Context, discordID string) SyncResult {
	link, err := r.links.GetLinkByDiscord(ctx, discordID)
	if err != nil {
		r.logger.Warn("Role sync: failed to load link for %s: %v", discordID, err)
		return r.skip(discordID, "link_lookup_failed")
	}
	if link == nil {
		return r.skip(discordID, "not_linked")
	}
	return r.Apply(ctx, discordID, r.desiredForLink(ctx, *link))
}

func (r *RoleReconciler) OnLinked(ctx context.Context, link models.IdentityLink) {
	r.Apply(ctx, link.DiscordID, r.desiredForLink(ctx, link))
}

func (r *RoleReconciler) OnProfileSaved(ctx context.Context, p models.ProfileSnapshot, link models.IdentityLink) {
	r.Apply(ctx, link.DiscordID, DesiredFor(&p))
}

// OnUnlinked takes the linked role away. VIP and Beta roles are left alone.
func (r *RoleReconciler) OnUnlinked(ctx context.Context, link models.IdentityLink) {
	cfg, member, reason := r.resolve(ctx, link.DiscordID)
	if reason != "" {
		r.skip(link.DiscordID, reason)
		return
	}

	res := SyncResult{}
	r.ensure(ctx, &res, cfg, member, cfg.LinkedRoleID, false, "linked")
	r.finish(link.DiscordID, res)
}

func (r *RoleReconciler) desiredForLink(ctx context.Context, link models.IdentityLink) DesiredRoles {
	p, err := r.profiles.GetProfile(ctx, link.RobloxID)
	if err != nil {
		r.logger.Warn("Role sync: failed to load profile for roblox %d: %v", link.RobloxID, err)
		p = nil
	}
	return DesiredFor(p)
}

// resolve checks every precondition shared by all role changes and returns a
// non-empty skip reason when one is unmet.
func (r *RoleReconciler) resolve(ctx context.Context, discordID string) (models.GuildRoleConfig, *Member, string) {
	if r.platform == nil || !r.platform.Ready() {
		return models.GuildRoleConfig{}, nil, "platform_unavailable"
	}
	if r.guildID == "" {
		return models.GuildRoleConfig{}, nil, "guild_unconfigured"
	}

	ok, err := r.platform.GuildExists(ctx, r.guildID)
	if err != nil {
		r.logger.Warn("Role sync: failed to resolve guild %s: %v", r.guildID, err)
		return models.GuildRoleConfig{}, nil, "guild_unavailable"
	}
	if !ok {
		return models.GuildRoleConfig{}, nil, "guild_unavailable"
	}

	cfg, err := r.settings.Get(ctx, r.guildID)
	if err != nil {
		r.logger.Warn("Role sync: %v", err)
		return models.GuildRoleConfig{}, nil, "settings_unavailable"
	}

	member, err := r.platform.Member(ctx, r.guildID, discordID)
	if err != nil {
		r.logger.Warn("Role sync: failed to fetch member %s: %v", discordID, err)
		return models.GuildRoleConfig{}, nil, "member_unavailable"
	}
	if member == nil {
		return models.GuildRoleConfig{}, nil, "member_not_resident"
	}
	return cfg, member, ""
}

// ensure adds or removes roleID so that holding it matches want.
func (r *RoleReconciler) ensure(ctx context.Context, res *SyncResult, cfg models.GuildRoleConfig, m *Member, roleID string, want bool, name string) {
	if roleID == "" {
		r.logger.Debug("Role sync: %s role is not configured", name)
		return
	}
	if m.HasRole(roleID) == want {
		return
	}

	exists, err := r.platform.RoleExists(ctx, cfg.GuildID, roleID)
	if err != nil {
		r.logger.Warn("Role sync: failed to check %s role %s: %v", name, roleID, err)
		return
	}
	if !exists {
		r.logger.Warn("Role sync: %s role %s does not exist in guild %s", name, roleID, cfg.GuildID)
		return
	}

	op := "add"
	call := r.platform.AddRole
	reason := reasonRoleSync
	if !want {
		op = "remove"
		call = r.platform.RemoveRole
		if name == "linked" {
			reason = reasonUnlink
		}
	}

	if err := call(ctx, cfg.GuildID, m.UserID, roleID, reason); err != nil {
		roleCalls.WithLabelValues(op, "error").Inc()
		r.logger.Error("Role sync: failed to %s %s role for %s: %v", op, name, m.UserID, err)
		res.Failed = append(res.Failed, roleID)
		return
	}

	roleCalls.WithLabelValues(op, "ok").Inc()
	if want {
		res.Added = append(res.Added, roleID)
	} else {
		res.Removed = append(res.Removed, roleID)
	}
}

func (r *RoleReconciler) skip(discordID, reason string) SyncResult {
	roleSyncs.WithLabelValues(SyncSkipped).Inc()
	r.logger.Debug("Role sync for %s skipped: %s", discordID, reason)
	return SyncResult{Outcome: SyncSkipped, Reason: reason}
}

func (r *RoleReconciler) finish(discordID string, res SyncResult) SyncResult {
	switch {
	case len(res.Failed) > 0:
		res.Outcome = SyncPartial
	case len(res.Added) > 0 || len(res.Removed) > 0:
		res.Outcome = SyncApplied
	default:
		res.Outcome = SyncNoop
	}
	roleSyncs.WithLabelValues(res.Outcome).Inc()
	if res.Outcome != SyncNoop {
		r.logger.Info("Role sync for %s: %s (added %v, removed %v, failed %v)", discordID, res.Outcome, res.Added, res.Removed, res.Failed)
	}
	return res
}
