package models

import "time"

// GuildRoleConfig holds the role and channel ids used for a guild. Empty means unconfigured.
type GuildRoleConfig struct {
	GuildID           string    `json:"guild_id"`
	LinkedRoleID      string    `json:"linked_role_id"`
	VIPRoleID         string    `json:"vip_role_id"`
	BetaRoleID        string    `json:"beta_role_id"`
	AnnounceChannelID string    `json:"announce_channel_id"`
	AdminLogChannelID string    `json:"admin_log_channel_id"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// GuildRoleConfigPatch is a partial update; nil fields keep their stored value.
type GuildRoleConfigPatch struct {
	LinkedRoleID      *string
	VIPRoleID         *string
	BetaRoleID        *string
	AnnounceChannelID *string
	AdminLogChannelID *string
}

// Apply returns cfg with every non-nil field of p applied.
func (p GuildRoleConfigPatch) Apply(cfg GuildRoleConfig) GuildRoleConfig {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.LinkedRoleID, p.LinkedRoleID)
	set(&cfg.VIPRoleID, p.VIPRoleID)
	set(&cfg.BetaRoleID, p.BetaRoleID)
	set(&cfg.AnnounceChannelID, p.AnnounceChannelID)
	set(&cfg.AdminLogChannelID, p.AdminLogChannelID)
	return cfg
}

func (p GuildRoleConfigPatch) Empty() bool {
	return p.LinkedRoleID == nil && p.VIPRoleID == nil && p.BetaRoleID == nil &&
		p.AnnounceChannelID == nil && p.AdminLogChannelID == nil
}
