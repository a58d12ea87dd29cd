package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"slfo/internal/application"
)

// Platform exposes the parts of a discordgo session that role sync and
// notifications need. Reads go to the state cache first and fall back to REST.
type Platform struct {
	session *discordgo.Session
}

func NewPlatform(session *discordgo.Session) *Platform {
	return &Platform{session: session}
}

func (p *Platform) Ready() bool {
	return p.session != nil && p.session.DataReady
}

func (p *Platform) GuildExists(ctx context.Context, guildID string) (bool, error) {
	if _, err := p.session.State.Guild(guildID); err == nil {
		return true, nil
	}
	if _, err := p.session.Guild(guildID, discordgo.WithContext(ctx)); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to fetch guild: %w", err)
	}
	return true, nil
}

func (p *Platform) Member(ctx context.Context, guildID, userID string) (*application.Member, error) {
	m, err := p.session.State.Member(guildID, userID)
	if err != nil {
		m, err = p.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
		if err != nil {
			if isNotFound(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to fetch member: %w", err)
		}
	}
	return &application.Member{
		UserID: userID,
		Roles:  append([]string(nil), m.Roles...),
	}, nil
}

func (p *Platform) RoleExists(ctx context.Context, guildID, roleID string) (bool, error) {
	if _, err := p.session.State.Role(guildID, roleID); err == nil {
		return true, nil
	}
	roles, err := p.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to fetch roles: %w", err)
	}
	for _, r := range roles {
		if r.ID == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (p *Platform) AddRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	return p.session.GuildMemberRoleAdd(guildID, userID, roleID,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

func (p *Platform) RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	return p.session.GuildMemberRoleRemove(guildID, userID, roleID,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

func (p *Platform) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	if !p.Ready() {
		return errors.New("discord session is not ready")
	}
	_, err := p.session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
	return err
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
