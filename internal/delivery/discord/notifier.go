package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"slfo/internal/application"
	"slfo/internal/models"
)

type embedSender interface {
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
}

// Notifier posts link announcements to the announce channel and command
// outcomes and unlinks to the admin log channel. Send failures are logged only.
type Notifier struct {
	sender   embedSender
	settings application.SettingsService
	guildID  string
	logger   application.Logger
}

func NewNotifier(sender embedSender, settings application.SettingsService, guildID string, logger application.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		settings: settings,
		guildID:  guildID,
		logger:   logger,
	}
}

func (n *Notifier) OnLinked(ctx context.Context, link models.IdentityLink) {
	n.send(ctx, func(cfg models.GuildRoleConfig) string { return cfg.AnnounceChannelID }, linkedEmbed(link))
}

func (n *Notifier) OnUnlinked(ctx context.Context, link models.IdentityLink) {
	n.send(ctx, func(cfg models.GuildRoleConfig) string { return cfg.AdminLogChannelID }, unlinkedEmbed(link))
}

func (n *Notifier) OnCommandReported(ctx context.Context, cmd models.AdminCommand, report models.CommandReport) {
	n.send(ctx, func(cfg models.GuildRoleConfig) string { return cfg.AdminLogChannelID }, reportEmbed(cmd, report))
}

func (n *Notifier) send(ctx context.Context, channel func(models.GuildRoleConfig) string, embed *discordgo.MessageEmbed) {
	cfg, err := n.settings.Get(ctx, n.guildID)
	if err != nil {
		n.logger.Warn("Notifier: %v", err)
		return
	}
	channelID := channel(cfg)
	if channelID == "" {
		n.logger.Debug("Notifier: no channel configured for %q", embed.Title)
		return
	}
	if err := n.sender.SendEmbed(ctx, channelID, embed); err != nil {
		n.logger.Warn("Notifier: failed to post %q to %s: %v", embed.Title, channelID, err)
	}
}

func linkedEmbed(link models.IdentityLink) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🔗 Account Linked",
		Color: colorTeal,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Discord", Value: fmt.Sprintf("<@%s> (`%s`)", link.DiscordID, link.DiscordID)},
			{Name: "Roblox", Value: fmt.Sprintf("**%s** (`%d`)", link.RobloxUsername, link.RobloxID)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: linkFooter},
	}
}

func unlinkedEmbed(link models.IdentityLink) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🔓 Account Unlinked",
		Color: colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Discord", Value: fmt.Sprintf("<@%s> (`%s`)", link.DiscordID, link.DiscordID)},
			{Name: "Roblox", Value: fmt.Sprintf("**%s** (`%d`)", link.RobloxUsername, link.RobloxID)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: linkFooter},
	}
}

// reportEmbed prefers the stored command fields and falls back to what the game server echoed.
func reportEmbed(cmd models.AdminCommand, report models.CommandReport) *discordgo.MessageEmbed {
	title, color := "✅ Admin Action Applied", colorGreen
	if !report.Success {
		title, color = "❌ Admin Action Failed", colorRed
	}

	target := cmd.TargetID
	if target == 0 {
		target = report.TargetID
	}
	kind := string(cmd.Kind)
	if kind == "" {
		kind = report.Kind
	}
	player := fmt.Sprintf("`%d`", target)
	if report.TargetUsername != "" {
		player = fmt.Sprintf("**%s** (`%d`)", report.TargetUsername, target)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Player", Value: player},
		{Name: "Action", Value: fmt.Sprintf("`%s`", kind), Inline: true},
		{Name: "Amount", Value: fmt.Sprintf("%d", cmd.Amount), Inline: true},
	}
	if report.ResultText != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Info", Value: truncate(report.ResultText, maxResultTextLen)})
	}

	return &discordgo.MessageEmbed{
		Title:  title,
		Color:  color,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("ActionId: %d", cmd.ID)},
	}
}
