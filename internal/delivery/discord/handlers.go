package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"slfo/internal/application"
	"slfo/internal/models"
)

const swordsButtonPrefix = "swords"

func (b *Bot) linkReply(ctx context.Context, userID string) reply {
	existing, err := b.services.LinkService.LinkByDiscord(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to load link for %s: %v", userID, err)
		return textReply("❌ Something went wrong, try again later.", true)
	}
	if existing != nil {
		return textReply(alreadyLinkedText(existing), true)
	}

	code, err := b.services.LinkService.Issue(ctx, userID)
	if errors.Is(err, application.ErrAlreadyLinkedDiscord) {
		return textReply("✅ Already linked.\nUse `/unlink` to remove the link.", true)
	}
	if err != nil {
		b.logger.Error("Failed to issue link code for %s: %v", userID, err)
		return textReply("❌ Could not create a link code, try again later.", true)
	}

	minutes := int(b.services.LinkService.CodeTTL() / time.Minute)
	return textReply(fmt.Sprintf("🕯️ **Link your soul**\nIn Roblox chat type:\n```text\n:link %s\n```\nCode expires in ~%d minutes.", code.Code, minutes), true)
}

func alreadyLinkedText(l *models.IdentityLink) string {
	return fmt.Sprintf("✅ Already linked with **%s** (`%d`)\nUse `/unlink` to remove the link.", l.RobloxUsername, l.RobloxID)
}

func (b *Bot) unlinkReply(ctx context.Context, userID string) reply {
	removed, err := b.services.LinkService.Unlink(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to unlink %s: %v", userID, err)
		return textReply("❌ Something went wrong, try again later.", true)
	}
	if !removed {
		return textReply("❌ Not linked.", true)
	}
	return textReply("🧹 Link removed successfully.", true)
}

func (b *Bot) whoamiReply(ctx context.Context, userID string) reply {
	link, err := b.services.LinkService.LinkByDiscord(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to load link for %s: %v", userID, err)
		return textReply("❌ Something went wrong, try again later.", true)
	}
	if link == nil {
		return textReply("You are not linked yet. Use `/link`, then type `:link CODE` in Roblox.", true)
	}
	name := link.RobloxUsername
	if name == "" {
		name = "Unknown"
	}
	return textReply(fmt.Sprintf("✅ Linked to Roblox: **%s** (`%d`)", name, link.RobloxID), true)
}

// profileReply shows the profile of pseudo, or of the caller when pseudo is empty.
func (b *Bot) profileReply(ctx context.Context, userID, pseudo string, now time.Time) reply {
	var (
		link *models.IdentityLink
		err  error
	)
	if pseudo != "" {
		link, err = b.services.LinkService.ResolvePlayer(ctx, pseudo)
	} else {
		link, err = b.services.LinkService.LinkByDiscord(ctx, userID)
	}
	if errors.Is(err, application.ErrPlayerNotLinked) || (err == nil && link == nil) {
		return textReply("❌ Player not linked.", false)
	}
	if err != nil {
		b.logger.Error("Failed to resolve player %q: %v", pseudo, err)
		return textReply("❌ Something went wrong, try again later.", true)
	}

	profile, err := b.services.ProfileService.Get(ctx, link.RobloxID)
	if err != nil {
		b.logger.Error("Failed to load profile %d: %v", link.RobloxID, err)
		return textReply("❌ Something went wrong, try again later.", true)
	}
	if profile == nil {
		return textReply("⚠️ Profile not synced yet.", false)
	}

	embed, pages := profileEmbed(link, profile, 0, now)
	return reply{
		embed:      embed,
		components: swordsButtons(userID, link.RobloxID, 0, pages),
	}
}

func profileEmbed(link *models.IdentityLink, p *models.ProfileSnapshot, page int, now time.Time) (*discordgo.MessageEmbed, int) {
	lines := swordLines(p.Items)
	swords, pages := pageOf(lines, page, swordsPerPage)
	if page >= pages {
		page = pages - 1
	}

	ago := now.Sub(p.UpdatedAt)
	if ago < 0 {
		ago = 0
	}
	light := p.Stat(models.StatPoints)
	bank := p.Stat(models.StatBank)

	return &discordgo.MessageEmbed{
		Title: "Profile — SLFO",
		Color: colorForest,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Last updated", Value: fmt.Sprintf("%ds ago", int64(ago.Seconds()))},
			{Name: "Identity", Value: fmt.Sprintf("**Roblox:** %s (`%d`)\n**Discord:** <@%s>", link.RobloxUsername, link.RobloxID, link.DiscordID)},
			{Name: "✨ Light", Value: strconv.FormatInt(light, 10), Inline: true},
			{Name: "🏦 Vault", Value: strconv.FormatInt(bank, 10), Inline: true},
			{Name: "🌕 Total", Value: strconv.FormatInt(light+bank, 10), Inline: true},
			{Name: "🗡️ Kills", Value: strconv.FormatInt(p.Stat(models.StatKills), 10), Inline: true},
			{Name: "🎟️ Tickets", Value: strconv.FormatInt(p.Stat(models.StatTickets), 10), Inline: true},
			{Name: "💚 Robux Donated", Value: fmt.Sprintf("%d R$", p.Stat(models.StatRobuxDonated)), Inline: true},
			{Name: fmt.Sprintf("⚔️ Swords (page %d/%d)", page+1, pages), Value: swords},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: interactionFooter},
	}, pages
}

func swordsButtons(ownerID string, robloxID int64, page, pages int) []discordgo.MessageComponent {
	if pages <= 1 {
		return nil
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "◀ Prev",
				Style:    discordgo.SecondaryButton,
				Disabled: page == 0,
				CustomID: swordsCustomID(ownerID, robloxID, page-1),
			},
			discordgo.Button{
				Label:    "Next ▶",
				Style:    discordgo.SecondaryButton,
				Disabled: page >= pages-1,
				CustomID: swordsCustomID(ownerID, robloxID, page+1),
			},
		}},
	}
}

func swordsCustomID(ownerID string, robloxID int64, page int) string {
	return fmt.Sprintf("%s|%s|%d|%d", swordsButtonPrefix, ownerID, robloxID, page)
}

func parseSwordsCustomID(id string) (ownerID string, robloxID int64, page int, ok bool) {
	parts := strings.Split(id, "|")
	if len(parts) != 4 || parts[0] != swordsButtonPrefix {
		return "", 0, 0, false
	}
	rid, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", 0, 0, false
	}
	p, err := strconv.Atoi(parts[3])
	if err != nil {
		return "", 0, 0, false
	}
	return parts[1], rid, p, true
}

// swordsPageReply renders another page of a profile. Only the author of the
// original /profile may turn pages.
func (b *Bot) swordsPageReply(ctx context.Context, clickerID, customID string, now time.Time) (reply, bool) {
	ownerID, robloxID, page, ok := parseSwordsCustomID(customID)
	if !ok {
		return reply{}, false
	}
	if clickerID != ownerID {
		return textReply("❌ Only the command author can use these buttons.", true), false
	}

	link, err := b.services.LinkService.LinkByRoblox(ctx, robloxID)
	if err != nil || link == nil {
		return textReply("❌ Player not linked.", true), false
	}
	profile, err := b.services.ProfileService.Get(ctx, robloxID)
	if err != nil || profile == nil {
		return textReply("⚠️ Profile not synced yet.", true), false
	}

	embed, pages := profileEmbed(link, profile, page, now)
	if page >= pages {
		page = pages - 1
	}
	return reply{embed: embed, components: swordsButtons(ownerID, robloxID, page, pages)}, true
}

func (b *Bot) enqueueReply(ctx context.Context, pseudo string, kind models.CommandKind, amount int64) reply {
	link, err := b.services.LinkService.ResolvePlayer(ctx, pseudo)
	if errors.Is(err, application.ErrPlayerNotLinked) {
		return textReply("❌ Not linked", true)
	}
	if err != nil {
		b.logger.Error("Failed to resolve player %q: %v", pseudo, err)
		return textReply("❌ Something went wrong, try again later.", true)
	}

	amount = max(amount, 0)
	id, err := b.services.CommandService.Enqueue(ctx, link.RobloxID, string(kind), amount)
	if err != nil {
		b.logger.Error("Failed to enqueue %s for %d: %v", kind, link.RobloxID, err)
		return textReply("❌ Could not queue the action.", true)
	}
	return textReply(fmt.Sprintf("✅ %s %d queued for %s (#%d)", kind, amount, link.RobloxUsername, id), true)
}

func (b *Bot) configRolesReply(ctx context.Context, patch models.GuildRoleConfigPatch) reply {
	cfg, err := b.services.SettingsService.Update(ctx, b.guildID, patch)
	if err != nil {
		b.logger.Error("Failed to update role settings: %v", err)
		return textReply("❌ Could not save the settings.", true)
	}

	show := func(id, mention string) string {
		if id == "" {
			return "not set"
		}
		return fmt.Sprintf(mention, id)
	}
	var sb strings.Builder
	if patch.Empty() {
		sb.WriteString("Current settings:\n")
	} else {
		sb.WriteString("✅ Settings updated:\n")
	}
	sb.WriteString(fmt.Sprintf("Linked role: %s\n", show(cfg.LinkedRoleID, "<@&%s>")))
	sb.WriteString(fmt.Sprintf("VIP role: %s\n", show(cfg.VIPRoleID, "<@&%s>")))
	sb.WriteString(fmt.Sprintf("Beta role: %s\n", show(cfg.BetaRoleID, "<@&%s>")))
	sb.WriteString(fmt.Sprintf("Announce channel: %s\n", show(cfg.AnnounceChannelID, "<#%s>")))
	sb.WriteString(fmt.Sprintf("Admin log channel: %s", show(cfg.AdminLogChannelID, "<#%s>")))
	return textReply(sb.String(), true)
}

func (b *Bot) exportReply(ctx context.Context) reply {
	data, err := b.services.ExportService.Workbook(ctx)
	if err != nil {
		b.logger.Error("Export error: %v", err)
		return textReply("❌ Export failed: "+err.Error(), true)
	}
	return reply{
		content:   "Your export is ready!",
		file:      &discordgo.File{Name: exportFileName, Reader: bytes.NewReader(data)},
		ephemeral: true,
	}
}
