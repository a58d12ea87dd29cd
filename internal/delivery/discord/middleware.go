package discord

import (
	"github.com/bwmarrin/discordgo"
)

// isAdmin accepts users listed in ADMIN_USER_IDS and members holding ADMIN_ROLE_ID.
func (b *Bot) isAdmin(i *discordgo.Interaction) bool {
	if _, ok := b.adminIDs[interactionUserID(i)]; ok {
		return true
	}
	if b.adminRoleID == "" || i.Member == nil || i.GuildID != b.guildID {
		return false
	}
	for _, r := range i.Member.Roles {
		if r == b.adminRoleID {
			return true
		}
	}
	return false
}

func (b *Bot) respond(s *discordgo.Session, i *discordgo.Interaction, r reply) {
	data := &discordgo.InteractionResponseData{
		Content:    truncate(r.content, maxMessageLength-1),
		Components: r.components,
	}
	if r.embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{r.embed}
	}
	if r.ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	if err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}); err != nil {
		b.logger.Error("Failed to respond to interaction: %v", err)
	}
}

// respondDeferred acknowledges at once and edits the response when run completes.
func (b *Bot) respondDeferred(s *discordgo.Session, i *discordgo.Interaction, ephemeral bool, run func() reply) {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	if err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	}); err != nil {
		b.logger.Error("Failed to defer interaction: %v", err)
		return
	}

	r := run()
	edit := &discordgo.WebhookEdit{Content: &r.content}
	if r.embed != nil {
		edit.Embeds = &[]*discordgo.MessageEmbed{r.embed}
	}
	if r.file != nil {
		edit.Files = []*discordgo.File{r.file}
	}
	if _, err := s.InteractionResponseEdit(i, edit); err != nil {
		b.logger.Error("Failed to edit interaction response: %v", err)
	}
}
