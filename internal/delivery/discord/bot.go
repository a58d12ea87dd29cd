package discord

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"slfo/internal/application"
	"slfo/internal/models"
	"slfo/pkg/config"
)

const interactionTimeout = 10 * time.Second

type Bot struct {
	session  *discordgo.Session
	services *application.Service
	logger   application.Logger

	guildID     string
	adminRoleID string
	adminIDs    map[string]struct{}
}

func NewBot(session *discordgo.Session, cfg *config.Config, services *application.Service, logger application.Logger) *Bot {
	admins := make(map[string]struct{})
	for _, id := range cfg.AdminUserIDs {
		cleanID := strings.TrimSpace(id)
		if cleanID != "" {
			admins[cleanID] = struct{}{}
		}
	}

	return &Bot{
		session:     session,
		services:    services,
		logger:      logger,
		guildID:     cfg.App.GuildID,
		adminRoleID: cfg.AdminRoleID,
		adminIDs:    admins,
	}
}

func (b *Bot) Init() error {
	b.session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteraction)
	b.session.AddHandler(b.onMemberJoin)
	return nil
}

func (b *Bot) Run(ctx context.Context) {
	if err := b.session.Open(); err != nil {
		b.logger.Error("Failed to open discord session: %v", err)
		return
	}
	b.logger.Info("Discord bot started")
}

func (b *Bot) Stop() {
	if err := b.session.Close(); err != nil {
		b.logger.Warn("Failed to close discord session: %v", err)
	}
}

// onReady registers slash commands on the configured guild, or globally when none is set.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("Logged in as %s (id=%s)", r.User.Username, r.User.ID)

	if _, err := s.ApplicationCommandBulkOverwrite(r.User.ID, b.guildID, slashCommands()); err != nil {
		b.logger.Error("Failed to register commands: %v", err)
		return
	}
	b.logger.Info("Slash commands registered successfully")
}

func (b *Bot) onMemberJoin(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.GuildID != b.guildID || m.User == nil || m.User.Bot {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()
	b.services.Roles.SyncMember(ctx, m.User.ID)
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.onCommand(ctx, s, i.Interaction)
	case discordgo.InteractionMessageComponent:
		b.onComponent(ctx, s, i.Interaction)
	}
}

func (b *Bot) onCommand(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	data := i.ApplicationCommandData()
	userID := interactionUserID(i)
	opts := optionMap(data.Options)

	switch data.Name {
	case cmdLink:
		b.respond(s, i, b.linkReply(ctx, userID))
		return
	case cmdUnlink:
		b.respondDeferred(s, i, true, func() reply { return b.unlinkReply(ctx, userID) })
		return
	case cmdWhoami:
		b.respond(s, i, b.whoamiReply(ctx, userID))
		return
	case cmdProfile:
		b.respond(s, i, b.profileReply(ctx, userID, stringOption(opts, "pseudo"), time.Now()))
		return
	}

	if !b.isAdmin(i) {
		b.respond(s, i, textReply("❌", true))
		return
	}

	switch data.Name {
	case cmdVaultAdd:
		b.respond(s, i, b.enqueueReply(ctx, stringOption(opts, "pseudo"), models.CommandBankAdd, intOption(opts, "amount")))
	case cmdVaultRemove:
		b.respond(s, i, b.enqueueReply(ctx, stringOption(opts, "pseudo"), models.CommandBankRemove, intOption(opts, "amount")))
	case cmdHandRemove:
		b.respond(s, i, b.enqueueReply(ctx, stringOption(opts, "pseudo"), models.CommandHandRemove, intOption(opts, "amount")))
	case cmdConfigRoles:
		b.respond(s, i, b.configRolesReply(ctx, models.GuildRoleConfigPatch{
			LinkedRoleID:      idOption(opts, "linked_role"),
			VIPRoleID:         idOption(opts, "vip_role"),
			BetaRoleID:        idOption(opts, "beta_role"),
			AnnounceChannelID: idOption(opts, "announce_channel"),
			AdminLogChannelID: idOption(opts, "admin_log_channel"),
		}))
	case cmdExport:
		b.respondDeferred(s, i, true, func() reply { return b.exportReply(ctx) })
	}
}

func (b *Bot) onComponent(ctx context.Context, s *discordgo.Session, i *discordgo.Interaction) {
	r, update := b.swordsPageReply(ctx, interactionUserID(i), i.MessageComponentData().CustomID, time.Now())
	if !update {
		if r.content != "" {
			b.respond(s, i, r)
		}
		return
	}

	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{r.embed},
			Components: r.components,
		},
	})
	if err != nil {
		b.logger.Error("Failed to update profile page: %v", err)
	}
}
