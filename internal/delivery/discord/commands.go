package discord

import "github.com/bwmarrin/discordgo"

var (
	adminPermission int64 = discordgo.PermissionManageRoles
	dmDisabled            = false
)

func pseudoOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "pseudo",
		Description: "Roblox username or user id",
		Required:    required,
	}
}

func amountOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "amount",
		Description: "Amount of Light",
		Required:    true,
	}
}

func adminCommand(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     name,
		Description:              description,
		Options:                  options,
		DefaultMemberPermissions: &adminPermission,
		DMPermission:             &dmDisabled,
	}
}

func slashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: cmdLink, Description: "Link your Discord account with Roblox"},
		{Name: cmdUnlink, Description: "Unlink your Roblox account"},
		{Name: cmdWhoami, Description: "Show the Roblox account linked to you"},
		{
			Name:        cmdProfile,
			Description: "Show a player profile",
			Options:     []*discordgo.ApplicationCommandOption{pseudoOption(false)},
		},
		adminCommand(cmdVaultAdd, "(Admin) Add Light to a player's Vault", pseudoOption(true), amountOption()),
		adminCommand(cmdVaultRemove, "(Admin) Remove Light from a player's Vault", pseudoOption(true), amountOption()),
		adminCommand(cmdHandRemove, "(Admin) Remove Light from a player's hand", pseudoOption(true), amountOption()),
		adminCommand(cmdConfigRoles, "(Admin) Configure linked/VIP/beta roles and log channels",
			&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionRole, Name: "linked_role", Description: "Role given to linked members"},
			&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionRole, Name: "vip_role", Description: "Role for VIP players"},
			&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionRole, Name: "beta_role", Description: "Role for beta testers"},
			&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionChannel, Name: "announce_channel", Description: "Channel for link announcements"},
			&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionChannel, Name: "admin_log_channel", Description: "Channel for admin action results"},
		),
		adminCommand(cmdExport, "(Admin) Export links, profiles and actions to Excel"),
	}
}
