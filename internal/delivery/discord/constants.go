package discord

const (
	// Display limits
	maxMessageLength  = 2000
	swordsPerPage     = 15
	maxResultTextLen  = 900
	interactionFooter = "SLFO — Profile"
	linkFooter        = "SLFO — Link System"

	// Embed colors
	colorForest = 0x0B2E1A // Profile
	colorTeal   = 0x1ABC9C // Link announce
	colorGreen  = 0x2ECC71 // Action applied
	colorRed    = 0xE74C3C // Action failed
	colorOrange = 0xE67E22 // Unlink

	exportFileName = "slfo-export.xlsx"
)

// Slash command names
const (
	cmdLink        = "link"
	cmdUnlink      = "unlink"
	cmdWhoami      = "whoami"
	cmdProfile     = "profile"
	cmdVaultAdd    = "vault_add"
	cmdVaultRemove = "vault_remove"
	cmdHandRemove  = "hand_remove"
	cmdConfigRoles = "config_roles"
	cmdExport      = "export"
)
