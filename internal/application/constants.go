package application

import "time"

const (
	// Link codes
	codeAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength     = 8
	DefaultCodeTTL = 600 * time.Second

	// Command queue
	DefaultPullLimit   = 50
	MaxPullLimit       = 500
	commandHistorySize = 1000

	// Role sync audit-log reasons
	reasonRoleSync = "SLFO role sync"
	reasonUnlink   = "SLFO unlink"

	// Excel export
	exportLinksSheet    = "Links"
	exportProfilesSheet = "Profiles"
	exportCommandsSheet = "Commands"
	exportTimeLayout    = "2006-01-02 15:04:05"
)
