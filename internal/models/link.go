package models

import "time"

// LinkCode is a single-use token proving a Discord user's intent to claim a Roblox account.
type LinkCode struct {
	Code      string    `json:"code"`
	DiscordID string    `json:"discord_id"`
	CreatedAt time.Time `json:"created_at"`
}

// IdentityLink binds one Discord account to one Roblox account. Both sides are unique.
type IdentityLink struct {
	DiscordID      string    `json:"discord_id"`
	RobloxID       int64     `json:"roblox_user_id"`
	RobloxUsername string    `json:"roblox_username"`
	LinkedAt       time.Time `json:"linked_at"`
}
