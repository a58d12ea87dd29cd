package models

import "time"

// Stat keys pushed by the game server.
const (
	StatPoints       = "points"
	StatBank         = "bank"
	StatTickets      = "tickets"
	StatKills        = "kills"
	StatRobuxDonated = "robux_donated"
)

// ProfileSnapshot is the latest attribute snapshot reported for one Roblox account.
type ProfileSnapshot struct {
	RobloxID       int64            `json:"roblox_user_id"`
	RobloxUsername string           `json:"roblox_username"`
	Stats          map[string]int64 `json:"stats"`
	Items          map[string]int64 `json:"swords"`
	VIP            bool             `json:"vip"`
	Beta           bool             `json:"beta"`
	UpdatedAt      time.Time        `json:"-"`
}

func (p *ProfileSnapshot) Stat(key string) int64 {
	if p == nil || p.Stats == nil {
		return 0
	}
	return p.Stats[key]
}
