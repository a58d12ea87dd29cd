package telegram

import (
	"context"
	"fmt"

	"slfo/internal/models"
)

func (b *Bot) OnLinked(_ context.Context, link models.IdentityLink) {
	b.broadcast(fmt.Sprintf("🔗 Linked: Discord %s ↔ Roblox %s (%d)", link.DiscordID, link.RobloxUsername, link.RobloxID))
}

func (b *Bot) OnUnlinked(_ context.Context, link models.IdentityLink) {
	b.broadcast(fmt.Sprintf("🔓 Unlinked: Discord %s ✕ Roblox %s (%d)", link.DiscordID, link.RobloxUsername, link.RobloxID))
}

func (b *Bot) OnCommandReported(_ context.Context, cmd models.AdminCommand, report models.CommandReport) {
	status := "✅ applied"
	if !report.Success {
		status = "❌ failed"
	}
	text := fmt.Sprintf("Action #%d %s %d for %d %s", cmd.ID, cmd.Kind, cmd.Amount, cmd.TargetID, status)
	if report.ResultText != "" {
		text += "\n" + report.ResultText
	}
	b.broadcast(truncateMessage(text))
}
