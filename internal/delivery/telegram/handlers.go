package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"slfo/internal/application"
)

const helpText = "SLFO admin mirror:\n\n" +
	"/pending - Actions waiting for the game server\n" +
	"/whois [pseudo] - Find a linked player\n" +
	"/links - Number of linked accounts"

func (b *Bot) handleCommand(ctx context.Context, command, args string) string {
	switch command {
	case "start", "help":
		return helpText
	case "pending":
		return b.pendingText(ctx)
	case "whois":
		return b.whoisText(ctx, strings.TrimSpace(args))
	case "links":
		links, err := b.services.LinkService.ListLinks(ctx)
		if err != nil {
			b.logger.Error("Telegram: failed to list links: %v", err)
			return "Error: " + err.Error()
		}
		return fmt.Sprintf("Linked accounts: %d", len(links))
	default:
		return "Unknown command. " + helpText
	}
}

func (b *Bot) pendingText(ctx context.Context) string {
	cmds, err := b.services.CommandService.Pull(ctx, application.MaxPullLimit)
	if err != nil {
		b.logger.Error("Telegram: failed to load pending actions: %v", err)
		return "Error: " + err.Error()
	}
	if len(cmds) == 0 {
		return "No pending actions."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pending actions (%d):\n", len(cmds)))
	for _, c := range cmds {
		sb.WriteString(fmt.Sprintf("#%d %s %d -> %d (%s)\n", c.ID, c.Kind, c.Amount, c.TargetID, c.QueuedAt.Format("02.01 15:04")))
	}
	return truncateMessage(sb.String())
}

func (b *Bot) whoisText(ctx context.Context, pseudo string) string {
	if pseudo == "" {
		return "Usage: /whois [pseudo]"
	}
	link, err := b.services.LinkService.ResolvePlayer(ctx, pseudo)
	if errors.Is(err, application.ErrPlayerNotLinked) {
		return "Not linked."
	}
	if err != nil {
		b.logger.Error("Telegram: failed to resolve %q: %v", pseudo, err)
		return "Error: " + err.Error()
	}
	return fmt.Sprintf("%s (%d) is linked to Discord %s since %s",
		link.RobloxUsername, link.RobloxID, link.DiscordID, link.LinkedAt.Format("02.01.2006 15:04"))
}
