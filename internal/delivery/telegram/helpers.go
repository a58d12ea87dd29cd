package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

const maxMessageLength = 4096

func (b *Bot) isAdmin(id int64) bool {
	_, ok := b.adminIDs[id]
	return ok
}

func (b *Bot) sendMessage(chatID int64, text string) {
	s := b.currentSender()
	if text == "" || s == nil {
		return
	}
	if _, err := s.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn("Telegram: failed to send to %d: %v", chatID, err)
	}
}

func (b *Bot) broadcast(text string) {
	for id := range b.adminIDs {
		b.sendMessage(id, text)
	}
}

func truncateMessage(s string) string {
	r := []rune(s)
	if len(r) <= maxMessageLength {
		return s
	}
	return string(r[:maxMessageLength-3]) + "..."
}
