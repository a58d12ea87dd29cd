package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"slfo/internal/application"
)

type Config struct {
	Token        string  `env:"TOKEN" envDefault:""`
	AdminChatIDs []int64 `env:"ADMIN_CHAT_IDS" envSeparator:"," envDefault:""`
}

func (c Config) Enabled() bool {
	return c.Token != ""
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot mirrors link and admin action events to Telegram admin chats and
// answers a few read-only commands there.
type Bot struct {
	cfg      Config
	api      *tgbotapi.BotAPI
	services *application.Service
	logger   application.Logger
	adminIDs map[int64]struct{}

	// Hooks may fire from HTTP handlers before Init has finished.
	mu     sync.RWMutex
	sender sender
}

func NewBot(cfg Config, services *application.Service, logger application.Logger) *Bot {
	admins := make(map[int64]struct{})
	for _, id := range cfg.AdminChatIDs {
		admins[id] = struct{}{}
	}
	return &Bot{
		cfg:      cfg,
		services: services,
		logger:   logger,
		adminIDs: admins,
	}
}

func (b *Bot) Init() error {
	api, err := tgbotapi.NewBotAPI(b.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.api = api
	b.setSender(api)
	b.logger.Info("Telegram bot authorized on account %s", api.Self.UserName)
	return nil
}

func (b *Bot) setSender(s sender) {
	b.mu.Lock()
	b.sender = s
	b.mu.Unlock()
}

func (b *Bot) currentSender() sender {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sender
}

func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		msg := update.Message
		if msg == nil || !msg.IsCommand() {
			continue
		}
		if !b.isAdmin(msg.Chat.ID) {
			continue
		}
		b.sendMessage(msg.Chat.ID, b.handleCommand(ctx, msg.Command(), msg.CommandArguments()))
	}
}

func (b *Bot) Stop() {
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
}
