package telegram

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"slfo/internal/application"
	"slfo/internal/models"
	"slfo/internal/repository"
)

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func newTestBot(admins ...int64) (*Bot, *fakeSender) {
	svc := application.NewService(repository.NewMemoryRepository(), nil, application.Config{CodeTTL: time.Minute}, nopLogger{})
	b := NewBot(Config{Token: "t", AdminChatIDs: admins}, svc, nopLogger{})
	s := &fakeSender{}
	b.setSender(s)
	return b, s
}

func TestConfigEnabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Fatal("empty token must disable the bot")
	}
	if !(Config{Token: "x"}).Enabled() {
		t.Fatal("token must enable the bot")
	}
}

func TestHandleCommand(t *testing.T) {
	b, _ := newTestBot(1)
	ctx := context.Background()

	lc, _ := b.services.LinkService.Issue(ctx, "111")
	if _, err := b.services.LinkService.Redeem(ctx, lc.Code, 555, "Builder"); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	tests := []struct {
		name    string
		command string
		args    string
		want    string
	}{
		{"help", "help", "", "/pending"},
		{"no pending", "pending", "", "No pending actions."},
		{"whois usage", "whois", " ", "Usage: /whois"},
		{"whois unknown", "whois", "ghost", "Not linked."},
		{"whois by name", "whois", "builder", "Builder (555) is linked to Discord 111"},
		{"links", "links", "", "Linked accounts: 1"},
		{"unknown", "teleport", "", "Unknown command."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.handleCommand(ctx, tt.command, tt.args)
			if !strings.Contains(got, tt.want) {
				t.Fatalf("got %q, want it to contain %q", got, tt.want)
			}
		})
	}

	if _, err := b.services.CommandService.Enqueue(ctx, 555, "BANK_ADD", 100); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	got := b.handleCommand(ctx, "pending", "")
	if !strings.HasPrefix(got, "Pending actions (1):\n#1 BANK_ADD 100 -> 555") {
		t.Fatalf("unexpected pending text: %q", got)
	}
}

func TestNotifierBroadcastsToAdmins(t *testing.T) {
	b, s := newTestBot(10, 20)
	ctx := context.Background()

	b.OnLinked(ctx, models.IdentityLink{DiscordID: "111", RobloxID: 555, RobloxUsername: "Builder"})
	if len(s.sent) != 2 {
		t.Fatalf("expected one message per admin chat, got %d", len(s.sent))
	}
	ids := []int64{s.sent[0].ChatID, s.sent[1].ChatID}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if ids[0] != 10 || ids[1] != 20 {
		t.Fatalf("unexpected recipients: %v", ids)
	}
	if !strings.Contains(s.sent[0].Text, "Roblox Builder (555)") {
		t.Fatalf("unexpected text: %q", s.sent[0].Text)
	}

	s.sent = nil
	b.OnCommandReported(ctx, models.AdminCommand{ID: 3, Kind: models.CommandBankAdd, Amount: 5, TargetID: 555},
		models.CommandReport{ID: 3, Success: false, ResultText: "player offline"})
	if len(s.sent) != 2 || s.sent[0].Text != "Action #3 BANK_ADD 5 for 555 ❌ failed\nplayer offline" {
		t.Fatalf("unexpected report message: %+v", s.sent)
	}
}

func TestSendFailureIsLoggedOnly(t *testing.T) {
	b, s := newTestBot(10)
	s.err = errors.New("forbidden")

	b.OnUnlinked(context.Background(), models.IdentityLink{DiscordID: "111"})
	if len(s.sent) != 1 {
		t.Fatalf("expected one attempt, got %d", len(s.sent))
	}
}

func TestIsAdmin(t *testing.T) {
	b, _ := newTestBot(10)
	if !b.isAdmin(10) || b.isAdmin(11) {
		t.Fatal("only configured chats are admins")
	}
}

func TestTruncateMessage(t *testing.T) {
	short := "hello"
	if truncateMessage(short) != short {
		t.Fatal("short message changed")
	}
	long := strings.Repeat("é", maxMessageLength+10)
	got := []rune(truncateMessage(long))
	if len(got) != maxMessageLength || string(got[len(got)-3:]) != "..." {
		t.Fatalf("unexpected truncation length %d", len(got))
	}
}

func TestBroadcastWhileSenderIsSet(t *testing.T) {
	svc := application.NewService(repository.NewMemoryRepository(), nil, application.Config{CodeTTL: time.Minute}, nopLogger{})
	b := NewBot(Config{Token: "t", AdminChatIDs: []int64{1}}, svc, nopLogger{})
	s := &fakeSender{}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.broadcast("hello")
		}()
	}
	b.setSender(s)
	wg.Wait()

	b.broadcast("after")
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.sent); n == 0 || s.sent[n-1].Text != "after" {
		t.Fatalf("unexpected sends: %+v", s.sent)
	}
}
