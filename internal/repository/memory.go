package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"slfo/internal/models"
)

// MemoryStore keeps every table in process memory. Link units of work are
// serialized by txMu; writes staged inside a unit of work become visible on commit.
type MemoryStore struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	codes    map[string]models.LinkCode
	links    map[string]models.IdentityLink
	commands []models.AdminCommand
	profiles map[int64]models.ProfileSnapshot
	guilds   map[string]models.GuildRoleConfig
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		codes:    make(map[string]models.LinkCode),
		links:    make(map[string]models.IdentityLink),
		profiles: make(map[int64]models.ProfileSnapshot),
		guilds:   make(map[string]models.GuildRoleConfig),
	}
}

func (m *MemoryStore) ReplaceLinkCode(_ context.Context, code models.LinkCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, c := range m.codes {
		if c.DiscordID == code.DiscordID {
			delete(m.codes, k)
		}
	}
	m.codes[code.Code] = code
	return nil
}

func (m *MemoryStore) WithinLinkTx(ctx context.Context, fn func(tx LinkTx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	tx := &memoryLinkTx{store: m}
	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, code := range tx.taken {
		delete(m.codes, code)
	}
	if tx.upsert != nil {
		m.links[tx.upsert.DiscordID] = *tx.upsert
	}
	return nil
}

func (m *MemoryStore) GetLinkByDiscord(_ context.Context, discordID string) (*models.IdentityLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.links[discordID]; ok {
		return &l, nil
	}
	return nil, nil
}

func (m *MemoryStore) GetLinkByRoblox(_ context.Context, robloxID int64) (*models.IdentityLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findLink(func(l models.IdentityLink) bool { return l.RobloxID == robloxID }), nil
}

func (m *MemoryStore) GetLinkByRobloxUsername(_ context.Context, username string) (*models.IdentityLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findLink(func(l models.IdentityLink) bool { return strings.EqualFold(l.RobloxUsername, username) }), nil
}

func (m *MemoryStore) findLink(match func(models.IdentityLink) bool) *models.IdentityLink {
	for _, l := range m.links {
		if match(l) {
			l := l
			return &l
		}
	}
	return nil
}

func (m *MemoryStore) DeleteLink(_ context.Context, discordID string) (*models.IdentityLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[discordID]
	if !ok {
		return nil, nil
	}
	delete(m.links, discordID)
	return &l, nil
}

func (m *MemoryStore) ListLinks(_ context.Context) ([]models.IdentityLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.IdentityLink, 0, len(m.links))
	for _, l := range m.links {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LinkedAt.After(out[j].LinkedAt) })
	return out, nil
}

func (m *MemoryStore) EnqueueCommand(_ context.Context, cmd models.AdminCommand) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd.ID = int64(len(m.commands) + 1)
	cmd.State = models.CommandPending
	m.commands = append(m.commands, cmd)
	return cmd.ID, nil
}

func (m *MemoryStore) PendingCommands(_ context.Context, limit int) ([]models.AdminCommand, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.AdminCommand
	for _, c := range m.commands {
		if c.State == models.CommandPending {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].QueuedAt.Equal(out[j].QueuedAt) {
			return out[i].QueuedAt.Before(out[j].QueuedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) AckCommands(_ context.Context, ids []int64, doneAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		c := m.command(id)
		if c == nil || c.State != models.CommandPending {
			continue
		}
		c.State = models.CommandDone
		t := doneAt
		c.DoneAt = &t
	}
	return nil
}

func (m *MemoryStore) ReportCommand(_ context.Context, id int64, success bool, resultText string, doneAt time.Time) (*models.AdminCommand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.command(id)
	if c == nil {
		return nil, nil
	}
	s, r, t := success, resultText, doneAt
	c.State = models.CommandDone
	c.Success = &s
	c.ResultText = &r
	c.DoneAt = &t
	out := *c
	return &out, nil
}

func (m *MemoryStore) ListCommands(_ context.Context, limit int) ([]models.AdminCommand, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.AdminCommand, 0, len(m.commands))
	for i := len(m.commands) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.commands[i])
	}
	return out, nil
}

// command returns a pointer into m.commands; callers hold mu.
func (m *MemoryStore) command(id int64) *models.AdminCommand {
	if id < 1 || id > int64(len(m.commands)) {
		return nil
	}
	return &m.commands[id-1]
}

func (m *MemoryStore) SaveProfile(_ context.Context, p models.ProfileSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.RobloxID] = p
	return nil
}

func (m *MemoryStore) GetProfile(_ context.Context, robloxID int64) (*models.ProfileSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.profiles[robloxID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *MemoryStore) ListProfiles(_ context.Context) ([]models.ProfileSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.ProfileSnapshot, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *MemoryStore) GetGuildSettings(_ context.Context, guildID string) (*models.GuildRoleConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.guilds[guildID]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *MemoryStore) SaveGuildSettings(_ context.Context, c models.GuildRoleConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guilds[c.GuildID] = c
	return nil
}

type memoryLinkTx struct {
	store  *MemoryStore
	taken  []string
	upsert *models.IdentityLink
}

func (t *memoryLinkTx) TakeLinkCode(_ context.Context, code string) (*models.LinkCode, error) {
	for _, c := range t.taken {
		if c == code {
			return nil, nil
		}
	}
	t.store.mu.RLock()
	lc, ok := t.store.codes[code]
	t.store.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	t.taken = append(t.taken, code)
	return &lc, nil
}

// LockIdentities is a no-op: the whole unit of work already holds txMu.
func (t *memoryLinkTx) LockIdentities(context.Context, string, int64) error {
	return nil
}

func (t *memoryLinkTx) GetLinkByDiscord(ctx context.Context, discordID string) (*models.IdentityLink, error) {
	if t.upsert != nil && t.upsert.DiscordID == discordID {
		l := *t.upsert
		return &l, nil
	}
	return t.store.GetLinkByDiscord(ctx, discordID)
}

func (t *memoryLinkTx) GetLinkByRoblox(ctx context.Context, robloxID int64) (*models.IdentityLink, error) {
	if t.upsert != nil && t.upsert.RobloxID == robloxID {
		l := *t.upsert
		return &l, nil
	}
	return t.store.GetLinkByRoblox(ctx, robloxID)
}

func (t *memoryLinkTx) UpsertLink(_ context.Context, link models.IdentityLink) error {
	t.upsert = &link
	return nil
}
