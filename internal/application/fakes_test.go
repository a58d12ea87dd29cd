package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"slfo/internal/models"
	"slfo/internal/repository"
)

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type roleCall struct {
	op, userID, roleID, reason string
}

// fakePlatform is an in-memory guild with configurable failures.
type fakePlatform struct {
	mu sync.Mutex

	ready     bool
	guildID   string
	roles     map[string]bool
	members   map[string][]string
	failAdd   map[string]error
	memberErr error

	calls []roleCall
}

func newFakePlatform(guildID string, roles ...string) *fakePlatform {
	p := &fakePlatform{
		ready:   true,
		guildID: guildID,
		roles:   map[string]bool{},
		members: map[string][]string{},
		failAdd: map[string]error{},
	}
	for _, r := range roles {
		p.roles[r] = true
	}
	return p
}

func (p *fakePlatform) join(userID string, roles ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.members[userID] = append([]string(nil), roles...)
}

func (p *fakePlatform) memberRoles(userID string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.members[userID]...)
}

func (p *fakePlatform) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *fakePlatform) Ready() bool { return p.ready }

func (p *fakePlatform) GuildExists(_ context.Context, guildID string) (bool, error) {
	return guildID == p.guildID, nil
}

func (p *fakePlatform) Member(_ context.Context, _, userID string) (*Member, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.memberErr != nil {
		return nil, p.memberErr
	}
	roles, ok := p.members[userID]
	if !ok {
		return nil, nil
	}
	return &Member{UserID: userID, Roles: append([]string(nil), roles...)}, nil
}

func (p *fakePlatform) RoleExists(_ context.Context, _, roleID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.roles[roleID], nil
}

func (p *fakePlatform) AddRole(_ context.Context, _, userID, roleID, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, roleCall{"add", userID, roleID, reason})
	if err := p.failAdd[roleID]; err != nil {
		return err
	}
	p.members[userID] = append(p.members[userID], roleID)
	return nil
}

func (p *fakePlatform) RemoveRole(_ context.Context, _, userID, roleID, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, roleCall{"remove", userID, roleID, reason})
	kept := p.members[userID][:0]
	for _, r := range p.members[userID] {
		if r != roleID {
			kept = append(kept, r)
		}
	}
	p.members[userID] = kept
	return nil
}

// recorder captures every hook it is subscribed to.
type recorder struct {
	mu       sync.Mutex
	linked   []models.IdentityLink
	unlinked []models.IdentityLink
	profiles []models.ProfileSnapshot
	reports  []models.CommandReport
	cmds     []models.AdminCommand
}

func (r *recorder) OnLinked(_ context.Context, l models.IdentityLink) {
	r.mu.Lock()
	r.linked = append(r.linked, l)
	r.mu.Unlock()
}

func (r *recorder) OnUnlinked(_ context.Context, l models.IdentityLink) {
	r.mu.Lock()
	r.unlinked = append(r.unlinked, l)
	r.mu.Unlock()
}

func (r *recorder) OnProfileSaved(_ context.Context, p models.ProfileSnapshot, _ models.IdentityLink) {
	r.mu.Lock()
	r.profiles = append(r.profiles, p)
	r.mu.Unlock()
}

func (r *recorder) OnCommandReported(_ context.Context, cmd models.AdminCommand, rep models.CommandReport) {
	r.mu.Lock()
	r.cmds = append(r.cmds, cmd)
	r.reports = append(r.reports, rep)
	r.mu.Unlock()
}

// failingLinks makes every unit of work fail as a storage error would.
type failingLinks struct {
	repository.Link
}

var errStorage = errors.New("storage down")

func (failingLinks) WithinLinkTx(context.Context, func(tx repository.LinkTx) error) error {
	return errStorage
}

type testEnv struct {
	repos    *repository.Repository
	clock    *fakeClock
	hooks    *Hooks
	rec      *recorder
	links    *LinkServiceImpl
	commands *CommandServiceImpl
	profiles *ProfileServiceImpl
}

func newTestEnv() *testEnv {
	repos := repository.NewMemoryRepository()
	clock := newFakeClock()
	hooks := NewHooks(nopLogger{})
	rec := &recorder{}
	hooks.Subscribe(rec)

	return &testEnv{
		repos:    repos,
		clock:    clock,
		hooks:    hooks,
		rec:      rec,
		links:    NewLinkServiceImpl(repos.LinkCode, repos.Link, hooks, clock, DefaultCodeTTL, nopLogger{}),
		commands: NewCommandServiceImpl(repos.Command, hooks, clock, nopLogger{}),
		profiles: NewProfileServiceImpl(repos.Profile, repos.Link, hooks, clock, nopLogger{}),
	}
}

// fixedCodes makes Issue hand out the given codes in order.
func fixedCodes(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
}
