package application

import (
	"context"
	"sync"

	"slfo/internal/models"
)

// LinkObserver is notified after a link has been committed.
type LinkObserver interface {
	OnLinked(ctx context.Context, link models.IdentityLink)
}

// UnlinkObserver is notified after a link has been removed.
type UnlinkObserver interface {
	OnUnlinked(ctx context.Context, link models.IdentityLink)
}

// ProfileObserver is notified after a profile snapshot of a linked account has been saved.
type ProfileObserver interface {
	OnProfileSaved(ctx context.Context, profile models.ProfileSnapshot, link models.IdentityLink)
}

// CommandObserver is notified after the game server reported a command outcome.
type CommandObserver interface {
	OnCommandReported(ctx context.Context, cmd models.AdminCommand, report models.CommandReport)
}

// Hooks fans post-commit events out to observers. Observers run synchronously,
// after the triggering write has committed, on a context that outlives the
// request. A panicking observer is logged and does not affect the others or
// the caller.
type Hooks struct {
	logger Logger

	mu       sync.RWMutex
	linked   []LinkObserver
	unlinked []UnlinkObserver
	profiles []ProfileObserver
	commands []CommandObserver
}

func NewHooks(logger Logger) *Hooks {
	return &Hooks{logger: logger}
}

// Subscribe registers o for every observer interface it implements and
// reports whether it implemented any.
func (h *Hooks) Subscribe(o any) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	ok := false
	if v, is := o.(LinkObserver); is {
		h.linked = append(h.linked, v)
		ok = true
	}
	if v, is := o.(UnlinkObserver); is {
		h.unlinked = append(h.unlinked, v)
		ok = true
	}
	if v, is := o.(ProfileObserver); is {
		h.profiles = append(h.profiles, v)
		ok = true
	}
	if v, is := o.(CommandObserver); is {
		h.commands = append(h.commands, v)
		ok = true
	}
	return ok
}

func (h *Hooks) fireLinked(ctx context.Context, link models.IdentityLink) {
	h.mu.RLock()
	obs := append([]LinkObserver(nil), h.linked...)
	h.mu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	for _, o := range obs {
		h.run("link", func() { o.OnLinked(ctx, link) })
	}
}

func (h *Hooks) fireUnlinked(ctx context.Context, link models.IdentityLink) {
	h.mu.RLock()
	obs := append([]UnlinkObserver(nil), h.unlinked...)
	h.mu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	for _, o := range obs {
		h.run("unlink", func() { o.OnUnlinked(ctx, link) })
	}
}

func (h *Hooks) fireProfileSaved(ctx context.Context, p models.ProfileSnapshot, link models.IdentityLink) {
	h.mu.RLock()
	obs := append([]ProfileObserver(nil), h.profiles...)
	h.mu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	for _, o := range obs {
		h.run("profile", func() { o.OnProfileSaved(ctx, p, link) })
	}
}

func (h *Hooks) fireCommandReported(ctx context.Context, cmd models.AdminCommand, report models.CommandReport) {
	h.mu.RLock()
	obs := append([]CommandObserver(nil), h.commands...)
	h.mu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	for _, o := range obs {
		h.run("command report", func() { o.OnCommandReported(ctx, cmd, report) })
	}
}

func (h *Hooks) run(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("%s observer panicked: %v", name, r)
		}
	}()
	fn()
}
