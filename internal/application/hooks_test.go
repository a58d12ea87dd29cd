package application

import (
	"context"
	"testing"

	"slfo/internal/models"
)

type panickingObserver struct{}

func (panickingObserver) OnLinked(context.Context, models.IdentityLink) { panic("boom") }

type ctxObserver struct{ err error }

func (o *ctxObserver) OnLinked(ctx context.Context, _ models.IdentityLink) { o.err = ctx.Err() }

func TestHooks_PanicIsIsolated(t *testing.T) {
	h := NewHooks(nopLogger{})
	rec := &recorder{}
	h.Subscribe(panickingObserver{})
	h.Subscribe(rec)

	h.fireLinked(context.Background(), models.IdentityLink{DiscordID: "111"})

	if len(rec.linked) != 1 {
		t.Fatalf("observer after a panicking one must still run, got %d", len(rec.linked))
	}
}

func TestHooks_ObserversOutliveRequestContext(t *testing.T) {
	h := NewHooks(nopLogger{})
	o := &ctxObserver{}
	h.Subscribe(o)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.fireLinked(ctx, models.IdentityLink{})

	if o.err != nil {
		t.Fatalf("observer saw a cancelled context: %v", o.err)
	}
}

func TestHooks_SubscribeReportsMatches(t *testing.T) {
	h := NewHooks(nopLogger{})
	if h.Subscribe(struct{}{}) {
		t.Fatal("a value with no observer methods must not subscribe")
	}
	if !h.Subscribe(&recorder{}) {
		t.Fatal("recorder implements every observer")
	}
}
