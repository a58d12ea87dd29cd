package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"slfo/internal/models"
)

var t0 = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// newTestRepositories returns the memory repository and, when TEST_POSTGRES_DSN
// is set, a freshly migrated and truncated Postgres repository.
func newTestRepositories(t *testing.T) map[string]*Repository {
	t.Helper()
	repos := map[string]*Repository{"memory": NewMemoryRepository()}

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		return repos
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := db.Exec(`TRUNCATE link_codes, links, admin_commands, player_profiles, guild_settings RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repos["postgres"] = NewRepository(db)
	return repos
}

func forEachRepository(t *testing.T, fn func(t *testing.T, r *Repository)) {
	for name, r := range newTestRepositories(t) {
		t.Run(name, func(t *testing.T) { fn(t, r) })
	}
}

func TestLinkCodes_ReplaceAndTake(t *testing.T) {
	forEachRepository(t, func(t *testing.T, r *Repository) {
		ctx := context.Background()

		if err := r.ReplaceLinkCode(ctx, models.LinkCode{Code: "OLD00001", DiscordID: "111", CreatedAt: t0}); err != nil {
			t.Fatalf("replace: %v", err)
		}
		if err := r.ReplaceLinkCode(ctx, models.LinkCode{Code: "NEW00001", DiscordID: "111", CreatedAt: t0}); err != nil {
			t.Fatalf("replace: %v", err)
		}

		var old, fresh *models.LinkCode
		err := r.WithinLinkTx(ctx, func(tx LinkTx) error {
			var err error
			if old, err = tx.TakeLinkCode(ctx, "OLD00001"); err != nil {
				return err
			}
			fresh, err = tx.TakeLinkCode(ctx, "NEW00001")
			return err
		})
		if err != nil {
			t.Fatalf("tx: %v", err)
		}
		if old != nil {
			t.Error("replaced code must be gone")
		}
		if fresh == nil || fresh.DiscordID != "111" || !fresh.CreatedAt.Equal(t0) {
			t.Fatalf("unexpected code: %+v", fresh)
		}

		// Taken codes stay taken after commit.
		_ = r.WithinLinkTx(ctx, func(tx LinkTx) error {
			again, err := tx.TakeLinkCode(ctx, "NEW00001")
			if err != nil {
				return err
			}
			if again != nil {
				t.Error("code must be single use")
			}
			return nil
		})
	})
}

func TestWithinLinkTx_RollbackKeepsCode(t *testing.T) {
	forEachRepository(t, func(t *testing.T, r *Repository) {
		ctx := context.Background()
		_ = r.ReplaceLinkCode(ctx, models.LinkCode{Code: "ROLLBACK", DiscordID: "111", CreatedAt: t0})

		boom := errors.New("boom")
		err := r.WithinLinkTx(ctx, func(tx LinkTx) error {
			if _, err := tx.TakeLinkCode(ctx, "ROLLBACK"); err != nil {
				return err
			}
			if err := tx.UpsertLink(ctx, models.IdentityLink{DiscordID: "111", RobloxID: 555, LinkedAt: t0}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}

		if l, _ := r.GetLinkByDiscord(ctx, "111"); l != nil {
			t.Error("link must not survive rollback")
		}
		_ = r.WithinLinkTx(ctx, func(tx LinkTx) error {
			c, err := tx.TakeLinkCode(ctx, "ROLLBACK")
			if err != nil {
				return err
			}
			if c == nil {
				t.Error("code must survive rollback")
			}
			return nil
		})
	})
}

func TestLinkCodes_ConcurrentReplaceKeepsOneCode(t *testing.T) {
	forEachRepository(t, func(t *testing.T, r *Repository) {
		ctx := context.Background()
		const n = 16

		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- r.ReplaceLinkCode(ctx, models.LinkCode{Code: fmt.Sprintf("RACE%04d", i), DiscordID: "111", CreatedAt: t0})
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("replace: %v", err)
			}
		}

		live := 0
		err := r.WithinLinkTx(ctx, func(tx LinkTx) error {
			for i := 0; i < n; i++ {
				c, err := tx.TakeLinkCode(ctx, fmt.Sprintf("RACE%04d", i))
				if err != nil {
					return err
				}
				if c != nil {
					live++
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx: %v", err)
		}
		if live != 1 {
			t.Fatalf("owner must hold exactly one code, got %d", live)
		}
	})
}

func TestLinks_LookupsAndDelete(t *testing.T) {
	forEachRepository(t, func(t *testing.T, r *Repository) {
		ctx := context.Background()
		err := r.WithinLinkTx(ctx, func(tx LinkTx) error {
			return tx.UpsertLink(ctx, models.IdentityLink{DiscordID: "111", RobloxID: 555, RobloxUsername: "Builder", LinkedAt: t0})
		})
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}

		if l, _ := r.GetLinkByRoblox(ctx, 555); l == nil || l.DiscordID != "111" {
			t.Fatalf("by roblox: %+v", l)
		}
		if l, _ := r.GetLinkByRobloxUsername(ctx, "bUiLdEr"); l == nil || l.RobloxID != 555 {
			t.Fatalf("by username must be case-insensitive: %+v", l)
		}
		if l, _ := r.GetLinkByDiscord(ctx, "999"); l != nil {
			t.Fatalf("unknown discord id: %+v", l)
		}

		links, err := r.ListLinks(ctx)
		if err != nil || len(links) != 1 {
			t.Fatalf("list: %v %v", links, err)
		}

		removed, err := r.DeleteLink(ctx, "111")
		if err != nil || removed == nil || removed.RobloxID != 555 {
			t.Fatalf("delete: %+v %v", removed, err)
		}
		removed, err = r.DeleteLink(ctx, "111")
		if err != nil || removed != nil {
			t.Fatalf("second delete must report nothing: %+v %v", removed, err)
		}
	})
}

func TestCommands_Lifecycle(t *testing.T) {
	forEachRepository(t, func(t *testing.T, r *Repository) {
		ctx := context.Background()

		id1, err := r.EnqueueCommand(ctx, models.AdminCommand{TargetID: 555, Kind: models.CommandBankAdd, Amount: 100, QueuedAt: t0})
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
		id2, _ := r.EnqueueCommand(ctx, models.AdminCommand{TargetID: 556, Kind: models.CommandHandRemove, Amount: 5, QueuedAt: t0})
		id3, _ := r.EnqueueCommand(ctx, models.AdminCommand{TargetID: 557, Kind: models.CommandBankRemove, Amount: 1, QueuedAt: t0.Add(time.Second)})
		if !(id1 < id2 && id2 < id3) {
			t.Fatalf("ids must be increasing: %d %d %d", id1, id2, id3)
		}

		pending, _ := r.PendingCommands(ctx, 2)
		if len(pending) != 2 || pending[0].ID != id1 || pending[1].ID != id2 {
			t.Fatalf("pending must be FIFO and limited: %+v", pending)
		}

		if err := r.AckCommands(ctx, []int64{id1, 9999}, t0.Add(time.Minute)); err != nil {
			t.Fatalf("ack: %v", err)
		}
		pending, _ = r.PendingCommands(ctx, 10)
		if len(pending) != 2 || pending[0].ID != id2 {
			t.Fatalf("acked command must leave the queue: %+v", pending)
		}

		cmd, err := r.ReportCommand(ctx, id2, false, "first", t0.Add(2*time.Minute))
		if err != nil || cmd == nil {
			t.Fatalf("report: %+v %v", cmd, err)
		}
		cmd, _ = r.ReportCommand(ctx, id2, true, "second", t0.Add(3*time.Minute))
		if cmd.State != models.CommandDone || cmd.Success == nil || !*cmd.Success || *cmd.ResultText != "second" {
			t.Fatalf("last report must win: %+v", cmd)
		}
		if cmd.TargetID != 556 || cmd.Kind != models.CommandHandRemove || cmd.Amount != 5 {
			t.Fatalf("report must return the stored command: %+v", cmd)
		}

		missing, err := r.ReportCommand(ctx, 9999, true, "x", t0)
		if err != nil || missing != nil {
			t.Fatalf("unknown id: %+v %v", missing, err)
		}

		// Acking a reported command keeps its outcome.
		_ = r.AckCommands(ctx, []int64{id2}, t0.Add(time.Hour))
		all, _ := r.ListCommands(ctx, 10)
		if len(all) != 3 {
			t.Fatalf("commands are never deleted: %d", len(all))
		}
		for _, c := range all {
			if c.ID == id2 && (c.ResultText == nil || *c.ResultText != "second") {
				t.Fatalf("ack overwrote the report: %+v", c)
			}
		}
	})
}

func TestProfiles_LastWriteWins(t *testing.T) {
	forEachRepository(t, func(t *testing.T, r *Repository) {
		ctx := context.Background()
		p := models.ProfileSnapshot{
			RobloxID:       555,
			RobloxUsername: "Builder",
			Stats:          map[string]int64{models.StatPoints: 10},
			Items:          map[string]int64{"Katana": 2},
			VIP:            true,
			UpdatedAt:      t0,
		}
		if err := r.SaveProfile(ctx, p); err != nil {
			t.Fatalf("save: %v", err)
		}
		p.Stats = map[string]int64{models.StatPoints: 20}
		p.VIP = false
		p.UpdatedAt = t0.Add(time.Minute)
		_ = r.SaveProfile(ctx, p)

		got, err := r.GetProfile(ctx, 555)
		if err != nil || got == nil {
			t.Fatalf("get: %+v %v", got, err)
		}
		if got.Stat(models.StatPoints) != 20 || got.VIP || got.Items["Katana"] != 2 {
			t.Fatalf("unexpected profile: %+v", got)
		}
		if !got.UpdatedAt.Equal(t0.Add(time.Minute)) {
			t.Fatalf("UpdatedAt = %s", got.UpdatedAt)
		}

		if none, _ := r.GetProfile(ctx, 1); none != nil {
			t.Fatalf("unknown profile: %+v", none)
		}
		list, _ := r.ListProfiles(ctx)
		if len(list) != 1 {
			t.Fatalf("list: %+v", list)
		}
	})
}

func TestGuildSettings_SaveAndGet(t *testing.T) {
	forEachRepository(t, func(t *testing.T, r *Repository) {
		ctx := context.Background()
		if cfg, _ := r.GetGuildSettings(ctx, "g1"); cfg != nil {
			t.Fatalf("expected no row: %+v", cfg)
		}
		want := models.GuildRoleConfig{GuildID: "g1", LinkedRoleID: "r1", AdminLogChannelID: "c1", UpdatedAt: t0}
		if err := r.SaveGuildSettings(ctx, want); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, _ := r.GetGuildSettings(ctx, "g1")
		if got == nil || got.LinkedRoleID != "r1" || got.AdminLogChannelID != "c1" || got.VIPRoleID != "" {
			t.Fatalf("unexpected settings: %+v", got)
		}
	})
}

func TestMemoryStore_ConcurrentTxAreSerialized(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	linked := 0
	var mu sync.Mutex
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.WithinLinkTx(ctx, func(tx LinkTx) error {
				existing, err := tx.GetLinkByRoblox(ctx, 555)
				if err != nil || existing != nil {
					return err
				}
				mu.Lock()
				linked++
				mu.Unlock()
				return tx.UpsertLink(ctx, models.IdentityLink{DiscordID: string(rune('a' + i)), RobloxID: 555, LinkedAt: t0})
			})
		}(i)
	}
	wg.Wait()

	if linked != 1 {
		t.Fatalf("exactly one unit of work may observe the free roblox id, got %d", linked)
	}
}
