package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"slfo/internal/models"
)

type LinkPostgres struct {
	db *sql.DB
}

func NewLinkPostgres(db *sql.DB) *LinkPostgres {
	return &LinkPostgres{db: db}
}

// ReplaceLinkCode relies on the unique index over link_codes(discord_id),
// so concurrent issues for one owner leave a single row behind.
func (r *LinkPostgres) ReplaceLinkCode(ctx context.Context, code models.LinkCode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO link_codes (code, discord_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id) DO UPDATE
		SET code = EXCLUDED.code, created_at = EXCLUDED.created_at
	`, code.Code, code.DiscordID, code.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create link code: %w", err)
	}
	return nil
}

func (r *LinkPostgres) WithinLinkTx(ctx context.Context, fn func(tx LinkTx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = fn(&linkTxPostgres{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit link transaction: %w", err)
	}
	return nil
}

func (r *LinkPostgres) GetLinkByDiscord(ctx context.Context, discordID string) (*models.IdentityLink, error) {
	return scanLink(r.db.QueryRowContext(ctx, selectLink+` WHERE discord_id = $1`, discordID))
}

func (r *LinkPostgres) GetLinkByRoblox(ctx context.Context, robloxID int64) (*models.IdentityLink, error) {
	return scanLink(r.db.QueryRowContext(ctx, selectLink+` WHERE roblox_user_id = $1`, robloxID))
}

func (r *LinkPostgres) GetLinkByRobloxUsername(ctx context.Context, username string) (*models.IdentityLink, error) {
	return scanLink(r.db.QueryRowContext(ctx, selectLink+` WHERE lower(roblox_username) = lower($1)`, username))
}

func (r *LinkPostgres) DeleteLink(ctx context.Context, discordID string) (*models.IdentityLink, error) {
	return scanLink(r.db.QueryRowContext(ctx, `
		DELETE FROM links WHERE discord_id = $1
		RETURNING discord_id, roblox_user_id, roblox_username, linked_at
	`, discordID))
}

func (r *LinkPostgres) ListLinks(ctx context.Context) ([]models.IdentityLink, error) {
	rows, err := r.db.QueryContext(ctx, selectLink+` ORDER BY linked_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []models.IdentityLink
	for rows.Next() {
		var l models.IdentityLink
		if err := rows.Scan(&l.DiscordID, &l.RobloxID, &l.RobloxUsername, &l.LinkedAt); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

const selectLink = `SELECT discord_id, roblox_user_id, roblox_username, linked_at FROM links`

func scanLink(row *sql.Row) (*models.IdentityLink, error) {
	var l models.IdentityLink
	err := row.Scan(&l.DiscordID, &l.RobloxID, &l.RobloxUsername, &l.LinkedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return &l, nil
}

type linkTxPostgres struct {
	tx *sql.Tx
}

// TakeLinkCode deletes the code row and returns it. A concurrent redemption of
// the same code blocks on the row lock and then sees no row.
func (t *linkTxPostgres) TakeLinkCode(ctx context.Context, code string) (*models.LinkCode, error) {
	var lc models.LinkCode
	err := t.tx.QueryRowContext(ctx, `
		DELETE FROM link_codes WHERE code = $1
		RETURNING code, discord_id, created_at
	`, code).Scan(&lc.Code, &lc.DiscordID, &lc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to take link code: %w", err)
	}
	return &lc, nil
}

// LockIdentities takes transaction-scoped advisory locks on both identity keys.
// The discord key is always locked first so two redemptions cannot deadlock.
func (t *linkTxPostgres) LockIdentities(ctx context.Context, discordID string, robloxID int64) error {
	keys := []string{"discord:" + discordID, "roblox:" + strconv.FormatInt(robloxID, 10)}
	for _, key := range keys {
		if _, err := t.tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
			return fmt.Errorf("failed to lock %s: %w", key, err)
		}
	}
	return nil
}

func (t *linkTxPostgres) GetLinkByDiscord(ctx context.Context, discordID string) (*models.IdentityLink, error) {
	return scanLink(t.tx.QueryRowContext(ctx, selectLink+` WHERE discord_id = $1`, discordID))
}

func (t *linkTxPostgres) GetLinkByRoblox(ctx context.Context, robloxID int64) (*models.IdentityLink, error) {
	return scanLink(t.tx.QueryRowContext(ctx, selectLink+` WHERE roblox_user_id = $1`, robloxID))
}

func (t *linkTxPostgres) UpsertLink(ctx context.Context, link models.IdentityLink) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO links (discord_id, roblox_user_id, roblox_username, linked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (discord_id) DO UPDATE SET
			roblox_user_id = EXCLUDED.roblox_user_id,
			roblox_username = EXCLUDED.roblox_username,
			linked_at = EXCLUDED.linked_at
	`, link.DiscordID, link.RobloxID, link.RobloxUsername, link.LinkedAt)
	if err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}
	return nil
}
