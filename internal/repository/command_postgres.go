package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"slfo/internal/models"
)

type CommandPostgres struct {
	db *sql.DB
}

func NewCommandPostgres(db *sql.DB) *CommandPostgres {
	return &CommandPostgres{db: db}
}

const selectCommand = `
	SELECT id, roblox_user_id, action, amount, queued_at, state, success, result_text, done_at
	FROM admin_commands`

func (r *CommandPostgres) EnqueueCommand(ctx context.Context, cmd models.AdminCommand) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO admin_commands (roblox_user_id, action, amount, queued_at, state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, cmd.TargetID, string(cmd.Kind), cmd.Amount, cmd.QueuedAt, string(models.CommandPending)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue command: %w", err)
	}
	return id, nil
}

func (r *CommandPostgres) PendingCommands(ctx context.Context, limit int) ([]models.AdminCommand, error) {
	rows, err := r.db.QueryContext(ctx, selectCommand+`
		WHERE state = $1
		ORDER BY queued_at, id
		LIMIT $2
	`, string(models.CommandPending), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending commands: %w", err)
	}
	defer rows.Close()
	return scanCommands(rows)
}

func (r *CommandPostgres) AckCommands(ctx context.Context, ids []int64, doneAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_commands SET state = $1, done_at = $2
		WHERE id = ANY($3) AND state = $4
	`, string(models.CommandDone), doneAt, pq.Array(ids), string(models.CommandPending))
	if err != nil {
		return fmt.Errorf("failed to ack commands: %w", err)
	}
	return nil
}

func (r *CommandPostgres) ReportCommand(ctx context.Context, id int64, success bool, resultText string, doneAt time.Time) (*models.AdminCommand, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE admin_commands SET state = $2, success = $3, result_text = $4, done_at = $5
		WHERE id = $1
		RETURNING id, roblox_user_id, action, amount, queued_at, state, success, result_text, done_at
	`, id, string(models.CommandDone), success, resultText, doneAt)

	cmd, err := scanCommand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to report command: %w", err)
	}
	return cmd, nil
}

func (r *CommandPostgres) ListCommands(ctx context.Context, limit int) ([]models.AdminCommand, error) {
	rows, err := r.db.QueryContext(ctx, selectCommand+` ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list commands: %w", err)
	}
	defer rows.Close()
	return scanCommands(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommand(row rowScanner) (*models.AdminCommand, error) {
	var (
		c          models.AdminCommand
		kind       string
		state      string
		success    sql.NullBool
		resultText sql.NullString
		doneAt     sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.TargetID, &kind, &c.Amount, &c.QueuedAt, &state, &success, &resultText, &doneAt); err != nil {
		return nil, err
	}
	c.Kind = models.CommandKind(kind)
	c.State = models.CommandState(state)
	if success.Valid {
		c.Success = &success.Bool
	}
	if resultText.Valid {
		c.ResultText = &resultText.String
	}
	if doneAt.Valid {
		c.DoneAt = &doneAt.Time
	}
	return &c, nil
}

func scanCommands(rows *sql.Rows) ([]models.AdminCommand, error) {
	var out []models.AdminCommand
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
