package application

import (
	"context"
	"fmt"
	"strconv"

	"slfo/internal/models"
	"slfo/internal/repository"
)

type CommandService interface {
	Enqueue(ctx context.Context, targetID int64, kind string, amount int64) (int64, error)
	Pull(ctx context.Context, limit int) ([]models.AdminCommand, error)
	Ack(ctx context.Context, ids []int64) error
	Report(ctx context.Context, report models.CommandReport) (*models.AdminCommand, error)
	History(ctx context.Context, limit int) ([]models.AdminCommand, error)
}

type CommandServiceImpl struct {
	repo   repository.Command
	hooks  *Hooks
	clock  Clock
	logger Logger
}

func NewCommandServiceImpl(repo repository.Command, hooks *Hooks, clock Clock, logger Logger) *CommandServiceImpl {
	return &CommandServiceImpl{
		repo:   repo,
		hooks:  hooks,
		clock:  clock,
		logger: logger,
	}
}

func (s *CommandServiceImpl) Enqueue(ctx context.Context, targetID int64, kind string, amount int64) (int64, error) {
	if targetID <= 0 {
		return 0, ErrInvalidRobloxID
	}
	k, ok := models.ParseCommandKind(kind)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCommandKind, kind)
	}

	cmd := models.AdminCommand{
		TargetID: targetID,
		Kind:     k,
		Amount:   clampAmount(amount),
		QueuedAt: s.clock.Now(),
		State:    models.CommandPending,
	}
	id, err := s.repo.EnqueueCommand(ctx, cmd)
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue command: %w", err)
	}

	commandsEnqueued.WithLabelValues(string(k)).Inc()
	s.logger.Info("Queued command %d: %s %d for roblox %d", id, k, cmd.Amount, targetID)
	return id, nil
}

// Pull returns pending commands oldest first. The same command is returned by
// every pull until it is acked or reported.
func (s *CommandServiceImpl) Pull(ctx context.Context, limit int) ([]models.AdminCommand, error) {
	cmds, err := s.repo.PendingCommands(ctx, clampPullLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to pull commands: %w", err)
	}
	return cmds, nil
}

func (s *CommandServiceImpl) Ack(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.repo.AckCommands(ctx, ids, s.clock.Now()); err != nil {
		return fmt.Errorf("failed to ack commands: %w", err)
	}
	s.logger.Debug("Acked %d commands", len(ids))
	return nil
}

// Report stores the outcome of a command. Reporting the same id again
// overwrites the previous outcome and notifies observers again.
func (s *CommandServiceImpl) Report(ctx context.Context, report models.CommandReport) (*models.AdminCommand, error) {
	cmd, err := s.repo.ReportCommand(ctx, report.ID, report.Success, report.ResultText, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to report command: %w", err)
	}
	if cmd == nil {
		return nil, ErrCommandNotFound
	}

	commandsReported.WithLabelValues(strconv.FormatBool(report.Success)).Inc()
	s.logger.Info("Command %d reported success=%t: %s", cmd.ID, report.Success, report.ResultText)
	s.hooks.fireCommandReported(ctx, *cmd, report)
	return cmd, nil
}

func (s *CommandServiceImpl) History(ctx context.Context, limit int) ([]models.AdminCommand, error) {
	if limit <= 0 {
		limit = commandHistorySize
	}
	return s.repo.ListCommands(ctx, limit)
}
