package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"slfo/internal/models"
	"slfo/internal/repository"
)

type LinkService interface {
	Issue(ctx context.Context, discordID string) (*models.LinkCode, error)
	Redeem(ctx context.Context, code string, robloxID int64, robloxUsername string) (*models.IdentityLink, error)
	Unlink(ctx context.Context, discordID string) (bool, error)

	LinkByDiscord(ctx context.Context, discordID string) (*models.IdentityLink, error)
	LinkByRoblox(ctx context.Context, robloxID int64) (*models.IdentityLink, error)
	LinkByRobloxUsername(ctx context.Context, username string) (*models.IdentityLink, error)
	ResolvePlayer(ctx context.Context, query string) (*models.IdentityLink, error)
	ListLinks(ctx context.Context) ([]models.IdentityLink, error)

	CodeTTL() time.Duration
}

type LinkServiceImpl struct {
	codes  repository.LinkCode
	links  repository.Link
	hooks  *Hooks
	clock  Clock
	ttl    time.Duration
	logger Logger

	newCode func() (string, error)
}

func NewLinkServiceImpl(codes repository.LinkCode, links repository.Link, hooks *Hooks, clock Clock, ttl time.Duration, logger Logger) *LinkServiceImpl {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &LinkServiceImpl{
		codes:  codes,
		links:  links,
		hooks:  hooks,
		clock:  clock,
		ttl:    ttl,
		logger: logger,

		newCode: generateCode,
	}
}

func (s *LinkServiceImpl) CodeTTL() time.Duration { return s.ttl }

// Issue mints a fresh code for discordID. Any code the owner had not redeemed yet stops working.
func (s *LinkServiceImpl) Issue(ctx context.Context, discordID string) (*models.LinkCode, error) {
	existing, err := s.links.GetLinkByDiscord(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyLinkedDiscord
	}

	code, err := s.newCode()
	if err != nil {
		return nil, err
	}

	lc := models.LinkCode{
		Code:      code,
		DiscordID: discordID,
		CreatedAt: s.clock.Now(),
	}
	if err := s.codes.ReplaceLinkCode(ctx, lc); err != nil {
		return nil, fmt.Errorf("failed to store link code: %w", err)
	}

	linkCodesIssued.Inc()
	s.logger.Info("Issued link code for discord user %s", discordID)
	return &lc, nil
}

// Redeem consumes code on behalf of the Roblox account robloxID. The code is
// deleted whatever the outcome; only storage failures leave it in place.
func (s *LinkServiceImpl) Redeem(ctx context.Context, code string, robloxID int64, robloxUsername string) (*models.IdentityLink, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrMissingCode
	}
	if robloxID <= 0 {
		return nil, ErrInvalidRobloxID
	}

	var (
		link    *models.IdentityLink
		outcome error
	)
	err := s.links.WithinLinkTx(ctx, func(tx repository.LinkTx) error {
		lc, err := tx.TakeLinkCode(ctx, code)
		if err != nil {
			return err
		}
		if lc == nil {
			outcome = ErrInvalidCode
			return nil
		}

		now := s.clock.Now()
		if now.Sub(lc.CreatedAt) > s.ttl {
			outcome = ErrInvalidCode
			return nil
		}

		if err := tx.LockIdentities(ctx, lc.DiscordID, robloxID); err != nil {
			return err
		}

		byDiscord, err := tx.GetLinkByDiscord(ctx, lc.DiscordID)
		if err != nil {
			return err
		}
		if byDiscord != nil {
			outcome = ErrAlreadyLinkedDiscord
			return nil
		}

		byRoblox, err := tx.GetLinkByRoblox(ctx, robloxID)
		if err != nil {
			return err
		}
		if byRoblox != nil && byRoblox.DiscordID != lc.DiscordID {
			outcome = ErrAlreadyLinkedRoblox
			return nil
		}

		l := models.IdentityLink{
			DiscordID:      lc.DiscordID,
			RobloxID:       robloxID,
			RobloxUsername: strings.TrimSpace(robloxUsername),
			LinkedAt:       now,
		}
		if err := tx.UpsertLink(ctx, l); err != nil {
			return err
		}
		link = &l
		return nil
	})
	if err != nil {
		linkRedemptions.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to redeem link code: %w", err)
	}
	if outcome != nil {
		linkRedemptions.WithLabelValues(redeemLabel(outcome)).Inc()
		s.logger.Info("Link code %s rejected for roblox %d: %v", code, robloxID, outcome)
		return nil, outcome
	}

	linkRedemptions.WithLabelValues("linked").Inc()
	s.logger.Info("Linked discord %s to roblox %d (%s)", link.DiscordID, link.RobloxID, link.RobloxUsername)
	s.hooks.fireLinked(ctx, *link)
	return link, nil
}

func (s *LinkServiceImpl) Unlink(ctx context.Context, discordID string) (bool, error) {
	removed, err := s.links.DeleteLink(ctx, discordID)
	if err != nil {
		return false, err
	}
	if removed == nil {
		return false, nil
	}

	s.logger.Info("Unlinked discord %s from roblox %d", discordID, removed.RobloxID)
	s.hooks.fireUnlinked(ctx, *removed)
	return true, nil
}

func (s *LinkServiceImpl) LinkByDiscord(ctx context.Context, discordID string) (*models.IdentityLink, error) {
	return s.links.GetLinkByDiscord(ctx, discordID)
}

func (s *LinkServiceImpl) LinkByRoblox(ctx context.Context, robloxID int64) (*models.IdentityLink, error) {
	return s.links.GetLinkByRoblox(ctx, robloxID)
}

func (s *LinkServiceImpl) LinkByRobloxUsername(ctx context.Context, username string) (*models.IdentityLink, error) {
	return s.links.GetLinkByRobloxUsername(ctx, strings.TrimSpace(username))
}

// ResolvePlayer looks a player up by Roblox id when query is all digits and by
// username otherwise. It returns ErrPlayerNotLinked when nothing matches.
func (s *LinkServiceImpl) ResolvePlayer(ctx context.Context, query string) (*models.IdentityLink, error) {
	query = strings.TrimSpace(query)

	var (
		link *models.IdentityLink
		err  error
	)
	if isNumericID(query) {
		id, perr := strconv.ParseInt(query, 10, 64)
		if perr != nil {
			return nil, ErrPlayerNotLinked
		}
		link, err = s.links.GetLinkByRoblox(ctx, id)
	} else {
		link, err = s.links.GetLinkByRobloxUsername(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrPlayerNotLinked
	}
	return link, nil
}

func (s *LinkServiceImpl) ListLinks(ctx context.Context) ([]models.IdentityLink, error) {
	return s.links.ListLinks(ctx)
}

func redeemLabel(err error) string {
	switch err {
	case ErrInvalidCode:
		return "invalid_code"
	case ErrAlreadyLinkedDiscord:
		return "already_linked_discord"
	case ErrAlreadyLinkedRoblox:
		return "already_linked_roblox"
	default:
		return "error"
	}
}
