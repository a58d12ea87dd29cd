package application

import (
	"context"
	"fmt"
	"strings"

	"slfo/internal/models"
	"slfo/internal/repository"
)

type ProfileService interface {
	Save(ctx context.Context, p models.ProfileSnapshot) error
	Get(ctx context.Context, robloxID int64) (*models.ProfileSnapshot, error)
	List(ctx context.Context) ([]models.ProfileSnapshot, error)
}

type ProfileServiceImpl struct {
	repo   repository.Profile
	links  repository.Link
	hooks  *Hooks
	clock  Clock
	logger Logger
}

func NewProfileServiceImpl(repo repository.Profile, links repository.Link, hooks *Hooks, clock Clock, logger Logger) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		repo:   repo,
		links:  links,
		hooks:  hooks,
		clock:  clock,
		logger: logger,
	}
}

// Save replaces the stored snapshot for p.RobloxID. If the account is linked,
// profile observers run once the snapshot is stored.
func (s *ProfileServiceImpl) Save(ctx context.Context, p models.ProfileSnapshot) error {
	if p.RobloxID <= 0 {
		return ErrInvalidRobloxID
	}

	p.RobloxUsername = strings.TrimSpace(p.RobloxUsername)
	if p.Stats == nil {
		p.Stats = map[string]int64{}
	}
	if p.Items == nil {
		p.Items = map[string]int64{}
	}
	p.UpdatedAt = s.clock.Now()

	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	profilesSaved.Inc()

	link, err := s.links.GetLinkByRoblox(ctx, p.RobloxID)
	if err != nil {
		// The snapshot is stored; only the follow-up sync is lost.
		s.logger.Warn("Failed to look up link for roblox %d: %v", p.RobloxID, err)
		return nil
	}
	if link == nil {
		return nil
	}

	s.hooks.fireProfileSaved(ctx, p, *link)
	return nil
}

func (s *ProfileServiceImpl) Get(ctx context.Context, robloxID int64) (*models.ProfileSnapshot, error) {
	return s.repo.GetProfile(ctx, robloxID)
}

func (s *ProfileServiceImpl) List(ctx context.Context) ([]models.ProfileSnapshot, error) {
	return s.repo.ListProfiles(ctx)
}
