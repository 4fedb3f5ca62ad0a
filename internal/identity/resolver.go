package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/logger"
	"github.com/greenlake-league/ledgerbot/internal/repository"
)

const (
	registrationCacheSize = 64
	registrationCacheTTL  = 10 * time.Minute
)

// Service resolves free-form team references to canonical IDs and maps
// teams to their registered owners for a season.
type Service interface {
	// Resolve turns a user-supplied team reference (nickname, city or
	// abbreviation, any case) into a canonical team ID.
	Resolve(reference string) (domain.TeamID, error)
	// OwnerOf returns the registration for a team in a season.
	OwnerOf(ctx context.Context, teamID domain.TeamID, season int) (*domain.Registration, error)
	Register(ctx context.Context, reg *domain.Registration) error
	Unregister(ctx context.Context, teamID domain.TeamID, season int) error
	ListRegistrations(ctx context.Context, season int) ([]domain.Registration, error)
}

type service struct {
	repo  repository.League
	cache *expirable.LRU[string, *domain.Registration]
}

// NewService creates a new identity service
func NewService(repo repository.League) Service {
	return &service{
		repo:  repo,
		cache: expirable.NewLRU[string, *domain.Registration](registrationCacheSize, nil, registrationCacheTTL),
	}
}

func (s *service) Resolve(reference string) (domain.TeamID, error) {
	key := strings.ToLower(strings.TrimSpace(reference))
	if key == "" {
		return "", fmt.Errorf("%w: empty reference", domain.ErrUnknownTeam)
	}
	teamID, ok := teamAliases[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownTeam, reference)
	}
	return teamID, nil
}

func (s *service) OwnerOf(ctx context.Context, teamID domain.TeamID, season int) (*domain.Registration, error) {
	log := logger.FromContext(ctx)

	key := cacheKey(teamID, season)
	if reg, ok := s.cache.Get(key); ok {
		return reg, nil
	}

	reg, err := s.repo.GetRegistration(ctx, teamID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to look up registration: %w", err)
	}
	if reg == nil {
		log.Debug("No registration for team", "team", teamID, "season", season)
		return nil, fmt.Errorf("%w: %s season %d", domain.ErrUnregistered, teamID, season)
	}

	s.cache.Add(key, reg)
	return reg, nil
}

func (s *service) Register(ctx context.Context, reg *domain.Registration) error {
	log := logger.FromContext(ctx)

	if _, ok := displayNames[reg.TeamID]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownTeam, reg.TeamID)
	}
	if reg.OwnerID == "" {
		return fmt.Errorf("%w: owner required", domain.ErrValidation)
	}

	if err := s.repo.UpsertRegistration(ctx, reg); err != nil {
		return fmt.Errorf("failed to register owner: %w", err)
	}

	s.cache.Remove(cacheKey(reg.TeamID, reg.Season))
	log.Info("Owner registered", "team", reg.TeamID, "owner", reg.OwnerID, "season", reg.Season)
	return nil
}

func (s *service) Unregister(ctx context.Context, teamID domain.TeamID, season int) error {
	if err := s.repo.DeleteRegistration(ctx, teamID, season); err != nil {
		return fmt.Errorf("failed to unregister owner: %w", err)
	}
	s.cache.Remove(cacheKey(teamID, season))
	return nil
}

func (s *service) ListRegistrations(ctx context.Context, season int) ([]domain.Registration, error) {
	regs, err := s.repo.ListRegistrations(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return regs, nil
}

func cacheKey(teamID domain.TeamID, season int) string {
	return fmt.Sprintf("%d:%s", season, teamID)
}
