package repository

import (
	"context"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// League defines the interface for registration, seeding and playoff
// result data. Registrations are written by the registration commands
// and read by the identity resolver; seedings and playoff winners feed
// the payout generator.
type League interface {
	GetRegistration(ctx context.Context, teamID domain.TeamID, season int) (*domain.Registration, error)
	ListRegistrations(ctx context.Context, season int) ([]domain.Registration, error)
	UpsertRegistration(ctx context.Context, reg *domain.Registration) error
	DeleteRegistration(ctx context.Context, teamID domain.TeamID, season int) error

	ListSeedings(ctx context.Context, season int, conference domain.Conference) ([]domain.Seeding, error)
	UpsertSeeding(ctx context.Context, seeding *domain.Seeding) error

	ListPlayoffWinners(ctx context.Context, season int, conference domain.Conference) ([]domain.PlayoffWinner, error)
	RecordPlayoffWinner(ctx context.Context, winner *domain.PlayoffWinner) error
}
