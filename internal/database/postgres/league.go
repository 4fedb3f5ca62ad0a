package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// LeagueRepository implements registration, seeding and playoff result
// data access for PostgreSQL
type LeagueRepository struct {
	db *pgxpool.Pool
}

// NewLeagueRepository creates a new LeagueRepository
func NewLeagueRepository(db *pgxpool.Pool) *LeagueRepository {
	return &LeagueRepository{db: db}
}

// GetRegistration returns the registration for a team in a season, or nil
func (r *LeagueRepository) GetRegistration(ctx context.Context, teamID domain.TeamID, season int) (*domain.Registration, error) {
	row := r.db.QueryRow(ctx,
		`SELECT season, team_id, owner_id, platform_user_id FROM registrations WHERE season = $1 AND team_id = $2`,
		season, string(teamID))

	var reg domain.Registration
	var platformUserID *string
	if err := row.Scan(&reg.Season, &reg.TeamID, &reg.OwnerID, &platformUserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	reg.PlatformUserID = deref(platformUserID)
	return &reg, nil
}

// ListRegistrations returns all registrations for a season
func (r *LeagueRepository) ListRegistrations(ctx context.Context, season int) ([]domain.Registration, error) {
	rows, err := r.db.Query(ctx,
		`SELECT season, team_id, owner_id, platform_user_id FROM registrations WHERE season = $1 ORDER BY team_id`,
		season)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var regs []domain.Registration
	for rows.Next() {
		var reg domain.Registration
		var platformUserID *string
		if err := rows.Scan(&reg.Season, &reg.TeamID, &reg.OwnerID, &platformUserID); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		reg.PlatformUserID = deref(platformUserID)
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// UpsertRegistration writes a registration, replacing any prior owner
func (r *LeagueRepository) UpsertRegistration(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (season, team_id, owner_id, platform_user_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (season, team_id) DO UPDATE
		SET owner_id = EXCLUDED.owner_id, platform_user_id = EXCLUDED.platform_user_id
	`
	_, err := r.db.Exec(ctx, query, reg.Season, string(reg.TeamID), reg.OwnerID, nullString(reg.PlatformUserID))
	if err != nil {
		return fmt.Errorf("failed to upsert registration: %w", err)
	}
	return nil
}

// DeleteRegistration removes a team's registration for a season
func (r *LeagueRepository) DeleteRegistration(ctx context.Context, teamID domain.TeamID, season int) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM registrations WHERE season = $1 AND team_id = $2`, season, string(teamID))
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return nil
}

// ListSeedings returns a conference's seedings for a season, seed order
func (r *LeagueRepository) ListSeedings(ctx context.Context, season int, conference domain.Conference) ([]domain.Seeding, error) {
	rows, err := r.db.Query(ctx,
		`SELECT season, conference, seed, team_id, owner_id, cpu FROM seedings WHERE season = $1 AND conference = $2 ORDER BY seed`,
		season, string(conference))
	if err != nil {
		return nil, fmt.Errorf("failed to list seedings: %w", err)
	}
	defer rows.Close()

	var seeds []domain.Seeding
	for rows.Next() {
		var s domain.Seeding
		var ownerID *string
		if err := rows.Scan(&s.Season, &s.Conference, &s.Seed, &s.TeamID, &ownerID, &s.CPU); err != nil {
			return nil, fmt.Errorf("failed to scan seeding: %w", err)
		}
		s.OwnerID = deref(ownerID)
		seeds = append(seeds, s)
	}
	return seeds, rows.Err()
}

// UpsertSeeding writes one seed slot
func (r *LeagueRepository) UpsertSeeding(ctx context.Context, seeding *domain.Seeding) error {
	query := `
		INSERT INTO seedings (season, conference, seed, team_id, owner_id, cpu)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (season, conference, seed) DO UPDATE
		SET team_id = EXCLUDED.team_id, owner_id = EXCLUDED.owner_id, cpu = EXCLUDED.cpu
	`
	_, err := r.db.Exec(ctx, query,
		seeding.Season, string(seeding.Conference), seeding.Seed,
		string(seeding.TeamID), nullString(seeding.OwnerID), seeding.CPU)
	if err != nil {
		return fmt.Errorf("failed to upsert seeding: %w", err)
	}
	return nil
}

// ListPlayoffWinners returns recorded playoff round winners for a
// conference, bracket order
func (r *LeagueRepository) ListPlayoffWinners(ctx context.Context, season int, conference domain.Conference) ([]domain.PlayoffWinner, error) {
	rows, err := r.db.Query(ctx,
		`SELECT season, conference, round, team_id, owner_id FROM playoff_winners WHERE season = $1 AND conference = $2`,
		season, string(conference))
	if err != nil {
		return nil, fmt.Errorf("failed to list playoff winners: %w", err)
	}
	defer rows.Close()

	var winners []domain.PlayoffWinner
	for rows.Next() {
		var w domain.PlayoffWinner
		var ownerID *string
		if err := rows.Scan(&w.Season, &w.Conference, &w.Round, &w.TeamID, &ownerID); err != nil {
			return nil, fmt.Errorf("failed to scan playoff winner: %w", err)
		}
		w.OwnerID = deref(ownerID)
		winners = append(winners, w)
	}
	return winners, rows.Err()
}

// RecordPlayoffWinner writes a round winner. A round can carry several
// winners (four teams survive the wildcard round), so conflicts are per
// team, not per round.
func (r *LeagueRepository) RecordPlayoffWinner(ctx context.Context, winner *domain.PlayoffWinner) error {
	query := `
		INSERT INTO playoff_winners (season, conference, round, team_id, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (season, conference, round, team_id) DO UPDATE
		SET owner_id = EXCLUDED.owner_id
	`
	_, err := r.db.Exec(ctx, query,
		winner.Season, string(winner.Conference), string(winner.Round),
		string(winner.TeamID), nullString(winner.OwnerID))
	if err != nil {
		return fmt.Errorf("failed to record playoff winner: %w", err)
	}
	return nil
}
