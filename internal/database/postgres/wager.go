package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/repository"
)

const wagerColumns = `id, proposer_id, opponent_id, season, week, season_type, round,
	home_team, away_team, amount_cents, pick, note, state,
	winner_id, winner_team, tie, source, created_at, settled_at, resolved_at`

// WagerRepository implements the wager ledger repository for PostgreSQL
type WagerRepository struct {
	db *pgxpool.Pool
}

// NewWagerRepository creates a new WagerRepository
func NewWagerRepository(db *pgxpool.Pool) *WagerRepository {
	return &WagerRepository{db: db}
}

// CreateWager inserts a new wager record
func (r *WagerRepository) CreateWager(ctx context.Context, wager *domain.Wager) error {
	query := `
		INSERT INTO wagers (id, proposer_id, opponent_id, season, week, season_type, round,
			home_team, away_team, amount_cents, pick, note, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		wager.ID, wager.ProposerID, wager.OpponentID, wager.Season, wager.Week,
		string(wager.SeasonType), nullString(wager.Round),
		string(wager.HomeTeam), string(wager.AwayTeam), wager.AmountCents,
		nullString(string(wager.Pick)), nullString(wager.Note),
		string(wager.State), wager.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create wager: %w", err)
	}
	return nil
}

// GetWager retrieves a wager by ID
func (r *WagerRepository) GetWager(ctx context.Context, id uuid.UUID) (*domain.Wager, error) {
	row := r.db.QueryRow(ctx, `SELECT `+wagerColumns+` FROM wagers WHERE id = $1`, id)
	wager, err := scanWager(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wager: %w", err)
	}
	return wager, nil
}

// UpdateWagerStateIfMatches performs a compare-and-swap operation on wager state.
// Returns the number of rows affected (0 if state didn't match, 1 if updated).
// This is what keeps a manual settle and a matcher pass from both succeeding.
func (r *WagerRepository) UpdateWagerStateIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.WagerState) (int64, error) {
	return updateWagerStateIfMatches(ctx, r.db, id, expected, next)
}

// FindAcceptedByKey returns accepted wagers matching the season, week and
// unordered team pair of a game result.
func (r *WagerRepository) FindAcceptedByKey(ctx context.Context, key domain.MatchKey) ([]domain.Wager, error) {
	query := `
		SELECT ` + wagerColumns + `
		FROM wagers
		WHERE state = 'accepted'
		AND season = $1 AND week = $2
		AND ((home_team = $3 AND away_team = $4) OR (home_team = $4 AND away_team = $3))
	`
	rows, err := r.db.Query(ctx, query, key.Season, key.Week, string(key.TeamA), string(key.TeamB))
	if err != nil {
		return nil, fmt.Errorf("failed to find wagers by key: %w", err)
	}
	defer rows.Close()

	return scanWagers(rows)
}

// ListForOwner returns all wagers involving the owner for a season,
// newest first.
func (r *WagerRepository) ListForOwner(ctx context.Context, ownerID string, season int) ([]domain.Wager, error) {
	query := `
		SELECT ` + wagerColumns + `
		FROM wagers
		WHERE season = $1 AND (proposer_id = $2 OR opponent_id = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, season, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wagers for owner: %w", err)
	}
	defer rows.Close()

	return scanWagers(rows)
}

// ListAccepted returns accepted wagers for a season awaiting results,
// oldest week first.
func (r *WagerRepository) ListAccepted(ctx context.Context, season int) ([]domain.Wager, error) {
	query := `
		SELECT ` + wagerColumns + `
		FROM wagers
		WHERE state = 'accepted' AND season = $1
		ORDER BY week ASC
	`
	rows, err := r.db.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list accepted wagers: %w", err)
	}
	defer rows.Close()

	return scanWagers(rows)
}

// ListUnpaidSettled returns settled wagers whose payment has not been
// confirmed, oldest settlement first. Used by the reminder sweep. A
// void tie has no winner and owes nothing; a tie resolved by the
// wager's pick carries both the tie flag and a winner, and still owes.
func (r *WagerRepository) ListUnpaidSettled(ctx context.Context) ([]domain.Wager, error) {
	query := `
		SELECT ` + wagerColumns + `
		FROM wagers
		WHERE state = 'settled' AND winner_id IS NOT NULL
		ORDER BY settled_at ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid settled wagers: %w", err)
	}
	defer rows.Close()

	return scanWagers(rows)
}

// GetWelcherFlag returns the active flag for an owner, or nil
func (r *WagerRepository) GetWelcherFlag(ctx context.Context, ownerID string) (*domain.WelcherFlag, error) {
	row := r.db.QueryRow(ctx,
		`SELECT owner_id, reason, flagged_by, created_at FROM welcher_flags WHERE owner_id = $1`, ownerID)

	var flag domain.WelcherFlag
	var reason, flaggedBy *string
	if err := row.Scan(&flag.OwnerID, &reason, &flaggedBy, &flag.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get welcher flag: %w", err)
	}
	flag.Reason = deref(reason)
	flag.FlaggedBy = deref(flaggedBy)
	return &flag, nil
}

// FlagWelcher inserts or refreshes a welcher flag
func (r *WagerRepository) FlagWelcher(ctx context.Context, flag *domain.WelcherFlag) error {
	query := `
		INSERT INTO welcher_flags (owner_id, reason, flagged_by, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id) DO UPDATE
		SET reason = EXCLUDED.reason, flagged_by = EXCLUDED.flagged_by, created_at = EXCLUDED.created_at
	`
	_, err := r.db.Exec(ctx, query, flag.OwnerID, nullString(flag.Reason), nullString(flag.FlaggedBy), flag.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to flag welcher: %w", err)
	}
	return nil
}

// ClearWelcher removes an owner's welcher flag
func (r *WagerRepository) ClearWelcher(ctx context.Context, ownerID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM welcher_flags WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("failed to clear welcher: %w", err)
	}
	return nil
}

// ListWelchers returns all active welcher flags
func (r *WagerRepository) ListWelchers(ctx context.Context) ([]domain.WelcherFlag, error) {
	rows, err := r.db.Query(ctx,
		`SELECT owner_id, reason, flagged_by, created_at FROM welcher_flags ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list welchers: %w", err)
	}
	defer rows.Close()

	var flags []domain.WelcherFlag
	for rows.Next() {
		var flag domain.WelcherFlag
		var reason, flaggedBy *string
		if err := rows.Scan(&flag.OwnerID, &reason, &flaggedBy, &flag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan welcher flag: %w", err)
		}
		flag.Reason = deref(reason)
		flag.FlaggedBy = deref(flaggedBy)
		flags = append(flags, flag)
	}
	return flags, rows.Err()
}

// GetReminder returns reminder bookkeeping for a wager, or nil
func (r *WagerRepository) GetReminder(ctx context.Context, wagerID uuid.UUID) (*domain.WagerReminder, error) {
	row := r.db.QueryRow(ctx,
		`SELECT wager_id, last_channel_sent, last_dm_sent, dm_count FROM wager_reminders WHERE wager_id = $1`, wagerID)

	var rem domain.WagerReminder
	if err := row.Scan(&rem.WagerID, &rem.LastChannelSent, &rem.LastDMSent, &rem.DMCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &rem, nil
}

// MarkChannelReminder records a channel reminder send
func (r *WagerRepository) MarkChannelReminder(ctx context.Context, wagerID uuid.UUID, at time.Time) error {
	query := `
		INSERT INTO wager_reminders (wager_id, last_channel_sent)
		VALUES ($1, $2)
		ON CONFLICT (wager_id) DO UPDATE SET last_channel_sent = EXCLUDED.last_channel_sent
	`
	if _, err := r.db.Exec(ctx, query, wagerID, at); err != nil {
		return fmt.Errorf("failed to mark channel reminder: %w", err)
	}
	return nil
}

// MarkDMReminder records a direct-message reminder send and bumps its count
func (r *WagerRepository) MarkDMReminder(ctx context.Context, wagerID uuid.UUID, at time.Time) error {
	query := `
		INSERT INTO wager_reminders (wager_id, last_dm_sent, dm_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (wager_id) DO UPDATE
		SET last_dm_sent = EXCLUDED.last_dm_sent, dm_count = wager_reminders.dm_count + 1
	`
	if _, err := r.db.Exec(ctx, query, wagerID, at); err != nil {
		return fmt.Errorf("failed to mark dm reminder: %w", err)
	}
	return nil
}

// BeginWagerTx starts a settlement transaction
func (r *WagerRepository) BeginWagerTx(ctx context.Context) (repository.WagerTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	return &wagerTx{tx: tx}, nil
}

// wagerTx implements repository.WagerTx on a pgx transaction
type wagerTx struct {
	tx pgx.Tx
}

func (t *wagerTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *wagerTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func (t *wagerTx) UpdateWagerStateIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.WagerState) (int64, error) {
	return updateWagerStateIfMatches(ctx, t.tx, id, expected, next)
}

// RecordSettlement writes the outcome fields of a settled wager
func (t *wagerTx) RecordSettlement(ctx context.Context, id uuid.UUID, rec repository.SettlementRecord) error {
	query := `
		UPDATE wagers
		SET winner_id = $2, winner_team = $3, tie = $4, source = $5, settled_at = $6
		WHERE id = $1
	`
	_, err := t.tx.Exec(ctx, query, id,
		nullString(rec.WinnerID), nullString(string(rec.WinnerTeam)),
		rec.Tie, string(rec.Source), rec.SettledAt)
	if err != nil {
		return fmt.Errorf("failed to record settlement: %w", err)
	}
	return nil
}

// InsertObligation inserts unless the origin key is already taken. The
// partial unique index on origin_key backs the idempotence guarantee.
// A cleared obligation with the same key is revived with the new
// parties; this is the re-settlement path after a dispute.
func (t *wagerTx) InsertObligation(ctx context.Context, ob *domain.PaymentObligation) (bool, error) {
	query := `
		INSERT INTO payment_obligations
			(id, debtor_id, creditor_id, amount_cents, reason, origin, origin_key, season, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (origin_key) WHERE origin_key IS NOT NULL DO UPDATE
		SET debtor_id = EXCLUDED.debtor_id,
			creditor_id = EXCLUDED.creditor_id,
			amount_cents = EXCLUDED.amount_cents,
			reason = EXCLUDED.reason,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at
		WHERE payment_obligations.status = 'cleared'
	`
	tag, err := t.tx.Exec(ctx, query,
		ob.ID, ob.DebtorID, ob.CreditorID, ob.AmountCents, nullString(ob.Reason),
		string(ob.Origin), nullString(ob.OriginKey), ob.Season, string(ob.Status),
		nullString(ob.CreatedBy), ob.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert obligation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// execer covers both pgxpool.Pool and pgx.Tx
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func updateWagerStateIfMatches(ctx context.Context, db execer, id uuid.UUID, expected, next domain.WagerState) (int64, error) {
	// A transition into a terminal state closes the wager for good, so
	// the same swap stamps resolved_at.
	query := `UPDATE wagers SET state = $3 WHERE id = $1 AND state = $2`
	if next.Terminal() {
		query = `UPDATE wagers SET state = $3, resolved_at = now() WHERE id = $1 AND state = $2`
	}
	tag, err := db.Exec(ctx, query, id, string(expected), string(next))
	if err != nil {
		return 0, fmt.Errorf("failed to update wager state: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanWager(row pgx.Row) (*domain.Wager, error) {
	var w domain.Wager
	var seasonType, state string
	var round, pick, note, winnerID, winnerTeam, source *string

	err := row.Scan(
		&w.ID, &w.ProposerID, &w.OpponentID, &w.Season, &w.Week, &seasonType, &round,
		&w.HomeTeam, &w.AwayTeam, &w.AmountCents, &pick, &note, &state,
		&winnerID, &winnerTeam, &w.Tie, &source, &w.CreatedAt, &w.SettledAt, &w.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}

	w.SeasonType = domain.SeasonType(seasonType)
	w.State = domain.WagerState(state)
	w.Round = deref(round)
	w.Pick = domain.TeamID(deref(pick))
	w.Note = deref(note)
	w.WinnerID = deref(winnerID)
	w.WinnerTeam = domain.TeamID(deref(winnerTeam))
	w.Source = domain.SettlementSource(deref(source))
	return &w, nil
}

func scanWagers(rows pgx.Rows) ([]domain.Wager, error) {
	var wagers []domain.Wager
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wager: %w", err)
		}
		wagers = append(wagers, *w)
	}
	return wagers, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
