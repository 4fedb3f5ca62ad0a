package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

const obligationColumns = `id, debtor_id, creditor_id, amount_cents, reason, origin, origin_key,
	season, status, created_by, created_at, paid_at`

// PaymentRepository implements the payment obligation repository for PostgreSQL
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateObligation inserts an obligation. When the origin key is already
// taken it returns the existing row with created=false instead of erroring,
// so retried settlements and payout runs never double-book.
func (r *PaymentRepository) CreateObligation(ctx context.Context, ob *domain.PaymentObligation) (*domain.PaymentObligation, bool, error) {
	query := `
		INSERT INTO payment_obligations
			(id, debtor_id, creditor_id, amount_cents, reason, origin, origin_key, season, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (origin_key) WHERE origin_key IS NOT NULL DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query,
		ob.ID, ob.DebtorID, ob.CreditorID, ob.AmountCents, nullString(ob.Reason),
		string(ob.Origin), nullString(ob.OriginKey), ob.Season, string(ob.Status),
		nullString(ob.CreatedBy), ob.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create obligation: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return ob, true, nil
	}

	existing, err := r.FindByOriginKey(ctx, ob.OriginKey)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("obligation conflict but origin key %q not found", ob.OriginKey)
	}
	return existing, false, nil
}

// GetObligation retrieves an obligation by ID
func (r *PaymentRepository) GetObligation(ctx context.Context, id uuid.UUID) (*domain.PaymentObligation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+obligationColumns+` FROM payment_obligations WHERE id = $1`, id)
	ob, err := scanObligation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get obligation: %w", err)
	}
	return ob, nil
}

// UpdateObligationStatusIfMatches performs a compare-and-swap on status.
// paidAt is only written when moving to paid.
func (r *PaymentRepository) UpdateObligationStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.ObligationStatus) (int64, error) {
	query := `
		UPDATE payment_obligations
		SET status = $3,
			paid_at = CASE WHEN $3 = 'paid' THEN NOW() ELSE paid_at END
		WHERE id = $1 AND status = $2
	`
	tag, err := r.db.Exec(ctx, query, id, string(expected), string(next))
	if err != nil {
		return 0, fmt.Errorf("failed to update obligation status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// FindByOriginKey returns the obligation carrying the origin key, or nil
func (r *PaymentRepository) FindByOriginKey(ctx context.Context, originKey string) (*domain.PaymentObligation, error) {
	if originKey == "" {
		return nil, nil
	}
	row := r.db.QueryRow(ctx,
		`SELECT `+obligationColumns+` FROM payment_obligations WHERE origin_key = $1`, originKey)
	ob, err := scanObligation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find obligation by origin key: %w", err)
	}
	return ob, nil
}

// ListByDebtor returns obligations owed by an owner, optionally open only
func (r *PaymentRepository) ListByDebtor(ctx context.Context, ownerID string, season int, openOnly bool) ([]domain.PaymentObligation, error) {
	return r.listFiltered(ctx, `debtor_id`, ownerID, season, openOnly)
}

// ListByCreditor returns obligations owed to an owner, optionally open only
func (r *PaymentRepository) ListByCreditor(ctx context.Context, ownerID string, season int, openOnly bool) ([]domain.PaymentObligation, error) {
	return r.listFiltered(ctx, `creditor_id`, ownerID, season, openOnly)
}

func (r *PaymentRepository) listFiltered(ctx context.Context, column, ownerID string, season int, openOnly bool) ([]domain.PaymentObligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM payment_obligations
		WHERE ` + column + ` = $1 AND season = $2
	`
	if openOnly {
		query += ` AND status = 'open'`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, ownerID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	return scanObligations(rows)
}

// ListBySeason returns all obligations for a season
func (r *PaymentRepository) ListBySeason(ctx context.Context, season int, openOnly bool) ([]domain.PaymentObligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM payment_obligations
		WHERE season = $1
	`
	if openOnly {
		query += ` AND status = 'open'`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations by season: %w", err)
	}
	defer rows.Close()

	return scanObligations(rows)
}

// Profit aggregates per-owner received and owed totals for a season.
// The realized view counts paid obligations only; the pending view also
// counts open ones. Cleared obligations never count.
func (r *PaymentRepository) Profit(ctx context.Context, season int, view domain.ProfitView) ([]domain.OwnerProfit, error) {
	statuses := `('paid')`
	if view == domain.ProfitPending {
		statuses = `('paid', 'open')`
	}

	query := `
		SELECT owner_id, SUM(received) AS received, SUM(owed) AS owed
		FROM (
			SELECT creditor_id AS owner_id, amount_cents AS received, 0 AS owed
			FROM payment_obligations
			WHERE season = $1 AND status IN ` + statuses + `
			UNION ALL
			SELECT debtor_id AS owner_id, 0 AS received, amount_cents AS owed
			FROM payment_obligations
			WHERE season = $1 AND status IN ` + statuses + `
		) AS movements
		GROUP BY owner_id
	`
	rows, err := r.db.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate profit: %w", err)
	}
	defer rows.Close()

	profits := make(map[string]*domain.OwnerProfit)
	for rows.Next() {
		var ownerID string
		var received, owed int64
		if err := rows.Scan(&ownerID, &received, &owed); err != nil {
			return nil, fmt.Errorf("failed to scan profit row: %w", err)
		}
		profits[ownerID] = &domain.OwnerProfit{
			OwnerID:       ownerID,
			ReceivedCents: received,
			OwedCents:     owed,
			NetCents:      received - owed,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.fillWinLoss(ctx, season, profits); err != nil {
		return nil, err
	}

	out := make([]domain.OwnerProfit, 0, len(profits))
	for _, p := range profits {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetCents != out[j].NetCents {
			return out[i].NetCents > out[j].NetCents
		}
		return out[i].OwnerID < out[j].OwnerID
	})
	return out, nil
}

// fillWinLoss annotates profit rows with settled wager win/loss counts
func (r *PaymentRepository) fillWinLoss(ctx context.Context, season int, profits map[string]*domain.OwnerProfit) error {
	query := `
		SELECT winner_id, COUNT(*)
		FROM wagers
		WHERE season = $1 AND state IN ('settled', 'paid') AND winner_id IS NOT NULL
		GROUP BY winner_id
	`
	rows, err := r.db.Query(ctx, query, season)
	if err != nil {
		return fmt.Errorf("failed to count wins: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ownerID string
		var wins int
		if err := rows.Scan(&ownerID, &wins); err != nil {
			return fmt.Errorf("failed to scan win count: %w", err)
		}
		if p, ok := profits[ownerID]; ok {
			p.Wins = wins
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	lossQuery := `
		SELECT CASE WHEN winner_id = proposer_id THEN opponent_id ELSE proposer_id END AS loser_id, COUNT(*)
		FROM wagers
		WHERE season = $1 AND state IN ('settled', 'paid') AND winner_id IS NOT NULL
		GROUP BY loser_id
	`
	lossRows, err := r.db.Query(ctx, lossQuery, season)
	if err != nil {
		return fmt.Errorf("failed to count losses: %w", err)
	}
	defer lossRows.Close()

	for lossRows.Next() {
		var ownerID string
		var losses int
		if err := lossRows.Scan(&ownerID, &losses); err != nil {
			return fmt.Errorf("failed to scan loss count: %w", err)
		}
		if p, ok := profits[ownerID]; ok {
			p.Losses = losses
		}
	}
	return lossRows.Err()
}

func scanObligation(row pgx.Row) (*domain.PaymentObligation, error) {
	var ob domain.PaymentObligation
	var reason, originKey, createdBy *string
	var origin, status string

	err := row.Scan(
		&ob.ID, &ob.DebtorID, &ob.CreditorID, &ob.AmountCents, &reason, &origin, &originKey,
		&ob.Season, &status, &createdBy, &ob.CreatedAt, &ob.PaidAt,
	)
	if err != nil {
		return nil, err
	}

	ob.Reason = deref(reason)
	ob.Origin = domain.ObligationOrigin(origin)
	ob.OriginKey = deref(originKey)
	ob.Status = domain.ObligationStatus(status)
	ob.CreatedBy = deref(createdBy)
	return &ob, nil
}

func scanObligations(rows pgx.Rows) ([]domain.PaymentObligation, error) {
	var obs []domain.PaymentObligation
	for rows.Next() {
		ob, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		obs = append(obs, *ob)
	}
	return obs, rows.Err()
}
