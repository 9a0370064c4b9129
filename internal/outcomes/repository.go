package outcomes

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
)

// Repository implements contracts.OutcomeStore over PostgreSQL
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an outcome repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveOutcomes upserts outcomes keyed by (ticker, signal date, horizon).
// Re-evaluating a date overwrites: pending rows become final once enough
// forward bars exist.
func (r *Repository) SaveOutcomes(ctx context.Context, outcomes []contracts.SignalOutcome) error {
	query := `
		INSERT INTO quant.signal_outcomes (
			ticker, signal_date, horizon_days, entry_close, exit_close,
			return, status, evaluated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (ticker, signal_date, horizon_days) DO UPDATE SET
			entry_close = EXCLUDED.entry_close,
			exit_close = EXCLUDED.exit_close,
			return = EXCLUDED.return,
			status = EXCLUDED.status,
			evaluated_at = NOW()
	`

	for _, o := range outcomes {
		_, err := r.pool.Exec(ctx, query,
			o.Ticker, o.SignalDate, o.HorizonDays,
			o.EntryClose, o.ExitClose, o.Return, o.Status)
		if err != nil {
			return fmt.Errorf("upsert outcome %s h%d %s: %w",
				o.Ticker, o.HorizonDays, o.SignalDate.Format(contracts.DateLayout), err)
		}
	}
	return nil
}

// LoadOutcomes returns every outcome row for a signal date
func (r *Repository) LoadOutcomes(ctx context.Context, signalDate time.Time) ([]contracts.SignalOutcome, error) {
	query := `
		SELECT ticker, signal_date, horizon_days, entry_close, exit_close,
		       return, status
		FROM quant.signal_outcomes
		WHERE signal_date = $1
		ORDER BY ticker ASC, horizon_days ASC
	`

	rows, err := r.pool.Query(ctx, query, signalDate)
	if err != nil {
		return nil, fmt.Errorf("query outcomes for %s: %w",
			signalDate.Format(contracts.DateLayout), err)
	}
	defer rows.Close()

	var outcomes []contracts.SignalOutcome
	for rows.Next() {
		var o contracts.SignalOutcome
		err := rows.Scan(&o.Ticker, &o.SignalDate, &o.HorizonDays,
			&o.EntryClose, &o.ExitClose, &o.Return, &o.Status)
		if err != nil {
			return nil, fmt.Errorf("scan outcome row: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
