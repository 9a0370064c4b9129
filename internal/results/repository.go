package results

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
)

// Repository implements contracts.ResultStore over PostgreSQL.
// ⭐ SSOT: engine output lands in the quant schema through this type only.
//
// Writes are idempotent per (ticker, as_of_date) key: snapshots and scores
// upsert, the fused ranking is replaced wholesale per date inside a
// transaction so readers never observe a partial or stale ranking.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a result repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// execer covers both the pool and an open transaction
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SaveSnapshot upserts one indicator snapshot keyed by (ticker, date)
func (r *Repository) SaveSnapshot(ctx context.Context, snap contracts.IndicatorSnapshot) error {
	return saveSnapshot(ctx, r.pool, snap)
}

func saveSnapshot(ctx context.Context, db execer, snap contracts.IndicatorSnapshot) error {
	maJSON, err := json.Marshal(snap.MovingAverages)
	if err != nil {
		return fmt.Errorf("marshal moving averages: %w", err)
	}
	divJSON, err := json.Marshal(snap.Divergence)
	if err != nil {
		return fmt.Errorf("marshal divergence state: %w", err)
	}

	query := `
		INSERT INTO quant.indicator_snapshots (
			ticker, as_of_date, close, moving_averages,
			support_level, resistance_level, volatility, skew,
			rate_of_change, rsi, divergence, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (ticker, as_of_date) DO UPDATE SET
			close = EXCLUDED.close,
			moving_averages = EXCLUDED.moving_averages,
			support_level = EXCLUDED.support_level,
			resistance_level = EXCLUDED.resistance_level,
			volatility = EXCLUDED.volatility,
			skew = EXCLUDED.skew,
			rate_of_change = EXCLUDED.rate_of_change,
			rsi = EXCLUDED.rsi,
			divergence = EXCLUDED.divergence,
			created_at = NOW()
	`

	_, err = db.Exec(ctx, query,
		snap.Ticker, snap.Date, snap.Close, maJSON,
		snap.SupportLevel, snap.ResistanceLevel, snap.VolatilityStat, snap.SkewStat,
		snap.RateOfChange, snap.RSI, divJSON,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s %s: %w",
			snap.Ticker, snap.Date.Format(contracts.DateLayout), err)
	}
	return nil
}

// SaveScores upserts rank scores keyed by (ticker, date, scorer)
func (r *Repository) SaveScores(ctx context.Context, scores []contracts.RankScore) error {
	return saveScores(ctx, r.pool, scores)
}

func saveScores(ctx context.Context, db execer, scores []contracts.RankScore) error {
	query := `
		INSERT INTO quant.rank_scores (
			ticker, as_of_date, scorer_name, raw_value, normalized_value, created_at
		) VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (ticker, as_of_date, scorer_name) DO UPDATE SET
			raw_value = EXCLUDED.raw_value,
			normalized_value = EXCLUDED.normalized_value,
			created_at = NOW()
	`

	for _, sc := range scores {
		_, err := db.Exec(ctx, query, sc.Ticker, sc.Date, sc.Scorer, sc.RawValue, sc.Score)
		if err != nil {
			return fmt.Errorf("upsert score %s/%s %s: %w",
				sc.Ticker, sc.Scorer, sc.Date.Format(contracts.DateLayout), err)
		}
	}
	return nil
}

// SaveFused atomically replaces the full ranking for a date
func (r *Repository) SaveFused(ctx context.Context, date time.Time, fused []contracts.FusedOpportunity) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin fused replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := saveFused(ctx, tx, date, fused); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit fused replace: %w", err)
	}
	return nil
}

func saveFused(ctx context.Context, db execer, date time.Time, fused []contracts.FusedOpportunity) error {
	_, err := db.Exec(ctx,
		"DELETE FROM quant.fused_opportunities WHERE as_of_date = $1", date)
	if err != nil {
		return fmt.Errorf("delete old ranking: %w", err)
	}

	query := `
		INSERT INTO quant.fused_opportunities (
			ticker, as_of_date, composite_score, component_scores,
			rank_position, catalyst_applied, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	for _, opp := range fused {
		compJSON, err := json.Marshal(opp.ComponentScores)
		if err != nil {
			return fmt.Errorf("marshal component scores: %w", err)
		}
		_, err = db.Exec(ctx, query,
			opp.Ticker, opp.Date, opp.CompositeScore, compJSON,
			opp.RankPosition, opp.CatalystApplied)
		if err != nil {
			return fmt.Errorf("insert fused row %s: %w", opp.Ticker, err)
		}
	}
	return nil
}

func saveRunSummary(ctx context.Context, db execer, summary contracts.RunSummary) error {
	query := `
		INSERT INTO quant.run_summaries (
			run_id, trade_date, status, tickers_total, tickers_scored,
			tickers_skipped, tickers_excluded, ranked_count, config_hash,
			started_at, finished_at, error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (run_id) DO UPDATE SET
			status = EXCLUDED.status,
			tickers_total = EXCLUDED.tickers_total,
			tickers_scored = EXCLUDED.tickers_scored,
			tickers_skipped = EXCLUDED.tickers_skipped,
			tickers_excluded = EXCLUDED.tickers_excluded,
			ranked_count = EXCLUDED.ranked_count,
			config_hash = EXCLUDED.config_hash,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at,
			error = EXCLUDED.error
	`

	_, err := db.Exec(ctx, query,
		summary.RunID, summary.TradeDate, summary.Status,
		summary.TickersTotal, summary.TickersScored, summary.TickersSkipped,
		summary.TickersExcluded, summary.RankedCount, summary.ConfigHash,
		summary.StartedAt, summary.FinishedAt, summary.Error)
	if err != nil {
		return fmt.Errorf("upsert run summary %s: %w", summary.RunID, err)
	}
	return nil
}

// SaveBatch commits a whole run's output in one transaction: snapshots,
// scores, the date's fused replacement and the run summary land together
// or not at all
func (r *Repository) SaveBatch(ctx context.Context, batch *contracts.BatchWrite) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch write: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, snap := range batch.Snapshots {
		if err := saveSnapshot(ctx, tx, snap); err != nil {
			return err
		}
	}
	if err := saveScores(ctx, tx, batch.Scores); err != nil {
		return err
	}
	if err := saveFused(ctx, tx, batch.TradeDate, batch.Fused); err != nil {
		return err
	}
	if err := saveRunSummary(ctx, tx, batch.Summary); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch write: %w", err)
	}
	return nil
}

// LoadFused returns the ranking for a date ordered by rank position
func (r *Repository) LoadFused(ctx context.Context, date time.Time) ([]contracts.FusedOpportunity, error) {
	query := `
		SELECT ticker, as_of_date, composite_score, component_scores,
		       rank_position, catalyst_applied
		FROM quant.fused_opportunities
		WHERE as_of_date = $1
		ORDER BY rank_position ASC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query fused for %s: %w", date.Format(contracts.DateLayout), err)
	}
	defer rows.Close()

	return scanFused(rows)
}

// LoadLatestFused returns the most recent date with a ranking and its rows.
// An empty table returns zero values, not an error: MAX over no rows yields
// a single NULL row, so the scan target must be nullable.
func (r *Repository) LoadLatestFused(ctx context.Context) (time.Time, []contracts.FusedOpportunity, error) {
	var latest *time.Time
	err := r.pool.QueryRow(ctx,
		"SELECT MAX(as_of_date) FROM quant.fused_opportunities").Scan(&latest)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("query latest fused date: %w", err)
	}
	if latest == nil {
		return time.Time{}, nil, nil
	}

	fused, err := r.LoadFused(ctx, *latest)
	return *latest, fused, err
}

// LoadFusedRange returns rankings between two dates inclusive, ordered by
// date then rank position. The as_of_date index keeps this a range scan
// for backtests.
func (r *Repository) LoadFusedRange(ctx context.Context, from, to time.Time) ([]contracts.FusedOpportunity, error) {
	query := `
		SELECT ticker, as_of_date, composite_score, component_scores,
		       rank_position, catalyst_applied
		FROM quant.fused_opportunities
		WHERE as_of_date BETWEEN $1 AND $2
		ORDER BY as_of_date ASC, rank_position ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query fused range: %w", err)
	}
	defer rows.Close()

	return scanFused(rows)
}

// LoadScores returns all per-scorer rows for a date
func (r *Repository) LoadScores(ctx context.Context, date time.Time) ([]contracts.RankScore, error) {
	query := `
		SELECT ticker, as_of_date, scorer_name, raw_value, normalized_value
		FROM quant.rank_scores
		WHERE as_of_date = $1
		ORDER BY scorer_name ASC, normalized_value DESC, ticker ASC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query scores for %s: %w", date.Format(contracts.DateLayout), err)
	}
	defer rows.Close()

	var scores []contracts.RankScore
	for rows.Next() {
		var sc contracts.RankScore
		if err := rows.Scan(&sc.Ticker, &sc.Date, &sc.Scorer, &sc.RawValue, &sc.Score); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

// LoadSnapshots returns every indicator snapshot for a date
func (r *Repository) LoadSnapshots(ctx context.Context, date time.Time) ([]contracts.IndicatorSnapshot, error) {
	query := `
		SELECT ticker, as_of_date, close, moving_averages,
		       support_level, resistance_level, volatility, skew,
		       rate_of_change, rsi, divergence
		FROM quant.indicator_snapshots
		WHERE as_of_date = $1
		ORDER BY ticker ASC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query snapshots for %s: %w", date.Format(contracts.DateLayout), err)
	}
	defer rows.Close()

	var snaps []contracts.IndicatorSnapshot
	for rows.Next() {
		var snap contracts.IndicatorSnapshot
		var maJSON, divJSON []byte
		err := rows.Scan(&snap.Ticker, &snap.Date, &snap.Close, &maJSON,
			&snap.SupportLevel, &snap.ResistanceLevel, &snap.VolatilityStat, &snap.SkewStat,
			&snap.RateOfChange, &snap.RSI, &divJSON)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal(maJSON, &snap.MovingAverages); err != nil {
			return nil, fmt.Errorf("unmarshal moving averages: %w", err)
		}
		if err := json.Unmarshal(divJSON, &snap.Divergence); err != nil {
			return nil, fmt.Errorf("unmarshal divergence state: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// ListRuns returns the most recent run summaries, newest first
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]contracts.RunSummary, error) {
	query := `
		SELECT run_id, trade_date, status, tickers_total, tickers_scored,
		       tickers_skipped, tickers_excluded, ranked_count, config_hash,
		       started_at, finished_at, COALESCE(error, '')
		FROM quant.run_summaries
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query run summaries: %w", err)
	}
	defer rows.Close()

	var runs []contracts.RunSummary
	for rows.Next() {
		var s contracts.RunSummary
		err := rows.Scan(&s.RunID, &s.TradeDate, &s.Status,
			&s.TickersTotal, &s.TickersScored, &s.TickersSkipped,
			&s.TickersExcluded, &s.RankedCount, &s.ConfigHash,
			&s.StartedAt, &s.FinishedAt, &s.Error)
		if err != nil {
			return nil, fmt.Errorf("scan run summary: %w", err)
		}
		runs = append(runs, s)
	}
	return runs, rows.Err()
}

func scanFused(rows pgx.Rows) ([]contracts.FusedOpportunity, error) {
	var fused []contracts.FusedOpportunity
	for rows.Next() {
		var opp contracts.FusedOpportunity
		var compJSON []byte
		err := rows.Scan(&opp.Ticker, &opp.Date, &opp.CompositeScore, &compJSON,
			&opp.RankPosition, &opp.CatalystApplied)
		if err != nil {
			return nil, fmt.Errorf("scan fused row: %w", err)
		}
		if err := json.Unmarshal(compJSON, &opp.ComponentScores); err != nil {
			return nil, fmt.Errorf("unmarshal component scores: %w", err)
		}
		fused = append(fused, opp)
	}
	return fused, rows.Err()
}
