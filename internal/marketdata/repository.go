package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
)

// Repository holds the raw pgx queries over quant.price_bars. The Store
// wrapper layers the rate limit, read timeout and minimum-bars gate on top;
// engine code never touches the repository directly.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a price-bar repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Series returns up to lookbackDays bars at or before asOf for a ticker,
// oldest first. The as-of bound keeps historical reads free of later bars.
func (r *Repository) Series(ctx context.Context, ticker string, asOf time.Time, lookbackDays int) ([]contracts.PriceBar, error) {
	query := `
		SELECT ticker, trade_date, open, high, low, close, volume
		FROM (
			SELECT ticker, trade_date, open, high, low, close, volume
			FROM quant.price_bars
			WHERE ticker = $1 AND trade_date <= $2
			ORDER BY trade_date DESC
			LIMIT $3
		) recent
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, asOf, lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("query price series for %s: %w", ticker, err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// Range returns bars for a ticker between two dates inclusive, oldest first
func (r *Repository) Range(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PriceBar, error) {
	query := `
		SELECT ticker, trade_date, open, high, low, close, volume
		FROM quant.price_bars
		WHERE ticker = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("query price range for %s: %w", ticker, err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// Tickers returns every ticker with at least one bar, sorted
func (r *Repository) Tickers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT ticker FROM quant.price_bars ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("query tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// Upsert writes bars keyed by (ticker, trade_date)
func (r *Repository) Upsert(ctx context.Context, bars []contracts.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	query := `
		INSERT INTO quant.price_bars (ticker, trade_date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker, trade_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`

	for _, b := range bars {
		_, err := r.pool.Exec(ctx, query,
			b.Ticker, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
		if err != nil {
			return fmt.Errorf("upsert bar %s %s: %w", b.Ticker, b.Date.Format(contracts.DateLayout), err)
		}
	}
	return nil
}

type barRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanBars(rows barRows) ([]contracts.PriceBar, error) {
	var bars []contracts.PriceBar
	for rows.Next() {
		var b contracts.PriceBar
		if err := rows.Scan(&b.Ticker, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan price bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}
