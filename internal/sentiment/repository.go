package sentiment

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
)

// Repository implements contracts.SentimentStore over PostgreSQL
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a sentiment repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert writes records keyed by (ticker, date). Re-pulling a feed for the
// same date overwrites the previous readings.
func (r *Repository) Upsert(ctx context.Context, records []contracts.SentimentRecord) error {
	query := `
		INSERT INTO quant.sentiment_records (
			ticker, as_of_date, sentiment_score, summary_count,
			catalyst, source, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (ticker, as_of_date) DO UPDATE SET
			sentiment_score = EXCLUDED.sentiment_score,
			summary_count = EXCLUDED.summary_count,
			catalyst = EXCLUDED.catalyst,
			source = EXCLUDED.source,
			created_at = NOW()
	`

	for _, rec := range records {
		_, err := r.pool.Exec(ctx, query,
			rec.Ticker, rec.Date, rec.SentimentScore, rec.SummaryCount,
			rec.Catalyst, rec.Source)
		if err != nil {
			return fmt.Errorf("upsert sentiment %s %s: %w",
				rec.Ticker, rec.Date.Format(contracts.DateLayout), err)
		}
	}
	return nil
}

// LoadByDate returns the records for a date keyed by ticker
func (r *Repository) LoadByDate(ctx context.Context, date time.Time) (map[string]contracts.SentimentRecord, error) {
	query := `
		SELECT ticker, as_of_date, sentiment_score, summary_count, catalyst, source
		FROM quant.sentiment_records
		WHERE as_of_date = $1
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query sentiment for %s: %w",
			date.Format(contracts.DateLayout), err)
	}
	defer rows.Close()

	records := make(map[string]contracts.SentimentRecord)
	for rows.Next() {
		var rec contracts.SentimentRecord
		err := rows.Scan(&rec.Ticker, &rec.Date, &rec.SentimentScore,
			&rec.SummaryCount, &rec.Catalyst, &rec.Source)
		if err != nil {
			return nil, fmt.Errorf("scan sentiment row: %w", err)
		}
		records[rec.Ticker] = rec
	}
	return records, rows.Err()
}
