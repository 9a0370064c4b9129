package contracts

import (
	"context"
	"time"
)

// ⭐ SSOT: storage access goes through these interfaces only.
// Engine, scheduler, API and CLI never see a concrete repository type.

// PriceSeriesStore serves historical daily bars
type PriceSeriesStore interface {
	// GetSeries returns up to lookbackDays bars at or before asOf for a
	// ticker, oldest first. Bars after asOf never appear, so a historical
	// date sees exactly the series that existed then. Returns
	// ErrDataUnavailable when the ticker has no series or fewer bars than
	// the store's configured minimum.
	GetSeries(ctx context.Context, ticker string, asOf time.Time, lookbackDays int) ([]PriceBar, error)

	// ListTickers returns every ticker with at least one bar
	ListTickers(ctx context.Context) ([]string, error)

	// GetCloses returns bars for a ticker between two dates inclusive,
	// oldest first. Used by outcome evaluation; no minimum applies.
	GetCloses(ctx context.Context, ticker string, from, to time.Time) ([]PriceBar, error)

	// SaveBars upserts bars keyed by (ticker, date)
	SaveBars(ctx context.Context, bars []PriceBar) error
}

// BatchWrite is everything one engine run persists. SaveBatch applies it in
// a single transaction so a date is never half-written.
type BatchWrite struct {
	TradeDate time.Time
	Snapshots []IndicatorSnapshot
	Scores    []RankScore
	Fused     []FusedOpportunity
	Summary   RunSummary
}

// ResultStore persists and serves engine output
type ResultStore interface {
	// SaveSnapshot upserts one indicator snapshot keyed by (ticker, date)
	SaveSnapshot(ctx context.Context, snap IndicatorSnapshot) error

	// SaveScores upserts rank scores keyed by (ticker, date, scorer)
	SaveScores(ctx context.Context, scores []RankScore) error

	// SaveFused atomically replaces the full ranking for a date
	SaveFused(ctx context.Context, date time.Time, fused []FusedOpportunity) error

	// SaveBatch commits a whole run's output in one transaction
	SaveBatch(ctx context.Context, batch *BatchWrite) error

	// LoadFused returns the ranking for a date ordered by rank position
	LoadFused(ctx context.Context, date time.Time) ([]FusedOpportunity, error)

	// LoadLatestFused returns the most recent date with a ranking and its rows
	LoadLatestFused(ctx context.Context) (time.Time, []FusedOpportunity, error)

	// LoadFusedRange returns rankings between two dates inclusive, ordered
	// by date then rank position
	LoadFusedRange(ctx context.Context, from, to time.Time) ([]FusedOpportunity, error)

	// LoadScores returns all per-scorer rows for a date
	LoadScores(ctx context.Context, date time.Time) ([]RankScore, error)

	// ListRuns returns the most recent run summaries, newest first
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}

// SentimentStore persists feed-supplied sentiment
type SentimentStore interface {
	// Upsert writes records keyed by (ticker, date)
	Upsert(ctx context.Context, records []SentimentRecord) error

	// LoadByDate returns the records for a date keyed by ticker
	LoadByDate(ctx context.Context, date time.Time) (map[string]SentimentRecord, error)
}

// OutcomeStore persists forward-return evaluations of past rankings
type OutcomeStore interface {
	// SaveOutcomes upserts outcomes keyed by (ticker, signal date, horizon)
	SaveOutcomes(ctx context.Context, outcomes []SignalOutcome) error

	// LoadOutcomes returns every outcome row for a signal date
	LoadOutcomes(ctx context.Context, signalDate time.Time) ([]SignalOutcome, error)
}
