package contracts

import (
	"fmt"
	"time"
)

// Run stages, in execution order
type Stage string

const (
	StageLoadSeries Stage = "load_series"
	StageIndicators Stage = "indicators"
	StageScoring    Stage = "scoring"
	StageFusion     Stage = "fusion"
	StagePersist    Stage = "persist"
)

// Run statuses
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusCancelled = "cancelled"
)

// RunSummary is the bookkeeping record produced by every engine run,
// successful or not
type RunSummary struct {
	RunID           string    `json:"run_id"`
	TradeDate       time.Time `json:"trade_date"`
	Status          string    `json:"status"`
	TickersTotal    int       `json:"tickers_total"`
	TickersScored   int       `json:"tickers_scored"`
	TickersSkipped  int       `json:"tickers_skipped"`
	TickersExcluded int       `json:"tickers_excluded"`
	RankedCount     int       `json:"ranked_count"`
	ConfigHash      string    `json:"config_hash"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Error           string    `json:"error,omitempty"`
}

// Duration of the run
func (r *RunSummary) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// GenerateRunID builds a sortable run identifier from a timestamp
// ⭐ SSOT: run IDs are minted here only
func GenerateRunID(t time.Time) string {
	return fmt.Sprintf("run_%s", t.Format("20060102_150405"))
}
