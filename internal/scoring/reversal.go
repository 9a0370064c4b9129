package scoring

import (
	"time"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

// ReversalScorer ranks mean-reversion candidates: the raw value is the
// stretch of close below its trailing moving average, (MA - close) / MA, so
// the most oversold name in the cohort scales to 1.0 and names trading
// above their average scale toward 0.
type ReversalScorer struct {
	window int
	logger *logger.Logger
}

// NewReversalScorer creates a reversal scorer reading the given moving
// average window off the snapshot
func NewReversalScorer(window int, log *logger.Logger) *ReversalScorer {
	return &ReversalScorer{window: window, logger: log}
}

// Name returns the persisted scorer identifier
func (s *ReversalScorer) Name() string {
	return contracts.ScorerReversal
}

// Score scales each snapshot's deviation from its average against the cohort
func (s *ReversalScorer) Score(date time.Time, cohort []contracts.IndicatorSnapshot) []contracts.RankScore {
	return scoreCohort(s.Name(), date, cohort, func(snap *contracts.IndicatorSnapshot) float64 {
		ma, ok := snap.MA(s.window)
		if !ok || ma == 0 {
			// the strategy validator pins the window to a computed MA, so
			// this only happens on a zero-priced series
			return 0
		}
		return (ma - snap.Close) / ma
	}, s.logger)
}
