package scoring

import (
	"time"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

// MomentumScorer ranks tickers by trailing rate-of-change of close. The
// window is fixed at the indicator stage; the scorer only scales the
// snapshot's descriptor against the cohort.
type MomentumScorer struct {
	logger *logger.Logger
}

// NewMomentumScorer creates a momentum scorer
func NewMomentumScorer(log *logger.Logger) *MomentumScorer {
	return &MomentumScorer{logger: log}
}

// Name returns the persisted scorer identifier
func (s *MomentumScorer) Name() string {
	return contracts.ScorerMomentum
}

// Score scales each snapshot's rate-of-change against the cohort
func (s *MomentumScorer) Score(date time.Time, cohort []contracts.IndicatorSnapshot) []contracts.RankScore {
	return scoreCohort(s.Name(), date, cohort, func(snap *contracts.IndicatorSnapshot) float64 {
		return snap.RateOfChange
	}, s.logger)
}
