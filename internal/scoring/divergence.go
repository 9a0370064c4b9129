package scoring

import (
	"time"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/strategyconfig"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

// DivergenceScorer flags bullish divergence: price made a lower low while
// RSI made a higher low. Raw scoring is binary-weighted — a confirmed
// divergence is worth 1.0, everything short of it stays in [0, 0.5):
//
//	confirmed (RSI higher low held >= confirm_bars rising closes)  1.0
//	detected but unconfirmed                                        unconfirmed_score
//	lower low, RSI gap still negative                               0.4 * proximity
//	no lower low                                                    0.0
//
// Proximity decays linearly over the configured RSI band, so a gap about
// to turn positive scores near 0.4 and a deeply confirming-down RSI scores
// zero. Raws then scale cross-sectionally like every other scorer.
type DivergenceScorer struct {
	cfg    strategyconfig.Divergence
	logger *logger.Logger
}

// NewDivergenceScorer creates a divergence scorer with the strategy's
// detection thresholds
func NewDivergenceScorer(cfg strategyconfig.Divergence, log *logger.Logger) *DivergenceScorer {
	return &DivergenceScorer{cfg: cfg, logger: log}
}

// Name returns the persisted scorer identifier
func (s *DivergenceScorer) Name() string {
	return contracts.ScorerDivergence
}

// Score scales each snapshot's divergence state against the cohort
func (s *DivergenceScorer) Score(date time.Time, cohort []contracts.IndicatorSnapshot) []contracts.RankScore {
	return scoreCohort(s.Name(), date, cohort, s.raw, s.logger)
}

func (s *DivergenceScorer) raw(snap *contracts.IndicatorSnapshot) float64 {
	d := snap.Divergence
	switch {
	case !d.PriceLowerLow:
		return 0
	case d.RSIGap > 0 && d.ConfirmBars >= s.cfg.ConfirmBars:
		return 1.0
	case d.RSIGap > 0:
		return s.cfg.UnconfirmedScore
	default:
		proximity := 1 + d.RSIGap/s.cfg.ProximityBand // RSIGap <= 0 here
		if proximity < 0 {
			proximity = 0
		}
		return 0.4 * proximity
	}
}
