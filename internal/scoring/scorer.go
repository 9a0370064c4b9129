package scoring

import (
	"time"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/strategyconfig"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

// Scorer turns one date's snapshot cohort into one RankScore per ticker.
// Scorers read snapshots and nothing else: no store access, no other
// scorer's output, no ambient files.
type Scorer interface {
	// Name is the persisted scorer identifier
	Name() string

	// Score produces one score per cohort member, in cohort order
	Score(date time.Time, cohort []contracts.IndicatorSnapshot) []contracts.RankScore
}

// All returns the three scorers the fusion stage requires, configured from
// the strategy
func All(cfg *strategyconfig.Config, log *logger.Logger) []Scorer {
	return []Scorer{
		NewMomentumScorer(log),
		NewReversalScorer(cfg.Scoring.ReversalWindow, log),
		NewDivergenceScorer(cfg.Scoring.Divergence, log),
	}
}

// scoreCohort computes raw values, scales them cross-sectionally and
// assembles the RankScore rows. Shared by all three scorers so the
// normalization semantics cannot drift between them.
func scoreCohort(name string, date time.Time, cohort []contracts.IndicatorSnapshot,
	raw func(*contracts.IndicatorSnapshot) float64, log *logger.Logger) []contracts.RankScore {

	if len(cohort) == 0 {
		return nil
	}

	raws := make([]float64, len(cohort))
	for i := range cohort {
		raws[i] = raw(&cohort[i])
	}

	normalized, degenerate := Normalize(raws)
	if degenerate {
		log.WithFields(map[string]interface{}{
			"scorer": name,
			"date":   date.Format(contracts.DateLayout),
			"cohort": len(cohort),
			"reason": contracts.ErrDegenerateCohort.Error(),
		}).Warn("Cohort degenerate, every score set to neutral")
	}

	scores := make([]contracts.RankScore, len(cohort))
	for i := range cohort {
		scores[i] = contracts.RankScore{
			Ticker:   cohort[i].Ticker,
			Date:     contracts.Day(date),
			Scorer:   name,
			Score:    normalized[i],
			RawValue: raws[i],
		}
	}

	log.WithFields(map[string]interface{}{
		"scorer": name,
		"date":   date.Format(contracts.DateLayout),
		"cohort": len(cohort),
	}).Debug("Cohort scored")

	return scores
}
