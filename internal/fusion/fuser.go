package fusion

import (
	"sort"
	"time"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/strategyconfig"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

// Fuser merges the three quant scores with the sentiment signal into one
// composite per ticker and assembles the date's ranking.
// ⭐ SSOT: composite scores and rank positions are computed here only
type Fuser struct {
	weights       strategyconfig.Weights
	catalystBonus float64
	logger        *logger.Logger
}

// New creates a fuser from the strategy's fusion section
func New(cfg strategyconfig.Fusion, log *logger.Logger) *Fuser {
	return &Fuser{
		weights:       cfg.Weights,
		catalystBonus: cfg.CatalystBonus,
		logger:        log,
	}
}

// Fuse combines one ticker's rank scores with its sentiment record. A nil
// sentiment record is the defined absent state: the sentiment term falls
// back to the neutral midpoint, the ticker is never excluded for it. An
// incomplete score set returns a FusionIntegrityError instead; missing
// components are never zero-filled.
func (f *Fuser) Fuse(set *contracts.ScoreSet, sentiment *contracts.SentimentRecord) (contracts.FusedOpportunity, error) {
	if !set.Complete() {
		return contracts.FusedOpportunity{}, &contracts.FusionIntegrityError{
			Ticker:  set.Ticker,
			Missing: set.MissingScorers(),
		}
	}

	sentimentTerm := contracts.NeutralScore
	if sentiment != nil {
		sentimentTerm = sentiment.ScaledScore()
	}

	components := map[string]float64{
		contracts.ComponentMomentum:   set.Scores[contracts.ScorerMomentum].Score,
		contracts.ComponentReversal:   set.Scores[contracts.ScorerReversal].Score,
		contracts.ComponentDivergence: set.Scores[contracts.ScorerDivergence].Score,
		contracts.ComponentSentiment:  sentimentTerm,
	}

	composite := f.weights.Momentum*components[contracts.ComponentMomentum] +
		f.weights.Reversal*components[contracts.ComponentReversal] +
		f.weights.Divergence*components[contracts.ComponentDivergence] +
		f.weights.Sentiment*sentimentTerm

	catalystApplied := false
	if sentiment != nil && sentiment.Catalyst {
		composite += f.catalystBonus
		catalystApplied = true
	}
	if composite > 1.0 {
		composite = 1.0
	}

	return contracts.FusedOpportunity{
		Ticker:          set.Ticker,
		Date:            contracts.Day(set.Date),
		CompositeScore:  composite,
		ComponentScores: components,
		CatalystApplied: catalystApplied,
	}, nil
}

// FuseCohort fuses the full universe for a date and assigns rank
// positions: composite descending, ties broken by ticker ascending so the
// ordering is deterministic. Tickers with an incomplete score set are
// returned separately and excluded from the ranking.
func (f *Fuser) FuseCohort(date time.Time, scores []contracts.RankScore,
	sentiments map[string]contracts.SentimentRecord) ([]contracts.FusedOpportunity, []*contracts.FusionIntegrityError) {

	sets := groupByTicker(date, scores)

	tickers := make([]string, 0, len(sets))
	for ticker := range sets {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	fused := make([]contracts.FusedOpportunity, 0, len(tickers))
	var excluded []*contracts.FusionIntegrityError

	for _, ticker := range tickers {
		var sentiment *contracts.SentimentRecord
		if rec, ok := sentiments[ticker]; ok {
			sentiment = &rec
		}

		opp, err := f.Fuse(sets[ticker], sentiment)
		if err != nil {
			fie := err.(*contracts.FusionIntegrityError)
			f.logger.WithFields(map[string]interface{}{
				"ticker":  fie.Ticker,
				"missing": fie.Missing,
			}).Warn("Ticker excluded from fusion")
			excluded = append(excluded, fie)
			continue
		}
		fused = append(fused, opp)
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].CompositeScore != fused[j].CompositeScore {
			return fused[i].CompositeScore > fused[j].CompositeScore
		}
		return fused[i].Ticker < fused[j].Ticker
	})
	for i := range fused {
		fused[i].RankPosition = i + 1
	}

	if len(fused) > 0 {
		f.logger.WithFields(map[string]interface{}{
			"date":       date.Format(contracts.DateLayout),
			"fused":      len(fused),
			"excluded":   len(excluded),
			"top_ticker": fused[0].Ticker,
			"top_score":  fused[0].CompositeScore,
		}).Info("Fusion completed")
	}

	return fused, excluded
}

// groupByTicker assembles per-ticker score sets from the flat scorer output
func groupByTicker(date time.Time, scores []contracts.RankScore) map[string]*contracts.ScoreSet {
	sets := make(map[string]*contracts.ScoreSet)
	for _, sc := range scores {
		set, ok := sets[sc.Ticker]
		if !ok {
			set = &contracts.ScoreSet{
				Ticker: sc.Ticker,
				Date:   contracts.Day(date),
				Scores: make(map[string]contracts.RankScore, len(contracts.AllScorers)),
			}
			sets[sc.Ticker] = set
		}
		set.Scores[sc.Scorer] = sc
	}
	return sets
}
