package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/strategyconfig"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

var testDate = time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

func snapshotWith(ticker string, mutate func(*contracts.IndicatorSnapshot)) contracts.IndicatorSnapshot {
	snap := contracts.IndicatorSnapshot{
		Ticker:          ticker,
		Date:            testDate,
		Close:           100,
		MovingAverages:  map[int]float64{20: 100, 50: 100},
		SupportLevel:    95,
		ResistanceLevel: 105,
		RSI:             50,
	}
	if mutate != nil {
		mutate(&snap)
	}
	return snap
}

func TestMomentumScorerRanksHighestROC(t *testing.T) {
	cohort := []contracts.IndicatorSnapshot{
		snapshotWith("AAA", func(s *contracts.IndicatorSnapshot) { s.RateOfChange = 0.30 }),
		snapshotWith("BBB", func(s *contracts.IndicatorSnapshot) { s.RateOfChange = 0.10 }),
		snapshotWith("CCC", func(s *contracts.IndicatorSnapshot) { s.RateOfChange = -0.05 }),
	}

	scores := NewMomentumScorer(logger.Nop()).Score(testDate, cohort)
	require.Len(t, scores, 3)

	byTicker := map[string]contracts.RankScore{}
	for _, sc := range scores {
		assert.Equal(t, contracts.ScorerMomentum, sc.Scorer)
		assert.Equal(t, testDate, sc.Date)
		byTicker[sc.Ticker] = sc
	}

	assert.Equal(t, 1.0, byTicker["AAA"].Score)
	assert.Equal(t, 0.0, byTicker["CCC"].Score)
	assert.InDelta(t, 0.30, byTicker["AAA"].RawValue, 1e-12)
}

func TestMomentumScorerDegenerateCohort(t *testing.T) {
	single := []contracts.IndicatorSnapshot{
		snapshotWith("AAA", func(s *contracts.IndicatorSnapshot) { s.RateOfChange = 0.30 }),
	}
	scores := NewMomentumScorer(logger.Nop()).Score(testDate, single)
	require.Len(t, scores, 1)
	assert.Equal(t, contracts.NeutralScore, scores[0].Score)

	allEqual := []contracts.IndicatorSnapshot{
		snapshotWith("AAA", func(s *contracts.IndicatorSnapshot) { s.RateOfChange = 0.1 }),
		snapshotWith("BBB", func(s *contracts.IndicatorSnapshot) { s.RateOfChange = 0.1 }),
	}
	scores = NewMomentumScorer(logger.Nop()).Score(testDate, allEqual)
	for _, sc := range scores {
		assert.Equal(t, contracts.NeutralScore, sc.Score)
	}
}

func TestReversalScorerFavorsOversold(t *testing.T) {
	cohort := []contracts.IndicatorSnapshot{
		// 20% below its 20-day average: the strongest reversal candidate
		snapshotWith("AAA", func(s *contracts.IndicatorSnapshot) { s.Close = 80 }),
		// right at its average
		snapshotWith("BBB", nil),
		// 10% above its average: the weakest candidate
		snapshotWith("CCC", func(s *contracts.IndicatorSnapshot) { s.Close = 110 }),
	}

	scores := NewReversalScorer(20, logger.Nop()).Score(testDate, cohort)
	require.Len(t, scores, 3)

	byTicker := map[string]contracts.RankScore{}
	for _, sc := range scores {
		byTicker[sc.Ticker] = sc
	}

	assert.Equal(t, 1.0, byTicker["AAA"].Score)
	assert.Equal(t, 0.0, byTicker["CCC"].Score)
	assert.InDelta(t, 0.20, byTicker["AAA"].RawValue, 1e-12)
	assert.InDelta(t, -0.10, byTicker["CCC"].RawValue, 1e-12)
}

func TestReversalScorerMissingAverage(t *testing.T) {
	cohort := []contracts.IndicatorSnapshot{
		snapshotWith("AAA", func(s *contracts.IndicatorSnapshot) { s.MovingAverages = nil }),
		snapshotWith("BBB", func(s *contracts.IndicatorSnapshot) { s.Close = 90 }),
	}

	scores := NewReversalScorer(20, logger.Nop()).Score(testDate, cohort)
	require.Len(t, scores, 2)
	// the ticker without an average contributes a zero raw, not a panic
	assert.Equal(t, 0.0, scores[0].RawValue)
}

func divergenceCfg() strategyconfig.Divergence {
	return strategyconfig.Default().Scoring.Divergence
}

func TestDivergenceScorerRaws(t *testing.T) {
	scorer := NewDivergenceScorer(divergenceCfg(), logger.Nop())

	tests := []struct {
		name  string
		state contracts.DivergenceState
		want  float64
	}{
		{
			"confirmed divergence",
			contracts.DivergenceState{PriceLowerLow: true, RSIGap: 5, ConfirmBars: 3},
			1.0,
		},
		{
			"unconfirmed divergence",
			contracts.DivergenceState{PriceLowerLow: true, RSIGap: 5, ConfirmBars: 1},
			0.45,
		},
		{
			"negative gap inside band",
			contracts.DivergenceState{PriceLowerLow: true, RSIGap: -5, ConfirmBars: 0},
			0.4 * 0.5,
		},
		{
			"negative gap beyond band",
			contracts.DivergenceState{PriceLowerLow: true, RSIGap: -25, ConfirmBars: 0},
			0.0,
		},
		{
			"no lower low",
			contracts.DivergenceState{PriceLowerLow: false, RSIGap: 5, ConfirmBars: 3},
			0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshotWith("XXX", func(s *contracts.IndicatorSnapshot) { s.Divergence = tt.state })
			assert.InDelta(t, tt.want, scorer.raw(&snap), 1e-12)
		})
	}
}

func TestDivergenceScorerProximityStaysBelowBinary(t *testing.T) {
	scorer := NewDivergenceScorer(divergenceCfg(), logger.Nop())
	// every non-confirmed raw must stay under 0.5 so only a confirmed
	// divergence reaches the binary weighting
	for gap := -30.0; gap <= 0; gap += 0.5 {
		snap := snapshotWith("XXX", func(s *contracts.IndicatorSnapshot) {
			s.Divergence = contracts.DivergenceState{PriceLowerLow: true, RSIGap: gap}
		})
		assert.Less(t, scorer.raw(&snap), 0.5)
	}
}

func TestAllReturnsThreeScorers(t *testing.T) {
	scorers := All(strategyconfig.Default(), logger.Nop())
	require.Len(t, scorers, 3)

	names := map[string]bool{}
	for _, s := range scorers {
		names[s.Name()] = true
	}
	for _, want := range contracts.AllScorers {
		assert.True(t, names[want], "missing scorer %s", want)
	}
}
