package fusion

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/strategyconfig"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

var fuseDate = time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

func defaultFuser() *Fuser {
	return New(strategyconfig.Default().Fusion, logger.Nop())
}

func scoreSet(ticker string, momentum, reversal, divergence float64) *contracts.ScoreSet {
	return &contracts.ScoreSet{
		Ticker: ticker,
		Date:   fuseDate,
		Scores: map[string]contracts.RankScore{
			contracts.ScorerMomentum:   {Ticker: ticker, Date: fuseDate, Scorer: contracts.ScorerMomentum, Score: momentum},
			contracts.ScorerReversal:   {Ticker: ticker, Date: fuseDate, Scorer: contracts.ScorerReversal, Score: reversal},
			contracts.ScorerDivergence: {Ticker: ticker, Date: fuseDate, Scorer: contracts.ScorerDivergence, Score: divergence},
		},
	}
}

func cohortScores(sets ...*contracts.ScoreSet) []contracts.RankScore {
	var scores []contracts.RankScore
	for _, set := range sets {
		for _, sc := range set.Scores {
			scores = append(scores, sc)
		}
	}
	return scores
}

func TestFuseWeightedComposite(t *testing.T) {
	f := defaultFuser()
	sentiment := &contracts.SentimentRecord{
		Ticker:         "AAPL",
		Date:           fuseDate,
		SentimentScore: 0.6, // scales to 0.8
		SummaryCount:   4,
	}

	opp, err := f.Fuse(scoreSet("AAPL", 1.0, 0.5, 0.25), sentiment)
	require.NoError(t, err)

	want := 0.35*1.0 + 0.25*0.5 + 0.20*0.25 + 0.20*0.8
	assert.InDelta(t, want, opp.CompositeScore, 1e-12)
	assert.False(t, opp.CatalystApplied)

	require.Len(t, opp.ComponentScores, 4)
	assert.Equal(t, 1.0, opp.ComponentScores[contracts.ComponentMomentum])
	assert.InDelta(t, 0.8, opp.ComponentScores[contracts.ComponentSentiment], 1e-12)
}

func TestFuseMissingSentimentIsNeutral(t *testing.T) {
	f := defaultFuser()

	opp, err := f.Fuse(scoreSet("NVDA", 0.4, 0.6, 0.0), nil)
	require.NoError(t, err)

	// the sentiment term must be exactly the neutral midpoint, weighted
	want := 0.35*0.4 + 0.25*0.6 + 0.20*0.0 + 0.20*0.5
	assert.InDelta(t, want, opp.CompositeScore, 1e-12)
	assert.Equal(t, contracts.NeutralScore, opp.ComponentScores[contracts.ComponentSentiment])
}

func TestFuseCatalystBonusCapped(t *testing.T) {
	f := defaultFuser()
	catalyst := &contracts.SentimentRecord{
		Ticker:         "TSLA",
		Date:           fuseDate,
		SentimentScore: 1.0,
		Catalyst:       true,
	}

	// perfect component scores: 1.0 before the bonus, still 1.0 after
	opp, err := f.Fuse(scoreSet("TSLA", 1, 1, 1), catalyst)
	require.NoError(t, err)
	assert.Equal(t, 1.0, opp.CompositeScore)
	assert.True(t, opp.CatalystApplied)

	// lower scores: the bonus is visible and exactly +0.05
	plain, err := f.Fuse(scoreSet("TSLA", 0.5, 0.5, 0.5), &contracts.SentimentRecord{SentimentScore: 1.0})
	require.NoError(t, err)
	boosted, err := f.Fuse(scoreSet("TSLA", 0.5, 0.5, 0.5), catalyst)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, boosted.CompositeScore-plain.CompositeScore, 1e-12)
}

func TestFuseIncompleteScoreSet(t *testing.T) {
	f := defaultFuser()
	set := scoreSet("META", 0.9, 0.1, 0.2)
	delete(set.Scores, contracts.ScorerDivergence)

	_, err := f.Fuse(set, nil)
	require.Error(t, err)

	var fie *contracts.FusionIntegrityError
	require.True(t, errors.As(err, &fie))
	assert.Equal(t, "META", fie.Ticker)
	assert.Equal(t, []string{contracts.ScorerDivergence}, fie.Missing)
}

func TestFuseDeterministic(t *testing.T) {
	f := defaultFuser()
	sentiment := &contracts.SentimentRecord{SentimentScore: -0.3, Catalyst: true}

	first, err := f.Fuse(scoreSet("AMD", 0.7, 0.2, 0.9), sentiment)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := f.Fuse(scoreSet("AMD", 0.7, 0.2, 0.9), sentiment)
		require.NoError(t, err)
		assert.Equal(t, first.CompositeScore, again.CompositeScore)
	}
}

func TestFuseCohortRankingAndTieBreak(t *testing.T) {
	f := defaultFuser()

	// BBB and AAA get identical component scores, CCC trails
	scores := cohortScores(
		scoreSet("BBB", 0.8, 0.8, 0.8),
		scoreSet("AAA", 0.8, 0.8, 0.8),
		scoreSet("CCC", 0.1, 0.1, 0.1),
	)

	fused, excluded := f.FuseCohort(fuseDate, scores, nil)
	require.Empty(t, excluded)
	require.Len(t, fused, 3)

	assert.Equal(t, fused[0].CompositeScore, fused[1].CompositeScore)
	// equal composites order by ticker ascending
	assert.Equal(t, "AAA", fused[0].Ticker)
	assert.Equal(t, "BBB", fused[1].Ticker)
	assert.Equal(t, "CCC", fused[2].Ticker)

	for i, opp := range fused {
		assert.Equal(t, i+1, opp.RankPosition, "rank positions are dense and 1-based")
	}
}

func TestFuseCohortExcludesIntegrityFailures(t *testing.T) {
	f := defaultFuser()

	partial := scoreSet("BAD", 0.9, 0.9, 0.9)
	delete(partial.Scores, contracts.ScorerReversal)

	scores := cohortScores(
		scoreSet("GOOD", 0.5, 0.5, 0.5),
		scoreSet("ALSO", 0.6, 0.6, 0.6),
		partial,
	)

	fused, excluded := f.FuseCohort(fuseDate, scores, nil)
	require.Len(t, excluded, 1)
	assert.Equal(t, "BAD", excluded[0].Ticker)

	require.Len(t, fused, 2)
	for _, opp := range fused {
		assert.NotEqual(t, "BAD", opp.Ticker)
	}
}

func TestFuseCohortSentimentLookup(t *testing.T) {
	f := defaultFuser()

	scores := cohortScores(
		scoreSet("POS", 0.5, 0.5, 0.5),
		scoreSet("NEG", 0.5, 0.5, 0.5),
	)
	sentiments := map[string]contracts.SentimentRecord{
		"POS": {Ticker: "POS", Date: fuseDate, SentimentScore: 1.0},
		"NEG": {Ticker: "NEG", Date: fuseDate, SentimentScore: -1.0},
	}

	fused, _ := f.FuseCohort(fuseDate, scores, sentiments)
	require.Len(t, fused, 2)

	assert.Equal(t, "POS", fused[0].Ticker)
	assert.Equal(t, 1, fused[0].RankPosition)
	assert.InDelta(t, 0.20, fused[0].CompositeScore-fused[1].CompositeScore, 1e-12)
}
