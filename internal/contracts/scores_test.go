package contracts

import (
	"testing"
	"time"
)

func TestScoreSetComplete(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	set := &ScoreSet{
		Ticker: "AAPL",
		Date:   date,
		Scores: map[string]RankScore{
			ScorerMomentum:   {Ticker: "AAPL", Date: date, Scorer: ScorerMomentum, Score: 0.91},
			ScorerReversal:   {Ticker: "AAPL", Date: date, Scorer: ScorerReversal, Score: 0.30},
			ScorerDivergence: {Ticker: "AAPL", Date: date, Scorer: ScorerDivergence, Score: 1.0},
		},
	}
	if !set.Complete() {
		t.Error("set with all scorers should be complete")
	}
	if missing := set.MissingScorers(); missing != nil {
		t.Errorf("MissingScorers() = %v, want nil", missing)
	}

	delete(set.Scores, ScorerReversal)
	delete(set.Scores, ScorerMomentum)
	if set.Complete() {
		t.Error("set missing scorers should not be complete")
	}

	missing := set.MissingScorers()
	if len(missing) != 2 || missing[0] != ScorerMomentum || missing[1] != ScorerReversal {
		t.Errorf("MissingScorers() = %v, want [momentum reversal]", missing)
	}
}

func TestSentimentScaledScore(t *testing.T) {
	const epsilon = 1e-9

	tests := []struct {
		name string
		raw  float64
		want float64
	}{
		{"most bearish", -1.0, 0.0},
		{"neutral", 0.0, 0.5},
		{"most bullish", 1.0, 1.0},
		{"mildly bullish", 0.5, 0.75},
		{"clamped above", 1.8, 1.0},
		{"clamped below", -3.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SentimentRecord{Ticker: "TSLA", SentimentScore: tt.raw}
			got := r.ScaledScore()
			if diff := got - tt.want; diff > epsilon || diff < -epsilon {
				t.Errorf("ScaledScore(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
