package contracts

import (
	"testing"
	"time"
)

func bar(ticker string, day int, close float64) PriceBar {
	return PriceBar{
		Ticker: ticker,
		Date:   time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		Close:  close,
	}
}

func TestValidateSeries(t *testing.T) {
	ok := []PriceBar{bar("AAPL", 9, 181.2), bar("AAPL", 10, 183.0), bar("AAPL", 11, 182.4)}
	if err := ValidateSeries(ok); err != nil {
		t.Errorf("ordered series should validate, got %v", err)
	}

	if err := ValidateSeries(nil); err != nil {
		t.Errorf("empty series should validate, got %v", err)
	}

	dup := []PriceBar{bar("AAPL", 10, 183.0), bar("AAPL", 10, 183.0)}
	if err := ValidateSeries(dup); err == nil {
		t.Error("duplicate dates should fail validation")
	}

	mixed := []PriceBar{bar("AAPL", 10, 183.0), bar("MSFT", 11, 402.5)}
	if err := ValidateSeries(mixed); err == nil {
		t.Error("mixed tickers should fail validation")
	}
}

func TestDay(t *testing.T) {
	ts := time.Date(2026, 3, 12, 16, 30, 45, 999, time.UTC)
	got := Day(ts)
	want := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Day(%v) = %v, want %v", ts, got, want)
	}
}

func TestGenerateRunID(t *testing.T) {
	ts := time.Date(2026, 3, 12, 16, 30, 0, 0, time.UTC)
	if got := GenerateRunID(ts); got != "run_20260312_163000" {
		t.Errorf("GenerateRunID = %q, want run_20260312_163000", got)
	}
}

func TestFusedHelpers(t *testing.T) {
	f := &FusedOpportunity{
		Ticker:       "NVDA",
		RankPosition: 3,
		ComponentScores: map[string]float64{
			ComponentMomentum: 0.95,
		},
	}

	if !f.IsTopRanked(5) {
		t.Error("rank 3 should be within top 5")
	}
	if f.IsTopRanked(2) {
		t.Error("rank 3 should not be within top 2")
	}
	if got := f.Component(ComponentMomentum); got != 0.95 {
		t.Errorf("Component(momentum) = %v, want 0.95", got)
	}
	if got := f.Component(ComponentSentiment); got != NeutralScore {
		t.Errorf("missing component should default to %v, got %v", NeutralScore, got)
	}
}
