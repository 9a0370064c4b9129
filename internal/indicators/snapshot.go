package indicators

import (
	"fmt"
	"math"
	"time"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/strategyconfig"
)

// Params holds every window the snapshot builder needs. Scorers never see
// these: everything they consume is computed here and carried on the
// snapshot.
type Params struct {
	MAWindows        []int
	SupportWindow    int
	VolatilityWindow int
	RSIPeriod        int
	MomentumWindow   int
	DivergenceWindow int
	PivotSpan        int
}

// ParamsFromStrategy maps a validated strategy config onto builder params
func ParamsFromStrategy(cfg *strategyconfig.Config) Params {
	return Params{
		MAWindows:        cfg.Indicators.MAWindows,
		SupportWindow:    cfg.Indicators.SupportWindow,
		VolatilityWindow: cfg.Indicators.VolatilityWindow,
		RSIPeriod:        cfg.Indicators.RSIPeriod,
		MomentumWindow:   cfg.Scoring.MomentumWindow,
		DivergenceWindow: cfg.Scoring.Divergence.Window,
		PivotSpan:        cfg.Scoring.Divergence.PivotSpan,
	}
}

// BuildSnapshot assembles one IndicatorSnapshot from an ordered bar series.
// The series must already satisfy the store's minimum-bars gate; any window
// the series still cannot fill surfaces as ErrInsufficientHistory and the
// ticker is skipped for the date.
func BuildSnapshot(ticker string, asOf time.Time, bars []contracts.PriceBar, p Params) (contracts.IndicatorSnapshot, error) {
	snap := contracts.IndicatorSnapshot{
		Ticker:         ticker,
		Date:           contracts.Day(asOf),
		MovingAverages: make(map[int]float64, len(p.MAWindows)),
	}

	if err := contracts.ValidateSeries(bars); err != nil {
		return snap, err
	}
	if len(bars) == 0 {
		return snap, fmt.Errorf("ticker %s: empty series: %w", ticker, contracts.ErrInsufficientHistory)
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	snap.Close = closes[len(closes)-1]

	for _, w := range p.MAWindows {
		ma, err := MovingAverage(closes, w)
		if err != nil {
			return snap, fmt.Errorf("ticker %s: %w", ticker, err)
		}
		snap.MovingAverages[w] = ma
	}

	support, resistance, err := SupportResistance(closes, p.SupportWindow)
	if err != nil {
		return snap, fmt.Errorf("ticker %s: %w", ticker, err)
	}
	snap.SupportLevel = support
	snap.ResistanceLevel = resistance

	returns := DailyReturns(closes)
	if len(returns) > p.VolatilityWindow {
		returns = returns[len(returns)-p.VolatilityWindow:]
	}
	snap.VolatilityStat = Volatility(returns)
	snap.SkewStat = Skew(returns)

	roc, err := RateOfChange(closes, p.MomentumWindow)
	if err != nil {
		return snap, fmt.Errorf("ticker %s: %w", ticker, err)
	}
	snap.RateOfChange = roc

	rsi := RSISeries(closes, p.RSIPeriod)
	if rsi == nil {
		return snap, fmt.Errorf("ticker %s: rsi period %d over %d bars: %w",
			ticker, p.RSIPeriod, len(closes), contracts.ErrInsufficientHistory)
	}
	if last := rsi[len(rsi)-1]; !math.IsNaN(last) {
		snap.RSI = last
	}

	div := DetectDivergence(closes, rsi, p.DivergenceWindow, p.PivotSpan)
	if div.Detected {
		snap.Divergence = contracts.DivergenceState{
			PriceLowerLow: div.PriceLowerLow,
			RSIGap:        div.RSIGap,
			ConfirmBars:   div.ConfirmBars,
		}
	}

	return snap, nil
}
