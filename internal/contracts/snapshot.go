package contracts

import "time"

// DivergenceState captures the price/RSI relationship between the two most
// recent confirmed pivot lows of a series. It is computed once per ticker
// per run and consumed by the divergence scorer.
type DivergenceState struct {
	PriceLowerLow bool    `json:"price_lower_low"`
	RSIGap        float64 `json:"rsi_gap"`
	ConfirmBars   int     `json:"confirm_bars"`
}

// Confirmed reports whether the bullish divergence held for at least two
// consecutive bars after the second pivot
func (d DivergenceState) Confirmed() bool {
	return d.PriceLowerLow && d.RSIGap > 0 && d.ConfirmBars >= 2
}

// IndicatorSnapshot is the per-ticker, per-date output of the indicator
// stage. Scorers read cohorts of these and nothing else.
// ⭐ SSOT: every derived statistic the scorers use lives on this struct
type IndicatorSnapshot struct {
	Ticker          string          `json:"ticker"`
	Date            time.Time       `json:"date"`
	Close           float64         `json:"close"`
	MovingAverages  map[int]float64 `json:"moving_averages"`
	SupportLevel    float64         `json:"support_level"`
	ResistanceLevel float64         `json:"resistance_level"`
	VolatilityStat  float64         `json:"volatility"`
	SkewStat        float64         `json:"skew"`
	RateOfChange    float64         `json:"rate_of_change"`
	RSI             float64         `json:"rsi"`
	Divergence      DivergenceState `json:"divergence"`
}

// MA returns the moving average for a window and whether it was computed
func (s *IndicatorSnapshot) MA(window int) (float64, bool) {
	if s.MovingAverages == nil {
		return 0, false
	}
	v, ok := s.MovingAverages[window]
	return v, ok
}
