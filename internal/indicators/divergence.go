package indicators

import "math"

// DetectDivergence inspects the trailing window for a bullish divergence
// precondition: the two most recent close pivot lows, with price making a
// lower low. RSIGap is the RSI change between the same two pivots (positive
// means the oscillator made a higher low while price made a lower one).
// ConfirmBars counts the consecutive rising closes at the end of the
// series, capped at the bars since the newer pivot; it is the evidence that
// price has actually turned up off the low.
//
// A pivot low at index i has pivotSpan strictly-later bars on each side
// closing at or above it; equal closes resolve to the more recent index.
func DetectDivergence(closes, rsi []float64, window, pivotSpan int) DivergenceResult {
	var res DivergenceResult

	if len(closes) != len(rsi) || len(closes) < 2*pivotSpan+2 {
		return res
	}

	start := len(closes) - window
	if start < 0 {
		start = 0
	}

	pivots := pivotLows(closes, start, pivotSpan)
	if len(pivots) < 2 {
		return res
	}

	older := pivots[len(pivots)-2]
	newer := pivots[len(pivots)-1]
	if math.IsNaN(rsi[older]) || math.IsNaN(rsi[newer]) {
		return res
	}

	res.Detected = true
	res.OlderPivot = older
	res.NewerPivot = newer
	res.PriceLowerLow = closes[newer] < closes[older]
	res.RSIGap = rsi[newer] - rsi[older]
	res.ConfirmBars = trailingUpCloses(closes, newer)
	return res
}

// DivergenceResult is the raw detection output; BuildSnapshot condenses it
// onto the snapshot's DivergenceState
type DivergenceResult struct {
	Detected      bool
	OlderPivot    int
	NewerPivot    int
	PriceLowerLow bool
	RSIGap        float64
	ConfirmBars   int
}

// pivotLows returns the indices (ascending) of pivot lows at or after start
func pivotLows(closes []float64, start, span int) []int {
	var pivots []int
	for i := start; i < len(closes)-span; i++ {
		if i < span {
			continue
		}
		isPivot := true
		for k := 1; k <= span; k++ {
			// "<" on the left side and "<=" on the right resolves a flat
			// bottom to its most recent bar
			if closes[i-k] < closes[i] || closes[i+k] <= closes[i] {
				isPivot = false
				break
			}
		}
		if isPivot {
			pivots = append(pivots, i)
		}
	}
	return pivots
}

// trailingUpCloses counts consecutive rising closes at the end of the
// series, capped at the bars since the pivot
func trailingUpCloses(closes []float64, pivot int) int {
	count := 0
	for i := len(closes) - 1; i > 0 && closes[i] > closes[i-1]; i-- {
		count++
	}
	sincePivot := len(closes) - 1 - pivot
	if count > sincePivot {
		count = sincePivot
	}
	return count
}
