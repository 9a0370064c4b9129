package indicators

import (
	"fmt"
	"math"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
)

// Pure calculators over ordered close series (oldest first). Identical
// inputs always yield identical outputs; nothing here reads or writes
// shared state.

// MovingAverage returns the arithmetic mean of the trailing window closes
func MovingAverage(closes []float64, window int) (float64, error) {
	if window < 1 {
		return 0, fmt.Errorf("moving average window %d: %w", window, contracts.ErrInsufficientHistory)
	}
	if len(closes) < window {
		return 0, fmt.Errorf("moving average window %d over %d bars: %w",
			window, len(closes), contracts.ErrInsufficientHistory)
	}

	var sum float64
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return sum / float64(window), nil
}

// SupportResistance returns the minimum and maximum close over the trailing
// window. Ties resolve to the most recent occurrence, which matters only to
// callers that also want the position (pivot detection keeps its own scan).
func SupportResistance(closes []float64, window int) (support, resistance float64, err error) {
	if len(closes) < window {
		return 0, 0, fmt.Errorf("support/resistance window %d over %d bars: %w",
			window, len(closes), contracts.ErrInsufficientHistory)
	}

	tail := closes[len(closes)-window:]
	support, resistance = tail[0], tail[0]
	for _, c := range tail[1:] {
		if c <= support {
			support = c
		}
		if c >= resistance {
			resistance = c
		}
	}
	return support, resistance, nil
}

// DailyReturns returns simple percentage returns between consecutive
// closes. A zero close yields a zero return rather than an infinity.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	return returns
}

// Volatility returns the sample standard deviation of returns. Degenerate
// samples (fewer than two returns, or all returns equal) yield 0.
func Volatility(returns []float64) float64 {
	n := len(returns)
	if n < 2 {
		return 0
	}

	mean := meanOf(returns)
	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(n - 1)
	if variance == 0 {
		return 0
	}
	return math.Sqrt(variance)
}

// Skew returns the standardized third moment of returns. Degenerate
// variance or fewer than three samples yield 0.
func Skew(returns []float64) float64 {
	n := len(returns)
	if n < 3 {
		return 0
	}

	mean := meanOf(returns)
	var m2, m3 float64
	for _, r := range returns {
		d := r - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= float64(n)
	m3 /= float64(n)
	if m2 == 0 {
		return 0
	}
	return m3 / math.Pow(m2, 1.5)
}

// RateOfChange returns the fractional change of close over the trailing
// window: (last - close[window bars ago]) / close[window bars ago]
func RateOfChange(closes []float64, window int) (float64, error) {
	if len(closes) < window+1 {
		return 0, fmt.Errorf("rate of change window %d over %d bars: %w",
			window, len(closes), contracts.ErrInsufficientHistory)
	}

	base := closes[len(closes)-1-window]
	if base == 0 {
		return 0, nil
	}
	return (closes[len(closes)-1] - base) / base, nil
}

// RSISeries returns the Wilder-smoothed relative strength index per bar.
// The first period entries are NaN (not enough history for a reading).
func RSISeries(closes []float64, period int) []float64 {
	if len(closes) <= period {
		return nil
	}

	series := make([]float64, len(closes))
	for i := range series {
		series[i] = math.NaN()
	}

	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	series[period] = rsiFromAvg(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain := math.Max(delta, 0)
		loss := math.Max(-delta, 0)
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		series[i] = rsiFromAvg(avgGain, avgLoss)
	}
	return series
}

func rsiFromAvg(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
