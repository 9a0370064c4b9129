package scoring

import "github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"

// Normalize scales raw values onto [0,1] relative to the cohort's min/max,
// so the cohort maximum lands exactly on 1.0 and the minimum exactly on
// 0.0. A degenerate cohort (fewer than two members, or zero spread) maps
// every member to the neutral 0.5 instead of dividing by zero; the second
// return reports that fallback.
//
// Scaling is recomputed per call from the cohort alone. No baseline is
// carried between runs, so a score is only comparable within its date.
func Normalize(raws []float64) ([]float64, bool) {
	out := make([]float64, len(raws))
	if len(raws) == 0 {
		return out, true
	}

	min, max := raws[0], raws[0]
	for _, r := range raws[1:] {
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}

	if len(raws) < 2 || max == min {
		for i := range out {
			out[i] = contracts.NeutralScore
		}
		return out, true
	}

	spread := max - min
	for i, r := range raws {
		out[i] = (r - min) / spread
	}
	return out, false
}
