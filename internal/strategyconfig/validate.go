package strategyconfig

import (
	"fmt"
	"math"
)

// ValidationError is a fatal constraint violation; the run does not start
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning is a recommended-practice violation; logged, never fatal
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Indicators ===
	if len(cfg.Indicators.MAWindows) == 0 {
		return ValidationError{"indicators.ma_windows", "must not be empty"}
	}
	seen := make(map[int]bool, len(cfg.Indicators.MAWindows))
	for _, w := range cfg.Indicators.MAWindows {
		if w < 2 {
			return ValidationError{"indicators.ma_windows", fmt.Sprintf("window %d must be >= 2", w)}
		}
		if seen[w] {
			return ValidationError{"indicators.ma_windows", fmt.Sprintf("duplicate window %d", w)}
		}
		seen[w] = true
	}
	if cfg.Indicators.SupportWindow < 2 {
		return ValidationError{"indicators.support_resistance_window", "must be >= 2"}
	}
	if cfg.Indicators.VolatilityWindow < 2 {
		return ValidationError{"indicators.volatility_window", "must be >= 2"}
	}
	if cfg.Indicators.RSIPeriod < 2 {
		return ValidationError{"indicators.rsi_period", "must be >= 2"}
	}

	// === Scoring ===
	if cfg.Scoring.MomentumWindow < 1 {
		return ValidationError{"scoring.momentum_window", "must be >= 1"}
	}
	// The reversal deviation reads the snapshot's moving averages, so its
	// window has to be one the indicator stage computes
	if !seen[cfg.Scoring.ReversalWindow] {
		return ValidationError{"scoring.reversal_window",
			fmt.Sprintf("window %d not present in indicators.ma_windows", cfg.Scoring.ReversalWindow)}
	}

	d := cfg.Scoring.Divergence
	if d.Window < 4 {
		return ValidationError{"scoring.divergence.window", "must be >= 4"}
	}
	if d.PivotSpan < 1 {
		return ValidationError{"scoring.divergence.pivot_span", "must be >= 1"}
	}
	if d.Window <= 2*d.PivotSpan+1 {
		return ValidationError{"scoring.divergence.window", "must exceed 2*pivot_span+1"}
	}
	if d.ConfirmBars < 1 {
		return ValidationError{"scoring.divergence.confirm_bars", "must be >= 1"}
	}
	if d.ProximityBand <= 0 {
		return ValidationError{"scoring.divergence.proximity_band", "must be > 0"}
	}
	if d.UnconfirmedScore < 0 || d.UnconfirmedScore >= 0.5 {
		return ValidationError{"scoring.divergence.unconfirmed_score", "must be in [0, 0.5)"}
	}

	// === Fusion ===
	w := cfg.Fusion.Weights
	if w.Momentum < 0 || w.Reversal < 0 || w.Divergence < 0 || w.Sentiment < 0 {
		return ValidationError{"fusion.weights", "must all be >= 0"}
	}
	if math.Abs(w.Sum()-1.0) > 1e-6 {
		return ValidationError{"fusion.weights", fmt.Sprintf("must sum to 1.0, got %.4f", w.Sum())}
	}
	if cfg.Fusion.CatalystBonus < 0 || cfg.Fusion.CatalystBonus > 0.5 {
		return ValidationError{"fusion.catalyst_bonus", "must be in [0, 0.5]"}
	}

	// === TopN ===
	if cfg.TopN.Momentum < 1 || cfg.TopN.Reversal < 1 || cfg.TopN.Overall < 1 {
		return ValidationError{"top_n", "all list sizes must be >= 1"}
	}

	// === Outcomes ===
	if len(cfg.Outcomes.HorizonsDays) == 0 {
		return ValidationError{"outcomes.horizons_days", "must not be empty"}
	}
	prev := 0
	for _, h := range cfg.Outcomes.HorizonsDays {
		if h <= prev {
			return ValidationError{"outcomes.horizons_days", "must be strictly increasing positive days"}
		}
		prev = h
	}
	if cfg.Outcomes.SuccessThreshold <= 0 {
		return ValidationError{"outcomes.success_threshold", "must be > 0"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	if cfg.Fusion.Weights.Sentiment > 0.4 {
		warnings = append(warnings, Warning{
			Code:    "HEAVY_SENTIMENT",
			Message: "sentiment weight > 0.4: ranking dominated by an external input",
		})
	}

	if cfg.Scoring.MomentumWindow < 10 {
		warnings = append(warnings, Warning{
			Code:    "SHORT_MOMENTUM",
			Message: "momentum window < 10 bars: rate-of-change will be noisy",
		})
	}

	if cfg.Fusion.CatalystBonus > 0.1 {
		warnings = append(warnings, Warning{
			Code:    "LARGE_CATALYST_BONUS",
			Message: "catalyst bonus > 0.1: a single flag can outweigh a whole component",
		})
	}

	return warnings
}
