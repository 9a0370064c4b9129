package strategyconfig

import (
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
)

// Config holds every tunable of the ranking strategy: indicator windows,
// scorer parameters, fusion weights and outcome evaluation settings.
// Loaded from YAML; the canonical hash of the loaded config is recorded in
// every run summary so a ranking can always be traced back to the exact
// parameters that produced it.
type Config struct {
	Meta       Meta       `yaml:"meta" json:"meta"`
	Indicators Indicators `yaml:"indicators" json:"indicators"`
	Scoring    Scoring    `yaml:"scoring" json:"scoring"`
	Fusion     Fusion     `yaml:"fusion" json:"fusion"`
	TopN       TopN       `yaml:"top_n" json:"top_n"`
	Outcomes   Outcomes   `yaml:"outcomes" json:"outcomes"`
}

// Meta identifies the strategy revision
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Indicators holds the windows for the indicator snapshot stage
type Indicators struct {
	MAWindows        []int `yaml:"ma_windows" json:"ma_windows"`
	SupportWindow    int   `yaml:"support_resistance_window" json:"support_resistance_window"`
	VolatilityWindow int   `yaml:"volatility_window" json:"volatility_window"`
	RSIPeriod        int   `yaml:"rsi_period" json:"rsi_period"`
}

// Scoring holds per-scorer parameters
type Scoring struct {
	MomentumWindow int        `yaml:"momentum_window" json:"momentum_window"`
	ReversalWindow int        `yaml:"reversal_window" json:"reversal_window"`
	Divergence     Divergence `yaml:"divergence" json:"divergence"`
}

// Divergence holds the bullish-divergence detection thresholds
type Divergence struct {
	// Window is the trailing span (bars) searched for pivot lows
	Window int `yaml:"window" json:"window"`
	// PivotSpan is the number of higher closes required on each side of a
	// pivot low
	PivotSpan int `yaml:"pivot_span" json:"pivot_span"`
	// ConfirmBars is the number of consecutive rising closes after the
	// newer pivot required for a confirmed divergence
	ConfirmBars int `yaml:"confirm_bars" json:"confirm_bars"`
	// ProximityBand is the RSI-point distance over which a still-negative
	// RSI gap decays to zero proximity score
	ProximityBand float64 `yaml:"proximity_band" json:"proximity_band"`
	// UnconfirmedScore is the raw score for a detected but not yet
	// confirmed divergence; must stay below 0.5 so only confirmation
	// reaches the full 1.0 weighting
	UnconfirmedScore float64 `yaml:"unconfirmed_score" json:"unconfirmed_score"`
}

// Fusion holds composite weighting
type Fusion struct {
	Weights       Weights `yaml:"weights" json:"weights"`
	CatalystBonus float64 `yaml:"catalyst_bonus" json:"catalyst_bonus"`
}

// Weights for the four fusion components; must sum to 1.0
type Weights struct {
	Momentum   float64 `yaml:"momentum" json:"momentum"`
	Reversal   float64 `yaml:"reversal" json:"reversal"`
	Divergence float64 `yaml:"divergence" json:"divergence"`
	Sentiment  float64 `yaml:"sentiment" json:"sentiment"`
}

// Sum returns the total of all component weights
func (w Weights) Sum() float64 {
	return w.Momentum + w.Reversal + w.Divergence + w.Sentiment
}

// TopN holds the list sizes used by status, export and the rankings API
type TopN struct {
	Momentum int `yaml:"momentum" json:"momentum"`
	Reversal int `yaml:"reversal" json:"reversal"`
	Overall  int `yaml:"overall" json:"overall"`
}

// Outcomes holds forward-return evaluation settings
type Outcomes struct {
	// HorizonsDays are the forward trading-day horizons evaluated per
	// ranked ticker
	HorizonsDays []int `yaml:"horizons_days" json:"horizons_days"`
	// SuccessThreshold is the forward return at or above which a horizon
	// counts as a success
	SuccessThreshold float64 `yaml:"success_threshold" json:"success_threshold"`
}

// Default returns the built-in strategy used when no YAML file is configured
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "quant-rank-default",
			Version:    "1.0",
		},
		Indicators: Indicators{
			MAWindows:        []int{20, 50},
			SupportWindow:    20,
			VolatilityWindow: 20,
			RSIPeriod:        14,
		},
		Scoring: Scoring{
			MomentumWindow: 20,
			ReversalWindow: 20,
			Divergence: Divergence{
				Window:           20,
				PivotSpan:        2,
				ConfirmBars:      2,
				ProximityBand:    10.0,
				UnconfirmedScore: 0.45,
			},
		},
		Fusion: Fusion{
			Weights: Weights{
				Momentum:   0.35,
				Reversal:   0.25,
				Divergence: 0.20,
				Sentiment:  0.20,
			},
			CatalystBonus: contracts.CatalystBonus,
		},
		TopN: TopN{
			Momentum: 10,
			Reversal: 5,
			Overall:  10,
		},
		Outcomes: Outcomes{
			HorizonsDays:     []int{3, 5, 10, 14},
			SuccessThreshold: 0.04,
		},
	}
}

// MaxWindow returns the largest window the strategy needs, the floor for
// the price-series lookback
func (c *Config) MaxWindow() int {
	max := c.Scoring.MomentumWindow + 1 // ROC needs window+1 closes
	for _, w := range c.Indicators.MAWindows {
		if w > max {
			max = w
		}
	}
	if c.Indicators.SupportWindow > max {
		max = c.Indicators.SupportWindow
	}
	if c.Indicators.VolatilityWindow+1 > max {
		max = c.Indicators.VolatilityWindow + 1
	}
	if c.Indicators.RSIPeriod+1 > max {
		max = c.Indicators.RSIPeriod + 1
	}
	if c.Scoring.Divergence.Window > max {
		max = c.Scoring.Divergence.Window
	}
	return max
}

// MaxHorizon returns the longest outcome horizon in trading days
func (c *Config) MaxHorizon() int {
	max := 0
	for _, h := range c.Outcomes.HorizonsDays {
		if h > max {
			max = h
		}
	}
	return max
}
