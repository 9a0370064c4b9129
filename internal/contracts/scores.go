package contracts

import "time"

// Scorer names. These are persisted, so the strings are part of the schema.
const (
	ScorerMomentum   = "momentum"
	ScorerReversal   = "reversal"
	ScorerDivergence = "divergence"
)

// AllScorers lists every scorer the fusion stage requires, in fusion order
var AllScorers = []string{ScorerMomentum, ScorerReversal, ScorerDivergence}

// NeutralScore is the fallback when a cohort is degenerate or an optional
// input (sentiment) is missing
const NeutralScore = 0.5

// RankScore is one scorer's normalized output for one ticker on one date.
// Score is always in [0, 1].
type RankScore struct {
	Ticker   string    `json:"ticker"`
	Date     time.Time `json:"date"`
	Scorer   string    `json:"scorer"`
	Score    float64   `json:"score"`
	RawValue float64   `json:"raw_value"`
}

// ScoreSet groups one ticker's scores across scorers for a single date
type ScoreSet struct {
	Ticker string               `json:"ticker"`
	Date   time.Time            `json:"date"`
	Scores map[string]RankScore `json:"scores"`
}

// Complete reports whether every required scorer contributed a score
func (s *ScoreSet) Complete() bool {
	for _, name := range AllScorers {
		if _, ok := s.Scores[name]; !ok {
			return false
		}
	}
	return true
}

// MissingScorers returns the required scorers absent from the set, in
// fusion order
func (s *ScoreSet) MissingScorers() []string {
	var missing []string
	for _, name := range AllScorers {
		if _, ok := s.Scores[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
