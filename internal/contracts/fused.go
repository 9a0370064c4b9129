package contracts

import "time"

// Component names as persisted in a FusedOpportunity's component map
const (
	ComponentMomentum   = ScorerMomentum
	ComponentReversal   = ScorerReversal
	ComponentDivergence = ScorerDivergence
	ComponentSentiment  = "sentiment"
)

// CatalystBonus is the default bonus added to the composite when a
// same-date catalyst exists; strategy config can override it. The composite
// is capped at 1.0 afterwards.
const CatalystBonus = 0.05

// FusedOpportunity is one row of the final ranking for a date
type FusedOpportunity struct {
	Ticker          string             `json:"ticker"`
	Date            time.Time          `json:"date"`
	CompositeScore  float64            `json:"composite_score"`
	RankPosition    int                `json:"rank_position"`
	ComponentScores map[string]float64 `json:"component_scores"`
	CatalystApplied bool               `json:"catalyst_applied"`
}

// Component returns a named component score, defaulting to neutral when the
// map predates a component (historical rows)
func (f *FusedOpportunity) Component(name string) float64 {
	if v, ok := f.ComponentScores[name]; ok {
		return v
	}
	return NeutralScore
}

// IsTopRanked reports whether the row sits within the first n rank positions
func (f *FusedOpportunity) IsTopRanked(n int) bool {
	return f.RankPosition >= 1 && f.RankPosition <= n
}
