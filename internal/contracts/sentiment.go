package contracts

import "time"

// SentimentRecord is an externally supplied sentiment reading for a ticker.
// SentimentScore is on the feed's native [-1, 1] scale; Catalyst marks a
// dated event (earnings, guidance, regulatory action).
type SentimentRecord struct {
	Ticker         string    `json:"ticker"`
	Date           time.Time `json:"date"`
	SentimentScore float64   `json:"sentiment_score"`
	SummaryCount   int       `json:"summary_count"`
	Catalyst       bool      `json:"catalyst"`
	Source         string    `json:"source"`
}

// ScaledScore maps the native [-1, 1] sentiment onto the [0, 1] scale the
// fusion engine works in. Out-of-range feed values are clamped first.
func (r SentimentRecord) ScaledScore() float64 {
	s := r.SentimentScore
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return (s + 1) / 2
}
