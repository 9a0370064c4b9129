package contracts

import "time"

// PriceBar represents one daily OHLCV bar for a ticker
// ⭐ SSOT: price history rows are exchanged in this shape only
type PriceBar struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// DateLayout is the canonical YYYY-MM-DD form used in keys, logs and API paths
const DateLayout = "2006-01-02"

// Day truncates a timestamp to its UTC trading date
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidateSeries checks the per-ticker ordering guarantees: strictly
// increasing dates, no duplicates, a single ticker throughout
func ValidateSeries(bars []PriceBar) error {
	for i := 1; i < len(bars); i++ {
		if bars[i].Ticker != bars[0].Ticker {
			return &SeriesError{Ticker: bars[i].Ticker, Reason: "mixed tickers in one series"}
		}
		if !bars[i-1].Date.Before(bars[i].Date) {
			return &SeriesError{Ticker: bars[i].Ticker, Reason: "dates not strictly increasing"}
		}
	}
	return nil
}

// SeriesError reports a malformed price series
type SeriesError struct {
	Ticker string
	Reason string
}

func (e *SeriesError) Error() string {
	return "price series for " + e.Ticker + ": " + e.Reason
}
