package contracts

import "time"

// OutcomeStatus values for a horizon evaluation
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePending = "pending"
)

// SignalOutcome records how a ranked ticker performed over one forward
// horizon measured in trading days from the signal date
type SignalOutcome struct {
	Ticker      string    `json:"ticker"`
	SignalDate  time.Time `json:"signal_date"`
	HorizonDays int       `json:"horizon_days"`
	EntryClose  float64   `json:"entry_close"`
	ExitClose   float64   `json:"exit_close"`
	Return      float64   `json:"return"`
	Status      string    `json:"status"`
}

// OutcomeReport aggregates outcomes for one signal date
type OutcomeReport struct {
	SignalDate time.Time       `json:"signal_date"`
	Evaluated  int             `json:"evaluated"`
	Pending    int             `json:"pending"`
	Successes  int             `json:"successes"`
	Outcomes   []SignalOutcome `json:"outcomes"`
}

// HitRate is the share of evaluated horizons that met the success threshold.
// Pending horizons are excluded from the denominator.
func (r *OutcomeReport) HitRate() float64 {
	if r.Evaluated == 0 {
		return 0
	}
	return float64(r.Successes) / float64(r.Evaluated)
}
