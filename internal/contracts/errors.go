package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the per-ticker pipeline. Callers match these with
// errors.Is; the engine skips the ticker and keeps the run alive.
var (
	// ErrDataUnavailable means the price store has no series, or fewer
	// bars than the configured minimum, for the requested ticker
	ErrDataUnavailable = errors.New("price data unavailable")

	// ErrInsufficientHistory means a calculator was asked for a window
	// longer than the series it was given
	ErrInsufficientHistory = errors.New("insufficient history for window")

	// ErrDegenerateCohort is reported (not returned up) when a scorer
	// cohort has fewer than two members or zero spread. Scores fall back
	// to the neutral 0.5, so this never fails a run.
	ErrDegenerateCohort = errors.New("degenerate scoring cohort")
)

// FusionIntegrityError means a ticker reached the fusion stage without the
// full set of rank scores. The ticker is excluded from the ranking for the
// date; missing components are never zero-filled.
type FusionIntegrityError struct {
	Ticker  string
	Missing []string
}

func (e *FusionIntegrityError) Error() string {
	return fmt.Sprintf("fusion integrity: ticker %s missing scores [%s]",
		e.Ticker, strings.Join(e.Missing, ", "))
}

// IsSkippable reports whether an error should drop a single ticker from the
// run rather than abort the batch
func IsSkippable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDataUnavailable) || errors.Is(err, ErrInsufficientHistory) {
		return true
	}
	var fie *FusionIntegrityError
	return errors.As(err, &fie)
}
