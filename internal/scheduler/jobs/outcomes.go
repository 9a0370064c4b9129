package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/outcomes"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

// OutcomesJob re-evaluates recent signal dates so pending horizons become
// final as forward bars arrive. The window is wide enough that the longest
// horizon of the oldest covered date has completed.
type OutcomesJob struct {
	evaluator  *outcomes.Evaluator
	maxHorizon int
	schedule   string
	logger     *logger.Logger
}

// NewOutcomesJob creates the outcome evaluation job
func NewOutcomesJob(eval *outcomes.Evaluator, maxHorizon int, schedule string, log *logger.Logger) *OutcomesJob {
	return &OutcomesJob{
		evaluator:  eval,
		maxHorizon: maxHorizon,
		schedule:   schedule,
		logger:     log,
	}
}

// Name returns the job name
func (j *OutcomesJob) Name() string {
	return "outcome_evaluation"
}

// Schedule returns the cron schedule
func (j *OutcomesJob) Schedule() string {
	return j.schedule
}

// Run walks the recent weekdays and evaluates each one that has a ranking.
// Evaluation upserts, so dates already final just rewrite the same rows.
func (j *OutcomesJob) Run(ctx context.Context) error {
	today := contracts.Day(time.Now().UTC())

	// Horizons count trading days; double plus a holiday margin covers the
	// calendar span
	windowDays := j.maxHorizon*2 + 7

	evaluated := 0
	pending := 0
	for back := 1; back <= windowDays; back++ {
		date := today.AddDate(0, 0, -back)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		report, err := j.evaluator.Evaluate(ctx, date)
		if err != nil {
			return fmt.Errorf("evaluate outcomes for %s: %w",
				date.Format(contracts.DateLayout), err)
		}
		evaluated += report.Evaluated
		pending += report.Pending
	}

	j.logger.WithFields(map[string]interface{}{
		"window_days": windowDays,
		"evaluated":   evaluated,
		"pending":     pending,
	}).Info("Scheduled outcome evaluation completed")

	return nil
}
