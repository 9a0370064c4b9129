package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/engine"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

// RankingJob runs the full scoring pipeline for the current trading date.
// Scheduled after the sentiment pull.
type RankingJob struct {
	engine   *engine.Engine
	schedule string
	logger   *logger.Logger
}

// NewRankingJob creates the daily scoring job
func NewRankingJob(eng *engine.Engine, schedule string, log *logger.Logger) *RankingJob {
	return &RankingJob{
		engine:   eng,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *RankingJob) Name() string {
	return "daily_ranking"
}

// Schedule returns the cron schedule
func (j *RankingJob) Schedule() string {
	return j.schedule
}

// Run executes one scoring run over the full universe
func (j *RankingJob) Run(ctx context.Context) error {
	date := contracts.Day(time.Now().UTC())

	summary, err := j.engine.Run(ctx, engine.RunParams{Date: date})
	if err != nil {
		return fmt.Errorf("scoring run for %s: %w", date.Format(contracts.DateLayout), err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id": summary.RunID,
		"date":   date.Format(contracts.DateLayout),
		"ranked": summary.RankedCount,
	}).Info("Scheduled scoring run completed")

	return nil
}
