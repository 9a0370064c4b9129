package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/sentiment"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

// SentimentFeedJob pulls the collaborator sentiment feed for the current
// trading date. Scheduled before the ranking job so the scoring run fuses
// against fresh records.
type SentimentFeedJob struct {
	feed     *sentiment.FeedClient
	schedule string
	logger   *logger.Logger
}

// NewSentimentFeedJob creates the feed pull job
func NewSentimentFeedJob(feed *sentiment.FeedClient, schedule string, log *logger.Logger) *SentimentFeedJob {
	return &SentimentFeedJob{
		feed:     feed,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *SentimentFeedJob) Name() string {
	return "sentiment_feed"
}

// Schedule returns the cron schedule
func (j *SentimentFeedJob) Schedule() string {
	return j.schedule
}

// Run pulls today's feed
func (j *SentimentFeedJob) Run(ctx context.Context) error {
	date := contracts.Day(time.Now().UTC())

	n, err := j.feed.Pull(ctx, date)
	if err != nil {
		return fmt.Errorf("pull sentiment feed: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"date":    date.Format(contracts.DateLayout),
		"records": n,
	}).Info("Scheduled sentiment pull completed")

	return nil
}
