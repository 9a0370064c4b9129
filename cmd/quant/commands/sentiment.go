package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
)

var sentimentCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Manage sentiment records",
	Long: `Pulls the collaborator sentiment feed for a date.

Example:
  go run ./cmd/quant sentiment pull
  go run ./cmd/quant sentiment pull --date 2026-08-28`,
}

var sentimentPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull the sentiment feed",
	RunE:  runSentimentPull,
}

var sentimentDate string

func init() {
	rootCmd.AddCommand(sentimentCmd)
	sentimentCmd.AddCommand(sentimentPullCmd)

	sentimentPullCmd.Flags().StringVar(&sentimentDate, "date", "", "date YYYY-MM-DD (default today)")
}

func runSentimentPull(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	date := contracts.Day(time.Now().UTC())
	if sentimentDate != "" {
		date, err = time.ParseInLocation(contracts.DateLayout, sentimentDate, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
		}
	}

	if !app.feed.Enabled() {
		return fmt.Errorf("sentiment feed disabled; set SENTIMENT_FEED_URL and SENTIMENT_FEED_ENABLED")
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.SentimentFeed.Timeout+10*time.Second)
	defer cancel()

	n, err := app.feed.Pull(ctx, date)
	if err != nil {
		return fmt.Errorf("pull sentiment feed: %w", err)
	}

	fmt.Printf("Stored %d sentiment records for %s\n", n, date.Format(contracts.DateLayout))
	return nil
}
