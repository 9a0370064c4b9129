package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/engine"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one scoring run",
	Long: `Executes one full scoring run: loads price history for the universe,
builds indicator snapshots, derives rank scores, fuses them with sentiment
and persists the resulting ranking.

Example:
  go run ./cmd/quant run
  go run ./cmd/quant run --date 2026-08-28
  go run ./cmd/quant run --tickers AAPL,MSFT,NVDA`,
	RunE: runScoring,
}

var (
	runDate    string
	runTickers string
	runPull    bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runDate, "date", "", "trade date YYYY-MM-DD (default today)")
	runCmd.Flags().StringVar(&runTickers, "tickers", "", "comma-separated universe override")
	runCmd.Flags().BoolVar(&runPull, "pull-sentiment", false, "pull the sentiment feed before scoring")
}

func runScoring(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	date := time.Now().UTC()
	if runDate != "" {
		date, err = time.ParseInLocation(contracts.DateLayout, runDate, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
		}
	}

	var tickers []string
	if runTickers != "" {
		for _, t := range strings.Split(runTickers, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tickers = append(tickers, t)
			}
		}
	}

	// Ctrl+C cancels the run; nothing is written for a cancelled run
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runPull {
		if n, err := app.feed.Pull(ctx, contracts.Day(date)); err != nil {
			app.log.WithField("error", err.Error()).Warn("Sentiment pull failed, scoring with stored records")
		} else {
			fmt.Printf("Sentiment records pulled: %d\n", n)
		}
	}

	summary, err := app.engine.Run(ctx, engine.RunParams{Date: date, Tickers: tickers})
	if err != nil {
		return fmt.Errorf("scoring run: %w", err)
	}

	fmt.Printf("\nRun %s (%s)\n", summary.RunID, summary.Status)
	fmt.Printf("  Trade date: %s\n", summary.TradeDate.Format(contracts.DateLayout))
	fmt.Printf("  Universe:   %d tickers\n", summary.TickersTotal)
	fmt.Printf("  Scored:     %d\n", summary.TickersScored)
	fmt.Printf("  Skipped:    %d\n", summary.TickersSkipped)
	fmt.Printf("  Excluded:   %d\n", summary.TickersExcluded)
	fmt.Printf("  Ranked:     %d\n", summary.RankedCount)
	fmt.Printf("  Duration:   %s\n", summary.Duration().Round(time.Millisecond))
	return nil
}
