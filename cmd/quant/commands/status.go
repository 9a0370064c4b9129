package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent runs and the latest ranking",
	Long: `Shows the most recent run summaries and the head of the latest ranking.

Example:
  go run ./cmd/quant status
  go run ./cmd/quant status --runs 10 --top 5`,
	RunE: runStatus,
}

var (
	statusRuns int
	statusTop  int
)

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().IntVar(&statusRuns, "runs", 5, "number of run summaries to show")
	statusCmd.Flags().IntVar(&statusTop, "top", 0, "ranking rows to show (default: strategy top_n.overall)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	runs, err := app.results.ListRuns(ctx, statusRuns)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	fmt.Println("Recent runs:")
	if len(runs) == 0 {
		fmt.Println("  (none)")
	}
	for _, r := range runs {
		fmt.Printf("  %s  %-10s  date=%s scored=%d skipped=%d ranked=%d  %s\n",
			r.RunID, r.Status, r.TradeDate.Format(contracts.DateLayout),
			r.TickersScored, r.TickersSkipped, r.RankedCount,
			r.Duration().Round(time.Millisecond))
		if r.Error != "" {
			fmt.Printf("      error: %s\n", r.Error)
		}
	}

	date, fused, err := app.results.LoadLatestFused(ctx)
	if err != nil {
		return fmt.Errorf("load latest ranking: %w", err)
	}
	if len(fused) == 0 {
		fmt.Println("\nNo ranking available yet")
		return nil
	}

	top := statusTop
	if !cmd.Flags().Changed("top") {
		top = app.strategy.TopN.Overall
	}
	if top > 0 && top < len(fused) {
		fused = fused[:top]
	}

	fmt.Printf("\nLatest ranking (%s):\n", date.Format(contracts.DateLayout))
	for _, opp := range fused {
		catalyst := ""
		if opp.CatalystApplied {
			catalyst = "  [catalyst]"
		}
		fmt.Printf("  %2d. %-8s %.4f%s\n",
			opp.RankPosition, opp.Ticker, opp.CompositeScore, catalyst)
	}

	scores, err := app.results.LoadScores(ctx, date)
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}
	printScorerTop(scores, contracts.ScorerMomentum, "Top momentum", app.strategy.TopN.Momentum)
	printScorerTop(scores, contracts.ScorerReversal, "Top reversal", app.strategy.TopN.Reversal)
	return nil
}

// printScorerTop lists the highest-scoring tickers for one scorer, sized by
// the strategy's per-scorer top-N
func printScorerTop(scores []contracts.RankScore, scorer, label string, n int) {
	var rows []contracts.RankScore
	for _, s := range scores {
		if s.Scorer == scorer {
			rows = append(rows, s)
		}
	}
	if len(rows) == 0 || n < 1 {
		return
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Ticker < rows[j].Ticker
	})
	if n < len(rows) {
		rows = rows[:n]
	}

	fmt.Printf("\n%s:\n", label)
	for i, s := range rows {
		fmt.Printf("  %2d. %-8s %.4f\n", i+1, s.Ticker, s.Score)
	}
}
