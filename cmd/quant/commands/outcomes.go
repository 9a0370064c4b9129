package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
)

var outcomesCmd = &cobra.Command{
	Use:   "outcomes",
	Short: "Evaluate and inspect signal outcomes",
	Long: `Evaluates how past rankings performed over the configured forward
horizons and shows the per-ticker results.

Example:
  go run ./cmd/quant outcomes evaluate --date 2026-08-14
  go run ./cmd/quant outcomes show --date 2026-08-14`,
}

var (
	outcomesEvaluateCmd = &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate forward returns for a signal date",
		RunE:  runOutcomesEvaluate,
	}

	outcomesShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show stored outcomes for a signal date",
		RunE:  runOutcomesShow,
	}
)

var outcomesDate string

func init() {
	rootCmd.AddCommand(outcomesCmd)
	outcomesCmd.AddCommand(outcomesEvaluateCmd)
	outcomesCmd.AddCommand(outcomesShowCmd)

	outcomesCmd.PersistentFlags().StringVar(&outcomesDate, "date", "", "signal date YYYY-MM-DD (required)")
	outcomesCmd.MarkPersistentFlagRequired("date")
}

func parseOutcomesDate() (time.Time, error) {
	d, err := time.ParseInLocation(contracts.DateLayout, outcomesDate, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
	}
	return d, nil
}

func runOutcomesEvaluate(cmd *cobra.Command, args []string) error {
	date, err := parseOutcomesDate()
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := app.evaluator.Evaluate(ctx, date)
	if err != nil {
		return fmt.Errorf("evaluate outcomes: %w", err)
	}

	printOutcomeReport(report)
	return nil
}

func runOutcomesShow(cmd *cobra.Command, args []string) error {
	date, err := parseOutcomesDate()
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := app.outcomes.LoadOutcomes(ctx, date)
	if err != nil {
		return fmt.Errorf("load outcomes: %w", err)
	}

	report := &contracts.OutcomeReport{SignalDate: date, Outcomes: rows}
	for _, o := range rows {
		switch o.Status {
		case contracts.OutcomePending:
			report.Pending++
		case contracts.OutcomeSuccess:
			report.Evaluated++
			report.Successes++
		default:
			report.Evaluated++
		}
	}

	printOutcomeReport(report)
	return nil
}

func printOutcomeReport(report *contracts.OutcomeReport) {
	fmt.Printf("Outcomes for %s\n", report.SignalDate.Format(contracts.DateLayout))
	fmt.Printf("  Evaluated: %d\n", report.Evaluated)
	fmt.Printf("  Pending:   %d\n", report.Pending)
	fmt.Printf("  Successes: %d\n", report.Successes)
	fmt.Printf("  Hit rate:  %.1f%%\n", report.HitRate()*100)

	if len(report.Outcomes) == 0 {
		fmt.Println("  (no outcome rows)")
		return
	}

	fmt.Println()
	for _, o := range report.Outcomes {
		if o.Status == contracts.OutcomePending {
			fmt.Printf("  %-8s h%-3d pending\n", o.Ticker, o.HorizonDays)
			continue
		}
		fmt.Printf("  %-8s h%-3d %-8s return=%+.2f%% (%.2f -> %.2f)\n",
			o.Ticker, o.HorizonDays, o.Status, o.Return*100, o.EntryClose, o.ExitClose)
	}
}
