package outcomes

import (
	"context"
	"fmt"
	"time"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/strategyconfig"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

// Evaluator measures how a past ranking performed: for every ticker ranked
// on a signal date it computes the forward return over each configured
// horizon of trading days and classifies it against the success threshold.
// Horizons with too few forward bars yet are recorded as pending and picked
// up by a later evaluation.
type Evaluator struct {
	prices    contracts.PriceSeriesStore
	results   contracts.ResultStore
	outcomes  contracts.OutcomeStore
	horizons  []int
	threshold float64
	logger    *logger.Logger
}

// NewEvaluator creates an evaluator from strategy config
func NewEvaluator(
	prices contracts.PriceSeriesStore,
	results contracts.ResultStore,
	outcomes contracts.OutcomeStore,
	cfg *strategyconfig.Config,
	log *logger.Logger,
) *Evaluator {
	return &Evaluator{
		prices:    prices,
		results:   results,
		outcomes:  outcomes,
		horizons:  cfg.Outcomes.HorizonsDays,
		threshold: cfg.Outcomes.SuccessThreshold,
		logger:    log,
	}
}

// Evaluate computes and persists outcomes for every ticker ranked on the
// signal date, returning the aggregate report
func (e *Evaluator) Evaluate(ctx context.Context, signalDate time.Time) (*contracts.OutcomeReport, error) {
	fused, err := e.results.LoadFused(ctx, signalDate)
	if err != nil {
		return nil, fmt.Errorf("load ranking for %s: %w",
			signalDate.Format(contracts.DateLayout), err)
	}

	report := &contracts.OutcomeReport{SignalDate: signalDate}
	if len(fused) == 0 {
		e.logger.WithFields(map[string]interface{}{
			"signal_date": signalDate.Format(contracts.DateLayout),
		}).Warn("No ranking found for signal date, nothing to evaluate")
		return report, nil
	}

	// Trading days are sparser than calendar days; over-fetch so the
	// longest horizon is covered even across holidays
	maxHorizon := e.horizons[len(e.horizons)-1]
	for _, h := range e.horizons {
		if h > maxHorizon {
			maxHorizon = h
		}
	}
	fetchTo := signalDate.AddDate(0, 0, maxHorizon*2+7)

	var all []contracts.SignalOutcome
	for _, opp := range fused {
		rows, err := e.evaluateTicker(ctx, opp.Ticker, signalDate, fetchTo)
		if err != nil {
			e.logger.WithFields(map[string]interface{}{
				"ticker":      opp.Ticker,
				"signal_date": signalDate.Format(contracts.DateLayout),
				"error":       err.Error(),
			}).Warn("Skipping outcome evaluation for ticker")
			continue
		}
		all = append(all, rows...)
	}

	if len(all) > 0 {
		if err := e.outcomes.SaveOutcomes(ctx, all); err != nil {
			return nil, fmt.Errorf("save outcomes: %w", err)
		}
	}

	for _, o := range all {
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
	report.Outcomes = all

	e.logger.WithFields(map[string]interface{}{
		"signal_date": signalDate.Format(contracts.DateLayout),
		"evaluated":   report.Evaluated,
		"pending":     report.Pending,
		"hit_rate":    report.HitRate(),
	}).Info("Outcome evaluation completed")

	return report, nil
}

// evaluateTicker produces one outcome row per horizon for a ranked ticker
func (e *Evaluator) evaluateTicker(ctx context.Context, ticker string, signalDate, fetchTo time.Time) ([]contracts.SignalOutcome, error) {
	bars, err := e.prices.GetCloses(ctx, ticker, signalDate, fetchTo)
	if err != nil {
		return nil, err
	}

	// Locate the entry bar; the signal date itself may be missing when a
	// ticker was halted, in which case every horizon stays pending
	entryIdx := -1
	for i, b := range bars {
		if contracts.Day(b.Date).Equal(contracts.Day(signalDate)) {
			entryIdx = i
			break
		}
	}

	rows := make([]contracts.SignalOutcome, 0, len(e.horizons))
	for _, horizon := range e.horizons {
		o := contracts.SignalOutcome{
			Ticker:      ticker,
			SignalDate:  signalDate,
			HorizonDays: horizon,
			Status:      contracts.OutcomePending,
		}

		if entryIdx >= 0 {
			entry := bars[entryIdx].Close
			exitIdx := entryIdx + horizon
			o.EntryClose = entry
			if exitIdx < len(bars) && entry > 0 {
				exit := bars[exitIdx].Close
				ret := (exit - entry) / entry
				o.ExitClose = exit
				o.Return = ret
				if ret >= e.threshold {
					o.Status = contracts.OutcomeSuccess
				} else {
					o.Status = contracts.OutcomeFailure
				}
			}
		}

		rows = append(rows, o)
	}
	return rows, nil
}
