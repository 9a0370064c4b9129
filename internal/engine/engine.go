package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/fusion"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/indicators"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/scoring"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/strategyconfig"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/config"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

// Engine orchestrates one scoring run: load series, build snapshots under a
// bounded worker pool, score the cohort cross-sectionally, fuse with
// sentiment and persist the whole batch in one transaction.
// ⭐ SSOT: the daily ranking is produced by Run() and nowhere else
type Engine struct {
	prices     contracts.PriceSeriesStore
	results    contracts.ResultStore
	sentiments contracts.SentimentStore
	scorers    []scoring.Scorer
	fuser      *fusion.Fuser
	params     indicators.Params
	maxWorkers int
	lookback   int
	configHash string
	logger     *logger.Logger
}

// RunParams selects the trade date and optionally restricts the universe.
// An empty ticker list means every ticker the price store knows.
type RunParams struct {
	Date    time.Time
	Tickers []string
}

// New wires an engine from stores and config
func New(
	prices contracts.PriceSeriesStore,
	results contracts.ResultStore,
	sentiments contracts.SentimentStore,
	strategy *strategyconfig.Config,
	engCfg config.EngineConfig,
	log *logger.Logger,
) (*Engine, error) {
	hash, err := strategyconfig.Hash(strategy)
	if err != nil {
		return nil, fmt.Errorf("hash strategy config: %w", err)
	}

	maxWorkers := engCfg.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	return &Engine{
		prices:     prices,
		results:    results,
		sentiments: sentiments,
		scorers:    scoring.All(strategy, log),
		fuser:      fusion.New(strategy.Fusion, log),
		params:     indicators.ParamsFromStrategy(strategy),
		maxWorkers: maxWorkers,
		lookback:   engCfg.LookbackDays,
		configHash: hash,
		logger:     log,
	}, nil
}

// snapshotResult carries one worker's output to the barrier
type snapshotResult struct {
	snap    contracts.IndicatorSnapshot
	skipped bool
}

// Run executes one full scoring run for a date. Per-ticker data problems
// skip the ticker and are tallied; store failures and cancellation abort
// the run before anything is written. The returned summary describes the
// run either way; it is persisted only as part of a successful batch.
func (e *Engine) Run(ctx context.Context, params RunParams) (*contracts.RunSummary, error) {
	started := time.Now().UTC()
	tradeDate := contracts.Day(params.Date)

	summary := &contracts.RunSummary{
		RunID:      contracts.GenerateRunID(started),
		TradeDate:  tradeDate,
		ConfigHash: e.configHash,
		StartedAt:  started,
	}

	fail := func(status string, err error) (*contracts.RunSummary, error) {
		summary.Status = status
		summary.Error = err.Error()
		summary.FinishedAt = time.Now().UTC()
		return summary, err
	}

	tickers := params.Tickers
	if len(tickers) == 0 {
		var err error
		tickers, err = e.prices.ListTickers(ctx)
		if err != nil {
			return fail(contracts.RunStatusFailed,
				fmt.Errorf("stage %s: list tickers: %w", contracts.StageLoadSeries, err))
		}
	}
	summary.TickersTotal = len(tickers)

	e.logger.WithFields(map[string]interface{}{
		"run_id":     summary.RunID,
		"trade_date": tradeDate.Format(contracts.DateLayout),
		"tickers":    len(tickers),
		"workers":    e.maxWorkers,
	}).Info("Scoring run started")

	snapshots, skipped, err := e.buildSnapshots(ctx, tradeDate, tickers)
	if err != nil {
		if ctx.Err() != nil {
			return fail(contracts.RunStatusCancelled, ctx.Err())
		}
		return fail(contracts.RunStatusFailed, err)
	}
	summary.TickersScored = len(snapshots)
	summary.TickersSkipped = skipped

	// Barrier: everything past here works on the full cohort. A run
	// cancelled before this point has written nothing.
	if ctx.Err() != nil {
		return fail(contracts.RunStatusCancelled, ctx.Err())
	}

	e.logger.WithFields(map[string]interface{}{
		"stage":  string(contracts.StageScoring),
		"cohort": len(snapshots),
	}).Debug("Scoring cohort")
	var allScores []contracts.RankScore
	for _, scorer := range e.scorers {
		allScores = append(allScores, scorer.Score(tradeDate, snapshots)...)
	}

	sentiments, err := e.sentiments.LoadByDate(ctx, tradeDate)
	if err != nil {
		// Absent sentiment is a defined state; every ticker falls back to
		// the neutral midpoint
		e.logger.WithFields(map[string]interface{}{
			"trade_date": tradeDate.Format(contracts.DateLayout),
			"error":      err.Error(),
		}).Warn("Sentiment load failed, fusing with neutral sentiment")
		sentiments = nil
	}

	e.logger.WithField("stage", string(contracts.StageFusion)).Debug("Fusing cohort")
	fused, excluded := e.fuser.FuseCohort(tradeDate, allScores, sentiments)
	summary.TickersExcluded = len(excluded)
	summary.RankedCount = len(fused)

	if ctx.Err() != nil {
		return fail(contracts.RunStatusCancelled, ctx.Err())
	}

	summary.Status = contracts.RunStatusCompleted
	summary.FinishedAt = time.Now().UTC()

	// The batch is complete; a cancellation arriving mid-write must not
	// tear the transaction
	batch := &contracts.BatchWrite{
		TradeDate: tradeDate,
		Snapshots: snapshots,
		Scores:    allScores,
		Fused:     fused,
		Summary:   *summary,
	}
	if err := e.results.SaveBatch(context.WithoutCancel(ctx), batch); err != nil {
		return fail(contracts.RunStatusFailed,
			fmt.Errorf("stage %s: persist batch: %w", contracts.StagePersist, err))
	}

	e.logger.WithFields(map[string]interface{}{
		"run_id":   summary.RunID,
		"scored":   summary.TickersScored,
		"skipped":  summary.TickersSkipped,
		"excluded": summary.TickersExcluded,
		"ranked":   summary.RankedCount,
		"duration": summary.Duration().String(),
	}).Info("Scoring run completed")

	return summary, nil
}

// buildSnapshots fans the universe out over a bounded worker pool and waits
// for every worker at the barrier. Skippable per-ticker errors are tallied;
// the first fatal error cancels the remaining workers and aborts.
func (e *Engine) buildSnapshots(ctx context.Context, tradeDate time.Time, tickers []string) ([]contracts.IndicatorSnapshot, int, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		results  []snapshotResult
		fatalErr error
	)
	sem := make(chan struct{}, e.maxWorkers)

	for _, ticker := range tickers {
		if runCtx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(ticker string) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := e.buildOne(runCtx, tradeDate, ticker)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if fatalErr == nil && runCtx.Err() == nil {
					fatalErr = fmt.Errorf("ticker %s: %w", ticker, err)
					cancel()
				}
				return
			}
			results = append(results, res)
		}(ticker)
	}

	wg.Wait()

	if ctx.Err() != nil {
		return nil, 0, ctx.Err()
	}
	if fatalErr != nil {
		return nil, 0, fatalErr
	}

	snapshots := make([]contracts.IndicatorSnapshot, 0, len(results))
	skipped := 0
	for _, r := range results {
		if r.skipped {
			skipped++
			continue
		}
		snapshots = append(snapshots, r.snap)
	}

	// Workers finish in arbitrary order; scoring wants a deterministic
	// cohort order
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Ticker < snapshots[j].Ticker
	})

	return snapshots, skipped, nil
}

// buildOne loads one ticker's series and builds its snapshot. Skippable
// problems come back as a skip marker, not an error.
func (e *Engine) buildOne(ctx context.Context, tradeDate time.Time, ticker string) (snapshotResult, error) {
	bars, err := e.prices.GetSeries(ctx, ticker, tradeDate, e.lookback)
	if err != nil {
		if contracts.IsSkippable(err) {
			e.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"reason": err.Error(),
			}).Debug("Ticker skipped, no usable series")
			return snapshotResult{skipped: true}, nil
		}
		return snapshotResult{}, fmt.Errorf("stage %s: %w", contracts.StageLoadSeries, err)
	}

	snap, err := indicators.BuildSnapshot(ticker, tradeDate, bars, e.params)
	if err != nil {
		if contracts.IsSkippable(err) {
			e.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"reason": err.Error(),
			}).Debug("Ticker skipped, indicator windows unfilled")
			return snapshotResult{skipped: true}, nil
		}
		return snapshotResult{}, fmt.Errorf("stage %s: %w", contracts.StageIndicators, err)
	}

	return snapshotResult{snap: snap}, nil
}
