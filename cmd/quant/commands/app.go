package commands

import (
	"fmt"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/engine"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/marketdata"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/outcomes"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/results"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/sentiment"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/strategyconfig"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/config"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/database"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/httputil"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/redis"
)

// app holds the wired components every command builds on
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	redis    *redis.Client
	strategy *strategyconfig.Config

	prices     *marketdata.Store
	results    *results.Repository
	sentiments *sentiment.Repository
	outcomes   *outcomes.Repository

	engine    *engine.Engine
	evaluator *outcomes.Evaluator
	feed      *sentiment.FeedClient
}

// newApp loads config and connects every store
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	path := cfg.StrategyPath
	if strategyPath != "" {
		path = strategyPath
	}
	strategy, err := strategyconfig.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load strategy: %w", err)
	}
	for _, warning := range strategyconfig.Warn(strategy) {
		log.WithFields(map[string]interface{}{
			"code":    warning.Code,
			"message": warning.Message,
		}).Warn("Strategy configuration warning")
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	priceRepo := marketdata.NewRepository(db.Pool)
	prices := marketdata.NewStore(priceRepo, cfg.Engine, log)
	resultRepo := results.NewRepository(db.Pool)
	sentimentRepo := sentiment.NewRepository(db.Pool)
	outcomeRepo := outcomes.NewRepository(db.Pool)

	eng, err := engine.New(prices, resultRepo, sentimentRepo, strategy, cfg.Engine, log)
	if err != nil {
		db.Close()
		rdb.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}

	evaluator := outcomes.NewEvaluator(prices, resultRepo, outcomeRepo, strategy, log)

	feedHTTP := httputil.NewWithTimeout(cfg, log, cfg.SentimentFeed.Timeout).
		WithRateLimiter(redis.NewRateLimiter(rdb, "quant"), redis.SentimentFeedRateLimit)
	feed := sentiment.NewFeedClient(feedHTTP, sentimentRepo, cfg.SentimentFeed, log)

	return &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		redis:      rdb,
		strategy:   strategy,
		prices:     prices,
		results:    resultRepo,
		sentiments: sentimentRepo,
		outcomes:   outcomeRepo,
		engine:     eng,
		evaluator:  evaluator,
		feed:       feed,
	}, nil
}

// Close releases connections
func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
