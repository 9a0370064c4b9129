package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/config"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

// Reader is the raw access the Store wraps; *Repository satisfies it
type Reader interface {
	Series(ctx context.Context, ticker string, asOf time.Time, lookbackDays int) ([]contracts.PriceBar, error)
	Range(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PriceBar, error)
	Tickers(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, bars []contracts.PriceBar) error
}

// Store implements contracts.PriceSeriesStore: every series read passes
// the shared rate limiter and runs under a per-read deadline so no worker
// can stall the batch. A deadline hit or a series below the configured
// minimum both surface as ErrDataUnavailable and skip the ticker.
type Store struct {
	reader  Reader
	limiter *rate.Limiter
	timeout time.Duration
	minBars int
	logger  *logger.Logger
}

// NewStore wraps a reader with the engine's read limits
func NewStore(reader Reader, cfg config.EngineConfig, log *logger.Logger) *Store {
	return &Store{
		reader:  reader,
		limiter: rate.NewLimiter(rate.Limit(cfg.ReadsPerSec), cfg.MaxWorkers),
		timeout: cfg.ReadTimeout,
		minBars: cfg.MinBars,
		logger:  log,
	}
}

// GetSeries returns up to lookbackDays bars at or before asOf for a
// ticker, oldest first, or ErrDataUnavailable when the series is missing,
// too short, or the read deadline expires
func (s *Store) GetSeries(ctx context.Context, ticker string, asOf time.Time, lookbackDays int) ([]contracts.PriceBar, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s: %w", ticker, err)
	}

	readCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bars, err := s.reader.Series(readCtx, ticker, asOf, lookbackDays)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.WithFields(map[string]interface{}{
				"ticker":  ticker,
				"timeout": s.timeout,
			}).Warn("Price read timed out")
			return nil, fmt.Errorf("read timeout for %s: %w", ticker, contracts.ErrDataUnavailable)
		}
		return nil, fmt.Errorf("read series for %s: %w", ticker, err)
	}

	if len(bars) < s.minBars {
		return nil, fmt.Errorf("ticker %s has %d bars, need %d: %w",
			ticker, len(bars), s.minBars, contracts.ErrDataUnavailable)
	}

	return bars, nil
}

// GetCloses returns bars for a ticker between two dates inclusive, oldest
// first. Used by outcome evaluation; no minimum-bars gate applies.
func (s *Store) GetCloses(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PriceBar, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s: %w", ticker, err)
	}

	readCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bars, err := s.reader.Range(readCtx, ticker, from, to)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("read timeout for %s: %w", ticker, contracts.ErrDataUnavailable)
		}
		return nil, fmt.Errorf("read range for %s: %w", ticker, err)
	}
	return bars, nil
}

// ListTickers returns every ticker with at least one bar
func (s *Store) ListTickers(ctx context.Context) ([]string, error) {
	readCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tickers, err := s.reader.Tickers(readCtx)
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	return tickers, nil
}

// SaveBars upserts bars keyed by (ticker, date)
func (s *Store) SaveBars(ctx context.Context, bars []contracts.PriceBar) error {
	return s.reader.Upsert(ctx, bars)
}
