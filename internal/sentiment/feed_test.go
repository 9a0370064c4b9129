package sentiment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/config"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/httputil"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/redis"
)

type fakeStore struct {
	upserted []contracts.SentimentRecord
	byDate   map[string]contracts.SentimentRecord
	err      error
}

func (f *fakeStore) Upsert(ctx context.Context, records []contracts.SentimentRecord) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, records...)
	return nil
}

func (f *fakeStore) LoadByDate(ctx context.Context, date time.Time) (map[string]contracts.SentimentRecord, error) {
	return f.byDate, nil
}

func newTestClient(t *testing.T) *httputil.Client {
	t.Helper()
	return httputil.New(&config.Config{}, logger.Nop()).DisableRetry()
}

func TestPullStoresRecords(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("date")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"date": "2026-08-28",
			"source": "newsdesk",
			"records": [
				{"ticker": "AAPL", "sentiment_score": 0.6, "summary_count": 4, "catalyst": true},
				{"ticker": "MSFT", "sentiment_score": -0.2, "summary_count": 1},
				{"ticker": "", "sentiment_score": 0.9}
			]
		}`))
	}))
	defer srv.Close()

	store := &fakeStore{}
	fc := NewFeedClient(newTestClient(t), store, config.SentimentFeedConfig{
		URL:     srv.URL,
		Enabled: true,
	}, logger.Nop())

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	n, err := fc.Pull(context.Background(), date)
	require.NoError(t, err)

	// The blank-ticker record is dropped, the rest land with the pull date
	// and feed source attached
	assert.Equal(t, 2, n)
	assert.Equal(t, "2026-08-28", gotQuery)
	require.Len(t, store.upserted, 2)
	assert.Equal(t, "AAPL", store.upserted[0].Ticker)
	assert.True(t, store.upserted[0].Catalyst)
	assert.Equal(t, "newsdesk", store.upserted[0].Source)
	assert.True(t, store.upserted[1].Date.Equal(date))
}

func TestPullThroughRateLimitedClient(t *testing.T) {
	// Mirrors the production wiring: the feed's HTTP client carries the
	// sliding-window limiter. With redis disabled the limiter passes every
	// request through, so the pull must behave exactly like the plain client.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"date": "2026-08-28",
			"source": "newsdesk",
			"records": [{"ticker": "AAPL", "sentiment_score": 0.6, "summary_count": 4}]
		}`))
	}))
	defer srv.Close()

	rdb, err := redis.New(&config.Config{})
	require.NoError(t, err)
	limited := newTestClient(t).
		WithRateLimiter(redis.NewRateLimiter(rdb, "test"), redis.SentimentFeedRateLimit)

	store := &fakeStore{}
	fc := NewFeedClient(limited, store, config.SentimentFeedConfig{
		URL:     srv.URL,
		Enabled: true,
	}, logger.Nop())

	n, err := fc.Pull(context.Background(), time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, store.upserted, 1)
}

func TestPullDisabledFeed(t *testing.T) {
	store := &fakeStore{}
	fc := NewFeedClient(newTestClient(t), store, config.SentimentFeedConfig{
		URL:     "http://example.invalid/feed",
		Enabled: false,
	}, logger.Nop())

	n, err := fc.Pull(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.upserted)
}

func TestPullFeedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	store := &fakeStore{}
	fc := NewFeedClient(newTestClient(t), store, config.SentimentFeedConfig{
		URL:     srv.URL,
		Enabled: true,
	}, logger.Nop())

	_, err := fc.Pull(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Empty(t, store.upserted)
}

func TestPullEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"date": "2026-08-28", "source": "newsdesk", "records": []}`))
	}))
	defer srv.Close()

	store := &fakeStore{}
	fc := NewFeedClient(newTestClient(t), store, config.SentimentFeedConfig{
		URL:     srv.URL,
		Enabled: true,
	}, logger.Nop())

	n, err := fc.Pull(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestScaledScoreClamping(t *testing.T) {
	rec := contracts.SentimentRecord{SentimentScore: 1.7}
	assert.InDelta(t, 1.0, rec.ScaledScore(), 1e-9)

	rec.SentimentScore = -3
	assert.InDelta(t, 0.0, rec.ScaledScore(), 1e-9)

	rec.SentimentScore = 0
	assert.InDelta(t, 0.5, rec.ScaledScore(), 1e-9)
}
