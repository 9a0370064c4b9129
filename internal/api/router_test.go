package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/api/handlers"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/config"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/redis"
)

type fakeResults struct {
	fused  map[string][]contracts.FusedOpportunity
	scores map[string][]contracts.RankScore
	runs   []contracts.RunSummary
	latest time.Time
}

func (f *fakeResults) SaveSnapshot(ctx context.Context, snap contracts.IndicatorSnapshot) error {
	return nil
}
func (f *fakeResults) SaveScores(ctx context.Context, scores []contracts.RankScore) error {
	return nil
}
func (f *fakeResults) SaveFused(ctx context.Context, date time.Time, fused []contracts.FusedOpportunity) error {
	return nil
}
func (f *fakeResults) SaveBatch(ctx context.Context, batch *contracts.BatchWrite) error {
	return nil
}
func (f *fakeResults) LoadFused(ctx context.Context, date time.Time) ([]contracts.FusedOpportunity, error) {
	return f.fused[date.Format(contracts.DateLayout)], nil
}
func (f *fakeResults) LoadLatestFused(ctx context.Context) (time.Time, []contracts.FusedOpportunity, error) {
	return f.latest, f.fused[f.latest.Format(contracts.DateLayout)], nil
}
func (f *fakeResults) LoadFusedRange(ctx context.Context, from, to time.Time) ([]contracts.FusedOpportunity, error) {
	return nil, nil
}
func (f *fakeResults) LoadScores(ctx context.Context, date time.Time) ([]contracts.RankScore, error) {
	return f.scores[date.Format(contracts.DateLayout)], nil
}
func (f *fakeResults) ListRuns(ctx context.Context, limit int) ([]contracts.RunSummary, error) {
	if limit < len(f.runs) {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

type fakeOutcomes struct {
	rows map[string][]contracts.SignalOutcome
}

func (f *fakeOutcomes) SaveOutcomes(ctx context.Context, outcomes []contracts.SignalOutcome) error {
	return nil
}
func (f *fakeOutcomes) LoadOutcomes(ctx context.Context, signalDate time.Time) ([]contracts.SignalOutcome, error) {
	return f.rows[signalDate.Format(contracts.DateLayout)], nil
}

func testRouter(t *testing.T, results *fakeResults, outcomes *fakeOutcomes) http.Handler {
	t.Helper()
	return testRouterWithTop(t, results, outcomes, 0)
}

func testRouterWithTop(t *testing.T, results *fakeResults, outcomes *fakeOutcomes, defaultTop int) http.Handler {
	t.Helper()

	// Redis is disabled by default, so the cache is a pass-through
	client, err := redis.New(&config.Config{})
	require.NoError(t, err)
	cache := redis.NewCache(client, "test")
	log := logger.Nop()

	return NewRouter(
		handlers.NewRankingsHandler(results, cache, defaultTop, log),
		handlers.NewOutcomesHandler(outcomes, cache, log),
		handlers.NewRunsHandler(results, log),
		log,
	)
}

func seededResults() *fakeResults {
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	key := date.Format(contracts.DateLayout)
	return &fakeResults{
		latest: date,
		fused: map[string][]contracts.FusedOpportunity{
			key: {
				{Ticker: "AAA", Date: date, CompositeScore: 0.81, RankPosition: 1},
				{Ticker: "BBB", Date: date, CompositeScore: 0.64, RankPosition: 2},
				{Ticker: "CCC", Date: date, CompositeScore: 0.52, RankPosition: 3},
			},
		},
		scores: map[string][]contracts.RankScore{
			key: {
				{Ticker: "AAA", Date: date, Scorer: contracts.ScorerMomentum, Score: 1.0},
				{Ticker: "BBB", Date: date, Scorer: contracts.ScorerMomentum, Score: 0.0},
			},
		},
		runs: []contracts.RunSummary{
			{RunID: "run_20260828_163000", Status: contracts.RunStatusCompleted, RankedCount: 3},
		},
	}
}

func doGet(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t, seededResults(), &fakeOutcomes{})
	rec := doGet(t, router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestGetLatestRanking(t *testing.T) {
	router := testRouter(t, seededResults(), &fakeOutcomes{})
	rec := doGet(t, router, "/api/rankings/latest")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Date  string                       `json:"date"`
		Count int                          `json:"count"`
		Items []contracts.FusedOpportunity `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-08-28", body.Date)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "AAA", body.Items[0].Ticker)
}

func TestGetLatestRankingEmptyStore(t *testing.T) {
	// A fresh deployment has no fused rows at all: the store returns zero
	// values and the API answers 404, not 500
	router := testRouter(t, &fakeResults{}, &fakeOutcomes{})
	rec := doGet(t, router, "/api/rankings/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No ranking available yet")
}

func TestGetRankingByDateWithTop(t *testing.T) {
	router := testRouter(t, seededResults(), &fakeOutcomes{})
	rec := doGet(t, router, "/api/rankings/2026-08-28?top=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
}

func TestGetRankingDefaultTopFromStrategy(t *testing.T) {
	// Without ?top the handler truncates to the configured list size; an
	// explicit ?top still overrides it
	router := testRouterWithTop(t, seededResults(), &fakeOutcomes{}, 2)

	rec := doGet(t, router, "/api/rankings/2026-08-28")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)

	rec = doGet(t, router, "/api/rankings/2026-08-28?top=3")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Count)
}

func TestGetRankingBadDate(t *testing.T) {
	router := testRouter(t, seededResults(), &fakeOutcomes{})
	rec := doGet(t, router, "/api/rankings/not-a-date")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRankingMissingDate(t *testing.T) {
	router := testRouter(t, seededResults(), &fakeOutcomes{})
	rec := doGet(t, router, "/api/rankings/2020-01-02")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetScores(t *testing.T) {
	router := testRouter(t, seededResults(), &fakeOutcomes{})
	rec := doGet(t, router, "/api/rankings/2026-08-28/scores")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), contracts.ScorerMomentum)
}

func TestGetOutcomesReport(t *testing.T) {
	date := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	outcomes := &fakeOutcomes{rows: map[string][]contracts.SignalOutcome{
		date.Format(contracts.DateLayout): {
			{Ticker: "AAA", SignalDate: date, HorizonDays: 3, Return: 0.06, Status: contracts.OutcomeSuccess},
			{Ticker: "AAA", SignalDate: date, HorizonDays: 5, Return: 0.01, Status: contracts.OutcomeFailure},
			{Ticker: "AAA", SignalDate: date, HorizonDays: 10, Status: contracts.OutcomePending},
		},
	}}
	router := testRouter(t, seededResults(), outcomes)

	rec := doGet(t, router, "/api/outcomes/2026-08-20")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Evaluated int     `json:"evaluated"`
		Pending   int     `json:"pending"`
		HitRate   float64 `json:"hit_rate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Evaluated)
	assert.Equal(t, 1, body.Pending)
	assert.InDelta(t, 0.5, body.HitRate, 1e-9)
}

func TestListRuns(t *testing.T) {
	router := testRouter(t, seededResults(), &fakeOutcomes{})
	rec := doGet(t, router, "/api/runs?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "run_20260828_163000")

	rec = doGet(t, router, "/api/runs?limit=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
