package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/redis"
)

// RankingsHandler serves the fused rankings and their per-scorer breakdown
// ⭐ SSOT: ranking reads for the API go through this handler only
type RankingsHandler struct {
	results    contracts.ResultStore
	cache      *redis.Cache
	defaultTop int
	logger     *logger.Logger
}

// NewRankingsHandler creates a rankings handler. defaultTop truncates
// responses when the request carries no ?top parameter; 0 means the full
// list.
func NewRankingsHandler(results contracts.ResultStore, cache *redis.Cache, defaultTop int, log *logger.Logger) *RankingsHandler {
	return &RankingsHandler{
		results:    results,
		cache:      cache,
		defaultTop: defaultTop,
		logger:     log,
	}
}

type rankingResponse struct {
	Date  string                       `json:"date"`
	Count int                          `json:"count"`
	Items []contracts.FusedOpportunity `json:"items"`
}

// GetLatest returns the most recent ranking
// GET /api/rankings/latest
func (h *RankingsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, fused, err := h.results.LoadLatestFused(ctx)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to load latest ranking")
		respondError(w, http.StatusInternalServerError, "Failed to load latest ranking")
		return
	}
	if len(fused) == 0 {
		respondError(w, http.StatusNotFound, "No ranking available yet")
		return
	}

	h.respondRanking(w, date.Format(contracts.DateLayout), fused, h.topN(r))
}

// GetByDate returns the ranking for one date
// GET /api/rankings/{date}?top=N
func (h *RankingsHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dateStr := mux.Vars(r)["date"]
	date, ok := parseDate(dateStr)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var fused []contracts.FusedOpportunity
	err := h.cache.GetOrSet(ctx, redis.RankingKey(dateStr), &fused, redis.TTLDaily,
		func() (interface{}, error) {
			return h.results.LoadFused(ctx, date)
		})
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"date":  dateStr,
			"error": err.Error(),
		}).Error("Failed to load ranking")
		respondError(w, http.StatusInternalServerError, "Failed to load ranking")
		return
	}
	if len(fused) == 0 {
		respondError(w, http.StatusNotFound, "No ranking for "+dateStr)
		return
	}

	h.respondRanking(w, dateStr, fused, h.topN(r))
}

// GetScores returns the per-scorer rows behind a date's ranking
// GET /api/rankings/{date}/scores
func (h *RankingsHandler) GetScores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dateStr := mux.Vars(r)["date"]
	date, ok := parseDate(dateStr)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var scores []contracts.RankScore
	err := h.cache.GetOrSet(ctx, redis.ScoresKey(dateStr), &scores, redis.TTLDaily,
		func() (interface{}, error) {
			return h.results.LoadScores(ctx, date)
		})
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"date":  dateStr,
			"error": err.Error(),
		}).Error("Failed to load scores")
		respondError(w, http.StatusInternalServerError, "Failed to load scores")
		return
	}
	if len(scores) == 0 {
		respondError(w, http.StatusNotFound, "No scores for "+dateStr)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":  dateStr,
		"count": len(scores),
		"items": scores,
	})
}

// topN reads the optional ?top=N truncation, falling back to the strategy's
// configured list size
func (h *RankingsHandler) topN(r *http.Request) int {
	raw := r.URL.Query().Get("top")
	if raw == "" {
		return h.defaultTop
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return h.defaultTop
	}
	return n
}

func (h *RankingsHandler) respondRanking(w http.ResponseWriter, dateStr string, fused []contracts.FusedOpportunity, top int) {
	if top > 0 && top < len(fused) {
		fused = fused[:top]
	}
	respondJSON(w, http.StatusOK, rankingResponse{
		Date:  dateStr,
		Count: len(fused),
		Items: fused,
	})
}
