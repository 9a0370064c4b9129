package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/redis"
)

// OutcomesHandler serves forward-return evaluations of past rankings
type OutcomesHandler struct {
	outcomes contracts.OutcomeStore
	cache    *redis.Cache
	logger   *logger.Logger
}

// NewOutcomesHandler creates an outcomes handler
func NewOutcomesHandler(outcomes contracts.OutcomeStore, cache *redis.Cache, log *logger.Logger) *OutcomesHandler {
	return &OutcomesHandler{
		outcomes: outcomes,
		cache:    cache,
		logger:   log,
	}
}

// GetByDate returns the outcome report for one signal date
// GET /api/outcomes/{date}
func (h *OutcomesHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dateStr := mux.Vars(r)["date"]
	date, ok := parseDate(dateStr)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var rows []contracts.SignalOutcome
	err := h.cache.GetOrSet(ctx, redis.OutcomesKey(dateStr), &rows, redis.TTLLong,
		func() (interface{}, error) {
			return h.outcomes.LoadOutcomes(ctx, date)
		})
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"date":  dateStr,
			"error": err.Error(),
		}).Error("Failed to load outcomes")
		respondError(w, http.StatusInternalServerError, "Failed to load outcomes")
		return
	}
	if len(rows) == 0 {
		respondError(w, http.StatusNotFound, "No outcomes for "+dateStr)
		return
	}

	report := contracts.OutcomeReport{
		SignalDate: date,
		Outcomes:   rows,
	}
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

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":      dateStr,
		"evaluated": report.Evaluated,
		"pending":   report.Pending,
		"successes": report.Successes,
		"hit_rate":  report.HitRate(),
		"items":     report.Outcomes,
	})
}
