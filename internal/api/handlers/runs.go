package handlers

import (
	"net/http"
	"strconv"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

const defaultRunLimit = 20

// RunsHandler serves run summaries for operational visibility
type RunsHandler struct {
	results contracts.ResultStore
	logger  *logger.Logger
}

// NewRunsHandler creates a runs handler
func NewRunsHandler(results contracts.ResultStore, log *logger.Logger) *RunsHandler {
	return &RunsHandler{
		results: results,
		logger:  log,
	}
}

// List returns the most recent run summaries
// GET /api/runs?limit=N
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	runs, err := h.results.ListRuns(ctx, limit)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list runs")
		respondError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(runs),
		"items": runs,
	})
}
