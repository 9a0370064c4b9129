package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// parseDate reads a YYYY-MM-DD path segment
func parseDate(raw string) (time.Time, bool) {
	d, err := time.ParseInLocation(contracts.DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
