package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/api/handlers"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

// NewRouter wires the handlers into the HTTP routes
// ⭐ SSOT: routing lives in this function only
func NewRouter(
	rankings *handlers.RankingsHandler,
	outcomes *handlers.OutcomesHandler,
	runs *handlers.RunsHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Rankings
	api.HandleFunc("/rankings/latest", rankings.GetLatest).Methods("GET")
	api.HandleFunc("/rankings/{date}", rankings.GetByDate).Methods("GET")
	api.HandleFunc("/rankings/{date}/scores", rankings.GetScores).Methods("GET")

	// Outcomes
	api.HandleFunc("/outcomes/{date}", outcomes.GetByDate).Methods("GET")

	// Run summaries
	api.HandleFunc("/runs", runs.List).Methods("GET")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "signal-engine-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
