package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/api"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/api/handlers"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/redis"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET /health                     - Health check
  GET /api/rankings/latest        - Most recent ranking
  GET /api/rankings/{date}        - Ranking for a date (?top=N)
  GET /api/rankings/{date}/scores - Per-scorer breakdown
  GET /api/outcomes/{date}        - Forward-return report for a signal date
  GET /api/runs                   - Recent run summaries

Example:
  go run ./cmd/quant api
  go run ./cmd/quant api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	cache := redis.NewCache(app.redis, "quant")

	router := api.NewRouter(
		handlers.NewRankingsHandler(app.results, cache, app.strategy.TopN.Overall, app.log),
		handlers.NewOutcomesHandler(app.outcomes, cache, app.log),
		handlers.NewRunsHandler(app.results, app.log),
		app.log,
	)
	server := api.New(app.cfg, app.log, router)

	go func() {
		if err := server.Start(); err != nil {
			app.log.WithField("error", err.Error()).Error("API server stopped")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", app.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
