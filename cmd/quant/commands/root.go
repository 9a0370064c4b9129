package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile      string
	strategyPath string
	verbose      bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "Quantitative signal and ranking engine",
	Long: `Quantitative Signal & Ranking Engine CLI

Computes technical indicators over daily price history, derives momentum,
reversal and divergence rank scores, fuses them with external sentiment and
serves the resulting opportunity rankings.

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant run --date 2026-08-28
  go run ./cmd/quant api
  go run ./cmd/quant scheduler start
  go run ./cmd/quant outcomes evaluate --date 2026-08-14`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			return godotenv.Load(envFile)
		}
		return nil
	},
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load before reading config (default .env)")
	rootCmd.PersistentFlags().StringVar(&strategyPath, "strategy", "", "strategy YAML path (default STRATEGY_CONFIG_PATH, else built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
