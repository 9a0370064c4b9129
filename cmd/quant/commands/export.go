package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a ranking as JSON",
	Long: `Writes a date's ranking to a JSON file under the export directory.

Example:
  go run ./cmd/quant export --date 2026-08-28
  go run ./cmd/quant export --date 2026-08-28 --top 10 --out /tmp/ranking.json`,
	RunE: runExport,
}

var (
	exportDate string
	exportTop  int
	exportOut  string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportDate, "date", "", "trade date YYYY-MM-DD (default latest)")
	exportCmd.Flags().IntVar(&exportTop, "top", 0, "positions to export, 0 = all (default: strategy top_n.overall)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default EXPORT_DIR/ranking_<date>.json)")
}

type exportFile struct {
	Date       string                       `json:"date"`
	Count      int                          `json:"count"`
	ExportedAt time.Time                    `json:"exported_at"`
	Items      []contracts.FusedOpportunity `json:"items"`
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var date time.Time
	var fused []contracts.FusedOpportunity

	if exportDate == "" {
		date, fused, err = app.results.LoadLatestFused(ctx)
		if err != nil {
			return fmt.Errorf("load latest ranking: %w", err)
		}
	} else {
		date, err = time.ParseInLocation(contracts.DateLayout, exportDate, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
		}
		fused, err = app.results.LoadFused(ctx, date)
		if err != nil {
			return fmt.Errorf("load ranking: %w", err)
		}
	}

	if len(fused) == 0 {
		return fmt.Errorf("no ranking to export")
	}
	top := exportTop
	if !cmd.Flags().Changed("top") {
		top = app.strategy.TopN.Overall
	}
	if top > 0 && top < len(fused) {
		fused = fused[:top]
	}

	dateStr := date.Format(contracts.DateLayout)
	out := exportOut
	if out == "" {
		if err := os.MkdirAll(app.cfg.ExportDir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
		out = filepath.Join(app.cfg.ExportDir, fmt.Sprintf("ranking_%s.json", dateStr))
	}

	payload := exportFile{
		Date:       dateStr,
		Count:      len(fused),
		ExportedAt: time.Now().UTC(),
		Items:      fused,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ranking: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Printf("Exported %d positions for %s to %s\n", len(fused), dateStr, out)
	return nil
}
