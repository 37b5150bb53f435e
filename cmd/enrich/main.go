// Command enrich visits each distinct product URL of a catalog CSV export in
// a headless browser and writes the export back out with an image_urls
// column.
//
// Usage: enrich <input.csv> [output.csv]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"goat-importer/collector"
	"goat-importer/config"
	"goat-importer/fetch"
	"goat-importer/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	args := os.Args[1:]
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: enrich <input.csv> [output.csv]")
		os.Exit(1)
	}

	inPath := args[0]
	var outPath string
	if len(args) >= 2 {
		outPath = args[1]
	} else {
		derived, err := collector.DeriveOutputPath(inPath)
		if err != nil {
			logger.Errorf("Cannot derive output path: %v", err)
			os.Exit(1)
		}
		outPath = derived
	}

	logger.Info("=== Catalog enrichment starting ===")
	logger.Infof("Config: delay %dms | settle %dms | nav timeout %ds | retries %d",
		cfg.RequestDelayMs, cfg.SettleMs, cfg.NavTimeoutSec, cfg.MaxRetries)

	browser := fetch.NewBrowser(cfg, logger)
	defer browser.Close()

	col := collector.New(browser, cfg, logger)
	summary, err := col.Run(context.Background(), inPath, outPath)
	if err != nil {
		if errors.Is(err, collector.ErrMissingURLColumn) {
			logger.Errorf("Input file %s has no URL column", inPath)
		} else {
			logger.Errorf("Enrichment failed: %v", err)
		}
		os.Exit(1)
	}

	fmt.Printf("\n  Done. %d URLs visited, %d rows with images, %d without. Output: %s\n\n",
		summary.URLsVisited, summary.RowsWithImages, summary.RowsWithoutImages, outPath)
}
