// Command feed reads an enriched catalog CSV and POSTs one ImportRow per
// product to a running importd, printing a per-status summary.
//
// Usage: feed <enriched.csv> <coordinator-url> <bearer-token>
package main

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"goat-importer/config"
	"goat-importer/feed"
	"goat-importer/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	args := os.Args[1:]
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: feed <enriched.csv> <coordinator-url> <bearer-token>")
		os.Exit(1)
	}
	inPath, endpoint, token := args[0], strings.TrimRight(args[1], "/")+"/import-row", args[2]

	f, err := os.Open(inPath)
	if err != nil {
		logger.Errorf("Cannot open %s: %v", inPath, err)
		os.Exit(1)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	f.Close()
	if err != nil || len(records) == 0 {
		logger.Errorf("Cannot parse %s: %v", inPath, err)
		os.Exit(1)
	}

	rows := feed.ParseRows(records[0], records[1:], logger)
	logger.Infof("[feed] %d products to import from %d rows", len(rows), len(records)-1)

	driver := &feed.Driver{
		Endpoint: endpoint,
		Token:    token,
		DelayMs:  cfg.RequestDelayMs,
		Client:   &http.Client{Timeout: 5 * time.Minute},
		Logger:   logger,
	}
	summary := driver.Push(rows)

	fmt.Printf("\n  Done. imported: %d | skipped: %d | errors: %d | warnings: %d\n\n",
		summary.Imported, summary.Skipped, summary.Errors, summary.Warnings)

	if summary.Errors > 0 {
		os.Exit(1)
	}
}
