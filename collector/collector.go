// Package collector implements the enrichment stage of the import pipeline:
// it takes a tabular catalog export, visits each distinct product URL once in
// a rendering engine, and re-emits the table with an image_urls column.
package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"goat-importer/config"
	"goat-importer/extract"
	"goat-importer/fetch"
	"goat-importer/utils"
)

const (
	urlHeader      = "URL"
	enrichedHeader = "image_urls"
	urlSeparator   = "|"
)

// ErrMissingURLColumn is returned when the input has no URL header.
var ErrMissingURLColumn = errors.New("collector: input file has no URL column")

// ErrOutputPathRequired is returned when the input path has no .csv suffix and
// no explicit output path was given. Guessing an output name for arbitrary
// extensions risks clobbering the input, so the caller must be explicit.
var ErrOutputPathRequired = errors.New("collector: input has no .csv suffix, explicit output path required")

// Summary reports how the run went, for the CLI to print.
type Summary struct {
	RowsWithImages    int
	RowsWithoutImages int
	URLsVisited       int
}

// Collector enriches a catalog export with product image URLs.
type Collector struct {
	fetcher fetch.PageFetcher
	cfg     *config.Config
	logger  *logrus.Logger
	cache   *utils.ResultCache
	retry   *utils.RetryConfig
}

// New creates a ready-to-use Collector.
func New(fetcher fetch.PageFetcher, cfg *config.Config, logger *logrus.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
		cache:   utils.NewResultCache(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// DeriveOutputPath maps input.csv to input_enriched.csv.
func DeriveOutputPath(inPath string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(inPath), ".csv") {
		return "", ErrOutputPathRequired
	}
	return inPath[:len(inPath)-len(".csv")] + "_enriched.csv", nil
}

// Run reads the export at inPath, enriches it, and writes the result to
// outPath. All original columns are preserved verbatim; image_urls is
// appended if absent and overwritten in place if present.
func (c *Collector) Run(ctx context.Context, inPath, outPath string) (*Summary, error) {
	headers, rows, err := readTable(inPath)
	if err != nil {
		return nil, err
	}

	urlCol := -1
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), urlHeader) {
			urlCol = i
			break
		}
	}
	if urlCol == -1 {
		return nil, ErrMissingURLColumn
	}

	enrichedCol := -1
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), enrichedHeader) {
			enrichedCol = i
			break
		}
	}
	if enrichedCol == -1 {
		headers = append(headers, enrichedHeader)
		enrichedCol = len(headers) - 1
	}

	// First-appearance order; every row sharing a URL gets the same value
	// from one visit.
	var distinct []string
	for _, row := range rows {
		u := strings.TrimSpace(cell(row, urlCol))
		if u == "" {
			continue
		}
		if _, seen := c.cache.Get(u); !seen {
			c.cache.Put(u, "")
			distinct = append(distinct, u)
		}
	}

	c.logger.Infof("[collector] %d rows, %d distinct URLs to visit", len(rows), len(distinct))

	for i, u := range distinct {
		if i > 0 {
			// Polite delay between requests; rates above this trip the
			// target's bot blocking. None needed after the last one.
			time.Sleep(time.Duration(c.cfg.RequestDelayMs) * time.Millisecond)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.cache.Put(u, c.enrichURL(ctx, u))
	}

	summary := &Summary{URLsVisited: len(distinct)}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		for len(row) < len(headers) {
			row = append(row, "")
		}
		value, _ := c.cache.Get(strings.TrimSpace(cell(row, urlCol)))
		row[enrichedCol] = value
		if value != "" {
			summary.RowsWithImages++
		} else {
			summary.RowsWithoutImages++
		}
		out = append(out, row)
	}

	if err := writeTable(outPath, headers, out); err != nil {
		return nil, err
	}

	c.logger.Infof("[collector] Done: %d rows with images, %d without",
		summary.RowsWithImages, summary.RowsWithoutImages)
	return summary, nil
}

// enrichURL visits one product page and returns its pipe-joined image list.
// Every failure mode (navigation timeout, block page, malformed payload) is
// absorbed into an empty string; the run never aborts over a single URL.
func (c *Collector) enrichURL(ctx context.Context, url string) string {
	var urls []string

	err := c.retry.Do("enrich "+url, func() error {
		html, err := c.fetcher.FetchHTML(ctx, url)
		if err != nil {
			return err
		}
		urls, err = extract.Images(html)
		return err
	})
	if err != nil {
		c.logger.Warnf("[collector] No images for %s: %v", url, err)
		return ""
	}

	c.logger.Debugf("[collector] %s → %d images", url, len(urls))
	return strings.Join(urls, urlSeparator)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func readTable(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("collector: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged exports happen; pad on write instead

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("collector: parse %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("collector: %q is empty", path)
	}

	return records[0], records[1:], nil
}

func writeTable(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("collector: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("collector: write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("collector: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
