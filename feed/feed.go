// Package feed turns an enriched catalog export back into ImportRows and
// drives them through a running import coordinator, one POST per product.
package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"goat-importer/models"
)

var priceRegexp = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// ParseRows groups the size rows of an enriched export by product URL and
// builds one ImportRow per product: multi-size when a URL spans several rows,
// single-size otherwise. Rows without a title or URL are dropped.
//
// Recognized headers (case-insensitive): title, brand, model, url, size or
// size_value, price, retail_price, image_urls.
func ParseRows(headers []string, records [][]string, logger *logrus.Logger) []*models.ImportRow {
	col := make(map[string]int)
	for i, h := range headers {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	get := func(row []string, names ...string) string {
		for _, name := range names {
			if i, ok := col[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}

	byURL := make(map[string]*models.ImportRow)
	var order []string

	for _, row := range records {
		title := get(row, "title")
		url := get(row, "url", "goat_url")
		if title == "" || url == "" {
			logger.Warnf("[feed] Dropping row without title/URL: %q", strings.Join(row, ","))
			continue
		}

		entry := models.SizeEntry{
			SizeValue: get(row, "size_value", "size"),
			Price:     parsePrice(get(row, "price")),
		}

		p, seen := byURL[url]
		if !seen {
			p = &models.ImportRow{
				Title:   title,
				Brand:   get(row, "brand"),
				Model:   get(row, "model"),
				GoatURL: url,
			}
			if retail := parsePrice(get(row, "retail_price")); retail > 0 {
				p.RetailPrice = &retail
			}
			if raw := get(row, "image_urls"); raw != "" {
				for _, u := range strings.Split(raw, "|") {
					if u = strings.TrimSpace(u); u != "" {
						p.ImageURLs = append(p.ImageURLs, u)
					}
				}
			}
			byURL[url] = p
			order = append(order, url)
		}
		p.Sizes = append(p.Sizes, entry)
	}

	rows := make([]*models.ImportRow, 0, len(order))
	for _, url := range order {
		p := byURL[url]
		if len(p.Sizes) == 1 {
			// One export row for the product: the legacy single-size shape.
			p.SizeValue = p.Sizes[0].SizeValue
			p.Price = p.Sizes[0].Price
			p.Sizes = nil
		}
		rows = append(rows, p)
	}
	return rows
}

// parsePrice extracts a numeric price from raw export text ("₹ 9,000",
// "$120.50"). Unparseable values become 0.
func parsePrice(raw string) float64 {
	cleaned := strings.ReplaceAll(raw, ",", "")
	match := priceRegexp.FindString(cleaned)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return v
}

// Summary tallies per-status outcomes across a driven batch.
type Summary struct {
	Imported int
	Skipped  int
	Errors   int
	Warnings int
}

// Driver POSTs ImportRows to a running coordinator with a polite delay
// between calls, branching on the per-row status discriminator rather than
// the HTTP code.
type Driver struct {
	Endpoint string
	Token    string
	DelayMs  int
	Client   *http.Client
	Logger   *logrus.Logger
}

// Push sends every row and returns the batch summary. Per-row failures are
// logged and counted; the batch never aborts over one row.
func (d *Driver) Push(rows []*models.ImportRow) *Summary {
	summary := &Summary{}

	for i, row := range rows {
		if i > 0 {
			time.Sleep(time.Duration(d.DelayMs) * time.Millisecond)
		}

		result, err := d.pushOne(row)
		if err != nil {
			d.Logger.Errorf("[feed] %q failed: %v", row.Title, err)
			summary.Errors++
			continue
		}

		switch result.Status {
		case models.ResultImported:
			summary.Imported++
			if result.Warning != "" {
				d.Logger.Warnf("[feed] %q imported with warning: %s", row.Title, result.Warning)
				summary.Warnings++
			}
		case models.ResultSkipped:
			d.Logger.Infof("[feed] %q skipped: %s", row.Title, result.Reason)
			summary.Skipped++
		default:
			d.Logger.Errorf("[feed] %q errored: %s", row.Title, result.Reason)
			summary.Errors++
		}
	}

	return summary
}

func (d *Driver) pushOne(row *models.ImportRow) (*models.ImportResult, error) {
	body, err := json.Marshal(map[string]*models.ImportRow{"row": row})
	if err != nil {
		return nil, fmt.Errorf("marshal row: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.Token)

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post row: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coordinator returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var result models.ImportResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
