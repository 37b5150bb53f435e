package collector

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goat-importer/config"
	"goat-importer/utils"
)

// fakeFetcher serves canned HTML and counts visits per URL.
type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	visits map[string]int
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, visits: make(map[string]int)}
}

func (f *fakeFetcher) FetchHTML(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits[url]++
	if html, ok := f.pages[url]; ok {
		return html, nil
	}
	return "", fmt.Errorf("navigation timeout for %s", url)
}

func pageWithImages(urls ...string) string {
	main := ""
	var gallery []string
	if len(urls) > 0 {
		main = urls[0]
		gallery = urls[1:]
	}
	payload := map[string]interface{}{
		"props": map[string]interface{}{
			"pageProps": map[string]interface{}{
				"productTemplate": map[string]interface{}{
					"mainPictureUrl":     main,
					"galleryPictureUrls": gallery,
				},
			},
		},
	}
	blob, _ := json.Marshal(payload)
	return fmt.Sprintf(`<html><body><script id="__NEXT_DATA__">%s</script></body></html>`, blob)
}

func testConfig() *config.Config {
	return &config.Config{RequestDelayMs: 0, MaxRetries: 1, SettleMs: 0, NavTimeoutSec: 1}
}

func writeCSV(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(rows))
	require.NoError(t, f.Close())
	return path
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestRunVisitsSharedURLOnce(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		"https://cat/air-max": pageWithImages("https://img/am-main.jpg", "https://img/am-1.jpg"),
		"https://cat/dunk":    pageWithImages("https://img/dunk.jpg"),
	})
	in := writeCSV(t, [][]string{
		{"Title", "Size", "URL"},
		{"Air Max 1", "UK 8", "https://cat/air-max"},
		{"Air Max 1", "UK 9", "https://cat/air-max"},
		{"Dunk Low", "UK 8", "https://cat/dunk"},
	})
	out := filepath.Join(t.TempDir(), "out.csv")

	col := New(fetcher, testConfig(), utils.NewLogger())
	summary, err := col.Run(context.Background(), in, out)

	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.visits["https://cat/air-max"], "shared URL visited exactly once")
	assert.Equal(t, 2, summary.URLsVisited)
	assert.Equal(t, 3, summary.RowsWithImages)

	records := readCSV(t, out)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Title", "Size", "URL", "image_urls"}, records[0])
	assert.Equal(t, "https://img/am-main.jpg|https://img/am-1.jpg", records[1][3])
	assert.Equal(t, records[1][3], records[2][3], "rows sharing a URL get identical values")
	assert.Equal(t, "https://img/dunk.jpg", records[3][3])
}

func TestRunBlockPageYieldsEmptyNotError(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		"https://cat/blocked": `<html><body><h1>Access Denied</h1></body></html>`,
	})
	in := writeCSV(t, [][]string{
		{"Title", "URL"},
		{"Jordan 1", "https://cat/blocked"},
	})
	out := filepath.Join(t.TempDir(), "out.csv")

	col := New(fetcher, testConfig(), utils.NewLogger())
	summary, err := col.Run(context.Background(), in, out)

	require.NoError(t, err, "a block page must not abort the run")
	assert.Equal(t, 1, summary.RowsWithoutImages)

	records := readCSV(t, out)
	assert.Equal(t, "", records[1][2])
}

func TestRunFetchFailureYieldsEmptyNotError(t *testing.T) {
	fetcher := newFakeFetcher(nil) // every URL times out
	in := writeCSV(t, [][]string{
		{"Title", "URL"},
		{"Yeezy 350", "https://cat/gone"},
	})
	out := filepath.Join(t.TempDir(), "out.csv")

	col := New(fetcher, testConfig(), utils.NewLogger())
	summary, err := col.Run(context.Background(), in, out)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.RowsWithoutImages)
}

func TestRunOverwritesExistingEnrichedColumn(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		"https://cat/p": pageWithImages("https://img/new.jpg"),
	})
	in := writeCSV(t, [][]string{
		{"Title", "URL", "image_urls"},
		{"Dunk Low", "https://cat/p", "https://img/stale.jpg"},
	})
	out := filepath.Join(t.TempDir(), "out.csv")

	col := New(fetcher, testConfig(), utils.NewLogger())
	_, err := col.Run(context.Background(), in, out)

	require.NoError(t, err)
	records := readCSV(t, out)
	assert.Equal(t, []string{"Title", "URL", "image_urls"}, records[0], "no duplicate column added")
	assert.Equal(t, "https://img/new.jpg", records[1][2])
}

func TestRunPreservesQuotedFields(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		"https://cat/p": pageWithImages("https://img/a.jpg"),
	})
	tricky := `Air Max 1 "Anniversary", Red/White`
	in := writeCSV(t, [][]string{
		{"Title", "URL"},
		{tricky, "https://cat/p"},
	})
	out := filepath.Join(t.TempDir(), "out.csv")

	col := New(fetcher, testConfig(), utils.NewLogger())
	_, err := col.Run(context.Background(), in, out)

	require.NoError(t, err)
	records := readCSV(t, out)
	assert.Equal(t, tricky, records[1][0], "embedded commas and quotes survive the round-trip")
}

func TestRunMissingURLColumn(t *testing.T) {
	in := writeCSV(t, [][]string{
		{"Title", "Price"},
		{"Air Max 1", "9000"},
	})

	col := New(newFakeFetcher(nil), testConfig(), utils.NewLogger())
	_, err := col.Run(context.Background(), in, filepath.Join(t.TempDir(), "out.csv"))

	assert.ErrorIs(t, err, ErrMissingURLColumn)
}

func TestRunMatchesURLHeaderCaseInsensitively(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		"https://cat/p": pageWithImages("https://img/a.jpg"),
	})
	in := writeCSV(t, [][]string{
		{"Title", "url"},
		{"Dunk Low", "https://cat/p"},
	})
	out := filepath.Join(t.TempDir(), "out.csv")

	col := New(fetcher, testConfig(), utils.NewLogger())
	_, err := col.Run(context.Background(), in, out)

	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.visits["https://cat/p"])
}

func TestDeriveOutputPath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"export.csv", "export_enriched.csv", false},
		{"data/goat.CSV", "data/goat_enriched.csv", false},
		{"export.tsv", "", true},
		{"export", "", true},
	}

	for _, tt := range tests {
		got, err := DeriveOutputPath(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrOutputPathRequired, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
