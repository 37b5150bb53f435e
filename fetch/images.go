package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"goat-importer/config"
)

// sourceReferer claims the catalog site as the navigation origin. Image CDNs
// behind the catalog reject referer-less requests.
const sourceReferer = "https://www.goat.com/"

// ImageDownloader fetches raw image bytes for one URL.
type ImageDownloader interface {
	Download(ctx context.Context, url string) (data []byte, ext string, contentType string, err error)
}

// Downloader is the production ImageDownloader: a plain HTTP client with a
// bounded timeout and realistic request headers.
type Downloader struct {
	client *http.Client
}

// NewDownloader creates a Downloader with the configured per-request timeout.
func NewDownloader(cfg *config.Config) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: time.Duration(cfg.DownloadTimeoutSec) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Download fetches the bytes at url. The extension is inferred from the
// response Content-Type: png stays png, everything else is treated as jpg.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", "", fmt.Errorf("download: create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/avif,image/webp,image/png,image/jpeg,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Referer", sourceReferer)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", "", fmt.Errorf("download %s: unexpected status code: %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", "", fmt.Errorf("download %s: read body: %w", url, err)
	}

	contentType := resp.Header.Get("Content-Type")
	ext := ".jpg"
	if strings.Contains(contentType, "image/png") {
		ext = ".png"
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	return data, ext, contentType, nil
}
