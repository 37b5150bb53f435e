package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goat-importer/config"
)

func testDownloader() *Downloader {
	return NewDownloader(&config.Config{DownloadTimeoutSec: 5})
}

func TestDownloadSendsBrowserHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpg-bytes"))
	}))
	defer srv.Close()

	data, ext, contentType, err := testDownloader().Download(context.Background(), srv.URL+"/img.jpg")

	require.NoError(t, err)
	assert.Equal(t, []byte("jpg-bytes"), data)
	assert.Equal(t, ".jpg", ext)
	assert.Equal(t, "image/jpeg", contentType)

	assert.Equal(t, sourceReferer, got.Get("Referer"))
	assert.Contains(t, got.Get("User-Agent"), "Mozilla")
	assert.NotEmpty(t, got.Get("Accept-Language"))
}

func TestDownloadPngExtension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	_, ext, contentType, err := testDownloader().Download(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, ".png", ext)
	assert.Equal(t, "image/png", contentType)
}

func TestDownloadUnknownContentTypeDefaultsToJpeg(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No Content-Type header at all.
		w.WriteHeader(http.StatusOK)
		w.Write([]byte{0xff, 0xd8})
	}))
	defer srv.Close()

	_, ext, contentType, err := testDownloader().Download(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, ".jpg", ext)
	assert.NotEmpty(t, contentType)
}

func TestDownloadNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	_, _, _, err := testDownloader().Download(context.Background(), srv.URL)

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "403"), "error should carry the status code: %v", err)
}

func TestDownloadCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bytes"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := testDownloader().Download(ctx, srv.URL)

	assert.Error(t, err)
}
