// Command importd serves the import coordinator over HTTP: one POST per
// enriched catalog row, writes to PostgreSQL and S3.
package main

import (
	"context"
	"os"

	"goat-importer/api"
	"goat-importer/auth"
	"goat-importer/config"
	"goat-importer/fetch"
	"goat-importer/importer"
	"goat-importer/storage"
	"goat-importer/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Import coordinator starting ===")

	store, err := storage.NewPostgres(cfg.DSN())
	if err != nil {
		logger.Errorf("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure the database is running: docker compose up -d")
		os.Exit(1)
	}
	defer store.Close()

	blobs, err := storage.NewS3(context.Background(), cfg)
	if err != nil {
		logger.Errorf("Failed to configure S3: %v", err)
		os.Exit(1)
	}

	// The live-fetch fallback for rows without pre-fetched image URLs. It
	// shares the collector's fate against bot blocking, so it is best
	// effort only.
	browser := fetch.NewBrowser(cfg, logger)
	defer browser.Close()

	coord := importer.New(store, blobs, fetch.NewDownloader(cfg), browser, cfg, logger)
	server := api.NewServer(coord, auth.NewJWTVerifier(cfg.JWTSecret), logger)

	if err := server.Run(cfg.Port); err != nil {
		logger.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
}
