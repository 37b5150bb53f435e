// Package importer implements the import coordinator: the sole write path
// from an enriched catalog row into persisted listing, size-variant, and
// image records.
package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"goat-importer/config"
	"goat-importer/extract"
	"goat-importer/fetch"
	"goat-importer/models"
	"goat-importer/sizechart"
	"goat-importer/storage"
	"goat-importer/utils"
)

// Caller errors. Terminal, no writes, mapped to 4xx by the HTTP layer.
// Everything else a row can go through is a business outcome carried in the
// ImportResult, not an error.
var (
	ErrForbidden  = errors.New("importer: admins only")
	ErrBadRequest = errors.New("importer: missing required fields: row.title, row.goat_url")
)

const (
	duplicateReason = "Duplicate listing already exists"
	noImagesWarning = "no images could be resolved; re-run enrichment for this row"
)

// Coordinator drives the per-row import. Rows are handed to it one at a time
// by an external driver; each call is an independent unit of work.
type Coordinator struct {
	store      storage.ListingStore
	blobs      storage.BlobStore
	downloader fetch.ImageDownloader
	fetcher    fetch.PageFetcher // live-fetch fallback; nil disables it
	cfg        *config.Config
	logger     *logrus.Logger
}

// New creates a Coordinator. fetcher may be nil, in which case rows without
// pre-fetched image URLs import with zero images and a warning.
func New(store storage.ListingStore, blobs storage.BlobStore, downloader fetch.ImageDownloader,
	fetcher fetch.PageFetcher, cfg *config.Config, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		store:      store,
		blobs:      blobs,
		downloader: downloader,
		fetcher:    fetcher,
		cfg:        cfg,
		logger:     logger,
	}
}

// Import runs one row through authorization, duplicate detection, listing and
// size-variant persistence, and best-effort image materialization.
//
// The returned error is non-nil only for caller errors (ErrForbidden,
// ErrBadRequest) and unexpected store failures during authorization; every
// per-row outcome after that point, including a failed listing insert, comes
// back as an ImportResult so a driver looping over rows never aborts.
func (c *Coordinator) Import(ctx context.Context, row *models.ImportRow, identity string) (*models.ImportResult, error) {
	isAdmin, err := c.store.IsAdmin(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("admin lookup: %w", err)
	}
	if !isAdmin {
		return nil, ErrForbidden
	}

	if row.Title == "" || row.GoatURL == "" {
		return nil, ErrBadRequest
	}

	isMultiSize := row.IsMultiSize()

	// Multi-size rows dedup at the product level (one row = whole listing);
	// single-size rows at the (product, size) level, one legacy row per size.
	var sizeKey *string
	if !isMultiSize {
		sizeKey = &row.SizeValue
	}
	if _, found, err := c.store.FindListing(ctx, row.Title, sizeKey); err != nil {
		c.logger.Warnf("[import] Duplicate check failed for %q, proceeding to insert: %v", row.Title, err)
	} else if found {
		return &models.ImportResult{
			Status:    models.ResultSkipped,
			Reason:    duplicateReason,
			Title:     row.Title,
			SizeValue: row.SizeValue,
		}, nil
	}

	c.warnUnknownSizes(row)

	listing := &models.Listing{
		Title:           row.Title,
		Brand:           row.Brand,
		Model:           row.Model,
		Category:        models.Category,
		Condition:       models.ConditionNew,
		SizeValue:       sizeKey,
		Price:           row.ListingPrice(),
		RetailPrice:     row.RetailPrice,
		Status:          models.StatusActive,
		ShippingCharges: 0,
		DeliveryDays:    models.ImportDeliveryDays,
		GoatURL:         row.GoatURL,
	}

	listingID, err := c.store.InsertListing(ctx, listing)
	if errors.Is(err, storage.ErrDuplicateListing) {
		// The dedup index caught a row the read check raced past.
		return &models.ImportResult{
			Status:    models.ResultSkipped,
			Reason:    duplicateReason,
			Title:     row.Title,
			SizeValue: row.SizeValue,
		}, nil
	}
	if err != nil {
		c.logger.Errorf("[import] Listing insert failed for %q: %v", row.Title, err)
		return &models.ImportResult{
			Status: models.ResultError,
			Reason: err.Error(),
			Title:  row.Title,
		}, nil
	}

	result := &models.ImportResult{
		Status:    models.ResultImported,
		Title:     row.Title,
		SizeValue: row.SizeValue,
		ListingID: listingID,
	}

	if isMultiSize {
		variants := make([]models.SizeVariant, 0, len(row.Sizes))
		for _, s := range row.Sizes {
			variants = append(variants, models.SizeVariant{
				ListingID: listingID,
				SizeValue: s.SizeValue,
				Price:     s.Price,
			})
		}
		if err := c.store.InsertSizeVariants(ctx, variants); err != nil {
			// The listing exists and stands on its own; a lost size
			// breakdown degrades completeness, not success.
			c.logger.Errorf("[import] Size-variant insert failed for listing %s: %v", listingID, err)
		} else {
			result.SizesImported = len(variants)
		}
	}

	urls := c.resolveImageURLs(ctx, row)
	if len(urls) == 0 {
		result.Warning = noImagesWarning
		return result, nil
	}

	images := c.materializeImages(ctx, listingID, urls)
	if len(images) > 0 {
		if err := c.store.InsertImages(ctx, images); err != nil {
			c.logger.Errorf("[import] Image-record insert failed for listing %s: %v", listingID, err)
		}
	}

	result.ImagesUploaded = len(images)
	if result.ImagesUploaded == 0 {
		result.Warning = noImagesWarning
	}
	return result, nil
}

// resolveImageURLs prefers the row's pre-fetched URLs and falls back to a
// live fetch of the source page. The fallback shares the collector's
// extraction routine and its fate against bot blocking: failures are logged
// and absorbed, never fatal to the row.
func (c *Coordinator) resolveImageURLs(ctx context.Context, row *models.ImportRow) []string {
	if len(row.ImageURLs) > 0 {
		urls := row.ImageURLs
		if len(urls) > models.MaxImagesPerListing {
			urls = urls[:models.MaxImagesPerListing]
		}
		return urls
	}

	if c.fetcher == nil {
		return nil
	}

	html, err := c.fetcher.FetchHTML(ctx, row.GoatURL)
	if err != nil {
		c.logger.Warnf("[import] Live fetch failed for %s: %v", row.GoatURL, err)
		return nil
	}
	urls, err := extract.Images(html)
	if err != nil {
		c.logger.Warnf("[import] Extraction failed for %s: %v", row.GoatURL, err)
		return nil
	}
	return urls
}

// materializeImages downloads and uploads each resolved URL, bounded-parallel.
// Results are slotted by original index so ordering, and therefore poster
// assignment, is independent of completion order. Individual failures leave
// a gap, never fail the row.
func (c *Coordinator) materializeImages(ctx context.Context, listingID string, urls []string) []models.ProductImage {
	slots := make([]*models.ProductImage, len(urls))
	pool := utils.NewWorkerPool(c.cfg.MaxImageWorkers, 0)

	for i, u := range urls {
		i, u := i, u
		pool.Submit(func() {
			data, ext, contentType, err := c.downloader.Download(ctx, u)
			if err != nil {
				c.logger.Warnf("[import] Image %d download failed for listing %s: %v", i, listingID, err)
				return
			}

			path := fmt.Sprintf("products/%s/%d%s", listingID, i, ext)
			publicURL, err := c.blobs.Upload(ctx, path, contentType, data)
			if err != nil {
				c.logger.Warnf("[import] Image %d upload failed for listing %s: %v", i, listingID, err)
				return
			}

			slots[i] = &models.ProductImage{
				ProductID:   listingID,
				ImageURL:    publicURL,
				StoragePath: path,
			}
		})
	}
	pool.Wait()

	// Poster = first successfully materialized image in original order.
	images := make([]models.ProductImage, 0, len(urls))
	for _, img := range slots {
		if img == nil {
			continue
		}
		img.IsPosterImage = len(images) == 0
		images = append(images, *img)
	}
	return images
}

// warnUnknownSizes flags size values absent from the brand's conversion
// chart. Advisory only; regional exports legitimately carry sizes the chart
// doesn't list.
func (c *Coordinator) warnUnknownSizes(row *models.ImportRow) {
	check := func(sizeValue string) {
		if sizeValue != "" && !sizechart.KnownSize(row.Brand, sizeValue) {
			c.logger.Warnf("[import] Size %q not in %s chart for %q", sizeValue, row.Brand, row.Title)
		}
	}
	if row.IsMultiSize() {
		for _, s := range row.Sizes {
			check(s.SizeValue)
		}
		return
	}
	check(row.SizeValue)
}
