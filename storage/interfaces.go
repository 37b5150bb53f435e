package storage

import (
	"context"
	"errors"

	"goat-importer/models"
)

// ErrDuplicateListing is returned by InsertListing when the dedup constraint
// on (title, size_value) excluding sold listings rejects the insert. The
// coordinator translates it into a skipped outcome, same as the read check.
var ErrDuplicateListing = errors.New("storage: duplicate listing")

// ListingStore is the relational-store interface the import coordinator
// writes through.
type ListingStore interface {
	// IsAdmin reports whether identity is on the admin allow-list.
	IsAdmin(ctx context.Context, identity string) (bool, error)

	// FindListing looks up a non-sold listing by title, and by size too when
	// sizeValue is non-nil. Returns the listing id and whether one exists.
	FindListing(ctx context.Context, title string, sizeValue *string) (string, bool, error)

	// InsertListing persists a listing and returns its generated id.
	InsertListing(ctx context.Context, l *models.Listing) (string, error)

	// InsertSizeVariants bulk-inserts the size rows of a multi-size listing.
	InsertSizeVariants(ctx context.Context, variants []models.SizeVariant) error

	// InsertImages bulk-inserts materialized image records.
	InsertImages(ctx context.Context, images []models.ProductImage) error
}

// BlobStore uploads image bytes and resolves their public URL. Uploads
// overwrite any previous object at the same path.
type BlobStore interface {
	Upload(ctx context.Context, path, contentType string, data []byte) (publicURL string, err error)
}
