package models

import "time"

// Listing field constants applied to every imported row. Marketplace-authored
// listings (outside this pipeline) start at StatusUnderReview instead.
const (
	Category           = "sneakers"
	ConditionNew       = "new"
	ImportDeliveryDays = "7-10"

	StatusUnderReview = "under_review"
	StatusActive      = "active"
	StatusRejected    = "rejected"
	StatusSold        = "sold"

	// MaxImagesPerListing caps the resolved image list. Anything past
	// position 8 in the source gallery is dropped.
	MaxImagesPerListing = 8
)

// SizeEntry is one (size, price) pair of a multi-size ImportRow.
type SizeEntry struct {
	SizeValue string  `json:"size_value"`
	Price     float64 `json:"price"`
}

// ImportRow is the unit of work for one product: one row of the enriched
// catalog export, or the equivalent authored in a bulk-import UI.
//
// Exactly one of the two size shapes is populated: either SizeValue/Price
// (legacy single-size export, one row per size) or a non-empty Sizes list
// (current multi-size export, one row per product).
type ImportRow struct {
	Title       string      `json:"title"`
	Brand       string      `json:"brand"`
	Model       string      `json:"model"`
	GoatURL     string      `json:"goat_url"`
	ImageURLs   []string    `json:"image_urls,omitempty"`
	SizeValue   string      `json:"size_value,omitempty"`
	Price       float64     `json:"price,omitempty"`
	Sizes       []SizeEntry `json:"sizes,omitempty"`
	RetailPrice *float64    `json:"retail_price,omitempty"`
}

// IsMultiSize reports which of the two row shapes this is. Decided once at
// the boundary; everything downstream branches on it.
func (r *ImportRow) IsMultiSize() bool {
	return len(r.Sizes) > 0
}

// ListingPrice resolves the display price: the minimum across size variants
// for a multi-size row (lowest-price-first list policy), the single price
// otherwise, defaulting to 0 when absent.
func (r *ImportRow) ListingPrice() float64 {
	if !r.IsMultiSize() {
		return r.Price
	}
	min := r.Sizes[0].Price
	for _, s := range r.Sizes[1:] {
		if s.Price < min {
			min = s.Price
		}
	}
	return min
}

// Listing is the persisted canonical product record.
type Listing struct {
	ID              string
	Title           string
	Brand           string
	Model           string
	Category        string
	Condition       string
	SizeValue       *string // nil when size detail lives in SizeVariant rows
	Price           float64
	RetailPrice     *float64
	Status          string
	ShippingCharges float64
	DeliveryDays    string
	GoatURL         string
	CreatedAt       time.Time
}

// SizeVariant is one (size, price) pair belonging to a multi-size Listing.
type SizeVariant struct {
	ListingID string
	SizeValue string
	Price     float64
}

// ProductImage is one materialized image of a Listing. Exactly one image per
// listing carries IsPosterImage.
type ProductImage struct {
	ProductID     string
	ImageURL      string
	StoragePath   string
	IsPosterImage bool
}

// Import result statuses. Duplicates and per-row persistence failures are
// business outcomes, not transport errors: the driver branches on Status.
const (
	ResultImported = "imported"
	ResultSkipped  = "skipped"
	ResultError    = "error"
)

// ImportResult is the per-row outcome returned to the driver.
type ImportResult struct {
	Status         string `json:"status"`
	Reason         string `json:"reason,omitempty"`
	Title          string `json:"title,omitempty"`
	SizeValue      string `json:"size_value,omitempty"`
	ListingID      string `json:"listing_id,omitempty"`
	SizesImported  int    `json:"sizes_imported,omitempty"`
	ImagesUploaded int    `json:"images_uploaded"`
	Warning        string `json:"warning,omitempty"`
}
