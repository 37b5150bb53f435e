// Package extract pulls product image URLs out of the embedded data block a
// server-rendered catalog page ships for client-side hydration. Both the
// enrichment collector (full browser) and the import coordinator's live-fetch
// fallback (raw HTTP) parse pages through this one function; the two call
// sites differ only in how they obtain the HTML.
package extract

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"goat-importer/models"
)

// dataBlockSelector is where the page embeds its hydration payload.
const dataBlockSelector = "script#__NEXT_DATA__"

// Failure taxonomy. Callers absorb these into an empty result per row, but
// the variants keep the modes inspectable: a block page renders without the
// data block at all and surfaces as ErrMissingDataBlock.
var (
	ErrMissingDataBlock = errors.New("extract: embedded data block not found")
	ErrMalformedPayload = errors.New("extract: embedded data block is not valid JSON")
	ErrMissingFields    = errors.New("extract: product template missing from payload")
)

type productTemplate struct {
	MainPictureURL     string   `json:"mainPictureUrl"`
	GalleryPictureURLs []string `json:"galleryPictureUrls"`
}

type nextData struct {
	Props struct {
		PageProps struct {
			ProductTemplate *productTemplate `json:"productTemplate"`
		} `json:"pageProps"`
	} `json:"props"`
}

// Images extracts up to MaxImagesPerListing image URLs from a product page.
// The main image comes first, then the gallery in source order; empty entries
// are dropped. A page with a template but no pictures yields an empty, non-nil
// error-free result.
func Images(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, ErrMalformedPayload
	}

	block := doc.Find(dataBlockSelector)
	if block.Length() == 0 {
		return nil, ErrMissingDataBlock
	}

	var payload nextData
	if err := json.Unmarshal([]byte(block.First().Text()), &payload); err != nil {
		return nil, ErrMalformedPayload
	}

	tmpl := payload.Props.PageProps.ProductTemplate
	if tmpl == nil {
		return nil, ErrMissingFields
	}

	urls := make([]string, 0, models.MaxImagesPerListing)
	if u := strings.TrimSpace(tmpl.MainPictureURL); u != "" {
		urls = append(urls, u)
	}
	for _, raw := range tmpl.GalleryPictureURLs {
		if len(urls) >= models.MaxImagesPerListing {
			break
		}
		if u := strings.TrimSpace(raw); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) > models.MaxImagesPerListing {
		urls = urls[:models.MaxImagesPerListing]
	}
	return urls, nil
}
