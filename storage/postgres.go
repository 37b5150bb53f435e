package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"goat-importer/models"
)

// Postgres implements ListingStore on PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection to PostgreSQL, runs schema migrations, and
// returns a ready-to-use store.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	p := &Postgres{db: db}
	if err := p.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return p, nil
}

func (p *Postgres) migrate() error {
	_, err := p.db.Exec(`
		CREATE TABLE IF NOT EXISTS admin_users (
			identity  TEXT        PRIMARY KEY,
			added_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS product_listings (
			id               TEXT          PRIMARY KEY,
			title            TEXT          NOT NULL,
			brand            TEXT          NOT NULL DEFAULT '',
			model            TEXT          NOT NULL DEFAULT '',
			category         TEXT          NOT NULL,
			condition        TEXT          NOT NULL,
			size_value       TEXT          NULL,
			price            NUMERIC(10,2) NOT NULL DEFAULT 0,
			retail_price     NUMERIC(10,2) NULL,
			status           TEXT          NOT NULL CHECK (status IN ('under_review','active','rejected','sold')),
			shipping_charges NUMERIC(10,2) NOT NULL DEFAULT 0,
			delivery_days    TEXT          NOT NULL DEFAULT '',
			goat_url         TEXT          NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_title  ON product_listings(title);
		CREATE INDEX IF NOT EXISTS idx_listings_status ON product_listings(status);

		-- The dedup mechanism of record: the pre-insert read check is only a
		-- fast path, this index closes its check-then-insert race.
		CREATE UNIQUE INDEX IF NOT EXISTS idx_listings_dedup
			ON product_listings(title, COALESCE(size_value, ''))
			WHERE status <> 'sold';

		CREATE TABLE IF NOT EXISTS product_listing_sizes (
			listing_id TEXT          NOT NULL REFERENCES product_listings(id) ON DELETE CASCADE,
			size_value TEXT          NOT NULL,
			price      NUMERIC(10,2) NOT NULL,
			PRIMARY KEY (listing_id, size_value)
		);

		CREATE TABLE IF NOT EXISTS product_images (
			product_id      TEXT    NOT NULL REFERENCES product_listings(id) ON DELETE CASCADE,
			image_url       TEXT    NOT NULL,
			storage_path    TEXT    NOT NULL,
			is_poster_image BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (product_id, storage_path)
		);
	`)
	return err
}

// IsAdmin reports whether identity is on the admin allow-list.
func (p *Postgres) IsAdmin(ctx context.Context, identity string) (bool, error) {
	var n int
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admin_users WHERE identity = $1`, identity).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("postgres: admin lookup: %w", err)
	}
	return n > 0, nil
}

// FindListing looks up a non-sold listing by title (and size, when given).
func (p *Postgres) FindListing(ctx context.Context, title string, sizeValue *string) (string, bool, error) {
	query := `SELECT id FROM product_listings WHERE title = $1 AND status <> 'sold'`
	args := []interface{}{title}
	if sizeValue != nil {
		query += ` AND size_value = $2`
		args = append(args, *sizeValue)
	}
	query += ` LIMIT 1`

	var id string
	err := p.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("postgres: find listing: %w", err)
	}
	return id, true, nil
}

// InsertListing persists a listing under a fresh UUID. A unique-violation on
// the dedup index comes back as ErrDuplicateListing.
func (p *Postgres) InsertListing(ctx context.Context, l *models.Listing) (string, error) {
	id := uuid.New().String()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO product_listings
			(id, title, brand, model, category, condition, size_value, price,
			 retail_price, status, shipping_charges, delivery_days, goat_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, id, l.Title, l.Brand, l.Model, l.Category, l.Condition, l.SizeValue,
		l.Price, l.RetailPrice, l.Status, l.ShippingCharges, l.DeliveryDays, l.GoatURL)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return "", ErrDuplicateListing
		}
		return "", fmt.Errorf("postgres: insert listing: %w", err)
	}
	return id, nil
}

// InsertSizeVariants bulk-inserts one row per (listing_id, size_value, price).
func (p *Postgres) InsertSizeVariants(ctx context.Context, variants []models.SizeVariant) error {
	if len(variants) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(variants))
	valueArgs := make([]interface{}, 0, len(variants)*3)
	for idx, v := range variants {
		base := idx * 3
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d)", base+1, base+2, base+3))
		valueArgs = append(valueArgs, v.ListingID, v.SizeValue, v.Price)
	}

	query := fmt.Sprintf(`
		INSERT INTO product_listing_sizes (listing_id, size_value, price)
		VALUES %s
		ON CONFLICT (listing_id, size_value) DO NOTHING
	`, strings.Join(valueStrings, ","))

	if _, err := p.db.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert size variants: %w", err)
	}
	return nil
}

// InsertImages bulk-inserts one row per materialized image.
func (p *Postgres) InsertImages(ctx context.Context, images []models.ProductImage) error {
	if len(images) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(images))
	valueArgs := make([]interface{}, 0, len(images)*4)
	for idx, img := range images {
		base := idx * 4
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		valueArgs = append(valueArgs, img.ProductID, img.ImageURL, img.StoragePath, img.IsPosterImage)
	}

	query := fmt.Sprintf(`
		INSERT INTO product_images (product_id, image_url, storage_path, is_poster_image)
		VALUES %s
		ON CONFLICT (product_id, storage_path) DO NOTHING
	`, strings.Join(valueStrings, ","))

	if _, err := p.db.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert images: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}
