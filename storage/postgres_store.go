package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"asset-grader/models"
	"asset-grader/utils"
)

// listingColumns is the insert and select column order.
var listingColumns = []string{
	"id", "url", "category", "title", "short_description", "long_description",
	"tags", "price", "image_count", "video_count", "animated_preview", "rating",
	"review_count", "favorite_count", "updated_at", "documentation_url", "release_notes",
}

// PostgresStore persists the listing corpus to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, retrying the ping with
// back-off, runs schema migrations and returns a ready store.
func NewPostgresStore(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 10, BaseDelay: 500 * time.Millisecond}
	}
	if err := retry.Do(ctx, "postgres ping", func(ctx context.Context) error {
		return db.PingContext(ctx)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id                TEXT          PRIMARY KEY,
			url               TEXT          NOT NULL DEFAULT '',
			category          TEXT          NOT NULL DEFAULT '',
			title             TEXT          NOT NULL DEFAULT '',
			short_description TEXT          NOT NULL DEFAULT '',
			long_description  TEXT          NOT NULL DEFAULT '',
			tags              TEXT[]        NOT NULL DEFAULT '{}',
			price             NUMERIC(10,2) NOT NULL DEFAULT 0,
			image_count       INTEGER       NOT NULL DEFAULT 0,
			video_count       INTEGER       NOT NULL DEFAULT 0,
			animated_preview  BOOLEAN       NOT NULL DEFAULT FALSE,
			rating            NUMERIC(4,2)  NOT NULL DEFAULT 0,
			review_count      INTEGER       NOT NULL DEFAULT 0,
			favorite_count    INTEGER       NOT NULL DEFAULT 0,
			updated_at        TEXT          NOT NULL DEFAULT '',
			documentation_url TEXT          NOT NULL DEFAULT '',
			release_notes     TEXT          NOT NULL DEFAULT '',
			imported_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category);
		CREATE INDEX IF NOT EXISTS idx_listings_rating   ON listings(rating);
	`)
	return err
}

// Clear deletes all stored listings.
func (ps *PostgresStore) Clear(ctx context.Context) error {
	if _, err := ps.db.ExecContext(ctx, "DELETE FROM listings"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write upserts listings in batches inside one transaction. Existing rows
// with the same ID are replaced.
func (ps *PostgresStore) Write(ctx context.Context, listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := min(i+batchSize, len(listings))
		query, args := upsertQuery(listings[i:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: upsert batch at %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// upsertQuery builds a multi-row INSERT ... ON CONFLICT statement.
func upsertQuery(batch []*models.Listing) (string, []any) {
	cols := len(listingColumns)
	valueStrings := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*cols)

	for idx, l := range batch {
		ph := make([]string, cols)
		for c := range ph {
			ph[c] = fmt.Sprintf("$%d", idx*cols+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		args = append(args,
			l.ID, l.URL, l.Category, l.Title, l.ShortDescription, l.LongDescription,
			pq.Array(nonNilTags(l.Tags)), l.Price, l.ImageCount, l.VideoCount, l.HasAnimatedPreview, l.Rating,
			l.ReviewCount, l.FavoriteCount, l.UpdatedAt, l.DocumentationURL, l.ReleaseNotes)
	}

	updates := make([]string, 0, cols-1)
	for _, c := range listingColumns[1:] {
		updates = append(updates, c+" = EXCLUDED."+c)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (%s)
		VALUES %s
		ON CONFLICT (id) DO UPDATE SET %s, imported_at = NOW()
	`, strings.Join(listingColumns, ", "), strings.Join(valueStrings, ","), strings.Join(updates, ", "))

	return query, args
}

// FetchAll loads the whole corpus ordered by ID.
func (ps *PostgresStore) FetchAll(ctx context.Context) ([]*models.Listing, error) {
	rows, err := ps.db.QueryContext(ctx,
		"SELECT "+strings.Join(listingColumns, ", ")+" FROM listings ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	listings := make([]*models.Listing, 0)
	for rows.Next() {
		l := &models.Listing{}
		if err := rows.Scan(
			&l.ID, &l.URL, &l.Category, &l.Title, &l.ShortDescription, &l.LongDescription,
			pq.Array(&l.Tags), &l.Price, &l.ImageCount, &l.VideoCount, &l.HasAnimatedPreview, &l.Rating,
			&l.ReviewCount, &l.FavoriteCount, &l.UpdatedAt, &l.DocumentationURL, &l.ReleaseNotes,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows: %w", err)
	}
	return listings, nil
}

// nonNilTags avoids writing NULL into the NOT NULL tags column.
func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
