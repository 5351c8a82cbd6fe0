package storage

import (
	"context"

	"asset-grader/models"
)

// ListingStore persists cleaned corpus listings and loads them back.
type ListingStore interface {
	Write(ctx context.Context, listings []*models.Listing) error
	FetchAll(ctx context.Context) ([]*models.Listing, error)
	Close() error
}

// RawListingReader supplies unprocessed listing records.
type RawListingReader interface {
	ReadRaw() ([]*models.RawListing, error)
}

// GradeWriter persists grade results.
type GradeWriter interface {
	WriteGrades(results []*models.GradeResult) error
	Close() error
}

// RulesStore saves and loads the rules file produced by a batch run.
type RulesStore interface {
	Save(ctx context.Context, file *models.RulesFile) error
	Load(ctx context.Context) (*models.RulesFile, error)
}
