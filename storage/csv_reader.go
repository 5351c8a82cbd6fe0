package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"asset-grader/models"
)

// rawColumns maps accepted header names to RawListing fields.
var rawColumns = map[string]func(r *models.RawListing, v string){
	"id":                func(r *models.RawListing, v string) { r.ID = v },
	"url":               func(r *models.RawListing, v string) { r.URL = v },
	"category":          func(r *models.RawListing, v string) { r.Category = v },
	"title":             func(r *models.RawListing, v string) { r.Title = v },
	"short_description": func(r *models.RawListing, v string) { r.ShortDescription = v },
	"long_description":  func(r *models.RawListing, v string) { r.LongDescription = v },
	"description":       func(r *models.RawListing, v string) { r.LongDescription = v },
	"tags":              func(r *models.RawListing, v string) { r.Tags = v },
	"price":             func(r *models.RawListing, v string) { r.RawPrice = v },
	"images":            func(r *models.RawListing, v string) { r.Images = v },
	"image_count":       func(r *models.RawListing, v string) { r.Images = v },
	"videos":            func(r *models.RawListing, v string) { r.Videos = v },
	"video_count":       func(r *models.RawListing, v string) { r.Videos = v },
	"animated_preview":  func(r *models.RawListing, v string) { r.AnimatedPreview = v },
	"rating":            func(r *models.RawListing, v string) { r.Rating = v },
	"reviews":           func(r *models.RawListing, v string) { r.Reviews = v },
	"review_count":      func(r *models.RawListing, v string) { r.Reviews = v },
	"favorites":         func(r *models.RawListing, v string) { r.Favorites = v },
	"favorite_count":    func(r *models.RawListing, v string) { r.Favorites = v },
	"updated_at":        func(r *models.RawListing, v string) { r.UpdatedAt = v },
	"documentation_url": func(r *models.RawListing, v string) { r.DocumentationURL = v },
	"release_notes":     func(r *models.RawListing, v string) { r.ReleaseNotes = v },
}

// CSVReader reads raw listings from a CSV export with a header row. Columns
// are matched by header name; unknown columns are ignored and missing ones
// stay empty.
type CSVReader struct {
	path string
}

// NewCSVReader creates a reader for the file at path.
func NewCSVReader(path string) *CSVReader {
	return &CSVReader{path: path}
}

// ReadRaw reads every record of the file.
func (c *CSVReader) ReadRaw() ([]*models.RawListing, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", c.path, err)
	}
	defer f.Close()

	listings, err := ReadRawCSV(f)
	if err != nil {
		return nil, fmt.Errorf("csv: %q: %w", c.path, err)
	}
	return listings, nil
}

// ReadRawCSV parses raw listings from r.
func ReadRawCSV(r io.Reader) ([]*models.RawListing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []*models.RawListing{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	setters := make([]func(*models.RawListing, string), len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		setters[i] = rawColumns[name]
	}

	listings := make([]*models.RawListing, 0)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		raw := &models.RawListing{}
		for i, v := range rec {
			if i < len(setters) && setters[i] != nil {
				setters[i](raw, v)
			}
		}
		listings = append(listings, raw)
	}
	return listings, nil
}
