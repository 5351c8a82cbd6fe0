package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"asset-grader/models"
)

var gradeHeader = []string{
	"listing_id", "category", "score", "letter",
	"content", "media", "trust", "findability",
	"confidence", "used_fallback", "reasons",
}

// CSVWriter writes grade results to a CSV report.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(gradeHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteGrades appends one row per result. Reasons are joined with "; ".
func (c *CSVWriter) WriteGrades(results []*models.GradeResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, g := range results {
		if g == nil {
			continue
		}
		row := []string{
			g.ListingID,
			g.Category,
			formatScore(g.Score),
			g.Letter,
			formatScore(g.Breakdown.Content.Score),
			formatScore(g.Breakdown.Media.Score),
			formatScore(g.Breakdown.Trust.Score),
			formatScore(g.Breakdown.Findability.Score),
			g.Confidence,
			strconv.FormatBool(g.UsedFallback),
			strings.Join(g.Reasons, "; "),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
