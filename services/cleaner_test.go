package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"asset-grader/models"
	"asset-grader/utils"
)

func TestCleanerParsePrice(t *testing.T) {
	c := NewCleaner(utils.NewTestLogger(t))

	tests := []struct {
		raw  string
		want float64
	}{
		{"$24.99", 24.99},
		{"€1,200.50", 1200.50},
		{"", 0},
		{"free", 0},
		{"USD 15", 15},
	}

	for _, tt := range tests {
		got := c.parsePrice(tt.raw)
		if got != tt.want {
			t.Errorf("parsePrice(%q) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestCleanerParseRating(t *testing.T) {
	c := NewCleaner(utils.NewTestLogger(t))

	tests := []struct {
		raw  string
		want float64
	}{
		{"4.85", 4.85},
		{"5.0", 5.0},
		{"3.5 (120 reviews)", 3.5},
		{"", 0},
		{"New", 0},
		{"6.0", 0},
	}

	for _, tt := range tests {
		got := c.parseRating(tt.raw)
		if got != tt.want {
			t.Errorf("parseRating(%q) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"12", 12},
		{"1,204", 1204},
		{"3.4k", 3400},
		{"2M", 2000000},
		{"", 0},
		{"none", 0},
	}

	for _, tt := range tests {
		if got := parseCount(tt.raw); got != tt.want {
			t.Errorf("parseCount(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestSplitTags(t *testing.T) {
	got := splitTags(" Fantasy | knight,3D ;fantasy||  Low Poly ")
	want := []string{"fantasy", "knight", "3d", "low poly"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("splitTags mismatch (-want +got):\n%s", diff)
	}
}

func TestCleanerDropsMissingIdentity(t *testing.T) {
	c := NewCleaner(utils.NewTestLogger(t))
	raw := []*models.RawListing{
		{Title: "No ID or URL", RawPrice: "$10"},
		{Title: "URL only", URL: "https://assets.example.com/packages/tools/a-1"},
		{ID: "42", Title: "ID only"},
		nil,
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(cleaned))
	}
	if cleaned[0].ID != "https://assets.example.com/packages/tools/a-1" {
		t.Errorf("URL-only listing ID: got %q", cleaned[0].ID)
	}
}

func TestCleanerDeduplicatesID(t *testing.T) {
	c := NewCleaner(utils.NewTestLogger(t))
	raw := []*models.RawListing{
		{ID: "1", Title: "A"},
		{ID: "1", Title: "B"},
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 listing after deduplication, got %d", len(cleaned))
	}
	if cleaned[0].Title != "A" {
		t.Errorf("kept title: got %q, want %q", cleaned[0].Title, "A")
	}
}

func TestCleanerKeepsDescriptionLines(t *testing.T) {
	c := NewCleaner(utils.NewTestLogger(t))
	raw := []*models.RawListing{{
		ID:              "1",
		Category:        " 3D /  Props ",
		Title:           "  Crate   Pack ",
		LongDescription: "Intro line\r\n  - first   item\n\n- second item",
		Images:          "5",
		AnimatedPreview: "yes",
		Reviews:         "1.2k",
	}}

	l := c.Clean(raw)[0]
	if l.Category != "3D/Props" {
		t.Errorf("Category: got %q, want %q", l.Category, "3D/Props")
	}
	if l.Title != "Crate Pack" {
		t.Errorf("Title: got %q", l.Title)
	}
	if got := CountBullets(l.LongDescription); got != 2 {
		t.Errorf("bullets: got %d, want 2", got)
	}
	if l.ImageCount != 5 || !l.HasAnimatedPreview || l.ReviewCount != 1200 {
		t.Errorf("counts: got images=%d animated=%v reviews=%d", l.ImageCount, l.HasAnimatedPreview, l.ReviewCount)
	}
}
