package services

import (
	"math"
	"strings"
	"testing"
	"time"

	"asset-grader/models"
	"asset-grader/utils"
)

func TestReviewTermGrowsWithReviewCount(t *testing.T) {
	s := NewQualityScorer(models.DefaultQualityWeights(), testNow, utils.NewTestLogger(t))

	base := knight("a")
	base.Rating = 4.5
	base.ReviewCount = 50
	more := knight("b")
	more.Rating = 4.5
	more.ReviewCount = 100

	before := s.Breakdown(base)
	after := s.Breakdown(more)

	wantDelta := 4.5 * math.Log(101.0/51.0) * 2.0
	if got := after.Review - before.Review; math.Abs(got-wantDelta) > 1e-9 {
		t.Errorf("review term delta: got %.6f, want %.6f", got, wantDelta)
	}
	if after.Total() <= before.Total() {
		t.Errorf("total score did not increase: %.4f -> %.4f", before.Total(), after.Total())
	}
}

func TestReviewCountMonotonic(t *testing.T) {
	s := NewQualityScorer(models.DefaultQualityWeights(), testNow, utils.NewTestLogger(t))

	prev := -1.0
	for _, n := range []int{0, 1, 5, 20, 100, 1000} {
		l := knight("x")
		l.ReviewCount = n
		got := s.Score(l)
		if got <= prev {
			t.Errorf("score with %d reviews = %.4f, not above %.4f", n, got, prev)
		}
		prev = got
	}
}

func TestFreshnessCredit(t *testing.T) {
	tests := []struct {
		days int
		want float64
	}{
		{0, 10},
		{180, 10},
		{181, 6},
		{365, 6},
		{366, 3},
		{730, 3},
		{731, 1},
		{5000, 1},
	}

	for _, tt := range tests {
		if got := FreshnessCredit(tt.days); got != tt.want {
			t.Errorf("FreshnessCredit(%d) = %.0f; want %.0f", tt.days, got, tt.want)
		}
	}
}

func TestUnparseableTimestampCountsAsZero(t *testing.T) {
	s := NewQualityScorer(models.DefaultQualityWeights(), testNow, utils.NewTestLogger(t))

	l := knight("a")
	l.UpdatedAt = "sometime last spring"
	if got := s.Breakdown(l).Freshness; got != 0 {
		t.Errorf("freshness: got %.2f, want 0", got)
	}
	if got := s.ParseFailures(); got != 1 {
		t.Errorf("ParseFailures: got %d, want 1", got)
	}

	l.UpdatedAt = ""
	if got := s.Breakdown(l).Freshness; got != 0 {
		t.Errorf("freshness for missing date: got %.2f, want 0", got)
	}
	if got := s.ParseFailures(); got != 1 {
		t.Errorf("missing dates must not count as failures: got %d", got)
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2024-03-05", "2024-03-05T00:00:00Z", "Mar 5, 2024", "1709596800"} {
		got, err := ParseTimestamp(raw)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", raw, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseTimestamp(%q) = %v; want %v", raw, got, want)
		}
	}
}

func TestCompleteness(t *testing.T) {
	tests := []struct {
		name string
		l    *models.Listing
		want int
	}{
		{"empty", &models.Listing{}, 0},
		{"full", knight("a"), 3 + 2 + 1 + 2},
		{"rich", &models.Listing{
			ImageCount:      5,
			VideoCount:      1,
			LongDescription: strings.Repeat("word ", 120),
			Tags:            []string{"a", "b"},
		}, 3 + 2 + 3 + 1},
	}

	for _, tt := range tests {
		if got := Completeness(tt.l); got != tt.want {
			t.Errorf("%s: Completeness = %d; want %d", tt.name, got, tt.want)
		}
	}
}
