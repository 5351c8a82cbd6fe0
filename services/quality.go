package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"asset-grader/models"
	"asset-grader/utils"
)

var errNoTimestamp = errors.New("no timestamp")

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseTimestamp parses an upstream update timestamp. Empty input returns
// errNoTimestamp; anything else that matches no known layout returns a
// descriptive error.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errNoTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil && secs > 0 {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

// DaysSince returns whole days between t and now, never negative.
func DaysSince(t, now time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// QualityBreakdown lists the already-weighted terms of a quality score.
type QualityBreakdown struct {
	Review       float64
	Freshness    float64
	Popularity   float64
	Completeness float64
}

// Total sums the terms.
func (b QualityBreakdown) Total() float64 {
	return b.Review + b.Freshness + b.Popularity + b.Completeness
}

// QualityScorer ranks listings within a category. Scores are only meaningful
// relative to each other.
type QualityScorer struct {
	weights models.QualityWeights
	now     time.Time
	logger  *utils.Logger

	parseFailures atomic.Int64
}

// NewQualityScorer creates a scorer that measures freshness against now.
func NewQualityScorer(weights models.QualityWeights, now time.Time, logger *utils.Logger) *QualityScorer {
	return &QualityScorer{weights: weights, now: now, logger: logger}
}

// ParseFailures returns how many unparseable timestamps this scorer has seen.
func (s *QualityScorer) ParseFailures() int64 {
	return s.parseFailures.Load()
}

// Score computes the quality score of l.
func (s *QualityScorer) Score(l *models.Listing) float64 {
	return s.Breakdown(l).Total()
}

// Breakdown computes each weighted term of the quality score.
func (s *QualityScorer) Breakdown(l *models.Listing) QualityBreakdown {
	reviews := float64(max(l.ReviewCount, 0))
	favorites := float64(max(l.FavoriteCount, 0))
	rating := math.Max(l.Rating, 0)

	return QualityBreakdown{
		Review:       rating * math.Log1p(reviews) * s.weights.Review,
		Freshness:    s.freshness(l) * s.weights.Freshness,
		Popularity:   math.Log1p(reviews+favorites) * s.weights.Popularity,
		Completeness: float64(Completeness(l)) * s.weights.Completeness,
	}
}

func (s *QualityScorer) freshness(l *models.Listing) float64 {
	updated, err := ParseTimestamp(l.UpdatedAt)
	if err != nil {
		if !errors.Is(err, errNoTimestamp) {
			s.parseFailures.Add(1)
			if s.logger != nil {
				s.logger.Warn("[quality] listing %s: %v, freshness counts as zero", l.ID, err)
			}
		}
		return 0
	}
	return FreshnessCredit(DaysSince(updated, s.now))
}

// FreshnessCredit is the step function applied to days since last update.
func FreshnessCredit(days int) float64 {
	switch {
	case days <= 180:
		return 10
	case days <= 365:
		return 6
	case days <= 730:
		return 3
	default:
		return 1
	}
}

// Completeness returns a 0–10 score for how fully a listing is filled in.
func Completeness(l *models.Listing) int {
	score := 0

	switch {
	case l.ImageCount >= 5:
		score += 3
	case l.ImageCount >= 3:
		score += 2
	case l.ImageCount >= 1:
		score++
	}

	if l.VideoCount > 0 {
		score += 2
	}

	switch n := TextLength(l.LongDescription); {
	case n >= 500:
		score += 3
	case n >= 200:
		score += 2
	case n >= 50:
		score++
	}

	switch n := len(l.Tags); {
	case n >= 4:
		score += 2
	case n >= 2:
		score++
	}

	return score
}
