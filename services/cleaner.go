package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"asset-grader/models"
	"asset-grader/utils"
)

var (
	// priceRegexp captures numeric price values
	priceRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)
	// ratingRegexp captures a numeric rating in the 0.0–5.0 range
	ratingRegexp = regexp.MustCompile(`\b([0-5](?:\.\d{1,2})?)\b`)
	// countRegexp captures counts such as "1,204", "3.4k" or "2M"
	countRegexp = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*([km])?\b`)
)

// Cleaner transforms RawListings into clean, validated Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean processes raw listings and returns cleaned records. Records without
// an ID fall back to their URL as identifier; records with neither are
// dropped, as are repeated identifiers.
func (c *Cleaner) Clean(raw []*models.RawListing) []*models.Listing {
	seen := utils.NewIDSet()
	result := make([]*models.Listing, 0, len(raw))

	for _, r := range raw {
		if r == nil {
			continue
		}
		url := strings.TrimSpace(r.URL)
		id := strings.TrimSpace(r.ID)
		if id == "" {
			id = url
		}
		if id == "" {
			c.logger.Warn("[cleaner] Dropping listing with no ID or URL: %s", r.Title)
			continue
		}

		if !seen.Add(id) {
			c.logger.Debug("[cleaner] Duplicate listing skipped: %s", id)
			continue
		}

		result = append(result, &models.Listing{
			ID:                 id,
			URL:                url,
			Category:           NormalizeCategory(r.Category),
			Title:              normaliseText(r.Title),
			ShortDescription:   normaliseText(r.ShortDescription),
			LongDescription:    normaliseLines(r.LongDescription),
			Tags:               splitTags(r.Tags),
			Price:              c.parsePrice(r.RawPrice),
			ImageCount:         parseCount(r.Images),
			VideoCount:         parseCount(r.Videos),
			HasAnimatedPreview: parseBool(r.AnimatedPreview),
			Rating:             c.parseRating(r.Rating),
			ReviewCount:        parseCount(r.Reviews),
			FavoriteCount:      parseCount(r.Favorites),
			UpdatedAt:          strings.TrimSpace(r.UpdatedAt),
			DocumentationURL:   strings.TrimSpace(r.DocumentationURL),
			ReleaseNotes:       normaliseLines(r.ReleaseNotes),
		})
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parsePrice extracts the first numeric amount. "Free" and empty strings are 0.
// Examples:
//
//	"$24.99"       → 24.99
//	"€1,200.50"    → 1200.50
//	"USD 15"       → 15
func (c *Cleaner) parsePrice(raw string) float64 {
	cleaned := strings.ReplaceAll(strings.ToLower(raw), ",", "")
	match := priceRegexp.FindString(cleaned)
	if match == "" {
		return 0
	}

	price, err := strconv.ParseFloat(match, 64)
	if err != nil || price < 0 {
		return 0
	}
	return price
}

// parseRating extracts a 0.0–5.0 numeric rating from a raw string.
func (c *Cleaner) parseRating(raw string) float64 {
	match := ratingRegexp.FindStringSubmatch(raw)
	if len(match) < 2 {
		return 0
	}
	val, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	if val < 0 || val > 5 {
		return 0
	}
	return val
}

// parseCount reads a non-negative count, understanding thousands separators
// and k/M suffixes. Anything unreadable is 0.
func parseCount(raw string) int {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	match := countRegexp.FindStringSubmatch(raw)
	if len(match) < 2 {
		return 0
	}
	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(match[2]) {
	case "k":
		v *= 1_000
	case "m":
		v *= 1_000_000
	}
	return int(math.Round(v))
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// splitTags splits on '|', ',' or ';', lower-cases and removes duplicates
// while keeping first-seen order.
func splitTags(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '|' || r == ',' || r == ';'
	})
	seen := make(map[string]bool, len(parts))
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.ToLower(normaliseText(p))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}

// normaliseLines normalises each line but keeps line breaks, which carry
// bullet structure in plain-text descriptions.
func normaliseLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = normaliseText(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
