package services

import (
	"regexp"
	"strings"

	"asset-grader/models"
)

var (
	// callToActionRegexp matches phrases inviting the buyer to act.
	callToActionRegexp = regexp.MustCompile(`(?i)\b(buy now|get (it|started|yours)|download (now|today)|add (it )?to (your )?cart|grab|try (it|the demo)|check out|start (building|creating|today)|order now|join|contact us|see the demo|watch the (video|trailer))\b`)
	// valuePropRegexp matches phrases that claim a distinctive benefit.
	valuePropRegexp = regexp.MustCompile(`(?i)\b(only|unique|first|exclusive|unlike|save (hours|time|days)|production[- ]ready|fully customi[sz]able|optimi[sz]ed|drag[- ]and[- ]drop|no coding|lightweight|all[- ]in[- ]one|best[- ]selling|award[- ]winning)\b`)
)

// HasCallToAction reports whether any description invites the buyer to act.
func HasCallToAction(l *models.Listing) bool {
	return callToActionRegexp.MatchString(l.ShortDescription) ||
		callToActionRegexp.MatchString(StripMarkup(l.LongDescription))
}

// HasValueProposition reports whether the copy claims a distinctive benefit.
func HasValueProposition(l *models.Listing) bool {
	return valuePropRegexp.MatchString(l.Title) ||
		valuePropRegexp.MatchString(l.ShortDescription) ||
		valuePropRegexp.MatchString(StripMarkup(l.LongDescription))
}

// HasDocumentation reports a documentation link, either as the dedicated field
// or mentioned in the long description.
func HasDocumentation(l *models.Listing) bool {
	if strings.TrimSpace(l.DocumentationURL) != "" {
		return true
	}
	lower := strings.ToLower(l.LongDescription)
	return strings.Contains(lower, "documentation") && strings.Contains(lower, "http")
}

// HasReleaseNotes reports publisher update notes.
func HasReleaseNotes(l *models.Listing) bool {
	return strings.TrimSpace(l.ReleaseNotes) != ""
}

// FieldCompleteness is the share of core listing fields that are filled in.
func FieldCompleteness(l *models.Listing) float64 {
	filled := []bool{
		strings.TrimSpace(l.Title) != "",
		strings.TrimSpace(l.ShortDescription) != "",
		strings.TrimSpace(l.LongDescription) != "",
		len(l.Tags) > 0,
		l.ImageCount > 0,
		strings.TrimSpace(l.Category) != "",
	}
	n := 0
	for _, ok := range filled {
		if ok {
			n++
		}
	}
	return float64(n) / float64(len(filled))
}

// titleWords returns the lower-case words of a title.
func titleWords(title string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		words[w] = true
	}
	return words
}
