package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"asset-grader/models"
)

func scoreContent(d *dimension, l *models.Listing, r *models.CategoryRules) {
	t := r.Thresholds
	sw := r.SubWeights.Content

	titleLen := utf8.RuneCountInString(strings.TrimSpace(l.Title))
	switch {
	case titleLen == 0:
		d.add("title", sw.Title, 0, "missing", "Title is missing")
	case t.MaxTitleLength > 0 && titleLen > t.MaxTitleLength:
		d.add("title", sw.Title, math.Min(bandCredit(float64(titleLen), t.TitleLength), 0.7),
			fmt.Sprintf("%d chars", titleLen),
			fmt.Sprintf("Title is %d characters; keep it under %d", titleLen, t.MaxTitleLength))
	default:
		d.add("title", sw.Title, bandCredit(float64(titleLen), t.TitleLength),
			fmt.Sprintf("%d chars", titleLen),
			fmt.Sprintf("Title is %d characters; top listings in this category use about %.0f", titleLen, t.TitleLength.Target))
	}

	shortLen := TextLength(l.ShortDescription)
	if shortLen == 0 {
		d.add("short_description", sw.ShortDescription, bandCredit(0, t.ShortDescLength), "missing", "Short description is missing")
	} else {
		d.add("short_description", sw.ShortDescription, bandCredit(float64(shortLen), t.ShortDescLength),
			fmt.Sprintf("%d chars", shortLen),
			fmt.Sprintf("Short description is %d characters; aim for at least %.0f", shortLen, t.ShortDescLength.Target))
	}

	long := StripMarkup(l.LongDescription)
	longLen := utf8.RuneCountInString(long)
	words := len(strings.Fields(long))
	if longLen == 0 {
		d.add("long_description", sw.LongDescription, bandCredit(0, t.LongDescLength), "missing", "Long description is missing")
	} else {
		credit := (bandCredit(float64(longLen), t.LongDescLength) + bandCredit(float64(words), t.LongDescWords)) / 2
		d.add("long_description", sw.LongDescription, credit,
			fmt.Sprintf("%d chars, %d words", longLen, words),
			fmt.Sprintf("Long description has %d words; top listings use about %.0f", words, t.LongDescWords.Target))
	}

	bullets := CountBullets(l.LongDescription)
	bulletCredit := 1.0
	if t.MinBullets > 0 && bullets < t.MinBullets {
		bulletCredit = float64(bullets) / float64(t.MinBullets)
	}
	d.add("bullets", sw.Bullets, bulletCredit,
		fmt.Sprintf("%d bullets", bullets),
		fmt.Sprintf("Feature list has %d bullet points; add at least %d", bullets, t.MinBullets))

	b := r.Benchmarks
	addFeature(d, "call_to_action", sw.CallToAction, HasCallToAction(l),
		featureExpected(r, func() float64 { return b.CallToActionShare }),
		"No call to action in the description")
	addFeature(d, "value_proposition", sw.ValueProposition, HasValueProposition(l),
		featureExpected(r, func() float64 { return b.ValuePropShare }),
		"No unique value proposition stated")
}

func scoreMedia(d *dimension, l *models.Listing, r *models.CategoryRules) {
	t := r.Thresholds
	sw := r.SubWeights.Media

	if l.ImageCount <= 0 {
		d.add("images", sw.Images, bandCredit(0, t.Images), "none", "No images provided")
	} else {
		d.add("images", sw.Images, bandCredit(float64(l.ImageCount), t.Images),
			fmt.Sprintf("%d images", l.ImageCount),
			fmt.Sprintf("Only %d images; top listings show about %.0f", l.ImageCount, t.Images.Target))
	}

	switch {
	case l.VideoCount > 0:
		d.add("video", sw.Video, 1, fmt.Sprintf("%d videos", l.VideoCount), "")
	case t.Videos.Target <= 0:
		d.add("video", sw.Video, 1, "not expected", "")
	default:
		d.add("video", sw.Video, 0, "none", "No demo video")
	}

	// fallback rules do not ask for an animated preview
	animationExpected := r.Benchmarks != nil &&
		featureExpected(r, func() float64 { return r.Benchmarks.AnimatedShare })
	addFeature(d, "animated_preview", sw.AnimatedPreview, l.HasAnimatedPreview, animationExpected,
		"No animated preview; most top listings in this category have one")
}

func scoreTrust(d *dimension, l *models.Listing, r *models.CategoryRules, now time.Time) {
	t := r.Thresholds
	sw := r.SubWeights.Trust

	updated, err := ParseTimestamp(l.UpdatedAt)
	switch {
	case errors.Is(err, errNoTimestamp):
		d.add("freshness", sw.Freshness, 0, "unknown", "Last update date is missing")
	case err != nil:
		d.add("freshness", sw.Freshness, 0, "unparseable", "Last update date could not be read")
	default:
		days := DaysSince(updated, now)
		detail := fmt.Sprintf("%d days", days)
		switch {
		case days <= t.FreshTargetDays:
			d.add("freshness", sw.Freshness, 1, detail, "")
		case days <= t.FreshMaxDays:
			d.add("freshness", sw.Freshness, 0.5, detail,
				fmt.Sprintf("Last updated %d days ago; update within %d days", days, t.FreshTargetDays))
		default:
			d.add("freshness", sw.Freshness, 0, detail,
				fmt.Sprintf("Not updated in %d days", days))
		}
	}

	b := r.Benchmarks
	addFeature(d, "documentation", sw.Documentation, HasDocumentation(l),
		featureExpected(r, func() float64 { return b.DocumentationShare }),
		"No documentation link")

	complete := FieldCompleteness(l)
	d.add("completeness", sw.Completeness, complete,
		fmt.Sprintf("%.0f%%", complete*100),
		fmt.Sprintf("Listing is only %.0f%% complete", complete*100))

	addFeature(d, "update_notes", sw.UpdateNotes, HasReleaseNotes(l),
		featureExpected(r, func() float64 { return b.ReleaseNotesShare }),
		"No release notes or update log")

	switch {
	case l.Rating <= 0:
		d.add("rating", sw.Rating, 0, "unrated", "No ratings yet")
	case t.MinRating > 0 && l.Rating < t.MinRating:
		d.add("rating", sw.Rating, 0.5*l.Rating/t.MinRating, fmt.Sprintf("%.1f", l.Rating),
			fmt.Sprintf("Rating %.1f is below the category minimum of %.1f", l.Rating, t.MinRating))
	default:
		d.add("rating", sw.Rating, 1, fmt.Sprintf("%.1f", l.Rating), "")
	}

	switch {
	case l.ReviewCount <= 0:
		d.add("reviews", sw.Reviews, 0, "none", "No reviews yet")
	case t.MinReviews > 0 && l.ReviewCount < t.MinReviews:
		d.add("reviews", sw.Reviews, 0.5*float64(l.ReviewCount)/float64(t.MinReviews),
			fmt.Sprintf("%d reviews", l.ReviewCount),
			fmt.Sprintf("Only %d reviews; category minimum is %d", l.ReviewCount, t.MinReviews))
	default:
		d.add("reviews", sw.Reviews, 1, fmt.Sprintf("%d reviews", l.ReviewCount), "")
	}
}

func scoreFindability(d *dimension, l *models.Listing, category string, r *models.CategoryRules) {
	t := r.Thresholds
	sw := r.SubWeights.Findability

	if len(l.Tags) == 0 {
		d.add("tag_count", sw.TagCount, bandCredit(0, t.Tags), "none", "No tags provided")
	} else {
		d.add("tag_count", sw.TagCount, bandCredit(float64(len(l.Tags)), t.Tags),
			fmt.Sprintf("%d tags", len(l.Tags)),
			fmt.Sprintf("Only %d tags; top listings use about %.0f", len(l.Tags), t.Tags.Target))
	}

	terms := HierarchyTerms(category)
	tagWords := tagVocabulary(l.Tags)

	missingTerms := missingFrom(terms, tagWords)
	hierCoverage := 1.0
	if len(terms) > 0 {
		hierCoverage = float64(len(terms)-len(missingTerms)) / float64(len(terms))
	}

	coverage := hierCoverage
	var missingVocab []string
	if len(t.Vocabulary) > 0 {
		want := min(5, len(t.Vocabulary))
		missingVocab = missingFrom(t.Vocabulary, tagWords)
		vocabCoverage := math.Min(1, float64(len(t.Vocabulary)-len(missingVocab))/float64(want))
		coverage = 0.6*hierCoverage + 0.4*vocabCoverage
	}

	var gaps []string
	if len(missingTerms) > 0 {
		gaps = append(gaps, "category terms: "+strings.Join(missingTerms, ", "))
	}
	if coverage < 1 && len(missingVocab) > 0 {
		gaps = append(gaps, "popular keywords: "+strings.Join(missingVocab[:min(3, len(missingVocab))], ", "))
	}
	reason := ""
	if len(gaps) > 0 {
		reason = "Tags miss " + strings.Join(gaps, "; ")
	}
	d.add("tag_coverage", sw.TagCoverage, coverage, fmt.Sprintf("%.0f%%", coverage*100), reason)

	keywords := append(append([]string{}, terms...), t.Vocabulary...)
	hit := titleHasKeyword(l.Title, keywords)
	example := ""
	if len(keywords) > 0 {
		example = fmt.Sprintf(" (e.g. %q)", keywords[0])
	}
	if len(keywords) == 0 {
		hit = true
	}
	d.add("title_keywords", sw.TitleKeywords, boolCredit(hit), "",
		"Title has no category keywords"+example)

	if t.Price == nil {
		d.add("price_position", sw.PricePosition, 1, "no benchmark", "")
		return
	}
	z := priceZ(l.Price, t.Price)
	credit := 0.2
	switch {
	case z <= 1:
		credit = 1
	case z <= 2:
		credit = 0.6
	}
	d.add("price_position", sw.PricePosition, credit, fmt.Sprintf("z=%.2f", z),
		fmt.Sprintf("Price %.2f is far from the category norm (typical %.2f–%.2f)", l.Price, t.Price.P25, t.Price.P75))
}

// priceZ is the distance of price from the category mean in standard
// deviations. Without spread it falls back to distance from the median
// relative to a quarter of the median.
func priceZ(price float64, p *models.PriceBand) float64 {
	if p.StdDev > 0 {
		return math.Abs(price-p.Mean) / p.StdDev
	}
	if price == p.Median {
		return 0
	}
	return math.Abs(price-p.Median) / math.Max(p.Median*0.25, 1)
}

// tagVocabulary holds every tag and every word of every tag, lower-cased.
func tagVocabulary(tags []string) map[string]bool {
	set := make(map[string]bool)
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		set[tag] = true
		for _, w := range strings.FieldsFunc(tag, isTermSeparator) {
			set[w] = true
		}
	}
	return set
}

func missingFrom(want []string, have map[string]bool) []string {
	var missing []string
	for _, w := range want {
		if !have[strings.ToLower(w)] {
			missing = append(missing, w)
		}
	}
	return missing
}

// titleHasKeyword reports whether every word of at least one keyword occurs
// in the title.
func titleHasKeyword(title string, keywords []string) bool {
	words := titleWords(title)
	for _, k := range keywords {
		parts := strings.FieldsFunc(strings.ToLower(k), isTermSeparator)
		if len(parts) == 0 {
			continue
		}
		all := true
		for _, p := range parts {
			if !words[p] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// featureExpected reports whether candidates should show an optional feature.
// Fallback rules carry no benchmarks and expect every feature; learned rules
// expect it once enough exemplars have it.
func featureExpected(r *models.CategoryRules, share func() float64) bool {
	if r.Benchmarks == nil {
		return true
	}
	cutoff := r.Thresholds.FeatureShare
	if cutoff <= 0 {
		cutoff = models.DefaultFeatureShare
	}
	return share() >= cutoff
}

// addFeature scores a present/absent feature. Absent features that the
// category does not expect keep full credit.
func addFeature(d *dimension, name string, share float64, present, expected bool, reason string) {
	switch {
	case present:
		d.add(name, share, 1, "present", "")
	case expected:
		d.add(name, share, 0, "none", reason)
	default:
		d.add(name, share, 1, "not expected", "")
	}
}

func boolCredit(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}
