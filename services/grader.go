package services

import (
	"time"

	"asset-grader/models"
)

// Grader scores candidate listings against category rules. It holds no
// mutable state and is safe for concurrent use.
type Grader struct {
	resolver *CategoryResolver
}

// NewGrader creates a Grader. A nil resolver uses the default category chain.
func NewGrader(resolver *CategoryResolver) *Grader {
	if resolver == nil {
		resolver = NewCategoryResolver(nil)
	}
	return &Grader{resolver: resolver}
}

// GradeWithFile resolves the listing's category and grades it against the
// matching rules in file, or the fallback rules for unknown categories.
func (g *Grader) GradeWithFile(l *models.Listing, file *models.RulesFile, now time.Time) *models.GradeResult {
	category := g.resolver.Resolve(l)
	var rules *models.CategoryRules
	if file != nil {
		rules = file.Lookup(category)
	}
	return g.Grade(l, category, rules, now)
}

// Grade evaluates l against rules as of now. A nil rules value selects the
// fallback rules; an empty category is resolved from the listing. Identical
// inputs always produce identical results.
func (g *Grader) Grade(l *models.Listing, category string, rules *models.CategoryRules, now time.Time) *models.GradeResult {
	if rules == nil {
		rules = FallbackRules()
	}
	if l == nil {
		l = &models.Listing{}
	}
	category = NormalizeCategory(category)
	if category == "" {
		category = g.resolver.Resolve(l)
	}

	w := rules.Weights
	content := newDimension(w.Content)
	media := newDimension(w.Media)
	trust := newDimension(w.Trust)
	findability := newDimension(w.Findability)

	scoreContent(content, l, rules)
	scoreMedia(media, l, rules)
	scoreTrust(trust, l, rules, now)
	scoreFindability(findability, l, category, rules)

	dims := []*dimension{content, media, trust, findability}
	var earned float64
	reasons := make([]string, 0)
	for _, d := range dims {
		earned += d.earned
		reasons = append(reasons, d.reasons...)
	}

	score := 0.0
	if total := w.Total(); total > 0 {
		score = round2(clamp(earned/total*100, 0, 100))
	}

	return &models.GradeResult{
		ListingID: l.ID,
		Category:  category,
		Score:     score,
		Letter:    rules.GradeBands.Letter(score),
		Breakdown: models.Breakdown{
			Content:     content.result(),
			Media:       media.result(),
			Trust:       trust.result(),
			Findability: findability.result(),
		},
		Reasons:      reasons,
		Confidence:   rules.Confidence,
		UsedFallback: rules.IsFallback,
	}
}

// dimension accumulates item scores for one rubric dimension.
type dimension struct {
	ceiling float64
	earned  float64
	items   []models.ItemScore
	reasons []string
}

func newDimension(ceiling float64) *dimension {
	return &dimension{ceiling: ceiling}
}

// add records an item worth share of the ceiling at the given credit in
// [0, 1]. reason is kept only when the item falls short.
func (d *dimension) add(name string, share, credit float64, detail, reason string) {
	credit = clamp(credit, 0, 1)
	maxPts := d.ceiling * share
	pts := maxPts * credit
	d.earned += pts
	d.items = append(d.items, models.ItemScore{
		Name:   name,
		Score:  round2(pts),
		Max:    round2(maxPts),
		Detail: detail,
	})
	if credit < 1 && reason != "" {
		d.reasons = append(d.reasons, reason)
	}
}

func (d *dimension) result() models.DimensionScore {
	return models.DimensionScore{
		Score: round2(d.earned),
		Max:   round2(d.ceiling),
		Items: d.items,
	}
}

// bandCredit scores v against a band: full credit at or above the target,
// half credit at the minimum rising linearly to the target, and a
// proportional share of half credit below the minimum. A non-positive target
// means the metric is not expected and always earns full credit.
func bandCredit(v float64, b models.Band) float64 {
	switch {
	case b.Target <= 0 || v >= b.Target:
		return 1
	case v <= 0:
		return 0
	case v >= b.Min:
		span := b.Target - b.Min
		if span <= 0 {
			return 1
		}
		return 0.5 + 0.5*(v-b.Min)/span
	default:
		return 0.5 * v / b.Min
	}
}
