package services

import (
	"fmt"
	"math"

	"asset-grader/models"
)

// RuleGenerator turns category benchmarks into grading rules.
type RuleGenerator struct {
	cfg      models.RulesConfig
	fallback *models.CategoryRules
}

// NewRuleGenerator creates a generator. Categories below cfg.MinSampleSize get
// the fallback rules for cfg.
func NewRuleGenerator(cfg models.RulesConfig) *RuleGenerator {
	return &RuleGenerator{cfg: cfg, fallback: FallbackRulesFor(cfg)}
}

// Fallback returns the rules used below the sample floor.
func (g *RuleGenerator) Fallback() *models.CategoryRules {
	return g.fallback
}

// Generate derives rules from benchmarks built over sampleSize exemplars.
// When sampleSize is below the configured floor the fallback rules are
// returned unmodified, however extreme the benchmarks are.
func (g *RuleGenerator) Generate(b *models.CategoryBenchmarks, sampleSize int) *models.CategoryRules {
	if b == nil || sampleSize < g.cfg.MinSampleSize {
		return g.fallback
	}

	thresholds := g.deriveThresholds(b)
	return &models.CategoryRules{
		Category:        b.Category,
		Weights:         g.deriveWeights(b),
		SubWeights:      g.cfg.SubWeights,
		Thresholds:      thresholds,
		GradeBands:      g.cfg.GradeBands,
		Confidence:      g.confidence(b, sampleSize),
		SampleSize:      sampleSize,
		Benchmarks:      b,
		CommonFailures:  failurePatterns(b, thresholds),
		CommonSuccesses: g.successPatterns(b),
	}
}

// IsFallback reports whether r is this generator's fallback.
func (g *RuleGenerator) IsFallback(r *models.CategoryRules) bool {
	return r == g.fallback
}

// CoreRSD is the mean relative spread of the benchmarks that define a
// category's shape.
func CoreRSD(b *models.CategoryBenchmarks) float64 {
	return meanOf(
		b.TitleLength.RSD(),
		b.LongDescLength.RSD(),
		b.TagCount.RSD(),
		b.ImageCount.RSD(),
	)
}

func (g *RuleGenerator) confidence(b *models.CategoryBenchmarks, n int) string {
	switch {
	case n >= g.cfg.HighConfidenceSamples && CoreRSD(b) <= g.cfg.MaxCoreRSD:
		return models.ConfidenceHigh
	case n >= g.cfg.MediumConfidenceSamples:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// deriveWeights nudges each dimension ceiling towards the dimensions where
// exemplars agree most, then rescales so the ceilings keep their total.
func (g *RuleGenerator) deriveWeights(b *models.CategoryBenchmarks) models.DimensionWeights {
	def := g.cfg.Weights

	spread := [4]float64{
		meanOf(b.TitleLength.RSD(), b.LongDescLength.RSD(), b.BulletCount.RSD()),
		meanOf(b.ImageCount.RSD(), b.VideoCount.RSD()),
		meanOf(b.Rating.RSD(), b.ReviewCount.RSD()),
		meanOf(b.TagCount.RSD(), b.Price.RSD()),
	}
	base := [4]float64{def.Content, def.Media, def.Trust, def.Findability}

	var consistency [4]float64
	var sum float64
	for i, rsd := range spread {
		consistency[i] = 1 / (1 + rsd)
		sum += consistency[i]
	}
	avg := sum / 4

	var out [4]float64
	var total float64
	for i := range base {
		factor := consistency[i] / avg
		w := base[i] * (1 + g.cfg.WeightNudge*(factor-1))
		out[i] = clamp(w, base[i]*0.5, base[i]*1.5)
		total += out[i]
	}
	if total > 0 {
		scale := def.Total() / total
		for i := range out {
			out[i] = round2(out[i] * scale)
		}
	}

	return models.DimensionWeights{
		Content:     out[0],
		Media:       out[1],
		Trust:       out[2],
		Findability: out[3],
	}
}

// bandFrom maps a distribution onto minimum / target / excellent cutoffs:
// the minimum sits at or below the 25th percentile, the target at the median
// and excellent at or above the 75th percentile.
func (g *RuleGenerator) bandFrom(d models.Distribution) models.Band {
	return models.Band{
		Min:       math.Min(d.P25*g.cfg.MinimumSlack, d.Median),
		Target:    d.Median,
		Excellent: math.Max(d.P75, d.Median),
	}
}

func (g *RuleGenerator) deriveThresholds(b *models.CategoryBenchmarks) models.Thresholds {
	fb := g.fallback.Thresholds
	title := g.bandFrom(b.TitleLength)
	bullets := g.bandFrom(b.BulletCount)

	return models.Thresholds{
		TitleLength:     title,
		MaxTitleLength:  int(math.Ceil(math.Max(b.TitleLength.Max, b.TitleLength.P75*1.5))),
		ShortDescLength: g.bandFrom(b.ShortDescLength),
		LongDescLength:  g.bandFrom(b.LongDescLength),
		LongDescWords:   g.bandFrom(b.LongDescWords),
		MinBullets:      int(math.Floor(bullets.Min)),
		Images:          g.bandFrom(b.ImageCount),
		Videos:          g.bandFrom(b.VideoCount),
		FreshTargetDays: fb.FreshTargetDays,
		FreshMaxDays:    fb.FreshMaxDays,
		MinRating:       round2(clamp(b.Rating.P25, 3.0, 4.5)),
		MinReviews:      int(clamp(math.Floor(b.ReviewCount.P25*g.cfg.MinimumSlack), 1, 25)),
		Tags:            g.bandFrom(b.TagCount),
		Price: &models.PriceBand{
			Mean:   b.Price.Mean,
			StdDev: b.Price.StdDev,
			Median: b.Price.Median,
			P25:    b.Price.P25,
			P75:    b.Price.P75,
		},
		Vocabulary:   b.TopVocabulary,
		FeatureShare: g.cfg.FeatureShare,
	}
}

func (g *RuleGenerator) successPatterns(b *models.CategoryBenchmarks) []string {
	var out []string
	add := func(share float64, what string) {
		if share >= g.cfg.SuccessShare {
			out = append(out, fmt.Sprintf("%s (%.0f%% of top listings)", what, share*100))
		}
	}
	add(b.VideoShare, "Includes a demo video")
	add(b.AnimatedShare, "Shows an animated preview")
	add(b.DocumentationShare, "Links to documentation")
	add(b.ReleaseNotesShare, "Publishes release notes")
	add(b.CallToActionShare, "Ends the copy with a call to action")
	add(b.ValuePropShare, "States a clear value proposition")

	out = append(out,
		fmt.Sprintf("Typical title is %.0f characters", b.TitleLength.Median),
		fmt.Sprintf("Typical listing shows %.0f images", b.ImageCount.Median),
		fmt.Sprintf("Typical listing carries %.0f tags", b.TagCount.Median),
	)
	if b.BulletCount.Median >= 1 {
		out = append(out, fmt.Sprintf("Feature list with about %.0f bullet points", b.BulletCount.Median))
	}
	return out
}

func failurePatterns(b *models.CategoryBenchmarks, t models.Thresholds) []string {
	out := []string{
		fmt.Sprintf("Title shorter than %.0f characters", t.TitleLength.Min),
		fmt.Sprintf("Fewer than %.0f images", math.Ceil(t.Images.Min)),
		fmt.Sprintf("Fewer than %.0f tags", math.Ceil(t.Tags.Min)),
		fmt.Sprintf("Long description under %.0f words", t.LongDescWords.Min),
	}
	if t.MinBullets > 0 {
		out = append(out, fmt.Sprintf("Fewer than %d bullet points", t.MinBullets))
	}
	if b.Price.StdDev > 0 {
		out = append(out, fmt.Sprintf("Price outside %.2f–%.2f", b.Price.P25, b.Price.P75))
	}
	return out
}

func meanOf(vals ...float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}
