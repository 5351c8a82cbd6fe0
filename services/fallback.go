package services

import "asset-grader/models"

// FallbackCategory labels the fallback rules.
const FallbackCategory = "*"

var fallbackRules = NewFallbackRules()

// FallbackRules returns the process-wide static rules used when a category
// lacks enough exemplars or is unknown. The returned value is shared and must
// not be modified.
func FallbackRules() *models.CategoryRules {
	return fallbackRules
}

// FallbackRulesFor returns fallback rules that use the ceilings, item split
// and grade bands of cfg. Fields cfg leaves zero keep the static values, and
// stock settings return the shared FallbackRules value.
func FallbackRulesFor(cfg models.RulesConfig) *models.CategoryRules {
	base := FallbackRules()
	r := NewFallbackRules()
	if cfg.Weights.Total() > 0 {
		r.Weights = cfg.Weights
	}
	if cfg.SubWeights != (models.SubWeights{}) {
		r.SubWeights = cfg.SubWeights
	}
	if cfg.GradeBands != (models.GradeBands{}) {
		r.GradeBands = cfg.GradeBands
	}
	if r.Weights == base.Weights && r.SubWeights == base.SubWeights && r.GradeBands == base.GradeBands {
		return base
	}
	return r
}

// NewFallbackRules builds a fresh copy of the static fallback rules.
func NewFallbackRules() *models.CategoryRules {
	return &models.CategoryRules{
		Category:   FallbackCategory,
		Weights:    models.DefaultDimensionWeights(),
		SubWeights: models.DefaultSubWeights(),
		Thresholds: models.Thresholds{
			TitleLength:     models.Band{Min: 20, Target: 40, Excellent: 60},
			MaxTitleLength:  100,
			ShortDescLength: models.Band{Min: 50, Target: 120, Excellent: 200},
			LongDescLength:  models.Band{Min: 300, Target: 1000, Excellent: 2500},
			LongDescWords:   models.Band{Min: 50, Target: 150, Excellent: 400},
			MinBullets:      3,
			Images:          models.Band{Min: 3, Target: 5, Excellent: 8},
			Videos:          models.Band{Min: 0, Target: 1, Excellent: 1},
			FreshTargetDays: 180,
			FreshMaxDays:    365,
			MinRating:       4.0,
			MinReviews:      5,
			Tags:            models.Band{Min: 3, Target: 8, Excellent: 12},
		},
		GradeBands: models.DefaultGradeBands(),
		Confidence: models.ConfidenceLow,
		CommonFailures: []string{
			"Title shorter than 20 characters",
			"Fewer than 3 screenshots or renders",
			"Fewer than 3 tags",
			"Long description under 50 words",
			"No update in the last year",
		},
		IsFallback: true,
	}
}
