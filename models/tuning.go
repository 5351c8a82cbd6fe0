package models

// QualityWeights scales each term of the quality score.
type QualityWeights struct {
	Review       float64 `json:"review" yaml:"review"`
	Freshness    float64 `json:"freshness" yaml:"freshness"`
	Popularity   float64 `json:"popularity" yaml:"popularity"`
	Completeness float64 `json:"completeness" yaml:"completeness"`
}

// DefaultQualityWeights returns the default quality score weighting.
func DefaultQualityWeights() QualityWeights {
	return QualityWeights{
		Review:       2.0,
		Freshness:    1.0,
		Popularity:   1.0,
		Completeness: 0.5,
	}
}

// SelectionRule controls how many exemplars are kept per category.
// Percent takes precedence over Count when it is positive.
type SelectionRule struct {
	Count   int     `json:"count,omitempty" yaml:"count"`
	Percent float64 `json:"percent,omitempty" yaml:"percent"`
}

// DefaultExemplarCount is used when a selection rule sets neither field.
const DefaultExemplarCount = 20

// DimensionWeights are the score ceilings of the four grading dimensions.
type DimensionWeights struct {
	Content     float64 `json:"content" yaml:"content"`
	Media       float64 `json:"media" yaml:"media"`
	Trust       float64 `json:"trust" yaml:"trust"`
	Findability float64 `json:"findability" yaml:"findability"`
}

// Total returns the sum of the four ceilings.
func (w DimensionWeights) Total() float64 {
	return w.Content + w.Media + w.Trust + w.Findability
}

// DefaultDimensionWeights returns the static dimension ceilings.
func DefaultDimensionWeights() DimensionWeights {
	return DimensionWeights{
		Content:     35,
		Media:       25,
		Trust:       20,
		Findability: 20,
	}
}

// ContentWeights splits the content ceiling across its checks. Fractions sum to 1.
type ContentWeights struct {
	Title            float64 `json:"title" yaml:"title"`
	ShortDescription float64 `json:"short_description" yaml:"short_description"`
	LongDescription  float64 `json:"long_description" yaml:"long_description"`
	Bullets          float64 `json:"bullets" yaml:"bullets"`
	CallToAction     float64 `json:"call_to_action" yaml:"call_to_action"`
	ValueProposition float64 `json:"value_proposition" yaml:"value_proposition"`
}

// MediaWeights splits the media ceiling.
type MediaWeights struct {
	Images          float64 `json:"images" yaml:"images"`
	Video           float64 `json:"video" yaml:"video"`
	AnimatedPreview float64 `json:"animated_preview" yaml:"animated_preview"`
}

// TrustWeights splits the trust ceiling.
type TrustWeights struct {
	Freshness     float64 `json:"freshness" yaml:"freshness"`
	Documentation float64 `json:"documentation" yaml:"documentation"`
	Completeness  float64 `json:"completeness" yaml:"completeness"`
	UpdateNotes   float64 `json:"update_notes" yaml:"update_notes"`
	Rating        float64 `json:"rating" yaml:"rating"`
	Reviews       float64 `json:"reviews" yaml:"reviews"`
}

// FindabilityWeights splits the findability ceiling.
type FindabilityWeights struct {
	TagCount      float64 `json:"tag_count" yaml:"tag_count"`
	TagCoverage   float64 `json:"tag_coverage" yaml:"tag_coverage"`
	TitleKeywords float64 `json:"title_keywords" yaml:"title_keywords"`
	PricePosition float64 `json:"price_position" yaml:"price_position"`
}

// SubWeights holds the per-item fractions of every dimension.
type SubWeights struct {
	Content     ContentWeights     `json:"content" yaml:"content"`
	Media       MediaWeights       `json:"media" yaml:"media"`
	Trust       TrustWeights       `json:"trust" yaml:"trust"`
	Findability FindabilityWeights `json:"findability" yaml:"findability"`
}

// DefaultSubWeights returns the static item split.
func DefaultSubWeights() SubWeights {
	return SubWeights{
		Content: ContentWeights{
			Title:            0.25,
			ShortDescription: 0.15,
			LongDescription:  0.25,
			Bullets:          0.15,
			CallToAction:     0.10,
			ValueProposition: 0.10,
		},
		Media: MediaWeights{
			Images:          0.60,
			Video:           0.30,
			AnimatedPreview: 0.10,
		},
		Trust: TrustWeights{
			Freshness:     0.25,
			Documentation: 0.15,
			Completeness:  0.15,
			UpdateNotes:   0.10,
			Rating:        0.20,
			Reviews:       0.15,
		},
		Findability: FindabilityWeights{
			TagCount:      0.20,
			TagCoverage:   0.30,
			TitleKeywords: 0.25,
			PricePosition: 0.25,
		},
	}
}

// GradeBands are the lower score bounds of each letter. Anything below D is F.
type GradeBands struct {
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
	C float64 `json:"c" yaml:"c"`
	D float64 `json:"d" yaml:"d"`
}

// DefaultGradeBands returns the usual 90/80/70/60 cutoffs.
func DefaultGradeBands() GradeBands {
	return GradeBands{A: 90, B: 80, C: 70, D: 60}
}

// Letter maps a composite score to its letter grade.
func (b GradeBands) Letter(score float64) string {
	switch {
	case score >= b.A:
		return "A"
	case score >= b.B:
		return "B"
	case score >= b.C:
		return "C"
	case score >= b.D:
		return "D"
	default:
		return "F"
	}
}

// DefaultFeatureShare is the default exemplar share above which optional
// listing features are expected.
const DefaultFeatureShare = 0.5

// RulesConfig tunes the rule generator.
type RulesConfig struct {
	MinSampleSize           int     `yaml:"min_sample_size"`
	HighConfidenceSamples   int     `yaml:"high_confidence_samples"`
	MediumConfidenceSamples int     `yaml:"medium_confidence_samples"`
	MaxCoreRSD              float64 `yaml:"max_core_rsd"`
	WeightNudge             float64 `yaml:"weight_nudge"`
	MinimumSlack            float64 `yaml:"minimum_slack"`
	SuccessShare            float64 `yaml:"success_share"`
	FeatureShare            float64 `yaml:"feature_share"`

	Weights    DimensionWeights `yaml:"weights"`
	SubWeights SubWeights       `yaml:"sub_weights"`
	GradeBands GradeBands       `yaml:"grade_bands"`
}

// DefaultRulesConfig returns the generator defaults.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		MinSampleSize:           3,
		HighConfidenceSamples:   15,
		MediumConfidenceSamples: 5,
		MaxCoreRSD:              0.75,
		WeightNudge:             0.5,
		MinimumSlack:            0.9,
		SuccessShare:            0.7,
		FeatureShare:            DefaultFeatureShare,
		Weights:                 DefaultDimensionWeights(),
		SubWeights:              DefaultSubWeights(),
		GradeBands:              DefaultGradeBands(),
	}
}
