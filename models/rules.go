package models

import (
	"math"
	"sort"
	"time"
)

// Confidence levels attached to generated rules.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Categories returns the exemplar set's category keys in lexical order.
func (s ExemplarSet) Categories() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Distribution summarises one numeric attribute across a category's exemplars.
// StdDev is the population standard deviation.
type Distribution struct {
	Count  int     `json:"count"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// RSD returns the relative standard deviation. A zero mean yields 0 when the
// spread is also zero and 1 otherwise.
func (d Distribution) RSD() float64 {
	if d.Mean == 0 {
		if d.StdDev == 0 {
			return 0
		}
		return 1
	}
	return math.Abs(d.StdDev / d.Mean)
}

// CategoryBenchmarks describes what the exemplars of one category look like.
type CategoryBenchmarks struct {
	Category   string `json:"category"`
	SampleSize int    `json:"sample_size"`

	TitleLength     Distribution `json:"title_length"`
	ShortDescLength Distribution `json:"short_desc_length"`
	LongDescLength  Distribution `json:"long_desc_length"`
	LongDescWords   Distribution `json:"long_desc_words"`
	TagCount        Distribution `json:"tag_count"`
	BulletCount     Distribution `json:"bullet_count"`
	Price           Distribution `json:"price"`
	ImageCount      Distribution `json:"image_count"`
	VideoCount      Distribution `json:"video_count"`
	Rating          Distribution `json:"rating"`
	ReviewCount     Distribution `json:"review_count"`

	// Share of exemplars exhibiting each feature, in [0, 1].
	VideoShare         float64 `json:"video_share"`
	AnimatedShare      float64 `json:"animated_share"`
	DocumentationShare float64 `json:"documentation_share"`
	ReleaseNotesShare  float64 `json:"release_notes_share"`
	CallToActionShare  float64 `json:"call_to_action_share"`
	ValuePropShare     float64 `json:"value_prop_share"`

	TopVocabulary []string `json:"top_vocabulary,omitempty"`
}

// Band is a minimum / target / excellent cutoff triple for one metric.
type Band struct {
	Min       float64 `json:"min"`
	Target    float64 `json:"target"`
	Excellent float64 `json:"excellent"`
}

// PriceBand describes the category price distribution used for the z-score check.
type PriceBand struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}

// Thresholds holds every numeric cutoff the grader checks.
type Thresholds struct {
	TitleLength     Band `json:"title_length"`
	MaxTitleLength  int  `json:"max_title_length"`
	ShortDescLength Band `json:"short_desc_length"`
	LongDescLength  Band `json:"long_desc_length"`
	LongDescWords   Band `json:"long_desc_words"`
	MinBullets      int  `json:"min_bullets"`

	Images Band `json:"images"`
	Videos Band `json:"videos"`

	FreshTargetDays int     `json:"fresh_target_days"`
	FreshMaxDays    int     `json:"fresh_max_days"`
	MinRating       float64 `json:"min_rating"`
	MinReviews      int     `json:"min_reviews"`

	Tags       Band       `json:"tags"`
	Price      *PriceBand `json:"price,omitempty"`
	Vocabulary []string   `json:"vocabulary,omitempty"`

	// FeatureShare is the exemplar share at which an optional feature such as
	// documentation or a call to action becomes expected of candidates.
	FeatureShare float64 `json:"feature_share,omitempty"`
}

// CategoryRules is the operational output of the batch pipeline for one
// category. Values are shared between concurrent graders and must not be
// mutated after construction.
type CategoryRules struct {
	Category   string              `json:"category"`
	Weights    DimensionWeights    `json:"weights"`
	SubWeights SubWeights          `json:"sub_weights"`
	Thresholds Thresholds          `json:"thresholds"`
	GradeBands GradeBands          `json:"grade_bands"`
	Confidence string              `json:"confidence"`
	SampleSize int                 `json:"sample_size"`
	Benchmarks *CategoryBenchmarks `json:"benchmarks,omitempty"`

	CommonFailures  []string `json:"common_failures,omitempty"`
	CommonSuccesses []string `json:"common_successes,omitempty"`
	IsFallback      bool     `json:"is_fallback"`
}

// RulesMetadata records how a rules file was produced.
type RulesMetadata struct {
	CorpusSize         int            `json:"corpus_size"`
	CategoryCount      int            `json:"category_count"`
	ExemplarCounts     map[string]int `json:"exemplar_counts"`
	FallbackCategories []string       `json:"fallback_categories"`
	ConfidenceCounts   map[string]int `json:"confidence_counts"`
}

// RulesFile is the durable contract between the batch job and online grading.
type RulesFile struct {
	Version       string                    `json:"version"`
	RunID         string                    `json:"run_id"`
	GeneratedAt   time.Time                 `json:"generated_at"`
	Selection     SelectionRule             `json:"selection"`
	MinSampleSize int                       `json:"min_sample_size"`
	Categories    map[string]*CategoryRules `json:"categories"`
	Fallback      *CategoryRules            `json:"fallback"`
	Metadata      RulesMetadata             `json:"metadata"`
}

// Lookup returns the rules for category, or the fallback rules when the
// category is unknown.
func (f *RulesFile) Lookup(category string) *CategoryRules {
	if f == nil {
		return nil
	}
	if r, ok := f.Categories[category]; ok && r != nil {
		return r
	}
	return f.Fallback
}
