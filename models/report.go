package models

import "time"

// CategorySummary is one line of a rules report.
type CategorySummary struct {
	Category   string           `json:"category"`
	Confidence string           `json:"confidence"`
	SampleSize int              `json:"sample_size"`
	Weights    DimensionWeights `json:"weights"`
}

// RulesSummary condenses a RulesFile for operators.
type RulesSummary struct {
	RunID              string            `json:"run_id"`
	GeneratedAt        time.Time         `json:"generated_at"`
	CorpusSize         int               `json:"corpus_size"`
	CategoryCount      int               `json:"category_count"`
	ByConfidence       map[string]int    `json:"by_confidence"`
	FallbackCategories []string          `json:"fallback_categories"`
	LargestCategories  []CategorySummary `json:"largest_categories"`
}
