package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"asset-grader/models"
	"asset-grader/utils"
)

// RulesFileVersion is written into every generated rules file.
const RulesFileVersion = "1"

// ErrNilCorpus is returned when the pipeline is handed no corpus at all,
// which is a caller bug rather than a data problem.
var ErrNilCorpus = errors.New("pipeline: nil corpus")

// PipelineConfig gathers the tunables of a batch rules build.
type PipelineConfig struct {
	Selection   models.SelectionRule
	Quality     models.QualityWeights
	Rules       models.RulesConfig
	Concurrency int
}

// DefaultPipelineConfig returns the stock tuning.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Selection:   models.SelectionRule{Count: models.DefaultExemplarCount},
		Quality:     models.DefaultQualityWeights(),
		Rules:       models.DefaultRulesConfig(),
		Concurrency: 4,
	}
}

// Pipeline runs quality scoring, exemplar selection, benchmark extraction and
// rule generation over a whole corpus.
type Pipeline struct {
	cfg       PipelineConfig
	resolver  *CategoryResolver
	extractor *BenchmarkExtractor
	generator *RuleGenerator
	logger    *utils.Logger
	metrics   *Metrics
}

// NewPipeline creates a pipeline. metrics may be nil.
func NewPipeline(cfg PipelineConfig, logger *utils.Logger, metrics *Metrics) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		resolver:  NewCategoryResolver(nil),
		extractor: NewBenchmarkExtractor(),
		generator: NewRuleGenerator(cfg.Rules),
		logger:    logger,
		metrics:   metrics,
	}
}

// Run builds a rules file from corpus. Freshness is measured against now.
// Categories are processed in parallel; each job only reads the shared
// exemplar set and writes its own result slot.
func (p *Pipeline) Run(ctx context.Context, corpus []*models.Listing, now time.Time) (*models.RulesFile, error) {
	if corpus == nil {
		return nil, ErrNilCorpus
	}
	started := time.Now()

	scorer := NewQualityScorer(p.cfg.Quality, now, p.logger)
	exemplars := NewExemplarSelector(scorer, p.resolver).Select(corpus, p.cfg.Selection)
	categories := exemplars.Categories()

	p.logger.Info("[pipeline] Scored %d listings into %d categories", len(corpus), len(categories))
	if n := scorer.ParseFailures(); n > 0 {
		p.logger.Warn("[pipeline] %d listings had unreadable update timestamps", n)
		if p.metrics != nil {
			p.metrics.IncTimestampErrors(int(n))
		}
	}

	results := make([]*models.CategoryRules, len(categories))
	pool := utils.NewWorkerPool(p.cfg.Concurrency)
	for i, c := range categories {
		if ctx.Err() != nil {
			break
		}
		pool.Submit(func() {
			ex := exemplars[c]
			results[i] = p.generator.Generate(p.extractor.Extract(c, ex), len(ex))
		})
	}
	pool.Wait()

	if err := ctx.Err(); err != nil {
		p.observe("failure", started)
		return nil, fmt.Errorf("pipeline: cancelled: %w", err)
	}

	file := &models.RulesFile{
		Version:       RulesFileVersion,
		RunID:         uuid.NewString(),
		GeneratedAt:   now.UTC(),
		Selection:     p.cfg.Selection,
		MinSampleSize: p.cfg.Rules.MinSampleSize,
		Categories:    make(map[string]*models.CategoryRules, len(categories)),
		Fallback:      p.generator.Fallback(),
		Metadata: models.RulesMetadata{
			CorpusSize:         len(corpus),
			CategoryCount:      len(categories),
			ExemplarCounts:     make(map[string]int, len(categories)),
			FallbackCategories: []string{},
			ConfidenceCounts:   make(map[string]int),
		},
	}

	for i, c := range categories {
		file.Metadata.ExemplarCounts[c] = len(exemplars[c])
		rules := results[i]
		if p.generator.IsFallback(rules) {
			file.Metadata.FallbackCategories = append(file.Metadata.FallbackCategories, c)
			file.Metadata.ConfidenceCounts["fallback"]++
			p.logger.Debug("[pipeline] %s: %d exemplars, using fallback rules", c, len(exemplars[c]))
			continue
		}
		file.Categories[c] = rules
		file.Metadata.ConfidenceCounts[rules.Confidence]++
	}

	p.logger.Info("[pipeline] Built rules for %d categories (%d on fallback) in %v",
		len(file.Categories), len(file.Metadata.FallbackCategories), time.Since(started).Round(time.Millisecond))

	p.observe("success", started)
	if p.metrics != nil {
		p.metrics.SetBuildShape(len(corpus), file.Metadata.ConfidenceCounts, float64(now.Unix()))
	}
	return file, nil
}

func (p *Pipeline) observe(status string, started time.Time) {
	if p.metrics != nil {
		p.metrics.ObserveBuild(status, time.Since(started).Seconds())
	}
}
