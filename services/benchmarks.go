package services

import (
	"sort"
	"strings"
	"unicode/utf8"

	"asset-grader/models"
)

// VocabularySize caps the number of frequent tags recorded per category.
const VocabularySize = 10

// BenchmarkExtractor summarises one category's exemplars.
type BenchmarkExtractor struct{}

// NewBenchmarkExtractor returns a ready extractor.
func NewBenchmarkExtractor() *BenchmarkExtractor {
	return &BenchmarkExtractor{}
}

// Extract computes the benchmarks of a category from its exemplars only.
func (e *BenchmarkExtractor) Extract(category string, exemplars []models.ScoredListing) *models.CategoryBenchmarks {
	n := len(exemplars)
	b := &models.CategoryBenchmarks{Category: category, SampleSize: n}
	if n == 0 {
		return b
	}

	var (
		titleLen  = make([]float64, 0, n)
		shortLen  = make([]float64, 0, n)
		longLen   = make([]float64, 0, n)
		longWords = make([]float64, 0, n)
		tags      = make([]float64, 0, n)
		bullets   = make([]float64, 0, n)
		prices    = make([]float64, 0, n)
		images    = make([]float64, 0, n)
		videos    = make([]float64, 0, n)
		ratings   = make([]float64, 0, n)
		reviews   = make([]float64, 0, n)

		withVideo, withAnimated, withDocs, withNotes, withCTA, withUVP int
	)

	for _, ex := range exemplars {
		l := ex.Listing
		long := StripMarkup(l.LongDescription)

		titleLen = append(titleLen, float64(utf8.RuneCountInString(strings.TrimSpace(l.Title))))
		shortLen = append(shortLen, float64(TextLength(l.ShortDescription)))
		longLen = append(longLen, float64(utf8.RuneCountInString(long)))
		longWords = append(longWords, float64(len(strings.Fields(long))))
		tags = append(tags, float64(len(l.Tags)))
		bullets = append(bullets, float64(CountBullets(l.LongDescription)))
		prices = append(prices, l.Price)
		images = append(images, float64(l.ImageCount))
		videos = append(videos, float64(l.VideoCount))
		ratings = append(ratings, l.Rating)
		reviews = append(reviews, float64(l.ReviewCount))

		if l.VideoCount > 0 {
			withVideo++
		}
		if l.HasAnimatedPreview {
			withAnimated++
		}
		if HasDocumentation(l) {
			withDocs++
		}
		if HasReleaseNotes(l) {
			withNotes++
		}
		if HasCallToAction(l) {
			withCTA++
		}
		if HasValueProposition(l) {
			withUVP++
		}
	}

	b.TitleLength = Summarize(titleLen)
	b.ShortDescLength = Summarize(shortLen)
	b.LongDescLength = Summarize(longLen)
	b.LongDescWords = Summarize(longWords)
	b.TagCount = Summarize(tags)
	b.BulletCount = Summarize(bullets)
	b.Price = Summarize(prices)
	b.ImageCount = Summarize(images)
	b.VideoCount = Summarize(videos)
	b.Rating = Summarize(ratings)
	b.ReviewCount = Summarize(reviews)

	share := func(k int) float64 { return float64(k) / float64(n) }
	b.VideoShare = share(withVideo)
	b.AnimatedShare = share(withAnimated)
	b.DocumentationShare = share(withDocs)
	b.ReleaseNotesShare = share(withNotes)
	b.CallToActionShare = share(withCTA)
	b.ValuePropShare = share(withUVP)

	b.TopVocabulary = topVocabulary(exemplars, VocabularySize)
	return b
}

// topVocabulary returns the most frequent exemplar tags, ties broken
// alphabetically so the result is deterministic.
func topVocabulary(exemplars []models.ScoredListing, limit int) []string {
	counts := make(map[string]int)
	for _, ex := range exemplars {
		seen := make(map[string]bool)
		for _, t := range ex.Listing.Tags {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			counts[t]++
		}
	}

	vocab := make([]string, 0, len(counts))
	for t := range counts {
		vocab = append(vocab, t)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if counts[vocab[i]] != counts[vocab[j]] {
			return counts[vocab[i]] > counts[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > limit {
		vocab = vocab[:limit]
	}
	return vocab
}
