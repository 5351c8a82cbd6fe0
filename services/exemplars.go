package services

import (
	"math"
	"sort"

	"asset-grader/models"
)

// ExemplarSelector keeps the best-scoring listings of every category.
type ExemplarSelector struct {
	scorer   *QualityScorer
	resolver *CategoryResolver
}

// NewExemplarSelector wires a selector to a scorer and category resolver.
func NewExemplarSelector(scorer *QualityScorer, resolver *CategoryResolver) *ExemplarSelector {
	if resolver == nil {
		resolver = NewCategoryResolver(nil)
	}
	return &ExemplarSelector{scorer: scorer, resolver: resolver}
}

// Select groups corpus by normalised category, ranks each group by quality
// score and truncates it according to rule. Every category with at least one
// listing keeps at least one exemplar. Nil entries in corpus are skipped.
func (s *ExemplarSelector) Select(corpus []*models.Listing, rule models.SelectionRule) models.ExemplarSet {
	groups := make(map[string][]models.ScoredListing)
	for i, l := range corpus {
		if l == nil {
			continue
		}
		c := s.resolver.Resolve(l)
		groups[c] = append(groups[c], models.ScoredListing{
			Listing:  l,
			Score:    s.scorer.Score(l),
			Position: i,
		})
	}

	set := make(models.ExemplarSet, len(groups))
	for c, group := range groups {
		sortByScore(group)
		n := ExemplarCount(len(group), rule)
		set[c] = group[:n:n]
	}
	return set
}

// sortByScore orders descending by score, ascending corpus position on ties.
func sortByScore(group []models.ScoredListing) {
	sort.SliceStable(group, func(i, j int) bool {
		if group[i].Score != group[j].Score {
			return group[i].Score > group[j].Score
		}
		return group[i].Position < group[j].Position
	})
}

// ExemplarCount returns how many of size listings the rule keeps.
func ExemplarCount(size int, rule models.SelectionRule) int {
	if size <= 0 {
		return 0
	}

	var n int
	switch {
	case rule.Percent > 0:
		n = int(math.Ceil(float64(size) * rule.Percent / 100))
	case rule.Count > 0:
		n = rule.Count
	default:
		n = models.DefaultExemplarCount
	}

	return max(1, min(n, size))
}
