package services

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"asset-grader/models"
)

// UncategorizedCategory is used when no extractor yields a category.
const UncategorizedCategory = "Uncategorized"

// CategoryExtractor derives a category path from a listing, or "" if it cannot.
type CategoryExtractor func(l *models.Listing) string

// DefaultCategoryChain is tried in order: declared field, URL slug, first tag.
var DefaultCategoryChain = []CategoryExtractor{
	DeclaredCategory,
	URLSlugCategory,
	FirstTagCategory,
}

// upper-cased verbatim when they appear as a category word
var categoryAcronyms = map[string]string{
	"2d": "2D", "3d": "3D", "ai": "AI", "gui": "GUI", "ui": "UI", "vfx": "VFX",
	"sfx": "SFX", "vr": "VR", "ar": "AR", "fps": "FPS", "rpg": "RPG", "hdrp": "HDRP",
	"urp": "URP", "pbr": "PBR", "lod": "LOD",
}

// CategoryResolver normalises a listing's category through an ordered chain
// of extractors.
type CategoryResolver struct {
	chain []CategoryExtractor
}

// NewCategoryResolver builds a resolver. A nil chain uses DefaultCategoryChain.
func NewCategoryResolver(chain []CategoryExtractor) *CategoryResolver {
	if chain == nil {
		chain = DefaultCategoryChain
	}
	return &CategoryResolver{chain: chain}
}

// Resolve returns the first non-empty normalised category, or
// UncategorizedCategory.
func (r *CategoryResolver) Resolve(l *models.Listing) string {
	if l == nil {
		return UncategorizedCategory
	}
	for _, extract := range r.chain {
		if c := NormalizeCategory(extract(l)); c != "" {
			return c
		}
	}
	return UncategorizedCategory
}

// DeclaredCategory returns the listing's own category field.
func DeclaredCategory(l *models.Listing) string {
	return l.Category
}

// URLSlugCategory derives a category from a marketplace URL such as
// https://assetstore.example.com/packages/3d/characters/humanoids/knight-pack-1234.
// Segments after "packages" minus the trailing item slug form the path; when
// there is no "packages" segment every segment except the last is used.
func URLSlugCategory(l *models.Listing) string {
	if l.URL == "" {
		return ""
	}
	u, err := url.Parse(l.URL)
	if err != nil {
		return ""
	}

	var segs []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	for i, s := range segs {
		if strings.EqualFold(s, "packages") {
			segs = segs[i+1:]
			break
		}
	}
	if len(segs) < 2 {
		return ""
	}
	segs = segs[:len(segs)-1]

	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		parts = append(parts, titleSegment(s))
	}
	return strings.Join(parts, "/")
}

// FirstTagCategory uses the first tag as a single-level category.
func FirstTagCategory(l *models.Listing) string {
	for _, t := range l.Tags {
		if t = strings.TrimSpace(t); t != "" {
			return titleSegment(t)
		}
	}
	return ""
}

func titleSegment(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ", "+", " ").Replace(strings.TrimSpace(s))
	words := strings.Fields(s)
	caser := cases.Title(language.English)
	for i, w := range words {
		if a, ok := categoryAcronyms[strings.ToLower(w)]; ok {
			words[i] = a
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// NormalizeCategory trims every segment, collapses repeated separators and
// inner whitespace. It does not change letter case.
func NormalizeCategory(c string) string {
	var parts []string
	for _, seg := range strings.Split(c, "/") {
		seg = strings.Join(strings.Fields(seg), " ")
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "/")
}

// HierarchyTerms splits a category path into lower-case words, dropping
// duplicates and connector words. "3D/Characters/Humanoids" yields
// [3d characters humanoids].
func HierarchyTerms(category string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, seg := range strings.Split(category, "/") {
		for _, w := range strings.FieldsFunc(strings.ToLower(seg), isTermSeparator) {
			if stopWords[w] || seen[w] {
				continue
			}
			seen[w] = true
			terms = append(terms, w)
		}
	}
	return terms
}

var stopWords = map[string]bool{
	"and": true, "the": true, "of": true, "for": true, "a": true, "an": true,
	"uncategorized": true, "other": true, "misc": true,
}

func isTermSeparator(r rune) bool {
	return r == ' ' || r == '&' || r == ',' || r == '-' || r == '_'
}
