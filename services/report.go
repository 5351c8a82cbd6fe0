package services

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"asset-grader/models"
	"asset-grader/utils"
)

// largestShown caps the largest-categories section of a report.
const largestShown = 5

// RulesReport summarises rules files and grade results for the console.
type RulesReport struct {
	logger *utils.Logger
	out    io.Writer
}

// NewRulesReport creates a report printer writing to out.
func NewRulesReport(logger *utils.Logger, out io.Writer) *RulesReport {
	return &RulesReport{logger: logger, out: out}
}

// Summarize condenses file. A nil file gives an empty summary.
func (s *RulesReport) Summarize(file *models.RulesFile) *models.RulesSummary {
	summary := &models.RulesSummary{ByConfidence: make(map[string]int)}
	if file == nil {
		return summary
	}

	summary.RunID = file.RunID
	summary.GeneratedAt = file.GeneratedAt
	summary.CorpusSize = file.Metadata.CorpusSize
	summary.CategoryCount = file.Metadata.CategoryCount
	summary.FallbackCategories = append([]string{}, file.Metadata.FallbackCategories...)
	sort.Strings(summary.FallbackCategories)

	cats := make([]models.CategorySummary, 0, len(file.Categories))
	for name, r := range file.Categories {
		if r == nil {
			continue
		}
		summary.ByConfidence[r.Confidence]++
		cats = append(cats, models.CategorySummary{
			Category:   name,
			Confidence: r.Confidence,
			SampleSize: r.SampleSize,
			Weights:    r.Weights,
		})
	}
	if n := len(summary.FallbackCategories); n > 0 {
		summary.ByConfidence["fallback"] = n
	}

	sort.Slice(cats, func(i, j int) bool {
		if cats[i].SampleSize != cats[j].SampleSize {
			return cats[i].SampleSize > cats[j].SampleSize
		}
		return cats[i].Category < cats[j].Category
	})
	if len(cats) > largestShown {
		cats = cats[:largestShown]
	}
	summary.LargestCategories = cats

	s.logger.Debug("[report] Summarised run %s: %d categories", summary.RunID, summary.CategoryCount)
	return summary
}

// Print writes a colour summary of r.
func (s *RulesReport) Print(r *models.RulesSummary) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)
	w := s.out

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  LISTING QUALITY RULES\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Run ID          : \033[1m%s\033[0m\n", r.RunID)
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(w, "  Generated at    : %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(w, "  Corpus listings : \033[1m%d\033[0m\n", r.CorpusSize)
	fmt.Fprintf(w, "  Categories      : \033[1m%d\033[0m\n", r.CategoryCount)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Categories by Confidence\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, c := range []string{models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow, "fallback"} {
		n := r.ByConfidence[c]
		fmt.Fprintf(w, "  %-10s %s (%d)\n", c, strings.Repeat("█", min(n, 40)), n)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Largest Categories\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.LargestCategories) == 0 {
		fmt.Fprintf(w, "  No category rules generated\n")
	}
	for i, c := range r.LargestCategories {
		fmt.Fprintf(w, "  \033[1m%d.\033[0m %-36s %3d exemplars  %s\n",
			i+1, truncate(c.Category, 34), c.SampleSize, c.Confidence)
	}
	fmt.Fprintln(w)

	if len(r.FallbackCategories) > 0 {
		fmt.Fprintf(w, "\033[1;33m  On Fallback Rules\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		for _, c := range r.FallbackCategories {
			fmt.Fprintf(w, "  %s\n", truncate(c, 56))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)
}

// PrintGrade writes one grade result with its dimension breakdown and reasons.
func (s *RulesReport) PrintGrade(g *models.GradeResult) {
	thin := strings.Repeat("─", 60)
	w := s.out

	fmt.Fprintf(w, "\n\033[1;35m  %s\033[0m  %s\n", gradeColour(g.Letter), g.Category)
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Score      : \033[1m%.2f\033[0m / 100\n", g.Score)
	fmt.Fprintf(w, "  Confidence : %s", g.Confidence)
	if g.UsedFallback {
		fmt.Fprintf(w, " (fallback rules)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	dims := []struct {
		name string
		d    models.DimensionScore
	}{
		{"Content", g.Breakdown.Content},
		{"Media", g.Breakdown.Media},
		{"Trust", g.Breakdown.Trust},
		{"Findability", g.Breakdown.Findability},
	}
	for _, d := range dims {
		fmt.Fprintf(w, "  %-12s %6.2f / %-6.2f %s\n", d.name, d.d.Score, d.d.Max, bar(d.d.Score, d.d.Max, 20))
	}

	if len(g.Reasons) > 0 {
		fmt.Fprintf(w, "\n\033[1;33m  Suggestions\033[0m\n")
		for _, reason := range g.Reasons {
			fmt.Fprintf(w, "  • %s\n", reason)
		}
	}
	fmt.Fprintln(w)
}

func gradeColour(letter string) string {
	switch letter {
	case "A", "B":
		return "\033[1;32m" + letter + "\033[0m"
	case "C":
		return "\033[1;33m" + letter + "\033[0m"
	default:
		return "\033[1;31m" + letter + "\033[0m"
	}
}

func bar(score, ceiling float64, width int) string {
	if ceiling <= 0 {
		return ""
	}
	n := min(max(int(score/ceiling*float64(width)), 0), width)
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit-3]) + "..."
}
