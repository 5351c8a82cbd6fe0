package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"asset-grader/models"
	"asset-grader/services"
	"asset-grader/storage"
)

var (
	gradeCSV       string
	gradeRules     string
	gradeFromRedis bool
	gradeOut       string
	gradeNow       string
	gradeJSON      bool
)

var gradeCmd = &cobra.Command{
	Use:   "grade [listing.json]",
	Short: "Grade candidate listings against the current rules",
	Long: `Grades one or more candidate listings. Candidates come either from a JSON
file holding a single listing or an array of listings, or from a CSV export
given with --csv. Listings in categories without learned rules are graded
against the fallback rules.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGrade,
}

func init() {
	gradeCmd.Flags().StringVar(&gradeCSV, "csv", "", "Grade every listing in this CSV export")
	gradeCmd.Flags().StringVar(&gradeRules, "rules", "", "Rules file (defaults to RULES_PATH)")
	gradeCmd.Flags().BoolVar(&gradeFromRedis, "redis", false, "Load the current rules from Redis instead of a file")
	gradeCmd.Flags().StringVar(&gradeOut, "out", "", "Write grades as CSV to this path")
	gradeCmd.Flags().StringVar(&gradeNow, "now", "", "Reference time for freshness, RFC3339 (defaults to now)")
	gradeCmd.Flags().BoolVar(&gradeJSON, "json", false, "Print grades as JSON")
}

func runGrade(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	now, err := parseNow(gradeNow)
	if err != nil {
		return err
	}

	candidates, err := loadCandidates(args)
	if err != nil {
		return err
	}

	file, err := loadRules(ctx, gradeRules, gradeFromRedis)
	if errors.Is(err, storage.ErrNoRules) {
		logger.Warn("No rules found (%v); grading with fallback rules", err)
		file = nil
	} else if err != nil {
		return err
	}

	metrics := services.NewMetrics()
	results, err := gradeAll(ctx, candidates, file, now, cfg.Tuning.Concurrency, metrics)
	if err != nil {
		return err
	}
	if len(results) > 1 {
		counts := metrics.GradeCounts()
		logger.Info("Graded %d listings: A=%d B=%d C=%d D=%d F=%d", len(results),
			counts["A"], counts["B"], counts["C"], counts["D"], counts["F"])
	}

	if gradeOut != "" {
		w, err := storage.NewCSVWriter(gradeOut)
		if err != nil {
			return err
		}
		if err := w.WriteGrades(results); err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		logger.Info("Wrote %d grades to %s", len(results), gradeOut)
	}

	if gradeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	if gradeOut == "" || len(results) == 1 {
		report := services.NewRulesReport(logger, os.Stdout)
		for _, r := range results {
			report.PrintGrade(r)
		}
	}
	return nil
}

// gradeAll grades candidates in parallel. Results keep the input order.
// metrics may be nil.
func gradeAll(ctx context.Context, candidates []*models.Listing, file *models.RulesFile, now time.Time, limit int, metrics *services.Metrics) ([]*models.GradeResult, error) {
	grader := services.NewGrader(services.NewCategoryResolver(nil))
	results := make([]*models.GradeResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, l := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = grader.GradeWithFile(l, file, now)
			if metrics != nil {
				metrics.IncGrade(results[i].Letter)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func loadCandidates(args []string) ([]*models.Listing, error) {
	switch {
	case gradeCSV != "" && len(args) > 0:
		return nil, errors.New("pass either a listing file or --csv, not both")
	case gradeCSV != "":
		raw, err := storage.NewCSVReader(gradeCSV).ReadRaw()
		if err != nil {
			return nil, err
		}
		listings := services.NewCleaner(logger).Clean(raw)
		if len(listings) == 0 {
			return nil, fmt.Errorf("no gradable listings in %s", gradeCSV)
		}
		return listings, nil
	case len(args) == 1:
		return readListingJSON(args[0])
	default:
		return nil, errors.New("nothing to grade: pass a listing file or --csv")
	}
}

// readListingJSON accepts a single listing object or an array of them.
func readListingJSON(path string) ([]*models.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '[' {
		var listings []*models.Listing
		if err := json.Unmarshal(data, &listings); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return listings, nil
	}

	var l models.Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return []*models.Listing{&l}, nil
}

// loadRules reads the rules file at path (RULES_PATH when empty) or the
// current rules published to Redis.
func loadRules(ctx context.Context, path string, fromRedis bool) (*models.RulesFile, error) {
	if fromRedis {
		rs, client := redisRules(cfg)
		if rs == nil {
			return nil, errors.New("--redis needs REDIS_ADDR")
		}
		defer client.Close()
		return rs.Load(ctx)
	}
	if path == "" {
		path = cfg.RulesPath
	}
	return storage.NewRulesFileStore(path).Load(ctx)
}
