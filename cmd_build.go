package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"asset-grader/config"
	"asset-grader/models"
	"asset-grader/services"
	"asset-grader/storage"
	"asset-grader/utils"
)

var (
	buildCSV    string
	buildSkipDB bool
	buildOut    string
	buildNow    string
	buildQuiet  bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Derive grading rules from the corpus",
	Long: `Scores every stored listing, picks each category's exemplars, and writes
the derived rules to RULES_PATH. When REDIS_ADDR is set the rules are also
published to Redis for online graders.

The corpus is read from PostgreSQL and, with --csv, from a CSV export as well.
Listings found in both are taken from PostgreSQL.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildCSV, "csv", "", "Also read corpus listings from this CSV export (defaults to CORPUS_CSV_PATH)")
	buildCmd.Flags().BoolVar(&buildSkipDB, "skip-db", false, "Do not read the corpus from PostgreSQL")
	buildCmd.Flags().StringVar(&buildOut, "out", "", "Rules file path (defaults to RULES_PATH)")
	buildCmd.Flags().StringVar(&buildNow, "now", "", "Reference time for freshness, RFC3339 (defaults to now)")
	buildCmd.Flags().BoolVar(&buildQuiet, "quiet", false, "Do not print the rules summary")
}

func runBuild(cmd *cobra.Command, args []string) error {
	now, err := parseNow(buildNow)
	if err != nil {
		return err
	}

	job := newBuildJob(cfg, logger, nil)
	if buildCSV != "" {
		job.csvPath = buildCSV
	}
	job.skipDB = buildSkipDB
	job.now = func() time.Time { return now }
	if buildOut != "" {
		job.rulesPath = buildOut
	}
	if !buildQuiet {
		job.out = os.Stdout
	}
	return job.RunOnce(cmd.Context())
}

// buildJob runs one rules build end to end. It backs both the build command
// and the scheduled refresh.
type buildJob struct {
	cfg       *config.Config
	logger    *utils.Logger
	metrics   *services.Metrics
	csvPath   string
	skipDB    bool
	rulesPath string
	now       func() time.Time
	out       io.Writer
}

func newBuildJob(c *config.Config, l *utils.Logger, m *services.Metrics) *buildJob {
	return &buildJob{
		cfg:       c,
		logger:    l,
		metrics:   m,
		csvPath:   c.CorpusCSVPath,
		rulesPath: c.RulesPath,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (j *buildJob) Name() string { return "rules-refresh" }

// RunOnce loads the corpus, builds the rules, and stores them.
func (j *buildJob) RunOnce(ctx context.Context) error {
	corpus, err := j.loadCorpus(ctx)
	if err != nil {
		return err
	}

	pipeline := services.NewPipeline(pipelineConfig(j.cfg), j.logger, j.metrics)
	file, err := pipeline.Run(ctx, corpus, j.now())
	if err != nil {
		return err
	}

	if err := storage.NewRulesFileStore(j.rulesPath).Save(ctx, file); err != nil {
		return err
	}
	j.logger.Info("Rules for run %s saved to %s", file.RunID, j.rulesPath)

	if rs, client := redisRules(j.cfg); rs != nil {
		defer client.Close()
		if err := rs.Save(ctx, file); err != nil {
			return fmt.Errorf("publish rules to redis: %w", err)
		}
		j.logger.Info("Rules for run %s published to redis at %s", file.RunID, j.cfg.RedisAddr)
	}

	if j.out != nil {
		report := services.NewRulesReport(j.logger, j.out)
		report.Print(report.Summarize(file))
	}
	return nil
}

// loadCorpus reads the stored corpus and the optional CSV export in parallel
// and merges them. Stored listings win on duplicate ids.
func (j *buildJob) loadCorpus(ctx context.Context) ([]*models.Listing, error) {
	if j.skipDB && j.csvPath == "" {
		return nil, errors.New("no corpus source: --skip-db needs --csv or CORPUS_CSV_PATH")
	}

	var stored, exported []*models.Listing
	g, gctx := errgroup.WithContext(ctx)

	if !j.skipDB {
		g.Go(func() error {
			store, err := storage.NewPostgresStore(gctx, j.cfg.DSN(), retryConfig(j.cfg))
			if err != nil {
				return err
			}
			defer store.Close()
			stored, err = store.FetchAll(gctx)
			return err
		})
	}
	if j.csvPath != "" {
		g.Go(func() error {
			raw, err := storage.NewCSVReader(j.csvPath).ReadRaw()
			if err != nil {
				return err
			}
			exported = services.NewCleaner(j.logger).Clean(raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := utils.NewIDSet()
	corpus := make([]*models.Listing, 0, len(stored)+len(exported))
	for _, src := range [][]*models.Listing{stored, exported} {
		for _, l := range src {
			if seen.Add(l.ID) {
				corpus = append(corpus, l)
			}
		}
	}
	j.logger.Info("Corpus: %d stored + %d exported = %d listings", len(stored), len(exported), len(corpus))
	return corpus, nil
}
