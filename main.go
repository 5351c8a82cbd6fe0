package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"asset-grader/config"
	"asset-grader/services"
	"asset-grader/storage"
	"asset-grader/utils"
)

var (
	// Set by PersistentPreRunE for every subcommand.
	cfg    *config.Config
	logger *utils.Logger

	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "grader",
	Short: "Exemplar-based quality grading for marketplace listings",
	Long: `grader learns what good listings look like from the best items of each
category in a corpus, writes the result as a rules file, and grades new
listings against it.

Typical flow:
  grader import --csv corpus.csv   load a corpus export into PostgreSQL
  grader build                     derive rules from the stored corpus
  grader grade listing.json        grade a candidate against the rules
  grader schedule                  rebuild rules on REFRESH_SCHEDULE`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger = utils.NewLoggerWithLevel(cfg.LogLevel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// pipelineConfig maps the loaded tuning onto the build pipeline.
func pipelineConfig(c *config.Config) services.PipelineConfig {
	t := c.Tuning
	return services.PipelineConfig{
		Selection:   t.Selection,
		Quality:     t.Quality,
		Rules:       t.Rules,
		Concurrency: t.Concurrency,
	}
}

func retryConfig(c *config.Config) *utils.RetryConfig {
	return &utils.RetryConfig{MaxAttempts: c.MaxRetries, BaseDelay: 500 * time.Millisecond, Logger: logger}
}

// redisRules returns the Redis rules store, or nil when REDIS_ADDR is unset.
// The caller closes the returned client.
func redisRules(c *config.Config) (*storage.RedisRulesStore, *redis.Client) {
	if c.RedisAddr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	ttl := time.Duration(c.RulesTTLHours) * time.Hour
	return storage.NewRedisRulesStore(client, c.RedisPrefix, ttl, retryConfig(c)), client
}

// parseNow reads a --now flag value. An empty value means the current time.
func parseNow(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q (want RFC3339): %w", raw, err)
	}
	return t, nil
}
