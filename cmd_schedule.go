package main

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"asset-grader/scheduler"
	"asset-grader/services"
)

var scheduleRunFirst bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Rebuild rules on REFRESH_SCHEDULE until interrupted",
	Long: `Runs the rules build on the cron schedule in REFRESH_SCHEDULE and serves
/metrics and /healthz on METRICS_ADDR. A run that is still going when the
next one is due is skipped.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleRunFirst, "run-now", true, "Build once at startup before waiting for the schedule")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics()
	if err := metrics.Register(reg); err != nil {
		return err
	}

	job := newBuildJob(cfg, logger, metrics)
	s := scheduler.New(cfg.RefreshSchedule, cfg.MetricsAddr, job, reg, logger)

	if scheduleRunFirst {
		if err := s.RunOnce(ctx); err != nil {
			logger.Error("[schedule] initial build: %v", err)
		}
	}

	err := s.Start(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("[schedule] Shut down")
		return nil
	}
	return err
}
