package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"asset-grader/utils"
)

// Job is a unit of scheduled work, such as a rules rebuild.
type Job interface {
	Name() string
	RunOnce(ctx context.Context) error
}

// Status describes the outcome of the most recent run.
type Status struct {
	Job         string    `json:"job"`
	LastRun     time.Time `json:"last_run,omitempty"`
	LastSuccess time.Time `json:"last_success,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	Duration    string    `json:"duration,omitempty"`
}

// Scheduler runs a job on a cron schedule and serves /metrics and /healthz
// while it waits.
type Scheduler struct {
	schedule string
	addr     string
	job      Job
	gatherer prometheus.Gatherer
	logger   *utils.Logger
	cron     *cron.Cron

	mu     sync.RWMutex
	status Status
}

// New creates a scheduler. Overlapping runs are skipped. An empty addr
// disables the HTTP server.
func New(schedule, addr string, job Job, gatherer prometheus.Gatherer, logger *utils.Logger) *Scheduler {
	cl := cronLogger{logger}
	return &Scheduler{
		schedule: schedule,
		addr:     addr,
		job:      job,
		gatherer: gatherer,
		logger:   logger,
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl))),
		status:   Status{Job: job.Name()},
	}
}

// Start registers the job and blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("[scheduler] %v", err)
		}
	}); err != nil {
		return fmt.Errorf("scheduler: add cron job %q: %w", s.schedule, err)
	}

	var srv *http.Server
	if s.addr != "" {
		srv = &http.Server{Addr: s.addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("[scheduler] metrics server: %v", err)
			}
		}()
		s.logger.Info("[scheduler] Serving /metrics and /healthz on %s", s.addr)
	}

	s.logger.Info("[scheduler] Started %s with schedule %q", s.job.Name(), s.schedule)
	s.cron.Start()

	<-ctx.Done()
	s.logger.Info("[scheduler] Stopping %s", s.job.Name())
	<-s.cron.Stop().Done()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return ctx.Err()
}

// RunOnce runs the job immediately and records the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	started := time.Now()
	s.logger.Info("[scheduler] Starting %s run...", s.job.Name())

	err := s.job.RunOnce(ctx)
	elapsed := time.Since(started)

	s.mu.Lock()
	s.status.LastRun = started
	s.status.Duration = elapsed.Round(time.Millisecond).String()
	if err != nil {
		s.status.LastError = err.Error()
	} else {
		s.status.LastError = ""
		s.status.LastSuccess = started
	}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%s run failed: %w", s.job.Name(), err)
	}
	s.logger.Info("[scheduler] %s finished in %v", s.job.Name(), elapsed.Round(time.Millisecond))
	return nil
}

// Status returns a copy of the latest run status.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Handler serves /metrics from the gatherer and /healthz from the run status.
// Health is 503 while the latest run has failed.
func (s *Scheduler) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		st := s.Status()
		w.Header().Set("Content-Type", "application/json")
		if st.LastError != "" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(st)
	})
	return mux
}

// cronLogger routes cron's own logging through utils.Logger.
type cronLogger struct {
	l *utils.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("[cron] %s %v", msg, keysAndValues)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("[cron] %s: %v %v", msg, err, keysAndValues)
}
