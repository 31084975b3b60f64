// Package jobs holds the cron-scheduled maintenance jobs.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CleanupConfig configures the request-log retention job.
type CleanupConfig struct {
	Enabled   bool
	Spec      string        // cron expression, five fields
	Retention time.Duration // entries older than this are removed
	Timeout   time.Duration // upper bound of a single run
}

func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		Enabled:   true,
		Spec:      "30 3 * * *",
		Retention: 90 * 24 * time.Hour,
		Timeout:   10 * time.Minute,
	}
}

// Purger removes request-log entries older than a cutoff.
type Purger interface {
	Purge(ctx context.Context, now time.Time, retention time.Duration) (int64, error)
}

// RequestLogCleanup deletes product request log entries past retention.
// It implements cron.Job.
type RequestLogCleanup struct {
	purger Purger
	config CleanupConfig
	logger *zerolog.Logger
	now    func() time.Time
}

func NewRequestLogCleanup(purger Purger, config CleanupConfig, logger *zerolog.Logger) *RequestLogCleanup {
	return &RequestLogCleanup{purger: purger, config: config, logger: logger, now: time.Now}
}

// Run is called by the scheduler.
func (j *RequestLogCleanup) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.config.Timeout)
	defer cancel()
	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.Error().Err(err).Msg("Failed to clean up request log")
	}
}

// RunOnce purges once and returns the number of deleted entries.
func (j *RequestLogCleanup) RunOnce(ctx context.Context) (int64, error) {
	start := j.now()
	deleted, err := j.purger.Purge(ctx, start, j.config.Retention)
	if err != nil {
		return 0, err
	}
	j.logger.Debug().
		Int64("deleted", deleted).
		Dur("duration", time.Since(start)).
		Msg("Request log cleanup finished")
	return deleted, nil
}

// Scheduler owns the cron instance running the maintenance jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *zerolog.Logger
}

// NewScheduler registers every enabled job. An invalid cron expression is an
// error.
func NewScheduler(cleanup *RequestLogCleanup, logger *zerolog.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})))
	if cleanup != nil && cleanup.config.Enabled {
		if _, err := c.AddJob(cleanup.config.Spec, cleanup); err != nil {
			return nil, fmt.Errorf("schedule request log cleanup %q: %w", cleanup.config.Spec, err)
		}
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.logger.Info().Int("jobs", s.Jobs()).Msg("Starting job scheduler")
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info().Msg("Stopping job scheduler...")
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info().Msg("Job scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn().Msg("Jobs did not stop gracefully")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger *zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
