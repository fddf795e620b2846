package ratestore

import (
	"context"
	"sync"
	"time"

	"github.com/rgehrsitz/hiquote/internal/calculation"
	"github.com/robfig/cron/v3"
)

// SchedulerConfig holds the refresh scheduler configuration
type SchedulerConfig struct {
	// Schedule is a five-field cron expression (e.g. "*/15 * * * *" for every quarter hour)
	Schedule string
	// Timeout bounds one complete refresh
	Timeout time.Duration
	// Enabled determines if the scheduler should run
	Enabled bool
}

// DefaultSchedulerConfig returns the default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Schedule: "*/15 * * * *",
		Timeout:  30 * time.Second,
		Enabled:  true,
	}
}

// RefreshScheduler reloads the resolver cache on a cron schedule
type RefreshScheduler struct {
	cron     *cron.Cron
	resolver *Resolver
	config   SchedulerConfig
	logger   calculation.Logger
	entryID  cron.EntryID

	mu       sync.Mutex
	lastErr  error
	lastLoad int
}

// NewRefreshScheduler creates a scheduler; a nil logger logs nothing
func NewRefreshScheduler(cfg SchedulerConfig, resolver *Resolver, logger calculation.Logger) *RefreshScheduler {
	if logger == nil {
		logger = calculation.NopLogger{}
	}

	return &RefreshScheduler{
		cron:     cron.New(cron.WithSeconds()),
		resolver: resolver,
		config:   cfg,
		logger:   logger,
	}
}

// Start begins the scheduler
func (s *RefreshScheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Infof("rate refresh scheduler is disabled, skipping start")
		return nil
	}

	// Five-field expressions gain a leading seconds field
	entryID, err := s.cron.AddFunc("0 "+s.config.Schedule, s.runRefreshJob)
	if err != nil {
		return err
	}

	s.entryID = entryID
	s.cron.Start()

	s.logger.Infof("rate refresh scheduler started (schedule %q, timeout %s)", s.config.Schedule, s.config.Timeout)
	return nil
}

// Stop stops the scheduler; the returned context is done when running jobs finish
func (s *RefreshScheduler) Stop() context.Context {
	s.logger.Infof("stopping rate refresh scheduler")
	return s.cron.Stop()
}

// RunNow performs one refresh synchronously
func (s *RefreshScheduler) RunNow() (int, error) {
	s.runRefreshJob()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLoad, s.lastErr
}

func (s *RefreshScheduler) runRefreshJob() {
	timeout := s.config.Timeout
	if timeout <= 0 {
		timeout = DefaultSchedulerConfig().Timeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	count, err := s.resolver.Refresh(ctx)

	s.mu.Lock()
	s.lastLoad, s.lastErr = count, err
	s.mu.Unlock()

	if err != nil {
		s.logger.Errorf("rate refresh failed after %s: %v", time.Since(start), err)
		return
	}
	s.logger.Infof("rate refresh loaded %d configurations in %s", count, time.Since(start))
}

// GetNextRunTime returns the next scheduled run time
func (s *RefreshScheduler) GetNextRunTime() time.Time {
	if s.entryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// GetLastRunTime returns the last scheduled run time
func (s *RefreshScheduler) GetLastRunTime() time.Time {
	if s.entryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Prev
}

// IsRunning returns true if a refresh job is registered
func (s *RefreshScheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
