package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"portfolio-api/internal/config"
	"portfolio-api/internal/metrics"
	"portfolio-api/internal/model"
)

// StatsSource computes the current contact statistics
type StatsSource interface {
	Stats(ctx context.Context) (*model.Stats, error)
}

// Scheduler periodically refreshes the contact gauges
type Scheduler struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	config    *config.SchedulerConfig
	source    StatsSource
	metrics   *metrics.Metrics
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	lastRun   time.Time
	mu        sync.RWMutex
}

// NewScheduler creates a new scheduler
func NewScheduler(cfg *config.SchedulerConfig, source StatsSource, metrics *metrics.Metrics) *Scheduler {
	return &Scheduler{
		config:  cfg,
		source:  source,
		metrics: metrics,
	}
}

// Start starts the scheduler. A stopped scheduler can be started again.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if s.config.StatsInterval <= 0 {
		return fmt.Errorf("invalid stats interval: %s", s.config.StatsInterval)
	}

	c := cron.New(cron.WithSeconds())
	entryID, err := c.AddFunc(fmt.Sprintf("@every %s", s.config.StatsInterval), s.refreshStats)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.cron = c
	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	logrus.Infof("Scheduler started with interval: %s", s.config.StatsInterval)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}

	s.cancel()
	c := s.cron
	s.isRunning = false
	s.mu.Unlock()

	// Running jobs take the lock, so wait for them outside it.
	ctx := c.Stop()

	select {
	case <-ctx.Done():
		logrus.Info("Scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Scheduler stop timeout, forcing shutdown")
	}

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *Scheduler) refreshStats() {
	s.mu.RLock()
	if !s.isRunning {
		s.mu.RUnlock()
		logrus.Info("Scheduler not running, skipping stats refresh")
		return
	}
	ctx := s.ctx
	s.mu.RUnlock()

	if err := s.refresh(ctx); err != nil {
		logrus.Errorf("Failed to refresh contact stats: %v", err)
	}
}

func (s *Scheduler) refresh(ctx context.Context) error {
	s.wg.Add(1)
	defer s.wg.Done()

	startTime := time.Now()

	stats, err := s.source.Stats(ctx)
	if err != nil {
		return err
	}

	s.metrics.TotalContacts.Set(float64(stats.TotalContacts))
	s.metrics.NewContacts.Set(float64(stats.NewContacts))

	s.mu.Lock()
	s.lastRun = startTime
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"total_contacts": stats.TotalContacts,
		"new_contacts":   stats.NewContacts,
		"duration":       time.Since(startTime).String(),
	}).Debug("Contact stats refreshed")
	return nil
}

// RunOnce refreshes the stats immediately, whether or not the scheduler is running
func (s *Scheduler) RunOnce(ctx context.Context) error {
	logrus.Info("Running stats refresh once")
	if err := s.refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh contact stats: %w", err)
	}
	return nil
}

// GetNextRun returns the time of the next scheduled run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	return s.cron.Entry(s.entryID).Next
}

// GetLastRun returns the time of the last refresh, scheduled or manual
func (s *Scheduler) GetLastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// Wait waits for in-flight refreshes to finish
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
