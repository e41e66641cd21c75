package stats

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"smart-contact-form/internal/metrics"
)

// SubmissionCounter is the store surface the refresher needs
type SubmissionCounter interface {
	Count() (int64, error)
}

// Refresher periodically recounts stored submissions into the Prometheus
// gauge so the metric survives restarts and out-of-band table changes.
type Refresher struct {
	cron            *cron.Cron
	entryID         cron.EntryID
	intervalMinutes int
	store           SubmissionCounter
	metrics         *metrics.Metrics
	isRunning       bool
	mu              sync.RWMutex
}

// NewRefresher creates a stats refresher
func NewRefresher(intervalMinutes int, store SubmissionCounter, m *metrics.Metrics) *Refresher {
	return &Refresher{
		cron:            cron.New(cron.WithSeconds()),
		intervalMinutes: intervalMinutes,
		store:           store,
		metrics:         m,
	}
}

// Start starts the refresher and runs one refresh immediately
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("stats refresher is already running")
	}

	schedule := fmt.Sprintf("0 */%d * * * *", r.intervalMinutes)
	entryID, err := r.cron.AddFunc(schedule, r.refresh)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	r.entryID = entryID
	r.cron.Start()
	r.isRunning = true

	go r.refresh()

	logrus.Infof("Stats refresher started with interval: %d minutes", r.intervalMinutes)
	return nil
}

// Stop stops the refresher and waits for a running refresh to finish
func (r *Refresher) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return nil
	}

	ctx := r.cron.Stop()
	select {
	case <-ctx.Done():
		logrus.Info("Stats refresher stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Stats refresher stop timeout, forcing shutdown")
	}

	r.isRunning = false
	return nil
}

// IsRunning returns whether the refresher is running
func (r *Refresher) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isRunning
}

// GetNextRun returns the time of the next scheduled refresh
func (r *Refresher) GetNextRun() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.isRunning {
		return time.Time{}
	}
	return r.cron.Entry(r.entryID).Next
}

// Refresh recounts stored submissions into the gauge once
func (r *Refresher) Refresh() error {
	count, err := r.store.Count()
	if err != nil {
		return fmt.Errorf("failed to refresh submission count: %w", err)
	}
	r.metrics.StoredSubmissions.Set(float64(count))
	logrus.Debugf("Stored submission count refreshed: %d", count)
	return nil
}

func (r *Refresher) refresh() {
	if err := r.Refresh(); err != nil {
		logrus.WithError(err).Error("Stats refresh failed")
	}
}
