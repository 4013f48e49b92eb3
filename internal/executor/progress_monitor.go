package executor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"copyd/internal/models"
)

// ProgressStore is where the monitor persists copy progress. Status changes
// are persisted by the queue, never by the monitor.
type ProgressStore interface {
	UpdateProgress(job *models.Job) error
}

// ProgressMonitor periodically snapshots registered jobs to the history store
// so a restarted daemon can resume them from their last persisted offset.
type ProgressMonitor struct {
	repo     ProgressStore
	interval func() time.Duration

	mu   sync.RWMutex
	jobs map[string]*models.Job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewProgressMonitor creates a new progress monitor. interval is consulted on
// every tick so config reloads take effect without a restart.
func NewProgressMonitor(repo ProgressStore, interval func() time.Duration) *ProgressMonitor {
	return &ProgressMonitor{
		repo:     repo,
		interval: interval,
		jobs:     make(map[string]*models.Job),
	}
}

// Start begins persisting progress
func (pm *ProgressMonitor) Start(ctx context.Context) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.cancel != nil {
		slog.Warn("progress monitor already started")
		return
	}

	pm.ctx, pm.cancel = context.WithCancel(ctx)

	pm.wg.Add(1)
	go pm.persistLoop()

	slog.Info("progress monitor started")
}

// Stop stops the monitor after a final persist
func (pm *ProgressMonitor) Stop() {
	pm.mu.Lock()
	if pm.cancel == nil {
		pm.mu.Unlock()
		return
	}

	pm.cancel()
	pm.mu.Unlock()

	pm.wg.Wait()
	pm.Flush()
	slog.Info("progress monitor stopped")
}

// Register adds a job to be persisted
func (pm *ProgressMonitor) Register(job *models.Job) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.jobs[job.ID] = job
	slog.Debug("registered job for progress monitoring", "job_id", job.ID)
}

// Unregister removes a job from monitoring
func (pm *ProgressMonitor) Unregister(jobID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	delete(pm.jobs, jobID)
	slog.Debug("unregistered job from progress monitoring", "job_id", jobID)
}

// Tracked returns the number of registered jobs.
func (pm *ProgressMonitor) Tracked() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.jobs)
}

func (pm *ProgressMonitor) persistLoop() {
	defer pm.wg.Done()

	timer := time.NewTimer(pm.interval())
	defer timer.Stop()

	for {
		select {
		case <-pm.ctx.Done():
			return
		case <-timer.C:
			pm.Flush()
			timer.Reset(pm.interval())
		}
	}
}

// Flush saves a snapshot of every registered job to the store
func (pm *ProgressMonitor) Flush() {
	pm.mu.RLock()
	jobsToUpdate := make([]*models.Job, 0, len(pm.jobs))
	for _, job := range pm.jobs {
		jobsToUpdate = append(jobsToUpdate, job)
	}
	pm.mu.RUnlock()

	for _, job := range jobsToUpdate {
		snapshot := job.Clone()
		if err := pm.repo.UpdateProgress(snapshot); err != nil {
			slog.Error("failed to persist job progress", "job_id", job.ID, "error", err)
			continue
		}
		slog.Debug("persisted job progress",
			"job_id", snapshot.ID,
			"writes", snapshot.Writes,
			"bytes", snapshot.Bytes,
			"total", snapshot.TotalBytes)
	}
}
