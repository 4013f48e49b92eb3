package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"copyd/internal/config"
	"copyd/internal/interfaces"
	"copyd/internal/models"
	"copyd/internal/protocol"
	"copyd/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrNotRunning  = errors.New("job queue is not running")
)

// AdmissionError is returned by Create when the copy was refused.
type AdmissionError struct {
	Reason  string
	Details map[string]interface{}
}

func (e *AdmissionError) Error() string {
	return "copy rejected: " + e.Reason
}

// ProgressTracker is told which jobs are currently copying.
type ProgressTracker interface {
	Register(job *models.Job)
	Unregister(jobID string)
}

type queue struct {
	repo      interfaces.JobRepository
	config    *config.Config
	admission interfaces.Admission
	tracker   ProgressTracker
	executor  interfaces.JobExecutor

	// Internal state
	mu              sync.RWMutex
	running         bool
	jobs            map[string]*models.Job
	order           []string
	activeJobs      map[string]*worker
	threads         int
	busy            int
	pending         []*run
	schedulerCtx    context.Context
	schedulerCancel context.CancelFunc
	workers         sync.WaitGroup

	newID func() string
}

// worker is one execution of a job, from schedule (or resume) until its copy
// returns.
type worker struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// run is a scheduled worker waiting for a copy thread. Runs are handed
// threads in the order they were scheduled.
type run struct {
	ctx  context.Context
	job  *models.Job
	w    *worker
	prev *worker
}

// New creates the job queue. tracker may be nil.
func New(repo interfaces.JobRepository, cfg *config.Config, admission interfaces.Admission, tracker ProgressTracker) interfaces.JobQueue {
	threads := cfg.GetCopy().MaxThreads
	if threads < 1 {
		threads = 1
	}
	return &queue{
		repo:       repo,
		config:     cfg,
		admission:  admission,
		tracker:    tracker,
		jobs:       make(map[string]*models.Job),
		activeJobs: make(map[string]*worker),
		threads:    threads,
		newID:      uuid.NewString,
	}
}

func (q *queue) SetJobExecutor(executor interfaces.JobExecutor) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.executor = executor
}

func (q *queue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return fmt.Errorf("queue already running")
	}

	if q.executor == nil {
		return fmt.Errorf("job executor not set")
	}

	q.running = true
	q.schedulerCtx, q.schedulerCancel = context.WithCancel(ctx)

	if err := q.loadExistingJobs(); err != nil {
		q.running = false
		q.schedulerCancel()
		return fmt.Errorf("failed to load existing jobs: %w", err)
	}

	go q.reapRoutine(q.schedulerCtx)

	slog.Info("job queue started", "max_threads", q.threads)
	return nil
}

// Stop interrupts every copy and waits for the workers to persist their
// offsets. Interrupted jobs stay running in the history store and are
// rescheduled by the next Start.
func (q *queue) Stop() error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	q.schedulerCancel()
	active := len(q.activeJobs)
	q.mu.Unlock()

	slog.Info("stopping job queue", "active_jobs", active)

	done := make(chan struct{})
	go func() {
		q.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("all jobs interrupted, queue stopped")
	case <-time.After(q.config.GetDaemon().ShutdownTimeout):
		slog.Warn("timeout waiting for jobs to stop", "active_jobs", q.activeCount())
	}
	return nil
}

func (q *queue) Create(source, destination string) (*models.Job, error) {
	if !q.isRunning() {
		return nil, ErrNotRunning
	}

	decision := q.admission.CanStartCopy(source, destination)
	if !decision.Allowed {
		slog.Info("copy rejected", "source", source, "destination", destination, "reason", decision.Reason)
		return nil, &AdmissionError{Reason: decision.Reason, Details: decision.Details}
	}

	job := models.NewJob(q.newID(), decision.Source, decision.Destination)
	job.SetTotal(decision.SourceSize)

	if err := q.repo.CreateJob(job.Clone()); err != nil {
		return nil, fmt.Errorf("failed to create job in database: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.running {
		// Stopped while the row was being written. Left behind, the row
		// would be recovered and run by the next start.
		if err := q.repo.DeleteJob(job.ID); err != nil {
			slog.Error("failed to remove job created during shutdown", "job_id", job.ID, "error", err)
		}
		return nil, ErrNotRunning
	}
	q.track(job)
	q.scheduleJob(job)

	slog.Info("job created", "job_id", job.ID, "source", job.Source, "destination", job.Destination)
	return job.Clone(), nil
}

func (q *queue) Suspend(id string) error {
	q.mu.Lock()
	job, err := q.lookup(id)
	if err == nil {
		err = job.Suspend()
	}
	if err == nil {
		q.interrupt(id)
	}
	q.mu.Unlock()

	if err != nil {
		return err
	}
	q.persist(job)
	slog.Info("job suspended", "job_id", id, "bytes", job.Offset())
	return nil
}

// Resume restarts a suspended job from its byte offset. The new worker waits
// for the one it replaces to exit before copying.
func (q *queue) Resume(id string) error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return ErrNotRunning
	}
	job, err := q.lookup(id)
	if err == nil {
		err = job.Resume()
	}
	if err == nil {
		q.scheduleJob(job)
	}
	q.mu.Unlock()

	if err != nil {
		return err
	}
	q.persist(job)
	slog.Info("job resumed", "job_id", id, "bytes", job.Offset())
	return nil
}

func (q *queue) Cancel(id string) error {
	q.mu.Lock()
	job, err := q.lookup(id)
	if err == nil {
		err = job.Cancel()
	}
	if err == nil {
		q.interrupt(id)
	}
	q.mu.Unlock()

	if err != nil {
		return err
	}
	q.persist(job)
	slog.Info("job cancelled", "job_id", id)
	return nil
}

// GetJob returns a tracked job, falling back to the history store for jobs
// that have been reaped.
func (q *queue) GetJob(id string) (*models.Job, error) {
	q.mu.RLock()
	job, ok := q.jobs[id]
	q.mu.RUnlock()
	if ok {
		return job.Clone(), nil
	}

	stored, err := q.repo.GetJob(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return nil, err
	}
	return stored, nil
}

func (q *queue) Snapshot(id string) (protocol.JobSummary, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	job, err := q.lookup(id)
	if err != nil {
		return protocol.JobSummary{}, err
	}
	return job.Snapshot(), nil
}

// List returns every tracked job in creation order.
func (q *queue) List() []protocol.JobSummary {
	q.mu.RLock()
	defer q.mu.RUnlock()

	summaries := make([]protocol.JobSummary, 0, len(q.order))
	for _, id := range q.order {
		summaries = append(summaries, q.jobs[id].Snapshot())
	}
	return summaries
}

func (q *queue) GetSummary() (*models.JobSummary, error) {
	return q.repo.GetJobSummary()
}

func (q *queue) isRunning() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.running
}

func (q *queue) activeCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.activeJobs)
}

// lookup requires q.mu.
func (q *queue) lookup(id string) (*models.Job, error) {
	job, ok := q.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return job, nil
}

// track requires q.mu.
func (q *queue) track(job *models.Job) {
	if _, ok := q.jobs[job.ID]; !ok {
		q.order = append(q.order, job.ID)
	}
	q.jobs[job.ID] = job
}

// interrupt requires q.mu.
func (q *queue) interrupt(id string) {
	if w, ok := q.activeJobs[id]; ok {
		w.cancel()
	}
}

func (q *queue) persist(job *models.Job) {
	if err := q.repo.UpdateJob(job.Clone()); err != nil {
		slog.Error("failed to persist job", "job_id", job.ID, "error", err)
	}
}

func (q *queue) loadExistingJobs() error {
	jobs, err := q.repo.GetJobs(models.JobFilter{
		Status:    []models.JobStatus{models.JobStatusRunning, models.JobStatusSuspended},
		SortBy:    "created_at",
		SortOrder: "ASC",
	})
	if err != nil {
		return err
	}

	for _, job := range jobs {
		q.track(job)
		if job.State() == models.JobStatusRunning {
			q.scheduleJob(job)
			slog.Info("recovered interrupted job", "job_id", job.ID, "bytes", job.Offset())
		}
	}

	slog.Info("loaded existing jobs", "count", len(jobs))
	return nil
}

// scheduleJob requires q.mu.
func (q *queue) scheduleJob(job *models.Job) {
	prev := q.activeJobs[job.ID]

	ctx, cancel := context.WithCancel(q.schedulerCtx)
	w := &worker{cancel: cancel, done: make(chan struct{})}
	q.activeJobs[job.ID] = w

	q.workers.Add(1)
	q.pending = append(q.pending, &run{ctx: ctx, job: job, w: w, prev: prev})
	q.dispatch()

	slog.Debug("job scheduled", "job_id", job.ID, "pending", len(q.pending))
}

// dispatch starts pending runs while copy threads are free. It requires q.mu.
func (q *queue) dispatch() {
	for q.busy < q.threads && len(q.pending) > 0 {
		r := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.busy++
		go q.executeJob(r)
	}
}

func (q *queue) executeJob(r *run) {
	ctx, job, w := r.ctx, r.job, r.w
	defer q.workers.Done()
	defer close(w.done)
	defer w.cancel()

	// A resumed job's previous run was dispatched first, so it already holds
	// a thread or has released one.
	if r.prev != nil {
		<-r.prev.done
	}

	var err error
	if ctx.Err() == nil {
		err = q.runCopy(ctx, job)
	}

	q.mu.Lock()
	q.busy--
	if q.activeJobs[job.ID] == w {
		delete(q.activeJobs, job.ID)
	}
	q.dispatch()
	q.mu.Unlock()

	if ctx.Err() != nil {
		// Suspended, cancelled or shutting down: the state was set by
		// whoever cancelled, only the offset is new.
		q.persist(job)
		return
	}

	if err != nil {
		if job.Fail(err.Error()) == nil {
			slog.Error("job failed", "job_id", job.ID, "error", err)
		}
	} else if job.Complete() == nil {
		slog.Info("job completed", "job_id", job.ID, "writes", job.Clone().Writes)
	}
	q.persist(job)
}

func (q *queue) runCopy(ctx context.Context, job *models.Job) error {
	if q.tracker != nil {
		q.tracker.Register(job)
		defer q.tracker.Unregister(job.ID)
	}
	return q.executor.Execute(ctx, job)
}

func (q *queue) reapRoutine(ctx context.Context) {
	ticker := time.NewTicker(q.config.GetJobs().ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			q.reap(now)
		}
	}
}

// reap forgets terminal jobs that finished reap_after ago and purges history
// older than history_retention.
func (q *queue) reap(now time.Time) {
	cfg := q.config.GetJobs()
	cutoff := now.Add(-cfg.ReapAfter)

	q.mu.Lock()
	kept := q.order[:0]
	var reaped int
	for _, id := range q.order {
		job := q.jobs[id].Clone()
		if job.Status.IsTerminal() && job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			delete(q.jobs, id)
			reaped++
			continue
		}
		kept = append(kept, id)
	}
	q.order = kept
	q.mu.Unlock()

	if reaped > 0 {
		slog.Info("reaped finished jobs", "count", reaped)
	}

	if _, err := q.repo.CleanupOldJobs(now.Add(-cfg.HistoryRetention)); err != nil {
		slog.Error("failed to cleanup old jobs", "error", err)
	}
}
