package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"copyd/internal/config"
	"copyd/internal/executor"
	"copyd/internal/interfaces"
	"copyd/internal/mocks"
	"copyd/internal/models"
	"copyd/internal/repository"
	"copyd/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second
const tick = 5 * time.Millisecond

func testConfig(threads int) *config.Config {
	cfg := config.Default()
	cfg.Copy.MaxThreads = threads
	cfg.Daemon.ShutdownTimeout = 5 * time.Second
	return cfg
}

func allowAll(t *testing.T) *mocks.MockAdmission {
	admission := mocks.NewMockAdmission(t)
	admission.EXPECT().
		CanStartCopy(mock.Anything, mock.Anything).
		RunAndReturn(func(source, destination string) interfaces.GateDecision {
			return interfaces.GateDecision{Allowed: true, Source: source, Destination: destination, SourceSize: 1000}
		}).
		Maybe()
	return admission
}

// blockingExecutor reports each started copy on started and runs until its
// context is cancelled.
func blockingExecutor(t *testing.T, started chan<- string) *mocks.MockJobExecutor {
	executor := mocks.NewMockJobExecutor(t)
	executor.EXPECT().
		Execute(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, job *models.Job) error {
			job.RecordWrite(100)
			started <- job.ID
			<-ctx.Done()
			return ctx.Err()
		}).
		Maybe()
	return executor
}

func startQueue(t *testing.T, repo interfaces.JobRepository, cfg *config.Config, admission interfaces.Admission, executor interfaces.JobExecutor) *queue {
	t.Helper()
	q := New(repo, cfg, admission, nil)
	q.SetJobExecutor(executor)
	require.NoError(t, q.Start(context.Background()))
	t.Cleanup(func() { _ = q.Stop() })
	return q.(*queue)
}

func waitStarted(t *testing.T, started <-chan string) string {
	t.Helper()
	select {
	case id := <-started:
		return id
	case <-time.After(waitFor):
		t.Fatal("copy did not start")
		return ""
	}
}

func waitStatus(t *testing.T, q *queue, id string, status models.JobStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		summary, err := q.Snapshot(id)
		return err == nil && summary.Status == string(status)
	}, waitFor, tick)
}

// ========================================
// Constructor and lifecycle
// ========================================

func TestNew(t *testing.T) {
	repo := testutil.SetupTestDB(t)
	cfg := testConfig(3)
	admission := mocks.NewMockAdmission(t)

	q := New(repo, cfg, admission, nil)

	queue := q.(*queue)
	assert.Equal(t, cfg, queue.config)
	assert.Equal(t, admission, queue.admission)
	assert.NotNil(t, queue.jobs)
	assert.NotNil(t, queue.activeJobs)
	assert.Equal(t, 3, queue.threads)
	assert.False(t, queue.running)
}

func TestNew_AtLeastOneThread(t *testing.T) {
	q := New(testutil.SetupTestDB(t), testConfig(0), mocks.NewMockAdmission(t), nil)
	assert.Equal(t, 1, q.(*queue).threads)
}

func TestStart_WithoutExecutor(t *testing.T) {
	q := New(testutil.SetupTestDB(t), testConfig(1), mocks.NewMockAdmission(t), nil)

	err := q.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job executor not set")
}

func TestStart_AlreadyRunning(t *testing.T) {
	q := startQueue(t, testutil.SetupTestDB(t), testConfig(1), mocks.NewMockAdmission(t), mocks.NewMockJobExecutor(t))

	err := q.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestStop_NotRunning(t *testing.T) {
	q := New(testutil.SetupTestDB(t), testConfig(1), mocks.NewMockAdmission(t), nil)
	assert.NoError(t, q.Stop())
}

func TestCreate_NotRunning(t *testing.T) {
	q := New(testutil.SetupTestDB(t), testConfig(1), mocks.NewMockAdmission(t), nil)

	_, err := q.Create("/src", "/dst")
	assert.ErrorIs(t, err, ErrNotRunning)
}

// ========================================
// Create
// ========================================

func TestCreate_RunsToCompletion(t *testing.T) {
	repo := testutil.SetupTestDB(t)
	executor := mocks.NewMockJobExecutor(t)
	executor.EXPECT().
		Execute(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, job *models.Job) error {
			job.RecordWrite(1000)
			return nil
		}).
		Once()

	q := startQueue(t, repo, testConfig(2), allowAll(t), executor)

	job, err := q.Create("/data/src", "/data/dst")
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.JobStatusRunning, job.Status)

	waitStatus(t, q, job.ID, models.JobStatusCompleted)

	summary, err := q.Snapshot(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "/data/src", summary.Source)
	assert.Equal(t, uint64(1), summary.Writes)
	require.NotNil(t, summary.Percentage)
	assert.Equal(t, 1.0, *summary.Percentage)

	require.Eventually(t, func() bool {
		stored, err := repo.GetJob(job.ID)
		return err == nil && stored.Status == models.JobStatusCompleted && stored.FinishedAt != nil
	}, waitFor, tick)
}

func TestCreate_UniqueIDs(t *testing.T) {
	started := make(chan string, 10)
	q := startQueue(t, testutil.SetupTestDB(t), testConfig(4), allowAll(t), blockingExecutor(t, started))

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		job, err := q.Create("/src", "/dst")
		require.NoError(t, err)
		require.NotEmpty(t, job.ID)
		assert.False(t, seen[job.ID], "duplicate id %s", job.ID)
		seen[job.ID] = true
	}

	jobs := q.List()
	require.Len(t, jobs, 5)
	for _, job := range jobs {
		assert.True(t, seen[job.ID])
	}
}

func TestCreate_Rejected(t *testing.T) {
	admission := mocks.NewMockAdmission(t)
	admission.EXPECT().
		CanStartCopy("/missing", "/dst").
		Return(interfaces.GateDecision{Allowed: false, Reason: "Source path does not exist"}).
		Once()

	q := startQueue(t, testutil.SetupTestDB(t), testConfig(1), admission, mocks.NewMockJobExecutor(t))

	job, err := q.Create("/missing", "/dst")
	assert.Nil(t, job)

	var rejected *AdmissionError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Source path does not exist", rejected.Reason)
	assert.Empty(t, q.List())
}

func TestCreate_RepositoryError(t *testing.T) {
	repo := mocks.NewMockJobRepository(t)
	repo.EXPECT().
		GetJobs(mock.Anything).
		Return(nil, nil).
		Once()
	repo.EXPECT().
		CreateJob(mock.AnythingOfType("*models.Job")).
		Return(errors.New("disk full")).
		Once()

	q := startQueue(t, repo, testConfig(1), allowAll(t), mocks.NewMockJobExecutor(t))

	_, err := q.Create("/src", "/dst")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create job in database")
	assert.Empty(t, q.List())
}

func TestCreate_StoppedWhileWriting(t *testing.T) {
	var q *queue
	var createdID string

	repo := mocks.NewMockJobRepository(t)
	repo.EXPECT().
		GetJobs(mock.Anything).
		Return(nil, nil).
		Once()
	repo.EXPECT().
		CreateJob(mock.AnythingOfType("*models.Job")).
		RunAndReturn(func(job *models.Job) error {
			createdID = job.ID
			require.NoError(t, q.Stop())
			return nil
		}).
		Once()
	repo.EXPECT().
		DeleteJob(mock.MatchedBy(func(id string) bool { return id == createdID })).
		Return(nil).
		Once()

	q = startQueue(t, repo, testConfig(1), allowAll(t), mocks.NewMockJobExecutor(t))

	job, err := q.Create("/src", "/dst")
	assert.Nil(t, job)
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.Empty(t, q.List())
}

func TestCreate_ExecutorFailure(t *testing.T) {
	repo := testutil.SetupTestDB(t)
	executor := mocks.NewMockJobExecutor(t)
	executor.EXPECT().
		Execute(mock.Anything, mock.Anything).
		Return(errors.New("failed to write destination: no space left on device")).
		Once()

	q := startQueue(t, repo, testConfig(1), allowAll(t), executor)

	job, err := q.Create("/src", "/dst")
	require.NoError(t, err)

	waitStatus(t, q, job.ID, models.JobStatusFailed)

	require.Eventually(t, func() bool {
		stored, err := repo.GetJob(job.ID)
		return err == nil && stored.Status == models.JobStatusFailed
	}, waitFor, tick)

	stored, err := q.GetJob(job.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.ErrorMessage, "no space left on device")
}

// ========================================
// Job control
// ========================================

func TestSuspendResumeCancel(t *testing.T) {
	repo := testutil.SetupTestDB(t)
	started := make(chan string, 10)
	q := startQueue(t, repo, testConfig(1), allowAll(t), blockingExecutor(t, started))

	job, err := q.Create("/src", "/dst")
	require.NoError(t, err)
	assert.Equal(t, job.ID, waitStarted(t, started))

	require.NoError(t, q.Suspend(job.ID))
	summary, err := q.Snapshot(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "suspended", summary.Status)

	stored, err := repo.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusSuspended, stored.Status)

	err = q.Suspend(job.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	require.NoError(t, q.Resume(job.ID))
	assert.Equal(t, job.ID, waitStarted(t, started))

	summary, err = q.Snapshot(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "running", summary.Status)
	// One write per execution of the blocking executor.
	assert.Equal(t, uint64(2), summary.Writes)

	err = q.Resume(job.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	require.NoError(t, q.Cancel(job.ID))
	summary, err = q.Snapshot(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", summary.Status)

	err = q.Cancel(job.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	require.Eventually(t, func() bool { return q.activeCount() == 0 }, waitFor, tick)

	// The interrupted worker must not overwrite the cancellation.
	summary, err = q.Snapshot(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", summary.Status)
}

func TestCancel_Suspended(t *testing.T) {
	started := make(chan string, 10)
	q := startQueue(t, testutil.SetupTestDB(t), testConfig(1), allowAll(t), blockingExecutor(t, started))

	job, err := q.Create("/src", "/dst")
	require.NoError(t, err)
	waitStarted(t, started)

	require.NoError(t, q.Suspend(job.ID))
	require.NoError(t, q.Cancel(job.ID))

	err = q.Resume(job.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestUnknownJob(t *testing.T) {
	q := startQueue(t, testutil.SetupTestDB(t), testConfig(1), mocks.NewMockAdmission(t), mocks.NewMockJobExecutor(t))

	assert.ErrorIs(t, q.Suspend("nope"), ErrJobNotFound)
	assert.ErrorIs(t, q.Resume("nope"), ErrJobNotFound)
	assert.ErrorIs(t, q.Cancel("nope"), ErrJobNotFound)

	_, err := q.Snapshot("nope")
	assert.ErrorIs(t, err, ErrJobNotFound)

	_, err = q.GetJob("nope")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestSnapshot_IdleJobIsStable(t *testing.T) {
	executor := mocks.NewMockJobExecutor(t)
	executor.EXPECT().Execute(mock.Anything, mock.Anything).Return(nil).Once()

	q := startQueue(t, testutil.SetupTestDB(t), testConfig(1), allowAll(t), executor)

	job, err := q.Create("/src", "/dst")
	require.NoError(t, err)
	waitStatus(t, q, job.ID, models.JobStatusCompleted)

	first, err := q.Snapshot(job.ID)
	require.NoError(t, err)
	second, err := q.Snapshot(job.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMaxThreads(t *testing.T) {
	started := make(chan string, 10)
	q := startQueue(t, testutil.SetupTestDB(t), testConfig(1), allowAll(t), blockingExecutor(t, started))

	first, err := q.Create("/src/1", "/dst/1")
	require.NoError(t, err)
	second, err := q.Create("/src/2", "/dst/2")
	require.NoError(t, err)

	assert.Equal(t, first.ID, waitStarted(t, started))
	select {
	case id := <-started:
		t.Fatalf("job %s started while the only slot was taken", id)
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, q.Cancel(first.ID))
	assert.Equal(t, second.ID, waitStarted(t, started))
}

func TestMaxThreads_CreationOrder(t *testing.T) {
	started := make(chan string, 10)
	q := startQueue(t, testutil.SetupTestDB(t), testConfig(2), allowAll(t), blockingExecutor(t, started))

	var ids []string
	for i := 0; i < 5; i++ {
		job, err := q.Create("/src", "/dst")
		require.NoError(t, err)
		ids = append(ids, job.ID)
	}

	running := map[string]bool{
		waitStarted(t, started): true,
		waitStarted(t, started): true,
	}
	assert.Equal(t, map[string]bool{ids[0]: true, ids[1]: true}, running)

	for i := 2; i < len(ids); i++ {
		require.NoError(t, q.Cancel(ids[i-2]))
		assert.Equal(t, ids[i], waitStarted(t, started))
	}
}

func TestResume_WaitsBehindQueuedJobs(t *testing.T) {
	started := make(chan string, 10)
	q := startQueue(t, testutil.SetupTestDB(t), testConfig(1), allowAll(t), blockingExecutor(t, started))

	first, err := q.Create("/src/1", "/dst/1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, waitStarted(t, started))
	second, err := q.Create("/src/2", "/dst/2")
	require.NoError(t, err)

	require.NoError(t, q.Suspend(first.ID))
	assert.Equal(t, second.ID, waitStarted(t, started))

	require.NoError(t, q.Resume(first.ID))
	select {
	case id := <-started:
		t.Fatalf("job %s started while the only thread was taken", id)
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, q.Cancel(second.ID))
	assert.Equal(t, first.ID, waitStarted(t, started))
}

// ========================================
// Reaping
// ========================================

func TestReap(t *testing.T) {
	repo := testutil.SetupTestDB(t)
	executor := mocks.NewMockJobExecutor(t)
	executor.EXPECT().Execute(mock.Anything, mock.Anything).Return(nil).Once()

	cfg := testConfig(1)
	cfg.Jobs.ReapAfter = time.Minute
	cfg.Jobs.HistoryRetention = time.Hour
	q := startQueue(t, repo, cfg, allowAll(t), executor)

	job, err := q.Create("/src", "/dst")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		stored, err := repo.GetJob(job.ID)
		return err == nil && stored.Status == models.JobStatusCompleted
	}, waitFor, tick)

	q.reap(time.Now())
	assert.Len(t, q.List(), 1, "finished too recently to reap")

	q.reap(time.Now().Add(2 * time.Minute))
	assert.Empty(t, q.List())

	_, err = q.Snapshot(job.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)

	// Still in history until retention passes.
	stored, err := q.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, stored.Status)

	q.reap(time.Now().Add(2 * time.Hour))
	_, err = repo.GetJob(job.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReap_KeepsActiveJobs(t *testing.T) {
	started := make(chan string, 10)
	q := startQueue(t, testutil.SetupTestDB(t), testConfig(1), allowAll(t), blockingExecutor(t, started))

	job, err := q.Create("/src", "/dst")
	require.NoError(t, err)
	waitStarted(t, started)
	require.NoError(t, q.Suspend(job.ID))

	q.reap(time.Now().Add(24 * time.Hour))
	require.Len(t, q.List(), 1)
	assert.Equal(t, job.ID, q.List()[0].ID)
}

// ========================================
// Recovery
// ========================================

// gatedStore holds each progress write until release is closed.
type gatedStore struct {
	*repository.Repository
	entered chan struct{}
	release chan struct{}
}

func (s *gatedStore) UpdateProgress(job *models.Job) error {
	s.entered <- struct{}{}
	<-s.release
	return s.Repository.UpdateProgress(job)
}

func TestControl_SurvivesInFlightProgressWrite(t *testing.T) {
	tests := []struct {
		name      string
		action    func(q *queue, id string) error
		want      models.JobStatus
		recovered bool
	}{
		{
			name:   "cancel",
			action: func(q *queue, id string) error { return q.Cancel(id) },
			want:   models.JobStatusCancelled,
		},
		{
			name:      "suspend",
			action:    func(q *queue, id string) error { return q.Suspend(id) },
			want:      models.JobStatusSuspended,
			recovered: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.SetupTestDB(t)
			store := &gatedStore{Repository: repo, entered: make(chan struct{}, 1), release: make(chan struct{})}
			progress := executor.NewProgressMonitor(store, func() time.Duration { return time.Hour })

			started := make(chan string, 10)
			q := New(repo, testConfig(1), allowAll(t), progress).(*queue)
			q.SetJobExecutor(blockingExecutor(t, started))
			require.NoError(t, q.Start(context.Background()))
			t.Cleanup(func() { _ = q.Stop() })

			job, err := q.Create("/src", "/dst")
			require.NoError(t, err)
			waitStarted(t, started)

			// Snapshot the running job, then hold its write.
			flushed := make(chan struct{})
			go func() {
				progress.Flush()
				close(flushed)
			}()
			select {
			case <-store.entered:
			case <-time.After(waitFor):
				t.Fatal("progress was not flushed")
			}

			require.NoError(t, tt.action(q, job.ID))
			require.Eventually(t, func() bool { return q.activeCount() == 0 }, waitFor, tick)

			close(store.release)
			<-flushed

			stored, err := repo.GetJob(job.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.Status)
			assert.Equal(t, int64(100), stored.Bytes)

			require.NoError(t, q.Stop())

			restarted := startQueue(t, repo, testConfig(1), mocks.NewMockAdmission(t), mocks.NewMockJobExecutor(t))
			summary, err := restarted.Snapshot(job.ID)
			if !tt.recovered {
				assert.ErrorIs(t, err, ErrJobNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(tt.want), summary.Status)
		})
	}
}

func TestStart_RecoversJobs(t *testing.T) {
	repo := testutil.SetupTestDB(t)

	running := testutil.CreateTestJob(func(j *models.Job) {
		j.ID = "running-job"
		j.Bytes = 512
		j.TotalBytes = 1024
	})
	suspended := testutil.CreateTestJob(func(j *models.Job) {
		j.ID = "suspended-job"
		j.Status = models.JobStatusSuspended
	})
	completed := testutil.CreateTestJob(func(j *models.Job) {
		j.ID = "completed-job"
		j.Status = models.JobStatusCompleted
	})
	for _, job := range []*models.Job{running, suspended, completed} {
		require.NoError(t, repo.CreateJob(job))
	}

	resumedAt := make(chan int64, 1)
	executor := mocks.NewMockJobExecutor(t)
	executor.EXPECT().
		Execute(mock.Anything, mock.MatchedBy(func(job *models.Job) bool { return job.ID == "running-job" })).
		RunAndReturn(func(_ context.Context, job *models.Job) error {
			resumedAt <- job.Offset()
			return nil
		}).
		Once()

	q := startQueue(t, repo, testConfig(1), mocks.NewMockAdmission(t), executor)

	select {
	case offset := <-resumedAt:
		assert.Equal(t, int64(512), offset)
	case <-time.After(waitFor):
		t.Fatal("recovered job was not rescheduled")
	}

	waitStatus(t, q, "running-job", models.JobStatusCompleted)

	summary, err := q.Snapshot("suspended-job")
	require.NoError(t, err)
	assert.Equal(t, "suspended", summary.Status)

	_, err = q.Snapshot("completed-job")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestStop_LeavesJobsResumable(t *testing.T) {
	repo := testutil.SetupTestDB(t)
	started := make(chan string, 10)

	q := New(repo, testConfig(1), allowAll(t), nil)
	q.SetJobExecutor(blockingExecutor(t, started))
	require.NoError(t, q.Start(context.Background()))

	job, err := q.Create("/src", "/dst")
	require.NoError(t, err)
	waitStarted(t, started)

	require.NoError(t, q.Stop())

	stored, err := repo.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusRunning, stored.Status)
	assert.Equal(t, int64(100), stored.Bytes)

	_, err = q.Create("/src", "/dst")
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestGetSummary(t *testing.T) {
	repo := testutil.SetupTestDB(t)
	executor := mocks.NewMockJobExecutor(t)
	executor.EXPECT().Execute(mock.Anything, mock.Anything).Return(nil).Times(2)

	q := startQueue(t, repo, testConfig(2), allowAll(t), executor)

	for i := 0; i < 2; i++ {
		job, err := q.Create("/src", "/dst")
		require.NoError(t, err)
		waitStatus(t, q, job.ID, models.JobStatusCompleted)
	}

	require.Eventually(t, func() bool {
		summary, err := q.GetSummary()
		return err == nil && summary.CompletedJobs == 2
	}, waitFor, tick)
}
