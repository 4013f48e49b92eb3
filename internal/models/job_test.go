package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob(t *testing.T) {
	job := NewJob("abc", "/src", "/dst")

	assert.Equal(t, JobStatusRunning, job.Status)
	assert.Equal(t, UnknownTotal, job.TotalBytes)
	assert.Nil(t, job.Percentage())
	assert.Nil(t, job.FinishedAt)
	assert.False(t, job.CreatedAt.IsZero())
}

func TestJobStatus(t *testing.T) {
	for _, status := range JobStatuses {
		assert.True(t, status.Valid(), status)
	}
	assert.False(t, JobStatus("queued").Valid())

	assert.False(t, JobStatusRunning.IsTerminal())
	assert.False(t, JobStatusSuspended.IsTerminal())
	assert.True(t, JobStatusCancelled.IsTerminal())
	assert.True(t, JobStatusCompleted.IsTerminal())
	assert.True(t, JobStatusFailed.IsTerminal())
}

func TestJob_Transitions(t *testing.T) {
	type step func(*Job) error

	suspend := func(j *Job) error { return j.Suspend() }
	resume := func(j *Job) error { return j.Resume() }
	cancel := func(j *Job) error { return j.Cancel() }
	complete := func(j *Job) error { return j.Complete() }
	fail := func(j *Job) error { return j.Fail("disk full") }

	tests := []struct {
		name    string
		from    JobStatus
		step    step
		want    JobStatus
		wantErr bool
	}{
		{"suspend running", JobStatusRunning, suspend, JobStatusSuspended, false},
		{"suspend suspended", JobStatusSuspended, suspend, JobStatusSuspended, true},
		{"suspend cancelled", JobStatusCancelled, suspend, JobStatusCancelled, true},
		{"suspend completed", JobStatusCompleted, suspend, JobStatusCompleted, true},
		{"resume suspended", JobStatusSuspended, resume, JobStatusRunning, false},
		{"resume running", JobStatusRunning, resume, JobStatusRunning, true},
		{"resume failed", JobStatusFailed, resume, JobStatusFailed, true},
		{"cancel running", JobStatusRunning, cancel, JobStatusCancelled, false},
		{"cancel suspended", JobStatusSuspended, cancel, JobStatusCancelled, false},
		{"cancel cancelled", JobStatusCancelled, cancel, JobStatusCancelled, true},
		{"cancel completed", JobStatusCompleted, cancel, JobStatusCompleted, true},
		{"complete running", JobStatusRunning, complete, JobStatusCompleted, false},
		{"complete suspended", JobStatusSuspended, complete, JobStatusSuspended, true},
		{"complete cancelled", JobStatusCancelled, complete, JobStatusCancelled, true},
		{"fail running", JobStatusRunning, fail, JobStatusFailed, false},
		{"fail suspended", JobStatusSuspended, fail, JobStatusSuspended, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewJob("j1", "/src", "/dst")
			job.Status = tt.from

			err := tt.step(job)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTransition)
				assert.Contains(t, err.Error(), "j1")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, job.State())
		})
	}
}

func TestJob_TerminalSetsFinishedAt(t *testing.T) {
	job := NewJob("j1", "/src", "/dst")
	require.NoError(t, job.Suspend())
	assert.Nil(t, job.FinishedAt)

	require.NoError(t, job.Cancel())
	require.NotNil(t, job.FinishedAt)
	assert.True(t, job.IsTerminal())
}

func TestJob_Progress(t *testing.T) {
	job := NewJob("j1", "/src", "/dst")
	job.SetTotal(400)

	job.RecordWrite(100)
	job.RecordWrite(100)

	snap := job.Snapshot()
	assert.Equal(t, uint64(2), snap.Writes)
	require.NotNil(t, snap.Percentage)
	assert.InDelta(t, 0.5, *snap.Percentage, 1e-9)
	assert.Equal(t, int64(200), job.Offset())

	require.NoError(t, job.Complete())
	snap = job.Snapshot()
	assert.Equal(t, "completed", snap.Status)
	assert.InDelta(t, 1.0, *snap.Percentage, 1e-9)
	assert.Equal(t, int64(400), job.Offset())
}

func TestJob_PercentageEmptySource(t *testing.T) {
	job := NewJob("j1", "/src", "/dst")
	job.SetTotal(0)
	require.NotNil(t, job.Percentage())
	assert.Zero(t, *job.Percentage())

	require.NoError(t, job.Complete())
	assert.InDelta(t, 1.0, *job.Percentage(), 1e-9)
}

func TestJob_FailKeepsMessage(t *testing.T) {
	job := NewJob("j1", "/src", "/dst")
	require.NoError(t, job.Fail("permission denied"))

	clone := job.Clone()
	assert.Equal(t, JobStatusFailed, clone.Status)
	assert.Equal(t, "permission denied", clone.ErrorMessage)
	require.NotNil(t, clone.FinishedAt)
	assert.NotSame(t, job.FinishedAt, clone.FinishedAt)
}

func TestJob_ConcurrentTransitions(t *testing.T) {
	job := NewJob("j1", "/src", "/dst")
	job.SetTotal(1 << 20)

	var wg sync.WaitGroup
	var succeeded sync.Map
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			job.RecordWrite(10)
			_ = job.Snapshot()
		}()
		go func() {
			defer wg.Done()
			if err := job.Cancel(); err == nil {
				succeeded.Store(i, true)
			}
		}()
	}
	wg.Wait()

	count := 0
	succeeded.Range(func(_, _ any) bool {
		count++
		return true
	})
	assert.Equal(t, 1, count)
	assert.Equal(t, uint64(20), job.Snapshot().Writes)
}

func TestJobSummary_Add(t *testing.T) {
	var s JobSummary
	s.Add(JobStatusRunning, 2)
	s.Add(JobStatusSuspended, 1)
	s.Add(JobStatusCompleted, 3)
	s.Add(JobStatusFailed, 1)

	assert.Equal(t, 7, s.TotalJobs)
	assert.Equal(t, 2, s.RunningJobs)
	assert.Equal(t, 1, s.SuspendedJobs)
	assert.Equal(t, 3, s.CompletedJobs)
	assert.Equal(t, 1, s.FailedJobs)
	assert.Zero(t, s.CancelledJobs)
}
