package models

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"copyd/internal/protocol"
)

type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusSuspended JobStatus = "suspended"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// JobStatuses lists every status in lifecycle order.
var JobStatuses = []JobStatus{
	JobStatusRunning,
	JobStatusSuspended,
	JobStatusCancelled,
	JobStatusCompleted,
	JobStatusFailed,
}

func (s JobStatus) Valid() bool {
	for _, status := range JobStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCancelled || s == JobStatusCompleted || s == JobStatusFailed
}

var ErrInvalidTransition = errors.New("invalid transition")

// UnknownTotal marks a job whose source has not been sized yet.
const UnknownTotal int64 = -1

// Job is a tracked copy job. Once a job is shared between goroutines its
// fields must only be touched through its methods; Clone hands out a copy that
// is safe to read freely.
type Job struct {
	mu sync.RWMutex

	ID           string     `json:"id" db:"id"`
	Source       string     `json:"source" db:"source"`
	Destination  string     `json:"destination" db:"destination"`
	Status       JobStatus  `json:"status" db:"status"`
	Writes       uint64     `json:"writes" db:"writes"`
	Bytes        int64      `json:"bytes" db:"bytes"`
	TotalBytes   int64      `json:"total_bytes" db:"total_bytes"`
	ErrorMessage string     `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty" db:"finished_at"`
}

// NewJob returns a running job with an unknown total size.
func NewJob(id, source, destination string) *Job {
	now := time.Now()
	return &Job{
		ID:          id,
		Source:      source,
		Destination: destination,
		Status:      JobStatusRunning,
		TotalBytes:  UnknownTotal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns an unshared copy of the job's current state.
func (j *Job) Clone() *Job {
	j.mu.RLock()
	defer j.mu.RUnlock()

	c := &Job{
		ID:           j.ID,
		Source:       j.Source,
		Destination:  j.Destination,
		Status:       j.Status,
		Writes:       j.Writes,
		Bytes:        j.Bytes,
		TotalBytes:   j.TotalBytes,
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
	if j.FinishedAt != nil {
		finished := *j.FinishedAt
		c.FinishedAt = &finished
	}
	return c
}

func (j *Job) State() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

func (j *Job) IsTerminal() bool {
	return j.State().IsTerminal()
}

// Offset is the number of source bytes already copied.
func (j *Job) Offset() int64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Bytes
}

// Percentage returns completion in [0, 1], or nil while the total is unknown.
func (j *Job) Percentage() *float64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.percentage()
}

func (j *Job) percentage() *float64 {
	var p float64
	switch {
	case j.Status == JobStatusCompleted:
		p = 1
	case j.TotalBytes == UnknownTotal:
		return nil
	case j.TotalBytes == 0:
		p = 0
	default:
		p = float64(j.Bytes) / float64(j.TotalBytes)
		if p > 1 {
			p = 1
		}
	}
	return &p
}

// Snapshot returns the wire view of the job, taken under a single read lock.
func (j *Job) Snapshot() protocol.JobSummary {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return protocol.JobSummary{
		ID:          j.ID,
		Source:      j.Source,
		Destination: j.Destination,
		Status:      string(j.Status),
		Writes:      j.Writes,
		Percentage:  j.percentage(),
	}
}

// SetTotal records the size of the source once it is known.
func (j *Job) SetTotal(total int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.TotalBytes = total
	j.UpdatedAt = time.Now()
}

// RecordWrite accounts for one successful chunk write of n bytes.
func (j *Job) RecordWrite(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Writes++
	j.Bytes += int64(n)
	j.UpdatedAt = time.Now()
}

func (j *Job) Suspend() error {
	return j.transition("suspend", JobStatusSuspended, JobStatusRunning)
}

func (j *Job) Resume() error {
	return j.transition("resume", JobStatusRunning, JobStatusSuspended)
}

func (j *Job) Cancel() error {
	return j.transition("cancel", JobStatusCancelled, JobStatusRunning, JobStatusSuspended)
}

// Complete marks a running job as finished. Jobs that were suspended or
// cancelled while the copy was in flight are left as they are.
func (j *Job) Complete() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.transitionLocked("complete", JobStatusCompleted, JobStatusRunning); err != nil {
		return err
	}
	if j.TotalBytes >= 0 {
		j.Bytes = j.TotalBytes
	}
	return nil
}

func (j *Job) Fail(message string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.transitionLocked("fail", JobStatusFailed, JobStatusRunning); err != nil {
		return err
	}
	j.ErrorMessage = message
	return nil
}

func (j *Job) transition(action string, to JobStatus, from ...JobStatus) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.transitionLocked(action, to, from...)
}

func (j *Job) transitionLocked(action string, to JobStatus, from ...JobStatus) error {
	allowed := false
	for _, status := range from {
		if j.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: cannot %s job %s while it is %s", ErrInvalidTransition, action, j.ID, j.Status)
	}

	now := time.Now()
	j.Status = to
	j.UpdatedAt = now
	if to.IsTerminal() {
		j.FinishedAt = &now
	}
	return nil
}

// JobFilter represents filtering options for job queries
type JobFilter struct {
	Status    []JobStatus `json:"status,omitempty"`
	Limit     int         `json:"limit,omitempty"`
	Offset    int         `json:"offset,omitempty"`
	SortBy    string      `json:"sort_by,omitempty"`
	SortOrder string      `json:"sort_order,omitempty"`
}

// JobSummary represents aggregated job statistics
type JobSummary struct {
	TotalJobs     int `json:"total_jobs"`
	RunningJobs   int `json:"running_jobs"`
	SuspendedJobs int `json:"suspended_jobs"`
	CancelledJobs int `json:"cancelled_jobs"`
	CompletedJobs int `json:"completed_jobs"`
	FailedJobs    int `json:"failed_jobs"`
}

// Add counts one job with the given status.
func (s *JobSummary) Add(status JobStatus, n int) {
	s.TotalJobs += n
	switch status {
	case JobStatusRunning:
		s.RunningJobs += n
	case JobStatusSuspended:
		s.SuspendedJobs += n
	case JobStatusCancelled:
		s.CancelledJobs += n
	case JobStatusCompleted:
		s.CompletedJobs += n
	case JobStatusFailed:
		s.FailedJobs += n
	}
}
