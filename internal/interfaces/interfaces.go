package interfaces

import (
	"context"
	"time"

	"copyd/internal/models"
	"copyd/internal/protocol"
)

// JobQueue owns tracked jobs, enforces their lifecycle and schedules copies
type JobQueue interface {
	Start(ctx context.Context) error
	Stop() error
	Create(source, destination string) (*models.Job, error)
	Suspend(id string) error
	Resume(id string) error
	Cancel(id string) error
	GetJob(id string) (*models.Job, error)
	Snapshot(id string) (protocol.JobSummary, error)
	List() []protocol.JobSummary
	GetSummary() (*models.JobSummary, error)
	SetJobExecutor(executor JobExecutor)
}

// JobExecutor performs the copy for one job, reporting progress on the job itself.
// It returns ctx.Err() when interrupted by cancellation.
type JobExecutor interface {
	Execute(ctx context.Context, job *models.Job) error
}

// Admission decides whether a copy may be created
type Admission interface {
	CanStartCopy(source, destination string) GateDecision
}

// GateDecision represents whether an operation can proceed
type GateDecision struct {
	Allowed     bool                   `json:"allowed"`
	Reason      string                 `json:"reason"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Source      string                 `json:"source,omitempty"`
	Destination string                 `json:"destination,omitempty"`
	SourceSize  int64                  `json:"source_size,omitempty"`
}

// DiskMonitor reports free space for a path
type DiskMonitor interface {
	DiskStatus(path string) (DiskStatus, error)
}

// JobHistory reads persisted jobs, including ones no longer tracked
type JobHistory interface {
	GetJobs(filter models.JobFilter) ([]*models.Job, error)
}

// DiskStatus reports space on the filesystem holding a path
type DiskStatus struct {
	Path       string  `json:"path"`
	FreeBytes  int64   `json:"free_bytes"`
	TotalBytes int64   `json:"total_bytes"`
	UsagePct   float64 `json:"usage_percent"`
}

// JobRepository provides database access for job history
type JobRepository interface {
	CreateJob(job *models.Job) error
	GetJob(id string) (*models.Job, error)
	GetJobs(filter models.JobFilter) ([]*models.Job, error)
	UpdateJob(job *models.Job) error
	DeleteJob(id string) error
	GetJobSummary() (*models.JobSummary, error)
	CleanupOldJobs(finishedBefore time.Time) (int, error)
}
