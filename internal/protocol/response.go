package protocol

import "fmt"

// OperationError is a failure reported by the daemon inside a well-formed response.
// It is data, not a transport failure.
type OperationError struct {
	Kind    Kind
	Message string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Kind, e.Message)
}

// Response is a decoded daemon reply. Err returns nil on success and an
// *OperationError when the daemon rejected the operation.
type Response interface {
	Kind() Kind
	Err() error
	isResponse()
}

// JobSummary describes one tracked job.
type JobSummary struct {
	ID          string   `json:"id"`
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Status      string   `json:"status"`
	Writes      uint64   `json:"writes"`
	Percentage  *float64 `json:"percentage,omitempty"`
}

// CreateResponse carries the allocated job id on success.
type CreateResponse struct {
	Failure *OperationError
	JobID   string
}

// SuspendResponse carries the daemon's status message on success.
type SuspendResponse struct {
	Failure *OperationError
	Message string
}

// ResumeResponse carries the daemon's status message on success.
type ResumeResponse struct {
	Failure *OperationError
	Message string
}

// CancelResponse carries the daemon's status message on success.
type CancelResponse struct {
	Failure *OperationError
	Message string
}

// ProgressResponse carries a snapshot of one job on success.
type ProgressResponse struct {
	Failure *OperationError
	Job     JobSummary
}

// ListResponse carries every tracked job, in daemon order.
type ListResponse struct {
	Failure *OperationError
	Jobs    []JobSummary
}

func (CreateResponse) Kind() Kind   { return KindCreate }
func (SuspendResponse) Kind() Kind  { return KindSuspend }
func (ResumeResponse) Kind() Kind   { return KindResume }
func (CancelResponse) Kind() Kind   { return KindCancel }
func (ProgressResponse) Kind() Kind { return KindProgress }
func (ListResponse) Kind() Kind     { return KindList }

func (r CreateResponse) Err() error   { return errOrNil(r.Failure) }
func (r SuspendResponse) Err() error  { return errOrNil(r.Failure) }
func (r ResumeResponse) Err() error   { return errOrNil(r.Failure) }
func (r CancelResponse) Err() error   { return errOrNil(r.Failure) }
func (r ProgressResponse) Err() error { return errOrNil(r.Failure) }
func (r ListResponse) Err() error     { return errOrNil(r.Failure) }

func (CreateResponse) isResponse()   {}
func (SuspendResponse) isResponse()  {}
func (ResumeResponse) isResponse()   {}
func (CancelResponse) isResponse()   {}
func (ProgressResponse) isResponse() {}
func (ListResponse) isResponse()     {}

// errOrNil avoids returning a typed nil inside a non-nil error interface.
func errOrNil(e *OperationError) error {
	if e == nil {
		return nil
	}
	return e
}
