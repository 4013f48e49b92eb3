package protocol

import (
	"errors"
	"fmt"
)

// Kind identifies an operation category. Its value is the wire request_type.
type Kind string

const (
	KindCreate   Kind = "copy"
	KindSuspend  Kind = "suspend"
	KindResume   Kind = "resume"
	KindCancel   Kind = "cancel"
	KindProgress Kind = "progress"
	KindList     Kind = "list"
)

// Kinds lists every operation category the protocol defines.
var Kinds = []Kind{KindCreate, KindSuspend, KindResume, KindCancel, KindProgress, KindList}

func (k Kind) Valid() bool {
	switch k {
	case KindCreate, KindSuspend, KindResume, KindCancel, KindProgress, KindList:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// ErrInvalidOperation is returned when an operation is missing a required field.
// It is raised before any network activity.
var ErrInvalidOperation = errors.New("invalid operation")

// Operation is a client-issued request. The set of implementations is closed.
type Operation interface {
	Kind() Kind
	Validate() error
	isOperation()
}

// Create asks the daemon to start copying Source to Destination.
type Create struct {
	Source      string
	Destination string
}

// Suspend pauses a running job.
type Suspend struct {
	JobID string
}

// Resume continues a suspended job.
type Resume struct {
	JobID string
}

// Cancel stops a running or suspended job for good.
type Cancel struct {
	JobID string
}

// Progress reads the current state of one job.
type Progress struct {
	JobID string
}

// List enumerates every job the daemon currently tracks.
type List struct{}

func (Create) Kind() Kind   { return KindCreate }
func (Suspend) Kind() Kind  { return KindSuspend }
func (Resume) Kind() Kind   { return KindResume }
func (Cancel) Kind() Kind   { return KindCancel }
func (Progress) Kind() Kind { return KindProgress }
func (List) Kind() Kind     { return KindList }

func (Create) isOperation()   {}
func (Suspend) isOperation()  {}
func (Resume) isOperation()   {}
func (Cancel) isOperation()   {}
func (Progress) isOperation() {}
func (List) isOperation()     {}

func (o Create) Validate() error {
	if o.Source == "" {
		return missingField(KindCreate, "source_path")
	}
	if o.Destination == "" {
		return missingField(KindCreate, "destination_path")
	}
	return nil
}

func (o Suspend) Validate() error  { return requireJobID(KindSuspend, o.JobID) }
func (o Resume) Validate() error   { return requireJobID(KindResume, o.JobID) }
func (o Cancel) Validate() error   { return requireJobID(KindCancel, o.JobID) }
func (o Progress) Validate() error { return requireJobID(KindProgress, o.JobID) }
func (List) Validate() error       { return nil }

// JobID returns the job an operation addresses, or "" for Create and List.
func JobID(op Operation) string {
	switch o := op.(type) {
	case Suspend:
		return o.JobID
	case Resume:
		return o.JobID
	case Cancel:
		return o.JobID
	case Progress:
		return o.JobID
	}
	return ""
}

// NewJobOperation builds the job-addressed operation of the given kind.
func NewJobOperation(kind Kind, jobID string) (Operation, error) {
	var op Operation
	switch kind {
	case KindSuspend:
		op = Suspend{JobID: jobID}
	case KindResume:
		op = Resume{JobID: jobID}
	case KindCancel:
		op = Cancel{JobID: jobID}
	case KindProgress:
		op = Progress{JobID: jobID}
	default:
		return nil, fmt.Errorf("%w: %q does not address a job", ErrInvalidOperation, kind)
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}
	return op, nil
}

func requireJobID(kind Kind, id string) error {
	if id == "" {
		return missingField(kind, "job_id")
	}
	return nil
}

func missingField(kind Kind, field string) error {
	return fmt.Errorf("%w: %s requires %s", ErrInvalidOperation, kind, field)
}
