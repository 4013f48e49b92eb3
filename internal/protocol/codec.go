package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformedResponse is returned when a payload cannot be decoded into the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrMalformedRequest is returned by ParseRequest for payloads that are not a valid operation.
	ErrMalformedRequest = errors.New("malformed request")
)

type createRequest struct {
	RequestType     Kind   `json:"request_type"`
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
}

type jobRequest struct {
	RequestType Kind   `json:"request_type"`
	JobID       string `json:"job_id"`
}

type listRequest struct {
	RequestType Kind `json:"request_type"`
}

// Encode serializes an operation to its flat wire record.
func Encode(op Operation) ([]byte, error) {
	if op == nil {
		return nil, fmt.Errorf("%w: nil operation", ErrInvalidOperation)
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}

	var v interface{}
	switch o := op.(type) {
	case Create:
		v = createRequest{RequestType: KindCreate, SourcePath: o.Source, DestinationPath: o.Destination}
	case List:
		v = listRequest{RequestType: KindList}
	default:
		v = jobRequest{RequestType: op.Kind(), JobID: JobID(op)}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", op.Kind(), err)
	}
	return data, nil
}

// wireRequest is the union of every request field, used for single-pass parsing.
type wireRequest struct {
	RequestType     Kind    `json:"request_type"`
	SourcePath      *string `json:"source_path"`
	DestinationPath *string `json:"destination_path"`
	JobID           *string `json:"job_id"`
}

// ParseRequest decodes a wire record into an Operation. Fields that do not
// belong to the request_type are rejected.
func ParseRequest(data []byte) (Operation, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var req wireRequest
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if req.RequestType == "" {
		return nil, fmt.Errorf("%w: missing request_type", ErrMalformedRequest)
	}
	if !req.RequestType.Valid() {
		return nil, fmt.Errorf("%w: unknown request_type %q", ErrMalformedRequest, req.RequestType)
	}

	var op Operation
	switch req.RequestType {
	case KindCreate:
		if req.JobID != nil {
			return nil, unexpectedField(req.RequestType, "job_id")
		}
		op = Create{Source: deref(req.SourcePath), Destination: deref(req.DestinationPath)}
	case KindList:
		if req.JobID != nil {
			return nil, unexpectedField(req.RequestType, "job_id")
		}
		if req.SourcePath != nil || req.DestinationPath != nil {
			return nil, unexpectedField(req.RequestType, "source_path/destination_path")
		}
		op = List{}
	default:
		if req.SourcePath != nil || req.DestinationPath != nil {
			return nil, unexpectedField(req.RequestType, "source_path/destination_path")
		}
		jobOp, err := NewJobOperation(req.RequestType, deref(req.JobID))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
		}
		op = jobOp
	}

	if err := op.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	return op, nil
}

// CreatedPayload is the daemon's reply to an accepted copy request.
type CreatedPayload struct {
	JobID string `json:"job_id"`
}

// MessagePayload is the daemon's free-text reply.
type MessagePayload struct {
	Message string `json:"message"`
}

// FailureMessage builds the message payload the daemon sends for a rejected
// job-addressed operation. Clients detect failure by the "error" substring.
func FailureMessage(reason string) MessagePayload {
	return MessagePayload{Message: "Error: " + reason}
}

// envelope captures the optional top-level fields of an object response.
type envelope struct {
	Message *string `json:"message"`
	JobID   *string `json:"job_id"`
}

type wireJob struct {
	ID          string   `json:"id"`
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Status      string   `json:"status"`
	Writes      counter  `json:"writes"`
	Percentage  *float64 `json:"percentage"`
	Message     *string  `json:"message"`
}

func (w wireJob) summary() JobSummary {
	return JobSummary{
		ID:          w.ID,
		Source:      w.Source,
		Destination: w.Destination,
		Status:      w.Status,
		Writes:      uint64(w.Writes),
		Percentage:  w.Percentage,
	}
}

// counter accepts both a JSON number and a quoted number.
type counter uint64

func (c *counter) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid writes counter %q", s)
	}
	*c = counter(n)
	return nil
}

// DecodeResponse decodes a payload as the response to an operation of the
// given kind. The caller knows the kind it sent; payload shape alone is never
// used to pick the variant.
func DecodeResponse(kind Kind, data []byte) (Response, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty %s payload", ErrMalformedResponse, kind)
	}

	switch kind {
	case KindCreate:
		return decodeCreate(data)
	case KindSuspend, KindResume, KindCancel:
		return decodeMessage(kind, data)
	case KindProgress:
		return decodeProgress(data)
	case KindList:
		return decodeList(data)
	}
	return nil, fmt.Errorf("%w: unknown response kind %q", ErrMalformedResponse, kind)
}

func decodeCreate(data []byte) (Response, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, malformed(KindCreate, err)
	}
	// Any message at all means the create was rejected.
	if env.Message != nil {
		return CreateResponse{Failure: &OperationError{Kind: KindCreate, Message: *env.Message}}, nil
	}
	if env.JobID == nil || *env.JobID == "" {
		return nil, fmt.Errorf("%w: copy response has neither job_id nor message", ErrMalformedResponse)
	}
	return CreateResponse{JobID: *env.JobID}, nil
}

func decodeMessage(kind Kind, data []byte) (Response, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, malformed(kind, err)
	}
	if env.Message == nil {
		return nil, fmt.Errorf("%w: %s response has no message", ErrMalformedResponse, kind)
	}

	msg := *env.Message
	var failure *OperationError
	if strings.Contains(strings.ToLower(msg), "error") {
		failure = &OperationError{Kind: kind, Message: msg}
		msg = ""
	}

	switch kind {
	case KindSuspend:
		return SuspendResponse{Failure: failure, Message: msg}, nil
	case KindResume:
		return ResumeResponse{Failure: failure, Message: msg}, nil
	default:
		return CancelResponse{Failure: failure, Message: msg}, nil
	}
}

func decodeProgress(data []byte) (Response, error) {
	var job wireJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, malformed(KindProgress, err)
	}
	if job.Message != nil {
		return ProgressResponse{Failure: &OperationError{Kind: KindProgress, Message: *job.Message}}, nil
	}
	if job.ID == "" {
		return nil, fmt.Errorf("%w: progress response has no job id", ErrMalformedResponse)
	}
	return ProgressResponse{Job: job.summary()}, nil
}

func decodeList(data []byte) (Response, error) {
	if data[0] == '{' {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, malformed(KindList, err)
		}
		if env.Message == nil {
			return nil, fmt.Errorf("%w: list response is an object without message", ErrMalformedResponse)
		}
		return ListResponse{Failure: &OperationError{Kind: KindList, Message: *env.Message}}, nil
	}

	var jobs []wireJob
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, malformed(KindList, err)
	}

	summaries := make([]JobSummary, 0, len(jobs))
	for _, job := range jobs {
		summaries = append(summaries, job.summary())
	}
	return ListResponse{Jobs: summaries}, nil
}

func malformed(kind Kind, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, kind, err)
}

func unexpectedField(kind Kind, field string) error {
	return fmt.Errorf("%w: %s does not accept %s", ErrMalformedRequest, kind, field)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
