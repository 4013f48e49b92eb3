// Package client implements the job-control execution layer: one blocking
// round trip per operation over a fresh connection to the copy daemon.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"copyd/internal/protocol"
)

const (
	DefaultNetwork         = "tcp"
	DefaultAddress         = "127.0.0.1:8080"
	DefaultMaxResponseSize = 16 << 20
)

// Dialer opens transport connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Executor sends operations to a copy daemon. It holds no connection state
// between calls and is safe for concurrent use.
type Executor struct {
	network         string
	address         string
	dialer          Dialer
	timeout         time.Duration
	maxResponseSize int64
}

// Option configures an Executor.
type Option func(*Executor)

// WithDialer replaces the default net.Dialer.
func WithDialer(d Dialer) Option {
	return func(e *Executor) { e.dialer = d }
}

// WithTimeout bounds every round trip, connection setup included. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Executor) { e.timeout = timeout }
}

// WithMaxResponseSize caps the number of bytes read for a single response.
func WithMaxResponseSize(n int64) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxResponseSize = n
		}
	}
}

// NewExecutor creates an executor for the daemon listening on network/address.
func NewExecutor(network, address string, opts ...Option) *Executor {
	if network == "" {
		network = DefaultNetwork
	}
	if address == "" {
		address = DefaultAddress
	}

	e := &Executor{
		network:         network,
		address:         address,
		dialer:          &net.Dialer{},
		maxResponseSize: DefaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Address returns the daemon address this executor dials.
func (e *Executor) Address() string {
	return e.address
}

// Execute performs one round trip. Operation errors reported by the daemon are
// returned inside the response; the error return is reserved for construction,
// transport and protocol failures.
func (e *Executor) Execute(ctx context.Context, op protocol.Operation) (protocol.Response, error) {
	request, err := protocol.Encode(op)
	if err != nil {
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()

	conn, err := e.dialer.DialContext(ctx, e.network, e.address)
	if err != nil {
		return nil, transportError(ctx, "dial", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, transportError(ctx, "dial", err)
		}
	}
	// Unblock pending reads and writes as soon as the caller gives up.
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if _, err := conn.Write(request); err != nil {
		return nil, transportError(ctx, "write", err)
	}

	payload, err := readResponse(conn, e.maxResponseSize)
	if err != nil {
		var tooLarge *responseTooLargeError
		var syntaxErr *json.SyntaxError
		if errors.As(err, &tooLarge) || errors.As(err, &syntaxErr) {
			return nil, &Error{Op: "read", class: ErrProtocol, Err: err}
		}
		return nil, transportError(ctx, "read", err)
	}

	resp, err := protocol.DecodeResponse(op.Kind(), payload)
	if err != nil {
		return nil, &Error{Op: "decode", class: ErrProtocol, Err: err}
	}

	slog.Debug("operation executed",
		"kind", op.Kind(),
		"address", e.address,
		"failed", resp.Err() != nil,
		"duration", time.Since(start))

	return resp, nil
}

// Result is the outcome of one operation in a bulk execution.
type Result struct {
	Response protocol.Response
	Err      error
}

// Failure returns the transport/protocol error if any, otherwise the
// operation error carried by the response, otherwise nil.
func (r Result) Failure() error {
	if r.Err != nil {
		return r.Err
	}
	if r.Response == nil {
		return nil
	}
	return r.Response.Err()
}

// ExecuteBulk runs ops strictly in order, each as an independent Execute.
// A failing operation never stops the sequence; results[i] belongs to ops[i].
func (e *Executor) ExecuteBulk(ctx context.Context, ops []protocol.Operation) []Result {
	results := make([]Result, len(ops))
	for i, op := range ops {
		resp, err := e.Execute(ctx, op)
		if err != nil {
			slog.Warn("bulk operation failed", "index", i, "error", err)
		}
		results[i] = Result{Response: resp, Err: err}
	}
	return results
}

// Create starts a copy job.
func (e *Executor) Create(ctx context.Context, source, destination string) (protocol.CreateResponse, error) {
	resp, err := e.Execute(ctx, protocol.Create{Source: source, Destination: destination})
	if err != nil {
		return protocol.CreateResponse{}, err
	}
	return resp.(protocol.CreateResponse), nil
}

// Suspend pauses a running job.
func (e *Executor) Suspend(ctx context.Context, jobID string) (protocol.SuspendResponse, error) {
	resp, err := e.Execute(ctx, protocol.Suspend{JobID: jobID})
	if err != nil {
		return protocol.SuspendResponse{}, err
	}
	return resp.(protocol.SuspendResponse), nil
}

// Resume continues a suspended job.
func (e *Executor) Resume(ctx context.Context, jobID string) (protocol.ResumeResponse, error) {
	resp, err := e.Execute(ctx, protocol.Resume{JobID: jobID})
	if err != nil {
		return protocol.ResumeResponse{}, err
	}
	return resp.(protocol.ResumeResponse), nil
}

// Cancel stops a job permanently.
func (e *Executor) Cancel(ctx context.Context, jobID string) (protocol.CancelResponse, error) {
	resp, err := e.Execute(ctx, protocol.Cancel{JobID: jobID})
	if err != nil {
		return protocol.CancelResponse{}, err
	}
	return resp.(protocol.CancelResponse), nil
}

// Progress reads one job.
func (e *Executor) Progress(ctx context.Context, jobID string) (protocol.ProgressResponse, error) {
	resp, err := e.Execute(ctx, protocol.Progress{JobID: jobID})
	if err != nil {
		return protocol.ProgressResponse{}, err
	}
	return resp.(protocol.ProgressResponse), nil
}

// List reads every tracked job.
func (e *Executor) List(ctx context.Context) (protocol.ListResponse, error) {
	resp, err := e.Execute(ctx, protocol.List{})
	if err != nil {
		return protocol.ListResponse{}, err
	}
	return resp.(protocol.ListResponse), nil
}

type responseTooLargeError struct {
	limit int64
}

func (e *responseTooLargeError) Error() string {
	return fmt.Sprintf("response exceeds %d bytes", e.limit)
}

// readResponse reads until one complete JSON value has been parsed.
func readResponse(r io.Reader, limit int64) (json.RawMessage, error) {
	lr := &io.LimitedReader{R: r, N: limit}
	dec := json.NewDecoder(lr)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if lr.N <= 0 {
			return nil, &responseTooLargeError{limit: limit}
		}
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("connection closed before a response was received: %w", err)
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("connection closed mid-response: %w", err)
		}
		return nil, err
	}
	return raw, nil
}
