package client

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTransport matches connection failures: refused, reset, timed out,
	// or closed before a complete response arrived.
	ErrTransport = errors.New("transport error")
	// ErrProtocol matches responses that arrived but could not be decoded.
	ErrProtocol = errors.New("protocol error")
)

// Error is returned by Execute for failures outside the daemon's own
// operation errors. Use errors.Is with ErrTransport or ErrProtocol to classify it.
type Error struct {
	Op    string
	Err   error
	class error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v during %s: %v", e.class, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.class
}

func transportError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %v", ctxErr, err)
	}
	return &Error{Op: op, class: ErrTransport, Err: err}
}
