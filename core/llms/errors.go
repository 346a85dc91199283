package llms

import (
	"errors"
	"fmt"
)

// TransportError is returned when the completion endpoint could not be
// reached, returned a non-OK status, or the response could not be read.
// It is never retried at this layer.
type TransportError struct {
	// Op names the failed step, e.g. "send request" or "read stream".
	Op string
	// StatusCode is set when the endpoint answered with a non-OK status.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error: %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport error: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// IsTransportError reports whether any error in err's chain is a
// TransportError.
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
