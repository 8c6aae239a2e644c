package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// TransportError reports a request that never produced a decodable payload:
// connection refused, timeout, non-2xx status or a broken socket.
type TransportError struct {
	Op       string // e.g. "list objects"
	Endpoint string
	Status   int // HTTP status, 0 when the request never got a response
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d", e.Op, e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the request failed because a deadline passed.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}
