package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers may want to match directly.
var (
	ErrMissingToken = errors.New("API access token is not set")
	ErrStaleCursor  = errors.New("provider reported more pages without an end cursor")
)

// ErrorKind is a coarse-grained categorization for fatal errors.
type ErrorKind string

const (
	// KindConfig is a configuration problem detected before any network activity.
	KindConfig ErrorKind = "config"
	// KindTransport covers network failures, timeouts, non-2xx statuses and API errors.
	KindTransport ErrorKind = "transport"
	// KindProtocol means the response diverged from the expected API contract.
	KindProtocol ErrorKind = "protocol"
)

// OpError wraps an underlying error with the operation that failed and its kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConfigError builds a configuration error for op.
func ConfigError(op string, err error) error {
	return &OpError{Op: op, Kind: KindConfig, Err: err}
}

// TransportError builds a transport error for op.
func TransportError(op string, err error) error {
	return &OpError{Op: op, Kind: KindTransport, Err: err}
}

// ProtocolError builds a protocol error for op.
func ProtocolError(op string, err error) error {
	return &OpError{Op: op, Kind: KindProtocol, Err: err}
}

// IsKind reports whether any error in err's chain is an OpError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}
