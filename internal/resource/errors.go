package resource

import "fmt"

// RemoteError reports a response whose status indicates failure.
type RemoteError struct {
	StatusCode int
	StatusText string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.StatusText)
}

// TransportError reports a failure to complete the exchange at all.
type TransportError struct {
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Cause
}
