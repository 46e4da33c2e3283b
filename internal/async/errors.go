package async

import (
	"errors"
	"fmt"
)

// ErrLoopClosed is returned by Run after Close, and reported by futures whose
// continuations could not be scheduled because the loop was already closed.
var ErrLoopClosed = errors.New("async: loop closed")

// PanicError wraps a value recovered from a panicking loop task.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("async: loop task panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
