package panel

import (
	"errors"
	"fmt"
)

// ErrUnknownNode is returned by Node and Dispatch for an ID that is not in
// the host tree. It comes from external input, so it is an error rather than
// a panic.
var ErrUnknownNode = errors.New("unknown node")

// UnknownControlError reports a lookup of a control that was never realized.
type UnknownControlError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownControlError) Error() string {
	return fmt.Sprintf("control hasn't been added: %s", e.Name)
}
