package protocol

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes protocol failures.
type ErrorKind string

const (
	KindTimeout          ErrorKind = "timeout"
	KindTransportFailure ErrorKind = "transport_failure"
	KindRemoteTaskFailed ErrorKind = "remote_task_failed"
)

// Error is a categorized protocol failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("protocol %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrTimeout wraps a deadline or cancellation failure.
func ErrTimeout(err error) *Error {
	return &Error{Kind: KindTimeout, Message: "call timed out", Err: err}
}

// ErrTransport wraps a delivery failure.
func ErrTransport(err error) *Error {
	return &Error{Kind: KindTransportFailure, Message: "transport failure", Err: err}
}

// ErrRemoteTask reports a failure on the remote side.
func ErrRemoteTask(message string) *Error {
	return &Error{Kind: KindRemoteTaskFailed, Message: message}
}

// KindOf extracts the protocol error kind, if any.
func KindOf(err error) (ErrorKind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}
