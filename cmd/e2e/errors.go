package main

import (
	"errors"
	"fmt"
)

const (
	exitSuccess     = 0
	exitTestFailure = 1
	exitRuntimeErr  = 2
)

// RuntimeError is a failure to run at all: bad configuration, a browser
// that does not start, unreadable files. It exits with code 2.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// TestFailureError reports failed scenarios. It exits with code 1.
type TestFailureError struct {
	Message string
}

func (e *TestFailureError) Error() string {
	return fmt.Sprintf("test failure: %s", e.Message)
}

func NewTestFailureError(message string) *TestFailureError {
	return &TestFailureError{Message: message}
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) {
		return exitRuntimeErr
	}
	return exitTestFailure
}
