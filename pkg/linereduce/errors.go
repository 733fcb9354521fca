package linereduce

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds of a run
var (
	// Caller errors
	ErrInvalidArgument = errors.New("invalid argument")

	// Phase errors
	ErrMapPhase    = errors.New("map phase failed")
	ErrReducePhase = errors.New("reduce phase failed")
	ErrTimeout     = errors.New("map phase timed out")
	ErrOutputWrite = errors.New("output write failed")

	// Executor errors
	ErrUnknownExecutor = errors.New("unknown executor")

	// Contract violations
	ErrInvalidUTF8 = errors.New("input is not valid UTF-8")
	ErrForeignKey  = errors.New("reduce emitted a key it was not given")
	ErrPanic       = errors.New("function panicked")
)

// MapPhaseError reports the input file whose map task failed.
type MapPhaseError struct {
	File string
	Err  error
}

func (e *MapPhaseError) Error() string {
	return fmt.Sprintf("map phase failed on %s: %v", e.File, e.Err)
}

func (e *MapPhaseError) Unwrap() []error {
	return []error{ErrMapPhase, e.Err}
}

// ReducePhaseError reports the key whose reduce invocation failed.
type ReducePhaseError struct {
	Key string
	Err error
}

func (e *ReducePhaseError) Error() string {
	return fmt.Sprintf("reduce phase failed on key %q: %v", e.Key, e.Err)
}

func (e *ReducePhaseError) Unwrap() []error {
	return []error{ErrReducePhase, e.Err}
}

// OutputWriteError reports a failure to create or write the output file.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("write output %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() []error {
	return []error{ErrOutputWrite, e.Err}
}
