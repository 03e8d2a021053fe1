package gateway

import (
	"errors"
	"fmt"
)

// Kind identifies which step of an invocation failed.
type Kind int

// Failure kinds, one per step of Invoke.
const (
	// KindSpawnFailed: no candidate executable could be started.
	KindSpawnFailed Kind = iota + 1

	// KindStdinWriteFailed: writing or closing the child's stdin failed.
	KindStdinWriteFailed

	// KindWaitFailed: waiting for the child, or collecting its output, failed.
	KindWaitFailed

	// KindNonUTF8Output: the child succeeded but wrote bytes that are not UTF-8.
	KindNonUTF8Output

	// KindNonZeroExit: the child ran and reported failure.
	KindNonZeroExit

	// KindCanceled: the context ended before the child exited.
	KindCanceled
)

// Sentinel errors, one per Kind. An *Error matches its Kind's sentinel
// with errors.Is.
var (
	ErrSpawnFailed      = errors.New("spawn failed")
	ErrStdinWriteFailed = errors.New("stdin write failed")
	ErrWaitFailed       = errors.New("wait failed")
	ErrNonUTF8Output    = errors.New("output is not valid UTF-8")
	ErrNonZeroExit      = errors.New("non-zero exit")
	ErrCanceled         = errors.New("invocation canceled")
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSpawnFailed:
		return "spawn_failed"
	case KindStdinWriteFailed:
		return "stdin_write_failed"
	case KindWaitFailed:
		return "wait_failed"
	case KindNonUTF8Output:
		return "non_utf8_output"
	case KindNonZeroExit:
		return "non_zero_exit"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindSpawnFailed:
		return ErrSpawnFailed
	case KindStdinWriteFailed:
		return ErrStdinWriteFailed
	case KindWaitFailed:
		return ErrWaitFailed
	case KindNonUTF8Output:
		return ErrNonUTF8Output
	case KindNonZeroExit:
		return ErrNonZeroExit
	case KindCanceled:
		return ErrCanceled
	default:
		return nil
	}
}

// Stream names used in Error.Stream.
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// Error is the failure of a single invocation.
// Only the fields relevant to Kind are set.
type Error struct {
	Kind      Kind
	Candidate string // Executable that failed to spawn, or the one that ran
	Stream    string // KindNonUTF8Output: offending stream
	Stderr    string // KindNonZeroExit: lossily decoded stderr
	ExitCode  int    // KindNonZeroExit: exit status, -1 if killed by a signal
	Err       error  // Underlying cause, nil for KindNonZeroExit
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindSpawnFailed:
		if e.Candidate == "" {
			return fmt.Sprintf("spawn: %v", e.Err)
		}
		return fmt.Sprintf("spawn %s: %v", e.Candidate, e.Err)
	case KindStdinWriteFailed:
		return fmt.Sprintf("write stdin of %s: %v", e.Candidate, e.Err)
	case KindWaitFailed:
		return fmt.Sprintf("wait for %s: %v", e.Candidate, e.Err)
	case KindNonUTF8Output:
		return fmt.Sprintf("decode %s of %s: %v", e.Stream, e.Candidate, e.Err)
	case KindNonZeroExit:
		return fmt.Sprintf("%s exited with status %d: %s", e.Candidate, e.ExitCode, e.Stderr)
	case KindCanceled:
		return fmt.Sprintf("%s: %v", e.Candidate, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return 0
}

// IsSpawnError reports whether err means no executable could be started.
func IsSpawnError(err error) bool {
	return errors.Is(err, ErrSpawnFailed)
}

// IsExitError reports whether err means the child ran and failed.
func IsExitError(err error) bool {
	return errors.Is(err, ErrNonZeroExit)
}
