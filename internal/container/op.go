// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// FailureKind classifies why an engine operation failed. The runner uses it to
// decide whether a failure is the user's command misbehaving, the surrounding
// machinery breaking, or the run being interrupted — an interrupted task must
// never be committed under its cache key, and must not be reported as a
// permanent failure.
type FailureKind int

const (
	// FailureSystem means the operation itself broke: the engine binary is
	// missing, the daemon is unreachable, a copy failed, and so on.
	FailureSystem FailureKind = iota

	// FailureUserCommand means the engine ran fine but the user's command (or
	// the engine CLI acting on the user's data) exited nonzero.
	FailureUserCommand

	// FailureInterrupted means the operation was cut short by cancellation.
	FailureInterrupted
)

// String returns the failure kind's name.
func (k FailureKind) String() string {
	switch k {
	case FailureSystem:
		return "system"
	case FailureUserCommand:
		return "user command"
	case FailureInterrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ErrInterrupted is the sentinel error matched by interrupted OpErrors.
var ErrInterrupted = errors.New("interrupted")

// OpError is the error type returned by every Engine operation. Op names the
// operation ("create container", "pull image"), Kind classifies the failure,
// and Cause is the underlying error.
type OpError struct {
	Op    string
	Kind  FailureKind
	Cause error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause; interrupted errors additionally match
// ErrInterrupted via Is.
func (e *OpError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrInterrupted and this error is an interruption.
func (e *OpError) Is(target error) bool {
	return target == ErrInterrupted && e.Kind == FailureInterrupted
}

// Interrupted reports whether err is an interrupted engine operation.
func Interrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}

// classify maps a failed CLI invocation to a FailureKind. Context cancellation
// and signal-killed processes count as interruptions; a clean nonzero exit is
// the user's command failing; everything else is a system failure.
func classify(ctx context.Context, err error) FailureKind {
	if ctx.Err() != nil {
		return FailureInterrupted
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// ExitCode is -1 when the process was killed by a signal.
		if exitErr.ExitCode() == -1 {
			return FailureInterrupted
		}
		return FailureUserCommand
	}
	return FailureSystem
}

// opError wraps a failed operation in an *OpError with its classification.
func opError(ctx context.Context, op string, err error) error {
	return &OpError{Op: op, Kind: classify(ctx, err), Cause: err}
}
