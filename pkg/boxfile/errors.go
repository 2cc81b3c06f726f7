// SPDX-License-Identifier: MPL-2.0

package boxfile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse is the sentinel error wrapped by ParseError.
	ErrParse = errors.New("malformed boxfile")

	// ErrInvalidTask is the sentinel error wrapped by TaskValidationError.
	ErrInvalidTask = errors.New("invalid task")

	// ErrMissingDependencies is the sentinel error wrapped by DependencyError.
	ErrMissingDependencies = errors.New("invalid dependencies")

	// ErrMissingEnvironment is the sentinel error wrapped by EnvironmentError.
	ErrMissingEnvironment = errors.New("missing environment variables")

	// ErrUnknownTask is the sentinel error wrapped by UnknownTaskError.
	ErrUnknownTask = errors.New("unknown task")
)

type (
	// ParseError is returned when the manifest document is malformed or
	// contains unknown fields. It carries the file path and the underlying
	// (CUE-formatted) cause.
	ParseError struct {
		Path  string
		Cause error
	}

	// TaskValidationError is returned by ValidateTask for the first violated
	// structural invariant of a task. It names the task, the field, and the
	// offending value.
	TaskValidationError struct {
		Task    string
		Field   string
		Value   string
		Message string
	}

	// MissingDependencies lists the nonexistent dependency names declared by
	// one task.
	MissingDependencies struct {
		Task    string
		Missing []string
	}

	// DependencyError aggregates, across all tasks, every dependency name
	// that does not exist as a task, plus an invalid default-task name if
	// one was declared. Entries preserve task declaration order.
	DependencyError struct {
		Tasks []MissingDependencies

		// InvalidDefault is the declared default task name when it does not
		// exist; empty otherwise.
		InvalidDefault string
	}

	// EnvironmentError is returned when one or more of a task's required
	// environment variables are absent with no default. Missing is sorted.
	EnvironmentError struct {
		Task    string
		Missing []string
	}

	// UnknownTaskError is returned when a requested task name does not exist
	// in the manifest.
	UnknownTaskError struct {
		Name string
	}

	// NoTaskError is returned when no task was requested and the manifest
	// declares no default.
	NoTaskError struct{}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse boxfile at %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause so callers can inspect it, and ErrParse
// via errors.Is on the chain.
func (e *ParseError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Error implements the error interface.
func (e *TaskValidationError) Error() string { return e.Message }

// Unwrap returns ErrInvalidTask so callers can use errors.Is for detection.
func (e *TaskValidationError) Unwrap() error { return ErrInvalidTask }

// Error renders the aggregated report: every task with its missing dependency
// names, and the invalid default task if any.
func (e *DependencyError) Error() string {
	var entries []string
	for _, t := range e.Tasks {
		quoted := make([]string, len(t.Missing))
		for i, m := range t.Missing {
			quoted[i] = fmt.Sprintf("%q", m)
		}
		entries = append(entries, fmt.Sprintf("%q (%s)", t.Task, strings.Join(quoted, ", ")))
	}

	switch {
	case len(entries) > 0 && e.InvalidDefault != "":
		return fmt.Sprintf(
			"the default task %q does not exist, and the following tasks have invalid dependencies: %s",
			e.InvalidDefault, strings.Join(entries, "; "),
		)
	case len(entries) > 0:
		return fmt.Sprintf("the following tasks have invalid dependencies: %s", strings.Join(entries, "; "))
	default:
		return fmt.Sprintf("the default task %q does not exist", e.InvalidDefault)
	}
}

// Unwrap returns ErrMissingDependencies so callers can use errors.Is for detection.
func (e *DependencyError) Unwrap() error { return ErrMissingDependencies }

// Error implements the error interface.
func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("task %q needs the following environment variables, which are not set and have no default: %s",
		e.Task, strings.Join(e.Missing, ", "))
}

// Unwrap returns ErrMissingEnvironment so callers can use errors.Is for detection.
func (e *EnvironmentError) Unwrap() error { return ErrMissingEnvironment }

// Error implements the error interface.
func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("no task named %q exists in the boxfile", e.Name)
}

// Unwrap returns ErrUnknownTask so callers can use errors.Is for detection.
func (e *UnknownTaskError) Unwrap() error { return ErrUnknownTask }

// Error implements the error interface.
func (e *NoTaskError) Error() string {
	return "no task was given and the boxfile does not declare a default task"
}
