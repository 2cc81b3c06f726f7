// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"boxcar-cli/internal/issue"
	"boxcar-cli/internal/runner"
	"boxcar-cli/pkg/boxfile"
)

func TestClassifyRunError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantIssueID issue.Id
	}{
		{
			name:        "task failed",
			err:         &runner.TaskFailedError{Task: "build", Status: 2},
			wantIssueID: issue.TaskFailedId,
		},
		{
			name:        "unknown task",
			err:         &boxfile.UnknownTaskError{Name: "nope"},
			wantIssueID: issue.TaskNotFoundId,
		},
		{
			name:        "no task and no default",
			err:         &boxfile.NoTaskError{},
			wantIssueID: issue.TaskNotFoundId,
		},
		{
			name:        "missing environment",
			err:         &boxfile.EnvironmentError{Task: "build", Missing: []string{"HOME"}},
			wantIssueID: issue.MissingEnvironmentId,
		},
		{
			name:        "permission denied",
			err:         fmt.Errorf("create container: %w", fs.ErrPermission),
			wantIssueID: issue.PermissionDeniedId,
		},
		{
			name:        "interrupted has no catalog entry",
			err:         fmt.Errorf("task %q: %w", "build", runner.ErrInterrupted),
			wantIssueID: 0,
		},
		{
			name:        "unclassified error",
			err:         errors.New("something odd"),
			wantIssueID: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svcErr := classifyRunError(tt.err)
			if svcErr.IssueID != tt.wantIssueID {
				t.Errorf("IssueID = %d, want %d", svcErr.IssueID, tt.wantIssueID)
			}
			if svcErr.StyledMessage == "" {
				t.Error("expected a styled message")
			}
			if !errors.Is(svcErr, tt.err) && svcErr.Err != tt.err {
				t.Error("ServiceError should wrap the original error")
			}
		})
	}
}

func TestClassifyRunError_PassesThroughServiceError(t *testing.T) {
	t.Parallel()

	original := newServiceError(errors.New("engine gone"), issue.ContainerEngineNotFoundId, "styled\n")
	got := classifyRunError(fmt.Errorf("wrapped: %w", original))

	if got != original {
		t.Errorf("classifyRunError() = %v, want the original ServiceError", got)
	}
}

func TestRunExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "task exit status propagates",
			err:  &runner.TaskFailedError{Task: "build", Status: 42},
			want: 42,
		},
		{
			name: "wrapped task failure",
			err:  fmt.Errorf("run: %w", &runner.TaskFailedError{Task: "build", Status: 3}),
			want: 3,
		},
		{
			name: "interrupted",
			err:  fmt.Errorf("task %q: %w", "build", runner.ErrInterrupted),
			want: exitCodeInterrupted,
		},
		{
			name: "generic failure",
			err:  errors.New("boom"),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := runExitCode(tt.err); got != tt.want {
				t.Errorf("runExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
