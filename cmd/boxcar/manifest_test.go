// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"boxcar-cli/internal/issue"
)

// writeManifest writes a manifest document to a temp file and returns its path.
func writeManifest(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "boxfile.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest_Valid(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, `
image: alpine:3.20
default: build
tasks:
  prepare:
    command: echo prepare
  build:
    dependencies: [prepare]
    command: echo build
`)

	bf, err := loadManifest(path)
	if err != nil {
		t.Fatalf("loadManifest() error = %v", err)
	}
	if bf.Default != "build" {
		t.Errorf("Default = %q, want %q", bf.Default, "build")
	}
	if len(bf.Tasks) != 2 {
		t.Errorf("len(Tasks) = %d, want 2", len(bf.Tasks))
	}
}

func TestLoadManifest_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		path        func(t *testing.T) string
		wantIssueID issue.Id
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string {
				t.Helper()
				return filepath.Join(t.TempDir(), "boxfile.yaml")
			},
			wantIssueID: issue.BoxfileNotFoundId,
		},
		{
			name: "malformed document",
			path: func(t *testing.T) string {
				t.Helper()
				return writeManifest(t, "image: [not\n  a: valid doc")
			},
			wantIssueID: issue.BoxfileParseErrorId,
		},
		{
			name: "unknown field",
			path: func(t *testing.T) string {
				t.Helper()
				return writeManifest(t, "image: alpine:3.20\nimagee: typo\n")
			},
			wantIssueID: issue.BoxfileParseErrorId,
		},
		{
			name: "missing dependency",
			path: func(t *testing.T) string {
				t.Helper()
				return writeManifest(t, `
image: alpine:3.20
tasks:
  build:
    dependencies: [nonexistent]
    command: echo build
`)
			},
			wantIssueID: issue.MissingDependenciesId,
		},
		{
			name: "dependency cycle",
			path: func(t *testing.T) string {
				t.Helper()
				return writeManifest(t, `
image: alpine:3.20
tasks:
  a:
    dependencies: [b]
    command: echo a
  b:
    dependencies: [a]
    command: echo b
`)
			},
			wantIssueID: issue.DependencyCycleId,
		},
		{
			name: "invalid task field",
			path: func(t *testing.T) string {
				t.Helper()
				return writeManifest(t, `
image: alpine:3.20
tasks:
  build:
    input_paths: [/absolute/path]
    command: echo build
`)
			},
			wantIssueID: issue.BoxfileParseErrorId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := loadManifest(tt.path(t))
			if err == nil {
				t.Fatal("loadManifest() expected error, got nil")
			}

			svcErr, ok := err.(*ServiceError)
			if !ok {
				t.Fatalf("loadManifest() error type = %T, want *ServiceError", err)
			}
			if svcErr.IssueID != tt.wantIssueID {
				t.Errorf("IssueID = %d, want %d (err: %v)", svcErr.IssueID, tt.wantIssueID, svcErr.Err)
			}
			if svcErr.StyledMessage == "" {
				t.Error("expected a styled message")
			}
		})
	}
}
