// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"testing"

	"boxcar-cli/internal/testutil/boxfiletest"
)

func TestLintCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command string
		wantErr bool
	}{
		{name: "simple command", command: "echo hello"},
		{name: "multiline script", command: "set -e\nmake build\nmake test"},
		{name: "pipeline with subshell", command: "ls | (cd /tmp && wc -l)"},
		{name: "unterminated quote", command: `echo "unterminated`, wantErr: true},
		{name: "dangling pipe", command: "ls |", wantErr: true},
		{name: "unclosed if", command: "if true; then echo hi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := lintCommand("test-task", tt.command)
			if (err != nil) != tt.wantErr {
				t.Errorf("lintCommand(%q) error = %v, wantErr %v", tt.command, err, tt.wantErr)
			}
		})
	}
}

func TestLintTaskCommands(t *testing.T) {
	t.Parallel()

	bf := boxfiletest.NewBoxfile(
		boxfiletest.WithTask("good", boxfiletest.WithCommand("echo fine")),
		boxfiletest.WithTask("bad", boxfiletest.WithCommand(`echo "broken`)),
		boxfiletest.WithTask("noop"),
	)

	findings := lintTaskCommands(bf)
	if len(findings) != 1 {
		t.Fatalf("got %d finding(s), want 1: %v", len(findings), findings)
	}
	if findings[0].Task != "bad" {
		t.Errorf("finding task = %q, want %q", findings[0].Task, "bad")
	}
	if findings[0].Message == "" {
		t.Error("finding has no message")
	}
}

func TestLintTaskCommands_PrefixCounts(t *testing.T) {
	t.Parallel()

	// A broken manifest-level prefix taints every task with a command, and
	// also tasks whose own command is empty once the prefix applies.
	bf := boxfiletest.NewBoxfile(
		boxfiletest.WithCommandPrefix(`if true; then`),
		boxfiletest.WithTask("build", boxfiletest.WithCommand("echo build")),
	)

	findings := lintTaskCommands(bf)
	if len(findings) != 1 {
		t.Fatalf("got %d finding(s), want 1: %v", len(findings), findings)
	}
}
