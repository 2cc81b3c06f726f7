// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"strings"
	"testing"

	"boxcar-cli/pkg/boxfile"
)

func strp(s string) *string { return &s }

func fixtureBoxfile() *boxfile.Boxfile {
	return &boxfile.Boxfile{
		Image:    "alpine:3.20",
		Location: "/scratch",
		User:     "root",
	}
}

func fixtureTask() *boxfile.Task {
	return &boxfile.Task{
		Cache:       true,
		Environment: map[string]*string{"MODE": nil},
		InputPaths:  []string{"src"},
		Command:     "make",
	}
}

func TestImageTagPure(t *testing.T) {
	t.Parallel()

	bf, task := fixtureBoxfile(), fixtureTask()
	env := map[string]string{"MODE": "release"}

	first := ImageTag("alpine:3.20", "boxcar", bf, task, Hash("inputs"), env)
	second := ImageTag("alpine:3.20", "boxcar", bf, task, Hash("inputs"), env)
	if first != second {
		t.Errorf("ImageTag is not deterministic: %q vs %q", first, second)
	}
}

func TestImageTagFormat(t *testing.T) {
	t.Parallel()

	tag := ImageTag("alpine:3.20", "boxcar", fixtureBoxfile(), fixtureTask(), Hash("inputs"), map[string]string{"MODE": "x"})
	if !strings.HasPrefix(tag, "boxcar:task-") {
		t.Fatalf("tag = %q, want prefix %q", tag, "boxcar:task-")
	}
	digest := strings.TrimPrefix(tag, "boxcar:task-")
	if len(digest) != 64 {
		t.Errorf("digest length = %d, want 64", len(digest))
	}
}

func TestImageTagSensitivity(t *testing.T) {
	t.Parallel()

	base := func() (string, *boxfile.Boxfile, *boxfile.Task, string, map[string]string) {
		return "alpine:3.20", fixtureBoxfile(), fixtureTask(), Hash("inputs"), map[string]string{"MODE": "release"}
	}
	prev, bf, task, inputs, env := base()
	reference := ImageTag(prev, "boxcar", bf, task, inputs, env)

	tests := []struct {
		name   string
		mutate func() string
	}{
		{
			name: "previous image",
			mutate: func() string {
				_, bf, task, inputs, env := base()
				return ImageTag("alpine:3.19", "boxcar", bf, task, inputs, env)
			},
		},
		{
			name: "environment value",
			mutate: func() string {
				prev, bf, task, inputs, _ := base()
				return ImageTag(prev, "boxcar", bf, task, inputs, map[string]string{"MODE": "debug"})
			},
		},
		{
			name: "environment variable set",
			mutate: func() string {
				prev, bf, task, inputs, _ := base()
				task.Environment = map[string]*string{"MODE": nil, "VERBOSE": nil}
				return ImageTag(prev, "boxcar", bf, task, inputs, map[string]string{"MODE": "release", "VERBOSE": "1"})
			},
		},
		{
			name: "input fileset hash",
			mutate: func() string {
				prev, bf, task, _, env := base()
				return ImageTag(prev, "boxcar", bf, task, Hash("other inputs"), env)
			},
		},
		{
			name: "location",
			mutate: func() string {
				prev, bf, task, inputs, env := base()
				task.Location = strp("/elsewhere")
				return ImageTag(prev, "boxcar", bf, task, inputs, env)
			},
		},
		{
			name: "user",
			mutate: func() string {
				prev, bf, task, inputs, env := base()
				task.User = strp("builder")
				return ImageTag(prev, "boxcar", bf, task, inputs, env)
			},
		},
		{
			name: "command",
			mutate: func() string {
				prev, bf, task, inputs, env := base()
				task.Command = "make test"
				return ImageTag(prev, "boxcar", bf, task, inputs, env)
			},
		},
		{
			name: "command prefix",
			mutate: func() string {
				prev, bf, task, inputs, env := base()
				bf.CommandPrefix = "set -e"
				return ImageTag(prev, "boxcar", bf, task, inputs, env)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.mutate(); got == reference {
				t.Errorf("changing the %s did not change the tag", tt.name)
			}
		})
	}
}

// Environment variables are folded in sorted name order, so two equivalent
// declarations always produce the same tag.
func TestImageTagEnvironmentOrderInsensitive(t *testing.T) {
	t.Parallel()

	prev, bf := "alpine:3.20", fixtureBoxfile()
	env := map[string]string{"A": "1", "B": "2", "C": "3"}

	task := fixtureTask()
	task.Environment = map[string]*string{"A": nil, "B": nil, "C": nil}

	first := ImageTag(prev, "boxcar", bf, task, Hash("inputs"), env)
	for i := 0; i < 16; i++ {
		if got := ImageTag(prev, "boxcar", bf, task, Hash("inputs"), env); got != first {
			t.Fatalf("tag varies across identical calls: %q vs %q", got, first)
		}
	}
}

func TestImageTagNoopPassesPredecessorThrough(t *testing.T) {
	t.Parallel()

	bf := fixtureBoxfile()
	noop := &boxfile.Task{Cache: true}

	if got := ImageTag("boxcar:task-abc", "boxcar", bf, noop, Hash(""), nil); got != "boxcar:task-abc" {
		t.Errorf("noop tag = %q, want the previous image verbatim", got)
	}

	// A command prefix alone does not make the task observable; the task's own
	// command is still empty only when both parts are empty.
	bf.CommandPrefix = "set -e"
	if got := ImageTag("boxcar:task-abc", "boxcar", bf, noop, Hash(""), nil); got == "boxcar:task-abc" {
		t.Error("task with a nonempty effective command was treated as a noop")
	}
}

func TestImageTagRepository(t *testing.T) {
	t.Parallel()

	bf, task := fixtureBoxfile(), fixtureTask()
	env := map[string]string{"MODE": "x"}

	a := ImageTag("alpine:3.20", "boxcar", bf, task, Hash("inputs"), env)
	b := ImageTag("alpine:3.20", "registry.example.com/ci", bf, task, Hash("inputs"), env)

	if !strings.HasPrefix(b, "registry.example.com/ci:task-") {
		t.Errorf("tag = %q, want the given repository as prefix", b)
	}
	if strings.TrimPrefix(a, "boxcar") != strings.TrimPrefix(b, "registry.example.com/ci") {
		t.Error("digest depends on the repository name")
	}
}
