// SPDX-License-Identifier: MPL-2.0

package boxfiletest

import (
	"boxcar-cli/pkg/boxfile"
)

type (
	// BoxfileOption configures a test manifest.
	BoxfileOption func(*boxfile.Boxfile)

	// TaskOption configures a test task.
	// Apply options to customize beyond the minimal defaults.
	TaskOption func(*boxfile.Task)
)

// NewBoxfile creates a test manifest with the given options.
// By default, creates a manifest with:
//   - alpine:3.20 as the base image
//   - the default location and user
//   - no tasks
//
// Task declaration order follows the order of WithTask options.
//
// Usage:
//
//	bf := boxfiletest.NewBoxfile()
//	bf := boxfiletest.NewBoxfile(
//	    boxfiletest.WithDefault("build"),
//	    boxfiletest.WithTask("build", boxfiletest.WithCommand("make all")),
//	)
func NewBoxfile(opts ...BoxfileOption) *boxfile.Boxfile {
	bf := &boxfile.Boxfile{
		Image:    "alpine:3.20",
		Location: boxfile.DefaultLocation,
		User:     boxfile.DefaultUser,
		Tasks:    map[string]*boxfile.Task{},
	}
	for _, opt := range opts {
		opt(bf)
	}
	return bf
}

// NewTask creates a test task with the given options.
func NewTask(opts ...TaskOption) *boxfile.Task {
	task := &boxfile.Task{}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

// --- Boxfile Options ---

// WithImage sets the base image.
func WithImage(image string) BoxfileOption {
	return func(b *boxfile.Boxfile) {
		b.Image = image
	}
}

// WithDefault sets the default task name.
func WithDefault(name string) BoxfileOption {
	return func(b *boxfile.Boxfile) {
		b.Default = name
	}
}

// WithFilePath sets the path the manifest pretends to be loaded from.
func WithFilePath(path string) BoxfileOption {
	return func(b *boxfile.Boxfile) {
		b.FilePath = path
	}
}

// WithCommandPrefix sets the manifest-level command prefix.
func WithCommandPrefix(prefix string) BoxfileOption {
	return func(b *boxfile.Boxfile) {
		b.CommandPrefix = prefix
	}
}

// WithTask adds a task to the manifest, appending its name to the
// declaration order.
func WithTask(name string, opts ...TaskOption) BoxfileOption {
	return func(b *boxfile.Boxfile) {
		order := append(b.TaskNames(), name)
		b.Tasks[name] = NewTask(opts...)
		b.SetTaskOrder(order)
	}
}

// --- Task Options ---

// WithCommand sets the task command.
func WithCommand(command string) TaskOption {
	return func(t *boxfile.Task) {
		t.Command = command
	}
}

// WithDependencies sets the task's dependencies.
func WithDependencies(deps ...string) TaskOption {
	return func(t *boxfile.Task) {
		t.Dependencies = deps
	}
}

// WithCache sets whether the task's result may be reused from cache.
func WithCache(cache bool) TaskOption {
	return func(t *boxfile.Task) {
		t.Cache = cache
	}
}

// WithEnv declares an environment variable on the task. A nil fallback means
// the variable is required.
func WithEnv(name string, fallback *string) TaskOption {
	return func(t *boxfile.Task) {
		if t.Environment == nil {
			t.Environment = map[string]*string{}
		}
		t.Environment[name] = fallback
	}
}

// WithInputPaths sets the task's input paths.
func WithInputPaths(paths ...string) TaskOption {
	return func(t *boxfile.Task) {
		t.InputPaths = paths
	}
}

// WithOutputPaths sets the task's output paths.
func WithOutputPaths(paths ...string) TaskOption {
	return func(t *boxfile.Task) {
		t.OutputPaths = paths
	}
}

// WithUser sets the task-level user override.
func WithUser(user string) TaskOption {
	return func(t *boxfile.Task) {
		t.User = &user
	}
}

// WithLocation sets the task-level location override.
func WithLocation(location string) TaskOption {
	return func(t *boxfile.Task) {
		t.Location = &location
	}
}
