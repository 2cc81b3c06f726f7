// SPDX-License-Identifier: MPL-2.0

// Package boxfile defines the manifest data model for boxcar: the Boxfile
// document, its tasks, structural validation, and environment resolution.
// A Boxfile is parsed once per invocation and is immutable thereafter;
// everything derived from it (graphs, schedules) is recomputed on demand.
package boxfile

import (
	"boxcar-cli/internal/dag"
)

const (
	// DefaultLocation is the working directory used inside the container when
	// the manifest does not set one.
	DefaultLocation = "/scratch"

	// DefaultUser is the user commands run as when the manifest does not set one.
	DefaultUser = "root"
)

// Boxfile is the root of the task manifest.
type Boxfile struct {
	// Image is the base container image every run starts from.
	Image string `json:"image"`

	// Default is the task run when none is named on the command line.
	// Empty means no default; it must name an existing task otherwise.
	Default string `json:"default"`

	// Location is the working directory inside the container. Must be absolute.
	Location string `json:"location"`

	// User is the user commands run as inside the container.
	User string `json:"user"`

	// CommandPrefix is prepended to every task's command (see EffectiveCommand).
	CommandPrefix string `json:"command_prefix"`

	// Tasks maps task name to task definition.
	Tasks map[string]*Task `json:"tasks"`

	// FilePath is the path the manifest was loaded from, for error messages.
	FilePath string `json:"-"`

	// taskNames holds the task names in document declaration order. Captured
	// at parse time; used for deterministic traversal and schedule tie-breaks.
	taskNames []string
}

// TaskNames returns the task names in declaration order. Tasks present in the
// map but absent from the captured order (e.g., a Boxfile built in code rather
// than parsed) are appended in map order at the end.
func (b *Boxfile) TaskNames() []string {
	names := make([]string, 0, len(b.Tasks))
	seen := make(map[string]bool, len(b.Tasks))
	for _, name := range b.taskNames {
		if _, ok := b.Tasks[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	for name := range b.Tasks {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}

// SetTaskOrder records the declaration order of task names.
// Parse calls this with the order captured from the YAML document; tests and
// programmatic construction may call it directly.
func (b *Boxfile) SetTaskOrder(names []string) {
	b.taskNames = append([]string(nil), names...)
}

// EffectiveLocation returns the task's location override if present, else the
// manifest-level location.
func (b *Boxfile) EffectiveLocation(task *Task) string {
	if task.Location != nil {
		return *task.Location
	}
	return b.Location
}

// EffectiveUser returns the task's user override if present, else the
// manifest-level user.
func (b *Boxfile) EffectiveUser(task *Task) string {
	if task.User != nil {
		return *task.User
	}
	return b.User
}

// EffectiveCommand returns the full command for a task: the task's command
// prefix override if present (else the manifest-level prefix), concatenated
// with the task's command. A single newline separates the two parts only when
// both are non-empty.
func (b *Boxfile) EffectiveCommand(task *Task) string {
	prefix := b.CommandPrefix
	if task.CommandPrefix != nil {
		prefix = *task.CommandPrefix
	}

	if prefix != "" && task.Command != "" {
		return prefix + "\n" + task.Command
	}
	return prefix + task.Command
}

// Graph builds the dependency graph over the manifest's tasks: one node per
// task in declaration order, one edge from each task to each of its declared
// dependencies in their declared order. Unknown dependency names become nodes
// too; Validate rejects them before the graph is used for scheduling.
func (b *Boxfile) Graph() *dag.Graph {
	g := dag.New()
	for _, name := range b.TaskNames() {
		g.AddNode(name)
	}
	for _, name := range b.TaskNames() {
		for _, dep := range b.Tasks[name].Dependencies {
			g.AddEdge(name, dep)
		}
	}
	return g
}

// Schedule computes the execution order for the named task (or the manifest
// default when name is empty): the transitive dependency closure, dependencies
// before dependents, deduplicated. The manifest must already have passed
// Validate.
func (b *Boxfile) Schedule(name string) ([]string, error) {
	if name == "" {
		name = b.Default
	}
	if name == "" {
		return nil, &NoTaskError{}
	}
	if _, ok := b.Tasks[name]; !ok {
		return nil, &UnknownTaskError{Name: name}
	}
	return b.Graph().Schedule(name)
}
