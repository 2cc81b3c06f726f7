// SPDX-License-Identifier: MPL-2.0

package boxfile

import (
	"fmt"
	"sort"
	"strings"
)

// Paths in a boxfile always use container (Unix) syntax, so "absolute" simply
// means a leading slash regardless of the host platform.
func isAbsolute(path string) bool {
	return strings.HasPrefix(path, "/")
}

// ValidateTask checks a task's structural invariants in a fixed order and
// returns on the first violation, so diagnostic messages are stable:
//
//	(a) no "=" in any environment variable name
//	(b) input/excluded-input/output/output-on-failure paths are relative
//	(c) no comma in any mount path
//	(d) location override is absolute if present
//	(e-g) cache is disabled when mount paths, ports, or extra engine
//	      arguments are declared
func ValidateTask(name string, task *Task) error {
	variables := make([]string, 0, len(task.Environment))
	for variable := range task.Environment {
		variables = append(variables, variable)
	}
	sort.Strings(variables)
	for _, variable := range variables {
		if strings.Contains(variable, "=") {
			return &TaskValidationError{
				Task: name, Field: "environment", Value: variable,
				Message: fmt.Sprintf("environment variable %q of task %q contains %q", variable, name, "="),
			}
		}
	}

	for _, check := range []struct {
		field string
		paths []string
	}{
		{"input_paths", task.InputPaths},
		{"excluded_input_paths", task.ExcludedInputPaths},
		{"output_paths", task.OutputPaths},
		{"output_paths_on_failure", task.OutputPathsOnFailure},
	} {
		for _, path := range check.paths {
			if isAbsolute(path) {
				return &TaskValidationError{
					Task: name, Field: check.field, Value: path,
					Message: fmt.Sprintf("task %q has an absolute path in %s: %q", name, check.field, path),
				}
			}
		}
	}

	for _, mount := range task.MountPaths {
		if strings.Contains(string(mount), ",") {
			return &TaskValidationError{
				Task: name, Field: "mount_paths", Value: string(mount),
				Message: fmt.Sprintf("mount path %q of task %q contains %q", string(mount), name, ","),
			}
		}
	}

	if task.Location != nil && !isAbsolute(*task.Location) {
		return &TaskValidationError{
			Task: name, Field: "location", Value: *task.Location,
			Message: fmt.Sprintf("task %q has a relative location: %q", name, *task.Location),
		}
	}

	if len(task.MountPaths) > 0 && task.Cache {
		return &TaskValidationError{
			Task: name, Field: "mount_paths",
			Message: fmt.Sprintf("task %q has mount_paths but does not disable caching; set cache: false for this task", name),
		}
	}

	if len(task.Ports) > 0 && task.Cache {
		return &TaskValidationError{
			Task: name, Field: "ports",
			Message: fmt.Sprintf("task %q exposes ports but does not disable caching; set cache: false for this task", name),
		}
	}

	if len(task.ExtraEngineArguments) > 0 && task.Cache {
		return &TaskValidationError{
			Task: name, Field: "extra_engine_arguments",
			Message: fmt.Sprintf("task %q has extra engine arguments but does not disable caching; set cache: false for this task", name),
		}
	}

	return nil
}

// Validate checks the whole manifest. Per-task structural checks run first in
// declaration order (fail-fast on the first invalid task). Then two
// independent whole-manifest passes run, both even when the manifest has zero
// tasks: pass one aggregates every nonexistent dependency name across all
// tasks (and an invalid default task) into one DependencyError; pass two runs
// cycle detection over the dependency graph.
func (b *Boxfile) Validate() error {
	if !isAbsolute(b.Location) {
		return &TaskValidationError{
			Field: "location", Value: b.Location,
			Message: fmt.Sprintf("the boxfile has a relative location: %q", b.Location),
		}
	}

	for _, name := range b.TaskNames() {
		if err := ValidateTask(name, b.Tasks[name]); err != nil {
			return err
		}
	}

	depErr := &DependencyError{}
	if b.Default != "" {
		if _, ok := b.Tasks[b.Default]; !ok {
			depErr.InvalidDefault = b.Default
		}
	}
	for _, name := range b.TaskNames() {
		var missing []string
		for _, dep := range b.Tasks[name].Dependencies {
			if _, ok := b.Tasks[dep]; !ok {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			depErr.Tasks = append(depErr.Tasks, MissingDependencies{Task: name, Missing: missing})
		}
	}
	if len(depErr.Tasks) > 0 || depErr.InvalidDefault != "" {
		return depErr
	}

	if cycle := b.Graph().DetectCycle(); cycle != nil {
		return cycle
	}

	return nil
}
