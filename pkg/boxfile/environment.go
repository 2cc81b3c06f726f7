// SPDX-License-Identifier: MPL-2.0

package boxfile

import "sort"

// LookupFunc reads one variable from an environment source. It follows the
// os.LookupEnv contract: the second return reports whether the variable is
// present at all, so present-but-empty is distinguishable from absent.
type LookupFunc func(name string) (string, bool)

// ResolveEnvironment resolves a task's declared variables against the given
// environment source. For each declared variable, the ambient value wins; if
// absent and the task supplies a default, the default is used; if absent with
// no default, the name is recorded as a violation. When any violations exist
// the full sorted list is returned as an EnvironmentError and no partial map
// is produced.
func ResolveEnvironment(name string, task *Task, lookup LookupFunc) (map[string]string, error) {
	resolved := make(map[string]string, len(task.Environment))
	var missing []string

	for variable, fallback := range task.Environment {
		if value, ok := lookup(variable); ok {
			resolved[variable] = value
			continue
		}
		if fallback != nil {
			resolved[variable] = *fallback
			continue
		}
		missing = append(missing, variable)
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &EnvironmentError{Task: name, Missing: missing}
	}
	return resolved, nil
}
