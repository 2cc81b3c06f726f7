// SPDX-License-Identifier: MPL-2.0

package boxfile

import "strings"

type (
	// MountSpec is a bind-mount declaration in "host_path:container_path"
	// form, or a single path used for both sides. Paths may be relative or
	// absolute (absolute paths are allowed to support mounting things like
	// /var/run/docker.sock) but must not contain commas, since the spec is
	// rendered into the engine's comma-separated --mount syntax.
	MountSpec string

	// Task is one named unit of work in a Boxfile.
	Task struct {
		Description string `json:"description"`

		// Dependencies are the names of tasks that must run first. Each must
		// name an existing task and the overall relation must be acyclic.
		Dependencies []string `json:"dependencies"`

		// Cache controls whether the committed image may be reused when the
		// cache key is unchanged. Must be false when MountPaths, Ports, or
		// ExtraEngineArguments are nonempty, because those make the task's
		// effect depend on things the cache key does not capture.
		Cache bool `json:"cache"`

		// Environment maps required variable names to optional defaults.
		// A nil value means the variable must be present in the ambient
		// environment; a non-nil value is used when it is not.
		Environment map[string]*string `json:"environment"`

		// InputPaths are copied into the container before the command runs
		// and contribute to the cache key. Must be relative.
		InputPaths []string `json:"input_paths"`

		// ExcludedInputPaths are skipped when copying and hashing inputs.
		// Must be relative.
		ExcludedInputPaths []string `json:"excluded_input_paths"`

		// OutputPaths are copied back to the host after success. Must be relative.
		OutputPaths []string `json:"output_paths"`

		// OutputPathsOnFailure are copied back (best effort) after failure,
		// for diagnostics. Must be relative.
		OutputPathsOnFailure []string `json:"output_paths_on_failure"`

		MountPaths    []MountSpec `json:"mount_paths"`
		MountReadonly bool        `json:"mount_readonly"`

		// Ports are engine-syntax port publications ("3000:80").
		Ports []string `json:"ports"`

		// Location, User, and CommandPrefix override the manifest-level
		// values when non-nil; nil means inherit. Location must be absolute.
		Location      *string `json:"location"`
		User          *string `json:"user"`
		Command       string  `json:"command"`
		CommandPrefix *string `json:"command_prefix"`

		// ExtraEngineArguments are passed verbatim to the engine's create call.
		ExtraEngineArguments []string `json:"extra_engine_arguments"`
	}
)

// HostPath returns the host side of the mount.
func (m MountSpec) HostPath() string {
	if host, _, ok := strings.Cut(string(m), ":"); ok {
		return host
	}
	return string(m)
}

// ContainerPath returns the container side of the mount.
func (m MountSpec) ContainerPath() string {
	if _, container, ok := strings.Cut(string(m), ":"); ok {
		return container
	}
	return string(m)
}

// String returns the mount in "host:container" form.
func (m MountSpec) String() string {
	return m.HostPath() + ":" + m.ContainerPath()
}
