// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"
	// ContainerEngineAuto picks whichever engine is available, preferring Podman.
	ContainerEngineAuto ContainerEngine = "auto"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidRepository is the sentinel error wrapped by InvalidRepositoryError.
	ErrInvalidRepository = errors.New("invalid repository")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// Repository is the image repository task images are tagged under. It forms
	// the left side of every "repository:task-<digest>" image reference, so it
	// must be a valid image repository name: non-empty, lowercase, and free of
	// whitespace and tag separators.
	Repository string

	// InvalidRepositoryError is returned when a Repository value cannot form a
	// valid image reference. It wraps ErrInvalidRepository for errors.Is()
	// compatibility.
	InvalidRepositoryError struct {
		Value  Repository
		Reason string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ContainerEngine specifies whether to use "docker", "podman", or "auto"
		ContainerEngine ContainerEngine `json:"container_engine" mapstructure:"container_engine"`
		// Repository is the image repository task images are tagged under
		Repository Repository `json:"repository" mapstructure:"repository"`
		// ReadRemoteCache pulls cached task images on a local cache miss
		ReadRemoteCache bool `json:"read_remote_cache" mapstructure:"read_remote_cache"`
		// WriteRemoteCache pushes freshly committed task images
		WriteRemoteCache bool `json:"write_remote_cache" mapstructure:"write_remote_cache"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug-level diagnostics
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// Error implements the error interface for InvalidContainerEngineError.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: docker, podman, auto)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error {
	return ErrInvalidContainerEngine
}

// String returns the string representation of the ContainerEngine.
func (ce ContainerEngine) String() string { return string(ce) }

// IsValid returns whether the ContainerEngine is one of the defined engine types,
// and a list of validation errors if it is not.
func (ce ContainerEngine) IsValid() (bool, []error) {
	switch ce {
	case ContainerEngineDocker, ContainerEnginePodman, ContainerEngineAuto:
		return true, nil
	default:
		return false, []error{&InvalidContainerEngineError{Value: ce}}
	}
}

// Error implements the error interface for InvalidRepositoryError.
func (e *InvalidRepositoryError) Error() string {
	return fmt.Sprintf("invalid repository %q: %s", e.Value, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidRepositoryError) Unwrap() error { return ErrInvalidRepository }

// String returns the string representation of the Repository.
func (r Repository) String() string { return string(r) }

// IsValid returns whether the Repository can form a valid image reference,
// and a list of validation errors if it cannot.
func (r Repository) IsValid() (bool, []error) {
	s := string(r)
	switch {
	case strings.TrimSpace(s) == "":
		return false, []error{&InvalidRepositoryError{Value: r, Reason: "must be non-empty"}}
	case strings.ContainsAny(s, ": \t"):
		return false, []error{&InvalidRepositoryError{Value: r, Reason: "must not contain whitespace or ':'"}}
	case s != strings.ToLower(s):
		return false, []error{&InvalidRepositoryError{Value: r, Reason: "must be lowercase"}}
	default:
		return true, nil
	}
}

// IsValid returns whether the Config has valid fields.
// It delegates to ContainerEngine.IsValid() and Repository.IsValid().
// Bool fields and UI need no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ContainerEngine.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Repository.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ContainerEngine:  ContainerEngineAuto,
		Repository:       "boxcar",
		ReadRemoteCache:  false,
		WriteRemoteCache: false,
		UI: UIConfig{
			Verbose: false,
		},
	}
}
