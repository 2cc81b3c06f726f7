// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"io"

	"boxcar-cli/pkg/boxfile"
)

type (
	// ContainerID identifies a created container, as printed by the engine's
	// create command.
	ContainerID string

	// ImageRef is a full image reference ("repository:tag").
	ImageRef string

	// ContainerSpec describes the container to create for one task, or to run
	// an interactive shell in.
	ContainerSpec struct {
		// Image is the image the container starts from.
		Image ImageRef

		// SourceDir is the host directory relative mount paths resolve
		// against, typically the directory containing the manifest.
		SourceDir string

		// Environment is the task's fully resolved environment.
		Environment map[string]string

		// Mounts are bind mounts; relative container paths resolve against
		// WorkDir. MountReadonly applies to all of them.
		Mounts        []boxfile.MountSpec
		MountReadonly bool

		// Ports are engine-syntax port publications.
		Ports []string

		// WorkDir is the working directory inside the container. Absolute.
		WorkDir string

		// User is the user the command runs as. The container itself starts
		// as root so /bin/su can switch users without a password.
		User string

		// Command is the shell command to run. Ignored by SpawnShell.
		Command string

		// ExtraArgs are appended verbatim to the engine's argument list.
		ExtraArgs []string

		// Stdout and Stderr receive the command's output while the container
		// runs. Nil discards.
		Stdout io.Writer
		Stderr io.Writer
	}

	// ExitStatus is the exit code of a container's main process.
	ExitStatus int
)

// Engine defines the operations boxcar needs from a container runtime.
type Engine interface {
	// Name returns the engine name (docker or podman).
	Name() string
	// Available checks if the engine is available on the system.
	Available() bool
	// Version returns the engine version.
	Version(ctx context.Context) (string, error)

	// ImageExists checks if an image exists locally.
	ImageExists(ctx context.Context, image ImageRef) (bool, error)
	// PullImage pulls an image from a registry.
	PullImage(ctx context.Context, image ImageRef) error
	// PushImage pushes an image to a registry.
	PushImage(ctx context.Context, image ImageRef) error
	// RemoveImage removes a local image.
	RemoveImage(ctx context.Context, image ImageRef) error
	// ListImages returns the local image references matching the repository.
	ListImages(ctx context.Context, repository string) ([]ImageRef, error)

	// CreateContainer creates a container per the spec and returns its ID.
	// The container is created, not started.
	CreateContainer(ctx context.Context, spec ContainerSpec) (ContainerID, error)
	// CopyInto streams a tar archive into the container's filesystem root.
	CopyInto(ctx context.Context, id ContainerID, tar io.Reader) error
	// StartContainer starts the container, attaches to its output, and waits
	// for it to exit.
	StartContainer(ctx context.Context, id ContainerID, stdout, stderr io.Writer) (ExitStatus, error)
	// StopContainer stops a running container.
	StopContainer(ctx context.Context, id ContainerID) error
	// CopyFrom copies each of the given container paths (relative to
	// sourceDir inside the container) into destDir on the host.
	CopyFrom(ctx context.Context, id ContainerID, paths []string, sourceDir, destDir string) error
	// CommitContainer commits the container's filesystem as a new image.
	CommitContainer(ctx context.Context, id ContainerID, image ImageRef) error
	// RemoveContainer force-removes a container.
	RemoveContainer(ctx context.Context, id ContainerID) error

	// SpawnShell runs an interactive shell in a fresh container per the spec,
	// attached to the caller's terminal. The container is removed on exit.
	SpawnShell(ctx context.Context, spec ContainerSpec) error
}

// EngineType identifies the container engine type.
type EngineType string

const (
	EngineTypePodman EngineType = "podman"
	EngineTypeDocker EngineType = "docker"
)

// String returns the string representation of the EngineType.
func (t EngineType) String() string { return string(t) }

// ErrEngineNotAvailable is returned when a container engine is not available.
type ErrEngineNotAvailable struct {
	Engine string
	Reason string
}

func (e *ErrEngineNotAvailable) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// NewEngine creates a new container engine based on preference, falling back
// to the other engine when the preferred one is unavailable.
func NewEngine(preferredType EngineType) (Engine, error) {
	switch preferredType {
	case EngineTypePodman:
		engine := NewPodmanEngine()
		if engine.Available() {
			return engine, nil
		}
		dockerEngine := NewDockerEngine()
		if dockerEngine.Available() {
			return dockerEngine, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "podman",
			Reason: "podman is not installed or not accessible, and docker fallback is also not available",
		}

	case EngineTypeDocker:
		engine := NewDockerEngine()
		if engine.Available() {
			return engine, nil
		}
		podmanEngine := NewPodmanEngine()
		if podmanEngine.Available() {
			return podmanEngine, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "docker",
			Reason: "docker is not installed or not accessible, and podman fallback is also not available",
		}

	default:
		return nil, fmt.Errorf("unknown container engine type: %s", preferredType)
	}
}

// AutoDetectEngine tries to find an available container engine.
func AutoDetectEngine() (Engine, error) {
	// Try Podman first (more commonly available in rootless setups)
	podman := NewPodmanEngine()
	if podman.Available() {
		return podman, nil
	}

	docker := NewDockerEngine()
	if docker.Available() {
		return docker, nil
	}

	return nil, &ErrEngineNotAvailable{
		Engine: "any",
		Reason: "no container engine (podman or docker) is available on this system",
	}
}
