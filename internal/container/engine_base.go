// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"boxcar-cli/pkg/platform"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// ArgsTransformer modifies container create/run arguments after they're
	// built. Used by Podman to inject --userns=keep-id for rootless
	// compatibility.
	ArgsTransformer func(args []string) []string

	// BaseCLIEngineOption configures a BaseCLIEngine.
	BaseCLIEngineOption func(*BaseCLIEngine)

	// BaseCLIEngine provides common implementation for CLI-based container
	// engines. Docker and Podman engines embed this struct. Methods that are
	// identical across all CLI engines (the whole lifecycle and image surface)
	// are implemented here; engine-specific methods (Available, Version)
	// remain on the concrete types.
	BaseCLIEngine struct {
		name            string
		binaryPath      string
		execCommand     ExecCommandFunc
		argsTransformer ArgsTransformer
	}
)

// --- Option Functions ---

// WithName sets the engine name used in error messages.
func WithName(name string) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.name = name
	}
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.execCommand = fn
	}
}

// WithArgsTransformer sets a custom create/run args transformer.
// This is used by Podman to inject --userns=keep-id for rootless compatibility.
func WithArgsTransformer(fn ArgsTransformer) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.argsTransformer = fn
	}
}

// --- Constructor ---

// NewBaseCLIEngine creates a new base engine with the given binary path.
func NewBaseCLIEngine(binaryPath string, opts ...BaseCLIEngineOption) *BaseCLIEngine {
	e := &BaseCLIEngine{
		binaryPath:  binaryPath,
		execCommand: hostExecCommand(platform.DetectSandbox()),
		// Identity function by default
		argsTransformer: func(args []string) []string { return args },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Accessor Methods ---

// Name returns the engine name used in error messages.
func (e *BaseCLIEngine) Name() string {
	return e.name
}

// BinaryPath returns the path to the container engine binary.
func (e *BaseCLIEngine) BinaryPath() string {
	return e.binaryPath
}

// --- Argument Builders ---

// ContainerArgs constructs the argument block shared by container create and
// container run: init process, user, environment, working directory, mounts,
// ports, and any extra arguments. Environment variables are emitted in sorted
// order so the produced command line is deterministic.
//
// The container always starts as root: the actual command runs under /bin/su,
// which switches to the requested user without needing a password only when
// invoked by root.
//
// The --init flag runs an init process as PID 1 so that orphaned zombie
// processes are reaped and terminal signals reach the command's shell with
// their default semantics intact.
func (e *BaseCLIEngine) ContainerArgs(spec ContainerSpec) []string {
	args := []string{"--init", "--user", "root"}

	variables := make([]string, 0, len(spec.Environment))
	for variable := range spec.Environment {
		variables = append(variables, variable)
	}
	sort.Strings(variables)
	for _, variable := range variables {
		args = append(args, "--env", fmt.Sprintf("%s=%s", variable, spec.Environment[variable]))
	}

	args = append(args, "--workdir", spec.WorkDir)

	// Bind mounts require an absolute host path.
	absSourceDir := spec.SourceDir
	if !filepath.IsAbs(absSourceDir) {
		if cwd, err := os.Getwd(); err == nil {
			absSourceDir = filepath.Join(cwd, absSourceDir)
		}
	}

	for _, mount := range spec.Mounts {
		hostPath := mount.HostPath()
		if !filepath.IsAbs(hostPath) {
			hostPath = filepath.Join(absSourceDir, hostPath)
		}
		containerPath := mount.ContainerPath()
		if !path.IsAbs(containerPath) {
			containerPath = path.Join(spec.WorkDir, containerPath)
		}

		// Mount path validation guarantees no commas, so the comma-separated
		// --mount syntax is safe.
		mountArg := fmt.Sprintf("type=bind,source=%s,target=%s", hostPath, containerPath)
		if spec.MountReadonly {
			mountArg += ",readonly"
		}
		args = append(args, "--mount", mountArg)
	}

	for _, port := range spec.Ports {
		args = append(args, "--publish", port)
	}

	args = append(args, spec.ExtraArgs...)

	return args
}

// CreateContainerArgs constructs the full argument list for creating a task
// container.
//
// Generated command: <binary> container create [options] <image> /bin/su -c <command> <user>
func (e *BaseCLIEngine) CreateContainerArgs(spec ContainerSpec) []string {
	args := append([]string{"container", "create"}, e.ContainerArgs(spec)...)
	args = append(args, string(spec.Image), "/bin/su", "-c", spec.Command, spec.User)
	return e.argsTransformer(args)
}

// ShellArgs constructs the full argument list for an interactive shell.
//
// Generated command: <binary> container run --rm -i -t [options] <image> /bin/su <user>
func (e *BaseCLIEngine) ShellArgs(spec ContainerSpec) []string {
	args := append([]string{"container", "run", "--rm", "--interactive", "--tty"}, e.ContainerArgs(spec)...)
	args = append(args, string(spec.Image), "/bin/su", spec.User)
	return e.argsTransformer(args)
}

// --- Command Execution ---

// CreateCommand creates an exec.Cmd for the given arguments.
// This is useful when the caller needs to customize stdin/stdout/stderr.
func (e *BaseCLIEngine) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	return e.execCommand(ctx, e.binaryPath, args...)
}

// RunCommandStatus executes a command and returns only the error status.
// Stderr is captured and attached to the returned error.
func (e *BaseCLIEngine) RunCommandStatus(ctx context.Context, args ...string) error {
	cmd := e.CreateCommand(ctx, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return commandError(e.binaryPath, args, stderr.String(), err)
	}
	return nil
}

// RunCommandWithOutput executes a command with stdout captured to a buffer.
func (e *BaseCLIEngine) RunCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	cmd := e.CreateCommand(ctx, args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", commandError(e.binaryPath, args, stderr.String(), err)
	}
	return out.String(), nil
}

// commandError decorates a failed CLI invocation with the command line and any
// stderr output, preserving the original error for classification.
func commandError(binary string, args []string, stderr string, err error) error {
	msg := fmt.Sprintf("command %s %s failed", binary, strings.Join(args, " "))
	if stderr = strings.TrimSpace(stderr); stderr != "" {
		msg += ": " + stderr
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// --- Promoted Engine Methods (shared by Docker and Podman) ---

// ImageExists checks if an image exists locally. A clean inspection failure
// means the image is absent; only an interruption surfaces as an error.
func (e *BaseCLIEngine) ImageExists(ctx context.Context, image ImageRef) (bool, error) {
	err := e.RunCommandStatus(ctx, "image", "inspect", string(image))
	if err == nil {
		return true, nil
	}
	if kind := classify(ctx, err); kind == FailureInterrupted {
		return false, &OpError{Op: "inspect image", Kind: kind, Cause: err}
	}
	return false, nil
}

// PullImage pulls an image from a registry.
func (e *BaseCLIEngine) PullImage(ctx context.Context, image ImageRef) error {
	if err := e.RunCommandStatus(ctx, "image", "pull", string(image)); err != nil {
		return opError(ctx, "pull image", err)
	}
	return nil
}

// PushImage pushes an image to a registry.
func (e *BaseCLIEngine) PushImage(ctx context.Context, image ImageRef) error {
	if err := e.RunCommandStatus(ctx, "image", "push", string(image)); err != nil {
		return opError(ctx, "push image", err)
	}
	return nil
}

// RemoveImage force-removes a local image.
func (e *BaseCLIEngine) RemoveImage(ctx context.Context, image ImageRef) error {
	if err := e.RunCommandStatus(ctx, "image", "rm", "--force", string(image)); err != nil {
		return opError(ctx, "remove image", err)
	}
	return nil
}

// ListImages returns the local image references under the given repository.
func (e *BaseCLIEngine) ListImages(ctx context.Context, repository string) ([]ImageRef, error) {
	out, err := e.RunCommandWithOutput(ctx,
		"image", "ls", "--format", "{{.Repository}}:{{.Tag}}", repository)
	if err != nil {
		return nil, opError(ctx, "list images", err)
	}

	var refs []ImageRef
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			refs = append(refs, ImageRef(line))
		}
	}
	return refs, nil
}

// CreateContainer creates a container per the spec and returns its ID.
func (e *BaseCLIEngine) CreateContainer(ctx context.Context, spec ContainerSpec) (ContainerID, error) {
	out, err := e.RunCommandWithOutput(ctx, e.CreateContainerArgs(spec)...)
	if err != nil {
		return "", opError(ctx, "create container", err)
	}
	return ContainerID(strings.TrimSpace(out)), nil
}

// CopyInto streams a tar archive into the container's filesystem root.
func (e *BaseCLIEngine) CopyInto(ctx context.Context, id ContainerID, tar io.Reader) error {
	cmd := e.CreateCommand(ctx, "container", "cp", "-", string(id)+":/")
	cmd.Stdin = tar
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		err = commandError(e.binaryPath, []string{"container", "cp"}, stderr.String(), err)
		return opError(ctx, "copy into container", err)
	}
	return nil
}

// StartContainer starts the container, attaches to its output, and waits for
// the main process to exit. A nonzero exit from the user's command is returned
// as a status, not an error; errors mean the start itself failed or the run
// was interrupted.
func (e *BaseCLIEngine) StartContainer(ctx context.Context, id ContainerID, stdout, stderr io.Writer) (ExitStatus, error) {
	cmd := e.CreateCommand(ctx, "container", "start", "--attach", string(id))
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if kind := classify(ctx, err); kind == FailureUserCommand && errors.As(err, &exitErr) {
		return ExitStatus(exitErr.ExitCode()), nil
	}
	return 0, opError(ctx, "start container", err)
}

// StopContainer stops a running container.
func (e *BaseCLIEngine) StopContainer(ctx context.Context, id ContainerID) error {
	if err := e.RunCommandStatus(ctx, "container", "stop", string(id)); err != nil {
		return opError(ctx, "stop container", err)
	}
	return nil
}

// CommitContainer commits the container's filesystem as a new image.
func (e *BaseCLIEngine) CommitContainer(ctx context.Context, id ContainerID, image ImageRef) error {
	if err := e.RunCommandStatus(ctx, "container", "commit", string(id), string(image)); err != nil {
		return opError(ctx, "commit container", err)
	}
	return nil
}

// RemoveContainer force-removes a container.
func (e *BaseCLIEngine) RemoveContainer(ctx context.Context, id ContainerID) error {
	if err := e.RunCommandStatus(ctx, "container", "rm", "--force", string(id)); err != nil {
		return opError(ctx, "remove container", err)
	}
	return nil
}

// SpawnShell runs an interactive shell in a fresh container attached to the
// caller's terminal. The container is removed when the shell exits. A nonzero
// shell exit is not an error.
func (e *BaseCLIEngine) SpawnShell(ctx context.Context, spec ContainerSpec) error {
	cmd := e.CreateCommand(ctx, e.ShellArgs(spec)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if classify(ctx, err) == FailureUserCommand {
			return nil
		}
		return opError(ctx, "spawn shell", err)
	}
	return nil
}
