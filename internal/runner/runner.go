// SPDX-License-Identifier: MPL-2.0

// Package runner executes a manifest's task schedule against a container
// engine. Each task runs in a container created from the previous task's
// committed image; tasks whose cache key already names an existing image are
// skipped, so unchanged prefixes of the schedule cost nothing.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"boxcar-cli/internal/cache"
	"boxcar-cli/internal/container"
	"boxcar-cli/internal/fileset"
	"boxcar-cli/pkg/boxfile"
)

// DefaultRepository is the image repository task images are tagged under when
// none is configured.
const DefaultRepository = "boxcar"

// ErrInterrupted aliases the container package's sentinel so callers can test
// a run's error for interruption without importing both packages.
var ErrInterrupted = container.ErrInterrupted

// TaskFailedError reports a task whose command exited nonzero. The command's
// own output has already been streamed, so the message stays short.
type TaskFailedError struct {
	Task   string
	Status container.ExitStatus
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("task %q failed with exit status %d", e.Task, e.Status)
}

type (
	// Option configures a Runner.
	Option func(*Runner)

	// Runner drives a manifest's schedule against one container engine.
	Runner struct {
		engine           container.Engine
		logger           *log.Logger
		repository       string
		force            bool
		readRemoteCache  bool
		writeRemoteCache bool
		lookup           boxfile.LookupFunc
		stdout           io.Writer
		stderr           io.Writer
		hashInputs       func(root string, inputs, excluded []string) (string, error)
	}

	// TaskResult records one scheduled task's outcome.
	TaskResult struct {
		Name   string
		Image  container.ImageRef
		Cached bool
	}

	// RunResult records the outcome of the tasks that completed, in schedule
	// order. On error it covers the tasks finished before the failure.
	RunResult struct {
		Tasks []TaskResult
	}
)

// FinalImage returns the image produced by the last completed task, or the
// empty reference when nothing ran.
func (r *RunResult) FinalImage() container.ImageRef {
	if len(r.Tasks) == 0 {
		return ""
	}
	return r.Tasks[len(r.Tasks)-1].Image
}

// WithLogger sets the logger diagnostics are written to.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithRepository sets the image repository task images are tagged under.
func WithRepository(repository string) Option {
	return func(r *Runner) { r.repository = repository }
}

// WithForce makes every task run even when its cache key names an existing
// image. Completed tasks are still committed, refreshing the cache.
func WithForce(force bool) Option {
	return func(r *Runner) { r.force = force }
}

// WithRemoteCache enables pulling cached task images on a local miss and
// pushing freshly committed ones.
func WithRemoteCache(read, write bool) Option {
	return func(r *Runner) {
		r.readRemoteCache = read
		r.writeRemoteCache = write
	}
}

// WithLookup sets the environment source tasks resolve their variables
// against. Defaults to the process environment.
func WithLookup(lookup boxfile.LookupFunc) Option {
	return func(r *Runner) { r.lookup = lookup }
}

// WithOutput sets the writers task command output is streamed to.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// New creates a Runner executing against the given engine.
func New(engine container.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:     engine,
		logger:     log.Default(),
		repository: DefaultRepository,
		lookup:     os.LookupEnv,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		hashInputs: fileset.Hash,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the schedule for the named task (the manifest default when name
// is empty). Execution is fail-fast: the first environment violation, system
// error, or nonzero task exit aborts the remaining schedule. The returned
// RunResult always covers the tasks that completed, even on error.
func (r *Runner) Run(ctx context.Context, bf *boxfile.Boxfile, name string) (*RunResult, error) {
	schedule, err := bf.Schedule(name)
	if err != nil {
		return &RunResult{}, err
	}

	sourceDir := r.sourceDir(bf)
	result := &RunResult{}
	previous := container.ImageRef(bf.Image)

	for _, taskName := range schedule {
		task := bf.Tasks[taskName]

		env, err := boxfile.ResolveEnvironment(taskName, task, r.lookup)
		if err != nil {
			return result, err
		}

		inputsHash, err := r.hashInputs(sourceDir, task.InputPaths, task.ExcludedInputPaths)
		if err != nil {
			return result, fmt.Errorf("task %q: %w", taskName, err)
		}

		tag := container.ImageRef(cache.ImageTag(string(previous), r.repository, bf, task, inputsHash, env))

		cached, err := r.isCached(ctx, taskName, task, tag)
		if err != nil {
			return result, err
		}
		if cached {
			r.logger.Info("task is cached, skipping", "task", taskName, "image", tag)
			result.Tasks = append(result.Tasks, TaskResult{Name: taskName, Image: tag, Cached: true})
			previous = tag
			continue
		}

		if err := r.executeTask(ctx, bf, taskName, task, sourceDir, previous, tag, env); err != nil {
			return result, err
		}
		result.Tasks = append(result.Tasks, TaskResult{Name: taskName, Image: tag})
		previous = tag
	}

	return result, nil
}

// Shell opens an interactive shell in the given image, with the named task's
// environment, mounts, ports, working directory, and user applied. Meant to be
// called with a RunResult's final image so the shell sees the filesystem the
// schedule produced.
func (r *Runner) Shell(ctx context.Context, bf *boxfile.Boxfile, name string, image container.ImageRef) error {
	if name == "" {
		name = bf.Default
	}
	task, ok := bf.Tasks[name]
	if !ok {
		return &boxfile.UnknownTaskError{Name: name}
	}

	env, err := boxfile.ResolveEnvironment(name, task, r.lookup)
	if err != nil {
		return err
	}

	return r.engine.SpawnShell(ctx, container.ContainerSpec{
		Image:         image,
		SourceDir:     r.sourceDir(bf),
		Environment:   env,
		Mounts:        task.MountPaths,
		MountReadonly: task.MountReadonly,
		Ports:         task.Ports,
		WorkDir:       bf.EffectiveLocation(task),
		User:          bf.EffectiveUser(task),
		ExtraArgs:     task.ExtraEngineArguments,
	})
}

// isCached reports whether the task may be skipped because its cache key
// already names an image, locally or (when enabled) in the remote registry.
func (r *Runner) isCached(ctx context.Context, name string, task *boxfile.Task, image container.ImageRef) (bool, error) {
	if !task.Cache || r.force {
		return false, nil
	}

	exists, err := r.engine.ImageExists(ctx, image)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}
	if !r.readRemoteCache {
		return false, nil
	}
	return r.pullCached(ctx, name, image)
}

// pullCached tries to fetch a cached task image from the remote registry,
// retrying transient failures. A miss just means the task runs; only
// interruption aborts the schedule.
func (r *Runner) pullCached(ctx context.Context, name string, image container.ImageRef) (bool, error) {
	err := container.RetryWithBackoff(ctx, 3, time.Second, func(attempt int) (bool, error) {
		err := r.engine.PullImage(ctx, image)
		if err == nil {
			return false, nil
		}
		if container.Interrupted(err) {
			return false, err
		}
		var opErr *container.OpError
		if errors.As(err, &opErr) && opErr.Kind == container.FailureUserCommand {
			// The registry answered and does not have the image.
			return false, err
		}
		return true, err
	})
	if err == nil {
		r.logger.Info("pulled cached image", "task", name, "image", image)
		return true, nil
	}
	if container.Interrupted(err) {
		return false, err
	}
	r.logger.Debug("remote cache miss", "task", name, "image", image, "err", err)
	return false, nil
}

// executeTask runs one task in a fresh container created from the previous
// image and commits the result under the task's cache key. The container is
// always removed, commit or not.
func (r *Runner) executeTask(
	ctx context.Context,
	bf *boxfile.Boxfile,
	name string,
	task *boxfile.Task,
	sourceDir string,
	from, to container.ImageRef,
	env map[string]string,
) error {
	workDir := bf.EffectiveLocation(task)

	id, err := r.engine.CreateContainer(ctx, container.ContainerSpec{
		Image:         from,
		SourceDir:     sourceDir,
		Environment:   env,
		Mounts:        task.MountPaths,
		MountReadonly: task.MountReadonly,
		Ports:         task.Ports,
		WorkDir:       workDir,
		User:          bf.EffectiveUser(task),
		Command:       bf.EffectiveCommand(task),
		ExtraArgs:     task.ExtraEngineArguments,
	})
	if err != nil {
		return fmt.Errorf("task %q: %w", name, err)
	}
	// Cleanup must survive cancellation, otherwise an interrupt leaks the
	// container.
	defer r.removeContainer(context.WithoutCancel(ctx), id)

	if len(task.InputPaths) > 0 {
		archive, err := inputArchive(sourceDir, task.InputPaths, task.ExcludedInputPaths, workDir)
		if err != nil {
			return fmt.Errorf("task %q: %w", name, err)
		}
		if err := r.engine.CopyInto(ctx, id, archive); err != nil {
			return fmt.Errorf("task %q: %w", name, err)
		}
	}

	r.logger.Info("running task", "task", name)
	status, err := r.engine.StartContainer(ctx, id, r.stdout, r.stderr)
	if err != nil {
		if container.Interrupted(err) {
			// An interrupted task is never committed. Stop the container so
			// the deferred removal does not race a still-running command.
			if stopErr := r.engine.StopContainer(context.WithoutCancel(ctx), id); stopErr != nil {
				r.logger.Warn("failed to stop interrupted container", "container", id, "err", stopErr)
			}
		}
		return fmt.Errorf("task %q: %w", name, err)
	}
	if status != 0 {
		r.salvageOutputs(ctx, id, task, workDir, sourceDir)
		return &TaskFailedError{Task: name, Status: status}
	}

	if len(task.OutputPaths) > 0 {
		if err := r.engine.CopyFrom(ctx, id, task.OutputPaths, workDir, sourceDir); err != nil {
			return fmt.Errorf("task %q: copy outputs: %w", name, err)
		}
	}

	if err := r.engine.CommitContainer(ctx, id, to); err != nil {
		return fmt.Errorf("task %q: %w", name, err)
	}

	if r.writeRemoteCache && task.Cache {
		if err := r.engine.PushImage(ctx, to); err != nil {
			r.logger.Warn("failed to push image to remote cache", "task", name, "image", to, "err", err)
		}
	}

	return nil
}

// salvageOutputs copies a failed task's diagnostic output paths to the host.
// Best effort per path: a path the command never produced must not mask the
// failure itself.
func (r *Runner) salvageOutputs(ctx context.Context, id container.ContainerID, task *boxfile.Task, workDir, destDir string) {
	for _, p := range task.OutputPathsOnFailure {
		if err := r.engine.CopyFrom(ctx, id, []string{p}, workDir, destDir); err != nil {
			r.logger.Debug("could not copy failure output", "path", p, "err", err)
		}
	}
}

func (r *Runner) removeContainer(ctx context.Context, id container.ContainerID) {
	if err := r.engine.RemoveContainer(ctx, id); err != nil {
		r.logger.Warn("failed to remove container", "container", id, "err", err)
	}
}

// sourceDir returns the host directory inputs, outputs, and relative mounts
// resolve against: the directory the manifest was loaded from.
func (r *Runner) sourceDir(bf *boxfile.Boxfile) string {
	if bf.FilePath == "" {
		return "."
	}
	return filepath.Dir(bf.FilePath)
}
