// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"boxcar-cli/internal/issue"
	"boxcar-cli/internal/runner"
	"boxcar-cli/pkg/boxfile"
)

// exitCodeInterrupted mirrors the shell convention for SIGINT (128 + 2).
const exitCodeInterrupted = 130

var (
	runFile             string
	runRepo             string
	runForce            bool
	runShell            bool
	runReadRemoteCache  bool
	runWriteRemoteCache bool
	runEngine           string

	// runCmd executes a task's schedule
	runCmd = &cobra.Command{
		Use:   "run [task]",
		Short: "Run a task and its dependencies",
		Long: `Run a task and everything it depends on, each inside a container.

The schedule is the task's transitive dependency closure, dependencies
first. Each task runs in a container created from the previous task's
committed image; tasks whose cache key already names an existing image
are skipped. Without a task argument, the manifest's default task runs.

Examples:
  boxcar run                  Run the default task
  boxcar run build            Run 'build' and its dependencies
  boxcar run --force build    Re-run everything, ignoring the cache
  boxcar run --shell test     Run 'test', then open a shell in its image`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRun,
	}
)

func init() {
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "manifest path (default boxfile.yaml)")
	runCmd.Flags().StringVar(&runRepo, "repo", "", "image repository task images are tagged under")
	runCmd.Flags().BoolVar(&runForce, "force", false, "run every task even when cached")
	runCmd.Flags().BoolVar(&runShell, "shell", false, "open an interactive shell in the final image after the run")
	runCmd.Flags().BoolVar(&runReadRemoteCache, "read-remote-cache", false, "pull cached task images from the remote registry")
	runCmd.Flags().BoolVar(&runWriteRemoteCache, "write-remote-cache", false, "push committed task images to the remote registry")
	runCmd.Flags().StringVar(&runEngine, "engine", "", "container engine (docker, podman, or auto)")
}

func runRun(cmd *cobra.Command, args []string) error {
	taskName := ""
	if len(args) > 0 {
		taskName = args[0]
	}

	bf, err := loadManifest(runFile)
	if err != nil {
		return failWithServiceError(cmd, err, 1)
	}

	engine, err := resolveEngine(runEngine, rootConfig)
	if err != nil {
		return failWithServiceError(cmd, err, 1)
	}

	r := runner.New(engine, runnerOptions(cmd)...)

	result, err := r.Run(cmd.Context(), bf, taskName)
	printRunSummary(cmd, result)
	if err != nil {
		return failWithServiceError(cmd, classifyRunError(err), runExitCode(err))
	}

	if runShell {
		if err := r.Shell(cmd.Context(), bf, taskName, result.FinalImage()); err != nil {
			return failWithServiceError(cmd, classifyRunError(err), runExitCode(err))
		}
	}

	return nil
}

// runnerOptions assembles the runner configuration: config file values first,
// overridden by whichever flags were set on the command line.
func runnerOptions(cmd *cobra.Command) []runner.Option {
	logger := log.NewWithOptions(os.Stderr, log.Options{})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	repository := rootConfig.Repository.String()
	if runRepo != "" {
		repository = runRepo
	}

	readCache := rootConfig.ReadRemoteCache
	if cmd.Flags().Changed("read-remote-cache") {
		readCache = runReadRemoteCache
	}
	writeCache := rootConfig.WriteRemoteCache
	if cmd.Flags().Changed("write-remote-cache") {
		writeCache = runWriteRemoteCache
	}

	return []runner.Option{
		runner.WithLogger(logger),
		runner.WithRepository(repository),
		runner.WithForce(runForce),
		runner.WithRemoteCache(readCache, writeCache),
	}
}

// printRunSummary prints one line per completed task. Partial results from a
// failed run are still shown so the user knows where the schedule stopped.
func printRunSummary(cmd *cobra.Command, result *runner.RunResult) {
	if result == nil || len(result.Tasks) == 0 {
		return
	}

	stdout := cmd.OutOrStdout()
	fmt.Fprintln(stdout)
	for _, task := range result.Tasks {
		icon, verb := successIcon, "built"
		if task.Cached {
			icon, verb = cachedIcon, "cached"
		}
		fmt.Fprintf(stdout, "%s %s %s %s\n", icon, TaskStyle.Render(task.Name), verb, VerboseStyle.Render(string(task.Image)))
	}
}

// classifyRunError maps a run failure to the issue catalog entry that tells
// the user how to fix it. Manifest load errors are classified earlier; this
// covers scheduling and execution failures.
func classifyRunError(err error) *ServiceError {
	var (
		svcErr      *ServiceError
		taskFailed  *runner.TaskFailedError
		unknownTask *boxfile.UnknownTaskError
		noTask      *boxfile.NoTaskError
	)

	switch {
	case errors.As(err, &svcErr):
		return svcErr

	case errors.Is(err, runner.ErrInterrupted):
		styled := fmt.Sprintf("%s Interrupted\n", warningIcon)
		return newServiceError(err, 0, styled)

	case errors.As(err, &taskFailed):
		styled := fmt.Sprintf("%s Task %s failed with exit status %d\n",
			errorIcon, TaskStyle.Render(taskFailed.Task), taskFailed.Status)
		return newServiceError(err, issue.TaskFailedId, styled)

	case errors.As(err, &unknownTask), errors.As(err, &noTask):
		styled := fmt.Sprintf("%s %s\n", errorIcon, err)
		return newServiceError(err, issue.TaskNotFoundId, styled)

	case errors.Is(err, boxfile.ErrMissingEnvironment):
		styled := fmt.Sprintf("%s %s\n", errorIcon, err)
		return newServiceError(err, issue.MissingEnvironmentId, styled)

	case errors.Is(err, fs.ErrPermission):
		styled := fmt.Sprintf("%s %s\n", errorIcon, err)
		return newServiceError(err, issue.PermissionDeniedId, styled)

	default:
		styled := fmt.Sprintf("%s %s\n", errorIcon, err)
		return newServiceError(err, 0, styled)
	}
}

// runExitCode picks the process exit code for a run failure: the task's own
// exit status when its command failed, 130 on interrupt, 1 otherwise.
func runExitCode(err error) int {
	if errors.Is(err, runner.ErrInterrupted) {
		return exitCodeInterrupted
	}

	var taskFailed *runner.TaskFailedError
	if errors.As(err, &taskFailed) && taskFailed.Status > 0 {
		return int(taskFailed.Status)
	}
	return 1
}

// failWithServiceError renders the error and converts it to an ExitError so
// Execute exits with the right code without Cobra re-printing the message.
func failWithServiceError(cmd *cobra.Command, err error, code int) error {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(cmd.ErrOrStderr(), svcErr)
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", errorIcon, formatErrorForDisplay(err, verbose))
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: code, Err: err}
}
