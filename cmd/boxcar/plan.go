// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"boxcar-cli/internal/issue"
	"boxcar-cli/pkg/boxfile"
)

type (
	// taskPlan is the schedule for one requested task, in execution order.
	taskPlan struct {
		Task     string     `yaml:"task"`
		Schedule []planStep `yaml:"schedule"`
	}

	// planStep is one scheduled task with the command it would run.
	planStep struct {
		Name         string   `yaml:"name"`
		Dependencies []string `yaml:"dependencies,omitempty"`
		Command      string   `yaml:"command"`
	}
)

var (
	planFile   string
	planFormat string

	// planCmd prints the schedule without executing anything
	planCmd = &cobra.Command{
		Use:   "plan [task]",
		Short: "Show the execution schedule for a task",
		Long: `Show the execution schedule for a task without running anything.

The schedule is the task's transitive dependency closure in execution
order: dependencies before dependents, each task listed once. Planning
validates the manifest and detects dependency cycles, so it doubles as
a dry check before 'boxcar run'.

Examples:
  boxcar plan                   Plan the default task
  boxcar plan build             Plan the 'build' task
  boxcar plan --format yaml ci  Print the schedule as YAML`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPlan,
	}
)

func init() {
	planCmd.Flags().StringVarP(&planFile, "file", "f", "", "manifest path (default boxfile.yaml)")
	planCmd.Flags().StringVar(&planFormat, "format", "text", "output format (text or yaml)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	if planFormat != "text" && planFormat != "yaml" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'yaml'", planFormat)
	}

	taskName := ""
	if len(args) > 0 {
		taskName = args[0]
	}

	bf, err := loadManifest(planFile)
	if err != nil {
		return failWithServiceError(cmd, err, 1)
	}

	plan, err := buildPlan(bf, taskName)
	if err != nil {
		return failWithServiceError(cmd, classifyPlanError(err), 1)
	}

	if planFormat == "yaml" {
		return writePlanYAML(cmd.OutOrStdout(), plan)
	}
	writePlanText(cmd.OutOrStdout(), plan)
	return nil
}

// buildPlan computes the schedule for the named task (the manifest default
// when empty) and pairs each step with its effective command.
func buildPlan(bf *boxfile.Boxfile, name string) (*taskPlan, error) {
	schedule, err := bf.Schedule(name)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = bf.Default
	}

	plan := &taskPlan{Task: name}
	for _, taskName := range schedule {
		task := bf.Tasks[taskName]
		plan.Schedule = append(plan.Schedule, planStep{
			Name:         taskName,
			Dependencies: task.Dependencies,
			Command:      bf.EffectiveCommand(task),
		})
	}
	return plan, nil
}

func classifyPlanError(err error) *ServiceError {
	var (
		unknownTask *boxfile.UnknownTaskError
		noTask      *boxfile.NoTaskError
	)
	if errors.As(err, &unknownTask) || errors.As(err, &noTask) {
		styled := fmt.Sprintf("%s %s\n", errorIcon, err)
		return newServiceError(err, issue.TaskNotFoundId, styled)
	}

	styled := fmt.Sprintf("%s %s\n", errorIcon, err)
	return newServiceError(err, 0, styled)
}

func writePlanText(stdout io.Writer, plan *taskPlan) {
	fmt.Fprintln(stdout, TitleStyle.Render("Schedule for ")+TaskStyle.Render(plan.Task))
	fmt.Fprintln(stdout)

	for i, step := range plan.Schedule {
		fmt.Fprintf(stdout, "  %d. %s\n", i+1, TaskStyle.Render(step.Name))
		if len(step.Dependencies) > 0 {
			fmt.Fprintf(stdout, "     %s %v\n", SubtitleStyle.Render("depends on:"), step.Dependencies)
		}
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s %d task(s) scheduled\n", successIcon, len(plan.Schedule))
}

func writePlanYAML(stdout io.Writer, plan *taskPlan) error {
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return enc.Close()
}
