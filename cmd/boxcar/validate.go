// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/syntax"

	"boxcar-cli/pkg/boxfile"
)

type (
	// lintFinding is one shell-syntax problem in a task's effective command.
	lintFinding struct {
		Task    string
		Message string
	}
)

var (
	validateFile   string
	validateStrict bool

	// validateCmd checks the manifest without running anything
	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate the manifest",
		Long: `Validate the manifest without running anything.

Validation covers the manifest schema, per-task structural rules,
dependency existence, and cycle detection. Each task's effective
command (prefix plus command) is additionally checked for shell syntax
errors; those findings are warnings unless --strict is given.

Examples:
  boxcar validate                Validate ./boxfile.yaml
  boxcar validate -f ci/box.yaml Validate a specific manifest
  boxcar validate --strict       Treat shell-syntax findings as errors`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
)

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "manifest path (default boxfile.yaml)")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat shell-syntax findings as errors")
}

func runValidate(cmd *cobra.Command, args []string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	path := validateFile
	if path == "" {
		path = boxfile.DefaultFileName
	}

	fmt.Fprintln(stdout, TitleStyle.Render("Manifest Validation"))
	fmt.Fprintf(stdout, "  Path: %s\n", TaskStyle.Render(path))
	fmt.Fprintln(stdout)

	bf, err := loadManifest(path)
	if err != nil {
		fmt.Fprintf(stdout, "%s Manifest validation failed\n", errorIcon)
		fmt.Fprintln(stdout)
		return failWithServiceError(cmd, err, 1)
	}

	fmt.Fprintf(stdout, "%s Schema validation passed\n", successIcon)
	fmt.Fprintf(stdout, "%s Task validation passed\n", successIcon)
	fmt.Fprintf(stdout, "%s Dependency graph is acyclic\n", successIcon)

	findings := lintTaskCommands(bf)
	if len(findings) > 0 {
		fmt.Fprintln(stderr)
		fmt.Fprintf(stderr, "%s %d shell-syntax finding(s):\n", warningIcon, len(findings))
		fmt.Fprintln(stderr)
		for i, finding := range findings {
			fmt.Fprintf(stderr, "  %d. %s: %s\n", i+1, TaskStyle.Render(finding.Task), finding.Message)
		}

		if validateStrict {
			fmt.Fprintln(stderr)
			fmt.Fprintf(stderr, "%s Validation failed (--strict)\n", errorIcon)
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return &ExitError{Code: 1}
		}
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s Manifest is valid (%d task(s))\n", successIcon, len(bf.Tasks))
	return nil
}

// lintTaskCommands parses each task's effective command with a POSIX-ish shell
// parser and collects syntax errors. Tasks with an empty effective command are
// skipped; the runner treats those as no-ops.
func lintTaskCommands(bf *boxfile.Boxfile) []lintFinding {
	var findings []lintFinding
	for _, name := range bf.TaskNames() {
		command := bf.EffectiveCommand(bf.Tasks[name])
		if command == "" {
			continue
		}
		if err := lintCommand(name, command); err != nil {
			findings = append(findings, lintFinding{Task: name, Message: err.Error()})
		}
	}
	return findings
}

// lintCommand checks one shell command for syntax errors. The name is used as
// the file name in parser diagnostics.
func lintCommand(name, command string) error {
	_, err := syntax.NewParser().Parse(strings.NewReader(command), name)
	return err
}
