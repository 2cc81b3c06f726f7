// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"boxcar-cli/pkg/boxfile"
)

// starterBoxfile is the manifest written by `boxcar init`.
const starterBoxfile = `# boxcar manifest. Tasks run inside containers; each task's result is
# committed as an image and reused while its inputs are unchanged.

image: alpine:3.20
default: build

tasks:
  prepare:
    description: Install build tooling
    cache: true
    command: apk add --no-cache build-base

  build:
    description: Build the project
    dependencies:
      - prepare
    cache: true
    # Copy sources in and results out by listing relative paths:
    # input_paths:
    #   - src
    # output_paths:
    #   - out
    command: |
      echo "replace this with your build"
`

var (
	initForce bool

	// initCmd creates a new manifest
	initCmd = &cobra.Command{
		Use:   "init [filename]",
		Short: "Create a new boxfile.yaml in the current directory",
		Long: `Create a new boxfile.yaml in the current directory with example tasks.

This command generates a starter manifest with sample tasks to help
you get started quickly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing manifest")
}

func runInit(cmd *cobra.Command, args []string) error {
	filename := boxfile.DefaultFileName
	if len(args) > 0 {
		filename = args[0]
	}

	// Check if file exists
	if _, err := os.Stat(filename); err == nil && !initForce {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	if err := os.WriteFile(filename, []byte(starterBoxfile), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	stdout := cmd.OutOrStdout()
	absPath, _ := filepath.Abs(filename)
	fmt.Fprintf(stdout, "%s Created %s\n", successIcon, absPath)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintln(stdout, "  1. Edit the manifest to add your tasks")
	fmt.Fprintln(stdout, "  2. Run 'boxcar list' to see available tasks")
	fmt.Fprintln(stdout, "  3. Run 'boxcar run <task>' to execute a task")

	return nil
}
