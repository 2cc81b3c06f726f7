// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"boxcar-cli/pkg/boxfile"
)

var (
	listFile string

	// listCmd lists the manifest's tasks
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List tasks in the manifest",
		Long: `List the manifest's tasks in declaration order, with their
descriptions and dependencies. The default task is marked.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
)

func init() {
	listCmd.Flags().StringVarP(&listFile, "file", "f", "", "manifest path (default boxfile.yaml)")
}

func runList(cmd *cobra.Command, args []string) error {
	bf, err := loadManifest(listFile)
	if err != nil {
		return failWithServiceError(cmd, err, 1)
	}

	writeTaskList(cmd.OutOrStdout(), bf)
	return nil
}

func writeTaskList(stdout io.Writer, bf *boxfile.Boxfile) {
	fmt.Fprintln(stdout, TitleStyle.Render("Tasks")+SubtitleStyle.Render(" (base image: "+bf.Image+")"))
	fmt.Fprintln(stdout)

	names := bf.TaskNames()
	if len(names) == 0 {
		fmt.Fprintln(stdout, SubtitleStyle.Render("  (no tasks defined)"))
		return
	}

	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	for _, name := range names {
		task := bf.Tasks[name]

		marker := " "
		if name == bf.Default {
			marker = SuccessStyle.Render("*")
		}

		padded := name + strings.Repeat(" ", width-len(name))
		line := fmt.Sprintf("%s %s", marker, TaskStyle.Render(padded))
		if task.Description != "" {
			line += "  " + task.Description
		}
		if len(task.Dependencies) > 0 {
			line += "  " + SubtitleStyle.Render(fmt.Sprintf("(after %s)", strings.Join(task.Dependencies, ", ")))
		}
		fmt.Fprintln(stdout, line)
	}

	if bf.Default != "" {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, SubtitleStyle.Render("* default task"))
	}
}
