// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"boxcar-cli/internal/container"
)

// taskTagPrefix marks image tags produced by task cache keys.
const taskTagPrefix = "task-"

var (
	cleanRepo   string
	cleanAll    bool
	cleanEngine string

	// cleanCmd removes cached task images
	cleanCmd = &cobra.Command{
		Use:   "clean",
		Short: "Remove cached task images",
		Long: `Remove cached task images for the configured repository.

By default only images whose tag carries the task cache prefix are
removed. With --all, every image in the repository is removed,
including manually tagged ones.

Examples:
  boxcar clean                  Remove cached task images for the default repository
  boxcar clean --repo myproj    Remove cached task images for 'myproj'
  boxcar clean --all            Remove every image in the repository`,
		Args: cobra.NoArgs,
		RunE: runClean,
	}
)

func init() {
	cleanCmd.Flags().StringVar(&cleanRepo, "repo", "", "image repository to clean")
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "remove every image in the repository, not just cached task images")
	cleanCmd.Flags().StringVar(&cleanEngine, "engine", "", "container engine (docker, podman, or auto)")
}

func runClean(cmd *cobra.Command, args []string) error {
	engine, err := resolveEngine(cleanEngine, rootConfig)
	if err != nil {
		return failWithServiceError(cmd, err, 1)
	}

	repository := rootConfig.Repository.String()
	if cleanRepo != "" {
		repository = cleanRepo
	}

	removed, err := cleanImages(cmd.Context(), engine, repository, cleanAll, cmd.OutOrStdout())
	if err != nil {
		return failWithServiceError(cmd, classifyRunError(err), 1)
	}

	if removed == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No cached images found for repository %s\n", TaskStyle.Render(repository))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %d image(s)\n", successIcon, removed)
	return nil
}

// cleanImages removes the repository's task images and returns how many were
// removed. When all is false, only images whose tag carries the task cache
// prefix are touched.
func cleanImages(ctx context.Context, engine container.Engine, repository string, all bool, stdout io.Writer) (int, error) {
	images, err := engine.ListImages(ctx, repository)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, image := range images {
		if !all && !isTaskImage(image) {
			continue
		}
		if err := engine.RemoveImage(ctx, image); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", image, err)
		}
		fmt.Fprintf(stdout, "%s %s\n", successIcon, VerboseStyle.Render(string(image)))
		removed++
	}

	return removed, nil
}

// isTaskImage reports whether the reference's tag was produced by a task
// cache key.
func isTaskImage(image container.ImageRef) bool {
	_, tag, ok := strings.Cut(string(image), ":")
	return ok && strings.HasPrefix(tag, taskTagPrefix)
}
