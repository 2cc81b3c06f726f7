// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"boxcar-cli/internal/dag"
	"boxcar-cli/internal/issue"
	"boxcar-cli/pkg/boxfile"
)

// loadManifest loads and validates the manifest at path (boxfile.yaml in the
// working directory when path is empty). Failures come back as ServiceError
// values so every command renders them the same way.
func loadManifest(path string) (*boxfile.Boxfile, error) {
	if path == "" {
		path = boxfile.DefaultFileName
	}

	bf, err := boxfile.Load(path)
	if err != nil {
		return nil, classifyManifestError(path, err)
	}
	return bf, nil
}

// classifyManifestError maps a manifest load failure to the issue catalog
// entry that tells the user how to fix it.
func classifyManifestError(path string, err error) *ServiceError {
	var cycleErr *dag.CycleError

	switch {
	case errors.Is(err, os.ErrNotExist):
		styled := fmt.Sprintf("%s No manifest found at %s\n", errorIcon, TaskStyle.Render(path))
		return newServiceError(err, issue.BoxfileNotFoundId, styled)

	case errors.As(err, &cycleErr):
		styled := fmt.Sprintf("%s %s\n", errorIcon, err)
		return newServiceError(err, issue.DependencyCycleId, styled)

	case errors.Is(err, boxfile.ErrMissingDependencies):
		styled := fmt.Sprintf("%s %s\n", errorIcon, err)
		return newServiceError(err, issue.MissingDependenciesId, styled)

	default:
		// Parse failures and per-task validation failures share one catalog
		// entry; the underlying error already names the field and value.
		styled := fmt.Sprintf("%s %s\n", errorIcon, err)
		return newServiceError(err, issue.BoxfileParseErrorId, styled)
	}
}
