// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"fmt"
	"sort"

	"boxcar-cli/pkg/boxfile"
)

// ImageTag derives the cache key for one task as a full image reference,
// "{repository}:task-{digest}". The digest folds, in a fixed order, everything
// that can change the task's result: the previous task's image (chaining keys
// so upstream changes invalidate downstream tasks), the resolved environment
// in sorted-by-name order, the input fileset hash, and the effective location,
// user, and command.
//
// A task with no declared environment variables, no input paths, and an empty
// effective command performs no observable work, so its key is defined to be
// the previous image verbatim.
//
// The "task-" prefix keeps the tag from being a bare 64-character hex string,
// which registries reject as it is indistinguishable from an image ID. See
// https://github.com/moby/moby/issues/20972.
func ImageTag(previousImage, repository string, bf *boxfile.Boxfile, task *boxfile.Task, inputFilesHash string, environment map[string]string) string {
	command := bf.EffectiveCommand(task)

	if len(task.Environment) == 0 && len(task.InputPaths) == 0 && command == "" {
		return previousImage
	}

	key := seed()
	key = Combine(key, previousImage)

	// The environment contributes through a sub-hash built in sorted name
	// order, so declaration order never affects the result. Values come from
	// the resolved environment, which validation guarantees is complete.
	environmentHash := ""
	variables := make([]string, 0, len(task.Environment))
	for variable := range task.Environment {
		variables = append(variables, variable)
	}
	sort.Strings(variables)
	for _, variable := range variables {
		environmentHash = Combine(environmentHash, variable)
		environmentHash = Combine(environmentHash, environment[variable])
	}
	key = Combine(key, environmentHash)

	key = Combine(key, inputFilesHash)
	key = Combine(key, bf.EffectiveLocation(task))
	key = Combine(key, bf.EffectiveUser(task))
	key = Combine(key, command)

	return fmt.Sprintf("%s:task-%s", repository, key)
}
