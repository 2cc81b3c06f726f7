// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"os/exec"

	"boxcar-cli/pkg/platform"
)

// hostExecCommand returns an ExecCommandFunc for the given sandbox type.
// Inside an application sandbox (Flatpak, Snap) the container engine runs on
// the host, not in the sandbox, so engine commands must be spawned through the
// sandbox's host escape mechanism. Outside a sandbox this is plain
// exec.CommandContext.
func hostExecCommand(sandbox platform.SandboxType) ExecCommandFunc {
	spawn := platform.SpawnCommandFor(sandbox)
	if spawn == "" {
		return exec.CommandContext
	}
	spawnArgs := platform.SpawnArgsFor(sandbox)

	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		full := make([]string, 0, len(spawnArgs)+1+len(args))
		full = append(full, spawnArgs...)
		full = append(full, name)
		full = append(full, args...)
		return exec.CommandContext(ctx, spawn, full...)
	}
}
