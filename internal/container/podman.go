// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// PodmanEngine implements the Engine interface using the Podman CLI.
// It embeds BaseCLIEngine for the shared lifecycle and image operations.
type PodmanEngine struct {
	*BaseCLIEngine
}

// NewPodmanEngine creates a new Podman engine.
// Rootless Podman maps the host user to the container's root by default, which
// breaks bind-mount ownership; --userns=keep-id is injected into every
// create/run invocation to keep file ownership consistent.
func NewPodmanEngine(opts ...BaseCLIEngineOption) *PodmanEngine {
	path, _ := exec.LookPath("podman")

	allOpts := append([]BaseCLIEngineOption{
		WithName(string(EngineTypePodman)),
		WithArgsTransformer(injectKeepID),
	}, opts...)

	return &PodmanEngine{
		BaseCLIEngine: NewBaseCLIEngine(path, allOpts...),
	}
}

// Available checks if Podman is available.
func (e *PodmanEngine) Available() bool {
	if e.BinaryPath() == "" {
		return false
	}
	cmd := e.CreateCommand(context.Background(), "version", "--format", "{{.Version}}")
	return cmd.Run() == nil
}

// Version returns the Podman version.
func (e *PodmanEngine) Version(ctx context.Context) (string, error) {
	out, err := e.RunCommandWithOutput(ctx, "version", "--format", "{{.Version}}")
	if err != nil {
		return "", fmt.Errorf("failed to get podman version: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// injectKeepID inserts --userns=keep-id after the create/run subcommand.
// Arguments built by BaseCLIEngine always start with "container" followed by
// the subcommand; anything else is passed through unchanged.
func injectKeepID(args []string) []string {
	if len(args) < 2 || args[0] != "container" {
		return args
	}
	switch args[1] {
	case "create", "run":
	default:
		return args
	}

	out := make([]string, 0, len(args)+1)
	out = append(out, args[:2]...)
	out = append(out, "--userns=keep-id")
	out = append(out, args[2:]...)
	return out
}
