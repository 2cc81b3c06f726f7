// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"boxcar-cli/internal/config"
	"boxcar-cli/internal/container"
	"boxcar-cli/internal/issue"
)

// resolveEngine picks the container engine per the --engine flag, falling back
// to the configured engine when the flag is empty. "auto" probes for whichever
// engine is installed, preferring Podman.
func resolveEngine(flagValue string, cfg *config.Config) (container.Engine, error) {
	selected := config.ContainerEngine(flagValue)
	if flagValue == "" {
		selected = cfg.ContainerEngine
	}

	if valid, errs := selected.IsValid(); !valid {
		return nil, errs[0]
	}

	var (
		engine container.Engine
		err    error
	)
	switch selected {
	case config.ContainerEngineAuto:
		engine, err = container.AutoDetectEngine()
	case config.ContainerEngineDocker:
		engine, err = container.NewEngine(container.EngineTypeDocker)
	case config.ContainerEnginePodman:
		engine, err = container.NewEngine(container.EngineTypePodman)
	}
	if err != nil {
		styled := fmt.Sprintf("%s %s\n", errorIcon, err)
		return nil, newServiceError(err, issue.ContainerEngineNotFoundId, styled)
	}

	return engine, nil
}
