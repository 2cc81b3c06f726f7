// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for boxcar.
//
// Commands are thin Cobra handlers: they parse flags, load the manifest and
// configuration, and delegate to the runner, container, and boxfile packages.
// Errors flow back as ServiceError values carrying an optional issue catalog
// ID and pre-styled message, rendered in one place before exiting.
package cmd
