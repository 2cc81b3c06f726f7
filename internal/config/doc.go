// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/boxcar/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/boxcar/config.cue on macOS, %APPDATA%\boxcar\config.cue
// on Windows), with BOXCAR_-prefixed environment variables taking precedence over file
// values. The package provides type-safe access to the container engine selection, the
// image repository, remote cache toggles, and UI settings.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
