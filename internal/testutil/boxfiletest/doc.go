// SPDX-License-Identifier: MPL-2.0

// Package boxfiletest provides test helpers for building boxfile.Boxfile and
// boxfile.Task values in code.
//
// This package is separate from testutil so that pkg/boxfile tests can use it
// without an import cycle through testutil.
//
// # Usage
//
//	import "boxcar-cli/internal/testutil/boxfiletest"
//
//	bf := boxfiletest.NewBoxfile(
//	    boxfiletest.WithTask("build", boxfiletest.WithCommand("make all")),
//	)
package boxfiletest
