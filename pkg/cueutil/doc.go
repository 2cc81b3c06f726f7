// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// The package consolidates the 3-step parsing pattern used by the boxfile and
// config packages:
//
//  1. Compile the embedded schema
//  2. Compile (or extract, for YAML sources) the user data and unify with the schema
//  3. Validate and decode to a Go struct
//
// Closed CUE definitions make the schema strict: unknown fields in the user's
// document are rejected during unification.
//
// # Usage
//
//	//go:embed boxfile_schema.cue
//	var schemaStr string
//
//	result, err := cueutil.ParseYAMLAndDecode[Boxfile](
//	    schemaStr,
//	    userFileBytes,
//	    "#Boxfile",
//	    cueutil.WithFilename("boxfile.yaml"),
//	)
//	if err != nil {
//	    return nil, err // Error includes the CUE path for debugging
//	}
//	return result.Value, nil
package cueutil
