// SPDX-License-Identifier: MPL-2.0

package boxfile

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"

	"boxcar-cli/pkg/cueutil"
)

//go:embed boxfile_schema.cue
var boxfileSchema []byte

// DefaultFileName is the manifest file name looked up in the working directory
// when no path is given.
const DefaultFileName = "boxfile.yaml"

// Load reads, parses, and validates the manifest at path.
func Load(path string) (*Boxfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	return Parse(data, path)
}

// Parse parses and validates a manifest document. The document is unified with
// the embedded CUE schema, so unknown fields are rejected and defaults for
// omitted fields are applied before decoding. path is used in error messages
// and recorded as the Boxfile's FilePath.
func Parse(data []byte, path string) (*Boxfile, error) {
	result, err := cueutil.ParseYAMLAndDecode[Boxfile](
		boxfileSchema, data, "#Boxfile",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}

	bf := result.Value
	bf.FilePath = path
	bf.SetTaskOrder(taskOrder(data))

	if err := bf.Validate(); err != nil {
		return nil, err
	}
	return bf, nil
}

// taskOrder extracts the task names in document order. CUE decodes tasks into
// a Go map, which loses ordering, so the order is recovered from the YAML node
// tree directly. Returns nil on any irregularity; Parse has already proven the
// document well formed, and TaskNames falls back to map order regardless.
func taskOrder(data []byte) []string {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}

	// Mapping node content alternates key, value.
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "tasks" {
			continue
		}
		tasks := root.Content[i+1]
		if tasks.Kind != yaml.MappingNode {
			return nil
		}
		names := make([]string, 0, len(tasks.Content)/2)
		for j := 0; j+1 < len(tasks.Content); j += 2 {
			names = append(names, tasks.Content[j].Value)
		}
		return names
	}
	return nil
}
