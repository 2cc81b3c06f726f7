// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests verify Go struct mapstructure tags match CUE schema field names.
// They catch misalignments at CI time, preventing silent parsing failures.

// extractCUEFields returns the top-level field names of a CUE struct value.
func extractCUEFields(t *testing.T, val cue.Value) map[string]bool {
	t.Helper()

	fields := make(map[string]bool)
	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}
	for iter.Next() {
		name := iter.Selector().Unquoted()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, "#") {
			continue
		}
		fields[name] = true
	}
	return fields
}

// extractStructTags returns the mapstructure tag of every field of a struct type.
func extractStructTags(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	tags := make(map[string]bool)
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			t.Fatalf("field %s has no mapstructure tag", typ.Field(i).Name)
		}
		tags[strings.Split(tag, ",")[0]] = true
	}
	return tags
}

func compileConfigSchema(t *testing.T) cue.Value {
	t.Helper()

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile config schema: %v", schema.Err())
	}
	val := schema.LookupPath(cue.ParsePath("#Config"))
	if !val.Exists() {
		t.Fatal("schema has no #Config definition")
	}
	return val
}

func TestConfigStructMatchesSchema(t *testing.T) {
	t.Parallel()

	schemaFields := extractCUEFields(t, compileConfigSchema(t))
	structTags := extractStructTags(t, reflect.TypeOf(Config{}))

	for field := range schemaFields {
		if !structTags[field] {
			t.Errorf("schema field %q has no matching Config struct tag", field)
		}
	}
	for tag := range structTags {
		if !schemaFields[tag] {
			t.Errorf("Config struct tag %q has no matching schema field", tag)
		}
	}
}

func TestUIConfigStructMatchesSchema(t *testing.T) {
	t.Parallel()

	ui := compileConfigSchema(t).LookupPath(cue.ParsePath("ui"))
	if !ui.Exists() {
		t.Fatal("schema has no ui field")
	}

	schemaFields := extractCUEFields(t, ui)
	structTags := extractStructTags(t, reflect.TypeOf(UIConfig{}))

	for field := range schemaFields {
		if !structTags[field] {
			t.Errorf("schema field %q has no matching UIConfig struct tag", field)
		}
	}
	for tag := range structTags {
		if !schemaFields[tag] {
			t.Errorf("UIConfig struct tag %q has no matching schema field", tag)
		}
	}
}
