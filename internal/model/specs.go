// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"

	"github.com/specialistvlad/buildgrid/internal/filtered"
)

// SourceSpec is one group of sources compiled together with the same
// defines and flags.
type SourceSpec struct {
	Srcs     filtered.Map[string] `msgpack:"srcs" yaml:"srcs"`
	Excludes filtered.Map[string] `msgpack:"excludes" yaml:"excludes"`
	Headers  filtered.Map[string] `msgpack:"headers" yaml:"headers"`
	Defines  filtered.Map[string] `msgpack:"defines" yaml:"defines"`
	Flags    filtered.Map[string] `msgpack:"flags" yaml:"flags"`
}

// NewSourceSpec reads a source group. A bare string is shorthand for a group
// with that single source pattern.
func NewSourceSpec(raw any) (*SourceSpec, error) {
	if s, ok := raw.(string); ok {
		raw = map[string]any{"srcs": []any{s}}
	}
	attrs, err := asAttrs("source spec", raw)
	if err != nil {
		return nil, err
	}

	spec := &SourceSpec{}
	fields := []struct {
		key string
		dst *filtered.Map[string]
	}{
		{"srcs", &spec.Srcs},
		{"excludes", &spec.Excludes},
		{"headers", &spec.Headers},
		{"defines", &spec.Defines},
		{"flags", &spec.Flags},
	}
	for _, f := range fields {
		m, err := filteredStrings("source spec", "", attrs, f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = m
	}
	return spec, nil
}

// ExportSpec is what a target publishes to its dependents.
type ExportSpec struct {
	// Headers maps header input templates to their exported names.
	Headers       filtered.Map[*NameMap] `msgpack:"headers" yaml:"headers"`
	Defines       filtered.Map[string]   `msgpack:"defines" yaml:"defines"`
	CompilerFlags filtered.Map[string]   `msgpack:"compiler_flags" yaml:"compiler_flags"`
	LinkerFlags   filtered.Map[string]   `msgpack:"linker_flags" yaml:"linker_flags"`
}

// NewExportSpec reads an export declaration.
func NewExportSpec(raw any) (*ExportSpec, error) {
	attrs, err := asAttrs("export spec", raw)
	if err != nil {
		return nil, err
	}

	headers, err := filtered.Wrap(attrs["headers"], NewTemplateMap)
	if err != nil {
		return nil, fmt.Errorf("export headers: %w", err)
	}
	spec := &ExportSpec{Headers: headers}
	if spec.Defines, err = filteredStrings("export spec", "", attrs, "defines"); err != nil {
		return nil, err
	}
	if spec.CompilerFlags, err = filteredStrings("export spec", "", attrs, "compiler_flags"); err != nil {
		return nil, err
	}
	if spec.LinkerFlags, err = filteredStrings("export spec", "", attrs, "linker_flags"); err != nil {
		return nil, err
	}
	return spec, nil
}
