// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"

	"github.com/specialistvlad/buildgrid/internal/descriptor"
	"github.com/specialistvlad/buildgrid/internal/filtered"
	"github.com/specialistvlad/buildgrid/internal/quintet"
)

// Tool is a compiler, linker or archiver binding.
type Tool struct {
	Executable  string                 `msgpack:"executable" yaml:"executable"`
	Flags       filtered.Map[string]   `msgpack:"flags" yaml:"flags"`
	Command     filtered.Map[string]   `msgpack:"command" yaml:"command"`
	NameMapping filtered.Map[*NameMap] `msgpack:"name_mapping" yaml:"name_mapping"`
	// Defines is only used by compilers.
	Defines filtered.Map[string] `msgpack:"defines" yaml:"defines"`
}

// Toolchain binds tools to the quintets it can serve.
type Toolchain struct {
	Name     string            `msgpack:"name"`
	Quintets []quintet.Quintet `msgpack:"quintets"`
	Compiler *Tool             `msgpack:"compiler"`
	Linker   *Tool             `msgpack:"linker"`
	Archiver *Tool             `msgpack:"archiver"`
}

// NewToolchain reads a toolchain record. Each tool is either a nested object
// (`compiler = { name = "cc", ... }`) or flat prefixed attributes
// (`compiler_name`, `compiler_flags`, `compiler_command`,
// `compiler_name_mapping`); compiler defines may also be given as `defines`.
func NewToolchain(rec descriptor.Record) (*Toolchain, error) {
	name, err := stringAttr(descriptor.KindToolchain, rec.Attrs, "name", true)
	if err != nil {
		return nil, err
	}
	quintets, err := quintetList(descriptor.KindToolchain, name, rec.Get("quintets"))
	if err != nil {
		return nil, err
	}

	tc := &Toolchain{Name: name, Quintets: quintets}
	if tc.Compiler, err = newTool(name, rec.Attrs, "compiler"); err != nil {
		return nil, err
	}
	if tc.Linker, err = newTool(name, rec.Attrs, "linker"); err != nil {
		return nil, err
	}
	if tc.Archiver, err = newTool(name, rec.Attrs, "archiver"); err != nil {
		return nil, err
	}
	return tc, nil
}

func newTool(toolchain string, attrs map[string]any, role string) (*Tool, error) {
	var toolAttrs map[string]any
	if nested, ok := attrs[role].(map[string]any); ok {
		toolAttrs = nested
	} else {
		toolAttrs = map[string]any{
			"name":         attrs[role+"_name"],
			"flags":        attrs[role+"_flags"],
			"command":      attrs[role+"_command"],
			"name_mapping": attrs[role+"_name_mapping"],
		}
		if role == "compiler" {
			toolAttrs["defines"] = attrs["defines"]
		}
	}

	kind := "toolchain " + role
	executable, err := stringAttr(kind, toolAttrs, "name", false)
	if err != nil {
		return nil, err
	}
	tool := &Tool{Executable: executable}
	if tool.Flags, err = filteredStrings(kind, toolchain, toolAttrs, "flags"); err != nil {
		return nil, err
	}
	if tool.Command, err = filteredStrings(kind, toolchain, toolAttrs, "command"); err != nil {
		return nil, err
	}
	if tool.Defines, err = filteredStrings(kind, toolchain, toolAttrs, "defines"); err != nil {
		return nil, err
	}
	if tool.NameMapping, err = filtered.Wrap(toolAttrs["name_mapping"], NewTemplateMap); err != nil {
		return nil, fmt.Errorf("toolchain %q %s name mapping: %w", toolchain, role, err)
	}
	return tool, nil
}

// IsApplicable reports whether any of the toolchain's quintets matches q.
func (tc *Toolchain) IsApplicable(q quintet.Quintet) bool {
	return anyMatches(tc.Quintets, q)
}
