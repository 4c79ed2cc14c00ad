// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package loader

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/buildgrid/internal/descriptor"
	"github.com/specialistvlad/buildgrid/internal/model"
)

// Codec tags of the task payloads.
const (
	InputTag  = "loader.input"
	OutputTag = "loader.output"
)

// Input is what a load task needs to know about its parent.
type Input struct {
	Filename string `msgpack:"filename"`
	// Target is the canonical quintet. Empty means the workspace defaults.
	Target     string `msgpack:"target"`
	RootDir    string `msgpack:"root_dir"`
	BuiltinDir string `msgpack:"builtin_dir"`
	HomeDir    string `msgpack:"home_dir"`
	// Chain lists the files of the workspaces above this one.
	Chain []string `msgpack:"chain"`
}

// Output is the answer of a load task.
type Output struct {
	Workspace *model.Workspace                `msgpack:"workspace"`
	Files     map[string][]descriptor.Record `msgpack:"files"`
}

// ComponentCycleError is returned when a workspace lists one of its own
// ancestors as a component.
type ComponentCycleError struct {
	Chain []string
}

func (e *ComponentCycleError) Error() string {
	return fmt.Sprintf("component cycle detected: %s", strings.Join(e.Chain, " -> "))
}
