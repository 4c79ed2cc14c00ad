// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package label

// RootBase is the base of labels in the root workspace.
const RootBase = "/"

// Label is the parsed form of a target name. Base starts with `//`, or is
// RootBase, Filename starts with `/` and Target with `:` when they are set.
type Label struct {
	Base     string `msgpack:"base" yaml:"base"`
	Filename string `msgpack:"filename" yaml:"filename"`
	Target   string `msgpack:"target" yaml:"target"`
}

// Location is the position of a workspace used to complete a label.
type Location struct {
	RootDir      string
	WorkspaceDir string
	// BuildFile is the default build file name, e.g. "build.hcl".
	BuildFile string
}
