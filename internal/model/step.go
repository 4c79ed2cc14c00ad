// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Step, the unit of a synthesized build plan.
//
// A Step never runs anything. It records which files go in, which files come
// out, which tool would turn one into the other and which other steps have to
// finish first. Needs/NeededBy form a second graph beneath the target graph:
// copy steps feed compile steps, compile steps feed the link or archive step of
// the same target.
package model

import "fmt"

// StepKind is the step variant.
type StepKind string

const (
	StepCopy    StepKind = "copy"
	StepCompile StepKind = "compile"
	StepLink    StepKind = "link"
	StepArchive StepKind = "archive"
)

// Step is a file-producing unit of work.
type Step struct {
	Kind   StepKind `msgpack:"kind" yaml:"kind" json:"kind"`
	Target *Target  `msgpack:"-" yaml:"-" json:"-"`
	// Tool is nil for copy steps.
	Tool *Tool `msgpack:"tool" yaml:"-" json:"-"`

	InputsToOutputs *NameMap `msgpack:"inputs_to_outputs" yaml:"inputs_to_outputs" json:"inputs_to_outputs"`
	OutputsToInputs *NameMap `msgpack:"outputs_to_inputs" yaml:"outputs_to_inputs" json:"outputs_to_inputs"`

	// Compile details.
	TargetHeaders       []string `msgpack:"target_headers" yaml:"target_headers,omitempty" json:"target_headers,omitempty"`
	InternalIncludeDirs []string `msgpack:"internal_include_dirs" yaml:"internal_include_dirs,omitempty" json:"internal_include_dirs,omitempty"`
	ExternalIncludeDirs []string `msgpack:"external_include_dirs" yaml:"external_include_dirs,omitempty" json:"external_include_dirs,omitempty"`
	Defines             []string `msgpack:"defines" yaml:"defines,omitempty" json:"defines,omitempty"`
	Flags               []string `msgpack:"flags" yaml:"flags,omitempty" json:"flags,omitempty"`

	// Link and archive details.
	InternalLibs []string `msgpack:"internal_libs" yaml:"internal_libs,omitempty" json:"internal_libs,omitempty"`
	ExternalLibs []string `msgpack:"external_libs" yaml:"external_libs,omitempty" json:"external_libs,omitempty"`

	Needs    []*Step `msgpack:"-" yaml:"-" json:"-"`
	NeededBy []*Step `msgpack:"-" yaml:"-" json:"-"`
}

// NewStep creates a step and derives its reverse name map.
func NewStep(kind StepKind, t *Target, forward *NameMap) *Step {
	if forward == nil {
		forward = NewNameMap()
	}
	return &Step{
		Kind:            kind,
		Target:          t,
		InputsToOutputs: forward,
		OutputsToInputs: forward.Reverse(),
	}
}

// IsEmpty reports whether the step produces nothing.
func (s *Step) IsEmpty() bool {
	return s.InputsToOutputs.Len() == 0
}

// Outputs are the names the step produces, in order.
func (s *Step) Outputs() []string {
	return s.OutputsToInputs.Keys()
}

// Link records that s needs dep.
func (s *Step) Link(dep *Step) {
	s.Needs = append(s.Needs, dep)
	dep.NeededBy = append(dep.NeededBy, s)
}

func (s *Step) String() string {
	if s.Target == nil {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s %s", s.Kind, s.Target)
}
