// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"

	"github.com/specialistvlad/buildgrid/internal/filtered"
	"github.com/specialistvlad/buildgrid/internal/label"
	"github.com/specialistvlad/buildgrid/internal/quintet"
)

// Kind is the target variant.
type Kind string

const (
	KindHeaderOnly Kind = "header_only"
	KindObject     Kind = "object"
	KindStatic     Kind = "static"
	KindDynamic    Kind = "dynamic"
	KindExecutable Kind = "executable"
)

// ParseKind maps a descriptor `type` to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "header_only", "header-only":
		return KindHeaderOnly, nil
	case string(KindObject), string(KindStatic), string(KindDynamic), string(KindExecutable):
		return Kind(s), nil
	}
	return "", &DescriptorError{Kind: "target", Reason: fmt.Sprintf("unknown target type %q", s)}
}

// TypeAxis is the major the variant fixes on the quintet type axis.
func (k Kind) TypeAxis() string {
	switch k {
	case KindHeaderOnly:
		return "header-only"
	case KindObject:
		return quintet.Any
	}
	return string(k)
}

// Compiles reports whether the variant has compile steps.
func (k Kind) Compiles() bool { return k != KindHeaderOnly }

// Links reports whether the variant ends in a link step.
func (k Kind) Links() bool { return k == KindDynamic || k == KindExecutable }

// Archives reports whether the variant ends in an archive step.
func (k Kind) Archives() bool { return k == KindStatic }

// TargetReference is a dependency on another target, bound once during
// resolution.
type TargetReference struct {
	Label  label.Label `msgpack:"label"`
	Target *Target     `msgpack:"-"`
}

// NewTargetReference parses a dependency label.
func NewTargetReference(raw any) (*TargetReference, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, &DescriptorError{Kind: "dependency", Reason: fmt.Sprintf("expected a label string, got %T", raw)}
	}
	l, err := label.Parse(s)
	if err != nil {
		return nil, err
	}
	return &TargetReference{Label: l}, nil
}

// Bind sets the resolved target. It returns false when the reference was
// already bound.
func (r *TargetReference) Bind(t *Target) bool {
	if r.Target != nil {
		return false
	}
	r.Target = t
	return true
}

// Target is a buildable unit declared by a workspace.
type Target struct {
	Kind Kind        `msgpack:"kind"`
	Name label.Label `msgpack:"name"`

	Exports       filtered.Map[*ExportSpec]         `msgpack:"exports"`
	Headers       filtered.Map[string]              `msgpack:"headers"`
	Sources       filtered.Map[*SourceSpec]         `msgpack:"sources"`
	Excludes      filtered.Map[string]              `msgpack:"excludes"`
	Depends       filtered.Map[*TargetReference]    `msgpack:"depends"`
	ExternalDeps  filtered.Map[*ExternalDependency] `msgpack:"external_deps"`
	Defines       filtered.Map[string]              `msgpack:"defines"`
	CompilerFlags filtered.Map[string]              `msgpack:"compiler_flags"`
	LinkerFlags   filtered.Map[string]              `msgpack:"linker_flags"`
	ArchiverFlags filtered.Map[string]              `msgpack:"archiver_flags"`

	Parent *Workspace `msgpack:"-"`
	Steps  []*Step    `msgpack:"-"`
}

// NewTarget reads a target declaration.
func NewTarget(raw any) (*Target, error) {
	attrs, err := asAttrs("target", raw)
	if err != nil {
		return nil, err
	}
	name, err := stringAttr("target", attrs, "name", true)
	if err != nil {
		return nil, err
	}
	typ, err := stringAttr("target", attrs, "type", true)
	if err != nil {
		return nil, err
	}
	kind, err := ParseKind(typ)
	if err != nil {
		return nil, &DescriptorError{Kind: "target", Name: name, Reason: fmt.Sprintf("unknown target type %q", typ)}
	}
	lbl, err := label.ParseTargetName(name)
	if err != nil {
		return nil, err
	}

	t := &Target{Kind: kind, Name: lbl}
	wrapErr := func(field string, err error) error {
		return fmt.Errorf("target %q %s: %w", name, field, err)
	}
	if t.Exports, err = filtered.Wrap(attrs["exports"], NewExportSpec); err != nil {
		return nil, wrapErr("exports", err)
	}
	if t.Sources, err = filtered.Wrap(attrs["sources"], NewSourceSpec); err != nil {
		return nil, wrapErr("sources", err)
	}
	if t.Depends, err = filtered.Wrap(attrs["depends"], NewTargetReference); err != nil {
		return nil, wrapErr("depends", err)
	}
	if t.ExternalDeps, err = filtered.Wrap(attrs["external_deps"], NewExternalDependency); err != nil {
		return nil, wrapErr("external_deps", err)
	}

	fields := []struct {
		key string
		dst *filtered.Map[string]
	}{
		{"headers", &t.Headers},
		{"excludes", &t.Excludes},
		{"defines", &t.Defines},
		{"compiler_flags", &t.CompilerFlags},
		{"linker_flags", &t.LinkerFlags},
		{"archiver_flags", &t.ArchiverFlags},
	}
	for _, f := range fields {
		if *f.dst, err = filteredStrings("target", name, attrs, f.key); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// SpecificQuintet narrows q to this target's variant.
func (t *Target) SpecificQuintet(q quintet.Quintet) quintet.Quintet {
	return q.WithType(t.Kind.TypeAxis())
}

// AbsoluteName is the target's label completed against its workspace.
func (t *Target) AbsoluteName() label.Label {
	if t.Parent == nil {
		return t.Name
	}
	return t.Name.MakeAbsolute(t.Parent.Location())
}

// StepsOf returns the target's steps of the given kind.
func (t *Target) StepsOf(kind StepKind) []*Step {
	var out []*Step
	for _, s := range t.Steps {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func (t *Target) String() string {
	return t.AbsoluteName().String()
}
