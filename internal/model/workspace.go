// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"maps"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/specialistvlad/buildgrid/internal/descriptor"
	"github.com/specialistvlad/buildgrid/internal/filtered"
	"github.com/specialistvlad/buildgrid/internal/label"
	"github.com/specialistvlad/buildgrid/internal/quintet"
)

// Filename prefixes understood by ResolveFilename.
const (
	RootPrefix    = "file://"
	BuiltinPrefix = "builtin://"
	HomePrefix    = "~/"
)

// Workspace is a node of the build tree. Components are owned top-down;
// Parent is a back-link used only for upward lookups.
type Workspace struct {
	Name string `msgpack:"name"`

	RootDir      string `msgpack:"root_dir"`
	WorkspaceDir string `msgpack:"workspace_dir"`
	BuiltinDir   string `msgpack:"builtin_dir"`
	HomeDir      string `msgpack:"home_dir"`
	BuildFile    string `msgpack:"build_file"`

	TargetQuintet quintet.Quintet   `msgpack:"target_quintet"`
	Defaults      map[string]string `msgpack:"defaults"`

	Toolchains []*Toolchain          `msgpack:"toolchains"`
	Properties map[string]any        `msgpack:"properties"`
	Extensions []*Extension          `msgpack:"extensions"`
	Externals  []*ExternalDependency `msgpack:"externals"`

	ImportNames    filtered.Map[string]     `msgpack:"import_names"`
	Imports        filtered.Map[string]     `msgpack:"imports"`
	ComponentNames filtered.Map[string]     `msgpack:"component_names"`
	Components     filtered.Map[*Workspace] `msgpack:"components"`
	Targets        filtered.Map[*Target]    `msgpack:"targets"`

	Parent *Workspace `msgpack:"-"`
	// Files is the parse cache shared by the whole tree.
	Files *FileCache `msgpack:"-"`
}

// NewWorkspace reads a workspace record. Directories, the target quintet and
// the file cache are filled in by the loader.
func NewWorkspace(rec descriptor.Record) (*Workspace, error) {
	name, err := stringAttr(descriptor.KindWorkspace, rec.Attrs, "name", false)
	if err != nil {
		return nil, err
	}
	ws := &Workspace{
		Name:          name,
		TargetQuintet: quintet.Wildcard,
		Defaults:      map[string]string{},
		Properties:    map[string]any{},
	}

	if raw := rec.Get("defaults"); raw != nil {
		attrs, err := asAttrs("workspace defaults", raw)
		if err != nil {
			return nil, err
		}
		for k := range attrs {
			if ws.Defaults[k], err = stringAttr("workspace defaults", attrs, k, false); err != nil {
				return nil, err
			}
		}
	}
	if ws.ImportNames, err = filteredStrings(descriptor.KindWorkspace, name, rec.Attrs, "imports"); err != nil {
		return nil, err
	}
	if ws.ComponentNames, err = filteredStrings(descriptor.KindWorkspace, name, rec.Attrs, "components"); err != nil {
		return nil, err
	}
	if ws.Targets, err = filtered.Wrap(rec.Get("targets"), NewTarget); err != nil {
		return nil, fmt.Errorf("workspace %q: %w", name, err)
	}
	ws.Relink()
	return ws, nil
}

// Apply adds the declarations of records to the workspace. Workspace records
// and unknown kinds are left to the caller.
func (ws *Workspace) Apply(records []descriptor.Record) error {
	for _, rec := range records {
		switch rec.Kind {
		case descriptor.KindToolchain:
			tc, err := NewToolchain(rec)
			if err != nil {
				return err
			}
			ws.Toolchains = append(ws.Toolchains, tc)
		case descriptor.KindProperties:
			maps.Copy(ws.Properties, rec.Attrs)
		case descriptor.KindExternal:
			dep, err := NewExternalDependency(rec.Attrs)
			if err != nil {
				return err
			}
			ws.Externals = append(ws.Externals, dep)
		case descriptor.KindExtension:
			ext, err := NewExtension(rec)
			if err != nil {
				return err
			}
			ws.Extensions = append(ws.Extensions, ext)
		}
	}
	return nil
}

// Relink restores the back-links of targets and components below ws.
func (ws *Workspace) Relink() {
	for _, t := range ws.Targets.All() {
		t.Parent = ws
	}
	for _, c := range ws.Components.All() {
		c.Parent = ws
		c.Files = ws.Files
		c.Relink()
	}
}

// ResolveFilename maps a descriptor file reference to a path:
// `file://x` is relative to the root, `builtin://x` to the builtin
// directory, `~/x` to the home directory and anything else to the
// workspace directory.
func (ws *Workspace) ResolveFilename(name string) string {
	switch {
	case strings.HasPrefix(name, RootPrefix):
		return filepath.Join(ws.RootDir, strings.TrimPrefix(name, RootPrefix))
	case strings.HasPrefix(name, BuiltinPrefix):
		return filepath.Join(ws.BuiltinDir, strings.TrimPrefix(name, BuiltinPrefix))
	case strings.HasPrefix(name, HomePrefix):
		return filepath.Join(ws.HomeDir, strings.TrimPrefix(name, HomePrefix))
	case filepath.IsAbs(name):
		return filepath.Clean(name)
	}
	return filepath.Join(ws.WorkspaceDir, name)
}

// DefaultTarget builds the quintet used when none is requested, from the
// workspace `defaults` and the host.
func (ws *Workspace) DefaultTarget() quintet.Quintet {
	get := func(key, def string) quintet.Part {
		v := ws.Defaults[key]
		if v == "" {
			v = def
		}
		p, err := quintet.ParsePart(v)
		if err != nil {
			return quintet.NewPart(v, quintet.Any)
		}
		return p
	}
	return quintet.New(
		get("platform", runtime.GOOS),
		get("toolchain", quintet.Any),
		quintet.NewPart(quintet.Any, quintet.Any),
		get("architecture", runtime.GOARCH),
		get("configuration", "debug"),
	)
}

// Location is the position used to complete labels declared here.
func (ws *Workspace) Location() label.Location {
	return label.Location{RootDir: ws.RootDir, WorkspaceDir: ws.WorkspaceDir, BuildFile: ws.BuildFile}
}

// Root walks the parent chain to the top of the tree.
func (ws *Workspace) Root() *Workspace {
	for ws.Parent != nil {
		ws = ws.Parent
	}
	return ws
}

// IsRoot reports whether ws has no parent.
func (ws *Workspace) IsRoot() bool {
	return ws.Parent == nil
}

// LookupProperty finds a property here or in the nearest ancestor.
func (ws *Workspace) LookupProperty(key string) (any, bool) {
	for w := ws; w != nil; w = w.Parent {
		if v, ok := w.Properties[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// LookupExternal finds an `external` declaration by name here or in the
// nearest ancestor.
func (ws *Workspace) LookupExternal(name string) (*ExternalDependency, bool) {
	for w := ws; w != nil; w = w.Parent {
		for _, dep := range w.Externals {
			if dep.Name == name {
				return dep, true
			}
		}
	}
	return nil, false
}

// ToolchainFor returns the first toolchain applicable to q, looking here
// first and then up the parent chain.
func (ws *Workspace) ToolchainFor(q quintet.Quintet) (*Toolchain, bool) {
	for w := ws; w != nil; w = w.Parent {
		for _, tc := range w.Toolchains {
			if tc.IsApplicable(q) {
				return tc, true
			}
		}
	}
	return nil, false
}

// Walk calls fn for ws and then, depth first, for every component matching q.
func (ws *Workspace) Walk(q quintet.Quintet, fn func(*Workspace) error) error {
	if err := fn(ws); err != nil {
		return err
	}
	for _, c := range ws.Components.MatchingElements(q) {
		if err := c.Walk(q, fn); err != nil {
			return err
		}
	}
	return nil
}

// DisplayName is the workspace name, or its label base when unnamed.
func (ws *Workspace) DisplayName() string {
	if ws.Name != "" {
		return ws.Name
	}
	return label.Label{}.MakeAbsolute(ws.Location()).Base
}
