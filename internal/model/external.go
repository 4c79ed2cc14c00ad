// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"

	"github.com/specialistvlad/buildgrid/internal/descriptor"
	"github.com/specialistvlad/buildgrid/internal/filtered"
	"github.com/specialistvlad/buildgrid/internal/quintet"
)

// ExtensionTypePackageManager is the only extension type the engine knows.
const ExtensionTypePackageManager = "package-manager"

// Resolution is where a resolved external dependency lives on disk.
type Resolution struct {
	HeaderDirs filtered.Map[string] `msgpack:"header_dirs" yaml:"header_dirs"`
	LibDirs    filtered.Map[string] `msgpack:"lib_dirs" yaml:"lib_dirs"`
	BinDirs    filtered.Map[string] `msgpack:"bin_dirs" yaml:"bin_dirs"`
	// LibFiles are patterns globbed inside each of LibDirs.
	LibFiles filtered.Map[string] `msgpack:"lib_files" yaml:"lib_files"`
}

// NewResolution reads a resolution object with `header_dirs`, `lib_dirs`,
// `bin_dirs` and `lib_files` attributes.
func NewResolution(raw any) (*Resolution, error) {
	attrs, err := asAttrs("resolution", raw)
	if err != nil {
		return nil, err
	}
	res := &Resolution{}
	if res.HeaderDirs, err = filteredStrings("resolution", "", attrs, "header_dirs"); err != nil {
		return nil, err
	}
	if res.LibDirs, err = filteredStrings("resolution", "", attrs, "lib_dirs"); err != nil {
		return nil, err
	}
	if res.BinDirs, err = filteredStrings("resolution", "", attrs, "bin_dirs"); err != nil {
		return nil, err
	}
	if res.LibFiles, err = filteredStrings("resolution", "", attrs, "lib_files"); err != nil {
		return nil, err
	}
	return res, nil
}

// ExternalDependency is a package a target needs from outside the tree.
type ExternalDependency struct {
	Name      string               `msgpack:"name"`
	Version   string               `msgpack:"version"`
	Type      string               `msgpack:"type"`
	Optional  bool                 `msgpack:"optional"`
	Providers filtered.Map[string] `msgpack:"providers"`
	// Reference is set for dependencies written as a bare name; the
	// declaration is looked up by name before resolution.
	Reference  bool        `msgpack:"reference"`
	Resolution *Resolution `msgpack:"resolution"`
}

// NewExternalDependency reads an external dependency. A bare string refers
// to an `external` record declared elsewhere.
func NewExternalDependency(raw any) (*ExternalDependency, error) {
	if name, ok := raw.(string); ok {
		return &ExternalDependency{Name: name, Reference: true}, nil
	}
	attrs, err := asAttrs(descriptor.KindExternal, raw)
	if err != nil {
		return nil, err
	}

	dep := &ExternalDependency{}
	if dep.Name, err = stringAttr(descriptor.KindExternal, attrs, "name", true); err != nil {
		return nil, err
	}
	if dep.Version, err = stringAttr(descriptor.KindExternal, attrs, "version", false); err != nil {
		return nil, err
	}
	if dep.Type, err = stringAttr(descriptor.KindExternal, attrs, "type", false); err != nil {
		return nil, err
	}
	if dep.Optional, err = boolAttr(descriptor.KindExternal, attrs, "optional"); err != nil {
		return nil, err
	}
	if dep.Providers, err = filteredStrings(descriptor.KindExternal, dep.Name, attrs, "providers"); err != nil {
		return nil, err
	}
	return dep, nil
}

// Key identifies the dependency as name::version.
func (d *ExternalDependency) Key() string {
	return d.Name + "::" + d.Version
}

// Adopt copies a declaration into a by-name reference.
func (d *ExternalDependency) Adopt(decl *ExternalDependency) {
	d.Version = decl.Version
	d.Type = decl.Type
	d.Optional = decl.Optional
	d.Providers = decl.Providers
	d.Reference = false
}

// Resolve records a resolution. It returns false, leaving the dependency
// untouched, when one was already recorded.
func (d *ExternalDependency) Resolve(res *Resolution) bool {
	if d.Resolution != nil || res == nil {
		return false
	}
	d.Resolution = res
	return true
}

// HostEnv exposes the build environment to package managers.
type HostEnv interface {
	// Lookup returns the value for key. `target` is the active quintet;
	// anything else is a workspace property. Without a default, a missing
	// key is a *MissingPropertyError.
	Lookup(key string, def ...string) (string, error)
}

// PackageManager locates external dependencies. A nil resolution with a nil
// error means the dependency is not known to this manager.
type PackageManager interface {
	Resolve(env HostEnv, dep *ExternalDependency, q quintet.Quintet) (*Resolution, error)
}

// Extension is a declared package-manager extension. Manager is bound by the
// loader from the handler registry and is never encoded.
type Extension struct {
	Name     string            `msgpack:"name"`
	Type     string            `msgpack:"type"`
	Handler  string            `msgpack:"handler"`
	Quintets []quintet.Quintet `msgpack:"quintets"`
	Config   map[string]any    `msgpack:"config"`

	Manager PackageManager `msgpack:"-"`
}

// NewExtension reads an extension record. The handler defaults to the
// extension name and the quintets to the wildcard.
func NewExtension(rec descriptor.Record) (*Extension, error) {
	name, err := stringAttr(descriptor.KindExtension, rec.Attrs, "name", true)
	if err != nil {
		return nil, err
	}
	typ, err := stringAttr(descriptor.KindExtension, rec.Attrs, "type", false)
	if err != nil {
		return nil, err
	}
	if typ != ExtensionTypePackageManager {
		return nil, &DescriptorError{Kind: descriptor.KindExtension, Name: name, Reason: fmt.Sprintf("unknown extension type %q", typ)}
	}
	handler, err := stringAttr(descriptor.KindExtension, rec.Attrs, "handler", false)
	if err != nil {
		return nil, err
	}
	if handler == "" {
		handler = name
	}
	quintets, err := quintetList(descriptor.KindExtension, name, rec.Get("quintets"))
	if err != nil {
		return nil, err
	}
	config := map[string]any{}
	if raw := rec.Get("config"); raw != nil {
		if config, err = asAttrs("extension config", raw); err != nil {
			return nil, err
		}
	}
	return &Extension{Name: name, Type: typ, Handler: handler, Quintets: quintets, Config: config}, nil
}

// IsApplicable reports whether any of the extension's quintets matches q.
func (e *Extension) IsApplicable(q quintet.Quintet) bool {
	return anyMatches(e.Quintets, q)
}
