// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package prefix resolves external dependencies installed below a common
// root as <root>/<name>/<version>/{include,lib,bin}.
package prefix

import (
	"path/filepath"

	"github.com/specialistvlad/buildgrid/internal/fsutil"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/quintet"
	"github.com/specialistvlad/buildgrid/internal/registry"
)

// Handler is the handler name extensions use to select this manager.
const Handler = "prefix"

// RootProperty is the workspace property consulted when the extension
// config has no `root`.
const RootProperty = "package_root"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Manager looks packages up on disk.
type Manager struct {
	Root     string
	LibFiles []string
}

var _ model.PackageManager = (*Manager)(nil)

// New builds a Manager from an extension config with optional `root` and
// `lib_files` keys.
func New(config map[string]any) (model.PackageManager, error) {
	root, err := registry.ConfigString(config, "root")
	if err != nil {
		return nil, err
	}
	libFiles, err := registry.ConfigStrings(config, "lib_files")
	if err != nil {
		return nil, err
	}
	if len(libFiles) == 0 {
		libFiles = []string{"*"}
	}
	return &Manager{Root: root, LibFiles: libFiles}, nil
}

// Resolve implements model.PackageManager.
func (m *Manager) Resolve(env model.HostEnv, dep *model.ExternalDependency, _ quintet.Quintet) (*model.Resolution, error) {
	root := m.Root
	if root == "" {
		var err error
		if root, err = env.Lookup(RootProperty, ""); err != nil {
			return nil, err
		}
	}
	if root == "" {
		return nil, nil
	}
	dir := filepath.Join(root, dep.Name, dep.Version)
	if !fsutil.Exists(dir) {
		return nil, nil
	}
	return registry.Layout(dir, m.LibFiles), nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(Handler, New)
}
