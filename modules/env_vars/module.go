// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package env_vars resolves external dependencies from environment
// variables naming their install prefix, e.g. ZLIB_ROOT=/opt/zlib.
package env_vars

import (
	"os"
	"strings"

	"github.com/specialistvlad/buildgrid/internal/fsutil"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/quintet"
	"github.com/specialistvlad/buildgrid/internal/registry"
)

// Handler is the handler name extensions use to select this manager.
const Handler = "env"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Manager reads <PREFIX><NAME><SUFFIX> from the environment.
type Manager struct {
	Prefix   string
	Suffix   string
	LibFiles []string

	lookup func(string) (string, bool)
}

var _ model.PackageManager = (*Manager)(nil)

// New builds a Manager from an extension config with optional `prefix`,
// `suffix` (default `_ROOT`) and `lib_files` keys.
func New(config map[string]any) (model.PackageManager, error) {
	prefix, err := registry.ConfigString(config, "prefix")
	if err != nil {
		return nil, err
	}
	suffix, err := registry.ConfigString(config, "suffix")
	if err != nil {
		return nil, err
	}
	if suffix == "" {
		suffix = "_ROOT"
	}
	libFiles, err := registry.ConfigStrings(config, "lib_files")
	if err != nil {
		return nil, err
	}
	if len(libFiles) == 0 {
		libFiles = []string{"*"}
	}
	return &Manager{Prefix: prefix, Suffix: suffix, LibFiles: libFiles, lookup: os.LookupEnv}, nil
}

// VariableName is the environment variable consulted for dep.
func (m *Manager) VariableName(dep *model.ExternalDependency) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, dep.Name)
	return m.Prefix + name + m.Suffix
}

// Resolve implements model.PackageManager.
func (m *Manager) Resolve(_ model.HostEnv, dep *model.ExternalDependency, _ quintet.Quintet) (*model.Resolution, error) {
	lookup := m.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	dir, ok := lookup(m.VariableName(dep))
	if !ok || dir == "" || !fsutil.Exists(dir) {
		return nil, nil
	}
	return registry.Layout(dir, m.LibFiles), nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(Handler, New)
}
