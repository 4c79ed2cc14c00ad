// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package static resolves external dependencies from resolutions written
// inline in the extension config, keyed by name::version.
package static

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/quintet"
	"github.com/specialistvlad/buildgrid/internal/registry"
)

// Handler is the handler name extensions use to select this manager.
const Handler = "static"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Manager serves a fixed table of resolutions.
type Manager struct {
	packages map[string]*model.Resolution
}

var _ model.PackageManager = (*Manager)(nil)

// New reads every `packages` entry of config as a resolution object.
func New(config map[string]any) (model.PackageManager, error) {
	m := &Manager{packages: map[string]*model.Resolution{}}
	raw, ok := config["packages"]
	if !ok || raw == nil {
		return m, nil
	}
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, &registry.ConfigError{Key: "packages", Reason: fmt.Sprintf("expected an object, got %T", raw)}
	}
	for key, value := range table {
		res, err := model.NewResolution(value)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", key, err)
		}
		m.packages[key] = res
	}
	return m, nil
}

// Keys lists the known name::version keys, sorted.
func (m *Manager) Keys() []string {
	keys := make([]string, 0, len(m.packages))
	for k := range m.packages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve implements model.PackageManager. A bare name key matches any
// version.
func (m *Manager) Resolve(_ model.HostEnv, dep *model.ExternalDependency, _ quintet.Quintet) (*model.Resolution, error) {
	if res, ok := m.packages[dep.Key()]; ok {
		return res, nil
	}
	if res, ok := m.packages[dep.Name]; ok {
		return res, nil
	}
	return nil, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(Handler, New)
}
