// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"sort"

	"github.com/specialistvlad/buildgrid/internal/model"
)

// Module is the interface that all package-manager modules must implement
// to be registered.
type Module interface {
	Register(r *Registry)
}

// Factory builds a package manager from an extension's config block.
type Factory func(config map[string]any) (model.PackageManager, error)

// Registry holds the registered package-manager handlers for a single
// application instance.
type Registry struct {
	handlers map[string]Factory
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{handlers: make(map[string]Factory)}
}

// NewWith returns a Registry populated by the given modules.
func NewWith(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Handlers lists the registered handler names, sorted.
func (r *Registry) Handlers() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
