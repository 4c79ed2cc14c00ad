// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"fmt"
	"log/slog"

	"github.com/specialistvlad/buildgrid/internal/model"
)

// UnknownHandlerError is returned when an extension names a handler nobody
// registered.
type UnknownHandlerError struct {
	Extension string
	Handler   string
}

func (e *UnknownHandlerError) Error() string {
	return fmt.Sprintf("extension %q uses unknown package-manager handler %q", e.Extension, e.Handler)
}

// RegisterHandler registers a package-manager factory under name.
func (r *Registry) RegisterHandler(name string, factory Factory) {
	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("package-manager handler with name '%s' already registered", name))
	}
	slog.Debug("Registering package-manager handler.", "name", name)
	r.handlers[name] = factory
}

// Bind builds the extension's manager from its handler. An already bound
// extension is left alone.
func (r *Registry) Bind(ext *model.Extension) error {
	if ext.Manager != nil {
		return nil
	}
	factory, ok := r.handlers[ext.Handler]
	if !ok {
		return &UnknownHandlerError{Extension: ext.Name, Handler: ext.Handler}
	}
	mgr, err := factory(ext.Config)
	if err != nil {
		return fmt.Errorf("failed to configure extension %q: %w", ext.Name, err)
	}
	ext.Manager = mgr
	return nil
}

// BindAll binds the extensions of ws and of every component below it.
func (r *Registry) BindAll(ws *model.Workspace) error {
	for _, ext := range ws.Extensions {
		if err := r.Bind(ext); err != nil {
			return err
		}
	}
	for _, child := range ws.Components.All() {
		if err := r.BindAll(child); err != nil {
			return err
		}
	}
	return nil
}
