// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package external

import (
	"fmt"

	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/quintet"
)

// TargetKey is the HostEnv key that yields the active quintet.
const TargetKey = "target"

// Env is the model.HostEnv handed to package managers. Properties are looked
// up from the given workspace upwards.
type Env struct {
	ws *model.Workspace
	q  quintet.Quintet
}

var _ model.HostEnv = (*Env)(nil)

// NewEnv returns an environment rooted at ws for quintet q.
func NewEnv(ws *model.Workspace, q quintet.Quintet) *Env {
	return &Env{ws: ws, q: q}
}

// Lookup implements model.HostEnv.
func (e *Env) Lookup(key string, def ...string) (string, error) {
	if key == TargetKey {
		return e.q.String(), nil
	}
	if e.ws != nil {
		if v, ok := e.ws.LookupProperty(key); ok {
			return fmt.Sprint(v), nil
		}
	}
	if len(def) > 0 {
		return def[0], nil
	}
	return "", &model.MissingPropertyError{Key: key}
}
