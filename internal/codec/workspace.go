// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package codec

import (
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/registry"
)

// WorkspaceTag is the tag of workspace trees.
const WorkspaceTag = "workspace"

// WorkspaceCodec carries a workspace tree. Back-links are dropped on encode
// and restored on decode; extension managers are rebuilt from handlers.
func WorkspaceCodec(handlers *registry.Registry) TypeCodec {
	return StructCodec[model.Workspace]{After: func(ws *model.Workspace) error {
		ws.Relink()
		if handlers == nil {
			return nil
		}
		return handlers.BindAll(ws)
	}}
}
