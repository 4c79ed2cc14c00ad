// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolver

import (
	"context"
	"fmt"

	"github.com/specialistvlad/buildgrid/internal/ctxlog"
	"github.com/specialistvlad/buildgrid/internal/dag"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/quintet"
)

// Result is the root-owned resolution state of a tree.
type Result struct {
	Root    *model.Workspace
	Quintet quintet.Quintet
	// Known maps absolute labels to targets; Graph holds the same keys in
	// discovery order.
	Known map[string]*model.Target
	Graph *dag.Graph
}

// CollectKnownTargets indexes every target of the tree that matches q, depth
// first in declaration order.
func CollectKnownTargets(root *model.Workspace, q quintet.Quintet) (map[string]*model.Target, []string, error) {
	known := make(map[string]*model.Target)
	var keys []string
	err := root.Walk(q, func(ws *model.Workspace) error {
		for _, t := range ws.Targets.MatchingElements(q) {
			key := t.AbsoluteName().String()
			if _, ok := known[key]; ok {
				return &DuplicateTargetError{Name: key}
			}
			known[key] = t
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return known, keys, nil
}

// Resolve indexes the tree below root, binds every dependency reference and
// builds the dependency graph. It does not check for cycles; BuildOrder does.
func Resolve(ctx context.Context, root *model.Workspace) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	q := root.TargetQuintet

	known, keys, err := CollectKnownTargets(root, q)
	if err != nil {
		return nil, err
	}
	logger.Debug("Collected known targets.", "count", len(keys))

	g := dag.New()
	for _, key := range keys {
		g.AddNode(key)
	}

	for _, key := range keys {
		t := known[key]
		for _, ref := range t.Depends.MatchingElements(t.SpecificQuintet(q)) {
			refKey := ref.Label.MakeAbsolute(t.Parent.Location()).String()
			dep, ok := known[refKey]
			if !ok {
				return nil, &UnresolvedReferenceError{Target: key, Reference: refKey}
			}
			ref.Bind(dep)
			if err := g.AddEdge(refKey, key); err != nil {
				return nil, fmt.Errorf("target %s: %w", key, err)
			}
			logger.Debug("Found build target for dependency.", "target", key, "dependency", refKey)
		}
	}

	return &Result{Root: root, Quintet: q, Known: known, Graph: g}, nil
}

// BuildOrder returns every known target exactly once, each after the targets
// it depends on. A cycle is a *dag.CycleError.
func (r *Result) BuildOrder() ([]*model.Target, error) {
	ids, err := r.Graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	order := make([]*model.Target, 0, len(ids))
	for _, id := range ids {
		order = append(order, r.Known[id])
	}
	return order, nil
}

// Edges returns, for each target that is needed by others, the targets that
// wait on it.
func (r *Result) Edges() map[string][]string {
	edges := make(map[string][]string)
	for _, id := range r.Graph.Nodes() {
		dependents, _ := r.Graph.Dependents(id)
		if len(dependents) > 0 {
			edges[id] = dependents
		}
	}
	return edges
}
