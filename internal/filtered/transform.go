// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package filtered

import (
	"context"

	"github.com/specialistvlad/buildgrid/internal/quintet"
	"golang.org/x/sync/errgroup"
)

// TransformMatching applies fn to every value of every entry matching q,
// concurrently. The result keeps the matching entries in their original
// order. The first error cancels ctx for the remaining calls and is returned.
func TransformMatching[V, U any](ctx context.Context, m Map[V], q quintet.Quintet, fn func(context.Context, V) (U, error)) (Map[U], error) {
	matching := matchingEntries(m, q)
	out := make([]Entry[U], len(matching))

	g, gctx := errgroup.WithContext(ctx)
	for i, e := range matching {
		out[i] = Entry[U]{Pattern: e.Pattern, Values: make([]U, len(e.Values))}
		for j, v := range e.Values {
			g.Go(func() error {
				u, err := fn(gctx, v)
				if err != nil {
					return err
				}
				out[i].Values[j] = u
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Map[U]{}, err
	}
	return Map[U]{entries: out}, nil
}

// TransformAll is TransformMatching against the wildcard.
func TransformAll[V, U any](ctx context.Context, m Map[V], fn func(context.Context, V) (U, error)) (Map[U], error) {
	return TransformMatching(ctx, m, quintet.Wildcard, fn)
}

// TransformMatchingSync is the sequential variant. Values are visited in
// entry order and the first error stops the walk.
func TransformMatchingSync[V, U any](m Map[V], q quintet.Quintet, fn func(V) (U, error)) (Map[U], error) {
	matching := matchingEntries(m, q)
	out := make([]Entry[U], 0, len(matching))
	for _, e := range matching {
		values := make([]U, 0, len(e.Values))
		for _, v := range e.Values {
			u, err := fn(v)
			if err != nil {
				return Map[U]{}, err
			}
			values = append(values, u)
		}
		out = append(out, Entry[U]{Pattern: e.Pattern, Values: values})
	}
	return Map[U]{entries: out}, nil
}

// TransformAllSync is TransformMatchingSync against the wildcard.
func TransformAllSync[V, U any](m Map[V], fn func(V) (U, error)) (Map[U], error) {
	return TransformMatchingSync(m, quintet.Wildcard, fn)
}

func matchingEntries[V any](m Map[V], q quintet.Quintet) []Entry[V] {
	var out []Entry[V]
	for _, e := range m.entries {
		if q.Match(e.Pattern) {
			out = append(out, e)
		}
	}
	return out
}
