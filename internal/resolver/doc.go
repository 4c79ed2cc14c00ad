// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package resolver binds internal target references and orders targets for
// a build.
//
// Resolution runs in three passes over a loaded tree:
//
//  1. every target matching the root quintet is indexed by its absolute label;
//  2. each dependency reference matching the target's narrowed quintet is
//     looked up in the index, bound, and recorded as an edge from the needed
//     target to its dependent;
//  3. the edge graph is sorted topologically, dependencies first.
//
// The index and the graph belong to the root workspace and are returned as a
// Result rather than stored on each subtree.
package resolver
