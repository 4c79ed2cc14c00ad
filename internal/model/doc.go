// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the in-memory form of a build configuration tree.
//
// # Core Concepts
//
//   - Workspace: a node of the tree, loaded from one descriptor file. It owns
//     its targets, toolchains, properties, extensions and, once loaded, its
//     child workspaces (components).
//
//   - Target: a buildable unit. Target is a closed tagged variant: Kind picks
//     header-only, object, static, dynamic or executable behaviour, and
//     SpecificQuintet narrows the type axis of the active quintet before any
//     filtered field is read.
//
//   - Toolchain and Tool: the compiler, linker and archiver bindings a target
//     is built with, each with a name mapping that derives output file names
//     from input file names.
//
//   - ExternalDependency and Extension: a package required from outside the
//     tree and the package-manager extensions able to locate it.
//
//   - Step: a synthesized copy, compile, link or archive unit with an explicit
//     input to output name mapping and needs/needed-by edges.
//
// Ownership is top-down. Parent fields on workspaces and targets are
// non-owning back-links used only for upward lookups (toolchains, properties,
// declared externals) and are never encoded.
package model
