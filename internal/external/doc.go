// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package external resolves the external dependencies of a loaded tree
// against its package-manager extensions.
//
// Each (provider, name, version) triple is attempted at most once per
// Resolver; later dependencies with the same triple share the cached
// resolution. Unresolved optional dependencies are reported as warnings and
// unresolved required ones are gathered into a single MissingRequiredError,
// after the whole tree has been visited.
package external
