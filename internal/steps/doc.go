// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package steps expands ordered targets into build steps.
//
// Each target kind builds on the previous one by explicit delegation:
// headerOnlySteps produces the copy step for exported headers, compiledSteps
// adds one compile step per source group, and linkedSteps or archivedSteps
// add the final link or archive step. Output names come from Rename, which
// applies the active toolchain's name mappings to the matched input files.
package steps
