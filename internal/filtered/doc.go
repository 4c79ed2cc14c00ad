// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package filtered implements the configuration-filtered collection: an
// ordered list of (quintet pattern, values) entries queried by the concrete
// quintet of the current build.
package filtered
