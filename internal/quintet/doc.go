// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

/*
Package quintet implements the five-axis configuration key used to select
build settings: platform, toolchain, type, architecture and configuration.

A quintet is written as five colon-separated parts, e.g.
`linux:gcc/13:static:amd64:release`. Every part is a `major[/minor]` pair
where `*` is a wildcard on either level and an omitted minor means `*`.

Matching is a compatibility relation, not equality: `linux:*:*:*:*` and
`*:gcc:*:*:*` match each other, yet neither equals the other. Use Compare only
for deterministic ordering.
*/
package quintet
