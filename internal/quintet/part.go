// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package quintet

import (
	"strings"
)

// Any is the wildcard marker for a major or minor part.
const Any = "*"

// Part is one axis of a quintet. An empty Major is a literal value, not a
// wildcard.
type Part struct {
	Major string
	Minor string
}

// NewPart builds a part from an explicit major and minor. An empty minor is
// treated as the wildcard.
func NewPart(major, minor string) Part {
	if minor == "" {
		minor = Any
	}
	return Part{Major: major, Minor: minor}
}

// ParsePart parses `major` or `major/minor`.
func ParsePart(raw string) (Part, error) {
	p, ok := parsePart(raw)
	if !ok {
		return Part{}, &ParseError{Input: raw, Reason: tooManySlashes}
	}
	return p, nil
}

const tooManySlashes = "a part may contain at most one '/'"

func parsePart(raw string) (Part, bool) {
	pieces := strings.Split(raw, "/")
	if len(pieces) > 2 {
		return Part{}, false
	}
	p := Part{Major: strings.TrimSpace(pieces[0]), Minor: Any}
	if len(pieces) == 2 {
		p.Minor = strings.TrimSpace(pieces[1])
	}
	return p, true
}

// Match reports whether two parts are compatible.
func (p Part) Match(other Part) bool {
	if p.Major == Any || other.Major == Any {
		return true
	}
	if p.Major != other.Major {
		return false
	}
	if p.Minor == Any || other.Minor == Any {
		return true
	}
	return p.Minor == other.Minor
}

// IsWildcard is true for `*` and `*/*`.
func (p Part) IsWildcard() bool {
	return p.Major == Any
}

// String returns the canonical form: the minor is omitted when it is `*`.
func (p Part) String() string {
	if p.Minor == Any {
		return p.Major
	}
	return p.Major + "/" + p.Minor
}
