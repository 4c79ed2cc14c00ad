// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package quintet

import (
	"fmt"
	"strings"
)

// Axis indexes the parts of a quintet.
type Axis int

const (
	Platform Axis = iota
	Toolchain
	Type
	Arch
	Configuration
)

// Quintet is an immutable five-part configuration key.
type Quintet struct {
	parts [5]Part
}

// Wildcard matches every quintet.
var Wildcard = Quintet{parts: [5]Part{
	{Major: Any, Minor: Any},
	{Major: Any, Minor: Any},
	{Major: Any, Minor: Any},
	{Major: Any, Minor: Any},
	{Major: Any, Minor: Any},
}}

// Parse reads a colon-joined quintet.
func Parse(raw string) (Quintet, error) {
	pieces := strings.Split(raw, ":")
	if len(pieces) != 5 {
		return Quintet{}, &ParseError{Input: raw, Reason: "expected 5 colon-separated parts"}
	}
	var q Quintet
	for i, piece := range pieces {
		p, ok := parsePart(piece)
		if !ok {
			return Quintet{}, &ParseError{Input: raw, Reason: fmt.Sprintf("part %d: %s", i+1, tooManySlashes)}
		}
		q.parts[i] = p
	}
	return q, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(raw string) Quintet {
	q, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return q
}

// New assembles a quintet from parts.
func New(platform, toolchain, typ, arch, configuration Part) Quintet {
	return Quintet{parts: [5]Part{platform, toolchain, typ, arch, configuration}}
}

// Part returns one axis.
func (q Quintet) Part(a Axis) Part { return q.parts[a] }

func (q Quintet) Platform() Part { return q.parts[Platform] }
func (q Quintet) Toolchain() Part { return q.parts[Toolchain] }
func (q Quintet) Type() Part { return q.parts[Type] }
func (q Quintet) Arch() Part { return q.parts[Arch] }
func (q Quintet) Configuration() Part { return q.parts[Configuration] }

// With returns a copy of q with one axis replaced.
func (q Quintet) With(a Axis, p Part) Quintet {
	q.parts[a] = p
	return q
}

// WithType narrows the type axis, the way target kinds specialise a quintet.
func (q Quintet) WithType(major string) Quintet {
	return q.With(Type, NewPart(major, Any))
}

// Match reports whether all five parts are compatible.
func (q Quintet) Match(other Quintet) bool {
	for i := range q.parts {
		if !q.parts[i].Match(other.parts[i]) {
			return false
		}
	}
	return true
}

// IsZero is true for the zero value, which is not a valid quintet.
func (q Quintet) IsZero() bool {
	return q == Quintet{}
}

// String returns the canonical colon-joined form.
func (q Quintet) String() string {
	var sb strings.Builder
	for i, p := range q.parts {
		if i > 0 {
			sb.WriteByte(':')
		}
		sb.WriteString(p.String())
	}
	return sb.String()
}

// Match is the package-level form of Quintet.Match.
func Match(a, b Quintet) bool {
	return a.Match(b)
}

// Compare orders quintets part by part on their canonical part strings.
func Compare(a, b Quintet) int {
	for i := range a.parts {
		if c := strings.Compare(a.parts[i].String(), b.parts[i].String()); c != 0 {
			return c
		}
	}
	return 0
}
