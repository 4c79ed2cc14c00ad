// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package label

import (
	"fmt"
	"regexp"
	"strings"
)

// labelRegex splits a label into base path, file name and target. The base
// group is lazy so that `//a/b.ext` yields base `//a` and file `/b.ext`.
var labelRegex = regexp.MustCompile(`^(//[^.:]*)??(/[^/.]*\.[^/:]+)?(:.*)?$`)

// ParseError reports a string that is not a label.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("can't parse label %q", e.Input)
}

// rootLabelRegex matches a file in the root workspace, `//build.hcl:x`.
var rootLabelRegex = regexp.MustCompile(`^/(/[^/.]*\.[^/:]+)(:.*)?$`)

// Parse splits a label string into its parts. All parts may be empty.
func Parse(raw string) (Label, error) {
	if matches := labelRegex.FindStringSubmatch(raw); matches != nil {
		return Label{Base: matches[1], Filename: matches[2], Target: matches[3]}, nil
	}
	if matches := rootLabelRegex.FindStringSubmatch(raw); matches != nil {
		return Label{Base: RootBase, Filename: matches[1], Target: matches[2]}, nil
	}
	return Label{}, &ParseError{Input: raw}
}

// MustParse is Parse for literals known to be valid.
func MustParse(raw string) Label {
	l, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return l
}

// ParseTargetName parses the name of a declared target. A bare name without
// a ':' is taken as the target part.
func ParseTargetName(name string) (Label, error) {
	if !strings.Contains(name, ":") {
		name = ":" + name
	}
	return Parse(name)
}
