// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package external

import (
	"fmt"
	"strings"
)

// Missing describes one dependency no provider could resolve.
type Missing struct {
	Workspace string
	Target    string
	Name      string
	Version   string
	Optional  bool
	Providers []string
}

func (m Missing) String() string {
	kind := "required"
	if m.Optional {
		kind = "optional"
	}
	return fmt.Sprintf("%s/%s has unresolved %s external dependency %s::%s from [%s]",
		m.Workspace, m.Target, kind, m.Name, m.Version, strings.Join(m.Providers, ", "))
}

// MissingRequiredError lists every unresolved required dependency of a tree.
type MissingRequiredError struct {
	Missing []Missing
}

func (e *MissingRequiredError) Error() string {
	lines := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		lines = append(lines, m.String())
	}
	return strings.Join(lines, "\n")
}

// UndeclaredError is returned when a dependency names an `external`
// declaration that does not exist.
type UndeclaredError struct {
	Target string
	Name   string
}

func (e *UndeclaredError) Error() string {
	return fmt.Sprintf("target %s depends on undeclared external %q", e.Target, e.Name)
}
