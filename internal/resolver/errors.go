// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolver

import "fmt"

// UnresolvedReferenceError is returned when a dependency label does not name
// a known target.
type UnresolvedReferenceError struct {
	Target    string
	Reference string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("target %s depends on %s which could not be resolved", e.Target, e.Reference)
}

// DuplicateTargetError is returned when two targets complete to the same
// absolute label.
type DuplicateTargetError struct {
	Name string
}

func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("target %s is declared more than once", e.Name)
}
