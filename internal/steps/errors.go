// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package steps

import "fmt"

// NoViableToolchainError is returned when no workspace up the parent chain
// declares a toolchain for the target's quintet.
type NoViableToolchainError struct {
	Target  string
	Quintet string
}

func (e *NoViableToolchainError) Error() string {
	return fmt.Sprintf("no viable toolchain found for %s with target %s", e.Target, e.Quintet)
}

// UnsupportedRenameError is returned when an input and an output template
// have wildcard runs of different lengths at the same position.
type UnsupportedRenameError struct {
	Input string
	From  string
	To    string
}

func (e *UnsupportedRenameError) Error() string {
	return fmt.Sprintf("don't know how to map filename %s using mapping %s => %s", e.Input, e.From, e.To)
}
