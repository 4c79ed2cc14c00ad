// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "fmt"

// DescriptorError reports a descriptor that is well-formed text but not a
// valid declaration: unknown target kind, unknown extension type, missing
// attribute and similar.
type DescriptorError struct {
	Kind   string
	Name   string
	Reason string
}

func (e *DescriptorError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid %s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Name, e.Reason)
}

// MissingPropertyError is returned by HostEnv lookups without a default.
type MissingPropertyError struct {
	Key string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("could not find property %s", e.Key)
}
