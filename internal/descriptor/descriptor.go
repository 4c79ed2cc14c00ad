// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package descriptor defines the format-agnostic records that parsers hand to
// the loader, and the Parser contract that HCL and YAML adapters implement.
package descriptor

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Record kinds understood by the loader. Any other kind passes through.
const (
	KindWorkspace  = "workspace"
	KindToolchain  = "toolchain"
	KindProperties = "properties"
	KindExternal   = "external"
	KindExtension  = "extension"
)

// Record is one top-level declaration of a descriptor file.
type Record struct {
	Kind  string         `msgpack:"kind"`
	Attrs map[string]any `msgpack:"attrs"`
}

// Get returns an attribute, or nil.
func (r Record) Get(key string) any {
	return r.Attrs[key]
}

// String returns a string attribute or def when absent.
func (r Record) String(key, def string) (string, error) {
	v, ok := r.Attrs[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("attribute %q of %s must be a string, got %T", key, r.Kind, v)
	}
	return s, nil
}

// Bool returns a boolean attribute or def when absent.
func (r Record) Bool(key string, def bool) (bool, error) {
	v, ok := r.Attrs[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("attribute %q of %s must be a bool, got %T", key, r.Kind, v)
	}
	return b, nil
}

// Parser turns raw file contents into records.
type Parser interface {
	Parse(filename string, src []byte) ([]Record, error)
}

// Parsers picks a Parser by file extension.
type Parsers map[string]Parser

// For returns the parser registered for filename's extension.
func (p Parsers) For(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	parser, ok := p[ext]
	if !ok {
		return nil, &ParseError{Filename: filename, Err: fmt.Errorf("no parser for %q files", ext)}
	}
	return parser, nil
}

// ParseError reports a malformed descriptor file.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
