// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"

	"github.com/specialistvlad/buildgrid/internal/filtered"
	"github.com/specialistvlad/buildgrid/internal/quintet"
)

// asAttrs returns raw as an attribute map.
func asAttrs(kind string, raw any) (map[string]any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &DescriptorError{Kind: kind, Reason: fmt.Sprintf("expected an object, got %T", raw)}
	}
	return m, nil
}

func stringAttr(kind string, attrs map[string]any, key string, required bool) (string, error) {
	v, ok := attrs[key]
	if !ok || v == nil {
		if required {
			return "", &DescriptorError{Kind: kind, Reason: fmt.Sprintf("attribute %q is required", key)}
		}
		return "", nil
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		// Versions such as 1.2 come out of HCL and YAML as numbers.
		return fmt.Sprint(s), nil
	}
	return "", &DescriptorError{Kind: kind, Reason: fmt.Sprintf("attribute %q must be a string, got %T", key, v)}
}

func boolAttr(kind string, attrs map[string]any, key string) (bool, error) {
	v, ok := attrs[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, &DescriptorError{Kind: kind, Reason: fmt.Sprintf("attribute %q must be a bool, got %T", key, v)}
	}
	return b, nil
}

func filteredStrings(kind, name string, attrs map[string]any, key string) (filtered.Map[string], error) {
	m, err := filtered.Strings(attrs[key])
	if err != nil {
		return filtered.Map[string]{}, &DescriptorError{Kind: kind, Name: name, Reason: fmt.Sprintf("attribute %q: %v", key, err)}
	}
	return m, nil
}

// quintetList reads a string or list of quintet strings, defaulting to the
// wildcard.
func quintetList(kind, name string, raw any) ([]quintet.Quintet, error) {
	var items []any
	switch v := raw.(type) {
	case nil:
		return []quintet.Quintet{quintet.Wildcard}, nil
	case string:
		items = []any{v}
	case []any:
		items = v
	default:
		return nil, &DescriptorError{Kind: kind, Name: name, Reason: fmt.Sprintf("quintets must be a string or list, got %T", raw)}
	}

	out := make([]quintet.Quintet, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &DescriptorError{Kind: kind, Name: name, Reason: fmt.Sprintf("quintet must be a string, got %T", item)}
		}
		q, err := quintet.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", kind, name, err)
		}
		out = append(out, q)
	}
	return out, nil
}

func anyMatches(patterns []quintet.Quintet, q quintet.Quintet) bool {
	for _, p := range patterns {
		if q.Match(p) {
			return true
		}
	}
	return false
}
