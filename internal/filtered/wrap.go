// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package filtered

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/buildgrid/internal/quintet"
)

// Wrap turns a raw descriptor value into a map:
//
//   - nil becomes a wildcard entry with no values;
//   - a list becomes the values of a wildcard entry;
//   - a map whose keys all parse as quintets becomes one entry per key;
//   - anything else, including other maps, becomes a single wildcard value.
//
// Non-list values under a quintet key are wrapped into one-element lists.
// Quintet-keyed entries are ordered by canonical pattern. Every raw value is
// passed through convert.
func Wrap[V any](raw any, convert func(any) (V, error)) (Map[V], error) {
	switch v := raw.(type) {
	case nil:
		return Map[V]{entries: []Entry[V]{{Pattern: quintet.Wildcard}}}, nil
	case []any:
		values, err := convertAll(v, convert)
		if err != nil {
			return Map[V]{}, err
		}
		return Map[V]{entries: []Entry[V]{{Pattern: quintet.Wildcard, Values: values}}}, nil
	case map[string]any:
		if patterns, ok := quintetKeys(v); ok {
			entries := make([]Entry[V], 0, len(patterns))
			for _, key := range sortedKeys(patterns) {
				values, err := convertAll(asList(v[key]), convert)
				if err != nil {
					return Map[V]{}, fmt.Errorf("under %q: %w", key, err)
				}
				entries = append(entries, Entry[V]{Pattern: patterns[key], Values: values})
			}
			return Map[V]{entries: entries}, nil
		}
	}

	value, err := convert(raw)
	if err != nil {
		return Map[V]{}, err
	}
	return Map[V]{entries: []Entry[V]{{Pattern: quintet.Wildcard, Values: []V{value}}}}, nil
}

// Strings wraps a raw value whose elements must all be strings.
func Strings(raw any) (Map[string], error) {
	return Wrap(raw, String)
}

// String is the convert function for plain string values.
func String(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", raw)
	}
	return s, nil
}

func quintetKeys(m map[string]any) (map[string]quintet.Quintet, bool) {
	patterns := make(map[string]quintet.Quintet, len(m))
	for key := range m {
		q, err := quintet.Parse(key)
		if err != nil {
			return nil, false
		}
		patterns[key] = q
	}
	return patterns, true
}

// sortedKeys orders keys by canonical pattern, breaking ties on the raw key.
func sortedKeys(patterns map[string]quintet.Quintet) []string {
	keys := make([]string, 0, len(patterns))
	for key := range patterns {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := quintet.Compare(patterns[a], patterns[b]); c != 0 {
			return c
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	return keys
}

func asList(raw any) []any {
	if list, ok := raw.([]any); ok {
		return list
	}
	return []any{raw}
}

func convertAll[V any](raw []any, convert func(any) (V, error)) ([]V, error) {
	out := make([]V, 0, len(raw))
	for i, item := range raw {
		v, err := convert(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
