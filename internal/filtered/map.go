// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package filtered

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/specialistvlad/buildgrid/internal/quintet"
)

// Entry is one pattern and the values declared under it.
type Entry[V any] struct {
	Pattern quintet.Quintet `msgpack:"pattern" yaml:"pattern" json:"pattern"`
	Values  []V             `msgpack:"values" yaml:"values" json:"values"`
}

// Map is an ordered mapping from quintet pattern to a list of values. The
// zero value is an empty map ready to use.
type Map[V any] struct {
	entries []Entry[V]
}

// New builds a map from entries, keeping their order.
func New[V any](entries ...Entry[V]) Map[V] {
	return Map[V]{entries: entries}
}

// Of puts values under the wildcard pattern.
func Of[V any](values ...V) Map[V] {
	return Map[V]{entries: []Entry[V]{{Pattern: quintet.Wildcard, Values: values}}}
}

// Entries returns the entries in order. The slice must not be modified.
func (m Map[V]) Entries() []Entry[V] {
	return m.entries
}

// Len is the number of entries, not values.
func (m Map[V]) Len() int {
	return len(m.entries)
}

// Add appends values under a pattern without fusing.
func (m *Map[V]) Add(pattern quintet.Quintet, values ...V) {
	m.entries = append(m.entries, Entry[V]{Pattern: pattern, Values: values})
}

// MatchingElements flattens the values of every entry whose pattern matches
// q, in entry order. Duplicates are kept.
func (m Map[V]) MatchingElements(q quintet.Quintet) []V {
	var out []V
	for _, e := range m.entries {
		if q.Match(e.Pattern) {
			out = append(out, e.Values...)
		}
	}
	return out
}

// All is MatchingElements against the wildcard.
func (m Map[V]) All() []V {
	return m.MatchingElements(quintet.Wildcard)
}

// Merge fuses other into m: entries are sorted by canonical pattern and
// entries with the same pattern are combined, their values concatenated then
// sorted and de-duplicated with compare. A nil compare orders values by their
// fmt.Sprint form.
func (m *Map[V]) Merge(other Map[V], compare func(a, b V) int) *Map[V] {
	if compare == nil {
		compare = defaultCompare[V]
	}

	combined := make([]Entry[V], 0, len(m.entries)+len(other.entries))
	combined = append(combined, m.entries...)
	combined = append(combined, other.entries...)
	slices.SortStableFunc(combined, func(a, b Entry[V]) int {
		return quintet.Compare(a.Pattern, b.Pattern)
	})

	fused := make([]Entry[V], 0, len(combined))
	for _, e := range combined {
		last := len(fused) - 1
		if last >= 0 && quintet.Compare(fused[last].Pattern, e.Pattern) == 0 {
			fused[last].Values = append(fused[last].Values, e.Values...)
			continue
		}
		values := make([]V, len(e.Values))
		copy(values, e.Values)
		fused = append(fused, Entry[V]{Pattern: e.Pattern, Values: values})
	}
	for i := range fused {
		slices.SortStableFunc(fused[i].Values, compare)
		fused[i].Values = slices.CompactFunc(fused[i].Values, func(a, b V) bool {
			return compare(a, b) == 0
		})
	}

	m.entries = fused
	return m
}

// Merged returns a fused copy of a and b without touching either.
func Merged[V any](a, b Map[V], compare func(a, b V) int) Map[V] {
	out := Map[V]{entries: slices.Clone(a.entries)}
	out.Merge(b, compare)
	return out
}

func defaultCompare[V any](a, b V) int {
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
