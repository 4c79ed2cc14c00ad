// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// Mapping is one entry of a NameMap: the names on the input side and the
// names they produce.
type Mapping struct {
	Inputs  []string `msgpack:"inputs" yaml:"inputs" json:"inputs"`
	Outputs []string `msgpack:"outputs" yaml:"outputs" json:"outputs"`
}

// NameMap is an insertion-ordered map from a name to its Mapping. Declared
// name mappings use templates as keys (`*.c` to `*.o`); synthesized step maps
// use concrete paths.
type NameMap struct {
	keys    []string
	entries map[string]*Mapping
}

// NewNameMap returns an empty map.
func NewNameMap() *NameMap {
	return &NameMap{entries: make(map[string]*Mapping)}
}

// NewTemplateMap reads a declared mapping object: each key is an input
// template, each value an output template or a list of them.
func NewTemplateMap(raw any) (*NameMap, error) {
	attrs, ok := raw.(map[string]any)
	if !ok {
		return nil, &DescriptorError{Kind: "name mapping", Reason: fmt.Sprintf("expected an object, got %T", raw)}
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	nm := NewNameMap()
	for _, k := range keys {
		var outputs []string
		switch v := attrs[k].(type) {
		case string:
			outputs = []string{v}
		case []any:
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, &DescriptorError{Kind: "name mapping", Name: k, Reason: fmt.Sprintf("output must be a string, got %T", item)}
				}
				outputs = append(outputs, s)
			}
		default:
			return nil, &DescriptorError{Kind: "name mapping", Name: k, Reason: fmt.Sprintf("output must be a string or list, got %T", v)}
		}
		nm.Set(k, Mapping{Inputs: []string{k}, Outputs: outputs})
	}
	return nm, nil
}

// Set replaces the mapping for key, keeping its original position.
func (n *NameMap) Set(key string, m Mapping) {
	if _, ok := n.entries[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.entries[key] = &m
}

// Get returns the mapping for key.
func (n *NameMap) Get(key string) (*Mapping, bool) {
	m, ok := n.entries[key]
	return m, ok
}

// AppendOutputs adds outputs to key, creating the entry with key as its only
// input when missing.
func (n *NameMap) AppendOutputs(key string, outputs ...string) {
	if m, ok := n.entries[key]; ok {
		m.Outputs = append(m.Outputs, outputs...)
		return
	}
	n.Set(key, Mapping{Inputs: []string{key}, Outputs: slices.Clone(outputs)})
}

// Keys returns the keys in insertion order.
func (n *NameMap) Keys() []string {
	if n == nil {
		return nil
	}
	return slices.Clone(n.keys)
}

// Len is the number of keys.
func (n *NameMap) Len() int {
	if n == nil {
		return 0
	}
	return len(n.keys)
}

// Each visits entries in insertion order.
func (n *NameMap) Each(fn func(key string, m *Mapping)) {
	if n == nil {
		return
	}
	for _, k := range n.keys {
		fn(k, n.entries[k])
	}
}

// Outputs flattens the outputs of all entries in order.
func (n *NameMap) Outputs() []string {
	var out []string
	n.Each(func(_ string, m *Mapping) {
		out = append(out, m.Outputs...)
	})
	return out
}

// Reverse builds the output to input map. Inputs reached through more than
// one entry are listed once.
func (n *NameMap) Reverse() *NameMap {
	reverse := NewNameMap()
	n.Each(func(_ string, m *Mapping) {
		for _, out := range m.Outputs {
			existing, ok := reverse.entries[out]
			if !ok {
				reverse.Set(out, Mapping{Inputs: []string{out}, Outputs: slices.Clone(m.Inputs)})
				continue
			}
			for _, in := range m.Inputs {
				if !slices.Contains(existing.Outputs, in) {
					existing.Outputs = append(existing.Outputs, in)
				}
			}
		}
	})
	return reverse
}

type nameMapEntry struct {
	Key     string   `msgpack:"key" yaml:"key" json:"key"`
	Inputs  []string `msgpack:"inputs" yaml:"inputs,flow" json:"inputs"`
	Outputs []string `msgpack:"outputs" yaml:"outputs,flow" json:"outputs"`
}

func (n *NameMap) list() []nameMapEntry {
	out := make([]nameMapEntry, 0, n.Len())
	n.Each(func(k string, m *Mapping) {
		out = append(out, nameMapEntry{Key: k, Inputs: m.Inputs, Outputs: m.Outputs})
	})
	return out
}

// EncodeMsgpack writes the entries in order.
func (n *NameMap) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(n.list())
}

// DecodeMsgpack restores the entries written by EncodeMsgpack.
func (n *NameMap) DecodeMsgpack(dec *msgpack.Decoder) error {
	var list []nameMapEntry
	if err := dec.Decode(&list); err != nil {
		return err
	}
	*n = NameMap{entries: make(map[string]*Mapping, len(list))}
	for _, e := range list {
		n.Set(e.Key, Mapping{Inputs: e.Inputs, Outputs: e.Outputs})
	}
	return nil
}

// MarshalYAML renders the entries in order.
func (n *NameMap) MarshalYAML() (any, error) {
	return n.list(), nil
}

// MarshalJSON renders the entries in order.
func (n *NameMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.list())
}
