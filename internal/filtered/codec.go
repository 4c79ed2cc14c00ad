// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package filtered

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// EncodeMsgpack writes the entries as an ordered array of pattern/values pairs.
func (m Map[V]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(m.entries)
}

// DecodeMsgpack reads the array written by EncodeMsgpack.
func (m *Map[V]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var entries []Entry[V]
	if err := dec.Decode(&entries); err != nil {
		return err
	}
	m.entries = entries
	return nil
}

// MarshalYAML renders the entries for plan output.
func (m Map[V]) MarshalYAML() (any, error) {
	if m.entries == nil {
		return []Entry[V]{}, nil
	}
	return m.entries, nil
}

// MarshalJSON renders the entries for plan output.
func (m Map[V]) MarshalJSON() ([]byte, error) {
	if m.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m.entries)
}

var _ yaml.Marshaler = Map[string]{}
