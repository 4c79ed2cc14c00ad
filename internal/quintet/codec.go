// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package quintet

import (
	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = Quintet{}
	_ msgpack.CustomDecoder = (*Quintet)(nil)
)

// EncodeMsgpack writes the canonical string.
func (q Quintet) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(q.String())
}

// DecodeMsgpack parses the canonical string back.
func (q *Quintet) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeString()
	if err != nil {
		return err
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// MarshalText lets quintets appear as plain strings in YAML and JSON output.
func (q Quintet) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText parses a quintet from text.
func (q *Quintet) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
