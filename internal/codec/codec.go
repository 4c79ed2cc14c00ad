// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package codec

import (
	"fmt"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// TypeCodec encodes and decodes the body of one tagged value.
type TypeCodec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(body []byte) (any, error)
}

type envelope struct {
	Tag  string             `msgpack:"tag"`
	Body msgpack.RawMessage `msgpack:"body"`
}

// UnknownTagError is returned for tags nobody registered.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("no codec registered for tag %q", e.Tag)
}

// Registry maps tags to codecs. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	codecs    map[string]TypeCodec
	errorTags []string
}

// NewRegistry returns a registry that already knows how to carry errors.
func NewRegistry() *Registry {
	r := &Registry{codecs: map[string]TypeCodec{}}
	r.Register(ErrorTag, StructCodec[RemoteError]{After: r.restoreCauses})
	return r
}

// Register adds a codec. Registering a tag twice panics.
func (r *Registry) Register(tag string, c TypeCodec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codecs[tag]; exists {
		panic(fmt.Sprintf("codec for tag '%s' already registered", tag))
	}
	r.codecs[tag] = c
}

func (r *Registry) lookup(tag string) (TypeCodec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[tag]
	if !ok {
		return nil, &UnknownTagError{Tag: tag}
	}
	return c, nil
}

// Encode wraps v in an envelope tagged tag.
func (r *Registry) Encode(tag string, v any) ([]byte, error) {
	c, err := r.lookup(tag)
	if err != nil {
		return nil, err
	}
	body, err := c.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", tag, err)
	}
	return msgpack.Marshal(envelope{Tag: tag, Body: body})
}

// Decode unwraps an envelope and rebuilds its value.
func (r *Registry) Decode(data []byte) (string, any, error) {
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return "", nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	c, err := r.lookup(env.Tag)
	if err != nil {
		return env.Tag, nil, err
	}
	v, err := c.Unmarshal(env.Body)
	if err != nil {
		return env.Tag, nil, fmt.Errorf("failed to decode %s: %w", env.Tag, err)
	}
	return env.Tag, v, nil
}

// DecodeAs decodes data and expects a *T tagged tag. A RemoteError envelope
// is returned as the error.
func DecodeAs[T any](r *Registry, data []byte, tag string) (*T, error) {
	got, v, err := r.Decode(data)
	if err != nil {
		return nil, err
	}
	if got == ErrorTag {
		return nil, v.(*RemoteError)
	}
	if got != tag {
		return nil, fmt.Errorf("expected %s, got %s", tag, got)
	}
	out, ok := v.(*T)
	if !ok {
		return nil, fmt.Errorf("codec for %s produced %T", tag, v)
	}
	return out, nil
}

// StructCodec is the codec for a plain msgpack-tagged struct. After, when
// set, runs on every decoded value.
type StructCodec[T any] struct {
	After func(*T) error
}

// Marshal accepts T or *T.
func (c StructCodec[T]) Marshal(v any) ([]byte, error) {
	switch x := v.(type) {
	case *T:
		return msgpack.Marshal(x)
	case T:
		return msgpack.Marshal(&x)
	default:
		var zero T
		return nil, fmt.Errorf("expected %T, got %T", zero, v)
	}
}

// Unmarshal returns a *T.
func (c StructCodec[T]) Unmarshal(body []byte) (any, error) {
	out := new(T)
	if err := msgpack.Unmarshal(body, out); err != nil {
		return nil, err
	}
	if c.After != nil {
		if err := c.After(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
