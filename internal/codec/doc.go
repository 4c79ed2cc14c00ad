// Package codec serializes values that cross a task boundary.
//
// Every payload travels in a msgpack envelope `{tag, body}`. The tag names a
// TypeCodec registered with the Registry, which knows how to encode the body
// and how to rebuild the value on the other side, including links that are
// not part of the wire form (workspace parent links, bound package managers).
package codec
