// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package codec

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrorTag is the tag of RemoteError envelopes.
const ErrorTag = "error"

// RemoteError is an error that happened inside a task. Type is the Go type
// of the original error. Causes holds, as envelopes, every error of a
// registered error type found in the original chain; they are rebuilt on
// decode and reachable through errors.As.
type RemoteError struct {
	Type    string               `msgpack:"type"`
	Message string               `msgpack:"message"`
	Causes  []msgpack.RawMessage `msgpack:"causes,omitempty"`

	causes []error
}

// NewRemoteError captures err without its causes.
func NewRemoteError(err error) *RemoteError {
	return &RemoteError{Type: fmt.Sprintf("%T", err), Message: err.Error()}
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Unwrap returns the decoded causes.
func (e *RemoteError) Unwrap() []error {
	return e.causes
}

// ErrorCodec carries one error type across a task boundary.
type ErrorCodec interface {
	TypeCodec
	// Find returns the first error of the codec's type in err's chain.
	Find(err error) (error, bool)
}

// ErrorStructCodec is the ErrorCodec of an error type *E whose exported
// fields are its whole state.
type ErrorStructCodec[E any, P interface {
	*E
	error
}] struct {
	StructCodec[E]
}

// ErrorStruct returns the ErrorCodec of *E.
func ErrorStruct[E any, P interface {
	*E
	error
}]() ErrorCodec {
	return ErrorStructCodec[E, P]{}
}

// Find implements ErrorCodec.
func (ErrorStructCodec[E, P]) Find(err error) (error, bool) {
	var target P
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// RegisterError adds c under tag. Errors it finds keep their type when
// they cross a task boundary.
func (r *Registry) RegisterError(tag string, c ErrorCodec) {
	r.Register(tag, c)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorTags = append(r.errorTags, tag)
}

// EncodeError wraps err as a RemoteError envelope carrying its registered
// causes.
func (r *Registry) EncodeError(err error) ([]byte, error) {
	remote := NewRemoteError(err)
	r.mu.RLock()
	tags := append([]string(nil), r.errorTags...)
	r.mu.RUnlock()

	for _, tag := range tags {
		c, lookupErr := r.lookup(tag)
		if lookupErr != nil {
			return nil, lookupErr
		}
		found, ok := c.(ErrorCodec).Find(err)
		if !ok {
			continue
		}
		data, encErr := r.Encode(tag, found)
		if encErr != nil {
			return nil, encErr
		}
		remote.Causes = append(remote.Causes, data)
	}
	return r.Encode(ErrorTag, remote)
}

// restoreCauses decodes the cause envelopes of e.
func (r *Registry) restoreCauses(e *RemoteError) error {
	for _, data := range e.Causes {
		tag, v, err := r.Decode(data)
		if err != nil {
			return err
		}
		cause, ok := v.(error)
		if !ok {
			return fmt.Errorf("cause %s decoded to %T", tag, v)
		}
		e.causes = append(e.causes, cause)
	}
	return nil
}
