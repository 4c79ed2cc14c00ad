// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package loader

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/buildgrid/internal/codec"
	"github.com/specialistvlad/buildgrid/internal/descriptor"
	"github.com/specialistvlad/buildgrid/internal/label"
	"github.com/specialistvlad/buildgrid/internal/model"
	"github.com/specialistvlad/buildgrid/internal/quintet"
	"github.com/specialistvlad/buildgrid/internal/registry"
)

// registerErrors makes the errors a load task can fail with keep their type
// in the parent.
func registerErrors(r *codec.Registry) {
	r.RegisterError("error.parse", parseErrorCodec{})
	r.RegisterError("error.quintet", codec.ErrorStruct[quintet.ParseError]())
	r.RegisterError("error.label", codec.ErrorStruct[label.ParseError]())
	r.RegisterError("error.descriptor", codec.ErrorStruct[model.DescriptorError]())
	r.RegisterError("error.property", codec.ErrorStruct[model.MissingPropertyError]())
	r.RegisterError("error.component_cycle", codec.ErrorStruct[ComponentCycleError]())
	r.RegisterError("error.handler", codec.ErrorStruct[registry.UnknownHandlerError]())
	r.RegisterError("error.config", codec.ErrorStruct[registry.ConfigError]())
}

// parseErrorCodec carries a descriptor.ParseError. The wrapped error travels
// as its message.
type parseErrorCodec struct{}

type parseErrorWire struct {
	Filename string `msgpack:"filename"`
	Message  string `msgpack:"message"`
}

func (parseErrorCodec) Find(err error) (error, bool) {
	var perr *descriptor.ParseError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

func (parseErrorCodec) Marshal(v any) ([]byte, error) {
	perr, ok := v.(*descriptor.ParseError)
	if !ok {
		return nil, fmt.Errorf("expected *descriptor.ParseError, got %T", v)
	}
	wire := parseErrorWire{Filename: perr.Filename}
	if perr.Err != nil {
		wire.Message = perr.Err.Error()
	}
	return codec.StructCodec[parseErrorWire]{}.Marshal(wire)
}

func (parseErrorCodec) Unmarshal(body []byte) (any, error) {
	v, err := codec.StructCodec[parseErrorWire]{}.Unmarshal(body)
	if err != nil {
		return nil, err
	}
	wire := v.(*parseErrorWire)
	return &descriptor.ParseError{Filename: wire.Filename, Err: errors.New(wire.Message)}, nil
}
