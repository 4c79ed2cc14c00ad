// Package yaml_adapter reads `.yaml` build descriptors. Every document of a
// file is one record; its `kind` key names the record kind and the other
// keys are the attributes.
//
//	kind: workspace
//	name: app
//	targets:
//	  - name: main
//	    type: executable
//	---
//	kind: toolchain
//	name: gcc
package yaml_adapter

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/buildgrid/internal/descriptor"
	"gopkg.in/yaml.v3"
)

// KindKey is the document key holding the record kind.
const KindKey = "kind"

// Parser is the YAML implementation of descriptor.Parser.
type Parser struct{}

var _ descriptor.Parser = Parser{}

// NewParser returns a YAML parser.
func NewParser() Parser {
	return Parser{}
}

// Parse implements descriptor.Parser.
func (Parser) Parse(filename string, src []byte) ([]descriptor.Record, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	var records []descriptor.Record
	for doc := 1; ; doc++ {
		var attrs map[string]any
		err := dec.Decode(&attrs)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &descriptor.ParseError{Filename: filename, Err: fmt.Errorf("document %d: %w", doc, err)}
		}
		if attrs == nil {
			continue
		}
		kind, ok := attrs[KindKey].(string)
		if !ok || kind == "" {
			return nil, &descriptor.ParseError{Filename: filename, Err: fmt.Errorf("document %d: missing string %q", doc, KindKey)}
		}
		delete(attrs, KindKey)
		records = append(records, descriptor.Record{Kind: kind, Attrs: attrs})
	}
	return records, nil
}
