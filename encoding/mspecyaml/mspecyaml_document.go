// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

// Package mspecyaml reads protocol module documents and writes the linked
// module as YAML for code generators.
//
// A document lists type declarations. Expressions and type names inside it
// are kept as strings; they are parsed by the compiler.
package mspecyaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

type Document struct {
	Protocol string `yaml:"protocol"`

	// LittleEndian is the byte order of types that do not declare one.
	LittleEndian *bool `yaml:"littleEndian,omitempty"`

	Types []*TypeDecl `yaml:"types"`
}

type TypeDecl struct {
	Name         string            `yaml:"name"`
	Kind         string            `yaml:"kind,omitempty"`
	Abstract     bool              `yaml:"abstract,omitempty"`
	LittleEndian *bool             `yaml:"littleEndian,omitempty"`
	Tags         []string          `yaml:"tags,omitempty"`
	Attributes   map[string]string `yaml:"attributes,omitempty"`
	Arguments    []ArgumentDecl    `yaml:"arguments,omitempty"`

	// Complex types.
	Parent              string       `yaml:"parent,omitempty"`
	DiscriminatorValues []string     `yaml:"discriminatorValues,omitempty"`
	Fields              []*FieldDecl `yaml:"fields,omitempty"`

	// Enum types.
	Type      string            `yaml:"type,omitempty"`
	Constants map[string]string `yaml:"constants,omitempty"`
	Values    []EnumValueDecl   `yaml:"values,omitempty"`

	Line int `yaml:"-"`
}

func (d *TypeDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain TypeDecl
	if err := node.Decode((*plain)(d)); err != nil {
		return err
	}
	d.Line = node.Line
	return nil
}

type ArgumentDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type EnumValueDecl struct {
	Name      string            `yaml:"name"`
	Value     string            `yaml:"value,omitempty"`
	Constants map[string]string `yaml:"constants,omitempty"`
}

// Field kinds, as written in a field declaration's kind key.
const (
	KindSimple        = "simple"
	KindProperty      = "property"
	KindConst         = "const"
	KindVirtual       = "virtual"
	KindDiscriminator = "discriminator"
	KindArray         = "array"
	KindOptional      = "optional"
	KindImplicit      = "implicit"
	KindReserved      = "reserved"
	KindPadding       = "padding"
	KindChecksum      = "checksum"
	KindSwitch        = "switch"
	KindValidation    = "validation"
)

var fieldKinds = []string{
	KindSimple, KindProperty, KindConst, KindVirtual, KindDiscriminator,
	KindArray, KindOptional, KindImplicit, KindReserved, KindPadding,
	KindChecksum, KindSwitch, KindValidation,
}

var fieldKeys = []string{
	"type", "expected", "expr", "condition", "loop", "times",
	"description", "cases", "attributes",
}

// FieldDecl is one entry of a complex type's field list. Exactly one kind
// key is present; its value is the field name, except for:
//
//   - switch, whose value is the list of discriminator names,
//   - reserved, whose value is the expected value,
//   - validation, whose value is the condition.
type FieldDecl struct {
	Kind  string
	Value string

	Discriminators []string

	Type        string
	Expected    string
	Expr        string
	Condition   string
	Loop        string
	Times       string
	Description string
	Cases       []string
	Attributes  map[string]string

	Line int
}

func (d *FieldDecl) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: field declaration must be a mapping", node.Line)
	}
	*d = FieldDecl{Line: node.Line}
	for ii := 0; ii+1 < len(node.Content); ii += 2 {
		key, value := node.Content[ii].Value, node.Content[ii+1]
		if slices.Contains(fieldKinds, key) {
			if d.Kind != "" {
				return fmt.Errorf(
					"line %d: field declares both %q and %q",
					node.Line, d.Kind, key,
				)
			}
			d.Kind = key
			if key == KindSwitch {
				if err := value.Decode(&d.Discriminators); err != nil {
					return err
				}
			} else if err := value.Decode(&d.Value); err != nil {
				return err
			}
			continue
		}
		if !slices.Contains(fieldKeys, key) {
			return fmt.Errorf("line %d: unknown field key %q", node.Content[ii].Line, key)
		}
	}
	if d.Kind == "" {
		return fmt.Errorf("line %d: field declaration has no kind", node.Line)
	}

	var rest struct {
		Type        string            `yaml:"type"`
		Expected    string            `yaml:"expected"`
		Expr        string            `yaml:"expr"`
		Condition   string            `yaml:"condition"`
		Loop        string            `yaml:"loop"`
		Times       string            `yaml:"times"`
		Description string            `yaml:"description"`
		Cases       []string          `yaml:"cases"`
		Attributes  map[string]string `yaml:"attributes"`
	}
	// Decoding the whole mapping into a struct ignores the kind key, which
	// has no matching struct field.
	if err := node.Decode(&rest); err != nil {
		return err
	}
	d.Type = rest.Type
	d.Expected = rest.Expected
	d.Expr = rest.Expr
	d.Condition = rest.Condition
	d.Loop = rest.Loop
	d.Times = rest.Times
	d.Description = rest.Description
	d.Cases = rest.Cases
	d.Attributes = rest.Attributes
	return nil
}

func (d *FieldDecl) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value any) {
		var valueNode yaml.Node
		// Encoding strings and string slices cannot fail.
		_ = valueNode.Encode(value)
		out.Content = append(out.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&valueNode)
	}
	if d.Kind == KindSwitch {
		add(d.Kind, d.Discriminators)
	} else {
		add(d.Kind, d.Value)
	}
	for _, kv := range []struct{ key, value string }{
		{"type", d.Type},
		{"expected", d.Expected},
		{"expr", d.Expr},
		{"condition", d.Condition},
		{"loop", d.Loop},
		{"times", d.Times},
		{"description", d.Description},
	} {
		if kv.value != "" {
			add(kv.key, kv.value)
		}
	}
	if len(d.Cases) > 0 {
		add("cases", d.Cases)
	}
	if len(d.Attributes) > 0 {
		add("attributes", d.Attributes)
	}
	return out, nil
}

// Decode reads a single module document.
func Decode(data []byte) (*Document, error) {
	return DecodeFrom(bytes.NewReader(data))
}

func DecodeFrom(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("mspecyaml: empty document")
		}
		return nil, fmt.Errorf("mspecyaml: %w", err)
	}
	return &doc, nil
}

// EncodeDocument writes doc back in document form.
func EncodeDocument(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
