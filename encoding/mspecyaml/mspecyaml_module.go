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

package mspecyaml

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/apache/plc4x-sub023/term"
	"github.com/apache/plc4x-sub023/types"
)

// ModuleIR is the linked module as seen by code generators. Terms and type
// references are rendered with their String methods.
type ModuleIR struct {
	Protocol string    `yaml:"protocol"`
	Types    []*TypeIR `yaml:"types"`
}

type TypeIR struct {
	Name         string            `yaml:"name"`
	Kind         string            `yaml:"kind"`
	Parent       string            `yaml:"parent,omitempty"`
	Abstract     bool              `yaml:"abstract,omitempty"`
	LittleEndian bool              `yaml:"littleEndian,omitempty"`
	Tags         []string          `yaml:"tags,omitempty"`
	Attributes   map[string]string `yaml:"attributes,omitempty"`
	Arguments    []ArgumentDecl    `yaml:"arguments,omitempty"`

	// AllArguments includes the parser arguments inherited from parents.
	AllArguments        []ArgumentDecl `yaml:"allArguments,omitempty"`
	DiscriminatorValues []string       `yaml:"discriminatorValues,omitempty"`
	Fields              []*FieldIR     `yaml:"fields,omitempty"`

	// Order lists indexes into Fields in the order they appear on the wire.
	Order []int `yaml:"order,omitempty"`

	Subtypes []string `yaml:"subtypes,omitempty"`

	BaseType      string            `yaml:"baseType,omitempty"`
	ConstantTypes map[string]string `yaml:"constantTypes,omitempty"`
	Values        []EnumValueDecl   `yaml:"values,omitempty"`
}

type FieldIR struct {
	Kind           string            `yaml:"kind"`
	Name           string            `yaml:"name,omitempty"`
	Type           string            `yaml:"type,omitempty"`
	Property       bool              `yaml:"property,omitempty"`
	Loop           string            `yaml:"loop,omitempty"`
	Terms          map[string]string `yaml:"terms,omitempty"`
	Discriminators []string          `yaml:"discriminators,omitempty"`
	Cases          []string          `yaml:"cases,omitempty"`
	Description    string            `yaml:"description,omitempty"`
	Attributes     map[string]string `yaml:"attributes,omitempty"`
}

// Encode renders a linked module as YAML.
func Encode(protocol string, m *types.Module) ([]byte, error) {
	ir := NewModuleIR(protocol, m)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ir); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func NewModuleIR(protocol string, m *types.Module) *ModuleIR {
	ir := &ModuleIR{Protocol: protocol}
	for _, def := range m.Types() {
		ir.Types = append(ir.Types, newTypeIR(m, def))
	}
	return ir
}

func newTypeIR(m *types.Module, def types.TypeDefinition) *TypeIR {
	out := &TypeIR{
		Name:       def.Name(),
		Tags:       def.Tags(),
		Attributes: termMap(def.Attributes()),
		Arguments:  argumentDecls(def.ParserArguments()),
	}
	if parent := def.ParentType(); parent != nil {
		out.Parent = parent.Name()
	}
	switch def := def.(type) {
	case *types.ComplexTypeDefinition:
		out.Kind = "complex"
		out.Abstract = def.IsAbstract()
		out.LittleEndian = def.IsLittleEndian()
		if def.ParentType() != nil {
			out.AllArguments = argumentDecls(def.AllParserArguments())
		}
		out.DiscriminatorValues = termStrings(def.DiscriminatorValues())

		fields := def.Fields()
		index := make(map[types.Field]int, len(fields))
		for ii, f := range fields {
			index[f] = ii
			out.Fields = append(out.Fields, newFieldIR(f))
		}
		for _, f := range def.FieldsInOrder() {
			out.Order = append(out.Order, index[f])
		}
		for _, sub := range m.Subtypes(def) {
			out.Subtypes = append(out.Subtypes, sub.Name())
		}
	case *types.EnumTypeDefinition:
		out.Kind = "enum"
		out.BaseType = def.BaseType().String()
		if constTypes := def.ConstantTypes(); len(constTypes) > 0 {
			out.ConstantTypes = make(map[string]string, len(constTypes))
			for name, ref := range constTypes {
				out.ConstantTypes[name] = ref.String()
			}
		}
		for _, v := range def.Values() {
			out.Values = append(out.Values, EnumValueDecl{
				Name:      v.Name,
				Value:     v.Value,
				Constants: termMap(v.Constants),
			})
		}
	default:
		panic("unreachable")
	}
	return out
}

func newFieldIR(f types.Field) *FieldIR {
	out := &FieldIR{
		Kind:       f.Kind().String(),
		Name:       f.Name(),
		Property:   types.IsProperty(f),
		Attributes: termMap(f.Attributes()),
	}
	if typed, ok := f.(types.TypedField); ok {
		out.Type = typed.Type().String()
	}
	terms := make(map[string]string)
	setTerm := func(key string, t term.Term) {
		if t != nil {
			terms[key] = t.String()
		}
	}
	switch f := f.(type) {
	case *types.SimpleField, *types.PropertyField, *types.DiscriminatorField:
	case *types.ConstField:
		setTerm("expected", f.Expected())
	case *types.VirtualField:
		setTerm("value", f.ValueTerm())
	case *types.ArrayField:
		arrayType := f.ArrayType()
		out.Type = arrayType.ElementType().String()
		out.Loop = arrayType.LoopType().String()
		setTerm("length", arrayType.LengthTerm())
	case *types.OptionalField:
		setTerm("condition", f.ConditionTerm())
	case *types.ImplicitField:
		setTerm("serialize", f.SerializeTerm())
	case *types.ReservedField:
		setTerm("expected", f.Expected())
	case *types.PaddingField:
		setTerm("value", f.ValueTerm())
		setTerm("times", f.TimesTerm())
	case *types.ChecksumField:
		setTerm("checksum", f.ChecksumTerm())
	case *types.SwitchField:
		for _, d := range f.Discriminators() {
			out.Discriminators = append(out.Discriminators, d.String())
		}
		out.Cases = f.Cases()
	case *types.ValidationField:
		setTerm("condition", f.ConditionTerm())
		out.Description = f.Description()
	default:
		panic("unreachable")
	}
	if len(terms) > 0 {
		out.Terms = terms
	}
	return out
}

func argumentDecls(args []types.Argument) []ArgumentDecl {
	var out []ArgumentDecl
	for _, arg := range args {
		out = append(out, ArgumentDecl{Name: arg.Name, Type: arg.Type.String()})
	}
	return out
}

func termStrings(terms []term.Term) []string {
	var out []string
	for _, t := range terms {
		out = append(out, t.String())
	}
	return out
}

func termMap(terms map[string]term.Term) map[string]string {
	if len(terms) == 0 {
		return nil
	}
	out := make(map[string]string, len(terms))
	for key, t := range terms {
		out[key] = t.String()
	}
	return out
}
