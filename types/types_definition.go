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

// Package types is the linked model of an mspec module: type references,
// fields, and complex and enum type definitions.
package types

import (
	"maps"
	"slices"

	"github.com/apache/plc4x-sub023/term"
)

// Argument is a named, typed parameter of a type's parser.
type Argument struct {
	Name string
	Type TypeReference
}

// A TypeDefinition is a named complex or enum type.
type TypeDefinition interface {
	Name() string
	ParserArguments() []Argument
	Tags() []string
	Attributes() map[string]term.Term

	// ParentType returns the linked parent type, or nil for root types.
	ParentType() *ComplexTypeDefinition

	privTypeDefinition()
}

var (
	_ TypeDefinition = (*ComplexTypeDefinition)(nil)
	_ TypeDefinition = (*EnumTypeDefinition)(nil)
)

type typeConfig struct {
	args                []Argument
	tags                []string
	attributes          map[string]term.Term
	littleEndian        bool
	abstract            bool
	parentName          string
	discriminatorValues []term.Term
}

type TypeOption func(*typeConfig)

func WithParserArguments(args []Argument) TypeOption {
	return func(c *typeConfig) { c.args = slices.Clone(args) }
}

func WithTags(tags []string) TypeOption {
	return func(c *typeConfig) { c.tags = slices.Clone(tags) }
}

func WithTypeAttributes(attrs map[string]term.Term) TypeOption {
	return func(c *typeConfig) { c.attributes = maps.Clone(attrs) }
}

// WithLittleEndian marks the type's wire layout as little-endian, which
// changes the order reported by FieldsInOrder.
func WithLittleEndian(littleEndian bool) TypeOption {
	return func(c *typeConfig) { c.littleEndian = littleEndian }
}

func WithAbstract(abstract bool) TypeOption {
	return func(c *typeConfig) { c.abstract = abstract }
}

// WithParentName declares the parent of a complex type. The parent is
// looked up when the registry is resolved.
func WithParentName(name string) TypeOption {
	return func(c *typeConfig) { c.parentName = name }
}

// WithDiscriminatorValues sets the values of the parent's switch
// discriminators that select this subtype.
func WithDiscriminatorValues(values []term.Term) TypeOption {
	return func(c *typeConfig) { c.discriminatorValues = slices.Clone(values) }
}

func newTypeConfig(opts []TypeOption) typeConfig {
	var c typeConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type typeBase struct {
	name       string
	args       []Argument
	tags       []string
	attributes map[string]term.Term
	parent     *ComplexTypeDefinition
}

func (t *typeBase) Name() string {
	return t.name
}

func (t *typeBase) ParserArguments() []Argument {
	return t.args
}

func (t *typeBase) Tags() []string {
	return t.tags
}

func (t *typeBase) Attributes() map[string]term.Term {
	return t.attributes
}

func (t *typeBase) ParentType() *ComplexTypeDefinition {
	return t.parent
}

func (*typeBase) privTypeDefinition() {}

// ComplexTypeDefinition is a structured message type.
//
// The field views (PropertyFields, AllPropertyFields, and so on) are
// computed on each call and return fresh slices.
type ComplexTypeDefinition struct {
	typeBase
	fields              []Field
	abstract            bool
	littleEndian        bool
	parentName          string
	discriminatorValues []term.Term
}

func NewComplexTypeDefinition(name string, fields []Field, opts ...TypeOption) *ComplexTypeDefinition {
	c := newTypeConfig(opts)
	return &ComplexTypeDefinition{
		typeBase: typeBase{
			name:       name,
			args:       c.args,
			tags:       c.tags,
			attributes: c.attributes,
		},
		fields:              slices.Clone(fields),
		abstract:            c.abstract,
		littleEndian:        c.littleEndian,
		parentName:          c.parentName,
		discriminatorValues: c.discriminatorValues,
	}
}

func (t *ComplexTypeDefinition) IsAbstract() bool {
	return t.abstract
}

func (t *ComplexTypeDefinition) IsLittleEndian() bool {
	return t.littleEndian
}

// ParentName returns the declared parent name, which may differ from the
// linked parent when the type is a switch case.
func (t *ComplexTypeDefinition) ParentName() string {
	return t.parentName
}

func (t *ComplexTypeDefinition) DiscriminatorValues() []term.Term {
	return t.discriminatorValues
}

// Fields returns the fields in declaration order.
func (t *ComplexTypeDefinition) Fields() []Field {
	return slices.Clone(t.fields)
}

func (t *ComplexTypeDefinition) SimpleFields() []*SimpleField {
	return fieldsOfType[*SimpleField](t.fields)
}

func (t *ComplexTypeDefinition) ConstFields() []*ConstField {
	return fieldsOfType[*ConstField](t.fields)
}

func (t *ComplexTypeDefinition) VirtualFields() []*VirtualField {
	return fieldsOfType[*VirtualField](t.fields)
}

// PropertyFields returns the fields declared directly on t that hold a
// named value of the message. See IsProperty.
func (t *ComplexTypeDefinition) PropertyFields() []Field {
	var out []Field
	for _, f := range t.fields {
		if IsProperty(f) {
			out = append(out, f)
		}
	}
	return out
}

// ParentPropertyFields returns the property fields of all ancestors, the
// root-most ancestor first.
func (t *ComplexTypeDefinition) ParentPropertyFields() []Field {
	if t.parent == nil {
		return nil
	}
	return t.parent.AllPropertyFields()
}

// AllPropertyFields returns the parent's property fields followed by t's own.
func (t *ComplexTypeDefinition) AllPropertyFields() []Field {
	return append(t.ParentPropertyFields(), t.PropertyFields()...)
}

// PropertyFieldByName searches t and its ancestors.
func (t *ComplexTypeDefinition) PropertyFieldByName(name string) (Field, bool) {
	for _, f := range t.AllPropertyFields() {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// SwitchField returns the type switch of an abstract type, or nil.
func (t *ComplexTypeDefinition) SwitchField() *SwitchField {
	for _, f := range t.fields {
		if sw, ok := f.(*SwitchField); ok {
			return sw
		}
	}
	return nil
}

// AllParserArguments returns the parser arguments of all ancestors, the
// root-most first, followed by t's own.
func (t *ComplexTypeDefinition) AllParserArguments() []Argument {
	var out []Argument
	if t.parent != nil {
		out = t.parent.AllParserArguments()
	}
	return append(out, t.args...)
}

func fieldsOfType[F Field](fields []Field) []F {
	var out []F
	for _, f := range fields {
		if typed, ok := f.(F); ok {
			out = append(out, typed)
		}
	}
	return out
}
