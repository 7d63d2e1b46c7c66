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

package types

import (
	"fmt"
	"maps"

	"github.com/apache/plc4x-sub023/term"
)

type FieldKind uint8

const (
	FieldSimple FieldKind = iota
	FieldConst
	FieldProperty
	FieldVirtual
	FieldDiscriminator
	FieldArray
	FieldOptional
	FieldImplicit
	FieldReserved
	FieldPadding
	FieldChecksum
	FieldSwitch
	FieldValidation
)

var fieldKindNames = [...]string{
	FieldSimple:        "simple",
	FieldConst:         "const",
	FieldProperty:      "property",
	FieldVirtual:       "virtual",
	FieldDiscriminator: "discriminator",
	FieldArray:         "array",
	FieldOptional:      "optional",
	FieldImplicit:      "implicit",
	FieldReserved:      "reserved",
	FieldPadding:       "padding",
	FieldChecksum:      "checksum",
	FieldSwitch:        "typeSwitch",
	FieldValidation:    "validation",
}

func (k FieldKind) String() string {
	if int(k) < len(fieldKindNames) {
		return fieldKindNames[k]
	}
	return fmt.Sprintf("FieldKind(%d)", uint8(k))
}

// A Field is one entry in a complex type's field list.
type Field interface {
	Kind() FieldKind

	// Name returns the field name, or "" for unnamed fields.
	Name() string

	Attributes() map[string]term.Term

	privField()
}

// TypedField is implemented by every field that occupies a typed slot.
type TypedField interface {
	Field
	Type() TypeReference
}

var (
	_ TypedField = (*SimpleField)(nil)
	_ TypedField = (*ConstField)(nil)
	_ TypedField = (*PropertyField)(nil)
	_ TypedField = (*VirtualField)(nil)
	_ TypedField = (*DiscriminatorField)(nil)
	_ TypedField = (*ArrayField)(nil)
	_ TypedField = (*OptionalField)(nil)
	_ TypedField = (*ImplicitField)(nil)
	_ TypedField = (*ReservedField)(nil)
	_ TypedField = (*PaddingField)(nil)
	_ TypedField = (*ChecksumField)(nil)
	_ Field      = (*SwitchField)(nil)
	_ Field      = (*ValidationField)(nil)
)

type FieldOption func(*fieldBase)

// WithFieldAttributes attaches attributes, such as byte order or encoding
// overrides, to a field.
func WithFieldAttributes(attrs map[string]term.Term) FieldOption {
	return func(f *fieldBase) {
		f.attributes = maps.Clone(attrs)
	}
}

type fieldBase struct {
	name       string
	attributes map[string]term.Term
}

func newFieldBase(name string, opts []FieldOption) fieldBase {
	f := fieldBase{name: name}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func (f *fieldBase) Name() string {
	return f.name
}

func (f *fieldBase) Attributes() map[string]term.Term {
	return f.attributes
}

func (*fieldBase) privField() {}

type typedFieldBase struct {
	fieldBase
	typ TypeReference
}

func (f *typedFieldBase) Type() TypeReference {
	return f.typ
}

// SimpleField is a typed wire slot that is read and written but not exposed
// as a property of the message.
type SimpleField struct {
	typedFieldBase
}

func NewSimpleField(name string, typ TypeReference, opts ...FieldOption) *SimpleField {
	return &SimpleField{typedFieldBase{newFieldBase(name, opts), typ}}
}

func (*SimpleField) Kind() FieldKind { return FieldSimple }

// ConstField is a slot whose value on the wire must equal Expected.
type ConstField struct {
	typedFieldBase
	expected term.Term
}

func NewConstField(name string, typ TypeReference, expected term.Term, opts ...FieldOption) *ConstField {
	return &ConstField{typedFieldBase{newFieldBase(name, opts), typ}, expected}
}

func (*ConstField) Kind() FieldKind { return FieldConst }

func (f *ConstField) Expected() term.Term {
	return f.expected
}

type PropertyField struct {
	typedFieldBase
}

func NewPropertyField(name string, typ TypeReference, opts ...FieldOption) *PropertyField {
	return &PropertyField{typedFieldBase{newFieldBase(name, opts), typ}}
}

func (*PropertyField) Kind() FieldKind { return FieldProperty }

// VirtualField is computed from other fields and consumes nothing on the
// wire.
type VirtualField struct {
	typedFieldBase
	value term.Term
}

func NewVirtualField(name string, typ TypeReference, value term.Term, opts ...FieldOption) *VirtualField {
	return &VirtualField{typedFieldBase{newFieldBase(name, opts), typ}, value}
}

func (*VirtualField) Kind() FieldKind { return FieldVirtual }

func (f *VirtualField) ValueTerm() term.Term {
	return f.value
}

// DiscriminatorField selects the concrete subtype of an abstract type.
type DiscriminatorField struct {
	typedFieldBase
}

func NewDiscriminatorField(name string, typ TypeReference, opts ...FieldOption) *DiscriminatorField {
	return &DiscriminatorField{typedFieldBase{newFieldBase(name, opts), typ}}
}

func (*DiscriminatorField) Kind() FieldKind { return FieldDiscriminator }

type ArrayField struct {
	fieldBase
	typ *ArrayTypeReference
}

func NewArrayField(name string, typ *ArrayTypeReference, opts ...FieldOption) *ArrayField {
	return &ArrayField{newFieldBase(name, opts), typ}
}

func (*ArrayField) Kind() FieldKind { return FieldArray }

func (f *ArrayField) Type() TypeReference {
	return f.typ
}

func (f *ArrayField) ArrayType() *ArrayTypeReference {
	return f.typ
}

// OptionalField is present on the wire only when its condition holds. A nil
// condition means presence is decided by the remaining input.
type OptionalField struct {
	typedFieldBase
	condition term.Term
}

func NewOptionalField(name string, typ TypeReference, condition term.Term, opts ...FieldOption) *OptionalField {
	return &OptionalField{typedFieldBase{newFieldBase(name, opts), typ}, condition}
}

func (*OptionalField) Kind() FieldKind { return FieldOptional }

func (f *OptionalField) ConditionTerm() term.Term {
	return f.condition
}

// ImplicitField is read from the wire but written from an expression, such
// as a length prefix.
type ImplicitField struct {
	typedFieldBase
	serialize term.Term
}

func NewImplicitField(name string, typ TypeReference, serialize term.Term, opts ...FieldOption) *ImplicitField {
	return &ImplicitField{typedFieldBase{newFieldBase(name, opts), typ}, serialize}
}

func (*ImplicitField) Kind() FieldKind { return FieldImplicit }

func (f *ImplicitField) SerializeTerm() term.Term {
	return f.serialize
}

type ReservedField struct {
	typedFieldBase
	expected term.Term
}

func NewReservedField(typ TypeReference, expected term.Term, opts ...FieldOption) *ReservedField {
	return &ReservedField{typedFieldBase{newFieldBase("", opts), typ}, expected}
}

func (*ReservedField) Kind() FieldKind { return FieldReserved }

func (f *ReservedField) Expected() term.Term {
	return f.expected
}

// PaddingField fills with Value repeated Times times.
type PaddingField struct {
	typedFieldBase
	value term.Term
	times term.Term
}

func NewPaddingField(name string, typ TypeReference, value, times term.Term, opts ...FieldOption) *PaddingField {
	return &PaddingField{typedFieldBase{newFieldBase(name, opts), typ}, value, times}
}

func (*PaddingField) Kind() FieldKind { return FieldPadding }

func (f *PaddingField) ValueTerm() term.Term {
	return f.value
}

func (f *PaddingField) TimesTerm() term.Term {
	return f.times
}

type ChecksumField struct {
	typedFieldBase
	checksum term.Term
}

func NewChecksumField(name string, typ TypeReference, checksum term.Term, opts ...FieldOption) *ChecksumField {
	return &ChecksumField{typedFieldBase{newFieldBase(name, opts), typ}, checksum}
}

func (*ChecksumField) Kind() FieldKind { return FieldChecksum }

func (f *ChecksumField) ChecksumTerm() term.Term {
	return f.checksum
}

// SwitchField marks where an abstract type hands over to one of its
// subtypes. Cases are subtype names; the subtypes themselves are linked by
// the registry.
type SwitchField struct {
	fieldBase
	discriminators []*term.VariableLiteral
	cases          []string
}

func NewSwitchField(discriminators []*term.VariableLiteral, cases []string, opts ...FieldOption) *SwitchField {
	return &SwitchField{newFieldBase("", opts), discriminators, cases}
}

func (*SwitchField) Kind() FieldKind { return FieldSwitch }

func (f *SwitchField) Discriminators() []*term.VariableLiteral {
	return f.discriminators
}

func (f *SwitchField) Cases() []string {
	return f.cases
}

type ValidationField struct {
	fieldBase
	condition   term.Term
	description string
}

func NewValidationField(condition term.Term, description string, opts ...FieldOption) *ValidationField {
	return &ValidationField{newFieldBase("", opts), condition, description}
}

func (*ValidationField) Kind() FieldKind { return FieldValidation }

func (f *ValidationField) ConditionTerm() term.Term {
	return f.condition
}

func (f *ValidationField) Description() string {
	return f.description
}

// IsProperty reports whether f holds a named value of the message object.
// Const and virtual fields are never properties.
func IsProperty(f Field) bool {
	switch f.(type) {
	case *PropertyField, *DiscriminatorField, *ArrayField, *OptionalField:
		return true
	case *SimpleField, *ConstField, *VirtualField, *ImplicitField, *ReservedField,
		*PaddingField, *ChecksumField, *SwitchField, *ValidationField:
		return false
	default:
		panic("unreachable")
	}
}

// Terms returns the expression terms held by f, in declaration order, not
// counting terms inside its type reference.
func Terms(f Field) []term.Term {
	var out []term.Term
	add := func(ts ...term.Term) {
		for _, t := range ts {
			if t != nil {
				out = append(out, t)
			}
		}
	}
	switch f := f.(type) {
	case *SimpleField, *PropertyField, *DiscriminatorField:
	case *ConstField:
		add(f.expected)
	case *VirtualField:
		add(f.value)
	case *ArrayField:
		add(f.typ.length)
	case *OptionalField:
		add(f.condition)
	case *ImplicitField:
		add(f.serialize)
	case *ReservedField:
		add(f.expected)
	case *PaddingField:
		add(f.value, f.times)
	case *ChecksumField:
		add(f.checksum)
	case *SwitchField:
		for _, d := range f.discriminators {
			add(d)
		}
	case *ValidationField:
		add(f.condition)
	default:
		panic("unreachable")
	}
	return out
}
