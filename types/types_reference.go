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
	"strings"

	"github.com/apache/plc4x-sub023/term"
)

type ReferenceKind uint8

const (
	RefSimple ReferenceKind = iota
	RefComplex
	RefArray
)

func (k ReferenceKind) String() string {
	switch k {
	case RefSimple:
		return "simple"
	case RefComplex:
		return "complex"
	case RefArray:
		return "array"
	default:
		return fmt.Sprintf("ReferenceKind(%d)", uint8(k))
	}
}

// A TypeReference is the declared type of a field or parser argument.
type TypeReference interface {
	Kind() ReferenceKind
	String() string

	privTypeReference()
}

var (
	_ TypeReference = (*SimpleTypeReference)(nil)
	_ TypeReference = (*ComplexTypeReference)(nil)
	_ TypeReference = (*ArrayTypeReference)(nil)
)

type BaseType uint8

const (
	BaseBit BaseType = iota + 1
	BaseByte
	BaseUint
	BaseInt
	BaseFloat
	BaseUfloat
	BaseString
	BaseVstring
	BaseTime
	BaseDate
	BaseDateTime
)

var baseTypeNames = map[BaseType]string{
	BaseBit:      "bit",
	BaseByte:     "byte",
	BaseUint:     "uint",
	BaseInt:      "int",
	BaseFloat:    "float",
	BaseUfloat:   "ufloat",
	BaseString:   "string",
	BaseVstring:  "vstring",
	BaseTime:     "time",
	BaseDate:     "date",
	BaseDateTime: "dateTime",
}

func (b BaseType) String() string {
	if name, ok := baseTypeNames[b]; ok {
		return name
	}
	return fmt.Sprintf("BaseType(%d)", uint8(b))
}

// IsSized reports whether references of this base type carry an explicit
// bit width, as in `uint 16`.
func (b BaseType) IsSized() bool {
	switch b {
	case BaseUint, BaseInt, BaseFloat, BaseUfloat, BaseString:
		return true
	}
	return false
}

func ParseBaseType(name string) (BaseType, bool) {
	for base, baseName := range baseTypeNames {
		if name == baseName {
			return base, true
		}
	}
	return 0, false
}

type SimpleTypeReference struct {
	base   BaseType
	size   int
	length term.Term
}

// NewSimpleTypeReference returns a reference to a built-in type. The size of
// bit and byte references is fixed and sizeInBits is ignored for them.
func NewSimpleTypeReference(base BaseType, sizeInBits int) *SimpleTypeReference {
	switch base {
	case BaseBit:
		sizeInBits = 1
	case BaseByte:
		sizeInBits = 8
	}
	return &SimpleTypeReference{base: base, size: sizeInBits}
}

// NewVstringTypeReference returns a variable-length string reference whose
// length in bits is given by an expression. length may be nil.
func NewVstringTypeReference(length term.Term) *SimpleTypeReference {
	return &SimpleTypeReference{base: BaseVstring, length: length}
}

func (*SimpleTypeReference) Kind() ReferenceKind { return RefSimple }
func (*SimpleTypeReference) privTypeReference()  {}

func (r *SimpleTypeReference) BaseType() BaseType {
	return r.base
}

func (r *SimpleTypeReference) SizeInBits() int {
	return r.size
}

func (r *SimpleTypeReference) LengthTerm() term.Term {
	return r.length
}

// IsInteger reports whether the reference is an unsigned or signed integer.
// Bit and byte references are not integers.
func (r *SimpleTypeReference) IsInteger() bool {
	return r.base == BaseUint || r.base == BaseInt
}

func (r *SimpleTypeReference) String() string {
	if r.base.IsSized() {
		return fmt.Sprintf("%s %d", r.base, r.size)
	}
	if r.base == BaseVstring && r.length != nil {
		return fmt.Sprintf("vstring '%s'", r.length)
	}
	return r.base.String()
}

type ComplexTypeReference struct {
	name   string
	params []term.Term
}

func NewComplexTypeReference(name string, params []term.Term) *ComplexTypeReference {
	return &ComplexTypeReference{name, params}
}

func (*ComplexTypeReference) Kind() ReferenceKind { return RefComplex }
func (*ComplexTypeReference) privTypeReference()  {}

func (r *ComplexTypeReference) Name() string {
	return r.name
}

// Params returns the arguments passed to the referenced type's parser.
func (r *ComplexTypeReference) Params() []term.Term {
	return r.params
}

func (r *ComplexTypeReference) String() string {
	if len(r.params) == 0 {
		return r.name
	}
	var buf strings.Builder
	buf.WriteString(r.name)
	buf.WriteByte('(')
	for ii, param := range r.params {
		if ii > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(param.String())
	}
	buf.WriteByte(')')
	return buf.String()
}

type LoopType uint8

const (
	LoopCount LoopType = iota
	LoopLength
	LoopTerminated
)

func (l LoopType) String() string {
	switch l {
	case LoopCount:
		return "count"
	case LoopLength:
		return "length"
	case LoopTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("LoopType(%d)", uint8(l))
	}
}

func ParseLoopType(name string) (LoopType, bool) {
	switch name {
	case "count":
		return LoopCount, true
	case "length":
		return LoopLength, true
	case "terminated":
		return LoopTerminated, true
	}
	return 0, false
}

// ArrayTypeReference describes a repeated element. The length term gives the
// element count, the byte length, or the termination condition depending on
// the loop type. It is evaluated by generated code, not here.
type ArrayTypeReference struct {
	element TypeReference
	loop    LoopType
	length  term.Term
}

func NewArrayTypeReference(element TypeReference, loop LoopType, length term.Term) *ArrayTypeReference {
	return &ArrayTypeReference{element, loop, length}
}

func (*ArrayTypeReference) Kind() ReferenceKind { return RefArray }
func (*ArrayTypeReference) privTypeReference()  {}

func (r *ArrayTypeReference) ElementType() TypeReference {
	return r.element
}

func (r *ArrayTypeReference) LoopType() LoopType {
	return r.loop
}

func (r *ArrayTypeReference) LengthTerm() term.Term {
	return r.length
}

func (r *ArrayTypeReference) String() string {
	if r.length == nil {
		return fmt.Sprintf("%s[%s]", r.element, r.loop)
	}
	return fmt.Sprintf("%s[%s %s]", r.element, r.loop, r.length)
}

// complexReferences returns the complex type references reachable from ref,
// including array element types and nested arrays.
func complexReferences(ref TypeReference) []*ComplexTypeReference {
	switch ref := ref.(type) {
	case nil:
		return nil
	case *SimpleTypeReference:
		return nil
	case *ComplexTypeReference:
		return []*ComplexTypeReference{ref}
	case *ArrayTypeReference:
		return complexReferences(ref.element)
	default:
		panic("unreachable")
	}
}
