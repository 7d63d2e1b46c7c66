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

// Package term defines the expression tree produced by the mspec expression
// sub-language.
//
// A Term is one of a closed set of node types. Code that needs to handle every
// node type should switch on the concrete type; the unexported marker method
// keeps other packages from adding variants.
package term

import (
	"fmt"
	"strconv"
	"strings"
)

// NoIndex is the index of a VariableLiteral without an index suffix.
const NoIndex = -1

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumeric
	KindHex
	KindString
	KindVariable
	KindWildcard
	KindUnary
	KindBinary
	KindTernary
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindNumeric:  "numeric",
	KindHex:      "hex",
	KindString:   "string",
	KindVariable: "variable",
	KindWildcard: "wildcard",
	KindUnary:    "unary",
	KindBinary:   "binary",
	KindTernary:  "ternary",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsLiteral reports whether terms of this kind are leaves.
func (k Kind) IsLiteral() bool {
	return k <= KindWildcard
}

type Term interface {
	Kind() Kind

	// String renders the term in expression syntax. Parsing the result
	// yields an equal term.
	String() string

	privTerm()
}

var (
	_ Term = (*NullLiteral)(nil)
	_ Term = (*BoolLiteral)(nil)
	_ Term = (*NumericLiteral)(nil)
	_ Term = (*HexLiteral)(nil)
	_ Term = (*StringLiteral)(nil)
	_ Term = (*VariableLiteral)(nil)
	_ Term = (*WildcardTerm)(nil)
	_ Term = (*UnaryTerm)(nil)
	_ Term = (*BinaryTerm)(nil)
	_ Term = (*TernaryTerm)(nil)
)

type NullLiteral struct{}

func NewNull() *NullLiteral {
	return &NullLiteral{}
}

func (*NullLiteral) Kind() Kind { return KindNull }
func (*NullLiteral) privTerm()  {}

type BoolLiteral struct {
	value bool
}

func NewBool(value bool) *BoolLiteral {
	return &BoolLiteral{value}
}

func (*BoolLiteral) Kind() Kind { return KindBool }
func (*BoolLiteral) privTerm()  {}

func (t *BoolLiteral) Value() bool {
	return t.value
}

// NumericLiteral holds either an integer or a floating-point number, never
// both. The variant is fixed at construction.
type NumericLiteral struct {
	isFloat bool
	i       int64
	f       float64
}

func NewInt(value int64) *NumericLiteral {
	return &NumericLiteral{i: value}
}

func NewFloat(value float64) *NumericLiteral {
	return &NumericLiteral{isFloat: true, f: value}
}

// ParseNumber converts literal text to a NumericLiteral. Text containing a
// '.' is a float, anything else must be a base-10 integer.
func ParseNumber(text string) (*NumericLiteral, error) {
	if strings.Contains(text, ".") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, err
		}
		return NewFloat(f), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, err
	}
	return NewInt(i), nil
}

func (*NumericLiteral) Kind() Kind { return KindNumeric }
func (*NumericLiteral) privTerm()  {}

func (t *NumericLiteral) IsFloat() bool {
	return t.isFloat
}

// Int returns the integer value. For a float literal it returns the value
// truncated toward zero.
func (t *NumericLiteral) Int() int64 {
	if t.isFloat {
		return int64(t.f)
	}
	return t.i
}

func (t *NumericLiteral) Float() float64 {
	if t.isFloat {
		return t.f
	}
	return float64(t.i)
}

// HexLiteral keeps the source text of a hexadecimal integer, including the
// "0x" prefix.
type HexLiteral struct {
	text string
}

func NewHex(text string) *HexLiteral {
	return &HexLiteral{text}
}

func (*HexLiteral) Kind() Kind { return KindHex }
func (*HexLiteral) privTerm()  {}

func (t *HexLiteral) Text() string {
	return t.text
}

func (t *HexLiteral) Value() (uint64, error) {
	text := t.text
	if len(text) > 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		text = text[2:]
	}
	return strconv.ParseUint(text, 16, 64)
}

type StringLiteral struct {
	value string
}

func NewString(value string) *StringLiteral {
	return &StringLiteral{value}
}

func (*StringLiteral) Kind() Kind { return KindString }
func (*StringLiteral) privTerm()  {}

func (t *StringLiteral) Value() string {
	return t.value
}

// VariableLiteral is a reference such as `payload.items[2]` or
// `STATIC_CALL(a, b)`. Each segment of a dotted path is a VariableLiteral
// linked through Child.
type VariableLiteral struct {
	name  string
	args  []Term
	index int
	child *VariableLiteral
}

func NewVariable(name string, args []Term, index int, child *VariableLiteral) *VariableLiteral {
	if index < NoIndex {
		index = NoIndex
	}
	return &VariableLiteral{
		name:  name,
		args:  args,
		index: index,
		child: child,
	}
}

func (*VariableLiteral) Kind() Kind { return KindVariable }
func (*VariableLiteral) privTerm()  {}

func (t *VariableLiteral) Name() string {
	return t.name
}

// Args returns nil when the segment has no argument list. An empty argument
// list `name()` is a non-nil empty slice.
func (t *VariableLiteral) Args() []Term {
	return t.args
}

func (t *VariableLiteral) HasArgs() bool {
	return t.args != nil
}

func (t *VariableLiteral) Index() int {
	return t.index
}

func (t *VariableLiteral) HasIndex() bool {
	return t.index != NoIndex
}

func (t *VariableLiteral) Child() *VariableLiteral {
	return t.child
}

// Path returns the segment names from this literal to the end of its child
// chain.
func (t *VariableLiteral) Path() []string {
	var out []string
	for v := t; v != nil; v = v.child {
		out = append(out, v.name)
	}
	return out
}

// WildcardTerm matches any discriminator value.
type WildcardTerm struct{}

func NewWildcard() *WildcardTerm {
	return &WildcardTerm{}
}

func (*WildcardTerm) Kind() Kind { return KindWildcard }
func (*WildcardTerm) privTerm()  {}

type UnaryTerm struct {
	op string
	a  Term
}

func NewUnary(op string, a Term) *UnaryTerm {
	return &UnaryTerm{op, a}
}

func (*UnaryTerm) Kind() Kind { return KindUnary }
func (*UnaryTerm) privTerm()  {}

func (t *UnaryTerm) Operator() string {
	return t.op
}

func (t *UnaryTerm) A() Term {
	return t.a
}

type BinaryTerm struct {
	op string
	a  Term
	b  Term
}

func NewBinary(op string, a, b Term) *BinaryTerm {
	return &BinaryTerm{op, a, b}
}

func (*BinaryTerm) Kind() Kind { return KindBinary }
func (*BinaryTerm) privTerm()  {}

func (t *BinaryTerm) Operator() string {
	return t.op
}

func (t *BinaryTerm) A() Term {
	return t.a
}

func (t *BinaryTerm) B() Term {
	return t.b
}

type TernaryTerm struct {
	op string
	a  Term
	b  Term
	c  Term
}

func NewTernary(op string, a, b, c Term) *TernaryTerm {
	return &TernaryTerm{op, a, b, c}
}

func (*TernaryTerm) Kind() Kind { return KindTernary }
func (*TernaryTerm) privTerm()  {}

func (t *TernaryTerm) Operator() string {
	return t.op
}

func (t *TernaryTerm) A() Term {
	return t.a
}

func (t *TernaryTerm) B() Term {
	return t.b
}

func (t *TernaryTerm) C() Term {
	return t.c
}
