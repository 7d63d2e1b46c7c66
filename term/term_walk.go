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

package term

import (
	"iter"
	"slices"
)

// Walk visits t and its descendants depth-first, operands in source order.
// Returning false from fn skips the children of the visited term.
//
// The arguments of a VariableLiteral are visited before its child segment.
func Walk(t Term, fn func(Term) bool) {
	if t == nil || !fn(t) {
		return
	}
	switch t := t.(type) {
	case *NullLiteral, *BoolLiteral, *NumericLiteral, *HexLiteral, *StringLiteral, *WildcardTerm:
	case *VariableLiteral:
		for _, arg := range t.args {
			Walk(arg, fn)
		}
		if t.child != nil {
			Walk(t.child, fn)
		}
	case *UnaryTerm:
		Walk(t.a, fn)
	case *BinaryTerm:
		Walk(t.a, fn)
		Walk(t.b, fn)
	case *TernaryTerm:
		Walk(t.a, fn)
		Walk(t.b, fn)
		Walk(t.c, fn)
	default:
		panic("unreachable")
	}
}

// All returns an iterator over t and its descendants, in Walk order.
func All(t Term) iter.Seq[Term] {
	return func(yield func(Term) bool) {
		stop := false
		Walk(t, func(t Term) bool {
			if stop {
				return false
			}
			if !yield(t) {
				stop = true
				return false
			}
			return true
		})
	}
}

// ContainsVariable reports whether any variable segment within t is named
// name, including segments nested in call arguments and child chains.
func ContainsVariable(t Term, name string) bool {
	for t := range All(t) {
		if v, ok := t.(*VariableLiteral); ok && v.name == name {
			return true
		}
	}
	return false
}

// RootVariables returns the variable literals of t that are not the child
// segment of another variable, in source order.
func RootVariables(t Term) []*VariableLiteral {
	var out []*VariableLiteral
	Walk(t, func(t Term) bool {
		v, ok := t.(*VariableLiteral)
		if !ok {
			return true
		}
		out = append(out, v)
		for _, arg := range v.args {
			out = append(out, RootVariables(arg)...)
		}
		return false
	})
	return out
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *NullLiteral, *WildcardTerm:
		return true
	case *BoolLiteral:
		return a.value == b.(*BoolLiteral).value
	case *NumericLiteral:
		b := b.(*NumericLiteral)
		return a.isFloat == b.isFloat && a.i == b.i && a.f == b.f
	case *HexLiteral:
		return a.text == b.(*HexLiteral).text
	case *StringLiteral:
		return a.value == b.(*StringLiteral).value
	case *VariableLiteral:
		return equalVariable(a, b.(*VariableLiteral))
	case *UnaryTerm:
		b := b.(*UnaryTerm)
		return a.op == b.op && Equal(a.a, b.a)
	case *BinaryTerm:
		b := b.(*BinaryTerm)
		return a.op == b.op && Equal(a.a, b.a) && Equal(a.b, b.b)
	case *TernaryTerm:
		b := b.(*TernaryTerm)
		return a.op == b.op && Equal(a.a, b.a) && Equal(a.b, b.b) && Equal(a.c, b.c)
	default:
		panic("unreachable")
	}
}

func equalVariable(a, b *VariableLiteral) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.name != b.name || a.index != b.index {
		return false
	}
	if (a.args == nil) != (b.args == nil) {
		return false
	}
	if !slices.EqualFunc(a.args, b.args, Equal) {
		return false
	}
	return equalVariable(a.child, b.child)
}
