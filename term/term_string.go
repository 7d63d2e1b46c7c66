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
	"strconv"
	"strings"
)

func (*NullLiteral) String() string {
	return "null"
}

func (t *BoolLiteral) String() string {
	if t.value {
		return "true"
	}
	return "false"
}

func (t *NumericLiteral) String() string {
	if !t.isFloat {
		return strconv.FormatInt(t.i, 10)
	}
	s := strconv.FormatFloat(t.f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (t *HexLiteral) String() string {
	return t.text
}

// String quotes the value with double quotes, or single quotes when the value
// itself contains a double quote. String literals have no escape sequences.
func (t *StringLiteral) String() string {
	if strings.Contains(t.value, `"`) && !strings.Contains(t.value, "'") {
		return "'" + t.value + "'"
	}
	return `"` + t.value + `"`
}

func (t *VariableLiteral) String() string {
	var buf strings.Builder
	t.writeTo(&buf)
	return buf.String()
}

func (t *VariableLiteral) writeTo(buf *strings.Builder) {
	buf.WriteString(t.name)
	if t.args != nil {
		buf.WriteByte('(')
		for ii, arg := range t.args {
			if ii > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(arg.String())
		}
		buf.WriteByte(')')
	}
	if t.index != NoIndex {
		buf.WriteByte('[')
		buf.WriteString(strconv.Itoa(t.index))
		buf.WriteByte(']')
	}
	if t.child != nil {
		buf.WriteByte('.')
		t.child.writeTo(buf)
	}
}

func (*WildcardTerm) String() string {
	return "*"
}

func (t *UnaryTerm) String() string {
	if t.op == "()" {
		return "(" + t.a.String() + ")"
	}
	return t.op + operand(t.a, levelUnary)
}

// String adds parentheses where the tree would otherwise re-parse
// differently. Operators on the same level associate to the left, except
// `^` which associates to the right.
func (t *BinaryTerm) String() string {
	level := binaryLevel(t.op)
	left, right := level, level+1
	if t.op == "^" {
		left, right = level+1, level
	}
	return operand(t.a, left) + " " + t.op + " " + operand(t.b, right)
}

// Binding strength of each operator, loosest first. Must agree with the
// parser's precedence ladder.
const (
	levelOr = iota + 1
	levelAnd
	levelBitOr
	levelBitAnd
	levelEquality
	levelCompare
	levelShift
	levelAdd
	levelMul
	levelPower
	levelUnary
	levelAtom
)

var binaryLevels = map[string]int{
	"||": levelOr,
	"&&": levelAnd,
	"|":  levelBitOr,
	"&":  levelBitAnd,
	"==": levelEquality,
	"!=": levelEquality,
	"<":  levelCompare,
	">":  levelCompare,
	"<=": levelCompare,
	">=": levelCompare,
	"<<": levelShift,
	">>": levelShift,
	"+":  levelAdd,
	"-":  levelAdd,
	"*":  levelMul,
	"/":  levelMul,
	"%":  levelMul,
	"^":  levelPower,
}

// binaryLevel returns zero for unknown operators, so they are always
// parenthesized as operands.
func binaryLevel(op string) int {
	return binaryLevels[op]
}

func termLevel(t Term) int {
	switch t := t.(type) {
	case *BinaryTerm:
		return binaryLevel(t.op)
	case *UnaryTerm:
		if t.op == "()" {
			return levelAtom
		}
		return levelUnary
	default:
		return levelAtom
	}
}

func isNegativeNumber(t Term) bool {
	n, ok := t.(*NumericLiteral)
	if !ok {
		return false
	}
	if n.isFloat {
		return n.f < 0
	}
	return n.i < 0
}

// operand renders t as the operand of an operator, wrapping it when it binds
// looser than minLevel. A negative number is always wrapped so that its sign
// is not read as a unary minus.
func operand(t Term, minLevel int) string {
	if isNegativeNumber(t) || termLevel(t) < minLevel {
		return "(" + t.String() + ")"
	}
	return t.String()
}

// Ungroup returns t with every explicit `()` grouping removed. Parsing the
// String of a term and ungrouping the result gives back the original tree,
// up to groups and the sign of negative numbers.
func Ungroup(t Term) Term {
	switch t := t.(type) {
	case *NullLiteral, *BoolLiteral, *NumericLiteral, *HexLiteral, *StringLiteral, *WildcardTerm:
		return t
	case *VariableLiteral:
		return ungroupVariable(t)
	case *UnaryTerm:
		if t.op == "()" {
			return Ungroup(t.a)
		}
		return NewUnary(t.op, Ungroup(t.a))
	case *BinaryTerm:
		return NewBinary(t.op, Ungroup(t.a), Ungroup(t.b))
	case *TernaryTerm:
		return NewTernary(t.op, Ungroup(t.a), Ungroup(t.b), Ungroup(t.c))
	default:
		panic("unreachable")
	}
}

func ungroupVariable(v *VariableLiteral) *VariableLiteral {
	if v == nil {
		return nil
	}
	var args []Term
	if v.args != nil {
		args = make([]Term, len(v.args))
		for ii, arg := range v.args {
			args[ii] = Ungroup(arg)
		}
	}
	return NewVariable(v.name, args, v.index, ungroupVariable(v.child))
}

func (t *TernaryTerm) String() string {
	return t.op + "(" + t.a.String() + ", " + t.b.String() + ", " + t.c.String() + ")"
}

// Sexpr renders t as an S-expression that shows the tree structure
// explicitly, e.g. `(+ 1 (* 2 3))`.
func Sexpr(t Term) string {
	var buf strings.Builder
	writeSexpr(&buf, t)
	return buf.String()
}

func writeSexpr(buf *strings.Builder, t Term) {
	switch t := t.(type) {
	case *NullLiteral, *BoolLiteral, *NumericLiteral, *HexLiteral, *StringLiteral, *WildcardTerm:
		buf.WriteString(t.String())
	case *VariableLiteral:
		buf.WriteString("(var ")
		buf.WriteString(t.name)
		if t.args != nil {
			buf.WriteString(" args=(")
			for ii, arg := range t.args {
				if ii > 0 {
					buf.WriteByte(' ')
				}
				writeSexpr(buf, arg)
			}
			buf.WriteByte(')')
		}
		if t.index != NoIndex {
			buf.WriteString(" index=")
			buf.WriteString(strconv.Itoa(t.index))
		}
		if t.child != nil {
			buf.WriteString(" child=")
			writeSexpr(buf, t.child)
		}
		buf.WriteByte(')')
	case *UnaryTerm:
		buf.WriteString("(" + t.op + " ")
		writeSexpr(buf, t.a)
		buf.WriteByte(')')
	case *BinaryTerm:
		buf.WriteString("(" + t.op + " ")
		writeSexpr(buf, t.a)
		buf.WriteByte(' ')
		writeSexpr(buf, t.b)
		buf.WriteByte(')')
	case *TernaryTerm:
		buf.WriteString("(" + t.op + " ")
		writeSexpr(buf, t.a)
		buf.WriteByte(' ')
		writeSexpr(buf, t.b)
		buf.WriteByte(' ')
		writeSexpr(buf, t.c)
		buf.WriteByte(')')
	default:
		panic("unreachable")
	}
}
