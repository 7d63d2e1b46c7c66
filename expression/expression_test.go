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

package expression_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/apache/plc4x-sub023/expression"
	"github.com/apache/plc4x-sub023/internal/testutil"
	"github.com/apache/plc4x-sub023/term"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want string
	}{
		{"1+2*3", "(+ 1 (* 2 3))"},
		{"!true", "(! true)"},
		{"foo[3]", "(var foo index=3)"},
		{"foo.bar", "(var foo child=(var bar))"},
		{"null", "null"},
		{"false", "false"},
		{"1.5", "1.5"},
		{"0x0A", "0x0A"},
		{`"text"`, `"text"`},
		{`'single'`, `"single"`},
		{"*", "*"},
		{"-x", "(- (var x))"},
		{"(1 + 2) * 3", "(* (() (+ 1 2)) 3)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"2 ^ 3 ^ 2", "(^ 2 (^ 3 2))"},
		{"-2 ^ 2", "(^ (- 2) 2)"},
		{"a * b ^ 2", "(* (var a) (^ (var b) 2))"},
		{"a || b && c", "(|| (var a) (&& (var b) (var c)))"},
		{"a && b == c", "(&& (var a) (== (var b) (var c)))"},
		{"a != b < c", "(!= (var a) (< (var b) (var c)))"},
		{"a <= b + c", "(<= (var a) (+ (var b) (var c)))"},
		{"a >= b % 2", "(>= (var a) (% (var b) 2))"},
		{"a | b & c", "(| (var a) (& (var b) (var c)))"},
		{"a & b == 1", "(& (var a) (== (var b) 1))"},
		{"a << 2 + 1", "(<< (var a) (+ 2 1))"},
		{"a > b >> 1", "(> (var a) (>> (var b) 1))"},
		{"if(a, b, c)", "(if (var a) (var b) (var c))"},
		{"a ? 1 : 2", "(if (var a) 1 2)"},
		{"a || b ? c + 1 : d", "(if (|| (var a) (var b)) (+ (var c) 1) (var d))"},
		{"if(x == 1, 2, 3) + 4", "(+ (if (== (var x) 1) 2 3) 4)"},
		{"STATIC_CALL(\"x\", a.b, 1)", `(var STATIC_CALL args=("x" (var a child=(var b)) 1))`},
		{"f()", "(var f args=())"},
		{"items[0].value", "(var items index=0 child=(var value))"},
		{"a.b.c", "(var a child=(var b child=(var c)))"},
		{"  lengthInBytes  -  4  ", "(- (var lengthInBytes) 4)"},
		{"if", "(var if)"},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			got, err := expression.Parse(test.src)
			testutil.AssertNoError(t, err)
			testutil.ExpectEq(t, test.want, term.Sexpr(got))
		})
	}
}

func TestParseTernaryOperandsDistinct(t *testing.T) {
	t.Parallel()

	got, err := expression.Parse("if(c, 1, 2)")
	testutil.AssertNoError(t, err)
	tt, ok := got.(*term.TernaryTerm)
	testutil.AssertTrue(t, ok)
	testutil.ExpectEq(t, "if", tt.Operator())
	testutil.ExpectEq(t, int64(1), tt.B().(*term.NumericLiteral).Int())
	testutil.ExpectEq(t, int64(2), tt.C().(*term.NumericLiteral).Int())
}

func TestParseNumericKinds(t *testing.T) {
	t.Parallel()

	got, err := expression.Parse("3")
	testutil.AssertNoError(t, err)
	testutil.ExpectFalse(t, got.(*term.NumericLiteral).IsFloat())

	got, err = expression.Parse("3.0")
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, got.(*term.NumericLiteral).IsFloat())
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	srcs := []string{
		"1 + 2 * 3",
		"(a + b) * c",
		"if(a == 1, payload.items[2].len, COUNT(x, 'y'))",
		"!(a && b) || -c ^ 2",
		"0xFF & mask >> 4",
		"3.25 / 2.0",
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			first, err := expression.Parse(src)
			testutil.AssertNoError(t, err)
			second, err := expression.Parse(first.String())
			testutil.AssertNoError(t, err)
			if !term.Equal(first, second) {
				t.Errorf("round trip mismatch: %s != %s", term.Sexpr(first), term.Sexpr(second))
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()

	a := term.NewVariable("a", nil, term.NoIndex, nil)
	b := term.NewVariable("b", nil, term.NoIndex, nil)
	c := term.NewVariable("c", nil, term.NoIndex, nil)

	terms := []term.Term{
		term.NewBinary("-", a, term.NewBinary("-", b, c)),
		term.NewBinary("*", term.NewBinary("+", term.NewInt(1), term.NewInt(2)), term.NewInt(3)),
		term.NewBinary("%", a, term.NewBinary("%", b, c)),
		term.NewBinary("^", term.NewBinary("^", a, b), c),
		term.NewBinary("^", a, term.NewBinary("^", b, c)),
		term.NewBinary("<<", term.NewBinary("<<", a, b), term.NewBinary("+", b, c)),
		term.NewBinary("==", term.NewBinary("&&", a, b), term.NewBinary("|", b, c)),
		term.NewUnary("!", term.NewBinary("||", a, b)),
		term.NewUnary("-", term.NewBinary("^", c, term.NewInt(2))),
		term.NewBinary("^", term.NewUnary("-", c), term.NewInt(2)),
		term.NewTernary("if", term.NewBinary("-", a, term.NewBinary("+", b, c)), a, b),
		term.NewVariable("f", []term.Term{term.NewBinary("/", a, term.NewBinary("*", b, c))}, term.NoIndex, nil),
	}
	for _, want := range terms {
		t.Run(want.String(), func(t *testing.T) {
			parsed, err := expression.Parse(want.String())
			testutil.AssertNoError(t, err)
			if got := term.Ungroup(parsed); !term.Equal(want, got) {
				t.Errorf("round trip mismatch: %s != %s", term.Sexpr(want), term.Sexpr(got))
			}
		})
	}
}

func TestStringNegativeLiteral(t *testing.T) {
	t.Parallel()

	built := term.NewBinary("-", term.NewInt(1), term.NewInt(-1))
	testutil.ExpectEq(t, "1 - (-1)", built.String())

	// The sign comes back as a unary minus on the literal.
	parsed, err := expression.Parse(built.String())
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "(- 1 (- 1))", term.Sexpr(term.Ungroup(parsed)))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		code uint32
	}{
		{"", expression.CodeEmptyExpression},
		{"   ", expression.CodeEmptyExpression},
		{"1 2", expression.CodeMultipleRootTerms},
		{"a b c", expression.CodeMultipleRootTerms},
		{"1 +", 2001},
		{"(1", 2000},
		{"a[b]", 2002},
		{"a.1", 2000},
		{"1 = 2", 1002},
		{"'abc", 1006},
		{"12abc", 1005},
		{"0x", 1005},
		{"a # b", 1002},
		{"99999999999999999999", expression.CodeInvalidNumber},
		{"if(a, b)", 2000},
		{"a ? b", 2000},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			_, err := expression.Parse(test.src)
			testutil.AssertError(t, err)
			testutil.ExpectErrorCode(t, test.code, err)
		})
	}
}

func TestParseErrorSpan(t *testing.T) {
	t.Parallel()

	_, err := expression.Parse("a + )")
	testutil.AssertError(t, err)
	var exprErr *expression.Error
	testutil.AssertTrue(t, errors.As(err, &exprErr))
	testutil.ExpectEq(t, expression.NewSpan(4, 1), exprErr.Span())
	testutil.ExpectEq(t, `E2001: Unexpected token (CLOSE_PAREN ")")`, err.Error())
}

func TestParseMaxDepth(t *testing.T) {
	t.Parallel()

	deep := strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20)
	_, err := expression.Parse(deep, expression.WithMaxDepth(10))
	testutil.ExpectErrorCode(t, 2010, err)

	_, err = expression.Parse(deep)
	testutil.ExpectNoError(t, err)

	_, err = expression.Parse(strings.Repeat("-", 300) + "1")
	testutil.ExpectErrorCode(t, 2010, err)
}

func TestParseVariable(t *testing.T) {
	t.Parallel()

	v, err := expression.ParseVariable("header.type")
	testutil.AssertNoError(t, err)
	testutil.ExpectSliceEq(t, []string{"header", "type"}, v.Path())

	_, err = expression.ParseVariable("a + b")
	testutil.ExpectErrorCode(t, 2003, err)
}

func TestParseLiteral(t *testing.T) {
	t.Parallel()

	lit, err := expression.ParseLiteral("-5")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, int64(-5), lit.(*term.NumericLiteral).Int())

	lit, err = expression.ParseLiteral("-0.5")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, -0.5, lit.(*term.NumericLiteral).Float())

	lit, err = expression.ParseLiteral("0x0300")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, term.KindHex, lit.Kind())

	_, err = expression.ParseLiteral("a")
	testutil.ExpectErrorCode(t, 2004, err)
}
