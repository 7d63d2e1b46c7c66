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
	"testing"

	"github.com/apache/plc4x-sub023/expression"
	"github.com/apache/plc4x-sub023/internal/testutil"
	"github.com/apache/plc4x-sub023/term"
)

func TestBuilderBinary(t *testing.T) {
	t.Parallel()

	// 1 + 2 * 3
	b := expression.NewBuilder()
	b.Enter()
	testutil.AssertNoError(t, b.Number("1"))
	b.Enter()
	testutil.AssertNoError(t, b.Number("2"))
	testutil.AssertNoError(t, b.Number("3"))
	testutil.AssertNoError(t, b.ExitBinary("*"))
	testutil.AssertNoError(t, b.ExitBinary("+"))

	got, err := b.Finish()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "(+ 1 (* 2 3))", term.Sexpr(got))
}

func TestBuilderStringRoundTrip(t *testing.T) {
	t.Parallel()

	// (- a (- b c))
	b := expression.NewBuilder()
	b.Enter()
	b.Enter()
	testutil.AssertNoError(t, b.ExitIdentifier("a", false, term.NoIndex, false))
	b.Enter()
	b.Enter()
	testutil.AssertNoError(t, b.ExitIdentifier("b", false, term.NoIndex, false))
	b.Enter()
	testutil.AssertNoError(t, b.ExitIdentifier("c", false, term.NoIndex, false))
	testutil.AssertNoError(t, b.ExitBinary("-"))
	testutil.AssertNoError(t, b.ExitBinary("-"))

	built, err := b.Finish()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "(- (var a) (- (var b) (var c)))", term.Sexpr(built))
	testutil.ExpectEq(t, "a - (b - c)", built.String())

	parsed, err := expression.Parse(built.String())
	testutil.AssertNoError(t, err)
	if !term.Equal(built, term.Ungroup(parsed)) {
		t.Errorf("round trip mismatch: %s != %s", term.Sexpr(built), term.Sexpr(parsed))
	}
}

func TestBuilderTernary(t *testing.T) {
	t.Parallel()

	b := expression.NewBuilder()
	b.Enter()
	b.Bool(true)
	b.Text(`"yes"`)
	b.Text(`"no"`)
	testutil.AssertNoError(t, b.ExitTernary("if"))

	got, err := b.Finish()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, `(if true "yes" "no")`, term.Sexpr(got))
}

func TestBuilderIdentifier(t *testing.T) {
	t.Parallel()

	// foo(1)[2].bar
	b := expression.NewBuilder()
	b.Enter()
	testutil.AssertNoError(t, b.Number("1"))
	b.Enter()
	testutil.AssertNoError(t, b.ExitIdentifier("bar", false, term.NoIndex, false))
	testutil.AssertNoError(t, b.ExitIdentifier("foo", true, 2, true))

	got, err := b.Finish()
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "(var foo args=(1) index=2 child=(var bar))", term.Sexpr(got))
}

func TestBuilderEmpty(t *testing.T) {
	t.Parallel()

	_, err := expression.NewBuilder().Finish()
	testutil.ExpectErrorCode(t, expression.CodeEmptyExpression, err)
}

func TestBuilderMultipleRoots(t *testing.T) {
	t.Parallel()

	b := expression.NewBuilder()
	b.Null()
	b.Null()
	_, err := b.Finish()
	testutil.ExpectErrorCode(t, expression.CodeMultipleRootTerms, err)
}

func TestBuilderUnaryArity(t *testing.T) {
	t.Parallel()

	b := expression.NewBuilder()
	b.Enter()
	testutil.AssertNoError(t, b.Number("1"))
	testutil.AssertNoError(t, b.Number("2"))
	err := b.ExitUnary("-")

	var arityErr *expression.OperatorArityError
	testutil.AssertTrue(t, errors.As(err, &arityErr))
	testutil.ExpectEq(t, "-", arityErr.Operator)
	testutil.ExpectEq(t, 1, arityErr.Expected)
	testutil.ExpectEq(t, 2, arityErr.Actual)
	testutil.ExpectEq(t, expression.CodeOperatorArity, arityErr.Code())
	testutil.ExpectEq(t, "E5002: - should be a unary operation (got 2 operands)", err.Error())
}

func TestBuilderArity(t *testing.T) {
	t.Parallel()

	b := expression.NewBuilder()
	b.Enter()
	b.Null()
	err := b.ExitBinary("+")
	var arityErr *expression.OperatorArityError
	testutil.AssertTrue(t, errors.As(err, &arityErr))
	testutil.ExpectEq(t, 2, arityErr.Expected)
	testutil.ExpectEq(t, 1, arityErr.Actual)

	b.Reset()
	b.Enter()
	b.Null()
	b.Null()
	err = b.ExitTernary("if")
	testutil.AssertTrue(t, errors.As(err, &arityErr))
	testutil.ExpectEq(t, 3, arityErr.Expected)
	testutil.ExpectEq(t, 2, arityErr.Actual)

	b.Reset()
	b.Enter()
	b.Null()
	err = b.ExitIdentifier("x", false, term.NoIndex, false)
	testutil.AssertTrue(t, errors.As(err, &arityErr))
	testutil.ExpectEq(t, 0, arityErr.Expected)
}

func TestBuilderUnbalanced(t *testing.T) {
	t.Parallel()

	b := expression.NewBuilder()
	testutil.ExpectErrorCode(t, expression.CodeUnbalancedFrame, b.ExitUnary("!"))

	b.Enter()
	b.Null()
	_, err := b.Finish()
	testutil.ExpectErrorCode(t, expression.CodeUnbalancedFrame, err)

	b.Reset()
	testutil.ExpectErrorCode(t, expression.CodeUnbalancedFrame, b.EnterWith(1))
	testutil.ExpectEq(t, 1, b.Depth())
}

func TestBuilderInvalidChild(t *testing.T) {
	t.Parallel()

	b := expression.NewBuilder()
	b.Enter()
	b.Null()
	err := b.ExitIdentifier("a", false, term.NoIndex, true)
	testutil.ExpectErrorCode(t, expression.CodeInvalidChild, err)
}
