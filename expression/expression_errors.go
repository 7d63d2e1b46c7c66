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

package expression

import (
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	CodeEmptyExpression   uint32 = 5000
	CodeMultipleRootTerms uint32 = 5001
	CodeOperatorArity     uint32 = 5002
	CodeUnbalancedFrame   uint32 = 5003
	CodeInvalidNumber     uint32 = 5004
	CodeInvalidChild      uint32 = 5005
)

type Span struct {
	start, len uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start, len}
}

func (s Span) Start() uint32 {
	return s.start
}

func (s Span) End() uint32 {
	return s.start + s.len
}

func (s Span) Len() uint32 {
	return s.len
}

type Error struct {
	code    uint32
	message string
	span    Span
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Span() Span {
	return err.span
}

// OperatorArityError reports a unary, binary or ternary production that was
// closed with the wrong number of operands.
type OperatorArityError struct {
	Operator string
	Expected int
	Actual   int
}

var _ error = (*OperatorArityError)(nil)

func (err *OperatorArityError) Error() string {
	return fmt.Sprintf("E%d: %s", CodeOperatorArity, err.Message())
}

func (err *OperatorArityError) Code() uint32 {
	return CodeOperatorArity
}

func (err *OperatorArityError) Message() string {
	var arity string
	switch err.Expected {
	case 0:
		arity = "nullary"
	case 1:
		arity = "unary"
	case 2:
		arity = "binary"
	case 3:
		arity = "ternary"
	default:
		arity = fmt.Sprintf("%d-ary", err.Expected)
	}
	return fmt.Sprintf(
		"%s should be a %s operation (got %d operands)",
		err.Operator, arity, err.Actual,
	)
}

func errEmptyExpression() error {
	return &Error{
		code:    CodeEmptyExpression,
		message: "Empty expression not supported",
	}
}

func errMultipleRootTerms(count int) error {
	return &Error{
		code: CodeMultipleRootTerms,
		message: fmt.Sprintf(
			"Expression can only contain one root term (got %d)",
			count,
		),
	}
}

func errUnbalancedFrame(what string) error {
	return &Error{
		code:    CodeUnbalancedFrame,
		message: fmt.Sprintf("Unbalanced expression frame: %s", what),
	}
}

func errInvalidNumber(text string, cause error) error {
	return &Error{
		code:    CodeInvalidNumber,
		message: fmt.Sprintf("Invalid numeric literal %q: %v", text, cause),
	}
}

func errInvalidChild(name string, got string) error {
	return &Error{
		code:    CodeInvalidChild,
		message: fmt.Sprintf("Child of identifier '%s' must be a variable, got %s", name, got),
	}
}

func errSourceTooLong(srcLen int) error {
	lenUint32 := uint32(math.MaxUint32)
	if uint64(srcLen) < math.MaxUint32 {
		lenUint32 = uint32(srcLen)
	}
	return &Error{
		code: 1000,
		message: fmt.Sprintf(
			"Expression size (%d bytes) exceeds maximum (%d bytes)",
			srcLen, maxSrcLen,
		),
		span: Span{0, lenUint32},
	}
}

func errInvalidUtf8(src []byte) error {
	var off uint32
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError {
			break
		}
		off += uint32(size)
		src = src[size:]
	}
	return &Error{
		code:    1001,
		message: "Expression contains invalid UTF-8",
		span:    Span{off, 1},
	}
}

func errUnexpectedCharacter(start uint32, r rune) error {
	return &Error{
		code:    1002,
		message: fmt.Sprintf("Unexpected character '%s' (U+%04X)", string(r), r),
		span:    Span{start, uint32(utf8.RuneLen(r))},
	}
}

func errForbiddenControlCharacter(start uint32, c byte) error {
	return &Error{
		code:    1003,
		message: fmt.Sprintf("Forbidden control character U+%04X", c),
		span:    Span{start, 1},
	}
}

func errNumLitInvalid(start uint32, token []byte) error {
	return &Error{
		code:    1005,
		message: fmt.Sprintf("Invalid numeric literal %q", token),
		span:    Span{start, uint32(len(token))},
	}
}

func errTextLitUnterminated(start, tokenLen uint32) error {
	return &Error{
		code:    1006,
		message: "Unterminated string literal",
		span:    Span{start, tokenLen},
	}
}

func errExpectedToken(want, got TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2000,
		message: fmt.Sprintf("Expected %s, got (%s %q)", want, got, gotToken),
		span:    span,
	}
}

func errUnexpectedToken(got TokenKind, gotToken string, span Span) error {
	if got == T_EOF {
		return &Error{
			code:    2001,
			message: "Unexpected end of expression",
			span:    span,
		}
	}
	return &Error{
		code:    2001,
		message: fmt.Sprintf("Unexpected token (%s %q)", got, gotToken),
		span:    span,
	}
}

func errIndexInvalid(token string, span Span) error {
	return &Error{
		code:    2002,
		message: fmt.Sprintf("Invalid index %q, expected a non-negative integer", token),
		span:    span,
	}
}

func errNotVariable(got string, span Span) error {
	return &Error{
		code:    2003,
		message: fmt.Sprintf("Expected a variable reference, got %s", got),
		span:    span,
	}
}

func errNotLiteral(got string, span Span) error {
	return &Error{
		code:    2004,
		message: fmt.Sprintf("Expected a literal value, got %s", got),
		span:    span,
	}
}

func errTooDeep(maxDepth int, span Span) error {
	return &Error{
		code:    2010,
		message: fmt.Sprintf("Expression nesting exceeds maximum depth (%d)", maxDepth),
		span:    span,
	}
}

// withSpan attaches a source span to a builder error raised while parsing.
func withSpan(err error, span Span) error {
	if err, ok := err.(*Error); ok && err.span == (Span{}) {
		return &Error{
			code:    err.code,
			message: err.message,
			span:    span,
		}
	}
	return err
}
