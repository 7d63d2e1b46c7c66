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

// Package expression parses the mspec expression sub-language into terms.
//
// Operator precedence, loosest to tightest:
//
//	c ? a : b        (also written if(c, a, b))
//	||
//	&&
//	|
//	&
//	==  !=
//	<  >  <=  >=
//	<<  >>
//	+  -
//	*  /  %
//	^                (right-associative)
//	!  -             (prefix)
//	(...)  literals  identifiers
package expression

import (
	"github.com/apache/plc4x-sub023/term"
)

const defaultMaxDepth = 256

type ParseOption interface {
	apply(*ParseOptions)
}

type parseOption func(*ParseOptions)

func (f parseOption) apply(opts *ParseOptions) { f(opts) }

type ParseOptions struct {
	maxDepth int
}

// WithMaxDepth limits how deeply sub-expressions may nest.
func WithMaxDepth(maxDepth int) ParseOption {
	return parseOption(func(opts *ParseOptions) {
		opts.maxDepth = maxDepth
	})
}

func NewParseOptions(opts ...ParseOption) *ParseOptions {
	parseOptions := &ParseOptions{
		maxDepth: defaultMaxDepth,
	}
	for _, opt := range opts {
		opt.apply(parseOptions)
	}
	if parseOptions.maxDepth <= 0 {
		parseOptions.maxDepth = defaultMaxDepth
	}
	return parseOptions
}

func Parse(src string, opts ...ParseOption) (term.Term, error) {
	return NewParseOptions(opts...).Parse(src)
}

func ParseVariable(src string, opts ...ParseOption) (*term.VariableLiteral, error) {
	return NewParseOptions(opts...).ParseVariable(src)
}

func ParseLiteral(src string, opts ...ParseOption) (term.Term, error) {
	return NewParseOptions(opts...).ParseLiteral(src)
}

func (opts *ParseOptions) Parse(src string) (term.Term, error) {
	ctx, err := newParseCtx(opts, []byte(src))
	if err != nil {
		return nil, err
	}
	return ctx.parseAll()
}

// ParseVariable parses an expression that must be a single variable
// reference, such as a discriminator name.
func (opts *ParseOptions) ParseVariable(src string) (*term.VariableLiteral, error) {
	t, err := opts.Parse(src)
	if err != nil {
		return nil, err
	}
	v, ok := t.(*term.VariableLiteral)
	if !ok {
		return nil, errNotVariable(t.Kind().String(), Span{0, uint32(len(src))})
	}
	return v, nil
}

// ParseLiteral parses an expression that must be a literal value, such as
// the expected value of a const field. A leading minus sign is folded into
// numeric literals.
func (opts *ParseOptions) ParseLiteral(src string) (term.Term, error) {
	t, err := opts.Parse(src)
	if err != nil {
		return nil, err
	}
	if u, ok := t.(*term.UnaryTerm); ok && u.Operator() == "-" {
		if n, ok := u.A().(*term.NumericLiteral); ok {
			if n.IsFloat() {
				return term.NewFloat(-n.Float()), nil
			}
			return term.NewInt(-n.Int()), nil
		}
	}
	switch t.(type) {
	case *term.NullLiteral, *term.BoolLiteral, *term.NumericLiteral, *term.HexLiteral, *term.StringLiteral, *term.WildcardTerm:
		return t, nil
	case *term.VariableLiteral, *term.UnaryTerm, *term.BinaryTerm, *term.TernaryTerm:
		return nil, errNotLiteral(t.Kind().String(), Span{0, uint32(len(src))})
	default:
		panic("unreachable")
	}
}
