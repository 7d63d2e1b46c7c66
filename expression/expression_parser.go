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
	"strconv"

	"github.com/apache/plc4x-sub023/term"
)

type binaryLevel struct {
	ops map[TokenKind]string
}

// Binary operator levels, loosest first. The power operator is handled
// separately because it associates to the right.
var binaryLevels = []binaryLevel{
	{map[TokenKind]string{T_PIPE_PIPE: "||"}},
	{map[TokenKind]string{T_AMP_AMP: "&&"}},
	{map[TokenKind]string{T_PIPE: "|"}},
	{map[TokenKind]string{T_AMP: "&"}},
	{map[TokenKind]string{T_EQ_EQ: "==", T_NOT_EQ: "!="}},
	{map[TokenKind]string{T_LT: "<", T_GT: ">", T_LT_EQ: "<=", T_GT_EQ: ">="}},
	{map[TokenKind]string{T_SHL: "<<", T_SHR: ">>"}},
	{map[TokenKind]string{T_PLUS: "+", T_MINUS: "-"}},
	{map[TokenKind]string{T_STAR: "*", T_SLASH: "/", T_PERCENT: "%"}},
}

type parseCtx struct {
	src       []byte
	opts      *ParseOptions
	tokens    *Tokens
	builder   *Builder
	haveToken bool
	token     Token
	offset    uint32
	depth     int
	err       error
}

func newParseCtx(opts *ParseOptions, src []byte) (*parseCtx, error) {
	tokens, err := NewTokens(src)
	if err != nil {
		return nil, err
	}
	return &parseCtx{
		src:     src,
		opts:    opts,
		tokens:  tokens,
		builder: NewBuilder(),
	}, nil
}

// peek returns the kind of the next non-space token.
func (ctx *parseCtx) peek() TokenKind {
	if ctx.err != nil {
		return T_EOF
	}
	for {
		if !ctx.haveToken {
			if err := ctx.tokens.Next(&ctx.token); err != nil {
				ctx.err = err
				return T_EOF
			}
			ctx.haveToken = true
		}
		if ctx.token.Kind != T_SPACE {
			return ctx.token.Kind
		}
		ctx.consumeToken()
	}
}

func (ctx *parseCtx) readToken() string {
	return string(ctx.src[:ctx.token.Len])
}

func (ctx *parseCtx) consumeToken() {
	ctx.src = ctx.src[ctx.token.Len:]
	ctx.offset += uint32(ctx.token.Len)
	ctx.haveToken = false
}

func (ctx *parseCtx) tokenSpan() Span {
	return Span{
		start: ctx.offset,
		len:   uint32(ctx.token.Len),
	}
}

func (ctx *parseCtx) fail(err error) {
	if ctx.err == nil {
		ctx.err = withSpan(err, ctx.tokenSpan())
	}
}

func (ctx *parseCtx) expect(kind TokenKind) string {
	got := ctx.peek()
	if ctx.err != nil {
		return ""
	}
	if got != kind {
		ctx.fail(errExpectedToken(kind, got, ctx.readToken(), ctx.tokenSpan()))
		return ""
	}
	text := ctx.readToken()
	ctx.consumeToken()
	return text
}

func (ctx *parseCtx) enter() bool {
	ctx.depth += 1
	if ctx.depth > ctx.opts.maxDepth {
		ctx.fail(errTooDeep(ctx.opts.maxDepth, ctx.tokenSpan()))
		return false
	}
	return true
}

func (ctx *parseCtx) leave() {
	ctx.depth -= 1
}

// parseAll parses expressions until the end of input. More than one
// top-level expression is reported by the builder as multiple root terms.
func (ctx *parseCtx) parseAll() (term.Term, error) {
	for ctx.peek() != T_EOF {
		ctx.parseExpression()
		if ctx.err != nil {
			return nil, ctx.err
		}
	}
	if ctx.err != nil {
		return nil, ctx.err
	}
	root, err := ctx.builder.Finish()
	if err != nil {
		return nil, withSpan(err, Span{0, ctx.offset})
	}
	return root, nil
}

func (ctx *parseCtx) parseExpression() {
	if !ctx.enter() {
		return
	}
	defer ctx.leave()

	ctx.parseBinary(0)
	if ctx.peek() != T_QUESTION {
		return
	}
	ctx.consumeToken()
	if err := ctx.builder.EnterWith(1); err != nil {
		ctx.fail(err)
		return
	}
	ctx.parseExpression()
	ctx.expect(T_COLON)
	ctx.parseExpression()
	if ctx.err != nil {
		return
	}
	if err := ctx.builder.ExitTernary("if"); err != nil {
		ctx.fail(err)
	}
}

func (ctx *parseCtx) parseBinary(level int) {
	if level == len(binaryLevels) {
		ctx.parsePower()
		return
	}
	ctx.parseBinary(level + 1)
	for ctx.err == nil {
		op, ok := binaryLevels[level].ops[ctx.peek()]
		if !ok {
			return
		}
		ctx.consumeToken()
		if err := ctx.builder.EnterWith(1); err != nil {
			ctx.fail(err)
			return
		}
		ctx.parseBinary(level + 1)
		if ctx.err != nil {
			return
		}
		if err := ctx.builder.ExitBinary(op); err != nil {
			ctx.fail(err)
		}
	}
}

func (ctx *parseCtx) parsePower() {
	ctx.parseUnary()
	if ctx.peek() != T_CARET {
		return
	}
	if !ctx.enter() {
		return
	}
	defer ctx.leave()

	ctx.consumeToken()
	if err := ctx.builder.EnterWith(1); err != nil {
		ctx.fail(err)
		return
	}
	ctx.parsePower()
	if ctx.err != nil {
		return
	}
	if err := ctx.builder.ExitBinary("^"); err != nil {
		ctx.fail(err)
	}
}

func (ctx *parseCtx) parseUnary() {
	var op string
	switch ctx.peek() {
	case T_NOT:
		op = "!"
	case T_MINUS:
		op = "-"
	default:
		ctx.parsePrimary()
		return
	}
	if !ctx.enter() {
		return
	}
	defer ctx.leave()

	ctx.consumeToken()
	ctx.builder.Enter()
	ctx.parseUnary()
	if ctx.err != nil {
		return
	}
	if err := ctx.builder.ExitUnary(op); err != nil {
		ctx.fail(err)
	}
}

func (ctx *parseCtx) parsePrimary() {
	kind := ctx.peek()
	if ctx.err != nil {
		return
	}
	text := ctx.readToken()
	switch kind {
	case T_OPEN_PAREN:
		ctx.consumeToken()
		ctx.builder.Enter()
		ctx.parseExpression()
		ctx.expect(T_CLOSE_PAREN)
		if ctx.err != nil {
			return
		}
		if err := ctx.builder.ExitUnary("()"); err != nil {
			ctx.fail(err)
		}
	case T_INT_LIT, T_FLOAT_LIT:
		if err := ctx.builder.Number(text); err != nil {
			ctx.fail(err)
			return
		}
		ctx.consumeToken()
	case T_HEX_LIT:
		ctx.builder.Hex(text)
		ctx.consumeToken()
	case T_TEXT_LIT:
		ctx.builder.Text(text)
		ctx.consumeToken()
	case T_STAR:
		ctx.builder.Wildcard()
		ctx.consumeToken()
	case T_IDENT:
		ctx.parseIdent(text)
	default:
		ctx.fail(errUnexpectedToken(kind, text, ctx.tokenSpan()))
	}
}

func (ctx *parseCtx) parseIdent(name string) {
	switch name {
	case "null":
		ctx.consumeToken()
		ctx.builder.Null()
		return
	case "true", "false":
		ctx.consumeToken()
		ctx.builder.Bool(name == "true")
		return
	case "if":
		ctx.consumeToken()
		if ctx.peek() == T_OPEN_PAREN {
			ctx.parseIf()
			return
		}
		ctx.parseSegmentRest(name)
		return
	}
	ctx.consumeToken()
	ctx.parseSegmentRest(name)
}

func (ctx *parseCtx) parseIf() {
	if !ctx.enter() {
		return
	}
	defer ctx.leave()

	ctx.expect(T_OPEN_PAREN)
	ctx.builder.Enter()
	ctx.parseExpression()
	ctx.expect(T_COMMA)
	ctx.parseExpression()
	ctx.expect(T_COMMA)
	ctx.parseExpression()
	ctx.expect(T_CLOSE_PAREN)
	if ctx.err != nil {
		return
	}
	if err := ctx.builder.ExitTernary("if"); err != nil {
		ctx.fail(err)
	}
}

// parseSegmentRest parses what follows an identifier segment name: optional
// call arguments, an optional index, and an optional child segment.
func (ctx *parseCtx) parseSegmentRest(name string) {
	if !ctx.enter() {
		return
	}
	defer ctx.leave()

	ctx.builder.Enter()

	hasArgs := false
	if ctx.peek() == T_OPEN_PAREN {
		hasArgs = true
		ctx.consumeToken()
		if ctx.peek() != T_CLOSE_PAREN {
			ctx.parseExpression()
			for ctx.err == nil && ctx.peek() == T_COMMA {
				ctx.consumeToken()
				ctx.parseExpression()
			}
		}
		ctx.expect(T_CLOSE_PAREN)
	}

	index := term.NoIndex
	if ctx.err == nil && ctx.peek() == T_OPEN_SQUARE {
		ctx.consumeToken()
		if ctx.peek() != T_INT_LIT {
			ctx.fail(errIndexInvalid(ctx.readToken(), ctx.tokenSpan()))
			return
		}
		value, err := strconv.ParseInt(ctx.readToken(), 10, 32)
		if err != nil {
			ctx.fail(errIndexInvalid(ctx.readToken(), ctx.tokenSpan()))
			return
		}
		index = int(value)
		ctx.consumeToken()
		ctx.expect(T_CLOSE_SQUARE)
	}

	hasChild := false
	if ctx.err == nil && ctx.peek() == T_DOT {
		hasChild = true
		ctx.consumeToken()
		child := ctx.expect(T_IDENT)
		if ctx.err != nil {
			return
		}
		ctx.parseSegmentRest(child)
	}

	if ctx.err != nil {
		return
	}
	if err := ctx.builder.ExitIdentifier(name, hasArgs, index, hasChild); err != nil {
		ctx.fail(err)
	}
}
