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
	maxSrcLen = math.MaxUint16
)

type Token struct {
	Len  uint16
	Kind TokenKind
}

type TokenKind uint8

const (
	T_EOF TokenKind = iota

	T_SPACE

	T_OPEN_PAREN
	T_CLOSE_PAREN
	T_OPEN_SQUARE
	T_CLOSE_SQUARE
	T_COMMA
	T_DOT
	T_QUESTION
	T_COLON

	T_NOT
	T_NOT_EQ
	T_EQ_EQ
	T_LT
	T_LT_EQ
	T_GT
	T_GT_EQ
	T_SHL
	T_SHR
	T_PLUS
	T_MINUS
	T_STAR
	T_SLASH
	T_PERCENT
	T_CARET
	T_AMP
	T_AMP_AMP
	T_PIPE
	T_PIPE_PIPE

	T_INT_LIT
	T_FLOAT_LIT
	T_HEX_LIT
	T_TEXT_LIT

	T_IDENT
)

var tokenKindNames = [...]string{
	T_EOF:          "EOF",
	T_SPACE:        "SPACE",
	T_OPEN_PAREN:   "OPEN_PAREN",
	T_CLOSE_PAREN:  "CLOSE_PAREN",
	T_OPEN_SQUARE:  "OPEN_SQUARE",
	T_CLOSE_SQUARE: "CLOSE_SQUARE",
	T_COMMA:        "COMMA",
	T_DOT:          "DOT",
	T_QUESTION:     "QUESTION",
	T_COLON:        "COLON",
	T_NOT:          "NOT",
	T_NOT_EQ:       "NOT_EQ",
	T_EQ_EQ:        "EQ_EQ",
	T_LT:           "LT",
	T_LT_EQ:        "LT_EQ",
	T_GT:           "GT",
	T_GT_EQ:        "GT_EQ",
	T_SHL:          "SHL",
	T_SHR:          "SHR",
	T_PLUS:         "PLUS",
	T_MINUS:        "MINUS",
	T_STAR:         "STAR",
	T_SLASH:        "SLASH",
	T_PERCENT:      "PERCENT",
	T_CARET:        "CARET",
	T_AMP:          "AMP",
	T_AMP_AMP:      "AMP_AMP",
	T_PIPE:         "PIPE",
	T_PIPE_PIPE:    "PIPE_PIPE",
	T_INT_LIT:      "INT_LIT",
	T_FLOAT_LIT:    "FLOAT_LIT",
	T_HEX_LIT:      "HEX_LIT",
	T_TEXT_LIT:     "TEXT_LIT",
	T_IDENT:        "IDENT",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", uint8(k))
}

// Tokens splits an expression into tokens. Whitespace is reported as
// T_SPACE; the parser skips it.
type Tokens struct {
	src    []byte
	offset uint32
}

func NewTokens(src []byte) (*Tokens, error) {
	if len(src) > maxSrcLen {
		return nil, errSourceTooLong(len(src))
	}
	if !utf8.Valid(src) {
		return nil, errInvalidUtf8(src)
	}
	return &Tokens{
		src: src,
	}, nil
}

func (t *Tokens) Offset() uint32 {
	return t.offset
}

func (t *Tokens) Next(token *Token) error {
	if len(t.src) == 0 {
		*token = Token{
			Kind: T_EOF,
		}
		return nil
	}

	c := t.src[0]
	var c2 byte
	if len(t.src) > 1 {
		c2 = t.src[1]
	}

	var kind TokenKind
	switch c {
	case '\t', ' ', '\n', '\r':
		return t.nextSpace(token)
	case '(':
		kind = T_OPEN_PAREN
	case ')':
		kind = T_CLOSE_PAREN
	case '[':
		kind = T_OPEN_SQUARE
	case ']':
		kind = T_CLOSE_SQUARE
	case ',':
		kind = T_COMMA
	case '.':
		kind = T_DOT
	case '?':
		kind = T_QUESTION
	case ':':
		kind = T_COLON
	case '+':
		kind = T_PLUS
	case '-':
		kind = T_MINUS
	case '*':
		kind = T_STAR
	case '/':
		kind = T_SLASH
	case '%':
		kind = T_PERCENT
	case '^':
		kind = T_CARET
	case '!':
		if c2 == '=' {
			return t.emit(token, T_NOT_EQ, 2)
		}
		kind = T_NOT
	case '=':
		if c2 == '=' {
			return t.emit(token, T_EQ_EQ, 2)
		}
		return errUnexpectedCharacter(t.offset, '=')
	case '<':
		if c2 == '=' {
			return t.emit(token, T_LT_EQ, 2)
		}
		if c2 == '<' {
			return t.emit(token, T_SHL, 2)
		}
		kind = T_LT
	case '>':
		if c2 == '=' {
			return t.emit(token, T_GT_EQ, 2)
		}
		if c2 == '>' {
			return t.emit(token, T_SHR, 2)
		}
		kind = T_GT
	case '&':
		if c2 == '&' {
			return t.emit(token, T_AMP_AMP, 2)
		}
		kind = T_AMP
	case '|':
		if c2 == '|' {
			return t.emit(token, T_PIPE_PIPE, 2)
		}
		kind = T_PIPE
	case '"', '\'':
		return t.nextTextLit(token, c)
	default:
		goto big
	}
	return t.emit(token, kind, 1)

big:
	if c >= '0' && c <= '9' {
		return t.nextNumLit(token)
	}

	if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_' {
		return t.nextIdent(token)
	}

	r, _ := utf8.DecodeRune(t.src)
	if r < 0x20 || r == 0x7F {
		return errForbiddenControlCharacter(t.offset, c)
	}
	return errUnexpectedCharacter(t.offset, r)
}

func (t *Tokens) emit(token *Token, kind TokenKind, tokenLen int) error {
	*token = Token{
		Kind: kind,
		Len:  uint16(tokenLen),
	}
	t.offset += uint32(tokenLen)
	t.src = t.src[tokenLen:]
	return nil
}

func (t *Tokens) nextSpace(token *Token) error {
	tokenLen := 0
	for _, c := range t.src {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			break
		}
		tokenLen += 1
	}
	return t.emit(token, T_SPACE, tokenLen)
}

func (t *Tokens) nextNumLit(token *Token) error {
	src := t.src

	if len(src) > 1 && src[0] == '0' && (src[1] == 'x' || src[1] == 'X') {
		tokenLen := 2
		for _, c := range src[2:] {
			if isHexDigit(c) {
				tokenLen += 1
				continue
			}
			if isIdentChar(c) {
				return errNumLitInvalid(t.offset, src[:tokenLen+1])
			}
			break
		}
		if tokenLen == 2 {
			return errNumLitInvalid(t.offset, src[:2])
		}
		return t.emit(token, T_HEX_LIT, tokenLen)
	}

	kind := T_INT_LIT
	tokenLen := scanDigits(src)
	if tokenLen+1 < len(src) && src[tokenLen] == '.' && isDigit(src[tokenLen+1]) {
		kind = T_FLOAT_LIT
		tokenLen += 1 + scanDigits(src[tokenLen+1:])
	}
	if tokenLen < len(src) && isIdentChar(src[tokenLen]) {
		return errNumLitInvalid(t.offset, src[:tokenLen+1])
	}
	return t.emit(token, kind, tokenLen)
}

func (t *Tokens) nextTextLit(token *Token, quote byte) error {
	for ii, c := range t.src[1:] {
		if c == quote {
			return t.emit(token, T_TEXT_LIT, ii+2)
		}
	}
	return errTextLitUnterminated(t.offset, uint32(len(t.src)))
}

func (t *Tokens) nextIdent(token *Token) error {
	tokenLen := 0
	for _, c := range t.src {
		if !isIdentChar(c) {
			break
		}
		tokenLen += 1
	}
	return t.emit(token, T_IDENT, tokenLen)
}

func scanDigits(src []byte) int {
	n := 0
	for _, c := range src {
		if !isDigit(c) {
			break
		}
		n += 1
	}
	return n
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

func isIdentChar(c byte) bool {
	return isDigit(c) || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_'
}
