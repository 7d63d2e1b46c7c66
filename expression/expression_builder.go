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
	"github.com/apache/plc4x-sub023/term"
)

// Builder assembles a Term from enter/exit notifications of an expression
// grammar walk.
//
// Every compound production (unary, binary, ternary, identifier) calls Enter
// before its operands and one of the Exit methods after them. Literals are
// appended to the innermost open frame. When the walk is done, Finish
// returns the single root term.
//
// A Builder is not safe for concurrent use. Each expression gets its own
// Builder, or a Builder that has been Reset.
type Builder struct {
	frames [][]term.Term
}

func NewBuilder() *Builder {
	b := &Builder{}
	b.Reset()
	return b
}

// Reset discards all frames and prepares the builder for a new expression.
func (b *Builder) Reset() {
	b.frames = append(b.frames[:0], nil)
}

// Depth returns the number of open frames, including the outermost one.
func (b *Builder) Depth() int {
	return len(b.frames)
}

func (b *Builder) Enter() {
	b.frames = append(b.frames, nil)
}

// EnterWith opens a frame that already holds the last n terms of the current
// frame. Parsers that see an infix operator only after its left operand has
// been built use this in place of Enter.
func (b *Builder) EnterWith(n int) error {
	top := b.frames[len(b.frames)-1]
	if n < 0 || len(top) < n {
		return errUnbalancedFrame("not enough terms to enter with")
	}
	moved := make([]term.Term, n)
	copy(moved, top[len(top)-n:])
	b.frames[len(b.frames)-1] = top[:len(top)-n]
	b.frames = append(b.frames, moved)
	return nil
}

func (b *Builder) append(t term.Term) {
	top := len(b.frames) - 1
	b.frames[top] = append(b.frames[top], t)
}

func (b *Builder) exit() ([]term.Term, error) {
	if len(b.frames) < 2 {
		return nil, errUnbalancedFrame("exit without matching enter")
	}
	top := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	return top, nil
}

func (b *Builder) Null() {
	b.append(term.NewNull())
}

func (b *Builder) Bool(value bool) {
	b.append(term.NewBool(value))
}

// Number appends a numeric literal. Text containing a '.' becomes a
// floating-point literal, anything else an integer literal.
func (b *Builder) Number(text string) error {
	n, err := term.ParseNumber(text)
	if err != nil {
		return errInvalidNumber(text, err)
	}
	b.append(n)
	return nil
}

func (b *Builder) Hex(text string) {
	b.append(term.NewHex(text))
}

// Text appends a string literal. quoted is the source text including its
// surrounding quote characters.
func (b *Builder) Text(quoted string) {
	value := quoted
	if len(value) >= 2 {
		value = value[1 : len(value)-1]
	}
	b.append(term.NewString(value))
}

func (b *Builder) Wildcard() {
	b.append(term.NewWildcard())
}

// Append adds an already constructed term to the current frame.
func (b *Builder) Append(t term.Term) {
	b.append(t)
}

func (b *Builder) ExitUnary(op string) error {
	terms, err := b.exit()
	if err != nil {
		return err
	}
	if len(terms) != 1 {
		return &OperatorArityError{op, 1, len(terms)}
	}
	b.append(term.NewUnary(op, terms[0]))
	return nil
}

func (b *Builder) ExitBinary(op string) error {
	terms, err := b.exit()
	if err != nil {
		return err
	}
	if len(terms) != 2 {
		return &OperatorArityError{op, 2, len(terms)}
	}
	b.append(term.NewBinary(op, terms[0], terms[1]))
	return nil
}

func (b *Builder) ExitTernary(op string) error {
	terms, err := b.exit()
	if err != nil {
		return err
	}
	if len(terms) != 3 {
		return &OperatorArityError{op, 3, len(terms)}
	}
	b.append(term.NewTernary(op, terms[0], terms[1], terms[2]))
	return nil
}

// ExitIdentifier closes an identifier frame. The frame holds the call
// arguments in order, followed by the child segment when hasChild is set.
// Without hasArgs the frame must hold no arguments.
func (b *Builder) ExitIdentifier(name string, hasArgs bool, index int, hasChild bool) error {
	terms, err := b.exit()
	if err != nil {
		return err
	}
	var child *term.VariableLiteral
	if hasChild {
		if len(terms) == 0 {
			return errInvalidChild(name, "nothing")
		}
		last := terms[len(terms)-1]
		v, ok := last.(*term.VariableLiteral)
		if !ok {
			return errInvalidChild(name, last.Kind().String())
		}
		child = v
		terms = terms[:len(terms)-1]
	}
	var args []term.Term
	if hasArgs {
		args = make([]term.Term, len(terms))
		copy(args, terms)
	} else if len(terms) != 0 {
		return &OperatorArityError{name, 0, len(terms)}
	}
	b.append(term.NewVariable(name, args, index, child))
	return nil
}

// Finish returns the root term of a completed walk.
func (b *Builder) Finish() (term.Term, error) {
	if len(b.frames) != 1 {
		return nil, errUnbalancedFrame("expression ended with open frames")
	}
	root := b.frames[0]
	switch len(root) {
	case 0:
		return nil, errEmptyExpression()
	case 1:
		return root[0], nil
	default:
		return nil, errMultipleRootTerms(len(root))
	}
}
