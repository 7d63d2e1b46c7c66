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

// Package mspectext renders a linked module as indented text, one
// declaration per line. The output is stable for a given module.
package mspectext

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/apache/plc4x-sub023/term"
	"github.com/apache/plc4x-sub023/types"
)

func Encode(protocol string, m *types.Module) string {
	var buf strings.Builder
	// Writes to a strings.Builder cannot fail.
	_ = EncodeTo(protocol, m, &buf)
	return buf.String()
}

func EncodeTo(protocol string, m *types.Module, w io.Writer) error {
	e := encoder{w: w}
	if protocol != "" {
		e.linef("protocol %s", quote(protocol))
	}
	for _, def := range m.Types() {
		if e.err != nil {
			break
		}
		switch def := def.(type) {
		case *types.ComplexTypeDefinition:
			e.visitComplex(def)
		case *types.EnumTypeDefinition:
			e.visitEnum(def)
		default:
			panic("unreachable")
		}
	}
	return e.err
}

type encoder struct {
	w      io.Writer
	indent int
	err    error
}

func (e *encoder) line(s string) {
	if e.err != nil {
		return
	}
	if indent := strings.Repeat("\t", e.indent); indent != "" {
		if _, err := io.WriteString(e.w, indent); err != nil {
			e.err = err
			return
		}
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.err = err
		return
	}
	if _, err := io.WriteString(e.w, "\n"); err != nil {
		e.err = err
		return
	}
}

func (e *encoder) linef(format string, a ...any) {
	e.line(fmt.Sprintf(format, a...))
}

func (e *encoder) visitCommon(def types.TypeDefinition) {
	if parent := def.ParentType(); parent != nil {
		e.linef("parent %s", parent.Name())
	}
	for _, tag := range def.Tags() {
		e.linef("tag %s", quote(tag))
	}
	e.visitAttributes(def.Attributes())
	for _, arg := range def.ParserArguments() {
		e.linef("argument %s: %s", arg.Name, arg.Type)
	}
}

func (e *encoder) visitAttributes(attrs map[string]term.Term) {
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		e.linef("attribute %s = %s", key, attrs[key])
	}
}

func (e *encoder) visitComplex(def *types.ComplexTypeDefinition) {
	e.linef("complex %s {", def.Name())
	e.indent += 1
	if def.IsAbstract() {
		e.line("abstract")
	}
	if def.IsLittleEndian() {
		e.line("little-endian")
	}
	e.visitCommon(def)
	for _, value := range def.DiscriminatorValues() {
		e.linef("discriminator-value %s", value)
	}

	fields := def.Fields()
	for _, f := range fields {
		e.visitField(f)
	}
	if def.IsLittleEndian() {
		index := make(map[types.Field]int, len(fields))
		for ii, f := range fields {
			index[f] = ii
		}
		var order []string
		for _, f := range def.FieldsInOrder() {
			if name := f.Name(); name != "" {
				order = append(order, name)
			} else {
				order = append(order, fmt.Sprintf("#%d", index[f]))
			}
		}
		e.linef("wire-order %s", strings.Join(order, ", "))
	}
	e.indent -= 1
	e.line("}")
}

func (e *encoder) visitField(f types.Field) {
	head := "field " + f.Kind().String()
	if name := f.Name(); name != "" {
		head += " " + name
	}
	if typed, ok := f.(types.TypedField); ok {
		head += ": " + typed.Type().String()
	}

	var text string
	switch f := f.(type) {
	case *types.SimpleField, *types.PropertyField, *types.DiscriminatorField, *types.ArrayField:
		text = head
	case *types.ConstField:
		text = withTerm(head, " = ", f.Expected())
	case *types.VirtualField:
		text = withTerm(head, " = ", f.ValueTerm())
	case *types.OptionalField:
		text = withTerm(head, " if ", f.ConditionTerm())
	case *types.ImplicitField:
		text = withTerm(head, " = ", f.SerializeTerm())
	case *types.ReservedField:
		text = withTerm(head, " = ", f.Expected())
	case *types.PaddingField:
		text = withTerm(withTerm(head, " = ", f.ValueTerm()), " times ", f.TimesTerm())
	case *types.ChecksumField:
		text = withTerm(head, " = ", f.ChecksumTerm())
	case *types.SwitchField:
		var discriminators []string
		for _, d := range f.Discriminators() {
			discriminators = append(discriminators, d.String())
		}
		e.linef("%s %s {", head, strings.Join(discriminators, ", "))
		e.indent += 1
		for _, name := range f.Cases() {
			e.linef("case %s", name)
		}
		e.visitAttributes(f.Attributes())
		e.indent -= 1
		e.line("}")
		return
	case *types.ValidationField:
		text = withTerm(head, ": ", f.ConditionTerm())
		if desc := f.Description(); desc != "" {
			text += " " + quote(desc)
		}
	default:
		panic("unreachable")
	}

	attrs := f.Attributes()
	if len(attrs) == 0 {
		e.line(text)
		return
	}
	e.line(text + " {")
	e.indent += 1
	e.visitAttributes(attrs)
	e.indent -= 1
	e.line("}")
}

func withTerm(head, sep string, t term.Term) string {
	if t == nil {
		return head
	}
	return head + sep + t.String()
}

func (e *encoder) visitEnum(def *types.EnumTypeDefinition) {
	e.linef("enum %s: %s {", def.Name(), def.BaseType())
	e.indent += 1
	e.visitCommon(def)
	constTypes := def.ConstantTypes()
	for _, name := range slices.Sorted(maps.Keys(constTypes)) {
		e.linef("constant %s: %s", name, constTypes[name])
	}
	for _, v := range def.Values() {
		if len(v.Constants) == 0 {
			e.linef("value %s = %s", v.Name, v.Value)
			continue
		}
		e.linef("value %s = %s {", v.Name, v.Value)
		e.indent += 1
		for _, key := range slices.Sorted(maps.Keys(v.Constants)) {
			e.linef("%s = %s", key, v.Constants[key])
		}
		e.indent -= 1
		e.line("}")
	}
	e.indent -= 1
	e.line("}")
}

func quote(text string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, c := range text {
		if c == '\\' || c == '"' {
			buf.WriteByte('\\')
			buf.WriteRune(c)
			continue
		}
		if c == '\t' {
			buf.WriteString("\\t")
			continue
		}
		if c == '\n' {
			buf.WriteString("\\n")
			continue
		}
		if c < 0x20 || c == 0x7F {
			fmt.Fprintf(&buf, "\\x%02X", c)
			continue
		}
		buf.WriteRune(c)
	}
	buf.WriteByte('"')
	return buf.String()
}
