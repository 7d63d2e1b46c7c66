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

package types

import (
	"slices"
)

// FieldsInOrder returns the fields in the order they are read from the wire.
//
// Big-endian types read fields in declaration order. In little-endian types,
// runs of integer fields that together fill whole bytes are read with their
// order reversed, so that `uint 4 a, uint 4 b, uint 8 c` becomes b, a, c.
func (t *ComplexTypeDefinition) FieldsInOrder() []Field {
	if !t.littleEndian {
		return slices.Clone(t.fields)
	}
	return littleEndianOrder(t.fields)
}

func littleEndianOrder(fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	var group []Field
	bits := 0
	for ii := len(fields) - 1; ii >= 0; ii-- {
		f := fields[ii]
		size, ok := integerBits(f)
		if !ok {
			out = append(out, f)
			continue
		}
		group = append(group, f)
		bits += size
		if bits != 0 && bits%8 == 0 {
			out = appendReversed(out, group)
			group = group[:0]
			bits = 0
		}
	}
	// A run that never fills a byte is flushed like a complete one.
	out = appendReversed(out, group)
	slices.Reverse(out)
	return out
}

func appendReversed(dst, src []Field) []Field {
	for ii := len(src) - 1; ii >= 0; ii-- {
		dst = append(dst, src[ii])
	}
	return dst
}

func integerBits(f Field) (int, bool) {
	typed, ok := f.(TypedField)
	if !ok {
		return 0, false
	}
	ref, ok := typed.Type().(*SimpleTypeReference)
	if !ok || !ref.IsInteger() {
		return 0, false
	}
	return ref.SizeInBits(), true
}
