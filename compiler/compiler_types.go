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

package compiler

import (
	"strconv"
	"strings"

	"github.com/apache/plc4x-sub023/types"
)

// typeReference parses a type string such as "uint 16", "vstring 'len'" or
// "Payload(size, true)".
func (c *compiler) typeReference(src string, loc Location) types.TypeReference {
	s := strings.TrimSpace(src)
	if s == "" {
		c.fail(errInvalidTypeName(src, "empty type", loc))
		return nil
	}

	head, rest, _ := strings.Cut(s, " ")
	rest = strings.TrimSpace(rest)
	base, ok := types.ParseBaseType(head)
	if !ok {
		return c.complexTypeReference(s, loc)
	}

	switch {
	case base.IsSized():
		size, err := strconv.Atoi(rest)
		if err != nil || size <= 0 {
			c.fail(errInvalidTypeName(src, "expected a bit width", loc))
			return nil
		}
		return types.NewSimpleTypeReference(base, size)
	case base == types.BaseVstring:
		if rest == "" {
			return types.NewVstringTypeReference(nil)
		}
		if len(rest) >= 2 && rest[0] == '\'' && rest[len(rest)-1] == '\'' {
			rest = rest[1 : len(rest)-1]
		}
		length, ok := c.expression("vstring length", rest, loc)
		if !ok {
			return nil
		}
		return types.NewVstringTypeReference(length)
	default:
		if rest != "" {
			c.fail(errInvalidTypeName(src, "unexpected bit width", loc))
			return nil
		}
		return types.NewSimpleTypeReference(base, 0)
	}
}

func (c *compiler) complexTypeReference(src string, loc Location) types.TypeReference {
	v, err := c.opts.parseOpts.ParseVariable(src)
	if err != nil {
		c.fail(errInvalidTypeName(src, "not a type name", loc))
		return nil
	}
	if v.HasIndex() || v.Child() != nil {
		c.fail(errInvalidTypeName(src, "not a type name", loc))
		return nil
	}
	return types.NewComplexTypeReference(v.Name(), v.Args())
}
