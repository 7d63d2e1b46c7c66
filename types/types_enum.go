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
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/apache/plc4x-sub023/term"
)

type EnumValue struct {
	Name string

	// Value is the wire value as written in the source, such as "3" or
	// "0x0A".
	Value string

	// Constants are per-value properties, keyed by constant name.
	Constants map[string]term.Term
}

type EnumTypeDefinition struct {
	typeBase
	base          TypeReference
	values        []EnumValue
	constantTypes map[string]TypeReference
}

// DefaultEnumType is the base type of enums that do not declare one.
func DefaultEnumType() *SimpleTypeReference {
	return NewSimpleTypeReference(BaseUint, 32)
}

// NewEnumTypeDefinition returns an enum over the given values. A nil base
// type means uint 32.
func NewEnumTypeDefinition(
	name string,
	base TypeReference,
	values []EnumValue,
	constantTypes map[string]TypeReference,
	opts ...TypeOption,
) *EnumTypeDefinition {
	if base == nil {
		base = DefaultEnumType()
	}
	c := newTypeConfig(opts)
	return &EnumTypeDefinition{
		typeBase: typeBase{
			name:       name,
			args:       c.args,
			tags:       c.tags,
			attributes: c.attributes,
		},
		base:          base,
		values:        slices.Clone(values),
		constantTypes: maps.Clone(constantTypes),
	}
}

func (t *EnumTypeDefinition) BaseType() TypeReference {
	return t.base
}

func (t *EnumTypeDefinition) Values() []EnumValue {
	return slices.Clone(t.values)
}

// ConstantTypes returns the declared type of each per-value constant.
func (t *EnumTypeDefinition) ConstantTypes() map[string]TypeReference {
	return t.constantTypes
}

func (t *EnumTypeDefinition) ValueByName(name string) (EnumValue, bool) {
	for _, v := range t.values {
		if v.Name == name {
			return v, true
		}
	}
	return EnumValue{}, false
}

// NextEnumValue returns the value following prev, for enum entries that
// omit an explicit value. The first entry of an enum counts from "0".
// Hexadecimal values continue in hexadecimal.
func NextEnumValue(prev string) (string, error) {
	if prev == "" {
		return "0", nil
	}
	if hex, ok := strings.CutPrefix(prev, "0x"); ok {
		n, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return "", fmt.Errorf("enum value %q is not a number: %w", prev, err)
		}
		if n == math.MaxUint64 {
			return "", fmt.Errorf("enum value after %q overflows 64 bits", prev)
		}
		return fmt.Sprintf("0x%0*X", len(hex), n+1), nil
	}
	n, err := strconv.ParseInt(prev, 10, 64)
	if err != nil {
		return "", fmt.Errorf("enum value %q is not a number: %w", prev, err)
	}
	if n == math.MaxInt64 {
		return "", fmt.Errorf("enum value after %q overflows 64 bits", prev)
	}
	return strconv.FormatInt(n+1, 10), nil
}
