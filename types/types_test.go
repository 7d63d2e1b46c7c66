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

package types_test

import (
	"errors"
	"testing"

	"github.com/apache/plc4x-sub023/internal/testutil"
	"github.com/apache/plc4x-sub023/term"
	"github.com/apache/plc4x-sub023/types"
)

func uint_(bits int) *types.SimpleTypeReference {
	return types.NewSimpleTypeReference(types.BaseUint, bits)
}

func names(fields []types.Field) []string {
	out := make([]string, len(fields))
	for ii, f := range fields {
		out[ii] = f.Name()
	}
	return out
}

func TestTypeReferenceString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref  types.TypeReference
		want string
	}{
		{types.NewSimpleTypeReference(types.BaseBit, 0), "bit"},
		{types.NewSimpleTypeReference(types.BaseByte, 99), "byte"},
		{uint_(16), "uint 16"},
		{types.NewSimpleTypeReference(types.BaseFloat, 32), "float 32"},
		{types.NewVstringTypeReference(nil), "vstring"},
		{types.NewVstringTypeReference(term.NewVariable("len", nil, term.NoIndex, nil)), "vstring 'len'"},
		{types.NewComplexTypeReference("Foo", nil), "Foo"},
		{types.NewComplexTypeReference("Foo", []term.Term{term.NewBool(true), term.NewInt(2)}), "Foo(true, 2)"},
		{types.NewArrayTypeReference(uint_(8), types.LoopCount, term.NewInt(4)), "uint 8[count 4]"},
	}
	for _, test := range tests {
		testutil.ExpectEq(t, test.want, test.ref.String())
	}
}

func TestIsInteger(t *testing.T) {
	t.Parallel()

	testutil.ExpectTrue(t, uint_(4).IsInteger())
	testutil.ExpectTrue(t, types.NewSimpleTypeReference(types.BaseInt, 32).IsInteger())
	testutil.ExpectFalse(t, types.NewSimpleTypeReference(types.BaseBit, 1).IsInteger())
	testutil.ExpectFalse(t, types.NewSimpleTypeReference(types.BaseByte, 8).IsInteger())
	testutil.ExpectFalse(t, types.NewSimpleTypeReference(types.BaseFloat, 32).IsInteger())
}

func TestParseBaseType(t *testing.T) {
	t.Parallel()

	base, ok := types.ParseBaseType("ufloat")
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, types.BaseUfloat, base)

	base, ok = types.ParseBaseType("dateTime")
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, types.BaseDateTime, base)

	_, ok = types.ParseBaseType("complex")
	testutil.ExpectFalse(t, ok)
}

func TestFieldsInOrderBigEndian(t *testing.T) {
	t.Parallel()

	def := types.NewComplexTypeDefinition("T", []types.Field{
		types.NewPropertyField("a", uint_(4)),
		types.NewPropertyField("b", uint_(4)),
		types.NewPropertyField("c", uint_(8)),
	})
	testutil.ExpectSliceEq(t, []string{"a", "b", "c"}, names(def.FieldsInOrder()))
}

func TestFieldsInOrderLittleEndian(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields []types.Field
		want   []string
	}{
		{
			name: "nibbles then byte",
			fields: []types.Field{
				types.NewPropertyField("a", uint_(4)),
				types.NewPropertyField("b", uint_(4)),
				types.NewPropertyField("c", uint_(8)),
			},
			want: []string{"b", "a", "c"},
		},
		{
			name: "whole bytes",
			fields: []types.Field{
				types.NewPropertyField("a", uint_(8)),
				types.NewPropertyField("b", uint_(16)),
			},
			want: []string{"a", "b"},
		},
		{
			name: "non-integer in between",
			fields: []types.Field{
				types.NewPropertyField("a", uint_(4)),
				types.NewPropertyField("b", uint_(4)),
				types.NewPropertyField("s", types.NewSimpleTypeReference(types.BaseString, 8)),
				types.NewPropertyField("c", uint_(2)),
				types.NewPropertyField("d", uint_(6)),
			},
			want: []string{"b", "a", "s", "d", "c"},
		},
		{
			name: "non-integer splits a nibble pair",
			fields: []types.Field{
				types.NewPropertyField("a", uint_(4)),
				types.NewPropertyField("x", types.NewSimpleTypeReference(types.BaseString, 8)),
				types.NewPropertyField("b", uint_(4)),
			},
			want: []string{"b", "a", "x"},
		},
		{
			name: "trailing partial byte",
			fields: []types.Field{
				types.NewPropertyField("a", uint_(3)),
				types.NewPropertyField("b", uint_(4)),
			},
			want: []string{"b", "a"},
		},
		{
			name: "three fields fill a byte",
			fields: []types.Field{
				types.NewPropertyField("a", uint_(2)),
				types.NewPropertyField("b", uint_(2)),
				types.NewPropertyField("c", uint_(4)),
				types.NewPropertyField("d", uint_(16)),
			},
			want: []string{"c", "b", "a", "d"},
		},
		{
			name: "bits are not integers",
			fields: []types.Field{
				types.NewPropertyField("x", types.NewSimpleTypeReference(types.BaseBit, 1)),
				types.NewPropertyField("y", types.NewSimpleTypeReference(types.BaseBit, 1)),
			},
			want: []string{"x", "y"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			def := types.NewComplexTypeDefinition("T", test.fields, types.WithLittleEndian(true))
			testutil.ExpectSliceEq(t, test.want, names(def.FieldsInOrder()))
		})
	}
}

func TestFieldsInOrderIdempotent(t *testing.T) {
	t.Parallel()

	def := types.NewComplexTypeDefinition("T", []types.Field{
		types.NewPropertyField("a", uint_(4)),
		types.NewPropertyField("b", uint_(4)),
		types.NewPropertyField("c", uint_(8)),
	}, types.WithLittleEndian(true))

	first := def.FieldsInOrder()
	second := def.FieldsInOrder()
	testutil.ExpectSliceEq(t, names(first), names(second))
	testutil.ExpectSliceEq(t, []string{"a", "b", "c"}, names(def.Fields()))
}

func TestFieldViews(t *testing.T) {
	t.Parallel()

	def := types.NewComplexTypeDefinition("T", []types.Field{
		types.NewConstField("magic", uint_(16), term.NewHex("0xCAFE")),
		types.NewSimpleField("raw", uint_(8)),
		types.NewDiscriminatorField("kind", uint_(8)),
		types.NewPropertyField("value", uint_(16)),
		types.NewVirtualField("double", uint_(32), term.NewInt(2)),
		types.NewArrayField("items", types.NewArrayTypeReference(uint_(8), types.LoopCount, term.NewInt(3))),
		types.NewOptionalField("extra", uint_(8), term.NewBool(true)),
		types.NewReservedField(uint_(8), term.NewInt(0)),
	})

	testutil.ExpectSliceEq(t, []string{"magic"}, names(asFields(def.ConstFields())))
	testutil.ExpectSliceEq(t, []string{"raw"}, names(asFields(def.SimpleFields())))
	testutil.ExpectSliceEq(t, []string{"double"}, names(asFields(def.VirtualFields())))
	testutil.ExpectSliceEq(t,
		[]string{"kind", "value", "items", "extra"},
		names(def.PropertyFields()))
	testutil.ExpectTrue(t, def.SwitchField() == nil)
}

func asFields[F types.Field](fields []F) []types.Field {
	out := make([]types.Field, len(fields))
	for ii, f := range fields {
		out[ii] = f
	}
	return out
}

func TestAllPropertyFields(t *testing.T) {
	t.Parallel()

	parent := types.NewComplexTypeDefinition("Parent", []types.Field{
		types.NewPropertyField("p1", uint_(8)),
		types.NewSwitchField(nil, []string{"Child"}),
	}, types.WithAbstract(true), types.WithParserArguments([]types.Argument{
		{Name: "size", Type: uint_(16)},
	}))
	child := types.NewComplexTypeDefinition("Child", []types.Field{
		types.NewPropertyField("p2", uint_(8)),
	}, types.WithParserArguments([]types.Argument{
		{Name: "flag", Type: types.NewSimpleTypeReference(types.BaseBit, 1)},
	}))

	r := types.NewRegistry()
	testutil.AssertNoError(t, r.Add(parent))
	testutil.AssertNoError(t, r.Add(child))
	m, err := r.Resolve()
	testutil.AssertNoError(t, err)

	testutil.ExpectTrue(t, child.ParentType() == parent)
	testutil.ExpectSliceEq(t, []string{"p1", "p2"}, names(child.AllPropertyFields()))
	testutil.ExpectSliceEq(t, []string{"p1"}, names(child.ParentPropertyFields()))
	testutil.ExpectSliceEq(t, []string{"p1"}, names(parent.AllPropertyFields()))

	f, ok := child.PropertyFieldByName("p1")
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "p1", f.Name())

	args := child.AllParserArguments()
	testutil.ExpectEq(t, 2, len(args))
	testutil.ExpectEq(t, "size", args[0].Name)
	testutil.ExpectEq(t, "flag", args[1].Name)

	subtypes := m.Subtypes(parent)
	testutil.ExpectEq(t, 1, len(subtypes))
	testutil.ExpectTrue(t, subtypes[0] == child)
}

func TestRegistryUnresolvedReference(t *testing.T) {
	t.Parallel()

	r := types.NewRegistry()
	testutil.AssertNoError(t, r.Add(types.NewComplexTypeDefinition("T", []types.Field{
		types.NewPropertyField("missing", types.NewComplexTypeReference("Nope", nil)),
		types.NewArrayField("list", types.NewArrayTypeReference(
			types.NewComplexTypeReference("AlsoNope", nil), types.LoopCount, term.NewInt(1))),
	})))
	_, err := r.Resolve()

	var resolveErrs *types.ResolveErrors
	testutil.AssertTrue(t, errors.As(err, &resolveErrs))
	testutil.ExpectEq(t, 2, len(resolveErrs.Errors))
	testutil.ExpectEq(t, types.CodeUnresolvedTypeReference, resolveErrs.Errors[0].Code())
	testutil.ExpectEq(t, "T", resolveErrs.Errors[0].Type())
	testutil.ExpectEq(t, "missing", resolveErrs.Errors[0].Field())
	testutil.ExpectEq(t, "E3000: Type 'AlsoNope' not found", resolveErrs.Errors[1].Error())
	testutil.ExpectErrorCode(t, types.CodeUnresolvedTypeReference, err)
}

func TestRegistryConstWithoutExpected(t *testing.T) {
	t.Parallel()

	r := types.NewRegistry()
	testutil.AssertNoError(t, r.Add(types.NewComplexTypeDefinition("T", []types.Field{
		types.NewConstField("magic", uint_(8), nil),
	})))
	_, err := r.Resolve()
	testutil.ExpectErrorCode(t, types.CodeInvalidFieldOrder, err)
}

func TestRegistryDuplicate(t *testing.T) {
	t.Parallel()

	r := types.NewRegistry()
	testutil.AssertNoError(t, r.Add(types.NewComplexTypeDefinition("T", nil)))
	testutil.ExpectErrorCode(t, types.CodeDuplicateType, r.Add(types.NewEnumTypeDefinition("T", nil, nil, nil)))
}

func TestRegistryFrozen(t *testing.T) {
	t.Parallel()

	r := types.NewRegistry()
	testutil.AssertNoError(t, r.Add(types.NewComplexTypeDefinition("T", nil)))
	m1, err := r.Resolve()
	testutil.AssertNoError(t, err)
	m2, err := r.Resolve()
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, m1 == m2)
	testutil.ExpectErrorCode(t, types.CodeRegistryFrozen, r.Add(types.NewComplexTypeDefinition("U", nil)))
}

func TestRegistryParentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		defs []types.TypeDefinition
		code uint32
	}{
		{
			name: "unknown parent",
			defs: []types.TypeDefinition{
				types.NewComplexTypeDefinition("A", nil, types.WithParentName("Missing")),
			},
			code: types.CodeUnresolvedTypeReference,
		},
		{
			name: "unknown switch case",
			defs: []types.TypeDefinition{
				types.NewComplexTypeDefinition("A", []types.Field{
					types.NewSwitchField(nil, []string{"Missing"}),
				}),
			},
			code: types.CodeUnresolvedTypeReference,
		},
		{
			name: "enum parent",
			defs: []types.TypeDefinition{
				types.NewEnumTypeDefinition("E", nil, nil, nil),
				types.NewComplexTypeDefinition("A", nil, types.WithParentName("E")),
			},
			code: types.CodeParentNotComplex,
		},
		{
			name: "conflicting parent",
			defs: []types.TypeDefinition{
				types.NewComplexTypeDefinition("P1", []types.Field{types.NewSwitchField(nil, []string{"C"})}),
				types.NewComplexTypeDefinition("P2", []types.Field{types.NewSwitchField(nil, []string{"C"})}),
				types.NewComplexTypeDefinition("C", nil),
			},
			code: types.CodeConflictingParent,
		},
		{
			name: "cycle",
			defs: []types.TypeDefinition{
				types.NewComplexTypeDefinition("A", nil, types.WithParentName("B")),
				types.NewComplexTypeDefinition("B", nil, types.WithParentName("A")),
			},
			code: types.CodeParentCycle,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			r := types.NewRegistry()
			for _, def := range test.defs {
				testutil.AssertNoError(t, r.Add(def))
			}
			_, err := r.Resolve()
			testutil.ExpectErrorCode(t, test.code, err)
		})
	}
}

func TestRegistryCycleLeavesParentsUnset(t *testing.T) {
	t.Parallel()

	a := types.NewComplexTypeDefinition("A", nil, types.WithParentName("B"))
	b := types.NewComplexTypeDefinition("B", nil, types.WithParentName("A"))
	r := types.NewRegistry()
	testutil.AssertNoError(t, r.Add(a))
	testutil.AssertNoError(t, r.Add(b))
	_, err := r.Resolve()
	testutil.AssertError(t, err)
	testutil.ExpectTrue(t, a.ParentType() == nil)
	testutil.ExpectEq(t, 0, len(a.AllPropertyFields()))
}

func TestModuleLookup(t *testing.T) {
	t.Parallel()

	r := types.NewRegistry()
	testutil.AssertNoError(t, r.Add(types.NewEnumTypeDefinition("Zed", nil, []types.EnumValue{
		{Name: "ONE", Value: "1"},
	}, nil)))
	testutil.AssertNoError(t, r.Add(types.NewComplexTypeDefinition("Alpha", []types.Field{
		types.NewPropertyField("z", types.NewComplexTypeReference("Zed", nil)),
	})))
	m, err := r.Resolve()
	testutil.AssertNoError(t, err)

	var got []string
	for _, def := range m.Types() {
		got = append(got, def.Name())
	}
	testutil.ExpectSliceEq(t, []string{"Alpha", "Zed"}, got)

	enum, ok := m.Enum("Zed")
	testutil.AssertTrue(t, ok)
	testutil.ExpectEq(t, "uint 32", enum.BaseType().String())
	v, ok := enum.ValueByName("ONE")
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "1", v.Value)

	_, ok = m.Complex("Zed")
	testutil.ExpectFalse(t, ok)

	def, err := m.Resolve(types.NewComplexTypeReference("Zed", nil))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "Zed", def.Name())
	_, err = m.Resolve(types.NewComplexTypeReference("Nope", nil))
	testutil.ExpectErrorCode(t, types.CodeUnresolvedTypeReference, err)
}

func TestNextEnumValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prev string
		want string
	}{
		{"", "0"},
		{"0", "1"},
		{"41", "42"},
		{"-1", "0"},
		{"0x0A", "0x0B"},
		{"0xFF", "0x100"},
	}
	for _, test := range tests {
		got, err := types.NextEnumValue(test.prev)
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, test.want, got)
	}

	for _, prev := range []string{"'a'", "0xFFFFFFFFFFFFFFFF", "9223372036854775807"} {
		_, err := types.NextEnumValue(prev)
		testutil.ExpectError(t, err)
	}
}

func TestFieldTerms(t *testing.T) {
	t.Parallel()

	f := types.NewPaddingField("pad", uint_(8), term.NewHex("0x00"), term.NewInt(3))
	got := types.Terms(f)
	testutil.ExpectEq(t, 2, len(got))
	testutil.ExpectEq(t, "0x00", got[0].String())
	testutil.ExpectEq(t, "3", got[1].String())

	testutil.ExpectEq(t, 0, len(types.Terms(types.NewPropertyField("p", uint_(8)))))
	testutil.ExpectFalse(t, types.IsProperty(types.NewVirtualField("v", uint_(8), term.NewInt(1))))
	testutil.ExpectEq(t, "typeSwitch", types.FieldSwitch.String())
}
