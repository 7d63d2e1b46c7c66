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

// Package compiler turns a decoded module document into a linked
// [types.Module].
//
// Compilation runs in two phases. Each type declaration is first compiled
// on its own, parsing its type strings and expressions. If every
// declaration compiled, the types are registered and linked. Diagnostics
// from both phases are collected rather than stopping at the first one.
package compiler

import (
	"cmp"
	"errors"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/apache/plc4x-sub023/encoding/mspecyaml"
	"github.com/apache/plc4x-sub023/expression"
	"github.com/apache/plc4x-sub023/term"
	"github.com/apache/plc4x-sub023/types"
)

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	littleEndian bool
	maxDepth     int
	parseOpts    *expression.ParseOptions
}

// WithLittleEndianDefault sets the byte order of types whose declaration
// and document leave it unspecified.
func WithLittleEndianDefault(littleEndian bool) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.littleEndian = littleEndian
	})
}

// WithExpressionMaxDepth limits the nesting depth of expressions.
func WithExpressionMaxDepth(maxDepth int) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.maxDepth = maxDepth
	})
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	var parseOpts []expression.ParseOption
	if compileOptions.maxDepth > 0 {
		parseOpts = append(parseOpts, expression.WithMaxDepth(compileOptions.maxDepth))
	}
	compileOptions.parseOpts = expression.NewParseOptions(parseOpts...)
	return compileOptions
}

type CompileResult struct {
	protocol string
	module   *types.Module

	Errors   []*Error
	Warnings []*Warning
}

// Module returns the linked module, or nil if there were errors.
func (r *CompileResult) Module() *types.Module {
	return r.module
}

func (r *CompileResult) Protocol() string {
	return r.protocol
}

// EncodedModule renders the module in the YAML form read by code
// generators.
func (r *CompileResult) EncodedModule() ([]byte, error) {
	if r.module == nil {
		return nil, errors.New("compiler: module has errors")
	}
	return mspecyaml.Encode(r.protocol, r.module)
}

func Compile(doc *mspecyaml.Document, opts ...CompileOption) CompileResult {
	return NewCompileOptions(opts...).Compile(doc)
}

func (opts *CompileOptions) Compile(doc *mspecyaml.Document) CompileResult {
	c := compiler{
		opts:       opts,
		doc:        doc,
		registry:   types.NewRegistry(),
		typeLines:  make(map[string]int),
		fieldLines: make(map[fieldKey]int),
	}
	c.compileDocument()

	sortByLine(c.errors, func(err *Error) Location { return err.location }, (*Error).Code)
	sortByLine(c.warnings, func(w *Warning) Location { return w.location }, (*Warning).Code)
	return CompileResult{
		protocol: doc.Protocol,
		module:   c.module,
		Errors:   c.errors,
		Warnings: c.warnings,
	}
}

func sortByLine[T any](items []T, loc func(T) Location, code func(T) uint32) {
	slices.SortStableFunc(items, func(a, b T) int {
		if x := cmp.Compare(loc(a).Line, loc(b).Line); x != 0 {
			return x
		}
		return cmp.Compare(code(a), code(b))
	})
}

type fieldKey struct {
	typeName  string
	fieldName string
}

type compiler struct {
	opts     *CompileOptions
	doc      *mspecyaml.Document
	registry *types.Registry
	module   *types.Module

	typeLines  map[string]int
	fieldLines map[fieldKey]int

	errors   []*Error
	warnings []*Warning
}

func (c *compiler) fail(err *Error) {
	c.errors = append(c.errors, err)
}

func (c *compiler) warn(w *Warning) {
	c.warnings = append(c.warnings, w)
}

func (c *compiler) compileDocument() {
	littleEndian := c.opts.littleEndian
	if c.doc.LittleEndian != nil {
		littleEndian = *c.doc.LittleEndian
	}

	for _, decl := range c.doc.Types {
		def := c.compileType(decl, littleEndian)
		if def == nil {
			continue
		}
		if err := c.registry.Add(def); err != nil {
			c.fail(errWrapped(err, Location{Type: decl.Name, Line: decl.Line}))
		}
	}
	if len(c.errors) > 0 {
		return
	}

	module, err := c.registry.Resolve()
	if err != nil {
		var resolveErrs *types.ResolveErrors
		if !errors.As(err, &resolveErrs) {
			c.fail(errWrapped(err, Location{}))
			return
		}
		for _, linkErr := range resolveErrs.Errors {
			c.fail(errWrapped(linkErr, c.locate(linkErr.Type(), linkErr.Field())))
		}
		return
	}
	c.module = module
	c.checkModule()
}

// locate finds the source line of a type or field that was compiled
// earlier.
func (c *compiler) locate(typeName, fieldName string) Location {
	loc := Location{Type: typeName, Field: fieldName, Line: c.typeLines[typeName]}
	if line, ok := c.fieldLines[fieldKey{typeName, fieldName}]; ok {
		loc.Line = line
	}
	return loc
}

func (c *compiler) expression(what, src string, loc Location) (term.Term, bool) {
	t, err := c.opts.parseOpts.Parse(src)
	if err != nil {
		c.fail(errInvalidExpression(what, src, err, loc))
		return nil, false
	}
	return t, true
}

func (c *compiler) literal(what, src string, loc Location) (term.Term, bool) {
	t, err := c.opts.parseOpts.ParseLiteral(src)
	if err != nil {
		c.fail(errInvalidExpression(what, src, err, loc))
		return nil, false
	}
	return t, true
}

func (c *compiler) attributes(attrs map[string]string, loc Location) map[string]term.Term {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]term.Term, len(attrs))
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		if t, ok := c.expression("attribute "+key, attrs[key], loc); ok {
			out[key] = t
		}
	}
	return out
}

func (c *compiler) compileType(decl *mspecyaml.TypeDecl, littleEndian bool) types.TypeDefinition {
	loc := Location{Type: decl.Name, Line: decl.Line}
	if decl.Name == "" {
		c.fail(errMissingTypeName(loc))
		return nil
	}
	c.typeLines[decl.Name] = decl.Line
	start := len(c.errors)

	typeOpts := []types.TypeOption{
		types.WithTags(decl.Tags),
		types.WithTypeAttributes(c.attributes(decl.Attributes, loc)),
	}
	var args []types.Argument
	for _, arg := range decl.Arguments {
		argLoc := Location{Type: decl.Name, Field: arg.Name, Line: decl.Line}
		if arg.Name == "" {
			c.fail(errMissingFieldName("argument", argLoc))
			continue
		}
		if arg.Type == "" {
			c.fail(errMissingFieldKey("argument", "type", argLoc))
			continue
		}
		args = append(args, types.Argument{
			Name: arg.Name,
			Type: c.typeReference(arg.Type, argLoc),
		})
	}
	typeOpts = append(typeOpts, types.WithParserArguments(args))

	var def types.TypeDefinition
	switch decl.Kind {
	case "", "complex":
		def = c.compileComplex(decl, littleEndian, typeOpts)
	case "enum":
		def = c.compileEnum(decl, typeOpts)
	default:
		c.fail(errUnknownTypeKind(decl.Kind, loc))
	}
	if len(c.errors) > start {
		return nil
	}
	Logger().Debug("compiled type",
		zap.String("type", decl.Name),
		zap.Int("line", decl.Line))
	return def
}

func (c *compiler) compileComplex(
	decl *mspecyaml.TypeDecl,
	littleEndian bool,
	typeOpts []types.TypeOption,
) *types.ComplexTypeDefinition {
	loc := Location{Type: decl.Name, Line: decl.Line}
	if decl.LittleEndian != nil {
		littleEndian = *decl.LittleEndian
	}

	var discriminatorValues []term.Term
	for _, src := range decl.DiscriminatorValues {
		if t, ok := c.expression("discriminator value", src, loc); ok {
			discriminatorValues = append(discriminatorValues, t)
		}
	}

	var fields []types.Field
	seen := make(map[string]bool)
	switches := 0
	for _, fd := range decl.Fields {
		f := c.compileField(decl.Name, fd)
		if f == nil {
			continue
		}
		name := f.Name()
		if f.Kind() == types.FieldSwitch {
			switches += 1
			if switches > 1 {
				c.fail(errMultipleSwitches(Location{Type: decl.Name, Line: fd.Line}))
			}
			name = types.FieldSwitch.String()
		} else if name != "" {
			if seen[name] {
				c.fail(errDuplicateField(name, Location{Type: decl.Name, Field: name, Line: fd.Line}))
			}
			seen[name] = true
		}
		if name != "" {
			c.fieldLines[fieldKey{decl.Name, name}] = fd.Line
		}
		fields = append(fields, f)
	}

	typeOpts = append(typeOpts,
		types.WithAbstract(decl.Abstract),
		types.WithLittleEndian(littleEndian),
		types.WithParentName(decl.Parent),
		types.WithDiscriminatorValues(discriminatorValues),
	)
	return types.NewComplexTypeDefinition(decl.Name, fields, typeOpts...)
}

func (c *compiler) compileField(typeName string, fd *mspecyaml.FieldDecl) types.Field {
	loc := Location{Type: typeName, Line: fd.Line}
	switch fd.Kind {
	case mspecyaml.KindSwitch, mspecyaml.KindReserved, mspecyaml.KindValidation:
	default:
		loc.Field = fd.Value
	}
	start := len(c.errors)

	var fieldOpts []types.FieldOption
	if len(fd.Attributes) > 0 {
		fieldOpts = append(fieldOpts, types.WithFieldAttributes(c.attributes(fd.Attributes, loc)))
	}
	requireName := func() {
		if fd.Value == "" {
			c.fail(errMissingFieldName(fd.Kind, loc))
		}
	}
	fieldType := func() types.TypeReference {
		if fd.Type == "" {
			c.fail(errMissingFieldKey(fd.Kind, "type", loc))
			return nil
		}
		return c.typeReference(fd.Type, loc)
	}
	required := func(key, src string) term.Term {
		if src == "" {
			c.fail(errMissingFieldKey(fd.Kind, key, loc))
			return nil
		}
		t, _ := c.expression(fd.Kind+" "+key, src, loc)
		return t
	}
	optional := func(key, src string) term.Term {
		if src == "" {
			return nil
		}
		t, _ := c.expression(fd.Kind+" "+key, src, loc)
		return t
	}
	// An empty expected value is left for the linker to report.
	expected := func(src string) term.Term {
		if src == "" {
			return nil
		}
		t, _ := c.literal(fd.Kind+" expected value", src, loc)
		return t
	}

	var f types.Field
	switch fd.Kind {
	case mspecyaml.KindSimple:
		f = types.NewSimpleField(fd.Value, fieldType(), fieldOpts...)
	case mspecyaml.KindProperty:
		requireName()
		f = types.NewPropertyField(fd.Value, fieldType(), fieldOpts...)
	case mspecyaml.KindDiscriminator:
		requireName()
		f = types.NewDiscriminatorField(fd.Value, fieldType(), fieldOpts...)
	case mspecyaml.KindConst:
		requireName()
		f = types.NewConstField(fd.Value, fieldType(), expected(fd.Expected), fieldOpts...)
	case mspecyaml.KindVirtual:
		requireName()
		f = types.NewVirtualField(fd.Value, fieldType(), required("expr", fd.Expr), fieldOpts...)
	case mspecyaml.KindArray:
		requireName()
		element := fieldType()
		var loop types.LoopType
		if fd.Loop == "" {
			c.fail(errMissingFieldKey(fd.Kind, "loop", loc))
		} else if parsed, ok := types.ParseLoopType(fd.Loop); ok {
			loop = parsed
		} else {
			c.fail(errInvalidLoopType(fd.Loop, loc))
		}
		length := required("expr", fd.Expr)
		f = types.NewArrayField(fd.Value, types.NewArrayTypeReference(element, loop, length), fieldOpts...)
	case mspecyaml.KindOptional:
		requireName()
		f = types.NewOptionalField(fd.Value, fieldType(), optional("condition", fd.Condition), fieldOpts...)
	case mspecyaml.KindImplicit:
		requireName()
		f = types.NewImplicitField(fd.Value, fieldType(), required("expr", fd.Expr), fieldOpts...)
	case mspecyaml.KindReserved:
		f = types.NewReservedField(fieldType(), expected(fd.Value), fieldOpts...)
	case mspecyaml.KindPadding:
		requireName()
		f = types.NewPaddingField(
			fd.Value, fieldType(),
			required("expr", fd.Expr), required("times", fd.Times),
			fieldOpts...,
		)
	case mspecyaml.KindChecksum:
		requireName()
		f = types.NewChecksumField(fd.Value, fieldType(), required("expr", fd.Expr), fieldOpts...)
	case mspecyaml.KindSwitch:
		var discriminators []*term.VariableLiteral
		for _, src := range fd.Discriminators {
			v, err := c.opts.parseOpts.ParseVariable(src)
			if err != nil {
				c.fail(errInvalidExpression("switch discriminator", src, err, loc))
				continue
			}
			discriminators = append(discriminators, v)
		}
		if len(fd.Discriminators) == 0 {
			c.fail(errMissingFieldKey(fd.Kind, "discriminators", loc))
		}
		if len(fd.Cases) == 0 {
			c.fail(errMissingFieldKey(fd.Kind, "cases", loc))
		}
		f = types.NewSwitchField(discriminators, fd.Cases, fieldOpts...)
	case mspecyaml.KindValidation:
		condition := required("condition", fd.Value)
		f = types.NewValidationField(condition, fd.Description, fieldOpts...)
	default:
		c.fail(errUnknownFieldKind(fd.Kind, loc))
	}
	if len(c.errors) > start {
		return nil
	}
	return f
}

func (c *compiler) compileEnum(decl *mspecyaml.TypeDecl, typeOpts []types.TypeOption) *types.EnumTypeDefinition {
	loc := Location{Type: decl.Name, Line: decl.Line}

	var base types.TypeReference
	if decl.Type != "" {
		base = c.typeReference(decl.Type, loc)
	}

	var constantTypes map[string]types.TypeReference
	if len(decl.Constants) > 0 {
		constantTypes = make(map[string]types.TypeReference, len(decl.Constants))
		for _, name := range slices.Sorted(maps.Keys(decl.Constants)) {
			constLoc := Location{Type: decl.Name, Field: name, Line: decl.Line}
			constantTypes[name] = c.typeReference(decl.Constants[name], constLoc)
		}
	}

	var values []types.EnumValue
	prev := ""
	byValue := make(map[string]string)
	for _, v := range decl.Values {
		valueLoc := Location{Type: decl.Name, Field: v.Name, Line: decl.Line}
		if v.Name == "" {
			c.fail(errMissingFieldName("enum value", valueLoc))
			continue
		}
		value := v.Value
		if value == "" {
			next, err := types.NextEnumValue(prev)
			if err != nil {
				c.fail(errInvalidEnumValue(v.Name, err, valueLoc))
				continue
			}
			value = next
		}
		prev = value
		if other, dup := byValue[value]; dup {
			c.warn(warnDuplicateEnumValue(value, other, v.Name, valueLoc))
		} else {
			byValue[value] = v.Name
		}
		values = append(values, types.EnumValue{
			Name:      v.Name,
			Value:     value,
			Constants: c.attributes(v.Constants, valueLoc),
		})
	}
	return types.NewEnumTypeDefinition(decl.Name, base, values, constantTypes, typeOpts...)
}

// checkModule reports warnings about a successfully linked module.
func (c *compiler) checkModule() {
	for _, decl := range c.doc.Types {
		def, ok := c.module.Complex(decl.Name)
		if !ok {
			continue
		}
		loc := Location{Type: decl.Name, Line: decl.Line}
		sw := def.SwitchField()
		if len(def.Fields()) == 0 && def.ParentType() == nil {
			c.warn(warnEmptyType(decl.Name, loc))
		}
		if def.IsAbstract() && sw == nil {
			c.warn(warnAbstractWithoutSwitch(decl.Name, loc))
		}
		if sw != nil && !def.IsAbstract() {
			c.warn(warnSwitchCaseNotAbstract(decl.Name, c.locate(decl.Name, types.FieldSwitch.String())))
		}
		if parent := def.ParentType(); parent != nil {
			parentSwitch := parent.SwitchField()
			if parentSwitch != nil && slices.Contains(parentSwitch.Cases(), decl.Name) {
				want := len(parentSwitch.Discriminators())
				got := len(def.DiscriminatorValues())
				if want != got {
					c.warn(warnDiscriminatorCount(decl.Name, want, got, loc))
				}
			}
		}
	}
	Logger().Debug("compiled module",
		zap.String("protocol", c.doc.Protocol),
		zap.Int("types", len(c.doc.Types)),
		zap.Int("warnings", len(c.warnings)))
}
