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
	"slices"
	"sort"

	"go.uber.org/zap"
)

// Registry collects type definitions and links them into a Module.
//
// Definitions are added in any order. Resolve links parents, checks that
// every complex type reference names a registered type, and returns the
// linked Module. After a successful Resolve the registry rejects further
// additions.
type Registry struct {
	defs     map[string]TypeDefinition
	order    []string
	resolved *Module
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]TypeDefinition)}
}

func (r *Registry) Add(def TypeDefinition) error {
	name := def.Name()
	if r.resolved != nil {
		return errRegistryFrozen(name)
	}
	if _, ok := r.defs[name]; ok {
		return errDuplicateType(name)
	}
	r.defs[name] = def
	r.order = append(r.order, name)
	Logger().Debug("registered type", zap.String("type", name))
	return nil
}

// Lookup finds a registered definition by name, before or after Resolve.
func (r *Registry) Lookup(name string) (TypeDefinition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Resolve links the registered definitions. On failure it returns a
// *ResolveErrors listing every problem, and no parent links are applied.
// Calling Resolve again after success returns the same Module.
func (r *Registry) Resolve() (*Module, error) {
	if r.resolved != nil {
		return r.resolved, nil
	}
	l := &linker{defs: r.defs, parents: make(map[string]string)}
	for _, name := range r.order {
		l.collectParents(r.defs[name])
	}
	l.checkCycles(r.order)
	for _, name := range r.order {
		l.checkReferences(r.defs[name])
	}
	if len(l.errs) > 0 {
		Logger().Debug("type resolution failed", zap.Int("errors", len(l.errs)))
		return nil, &ResolveErrors{Errors: l.errs}
	}

	for _, name := range r.order {
		parent, ok := l.parents[name]
		if !ok {
			continue
		}
		child := r.defs[name].(*ComplexTypeDefinition)
		child.setParentType(r.defs[parent].(*ComplexTypeDefinition))
		Logger().Debug("linked parent type",
			zap.String("type", name),
			zap.String("parent", parent))
	}

	m := &Module{defs: r.defs, subtypes: make(map[string][]string)}
	m.names = slices.Clone(r.order)
	sort.Strings(m.names)
	for _, name := range r.order {
		if parent, ok := l.parents[name]; ok {
			m.subtypes[parent] = append(m.subtypes[parent], name)
		}
	}
	r.resolved = m
	Logger().Debug("resolved module", zap.Int("types", len(m.names)))
	return m, nil
}

func (t *ComplexTypeDefinition) setParentType(parent *ComplexTypeDefinition) {
	if t.parent != nil && t.parent != parent {
		panic(fmt.Sprintf("parent of %q already set to %q", t.name, t.parent.name))
	}
	t.parent = parent
}

type linker struct {
	defs    map[string]TypeDefinition
	parents map[string]string
	errs    []*Error
}

func (l *linker) fail(err *Error) {
	l.errs = append(l.errs, err)
}

// collectParents records the parent of def and of its switch cases.
func (l *linker) collectParents(def TypeDefinition) {
	complexDef, ok := def.(*ComplexTypeDefinition)
	if !ok {
		return
	}
	if complexDef.parentName != "" {
		l.link(complexDef.name, complexDef.parentName, "")
	}
	if sw := complexDef.SwitchField(); sw != nil {
		for _, caseName := range sw.cases {
			l.link(caseName, complexDef.name, complexDef.name)
		}
	}
}

// link records parent as the parent of child. switchOwner is set when the
// link comes from a type switch, and locates errors about unknown cases.
func (l *linker) link(child, parent, switchOwner string) {
	childDef, ok := l.defs[child]
	if !ok {
		l.fail(errUnresolvedTypeReference(switchOwner, FieldSwitch.String(), child))
		return
	}
	parentDef, ok := l.defs[parent]
	if !ok {
		l.fail(errUnresolvedParent(child, parent))
		return
	}
	if _, ok := parentDef.(*ComplexTypeDefinition); !ok {
		l.fail(errParentNotComplex(child, parent))
		return
	}
	if _, ok := childDef.(*ComplexTypeDefinition); !ok {
		l.fail(errParentNotComplex(child, parent))
		return
	}
	if prev, ok := l.parents[child]; ok {
		if prev != parent {
			l.fail(errConflictingParent(child, prev, parent))
		}
		return
	}
	l.parents[child] = parent
}

func (l *linker) checkCycles(order []string) {
	reported := make(map[string]bool)
	for _, start := range order {
		if reported[start] {
			continue
		}
		seen := map[string]bool{start: true}
		chain := []string{start}
		for cur := start; ; {
			parent, ok := l.parents[cur]
			if !ok {
				break
			}
			chain = append(chain, parent)
			if parent == start {
				for _, name := range chain {
					reported[name] = true
				}
				l.fail(errParentCycle(start, chain))
				break
			}
			if seen[parent] {
				// The cycle does not pass through start and is reported
				// when its members are visited.
				break
			}
			seen[parent] = true
			cur = parent
		}
	}
}

func (l *linker) checkReferences(def TypeDefinition) {
	name := def.Name()
	for _, arg := range def.ParserArguments() {
		l.checkTypeReference(name, arg.Name, arg.Type)
	}
	switch def := def.(type) {
	case *ComplexTypeDefinition:
		for _, f := range def.fields {
			if typed, ok := f.(TypedField); ok {
				l.checkTypeReference(name, f.Name(), typed.Type())
			}
			switch f := f.(type) {
			case *ConstField:
				if f.expected == nil {
					l.fail(errInvalidFieldOrder(name, f.name, fmt.Sprintf(
						"Const field '%s' has no expected value", f.name)))
				}
			case *ReservedField:
				if f.expected == nil {
					l.fail(errInvalidFieldOrder(name, f.name,
						"Reserved field has no expected value"))
				}
			}
		}
	case *EnumTypeDefinition:
		l.checkTypeReference(name, "", def.base)
		for constName, ref := range def.constantTypes {
			l.checkTypeReference(name, constName, ref)
		}
	default:
		panic("unreachable")
	}
}

func (l *linker) checkTypeReference(typeName, fieldName string, ref TypeReference) {
	for _, complexRef := range complexReferences(ref) {
		if _, ok := l.defs[complexRef.name]; !ok {
			l.fail(errUnresolvedTypeReference(typeName, fieldName, complexRef.name))
		}
	}
}

// Module is the linked, read-only result of Registry.Resolve. It is safe for
// concurrent use.
type Module struct {
	defs     map[string]TypeDefinition
	names    []string
	subtypes map[string][]string
}

// Types returns every definition, sorted by name.
func (m *Module) Types() []TypeDefinition {
	out := make([]TypeDefinition, len(m.names))
	for ii, name := range m.names {
		out[ii] = m.defs[name]
	}
	return out
}

func (m *Module) Lookup(name string) (TypeDefinition, bool) {
	def, ok := m.defs[name]
	return def, ok
}

func (m *Module) Complex(name string) (*ComplexTypeDefinition, bool) {
	def, ok := m.defs[name].(*ComplexTypeDefinition)
	return def, ok
}

func (m *Module) Enum(name string) (*EnumTypeDefinition, bool) {
	def, ok := m.defs[name].(*EnumTypeDefinition)
	return def, ok
}

// Resolve returns the definition a complex type reference names. References
// are checked when the module is built, so this fails only for references
// from outside the module.
func (m *Module) Resolve(ref *ComplexTypeReference) (TypeDefinition, error) {
	def, ok := m.defs[ref.name]
	if !ok {
		return nil, errUnresolvedTypeReference("", "", ref.name)
	}
	return def, nil
}

// Subtypes returns the types whose parent is def, in registration order.
func (m *Module) Subtypes(def *ComplexTypeDefinition) []*ComplexTypeDefinition {
	names := m.subtypes[def.name]
	out := make([]*ComplexTypeDefinition, len(names))
	for ii, name := range names {
		out[ii] = m.defs[name].(*ComplexTypeDefinition)
	}
	return out
}
