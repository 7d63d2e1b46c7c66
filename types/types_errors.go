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
	"strings"
)

const (
	CodeUnresolvedTypeReference uint32 = 3000
	CodeInvalidFieldOrder       uint32 = 3001
	CodeDuplicateType           uint32 = 3002
	CodeParentNotComplex        uint32 = 3003
	CodeConflictingParent       uint32 = 3004
	CodeParentCycle             uint32 = 3005
	CodeRegistryFrozen          uint32 = 3006
)

// Error is a problem found while registering or linking type definitions.
// Type and Field locate the definition it was found in; Field is empty for
// type-level problems.
type Error struct {
	code      uint32
	message   string
	typeName  string
	fieldName string
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Type() string {
	return err.typeName
}

func (err *Error) Field() string {
	return err.fieldName
}

// ResolveErrors collects every problem found by Registry.Resolve.
type ResolveErrors struct {
	Errors []*Error
}

func (errs *ResolveErrors) Error() string {
	if len(errs.Errors) == 1 {
		return errs.Errors[0].Error()
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "%d errors resolving types:", len(errs.Errors))
	for _, err := range errs.Errors {
		buf.WriteString("\n\t")
		buf.WriteString(err.Error())
	}
	return buf.String()
}

func (errs *ResolveErrors) Unwrap() []error {
	out := make([]error, len(errs.Errors))
	for ii, err := range errs.Errors {
		out[ii] = err
	}
	return out
}

func errUnresolvedTypeReference(typeName, fieldName, target string) *Error {
	return &Error{
		code:      CodeUnresolvedTypeReference,
		message:   fmt.Sprintf("Type '%s' not found", target),
		typeName:  typeName,
		fieldName: fieldName,
	}
}

func errUnresolvedParent(typeName, parent string) *Error {
	return &Error{
		code:     CodeUnresolvedTypeReference,
		message:  fmt.Sprintf("Parent type '%s' of '%s' not found", parent, typeName),
		typeName: typeName,
	}
}

func errInvalidFieldOrder(typeName, fieldName, message string) *Error {
	return &Error{
		code:      CodeInvalidFieldOrder,
		message:   message,
		typeName:  typeName,
		fieldName: fieldName,
	}
}

func errDuplicateType(name string) *Error {
	return &Error{
		code:     CodeDuplicateType,
		message:  fmt.Sprintf("Duplicate definition of type '%s'", name),
		typeName: name,
	}
}

func errParentNotComplex(typeName, parent string) *Error {
	return &Error{
		code:     CodeParentNotComplex,
		message:  fmt.Sprintf("Type '%s' cannot be the parent of '%s': not a complex type", parent, typeName),
		typeName: typeName,
	}
}

func errConflictingParent(typeName, prev, parent string) *Error {
	return &Error{
		code: CodeConflictingParent,
		message: fmt.Sprintf(
			"Type '%s' has parent '%s' and cannot also be a subtype of '%s'",
			typeName, prev, parent,
		),
		typeName: typeName,
	}
}

func errParentCycle(typeName string, chain []string) *Error {
	return &Error{
		code:     CodeParentCycle,
		message:  fmt.Sprintf("Cyclic parent chain: %s", strings.Join(chain, " -> ")),
		typeName: typeName,
	}
}

func errRegistryFrozen(name string) *Error {
	return &Error{
		code:     CodeRegistryFrozen,
		message:  fmt.Sprintf("Cannot add type '%s' to a resolved registry", name),
		typeName: name,
	}
}
