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
	"errors"
	"fmt"
)

// Location identifies the declaration a diagnostic was reported against.
// Field is empty for type-level diagnostics, Line is zero when unknown.
type Location struct {
	Type  string
	Field string
	Line  int
}

func (loc Location) String() string {
	var out string
	if loc.Line > 0 {
		out = fmt.Sprintf("line %d: ", loc.Line)
	}
	switch {
	case loc.Type != "" && loc.Field != "":
		out += fmt.Sprintf("%s.%s", loc.Type, loc.Field)
	case loc.Type != "":
		out += loc.Type
	}
	return out
}

type Error struct {
	code     uint32
	message  string
	location Location
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

func (err *Error) Location() Location {
	return err.location
}

type codedError interface {
	error
	Code() uint32
	Message() string
}

// errWrapped reports an error from the expression parser or the type
// registry, keeping its code.
func errWrapped(err error, loc Location) *Error {
	var coded codedError
	if errors.As(err, &coded) {
		return &Error{
			code:     coded.Code(),
			message:  coded.Message(),
			location: loc,
		}
	}
	return &Error{
		code:     4099,
		message:  err.Error(),
		location: loc,
	}
}

func errInvalidTypeName(typeStr string, reason string, loc Location) *Error {
	return &Error{
		code:     4000,
		message:  fmt.Sprintf("Invalid type %q: %s", typeStr, reason),
		location: loc,
	}
}

func errInvalidExpression(what, src string, err error, loc Location) *Error {
	var coded codedError
	code := uint32(4001)
	message := err.Error()
	if errors.As(err, &coded) {
		code = coded.Code()
		message = coded.Message()
	}
	return &Error{
		code:     code,
		message:  fmt.Sprintf("In %s %q: %s", what, src, message),
		location: loc,
	}
}

func errMissingFieldName(kind string, loc Location) *Error {
	return &Error{
		code:     4002,
		message:  fmt.Sprintf("Field of kind '%s' requires a name", kind),
		location: loc,
	}
}

func errInvalidLoopType(loop string, loc Location) *Error {
	return &Error{
		code:     4003,
		message:  fmt.Sprintf("Invalid array loop type %q (expected count, length or terminated)", loop),
		location: loc,
	}
}

func errInvalidEnumValue(name string, err error, loc Location) *Error {
	return &Error{
		code:     4004,
		message:  fmt.Sprintf("Cannot assign a value to enum constant '%s': %v", name, err),
		location: loc,
	}
}

func errUnknownTypeKind(kind string, loc Location) *Error {
	return &Error{
		code:     4005,
		message:  fmt.Sprintf("Unknown type kind %q (expected complex or enum)", kind),
		location: loc,
	}
}

func errMissingTypeName(loc Location) *Error {
	return &Error{
		code:     4006,
		message:  "Type declaration requires a name",
		location: loc,
	}
}

func errMissingFieldKey(kind, key string, loc Location) *Error {
	return &Error{
		code:     4007,
		message:  fmt.Sprintf("Field of kind '%s' requires '%s'", kind, key),
		location: loc,
	}
}

func errDuplicateField(name string, loc Location) *Error {
	return &Error{
		code:     4008,
		message:  fmt.Sprintf("Duplicate field name '%s'", name),
		location: loc,
	}
}

func errMultipleSwitches(loc Location) *Error {
	return &Error{
		code:     4009,
		message:  "Type declares more than one type switch",
		location: loc,
	}
}

func errUnknownFieldKind(kind string, loc Location) *Error {
	return &Error{
		code:     4010,
		message:  fmt.Sprintf("Unknown field kind %q", kind),
		location: loc,
	}
}
