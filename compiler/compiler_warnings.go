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
	"fmt"
)

type Warning struct {
	code     uint32
	message  string
	location Location
}

func (w *Warning) String() string {
	return fmt.Sprintf("W%d: %s", w.code, w.message)
}

func (w *Warning) Code() uint32 {
	return w.code
}

func (w *Warning) Message() string {
	return w.message
}

func (w *Warning) Location() Location {
	return w.location
}

func warnEmptyType(name string, loc Location) *Warning {
	return &Warning{
		code:     4500,
		message:  fmt.Sprintf("Type '%s' has no fields", name),
		location: loc,
	}
}

func warnAbstractWithoutSwitch(name string, loc Location) *Warning {
	return &Warning{
		code:     4501,
		message:  fmt.Sprintf("Abstract type '%s' has no type switch", name),
		location: loc,
	}
}

func warnDiscriminatorCount(name string, want, got int, loc Location) *Warning {
	return &Warning{
		code: 4502,
		message: fmt.Sprintf(
			"Subtype '%s' has %d discriminator values, its parent switches on %d",
			name, got, want,
		),
		location: loc,
	}
}

func warnDuplicateEnumValue(value, prev, name string, loc Location) *Warning {
	return &Warning{
		code: 4503,
		message: fmt.Sprintf(
			"Enum constant '%s' has the same value %s as '%s'",
			name, value, prev,
		),
		location: loc,
	}
}

func warnSwitchCaseNotAbstract(parent string, loc Location) *Warning {
	return &Warning{
		code:     4504,
		message:  fmt.Sprintf("Type '%s' has a type switch but is not abstract", parent),
		location: loc,
	}
}
