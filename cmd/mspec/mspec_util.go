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


package main

import (
	"fmt"
	"os"

	"github.com/apache/plc4x-sub023/compiler"
)

// formatDiagnostics renders warnings and then errors, one per line, each
// prefixed with its location.
func formatDiagnostics(result *compiler.CompileResult) []string {
	var out []string
	for _, warn := range result.Warnings {
		out = append(out, withLocation(warn.Location(), warn.String()))
	}
	for _, err := range result.Errors {
		out = append(out, withLocation(err.Location(), err.Error()))
	}
	return out
}

func withLocation(loc compiler.Location, msg string) string {
	if prefix := loc.String(); prefix != "" {
		return prefix + ": " + msg
	}
	return msg
}

func writeFile(path string, data []byte) error {
	openFlags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	fp, err := os.OpenFile(path, openFlags, 0o666)
	if err != nil {
		return err
	}
	_, writeErr := fp.Write(data)
	closeErr := fp.Close()
	if writeErr != nil {
		return writeErr
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", path, closeErr)
	}
	return nil
}
