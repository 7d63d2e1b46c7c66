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

package testutil

import (
	"cmp"
	"fmt"
	"io/fs"
	"iter"
	"regexp"
	"slices"
	"testing"

	"gopkg.in/yaml.v3"
)

// Diagnostic is a known error or warning, keyed by name in a diagnostics
// table such as testdata/diagnostics.yaml.
type Diagnostic struct {
	Key     string
	Code    uint32
	Message string
	Pattern *regexp.Regexp
}

type Diagnostics struct {
	Errors   map[string]*Diagnostic
	Warnings map[string]*Diagnostic
}

func LoadDiagnostics(testdata fs.FS, path string) (*Diagnostics, error) {
	type raw struct {
		Code    uint32 `yaml:"code"`
		Message string `yaml:"message"`
		Pattern string `yaml:"message_pattern"`
	}
	type rawTable struct {
		Errors   map[string]raw `yaml:"errors"`
		Warnings map[string]raw `yaml:"warnings"`
	}

	yamlData, err := fs.ReadFile(testdata, path)
	if err != nil {
		return nil, err
	}
	var table rawTable
	if err := yaml.Unmarshal(yamlData, &table); err != nil {
		return nil, err
	}

	convert := func(kind string, rawDiags map[string]raw) (map[string]*Diagnostic, error) {
		out := make(map[string]*Diagnostic, len(rawDiags))
		codes := make(map[uint32]string, len(rawDiags))
		for key, raw := range rawDiags {
			if raw.Code == 0 {
				return nil, fmt.Errorf("%s %q has no code", kind, key)
			}
			if prev, conflict := codes[raw.Code]; conflict {
				return nil, fmt.Errorf("%s %q and %q share code %d", kind, prev, key, raw.Code)
			}
			codes[raw.Code] = key

			var pattern *regexp.Regexp
			if raw.Pattern != "" {
				pattern, err = regexp.Compile("(?i)" + raw.Pattern)
				if err != nil {
					return nil, err
				}
			}
			out[key] = &Diagnostic{
				Key:     key,
				Code:    raw.Code,
				Message: raw.Message,
				Pattern: pattern,
			}
		}
		return out, nil
	}

	diags := &Diagnostics{}
	if diags.Errors, err = convert("error", table.Errors); err != nil {
		return nil, err
	}
	if diags.Warnings, err = convert("warning", table.Warnings); err != nil {
		return nil, err
	}
	return diags, nil
}

// ExpectedDiagnostic is one entry of an expect_err.yaml or expect_warn.yaml
// file: a known diagnostic plus where it is reported.
type ExpectedDiagnostic struct {
	Diagnostic
	Type  string
	Field string
	Line  int
}

// LoadExpected reads the diagnostics listed in path, which has the form
//
//	errors:
//	  - {error: unresolved_type, type: Foo, field: bar, line: 4}
//
// with "warnings" and "warning" in place of "errors" and "error" for
// warnings. Results are sorted by line, then code.
func LoadExpected(
	t *testing.T,
	known map[string]*Diagnostic,
	testdata fs.FS,
	path string,
	kind string,
) []*ExpectedDiagnostic {
	t.Helper()

	yamlData, err := fs.ReadFile(testdata, path)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string][]map[string]any
	if err := yaml.Unmarshal(yamlData, &raw); err != nil {
		t.Fatal(err)
	}

	var out []*ExpectedDiagnostic
	for _, entry := range raw[kind+"s"] {
		name, _ := entry[kind].(string)
		diag, ok := known[name]
		if !ok {
			t.Fatalf("unknown %s name %q", kind, name)
		}
		expected := &ExpectedDiagnostic{Diagnostic: *diag}
		expected.Type, _ = entry["type"].(string)
		expected.Field, _ = entry["field"].(string)
		expected.Line, _ = entry["line"].(int)
		out = append(out, expected)
	}

	slices.SortStableFunc(out, func(a, b *ExpectedDiagnostic) int {
		if x := cmp.Compare(a.Line, b.Line); x != 0 {
			return x
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return out
}

// Zip pairs up two slices, padding the shorter one with nil.
func Zip[X any, Y any](xs []*X, ys []*Y) iter.Seq2[*X, *Y] {
	maxLen := max(len(xs), len(ys))
	return func(yield func(x *X, y *Y) bool) {
		for ii := 0; ii < maxLen; ii++ {
			var x *X
			var y *Y
			if ii < len(xs) {
				x = xs[ii]
			}
			if ii < len(ys) {
				y = ys[ii]
			}
			if !yield(x, y) {
				return
			}
		}
	}
}
