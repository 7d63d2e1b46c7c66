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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/plc4x-sub023/compiler"
	"github.com/apache/plc4x-sub023/internal/testutil"
)

func TestOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format   string
		outPath  string
		multiple bool
		want     string
	}{
		{"", "", false, "text"},
		{"yaml", "", false, "yaml"},
		{"txt", "out.yaml", false, "text"},
		{"", "out.txt", false, "text"},
		{"", "out.yml", false, "yaml"},
		{"", "outdir", true, "text"},
	}
	for _, test := range tests {
		got, err := outputFormat(test.format, test.outPath, test.multiple)
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, test.want, got)
	}

	_, err := outputFormat("json", "", false)
	testutil.ExpectError(t, err)
	_, err = outputFormat("", "out.bin", false)
	testutil.ExpectError(t, err)
}

func TestCodegenOutPath(t *testing.T) {
	t.Parallel()

	cmd := &cmdCodegen{outDir: "out"}
	got, err := cmd.outPath("go/modbus/pdu.go")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, filepath.Join("out", "go", "modbus", "pdu.go"), got)

	for _, bad := range []string{"", "/etc/passwd", "a/../b", "./a", "a//b", "a/", `a\b`} {
		_, err := cmd.outPath(bad)
		if err == nil {
			t.Errorf("outPath(%q): expected error", bad)
		}
	}
}

func TestLocatePlugin(t *testing.T) {
	t.Parallel()

	empty := t.TempDir()
	dir := t.TempDir()
	pluginPath := filepath.Join(dir, "mspec-codegen-go.wasm")
	testutil.AssertNoError(t, writeFile(pluginPath, []byte("\x00asm")))

	cmd := &cmdCodegen{
		pluginPath: strings.Join([]string{empty, dir}, string(filepath.ListSeparator)),
	}
	got, err := cmd.locatePlugin("go")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, pluginPath, got)

	_, err = cmd.locatePlugin("rust")
	testutil.ExpectError(t, err)
}

func TestCompileFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	testutil.AssertNoError(t, os.WriteFile(good, []byte(strings.Join([]string{
		"protocol: test",
		"types:",
		"  - name: Frame",
		"    fields:",
		"      - {property: a, type: uint 8}",
		"",
	}, "\n")), 0o644))
	bad := filepath.Join(dir, "bad.yaml")
	testutil.AssertNoError(t, os.WriteFile(bad, []byte(strings.Join([]string{
		"protocol: test",
		"types:",
		"  - name: Frame",
		"    fields:",
		"      - {property: a, type: Missing}",
		"",
	}, "\n")), 0o644))

	opts := compiler.NewCompileOptions()

	out := compileFile(opts, good, "text")
	testutil.ExpectFalse(t, out.failed)
	testutil.ExpectEq(t, 0, len(out.diagnostics))
	testutil.ExpectEq(t, "protocol \"test\"\ncomplex Frame {\n\tfield property a: uint 8\n}\n", string(out.data))

	out = compileFile(opts, good, "yaml")
	testutil.ExpectFalse(t, out.failed)
	testutil.ExpectMatch(t, `(?m)^protocol: test$`, string(out.data))

	out = compileFile(opts, bad, "text")
	testutil.ExpectTrue(t, out.failed)
	testutil.ExpectSliceEq(t, []string{
		"line 5: Frame.a: E3000: Type 'Missing' not found",
	}, out.diagnostics)

	out = compileFile(opts, filepath.Join(dir, "missing.yaml"), "text")
	testutil.ExpectTrue(t, out.failed)
}

func TestWriteOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cmd := &cmdCompile{outPath: filepath.Join(dir, "modules")}
	testutil.AssertNoError(t, cmd.writeOutput("src/modbus.yaml", "yaml", []byte("x"), true))

	data, err := os.ReadFile(filepath.Join(dir, "modules", "modbus.ir.yaml"))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "x", string(data))
}

func TestCheckOutputNames(t *testing.T) {
	t.Parallel()

	testutil.AssertNoError(t, checkOutputNames([]string{"a/x.yaml", "b/y.yaml"}, "yaml"))
	testutil.AssertNoError(t, checkOutputNames([]string{"a/x.yaml", "a/x.yml"}, "text"))

	err := checkOutputNames([]string{"a/x.yaml", "b/y.yaml", "b/x.yaml"}, "yaml")
	testutil.AssertError(t, err)
	testutil.ExpectTrue(t, strings.Contains(err.Error(), `"x.ir.yaml"`))
}

func TestCompileOutputClash(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := []byte("protocol: test\ntypes:\n  - name: Frame\n    fields:\n      - {property: a, type: uint 8}\n")
	var srcPaths []string
	for _, sub := range []string{"a", "b"} {
		srcPath := filepath.Join(dir, sub, "x.yaml")
		testutil.AssertNoError(t, os.MkdirAll(filepath.Dir(srcPath), 0o755))
		testutil.AssertNoError(t, os.WriteFile(srcPath, src, 0o644))
		srcPaths = append(srcPaths, srcPath)
	}

	outDir := filepath.Join(dir, "out")
	cmd := &cmdCompile{outPath: outDir}
	testutil.ExpectEq(t, 1, cmd.run(context.Background(), srcPaths))

	_, err := os.Stat(outDir)
	testutil.ExpectTrue(t, os.IsNotExist(err))
}
