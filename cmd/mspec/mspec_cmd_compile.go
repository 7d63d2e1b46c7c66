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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/apache/plc4x-sub023/compiler"
	"github.com/apache/plc4x-sub023/encoding/mspecyaml"
	"github.com/apache/plc4x-sub023/encoding/mspectext"
	"github.com/apache/plc4x-sub023/types"
)

type cmdCompile struct {
	outPath      string
	format       string
	littleEndian bool
	maxDepth     int
}

func (*cmdCompile) help() *commandHelp {
	return &commandHelp{
		usage:   "compile [options] MODULE.yaml...",
		summary: "Compile protocol modules and print the linked result",
	}
}

func (cmd *cmdCompile) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outPath, "output", "o", "", "output file, or directory when compiling several modules")
	flags.StringVarP(&cmd.format, "format", "f", "", "output format (text or yaml)")
	flags.BoolVar(&cmd.littleEndian, "little-endian", false, "default byte order of types that do not declare one")
	flags.IntVar(&cmd.maxDepth, "max-depth", 0, "maximum expression nesting depth")
}

type compileOutput struct {
	data        []byte
	diagnostics []string
	failed      bool
}

func (cmd *cmdCompile) run(ctx context.Context, argv []string) int {
	if len(argv) < 1 {
		fmt.Fprintln(os.Stderr, "usage: mspec compile [options] MODULE.yaml...")
		return 1
	}

	format, err := outputFormat(cmd.format, cmd.outPath, len(argv) > 1)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if cmd.outPath != "" && len(argv) > 1 {
		if err := checkOutputNames(argv, format); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	opts := []compiler.CompileOption{
		compiler.WithLittleEndianDefault(cmd.littleEndian),
	}
	if cmd.maxDepth > 0 {
		opts = append(opts, compiler.WithExpressionMaxDepth(cmd.maxDepth))
	}
	compileOpts := compiler.NewCompileOptions(opts...)

	// Linked modules are immutable, so inputs are compiled concurrently and
	// reported in argument order.
	outputs := make([]compileOutput, len(argv))
	var wg sync.WaitGroup
	for ii, srcPath := range argv {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outputs[ii] = compileFile(compileOpts, srcPath, format)
		}()
	}
	wg.Wait()

	rc := 0
	for ii, out := range outputs {
		for _, diag := range out.diagnostics {
			fmt.Fprintf(os.Stderr, "%s: %s\n", argv[ii], diag)
		}
		if out.failed {
			rc = 1
			continue
		}
		if err := cmd.writeOutput(argv[ii], format, out.data, len(argv) > 1); err != nil {
			fmt.Fprintln(os.Stderr, err)
			rc = 1
		}
	}
	return rc
}

func compileFile(opts *compiler.CompileOptions, srcPath string, format string) compileOutput {
	var out compileOutput
	doc, err := readDocument(srcPath)
	if err != nil {
		out.diagnostics = append(out.diagnostics, err.Error())
		out.failed = true
		return out
	}

	result := opts.Compile(doc)
	out.diagnostics = formatDiagnostics(&result)
	if len(result.Errors) > 0 {
		out.failed = true
		return out
	}

	switch format {
	case "text":
		out.data = []byte(mspectext.Encode(result.Protocol(), result.Module()))
	case "yaml":
		out.data, err = result.EncodedModule()
		if err != nil {
			out.diagnostics = append(out.diagnostics, err.Error())
			out.failed = true
			return out
		}
	default:
		panic("unreachable")
	}
	types.Logger().Debug("compiled module file",
		zap.String("path", srcPath),
		zap.Int("types", len(result.Module().Types())))
	return out
}

func (cmd *cmdCompile) writeOutput(srcPath, format string, data []byte, multiple bool) error {
	if cmd.outPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if !multiple {
		return writeFile(cmd.outPath, data)
	}
	if err := os.MkdirAll(cmd.outPath, 0o755); err != nil {
		return err
	}
	return writeFile(filepath.Join(cmd.outPath, outputName(srcPath, format)), data)
}

// outputName is the file name of a module's output within the output
// directory.
func outputName(srcPath, format string) string {
	ext := ".txt"
	if format == "yaml" {
		ext = ".ir.yaml"
	}
	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	return stem + ext
}

// checkOutputNames reports inputs that would be written to the same file
// of the output directory.
func checkOutputNames(srcPaths []string, format string) error {
	seen := make(map[string]string, len(srcPaths))
	for _, srcPath := range srcPaths {
		name := outputName(srcPath, format)
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("Inputs %q and %q would both be written to %q", prev, srcPath, name)
		}
		seen[name] = srcPath
	}
	return nil
}

// outputFormat picks the output format from the flag or, failing that, the
// extension of the output path. Standard output defaults to text.
func outputFormat(format, outPath string, multiple bool) (string, error) {
	switch format {
	case "text", "txt":
		return "text", nil
	case "yaml", "yml":
		return "yaml", nil
	case "":
	default:
		return "", fmt.Errorf("Unsupported output format %q (choose 'text' or 'yaml')", format)
	}
	if outPath == "" || multiple {
		return "text", nil
	}
	switch filepath.Ext(outPath) {
	case ".txt":
		return "text", nil
	case ".yaml", ".yml":
		return "yaml", nil
	}
	return "", fmt.Errorf("Cannot guess the output format of %q (set --format=text or --format=yaml)", outPath)
}

func readDocument(path string) (*mspecyaml.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return mspecyaml.DecodeFrom(f)
}
