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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	wasm "github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/apache/plc4x-sub023/compiler"
	"github.com/apache/plc4x-sub023/encoding/mspecyaml"
	"github.com/apache/plc4x-sub023/types"
)

type cmdCodegen struct {
	outDir      string
	pluginPath  string
	memoryPages uint32
}

func (*cmdCodegen) help() *commandHelp {
	return &commandHelp{
		usage:   "codegen [options] MODULE.yaml LANGUAGE",
		summary: "Generate code for a protocol module with a WebAssembly plugin",
	}
}

func (cmd *cmdCodegen) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outDir, "output", "o", "", "directory to write generated files into")
	flags.StringVar(&cmd.pluginPath, "plugin-path", "", "colon-separated directories to search for plugins")
	flags.Uint32Var(&cmd.memoryPages, "memory-limit-pages", 16384, "plugin memory limit in 64 KiB pages")
}

type codegenRequest struct {
	Language string              `yaml:"language"`
	Module   *mspecyaml.ModuleIR `yaml:"module"`
}

type codegenResponse struct {
	Error string        `yaml:"error,omitempty"`
	Files []*outputFile `yaml:"files"`
}

type outputFile struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

func (cmd *cmdCodegen) run(ctx context.Context, argv []string) int {
	if len(argv) != 2 {
		fmt.Fprintln(os.Stderr, "usage: mspec codegen [options] MODULE.yaml LANGUAGE")
		return 1
	}
	if cmd.outDir == "" {
		fmt.Fprintln(os.Stderr, "No output directory specified (set --output=)")
		return 1
	}
	modulePath, language := argv[0], argv[1]

	doc, err := readDocument(modulePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	result := compiler.Compile(doc)
	for _, diag := range formatDiagnostics(&result) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", modulePath, diag)
	}
	if len(result.Errors) > 0 {
		return 1
	}

	requestBuf, err := yaml.Marshal(&codegenRequest{
		Language: language,
		Module:   mspecyaml.NewModuleIR(result.Protocol(), result.Module()),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	pluginPath, err := cmd.locatePlugin(language)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	pluginBin, err := os.ReadFile(pluginPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	responseBuf, err := cmd.runPlugin(ctx, pluginBin, requestBuf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	var response codegenResponse
	if err := yaml.Unmarshal(responseBuf, &response); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode plugin response: %v\n", err)
		return 1
	}
	if response.Error != "" {
		fmt.Fprintln(os.Stderr, strings.TrimRight(response.Error, "\n"))
		return 1
	}
	if len(response.Files) == 0 {
		fmt.Fprintln(os.Stderr, "Plugin did not generate any output files")
		return 1
	}

	if err := os.MkdirAll(cmd.outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, file := range response.Files {
		outPath, err := cmd.outPath(file.Path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := writeFile(outPath, []byte(file.Content)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		types.Logger().Debug("wrote generated file", zap.String("path", outPath))
	}
	return 0
}

// runPlugin passes the request to the plugin's generate function through
// guest memory and returns the response it leaves there.
//
// The plugin exports:
//
//	mspec_codegen_allocate(size i32) -> ptr i32
//	mspec_codegen_generate(request_ptr i32, request_len i32, response_ptr_ptr i32) -> rc i32
//
// The response is a little-endian u32 length followed by that many bytes of
// YAML. A non-zero rc means the response carries an error message.
func (cmd *cmdCodegen) runPlugin(ctx context.Context, pluginBin, requestBuf []byte) ([]byte, error) {
	runtimeConfig := wasm.NewRuntimeConfigInterpreter()
	runtimeConfig = runtimeConfig.WithMemoryLimitPages(cmd.memoryPages)
	runtime := wasm.NewRuntimeWithConfig(ctx, runtimeConfig)
	defer runtime.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		return nil, err
	}
	pluginExe, err := runtime.CompileModule(ctx, pluginBin)
	if err != nil {
		return nil, err
	}
	moduleConfig := wasm.NewModuleConfig().
		WithStderr(os.Stderr).
		WithStartFunctions("_initialize")
	plugin, err := runtime.InstantiateModule(ctx, pluginExe, moduleConfig)
	if err != nil {
		return nil, err
	}
	mem := plugin.Memory()
	if mem == nil {
		return nil, errors.New("Plugin does not export its memory")
	}

	wasmAlloc := plugin.ExportedFunction("mspec_codegen_allocate")
	wasmGenerate := plugin.ExportedFunction("mspec_codegen_generate")
	if wasmAlloc == nil || wasmGenerate == nil {
		return nil, errors.New("Plugin does not export mspec_codegen_allocate and mspec_codegen_generate")
	}

	results, err := wasmAlloc.Call(ctx, uint64(len(requestBuf)))
	if err != nil {
		return nil, err
	}
	requestPtr := uint32(results[0])
	if !mem.Write(requestPtr, requestBuf) {
		return nil, errors.New("Failed to write request message")
	}

	results, err = wasmAlloc.Call(ctx, 4)
	if err != nil {
		return nil, err
	}
	responsePtrPtr := uint32(results[0])

	results, err = wasmGenerate.Call(ctx,
		uint64(requestPtr), uint64(len(requestBuf)), uint64(responsePtrPtr))
	if err != nil {
		return nil, err
	}
	rc := uint32(results[0])
	types.Logger().Debug("plugin returned", zap.Uint32("rc", rc))

	responsePtr, ok := mem.ReadUint32Le(responsePtrPtr)
	if !ok {
		return nil, errors.New("Failed to read response message pointer")
	}
	responseLen, ok := mem.ReadUint32Le(responsePtr)
	if !ok {
		return nil, errors.New("Failed to read response message length")
	}
	responseBuf, ok := mem.Read(responsePtr+4, responseLen)
	if !ok {
		return nil, errors.New("Failed to read response message")
	}
	responseBuf = append([]byte(nil), responseBuf...)
	if rc != 0 {
		var response codegenResponse
		if err := yaml.Unmarshal(responseBuf, &response); err != nil || response.Error == "" {
			return nil, fmt.Errorf("Plugin failed with code %d", rc)
		}
	}
	return responseBuf, nil
}

func (cmd *cmdCodegen) locatePlugin(language string) (string, error) {
	path := cmd.pluginPath
	if path == "" {
		path = os.Getenv("MSPEC_CODEGEN_PLUGIN_PATH")
	}
	if path == "" {
		return "", fmt.Errorf("No plugin path set, use --plugin-path= or $MSPEC_CODEGEN_PLUGIN_PATH")
	}
	basename := fmt.Sprintf("mspec-codegen-%s.wasm", language)
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			continue
		}
		pluginPath := filepath.Join(dir, basename)
		if _, err := os.Stat(pluginPath); err == nil {
			return pluginPath, nil
		}
	}
	return "", fmt.Errorf("Codegen plugin %s not found in plugin path", basename)
}

// outPath maps a slash-separated path from the plugin response to a file
// under the output directory.
func (cmd *cmdCodegen) outPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("Invalid output path %q: empty", path)
	}
	if strings.HasPrefix(path, "/") || filepath.IsAbs(path) {
		return "", fmt.Errorf("Invalid output path %q: absolute path", path)
	}
	parts := strings.Split(path, "/")
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("Invalid output path %q: bad path component %q", path, part)
		}
		if strings.ContainsRune(part, '\\') || filepath.IsAbs(part) {
			return "", fmt.Errorf("Invalid output path %q: bad path component %q", path, part)
		}
	}
	return filepath.Join(append([]string{cmd.outDir}, parts...)...), nil
}
