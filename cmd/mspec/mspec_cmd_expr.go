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

	"github.com/spf13/pflag"

	"github.com/apache/plc4x-sub023/expression"
	"github.com/apache/plc4x-sub023/term"
)

type cmdExpr struct {
	tree     bool
	kind     string
	maxDepth int
}

func (*cmdExpr) help() *commandHelp {
	return &commandHelp{
		usage:   "expr [options] EXPRESSION...",
		summary: "Parse expressions and print the resulting terms",
	}
}

func (cmd *cmdExpr) flags(flags *pflag.FlagSet) {
	flags.BoolVar(&cmd.tree, "tree", false, "print the term tree as an S-expression")
	flags.StringVar(&cmd.kind, "kind", "expression", "what to parse (expression, variable or literal)")
	flags.IntVar(&cmd.maxDepth, "max-depth", 0, "maximum expression nesting depth")
}

func (cmd *cmdExpr) run(ctx context.Context, argv []string) int {
	if len(argv) < 1 {
		fmt.Fprintln(os.Stderr, "usage: mspec expr [options] EXPRESSION...")
		return 1
	}

	var parseOpts []expression.ParseOption
	if cmd.maxDepth > 0 {
		parseOpts = append(parseOpts, expression.WithMaxDepth(cmd.maxDepth))
	}
	opts := expression.NewParseOptions(parseOpts...)

	var parse func(string) (term.Term, error)
	switch cmd.kind {
	case "expression":
		parse = opts.Parse
	case "variable":
		parse = func(src string) (term.Term, error) {
			v, err := opts.ParseVariable(src)
			if err != nil {
				return nil, err
			}
			return v, nil
		}
	case "literal":
		parse = opts.ParseLiteral
	default:
		fmt.Fprintf(os.Stderr, "Unsupported kind %q (choose expression, variable or literal)\n", cmd.kind)
		return 1
	}

	rc := 0
	for _, src := range argv {
		t, err := parse(src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%q: %v\n", src, err)
			rc = 1
			continue
		}
		if cmd.tree {
			fmt.Println(term.Sexpr(t))
		} else {
			fmt.Println(t.String())
		}
	}
	return rc
}
