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


// Command mspec compiles protocol modules and runs code generator plugins.
package main

import (
	"context"
	stdflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/apache/plc4x-sub023/compiler"
	"github.com/apache/plc4x-sub023/types"
)

type command interface {
	help() *commandHelp
	flags(flags *pflag.FlagSet)
	run(ctx context.Context, argv []string) int
}

type commandHelp struct {
	usage   string
	summary string
}

func main() {
	ctx := context.Background()

	var verbose bool
	mspecCmd := &cobra.Command{
		Use: "mspec [options] COMMAND",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(*cobra.Command, []string) error {
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			types.SetLogger(logger)
			compiler.SetLogger(logger)
			return nil
		},
	}
	mspecCmd.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(os.Stderr, mspecCmd.UsageString())
		os.Exit(1)
		return nil
	}
	mspecCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	commands := []command{
		&cmdCompile{},
		&cmdExpr{},
		&cmdCodegen{},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
			RunE: func(_ *cobra.Command, args []string) error {
				rc := cmd.run(ctx, args)
				_ = types.Logger().Sync()
				os.Exit(rc)
				return nil
			},
		}
		mspecCmd.AddCommand(cobraCmd)
		cmd.flags(cobraCmd.Flags())
	}

	mspecCmd.Flags().AddGoFlagSet(stdflag.CommandLine)
	mspecCmd.ParseFlags(nil)
	if _, err := mspecCmd.ExecuteC(); err != nil {
		os.Exit(1)
	}
}

// newLogger returns a development logger when verbose is set, otherwise a
// production logger that only reports warnings and errors.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return config.Build()
}
