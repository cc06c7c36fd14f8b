// This file is part of phoron - https://github.com/phoronlang/phoron
//
// Copyright 2026 The Phoron Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command phoron is a thin entry point delegating immediately into the
// phoron library: parse args, assemble, write the .class file, exit
// non-zero on diagnostics. All real work lives in the phoron package and
// its internal pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/phoronlang/phoron"
	"github.com/phoronlang/phoron/internal/codegen"
	"github.com/phoronlang/phoron/internal/diagnostic"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	outDir   string
	noColor  bool
	dumpCode bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "phoron",
		Short:         "Assemble textual JVM assembly into .class files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(assembleCmd())
	return root
}

func assembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assemble <input.phor>",
		Short: "Assemble one source file into a .class file",
		Args:  cobra.ExactArgs(1),
		RunE:  runAssemble,
	}
	cmd.Flags().StringVar(&outDir, "out", ".", "directory to write the .class file into")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colorized diagnostics")
	cmd.Flags().BoolVar(&dumpCode, "dump", false, "print a disassembly of the generated bytecode to stderr")
	return cmd
}

func runAssemble(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	f, err := os.Open(inputPath)
	if err != nil {
		return errors.Wrap(err, "opening input")
	}
	defer f.Close()

	className := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	useColor := !noColor && isatty.IsTerminal(os.Stderr.Fd())
	emitter := diagnostic.NewEmitter(os.Stderr, useColor)

	result, diags, err := phoron.Assemble(context.Background(), inputPath, className, f)
	if err != nil {
		return err
	}
	if len(diags) > 0 {
		emitter.EmitAll(diags)
	}
	if result == nil {
		return errors.New("assembly failed")
	}

	if dumpCode {
		if err := codegen.Disassemble(result.Program, os.Stderr); err != nil {
			return errors.Wrap(err, "disassembling")
		}
	}

	outPath := filepath.Join(outDir, result.Program.Header.ClassName+".class")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	if err := os.WriteFile(outPath, result.ClassBytes, 0o644); err != nil {
		return errors.Wrap(err, "writing class file")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	return nil
}
