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

// Package phoron assembles textual JVM assembly into a binary .class file.
// Assemble ties the pipeline's three stages together: lex+parse, analyze the
// constant pool, generate bytecode.
package phoron

import (
	"context"
	"io"

	"github.com/phoronlang/phoron/internal/ast"
	"github.com/phoronlang/phoron/internal/codegen"
	"github.com/phoronlang/phoron/internal/cpanalyzer"
	"github.com/phoronlang/phoron/internal/diagnostic"
	"github.com/phoronlang/phoron/internal/parser"
	"github.com/phoronlang/phoron/internal/sourcefile"
	"github.com/pkg/errors"
)

// Result is the product of a successful Assemble call: the fully resolved
// AST (useful for Disassemble) alongside the serialized class bytes.
type Result struct {
	Program    *ast.Program
	ClassBytes []byte
}

// Assemble reads Phoron assembly source named name from r and produces a
// Result. ctx is checked between pipeline stages (lex+parse, analyze,
// codegen); a cancelled context stops the pipeline at the next stage
// boundary rather than mid-stage, since none of these stages is naturally
// interruptible mid-pass.
//
// className is the class's own name as it will be looked up in .class form
// (e.g. "HelloWorld" for HelloWorld.class); it seeds the parser's default
// SourceFile resolution when no .source directive is present.
func Assemble(ctx context.Context, name, className string, r io.Reader) (*Result, diagnostic.Diagnostics, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading source")
	}

	file := sourcefile.New(name, string(src))
	p := parser.New(file)
	prog, diags, errored := p.Parse(className)
	if errored {
		return nil, diags, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, diags, err
	}

	pool, err := cpanalyzer.Analyze(prog)
	if err != nil {
		return nil, diags, errors.Wrap(err, "constant pool analysis")
	}

	if err := ctx.Err(); err != nil {
		return nil, diags, err
	}

	classBytes, err := codegen.Generate(prog, pool)
	if err != nil {
		return nil, diags, errors.Wrap(err, "code generation")
	}

	return &Result{Program: prog, ClassBytes: classBytes}, diags, nil
}
