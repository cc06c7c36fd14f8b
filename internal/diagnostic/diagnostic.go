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

// Package diagnostic carries and renders (file, line, column, source-line,
// message) tuples for every stage of the pipeline (lexical, syntactic,
// semantic, codegen). Rendering mirrors the gutter-and-caret layout of
// original_source/src/diagnostics/emitter.rs, reimplemented on top of
// github.com/fatih/color instead of raw ANSI escapes.
package diagnostic

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/phoronlang/phoron/internal/sourcefile"
)

// Stage identifies which pipeline phase produced a Diagnostic.
type Stage int

const (
	StageLexer Stage = iota
	StageParser
	StageAnalyzer
	StageCodegen
)

func (s Stage) String() string {
	switch s {
	case StageLexer:
		return "lexer"
	case StageParser:
		return "parser"
	case StageAnalyzer:
		return "constant pool analyzer"
	case StageCodegen:
		return "code generator"
	default:
		return "unknown"
	}
}

// Level is the severity of a Diagnostic. Every stage in this assembler only
// ever emits errors; Warning exists for forward compatibility (e.g. an
// implementation that later warns on unreachable code) and is not currently
// produced anywhere.
type Level int

const (
	LevelError Level = iota
	LevelWarning
)

// Diagnostic is one reportable problem, always carrying enough information
// to render a caret under the offending column.
type Diagnostic struct {
	Stage    Stage
	Level    Level
	Location sourcefile.Location
	Message  string
}

func (d Diagnostic) String() string {
	level := "error"
	if d.Level == LevelWarning {
		level = "warning"
	}
	return fmt.Sprintf("%s: %s\n ---> %s:%d:%d", level, d.Message, d.Location.Filename, d.Location.Line, d.Location.Col)
}

// Diagnostics accumulates across the lexer and parser phases: these two
// stages continue past an error and may report many. It satisfies error so
// a driver can return it directly when non-empty.
type Diagnostics []Diagnostic

func (d Diagnostics) Error() string {
	lines := make([]string, len(d))
	for i, diag := range d {
		lines[i] = diag.String()
	}
	return strings.Join(lines, "\n")
}

// HasErrors reports whether any Diagnostic at LevelError is present.
func (d Diagnostics) HasErrors() bool {
	for _, diag := range d {
		if diag.Level == LevelError {
			return true
		}
	}
	return false
}

// Emitter renders Diagnostics to an io.Writer, colorizing when Color is
// true. A CLI driver sets Color based on isatty(stderr) and a --no-color
// flag (see cmd/phoron).
type Emitter struct {
	W     io.Writer
	Color bool
}

// NewEmitter returns an Emitter writing to w.
func NewEmitter(w io.Writer, useColor bool) *Emitter {
	return &Emitter{W: w, Color: useColor}
}

// Emit renders one Diagnostic: a colored "error: message" line, a
// "---> file:line:col" line, a gutter bar, the source line, and a caret
// under the offending column.
func (e *Emitter) Emit(d Diagnostic) {
	red := color.New(color.FgRed, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)
	red.EnableColor()
	blue.EnableColor()
	if !e.Color {
		red.DisableColor()
		blue.DisableColor()
	}

	level := "error"
	if d.Level == LevelWarning {
		level = "warning"
	}
	red.Fprintf(e.W, "%s", level)
	fmt.Fprintf(e.W, ": %s [%s]\n", d.Message, d.Stage)
	blue.Fprintf(e.W, " ---> ")
	fmt.Fprintf(e.W, "%s:%d:%d\n", d.Location.Filename, d.Location.Line, d.Location.Col)

	gutter := fmt.Sprintf("%d", d.Location.Line)
	pad := strings.Repeat(" ", len(gutter))
	blue.Fprintf(e.W, "%s |\n", pad)
	blue.Fprintf(e.W, "%s | ", gutter)
	fmt.Fprintf(e.W, "%s\n", d.Location.SourceLine)
	blue.Fprintf(e.W, "%s | ", pad)
	col := d.Location.Col
	if col < 1 {
		col = 1
	}
	red.Fprintf(e.W, "%s^\n", strings.Repeat(" ", col-1))
}

// EmitAll renders every Diagnostic in order.
func (e *Emitter) EmitAll(ds Diagnostics) {
	for _, d := range ds {
		e.Emit(d)
	}
}
