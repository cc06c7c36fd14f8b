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

// Package sourcefile tracks the mapping between byte offsets in an assembly
// source and their (line, column) position, so that every later phase can
// attach a human-readable location to a diagnostic without re-scanning the
// source text.
package sourcefile

import (
	"sort"
	"strings"
)

// Pos is a byte offset into a File's content. The zero Pos is the first
// byte of the content.
type Pos int

// Span is a half-open byte range [Start, End) into a File's content.
type Span struct {
	Start, End Pos
}

// Location is the human-facing resolution of a Pos: a 1-based line and
// column plus the file name and the full text of that line, ready to be
// rendered by a diagnostic emitter.
type Location struct {
	Filename   string
	Line, Col  int
	SourceLine string
}

// File holds the source text for one assembly unit and the offsets at which
// each line begins, so that Location can be computed by binary search
// instead of a linear rescan.
type File struct {
	Name      string
	Content   string
	lineStart []Pos
}

// New builds a File from its name and full content, precomputing the start
// offset of every line.
func New(name, content string) *File {
	f := &File{Name: name, Content: content, lineStart: []Pos{0}}
	for i, r := range content {
		if r == '\n' {
			f.lineStart = append(f.lineStart, Pos(i+1))
		}
	}
	return f
}

// Location resolves a byte offset to a line/column and the source line it
// falls on. Offsets past the end of the content resolve to the last line.
func (f *File) Location(p Pos) Location {
	line := sort.Search(len(f.lineStart), func(i int) bool {
		return f.lineStart[i] > p
	}) - 1
	if line < 0 {
		line = 0
	}
	lineStart := f.lineStart[line]
	col := int(p-lineStart) + 1
	return Location{
		Filename:   f.Name,
		Line:       line + 1,
		Col:        col,
		SourceLine: f.sourceLine(line),
	}
}

func (f *File) sourceLine(line int) string {
	start := f.lineStart[line]
	end := Pos(len(f.Content))
	if line+1 < len(f.lineStart) {
		end = f.lineStart[line+1] - 1
	}
	if int(start) > len(f.Content) {
		return ""
	}
	if int(end) > len(f.Content) {
		end = Pos(len(f.Content))
	}
	return strings.TrimRight(f.Content[start:end], "\r\n")
}
