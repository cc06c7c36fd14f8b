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

package sourcefile_test

import (
	"testing"

	"github.com/phoronlang/phoron/internal/sourcefile"
	"github.com/stretchr/testify/assert"
)

func TestLocation(t *testing.T) {
	src := ".class public Foo\n.super java/lang/Object\n\n.method public <init> : ()V\n.end method\n"
	f := sourcefile.New("Foo.phor", src)

	cases := []struct {
		pos      sourcefile.Pos
		line     int
		col      int
		wantLine string
	}{
		{0, 1, 1, ".class public Foo"},
		{18, 2, 1, ".super java/lang/Object"},
		{sourcefile.Pos(len(src) - 1), 5, 12, ".end method"},
	}

	for _, c := range cases {
		loc := f.Location(c.pos)
		assert.Equal(t, c.line, loc.Line)
		assert.Equal(t, c.col, loc.Col)
		assert.Equal(t, c.wantLine, loc.SourceLine)
		assert.Equal(t, "Foo.phor", loc.Filename)
	}
}

func TestLocationClampsPastEnd(t *testing.T) {
	f := sourcefile.New("x.phor", "nop\n")
	loc := f.Location(sourcefile.Pos(1000))
	assert.Equal(t, 2, loc.Line)
}
