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

package codegen_test

import (
	"strings"
	"testing"

	"github.com/phoronlang/phoron/internal/codegen"
	"github.com/phoronlang/phoron/internal/cpanalyzer"
	"github.com/phoronlang/phoron/internal/parser"
	"github.com/phoronlang/phoron/internal/sourcefile"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"
)

// assertDisassemblyMatches renders a readable unified diff on mismatch
// instead of dumping both multi-line strings verbatim, which is the only
// part of this repo's test suite comparing multi-line golden text.
func assertDisassemblyMatches(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	require.NoError(t, err)
	t.Fatalf("disassembly mismatch:\n%s", diff)
}

func TestDisassembleHelloWorld(t *testing.T) {
	f := sourcefile.New("t.phor", `
.class public HelloWorld
.super java/lang/Object

.method public static main ([Ljava/lang/String;)V
.limit stack 2
.limit locals 1
getstatic java/lang/System/out Ljava/io/PrintStream;
ldc "Hello, world"
invokevirtual java/io/PrintStream/println (Ljava/lang/String;)V
return
.end method
`)
	p := parser.New(f)
	prog, diags, errored := p.Parse("HelloWorld")
	require.False(t, errored, "%v", diags)
	_, err := cpanalyzer.Analyze(prog)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, codegen.Disassemble(prog, &buf))

	want := `method main ([Ljava/lang/String;)V
  .limit stack 2
  .limit locals 1
     0: getstatic java/lang/System/out Ljava/io/PrintStream;
     3: ldc "Hello, world"
     5: invokevirtual java/io/PrintStream/println (Ljava/lang/String;)V
     8: return
`
	assertDisassemblyMatches(t, want, buf.String())
}
