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

package cpanalyzer_test

import (
	"testing"

	"github.com/phoronlang/phoron/internal/cpanalyzer"
	"github.com/phoronlang/phoron/internal/parser"
	"github.com/phoronlang/phoron/internal/sourcefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *cpanalyzer.Pool {
	t.Helper()
	f := sourcefile.New("t.phor", src)
	p := parser.New(f)
	prog, diags, errored := p.Parse("T")
	require.False(t, errored, "%v", diags)
	pool, err := cpanalyzer.Analyze(prog)
	require.NoError(t, err)
	return pool
}

func findUtf8(t *testing.T, pool *cpanalyzer.Pool, text string) uint16 {
	t.Helper()
	for i := uint16(1); i <= pool.Len(); i++ {
		e, ok := pool.Get(i)
		if ok && e.Kind == cpanalyzer.KindUtf8 && e.Text == text {
			return i
		}
	}
	t.Fatalf("no Utf8 entry %q in pool", text)
	return 0
}

func TestHelloWorldConstantPool(t *testing.T) {
	pool := mustParse(t, `
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

	findUtf8(t, pool, "HelloWorld")
	findUtf8(t, pool, "java/lang/Object")
	findUtf8(t, pool, "java/lang/System")
	findUtf8(t, pool, "java/io/PrintStream")
	findUtf8(t, pool, "out")
	findUtf8(t, pool, "Ljava/io/PrintStream;")
	findUtf8(t, pool, "println")
	findUtf8(t, pool, "(Ljava/lang/String;)V")
	findUtf8(t, pool, "Hello, world")
	findUtf8(t, pool, "Code")
	findUtf8(t, pool, "SourceFile")
	findUtf8(t, pool, "HelloWorld.java")

	// every entry must resolve by 1-based index with no gaps other than
	// the two-slot Long/Double accounting; this program has no Long or
	// Double, so every index up to Len resolves.
	var count int
	for i := uint16(1); i <= pool.Len(); i++ {
		if _, ok := pool.Get(i); ok {
			count++
		}
	}
	assert.True(t, count > 0)
	assert.Equal(t, int(pool.Len()), count)
}

func TestDuplicateSymbolsInternOnce(t *testing.T) {
	pool := mustParse(t, `
.class public Foo
.super java/lang/Object
.method public static m ()V
.limit stack 2
.limit locals 0
getstatic java/lang/System/out Ljava/io/PrintStream;
getstatic java/lang/System/out Ljava/io/PrintStream;
return
.end method
`)
	before := pool.Len()
	// re-run analysis on the same program is not meaningful since Pool is
	// build-once; instead confirm the two identical getstatic operands
	// collapsed to a single Fieldref/Class/NameAndType/Utf8 family by
	// checking the Utf8 "out" appears in exactly one entry.
	var seen int
	for i := uint16(1); i <= pool.Len(); i++ {
		e, ok := pool.Get(i)
		if ok && e.Kind == cpanalyzer.KindUtf8 && e.Text == "out" {
			seen++
		}
	}
	assert.Equal(t, 1, seen)
	assert.Equal(t, before, pool.Len())
}

func TestLongAndDoubleConsumeTwoSlots(t *testing.T) {
	pool := mustParse(t, `
.class public Foo
.super java/lang/Object
.field public static final BIG J = 9223372036854775807
.method public static m ()V
.limit stack 4
.limit locals 0
ldc2_w 3.5
return
.end method
`)
	var longOrDoubleIdx []uint16
	for i := uint16(1); i <= pool.Len(); i++ {
		e, ok := pool.Get(i)
		if ok && (e.Kind == cpanalyzer.KindLong || e.Kind == cpanalyzer.KindDouble) {
			longOrDoubleIdx = append(longOrDoubleIdx, i)
		}
	}
	require.Len(t, longOrDoubleIdx, 1)
	// the double at index N occupies N and N+1; no distinct entry may
	// claim N+1, so the next resolvable entry starts at N+2 at the earliest.
	_, claimed := pool.Get(longOrDoubleIdx[0] + 1)
	assert.False(t, claimed)
}

func TestInterfacesInternAsClassEntries(t *testing.T) {
	pool := mustParse(t, `
.class public Foo
.super java/lang/Object
.implements java/lang/Runnable
`)
	idx := findUtf8(t, pool, "java/lang/Runnable")
	var found bool
	for i := uint16(1); i <= pool.Len(); i++ {
		e, ok := pool.Get(i)
		if ok && e.Kind == cpanalyzer.KindClass && e.NameIndex == idx {
			found = true
		}
	}
	assert.True(t, found)
}
