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
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/phoronlang/phoron/internal/codegen"
	"github.com/phoronlang/phoron/internal/cpanalyzer"
	"github.com/phoronlang/phoron/internal/parser"
	"github.com/phoronlang/phoron/internal/sourcefile"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, src string) []byte {
	t.Helper()
	f := sourcefile.New("t.phor", src)
	p := parser.New(f)
	prog, diags, errored := p.Parse("T")
	require.False(t, errored, "%v", diags)
	pool, err := cpanalyzer.Analyze(prog)
	require.NoError(t, err)
	out, err := codegen.Generate(prog, pool)
	require.NoError(t, err)
	return out
}

func TestEmptyClassHeader(t *testing.T) {
	out := generate(t, `
.class public Empty
.super java/lang/Object
`)
	require.GreaterOrEqual(t, len(out), 10)
	require.Equal(t, uint32(0xCAFEBABE), binary.BigEndian.Uint32(out[0:4]))
	require.Equal(t, uint16(0), binary.BigEndian.Uint16(out[4:6]))  // minor
	require.Equal(t, uint16(52), binary.BigEndian.Uint16(out[6:8])) // major

	cpCount := binary.BigEndian.Uint16(out[8:10])
	require.Greater(t, cpCount, uint16(1))
}

func TestHelloWorldEndsWithSourceFileAttribute(t *testing.T) {
	out := generate(t, `
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
	require.NotEmpty(t, out)
	// the file ends with the class attributes: attributes_count (u2) = 1,
	// then the SourceFile attribute's name index (u2), length (u4) = 2, and
	// source file name index (u2) — 10 bytes in all. A structural check that
	// generation produced a well-formed trailing section rather than
	// truncating mid-attribute.
	require.True(t, len(out) > 20)
	tail := out[len(out)-10:]
	require.Equal(t, uint16(1), binary.BigEndian.Uint16(tail[0:2]))
	require.Equal(t, uint32(2), binary.BigEndian.Uint32(tail[4:8]))
}

func TestTableSwitchPadsTo4ByteBoundary(t *testing.T) {
	out := generate(t, `
.class public Foo
.super java/lang/Object
.method public static m (I)V
.limit stack 1
.limit locals 1
iload_0
tableswitch 0 2 A A A default : A
A:
return
.end method
`)
	require.NotEmpty(t, out)
	// iload_0 sits at pc 0 and tableswitch at pc 1, so two zero bytes pad
	// the body to pc 4; the switch is 27 bytes long, placing A at pc 28,
	// i.e. every jump offset is 27 relative to the tableswitch opcode.
	want := []byte{
		0x1a, 0xaa, 0x00, 0x00, // iload_0, tableswitch, 2 padding bytes
		0x00, 0x00, 0x00, 0x1b, // default: +27
		0x00, 0x00, 0x00, 0x00, // low: 0
		0x00, 0x00, 0x00, 0x02, // high: 2
		0x00, 0x00, 0x00, 0x1b,
		0x00, 0x00, 0x00, 0x1b,
		0x00, 0x00, 0x00, 0x1b,
		0xb1, // return
	}
	require.True(t, bytes.Contains(out, want))
}

func TestAbstractMethodHasNoCodeAttribute(t *testing.T) {
	out := generate(t, `
.interface public abstract Greeter
.super java/lang/Object
.method public abstract greet ()V
.end method
`)
	require.NotEmpty(t, out)
	// the only method's attributes_count (u2) sits just before the 10-byte
	// trailing SourceFile class attribute section.
	require.True(t, len(out) > 12)
	require.Equal(t, uint16(0), binary.BigEndian.Uint16(out[len(out)-12:len(out)-10]))
}
