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

package parser_test

import (
	"testing"

	"github.com/phoronlang/phoron/internal/ast"
	"github.com/phoronlang/phoron/internal/parser"
	"github.com/phoronlang/phoron/internal/sourcefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*ast.Program, bool) {
	t.Helper()
	f := sourcefile.New("t.phor", src)
	p := parser.New(f)
	prog, diags, errored := p.Parse("T")
	if errored {
		t.Logf("diagnostics: %v", diags)
	}
	return prog, errored
}

func TestEmptyClass(t *testing.T) {
	prog, errored := parse(t, `
.class public Empty
.super java/lang/Object
`)
	require.False(t, errored)
	assert.False(t, prog.Header.IsInterface)
	assert.Equal(t, "Empty", prog.Header.ClassName)
	assert.Equal(t, "java/lang/Object", prog.Header.SuperClass)
	assert.Contains(t, prog.Header.AccessFlags, ast.Public)
	assert.Contains(t, prog.Header.AccessFlags, ast.Super)
	assert.Empty(t, prog.Body.Fields)
	assert.Empty(t, prog.Body.Methods)
	assert.Equal(t, "Empty.java", prog.SourceFile)
}

func TestInterfaceGetsImplicitAbstract(t *testing.T) {
	prog, errored := parse(t, `
.interface public Greeter
.super java/lang/Object
`)
	require.False(t, errored)
	assert.True(t, prog.Header.IsInterface)
	assert.Contains(t, prog.Header.AccessFlags, ast.Abstract)
}

func TestImplements(t *testing.T) {
	prog, errored := parse(t, `
.class public Foo
.super java/lang/Object
.implements java/lang/Runnable
.implements java/io/Serializable
`)
	require.False(t, errored)
	assert.Equal(t, []string{"java/lang/Runnable", "java/io/Serializable"}, prog.Header.Implements)
}

func TestFieldWithInitValue(t *testing.T) {
	prog, errored := parse(t, `
.class public Foo
.super java/lang/Object
.field public static final MAX I = 100
`)
	require.False(t, errored)
	require.Len(t, prog.Body.Fields, 1)
	f := prog.Body.Fields[0]
	assert.Equal(t, "MAX", f.Name)
	assert.True(t, f.Init.IsInt)
	assert.EqualValues(t, 100, f.Init.Int)
}

func TestHelloWorldMethod(t *testing.T) {
	prog, errored := parse(t, `
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
	require.False(t, errored)
	require.Len(t, prog.Body.Methods, 1)
	m := prog.Body.Methods[0]
	assert.Equal(t, "main", m.Name)
	require.Len(t, m.Descriptor.Params, 1)
	assert.True(t, m.Descriptor.Return.Void)

	var gotGetstatic, gotLdc, gotInvoke, gotReturn bool
	for _, item := range m.Items {
		switch ins := item.(type) {
		case ast.FieldRef:
			assert.Equal(t, "java/lang/System", ins.ClassName)
			assert.Equal(t, "out", ins.Name)
			gotGetstatic = true
		case ast.Ldc:
			assert.True(t, ins.Value.IsString)
			assert.Equal(t, "Hello, world", ins.Value.String)
			gotLdc = true
		case ast.MethodRef:
			assert.Equal(t, "java/io/PrintStream", ins.ClassName)
			assert.Equal(t, "println", ins.Name)
			gotInvoke = true
		case ast.Simple:
			if ins.Mnemonic == "return" {
				gotReturn = true
			}
		}
	}
	assert.True(t, gotGetstatic)
	assert.True(t, gotLdc)
	assert.True(t, gotInvoke)
	assert.True(t, gotReturn)
}

func TestLookupSwitchSortsByKey(t *testing.T) {
	prog, errored := parse(t, `
.class public Foo
.super java/lang/Object
.method public static m (I)V
.limit stack 1
.limit locals 1
lookupswitch 100 : A 1 : B 10 : C default : D
A:
return
B:
return
C:
return
D:
return
.end method
`)
	require.False(t, errored)
	require.Len(t, prog.Body.Methods, 1)
	var ls ast.LookupSwitch
	found := false
	for _, item := range prog.Body.Methods[0].Items {
		if l, ok := item.(ast.LookupSwitch); ok {
			ls = l
			found = true
		}
	}
	require.True(t, found)
	require.Len(t, ls.Pairs, 3)
	assert.Equal(t, int32(1), ls.Pairs[0].Key)
	assert.Equal(t, "B", ls.Pairs[0].Target)
	assert.Equal(t, int32(10), ls.Pairs[1].Key)
	assert.Equal(t, int32(100), ls.Pairs[2].Key)
	assert.Equal(t, "D", ls.Default)
}

func TestBranchToForwardLabel(t *testing.T) {
	prog, errored := parse(t, `
.class public Foo
.super java/lang/Object
.method public static m ()V
.limit stack 1
.limit locals 1
goto Done
Done:
return
.end method
`)
	require.False(t, errored)
	items := prog.Body.Methods[0].Items
	// items 0 and 1 are the two .limit directives
	br, ok := items[2].(ast.Branch)
	require.True(t, ok)
	assert.Equal(t, "goto", br.Mnemonic)
	assert.Equal(t, "Done", br.Target)
	label, ok := items[3].(ast.Label)
	require.True(t, ok)
	assert.Equal(t, "Done", label.Name)
}

func TestMisspelledOpcodeSuggestsCorrection(t *testing.T) {
	f := sourcefile.New("t.phor", `
.class public Foo
.super java/lang/Object
.method public static m ()V
.limit stack 1
.limit locals 1
ldcc 1
return
.end method
`)
	p := parser.New(f)
	_, diags, errored := p.Parse("Foo")
	require.True(t, errored)
	found := false
	for _, d := range diags {
		if contains(d.Message, "did you mean \"ldc\"") {
			found = true
		}
	}
	assert.True(t, found)
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

func TestMissingSuperIsDiagnosedButProducesDefault(t *testing.T) {
	prog, errored := parse(t, `
.class public Foo
`)
	require.True(t, errored)
	assert.Equal(t, "java/lang/Object", prog.Header.SuperClass)
}
