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

package phoron_test

import (
	"context"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/phoronlang/phoron"
	"github.com/stretchr/testify/require"
)

func TestAssembleHelloWorld(t *testing.T) {
	src := `
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
`
	result, diags, err := phoron.Assemble(context.Background(), "HelloWorld.phor", "HelloWorld", strings.NewReader(src))
	require.NoError(t, err)
	require.Empty(t, diags)
	require.NotNil(t, result)
	require.Equal(t, uint32(0xCAFEBABE), binary.BigEndian.Uint32(result.ClassBytes[0:4]))
	require.Equal(t, "HelloWorld", result.Program.Header.ClassName)
}

func TestAssembleReportsDiagnosticsOnMalformedInput(t *testing.T) {
	src := `
.class public Broken
`
	result, diags, err := phoron.Assemble(context.Background(), "Broken.phor", "Broken", strings.NewReader(src))
	require.NoError(t, err)
	require.NotEmpty(t, diags)
	require.Nil(t, result)
}
