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

package lexer_test

import (
	"testing"

	"github.com/phoronlang/phoron/internal/lexer"
	"github.com/phoronlang/phoron/internal/sourcefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTokens(l *lexer.Lexer) []lexer.Token {
	var toks []lexer.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == lexer.EOF {
			return toks
		}
	}
}

func TestDirectivesAndIdents(t *testing.T) {
	src := ".class public Empty\n.super java/lang/Object\n"
	l := lexer.New(sourcefile.New("t.phor", src))
	toks := allTokens(l)

	require.GreaterOrEqual(t, len(toks), 6)
	assert.Equal(t, lexer.Directive, toks[0].Kind)
	assert.Equal(t, "class", toks[0].Text)
	assert.Equal(t, lexer.Ident, toks[1].Kind)
	assert.Equal(t, "public", toks[1].Text)
	assert.Equal(t, lexer.Ident, toks[2].Kind)
	assert.Equal(t, "Empty", toks[2].Text)
	assert.Equal(t, lexer.Directive, toks[3].Kind)
	assert.Equal(t, "super", toks[3].Text)
	assert.Equal(t, lexer.Ident, toks[4].Kind)
	assert.Equal(t, "java/lang/Object", toks[4].Text)
	assert.Empty(t, l.Errors())
}

func TestArrayDescriptorIsOneToken(t *testing.T) {
	l := lexer.New(sourcefile.New("t.phor", "[Ljava/lang/String;"))
	tok := l.Next()
	assert.Equal(t, lexer.Ident, tok.Kind)
	assert.Equal(t, "[Ljava/lang/String;", tok.Text)
}

func TestLineCommentDiscarded(t *testing.T) {
	l := lexer.New(sourcefile.New("t.phor", "nop ; this is a comment\nnop"))
	toks := allTokens(l)
	require.Len(t, toks, 3) // nop, nop, EOF
	assert.Equal(t, "nop", toks[0].Text)
	assert.Equal(t, "nop", toks[1].Text)
}

func TestLabelColon(t *testing.T) {
	l := lexer.New(sourcefile.New("t.phor", "Loop:"))
	toks := allTokens(l)
	require.Len(t, toks, 3)
	assert.Equal(t, lexer.Ident, toks[0].Kind)
	assert.Equal(t, "Loop", toks[0].Text)
	assert.Equal(t, lexer.Colon, toks[1].Kind)
}

func TestStringLiteral(t *testing.T) {
	l := lexer.New(sourcefile.New("t.phor", `"Hello, world"`))
	tok := l.Next()
	assert.Equal(t, lexer.StringLit, tok.Kind)
	assert.Equal(t, "Hello, world", tok.Text)
}

func TestUnterminatedStringIsError(t *testing.T) {
	l := lexer.New(sourcefile.New("t.phor", `"Hello`))
	tok := l.Next()
	assert.Equal(t, lexer.Error, tok.Kind)
	require.Len(t, l.Errors(), 1)
}

func TestIntAndFloatLiterals(t *testing.T) {
	l := lexer.New(sourcefile.New("t.phor", "100 3.14 -7"))
	a, b, c := l.Next(), l.Next(), l.Next()
	assert.Equal(t, lexer.IntLit, a.Kind)
	assert.EqualValues(t, 100, a.Int)
	assert.Equal(t, lexer.FloatLit, b.Kind)
	assert.InDelta(t, 3.14, b.Flt, 0.0001)
	assert.Equal(t, lexer.IntLit, c.Kind)
	assert.EqualValues(t, -7, c.Int)
}

func TestUnexpectedCharacterRecovers(t *testing.T) {
	l := lexer.New(sourcefile.New("t.phor", "nop # nop"))
	toks := allTokens(l)
	require.Len(t, l.Errors(), 1)
	assert.Equal(t, "nop", toks[0].Text)
	assert.Equal(t, lexer.Error, toks[1].Kind)
	assert.Equal(t, "nop", toks[2].Text)
}
