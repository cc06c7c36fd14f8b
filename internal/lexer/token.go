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

package lexer

import "github.com/phoronlang/phoron/internal/sourcefile"

// Kind classifies a Token. The lexer commits every identifier to one of
// Directive, Ident, or a literal kind up front, since the parser's
// two-pass design (it must recognize a directive's shape before deciding how
// to parse its operands) needs a fully committed token stream rather than
// on-the-fly ident-to-int reclassification.
type Kind int

const (
	EOF Kind = iota
	Ident
	Directive // .class, .method, .limit, ...
	IntLit
	FloatLit
	StringLit
	CharLit
	Colon
	LeftParen
	RightParen
	Equals
	Error
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "identifier"
	case Directive:
		return "directive"
	case IntLit:
		return "integer literal"
	case FloatLit:
		return "float literal"
	case StringLit:
		return "string literal"
	case CharLit:
		return "character literal"
	case Colon:
		return "':'"
	case LeftParen:
		return "'('"
	case RightParen:
		return "')'"
	case Equals:
		return "'='"
	default:
		return "error"
	}
}

// Token is one lexical unit together with the source span it came from and,
// for identifier-shaped tokens, the literal text the parser needs.
type Token struct {
	Kind Kind
	Span sourcefile.Span
	Text string // raw text for Ident/Directive/Error; unescaped body for StringLit
	Int  int64  // value of IntLit; the unescaped rune of CharLit
	Flt  float64
}
