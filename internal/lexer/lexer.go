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

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/phoronlang/phoron/internal/sourcefile"
)

// Lexer turns Phoron assembly source into a Token stream. It is built over a
// *sourcefile.File so every Token carries a Span the parser or a later
// diagnostic can resolve to a line/column without re-scanning.
//
// Rather than reclassifying identifier tokens into ints inline at parse
// time, this lexer commits identifier/number/directive classification up
// front: the two-pass architecture needs a fully tokenized,
// already-classified stream before the parser runs.
type Lexer struct {
	file *sourcefile.File
	src  []rune
	pos  int // rune index
	errs []Error
}

// Error is a lexical diagnostic: an unrecognized character, a malformed
// numeric literal, or an unterminated string/char literal.
type Error struct {
	Span sourcefile.Span
	Msg  string
}

// New returns a Lexer over f's content.
func New(f *sourcefile.File) *Lexer {
	return &Lexer{file: f, src: []rune(f.Content)}
}

// Errors returns every lexical error accumulated so far.
func (l *Lexer) Errors() []Error { return l.errs }

func (l *Lexer) error(start, end int, msg string) {
	l.errs = append(l.errs, Error{Span: sourcefile.Span{Start: sourcefile.Pos(start), End: sourcefile.Pos(end)}, Msg: msg})
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$' || r == '<' || r == '/' || r == '['
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_$/<>[];.-", r)
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return utf8.RuneError
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.src) {
		return utf8.RuneError
	}
	return l.src[l.pos+n]
}

// skipSpaceAndComments advances past whitespace and ';'-to-end-of-line
// comments. A ';' only starts a comment between tokens: inside an
// identifier (e.g. the trailing ';' of "Ljava/lang/String;") it is consumed
// by lexIdent instead, since isIdentRune accepts it.
func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case unicode.IsSpace(r):
			l.pos++
		case r == ';':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

// Next scans and returns the next Token. It returns a Kind EOF Token once
// the source is exhausted. Lexical errors do not stop scanning: an
// unrecognized rune becomes an Error Token carrying that rune as its Text,
// its diagnostic message is recorded in Errors(), and scanning resumes at
// the next rune, matching the assembler's
// accumulate-and-continue error policy.
func (l *Lexer) Next() Token {
	l.skipSpaceAndComments()
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Span: sourcefile.Span{Start: sourcefile.Pos(l.pos), End: sourcefile.Pos(l.pos)}}
	}

	start := l.pos
	r := l.src[l.pos]

	switch {
	case r == '.':
		return l.lexDirective(start)
	case r == '"':
		return l.lexString(start)
	case r == '\'':
		return l.lexChar(start)
	case r == ':':
		l.pos++
		return l.mk(Colon, start, "")
	case r == '(':
		l.pos++
		return l.mk(LeftParen, start, "")
	case r == ')':
		l.pos++
		return l.mk(RightParen, start, "")
	case r == '=':
		l.pos++
		return l.mk(Equals, start, "")
	case unicode.IsDigit(r) || ((r == '-' || r == '+') && unicode.IsDigit(l.peekAt(1))):
		return l.lexNumber(start)
	case isIdentStart(r):
		return l.lexIdent(start)
	default:
		l.pos++
		l.error(start, l.pos, "unexpected character "+strconv.QuoteRune(r))
		return Token{Kind: Error, Span: sourcefile.Span{Start: sourcefile.Pos(start), End: sourcefile.Pos(l.pos)}, Text: string(r)}
	}
}

func (l *Lexer) mk(k Kind, start int, text string) Token {
	return Token{Kind: k, Span: sourcefile.Span{Start: sourcefile.Pos(start), End: sourcefile.Pos(l.pos)}, Text: text}
}

func (l *Lexer) lexDirective(start int) Token {
	l.pos++ // consume '.'
	for l.pos < len(l.src) && (unicode.IsLetter(l.src[l.pos]) || l.src[l.pos] == '-') {
		l.pos++
	}
	text := string(l.src[start+1 : l.pos])
	if text == "" {
		l.error(start, l.pos, "expected directive name after '.'")
		return Token{Kind: Error, Span: sourcefile.Span{Start: sourcefile.Pos(start), End: sourcefile.Pos(l.pos)}}
	}
	return l.mk(Directive, start, text)
}

func (l *Lexer) lexIdent(start int) Token {
	for l.pos < len(l.src) && isIdentRune(l.src[l.pos]) {
		l.pos++
	}
	return l.mk(Ident, start, string(l.src[start:l.pos]))
}

func (l *Lexer) lexNumber(start int) Token {
	if l.src[l.pos] == '-' || l.src[l.pos] == '+' {
		l.pos++
	}
	for l.pos < len(l.src) && unicode.IsDigit(l.src[l.pos]) {
		l.pos++
	}
	isFloat := false
	if l.pos < len(l.src) && l.src[l.pos] == '.' && l.pos+1 < len(l.src) && unicode.IsDigit(l.src[l.pos+1]) {
		isFloat = true
		l.pos++
		for l.pos < len(l.src) && unicode.IsDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		isFloat = true
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		for l.pos < len(l.src) && unicode.IsDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	text := string(l.src[start:l.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			l.error(start, l.pos, "malformed float literal "+text)
			return Token{Kind: Error, Span: sourcefile.Span{Start: sourcefile.Pos(start), End: sourcefile.Pos(l.pos)}, Text: text}
		}
		return Token{Kind: FloatLit, Span: sourcefile.Span{Start: sourcefile.Pos(start), End: sourcefile.Pos(l.pos)}, Text: text, Flt: f}
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		l.error(start, l.pos, "malformed integer literal "+text)
		return Token{Kind: Error, Span: sourcefile.Span{Start: sourcefile.Pos(start), End: sourcefile.Pos(l.pos)}, Text: text}
	}
	return Token{Kind: IntLit, Span: sourcefile.Span{Start: sourcefile.Pos(start), End: sourcefile.Pos(l.pos)}, Text: text, Int: n}
}

func (l *Lexer) lexString(start int) Token {
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.src) && l.src[l.pos] != '"' {
		r := l.src[l.pos]
		if r == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			b.WriteRune(unescape(l.src[l.pos]))
			l.pos++
			continue
		}
		b.WriteRune(r)
		l.pos++
	}
	if l.pos >= len(l.src) {
		l.error(start, l.pos, "unterminated string literal")
		return Token{Kind: Error, Span: sourcefile.Span{Start: sourcefile.Pos(start), End: sourcefile.Pos(l.pos)}, Text: b.String()}
	}
	l.pos++ // closing quote
	return Token{Kind: StringLit, Span: sourcefile.Span{Start: sourcefile.Pos(start), End: sourcefile.Pos(l.pos)}, Text: b.String()}
}

func (l *Lexer) lexChar(start int) Token {
	l.pos++ // opening quote
	if l.pos >= len(l.src) {
		l.error(start, l.pos, "unterminated character literal")
		return Token{Kind: Error, Span: sourcefile.Span{Start: sourcefile.Pos(start), End: sourcefile.Pos(l.pos)}}
	}
	r := l.src[l.pos]
	if r == '\\' && l.pos+1 < len(l.src) {
		l.pos++
		r = unescape(l.src[l.pos])
	}
	l.pos++
	if l.pos >= len(l.src) || l.src[l.pos] != '\'' {
		l.error(start, l.pos, "unterminated character literal")
		return Token{Kind: Error, Span: sourcefile.Span{Start: sourcefile.Pos(start), End: sourcefile.Pos(l.pos)}}
	}
	l.pos++
	return Token{Kind: CharLit, Span: sourcefile.Span{Start: sourcefile.Pos(start), End: sourcefile.Pos(l.pos)}, Int: int64(r)}
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return r
	}
}
