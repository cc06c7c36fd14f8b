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

// Package descriptor parses and renders JVM field, method, and return
// descriptors (JVMS §4.3): the mini-language embedded inside identifier
// tokens such as "[Ljava/lang/String;" or "(I)V".
//
// This is a straight generalization of the recursive-descent reader in
// original_source/src/parser/type_descriptor_parser.rs to a rune-cursor
// design; it has no lexer token stream of its own since the caller (the
// parser) hands it raw identifier text already isolated by the lexer.
package descriptor

import (
	"strings"

	"github.com/pkg/errors"
)

// BaseKind enumerates the eight JVM primitive types.
type BaseKind byte

const (
	Byte    BaseKind = 'B'
	Char    BaseKind = 'C'
	Double  BaseKind = 'D'
	Float   BaseKind = 'F'
	Int     BaseKind = 'I'
	Long    BaseKind = 'J'
	Short   BaseKind = 'S'
	Boolean BaseKind = 'Z'
)

// Field is a field descriptor: a base type, an object type, or an array
// type wrapping a component Field.
type Field struct {
	Base      BaseKind // valid iff Kind == KindBase
	ClassName string   // valid iff Kind == KindObject
	Component *Field   // valid iff Kind == KindArray
	Kind      FieldKind
}

// FieldKind discriminates the three shapes a Field can take.
type FieldKind int

const (
	KindBase FieldKind = iota
	KindObject
	KindArray
)

// String renders the canonical descriptor string, e.g. "[[[D" or
// "Ljava/lang/String;".
func (f Field) String() string {
	switch f.Kind {
	case KindBase:
		return string(byte(f.Base))
	case KindObject:
		return "L" + f.ClassName + ";"
	case KindArray:
		return "[" + f.Component.String()
	default:
		return ""
	}
}

// Return is a method return descriptor: either a Field or the void marker.
type Return struct {
	Field Field
	Void  bool
}

func (r Return) String() string {
	if r.Void {
		return "V"
	}
	return r.Field.String()
}

// Method is a full method descriptor: an ordered parameter list plus a
// return type. Canonical rendering is "(P1P2...)R".
type Method struct {
	Params []Field
	Return Return
}

func (m Method) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range m.Params {
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	b.WriteString(m.Return.String())
	return b.String()
}

// ErrMalformed reports a syntactically invalid descriptor.
var ErrMalformed = errors.New("malformed descriptor")

// reader is a rune cursor over a descriptor's raw text.
type reader struct {
	src []rune
	pos int
}

func (r *reader) peek() (rune, bool) {
	if r.pos >= len(r.src) {
		return 0, false
	}
	return r.src[r.pos], true
}

func (r *reader) advance() (rune, bool) {
	c, ok := r.peek()
	if ok {
		r.pos++
	}
	return c, ok
}

// ParseField parses a single field descriptor from s. It does not require s
// to be fully consumed; ParseParams relies on that to recognize a sequence.
func ParseField(s string) (Field, error) {
	r := &reader{src: []rune(s)}
	f, err := parseField(r)
	if err != nil {
		return Field{}, err
	}
	return f, nil
}

func parseField(r *reader) (Field, error) {
	c, ok := r.peek()
	if !ok {
		return Field{}, errors.Wrap(ErrMalformed, "out of characters")
	}

	switch c {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		r.advance()
		return Field{Kind: KindBase, Base: BaseKind(c)}, nil

	case 'L':
		r.advance()
		var name strings.Builder
		found := false
		for {
			c, ok := r.peek()
			if !ok {
				break
			}
			if c == ';' {
				r.advance()
				found = true
				break
			}
			name.WriteRune(c)
			r.advance()
		}
		if !found {
			return Field{}, errors.Wrap(ErrMalformed, "missing ';' for class type in field descriptor")
		}
		return Field{Kind: KindObject, ClassName: name.String()}, nil

	case '[':
		r.advance()
		comp, err := parseField(r)
		if err != nil {
			return Field{}, errors.Wrap(ErrMalformed, "missing component type for array type")
		}
		return Field{Kind: KindArray, Component: &comp}, nil

	default:
		// Permissive fallback: treat the remaining text as a bare class
		// name, matching the original parser's behavior for malformed
		// input recovered from by the caller's panic-mode error handling.
		var name strings.Builder
		for {
			c, ok := r.peek()
			if !ok {
				break
			}
			name.WriteRune(c)
			r.advance()
		}
		return Field{Kind: KindObject, ClassName: name.String()}, nil
	}
}

// ParseReturn parses a return descriptor: "V" or a field descriptor.
func ParseReturn(s string) (Return, error) {
	r := &reader{src: []rune(s)}
	c, ok := r.peek()
	if !ok {
		return Return{}, errors.Wrap(ErrMalformed, "out of characters")
	}
	if c == 'V' {
		r.advance()
		return Return{Void: true}, nil
	}
	f, err := parseField(r)
	if err != nil {
		return Return{}, err
	}
	return Return{Field: f}, nil
}

// ParseParams parses a sequence of back-to-back field descriptors, as found
// between a method descriptor's parentheses.
func ParseParams(s string) ([]Field, error) {
	r := &reader{src: []rune(s)}
	var params []Field
	for {
		if _, ok := r.peek(); !ok {
			break
		}
		start := r.pos
		f, err := parseField(r)
		if err != nil {
			if r.pos == start {
				break
			}
			return nil, err
		}
		params = append(params, f)
	}
	return params, nil
}

// ParseMethod parses a full "(params)return" method descriptor string.
func ParseMethod(s string) (Method, error) {
	if !strings.HasPrefix(s, "(") {
		return Method{}, errors.Wrap(ErrMalformed, "method descriptor must start with '('")
	}
	close := strings.Index(s, ")")
	if close < 0 {
		return Method{}, errors.Wrap(ErrMalformed, "method descriptor missing ')'")
	}
	params, err := ParseParams(s[1:close])
	if err != nil {
		return Method{}, err
	}
	ret, err := ParseReturn(s[close+1:])
	if err != nil {
		return Method{}, err
	}
	return Method{Params: params, Return: ret}, nil
}
