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

// Package codegen serializes an assembled Program and its constant pool
// into the JVMS §4.1 .class binary layout: magic, version, constant pool,
// access flags, this/super/interfaces, fields, methods, and class-level
// attributes.
//
// There is nothing to generalize from original_source/src/codegen.rs: that
// file is an unimplemented stub (a single todo!()). This package is built
// fresh against JVMS Chapter 4, following the binary-writing idiom used
// throughout this codebase (internal/ngi.ErrWriter, big-endian fields)
// rather than any ported algorithm.
package codegen

import (
	"bytes"

	"github.com/phoronlang/phoron/internal/ast"
	"github.com/phoronlang/phoron/internal/cpanalyzer"
	"github.com/phoronlang/phoron/internal/ngi"
	"github.com/pkg/errors"
)

const (
	magic        = 0xCAFEBABE
	minorDefault = 0
	majorJava8   = 52
)

// Generate serializes prog into a complete .class byte stream, using pool
// as the already-analyzed constant pool (see internal/cpanalyzer).
func Generate(prog *ast.Program, pool *cpanalyzer.Pool) ([]byte, error) {
	var buf bytes.Buffer
	w := ngi.NewErrWriter(&buf)

	w.U4(magic)
	w.U2(minorDefault)
	w.U2(majorJava8)

	writeConstantPool(w, pool)

	w.U2(classAccessFlags(prog.Header))
	w.U2(pool.Class(prog.Header.ClassName))
	w.U2(pool.Class(prog.Header.SuperClass))

	w.U2(uint16(len(prog.Header.Implements)))
	for _, iface := range prog.Header.Implements {
		w.U2(pool.Class(iface))
	}

	w.U2(uint16(len(prog.Body.Fields)))
	for _, f := range prog.Body.Fields {
		if err := writeField(w, f, pool); err != nil {
			return nil, err
		}
	}

	w.U2(uint16(len(prog.Body.Methods)))
	for _, m := range prog.Body.Methods {
		if err := writeMethod(w, m, pool); err != nil {
			return nil, err
		}
	}

	// class attributes: SourceFile only, always present since the parser
	// defaults it when no .source directive is given.
	w.U2(1)
	w.U2(pool.Utf8("SourceFile"))
	w.U4(2)
	w.U2(pool.Utf8(prog.SourceFile))

	if w.Err != nil {
		return nil, errors.Wrap(w.Err, "codegen")
	}
	return buf.Bytes(), nil
}

func writeConstantPool(w *ngi.ErrWriter, pool *cpanalyzer.Pool) {
	w.U2(pool.Len() + 1)
	for i := uint16(1); i <= pool.Len(); i++ {
		e, ok := pool.Get(i)
		if !ok {
			continue // the second slot of a Long/Double entry
		}
		writeConstantPoolEntry(w, e)
	}
}

func writeConstantPoolEntry(w *ngi.ErrWriter, e cpanalyzer.Entry) {
	switch e.Kind {
	case cpanalyzer.KindUtf8:
		w.U1(1)
		b := modifiedUTF8(e.Text)
		w.U2(uint16(len(b)))
		w.Bytes(b)
	case cpanalyzer.KindInteger:
		w.U1(3)
		w.Bytes(e.Bytes)
	case cpanalyzer.KindFloat:
		w.U1(4)
		w.Bytes(e.Bytes)
	case cpanalyzer.KindLong:
		w.U1(5)
		w.Bytes(e.Bytes)
	case cpanalyzer.KindDouble:
		w.U1(6)
		w.Bytes(e.Bytes)
	case cpanalyzer.KindClass:
		w.U1(7)
		w.U2(e.NameIndex)
	case cpanalyzer.KindString:
		w.U1(8)
		w.U2(e.NameIndex)
	case cpanalyzer.KindFieldref:
		w.U1(9)
		w.U2(e.A)
		w.U2(e.B)
	case cpanalyzer.KindMethodref:
		w.U1(10)
		w.U2(e.A)
		w.U2(e.B)
	case cpanalyzer.KindInterfaceMethodref:
		w.U1(11)
		w.U2(e.A)
		w.U2(e.B)
	case cpanalyzer.KindNameAndType:
		w.U1(12)
		w.U2(e.A)
		w.U2(e.B)
	}
}

// modifiedUTF8 encodes s per JVMS §4.4.7: identical to UTF-8 except NUL is
// encoded as the two-byte sequence 0xC0 0x80 and there is no four-byte
// form (supplementary characters are encoded as a surrogate pair, each
// surrogate as its own three-byte sequence). Plain ASCII and BMP text, the
// overwhelming majority of class-file strings, round-trips through
// encoding/utf8 unchanged; only NUL and astral code points need rewriting.
func modifiedUTF8(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xC0, 0x80)
		case r < 0x80:
			out = append(out, byte(r))
		case r < 0x800:
			out = append(out, byte(0xC0|r>>6), byte(0x80|r&0x3F))
		case r <= 0xFFFF:
			out = append(out, byte(0xE0|r>>12), byte(0x80|(r>>6)&0x3F), byte(0x80|r&0x3F))
		default:
			r -= 0x10000
			hi := 0xD800 + (r >> 10)
			lo := 0xDC00 + (r & 0x3FF)
			out = append(out, byte(0xE0|hi>>12), byte(0x80|(hi>>6)&0x3F), byte(0x80|hi&0x3F))
			out = append(out, byte(0xE0|lo>>12), byte(0x80|(lo>>6)&0x3F), byte(0x80|lo&0x3F))
		}
	}
	return out
}

func writeField(w *ngi.ErrWriter, f *ast.FieldDef, pool *cpanalyzer.Pool) error {
	w.U2(fieldAccessFlags(f.AccessFlags))
	w.U2(pool.Utf8(f.Name))
	w.U2(pool.Utf8(f.Descriptor.String()))

	if !f.Init.HasValue {
		w.U2(0)
		return nil
	}

	w.U2(1)
	w.U2(pool.Utf8("ConstantValue"))
	w.U4(2)
	switch {
	case f.Init.IsInt:
		w.U2(pool.Integer(f.Init.Int))
	case f.Init.IsDouble:
		w.U2(pool.Double(f.Init.Double))
	case f.Init.IsString:
		w.U2(pool.String(f.Init.String))
	}
	return nil
}

func writeMethod(w *ngi.ErrWriter, m *ast.MethodDef, pool *cpanalyzer.Pool) error {
	w.U2(methodAccessFlags(m.AccessFlags))
	w.U2(pool.Utf8(m.Name))
	w.U2(pool.Utf8(m.Descriptor.String()))

	hasCode := !hasFlag(m.AccessFlags, ast.Abstract) && !hasFlag(m.AccessFlags, ast.Native) && len(m.Items) > 0

	var throwsClasses []string
	for _, item := range m.Items {
		if t, ok := item.(ast.Throws); ok {
			throwsClasses = append(throwsClasses, t.ClassName)
		}
	}

	var attrCount uint16
	if hasCode {
		attrCount++
	}
	if len(throwsClasses) > 0 {
		attrCount++
	}
	w.U2(attrCount)

	if hasCode {
		asm, err := assembleCode(m, pool)
		if err != nil {
			return err
		}
		body := codeAttributeBody(asm, pool)
		w.U2(pool.Utf8("Code"))
		w.U4(uint32(len(body)))
		w.Bytes(body)
	}

	if len(throwsClasses) > 0 {
		w.U2(pool.Utf8("Exceptions"))
		w.U4(uint32(2 + 2*len(throwsClasses)))
		w.U2(uint16(len(throwsClasses)))
		for _, c := range throwsClasses {
			w.U2(pool.Class(c))
		}
	}
	return nil
}

func hasFlag(flags []ast.AccessFlag, want ast.AccessFlag) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}

func accessFlagBit(f ast.AccessFlag) uint16 {
	switch f {
	case ast.Public:
		return 0x0001
	case ast.Private:
		return 0x0002
	case ast.Protected:
		return 0x0004
	case ast.Static:
		return 0x0008
	case ast.Final:
		return 0x0010
	case ast.Super, ast.Synchronized:
		return 0x0020
	case ast.Volatile, ast.Bridge:
		return 0x0040
	case ast.Transient, ast.Varargs:
		return 0x0080
	case ast.Native:
		return 0x0100
	case ast.Interface:
		return 0x0200
	case ast.Abstract:
		return 0x0400
	case ast.Strict:
		return 0x0800
	case ast.Synthetic:
		return 0x1000
	case ast.Annotation:
		return 0x2000
	case ast.Enum:
		return 0x4000
	case ast.Module:
		return 0x8000
	default:
		return 0
	}
}

func classAccessFlags(h ast.Header) uint16 {
	var bits uint16
	for _, f := range h.AccessFlags {
		bits |= accessFlagBit(f)
	}
	if h.IsInterface {
		bits |= 0x0200
	}
	return bits
}

func fieldAccessFlags(flags []ast.AccessFlag) uint16 { return accessFlags(flags) }

func methodAccessFlags(flags []ast.AccessFlag) uint16 { return accessFlags(flags) }

func accessFlags(flags []ast.AccessFlag) uint16 {
	var bits uint16
	for _, f := range flags {
		bits |= accessFlagBit(f)
	}
	return bits
}
