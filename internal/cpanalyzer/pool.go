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

// Package cpanalyzer builds a class's constant pool by walking its AST in a
// fixed traversal order, interning every referenced symbol and assigning
// monotonically increasing 1-based indices.
//
// Grounded on original_source/src/cp_analyzer/constant_pool.rs: the pool is
// a hash map from a byte-comparable key to its index plus a counter, never
// an ordered map, so that Float/Double NaN and signed-zero bit patterns
// intern deterministically by exact bytes rather than IEEE equality.
package cpanalyzer

import (
	"encoding/binary"
	"math"
)

// Kind tags a constant-pool entry's shape.
type Kind int

const (
	KindUtf8 Kind = iota
	KindInteger
	KindFloat
	KindLong
	KindDouble
	KindClass
	KindString
	KindNameAndType
	KindFieldref
	KindMethodref
	KindInterfaceMethodref
)

// key is the map key for one constant-pool entry. Numeric entries store
// their big-endian byte pattern in Bytes (not a float/double field) so two
// keys compare equal iff their bit patterns are identical — required for
// deterministic NaN and signed-zero interning.
type key struct {
	kind  Kind
	text  string // Utf8 text
	bytes [8]byte
	blen  int
	a, b  uint16 // name_index/class_index, descriptor_index/name_and_type_index
}

// Entry is one fully resolved constant-pool row, ready for code generation.
type Entry struct {
	Kind Kind
	// Utf8
	Text string
	// Integer/Float/Long/Double: big-endian bytes, 4 or 8 long
	Bytes []byte
	// Class/String: the UTF-8 entry's index
	NameIndex uint16
	// NameAndType/*ref: first and second component indices
	A, B uint16
}

// Pool is the constant pool under construction. It is built by exactly one
// analysis pass and is read-only thereafter.
type Pool struct {
	index   map[key]uint16
	entries map[uint16]Entry
	next    uint16 // next index to assign; starts at 1, index 0 reserved
}

// New returns an empty Pool with its monotonic counter at 1.
func New() *Pool {
	return &Pool{index: make(map[key]uint16), entries: make(map[uint16]Entry), next: 1}
}

// Len returns the pool's logical size: the highest assigned index (Long and
// Double each consume two slots).
func (p *Pool) Len() uint16 { return p.next - 1 }

// Get returns the fully resolved Entry at idx (1-based).
func (p *Pool) Get(idx uint16) (Entry, bool) {
	e, ok := p.entries[idx]
	return e, ok
}

func (p *Pool) insert(k key, e Entry, slots uint16) uint16 {
	if idx, ok := p.index[k]; ok {
		return idx
	}
	idx := p.next
	p.next += slots
	p.index[k] = idx
	e.Kind = k.kind
	p.entries[idx] = e
	return idx
}

// Utf8 interns a UTF-8 string constant and returns its index.
func (p *Pool) Utf8(s string) uint16 {
	return p.insert(key{kind: KindUtf8, text: s}, Entry{Text: s}, 1)
}

// Integer interns a 32-bit integer constant.
func (p *Pool) Integer(v int32) uint16 {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	k := key{kind: KindInteger, blen: 4}
	copy(k.bytes[:], b[:])
	return p.insert(k, Entry{Bytes: append([]byte(nil), b[:]...)}, 1)
}

// Float interns a 32-bit float constant, keyed by its exact IEEE-754 bit
// pattern so NaN and ±0 intern deterministically.
func (p *Pool) Float(v float32) uint16 {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	k := key{kind: KindFloat, blen: 4}
	copy(k.bytes[:], b[:])
	return p.insert(k, Entry{Bytes: append([]byte(nil), b[:]...)}, 1)
}

// Long interns a 64-bit long constant. It consumes two index slots.
func (p *Pool) Long(v int64) uint16 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	k := key{kind: KindLong, blen: 8}
	copy(k.bytes[:], b[:])
	return p.insert(k, Entry{Bytes: append([]byte(nil), b[:]...)}, 2)
}

// Double interns a 64-bit double constant. It consumes two index slots.
func (p *Pool) Double(v float64) uint16 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	k := key{kind: KindDouble, blen: 8}
	copy(k.bytes[:], b[:])
	return p.insert(k, Entry{Bytes: append([]byte(nil), b[:]...)}, 2)
}

// Class interns a Class entry naming className (a UTF-8 entry is interned
// first if not already present).
func (p *Pool) Class(className string) uint16 {
	nameIdx := p.Utf8(className)
	k := key{kind: KindClass, a: nameIdx}
	return p.insert(k, Entry{NameIndex: nameIdx}, 1)
}

// String interns a String entry wrapping s (a UTF-8 entry is interned
// first if not already present).
func (p *Pool) String(s string) uint16 {
	strIdx := p.Utf8(s)
	k := key{kind: KindString, a: strIdx}
	return p.insert(k, Entry{NameIndex: strIdx}, 1)
}

// NameAndType interns a NameAndType entry.
func (p *Pool) NameAndType(name, descriptor string) uint16 {
	nameIdx := p.Utf8(name)
	descIdx := p.Utf8(descriptor)
	k := key{kind: KindNameAndType, a: nameIdx, b: descIdx}
	return p.insert(k, Entry{A: nameIdx, B: descIdx}, 1)
}

// Fieldref interns a Fieldref entry, interning its Class and NameAndType
// components first.
func (p *Pool) Fieldref(className, fieldName, fieldDescriptor string) uint16 {
	classIdx := p.Class(className)
	ntIdx := p.NameAndType(fieldName, fieldDescriptor)
	k := key{kind: KindFieldref, a: classIdx, b: ntIdx}
	return p.insert(k, Entry{A: classIdx, B: ntIdx}, 1)
}

// Methodref interns a Methodref entry.
func (p *Pool) Methodref(className, methodName, methodDescriptor string) uint16 {
	classIdx := p.Class(className)
	ntIdx := p.NameAndType(methodName, methodDescriptor)
	k := key{kind: KindMethodref, a: classIdx, b: ntIdx}
	return p.insert(k, Entry{A: classIdx, B: ntIdx}, 1)
}

// InterfaceMethodref interns an InterfaceMethodref entry.
func (p *Pool) InterfaceMethodref(className, methodName, methodDescriptor string) uint16 {
	classIdx := p.Class(className)
	ntIdx := p.NameAndType(methodName, methodDescriptor)
	k := key{kind: KindInterfaceMethodref, a: classIdx, b: ntIdx}
	return p.insert(k, Entry{A: classIdx, B: ntIdx}, 1)
}
