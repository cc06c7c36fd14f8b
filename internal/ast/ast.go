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

// Package ast defines the Phoron abstract syntax tree: a program's header,
// its field and method definitions, and every JVM instruction a method body
// can contain. The tree is built once by the parser and is immutable
// thereafter; the constant-pool analyzer and the code generator each walk it
// read-only.
//
// Types here mirror original_source/src/ast/mod.rs's PhoronAstVisitor model,
// adapted to Go: instructions are grouped into one struct per distinct
// operand shape (not one struct per individual opcode — see DESIGN.md for
// why), each carrying an Op field naming the specific mnemonic so identity
// is never lost.
package ast

import "github.com/phoronlang/phoron/internal/descriptor"

// AccessFlag is one bit of a class/field/method access_flags word.
type AccessFlag int

const (
	Public AccessFlag = iota
	Private
	Protected
	Static
	Final
	Super
	Volatile
	Transient
	Native
	Interface
	Abstract
	Strict
	Synthetic
	Annotation
	Enum
	Module
	Synchronized
	Bridge
	Varargs
)

// Program is the root of the AST: an optional source-file directive, a
// header, and a body.
type Program struct {
	SourceFile string // defaulted by the parser if absent, never empty
	Header     Header
	Body       Body
}

// Header is the class-or-interface declaration, its super class, and any
// implemented interfaces.
type Header struct {
	IsInterface bool
	ClassName   string
	AccessFlags []AccessFlag
	SuperClass  string
	Implements  []string
}

// Body is an ordered sequence of field definitions followed by an ordered
// sequence of method definitions.
type Body struct {
	Fields  []*FieldDef
	Methods []*MethodDef
}

// FieldInitValue is one of an int32, a float64 (holding a JVM double), or a
// string constant used to initialize a static final field.
type FieldInitValue struct {
	HasValue bool
	IsInt    bool
	IsDouble bool
	IsString bool
	Int      int32
	Double   float64
	String   string
}

// FieldDef is a single field declaration.
type FieldDef struct {
	Name        string
	AccessFlags []AccessFlag
	Descriptor  descriptor.Field
	Init        FieldInitValue
}

// MethodDef is a single method declaration: its descriptor and an ordered
// list of method items (directives, labels, instructions).
type MethodDef struct {
	Name        string
	AccessFlags []AccessFlag
	Descriptor  descriptor.Method
	Items       []MethodItem
}

// MethodItem is one element of a method body: a Directive, a Label, or an
// Instruction.
type MethodItem interface {
	methodItem()
}

// Label marks a position in a method's item stream that instructions in the
// same method may branch to, by name, before or after its definition.
type Label struct {
	Name string
}

func (Label) methodItem() {}

// Directive is one of the method-level directives: LimitStack, LimitLocals,
// Throws, LineNumber, Var, Catch.
type Directive interface {
	MethodItem
	directive()
}

type LimitStack struct{ N uint16 }
type LimitLocals struct{ N uint16 }
type Throws struct{ ClassName string }
type LineNumber struct{ Line uint16 }

type Var struct {
	Num        uint16
	Name       string
	Descriptor descriptor.Field
	From, To   string
}

// Catch describes an exception handler range. ClassName == "" represents
// the JVM's "all" handler (catch-all, used for finally blocks).
type Catch struct {
	ClassName         string
	From, To, Handler string
}

func (LimitStack) methodItem()  {}
func (LimitLocals) methodItem() {}
func (Throws) methodItem()      {}
func (LineNumber) methodItem()  {}
func (Var) methodItem()         {}
func (Catch) methodItem()       {}

func (LimitStack) directive()  {}
func (LimitLocals) directive() {}
func (Throws) directive()      {}
func (LineNumber) directive()  {}
func (Var) directive()         {}
func (Catch) directive()       {}
