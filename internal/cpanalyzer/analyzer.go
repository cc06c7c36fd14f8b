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

package cpanalyzer

import (
	"github.com/phoronlang/phoron/internal/ast"
	"github.com/phoronlang/phoron/internal/descriptor"
	"github.com/pkg/errors"
)

// Analyzer walks a Program exactly once, interning every referenced symbol
// into a Pool in a fixed traversal order. It implements
// ast.Visitor so the generic visitor capability is realized by a concrete
// consumer, not just declared.
type Analyzer struct {
	pool *Pool
}

var _ ast.Visitor[struct{}, struct{}] = (*Analyzer)(nil)

// NewAnalyzer returns an Analyzer over a fresh, empty Pool.
func NewAnalyzer() *Analyzer {
	return &Analyzer{pool: New()}
}

// Analyze runs the full traversal over prog and returns the populated Pool.
func Analyze(prog *ast.Program) (*Pool, error) {
	a := NewAnalyzer()
	if err := ast.Walk[struct{}, struct{}](a, prog, struct{}{}); err != nil {
		return nil, err
	}
	return a.pool, nil
}

// VisitProgram interns the SourceFile attribute name and the source file's
// own name.
func (a *Analyzer) VisitProgram(p *ast.Program, _ struct{}) (struct{}, error) {
	a.pool.Utf8("SourceFile")
	a.pool.Utf8(p.SourceFile)
	return struct{}{}, nil
}

// VisitHeader interns the this-class and super-class names, and every
// implemented interface.
func (a *Analyzer) VisitHeader(h *ast.Header, _ struct{}) (struct{}, error) {
	a.pool.Class(h.ClassName)
	a.pool.Class(h.SuperClass)
	for _, iface := range h.Implements {
		a.pool.Class(iface)
	}
	return struct{}{}, nil
}

// VisitBody is a no-op placeholder satisfying the Visitor capability set;
// ast.Walk visits each field and method individually.
func (a *Analyzer) VisitBody(_ *ast.Body, _ struct{}) (struct{}, error) {
	return struct{}{}, nil
}

// VisitFieldDef interns the field's name, descriptor string, and, for a
// field with an initializer, the "ConstantValue" attribute name and the
// constant value itself, whatever its type: ConstantValue attribute
// generation later looks these entries up by value and must find them
// already present, not insert them itself.
func (a *Analyzer) VisitFieldDef(f *ast.FieldDef, _ struct{}) (struct{}, error) {
	a.pool.Utf8(f.Name)
	a.pool.Utf8(f.Descriptor.String())
	if f.Init.HasValue {
		a.pool.Utf8("ConstantValue")
	}
	switch {
	case f.Init.HasValue && f.Init.IsString:
		a.pool.String(f.Init.String)
	case f.Init.HasValue && f.Init.IsInt:
		a.pool.Integer(f.Init.Int)
	case f.Init.HasValue && f.Init.IsDouble:
		a.pool.Double(f.Init.Double)
	}
	return struct{}{}, nil
}

// VisitMethodDef interns the method's name and descriptor string, and
// "Code" if the method has at least one item (guaranteeing a Code
// attribute name even for a method whose only items are directives).
func (a *Analyzer) VisitMethodDef(m *ast.MethodDef, _ struct{}) (struct{}, error) {
	a.pool.Utf8(m.Name)
	a.pool.Utf8(m.Descriptor.String())
	if len(m.Items) > 0 {
		a.pool.Utf8("Code")
	}
	return struct{}{}, nil
}

// VisitDirective interns the symbols a method-level directive references.
func (a *Analyzer) VisitDirective(d ast.Directive, _ struct{}) (struct{}, error) {
	switch dir := d.(type) {
	case ast.Throws:
		a.pool.Utf8("Exceptions")
		a.pool.Class(dir.ClassName)
	case ast.LineNumber:
		a.pool.Utf8("LineNumberTable")
	case ast.Var:
		a.pool.Utf8("LocalVariableTable")
		a.pool.Utf8(dir.Name)
		a.pool.Utf8(dir.Descriptor.String())
		internFieldClass(a.pool, dir.Descriptor)
	case ast.Catch:
		if dir.ClassName != "" {
			a.pool.Class(dir.ClassName)
		}
	case ast.LimitStack, ast.LimitLocals:
		// no symbolic references
	}
	return struct{}{}, nil
}

// VisitInstruction interns the symbols carried by instructions whose
// operands reference the constant pool.
func (a *Analyzer) VisitInstruction(ins ast.Instruction, _ struct{}) (struct{}, error) {
	switch in := ins.(type) {
	case ast.ClassRef:
		a.pool.Class(in.ClassName)

	case ast.MultiANewArray:
		a.pool.Class(in.Descriptor)

	case ast.NewArray:
		a.pool.Utf8(in.Type)

	case ast.FieldRef:
		a.pool.Fieldref(in.ClassName, in.Name, in.Descriptor.String())

	case ast.MethodRef:
		a.pool.Methodref(in.ClassName, in.Name, in.Descriptor.String())

	case ast.InvokeInterface:
		a.pool.InterfaceMethodref(in.ClassName, in.Name, in.Descriptor.String())

	case ast.Ldc:
		internLdc(a.pool, in.Value)

	case ast.LdcW:
		internLdc(a.pool, in.Value)

	case ast.Ldc2W:
		if in.Value.IsLong {
			a.pool.Long(in.Value.Long)
		} else {
			a.pool.Double(in.Value.Double)
		}
	}
	return struct{}{}, nil
}

// internFieldClass interns the Class entry a Var directive's descriptor
// refers to, if any: an object type interns its own class name, and an
// array type interns whatever class its element type bottoms out to, if
// it bottoms out to an object type at all.
func internFieldClass(p *Pool, f descriptor.Field) {
	switch f.Kind {
	case descriptor.KindObject:
		p.Class(f.ClassName)
	case descriptor.KindArray:
		internFieldClass(p, *f.Component)
	}
}

func internLdc(p *Pool, v ast.LdcValue) {
	switch {
	case v.IsInt:
		p.Integer(v.Int)
	case v.IsFloat:
		p.Float(v.Float)
	case v.IsString:
		p.String(v.String)
	}
}

// ErrIndexNotAvailable reports that the analyzer could not locate a
// required intermediate index. Correct traversal makes this unreachable;
// it exists only to catch analyzer bugs.
var ErrIndexNotAvailable = errors.New("constant pool analyzer: index not available")
