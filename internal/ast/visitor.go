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

package ast

// Visitor is the capability set for a consumer that walks a Program. The
// constant-pool analyzer implements it (with In and Out both struct{}, its
// pool held on the analyzer itself); the code generator does not implement
// it and walks the Program directly. In is a per-visitor traversal context;
// Out is whatever that visitor's per-node return value is.
type Visitor[In, Out any] interface {
	VisitProgram(p *Program, in In) (Out, error)
	VisitHeader(h *Header, in In) (Out, error)
	VisitBody(b *Body, in In) (Out, error)
	VisitFieldDef(f *FieldDef, in In) (Out, error)
	VisitMethodDef(m *MethodDef, in In) (Out, error)
	VisitDirective(d Directive, in In) (Out, error)
	VisitInstruction(ins Instruction, in In) (Out, error)
}

// Walk drives a Visitor over a whole Program in the fixed traversal order
// the constant-pool analyzer's indexing discipline depends on: header, then
// fields in order, then methods in order, visiting each method's items
// (directives, labels, instructions) in source order. Labels carry no
// payload for a Visitor and are skipped.
func Walk[In, Out any](v Visitor[In, Out], p *Program, in In) error {
	if _, err := v.VisitProgram(p, in); err != nil {
		return err
	}
	if _, err := v.VisitHeader(&p.Header, in); err != nil {
		return err
	}
	if _, err := v.VisitBody(&p.Body, in); err != nil {
		return err
	}
	for _, f := range p.Body.Fields {
		if _, err := v.VisitFieldDef(f, in); err != nil {
			return err
		}
	}
	for _, m := range p.Body.Methods {
		if _, err := v.VisitMethodDef(m, in); err != nil {
			return err
		}
		for _, item := range m.Items {
			switch it := item.(type) {
			case Label:
				continue
			case Directive:
				if _, err := v.VisitDirective(it, in); err != nil {
					return err
				}
			case Instruction:
				if _, err := v.VisitInstruction(it, in); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
