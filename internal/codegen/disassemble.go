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

package codegen

import (
	"fmt"
	"io"

	"github.com/phoronlang/phoron/internal/ast"
)

// Disassemble writes a human-readable dump of prog's methods to w: one line
// per instruction prefixed by its byte offset, branches shown by target
// label name (their relative offsets are not printed), and
// .limit/.line/.throws/.var/.catch directives inline. It exists purely as a debugging aid
// (wired to the CLI's --dump flag), not a product-grade disassembler —
// mirrored on asm.Disassemble's per-opcode-plus-operand line format.
func Disassemble(prog *ast.Program, w io.Writer) error {
	for _, m := range prog.Body.Methods {
		fmt.Fprintf(w, "method %s %s\n", m.Name, m.Descriptor.String())
		var pc int
		for _, item := range m.Items {
			switch it := item.(type) {
			case ast.Label:
				fmt.Fprintf(w, "%s:\n", it.Name)
			case ast.LimitStack:
				fmt.Fprintf(w, "  .limit stack %d\n", it.N)
			case ast.LimitLocals:
				fmt.Fprintf(w, "  .limit locals %d\n", it.N)
			case ast.LineNumber:
				fmt.Fprintf(w, "  .line %d\n", it.Line)
			case ast.Throws:
				fmt.Fprintf(w, "  .throws %s\n", it.ClassName)
			case ast.Var:
				fmt.Fprintf(w, "  .var %d is %s %s from %s to %s\n", it.Num, it.Name, it.Descriptor.String(), it.From, it.To)
			case ast.Catch:
				name := it.ClassName
				if name == "" {
					name = "all"
				}
				fmt.Fprintf(w, "  .catch %s from %s to %s using %s\n", name, it.From, it.To, it.Handler)
			case ast.Instruction:
				size := instructionSize(it, pc)
				fmt.Fprintf(w, "  %4d: %s\n", pc, disassembleOne(it))
				pc += size
			}
		}
	}
	return nil
}

func disassembleOne(ins ast.Instruction) string {
	switch in := ins.(type) {
	case ast.VarInstr:
		return fmt.Sprintf("%s %d", in.Mnemonic, in.Var)
	case ast.Iinc:
		return fmt.Sprintf("iinc %d %d", in.Var, in.Delta)
	case ast.Wide:
		if in.IsIinc {
			return fmt.Sprintf("wide iinc %d %d", in.Var16, in.Delta16)
		}
		return fmt.Sprintf("wide %s %d", in.Mnemonic, in.Var16)
	case ast.IntImm:
		return fmt.Sprintf("%s %d", in.Mnemonic, in.Value)
	case ast.NewArray:
		return fmt.Sprintf("newarray %s", in.Type)
	case ast.Ldc:
		return fmt.Sprintf("ldc %v", ldcText(in.Value))
	case ast.LdcW:
		return fmt.Sprintf("ldc_w %v", ldcText(in.Value))
	case ast.Ldc2W:
		if in.Value.IsLong {
			return fmt.Sprintf("ldc2_w %d", in.Value.Long)
		}
		return fmt.Sprintf("ldc2_w %g", in.Value.Double)
	case ast.ClassRef:
		return fmt.Sprintf("%s %s", in.Mnemonic, in.ClassName)
	case ast.MultiANewArray:
		return fmt.Sprintf("multianewarray %s %d", in.Descriptor, in.Dimensions)
	case ast.FieldRef:
		return fmt.Sprintf("%s %s/%s %s", in.Mnemonic, in.ClassName, in.Name, in.Descriptor.String())
	case ast.MethodRef:
		return fmt.Sprintf("%s %s/%s %s", in.Mnemonic, in.ClassName, in.Name, in.Descriptor.String())
	case ast.InvokeInterface:
		return fmt.Sprintf("invokeinterface %s/%s %s %d", in.ClassName, in.Name, in.Descriptor.String(), in.Count)
	case ast.Branch:
		return fmt.Sprintf("%s %s", in.Mnemonic, in.Target)
	case ast.TableSwitch:
		return fmt.Sprintf("tableswitch %d %d ... default %s", in.Low, in.High, in.Default)
	case ast.LookupSwitch:
		return fmt.Sprintf("lookupswitch (%d pairs) default %s", len(in.Pairs), in.Default)
	default:
		return ins.Op()
	}
}

func ldcText(v ast.LdcValue) interface{} {
	switch {
	case v.IsInt:
		return v.Int
	case v.IsFloat:
		return v.Float
	default:
		return fmt.Sprintf("%q", v.String)
	}
}
