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

package parser

// opShape classifies an opcode mnemonic by its operand layout, so the
// parser can dispatch to one of a small number of operand-parsing routines
// instead of one routine per individual mnemonic.
type opShape int

const (
	shapeSimple opShape = iota
	shapeVar        // iload, lload, fload, dload, aload, istore, lstore, fstore, dstore, astore, ret — u8 varnum
	shapeIinc
	shapeWide
	shapeBipush // u8 signed immediate
	shapeSipush // u16 signed immediate
	shapeNewArray
	shapeLdc
	shapeLdcW
	shapeLdc2W
	shapeClassRef
	shapeMultiANewArray
	shapeFieldRef
	shapeMethodRef
	shapeInvokeInterface
	shapeBranch
	shapeTableSwitch
	shapeLookupSwitch
	shapeUnsupported // accepted lexically for fidelity with the source dialect but not realizable as a JVM opcode byte
)

// opcodeTable maps every one of the 203 recognized mnemonics to its operand
// shape. It is also the authoritative opcode dictionary used for
// Levenshtein-distance "did you mean" suggestions (see suggest.go), mirrored
// from original_source/src/parser/levenshtein.rs's JVM_OPCODES table.
var opcodeTable = buildOpcodeTable()

func buildOpcodeTable() map[string]opShape {
	t := make(map[string]opShape, 210)

	simple := []string{
		"aaload", "aastore", "aconst_null", "aload_0", "aload_1", "aload_2", "aload_3",
		"areturn", "arraylength", "astore_0", "astore_1", "astore_2", "astore_3", "athrow",
		"baload", "bastore", "caload", "castore",
		"d2f", "d2i", "d2l", "dadd", "daload", "dastore", "dcmpg", "dcmpl", "dconst_0", "dconst_1",
		"ddiv", "dload_0", "dload_1", "dload_2", "dload_3", "dmul", "dneg", "drem", "dreturn",
		"dstore_0", "dstore_1", "dstore_2", "dstore_3", "dsub",
		"dup", "dup2", "dup2_x1", "dup2_x2", "dup_x1", "dup_x2",
		"f2d", "f2i", "f2l", "fadd", "faload", "fastore", "fcmpg", "fcmpl",
		"fconst_0", "fconst_1", "fconst_2", "fdiv", "fload_0", "fload_1", "fload_2", "fload_3",
		"fmul", "fneg", "frem", "freturn", "fstore_0", "fstore_1", "fstore_2", "fstore_3", "fsub",
		"i2b", "i2c", "i2d", "i2f", "i2l", "i2s",
		"iadd", "iaload", "iand", "iastore",
		"iconst_0", "iconst_1", "iconst_2", "iconst_3", "iconst_4", "iconst_5", "iconst_m1",
		"idiv", "iload_0", "iload_1", "iload_2", "iload_3", "imul", "ineg", "ior", "irem", "ireturn",
		"ishl", "ishr", "istore_0", "istore_1", "istore_2", "istore_3", "isub", "iushr", "ixor",
		"l2d", "l2f", "l2i", "ladd", "laload", "land", "lastore", "lcmp",
		"lconst_0", "lconst_1", "ldiv", "lload_0", "lload_1", "lload_2", "lload_3", "lmul", "lneg",
		"lor", "lrem", "lreturn", "lshl", "lshr",
		"lstore_0", "lstore_1", "lstore_2", "lstore_3", "lsub", "lushr", "lxor",
		"monitorenter", "monitorexit",
		"nop", "pop", "pop2", "return", "saload", "sastore", "swap",
	}
	for _, m := range simple {
		t[m] = shapeSimple
	}

	for _, m := range []string{"iload", "lload", "fload", "dload", "aload", "istore", "lstore", "fstore", "dstore", "astore", "ret"} {
		t[m] = shapeVar
	}
	t["iinc"] = shapeIinc
	t["wide"] = shapeWide
	t["bipush"] = shapeBipush
	t["sipush"] = shapeSipush
	t["newarray"] = shapeNewArray
	t["ldc"] = shapeLdc
	t["ldc_w"] = shapeLdcW
	t["ldc2_w"] = shapeLdc2W
	for _, m := range []string{"new", "anewarray", "checkcast", "instanceof"} {
		t[m] = shapeClassRef
	}
	t["multianewarray"] = shapeMultiANewArray
	for _, m := range []string{"getfield", "getstatic", "putfield", "putstatic"} {
		t[m] = shapeFieldRef
	}
	for _, m := range []string{"invokespecial", "invokestatic", "invokevirtual", "invokenonvirtual"} {
		t[m] = shapeMethodRef
	}
	t["invokeinterface"] = shapeInvokeInterface
	for _, m := range []string{
		"goto", "goto_w", "jsr", "jsr_w",
		"ifeq", "ifge", "ifgt", "ifle", "iflt", "ifne", "ifnonnull", "ifnull",
		"if_icmpeq", "if_icmpge", "if_icmpgt", "if_icmple", "if_icmplt", "if_icmpne",
		"if_acmpeq", "if_acmpne",
	} {
		t[m] = shapeBranch
	}
	t["tableswitch"] = shapeTableSwitch
	t["lookupswitch"] = shapeLookupSwitch

	// "synchronized" has no JVM opcode byte (monitor blocks are expressed
	// purely via monitorenter/monitorexit); it is accepted lexically for
	// fidelity with the assembly dialect this parser was distilled from,
	// but the parser reports it as an error.
	t["synchronized"] = shapeUnsupported

	return t
}

// jvmOpcodes lists every recognized mnemonic, used by the Levenshtein
// "did you mean" suggester. Built once from opcodeTable's keys so the two
// never drift apart.
var jvmOpcodes = func() []string {
	names := make([]string, 0, len(opcodeTable))
	for m := range opcodeTable {
		names = append(names, m)
	}
	return names
}()
