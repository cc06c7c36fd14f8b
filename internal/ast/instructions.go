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

import "github.com/phoronlang/phoron/internal/descriptor"

// Instruction is the marker interface satisfied by every JVM instruction
// variant. Op always returns the specific mnemonic that was parsed (e.g.
// "iload_2", not just "iload"), so two instructions of the same Go struct
// type remain distinguishable.
type Instruction interface {
	MethodItem
	Op() string
}

// Simple covers every opcode with no operands at all: stack manipulation
// (dup, swap, pop, pop2, dup2...), arithmetic and logic (iadd, ladd, fadd,
// dadd, isub..., iand, ior, ixor, ishl, ishr, iushr and their l/f/d
// counterparts), type conversions (i2l, i2f, ..., d2f), comparisons (lcmp,
// fcmpl, fcmpg, dcmpl, dcmpg), the narrow load/store/array forms that carry
// their index in the mnemonic (iload_0, astore_3, iaload, aastore...),
// returns (ireturn, areturn, return), and the handful of singletons
// (nop, aconst_null, athrow, arraylength, monitorenter, monitorexit).
type Simple struct {
	Mnemonic string
}

func (s Simple) Op() string { return s.Mnemonic }
func (Simple) methodItem() {}

// VarInstr covers the narrow (8-bit varnum) load/store family: iload,
// lload, fload, dload, aload, istore, lstore, fstore, dstore, astore, and
// ret.
type VarInstr struct {
	Mnemonic string
	Var      uint8
}

func (v VarInstr) Op() string { return v.Mnemonic }
func (VarInstr) methodItem() {}

// Iinc is "iinc index const", narrow (8-bit index, 8-bit signed delta)
// unless wrapped in Wide.
type Iinc struct {
	Var   uint8
	Delta int8
}

func (Iinc) Op() string { return "iinc" }
func (Iinc) methodItem() {}

// Wide is the JVM's varnum-widening prefix opcode. It wraps either a
// load/store mnemonic or "iinc", replacing its operand width with 16 bits.
type Wide struct {
	Mnemonic string // e.g. "iload", "astore", or "iinc"
	IsIinc   bool
	Var16    uint16
	Delta16  int16 // valid iff IsIinc
}

func (w Wide) Op() string { return w.Mnemonic }
func (Wide) methodItem() {}

// IntImm covers bipush (8-bit signed) and sipush (16-bit signed).
type IntImm struct {
	Mnemonic string
	Value    int32
}

func (i IntImm) Op() string { return i.Mnemonic }
func (IntImm) methodItem() {}

// NewArray is "newarray <primitive-type-name>", e.g. "int", "char".
type NewArray struct {
	Type string
}

func (NewArray) Op() string { return "newarray" }
func (NewArray) methodItem() {}

// LdcValue is the payload of ldc/ldc_w: a 32-bit int, a 32-bit float, or a
// string constant.
type LdcValue struct {
	IsInt    bool
	IsFloat  bool
	IsString bool
	Int      int32
	Float    float32
	String   string
}

// Ldc pushes a constant-pool entry onto the stack with a narrow (8-bit)
// index.
type Ldc struct {
	Value LdcValue
}

func (Ldc) Op() string { return "ldc" }
func (Ldc) methodItem() {}

// LdcW is ldc with a wide (16-bit) index, used when the narrow form cannot
// reach the constant.
type LdcW struct {
	Value LdcValue
}

func (LdcW) Op() string { return "ldc_w" }
func (LdcW) methodItem() {}

// Ldc2WValue is the payload of ldc2_w: a 64-bit long or a 64-bit double.
type Ldc2WValue struct {
	IsLong bool
	Long   int64
	Double float64
}

// Ldc2W pushes a long or double constant-pool entry (always wide-indexed:
// longs and doubles always occupy a two-slot entry far enough into the pool
// that a narrow index would be insufficient in nontrivial classes).
type Ldc2W struct {
	Value Ldc2WValue
}

func (Ldc2W) Op() string { return "ldc2_w" }
func (Ldc2W) methodItem() {}

// ClassRef covers new, anewarray, checkcast, and instanceof: every opcode
// whose sole operand is a class or array-type reference.
type ClassRef struct {
	Mnemonic  string
	ClassName string
}

func (c ClassRef) Op() string { return c.Mnemonic }
func (ClassRef) methodItem() {}

// MultiANewArray is "multianewarray <array-descriptor> <dimensions>".
type MultiANewArray struct {
	Descriptor string
	Dimensions uint8
}

func (MultiANewArray) Op() string { return "multianewarray" }
func (MultiANewArray) methodItem() {}

// FieldRef covers getfield, putfield, getstatic, and putstatic: every
// opcode referencing "ClassName/FieldName FieldDescriptor".
type FieldRef struct {
	Mnemonic   string
	ClassName  string
	Name       string
	Descriptor descriptor.Field
}

func (f FieldRef) Op() string { return f.Mnemonic }
func (FieldRef) methodItem() {}

// MethodRef covers invokespecial, invokestatic, and invokevirtual: every
// opcode referencing "ClassName/MethodName MethodDescriptor" without an
// interface-method-count operand.
type MethodRef struct {
	Mnemonic   string
	ClassName  string
	Name       string
	Descriptor descriptor.Method
}

func (m MethodRef) Op() string { return m.Mnemonic }
func (MethodRef) methodItem() {}

// InvokeInterface is invokeinterface, which additionally carries the
// argument-slot count the JVM needs before it has resolved the descriptor.
type InvokeInterface struct {
	ClassName  string
	Name       string
	Descriptor descriptor.Method
	Count      uint8
}

func (InvokeInterface) Op() string { return "invokeinterface" }
func (InvokeInterface) methodItem() {}

// Branch covers every opcode whose sole operand is a label: goto, goto_w,
// jsr, jsr_w, the ifXX family, and if_icmpXX/if_acmpXX.
type Branch struct {
	Mnemonic string
	Target   string
}

func (b Branch) Op() string { return b.Mnemonic }
func (Branch) methodItem() {}

// TableSwitch is a dense jump table keyed by a contiguous integer range.
type TableSwitch struct {
	Low, High int32
	Targets   []string // len == High-Low+1
	Default   string
}

func (TableSwitch) Op() string { return "tableswitch" }
func (TableSwitch) methodItem() {}

// LookupPair is one (key, target) entry of a LookupSwitch.
type LookupPair struct {
	Key    int32
	Target string
}

// LookupSwitch is a sparse jump table. The parser sorts Pairs by key, per
// the JVM's requirement that lookupswitch keys be ascending; the code
// generator emits them in the order given.
type LookupSwitch struct {
	Pairs   []LookupPair
	Default string
}

func (LookupSwitch) Op() string { return "lookupswitch" }
func (LookupSwitch) methodItem() {}
