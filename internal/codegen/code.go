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
	"github.com/phoronlang/phoron/internal/ast"
	"github.com/phoronlang/phoron/internal/cpanalyzer"
	"github.com/phoronlang/phoron/internal/ngi"
	"github.com/pkg/errors"
)

// lineEntry is one LineNumberTable row.
type lineEntry struct {
	pc   uint16
	line uint16
}

// varEntry is one LocalVariableTable row, resolved from label names to pcs.
type varEntry struct {
	startPC, length        uint16
	nameIdx, descIdx, slot uint16
}

// excEntry is one exception_table row, resolved from label names to pcs.
type excEntry struct {
	startPC, endPC, handlerPC uint16
	catchTypeIdx              uint16 // 0 means "all"
}

// codeAssembly is everything needed to emit one method's Code attribute.
type codeAssembly struct {
	maxStack, maxLocals uint16
	bytes               []byte
	exceptions          []excEntry
	lines               []lineEntry
	vars                []varEntry
}

// assembleCode runs two-pass label resolution over one method's item list
// and returns its fully resolved Code attribute payload.
func assembleCode(m *ast.MethodDef, pool *cpanalyzer.Pool) (*codeAssembly, error) {
	labelOffset, err := computeLabelOffsets(m.Items)
	if err != nil {
		return nil, err
	}

	asm := &codeAssembly{maxStack: 1, maxLocals: 1}
	var offset int
	for _, item := range m.Items {
		switch it := item.(type) {
		case ast.Label:
			continue
		case ast.LimitStack:
			asm.maxStack = it.N
		case ast.LimitLocals:
			asm.maxLocals = it.N
		case ast.LineNumber:
			asm.lines = append(asm.lines, lineEntry{pc: uint16(offset), line: it.Line})
		case ast.Var:
			start, ok := labelOffset[it.From]
			if !ok {
				return nil, errors.Errorf("method %s: .var references undefined label %q", m.Name, it.From)
			}
			end, ok := labelOffset[it.To]
			if !ok {
				return nil, errors.Errorf("method %s: .var references undefined label %q", m.Name, it.To)
			}
			asm.vars = append(asm.vars, varEntry{
				startPC: uint16(start), length: uint16(end - start),
				nameIdx: pool.Utf8(it.Name), descIdx: pool.Utf8(it.Descriptor.String()),
				slot: it.Num,
			})
		case ast.Catch:
			from, ok := labelOffset[it.From]
			if !ok {
				return nil, errors.Errorf("method %s: .catch references undefined label %q", m.Name, it.From)
			}
			to, ok := labelOffset[it.To]
			if !ok {
				return nil, errors.Errorf("method %s: .catch references undefined label %q", m.Name, it.To)
			}
			handler, ok := labelOffset[it.Handler]
			if !ok {
				return nil, errors.Errorf("method %s: .catch references undefined label %q", m.Name, it.Handler)
			}
			var catchIdx uint16
			if it.ClassName != "" {
				catchIdx = pool.Class(it.ClassName)
			}
			asm.exceptions = append(asm.exceptions, excEntry{
				startPC: uint16(from), endPC: uint16(to), handlerPC: uint16(handler), catchTypeIdx: catchIdx,
			})
		case ast.Throws:
			// interned elsewhere into the Exceptions attribute; no bearing on bytecode
		case ast.Instruction:
			b, err := emitInstruction(it, offset, labelOffset, pool)
			if err != nil {
				return nil, errors.Wrapf(err, "method %s", m.Name)
			}
			asm.bytes = append(asm.bytes, b...)
			offset += len(b)
		}
	}
	return asm, nil
}

// computeLabelOffsets performs pass 1: a single forward walk assigning each
// label its byte offset from the start of the method, sizing
// variable-length instructions (tableswitch/lookupswitch padding) as it
// goes so later offsets are exact.
func computeLabelOffsets(items []ast.MethodItem) (map[string]int, error) {
	offsets := make(map[string]int)
	var offset int
	for _, item := range items {
		switch it := item.(type) {
		case ast.Label:
			offsets[it.Name] = offset
		case ast.Instruction:
			offset += instructionSize(it, offset)
		}
	}
	return offsets, nil
}

// instructionSize returns the number of bytes this instruction will occupy
// once emitted at byte offset (the instruction's own opcode byte is at
// offset). tableswitch/lookupswitch need offset because their padding
// depends on where they land.
func instructionSize(ins ast.Instruction, offset int) int {
	switch in := ins.(type) {
	case ast.Simple:
		return 1
	case ast.VarInstr:
		return 2
	case ast.Iinc:
		return 3
	case ast.Wide:
		if in.IsIinc {
			return 6 // wide(1) + opcode(1) + index(2) + const(2)
		}
		return 4 // wide(1) + opcode(1) + index(2)
	case ast.IntImm:
		if in.Mnemonic == "sipush" {
			return 3
		}
		return 2 // bipush
	case ast.NewArray:
		return 2
	case ast.Ldc:
		return 2
	case ast.LdcW, ast.Ldc2W:
		return 3
	case ast.ClassRef:
		return 3
	case ast.MultiANewArray:
		return 4
	case ast.FieldRef:
		return 3
	case ast.MethodRef:
		return 3
	case ast.InvokeInterface:
		return 5
	case ast.Branch:
		if in.Mnemonic == "goto_w" || in.Mnemonic == "jsr_w" {
			return 5
		}
		return 3
	case ast.TableSwitch:
		pad := padLen(offset)
		return 1 + pad + 4 + 4 + 4 + 4*len(in.Targets)
	case ast.LookupSwitch:
		pad := padLen(offset)
		return 1 + pad + 4 + 4 + 8*len(in.Pairs)
	default:
		return 1
	}
}

// padLen returns the number of zero-padding bytes tableswitch/lookupswitch
// need so their body starts on a 4-byte boundary relative to the method's
// start: the opcode occupies offset, so padding brings offset+1 up to a
// multiple of 4.
func padLen(offset int) int {
	rem := (offset + 1) % 4
	if rem == 0 {
		return 0
	}
	return 4 - rem
}

func emitInstruction(ins ast.Instruction, offset int, labels map[string]int, pool *cpanalyzer.Pool) ([]byte, error) {
	op, ok := opcodeByte[ins.Op()]
	if !ok {
		return nil, errors.Errorf("opcode %q has no JVM encoding", ins.Op())
	}

	switch in := ins.(type) {
	case ast.Simple:
		return []byte{op}, nil

	case ast.VarInstr:
		return []byte{op, in.Var}, nil

	case ast.Iinc:
		return []byte{op, in.Var, byte(in.Delta)}, nil

	case ast.Wide:
		wideOp, ok := opcodeByte[in.Mnemonic]
		if !ok {
			return nil, errors.Errorf("wide: unknown mnemonic %q", in.Mnemonic)
		}
		out := []byte{0xc4, wideOp, byte(in.Var16 >> 8), byte(in.Var16)}
		if in.IsIinc {
			out = append(out, byte(uint16(in.Delta16)>>8), byte(in.Delta16))
		}
		return out, nil

	case ast.IntImm:
		if in.Mnemonic == "sipush" {
			v := uint16(in.Value)
			return []byte{op, byte(v >> 8), byte(v)}, nil
		}
		return []byte{op, byte(int8(in.Value))}, nil

	case ast.NewArray:
		atype, ok := newarrayType[in.Type]
		if !ok {
			return nil, errors.Errorf("newarray: unknown primitive type %q", in.Type)
		}
		return []byte{op, atype}, nil

	case ast.Ldc:
		idx := ldcIndex(pool, in.Value)
		return []byte{op, byte(idx)}, nil

	case ast.LdcW:
		idx := ldcIndex(pool, in.Value)
		return []byte{op, byte(idx >> 8), byte(idx)}, nil

	case ast.Ldc2W:
		var idx uint16
		if in.Value.IsLong {
			idx = pool.Long(in.Value.Long)
		} else {
			idx = pool.Double(in.Value.Double)
		}
		return []byte{op, byte(idx >> 8), byte(idx)}, nil

	case ast.ClassRef:
		idx := pool.Class(in.ClassName)
		return []byte{op, byte(idx >> 8), byte(idx)}, nil

	case ast.MultiANewArray:
		idx := pool.Class(in.Descriptor)
		return []byte{op, byte(idx >> 8), byte(idx), in.Dimensions}, nil

	case ast.FieldRef:
		idx := pool.Fieldref(in.ClassName, in.Name, in.Descriptor.String())
		return []byte{op, byte(idx >> 8), byte(idx)}, nil

	case ast.MethodRef:
		idx := pool.Methodref(in.ClassName, in.Name, in.Descriptor.String())
		return []byte{op, byte(idx >> 8), byte(idx)}, nil

	case ast.InvokeInterface:
		idx := pool.InterfaceMethodref(in.ClassName, in.Name, in.Descriptor.String())
		return []byte{op, byte(idx >> 8), byte(idx), in.Count, 0}, nil

	case ast.Branch:
		target, ok := labels[in.Target]
		if !ok {
			return nil, errors.Errorf("branch to undefined label %q", in.Target)
		}
		rel := int32(target - offset)
		if in.Mnemonic == "goto_w" || in.Mnemonic == "jsr_w" {
			return []byte{op, byte(rel >> 24), byte(rel >> 16), byte(rel >> 8), byte(rel)}, nil
		}
		r := int16(rel)
		return []byte{op, byte(r >> 8), byte(r)}, nil

	case ast.TableSwitch:
		return emitTableSwitch(in, offset, labels)

	case ast.LookupSwitch:
		return emitLookupSwitch(in, offset, labels)

	default:
		return nil, errors.Errorf("unhandled instruction type %T", ins)
	}
}

func ldcIndex(pool *cpanalyzer.Pool, v ast.LdcValue) uint16 {
	switch {
	case v.IsInt:
		return pool.Integer(v.Int)
	case v.IsFloat:
		return pool.Float(v.Float)
	default:
		return pool.String(v.String)
	}
}

func emitTableSwitch(in ast.TableSwitch, offset int, labels map[string]int) ([]byte, error) {
	pad := padLen(offset)
	out := make([]byte, 0, instructionSize(in, offset))
	out = append(out, 0xaa)
	out = append(out, make([]byte, pad)...)

	def, ok := labels[in.Default]
	if !ok {
		return nil, errors.Errorf("tableswitch: undefined default label %q", in.Default)
	}
	out = append32(out, int32(def-offset))
	out = append32(out, in.Low)
	out = append32(out, in.High)
	for _, t := range in.Targets {
		tgt, ok := labels[t]
		if !ok {
			return nil, errors.Errorf("tableswitch: undefined target label %q", t)
		}
		out = append32(out, int32(tgt-offset))
	}
	return out, nil
}

func emitLookupSwitch(in ast.LookupSwitch, offset int, labels map[string]int) ([]byte, error) {
	pad := padLen(offset)
	out := make([]byte, 0, instructionSize(in, offset))
	out = append(out, 0xab)
	out = append(out, make([]byte, pad)...)

	def, ok := labels[in.Default]
	if !ok {
		return nil, errors.Errorf("lookupswitch: undefined default label %q", in.Default)
	}
	out = append32(out, int32(def-offset))
	out = append32(out, int32(len(in.Pairs)))
	for _, pr := range in.Pairs {
		tgt, ok := labels[pr.Target]
		if !ok {
			return nil, errors.Errorf("lookupswitch: undefined target label %q for key %d", pr.Target, pr.Key)
		}
		out = append32(out, pr.Key)
		out = append32(out, int32(tgt-offset))
	}
	return out, nil
}

func append32(b []byte, v int32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// codeAttributeBody renders a Code attribute's full byte payload
// (max_stack..attributes) into a buffer so its length can be measured
// before being embedded as one method attribute.
func codeAttributeBody(asm *codeAssembly, pool *cpanalyzer.Pool) []byte {
	var buf []byte
	bw := ngi.NewErrWriter(&byteSliceWriter{buf: &buf})

	bw.U2(asm.maxStack)
	bw.U2(asm.maxLocals)
	bw.U4(uint32(len(asm.bytes)))
	bw.Bytes(asm.bytes)

	bw.U2(uint16(len(asm.exceptions)))
	for _, e := range asm.exceptions {
		bw.U2(e.startPC)
		bw.U2(e.endPC)
		bw.U2(e.handlerPC)
		bw.U2(e.catchTypeIdx)
	}

	var nested int
	if len(asm.lines) > 0 {
		nested++
	}
	if len(asm.vars) > 0 {
		nested++
	}
	bw.U2(uint16(nested))

	if len(asm.lines) > 0 {
		bw.U2(pool.Utf8("LineNumberTable"))
		bw.U4(uint32(2 + 4*len(asm.lines)))
		bw.U2(uint16(len(asm.lines)))
		for _, l := range asm.lines {
			bw.U2(l.pc)
			bw.U2(l.line)
		}
	}
	if len(asm.vars) > 0 {
		bw.U2(pool.Utf8("LocalVariableTable"))
		bw.U4(uint32(2 + 10*len(asm.vars)))
		bw.U2(uint16(len(asm.vars)))
		for _, v := range asm.vars {
			bw.U2(v.startPC)
			bw.U2(v.length)
			bw.U2(v.nameIdx)
			bw.U2(v.descIdx)
			bw.U2(v.slot)
		}
	}
	return buf
}

// byteSliceWriter is a minimal io.Writer over a growable byte slice, used to
// pre-render an attribute body so its length prefix can be computed.
type byteSliceWriter struct{ buf *[]byte }

func (b *byteSliceWriter) Write(p []byte) (int, error) {
	*b.buf = append(*b.buf, p...)
	return len(p), nil
}
