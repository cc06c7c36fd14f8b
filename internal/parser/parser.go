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

// Package parser is a top-down recursive-descent parser producing an
// *ast.Program plus a boolean "errored" flag. It never halts on a
// single syntax error: each production reports a diagnostic, substitutes a
// default node, and continues — the same panic-mode recovery style as
// original_source/src/parser/mod.rs's ~40 inline
// "report_diagnostic(...); self.errored = true;" call sites, adapted to a
// sticky Parser.errored field plus a capped diagnostic.Diagnostics slice.
package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phoronlang/phoron/internal/ast"
	"github.com/phoronlang/phoron/internal/descriptor"
	"github.com/phoronlang/phoron/internal/diagnostic"
	"github.com/phoronlang/phoron/internal/lexer"
	"github.com/phoronlang/phoron/internal/sourcefile"
)

// maxErrors caps the diagnostics a single Parse accumulates, so a
// thoroughly malformed file does not produce an unbounded report.
const maxErrors = 50

// Parser holds the full token stream for one source file, materialized up
// front since productions like MethodDescriptor need to look across
// "(" ... ")" before committing.
type Parser struct {
	file    *sourcefile.File
	toks    []lexer.Token
	pos     int
	diags   diagnostic.Diagnostics
	errored bool
}

// New lexes file in full and returns a Parser positioned at the first
// token. Lexical errors become diagnostics immediately; the parser still
// runs over whatever tokens the lexer did produce.
func New(file *sourcefile.File) *Parser {
	l := lexer.New(file)
	p := &Parser{file: file}
	for {
		tok := l.Next()
		p.toks = append(p.toks, tok)
		if tok.Kind == lexer.EOF {
			break
		}
	}
	for _, e := range l.Errors() {
		p.errored = true
		p.report(e.Span, "%s", e.Msg)
	}
	return p
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool { return p.cur().Kind == lexer.EOF }

func (p *Parser) abort() bool { return len(p.diags) >= maxErrors }

func (p *Parser) report(span sourcefile.Span, format string, args ...any) {
	if p.abort() {
		return
	}
	p.errored = true
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	p.diags = append(p.diags, diagnostic.Diagnostic{
		Stage:    diagnostic.StageParser,
		Level:    diagnostic.LevelError,
		Location: p.file.Location(span.Start),
		Message:  msg,
	})
}

// isDirective reports whether the current token is a Directive with the
// given name (e.g. "class", "method", "end").
func (p *Parser) isDirective(name string) bool {
	t := p.cur()
	return t.Kind == lexer.Directive && t.Text == name
}

// expectIdent consumes and returns the current token's text if it is an
// Ident; otherwise reports a diagnostic and returns a default placeholder
// without consuming, so the caller's synchronization point stays intact.
func (p *Parser) expectIdent(context string) string {
	t := p.cur()
	if t.Kind == lexer.Ident {
		p.advance()
		return t.Text
	}
	p.report(t.Span, "expected %s, found %s", context, t.Kind)
	return "<missing>"
}

// Parse runs the full grammar over the token stream and returns the
// resulting Program together with the accumulated diagnostics and whether
// any were fatal enough to prevent codegen: a caller refuses to write
// output if Parser.errored is true, or if lexing reported errors.
func (p *Parser) Parse(className string) (*ast.Program, diagnostic.Diagnostics, bool) {
	prog := &ast.Program{}

	if p.isDirective("source") {
		p.advance()
		prog.SourceFile = p.expectIdent("source file name")
	}

	prog.Header = p.parseHeader()
	prog.Body = p.parseBody()

	if prog.SourceFile == "" {
		// Mandatory-but-defaulted, per the resolved Open Question: default
		// to the class's simple name with a .java suffix, matching javac.
		name := prog.Header.ClassName
		if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
			name = name[idx+1:]
		}
		if name == "" {
			name = className
		}
		prog.SourceFile = name + ".java"
	}

	return prog, p.diags, p.errored
}

func (p *Parser) parseHeader() ast.Header {
	h := ast.Header{}

	switch {
	case p.isDirective("class"):
		p.advance()
		h.IsInterface = false
	case p.isDirective("interface"):
		p.advance()
		h.IsInterface = true
	default:
		p.report(p.cur().Span, "expected '.class' or '.interface', found %s", p.cur().Kind)
	}

	h.AccessFlags = p.parseAccessFlags(classAccessKeywords)
	h.ClassName = p.expectIdent("class name")

	if p.isDirective("super") {
		p.advance()
		h.SuperClass = p.expectIdent("super class name")
	} else {
		p.report(p.cur().Span, "expected '.super' directive")
		h.SuperClass = "java/lang/Object"
	}

	for p.isDirective("implements") {
		p.advance()
		h.Implements = append(h.Implements, p.expectIdent("interface name"))
	}

	if h.IsInterface {
		h.AccessFlags = ensureFlag(h.AccessFlags, ast.Abstract)
	} else {
		h.AccessFlags = ensureFlag(h.AccessFlags, ast.Super)
	}

	return h
}

func ensureFlag(flags []ast.AccessFlag, f ast.AccessFlag) []ast.AccessFlag {
	for _, existing := range flags {
		if existing == f {
			return flags
		}
	}
	return append(flags, f)
}

var classAccessKeywords = map[string]ast.AccessFlag{
	"public": ast.Public, "final": ast.Final, "abstract": ast.Abstract,
	"synthetic": ast.Synthetic, "annotation": ast.Annotation, "enum": ast.Enum, "module": ast.Module,
}

var fieldAccessKeywords = map[string]ast.AccessFlag{
	"public": ast.Public, "private": ast.Private, "protected": ast.Protected, "static": ast.Static,
	"final": ast.Final, "volatile": ast.Volatile, "transient": ast.Transient,
	"synthetic": ast.Synthetic, "enum": ast.Enum,
}

var methodAccessKeywords = map[string]ast.AccessFlag{
	"public": ast.Public, "private": ast.Private, "protected": ast.Protected, "static": ast.Static,
	"final": ast.Final, "synchronized": ast.Synchronized, "bridge": ast.Bridge, "varargs": ast.Varargs,
	"native": ast.Native, "abstract": ast.Abstract, "strict": ast.Strict, "synthetic": ast.Synthetic,
}

// parseAccessFlags greedily consumes Ident tokens that name a flag in the
// given dictionary. Duplicates are allowed; de-duplication is the code
// generator's concern, not the parser's.
func (p *Parser) parseAccessFlags(dict map[string]ast.AccessFlag) []ast.AccessFlag {
	var flags []ast.AccessFlag
	for p.cur().Kind == lexer.Ident {
		flag, ok := dict[p.cur().Text]
		if !ok {
			break
		}
		p.advance()
		flags = append(flags, flag)
	}
	return flags
}

func (p *Parser) parseBody() ast.Body {
	var b ast.Body
	for p.isDirective("field") && !p.abort() {
		b.Fields = append(b.Fields, p.parseFieldDef())
	}
	for p.isDirective("method") && !p.abort() {
		b.Methods = append(b.Methods, p.parseMethodDef())
	}
	return b
}

func (p *Parser) parseFieldDef() *ast.FieldDef {
	p.advance() // '.field'
	f := &ast.FieldDef{}
	f.AccessFlags = p.parseAccessFlags(fieldAccessKeywords)
	f.Name = p.expectIdent("field name")

	descText := p.expectIdent("field descriptor")
	fd, err := descriptor.ParseField(descText)
	if err != nil {
		p.report(p.cur().Span, "malformed field descriptor %q: %s", descText, err.Error())
	}
	f.Descriptor = fd

	if p.cur().Kind == lexer.Equals {
		p.advance()
		f.Init = p.parseFieldInit()
	}
	return f
}

func (p *Parser) parseFieldInit() ast.FieldInitValue {
	t := p.advance()
	switch t.Kind {
	case lexer.IntLit:
		return ast.FieldInitValue{HasValue: true, IsInt: true, Int: int32(t.Int)}
	case lexer.FloatLit:
		return ast.FieldInitValue{HasValue: true, IsDouble: true, Double: t.Flt}
	case lexer.StringLit:
		return ast.FieldInitValue{HasValue: true, IsString: true, String: t.Text}
	default:
		p.report(t.Span, "expected a constant field initializer, found %s", t.Kind)
		return ast.FieldInitValue{}
	}
}

func (p *Parser) parseMethodDef() *ast.MethodDef {
	p.advance() // '.method'
	m := &ast.MethodDef{}
	m.AccessFlags = p.parseAccessFlags(methodAccessKeywords)
	m.Name = p.expectIdent("method name")
	m.Descriptor = p.parseMethodDescriptor()

	for !p.isDirective("end") && !p.atEOF() && !p.abort() {
		item := p.parseMethodItem()
		if item != nil {
			m.Items = append(m.Items, item)
		}
	}
	if p.isDirective("end") {
		p.advance()
		if p.cur().Kind == lexer.Ident && p.cur().Text == "method" {
			p.advance()
		} else {
			p.report(p.cur().Span, "expected 'method' after '.end'")
		}
	} else {
		p.report(p.cur().Span, "expected '.end method'")
	}
	return m
}

// parseMethodDescriptor recognizes "(" params ")" returnType, handing the
// raw text between parens and after the closing paren to the descriptor
// package. Used both for a .method declaration's
// descriptor and for the descriptor operand of invokeXXX instructions.
func (p *Parser) parseMethodDescriptor() descriptor.Method {
	if p.cur().Kind != lexer.LeftParen {
		p.report(p.cur().Span, "expected '(' to start method descriptor")
		return descriptor.Method{Return: descriptor.Return{Void: true}}
	}
	p.advance()

	var params []descriptor.Field
	var paramText string
	if p.cur().Kind == lexer.Ident && p.peekAt(1).Kind == lexer.RightParen {
		paramText = p.advance().Text
		var err error
		params, err = descriptor.ParseParams(paramText)
		if err != nil {
			p.report(p.cur().Span, "malformed parameter descriptor %q: %s", paramText, err.Error())
		}
	}

	if p.cur().Kind != lexer.RightParen {
		p.report(p.cur().Span, "expected ')' to close method descriptor")
	} else {
		p.advance()
	}

	var ret descriptor.Return
	if p.cur().Kind == lexer.Ident {
		text := p.advance().Text
		var err error
		ret, err = descriptor.ParseReturn(text)
		if err != nil {
			p.report(p.cur().Span, "malformed return descriptor %q: %s", text, err.Error())
		}
	} else {
		p.report(p.cur().Span, "expected a return descriptor")
		ret = descriptor.Return{Void: true}
	}

	return descriptor.Method{Params: params, Return: ret}
}

// parseMethodItem recognizes one Directive, Label, or Instruction. It
// returns nil (consuming nothing useful) only when it had to skip an
// unrecoverable token to make progress, preventing an infinite loop.
func (p *Parser) parseMethodItem() ast.MethodItem {
	t := p.cur()

	if t.Kind == lexer.Directive {
		return p.parseDirective()
	}

	if t.Kind == lexer.Ident && p.peekAt(1).Kind == lexer.Colon {
		name := p.advance().Text
		p.advance() // ':'
		return ast.Label{Name: name}
	}

	if t.Kind == lexer.Ident {
		if shape, ok := opcodeTable[t.Text]; ok {
			return p.parseInstruction(t.Text, shape)
		}
		if suggestion, ok := suggestOpcode(t.Text); ok {
			p.report(t.Span, "unrecognized opcode %q — did you mean %q?", t.Text, suggestion)
		} else {
			p.report(t.Span, "unrecognized opcode %q", t.Text)
		}
		p.advance()
		return nil
	}

	p.report(t.Span, "unexpected token %s in method body", t.Kind)
	p.advance()
	return nil
}

func (p *Parser) parseDirective() ast.MethodItem {
	name := p.advance().Text
	switch name {
	case "limit":
		kind := p.expectIdent("'stack' or 'locals'")
		n := p.expectInt("limit value")
		if kind == "locals" {
			return ast.LimitLocals{N: uint16(n)}
		}
		return ast.LimitStack{N: uint16(n)}
	case "throws":
		return ast.Throws{ClassName: p.expectIdent("class name")}
	case "line":
		return ast.LineNumber{Line: uint16(p.expectInt("line number"))}
	case "var":
		return p.parseVarDirective()
	case "catch":
		return p.parseCatchDirective()
	default:
		p.report(p.cur().Span, "unrecognized directive '.%s'", name)
		return nil
	}
}

func (p *Parser) expectInt(context string) int64 {
	t := p.cur()
	if t.Kind == lexer.IntLit {
		p.advance()
		return t.Int
	}
	p.report(t.Span, "expected %s, found %s", context, t.Kind)
	return 0
}

// parseVarDirective reads ".var N is Name FieldDescriptor from L1 to L2",
// using connective keywords ("is"/"from"/"to") to keep a compact one-line
// directive readable.
func (p *Parser) parseVarDirective() ast.Var {
	v := ast.Var{}
	v.Num = uint16(p.expectInt("local variable number"))
	p.expectKeyword("is")
	v.Name = p.expectIdent("local variable name")
	descText := p.expectIdent("local variable descriptor")
	fd, err := descriptor.ParseField(descText)
	if err != nil {
		p.report(p.cur().Span, "malformed local variable descriptor %q: %s", descText, err.Error())
	}
	v.Descriptor = fd
	p.expectKeyword("from")
	v.From = p.expectIdent("range start label")
	p.expectKeyword("to")
	v.To = p.expectIdent("range end label")
	return v
}

// parseCatchDirective reads ".catch ClassName|all from L1 to L2 using L3".
func (p *Parser) parseCatchDirective() ast.Catch {
	c := ast.Catch{}
	name := p.expectIdent("exception class name or 'all'")
	if name != "all" {
		c.ClassName = name
	}
	p.expectKeyword("from")
	c.From = p.expectIdent("range start label")
	p.expectKeyword("to")
	c.To = p.expectIdent("range end label")
	p.expectKeyword("using")
	c.Handler = p.expectIdent("handler label")
	return c
}

func (p *Parser) expectKeyword(kw string) {
	t := p.cur()
	if t.Kind == lexer.Ident && t.Text == kw {
		p.advance()
		return
	}
	p.report(t.Span, "expected %q, found %s", kw, t.Kind)
}

func (p *Parser) parseInstruction(mnemonic string, shape opShape) ast.Instruction {
	switch shape {
	case shapeSimple:
		return ast.Simple{Mnemonic: mnemonic}

	case shapeVar:
		return ast.VarInstr{Mnemonic: mnemonic, Var: uint8(p.expectInt("varnum operand"))}

	case shapeIinc:
		v := uint8(p.expectInt("local variable index"))
		d := p.expectInt("increment constant")
		return ast.Iinc{Var: v, Delta: int8(d)}

	case shapeWide:
		return p.parseWide()

	case shapeBipush:
		return ast.IntImm{Mnemonic: mnemonic, Value: int32(p.expectInt("byte operand"))}

	case shapeSipush:
		return ast.IntImm{Mnemonic: mnemonic, Value: int32(p.expectInt("short operand"))}

	case shapeNewArray:
		return ast.NewArray{Type: p.expectIdent("primitive array type")}

	case shapeLdc:
		return ast.Ldc{Value: p.parseLdcValue()}

	case shapeLdcW:
		return ast.LdcW{Value: p.parseLdcValue()}

	case shapeLdc2W:
		return ast.Ldc2W{Value: p.parseLdc2WValue()}

	case shapeClassRef:
		return ast.ClassRef{Mnemonic: mnemonic, ClassName: p.expectIdent("class name")}

	case shapeMultiANewArray:
		desc := p.expectIdent("array descriptor")
		dims := uint8(p.expectInt("dimension count"))
		return ast.MultiANewArray{Descriptor: desc, Dimensions: dims}

	case shapeFieldRef:
		class, name := p.splitClassMember(p.expectIdent("Class/FieldName"))
		descText := p.expectIdent("field descriptor")
		fd, err := descriptor.ParseField(descText)
		if err != nil {
			p.report(p.cur().Span, "malformed field descriptor %q: %s", descText, err.Error())
		}
		return ast.FieldRef{Mnemonic: mnemonic, ClassName: class, Name: name, Descriptor: fd}

	case shapeMethodRef:
		class, name := p.splitClassMember(p.expectIdent("Class/MethodName"))
		md := p.parseMethodDescriptor()
		return ast.MethodRef{Mnemonic: mnemonic, ClassName: class, Name: name, Descriptor: md}

	case shapeInvokeInterface:
		class, name := p.splitClassMember(p.expectIdent("Class/MethodName"))
		md := p.parseMethodDescriptor()
		count := uint8(p.expectInt("argument count"))
		return ast.InvokeInterface{ClassName: class, Name: name, Descriptor: md, Count: count}

	case shapeBranch:
		return ast.Branch{Mnemonic: mnemonic, Target: p.expectIdent("branch target label")}

	case shapeTableSwitch:
		return p.parseTableSwitch()

	case shapeLookupSwitch:
		return p.parseLookupSwitch()

	case shapeUnsupported:
		p.report(p.cur().Span, "'%s' has no JVM opcode encoding", mnemonic)
		return ast.Simple{Mnemonic: mnemonic}

	default:
		p.report(p.cur().Span, "internal: unhandled opcode shape for '%s'", mnemonic)
		return ast.Simple{Mnemonic: mnemonic}
	}
}

// splitClassMember splits "ClassName/MemberName" at the last '/', the
// convention field and method reference operands use throughout.
func (p *Parser) splitClassMember(combined string) (class, member string) {
	idx := strings.LastIndexByte(combined, '/')
	if idx < 0 {
		p.report(p.cur().Span, "expected 'Class/Member', found %q", combined)
		return combined, ""
	}
	return combined[:idx], combined[idx+1:]
}

func (p *Parser) parseWide() ast.Instruction {
	inner := p.expectIdent("load/store/iinc opcode after 'wide'")
	if inner == "iinc" {
		v := uint16(p.expectInt("local variable index"))
		d := p.expectInt("increment constant")
		return ast.Wide{Mnemonic: "iinc", IsIinc: true, Var16: v, Delta16: int16(d)}
	}
	if shape, ok := opcodeTable[inner]; !ok || shape != shapeVar {
		p.report(p.cur().Span, "'wide' must be followed by a load/store opcode or 'iinc', found %q", inner)
	}
	v := uint16(p.expectInt("varnum operand"))
	return ast.Wide{Mnemonic: inner, Var16: v}
}

func (p *Parser) parseLdcValue() ast.LdcValue {
	t := p.advance()
	switch t.Kind {
	case lexer.IntLit:
		return ast.LdcValue{IsInt: true, Int: int32(t.Int)}
	case lexer.FloatLit:
		return ast.LdcValue{IsFloat: true, Float: float32(t.Flt)}
	case lexer.StringLit:
		return ast.LdcValue{IsString: true, String: t.Text}
	default:
		p.report(t.Span, "expected an int, float, or string constant, found %s", t.Kind)
		return ast.LdcValue{}
	}
}

func (p *Parser) parseLdc2WValue() ast.Ldc2WValue {
	t := p.advance()
	switch t.Kind {
	case lexer.IntLit:
		return ast.Ldc2WValue{IsLong: true, Long: t.Int}
	case lexer.FloatLit:
		return ast.Ldc2WValue{Double: t.Flt}
	default:
		p.report(t.Span, "expected a long or double constant, found %s", t.Kind)
		return ast.Ldc2WValue{}
	}
}

func (p *Parser) parseTableSwitch() ast.Instruction {
	low := int32(p.expectInt("low bound"))
	high := int32(p.expectInt("high bound"))
	var targets []string
	for i := low; i <= high && !p.abort(); i++ {
		targets = append(targets, p.expectIdent("jump target label"))
	}
	p.expectKeyword("default")
	if p.cur().Kind == lexer.Colon {
		p.advance()
	}
	def := p.expectIdent("default target label")
	return ast.TableSwitch{Low: low, High: high, Targets: targets, Default: def}
}

func (p *Parser) parseLookupSwitch() ast.Instruction {
	var pairs []ast.LookupPair
	for p.cur().Kind == lexer.IntLit {
		key := int32(p.advance().Int)
		if p.cur().Kind == lexer.Colon {
			p.advance()
		}
		target := p.expectIdent("jump target label")
		pairs = append(pairs, ast.LookupPair{Key: key, Target: target})
	}
	p.expectKeyword("default")
	if p.cur().Kind == lexer.Colon {
		p.advance()
	}
	def := p.expectIdent("default target label")

	// The JVM requires ascending keys; the caller needn't sort them.
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })

	return ast.LookupSwitch{Pairs: pairs, Default: def}
}
