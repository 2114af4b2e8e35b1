// Copyright Apotell Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package parser

import (
	"github.com/Apotell/surelog-core/pkg/ast"
	"github.com/Apotell/surelog-core/pkg/diag"
	"github.com/Apotell/surelog-core/pkg/source"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// Parser drives a single file's tokens into an ast.FileContent arena. It
// holds no cross-file state -- spec.md section 5 runs one Parser per file
// concurrently across a worker pool, each with its own arena.
type Parser struct {
	toks []Token
	pos  int

	fc        *ast.FileContent
	symbols   *symtab.Table
	path      symtab.PathId
	errs      *diag.Container
	originMap *source.Map
}

// ParseFile tokenizes and parses one preprocessed file's text, returning
// its populated FileContent. Syntax errors are recorded in errs and
// parsing resumes at the next recognizable top-level boundary, matching
// spec.md section 6's "errors are data" propagation policy -- a malformed
// declaration never aborts the whole file. Every position the parser
// records -- both diagnostics and the Loc tags carried on AST nodes, which
// later compile/resolve/elaborate/integrity diagnostics reuse -- is
// translated through originMap first, so an error inside an `include`d
// file or a macro expansion is reported at the original source location
// rather than the preprocessed stream's own coordinates (spec.md section
// 4.2's "the token's origin map lookup is used to point the diagnostic at
// original source"). originMap may be nil (e.g. in tests that construct
// already-preprocessed text directly), in which case positions pass
// through unchanged against path.
func ParseFile(symbols *symtab.Table, errs *diag.Container, library string, path symtab.PathId, text string, originMap *source.Map) *ast.FileContent {
	lex := NewLexer(text)

	var toks []Token

	for {
		tok := lex.Next()
		toks = append(toks, tok)

		if tok.Kind == TokEOF {
			break
		}
	}

	p := &Parser{toks: toks, fc: ast.NewFileContent(library, path), symbols: symbols, path: path, errs: errs, originMap: originMap}
	p.parseDesign()

	return p.fc
}

// translate maps a (line, col) position in the preprocessed stream p
// parsed back to its true source (file, line, col), via originMap when one
// was supplied.
func (p *Parser) translate(line, col uint32) (symtab.PathId, uint32, uint32) {
	if p.originMap == nil {
		return p.path, line, col
	}

	loc := p.originMap.Lookup(line, col)

	return loc.File, loc.Span.Start.Line, loc.Span.Start.Column
}

func (p *Parser) peek() Token      { return p.toks[p.pos] }
func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.pos+n]
}

func (p *Parser) next() Token {
	t := p.toks[p.pos]
	if t.Kind != TokEOF {
		p.pos++
	}

	return t
}

func (p *Parser) atEOF() bool { return p.peek().Kind == TokEOF }

// accept consumes the next token if its text matches text, reporting
// whether it did.
func (p *Parser) accept(text string) bool {
	if p.peek().Text == text {
		p.next()
		return true
	}

	return false
}

// expect consumes the next token if it matches text, else records a
// ParseSyntax diagnostic at the current position and leaves the cursor
// in place so the caller's recovery loop can skip forward.
func (p *Parser) expect(text string) bool {
	if p.accept(text) {
		return true
	}

	p.syntaxError("expected '" + text + "', found '" + p.peek().Text + "'")

	return false
}

func (p *Parser) expectIdent() (symtab.SymbolId, bool) {
	t := p.peek()
	if t.Kind != TokIdent {
		p.syntaxError("expected identifier, found '" + t.Text + "'")
		return symtab.BadSymbolId, false
	}

	p.next()

	return p.symbols.Register(t.Text), true
}

func (p *Parser) syntaxError(msg string) {
	t := p.peek()
	file, line, col := p.translate(t.Line, t.Column)
	p.errs.Add(diag.Error{
		Kind:     diag.ParseSyntax,
		Severity: diag.SeverityError,
		Primary:  diag.Location{PathId: uint32(file), Line: line, Column: col},
		Message:  msg,
	})
}

func (p *Parser) loc(t Token) Loc {
	file, line, col := p.translate(t.Line, t.Column)
	return Loc{File: file, Line: line, Column: col}
}

// Loc is the position a parsed VObject was created at; duplicated here
// (rather than importing pkg/design.Loc) to keep pkg/parser's only
// downstream dependency the ast arena it builds.
type Loc struct {
	File   symtab.PathId
	Line   uint32
	Column uint32
}

// alloc appends a node with children already parsed, matching the
// arena's append-only bottom-up discipline (pkg/ast.FileContent).
func (p *Parser) alloc(kind ast.Kind, sym symtab.SymbolId, at Token, children []ast.Id) ast.Id {
	id := p.fc.Alloc(ast.VObject{
		Symbol: sym,
		File:   p.path,
		Line:   at.Line,
		Column: at.Column,
		Type:   kind,
	})

	for _, c := range children {
		if c != ast.NoId {
			p.fc.AppendChild(id, c)
		}
	}

	return id
}

// parseDesign parses every top-level declaration in the file and wires
// them under a synthetic KindDesign root, allocated last so it satisfies
// arena monotonicity.
func (p *Parser) parseDesign() {
	var tops []ast.Id

	for !p.atEOF() {
		start := p.pos

		switch {
		case p.peek().Text == "module":
			tops = append(tops, p.parseModule())
		case p.peek().Text == "interface":
			tops = append(tops, p.parseInterface())
		case p.peek().Text == "program":
			tops = append(tops, p.parseProgram())
		case p.peek().Text == "package":
			tops = append(tops, p.parsePackage())
		case p.peek().Text == "class":
			tops = append(tops, p.parseClass())
		case p.peek().Text == "primitive":
			tops = append(tops, p.parsePrimitive())
		case p.peek().Text == "(" && p.peekAt(1).Text == "*":
			p.skipAttributeList()
		case p.peek().Text == "import":
			tops = append(tops, p.parseImport())
		case p.peek().Text == "bind":
			tops = append(tops, p.parseBind())
		case p.peek().Text == "`":
			p.next()
		default:
			p.next()
		}

		if p.pos == start {
			// Safety valve: never spin without consuming a token.
			p.next()
		}
	}

	root := p.fc.Alloc(ast.VObject{Type: ast.KindDesign})
	for _, id := range tops {
		p.fc.AppendChild(root, id)
	}

	p.fc.Root = root
}

// skipAttributeList consumes an `(* ... *)` attribute block. Attributes
// are modeled on design.Attribute once attached to a compiled component
// (C6); at parse time we only need to not choke on the syntax.
func (p *Parser) skipAttributeList() {
	p.expect("(")
	p.expect("*")

	depth := 1
	for depth > 0 && !p.atEOF() {
		switch p.peek().Text {
		case "*":
			if p.peekAt(1).Text == ")" {
				p.next()
				p.next()
				depth--

				continue
			}

			p.next()
		default:
			p.next()
		}
	}
}

func (p *Parser) parseModule() ast.Id {
	start := p.next() // "module"

	if p.accept("automatic") || p.accept("static") {
	}

	name, _ := p.expectIdent()

	var children []ast.Id

	children = append(children, p.parseOptParamPortList()...)
	children = append(children, p.parsePortListOrSkip()...)

	p.expect(";")

	children = append(children, p.parseBodyItems("endmodule")...)
	p.expect("endmodule")

	return p.alloc(ast.KindModuleDecl, name, start, children)
}

func (p *Parser) parseInterface() ast.Id {
	start := p.next() // "interface"
	name, _ := p.expectIdent()

	var children []ast.Id

	children = append(children, p.parseOptParamPortList()...)
	children = append(children, p.parsePortListOrSkip()...)

	p.expect(";")

	children = append(children, p.parseBodyItems("endinterface")...)
	p.expect("endinterface")

	return p.alloc(ast.KindInterfaceDecl, name, start, children)
}

func (p *Parser) parseProgram() ast.Id {
	start := p.next() // "program"
	name, _ := p.expectIdent()

	var children []ast.Id

	children = append(children, p.parseOptParamPortList()...)
	children = append(children, p.parsePortListOrSkip()...)

	p.expect(";")

	children = append(children, p.parseBodyItems("endprogram")...)
	p.expect("endprogram")

	return p.alloc(ast.KindProgramDecl, name, start, children)
}

func (p *Parser) parsePackage() ast.Id {
	start := p.next() // "package"
	name, _ := p.expectIdent()
	p.expect(";")

	children := p.parseBodyItems("endpackage")
	p.expect("endpackage")

	return p.alloc(ast.KindPackageDecl, name, start, children)
}

func (p *Parser) parseClass() ast.Id {
	start := p.next() // "class"
	name, _ := p.expectIdent()

	var children []ast.Id

	if p.accept("extends") {
		base, _ := p.expectIdent()
		baseTok := p.toks[p.pos-1]
		children = append(children, p.alloc(ast.KindExtendsDecl, base, baseTok, nil))

		if p.peek().Text == "(" {
			p.skipBalanced("(", ")")
		}
	}

	p.expect(";")

	children = append(children, p.parseBodyItems("endclass")...)
	p.expect("endclass")

	return p.alloc(ast.KindClassDecl, name, start, children)
}

func (p *Parser) parsePrimitive() ast.Id {
	start := p.next() // "primitive"
	name, _ := p.expectIdent()

	p.skipBalanced("(", ")")
	p.expect(";")

	var children []ast.Id

	for !p.atEOF() && p.peek().Text != "endprimitive" {
		switch p.peek().Text {
		case "table":
			children = append(children, p.parseUdpTable())
		case "initial":
			children = append(children, p.parseProcess())
		case "input", "output", "reg":
			children = append(children, p.parseNetOrVarDecl())
		default:
			p.next()
		}
	}

	p.expect("endprimitive")

	return p.alloc(ast.KindUdpDecl, name, start, children)
}

func (p *Parser) parseUdpTable() ast.Id {
	start := p.next() // "table"

	for !p.atEOF() && p.peek().Text != "endtable" {
		p.next()
	}

	p.expect("endtable")

	return p.alloc(ast.KindStatementBlock, symtab.BadSymbolId, start, nil)
}

// parseOptParamPortList parses an optional `#( parameter ... )` list,
// returning one KindParamDecl child per parameter.
func (p *Parser) parseOptParamPortList() []ast.Id {
	if p.peek().Text != "#" {
		return nil
	}

	p.next()
	p.expect("(")

	var out []ast.Id

	for !p.atEOF() && p.peek().Text != ")" {
		if p.peek().Text == "," {
			p.next()
			continue
		}

		out = append(out, p.parseParamDecl(true))
	}

	p.expect(")")

	return out
}

// parseParamDecl parses one `parameter`/`localparam` declaration,
// possibly as a continuation (bare `NAME = value` inside a comma list
// that already named its type once).
func (p *Parser) parseParamDecl(isPort bool) ast.Id {
	start := p.peek()
	isType := false

	if p.accept("parameter") || p.accept("localparam") {
		start = p.toks[p.pos-1]
	}

	if p.accept("type") {
		isType = true
	} else {
		p.skipOptTypespec()
	}

	name, _ := p.expectIdent()

	var children []ast.Id

	if isType {
		if p.accept("=") {
			children = append(children, p.parseTypespec())
		}
	} else if p.accept("=") {
		children = append(children, p.parseExpr(0))
	}

	_ = isPort

	return p.alloc(ast.KindParamDecl, name, start, children)
}

// skipOptTypespec consumes a net/variable type prefix (signed/unsigned,
// an integer vector type keyword, or a user-defined type name) without
// building a full typespec node, used where only the following
// identifier matters (e.g. parameter declarations' own implicit type).
// A packed dimension in the prefix (`logic [W-1:0] q`) is still real
// expression content a later pass needs to fold, so it is parsed and
// returned rather than discarded as balanced punctuation.
func (p *Parser) skipOptTypespec() []ast.Id {
	var dims []ast.Id

	for {
		switch p.peek().Text {
		case "signed", "unsigned", "logic", "reg", "bit", "wire", "int",
			"integer", "byte", "shortint", "longint", "real", "shortreal",
			"string", "time", "void":
			p.next()
		case "[":
			dims = append(dims, p.parseDimension())
		default:
			return dims
		}
	}
}

// parsePortListOrSkip parses an ANSI-style port list `( ... )`, producing
// one KindPortDecl child per port. A non-ANSI (or absent) port list is
// skipped to the following `;` and yields no children -- ports declared
// in the body as separate input/output statements are picked up by
// parseBodyItems's net/var-decl path instead.
func (p *Parser) parsePortListOrSkip() []ast.Id {
	if p.peek().Text != "(" {
		return nil
	}

	save := p.pos
	p.next()

	if !p.looksLikeAnsiPort() {
		p.pos = save
		p.skipBalanced("(", ")")

		return nil
	}

	var out []ast.Id
	lastDir := "input"

	for !p.atEOF() && p.peek().Text != ")" {
		if p.peek().Text == "," {
			p.next()
			continue
		}

		out = append(out, p.parsePort(&lastDir))
	}

	p.expect(")")

	return out
}

func (p *Parser) looksLikeAnsiPort() bool {
	switch p.peek().Text {
	case "input", "output", "inout", "ref", "interface":
		return true
	case ")":
		return true
	default:
		return p.peek().Kind == TokIdent && p.peekAt(1).Kind == TokIdent
	}
}

func (p *Parser) parsePort(lastDir *string) ast.Id {
	start := p.peek()

	switch p.peek().Text {
	case "input", "output", "inout", "ref":
		*lastDir = p.next().Text
	}

	typeDims := p.skipOptTypespec()

	// interface-port shorthand: `IfcName.modport_name name`
	if p.peek().Kind == TokIdent && p.peekAt(1).Text == "." {
		p.next()
		p.next()
		p.next()
	}

	name, _ := p.expectIdent()

	children := append([]ast.Id{p.allocDirectionMarker(*lastDir, start)}, typeDims...)

	for p.peek().Text == "[" {
		children = append(children, p.parseDimension())
	}

	if p.accept("=") {
		children = append(children, p.parseExpr(0))
	}

	return p.alloc(ast.KindPortDecl, name, start, children)
}

// allocDirectionMarker records a port/argument/modport-item direction as
// a synthetic child node, since VObject carries no direction field of
// its own -- the component compiler (C6) reads it back by symbol text.
func (p *Parser) allocDirectionMarker(direction string, at Token) ast.Id {
	return p.alloc(ast.KindDirectionMarker, p.symbols.Register(direction), at, nil)
}

func (p *Parser) parseDimension() ast.Id {
	start := p.next() // "["
	hi := p.parseExpr(0)

	var lo ast.Id = ast.NoId

	if p.accept(":") {
		lo = p.parseExpr(0)
	}

	p.expect("]")

	return p.alloc(ast.KindExprSelect, symtab.BadSymbolId, start, []ast.Id{hi, lo})
}

func (p *Parser) parseBodyItems(terminator string) []ast.Id {
	var out []ast.Id

	for !p.atEOF() && p.peek().Text != terminator {
		start := p.pos
		item := p.parseBodyItem()

		if item != ast.NoId {
			out = append(out, item)
		}

		if p.pos == start {
			p.next()
		}
	}

	return out
}

func (p *Parser) parseBodyItem() ast.Id {
	switch p.peek().Text {
	case "(":
		if p.peekAt(1).Text == "*" {
			p.skipAttributeList()
			return ast.NoId
		}

		return ast.NoId
	case "parameter", "localparam":
		return p.parseParamDecl(false)
	case "typedef":
		return p.parseTypedefDecl()
	case "modport":
		return p.parseModportDecl()
	case "task":
		return p.parseSubroutine(false)
	case "function":
		return p.parseSubroutine(true)
	case "always", "always_comb", "always_ff", "always_latch", "initial", "final":
		return p.parseProcess()
	case "assign":
		return p.parseContAssign()
	case "generate":
		p.next()
		return p.parseGenerateBodyAsBlock("endgenerate")
	case "for":
		return p.parseGenerateFor()
	case "if":
		return p.parseGenerateIf()
	case "case":
		return p.parseGenerateCase()
	case "genvar":
		p.next()

		for !p.atEOF() && p.peek().Text != ";" {
			p.next()
		}

		p.expect(";")

		return ast.NoId
	case "import":
		return p.parseImport()
	case "bind":
		return p.parseBind()
	case "assert", "property", "sequence":
		return p.parseAssertion()
	case "input", "output", "inout", "wire", "logic", "reg", "tri", "tri0",
		"tri1", "triand", "trior", "wand", "wor", "uwire", "supply0",
		"supply1", "signed", "unsigned", "int", "integer", "bit", "byte",
		"shortint", "longint", "real", "shortreal", "string", "time",
		"struct", "union", "enum":
		return p.parseNetOrVarDecl()
	case ";":
		p.next()
		return ast.NoId
	default:
		if p.peek().Kind == TokIdent {
			return p.parseIdentLedItem()
		}

		return ast.NoId
	}
}

// parseIdentLedItem disambiguates `TYPE name(...);` (instantiation) from
// `TYPE name;` / `TYPE name, name2;` (a user-typedef'd net/var
// declaration), the classic SystemVerilog parsing ambiguity resolved by
// one token of lookahead past the declared name.
func (p *Parser) parseIdentLedItem() ast.Id {
	save := p.pos
	p.next() // type name

	if (p.peek().Text == "." || p.peek().Text == "::") && p.peekAt(1).Kind == TokIdent {
		// qualified type name (package::type or Type.modport) -- treat the
		// whole prefix as the type and continue past it.
		for p.peek().Text == "." || p.peek().Text == "::" {
			p.next()
			p.next()
		}
	}

	if p.peek().Text == "#" || (p.peek().Kind == TokIdent && (p.peekAt(1).Text == "(" || p.peekAt(1).Text == "[" || p.peekAt(1).Text == ",")) {
		p.pos = save
		return p.parseInstantiation()
	}

	p.pos = save

	return p.parseNetOrVarDecl()
}

func (p *Parser) parseNetOrVarDecl() ast.Id {
	start := p.peek()
	typeDims := p.skipOptTypespec()

	// Skip a user-defined type name / package-qualified type, if present.
	if p.peek().Kind == TokIdent && p.peekAt(1).Kind != TokPunct || (p.peek().Kind == TokIdent && (p.peekAt(1).Text == "[" || p.peekAt(1).Text == "," || p.peekAt(1).Text == ";" || p.peekAt(1).Text == "=")) {
		// Could be either the type name or the first declared identifier;
		// parseDeclNames below handles both by re-reading from here.
	}

	if p.peek().Kind == TokIdent && isLikelyTypeName(p) {
		p.next()
	}

	var out []ast.Id

	for {
		name, ok := p.expectIdent()
		if !ok {
			break
		}

		nstart := p.toks[p.pos-1]

		children := append([]ast.Id{}, typeDims...)

		for p.peek().Text == "[" {
			children = append(children, p.parseDimension())
		}

		if p.accept("=") {
			children = append(children, p.parseExpr(0))
		}

		out = append(out, p.alloc(ast.KindNetDecl, name, nstart, children))

		if !p.accept(",") {
			break
		}
	}

	p.expect(";")

	if len(out) == 1 {
		return out[0]
	}

	return p.alloc(ast.KindStatementBlock, symtab.BadSymbolId, start, out)
}

// isLikelyTypeName guesses whether the identifier at the cursor is a
// user-defined type name preceding the declared identifier(s), by
// checking that a second identifier follows it directly.
func isLikelyTypeName(p *Parser) bool {
	return p.peekAt(1).Kind == TokIdent
}

func (p *Parser) parseTypedefDecl() ast.Id {
	start := p.next() // "typedef"
	typ := p.parseTypespec()
	name, _ := p.expectIdent()
	p.expect(";")

	return p.alloc(ast.KindTypedefDecl, name, start, []ast.Id{typ})
}

func (p *Parser) parseModportDecl() ast.Id {
	start := p.next() // "modport"
	name, _ := p.expectIdent()
	p.expect("(")

	var items []ast.Id
	dir := "input"

	for !p.atEOF() && p.peek().Text != ")" {
		switch p.peek().Text {
		case ",":
			p.next()
		case "input", "output", "inout":
			dir = p.next().Text
		default:
			itemName, ok := p.expectIdent()
			if !ok {
				p.next()
				continue
			}

			itemTok := p.toks[p.pos-1]
			items = append(items, p.alloc(ast.KindModportItem, itemName, itemTok, []ast.Id{p.allocDirectionMarker(dir, itemTok)}))
		}
	}

	p.expect(")")
	p.expect(";")

	return p.alloc(ast.KindModportDecl, name, start, items)
}

func (p *Parser) parseSubroutine(isFunction bool) ast.Id {
	start := p.next() // "task"/"function"
	terminator := "endtask"

	p.accept("automatic")
	p.accept("static")

	if isFunction {
		terminator = "endfunction"

		if p.peek().Text != "new" {
			p.skipOptTypespec()

			if p.peek().Kind == TokIdent && p.peekAt(1).Kind == TokIdent {
				p.next()
			}
		}
	}

	name, _ := p.expectIdent()

	var children []ast.Id

	if p.peek().Text == "(" {
		p.next()

		for !p.atEOF() && p.peek().Text != ")" {
			if p.peek().Text == "," {
				p.next()
				continue
			}

			children = append(children, p.parseArgDecl())
		}

		p.expect(")")
	}

	p.expect(";")

	// Body is deferred per spec.md section 4.3 ("compile function and task
	// signatures (bodies deferred)") -- skip to the matching terminator.
	for !p.atEOF() && p.peek().Text != terminator {
		p.next()
	}

	p.expect(terminator)

	kind := ast.KindTaskDecl
	if isFunction {
		kind = ast.KindFunctionDecl
	}

	return p.alloc(kind, name, start, children)
}

func (p *Parser) parseArgDecl() ast.Id {
	start := p.peek()
	dir := "input"

	switch p.peek().Text {
	case "input", "output", "inout", "ref":
		dir = p.next().Text
	}

	typeDims := p.skipOptTypespec()

	if p.peek().Kind == TokIdent && p.peekAt(1).Kind == TokIdent {
		p.next()
	}

	name, _ := p.expectIdent()

	children := append([]ast.Id{p.allocDirectionMarker(dir, start)}, typeDims...)

	for p.peek().Text == "[" {
		children = append(children, p.parseDimension())
	}

	if p.accept("=") {
		children = append(children, p.parseExpr(0))
	}

	return p.alloc(ast.KindArgDecl, name, start, children)
}

func (p *Parser) parseProcess() ast.Id {
	start := p.next() // always*/initial/final

	kind := ast.KindAlwaysBlock

	switch start.Text {
	case "initial":
		kind = ast.KindInitialBlock
	case "final":
		kind = ast.KindFinalBlock
	}

	if p.peek().Text == "@" {
		p.skipSensitivity()
	}

	body := p.parseStatementOpaque()

	return p.alloc(kind, symtab.BadSymbolId, start, []ast.Id{body})
}

func (p *Parser) skipSensitivity() {
	p.next() // "@"

	if p.accept("*") {
		return
	}

	if p.peek().Text == "(" {
		p.skipBalanced("(", ")")
	}
}

// parseStatementOpaque consumes one procedural statement (a begin/end
// block, or a single statement up to its terminating `;`) without
// building full control-flow IR, matching design.Statement's
// deliberately thin shape -- the front end re-emits bodies as an opaque
// tree rather than modeling full procedural semantics.
func (p *Parser) parseStatementOpaque() ast.Id {
	start := p.peek()

	if p.accept("begin") {
		p.acceptLabelColon()

		depth := 1

		for !p.atEOF() {
			switch p.peek().Text {
			case "begin":
				depth++
			case "end":
				depth--
			}

			if depth == 0 {
				break
			}

			p.next()
		}

		p.expect("end")

		return p.alloc(ast.KindStatementBlock, symtab.BadSymbolId, start, nil)
	}

	for !p.atEOF() && p.peek().Text != ";" {
		p.next()
	}

	p.accept(";")

	return p.alloc(ast.KindStatementBlock, symtab.BadSymbolId, start, nil)
}

func (p *Parser) acceptLabelColon() {
	if p.peek().Text == ":" {
		p.next()
		p.next()
	}
}

func (p *Parser) parseContAssign() ast.Id {
	start := p.next() // "assign"
	lhs := p.parseExpr(0)
	p.expect("=")
	rhs := p.parseExpr(0)
	p.expect(";")

	return p.alloc(ast.KindContAssign, symtab.BadSymbolId, start, []ast.Id{lhs, rhs})
}

func (p *Parser) parseImport() ast.Id {
	start := p.next() // "import"
	name, _ := p.expectIdent()

	if p.accept("::") {
		if p.peek().Text == "*" {
			p.next()
		} else {
			p.expectIdent()
		}
	}

	for p.accept(",") {
		p.expectIdent()

		if p.accept("::") {
			if p.peek().Text == "*" {
				p.next()
			} else {
				p.expectIdent()
			}
		}
	}

	p.expect(";")

	return p.alloc(ast.KindImportDecl, name, start, nil)
}

func (p *Parser) parseBind() ast.Id {
	start := p.next() // "bind"
	target, _ := p.expectIdent()

	inst := p.parseInstantiation()

	return p.alloc(ast.KindBindDirective, target, start, []ast.Id{inst})
}

func (p *Parser) parseAssertion() ast.Id {
	start := p.next() // assert/property/sequence

	var name symtab.SymbolId

	if start.Text != "assert" {
		name, _ = p.expectIdent()

		if p.peek().Text == "(" {
			p.skipBalanced("(", ")")
		}

		p.expect(";")

		terminator := "endproperty"
		if start.Text == "sequence" {
			terminator = "endsequence"
		}

		for !p.atEOF() && p.peek().Text != terminator {
			p.next()
		}

		p.expect(terminator)

		return p.alloc(ast.KindAssertionDecl, name, start, nil)
	}

	p.accept("property")
	p.skipBalanced("(", ")")

	if p.accept("else") {
		p.parseStatementOpaque()
	} else {
		p.parseStatementOpaque()
	}

	return p.alloc(ast.KindAssertionDecl, symtab.BadSymbolId, start, nil)
}

func (p *Parser) parseInstantiation() ast.Id {
	start := p.peek()
	typeName, _ := p.expectIdent()

	var paramBindings []ast.Id

	if p.accept("#") {
		p.expect("(")

		for !p.atEOF() && p.peek().Text != ")" {
			if p.peek().Text == "," {
				p.next()
				continue
			}

			paramBindings = append(paramBindings, p.parseBinding(ast.KindNamedParamBinding, ast.KindPositionalParamBinding))
		}

		p.expect(")")
	}

	var out []ast.Id

	for {
		instName, ok := p.expectIdent()
		if !ok {
			break
		}

		instTok := p.toks[p.pos-1]

		var dims []ast.Id
		for p.peek().Text == "[" {
			dims = append(dims, p.parseDimension())
		}

		var portBindings []ast.Id

		if p.peek().Text == "(" {
			p.next()

			for !p.atEOF() && p.peek().Text != ")" {
				if p.peek().Text == "," {
					p.next()
					continue
				}

				if p.peek().Text == "." && p.peekAt(1).Text == "*" {
					p.next()
					p.next()
					continue
				}

				portBindings = append(portBindings, p.parseBinding(ast.KindNamedPortBinding, ast.KindPositionalPortBinding))
			}

			p.expect(")")
		}

		// The instance name is recorded as a child identifier marker rather
		// than left on the node's own Symbol, since that gets re-tagged to
		// the type name below for uniform lookup across single- and
		// multi-instance statements.
		nameMarker := p.alloc(ast.KindExprIdentifier, instName, instTok, nil)
		children := append(append(append([]ast.Id{nameMarker}, paramBindings...), portBindings...), dims...)
		out = append(out, p.alloc(ast.KindInstantiation, instName, instTok, children))

		if !p.accept(",") {
			break
		}
	}

	p.expect(";")

	for _, id := range out {
		p.fc.Get(id).Symbol = typeName
	}

	if len(out) == 1 {
		return out[0]
	}

	wrap := p.alloc(ast.KindStatementBlock, typeName, start, out)

	return wrap
}

func (p *Parser) parseBinding(namedKind, positionalKind ast.Kind) ast.Id {
	start := p.peek()

	if p.accept(".") {
		name, _ := p.expectIdent()
		p.expect("(")

		var child ast.Id = ast.NoId
		if p.peek().Text != ")" {
			child = p.parseExpr(0)
		}

		p.expect(")")

		var children []ast.Id
		if child != ast.NoId {
			children = []ast.Id{child}
		}

		return p.alloc(namedKind, name, start, children)
	}

	expr := p.parseExpr(0)

	return p.alloc(positionalKind, symtab.BadSymbolId, start, []ast.Id{expr})
}

// parseGenerateBodyAsBlock parses a sequence of body items up to
// terminator and wraps them in a KindGenerateBlock, used both for
// explicit `generate ... endgenerate` regions and (by reuse) for
// `begin ... end` blocks nested inside for/if/case generate constructs.
func (p *Parser) parseGenerateBodyAsBlock(terminator string) ast.Id {
	start := p.peek()
	items := p.parseBodyItems(terminator)
	p.expect(terminator)

	return p.alloc(ast.KindGenerateBlock, symtab.BadSymbolId, start, items)
}

func (p *Parser) parseGenerateRegionBody() []ast.Id {
	start := p.peek()

	if p.accept("begin") {
		p.acceptLabelColon()

		items := p.parseBodyItems("end")
		p.expect("end")

		return []ast.Id{p.alloc(ast.KindGenerateBlock, symtab.BadSymbolId, start, items)}
	}

	item := p.parseBodyItem()
	if item == ast.NoId {
		return nil
	}

	return []ast.Id{item}
}

func (p *Parser) parseGenerateFor() ast.Id {
	start := p.next() // "for"
	p.expect("(")
	p.accept("genvar")

	genVar, _ := p.expectIdent()
	p.expect("=")
	initExpr := p.parseExpr(0)
	p.expect(";")
	cond := p.parseExpr(0)
	p.expect(";")
	p.expectIdent() // step LHS (same as genVar, re-walked by the step expr)
	p.expect("=")
	step := p.parseExpr(0)
	p.expect(")")

	body := p.parseGenerateRegionBody()

	children := append([]ast.Id{initExpr, cond, step}, body...)
	id := p.alloc(ast.KindGenerateFor, genVar, start, children)

	return id
}

func (p *Parser) parseGenerateIf() ast.Id {
	start := p.next() // "if"
	p.expect("(")
	cond := p.parseExpr(0)
	p.expect(")")

	thenBody := p.parseGenerateRegionBody()
	thenBlock := p.alloc(ast.KindGenerateBlock, symtab.BadSymbolId, start, thenBody)

	children := []ast.Id{cond, thenBlock}

	if p.accept("else") {
		if p.peek().Text == "if" {
			elseId := p.parseGenerateIf()
			children = append(children, elseId)
		} else {
			elseBody := p.parseGenerateRegionBody()
			elseBlock := p.alloc(ast.KindGenerateBlock, symtab.BadSymbolId, start, elseBody)
			children = append(children, elseBlock)
		}
	}

	return p.alloc(ast.KindGenerateIf, symtab.BadSymbolId, start, children)
}

func (p *Parser) parseGenerateCase() ast.Id {
	start := p.next() // "case"
	p.expect("(")
	sel := p.parseExpr(0)
	p.expect(")")

	children := []ast.Id{sel}

	for !p.atEOF() && p.peek().Text != "endcase" {
		if p.accept("default") {
			p.accept(":")
			body := p.parseGenerateRegionBody()
			children = append(children, p.alloc(ast.KindGenerateBlock, symtab.BadSymbolId, p.peek(), body))

			continue
		}

		itemStart := p.peek()
		p.parseExpr(0)

		for p.accept(",") {
			p.parseExpr(0)
		}

		p.expect(":")
		body := p.parseGenerateRegionBody()
		children = append(children, p.alloc(ast.KindGenerateBlock, symtab.BadSymbolId, itemStart, body))
	}

	p.expect("endcase")

	return p.alloc(ast.KindGenerateCase, symtab.BadSymbolId, start, children)
}

// skipBalanced consumes tokens from open to its matching close, assuming
// the cursor sits exactly on open.
func (p *Parser) skipBalanced(open, close string) {
	if p.peek().Text != open {
		return
	}

	depth := 0

	for !p.atEOF() {
		t := p.peek()

		switch t.Text {
		case open:
			depth++
		case close:
			depth--
		}

		p.next()

		if depth == 0 {
			return
		}
	}
}
