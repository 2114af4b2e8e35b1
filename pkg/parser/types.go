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
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// parseTypespec parses a typespec reference: a builtin vector/integer
// type with optional packed dimensions and signing, a user-defined type
// name (possibly package-qualified), or an inline enum/struct/union
// declaration. It returns a KindTypespecRef/Packed/Enum/Struct node.
func (p *Parser) parseTypespec() ast.Id {
	start := p.peek()

	switch p.peek().Text {
	case "enum":
		return p.parseEnumTypespec()
	case "struct", "union":
		return p.parseStructTypespec()
	}

	var name symtab.SymbolId

	switch {
	case IsKeyword(p.peek().Text):
		name = p.symbols.Register(p.next().Text)
	case p.peek().Kind == TokIdent:
		name, _ = p.expectIdent()

		for p.accept("::") {
			_, _ = p.expectIdent()
		}
	default:
		name = symtab.BadSymbolId
	}

	if p.accept("signed") || p.accept("unsigned") {
	}

	var dims []ast.Id
	for p.peek().Text == "[" {
		dims = append(dims, p.parseDimension())
	}

	if len(dims) == 0 {
		return p.alloc(ast.KindTypespecRef, name, start, nil)
	}

	return p.alloc(ast.KindTypespecPacked, name, start, dims)
}

func (p *Parser) parseEnumTypespec() ast.Id {
	start := p.next() // "enum"

	if p.peek().Text != "{" {
		p.parseTypespec()
	}

	p.expect("{")

	var members []ast.Id

	for !p.atEOF() && p.peek().Text != "}" {
		if p.peek().Text == "," {
			p.next()
			continue
		}

		name, ok := p.expectIdent()
		if !ok {
			p.next()
			continue
		}

		mtok := p.toks[p.pos-1]

		var children []ast.Id

		if p.accept("=") {
			children = append(children, p.parseExpr(0))
		}

		members = append(members, p.alloc(ast.KindParamAssignment, name, mtok, children))
	}

	p.expect("}")

	return p.alloc(ast.KindTypespecEnum, symtab.BadSymbolId, start, members)
}

func (p *Parser) parseStructTypespec() ast.Id {
	start := p.next() // "struct"/"union"
	kw := p.symbols.Register(start.Text)
	p.accept("packed")
	p.accept("signed")
	p.accept("unsigned")
	p.expect("{")

	var members []ast.Id

	for !p.atEOF() && p.peek().Text != "}" {
		member := p.parseNetOrVarDecl()
		if member != ast.NoId {
			members = append(members, member)
		}
	}

	p.expect("}")

	return p.alloc(ast.KindTypespecStruct, kw, start, members)
}
