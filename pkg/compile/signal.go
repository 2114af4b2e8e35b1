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
package compile

import (
	"github.com/Apotell/surelog-core/pkg/ast"
	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

var directionText = map[string]design.Direction{
	"input":  design.DirInput,
	"output": design.DirOutput,
	"inout":  design.DirInout,
	"ref":    design.DirRef,
}

// compileSignal converts a KindPortDecl/KindArgDecl/KindNetDecl VObject
// into a design.Signal. The three node kinds share the same child shape
// (a direction marker, zero or more dimension nodes, an optional default
// expression), so one function serves a module port, a subroutine
// argument, and a plain net/variable declaration alike.
func (c *Compiler) compileSignal(fc *ast.FileContent, id ast.Id, isPort bool, scope map[symtab.SymbolId]*design.Parameter) *design.Signal {
	v := fc.Get(id)

	direction := design.DirNone

	var dims []design.Dimension

	var defaultExpr design.Expr

	for _, ch := range fc.Children(id) {
		cv := fc.Get(ch)

		switch cv.Type {
		case ast.KindDirectionMarker:
			direction = directionText[c.symbols.Lookup(cv.Symbol)]
		case ast.KindExprSelect:
			dims = append(dims, c.compileDimension(fc, ch, scope))
		default:
			defaultExpr = c.compileExpr(fc, ch, scope)
		}
	}

	return &design.Signal{
		Name:      v.Symbol,
		Direction: direction,
		// The declared net/variable kind keyword (wire/reg/logic/tri/...) is
		// consumed by the parser's skipOptTypespec and not preserved on the
		// node; every declared signal defaults to logic, matching the most
		// common case in modern SystemVerilog sources.
		NetType:  design.NetLogic,
		Packed:   dims,
		Default:  defaultExpr,
		Typespec: &design.Primitive{TKind: design.TSLogic},
		Location: locOf(fc, id),
		IsPort:   isPort,
	}
}

// compileDimension folds a KindExprSelect dimension node (built by
// parser.parseDimension) into a design.Dimension. A single-bound
// dimension (`[W]`) repeats its bound as both MSB and LSB.
func (c *Compiler) compileDimension(fc *ast.FileContent, dimId ast.Id, scope map[symtab.SymbolId]*design.Parameter) design.Dimension {
	children := fc.Children(dimId)
	if len(children) == 0 {
		return design.Dimension{}
	}

	hi := c.compileExpr(fc, children[0], scope)

	lo := hi
	if len(children) > 1 {
		lo = c.compileExpr(fc, children[1], scope)
	}

	return design.Dimension{MSB: hi, LSB: lo}
}
