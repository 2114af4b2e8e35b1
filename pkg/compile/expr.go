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

var binaryOpcodes = map[string]design.Opcode{
	"+": design.OpAdd, "-": design.OpSub, "*": design.OpMul, "/": design.OpDiv,
	"%": design.OpMod, "**": design.OpPow,
	"<<": design.OpShl, ">>": design.OpShr, "<<<": design.OpAShl, ">>>": design.OpAShr,
	"<": design.OpLt, "<=": design.OpLe, ">": design.OpGt, ">=": design.OpGe,
	"==": design.OpEq, "!=": design.OpNe, "===": design.OpCaseEq, "!==": design.OpCaseNe,
	"&&": design.OpLogAnd, "||": design.OpLogOr,
	"&": design.OpBitAnd, "|": design.OpBitOr, "^": design.OpBitXor,
	"^~": design.OpBitXnor, "~^": design.OpBitXnor,
}

var unaryOpcodes = map[string]design.Opcode{
	"-": design.OpSub, "!": design.OpLogNot, "~": design.OpBitNot,
	"&": design.OpRedAnd, "|": design.OpRedOr, "^": design.OpRedXor,
	"~&": design.OpRedNand, "~|": design.OpRedNor, "~^": design.OpRedXnor, "^~": design.OpRedXnor,
}

// compileExpr converts one KindExpr* VObject into a design.Expr tree,
// per spec.md section 4.4. scope carries parameters already compiled
// earlier in the same declaration list, so a dimension or default value
// referencing a sibling parameter (spec.md scenario S3) can fold
// immediately instead of waiting for C8/C9.
func (c *Compiler) compileExpr(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) design.Expr {
	if id == ast.NoId {
		return nil
	}

	v := fc.Get(id)

	switch v.Type {
	case ast.KindExprLiteral:
		return &design.Constant{Value: ParseLiteral(c.symbols.Lookup(v.Symbol))}

	case ast.KindExprIdentifier:
		return &design.RefObj{Name: v.Symbol, Location: locOf(fc, id)}

	case ast.KindExprUnary:
		children := fc.Children(id)
		operand := c.compileExpr(fc, children[0], scope)
		op, ok := unaryOpcodes[c.symbols.Lookup(v.Symbol)]

		if !ok {
			// Unary '+' has no semantic effect and is not itself an opcode.
			return operand
		}

		return &design.Operation{Op: op, Operands: []design.Expr{operand}, Location: locOf(fc, id)}

	case ast.KindExprBinary:
		children := fc.Children(id)
		lhs := c.compileExpr(fc, children[0], scope)
		rhs := c.compileExpr(fc, children[1], scope)
		op, ok := binaryOpcodes[c.symbols.Lookup(v.Symbol)]

		if !ok {
			return &design.UnsupportedExpr{Reason: "unrecognized binary operator"}
		}

		return &design.Operation{Op: op, Operands: []design.Expr{lhs, rhs}, Location: locOf(fc, id)}

	case ast.KindExprConditional:
		children := fc.Children(id)
		cond := c.compileExpr(fc, children[0], scope)
		then := c.compileExpr(fc, children[1], scope)
		els := c.compileExpr(fc, children[2], scope)

		return &design.Operation{Op: design.OpConditional, Operands: []design.Expr{cond, then, els}, Location: locOf(fc, id)}

	case ast.KindExprConcat:
		var operands []design.Expr

		for _, child := range fc.Children(id) {
			operands = append(operands, c.compileExpr(fc, child, scope))
		}

		return &design.Operation{Op: design.OpConcat, Operands: operands, Location: locOf(fc, id)}

	case ast.KindExprSelect:
		children := fc.Children(id)
		target := c.compileExpr(fc, children[0], scope)
		high := c.compileExpr(fc, children[1], scope)

		var low design.Expr
		if len(children) > 2 {
			low = c.compileExpr(fc, children[2], scope)
		}

		return &design.Select{Target: target, High: high, Low: low}

	case ast.KindExprHierPath:
		return &design.HierPath{Segments: c.hierSegments(fc, id)}

	case ast.KindExprCall:
		children := fc.Children(id)
		callee := fc.Get(children[0])
		args := make([]design.Expr, 0, len(children)-1)

		for _, a := range children[1:] {
			args = append(args, c.compileExpr(fc, a, scope))
		}

		if callee.Type == ast.KindExprIdentifier {
			return &design.MethodCall{Name: callee.Symbol, Args: args}
		}

		segments := c.hierSegments(fc, children[0])
		target := design.Expr(&design.RefObj{Name: segments[0]})

		return &design.MethodCall{Target: target, Name: segments[len(segments)-1], Args: args}

	default:
		return &design.UnsupportedExpr{Reason: "unrecognized expression node kind"}
	}
}

func (c *Compiler) hierSegments(fc *ast.FileContent, id ast.Id) []symtab.SymbolId {
	v := fc.Get(id)

	if v.Type != ast.KindExprHierPath {
		return []symtab.SymbolId{v.Symbol}
	}

	children := fc.Children(id)
	base := c.hierSegments(fc, children[0])
	member := fc.Get(children[1]).Symbol

	return append(base, member)
}
