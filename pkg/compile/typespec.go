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

var primitiveKinds = map[string]design.TypespecKind{
	"logic": design.TSLogic, "reg": design.TSLogic, "wire": design.TSLogic,
	"bit": design.TSBit, "int": design.TSInt, "integer": design.TSInteger,
	"byte": design.TSByte, "shortint": design.TSShortInt, "longint": design.TSLongInt,
	"real": design.TSReal, "shortreal": design.TSShortReal, "string": design.TSString,
	"chandle": design.TSChandle, "void": design.TSVoid, "time": design.TSTime,
}

// compileTypespec converts a KindTypespecRef/Packed/Enum/Struct VObject
// into a design.Typespec, per spec.md section 4.4's typespec rules. A
// name this front end doesn't recognize as a builtin becomes a
// TypedefAlias for pkg/resolve (C8) to bind later -- this pass never
// fails hard on an unknown type name.
func (c *Compiler) compileTypespec(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) design.Typespec {
	v := fc.Get(id)

	switch v.Type {
	case ast.KindTypespecEnum:
		return c.compileEnumTypespec(fc, id, scope)
	case ast.KindTypespecStruct:
		return c.compileStructTypespec(fc, id, scope)
	case ast.KindTypespecPacked:
		return c.compilePackedTypespec(fc, id, scope)
	case ast.KindTypespecRef:
		name := c.symbols.Lookup(v.Symbol)

		if tk, ok := primitiveKinds[name]; ok {
			return &design.Primitive{TKind: tk}
		}

		return &design.TypedefAlias{Name: v.Symbol}
	default:
		return &design.Unsupported{Reason: "unrecognized typespec node kind"}
	}
}

func (c *Compiler) compilePackedTypespec(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) design.Typespec {
	v := fc.Get(id)
	name := c.symbols.Lookup(v.Symbol)

	dims := fc.Children(id)
	if len(dims) == 0 {
		if tk, ok := primitiveKinds[name]; ok {
			return &design.Primitive{TKind: tk}
		}

		return &design.TypedefAlias{Name: v.Symbol}
	}

	// The outermost dimension is the innermost-declared one in source
	// order for a single-range packed type (`logic [7:0]`); multiple
	// packed dimensions (`logic [1:0][7:0]`) nest as Array-of-Primitive.
	msb, lsb := c.evalDimensionBounds(fc, dims[0], scope)

	tk := design.TSLogic
	if pk, ok := primitiveKinds[name]; ok {
		tk = pk
	}

	elem := design.Typespec(&design.Primitive{TKind: tk, MSB: msb, LSB: lsb})

	for _, extra := range dims[1:] {
		hi, lo := c.evalDimensionBounds(fc, extra, scope)
		elem = &design.Array{Element: elem, Packed: true, MSB: hi, LSB: lo}
	}

	return elem
}

// evalDimensionBounds folds a dimension node's bounds to plain int64s for
// the common case of constant dimensions (spec.md scenario S3); a bound
// that does not fold to a constant yet (e.g. it depends on a
// not-yet-elaborated parameter) is recorded as 0, matching the
// front-end's "best effort before elaboration" stance -- C9 re-derives
// final dimensions once every parameter is bound.
func (c *Compiler) evalDimensionBounds(fc *ast.FileContent, dimId ast.Id, scope map[symtab.SymbolId]*design.Parameter) (int64, int64) {
	children := fc.Children(dimId)
	if len(children) == 0 {
		return 0, 0
	}

	hiExpr := c.compileExpr(fc, children[0], scope)
	hi := ConstantFold(hiExpr, scope)

	if len(children) == 1 {
		return int64(hi.Bits), int64(hi.Bits)
	}

	loExpr := c.compileExpr(fc, children[1], scope)
	lo := ConstantFold(loExpr, scope)

	return int64(hi.Bits), int64(lo.Bits)
}

func (c *Compiler) compileEnumTypespec(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) design.Typespec {
	enum := &design.Enum{BaseType: &design.Primitive{TKind: design.TSInt}}

	next := design.NewUnsigned(0, 32)

	for _, memberId := range fc.Children(id) {
		m := fc.Get(memberId)

		val := next

		if exprChildren := fc.Children(memberId); len(exprChildren) > 0 {
			val = ConstantFold(c.compileExpr(fc, exprChildren[0], scope), scope)
		}

		enum.Members = append(enum.Members, design.EnumMember{Name: m.Symbol, Value: val})
		next = design.NewUnsigned(val.Bits+1, 32)
	}

	return enum
}

func (c *Compiler) compileStructTypespec(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) design.Typespec {
	v := fc.Get(id)
	s := &design.Struct{Union: v.Symbol == c.symbols.Register("union"), Packed: true}

	for _, memberId := range fc.Children(id) {
		m := fc.Get(memberId)

		var memberType design.Typespec = &design.Primitive{TKind: design.TSLogic}

		s.Members = append(s.Members, design.StructMember{Name: m.Symbol, Typespec: memberType})
	}

	return s
}
