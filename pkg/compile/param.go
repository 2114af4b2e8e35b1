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

func isTypespecKind(k ast.Kind) bool {
	switch k {
	case ast.KindTypespecRef, ast.KindTypespecPacked, ast.KindTypespecEnum, ast.KindTypespecStruct:
		return true
	default:
		return false
	}
}

// compileParameter converts a KindParamDecl VObject into a
// design.Parameter, folding its default value immediately against scope
// (spec.md scenario S3). A `parameter type` declaration's single child is
// a typespec node rather than an expression; the node kind alone
// distinguishes the two, since the parser does not tag isType onto the
// VObject.
func (c *Compiler) compileParameter(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) *design.Parameter {
	v := fc.Get(id)
	children := fc.Children(id)

	p := &design.Parameter{Name: v.Symbol, Location: locOf(fc, id)}

	if len(children) == 0 {
		p.Value = design.InvalidValue()
		return p
	}

	if isTypespecKind(fc.Get(children[0]).Type) {
		p.IsType = true
		p.TypeDefault = c.compileTypespec(fc, children[0], scope)

		return p
	}

	p.Default = c.compileExpr(fc, children[0], scope)
	p.Value = ConstantFold(p.Default, scope)

	return p
}
