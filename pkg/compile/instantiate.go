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

// compileInstantiation converts a KindInstantiation VObject into a
// design.Instantiation. Its Symbol carries the definition's type name
// uniformly (parser.parseInstantiation re-tags it for single- and
// multi-instance statements alike); the instance's own name travels as a
// KindExprIdentifier child instead.
func (c *Compiler) compileInstantiation(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) *design.Instantiation {
	v := fc.Get(id)

	instanceName := symtab.BadSymbolId

	var paramBindings, portBindings []design.ParamOrPortBinding

	var dims []design.Dimension

	for _, ch := range fc.Children(id) {
		cv := fc.Get(ch)

		switch cv.Type {
		case ast.KindExprIdentifier:
			instanceName = cv.Symbol
		case ast.KindNamedParamBinding, ast.KindPositionalParamBinding:
			paramBindings = append(paramBindings, c.compileBinding(fc, ch, scope))
		case ast.KindNamedPortBinding, ast.KindPositionalPortBinding:
			portBindings = append(portBindings, c.compileBinding(fc, ch, scope))
		case ast.KindExprSelect:
			dims = append(dims, c.compileDimension(fc, ch, scope))
		}
	}

	return &design.Instantiation{
		DefinitionName: v.Symbol,
		InstanceName:   instanceName,
		ParamBindings:  paramBindings,
		PortBindings:   portBindings,
		UnpackedDims:   dims,
		Location:       locOf(fc, id),
	}
}

func (c *Compiler) compileBinding(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) design.ParamOrPortBinding {
	v := fc.Get(id)

	name := symtab.BadSymbolId
	if v.Type == ast.KindNamedParamBinding || v.Type == ast.KindNamedPortBinding {
		name = v.Symbol
	}

	var value design.Expr

	if children := fc.Children(id); len(children) > 0 {
		value = c.compileExpr(fc, children[0], scope)
	}

	return design.ParamOrPortBinding{Name: name, Value: value, Location: locOf(fc, id)}
}
