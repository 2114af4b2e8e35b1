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

// compileContAssign converts a KindContAssign VObject into a
// design.ContAssign.
func (c *Compiler) compileContAssign(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) *design.ContAssign {
	children := fc.Children(id)

	var lhs, rhs design.Expr

	if len(children) > 0 {
		lhs = c.compileExpr(fc, children[0], scope)
	}

	if len(children) > 1 {
		rhs = c.compileExpr(fc, children[1], scope)
	}

	return &design.ContAssign{LHS: lhs, RHS: rhs, Location: locOf(fc, id)}
}

// compileProcess converts a KindAlwaysBlock/KindInitialBlock/KindFinalBlock
// VObject into a design.Process. The procedural body is re-emitted as an
// opaque Statement tree (design.Statement's deliberately thin shape),
// matching parser.parseStatementOpaque's choice not to model full
// control-flow semantics for this subset.
func (c *Compiler) compileProcess(fc *ast.FileContent, id ast.Id) *design.Process {
	v := fc.Get(id)

	kind := design.ProcessAlways

	switch v.Type {
	case ast.KindInitialBlock:
		kind = design.ProcessInitial
	case ast.KindFinalBlock:
		kind = design.ProcessFinal
	}

	var body []design.Statement

	for _, ch := range fc.Children(id) {
		body = append(body, c.compileStatement(fc, ch))
	}

	return &design.Process{Kind: kind, Body: body, Location: locOf(fc, id)}
}

func (c *Compiler) compileStatement(fc *ast.FileContent, id ast.Id) design.Statement {
	v := fc.Get(id)

	var children []design.Statement

	for _, ch := range fc.Children(id) {
		children = append(children, c.compileStatement(fc, ch))
	}

	return design.Statement{Kind: v.Type, Children: children, Location: locOf(fc, id)}
}
