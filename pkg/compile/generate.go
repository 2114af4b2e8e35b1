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

// compileDeclarationItems converts a flat list of body-item VObjects
// (the shape both a component body and a generate block share) into the
// tagged DeclarationItem union design.GenerateNode bodies use.
func (c *Compiler) compileDeclarationItems(fc *ast.FileContent, ids []ast.Id, scope map[symtab.SymbolId]*design.Parameter) []design.DeclarationItem {
	var items []design.DeclarationItem

	for _, id := range ids {
		v := fc.Get(id)

		switch v.Type {
		case ast.KindNetDecl:
			items = append(items, design.DeclarationItem{Signal: c.compileSignal(fc, id, false, scope)})

		case ast.KindStatementBlock:
			for _, sub := range fc.Children(id) {
				switch fc.Get(sub).Type {
				case ast.KindNetDecl:
					items = append(items, design.DeclarationItem{Signal: c.compileSignal(fc, sub, false, scope)})
				case ast.KindInstantiation:
					items = append(items, design.DeclarationItem{Instantiation: c.compileInstantiation(fc, sub, scope)})
				}
			}

		case ast.KindInstantiation:
			items = append(items, design.DeclarationItem{Instantiation: c.compileInstantiation(fc, id, scope)})

		case ast.KindContAssign:
			items = append(items, design.DeclarationItem{ContAssign: c.compileContAssign(fc, id, scope)})

		case ast.KindAlwaysBlock, ast.KindInitialBlock, ast.KindFinalBlock:
			items = append(items, design.DeclarationItem{Process: c.compileProcess(fc, id)})

		case ast.KindGenerateBlock, ast.KindGenerateFor, ast.KindGenerateIf, ast.KindGenerateCase:
			items = append(items, design.DeclarationItem{Generate: c.compileGenerate(fc, id, scope)})

		case ast.KindBindDirective:
			items = append(items, design.DeclarationItem{Bind: c.compileBind(fc, id, scope)})

		case ast.KindAssertionDecl:
			items = append(items, design.DeclarationItem{Assertion: c.compileAssertion(fc, id, scope)})
		}
	}

	return items
}

// compileGenerate converts a KindGenerateBlock/For/If/Case VObject into a
// design.GenerateNode, the unelaborated scaffolding C9 re-walks once loop
// bounds and branch conditions fold to known constants.
func (c *Compiler) compileGenerate(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) *design.GenerateNode {
	v := fc.Get(id)

	switch v.Type {
	case ast.KindGenerateBlock:
		return &design.GenerateNode{
			Kind:     design.GenerateBlock,
			Body:     c.compileDeclarationItems(fc, fc.Children(id), scope),
			Location: locOf(fc, id),
		}

	case ast.KindGenerateFor:
		children := fc.Children(id)
		if len(children) < 3 {
			return &design.GenerateNode{Kind: design.GenerateFor, GenVar: v.Symbol, Location: locOf(fc, id)}
		}

		return &design.GenerateNode{
			Kind:      design.GenerateFor,
			GenVar:    v.Symbol,
			Init:      c.compileExpr(fc, children[0], scope),
			Condition: c.compileExpr(fc, children[1], scope),
			Step:      c.compileExpr(fc, children[2], scope),
			Body:      c.compileDeclarationItems(fc, children[3:], scope),
			Location:  locOf(fc, id),
		}

	case ast.KindGenerateIf:
		children := fc.Children(id)
		if len(children) < 2 {
			return &design.GenerateNode{Kind: design.GenerateIf, Location: locOf(fc, id)}
		}

		branches := []design.GenerateBranch{{
			Condition: c.compileExpr(fc, children[0], scope),
			Body:      c.compileGenerateBranchBody(fc, children[1], scope),
		}}

		if len(children) > 2 {
			branches = append(branches, c.compileElseBranches(fc, children[2], scope)...)
		}

		return &design.GenerateNode{Kind: design.GenerateIf, Branches: branches, Location: locOf(fc, id)}

	case ast.KindGenerateCase:
		children := fc.Children(id)
		if len(children) == 0 {
			return &design.GenerateNode{Kind: design.GenerateCase, Location: locOf(fc, id)}
		}

		sel := c.compileExpr(fc, children[0], scope)

		var branches []design.GenerateBranch

		for _, b := range children[1:] {
			branches = append(branches, design.GenerateBranch{Body: c.compileGenerateBranchBody(fc, b, scope)})
		}

		return &design.GenerateNode{Kind: design.GenerateCase, Condition: sel, Branches: branches, Location: locOf(fc, id)}

	default:
		return &design.GenerateNode{Location: locOf(fc, id)}
	}
}

func (c *Compiler) compileGenerateBranchBody(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) []design.DeclarationItem {
	if fc.Get(id).Type == ast.KindGenerateBlock {
		return c.compileDeclarationItems(fc, fc.Children(id), scope)
	}

	return c.compileDeclarationItems(fc, []ast.Id{id}, scope)
}

// compileElseBranches flattens an `else if` chain into a single Branches
// list, matching parser.parseGenerateIf's right-nested representation.
func (c *Compiler) compileElseBranches(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) []design.GenerateBranch {
	if fc.Get(id).Type == ast.KindGenerateIf {
		children := fc.Children(id)
		if len(children) < 2 {
			return nil
		}

		branches := []design.GenerateBranch{{
			Condition: c.compileExpr(fc, children[0], scope),
			Body:      c.compileGenerateBranchBody(fc, children[1], scope),
		}}

		if len(children) > 2 {
			branches = append(branches, c.compileElseBranches(fc, children[2], scope)...)
		}

		return branches
	}

	return []design.GenerateBranch{{Body: c.compileGenerateBranchBody(fc, id, scope)}}
}

// compileBind converts a KindBindDirective VObject into a
// design.BindDirective.
func (c *Compiler) compileBind(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) *design.BindDirective {
	v := fc.Get(id)

	instanceName := symtab.BadSymbolId

	var bindings []design.ParamOrPortBinding

	if children := fc.Children(id); len(children) > 0 {
		inst := c.compileInstantiation(fc, children[0], scope)
		instanceName = inst.InstanceName
		bindings = append(bindings, inst.ParamBindings...)
		bindings = append(bindings, inst.PortBindings...)
	}

	return &design.BindDirective{
		TargetName:   v.Symbol,
		InstanceName: instanceName,
		Bindings:     bindings,
		Location:     locOf(fc, id),
	}
}

// compileAssertion converts a KindAssertionDecl VObject into a
// design.AssertionDecl. The front end only models assertions
// structurally (spec.md section 4.3 names these without formal semantics);
// the parser does not preserve which of assert/property/sequence produced
// an unnamed immediate assertion, so Body stays nil and the
// property/sequence flags are left for a named declaration to refine.
func (c *Compiler) compileAssertion(fc *ast.FileContent, id ast.Id, scope map[symtab.SymbolId]*design.Parameter) *design.AssertionDecl {
	_ = scope

	v := fc.Get(id)

	return &design.AssertionDecl{
		Name:       v.Symbol,
		IsProperty: v.Symbol != symtab.BadSymbolId,
		Location:   locOf(fc, id),
	}
}
