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
package elaborate

import (
	"fmt"

	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/diag"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

func (e *Elaborator) expandGenerates(inst *design.ModuleInstance, gens []*design.GenerateNode, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) {
	for _, g := range gens {
		inst.GenScopes = append(inst.GenScopes, e.expandGenerate(inst, g, values, genvars)...)
	}
}

// expandGenerate implements spec.md section 4.6 step 4: a block emits
// exactly one scope, an if/case emits zero or one (whichever branch's
// condition is true, or the default arm), and a for emits one scope per
// iteration, named "label[index]", with the fixed base "genblk1" when the
// construct carries no label (the parser does not record `begin : name`
// labels, so every for-generate falls back to "genblk1").
func (e *Elaborator) expandGenerate(parent *design.ModuleInstance, g *design.GenerateNode, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) []*design.GenScope {
	switch g.Kind {
	case design.GenerateBlock:
		scope := &design.GenScope{Name: g.Label, Index: -1, Location: g.Location}
		e.expandDeclItems(parent, scope, g.Body, values, genvars)

		return []*design.GenScope{scope}

	case design.GenerateIf:
		return e.expandConditional(parent, g, values, genvars)

	case design.GenerateCase:
		return e.expandCase(parent, g, values, genvars)

	case design.GenerateFor:
		return e.expandFor(parent, g, values, genvars)

	default:
		return nil
	}
}

func (e *Elaborator) expandConditional(parent *design.ModuleInstance, g *design.GenerateNode, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) []*design.GenScope {
	for _, branch := range g.Branches {
		if branch.Condition == nil {
			scope := &design.GenScope{Name: g.Label, Index: -1, Location: g.Location}
			e.expandDeclItems(parent, scope, branch.Body, values, genvars)

			return []*design.GenScope{scope}
		}

		cond := e.foldExpr(branch.Condition, values, genvars)
		if cond.Invalid {
			e.errAt(g.Location, diag.ElabConstExprNotReducible, "generate-if condition is not a constant expression")
			return nil
		}

		if cond.AsBigInt().Sign() != 0 {
			scope := &design.GenScope{Name: g.Label, Index: -1, Location: g.Location}
			e.expandDeclItems(parent, scope, branch.Body, values, genvars)

			return []*design.GenScope{scope}
		}
	}

	return nil
}

func (e *Elaborator) expandCase(parent *design.ModuleInstance, g *design.GenerateNode, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) []*design.GenScope {
	sel := e.foldExpr(g.Condition, values, genvars)
	if sel.Invalid {
		e.errAt(g.Location, diag.ElabConstExprNotReducible, "generate-case selector is not a constant expression")
		return nil
	}

	var defaultBranch *design.GenerateBranch

	for i := range g.Branches {
		branch := &g.Branches[i]

		if branch.Condition == nil {
			defaultBranch = branch
			continue
		}

		item := e.foldExpr(branch.Condition, values, genvars)
		if item.Invalid {
			e.errAt(g.Location, diag.ElabConstExprNotReducible, "generate-case item is not a constant expression")
			continue
		}

		if item.AsBigInt().Cmp(sel.AsBigInt()) == 0 {
			scope := &design.GenScope{Name: g.Label, Index: -1, Location: g.Location}
			e.expandDeclItems(parent, scope, branch.Body, values, genvars)

			return []*design.GenScope{scope}
		}
	}

	if defaultBranch != nil {
		scope := &design.GenScope{Name: g.Label, Index: -1, Location: g.Location}
		e.expandDeclItems(parent, scope, defaultBranch.Body, values, genvars)

		return []*design.GenScope{scope}
	}

	return nil
}

func (e *Elaborator) expandFor(parent *design.ModuleInstance, g *design.GenerateNode, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) []*design.GenScope {
	init := e.foldExpr(g.Init, values, genvars)
	if init.Invalid {
		e.errAt(g.Location, diag.ElabConstExprNotReducible, "generate-for initial value is not a constant expression")
		return nil
	}

	label := g.Label
	if label == symtab.BadSymbolId {
		label = e.symbols.Register("genblk1")
	}

	baseName := e.symbols.Lookup(label)

	idx := init.AsBigInt().Int64()

	// A `begin ... end` body is the iteration's own scope, not a nested one.
	body := g.Body
	if len(body) == 1 && body[0].Generate != nil && body[0].Generate.Kind == design.GenerateBlock {
		body = body[0].Generate.Body
	}

	var scopes []*design.GenScope

	for iterations := 0; iterations < maxGenerateIterations; iterations++ {
		loopGenvars := cloneGenvars(genvars)
		loopGenvars[g.GenVar] = idx

		cond := e.foldExpr(g.Condition, values, loopGenvars)
		if cond.Invalid {
			e.errAt(g.Location, diag.ElabConstExprNotReducible, "generate-for condition is not a constant expression")
			break
		}

		if cond.AsBigInt().Sign() == 0 {
			break
		}

		scope := &design.GenScope{
			Name:     e.symbols.Register(fmt.Sprintf("%s[%d]", baseName, idx)),
			Index:    idx,
			Location: g.Location,
		}
		e.expandDeclItems(parent, scope, body, values, loopGenvars)
		scopes = append(scopes, scope)

		step := e.foldExpr(g.Step, values, loopGenvars)
		if step.Invalid {
			e.errAt(g.Location, diag.ElabConstExprNotReducible, "generate-for step is not a constant expression")
			break
		}

		idx = step.AsBigInt().Int64()
	}

	return scopes
}

func cloneGenvars(genvars map[symtab.SymbolId]int64) map[symtab.SymbolId]int64 {
	out := make(map[symtab.SymbolId]int64, len(genvars)+1)
	for k, v := range genvars {
		out[k] = v
	}

	return out
}

func (e *Elaborator) expandDeclItems(parent *design.ModuleInstance, scope *design.GenScope, items []design.DeclarationItem, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) {
	for _, item := range items {
		switch {
		case item.Signal != nil:
			scope.Signals = append(scope.Signals, e.foldSignalDims(item.Signal, values, genvars))
		case item.Instantiation != nil:
			if child := e.expandOne(parent, item.Instantiation, values, genvars); child != nil {
				scope.Children = append(scope.Children, child)
			}
		case item.Generate != nil:
			scope.Nested = append(scope.Nested, e.expandGenerate(parent, item.Generate, values, genvars)...)
		}
	}
}

// foldSignalDims returns a per-iteration copy of sig with its packed and
// unpacked dimensions folded to literal constants, needed because a
// `for`-generate body is compiled once and re-expanded per iteration: the
// same *design.Signal would otherwise be aliased across every GenScope,
// leaving no way to tell one iteration's `w` from another's (spec.md
// scenario S6's "each with w's msb equal to i"). When no genvar is active
// (a plain block/if/case scope), sig is returned unchanged since there is
// nothing iteration-specific to fold.
func (e *Elaborator) foldSignalDims(sig *design.Signal, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) *design.Signal {
	if len(genvars) == 0 {
		return sig
	}

	clone := *sig
	clone.Packed = e.foldDimensions(sig.Packed, values, genvars)
	clone.Unpacked = e.foldDimensions(sig.Unpacked, values, genvars)

	return &clone
}

func (e *Elaborator) foldDimensions(dims []design.Dimension, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) []design.Dimension {
	if dims == nil {
		return nil
	}

	out := make([]design.Dimension, len(dims))

	for i, d := range dims {
		out[i] = design.Dimension{
			MSB: e.foldedExprNode(d.MSB, values, genvars),
			LSB: e.foldedExprNode(d.LSB, values, genvars),
		}
	}

	return out
}

func (e *Elaborator) foldedExprNode(expr design.Expr, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) design.Expr {
	if expr == nil {
		return nil
	}

	v := e.foldExpr(expr, values, genvars)
	if v.Invalid {
		return expr
	}

	return &design.Constant{Value: v}
}
