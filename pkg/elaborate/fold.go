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
	"github.com/Apotell/surelog-core/pkg/compile"
	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// foldExpr evaluates expr to a constant design.Value using the C7 folder,
// wiring values (an instance's already-resolved parameter values) and
// genvars (the `for`-generate iterators active at this point) through
// synthetic Parameter entries keyed by name -- the same mechanism C7 uses
// for a declaration list referencing an earlier sibling parameter, just
// populated from elaboration state instead of document order. Folding by
// name rather than through RefObj.Actual is deliberate: C8 resolved every
// reference against the unelaborated definition, so a RefObj.Actual
// pointer never reflects a clone's overridden Parameter -- a fresh
// name-keyed scope does.
func (e *Elaborator) foldExpr(expr design.Expr, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) design.Value {
	return compile.ConstantFold(expr, buildFoldScope(values, genvars))
}

func buildFoldScope(values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) map[symtab.SymbolId]*design.Parameter {
	scope := make(map[symtab.SymbolId]*design.Parameter, len(values)+len(genvars))

	for name, v := range values {
		scope[name] = &design.Parameter{Name: name, Default: &design.Constant{Value: v}}
	}

	for name, idx := range genvars {
		scope[name] = &design.Parameter{Name: name, Default: &design.Constant{Value: design.NewUnsigned(uint64(idx), 32)}}
	}

	return scope
}

// typespecFromExpr recovers the Typespec a type-parameter override
// expression resolved to during C8 -- it is compiled as a plain
// identifier reference, so the only shape worth unwrapping is a RefObj
// whose Actual already landed on a Typespec (a typedef name) via the
// resolver's component-local lookup.
func typespecFromExpr(expr design.Expr) (design.Typespec, bool) {
	ref, ok := expr.(*design.RefObj)
	if !ok {
		return nil, false
	}

	ts, ok := ref.Actual.(design.Typespec)

	return ts, ok
}
