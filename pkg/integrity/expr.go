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
package integrity

import (
	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/diag"
)

// walkExpr recurses through an expression tree, checking that every
// by-name reference C8 was responsible for binding (RefObj, MethodCall,
// HierPath) actually carries a non-null Actual, per spec.md section 4.7
// ("unless the node is known to permit late resolution failure" -- a
// reference left null after elaboration is always worth flagging here,
// since C8/C9 already had their chance to bind it and logged their own
// ElabError if they could not).
func (w *walker) walkExpr(e design.Expr) {
	if e == nil {
		return
	}

	switch n := e.(type) {
	case *design.Constant:
		// Leaf; nothing to recurse into or validate further.
	case *design.RefObj:
		if n.Actual == nil {
			w.errAt(n.Location, diag.IntegrityNullActual, "unresolved reference reached the integrity pass")
		}
	case *design.Operation:
		for _, operand := range n.Operands {
			w.walkExpr(operand)
		}
	case *design.MethodCall:
		if n.Actual == nil {
			w.errAt(design.Loc{}, diag.IntegrityNullActual, "unresolved method/function call reached the integrity pass")
		}

		if n.Target != nil {
			w.walkExpr(n.Target)
		}

		for _, arg := range n.Args {
			w.walkExpr(arg)
		}
	case *design.Select:
		w.walkExpr(n.Target)

		if n.High != nil {
			w.walkExpr(n.High)
		}

		if n.Low != nil {
			w.walkExpr(n.Low)
		}
	case *design.HierPath:
		if n.Actual == nil {
			w.errAt(design.Loc{}, diag.IntegrityNullActual, "unresolved hierarchical path reached the integrity pass")
		}
	case *design.TaggedPattern:
		if n.Inner != nil {
			w.walkExpr(n.Inner)
		}
	case *design.AssignmentPattern:
		for _, item := range n.Positional {
			w.walkExpr(item)
		}

		for _, item := range n.Named {
			w.walkExpr(item)
		}
	case *design.UnsupportedExpr:
		// Deliberately emitted by C6/C7 for an AST shape they don't
		// understand; not an integrity violation on its own.
	}
}
