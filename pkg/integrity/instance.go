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
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// walkInstance checks one ModuleInstance's own required fields against
// the parent it was reached from (nil for a top module), then recurses
// into its children and generate scopes, and finally checks the
// component definition it instantiates (once per distinct definition).
func (w *walker) walkInstance(inst *design.ModuleInstance, parent *design.ModuleInstance) {
	if inst.Name == symtab.BadSymbolId {
		w.errAt(inst.Location, diag.IntegrityMissingName, "instance has no name")
	}

	if missingLocation(inst.Location) {
		w.errAt(inst.Location, diag.IntegrityMissingFile, "instance has no source file")
	}

	if inst.Parent != parent {
		w.errAt(inst.Location, diag.IntegrityMissingParent, "instance's recorded parent does not match the tree it was reached through")
	}

	if inst.Definition == nil {
		w.errAt(inst.Location, diag.IntegrityNullActual, "instance has no resolved definition")
	}

	w.checkDuplicateInstances(inst.Children, inst.Location)

	for _, child := range inst.Children {
		w.walkInstance(child, inst)
	}

	for _, scope := range inst.GenScopes {
		w.walkGenScope(scope, inst)
	}

	if inst.Definition != nil && !w.seen[inst.Definition] {
		w.seen[inst.Definition] = true
		w.walkComponent(inst.Definition)
	}
}

// walkGenScope checks a generate scope's own fields, then recurses into
// its children instances, nested generate scopes, and the
// dimension-folded signals synthesized per iteration.
func (w *walker) walkGenScope(scope *design.GenScope, parent *design.ModuleInstance) {
	if missingLocation(scope.Location) {
		w.errAt(scope.Location, diag.IntegrityMissingFile, "generate scope has no source file")
	}

	w.checkDuplicateInstances(scope.Children, scope.Location)
	w.checkDuplicateSignals(scope.Signals, scope.Location)

	for _, child := range scope.Children {
		w.walkInstance(child, parent)
	}

	for _, nested := range scope.Nested {
		w.walkGenScope(nested, parent)
	}

	for _, sig := range scope.Signals {
		w.walkSignal(sig)
	}
}

func (w *walker) checkDuplicateInstances(children []*design.ModuleInstance, loc design.Loc) {
	seen := make(map[*design.ModuleInstance]bool, len(children))

	for _, c := range children {
		if seen[c] {
			w.errAt(loc, diag.IntegrityDuplicateInCollection, "the same instance appears twice in its parent's children")
			continue
		}

		seen[c] = true
	}
}
