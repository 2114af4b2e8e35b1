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

func (w *walker) checkDuplicateSignals(sigs []*design.Signal, loc design.Loc) {
	seen := make(map[symtab.SymbolId]bool, len(sigs))

	for _, s := range sigs {
		if s.Name == symtab.BadSymbolId {
			continue
		}

		if seen[s.Name] {
			w.errAt(loc, diag.IntegrityDuplicateInCollection, "the same signal name is declared twice")
			continue
		}

		seen[s.Name] = true
	}
}

func (w *walker) walkSignals(sigs []*design.Signal) {
	for _, s := range sigs {
		w.walkSignal(s)
	}
}

func (w *walker) walkSignal(sig *design.Signal) {
	if sig.Name == symtab.BadSymbolId {
		w.errAt(sig.Location, diag.IntegrityMissingName, "signal has no name")
	}

	if missingLocation(sig.Location) {
		w.errAt(sig.Location, diag.IntegrityMissingFile, "signal has no source file")
	}

	if sig.Typespec == nil {
		w.errAt(sig.Location, diag.IntegrityNullTypespec, "signal has no typespec")
	} else {
		w.walkTypespec(sig.Typespec)
	}

	for _, d := range sig.Packed {
		w.walkDimension(d)
	}

	for _, d := range sig.Unpacked {
		w.walkDimension(d)
	}

	if sig.Default != nil {
		w.walkExpr(sig.Default)
	}

	if sig.Interface != nil {
		w.walkTypespec(sig.Interface)
	}
}

func (w *walker) walkDimension(d design.Dimension) {
	if d.MSB != nil {
		w.walkExpr(d.MSB)
	}

	if d.LSB != nil {
		w.walkExpr(d.LSB)
	}
}
