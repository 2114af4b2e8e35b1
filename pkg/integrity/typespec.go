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

// isPrimitiveKind reports whether kind needs no Instance() context --
// spec.md section 4.7's "every typespec reachable from the design has a
// valid instance or is a primitive" names this exemption explicitly.
func isPrimitiveKind(kind design.TypespecKind) bool {
	switch kind {
	case design.TSLogic, design.TSBit, design.TSInt, design.TSShortInt,
		design.TSLongInt, design.TSByte, design.TSInteger, design.TSTime,
		design.TSReal, design.TSShortReal, design.TSString, design.TSChandle,
		design.TSVoid:
		return true
	default:
		return false
	}
}

// walkTypespec recurses through a typespec tree, checking that every
// non-primitive kind carries a valid Instance() and that no reachable
// typespec is nil or an unsupported placeholder left from a compile-time
// shape the type compiler could not classify.
func (w *walker) walkTypespec(ts design.Typespec) {
	if ts == nil {
		w.errAt(design.Loc{}, diag.IntegrityNullTypespec, "nil typespec reached the integrity pass")
		return
	}

	if w.seenTypespec[ts] {
		return
	}

	w.seenTypespec[ts] = true

	if !isPrimitiveKind(ts.Kind()) && ts.Instance() == nil {
		switch ts.Kind() {
		case design.TSClass, design.TSInterface, design.TSModule, design.TSTypedefAlias, design.TSImport:
			w.errAt(design.Loc{}, diag.IntegrityInvalidTypespecLoc, "typespec has no valid enclosing instance")
		}
	}

	switch n := ts.(type) {
	case *design.Primitive:
		// Leaf; MSB/LSB are plain integers, nothing further to recurse.
	case *design.Enum:
		if n.BaseType != nil {
			w.walkTypespec(n.BaseType)
		}
	case *design.Struct:
		for _, m := range n.Members {
			w.walkTypespec(m.Typespec)
		}
	case *design.Array:
		w.walkTypespec(n.Element)
	case *design.ClassRef:
		if n.Definition == nil {
			w.errAt(design.Loc{}, diag.IntegrityNullActual, "unresolved class reference reached the integrity pass")
		}

		for _, arg := range n.TypeArgs {
			w.walkTypespec(arg)
		}
	case *design.InterfaceRef:
		if n.Definition == nil {
			w.errAt(design.Loc{}, diag.IntegrityNullActual, "unresolved interface reference reached the integrity pass")
		}
	case *design.ModuleRef:
		if n.Definition == nil {
			w.errAt(design.Loc{}, diag.IntegrityNullActual, "unresolved module reference reached the integrity pass")
		}
	case *design.TypedefAlias:
		if n.Actual == nil {
			w.errAt(design.Loc{}, diag.IntegrityNullActual, "unresolved typedef alias reached the integrity pass")
		} else {
			w.walkTypespec(n.Actual)
		}
	case *design.ImportRef:
		if n.Actual == nil {
			w.errAt(design.Loc{}, diag.IntegrityNullActual, "unresolved package import reached the integrity pass")
		} else {
			w.walkTypespec(n.Actual)
		}
	case *design.Unsupported:
		w.errAt(design.Loc{}, diag.IntegrityUnsupportedTypespec, "unsupported typespec reached the integrity pass: "+n.Reason)
	}
}
