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
package source

import (
	"testing"

	"github.com/Apotell/surelog-core/pkg/symtab"
)

func TestLookupPassesThroughUnmarkedLines(t *testing.T) {
	m := NewMap(symtab.PathId(1))
	m.MarkLine(1, -1)

	loc := m.Lookup(1, 5)
	if loc.File != symtab.PathId(1) || loc.Span.Start.Line != 1 || loc.Span.Start.Column != 5 {
		t.Fatalf("expected a pass-through line to resolve unchanged, got %+v", loc)
	}
}

func TestLookupResolvesIncludeRegionToIncludedFile(t *testing.T) {
	outer := symtab.PathId(1)
	included := symtab.PathId(2)

	m := NewMap(outer)
	m.MarkLine(1, -1) // a one-line preamble in the outer file

	pushIdx := m.PushInclude(included, 2, outer, 1, 9)
	m.MarkLine(2, pushIdx)
	m.MarkLine(3, pushIdx)
	m.Pop(pushIdx, 1, 20)

	m.MarkLine(4, -1) // resumes the outer file after the include

	loc := m.Lookup(2, 3)
	if loc.File != included || loc.Span.Start.Line != 1 || loc.Span.Start.Column != 3 {
		t.Fatalf("expected line 2 to resolve to included file line 1, got %+v", loc)
	}

	loc = m.Lookup(3, 1)
	if loc.File != included || loc.Span.Start.Line != 2 {
		t.Fatalf("expected line 3 to resolve to included file line 2, got %+v", loc)
	}

	loc = m.Lookup(4, 1)
	if loc.File != outer {
		t.Fatalf("expected line 4 to resolve back to the outer file, got %+v", loc)
	}
}

func TestLookupResolvesMacroExpansionToInvocationSite(t *testing.T) {
	outer := symtab.PathId(1)
	name := symtab.SymbolId(7)

	m := NewMap(outer)

	pushIdx := m.PushMacro(name, 1, outer, 5, 10)
	m.Pop(pushIdx, 5, 30)
	m.MarkLine(1, pushIdx)

	loc := m.Lookup(1, 4)
	if loc.File != outer || loc.Span.Start.Line != 5 || loc.Span.Start.Column != 14 {
		t.Fatalf("expected the expansion's only line to resolve to the invocation site, got %+v", loc)
	}
}
