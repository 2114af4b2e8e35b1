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
package preprocess

import (
	"strings"
	"testing"

	"github.com/Apotell/surelog-core/pkg/source"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

type mapLoader map[string]string

func (m mapLoader) Read(path string) (string, bool) {
	t, ok := m[path]
	return t, ok
}

func (m mapLoader) Locate(name string, includePaths []string) (string, bool) {
	if _, ok := m[name]; ok {
		return name, true
	}

	for _, dir := range includePaths {
		candidate := dir + "/" + name
		if _, ok := m[candidate]; ok {
			return candidate, true
		}
	}

	return "", false
}

func TestConditionalIfdefTakesFoo(t *testing.T) {
	loader := mapLoader{
		"a.sv": "`define FOO\n`ifdef FOO\nmodule m; endmodule\n`else\nmodule n; endmodule\n`endif\n",
	}

	symbols := symtab.New()
	cu := NewCompilationUnit(nil)
	p := New(loader, symbols, cu, Config{})

	res, errs := p.Run("a.sv", symbols.RegisterPath("a.sv"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if !strings.Contains(res.Text, "module m; endmodule") {
		t.Fatalf("expected module m retained, got: %q", res.Text)
	}

	if strings.Contains(res.Text, "module n; endmodule") {
		t.Fatalf("expected module n dropped, got: %q", res.Text)
	}
}

func TestRecursiveIncludeDiagnostic(t *testing.T) {
	loader := mapLoader{
		"a.sv": "`include \"b.sv\"\n",
		"b.sv": "`include \"a.sv\"\n",
	}

	symbols := symtab.New()
	cu := NewCompilationUnit(nil)
	p := New(loader, symbols, cu, Config{})

	_, errs := p.Run("a.sv", symbols.RegisterPath("a.sv"))

	var recursive int

	for _, e := range errs {
		if e.Kind == ErrRecursiveInclude {
			recursive++
		}
	}

	if recursive != 1 {
		t.Fatalf("expected exactly 1 recursive include diagnostic, got %d: %v", recursive, errs)
	}
}

func TestParametricMacroExpansion(t *testing.T) {
	loader := mapLoader{
		"a.sv": "`define ADD(a, b) ((a) + (b))\nwire [7:0] x = `ADD(1, 2);\n",
	}

	symbols := symtab.New()
	cu := NewCompilationUnit(nil)
	p := New(loader, symbols, cu, Config{})

	res, errs := p.Run("a.sv", symbols.RegisterPath("a.sv"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if !strings.Contains(res.Text, "((1) + (2))") {
		t.Fatalf("expected macro expansion, got: %q", res.Text)
	}
}

func TestMacroRecursionDetected(t *testing.T) {
	loader := mapLoader{
		"a.sv": "`define FOO `FOO\n`FOO\n",
	}

	symbols := symtab.New()
	cu := NewCompilationUnit(nil)
	p := New(loader, symbols, cu, Config{})

	_, errs := p.Run("a.sv", symbols.RegisterPath("a.sv"))

	var recursion int

	for _, e := range errs {
		if e.Kind == ErrMacroRecursion {
			recursion++
		}
	}

	if recursion == 0 {
		t.Fatalf("expected macro recursion diagnostic, got: %v", errs)
	}
}

func TestMissingArgumentsFatalDiagnostic(t *testing.T) {
	loader := mapLoader{
		"a.sv": "`define ADD(a, b) ((a) + (b))\nwire x = `ADD;\n",
	}

	symbols := symtab.New()
	cu := NewCompilationUnit(nil)
	p := New(loader, symbols, cu, Config{})

	_, errs := p.Run("a.sv", symbols.RegisterPath("a.sv"))

	found := false

	for _, e := range errs {
		if e.Kind == ErrMacroArityMismatch {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected arity-mismatch diagnostic when parens are missing, got: %v", errs)
	}
}

func TestLineCountPreserved(t *testing.T) {
	loader := mapLoader{
		"a.sv": "`define FOO\nmodule m;\n`ifdef FOO\nwire a;\n`endif\nendmodule\n",
	}

	symbols := symtab.New()
	cu := NewCompilationUnit(nil)
	p := New(loader, symbols, cu, Config{})

	res, errs := p.Run("a.sv", symbols.RegisterPath("a.sv"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	srcLines := strings.Count(loader["a.sv"], "\n")
	outLines := strings.Count(res.Text, "\n")

	if srcLines != outLines {
		t.Fatalf("expected line count preserved: src=%d out=%d", srcLines, outLines)
	}
}

func TestOriginMapResolvesIncludedLineToIncludedFile(t *testing.T) {
	loader := mapLoader{
		"a.sv": "module m;\n`include \"b.sv\"\nendmodule\n",
		"b.sv": "wire x;\nwire y;\n",
	}

	symbols := symtab.New()
	cu := NewCompilationUnit(nil)
	p := New(loader, symbols, cu, Config{})

	aId := symbols.RegisterPath("a.sv")
	res, errs := p.Run("a.sv", aId)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	bId := symbols.RegisterPath("b.sv")

	// Output line 1 is "module m;", a direct pass-through of a.sv.
	loc := res.OriginMap.Lookup(1, 1)
	if loc.File != aId {
		t.Fatalf("expected line 1 to resolve to a.sv, got path id %d", loc.File)
	}

	// Output line 2 is b.sv's "wire x;", the first line of the included
	// region -- it must resolve to b.sv, not a.sv or the `include line.
	loc = res.OriginMap.Lookup(2, 1)
	if loc.File != bId {
		t.Fatalf("expected line 2 to resolve to b.sv, got path id %d", loc.File)
	}

	if loc.Span.Start.Line != 1 {
		t.Fatalf("expected line 2 to resolve to b.sv's line 1, got line %d", loc.Span.Start.Line)
	}

	// Output line 4 ("endmodule") is back in a.sv, after the include.
	loc = res.OriginMap.Lookup(4, 1)
	if loc.File != aId {
		t.Fatalf("expected line 4 to resolve back to a.sv, got path id %d", loc.File)
	}
}

func TestOriginMapResolvesMacroExpansionToInvocationSite(t *testing.T) {
	loader := mapLoader{
		"a.sv": "`define ADD(a, b) ((a) + (b))\nwire [7:0] x = `ADD(1, 2);\n",
	}

	symbols := symtab.New()
	cu := NewCompilationUnit(nil)
	p := New(loader, symbols, cu, Config{})

	aId := symbols.RegisterPath("a.sv")
	res, errs := p.Run("a.sv", aId)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	// Output line 2 is the macro invocation line; it should still resolve
	// to a.sv line 2 (the invocation site), not some synthetic position.
	loc := res.OriginMap.Lookup(2, 1)
	if loc.File != aId || loc.Span.Start.Line != 2 {
		t.Fatalf("expected macro-expansion line to resolve to a.sv:2, got path id %d line %d",
			loc.File, loc.Span.Start.Line)
	}

	var macroPush int

	for _, e := range res.OriginMap.Entries {
		if e.Context == source.ContextMacro {
			macroPush++
		}
	}

	if macroPush == 0 {
		t.Fatalf("expected at least one PushMacro entry, got none")
	}
}

func TestUnterminatedConditional(t *testing.T) {
	loader := mapLoader{"a.sv": "`ifdef FOO\nmodule m; endmodule\n"}

	symbols := symtab.New()
	cu := NewCompilationUnit(nil)
	p := New(loader, symbols, cu, Config{})

	_, errs := p.Run("a.sv", symbols.RegisterPath("a.sv"))

	found := false

	for _, e := range errs {
		if e.Kind == ErrUnterminatedConditional {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected unterminated conditional diagnostic, got: %v", errs)
	}
}
